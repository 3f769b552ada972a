package display

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// Image returns the frame as a grayscale image scaled by the given factor.
func (f *Framebuffer) Image(scale int) *image.Gray {
	if scale < 1 {
		scale = 1
	}

	src := image.NewGray(image.Rect(0, 0, Width, Height))
	for y := range Height {
		for x := range Width {
			if f.pixels[y*Width+x] {
				src.SetGray(x, y, color.Gray{Y: 0xFF})
			}
		}
	}
	if scale == 1 {
		return src
	}

	dst := image.NewGray(image.Rect(0, 0, Width*scale, Height*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// WritePNG encodes the frame scaled by the given factor as PNG.
func (f *Framebuffer) WritePNG(w io.Writer, scale int) error {
	if err := png.Encode(w, f.Image(scale)); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}
