// Package display implements the CHIP-8 monochrome pixel surface.
package display

import (
	"strings"

	"github.com/cespare/xxhash"
)

const (
	// Width is the number of pixel columns.
	Width = 64
	// Height is the number of pixel rows.
	Height = 32
)

// Framebuffer is a 64x32 pixel grid with XOR toggle semantics.
// It is written by the interpreter and read by frontends on the same
// goroutine between ticks.
type Framebuffer struct {
	pixels [Width * Height]bool
	dirty  bool
}

// New returns a cleared framebuffer.
func New() *Framebuffer {
	return &Framebuffer{}
}

// TogglePixel flips the pixel at (x mod Width, y mod Height) and returns the
// pixel state after the flip. A false result means a lit pixel was erased.
func (f *Framebuffer) TogglePixel(x, y int) bool {
	i := index(x, y)
	f.pixels[i] = !f.pixels[i]
	f.dirty = true
	return f.pixels[i]
}

// Clear turns all pixels off.
func (f *Framebuffer) Clear() {
	f.pixels = [Width * Height]bool{}
	f.dirty = true
}

// Pixel returns the state of the pixel at (x mod Width, y mod Height).
func (f *Framebuffer) Pixel(x, y int) bool {
	return f.pixels[index(x, y)]
}

// Pixels returns a copy of the frame, row major.
func (f *Framebuffer) Pixels() [Width * Height]bool {
	return f.pixels
}

// Dirty reports whether the frame changed since the last call and resets
// the flag.
func (f *Framebuffer) Dirty() bool {
	dirty := f.dirty
	f.dirty = false
	return dirty
}

// Bytes returns the frame packed as one byte per pixel, 0 or 1, row major.
func (f *Framebuffer) Bytes() []byte {
	buf := make([]byte, Width*Height)
	for i, on := range f.pixels {
		if on {
			buf[i] = 1
		}
	}
	return buf
}

// Checksum returns the xxhash of the packed frame, usable to detect frame
// changes and to compare frames against known good results.
func (f *Framebuffer) Checksum() uint64 {
	return xxhash.Sum64(f.Bytes())
}

// String renders the frame as text, one line per row, '#' for lit pixels.
func (f *Framebuffer) String() string {
	var sb strings.Builder
	sb.Grow((Width + 1) * Height)
	for y := range Height {
		for x := range Width {
			if f.Pixel(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func index(x, y int) int {
	x %= Width
	if x < 0 {
		x += Width
	}
	y %= Height
	if y < 0 {
		y += Height
	}
	return y*Width + x
}
