package display

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestTogglePixel(t *testing.T) {
	f := New()

	assert.True(t, f.TogglePixel(3, 4))
	assert.True(t, f.Pixel(3, 4))
	assert.False(t, f.TogglePixel(3, 4))
	assert.False(t, f.Pixel(3, 4))
}

func TestTogglePixel_Wraps(t *testing.T) {
	tests := []struct {
		name  string
		x, y  int
		wantX int
		wantY int
	}{
		{"x wraps", Width + 2, 1, 2, 1},
		{"y wraps", 5, Height + 3, 5, 3},
		{"both wrap", Width*2 + 1, Height*3 + 1, 1, 1},
		{"negative", -1, -1, Width - 1, Height - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New()
			assert.True(t, f.TogglePixel(tt.x, tt.y))
			assert.True(t, f.Pixel(tt.wantX, tt.wantY))
		})
	}
}

func TestClear_Idempotent(t *testing.T) {
	fresh := New()

	f := New()
	f.TogglePixel(0, 0)
	f.TogglePixel(63, 31)
	f.Clear()
	assert.Equal(t, fresh.Checksum(), f.Checksum())

	f.Clear()
	assert.True(t, fresh.Pixels() == f.Pixels())
}

func TestDirty(t *testing.T) {
	f := New()
	assert.False(t, f.Dirty())

	f.TogglePixel(1, 1)
	assert.True(t, f.Dirty())
	assert.False(t, f.Dirty())

	f.Clear()
	assert.True(t, f.Dirty())
}

func TestChecksum_ChangesWithFrame(t *testing.T) {
	f := New()
	empty := f.Checksum()

	f.TogglePixel(10, 10)
	assert.True(t, empty != f.Checksum())

	f.TogglePixel(10, 10)
	assert.Equal(t, empty, f.Checksum())
}

func TestString(t *testing.T) {
	f := New()
	f.TogglePixel(0, 0)
	f.TogglePixel(Width-1, Height-1)

	lines := strings.Split(strings.TrimSuffix(f.String(), "\n"), "\n")
	assert.Len(t, lines, Height)
	assert.Equal(t, "#"+strings.Repeat(".", Width-1), lines[0])
	assert.Equal(t, strings.Repeat(".", Width-1)+"#", lines[Height-1])
}

func TestWritePNG(t *testing.T) {
	f := New()
	f.TogglePixel(1, 0)

	var buf bytes.Buffer
	assert.NoError(t, f.WritePNG(&buf, 4))

	img, err := png.Decode(&buf)
	assert.NoError(t, err)
	assert.Equal(t, Width*4, img.Bounds().Dx())
	assert.Equal(t, Height*4, img.Bounds().Dy())

	r, _, _, _ := img.At(5, 2).RGBA()
	assert.Equal(t, uint32(0xFFFF), r)
	r, _, _, _ = img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), r)
}
