package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/retrochip8/internal/display"
)

const (
	ansiHome       = "\x1b[H"
	ansiClear      = "\x1b[2J"
	ansiHideCursor = "\x1b[?25l"
	ansiShowCursor = "\x1b[?25h"
)

// Frame is the read only view of the display used for rendering.
type Frame interface {
	Pixels() [display.Width * display.Height]bool
	Checksum() uint64
}

// Renderer draws frames with ANSI escape sequences. Two pixel rows are
// combined into one line of half block characters.
type Renderer struct {
	out      io.Writer
	checksum uint64
	drawn    bool
}

// NewRenderer returns a renderer writing to out.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Render draws the frame unless it is unchanged since the last call.
func (r *Renderer) Render(frame Frame) error {
	checksum := frame.Checksum()
	if r.drawn && checksum == r.checksum {
		return nil
	}

	prefix := ansiHome
	if !r.drawn {
		prefix = ansiHideCursor + ansiClear + ansiHome
	}
	if _, err := io.WriteString(r.out, prefix+encode(frame.Pixels())); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}

	r.checksum = checksum
	r.drawn = true
	return nil
}

// Close restores the cursor.
func (r *Renderer) Close() error {
	if !r.drawn {
		return nil
	}
	_, err := io.WriteString(r.out, ansiShowCursor+"\r\n")
	return err
}

// encode returns the frame as text lines terminated by CR LF, as the
// terminal is in raw mode.
func encode(pixels [display.Width * display.Height]bool) string {
	var sb strings.Builder
	for y := 0; y < display.Height; y += 2 {
		for x := range display.Width {
			top := pixels[y*display.Width+x]
			bottom := pixels[(y+1)*display.Width+x]
			switch {
			case top && bottom:
				sb.WriteString("█")
			case top:
				sb.WriteString("▀")
			case bottom:
				sb.WriteString("▄")
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteString("\r\n")
	}
	return sb.String()
}
