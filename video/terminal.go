/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

package video

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/massung/chip8-interp/chip8"
	"golang.org/x/term"
)

// Terminal prints framebuffers as text. On a terminal two rows of pixels
// are packed into each line with half block characters, otherwise plain
// ASCII is written one row per line.
type Terminal struct {
	w io.Writer

	// blocks selects half block output.
	blocks bool

	// columns is the widest line written, 0 for no limit.
	columns int
}

// NewTerminal creates a Terminal writing to f, inspecting it to decide
// how to draw.
func NewTerminal(f *os.File) *Terminal {
	fd := int(f.Fd())

	if !term.IsTerminal(fd) {
		return &Terminal{w: f}
	}

	t := &Terminal{w: f, blocks: true}

	if width, _, err := term.GetSize(fd); err == nil && width > 0 {
		t.columns = width
	}

	return t
}

// NewASCIITerminal creates a Terminal that writes plain ASCII to w.
func NewASCIITerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

// Render writes the framebuffer.
func (t *Terminal) Render(fb *chip8.Framebuffer) error {
	out := bufio.NewWriter(t.w)

	width := fb.Width
	if t.columns > 0 && width > t.columns {
		width = t.columns
	}

	if t.blocks {
		for y := 0; y < fb.Height; y += 2 {
			for x := 0; x < width; x++ {
				_, _ = out.WriteString(halfBlock(fb.At(x, y), fb.At(x, y+1)))
			}

			_ = out.WriteByte('\n')
		}
	} else {
		for y := 0; y < fb.Height; y++ {
			for x := 0; x < width; x++ {
				c := byte('.')
				if fb.At(x, y) {
					c = '#'
				}

				_ = out.WriteByte(c)
			}

			_ = out.WriteByte('\n')
		}
	}

	if err := out.Flush(); err != nil {
		return fmt.Errorf("writing framebuffer: %w", err)
	}

	return nil
}

func halfBlock(top, bottom bool) string {
	switch {
	case top && bottom:
		return "█"
	case top:
		return "▀"
	case bottom:
		return "▄"
	}

	return " "
}
