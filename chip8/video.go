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

package chip8

const (
	/// PixelOn and PixelOff are the values stored for lit and unlit
	/// pixels. They match a 32-bit pixel format directly, so the buffer
	/// can be uploaded to a texture as is.
	///
	PixelOn  uint32 = 0xFFFFFFFF
	PixelOff uint32 = 0
)

/// Framebuffer is a Width x Height grid of pixels stored row by row.
///
type Framebuffer struct {
	Width  int
	Height int
	Pixels []uint32
}

/// NewFramebuffer creates a cleared framebuffer.
///
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]uint32, width*height),
	}
}

/// Pitch is the length of one row in bytes.
///
func (fb *Framebuffer) Pitch() int {
	return 4 * fb.Width
}

/// Clear turns every pixel off.
///
func (fb *Framebuffer) Clear() {
	for i := range fb.Pixels {
		fb.Pixels[i] = PixelOff
	}
}

/// At is true if the pixel at x, y is on. Coordinates outside the grid
/// are always off.
///
func (fb *Framebuffer) At(x, y int) bool {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return false
	}

	return fb.Pixels[y*fb.Width+x] == PixelOn
}

/// Toggle flips the pixel at x, y and returns true if it was on (a
/// collision). Coordinates outside the grid are clipped.
///
func (fb *Framebuffer) Toggle(x, y int) bool {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return false
	}

	p := &fb.Pixels[y*fb.Width+x]
	on := *p == PixelOn

	*p ^= PixelOn

	return on
}

/// Lit counts the pixels that are on.
///
func (fb *Framebuffer) Lit() int {
	n := 0

	for _, p := range fb.Pixels {
		if p == PixelOn {
			n++
		}
	}

	return n
}
