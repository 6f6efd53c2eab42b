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

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestFramebuffer(t *testing.T) {
	fb := NewFramebuffer(8, 4)

	assert.Len(t, fb.Pixels, 32)
	assert.Equal(t, 32, fb.Pitch())

	assert.False(t, fb.Toggle(2, 1))
	assert.True(t, fb.At(2, 1))
	assert.Equal(t, PixelOn, fb.Pixels[1*8+2])

	assert.True(t, fb.Toggle(2, 1))
	assert.False(t, fb.At(2, 1))
	assert.Equal(t, PixelOff, fb.Pixels[1*8+2])

	// off the grid is clipped
	assert.False(t, fb.Toggle(8, 0))
	assert.False(t, fb.Toggle(0, 4))
	assert.False(t, fb.Toggle(-1, 0))
	assert.False(t, fb.At(8, 0))
	assert.Equal(t, 0, fb.Lit())

	fb.Toggle(0, 0)
	fb.Toggle(7, 3)
	assert.Equal(t, 2, fb.Lit())

	fb.Clear()
	assert.Equal(t, 0, fb.Lit())
}

func TestFramebufferRows(t *testing.T) {
	vm := newTestVM(t, 0x6003, 0x6102, 0xA050, 0xD015)
	steps(t, vm, 4)

	fb := vm.Video
	stride := fb.Pitch() / 4
	assert.Equal(t, DefaultWidth, stride)

	for _, c := range fb.Pixels {
		assert.True(t, c == PixelOn || c == PixelOff)
	}

	// the top two rows of the 0 glyph, F0 and 90, at 3, 2
	for x, on := range []bool{true, true, true, true} {
		assert.Equal(t, on, fb.Pixels[2*stride+3+x] == PixelOn)
	}
	for x, on := range []bool{true, false, false, true} {
		assert.Equal(t, on, fb.Pixels[3*stride+3+x] == PixelOn)
	}
	assert.Equal(t, PixelOff, fb.Pixels[2*stride+7])
	assert.Equal(t, 14, fb.Lit())
}

func TestDraw(t *testing.T) {
	// draw the glyph for 0 at 1,2
	vm := newTestVM(t, 0xF029, 0x6101, 0x6202, 0xD125)
	steps(t, vm, 4)

	assert.Equal(t, byte(0), vm.V[0xF])
	assert.Equal(t, 14, vm.Video.Lit())

	for row, bits := range font[:FontGlyphSize] {
		for col := 0; col < 8; col++ {
			want := bits&(0x80>>col) != 0
			assert.Equal(t, want, vm.Video.At(1+col, 2+row))
		}
	}
}

func TestDrawTwiceErases(t *testing.T) {
	for d := uint16(0); d < 16; d++ {
		vm := newTestVM(t, 0x6000|d, 0xF029, 0x6107, 0x620B, 0xD125, 0xD125)
		steps(t, vm, 5)

		assert.Equal(t, byte(0), vm.V[0xF])
		lit := vm.Video.Lit()
		assert.True(t, lit > 0)

		steps(t, vm, 1)
		assert.Equal(t, byte(1), vm.V[0xF])
		assert.Equal(t, 0, vm.Video.Lit())
	}
}

func TestDrawNothing(t *testing.T) {
	vm := newTestVM(t, 0x6F01, 0xD000)
	steps(t, vm, 2)

	assert.Equal(t, byte(0), vm.V[0xF])
	assert.Equal(t, 0, vm.Video.Lit())
}

func TestDrawClipsAndWraps(t *testing.T) {
	vm := New(WithSeed(1), WithLogger(log.NewTestLogger(t)))
	vm.I = 0x300
	vm.Memory[0x300] = 0xFF
	vm.Memory[0x301] = 0xFF

	// a sprite starting past the edges wraps its origin to 2,1
	vm.V[0], vm.V[1] = 64+2, 32+1
	exec(t, vm, 0xD012)

	assert.Equal(t, 16, vm.Video.Lit())
	assert.True(t, vm.Video.At(2, 1))
	assert.True(t, vm.Video.At(9, 2))

	vm.Video.Clear()

	// a sprite overlapping the bottom right corner is clipped
	vm.V[0], vm.V[1] = 60, 31
	exec(t, vm, 0xD012)

	assert.Equal(t, 4, vm.Video.Lit())
	assert.True(t, vm.Video.At(63, 31))
	assert.False(t, vm.Video.At(0, 0))
	assert.False(t, vm.Video.At(0, 31))
	assert.Equal(t, byte(0), vm.V[0xF])
}

func TestDrawResolution(t *testing.T) {
	vm := New(WithSeed(1), WithLogger(log.NewTestLogger(t)), WithResolution(16, 16))
	vm.I = GlyphAddress(8)

	vm.V[0], vm.V[1] = 14, 20
	exec(t, vm, 0xD015)

	// origin wraps to 14,4 and columns past 15 are clipped
	assert.True(t, vm.Video.At(14, 4))
	assert.True(t, vm.Video.At(15, 4))
	assert.Equal(t, 2+1+2+1+2, vm.Video.Lit())
}

func TestKeypad(t *testing.T) {
	var keys Keypad

	_, ok := keys.Pressed()
	assert.False(t, ok)

	keys.Press(0x9)
	keys.Press(0x4)
	keys.Press(KeyCount)

	k, ok := keys.Pressed()
	assert.True(t, ok)
	assert.Equal(t, byte(0x4), k)

	keys.Release(0x4)
	keys.Release(KeyCount + 3)

	k, ok = keys.Pressed()
	assert.True(t, ok)
	assert.Equal(t, byte(0x9), k)
}

func TestBoundsError(t *testing.T) {
	err := &BoundsError{Kind: StackOverflow, PC: 0x2AE, Address: 16}

	assert.Equal(t, "stack overflow at #02AE (#0010)", err.Error())
	assert.Equal(t, "key out of range", KeyRange.String())
}
