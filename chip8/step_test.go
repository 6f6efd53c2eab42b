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
	"errors"
	"fmt"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

// exec runs a single instruction at ProgramStart against the current state.
func exec(t *testing.T, vm *VM, word uint16) {
	t.Helper()

	vm.Memory[ProgramStart] = byte(word >> 8)
	vm.Memory[ProgramStart+1] = byte(word)
	vm.PC = ProgramStart

	assert.NoError(t, vm.Step(Keypad{}))
}

func TestScenarioLoadAndAdd(t *testing.T) {
	vm := newTestVM(t, 0x6005, 0x7003)
	steps(t, vm, 2)

	assert.Equal(t, byte(8), vm.V[0])
	assert.Equal(t, byte(0), vm.V[0xF])
	assert.Equal(t, uint16(ProgramStart+4), vm.PC)
	assert.Equal(t, uint64(2), vm.Cycles)
}

func TestScenarioClear(t *testing.T) {
	vm := newTestVM(t, 0x00E0)

	for i := range vm.Video.Pixels {
		if i%3 == 0 {
			vm.Video.Pixels[i] = PixelOn
		}
	}

	steps(t, vm, 1)
	assert.Equal(t, 0, vm.Video.Lit())
}

func TestAddRegisters(t *testing.T) {
	vm := newTestVM(t)

	for _, r := range [][2]byte{{0, 1}, {3, 3}, {0xE, 0x2}, {5, 0xF}} {
		x, y := r[0], r[1]
		word := 0x8004 | uint16(x)<<8 | uint16(y)<<4

		for a := 0; a < 256; a += 3 {
			for b := 0; b < 256; b += 5 {
				vm.V[x] = byte(a)
				vm.V[y] = byte(b)
				sum := int(vm.V[x]) + int(vm.V[y])

				exec(t, vm, word)

				assert.Equal(t, byte(sum), vm.V[x])
				if y != 0xF {
					assert.Equal(t, flag(sum > 255), vm.V[0xF])
				}
			}
		}
	}
}

func TestResultTargetWins(t *testing.T) {
	tests := []struct {
		name   string
		word   uint16
		vf     byte
		vy     byte
		result byte
	}{
		{"add carry", 0x8F14, 0xFF, 0x02, 0x01},
		{"add no carry", 0x8F14, 0x01, 0x02, 0x03},
		{"sub no borrow", 0x8F15, 0x05, 0x02, 0x03},
		{"sub borrow", 0x8F15, 0x01, 0x02, 0xFF},
		{"subn", 0x8F17, 0x01, 0x02, 0x01},
		{"subn borrow", 0x8F17, 0x05, 0x02, 0xFD},
		{"shr", 0x8F06, 0x03, 0x00, 0x01},
		{"shr even", 0x8F06, 0x40, 0x00, 0x20},
		{"shl", 0x8F0E, 0x40, 0x00, 0x80},
		{"shl carry", 0x8F0E, 0xC1, 0x00, 0x82},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestVM(t)
			vm.V[0xF], vm.V[1] = tt.vf, tt.vy

			exec(t, vm, tt.word)

			assert.Equal(t, tt.result, vm.V[0xF])
		})
	}
}

func TestSubtract(t *testing.T) {
	vm := newTestVM(t)

	for a := 0; a < 256; a += 7 {
		for b := 0; b < 256; b += 11 {
			vm.V[1], vm.V[2] = byte(a), byte(b)
			exec(t, vm, 0x8125)

			assert.Equal(t, byte(a-b), vm.V[1])
			assert.Equal(t, flag(a > b), vm.V[0xF])

			vm.V[1], vm.V[2] = byte(a), byte(b)
			exec(t, vm, 0x8127)

			assert.Equal(t, byte(b-a), vm.V[1])
			assert.Equal(t, flag(b > a), vm.V[0xF])
		}
	}
}

func TestShifts(t *testing.T) {
	vm := newTestVM(t)

	for x := byte(0); x < 0xF; x++ {
		for a := 0; a < 256; a++ {
			vm.V[x] = byte(a)
			exec(t, vm, 0x8006|uint16(x)<<8)

			assert.Equal(t, byte(a&1), vm.V[0xF])
			assert.Equal(t, byte(a>>1), vm.V[x])

			vm.V[x] = byte(a)
			exec(t, vm, 0x800E|uint16(x)<<8)

			assert.Equal(t, byte(a>>7), vm.V[0xF])
			assert.Equal(t, byte(a<<1), vm.V[x])
		}
	}
}

func TestLogic(t *testing.T) {
	vm := newTestVM(t)

	tests := []struct {
		word uint16
		want byte
	}{
		{0x8120, 0x0F},
		{0x8121, 0x3F},
		{0x8122, 0x0C},
		{0x8123, 0x33},
	}

	for _, tt := range tests {
		vm.V[1], vm.V[2], vm.V[0xF] = 0x3C, 0x0F, 0x77
		exec(t, vm, tt.word)

		assert.Equal(t, tt.want, vm.V[1])
		assert.Equal(t, byte(0x77), vm.V[0xF])
	}
}

func TestAddByteWraps(t *testing.T) {
	vm := newTestVM(t)
	vm.V[3], vm.V[0xF] = 0xFE, 0

	exec(t, vm, 0x7305)

	assert.Equal(t, byte(0x03), vm.V[3])
	assert.Equal(t, byte(0), vm.V[0xF])
}

func TestJump(t *testing.T) {
	for _, nnn := range []uint16{0x000, 0x200, 0x202, 0xABC, 0xFFF} {
		vm := newTestVM(t)
		vm.PC = 0x300
		vm.Memory[0x300] = 0x10 | byte(nnn>>8)
		vm.Memory[0x301] = byte(nnn)

		steps(t, vm, 1)
		assert.Equal(t, nnn, vm.PC)
	}
}

func TestJumpV0(t *testing.T) {
	vm := newTestVM(t, 0xB300)
	vm.V[0] = 0x12

	steps(t, vm, 1)
	assert.Equal(t, uint16(0x312), vm.PC)
}

func TestCallReturn(t *testing.T) {
	vm := newTestVM(t, 0x6001, 0x2300)
	vm.Memory[0x300] = 0x00
	vm.Memory[0x301] = 0xEE

	steps(t, vm, 2)
	assert.Equal(t, uint16(0x300), vm.PC)
	assert.Equal(t, uint16(1), vm.SP)
	assert.Equal(t, uint16(ProgramStart+4), vm.Stack[0])

	steps(t, vm, 1)
	assert.Equal(t, uint16(ProgramStart+4), vm.PC)
	assert.Equal(t, uint16(0), vm.SP)
}

func TestSkips(t *testing.T) {
	tests := []struct {
		name string
		word uint16
		v1   byte
		v2   byte
		skip bool
	}{
		{"SE byte taken", 0x3142, 0x42, 0, true},
		{"SE byte not taken", 0x3142, 0x41, 0, false},
		{"SNE byte taken", 0x4142, 0x41, 0, true},
		{"SNE byte not taken", 0x4142, 0x42, 0, false},
		{"SE reg taken", 0x5120, 7, 7, true},
		{"SE reg not taken", 0x5120, 7, 8, false},
		{"SNE reg taken", 0x9120, 7, 8, true},
		{"SNE reg not taken", 0x9120, 7, 7, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestVM(t, tt.word)
			vm.V[1], vm.V[2] = tt.v1, tt.v2

			steps(t, vm, 1)

			want := uint16(ProgramStart + 2)
			if tt.skip {
				want += 2
			}

			assert.Equal(t, want, vm.PC)
		})
	}
}

func TestKeySkips(t *testing.T) {
	var keys Keypad
	keys.Press(0xA)

	vm := newTestVM(t, 0xE19E, 0xE19E)
	vm.V[1] = 0xA

	assert.NoError(t, vm.Step(keys))
	assert.Equal(t, uint16(ProgramStart+4), vm.PC)

	vm = newTestVM(t, 0xE1A1)
	vm.V[1] = 0xA

	assert.NoError(t, vm.Step(keys))
	assert.Equal(t, uint16(ProgramStart+2), vm.PC)

	vm = newTestVM(t, 0xE1A1)
	vm.V[1] = 0xB

	assert.NoError(t, vm.Step(keys))
	assert.Equal(t, uint16(ProgramStart+4), vm.PC)
}

func TestWaitKey(t *testing.T) {
	vm := newTestVM(t, 0x6A05, 0xF30A, 0x6401)
	vm.DT = 3

	steps(t, vm, 1)
	pc := vm.PC

	// no key, the wait holds in place but timers still count
	steps(t, vm, 1)
	assert.Equal(t, pc, vm.PC)
	assert.Equal(t, byte(1), vm.DT)

	steps(t, vm, 1)
	assert.Equal(t, pc, vm.PC)
	assert.Equal(t, byte(0), vm.V[3])

	var keys Keypad
	keys.Press(0xC)
	keys.Press(0x7)

	assert.NoError(t, vm.Step(keys))
	assert.Equal(t, pc+2, vm.PC)
	assert.Equal(t, byte(0x7), vm.V[3])

	steps(t, vm, 1)
	assert.Equal(t, byte(1), vm.V[4])
}

func TestTimers(t *testing.T) {
	vm := newTestVM(t, 0x6003, 0xF015, 0xF018, 0xF107, 0x1208)

	steps(t, vm, 2)
	assert.Equal(t, byte(2), vm.DT)
	assert.Equal(t, byte(0), vm.ST)

	steps(t, vm, 1)
	assert.Equal(t, byte(1), vm.DT)
	assert.Equal(t, byte(2), vm.ST)

	steps(t, vm, 1)
	assert.Equal(t, byte(1), vm.V[1])
	assert.Equal(t, byte(0), vm.DT)
	assert.Equal(t, byte(1), vm.ST)

	// never below zero
	steps(t, vm, 5)
	assert.Equal(t, byte(0), vm.DT)
	assert.Equal(t, byte(0), vm.ST)
}

func TestIndex(t *testing.T) {
	vm := newTestVM(t, 0xA123, 0x61FF, 0xF11E)
	steps(t, vm, 3)

	assert.Equal(t, uint16(0x222), vm.I)
	assert.Equal(t, byte(0), vm.V[0xF])
}

func TestFontAddress(t *testing.T) {
	vm := newTestVM(t)

	for d := byte(0); d < 16; d++ {
		vm.V[2] = d
		exec(t, vm, 0xF229)

		assert.Equal(t, uint16(FontAddress)+uint16(d)*FontGlyphSize, vm.I)
		assert.Equal(t, font[int(d)*FontGlyphSize], vm.Memory[vm.I])
	}
}

func TestBCD(t *testing.T) {
	vm := newTestVM(t)
	vm.I = 0x300

	vm.V[5] = 234
	exec(t, vm, 0xF533)
	assert.Equal(t, []byte{2, 3, 4}, vm.Memory[0x300:0x303])

	for v := 0; v < 256; v++ {
		vm.V[5] = byte(v)
		exec(t, vm, 0xF533)

		assert.Equal(t, []byte{byte(v / 100), byte(v / 10 % 10), byte(v % 10)}, vm.Memory[0x300:0x303])
		assert.Equal(t, uint16(0x300), vm.I)
	}
}

func TestStoreLoadRegisters(t *testing.T) {
	vm := newTestVM(t)
	vm.I = 0x400

	for i := range vm.V {
		vm.V[i] = byte(i * 3)
	}

	exec(t, vm, 0xF455)
	assert.Equal(t, []byte{0, 3, 6, 9, 12, 0}, vm.Memory[0x400:0x406])
	assert.Equal(t, uint16(0x400), vm.I)

	vm.V = [RegisterCount]byte{}
	vm.Memory[0x400] = 0xAA
	exec(t, vm, 0xF265)

	assert.Equal(t, byte(0xAA), vm.V[0])
	assert.Equal(t, byte(3), vm.V[1])
	assert.Equal(t, byte(6), vm.V[2])
	assert.Equal(t, byte(0), vm.V[3])
	assert.Equal(t, uint16(0x400), vm.I)
}

func TestRandom(t *testing.T) {
	vm := newTestVM(t)

	for i := 0; i < 64; i++ {
		exec(t, vm, 0xC30F)
		assert.Equal(t, byte(0), vm.V[3]&0xF0)

		exec(t, vm, 0xC300)
		assert.Equal(t, byte(0), vm.V[3])
	}
}

func TestUnknownOpcodes(t *testing.T) {
	for _, word := range []uint16{0x0000, 0x0123, 0x5121, 0x8128, 0x912F, 0xE1FF, 0xF1FF} {
		t.Run(fmt.Sprintf("%04X", word), func(t *testing.T) {
			vm := newTestVM(t, word)
			vm.V[1], vm.I = 9, 0x345
			before := *vm

			assert.NoError(t, vm.Step(Keypad{}))
			assert.Equal(t, before.PC+2, vm.PC)
			assert.Equal(t, before.V, vm.V)
			assert.Equal(t, before.I, vm.I)
			assert.Equal(t, before.Memory, vm.Memory)
			assert.Equal(t, 0, vm.Video.Lit())
		})
	}
}

func TestFaults(t *testing.T) {
	tests := []struct {
		name  string
		setup func(vm *VM)
		word  uint16
		kind  BoundsKind
	}{
		{"stack underflow", func(vm *VM) {}, 0x00EE, StackUnderflow},
		{"stack overflow", func(vm *VM) { vm.SP = StackDepth }, 0x2300, StackOverflow},
		{"store past memory", func(vm *VM) { vm.I = MemorySize - 2 }, 0xF255, MemoryRange},
		{"load past memory", func(vm *VM) { vm.I = 0xFFFF }, 0xF065, MemoryRange},
		{"bcd past memory", func(vm *VM) { vm.I = MemorySize - 1 }, 0xF033, MemoryRange},
		{"sprite past memory", func(vm *VM) { vm.I = MemorySize - 4 }, 0xD015, MemoryRange},
		{"key out of range", func(vm *VM) { vm.V[3] = KeyCount }, 0xE39E, KeyRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestVM(t, tt.word)
			vm.DT, vm.ST = 5, 5
			tt.setup(vm)

			before := *vm
			pixels := append([]uint32(nil), vm.Video.Pixels...)

			err := vm.Step(Keypad{})
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrBounds))

			var be *BoundsError
			assert.True(t, errors.As(err, &be))
			assert.Equal(t, tt.kind, be.Kind)
			assert.Equal(t, uint16(ProgramStart), be.PC)

			// the failed step had no effect
			assert.Equal(t, before.PC, vm.PC)
			assert.Equal(t, before.SP, vm.SP)
			assert.Equal(t, before.Stack, vm.Stack)
			assert.Equal(t, before.V, vm.V)
			assert.Equal(t, before.I, vm.I)
			assert.Equal(t, before.DT, vm.DT)
			assert.Equal(t, before.ST, vm.ST)
			assert.Equal(t, before.Cycles, vm.Cycles)
			assert.Equal(t, before.Memory, vm.Memory)
			assert.Equal(t, pixels, vm.Video.Pixels)
		})
	}
}

func TestFetchPastMemory(t *testing.T) {
	vm := newTestVM(t)
	vm.PC = MemorySize - 1

	err := vm.Step(Keypad{})

	var be *BoundsError
	assert.True(t, errors.As(err, &be))
	assert.Equal(t, MemoryRange, be.Kind)
	assert.Equal(t, uint16(MemorySize-1), vm.PC)

	// the last full word in memory is still executable
	vm.PC = MemorySize - 2
	assert.NoError(t, vm.Step(Keypad{}))
}

func TestStackFull(t *testing.T) {
	vm := newTestVM(t, 0x2200)

	// calling itself fills the stack exactly
	steps(t, vm, StackDepth)
	assert.Equal(t, uint16(StackDepth), vm.SP)

	err := vm.Step(Keypad{})
	assert.True(t, errors.Is(err, ErrBounds))
}
