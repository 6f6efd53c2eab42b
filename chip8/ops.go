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

/// checkRange faults if n bytes starting at I run past the end of memory.
///
func (vm *VM) checkRange(n int) *BoundsError {
	if end := int(vm.I) + n; end > MemorySize {
		return &BoundsError{Kind: MemoryRange, Address: end - 1}
	}

	return nil
}

/// Clear the video display memory.
///
func (vm *VM) cls() {
	vm.Video.Clear()
}

/// call a subroutine at address.
///
func (vm *VM) call(address uint16) *BoundsError {
	if vm.SP >= StackDepth {
		return &BoundsError{Kind: StackOverflow, Address: int(vm.SP)}
	}

	// push program counter onto stack
	vm.Stack[vm.SP] = vm.PC
	vm.SP++

	// jump to address
	vm.PC = address

	return nil
}

/// return from subroutine.
///
func (vm *VM) ret() *BoundsError {
	if vm.SP == 0 {
		return &BoundsError{Kind: StackUnderflow}
	}

	vm.SP--
	vm.PC = vm.Stack[vm.SP]

	return nil
}

/// jump to address.
///
func (vm *VM) jump(address uint16) {
	vm.PC = address
}

/// jump to address + v0.
///
func (vm *VM) jumpV0(address uint16) {
	vm.PC = address + uint16(vm.V[0])
}

/// skip next instruction if vx == n.
///
func (vm *VM) skipIf(x, b byte) {
	if vm.V[x] == b {
		vm.PC += 2
	}
}

/// skip next instruction if vx != n.
///
func (vm *VM) skipIfNot(x, b byte) {
	if vm.V[x] != b {
		vm.PC += 2
	}
}

/// skip next instruction if vx == vy.
///
func (vm *VM) skipIfXY(x, y byte) {
	if vm.V[x] == vm.V[y] {
		vm.PC += 2
	}
}

/// skip next instruction if vx != vy.
///
func (vm *VM) skipIfNotXY(x, y byte) {
	if vm.V[x] != vm.V[y] {
		vm.PC += 2
	}
}

/// key returns the key index held in vx.
///
func (vm *VM) key(x byte) (byte, *BoundsError) {
	k := vm.V[x]

	if k >= KeyCount {
		return 0, &BoundsError{Kind: KeyRange, Address: int(k)}
	}

	return k, nil
}

/// skip next instruction if key(vx) is pressed.
///
func (vm *VM) skipIfPressed(x byte, keys Keypad) *BoundsError {
	k, err := vm.key(x)
	if err != nil {
		return err
	}

	if keys[k] {
		vm.PC += 2
	}

	return nil
}

/// skip next instruction if key(vx) is not pressed.
///
func (vm *VM) skipIfNotPressed(x byte, keys Keypad) *BoundsError {
	k, err := vm.key(x)
	if err != nil {
		return err
	}

	if !keys[k] {
		vm.PC += 2
	}

	return nil
}

/// load n into vx.
///
func (vm *VM) loadX(x, b byte) {
	vm.V[x] = b
}

/// load vy into vx.
///
func (vm *VM) loadXY(x, y byte) {
	vm.V[x] = vm.V[y]
}

/// load delay timer into vx.
///
func (vm *VM) loadXDT(x byte) {
	vm.V[x] = vm.DT
}

/// load vx into delay timer.
///
func (vm *VM) loadDTX(x byte) {
	vm.DT = vm.V[x]
}

/// load vx into sound timer.
///
func (vm *VM) loadSTX(x byte) {
	vm.ST = vm.V[x]
}

/// load vx with the lowest key down. Step holds the program counter on
/// this instruction until there is one.
///
func (vm *VM) loadXK(x byte, keys Keypad) {
	if k, ok := keys.Pressed(); ok {
		vm.V[x] = k
	}
}

/// load address register.
///
func (vm *VM) loadI(address uint16) {
	vm.I = address
}

/// load address with BCD of vx.
///
func (vm *VM) loadB(x byte) *BoundsError {
	if err := vm.checkRange(3); err != nil {
		return err
	}

	n := uint16(vm.V[x])
	b := uint16(0)

	// double dabble: perform 8 shifts
	for i := uint(0); i < 8; i++ {
		if (b>>0)&0xF >= 5 {
			b += 3
		}
		if (b>>4)&0xF >= 5 {
			b += 3 << 4
		}
		if (b>>8)&0xF >= 5 {
			b += 3 << 8
		}

		// apply shift, pull next bit
		b = (b << 1) | (n >> (7 - i) & 1)
	}

	// write to memory
	vm.Memory[vm.I+0] = byte(b>>8) & 0xF
	vm.Memory[vm.I+1] = byte(b>>4) & 0xF
	vm.Memory[vm.I+2] = byte(b>>0) & 0xF

	return nil
}

/// load font sprite for vx into I.
///
func (vm *VM) loadF(x byte) {
	vm.I = GlyphAddress(vm.V[x])
}

/// or vx with vy into vx.
///
func (vm *VM) or(x, y byte) {
	vm.V[x] |= vm.V[y]
}

/// and vx with vy into vx.
///
func (vm *VM) and(x, y byte) {
	vm.V[x] &= vm.V[y]
}

/// xor vx with vy into vx.
///
func (vm *VM) xor(x, y byte) {
	vm.V[x] ^= vm.V[y]
}

// The flag setting instructions below all work the same way: the result
// and the flag are computed from the operands first, then the flag is
// stored, then the result. With x == F the result is what remains in VF.

/// shl vx 1 bit, carry is the MSB of vx before the shift.
///
func (vm *VM) shl(x byte) {
	v := vm.V[x]

	vm.V[0xF] = v >> 7
	vm.V[x] = v << 1
}

/// shr vx 1 bit, carry is the LSB of vx before the shift.
///
func (vm *VM) shr(x byte) {
	v := vm.V[x]

	vm.V[0xF] = v & 1
	vm.V[x] = v >> 1
}

/// add n to vx, no carry.
///
func (vm *VM) addX(x, b byte) {
	vm.V[x] += b
}

/// add vy to vx and set carry.
///
func (vm *VM) addXY(x, y byte) {
	sum := uint16(vm.V[x]) + uint16(vm.V[y])

	vm.V[0xF] = byte(sum >> 8)
	vm.V[x] = byte(sum)
}

/// add vx to i.
///
func (vm *VM) addIX(x byte) {
	vm.I += uint16(vm.V[x])
}

/// subtract vy from vx, flag set if vx > vy.
///
func (vm *VM) subXY(x, y byte) {
	vx, vy := vm.V[x], vm.V[y]

	vm.V[0xF] = flag(vx > vy)
	vm.V[x] = vx - vy
}

/// subtract vx from vy and store in vx, flag set if vy > vx.
///
func (vm *VM) subYX(x, y byte) {
	vx, vy := vm.V[x], vm.V[y]

	vm.V[0xF] = flag(vy > vx)
	vm.V[x] = vy - vx
}

/// load a random number & n into vx.
///
func (vm *VM) rnd(x, b byte) {
	vm.V[x] = byte(vm.rng.UintN(256)) & b
}

/// draw an n row sprite at I to video memory at vx, vy. The origin wraps
/// around the screen, pixels past the right and bottom edges are clipped.
///
func (vm *VM) drw(x, y, n byte) *BoundsError {
	if err := vm.checkRange(int(n)); err != nil {
		return err
	}

	ox := int(vm.V[x]) % vm.Video.Width
	oy := int(vm.V[y]) % vm.Video.Height

	vm.V[0xF] = 0

	// draw each row of the sprite
	for row, s := range vm.Memory[vm.I : int(vm.I)+int(n)] {
		for bit := 0; bit < 8; bit++ {
			if s&(0x80>>bit) == 0 {
				continue
			}

			// set the flag if any pixel was turned off
			if vm.Video.Toggle(ox+bit, oy+row) {
				vm.V[0xF] = 1
			}
		}
	}

	return nil
}

/// save registers v0..vx to I.
///
func (vm *VM) saveRegs(x byte) *BoundsError {
	if err := vm.checkRange(int(x) + 1); err != nil {
		return err
	}

	copy(vm.Memory[vm.I:], vm.V[:x+1])

	return nil
}

/// load registers v0..vx from I.
///
func (vm *VM) loadRegs(x byte) *BoundsError {
	if err := vm.checkRange(int(x) + 1); err != nil {
		return err
	}

	copy(vm.V[:x+1], vm.Memory[vm.I:])

	return nil
}

func flag(b bool) byte {
	if b {
		return 1
	}

	return 0
}
