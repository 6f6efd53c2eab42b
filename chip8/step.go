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
	"github.com/retroenv/retrogolib/log"
)

/// Step executes a single instruction and then counts the timers down.
/// The keypad is only read. When the instruction can't complete because
/// it would leave the stack, memory or keypad, a *BoundsError is returned
/// and the machine is exactly as it was before the step.
///
func (vm *VM) Step(keys Keypad) error {
	pc := vm.PC

	// fetch the next instruction
	word, err := vm.fetch()
	if err != nil {
		return err
	}

	inst := Decode(word)

	// waiting for a key holds the program counter on the wait
	if _, down := keys.Pressed(); inst.Op != OpLDK || down {
		vm.PC += 2
	}

	if !inst.Valid() {
		vm.logger.Debug("Unknown opcode",
			log.Hex("address", pc),
			log.Hex("opcode", word))
	}

	if fault := vm.execute(inst, keys); fault != nil {
		fault.PC = pc

		// undo the fetch
		vm.PC = pc

		return fault
	}

	if vm.trace != nil {
		vm.trace.Record(pc, inst)
	}

	// count down the timers
	if vm.DT > 0 {
		vm.DT--
	}
	if vm.ST > 0 {
		vm.ST--
	}

	vm.Cycles++

	return nil
}

/// Fetch the 16-bit instruction at the program counter.
///
func (vm *VM) fetch() (uint16, error) {
	i := int(vm.PC)

	if i+1 >= MemorySize {
		return 0, &BoundsError{Kind: MemoryRange, PC: vm.PC, Address: i}
	}

	return uint16(vm.Memory[i])<<8 | uint16(vm.Memory[i+1]), nil
}

/// Execute a decoded instruction. Unknown instructions do nothing.
///
func (vm *VM) execute(inst Instruction, keys Keypad) *BoundsError {
	x, y := inst.X, inst.Y

	switch inst.Op {
	case OpCLS:
		vm.cls()
	case OpRET:
		return vm.ret()
	case OpJP:
		vm.jump(inst.NNN)
	case OpCALL:
		return vm.call(inst.NNN)
	case OpSEByte:
		vm.skipIf(x, inst.KK)
	case OpSNEByte:
		vm.skipIfNot(x, inst.KK)
	case OpSEReg:
		vm.skipIfXY(x, y)
	case OpLDByte:
		vm.loadX(x, inst.KK)
	case OpADDByte:
		vm.addX(x, inst.KK)
	case OpLDReg:
		vm.loadXY(x, y)
	case OpOR:
		vm.or(x, y)
	case OpAND:
		vm.and(x, y)
	case OpXOR:
		vm.xor(x, y)
	case OpADDReg:
		vm.addXY(x, y)
	case OpSUB:
		vm.subXY(x, y)
	case OpSHR:
		vm.shr(x)
	case OpSUBN:
		vm.subYX(x, y)
	case OpSHL:
		vm.shl(x)
	case OpSNEReg:
		vm.skipIfNotXY(x, y)
	case OpLDI:
		vm.loadI(inst.NNN)
	case OpJPV0:
		vm.jumpV0(inst.NNN)
	case OpRND:
		vm.rnd(x, inst.KK)
	case OpDRW:
		return vm.drw(x, y, inst.N)
	case OpSKP:
		return vm.skipIfPressed(x, keys)
	case OpSKNP:
		return vm.skipIfNotPressed(x, keys)
	case OpLDVxDT:
		vm.loadXDT(x)
	case OpLDK:
		vm.loadXK(x, keys)
	case OpLDDTVx:
		vm.loadDTX(x)
	case OpLDSTVx:
		vm.loadSTX(x)
	case OpADDI:
		vm.addIX(x)
	case OpLDF:
		vm.loadF(x)
	case OpLDB:
		return vm.loadB(x)
	case OpLDMemVx:
		return vm.saveRegs(x)
	case OpLDVxMem:
		return vm.loadRegs(x)
	}

	return nil
}
