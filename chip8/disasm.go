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

import "fmt"

/// String returns the assembly text for an instruction, in the syntax
/// accepted by Assemble.
///
func (inst Instruction) String() string {
	x, y := inst.X, inst.Y

	switch inst.Op {
	case OpCLS:
		return "CLS"
	case OpRET:
		return "RET"
	case OpJP:
		return fmt.Sprintf("JP     #%04X", inst.NNN)
	case OpCALL:
		return fmt.Sprintf("CALL   #%04X", inst.NNN)
	case OpSEByte:
		return fmt.Sprintf("SE     V%X, #%02X", x, inst.KK)
	case OpSNEByte:
		return fmt.Sprintf("SNE    V%X, #%02X", x, inst.KK)
	case OpSEReg:
		return fmt.Sprintf("SE     V%X, V%X", x, y)
	case OpLDByte:
		return fmt.Sprintf("LD     V%X, #%02X", x, inst.KK)
	case OpADDByte:
		return fmt.Sprintf("ADD    V%X, #%02X", x, inst.KK)
	case OpLDReg:
		return fmt.Sprintf("LD     V%X, V%X", x, y)
	case OpOR:
		return fmt.Sprintf("OR     V%X, V%X", x, y)
	case OpAND:
		return fmt.Sprintf("AND    V%X, V%X", x, y)
	case OpXOR:
		return fmt.Sprintf("XOR    V%X, V%X", x, y)
	case OpADDReg:
		return fmt.Sprintf("ADD    V%X, V%X", x, y)
	case OpSUB:
		return fmt.Sprintf("SUB    V%X, V%X", x, y)
	case OpSHR:
		return fmt.Sprintf("SHR    V%X", x)
	case OpSUBN:
		return fmt.Sprintf("SUBN   V%X, V%X", x, y)
	case OpSHL:
		return fmt.Sprintf("SHL    V%X", x)
	case OpSNEReg:
		return fmt.Sprintf("SNE    V%X, V%X", x, y)
	case OpLDI:
		return fmt.Sprintf("LD     I, #%04X", inst.NNN)
	case OpJPV0:
		return fmt.Sprintf("JP     V0, #%04X", inst.NNN)
	case OpRND:
		return fmt.Sprintf("RND    V%X, #%02X", x, inst.KK)
	case OpDRW:
		return fmt.Sprintf("DRW    V%X, V%X, %d", x, y, inst.N)
	case OpSKP:
		return fmt.Sprintf("SKP    V%X", x)
	case OpSKNP:
		return fmt.Sprintf("SKNP   V%X", x)
	case OpLDVxDT:
		return fmt.Sprintf("LD     V%X, DT", x)
	case OpLDK:
		return fmt.Sprintf("LD     V%X, K", x)
	case OpLDDTVx:
		return fmt.Sprintf("LD     DT, V%X", x)
	case OpLDSTVx:
		return fmt.Sprintf("LD     ST, V%X", x)
	case OpADDI:
		return fmt.Sprintf("ADD    I, V%X", x)
	case OpLDF:
		return fmt.Sprintf("LD     F, V%X", x)
	case OpLDB:
		return fmt.Sprintf("LD     B, V%X", x)
	case OpLDMemVx:
		return fmt.Sprintf("LD     [I], V%X", x)
	case OpLDVxMem:
		return fmt.Sprintf("LD     V%X, [I]", x)
	}

	// unknown instruction, emit it as data
	return fmt.Sprintf("WORD   #%04X", inst.Word)
}

/// Disassemble the instruction at an address.
///
func (vm *VM) Disassemble(address uint16) string {
	if int(address) >= len(vm.Memory)-1 {
		return ""
	}

	// fetch the instruction at this location
	word := uint16(vm.Memory[address])<<8 | uint16(vm.Memory[address+1])

	return fmt.Sprintf("%04X - %s", address, Decode(word))
}
