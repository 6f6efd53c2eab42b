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
	"bufio"
	"bytes"
	"fmt"
)

// Assembly is a completely assembled source file.
type Assembly struct {
	// ROM is the final, assembled bytes to load at ProgramStart.
	ROM []byte

	// labels maps names to addresses or EQU values.
	labels map[string]token

	// unresolved holds forward label references by the address to patch.
	unresolved map[int]fixup
}

// fixup is a label reference waiting for its address. Wide fixups patch a
// full 16-bit word, otherwise the low 12 bits of an instruction.
type fixup struct {
	label string
	wide  bool
}

// Assemble an input CHIP-8 source file. Instructions use the same syntax
// the disassembler produces. Labels start with '.', literals are decimal,
// #hex or $binary, and ';' starts a comment.
func Assemble(program []byte) (out *Assembly, err error) {
	var line int

	out = &Assembly{
		ROM:        make([]byte, ProgramStart, MemorySize),
		labels:     make(map[string]token),
		unresolved: make(map[int]fixup),
	}

	// handle panics during assembly
	defer func() {
		if r := recover(); r != nil {
			if line > 0 {
				err = fmt.Errorf("line %d - %v", line, r)
			} else {
				err = fmt.Errorf("%v", r)
			}

			out = nil
		}
	}()

	// create simple line scanner over the file
	scanner := bufio.NewScanner(bytes.NewReader(bytes.ToUpper(program)))

	// parse and assemble
	for line = 1; scanner.Scan(); line++ {
		out.assemble(&tokenScanner{bytes: scanner.Bytes()})

		if len(out.ROM) > MemorySize {
			panic("program too large")
		}
	}

	// clear the line number as we're done assembling
	line = 0

	out.resolve()

	// drop the reserved area from the rom
	out.ROM = out.ROM[ProgramStart:]

	return out, nil
}

// Address returns the value of a label after assembly.
func (a *Assembly) Address(label string) (int, bool) {
	t, ok := a.labels[label]
	if !ok || t.typ != tokenLit {
		return 0, false
	}

	return t.val.(int), true
}

// Patch all forward label references.
func (a *Assembly) resolve() {
	for address, f := range a.unresolved {
		t, ok := a.labels[f.label]
		if !ok {
			panic(fmt.Errorf("unresolved label: %s", f.label))
		}

		if t.typ != tokenLit {
			panic("label does not resolve to address")
		}

		v := t.val.(int)

		if f.wide {
			a.ROM[address] = byte(v >> 8)
		} else {
			if v < 0 || v >= MemorySize {
				panic(fmt.Errorf("label out of range: %s", f.label))
			}

			a.ROM[address] = byte(v>>8&0xF) | a.ROM[address]&0xF0
		}

		a.ROM[address+1] = byte(v)

		delete(a.unresolved, address)
	}
}

// Compile a single line into the assembly.
func (a *Assembly) assemble(s *tokenScanner) {
	t := s.scanToken()

	// assign labels
	if t.typ == tokenLabel {
		t = a.assembleLabel(t.val.(string), s)
	}

	switch t.typ {
	case tokenInstruction:
		a.assembleInstruction(t.val.(string), s)
	case tokenEnd:
	default:
		panic("unexpected token")
	}
}

// Add a label to the assembly, returning the token after it.
func (a *Assembly) assembleLabel(label string, s *tokenScanner) token {
	if _, exists := a.labels[label]; exists {
		panic("duplicate label")
	}

	// by default, the label is assigned the current address
	a.labels[label] = token{typ: tokenLit, val: len(a.ROM)}

	t := s.scanToken()

	// EQU reassigns the label to a literal
	if t.typ == tokenEqu {
		if v := s.scanToken(); v.typ == tokenLit {
			a.labels[label] = v

			if t = s.scanToken(); t.typ == tokenEnd {
				return t
			}
		}

		panic("illegal label assignment")
	}

	return t
}

// Compile a single instruction into the assembly.
func (a *Assembly) assembleInstruction(i string, s *tokenScanner) {
	tokens := s.scanOperands()

	switch i {
	case "BYTE":
		a.ROM = append(a.ROM, a.assembleBYTE(tokens)...)
	case "WORD":
		a.ROM = append(a.ROM, a.assembleWORD(tokens)...)
	case "ALIGN":
		a.ROM = append(a.ROM, a.assembleALIGN(tokens)...)
	case "PAD":
		a.ROM = append(a.ROM, a.assemblePAD(tokens)...)
	default:
		w, ok := a.encode(i, tokens)
		if !ok {
			panic("illegal instruction")
		}

		a.ROM = append(a.ROM, byte(w>>8), byte(w))
	}
}

// Expand a label reference in an operand. Unknown labels are assumed to
// be forward references to an address.
func (a *Assembly) assembleOperand(t token, at int, wide bool) token {
	if t.typ != tokenRef {
		return t
	}

	label := t.val.(string)

	if v, exists := a.labels[label]; exists {
		return v
	}

	a.unresolved[at] = fixup{label: label, wide: wide}

	return token{typ: tokenLit, val: ProgramStart}
}

// Match the desired token types with a list of tokens.
func (a *Assembly) assembleOperands(tokens []token, m ...tokenType) ([]int, bool) {
	ops := make([]int, 0, 3)

	if len(tokens) != len(m) {
		return nil, false
	}

	for i, typ := range m {
		t := tokens[i]

		// only literal operands may be label references
		if typ == tokenLit {
			t = a.assembleOperand(t, len(a.ROM), false)
		}

		if t.typ != typ {
			return nil, false
		}

		// registers and literals carry a value, keywords don't
		v, _ := t.val.(int)

		ops = append(ops, v)
	}

	return ops, true
}

// Encode a single instruction word.
func (a *Assembly) encode(i string, tokens []token) (uint16, bool) {
	xy := func(base uint16, x, y int) uint16 {
		return base | uint16(x)<<8 | uint16(y)<<4
	}

	switch i {
	case "CLS":
		return 0x00E0, len(tokens) == 0
	case "RET":
		return 0x00EE, len(tokens) == 0
	case "JP":
		if ops, ok := a.assembleOperands(tokens, tokenLit); ok && isAddress(ops[0]) {
			return 0x1000 | uint16(ops[0]), true
		}
		if ops, ok := a.assembleOperands(tokens, tokenV, tokenLit); ok && ops[0] == 0 && isAddress(ops[1]) {
			return 0xB000 | uint16(ops[1]), true
		}
	case "CALL":
		if ops, ok := a.assembleOperands(tokens, tokenLit); ok && isAddress(ops[0]) {
			return 0x2000 | uint16(ops[0]), true
		}
	case "SE", "SNE":
		byteOp, regOp := uint16(0x3000), uint16(0x5000)
		if i == "SNE" {
			byteOp, regOp = 0x4000, 0x9000
		}

		if ops, ok := a.assembleOperands(tokens, tokenV, tokenLit); ok && isByte(ops[1]) {
			return xy(byteOp, ops[0], 0) | uint16(ops[1]), true
		}
		if ops, ok := a.assembleOperands(tokens, tokenV, tokenV); ok {
			return xy(regOp, ops[0], ops[1]), true
		}
	case "SKP", "SKNP":
		if ops, ok := a.assembleOperands(tokens, tokenV); ok {
			if i == "SKP" {
				return xy(0xE09E, ops[0], 0), true
			}

			return xy(0xE0A1, ops[0], 0), true
		}
	case "OR", "AND", "XOR", "SUB", "SUBN":
		alu := map[string]uint16{"OR": 0x1, "AND": 0x2, "XOR": 0x3, "SUB": 0x5, "SUBN": 0x7}

		if ops, ok := a.assembleOperands(tokens, tokenV, tokenV); ok {
			return xy(0x8000|alu[i], ops[0], ops[1]), true
		}
	case "SHR", "SHL":
		n := uint16(0x6)
		if i == "SHL" {
			n = 0xE
		}

		if ops, ok := a.assembleOperands(tokens, tokenV); ok {
			return xy(0x8000|n, ops[0], ops[0]), true
		}
		if ops, ok := a.assembleOperands(tokens, tokenV, tokenV); ok {
			return xy(0x8000|n, ops[0], ops[1]), true
		}
	case "ADD":
		if ops, ok := a.assembleOperands(tokens, tokenV, tokenLit); ok && isByte(ops[1]) {
			return xy(0x7000, ops[0], 0) | uint16(ops[1]), true
		}
		if ops, ok := a.assembleOperands(tokens, tokenV, tokenV); ok {
			return xy(0x8004, ops[0], ops[1]), true
		}
		if ops, ok := a.assembleOperands(tokens, tokenI, tokenV); ok {
			return xy(0xF01E, ops[1], 0), true
		}
	case "RND":
		if ops, ok := a.assembleOperands(tokens, tokenV, tokenLit); ok && isByte(ops[1]) {
			return xy(0xC000, ops[0], 0) | uint16(ops[1]), true
		}
	case "DRW":
		if ops, ok := a.assembleOperands(tokens, tokenV, tokenV, tokenLit); ok && ops[2] >= 0 && ops[2] < 0x10 {
			return xy(0xD000, ops[0], ops[1]) | uint16(ops[2]), true
		}
	case "LD":
		return a.encodeLD(tokens)
	}

	return 0, false
}

// Encode the many forms of LD.
func (a *Assembly) encodeLD(tokens []token) (uint16, bool) {
	fx := func(x int, kk uint16) uint16 {
		return 0xF000 | uint16(x)<<8 | kk
	}

	if ops, ok := a.assembleOperands(tokens, tokenV, tokenLit); ok && isByte(ops[1]) {
		return 0x6000 | uint16(ops[0])<<8 | uint16(ops[1]), true
	}

	if ops, ok := a.assembleOperands(tokens, tokenV, tokenV); ok {
		return 0x8000 | uint16(ops[0])<<8 | uint16(ops[1])<<4, true
	}

	if ops, ok := a.assembleOperands(tokens, tokenI, tokenLit); ok && isAddress(ops[1]) {
		return 0xA000 | uint16(ops[1]), true
	}

	// register to/from special operand forms
	forms := []struct {
		dst, src tokenType
		kk       uint16
	}{
		{tokenV, tokenDT, 0x07},
		{tokenV, tokenK, 0x0A},
		{tokenDT, tokenV, 0x15},
		{tokenST, tokenV, 0x18},
		{tokenF, tokenV, 0x29},
		{tokenB, tokenV, 0x33},
		{tokenAddress, tokenV, 0x55},
		{tokenV, tokenAddress, 0x65},
	}

	for _, f := range forms {
		if ops, ok := a.assembleOperands(tokens, f.dst, f.src); ok {
			x := ops[0]
			if f.dst != tokenV {
				x = ops[1]
			}

			return fx(x, f.kk), true
		}
	}

	return 0, false
}

// Assemble a BYTE directive.
func (a *Assembly) assembleBYTE(tokens []token) []byte {
	b := make([]byte, 0, len(tokens))

	for _, t := range tokens {
		// only labels defined earlier can be bytes
		if t.typ == tokenRef {
			if v, ok := a.labels[t.val.(string)]; ok {
				t = v
			}
		}

		switch t.typ {
		case tokenLit:
			if v := t.val.(int); v < -0x80 || v > 0xFF {
				panic("invalid byte")
			}

			b = append(b, byte(t.val.(int)))
		case tokenText:
			b = append(b, t.val.(string)...)
		default:
			panic("invalid byte")
		}
	}

	return b
}

// Assemble a WORD directive.
func (a *Assembly) assembleWORD(tokens []token) []byte {
	b := make([]byte, 0, 2*len(tokens))

	for _, t := range tokens {
		op := a.assembleOperand(t, len(a.ROM)+len(b), true)

		if op.typ != tokenLit || op.val.(int) < 0 || op.val.(int) > 0xFFFF {
			panic("invalid word")
		}

		// store msb first
		b = append(b, byte(op.val.(int)>>8), byte(op.val.(int)))
	}

	return b
}

// Assemble an ALIGN directive.
func (a *Assembly) assembleALIGN(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, tokenLit); ok {
		n := ops[0]

		if n > 0 && n&(n-1) == 0 {
			pad := (n - len(a.ROM)&(n-1)) & (n - 1)

			// reserve pad bytes to meet alignment
			return make([]byte, pad)
		}
	}

	panic("illegal alignment")
}

// Assemble a PAD directive.
func (a *Assembly) assemblePAD(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, tokenLit); ok {
		n := ops[0]

		if n >= 0 && n <= MemorySize-len(a.ROM) {
			return make([]byte, n)
		}
	}

	panic("illegal size")
}

func isAddress(v int) bool {
	return v >= 0 && v < MemorySize
}

func isByte(v int) bool {
	return v >= 0 && v <= 0xFF
}
