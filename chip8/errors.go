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
)

var (
	// ErrProgramTooLarge is returned when a program doesn't fit between
	// ProgramStart and the end of memory.
	ErrProgramTooLarge = errors.New("program too large")

	// ErrBounds is matched by every *BoundsError.
	ErrBounds = errors.New("bounds violation")
)

// BoundsKind says which limit a BoundsError crossed.
type BoundsKind uint8

const (
	StackOverflow BoundsKind = iota + 1
	StackUnderflow
	MemoryRange
	KeyRange
)

func (k BoundsKind) String() string {
	switch k {
	case StackOverflow:
		return "stack overflow"
	case StackUnderflow:
		return "stack underflow"
	case MemoryRange:
		return "memory out of range"
	case KeyRange:
		return "key out of range"
	}

	return "unknown"
}

// BoundsError is returned by Step when an instruction would access the
// stack, memory or keypad outside of its bounds. The step that fails has
// no effect on the machine.
type BoundsError struct {
	Kind BoundsKind

	// PC is the address of the faulting instruction.
	PC uint16

	// Address is the offending address, stack depth or key index.
	Address int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("%s at #%04X (#%04X)", e.Kind, e.PC, e.Address)
}

// Is makes errors.Is(err, ErrBounds) true for any BoundsError.
func (e *BoundsError) Is(target error) bool {
	return target == ErrBounds
}
