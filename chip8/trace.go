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
	"fmt"
)

// Trace keeps a bounded history of executed instructions, oldest first,
// with a read position that can be scrolled like a log window.
type Trace struct {
	// buf contains each disassembled line.
	buf []string

	// size is the most lines kept.
	size int

	// pos is the current user read position within the trace.
	pos int
}

// NewTrace creates a Trace holding at most size lines.
func NewTrace(size int) *Trace {
	return &Trace{
		buf:  make([]string, 0, size),
		size: size,
	}
}

// Record appends an executed instruction to the trace.
func (t *Trace) Record(pc uint16, inst Instruction) {
	if t.size <= 0 {
		return
	}

	scroll := t.pos == len(t.buf)

	// drop the oldest line when full
	if len(t.buf) == t.size {
		copy(t.buf, t.buf[1:])
		t.buf = t.buf[:len(t.buf)-1]

		if t.pos > 1 && !scroll {
			t.pos--
		}
	}

	t.buf = append(t.buf, fmt.Sprintf("%04X - %s", pc, inst))

	if scroll {
		t.pos = len(t.buf)
	}
}

// Len is the number of lines held.
func (t *Trace) Len() int {
	return len(t.buf)
}

// Clear drops every line.
func (t *Trace) Clear() {
	t.buf = t.buf[:0]
	t.pos = 0
}

// Window returns up to n lines ending at the read position.
func (t *Trace) Window(n int) []string {
	start := t.pos - n

	// don't scroll past the beginning
	if start < 0 {
		start = 0
	}

	return t.buf[start:t.pos]
}

// Home scrolls the trace so only the oldest line is shown.
func (t *Trace) Home() {
	t.pos = min(1, len(t.buf))
}

// End scrolls the trace to the most recent line.
func (t *Trace) End() {
	t.pos = len(t.buf)
}

// ScrollUp scrolls the trace back one line.
func (t *Trace) ScrollUp() {
	t.pos--

	// clamp to home
	if t.pos < 1 {
		t.Home()
	}
}

// ScrollDown scrolls the trace forward one line.
func (t *Trace) ScrollDown() {
	t.pos++

	// clamp to end
	if t.pos > len(t.buf) {
		t.End()
	}
}
