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

package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/massung/chip8-interp/chip8"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func newVM(t *testing.T, program ...byte) *chip8.VM {
	t.Helper()

	vm := chip8.New(chip8.WithSeed(1), chip8.WithLogger(log.NewTestLogger(t)))
	assert.NoError(t, vm.Load(program))

	return vm
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, data, 0o644))

	return path
}

func TestIsSource(t *testing.T) {
	tests := []struct {
		path   string
		source bool
	}{
		{"games/PONG", false},
		{"pong.ch8", false},
		{"pong.asm", true},
		{"PONG.C8S", true},
		{"asm/pong.rom", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.source, IsSource(tt.path))
		})
	}
}

func TestLoadProgram(t *testing.T) {
	logger := log.NewTestLogger(t)
	vm := newVM(t)

	path := writeFile(t, "test.ch8", []byte{0x60, 0x07, 0x12, 0x02})
	assert.NoError(t, LoadProgram(logger, vm, path))
	assert.Equal(t, byte(0x07), vm.Memory[chip8.ProgramStart+1])

	path = writeFile(t, "test.asm", []byte("        LD V1, 9\n.LOOP   JP LOOP\n"))
	assert.NoError(t, LoadProgram(logger, vm, path))
	assert.Equal(t, []byte{0x61, 0x09, 0x12, 0x02}, vm.Memory[chip8.ProgramStart:chip8.ProgramStart+4])
}

func TestLoadProgramErrors(t *testing.T) {
	logger := log.NewTestLogger(t)
	vm := newVM(t, 0x00, 0xE0)

	err := LoadProgram(logger, vm, filepath.Join(t.TempDir(), "missing.ch8"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	err = LoadProgram(logger, vm, writeFile(t, "bad.c8s", []byte("  FOO V1\n")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "assembling")

	err = LoadProgram(logger, vm, writeFile(t, "big.ch8", make([]byte, chip8.MaxProgramSize+1)))
	assert.True(t, errors.Is(err, chip8.ErrProgramTooLarge))

	// failed loads leave the old program in place
	assert.Equal(t, byte(0xE0), vm.Memory[chip8.ProgramStart+1])
}

func TestRunCycleLimit(t *testing.T) {
	vm := newVM(t, 0x70, 0x01, 0x12, 0x00)

	err := Run(context.Background(), vm, Config{Cycles: 100})
	assert.True(t, errors.Is(err, ErrCycleLimit))
	assert.Equal(t, uint64(100), vm.Cycles)
	assert.Equal(t, byte(50), vm.V[0])
}

func TestRunPaced(t *testing.T) {
	vm := newVM(t, 0x12, 0x00)

	err := Run(context.Background(), vm, Config{Hz: 6000, Cycles: 200})
	assert.True(t, errors.Is(err, ErrCycleLimit))
	assert.Equal(t, uint64(200), vm.Cycles)
}

func TestRunFault(t *testing.T) {
	vm := newVM(t, 0x60, 0x01, 0x00, 0xEE)

	err := Run(context.Background(), vm, Config{})
	assert.True(t, errors.Is(err, chip8.ErrBounds))
	assert.Contains(t, err.Error(), "step 1")
	assert.Equal(t, uint16(chip8.ProgramStart+2), vm.PC)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, hz := range []int{0, 500} {
		vm := newVM(t, 0x12, 0x00)

		err := Run(ctx, vm, Config{Hz: hz})
		assert.True(t, errors.Is(err, context.Canceled))
		assert.Equal(t, uint64(0), vm.Cycles)
	}
}
