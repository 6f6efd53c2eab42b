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

// Package runner loads programs into a VM and drives it at a fixed clock
// speed.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/massung/chip8-interp/chip8"
	"github.com/retroenv/retrogolib/log"
)

// RefreshRate is how many times per second a paced run hands control back
// to its caller.
const RefreshRate = 60

// IsSource is true for files that are assembled before loading.
func IsSource(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".asm", ".c8s":
		return true
	}
	return false
}

// LoadProgram loads a ROM image, or assembles and loads a source file.
func LoadProgram(logger *log.Logger, vm *chip8.VM, path string) error {
	if !IsSource(path) {
		if err := vm.LoadFile(path); err != nil {
			return fmt.Errorf("loading '%s': %w", path, err)
		}

		logger.Info("Loaded ROM", log.String("file", path))
		return nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file '%s': %w", path, err)
	}

	asm, err := chip8.Assemble(src)
	if err != nil {
		return fmt.Errorf("assembling '%s': %w", path, err)
	}

	if err := vm.Load(asm.ROM); err != nil {
		return fmt.Errorf("loading '%s': %w", path, err)
	}

	logger.Info("Assembled program", log.String("file", path), log.Int("size", len(asm.ROM)))
	return nil
}

// Config controls a Run.
type Config struct {
	// Hz is the number of instructions per second, 0 runs unpaced.
	Hz int

	// Cycles stops the run after that many steps, 0 for no limit.
	Cycles uint64
}

// ErrCycleLimit is returned by Run once the configured number of steps
// have been executed.
var ErrCycleLimit = errors.New("cycle limit reached")

// Run steps the VM with no keys down until the context is done, the
// cycle limit is reached or a step fails. A paced run executes its steps
// in batches, one batch per refresh.
func Run(ctx context.Context, vm *chip8.VM, cfg Config) error {
	if cfg.Hz <= 0 {
		for {
			if err := ctx.Err(); err != nil {
				return err
			}

			if err := steps(vm, cfg.Cycles, 1024); err != nil {
				return err
			}
		}
	}

	ticker := time.NewTicker(time.Second / RefreshRate)
	defer ticker.Stop()

	// steps owed carry over so the average matches Hz
	owed := 0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		owed += cfg.Hz
		n := owed / RefreshRate
		owed %= RefreshRate

		if err := steps(vm, cfg.Cycles, n); err != nil {
			return err
		}
	}
}

func steps(vm *chip8.VM, limit uint64, n int) error {
	for range n {
		if limit > 0 && vm.Cycles >= limit {
			return ErrCycleLimit
		}

		if err := vm.Step(chip8.Keypad{}); err != nil {
			return fmt.Errorf("step %d: %w", vm.Cycles, err)
		}
	}
	return nil
}
