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
	"math/rand/v2"
	"os"
	"time"

	"github.com/retroenv/retrogolib/log"
)

const (
	/// MemorySize is the number of addressable bytes.
	///
	MemorySize = 0x1000

	/// ProgramStart is where loaded programs begin and where execution starts.
	/// Everything below it is reserved for the interpreter.
	///
	ProgramStart = 0x200

	/// MaxProgramSize is the largest program that fits after ProgramStart.
	///
	MaxProgramSize = MemorySize - ProgramStart

	/// StackDepth is the number of return addresses the call stack holds.
	///
	StackDepth = 16

	/// RegisterCount is the number of V registers. VF doubles as the flag.
	///
	RegisterCount = 16

	/// KeyCount is the number of keys on the hex keypad.
	///
	KeyCount = 16

	/// DefaultWidth and DefaultHeight are the framebuffer dimensions used
	/// unless WithResolution says otherwise.
	///
	DefaultWidth  = 64
	DefaultHeight = 32
)

/// VM is the CHIP-8 virtual machine.
///
type VM struct {
	/// ROM is the pristine memory image (font + program) that Reset
	/// restores Memory from.
	///
	ROM [MemorySize]byte

	/// Memory addressable by CHIP-8. The first 512 bytes are reserved
	/// for the interpreter and hold the font sprites.
	///
	Memory [MemorySize]byte

	/// Video is the monochrome framebuffer sprites are drawn to.
	///
	Video *Framebuffer

	/// PC is the program counter. All programs begin at ProgramStart.
	///
	PC uint16

	/// I is the index (address) register.
	///
	I uint16

	/// V are the 16 virtual registers.
	///
	V [RegisterCount]byte

	/// Stack holds return addresses and SP is the number of them in use.
	///
	Stack [StackDepth]uint16
	SP    uint16

	/// DT and ST are the delay and sound timers. Each counts down once per
	/// step until it reaches zero.
	///
	DT byte
	ST byte

	/// Cycles is how many steps have completed since the last reset.
	///
	Cycles uint64

	seed   uint64
	rng    *rand.Rand
	logger *log.Logger
	trace  *Trace
}

/// New creates a CHIP-8 virtual machine with the font installed and
/// the program counter at ProgramStart.
///
func New(opts ...Option) *VM {
	cfg := config{
		seed:   uint64(time.Now().UTC().UnixNano()),
		width:  DefaultWidth,
		height: DefaultHeight,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.logger == nil {
		c := log.DefaultConfig()
		c.Level = log.ErrorLevel
		cfg.logger = log.NewWithConfig(c)
	}

	vm := &VM{
		Video:  NewFramebuffer(cfg.width, cfg.height),
		seed:   cfg.seed,
		logger: cfg.logger,
	}

	if cfg.traceSize > 0 {
		vm.trace = NewTrace(cfg.traceSize)
	}

	// the font lives in the reserved area and is never overwritten by a load
	copy(vm.ROM[FontAddress:], font[:])

	vm.Reset()

	return vm
}

/// Load copies a program into memory at ProgramStart. A program that
/// does not fit is rejected and the machine is left untouched.
///
func (vm *VM) Load(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, %d available", ErrProgramTooLarge, len(program), MaxProgramSize)
	}

	// clear any previous program, keeping the reserved area
	for i := ProgramStart; i < MemorySize; i++ {
		vm.ROM[i] = 0
	}

	copy(vm.ROM[ProgramStart:], program)

	vm.Reset()

	vm.logger.Debug("Program loaded", log.Int("size", len(program)))

	return nil
}

/// LoadFile reads a program from disk and loads it. If the file can't
/// be read the machine is left untouched.
///
func (vm *VM) LoadFile(path string) error {
	program, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading program: %w", err)
	}

	return vm.Load(program)
}

/// Reset the virtual machine to its freshly loaded state.
///
func (vm *VM) Reset() {
	vm.Memory = vm.ROM

	// reset video memory
	vm.Video.Clear()

	// reset program counter and stack
	vm.PC = ProgramStart
	vm.SP = 0
	vm.Stack = [StackDepth]uint16{}

	// reset address and virtual registers
	vm.I = 0
	vm.V = [RegisterCount]byte{}

	// reset timer registers
	vm.DT = 0
	vm.ST = 0

	vm.Cycles = 0

	// the same seed replays the same random sequence after a reset
	vm.rng = rand.New(rand.NewPCG(vm.seed, vm.seed>>32|1))

	if vm.trace != nil {
		vm.trace.Clear()
	}
}

/// Trace returns the execution trace, or nil if tracing is disabled.
///
func (vm *VM) Trace() *Trace {
	return vm.trace
}

/// Sounding is true while the sound timer is running.
///
func (vm *VM) Sounding() bool {
	return vm.ST > 0
}
