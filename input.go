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

package main

import (
	"path/filepath"

	"github.com/massung/chip8-interp/chip8"
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

/// TraceLines is how much of the trace is shown while scrolling.
///
const TraceLines = 8

var (
	/// Mapping of modern keyboard to CHIP-8 keys.
	///
	KeyMap = map[sdl.Scancode]uint{
		sdl.SCANCODE_X: 0x0,
		sdl.SCANCODE_1: 0x1,
		sdl.SCANCODE_2: 0x2,
		sdl.SCANCODE_3: 0x3,
		sdl.SCANCODE_Q: 0x4,
		sdl.SCANCODE_W: 0x5,
		sdl.SCANCODE_E: 0x6,
		sdl.SCANCODE_A: 0x7,
		sdl.SCANCODE_S: 0x8,
		sdl.SCANCODE_D: 0x9,
		sdl.SCANCODE_Z: 0xA,
		sdl.SCANCODE_C: 0xB,
		sdl.SCANCODE_4: 0xC,
		sdl.SCANCODE_R: 0xD,
		sdl.SCANCODE_F: 0xE,
		sdl.SCANCODE_V: 0xF,
	}

	/// Keys is the state of the keypad handed to every step.
	///
	Keys chip8.Keypad

	/// Paused is true while execution is stopped for debugging.
	///
	Paused bool
)

/// ProcessEvents from SDL and map keys to the CHIP-8 VM.
///
func ProcessEvents() bool {
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		switch ev := e.(type) {
		case *sdl.QuitEvent:
			return false
		case *sdl.KeyboardEvent:
			if ev.Type == sdl.KEYUP {
				if key, ok := KeyMap[ev.Keysym.Scancode]; ok {
					Keys.Release(key)
				}
				continue
			}

			if key, ok := KeyMap[ev.Keysym.Scancode]; ok {
				Keys.Press(key)
				continue
			}

			// ignore auto-repeat for the control keys
			if ev.Repeat != 0 {
				continue
			}

			switch ev.Keysym.Scancode {
			case sdl.SCANCODE_ESCAPE:
				return false
			case sdl.SCANCODE_BACKSPACE:
				VM.Reset()
				Keys = chip8.Keypad{}

				Logger.Info("Reset")
			case sdl.SCANCODE_F5, sdl.SCANCODE_SPACE:
				Pause(!Paused)
			case sdl.SCANCODE_F6, sdl.SCANCODE_F10:
				if Paused {
					Step()
					showTrace()
				}
			case sdl.SCANCODE_UP, sdl.SCANCODE_PAGEUP:
				scrollTrace(func(t *chip8.Trace) { t.ScrollUp() })
			case sdl.SCANCODE_DOWN, sdl.SCANCODE_PAGEDOWN:
				scrollTrace(func(t *chip8.Trace) { t.ScrollDown() })
			case sdl.SCANCODE_HOME:
				scrollTrace(func(t *chip8.Trace) { t.Home() })
			case sdl.SCANCODE_END:
				scrollTrace(func(t *chip8.Trace) { t.End() })
			case sdl.SCANCODE_F12:
				if err := Screenshot(); err != nil {
					Logger.Error("Screenshot failed", log.Err(err))
				}
			}
		}
	}

	return true
}

/// Pause or resume execution.
///
func Pause(pause bool) {
	if Paused == pause {
		return
	}

	Paused = pause
	UpdateTitle()

	if Paused {
		Logger.Info("Paused", log.Hex("pc", VM.PC), log.Int("cycles", int(VM.Cycles)))
		logTrace()
	} else {
		Logger.Info("Resumed")
	}
}

/// UpdateTitle shows the program name and whether execution is paused.
///
func UpdateTitle() {
	title := "CHIP-8 - " + filepath.Base(Options.ROM)
	if Paused {
		title += " [PAUSED]"
	}

	Window.SetTitle(title)
}

/// scrollTrace moves through the trace while paused.
///
func scrollTrace(scroll func(t *chip8.Trace)) {
	if trace := VM.Trace(); trace != nil && Paused {
		scroll(trace)
		showTrace()
	}
}

/// showTrace logs the trace around the scroll position.
///
func showTrace() {
	trace := VM.Trace()
	if trace == nil {
		return
	}

	for _, line := range trace.Window(TraceLines) {
		Logger.Info(line)
	}

	Logger.Info("Next instruction", log.String("at", VM.Disassemble(VM.PC)))
}
