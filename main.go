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
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/massung/chip8-interp/chip8"
	"github.com/massung/chip8-interp/internal/cli"
	"github.com/massung/chip8-interp/internal/config"
	"github.com/massung/chip8-interp/internal/runner"
	"github.com/massung/chip8-interp/video"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

var (
	/// The CHIP-8 virtual machine.
	///
	VM *chip8.VM

	/// The SDL Window and Renderer.
	///
	Window   *sdl.Window
	Renderer *sdl.Renderer

	/// Options given on the command line.
	///
	Options cli.Options

	/// Logger used by the front end and the VM.
	///
	Logger *log.Logger
)

/// errNoROM is returned when the file dialog is cancelled.
///
var errNoROM = errors.New("no rom selected")

func init() {
	runtime.LockOSThread()
}

func main() {
	ctx := app.Context()

	opts, err := cli.ParseFlags(os.Args[0], os.Args[1:])
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)

		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			printBanner(opts)
			usageErr.ShowUsage(os.Stdout)
		} else {
			logger.Error("Invalid options", log.Err(err))
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Println(buildinfo.Version(version, commit, date))
		return
	}

	Options = opts
	Logger = config.CreateLogger(opts.Debug, opts.Quiet)

	printBanner(opts)

	// create a new CHIP-8 virtual machine, must happen early!
	VM = chip8.New(machineOptions(opts, Logger)...)

	if opts.Headless {
		err = runHeadless(ctx)
	} else {
		err = runWindow(ctx)
	}

	switch {
	case errors.Is(err, context.Canceled):
		Logger.Info("Interrupted")
	case errors.Is(err, errNoROM):
		Logger.Info("No ROM selected")
	case err != nil:
		Logger.Fatal("Execution failed", log.Err(err))
	}
}

func printBanner(opts cli.Options) {
	if !opts.Quiet {
		fmt.Println("[-----------------------------------]")
		fmt.Println("[ chip8 - CHIP-8 interpreter        ]")
		fmt.Printf("[-----------------------------------]\n\n")
		fmt.Printf("version: %s\n\n", buildinfo.Version(version, commit, date))
	}
}

func machineOptions(opts cli.Options, logger *log.Logger) []chip8.Option {
	vmOpts := []chip8.Option{
		chip8.WithLogger(logger),
		chip8.WithResolution(opts.Width, opts.Height),
		chip8.WithTrace(opts.Trace),
	}

	// zero lets the machine seed itself from the clock
	if opts.Seed != 0 {
		vmOpts = append(vmOpts, chip8.WithSeed(opts.Seed))
	}

	return vmOpts
}

/// chooseROM asks for a program with a native file dialog.
///
func chooseROM() (string, error) {
	path, err := dialog.File().
		Filter("CHIP-8 programs", "ch8", "c8", "rom").
		Filter("CHIP-8 assembly", "asm", "c8s").
		Title("Load CHIP-8 program").
		Load()

	if errors.Is(err, dialog.ErrCancelled) {
		return "", errNoROM
	}
	if err != nil {
		return "", fmt.Errorf("selecting rom: %w", err)
	}

	return path, nil
}

/// runHeadless executes the program without a window, then prints the
/// screen to the console and optionally saves a screenshot.
///
func runHeadless(ctx context.Context) error {
	if err := runner.LoadProgram(Logger, VM, Options.ROM); err != nil {
		return err
	}

	err := runner.Run(ctx, VM, runner.Config{Hz: Options.Hz, Cycles: Options.Cycles})
	if err != nil && !errors.Is(err, runner.ErrCycleLimit) && !errors.Is(err, context.Canceled) {
		logTrace()
		return err
	}

	Logger.Info("Stopped", log.Int("cycles", int(VM.Cycles)), log.Hex("pc", VM.PC))

	if err := video.NewTerminal(os.Stdout).Render(VM.Video); err != nil {
		return err
	}

	if Options.Screenshots != "" {
		if err := Screenshot(); err != nil {
			return err
		}
	}

	return nil
}

/// runWindow opens the SDL window and runs the program until the window
/// is closed or the user quits.
///
func runWindow(ctx context.Context) error {
	var err error

	if Options.ROM == "" {
		if Options.ROM, err = chooseROM(); err != nil {
			return err
		}
	}

	if err = runner.LoadProgram(Logger, VM, Options.ROM); err != nil {
		dialog.Message("%s", err).Title("CHIP-8").Error()
		return err
	}

	// initialize SDL
	if err = sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("initializing sdl: %w", err)
	}
	defer sdl.Quit()

	// create the main window and renderer
	w := int32(VM.Video.Width*Options.Scale + 2*Border)
	h := int32(VM.Video.Height*Options.Scale + 2*Border)

	if Window, Renderer, err = sdl.CreateWindowAndRenderer(w, h, uint32(sdl.WINDOW_SHOWN)); err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer func() {
		_ = Renderer.Destroy()
		_ = Window.Destroy()
	}()

	UpdateTitle()

	if err = InitScreen(); err != nil {
		return err
	}
	defer func() {
		_ = Screen.Destroy()
	}()

	// set processor speed and refresh rate
	clock := time.NewTicker(max(time.Second/time.Duration(Options.Hz), time.Microsecond))
	defer clock.Stop()

	refresh := time.NewTicker(time.Second / runner.RefreshRate)
	defer refresh.Stop()

	// loop until window closed or user quit
	for ProcessEvents() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-refresh.C:
			Refresh()
		case <-clock.C:
			if !Paused {
				Step()
			}
		}
	}

	return nil
}

/// Step the virtual machine once. A fault pauses execution so the trace
/// can be inspected.
///
func Step() {
	if err := VM.Step(Keys); err != nil {
		Logger.Error("Execution halted", log.Err(err))
		logTrace()
		Pause(true)
	}
}

/// Refresh redraws the window.
///
func Refresh() {
	_ = Renderer.SetDrawColor(32, 42, 53, 255)
	_ = Renderer.Clear()

	Frame(Border/2, Border/2, int32(VM.Video.Width*Options.Scale)+Border, int32(VM.Video.Height*Options.Scale)+Border, VM.Sounding())

	// update the video screen and copy it
	RefreshScreen()
	CopyScreen(Border, Border, int32(Options.Scale))

	// show the new frame
	Renderer.Present()
}

/// Frame draws a bevelled border. The highlight glows while the sound
/// timer is running.
///
func Frame(x, y, w, h int32, sounding bool) {
	_ = Renderer.SetDrawColor(0, 0, 0, 255)
	_ = Renderer.DrawLine(x, y, x+w, y)
	_ = Renderer.DrawLine(x, y, x, y+h)

	// highlight
	if sounding {
		_ = Renderer.SetDrawColor(230, 190, 80, 255)
	} else {
		_ = Renderer.SetDrawColor(95, 112, 120, 255)
	}
	_ = Renderer.DrawLine(x+w, y, x+w, y+h)
	_ = Renderer.DrawLine(x, y+h, x+w, y+h)
}

/// Screenshot saves the current screen as a BMP.
///
func Screenshot() error {
	dir := Options.Screenshots
	if dir == "" {
		dir = filepath.Dir(Options.ROM)
	}

	path, err := video.SaveScreenshot(dir, VM.Video, Options.Scale)
	if err != nil {
		return err
	}

	Logger.Info("Saved screenshot", log.String("file", path))
	return nil
}

/// logTrace writes the most recently executed instructions to the log.
///
func logTrace() {
	trace := VM.Trace()
	if trace == nil {
		return
	}

	trace.End()

	for _, line := range trace.Window(trace.Len()) {
		Logger.Info(line)
	}

	Logger.Info("Next instruction", log.String("at", VM.Disassemble(VM.PC)))
}
