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

// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// Options are the settings given on the command line.
type Options struct {
	ROM         string
	Scale       int
	Hz          int
	Seed        uint64
	Width       int
	Height      int
	Headless    bool
	Cycles      uint64
	Trace       int
	Debug       bool
	Quiet       bool
	Screenshots string
	Version     bool
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage and all flag defaults to w.
func (e *UsageError) ShowUsage(w io.Writer) {
	_, _ = fmt.Fprintf(w, "usage: chip8 [options] [rom]\n\n")
	e.flags.SetOutput(w)
	e.flags.PrintDefaults()
	_, _ = fmt.Fprintln(w)
}

// ParseFlags parses command line arguments, not including the program name.
func ParseFlags(name string, args []string) (Options, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var opts Options
	readOptionFlags(flags, &opts)

	if err := flags.Parse(args); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}

	rest := flags.Args()
	if len(rest) > 1 {
		return opts, &UsageError{
			flags: flags,
			msg:   fmt.Sprintf("unexpected arguments after rom: %s", strings.Join(rest[1:], " ")),
		}
	}

	if len(rest) == 1 {
		if opts.ROM != "" {
			return opts, &UsageError{flags: flags, msg: "rom given twice"}
		}
		opts.ROM = rest[0]
	}

	if err := validateOptions(opts); err != nil {
		return opts, err
	}

	return opts, nil
}

func validateOptions(opts Options) error {
	switch {
	case opts.Hz < 0:
		return fmt.Errorf("invalid clock speed: %d", opts.Hz)
	case opts.Hz == 0 && !opts.Headless:
		return fmt.Errorf("an unpaced clock speed of 0 is only valid when running headless")
	case opts.Scale <= 0:
		return fmt.Errorf("invalid scale: %d", opts.Scale)
	case opts.Width < 0 || opts.Height < 0:
		return fmt.Errorf("invalid resolution: %dx%d", opts.Width, opts.Height)
	case opts.Trace < 0:
		return fmt.Errorf("invalid trace size: %d", opts.Trace)
	case opts.Headless && opts.ROM == "" && !opts.Version:
		return fmt.Errorf("a rom is required when running headless")
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *Options) {
	flags.StringVar(&opts.ROM, "rom", "", "name of the ROM or .asm/.c8s source file to run")
	flags.IntVar(&opts.Scale, "scale", 10, "size of each pixel in the window and screenshots")
	flags.IntVar(&opts.Hz, "hz", 500, "instructions executed per second, 0 runs headless programs unpaced")
	flags.Uint64Var(&opts.Seed, "seed", 0, "seed for the random number generator, 0 picks one from the clock")
	flags.IntVar(&opts.Width, "width", 0, "framebuffer width, 0 for the default of 64")
	flags.IntVar(&opts.Height, "height", 0, "framebuffer height, 0 for the default of 32")
	flags.BoolVar(&opts.Headless, "headless", false, "run without a window and print the screen to the console when done")
	flags.Uint64Var(&opts.Cycles, "cycles", 0, "stop after this many instructions, 0 runs until interrupted")
	flags.IntVar(&opts.Trace, "trace", 16, "number of executed instructions to keep for the pause trace")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.StringVar(&opts.Screenshots, "screenshots", "", "directory screenshots are written to")
	flags.BoolVar(&opts.Version, "version", false, "print the version and exit")
}
