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
	"github.com/retroenv/retrogolib/log"
)

type config struct {
	seed      uint64
	width     int
	height    int
	traceSize int
	logger    *log.Logger
}

// Option configures a VM created by New.
type Option func(*config)

// WithSeed fixes the seed of the random number generator used by RND so
// runs are repeatable.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithResolution sets the framebuffer size. Non-positive values keep the
// default.
func WithResolution(width, height int) Option {
	return func(c *config) {
		if width > 0 {
			c.width = width
		}
		if height > 0 {
			c.height = height
		}
	}
}

// WithTrace keeps the last n executed instructions in a Trace.
func WithTrace(n int) Option {
	return func(c *config) {
		c.traceSize = n
	}
}
