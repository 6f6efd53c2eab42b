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

package video

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/massung/chip8-interp/chip8"
	"golang.org/x/image/bmp"
)

// Image converts a framebuffer to a grayscale image, each pixel drawn as
// a scale x scale block.
func Image(fb *chip8.Framebuffer, scale int) *image.Gray {
	if scale < 1 {
		scale = 1
	}

	img := image.NewGray(image.Rect(0, 0, fb.Width*scale, fb.Height*scale))

	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			if !fb.At(x, y) {
				continue
			}

			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.SetGray(x*scale+dx, y*scale+dy, color.Gray{Y: 0xFF})
				}
			}
		}
	}

	return img
}

// Screenshot writes the framebuffer to w as a BMP.
func Screenshot(w io.Writer, fb *chip8.Framebuffer, scale int) error {
	if err := bmp.Encode(w, Image(fb, scale)); err != nil {
		return fmt.Errorf("encoding screenshot: %w", err)
	}

	return nil
}

// SaveScreenshot writes the framebuffer to a new, timestamped BMP file in
// dir and returns its path.
func SaveScreenshot(dir string, fb *chip8.Framebuffer, scale int) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating screenshot directory: %w", err)
	}

	name := fmt.Sprintf("chip8-%s.bmp", time.Now().Format("20060102-150405.000"))
	path := filepath.Join(dir, name)

	err := writeFile(path, func(w io.Writer) error {
		return Screenshot(w, fb, scale)
	})
	if err != nil {
		return "", err
	}

	return path, nil
}

// writeFile creates path and fills it with write. On failure the partly
// written file is removed.
func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating screenshot: %w", err)
	}

	if err := write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("closing screenshot: %w", err)
	}

	return nil
}
