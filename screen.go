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
	"fmt"

	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

/// Border is the space in pixels around the screen in the window.
///
const Border = 8

var (
	Screen *sdl.Texture
)

/// InitScreen creates the streaming texture the CHIP-8 video memory is
/// uploaded to.
///
func InitScreen() error {
	var err error

	// on pixels are opaque white, off pixels fully transparent
	Screen, err = Renderer.CreateTexture(sdl.PIXELFORMAT_RGBA8888, sdl.TEXTUREACCESS_STREAMING, int32(VM.Video.Width), int32(VM.Video.Height))
	if err != nil {
		return fmt.Errorf("creating screen texture: %w", err)
	}

	// tint the lit pixels and let the background show through the rest
	if err = Screen.SetBlendMode(sdl.BLENDMODE_BLEND); err != nil {
		return fmt.Errorf("setting screen blend mode: %w", err)
	}
	if err = Screen.SetColorMod(17, 29, 43); err != nil {
		return fmt.Errorf("setting screen color: %w", err)
	}

	return nil
}

/// RefreshScreen uploads the CHIP-8 video memory to the screen texture.
///
func RefreshScreen() {
	fb := VM.Video

	// UpdateRGBA takes the row stride in pixels
	if err := Screen.UpdateRGBA(nil, fb.Pixels, fb.Pitch()/4); err != nil {
		Logger.Error("Drawing screen failed", log.Err(err))
	}
}

/// CopyScreen to the render target, each pixel scale x scale.
///
func CopyScreen(x, y, scale int32) {
	w, h := int32(VM.Video.Width), int32(VM.Video.Height)
	dst := sdl.Rect{X: x, Y: y, W: w * scale, H: h * scale}

	// the background color for the screen
	_ = Renderer.SetDrawColor(143, 145, 133, 255)
	_ = Renderer.FillRect(&dst)

	// stretch the texture to fit
	_ = Renderer.Copy(Screen, nil, &dst)
}
