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

// Keypad is the state of the 16-key hex keypad. It belongs to whoever
// polls the input device; Step only ever receives a copy.
type Keypad [KeyCount]bool

// Press marks a key as held down. Keys outside the pad are ignored.
func (k *Keypad) Press(key uint) {
	if key < KeyCount {
		k[key] = true
	}
}

// Release marks a key as up.
func (k *Keypad) Release(key uint) {
	if key < KeyCount {
		k[key] = false
	}
}

// Pressed returns the lowest numbered key that is down.
func (k Keypad) Pressed() (byte, bool) {
	for i, down := range k {
		if down {
			return byte(i), true
		}
	}

	return 0, false
}
