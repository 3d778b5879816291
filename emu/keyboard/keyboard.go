/*
 * KeybDOS - Keyboard translation runtime.
 *
 * Copyright 2025, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

/* Package keyboard turns raw scan code events into the characters a DOS
   program reads from the BIOS key buffer.

   Every event carries the BIOS shift state byte and two auxiliary flag
   bytes. When no honored lock modifier is down the normal or shift
   plane answers directly, with caps lock folded in for the keys marked
   caps affected. Otherwise each additional plane of the layout is
   tested against its qualifier masks; the first plane that qualifies
   but maps nothing masks out the rest.

   A resolved entry is either a literal, emitted into the key buffer, or
   a command code: switch submapping, set or clear a user flag, or start
   a dead key. A pending dead key combines with the next literal through
   the layout's diacritics table and survives modifier only keys. */

package keyboard

import (
	"github.com/rcornwell/KeybDOS/emu/host"
	"github.com/rcornwell/KeybDOS/emu/keymap"
	"github.com/rcornwell/KeybDOS/util/debug"
)

const (
	// Debug options.
	debugKey    = 1 << iota // Log translated keys.
	debugPlane              // Log plane selection.
	debugDetail             // Low level details.
)

var debugOption = map[string]int{
	"KEY":    debugKey,
	"PLANE":  debugPlane,
	"DETAIL": debugDetail,
}

// Scan codes of the modifier keys a pending dead key ignores.
const (
	scanCtrl       = 0x1d
	scanLeftShift  = 0x2a
	scanRightShift = 0x36
	scanAlt        = 0x38
	scanCapsLock   = 0x3a
	scanNumLock    = 0x45
	scanScrollLock = 0x46
)

// Keyboard is the per keystroke state over one loaded layout.
type Keyboard struct {
	layout     *keymap.Layout
	res        host.Resources
	buffer     host.KeyBuffer
	fileName   string // Layout file the tables came from.
	codepage   uint16 // Codepage the tables were selected for.
	useForeign bool   // False means pass everything through.
	userKeys   uint8  // Live user flag bits.
	diacritic  int    // Pending dead key command code, 0 if none.
	debugMsk   int
}

// New returns a pass-through keyboard with the identity layout.
func New(res host.Resources, buffer host.KeyBuffer) *Keyboard {
	return &Keyboard{
		layout: keymap.New("none"),
		res:    res,
		buffer: buffer,
	}
}

// SetLayout installs a freshly parsed layout. Pending dead key and user
// flags belong to the old tables and are dropped.
func (k *Keyboard) SetLayout(layout *keymap.Layout, fileName string, codepage uint16) {
	k.layout = layout
	k.fileName = fileName
	k.codepage = codepage
	k.useForeign = layout.Name() != "none"
	k.userKeys = 0
	k.diacritic = 0
}

// SetForeign toggles between the loaded layout and US pass-through.
func (k *Keyboard) SetForeign(foreign bool) {
	k.useForeign = foreign
	k.diacritic = 0
}

// Foreign reports whether the loaded layout is in effect.
func (k *Keyboard) Foreign() bool {
	return k.useForeign
}

// Name returns the loaded layout name, "none" when passing through.
func (k *Keyboard) Name() string {
	return k.layout.Name()
}

// HasLanguageCode asks the loaded layout about an id.
func (k *Keyboard) HasLanguageCode(id string) bool {
	return k.layout.HasLanguageCode(id)
}

// Enable debug options.
func (k *Keyboard) Debug(opt string) error {
	return debug.SetOption(&k.debugMsk, debugOption, opt)
}

// Translate handles one scan code event. Flags1 is the BIOS shift state
// byte, flags2 and flags3 carry the e0 prefix and auxiliary bits. True
// means the key was consumed; false leaves it to the default handler.
func (k *Keyboard) Translate(scan, flags1, flags2, flags3 uint8) bool {
	if scan > keymap.MaxScan {
		return false
	}
	if !k.useForeign {
		return false
	}

	keyFlags := k.layout.KeyFlags(scan)
	isPair := keyFlags&keymap.FlagPair != 0

	// Fast path: no honored lock modifier down, no e0 prefix. Shift
	// state and the key's caps behavior pick plane 0 or 1.
	if uint16(flags1)&k.layout.UsedLockModifiers()&0x7c == 0 && flags3&2 == 0 {
		shiftActive := (flags1&2)>>1 | flags1&1
		capsEffect := (uint8(keyFlags&keymap.FlagCaps) & (flags1 & 0x40)) >> 6
		plane := 0
		if (shiftActive != 0) != (capsEffect != 0) {
			plane = 1
		}
		if entry := k.layout.Entry(scan, plane); entry != 0 {
			debug.Debugf("KEYB", k.debugMsk, debugPlane, "scan %02x plane %d", scan, plane)
			if k.mapKey(scan, entry, k.layout.IsCommand(scan, plane), isPair) {
				return true
			}
		}
	}

	// Qualified plane scan. A matching plane that maps nothing masks
	// out all later planes.
	currentFlags := uint16(flags1&0x7f) | uint16(flags2&0x03|flags3&0x0c)<<8
	if flags1&3 != 0 {
		currentFlags |= 0x4000
	}
	if flags3&2 != 0 {
		currentFlags |= 0x1000
	}

	for p := 0; p < k.layout.AdditionalPlanes(); p++ {
		pl := k.layout.Plane(p)
		if currentFlags&pl.Required != pl.Required {
			continue
		}
		if uint16(k.userKeys)&pl.RequiredUser != pl.RequiredUser {
			continue
		}
		if currentFlags&pl.Forbidden != 0 {
			continue
		}
		if uint16(k.userKeys)&pl.ForbiddenUser != 0 {
			continue
		}
		entry := k.layout.Entry(scan, 2+p)
		if entry == 0 {
			break
		}
		debug.Debugf("KEYB", k.debugMsk, debugPlane, "scan %02x plane %d", scan, 2+p)
		if k.mapKey(scan, entry, k.layout.IsCommand(scan, 2+p), isPair) {
			return true
		}
	}

	// A dead key is pending: modifier keys pass, anything else is
	// consumed without advancing the composition.
	if k.diacritic > 0 {
		switch scan {
		case scanCtrl, scanLeftShift, scanRightShift, scanAlt,
			scanCapsLock, scanNumLock, scanScrollLock:
		default:
			k.diacritic = 0
			return true
		}
	}
	return false
}

// Resolve one table entry: run a command code or emit a literal,
// folding in any pending dead key.
func (k *Keyboard) mapKey(scan uint8, entry uint16, isCommand, isPair bool) bool {
	if isCommand {
		code := uint8(entry)
		switch {
		case code >= 200 && code < 235:
			// Begin a dead key composition.
			k.diacritic = int(code)
			if int(code)-keymap.DiacriticsBias >= k.layout.DiacriticsEntries() {
				k.diacritic = 0
			}
			return true

		case code >= 120 && code < 140:
			// Switch to an alternate submapping of the same file.
			layout, err := keymap.Read(k.res, k.fileName, k.codepage, int(code)-119)
			if err == nil {
				k.layout = layout
			}
			return true

		case code >= 180 && code < 188:
			k.userKeys &^= 1 << (code - 180)
			return true

		case code >= 188 && code < 196:
			k.userKeys |= 1 << (code - 188)
			return true

		case code == 160:
			return true
		}
		// Command codes outside the assigned ranges are still
		// consumed; a command never falls through to the planes.
		return true
	}

	if k.diacritic > 0 {
		out, _ := k.layout.Combine(k.diacritic-keymap.DiacriticsBias, uint8(entry))
		k.diacritic = 0
		k.emit(uint16(scan)<<8 | uint16(out))
		return true
	}

	if isPair {
		k.emit(entry)
	} else {
		k.emit(uint16(scan)<<8 | entry&0xff)
	}
	return true
}

func (k *Keyboard) emit(code uint16) {
	debug.Debugf("KEYB", k.debugMsk, debugKey, "emit %04x", code)
	k.buffer.AddKey(code)
}
