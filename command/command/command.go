/*
 * KeybDOS - Console keystroke model.
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

// Package command models one console keystroke: a scan code plus the
// BIOS flag bytes built from named modifiers.
package command

import (
	"errors"
	"strconv"
	"strings"
)

// KeyEvent is a scan code event ready for the translation runtime.
type KeyEvent struct {
	Scan   uint8 // Scan code.
	Flags1 uint8 // BIOS shift state byte.
	Flags2 uint8 // Auxiliary flags.
	Flags3 uint8 // E0 prefix and auxiliary flags.
}

// Named modifiers the console accepts after a scan code. The bit goes
// into the flag byte the BIOS keeps it in.
var modifiers = map[string]KeyEvent{
	"RSHIFT": {Flags1: 0x01},
	"LSHIFT": {Flags1: 0x02},
	"SHIFT":  {Flags1: 0x02},
	"CTRL":   {Flags1: 0x04},
	"ALT":    {Flags1: 0x08},
	"SCROLL": {Flags1: 0x10},
	"NUM":    {Flags1: 0x20},
	"CAPS":   {Flags1: 0x40},
	"INSERT": {Flags1: 0x80},
	"E0":     {Flags3: 0x02},
}

// ModifierNames lists the accepted modifier words, for completion.
func ModifierNames() []string {
	names := make([]string, 0, len(modifiers))
	for name := range modifiers {
		names = append(names, strings.ToLower(name))
	}
	return names
}

// ParseKeyEvent builds an event from a hex scan code and modifier words.
func ParseKeyEvent(scan string, mods []string) (KeyEvent, error) {
	var event KeyEvent

	value, err := strconv.ParseUint(strings.TrimPrefix(scan, "0x"), 16, 8)
	if err != nil {
		return event, errors.New("scan code must be a hex byte: " + scan)
	}
	event.Scan = uint8(value)

	for _, mod := range mods {
		bits, ok := modifiers[strings.ToUpper(mod)]
		if !ok {
			return event, errors.New("unknown modifier: " + mod)
		}
		event.Flags1 |= bits.Flags1
		event.Flags2 |= bits.Flags2
		event.Flags3 |= bits.Flags3
	}
	return event, nil
}
