/*
 * KeybDOS - Keyboard layout tables.
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

// Package keymap holds the parsed form of one DOS keyboard layout and
// the parser that fills it from .KL files and .KCL library records.
package keymap

import "strings"

const (
	// Largest scan code the BIOS emits.
	MaxScan = 0x60

	// Twelve parallel planes per scan code. The last two are the
	// command bit row and the per key flag row.
	layoutPlanes = 12
	planeCommand = layoutPlanes - 2
	planeFlags   = layoutPlanes - 1

	maxAdditional  = 8
	diacriticsSize = 2048

	// Wire encoding bias of a dead key command code.
	DiacriticsBias = 200

	// Per key flag row bits.
	FlagPair uint16 = 0x80 // Entries carry a paired scan code.
	FlagCaps uint16 = 0x40 // Key is affected by caps lock.
)

// Qualifier masks of one additional plane.
type Planes struct {
	Required      uint16 // Modifier bits that must be set.
	Forbidden     uint16 // Modifier bits that must be clear.
	RequiredUser  uint16 // User flag bits that must be set.
	ForbiddenUser uint16 // User flag bits that must be clear.
}

// Layout is the parse product of one keyboard layout file. All tables
// are dense; a zero entry means unmapped. The runtime never writes it.
type Layout struct {
	name       string
	codes      []string
	table      [256][layoutPlanes]uint16
	planes     [maxAdditional]Planes
	additional int
	usedLock   uint16
	diacritics [diacriticsSize]uint8
	diaEntries int
}

// New returns an identity layout: nothing mapped, nothing translated.
func New(name string) *Layout {
	return &Layout{name: name, usedLock: 0x0f}
}

// Name of the layout as it was requested.
func (l *Layout) Name() string {
	return l.name
}

// LanguageCodes lists the textual ids the layout recognizes itself by.
func (l *Layout) LanguageCodes() []string {
	return l.codes
}

// HasLanguageCode tests an id against the layout's code list.
func (l *Layout) HasLanguageCode(id string) bool {
	for _, c := range l.codes {
		if strings.EqualFold(c, id) {
			return true
		}
	}
	return false
}

// Entry returns the translation for a scan code on one plane.
func (l *Layout) Entry(scan uint8, plane int) uint16 {
	return l.table[scan][plane]
}

// IsCommand reports whether the entry on a plane is a command code
// rather than a literal character.
func (l *Layout) IsCommand(scan uint8, plane int) bool {
	return l.table[scan][planeCommand]&(1<<plane) != 0
}

// KeyFlags returns the per key flag row for a scan code.
func (l *Layout) KeyFlags(scan uint8) uint16 {
	return l.table[scan][planeFlags]
}

// AdditionalPlanes returns how many planes past shift the layout defines.
func (l *Layout) AdditionalPlanes() int {
	return l.additional
}

// Plane returns the qualifier masks of an additional plane.
func (l *Layout) Plane(i int) Planes {
	return l.planes[i]
}

// UsedLockModifiers names which lock and latch bits the layout honors.
func (l *Layout) UsedLockModifiers() uint16 {
	return l.usedLock
}

// DiacriticsEntries returns the number of dead key sub tables.
func (l *Layout) DiacriticsEntries() int {
	return l.diaEntries
}

// Combine resolves a dead key composition. Index selects the sub table,
// ch is the literal that followed the dead key. On a match the combined
// character is returned with true; otherwise the sub table's standard
// character with false. Index must be below DiacriticsEntries.
func (l *Layout) Combine(index int, ch uint8) (uint8, bool) {
	start := 0
	for i := 0; i < index; i++ {
		start += int(l.diacritics[start+1])*2 + 2
	}
	num := int(l.diacritics[start+1])
	start += 2
	for i := 0; i < num; i++ {
		if l.diacritics[start+i*2] == ch {
			return l.diacritics[start+i*2+1], true
		}
	}
	return l.diacritics[start-2], false
}
