/*
 * KeybDOS - Keyboard layout file parser.
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

/* Keyboard layout file format:

   A bare .KL file starts with the magic "KLF" and one skip byte; the
   payload follows at offset 4. A record inside a .KCL library starts
   with the same payload at record offset plus 2, without the magic.

   The payload opens with a one byte length and that many bytes of
   (country number, comma terminated code) entries. The control block
   after it holds the submapping count, the additional plane count, one
   eight byte descriptor per submapping at 0x14 and the plane qualifier
   masks after the descriptors. Each descriptor names the codepage the
   submapping serves and the offsets of its key table and diacritics
   table, both relative to the control block. */

package keymap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rcornwell/KeybDOS/emu/host"
	"github.com/rcornwell/KeybDOS/emu/keylib"
	"github.com/rcornwell/KeybDOS/util/binreader"
)

var (
	ErrFileNotFound   = errors.New("keyboard layout file not found")
	ErrInvalidFile    = errors.New("invalid keyboard layout file")
	ErrLayoutNotFound = errors.New("no submapping for requested codepage")
)

// NoSpecific selects the normal submapping search instead of a forced
// submapping index.
const NoSpecific = -1

// Read loads a layout by name. A bare <name>.kl file wins; the library
// files and their built in equivalents are searched next, primary ids
// before country number aliases. Specific forces one submapping index
// and is used when a layout switches itself through a command code.
func Read(res host.Resources, name string, codepage uint16, specific int) (*Layout, error) {
	layout := New(name)
	if name == "none" {
		return layout, nil
	}

	payload, start, err := openLayout(res, name)
	if err != nil {
		return nil, err
	}

	if err := layout.parse(payload, start, codepage, specific); err != nil {
		return nil, err
	}
	return layout, nil
}

// ExtractCodepage returns the default codepage of a layout, the one its
// first concrete submapping serves. Unresolvable layouts default to 437.
func ExtractCodepage(res host.Resources, name string) uint16 {
	if name == "none" {
		return 437
	}

	payload, start, err := openLayout(res, name)
	if err != nil {
		return 437
	}

	rd := binreader.New(payload)
	dataLen, err := rd.Byte(start)
	if err != nil {
		return 437
	}
	block := start + 1 + int(dataLen)

	submappings, err := rd.Byte(block)
	if err != nil {
		return 437
	}
	for s := 0; s < int(submappings); s++ {
		cp, err := rd.U16(block + 0x14 + s*8)
		if err != nil {
			return 437
		}
		if cp != 0 {
			return cp
		}
	}
	return 437
}

// Locate the layout payload: a bare .KL file first, then the library
// chain. Returns the payload bytes and the offset the parse starts at.
func openLayout(res host.Resources, name string) ([]byte, int, error) {
	data, err := res.Open(name + ".kl")
	if err == nil {
		if len(data) < 4 || data[0] != 0x4b || data[1] != 0x4c || data[2] != 0x46 {
			slog.Warn("Invalid keyboard layout file " + name + ".kl")
			return nil, 0, ErrInvalidFile
		}
		return data, 4, nil
	}

	// Two passes over the libraries: exact primary ids first, then
	// every id and its country number alias. A primary hit in a late
	// library outranks an alias hit in an early one.
	for _, firstOnly := range []bool{true, false} {
		for _, lib := range keylib.LibraryNames {
			data, err := res.Open(lib)
			if err != nil {
				continue
			}
			if rec, ok := keylib.Locate(data, name, firstOnly); ok {
				if rec+2 >= len(data) {
					return nil, 0, ErrInvalidFile
				}
				return data[rec+2:], 0, nil
			}
		}
	}

	slog.Warn("Keyboard layout " + name + " not found")
	return nil, 0, ErrFileNotFound
}

// Parse the layout payload into the tables.
func (l *Layout) parse(payload []byte, start int, codepage uint16, specific int) error {
	if len(payload) > binreader.ScratchSize {
		payload = payload[:binreader.ScratchSize]
	}
	rd := binreader.New(payload)

	dataLen, err := rd.Byte(start)
	if err != nil {
		return invalid(err)
	}

	// Language code list, same encoding as a library record id region.
	idPos := start + 1
	for i := 0; i < int(dataLen); {
		i += 2 // country number, unused here
		var code []byte
		for i < int(dataLen) {
			ch, err := rd.Byte(idPos + i)
			if err != nil {
				return invalid(err)
			}
			i++
			if ch == ',' {
				break
			}
			code = append(code, ch)
		}
		if len(code) > 0 {
			l.codes = append(l.codes, string(code))
		}
	}

	// Control block.
	block := start + 1 + int(dataLen)
	submapCount, err := rd.Byte(block)
	if err != nil {
		return invalid(err)
	}
	additional, err := rd.Byte(block + 1)
	if err != nil {
		return invalid(err)
	}
	if additional > maxAdditional {
		additional = maxAdditional
	}
	l.additional = int(additional)
	submappings := int(submapCount)

	// The descriptor array and the plane masks behind it must fit.
	planeBase := block + 0x14 + submappings*8
	if _, err := rd.Slice(block+0x14, submappings*8+l.additional*8); err != nil {
		return invalid(err)
	}

	for i := 0; i < l.additional; i++ {
		p := &l.planes[i]
		p.Required, _ = rd.U16(planeBase + i*8)
		p.Forbidden, _ = rd.U16(planeBase + i*8 + 2)
		p.RequiredUser, _ = rd.U16(planeBase + i*8 + 4)
		p.ForbiddenUser, _ = rd.U16(planeBase + i*8 + 6)
		l.usedLock |= p.Required & 0x70
	}

	// A layout switching itself through a command code names one
	// submapping outright; no codepage search happens then.
	if specific != NoSpecific {
		if specific >= submappings {
			return ErrLayoutNotFound
		}
		return l.parseSubmapping(rd, block, specific)
	}

	// Walk the submappings. A submapping is taken when it serves the
	// requested codepage, or as the wildcard default when submapping
	// zero serves any codepage. Later tables overwrite earlier ones;
	// the walk stops once the exact codepage has been merged.
	found := false
	accepted := false
	for s := 0; s < submappings && !found; s++ {
		desc := block + 0x14 + s*8
		submapCP, err := rd.U16(desc)
		if err != nil {
			return invalid(err)
		}
		if submapCP != codepage && !(submapCP == 0 && s == 0) {
			continue
		}
		if submapCP == codepage {
			found = true
		}
		accepted = true

		if err := l.parseSubmapping(rd, block, s); err != nil {
			return err
		}
	}

	if !accepted {
		slog.Warn(fmt.Sprintf("No layout in %s for codepage %d", l.name, codepage))
		return ErrLayoutNotFound
	}
	return nil
}

// Merge one submapping's tables into the layout.
func (l *Layout) parseSubmapping(rd *binreader.Reader, block int, s int) error {
	desc := block + 0x14 + s*8
	tableOff, err := rd.U16(desc + 2)
	if err != nil {
		return invalid(err)
	}
	diaOff, err := rd.U16(desc + 4)
	if err != nil {
		return invalid(err)
	}

	if diaOff != 0 {
		if err := l.parseDiacritics(rd, block+int(diaOff)); err != nil {
			return err
		}
	}
	if tableOff != 0 {
		if err := l.parseKeyTable(rd, block+int(tableOff)); err != nil {
			return err
		}
	}
	return nil
}

// Copy the dead key sub tables. Each is a lead character, a pair count
// and that many (scan, combined) pairs; a zero lead terminates.
func (l *Layout) parseDiacritics(rd *binreader.Reader, pos int) error {
	l.diaEntries = 0
	used := 0
	for {
		lead, err := rd.Byte(pos)
		if err != nil {
			return invalid(err)
		}
		if lead == 0 {
			return nil
		}
		num, err := rd.Byte(pos + 1)
		if err != nil {
			return invalid(err)
		}
		size := 2 + 2*int(num)
		if used+size > diacriticsSize {
			return nil
		}
		sub, err := rd.Slice(pos, size)
		if err != nil {
			return invalid(err)
		}
		copy(l.diacritics[used:], sub)
		used += size
		pos += size
		l.diaEntries++
	}
}

// Install one submapping's key records. Each record is a scan code, a
// flag byte holding entry count, pairing and lock group, a command bit
// byte and the per plane entries.
func (l *Layout) parseKeyTable(rd *binreader.Reader, pos int) error {
	for {
		scan, err := rd.Byte(pos)
		if err != nil {
			return invalid(err)
		}
		if scan == 0 {
			return nil
		}
		flags, err := rd.Byte(pos + 1)
		if err != nil {
			return invalid(err)
		}
		cmdBits, err := rd.Byte(pos + 2)
		if err != nil {
			return invalid(err)
		}
		scanLength := int(flags&7) + 1
		entrySize := 1
		if flags&0x80 != 0 {
			entrySize = 2
		}
		pos += 3

		if scan&0x7f <= MaxScan {
			for plane := 0; plane < scanLength; plane++ {
				if plane >= l.additional+2 {
					break
				}
				var entry uint16
				ch, err := rd.Byte(pos + plane*entrySize)
				if err != nil {
					return invalid(err)
				}
				entry = uint16(ch)
				if entrySize == 2 {
					hi, err := rd.Byte(pos + plane*2 + 1)
					if err != nil {
						return invalid(err)
					}
					entry |= uint16(hi) << 8
				}
				if entry == 0 {
					continue
				}
				l.table[scan][plane] = entry
				l.table[scan][planeCommand] &^= 1 << plane
				if cmdBits&(1<<plane) != 0 {
					l.table[scan][planeCommand] |= 1 << plane
				}
			}

			// Fold the per key flags: entry count by maximum,
			// the high nibble by union.
			old := l.table[scan][planeFlags]
			newFlags := old & 7
			if uint16(flags&7) > newFlags {
				newFlags = uint16(flags & 7)
			}
			newFlags |= (uint16(flags) | old) & 0xf0
			l.table[scan][planeFlags] = newFlags
			l.usedLock |= uint16(flags) & 0x30
		}

		pos += scanLength * entrySize
	}
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidFile, err)
}
