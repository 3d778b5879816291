/*
 * KeybDOS - Keyboard layout library index.
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

/* Package keylib locates one keyboard layout inside a .KCL library.

   A library starts with the three byte magic "KCF". Byte 6 holds a skip
   count; the first layout record begins at offset 7 plus that count.
   Each record carries a two byte length and a one byte id region
   length, then the id region itself: (country number, comma terminated
   code) entries, the id region length counting from record offset 3.
   The record is sometimes described with a five byte header whose last
   two bytes are ignored; those two bytes are the first entry's country
   number, which this walk skips per entry instead. Anchoring the id
   region at offset 3 is what lets the layout parser take over the very
   same record at offset 2, where the id region length byte sits. The
   record body after the id region is the layout payload itself.

   Lookup runs twice over every candidate library, first testing only the
   primary id of each record, then every id and its country number alias.
   That keeps a primary hit in a later library ahead of an alias hit in
   an earlier one. */

package keylib

import (
	"strconv"
	"strings"

	"github.com/rcornwell/KeybDOS/util/binreader"
)

// Candidate library names, tried in order. The same names are also the
// registration slots for the built in library blobs.
var LibraryNames = []string{"keyboard.sys", "keybrd2.sys", "keybrd3.sys", "keybrd4.sys"}

// Locate finds the record offset of a layout id inside a library image.
// Returns the offset of the record header and true, or 0 and false when
// the id is not present. A damaged or foreign file is simply reported as
// not found so the remaining candidate libraries still get a chance.
func Locate(lib []byte, wantedID string, firstIDOnly bool) (int, bool) {
	rd := binreader.New(lib)

	if rd.Len() < 7 {
		return 0, false
	}
	if lib[0] != 0x4b || lib[1] != 0x43 || lib[2] != 0x46 {
		return 0, false
	}

	skip, err := rd.Byte(6)
	if err != nil {
		return 0, false
	}
	pos := 7 + int(skip)

	for {
		recLen, err := rd.U16(pos)
		if err != nil {
			return 0, false
		}
		dataLen, err := rd.Byte(pos + 2)
		if err != nil {
			return 0, false
		}

		// Walk the id entries. Each is a 16 bit country number
		// followed by a comma terminated code; the first entry's
		// country number doubles as the header's two nominal
		// filler bytes.
		idPos := pos + 3
		for i := 0; i < int(dataLen); {
			lcnum, err := rd.U16(idPos + i)
			if err != nil {
				return 0, false
			}
			i += 2

			var code strings.Builder
			for i < int(dataLen) {
				ch, err := rd.Byte(idPos + i)
				if err != nil {
					return 0, false
				}
				i++
				if ch == ',' {
					break
				}
				code.WriteByte(ch)
			}

			if strings.EqualFold(code.String(), wantedID) {
				return pos, true
			}
			if firstIDOnly {
				break
			}
			if lcnum != 0 {
				alias := code.String() + strconv.Itoa(int(lcnum))
				if strings.EqualFold(alias, wantedID) {
					return pos, true
				}
			}
		}

		pos += 3 + int(recLen)
	}
}
