package keylib

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

import "testing"

// One library record: the id entries followed by a dummy body.
type testRecord struct {
	ids  []testID
	body []byte
}

type testID struct {
	lcnum uint16
	code  string
}

// Assemble a library image with the given skip count and records.
func buildLibrary(skip int, records []testRecord) []byte {
	lib := []byte{0x4b, 0x43, 0x46, 0, 0, 0, byte(skip)}
	for i := 0; i < skip; i++ {
		lib = append(lib, 0xee)
	}

	for _, rec := range records {
		var ids []byte
		for _, id := range rec.ids {
			ids = append(ids, byte(id.lcnum), byte(id.lcnum>>8))
			ids = append(ids, []byte(id.code)...)
			ids = append(ids, ',')
		}
		// Record length counts from the id region, which starts
		// right after the length bytes: the first entry's country
		// number supplies the header's two nominal filler bytes.
		recLen := len(ids) + len(rec.body)
		lib = append(lib, byte(recLen), byte(recLen>>8), byte(len(ids)))
		lib = append(lib, ids...)
		lib = append(lib, rec.body...)
	}
	return lib
}

func TestLocatePrimary(t *testing.T) {
	lib := buildLibrary(0, []testRecord{
		{ids: []testID{{0, "gr"}}, body: []byte{1, 2, 3}},
		{ids: []testID{{0, "fr"}}, body: []byte{4, 5, 6}},
	})

	off, ok := Locate(lib, "fr", true)
	if !ok {
		t.Error("Layout fr should be found")
	}
	// First record is 3 header bytes plus 5 id bytes plus 3 body.
	expect := 7 + 3 + 5 + 3
	if off != expect {
		t.Errorf("Record offset not correct got: %d expected: %d", off, expect)
	}

	if _, ok := Locate(lib, "po", true); ok {
		t.Error("Layout po should not be found")
	}
}

func TestLocateCaseAndSkip(t *testing.T) {
	lib := buildLibrary(5, []testRecord{
		{ids: []testID{{0, "gr"}}, body: []byte{1}},
	})

	off, ok := Locate(lib, "GR", true)
	if !ok {
		t.Error("Lookup should ignore case")
	}
	if off != 12 {
		t.Errorf("Record offset not correct got: %d expected: %d", off, 12)
	}
}

func TestLocateAlias(t *testing.T) {
	lib := buildLibrary(0, []testRecord{
		{ids: []testID{{0, "gr"}, {850, "gr"}}, body: []byte{1}},
	})

	// The country number alias is only tested on the full pass.
	if _, ok := Locate(lib, "gr850", true); ok {
		t.Error("Alias should not match on the first id pass")
	}
	if _, ok := Locate(lib, "gr850", false); !ok {
		t.Error("Alias gr850 should match on the full pass")
	}
}

func TestLocateSecondID(t *testing.T) {
	lib := buildLibrary(0, []testRecord{
		{ids: []testID{{0, "gr"}, {0, "de"}}, body: []byte{1}},
	})

	if _, ok := Locate(lib, "de", true); ok {
		t.Error("Second id should not match when only the first is tested")
	}
	if _, ok := Locate(lib, "de", false); !ok {
		t.Error("Second id should match on the full pass")
	}
}

func TestLocateDamaged(t *testing.T) {
	// Not a library at all.
	if _, ok := Locate([]byte("MZ some executable"), "gr", true); ok {
		t.Error("Foreign file should not match")
	}
	// Too short for the header.
	if _, ok := Locate([]byte{0x4b, 0x43, 0x46}, "gr", true); ok {
		t.Error("Truncated header should not match")
	}
	// Record header runs past the end.
	lib := buildLibrary(0, []testRecord{
		{ids: []testID{{0, "gr"}}, body: []byte{1}},
	})
	for cut := len(lib) - 1; cut > 7; cut-- {
		if _, ok := Locate(lib[:cut], "zz", false); ok {
			t.Errorf("Truncated library at %d should not match", cut)
		}
	}
}
