package codepage

/*
 * KeybDOS - Codepage file loader.
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

import (
	"errors"
	"testing"

	"github.com/rcornwell/KeybDOS/emu/dosmem"
	"github.com/rcornwell/KeybDOS/emu/standalone"
)

func putU16(buf []byte, off int, v uint16) {
	buf[off] = byte(v)
	buf[off+1] = byte(v >> 8)
}

func putU32(buf []byte, off int, v uint32) {
	buf[off] = byte(v)
	buf[off+1] = byte(v >> 8)
	buf[off+2] = byte(v >> 16)
	buf[off+3] = byte(v >> 24)
}

type testFont struct {
	height uint8
	data   []byte // height*256 glyph bytes
}

type testEntry struct {
	device uint16
	cp     uint16
	fonts  []testFont
}

// Glyph pattern that never repeats within one font table.
func glyphs(height uint8, seed int) []byte {
	data := make([]byte, int(height)*256)
	for i := range data {
		data[i] = byte((i*7 + seed) % 251)
	}
	return data
}

// Assemble a plain .CPI image with the given codepage entries.
func buildCPI(entries []testEntry) []byte {
	buf := make([]byte, 0x19)
	buf[0] = 0xff
	copy(buf[1:5], "FONT")
	putU32(buf, 0x13, 0x19)

	buf = append(buf, byte(len(entries)), byte(len(entries)>>8), 0, 0)

	for _, e := range entries {
		entryPos := len(buf)
		entry := make([]byte, 0x1a)
		putU16(entry, 0x04, e.device)
		putU16(entry, 0x0e, e.cp)

		hdrPos := entryPos + 0x1a
		putU32(entry, 0x16, uint32(hdrPos))

		hdr := make([]byte, 6)
		putU16(hdr, 0, 1)
		putU16(hdr, 2, uint16(len(e.fonts)))

		var blocks []byte
		for _, f := range e.fonts {
			blocks = append(blocks, f.height, 8, 0, 0, 0, 0)
			blocks = append(blocks, f.data...)
		}
		putU16(hdr, 4, uint16(len(blocks)))

		// The reader follows next+2 to the following entry.
		nextPos := hdrPos + 6 + len(blocks)
		putU32(entry, 0, uint32(nextPos-2))

		buf = append(buf, entry...)
		buf = append(buf, hdr...)
		buf = append(buf, blocks...)
	}
	return buf
}

// Check that a glyph table landed at the given address.
func checkFont(t *testing.T, hst *standalone.Host, addr uint32, data []byte, what string) {
	t.Helper()
	got := make([]byte, len(data))
	hst.BlockRead(addr, got)
	for i := range data {
		if got[i] != data[i] {
			t.Errorf("%s byte %d not correct got: %x expected: %x", what, i, got[i], data[i])
			return
		}
	}
}

func TestLoadPlainCPI(t *testing.T) {
	f16 := glyphs(16, 1)
	f14 := glyphs(14, 2)
	f8 := glyphs(8, 3)
	cpi := buildCPI([]testEntry{{
		device: 1,
		cp:     850,
		fonts:  []testFont{{16, f16}, {14, f14}, {8, f8}},
	}})

	hst := standalone.New()
	hst.Files["ega.cpi"] = cpi
	ld := New(hst, hst, hst, hst)

	if err := ld.Load("ega.cpi", 850); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	checkFont(t, hst, standalone.Font16Addr, f16, "16 line font")
	checkFont(t, hst, standalone.Font14Addr, f14, "14 line font")
	checkFont(t, hst, standalone.Font8FirstAddr, f8[:128*8], "8 line font first half")
	checkFont(t, hst, standalone.Font8SecondAddr, f8[128*8:], "8 line font second half")

	if hst.ReadByte(standalone.Font16AltAddr) != 0 {
		t.Error("16 line alternate list should be terminated")
	}
	if hst.FontReloads != 1 {
		t.Errorf("Font reload count not correct got: %d expected: 1", hst.FontReloads)
	}
	if hst.Checksums != 1 {
		t.Errorf("Checksum count not correct got: %d expected: 1", hst.Checksums)
	}
}

func TestSkipPrinterEntry(t *testing.T) {
	f16 := glyphs(16, 4)
	cpi := buildCPI([]testEntry{
		{device: 2, cp: 850, fonts: []testFont{{16, glyphs(16, 9)}}},
		{device: 1, cp: 850, fonts: []testFont{{16, f16}}},
	})

	hst := standalone.New()
	hst.Files["ega.cpi"] = cpi
	ld := New(hst, hst, hst, hst)

	if err := ld.Load("ega.cpi", 850); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	checkFont(t, hst, standalone.Font16Addr, f16, "16 line font")
}

func TestCodepageMissing(t *testing.T) {
	cpi := buildCPI([]testEntry{
		{device: 1, cp: 850, fonts: []testFont{{16, glyphs(16, 5)}}},
	})

	hst := standalone.New()
	hst.Files["ega.cpi"] = cpi
	ld := New(hst, hst, hst, hst)

	if err := ld.Load("ega.cpi", 866); !errors.Is(err, ErrInvalidFile) {
		t.Errorf("Missing codepage should fail, got: %v", err)
	}
}

func TestRejectDRDOS(t *testing.T) {
	hst := standalone.New()
	hst.Files["ega.cpi"] = []byte{0x7f, 'D', 'R', 'F', '_', 0, 0, 0}
	ld := New(hst, hst, hst, hst)

	if err := ld.Load("ega.cpi", 437); !errors.Is(err, ErrInvalidFile) {
		t.Errorf("DR-DOS file should be rejected, got: %v", err)
	}
}

func TestRejectUnknownSignature(t *testing.T) {
	hst := standalone.New()
	hst.Files["ega.cpi"] = []byte("this is not a codepage file at all")
	ld := New(hst, hst, hst, hst)

	if err := ld.Load("ega.cpi", 437); !errors.Is(err, ErrInvalidFile) {
		t.Errorf("Unknown signature should be rejected, got: %v", err)
	}
}

func TestExtensionSwap(t *testing.T) {
	cpi := buildCPI([]testEntry{
		{device: 1, cp: 850, fonts: []testFont{{16, glyphs(16, 6)}}},
	})

	hst := standalone.New()
	hst.Files["ega.cpx"] = cpi
	ld := New(hst, hst, hst, hst)

	// Asking for the .CPI spelling finds the .CPX file.
	if err := ld.Load("ega.cpi", 850); err != nil {
		t.Fatalf("Load with swapped extension returned error: %v", err)
	}
}

func TestAutoUnknownCodepage(t *testing.T) {
	hst := standalone.New()
	ld := New(hst, hst, hst, hst)

	if err := ld.Load("auto", 999); !errors.Is(err, ErrInvalidFile) {
		t.Errorf("Unknown codepage id should fail, got: %v", err)
	}
}

func TestAutoName(t *testing.T) {
	f16 := glyphs(16, 7)
	cpi := buildCPI([]testEntry{
		{device: 1, cp: 866, fonts: []testFont{{16, f16}}},
	})

	hst := standalone.New()
	hst.Files["ega3.cpx"] = cpi
	ld := New(hst, hst, hst, hst)

	if err := ld.Load("auto", 866); err != nil {
		t.Fatalf("Load auto returned error: %v", err)
	}
	checkFont(t, hst, standalone.Font16Addr, f16, "16 line font")
}

func TestNonIncreasingChain(t *testing.T) {
	cpi := buildCPI([]testEntry{
		{device: 2, cp: 850, fonts: []testFont{{16, glyphs(16, 8)}}},
		{device: 1, cp: 850, fonts: []testFont{{16, glyphs(16, 9)}}},
	})
	// Point the first entry's next pointer back at itself.
	putU32(cpi, 0x1d, 0x1d-2)

	hst := standalone.New()
	hst.Files["ega.cpi"] = cpi
	ld := New(hst, hst, hst, hst)

	if err := ld.Load("ega.cpi", 850); !errors.Is(err, ErrInvalidFile) {
		t.Errorf("Backward chain should be rejected, got: %v", err)
	}
}

func TestTruncated(t *testing.T) {
	full := buildCPI([]testEntry{
		{device: 1, cp: 850, fonts: []testFont{{16, glyphs(16, 10)}}},
	})

	// Every truncation must fail cleanly, never read out of range.
	for cut := len(full) - 1; cut >= 5; cut-- {
		hst := standalone.New()
		hst.Files["ega.cpi"] = full[:cut]
		ld := New(hst, hst, hst, hst)
		if err := ld.Load("ega.cpi", 850); !errors.Is(err, ErrInvalidFile) {
			t.Errorf("Truncation at %d should fail, got: %v", cut, err)
		}
	}
}

func TestUPXLoad(t *testing.T) {
	f16 := glyphs(16, 11)
	plain := buildCPI([]testEntry{
		{device: 1, cp: 850, fonts: []testFont{{16, f16}}},
	})

	// A fake packed file: stub bytes, the UPX marker with version 13
	// and filler. The far call stand in plays the role of the
	// decompression stub and writes the plain image back.
	packed := make([]byte, 0x200)
	copy(packed, "MZ stub")
	copy(packed[0x20:], "UPX!")
	packed[0x24] = 13

	var patched uint8
	var duringDS, duringSS uint16
	var duringESP uint32

	hst := standalone.New()
	hst.Files["ega.cpx"] = packed
	hst.FarCall = func(mem *dosmem.Memory, seg uint16, off uint16) {
		base := uint32(seg) << 4
		// The stub's jump byte was patched into a far return.
		patched = mem.ReadByte(base + 0x100 + 0x25 + 19)
		duringDS = hst.Segments().DS
		duringSS = hst.Segments().SS
		duringESP = hst.Segments().ESP
		if off != 0x100 {
			t.Errorf("Far call offset not correct got: %x expected: 100", off)
		}
		mem.BlockWrite(base+0x100, plain)
	}
	ld := New(hst, hst, hst, hst)

	if err := ld.Load("ega.cpx", 850); err != nil {
		t.Fatalf("Load packed returned error: %v", err)
	}

	if patched != 0xcb {
		t.Errorf("Stub not patched got: %x expected: cb", patched)
	}
	if duringDS == 0 || duringSS != duringDS+0x1000 || duringESP != 0xfffe {
		t.Errorf("Segments during call not correct got: ds %x ss %x esp %x",
			duringDS, duringSS, duringESP)
	}
	// Registers restored and the scratch segment released.
	if hst.Segments() != (standalone.New()).Segments() {
		t.Errorf("Segments not restored got: %v", hst.Segments())
	}
	if free := hst.FreeCount(); free != dosmem.New().FreeCount() {
		t.Errorf("Scratch segment not released got: %d free", free)
	}

	checkFont(t, hst, standalone.Font16Addr, f16, "16 line font")
}

func TestUPXTooOld(t *testing.T) {
	packed := make([]byte, 0x100)
	copy(packed[0x10:], "UPX!")
	packed[0x14] = 9

	hst := standalone.New()
	hst.Files["ega.cpx"] = packed
	ld := New(hst, hst, hst, hst)

	if err := ld.Load("ega.cpx", 850); !errors.Is(err, ErrInvalidFile) {
		t.Errorf("Old UPX version should be rejected, got: %v", err)
	}
}

func TestUPXTooBig(t *testing.T) {
	packed := make([]byte, 0xfe01)
	copy(packed[0x10:], "UPX!")
	packed[0x14] = 13

	hst := standalone.New()
	hst.Files["ega.cpx"] = packed
	ld := New(hst, hst, hst, hst)

	if err := ld.Load("ega.cpx", 850); !errors.Is(err, ErrInvalidFile) {
		t.Errorf("Oversized packed file should be rejected, got: %v", err)
	}
}
