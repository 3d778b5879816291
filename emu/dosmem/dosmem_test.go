package dosmem

/*
 * KeybDOS - Conventional memory model.
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

func TestReadWrite(t *testing.T) {
	mem := New()

	mem.WriteByte(0x12345, 0xa5)
	if v := mem.ReadByte(0x12345); v != 0xa5 {
		t.Errorf("Memory not correct got: %x expected: %x", v, 0xa5)
	}

	// Addresses wrap at one megabyte.
	mem.WriteByte(0x100000+0x42, 0x77)
	if v := mem.ReadByte(0x42); v != 0x77 {
		t.Errorf("Wrapped address not correct got: %x expected: %x", v, 0x77)
	}
}

func TestBlockReadWrite(t *testing.T) {
	mem := New()

	data := []byte{1, 2, 3, 4, 5}
	mem.BlockWrite(0x8000, data)

	got := make([]byte, 5)
	mem.BlockRead(0x8000, got)
	for i := range data {
		if got[i] != data[i] {
			t.Errorf("Block byte %d not correct got: %x expected: %x", i, got[i], data[i])
		}
	}
}

func TestAllocFree(t *testing.T) {
	mem := New()
	free := mem.FreeCount()

	seg1, ok := mem.AllocMem(0x1500)
	if !ok {
		t.Fatal("First allocation should succeed")
	}
	seg2, ok := mem.AllocMem(0x100)
	if !ok {
		t.Fatal("Second allocation should succeed")
	}
	if seg2 != seg1+0x1500 {
		t.Errorf("Second segment not correct got: %x expected: %x", seg2, seg1+0x1500)
	}
	if mem.FreeCount() != free-0x1600 {
		t.Errorf("Free count not correct got: %d expected: %d", mem.FreeCount(), free-0x1600)
	}

	// Freeing both merges everything back into one block.
	mem.FreeMem(seg1)
	mem.FreeMem(seg2)
	if mem.FreeCount() != free {
		t.Errorf("Free count after release not correct got: %d expected: %d", mem.FreeCount(), free)
	}

	// The merged block serves a full size allocation again.
	if _, ok := mem.AllocMem(free); !ok {
		t.Error("Merged arena should serve a full size allocation")
	}
}

func TestAllocTooBig(t *testing.T) {
	mem := New()

	if _, ok := mem.AllocMem(0xf000); ok {
		t.Error("Oversized allocation should fail")
	}
	if _, ok := mem.AllocMem(0); ok {
		t.Error("Zero size allocation should fail")
	}
}

func TestFreeUnknown(t *testing.T) {
	mem := New()
	free := mem.FreeCount()

	// Freeing a segment that was never handed out changes nothing.
	mem.FreeMem(0x4242)
	if mem.FreeCount() != free {
		t.Errorf("Free of unknown segment changed arena got: %d", mem.FreeCount())
	}
}
