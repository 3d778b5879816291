/*
 * KeybDOS - Host capability interfaces.
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

// Package host holds the interfaces the keyboard and codepage engine uses to
// reach the surrounding emulator. The engine never touches emulator state
// except through these.
package host

// Resources opens a named file, falling back on any registered built in
// blob of the same name. The returned slice must be treated as read only.
type Resources interface {
	Open(name string) ([]byte, error) // Open named resource.
}

// KeyBuffer is the BIOS keyboard buffer sink.
type KeyBuffer interface {
	AddKey(code uint16) // Enqueue combined scancode/character.
}

// Phys is byte granular access to emulated physical memory.
type Phys interface {
	ReadByte(addr uint32) uint8          // Read one byte.
	WriteByte(addr uint32, value uint8)  // Write one byte.
	BlockRead(addr uint32, data []byte)  // Read into data.
	BlockWrite(addr uint32, data []byte) // Write from data.
}

// Segments holds the real mode segment registers and stack pointer the
// decompression trampoline saves around its far call.
type Segments struct {
	DS  uint16 // Data segment.
	ES  uint16 // Extra segment.
	SS  uint16 // Stack segment.
	ESP uint32 // Stack pointer.
}

// RealMode is the conventional memory allocator and real mode call
// primitive of the emulated machine.
type RealMode interface {
	AllocMem(paragraphs uint16) (uint16, bool) // Allocate, return segment.
	FreeMem(seg uint16)                        // Release a segment.
	Segments() Segments                        // Read current segment set.
	SetSegments(s Segments)                    // Load a segment set.
	RunFar(seg uint16, off uint16)             // Far call, returns on RETF.
}

// Video is the emulated adapter's ROM font plumbing.
type Video interface {
	Font8First() uint32      // Address of 8 line font, first half.
	Font8Second() uint32     // Address of 8 line font, second half.
	Font14() uint32          // Address of 14 line font.
	Font14Alternate() uint32 // Address of 14 line alternate list.
	Font16() uint32          // Address of 16 line font.
	Font16Alternate() uint32 // Address of 16 line alternate list.
	TextMode() bool          // True if a text mode is active on EGA/VGA.
	ReloadFont()             // Reapply the current font to the adapter.
	ReloadRomFonts()         // Restore the ROM default fonts.
	SetupRomMemoryChecksum() // Recompute the ROM checksum byte.
}
