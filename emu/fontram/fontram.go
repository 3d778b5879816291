/*
 * KeybDOS - Video font memory writer.
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

// Package fontram writes glyph tables into the adapter's font memory.
// Kept apart from the codepage parser so the parser can be tested
// against a plain byte array sink.
package fontram

import "github.com/rcornwell/KeybDOS/emu/host"

// Installer copies glyph data byte by byte through the physical write
// primitive.
type Installer struct {
	mem host.Phys
}

// New returns an installer over the given memory.
func New(mem host.Phys) *Installer {
	return &Installer{mem: mem}
}

// Install writes a glyph table at a physical address.
func (in *Installer) Install(addr uint32, data []byte) {
	for i, b := range data {
		in.mem.WriteByte(addr+uint32(i), b)
	}
}

// Terminate writes the single terminator byte of an alternate glyph
// list so the BIOS does not chase stale entries.
func (in *Installer) Terminate(addr uint32) {
	in.mem.WriteByte(addr, 0)
}
