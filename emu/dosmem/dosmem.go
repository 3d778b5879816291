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

// Package dosmem models the one megabyte conventional memory space of
// the emulated machine with a first fit paragraph allocator. It backs
// the physical access and allocation primitives the codepage loader
// borrows during decompression.
package dosmem

const (
	memSize = 1024 * 1024 // One megabyte address space.

	// Allocatable arena, in paragraphs. Low memory below 0x0800 is
	// left to the BIOS area, everything from 0xA000 up is adapter
	// space.
	arenaStart uint16 = 0x0800
	arenaEnd   uint16 = 0xa000

	// Mask address to the one megabyte space.
	amask uint32 = 0x000fffff
)

type block struct {
	seg  uint16 // First paragraph of the block.
	size uint16 // Size in paragraphs.
	used bool
}

// Memory is one conventional memory space.
type Memory struct {
	mem    [memSize]uint8
	blocks []block
}

// New returns a memory with the whole arena free.
func New() *Memory {
	return &Memory{
		blocks: []block{{seg: arenaStart, size: arenaEnd - arenaStart}},
	}
}

// Read one byte.
func (m *Memory) ReadByte(addr uint32) uint8 {
	return m.mem[addr&amask]
}

// Write one byte.
func (m *Memory) WriteByte(addr uint32, value uint8) {
	m.mem[addr&amask] = value
}

// Read a run of bytes into data.
func (m *Memory) BlockRead(addr uint32, data []byte) {
	for i := range data {
		data[i] = m.mem[(addr+uint32(i))&amask]
	}
}

// Write a run of bytes from data.
func (m *Memory) BlockWrite(addr uint32, data []byte) {
	for i := range data {
		m.mem[(addr+uint32(i))&amask] = data[i]
	}
}

// AllocMem grabs a block of paragraphs, first fit. Returns the segment
// and true, or false when no block is large enough.
func (m *Memory) AllocMem(paragraphs uint16) (uint16, bool) {
	if paragraphs == 0 {
		return 0, false
	}
	for i := range m.blocks {
		b := &m.blocks[i]
		if b.used || b.size < paragraphs {
			continue
		}
		if b.size > paragraphs {
			// Split off the tail as a new free block.
			rest := block{seg: b.seg + paragraphs, size: b.size - paragraphs}
			m.blocks = append(m.blocks, block{})
			copy(m.blocks[i+2:], m.blocks[i+1:])
			m.blocks[i+1] = rest
			b = &m.blocks[i]
			b.size = paragraphs
		}
		b.used = true
		return b.seg, true
	}
	return 0, false
}

// FreeMem releases a block by segment and merges free neighbors.
func (m *Memory) FreeMem(seg uint16) {
	for i := range m.blocks {
		if m.blocks[i].seg != seg || !m.blocks[i].used {
			continue
		}
		m.blocks[i].used = false

		// Merge with the next block first so indexes stay valid.
		if i+1 < len(m.blocks) && !m.blocks[i+1].used {
			m.blocks[i].size += m.blocks[i+1].size
			m.blocks = append(m.blocks[:i+1], m.blocks[i+2:]...)
		}
		if i > 0 && !m.blocks[i-1].used {
			m.blocks[i-1].size += m.blocks[i].size
			m.blocks = append(m.blocks[:i], m.blocks[i+1:]...)
		}
		return
	}
}

// FreeCount returns the number of free paragraphs, for diagnostics.
func (m *Memory) FreeCount() uint16 {
	var count uint16
	for _, b := range m.blocks {
		if !b.used {
			count += b.size
		}
	}
	return count
}
