/*
 * KeybDOS - Self contained host machine.
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

// Package standalone provides a host machine with no emulator around
// it: conventional memory from dosmem, a captured key buffer, a ROM
// font area in adapter space and pluggable resource and far call
// behavior. The command line workbench runs the engine on it and the
// package tests observe it.
package standalone

import (
	"strings"

	"github.com/rcornwell/KeybDOS/emu/dosmem"
	"github.com/rcornwell/KeybDOS/emu/host"
	"github.com/rcornwell/KeybDOS/emu/resource"
)

// ROM font layout in adapter space.
const (
	Font8FirstAddr  uint32 = 0xc0000
	Font8SecondAddr uint32 = 0xc0400
	Font14Addr      uint32 = 0xc0800
	Font14AltAddr   uint32 = 0xc1600
	Font16Addr      uint32 = 0xc1700
	Font16AltAddr   uint32 = 0xc2700
)

// Host is a complete stand in for the surrounding emulator.
type Host struct {
	*dosmem.Memory

	// Keys captured from the BIOS buffer primitive.
	Keys []uint16

	// Named blobs tried before the filesystem resources.
	Files map[string][]byte

	// Called for the far call primitive. Nil leaves memory untouched,
	// which makes packed codepage files fail their parse instead of
	// crashing anything.
	FarCall func(mem *dosmem.Memory, seg uint16, off uint16)

	// Text reports a text mode to the codepage loader.
	Text bool

	// Counters for the video plumbing, observed by tests.
	FontReloads int
	RomReloads  int
	Checksums   int

	resources resource.Files
	segs      host.Segments
}

// New returns a host with fresh memory and the given resource search
// path.
func New(path ...string) *Host {
	return &Host{
		Memory:    dosmem.New(),
		Files:     map[string][]byte{},
		Text:      true,
		resources: resource.Files{Path: path},
	}
}

// AddPath appends a directory to the resource search path.
func (h *Host) AddPath(dir string) {
	h.resources.Path = append(h.resources.Path, dir)
}

// Open a named resource: the host's own blobs win, then the filesystem
// and registered built ins.
func (h *Host) Open(name string) ([]byte, error) {
	if data, ok := h.Files[strings.ToLower(name)]; ok {
		return data, nil
	}
	return h.resources.Open(name)
}

// AddKey captures an enqueued key.
func (h *Host) AddKey(code uint16) {
	h.Keys = append(h.Keys, code)
}

// Segments returns the saved segment set.
func (h *Host) Segments() host.Segments {
	return h.segs
}

// SetSegments loads a segment set.
func (h *Host) SetSegments(s host.Segments) {
	h.segs = s
}

// RunFar invokes the pluggable far call behavior.
func (h *Host) RunFar(seg uint16, off uint16) {
	if h.FarCall != nil {
		h.FarCall(h.Memory, seg, off)
	}
}

func (h *Host) Font8First() uint32 { return Font8FirstAddr }
func (h *Host) Font8Second() uint32 { return Font8SecondAddr }
func (h *Host) Font14() uint32 { return Font14Addr }
func (h *Host) Font14Alternate() uint32 { return Font14AltAddr }
func (h *Host) Font16() uint32 { return Font16Addr }
func (h *Host) Font16Alternate() uint32 { return Font16AltAddr }

// TextMode reports whether a text mode is active.
func (h *Host) TextMode() bool {
	return h.Text
}

// ReloadFont counts a font reapply request.
func (h *Host) ReloadFont() {
	h.FontReloads++
}

// ReloadRomFonts counts a ROM font restore request.
func (h *Host) ReloadRomFonts() {
	h.RomReloads++
}

// SetupRomMemoryChecksum counts a checksum refresh request.
func (h *Host) SetupRomMemoryChecksum() {
	h.Checksums++
}
