/*
 * KeybDOS - Keyboard layout session.
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

// Package session owns the one active keyboard layout and loaded
// codepage. Loading and switching are atomic: a layout replaces the
// previous one only after both the layout parse and the codepage load
// succeeded, so any failure leaves translation exactly as it was.
package session

import (
	"errors"
	"strings"

	"github.com/rcornwell/KeybDOS/emu/codepage"
	"github.com/rcornwell/KeybDOS/emu/host"
	"github.com/rcornwell/KeybDOS/emu/keyboard"
	"github.com/rcornwell/KeybDOS/emu/keymap"
)

// Status is the result of a load or switch, mirroring the codes the
// DOS KEYB interface reports.
type Status int

const (
	KeybNoError Status = iota
	KeybFileNotFound
	KeybInvalidFile
	KeybLayoutNotFound
	KeybInvalidCPFile
)

func (s Status) String() string {
	switch s {
	case KeybNoError:
		return "no error"
	case KeybFileNotFound:
		return "layout file not found"
	case KeybInvalidFile:
		return "invalid layout file"
	case KeybLayoutNotFound:
		return "layout not found"
	case KeybInvalidCPFile:
		return "invalid codepage file"
	}
	return "unknown error"
}

// Map a loader error onto the reported status code.
func statusOf(err error) Status {
	switch {
	case err == nil:
		return KeybNoError
	case errors.Is(err, keymap.ErrFileNotFound):
		return KeybFileNotFound
	case errors.Is(err, keymap.ErrInvalidFile):
		return KeybInvalidFile
	case errors.Is(err, keymap.ErrLayoutNotFound):
		return KeybLayoutNotFound
	case errors.Is(err, codepage.ErrInvalidFile):
		return KeybInvalidCPFile
	}
	return KeybInvalidFile
}

// Session is the engine handed to the interrupt shim. All calls run on
// the emulator's main thread.
type Session struct {
	res      host.Resources
	buffer   host.KeyBuffer
	video    host.Video
	keyb     *keyboard.Keyboard
	loader   *codepage.Loader
	loadedCP uint16
}

// New returns a session in the initial state: codepage 437, US
// pass-through, nothing translated.
func New(res host.Resources, buffer host.KeyBuffer, mem host.Phys, real host.RealMode, video host.Video) *Session {
	return &Session{
		res:      res,
		buffer:   buffer,
		video:    video,
		keyb:     keyboard.New(res, buffer),
		loader:   codepage.New(res, mem, real, video),
		loadedCP: 437,
	}
}

// Load parses a layout for a codepage and installs both. On any
// failure the previous layout stays in effect and the error status is
// returned to the caller.
func (s *Session) Load(layoutName string, codepageID uint16, codepageFile string) Status {
	layout, err := keymap.Read(s.res, layoutName, codepageID, keymap.NoSpecific)
	if err != nil {
		return statusOf(err)
	}

	if st := s.loadCodepage(codepageFile, codepageID); st != KeybNoError {
		return st
	}

	s.keyb.SetLayout(layout, layoutName, codepageID)
	return KeybNoError
}

// Switch changes the active layout by name. A name starting with "US"
// drops back to pass-through; a name the loaded layout answers to just
// re-enables it. Anything else loads the named layout with its own
// default codepage. Returns the status and the codepage that was
// attempted.
func (s *Session) Switch(name string) (Status, uint16) {
	if strings.HasPrefix(strings.ToUpper(name), "US") {
		s.keyb.SetForeign(false)
		return KeybNoError, 0
	}

	if s.keyb.HasLanguageCode(name) {
		s.keyb.SetForeign(true)
		return KeybNoError, 0
	}

	triedCP := keymap.ExtractCodepage(s.res, name)
	layout, err := keymap.Read(s.res, name, triedCP, keymap.NoSpecific)
	if err != nil {
		return statusOf(err), triedCP
	}
	if st := s.loadCodepage("auto", triedCP); st != KeybNoError {
		return st, triedCP
	}

	s.keyb.SetLayout(layout, name, triedCP)
	return KeybNoError, triedCP
}

// Load a codepage file unless nothing would change.
func (s *Session) loadCodepage(file string, id uint16) Status {
	if file == "none" || id == s.loadedCP {
		return KeybNoError
	}
	if err := s.loader.Load(file, id); err != nil {
		return statusOf(err)
	}
	s.loadedCP = id
	return KeybNoError
}

// Translate one scan code event. Delegates to the keyboard runtime.
func (s *Session) Translate(scan, flags1, flags2, flags3 uint8) bool {
	return s.keyb.Translate(scan, flags1, flags2, flags3)
}

// Name returns the loaded layout name, or "none" when passing through.
func (s *Session) Name() string {
	if !s.keyb.Foreign() {
		return "none"
	}
	return s.keyb.Name()
}

// LoadedCodepage returns the codepage whose font is installed.
func (s *Session) LoadedCodepage() uint16 {
	return s.loadedCP
}

// Keyboard exposes the runtime for debug option wiring.
func (s *Session) Keyboard() *keyboard.Keyboard {
	return s.keyb
}

// Shutdown restores the ROM fonts when a foreign codepage was active
// and drops the layout.
func (s *Session) Shutdown() {
	if s.loadedCP != 437 && s.video.TextMode() {
		s.video.ReloadRomFonts()
		s.loadedCP = 437
	}
	s.keyb = keyboard.New(s.res, s.buffer)
}
