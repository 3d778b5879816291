/*
 * KeybDOS - Console command handlers.
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

package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	command "github.com/rcornwell/KeybDOS/command/command"
	"github.com/rcornwell/KeybDOS/emu/session"
	"github.com/rcornwell/KeybDOS/emu/standalone"
	"github.com/rcornwell/KeybDOS/util/hex"
)

// load <layout> [codepage [cpifile]]
func load(line *cmdLine, sess *session.Session, _ *standalone.Host) (bool, error) {
	layout := line.getWord()
	if layout == "" {
		return false, errors.New("load requires a layout name")
	}

	codepage := uint64(437)
	cpFile := "auto"
	if word := line.getWord(); word != "" {
		var err error
		codepage, err = strconv.ParseUint(word, 10, 16)
		if err != nil {
			return false, errors.New("codepage must be a number: " + word)
		}
		if word := line.getWord(); word != "" {
			cpFile = word
		}
	}

	status := sess.Load(layout, uint16(codepage), cpFile)
	if status != session.KeybNoError {
		return false, errors.New(status.String())
	}
	fmt.Printf("Loaded layout %s, codepage %d\n", sess.Name(), sess.LoadedCodepage())
	return false, nil
}

// switch <layout>
func swtch(line *cmdLine, sess *session.Session, _ *standalone.Host) (bool, error) {
	layout := line.getWord()
	if layout == "" {
		return false, errors.New("switch requires a layout name")
	}

	status, triedCP := sess.Switch(layout)
	if status != session.KeybNoError {
		return false, fmt.Errorf("%s (codepage %d)", status.String(), triedCP)
	}
	fmt.Printf("Active layout %s, codepage %d\n", sess.Name(), sess.LoadedCodepage())
	return false, nil
}

// show layout|codepage|keys
func show(line *cmdLine, sess *session.Session, hst *standalone.Host) (bool, error) {
	switch strings.ToLower(line.getWord()) {
	case "layout":
		fmt.Println("Layout: " + sess.Name())
	case "codepage":
		fmt.Printf("Codepage: %d\n", sess.LoadedCodepage())
	case "keys":
		if len(hst.Keys) == 0 {
			fmt.Println("Key buffer empty")
			return false, nil
		}
		str := strings.Builder{}
		for _, code := range hst.Keys {
			fmt.Fprintf(&str, " %04x", code)
		}
		fmt.Println("Key buffer:" + str.String())
	default:
		return false, errors.New("show requires layout, codepage or keys")
	}
	return false, nil
}

// key <scan> [modifier...]
func key(line *cmdLine, sess *session.Session, hst *standalone.Host) (bool, error) {
	scan := line.getWord()
	if scan == "" {
		return false, errors.New("key requires a scan code")
	}

	event, err := command.ParseKeyEvent(scan, line.getWords())
	if err != nil {
		return false, err
	}

	before := len(hst.Keys)
	handled := sess.Translate(event.Scan, event.Flags1, event.Flags2, event.Flags3)
	if !handled {
		fmt.Println("Key passed through")
		return false, nil
	}
	if len(hst.Keys) == before {
		fmt.Println("Key consumed")
		return false, nil
	}
	for _, code := range hst.Keys[before:] {
		fmt.Printf("Key enqueued: %04x\n", code)
	}
	return false, nil
}

// dump <resource>
func dump(line *cmdLine, _ *session.Session, hst *standalone.Host) (bool, error) {
	name := line.getWord()
	if name == "" {
		return false, errors.New("dump requires a file name")
	}

	data, err := hst.Open(name)
	if err != nil {
		return false, err
	}
	str := strings.Builder{}
	hex.FormatDump(&str, data)
	fmt.Print(str.String())
	return false, nil
}

// quit
func quit(_ *cmdLine, _ *session.Session, _ *standalone.Host) (bool, error) {
	return true, nil
}
