/*
 * KeybDOS - Command parser.
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

// Package parser runs the console commands of the keyboard workbench.
package parser

import (
	"errors"
	"unicode"

	"github.com/rcornwell/KeybDOS/emu/session"
	"github.com/rcornwell/KeybDOS/emu/standalone"
)

type cmd struct {
	name     string // Command name.
	min      int    // Minimum match size.
	process  func(*cmdLine, *session.Session, *standalone.Host) (bool, error)
	complete func(*cmdLine) []string
}

type cmdLine struct {
	line string // Current command.
	pos  int    // Position in line.
}

var cmdList = []cmd{
	{name: "load", min: 2, process: load},
	{name: "switch", min: 2, process: swtch},
	{name: "show", min: 2, process: show, complete: showComplete},
	{name: "key", min: 3, process: key, complete: keyComplete},
	{name: "dump", min: 2, process: dump},
	{name: "quit", min: 4, process: quit},
}

// Execute the command line given.
func ProcessCommand(commandLine string, sess *session.Session, hst *standalone.Host) (bool, error) {
	line := cmdLine{line: commandLine}
	command := line.getWord()
	if command == "" {
		return false, nil
	}

	match := matchList(command)
	if len(match) == 0 {
		return false, errors.New("command not found: " + command)
	}
	if len(match) > 1 {
		return false, errors.New("unique command not found: " + command)
	}

	return match[0].process(&line, sess, hst)
}

// Check if command matches at least to minimum length.
func matchCommand(match cmd, command string) bool {
	if len(command) > len(match.name) {
		return false
	}
	for l := 0; l < len(command); l++ {
		if match.name[l] != command[l] {
			return false
		}
	}
	return len(command) >= match.min
}

// Check if command matches one of the commands.
func matchList(command string) []cmd {
	if command == "" {
		return []cmd{}
	}

	var match []cmd
	for _, m := range cmdList {
		if matchCommand(m, command) {
			match = append(match, m)
		}
	}
	return match
}

// Skip forward over line until none whitespace character found.
func (line *cmdLine) skipSpace() {
	for line.pos < len(line.line) {
		if !unicode.IsSpace(rune(line.line[line.pos])) {
			return
		}
		line.pos++
	}
}

// Check if at end of line.
func (line *cmdLine) isEOL() bool {
	if line.pos >= len(line.line) {
		return true
	}
	return line.line[line.pos] == '#'
}

// Return the next word on the line, empty at end of line.
func (line *cmdLine) getWord() string {
	line.skipSpace()
	if line.isEOL() {
		return ""
	}

	word := ""
	for line.pos < len(line.line) {
		by := line.line[line.pos]
		if unicode.IsSpace(rune(by)) || by == '#' {
			break
		}
		word += string([]byte{by})
		line.pos++
	}
	return word
}

// Return every remaining word on the line.
func (line *cmdLine) getWords() []string {
	var words []string
	for {
		word := line.getWord()
		if word == "" {
			return words
		}
		words = append(words, word)
	}
}
