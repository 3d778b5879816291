/*
 * KeybDOS - Command completion.
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
	"slices"
	"strings"

	command "github.com/rcornwell/KeybDOS/command/command"
)

// Called to complete a command line, during line editing.
func CompleteCmd(commandLine string) []string {
	line := cmdLine{line: commandLine}
	name := line.getWord()

	// A full command followed by arguments completes through the
	// command's own completer.
	if !line.isEOL() {
		match := matchList(name)
		if len(match) != 1 || match[0].complete == nil {
			return nil
		}
		return match[0].complete(&line)
	}

	var matches []string
	for _, m := range cmdList {
		if strings.HasPrefix(m.name, name) {
			matches = append(matches, m.name)
		}
	}
	slices.Sort(matches)
	return matches
}

// Complete the show subcommands.
func showComplete(line *cmdLine) []string {
	word := line.getWord()
	var matches []string
	for _, sub := range []string{"layout", "codepage", "keys"} {
		if strings.HasPrefix(sub, word) {
			matches = append(matches, "show "+sub)
		}
	}
	return matches
}

// Complete the key command modifiers.
func keyComplete(line *cmdLine) []string {
	last := ""
	for {
		word := line.getWord()
		if word == "" {
			break
		}
		last = word
	}
	prefix := strings.TrimRight(line.line, " \t")
	prefix = prefix[:len(prefix)-len(last)]
	if last == "" && !strings.HasSuffix(prefix, " ") {
		prefix += " "
	}

	names := command.ModifierNames()
	slices.Sort(names)
	var matches []string
	for _, name := range names {
		if strings.HasPrefix(name, strings.ToLower(last)) && name != strings.ToLower(last) {
			matches = append(matches, prefix+name)
		}
	}
	return matches
}
