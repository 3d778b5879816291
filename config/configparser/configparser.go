/*
 * KeybDOS - Configuration file parser.
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

package configparser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

/* Configuration file format:
 *
 * '#' indicates comment, rest of line is ignored.
 * <line> := <model> <whitespace> <value> *(<whitespace> <option>)
 * <model> := <string>
 * <option> ::= <string> [ '=' <quoteopt> ]
 * <quoteopt> ::= <string> | '"' *(<letter> | <whitespace>) '"'
 * <string> ::= *(<letter> | <number> | '.' | '/' | '-' | '_' | ',')
 *
 * Handlers register themselves for a model name; the parser hands them
 * the first value and the remaining options of the line.
 */

// One option after the first value. Name is the bare word, EqualOpt
// the text after an equal sign if present.
type Option struct {
	Name     string // Name of option.
	EqualOpt string // Value of string after =.
}

const (
	TypeModel  = 1 + iota // Model line with value and options.
	TypeOption            // Line with a single value.
	TypeFile              // Line naming a file.
)

// Model creation list.
type modelDef struct {
	create func(value string, options []Option) error
	ty     int
}

var models = map[string]modelDef{}

var lineNumber int

// Current option line being parsed.
type optionLine struct {
	line string // Current option line.
	pos  int    // Current position in line.
}

// Register should be called from init functions or before the config
// file is loaded.
func RegisterModel(mod string, fn func(value string, options []Option) error) {
	models[strings.ToUpper(mod)] = modelDef{create: fn, ty: TypeModel}
}

// Register a single value option.
func RegisterOption(mod string, fn func(value string) error) {
	wrap := func(value string, _ []Option) error { return fn(value) }
	models[strings.ToUpper(mod)] = modelDef{create: wrap, ty: TypeOption}
}

// Register a file name option.
func RegisterFile(mod string, fn func(fileName string) error) {
	wrap := func(value string, _ []Option) error { return fn(value) }
	models[strings.ToUpper(mod)] = modelDef{create: wrap, ty: TypeFile}
}

// Load in a configuration file.
func LoadConfigFile(name string) error {
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()

	lineNumber = 0
	reader := bufio.NewReader(file)
	for {
		var err error

		line := optionLine{}
		line.line, err = reader.ReadString('\n')
		lineNumber++
		if len(line.line) == 0 && err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if perr := line.parseLine(); perr != nil {
			return perr
		}
	}
	return nil
}

// Parse one line from file.
func (line *optionLine) parseLine() error {
	model := line.getWord()
	if model == "" {
		return nil
	}
	model = strings.ToUpper(model)

	def, ok := models[model]
	if !ok {
		return fmt.Errorf("no type: %s registered, line: %d", model, lineNumber)
	}

	value := line.getWord()
	if value == "" {
		return fmt.Errorf("option: %s not followed by value, line: %d", model, lineNumber)
	}

	var options []Option
	switch def.ty {
	case TypeModel:
		for {
			word := line.getWord()
			if word == "" {
				break
			}
			opt := Option{Name: word}
			if line.peek() == '=' {
				line.pos++
				opt.EqualOpt = line.getQuoted()
			}
			options = append(options, opt)
		}
	case TypeOption, TypeFile:
		line.skipSpace()
		if !line.isEOL() {
			return fmt.Errorf("option: %s followed by extra text, line: %d", model, lineNumber)
		}
	}

	if err := def.create(value, options); err != nil {
		return fmt.Errorf("%w, line: %d", err, lineNumber)
	}
	return nil
}

// Skip forward over line until none whitespace character found.
func (line *optionLine) skipSpace() {
	for line.pos < len(line.line) {
		if !unicode.IsSpace(rune(line.line[line.pos])) {
			return
		}
		line.pos++
	}
}

// Check if at end of line.
func (line *optionLine) isEOL() bool {
	if line.pos >= len(line.line) {
		return true
	}
	return line.line[line.pos] == '#'
}

// Peek at next character.
func (line *optionLine) peek() byte {
	if line.pos >= len(line.line) {
		return 0
	}
	return line.line[line.pos]
}

// Return the next word on the line, empty at end of line.
func (line *optionLine) getWord() string {
	line.skipSpace()
	if line.isEOL() {
		return ""
	}

	word := ""
	for line.pos < len(line.line) {
		by := line.line[line.pos]
		if unicode.IsLetter(rune(by)) || unicode.IsNumber(rune(by)) ||
			by == '.' || by == '/' || by == '-' || by == '_' || by == ',' {
			word += string([]byte{by})
			line.pos++
			continue
		}
		break
	}
	return word
}

// Return a possibly quoted value after an equal sign.
func (line *optionLine) getQuoted() string {
	if line.peek() != '"' {
		return line.getWord()
	}
	line.pos++
	value := ""
	for line.pos < len(line.line) {
		by := line.line[line.pos]
		line.pos++
		if by == '"' {
			break
		}
		value += string([]byte{by})
	}
	return value
}
