/*
 * KeybDOS - Generic debug logging.
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

package debug

import (
	"errors"
	"fmt"
	"os"
	"strings"

	config "github.com/rcornwell/KeybDOS/config/configparser"
)

var logFile *os.File

// Generic debug message. Mask holds the module's enabled options,
// level the option the message belongs to.
func Debugf(module string, mask int, level int, format string, a ...interface{}) {
	if logFile == nil {
		return
	}
	if (mask & level) != 0 {
		fmt.Fprintf(logFile, module+": "+format+"\n", a...)
	}
}

// SetOption turns on one named debug option in a module's mask.
func SetOption(mask *int, options map[string]int, opt string) error {
	bit, ok := options[strings.ToUpper(opt)]
	if !ok {
		return errors.New("invalid debug option: " + opt)
	}
	*mask |= bit
	return nil
}

// register the debug file option on initialize.
func init() {
	config.RegisterFile("DEBUGFILE", create)
}

// Open the debug log file.
func create(fileName string) error {
	if logFile != nil {
		return fmt.Errorf("can't have more then one debug file, previous: %s", logFile.Name())
	}

	file, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("unable to create debug file: %s", fileName)
	}

	logFile = file
	return nil
}
