/*
 * KeybDOS - Debug option wiring.
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

// Package debugconfig routes "debug" configuration lines to the module
// that owns the named debug options. Modules register a target before
// the configuration file is loaded.
package debugconfig

import (
	"errors"
	"strings"

	config "github.com/rcornwell/KeybDOS/config/configparser"
)

var targets = map[string]func(opt string) error{}

// register the debug model on initialize.
func init() {
	config.RegisterModel("DEBUG", setDebug)
}

// RegisterTarget names a module that accepts debug options.
func RegisterTarget(module string, fn func(opt string) error) {
	targets[strings.ToUpper(module)] = fn
}

// Hand every option of a debug line to the named module.
func setDebug(module string, options []config.Option) error {
	fn, ok := targets[strings.ToUpper(module)]
	if !ok {
		return errors.New("debug option invalid: " + module)
	}
	for _, opt := range options {
		for _, name := range strings.Split(opt.Name, ",") {
			if name == "" {
				continue
			}
			if err := fn(strings.ToUpper(name)); err != nil {
				return err
			}
		}
	}
	return nil
}
