/*
 * KeybDOS - Named resource lookup.
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

// Package resource resolves layout and codepage files by logical name.
// The filesystem search path is tried first, then blobs registered by
// init functions. Parsers never see the difference.
package resource

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNotFound is returned when no file and no registered blob matches.
var ErrNotFound = errors.New("resource not found")

var (
	mu    sync.Mutex
	blobs = map[string][]byte{}
)

// Register a built in blob under a logical name. Called from init
// functions, the way device models register themselves with the config
// parser. Names are matched case insensitively.
func Register(name string, data []byte) {
	mu.Lock()
	defer mu.Unlock()
	blobs[strings.ToLower(name)] = data
}

// Registered reports whether a blob of the given name exists.
func Registered(name string) bool {
	mu.Lock()
	defer mu.Unlock()
	_, ok := blobs[strings.ToLower(name)]
	return ok
}

// Files resolves names against a list of directories, falling back on the
// registered blobs. The zero value searches the current directory only.
type Files struct {
	Path []string // Directories searched in order.
}

// Open returns the contents of the named resource.
func (f *Files) Open(name string) ([]byte, error) {
	dirs := f.Path
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	for _, dir := range dirs {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err == nil {
			return data, nil
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if data, ok := blobs[strings.ToLower(name)]; ok {
		return data, nil
	}
	return nil, ErrNotFound
}
