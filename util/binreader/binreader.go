/*
 * KeybDOS - Bounds checked little endian buffer reader.
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

package binreader

import "errors"

// Largest layout or codepage payload any of the file parsers will hold.
const ScratchSize = 65536

// ErrRange is returned for any access outside the buffer.
var ErrRange = errors.New("read past end of buffer")

// Reader gives bounds checked access to a read only byte buffer. Parsers
// that need a cursor keep it themselves; the reader has no position.
type Reader struct {
	buf []byte
}

// Wrap a buffer for reading.
func New(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Return number of bytes in the buffer.
func (r *Reader) Len() int {
	return len(r.buf)
}

// Read one byte at offset.
func (r *Reader) Byte(off int) (uint8, error) {
	if off < 0 || off >= len(r.buf) {
		return 0, ErrRange
	}
	return r.buf[off], nil
}

// Read a 16 bit little endian value at offset.
func (r *Reader) U16(off int) (uint16, error) {
	if off < 0 || off+2 > len(r.buf) {
		return 0, ErrRange
	}
	return uint16(r.buf[off]) | uint16(r.buf[off+1])<<8, nil
}

// Read a 32 bit little endian value at offset.
func (r *Reader) U32(off int) (uint32, error) {
	if off < 0 || off+4 > len(r.buf) {
		return 0, ErrRange
	}
	return uint32(r.buf[off]) | uint32(r.buf[off+1])<<8 |
		uint32(r.buf[off+2])<<16 | uint32(r.buf[off+3])<<24, nil
}

// Return a view of size bytes at offset. The view aliases the buffer and
// must not be written.
func (r *Reader) Slice(off, size int) ([]byte, error) {
	if off < 0 || size < 0 || off+size > len(r.buf) {
		return nil, ErrRange
	}
	return r.buf[off : off+size], nil
}
