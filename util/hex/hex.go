/*
 * KeybDOS - Hex formatting for buffer dumps.
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

package hex

import "strings"

var hexMap = "0123456789ABCDEF"

// FormatByte appends one byte as two hex digits.
func FormatByte(str *strings.Builder, by uint8) {
	str.WriteByte(hexMap[(by>>4)&0xf])
	str.WriteByte(hexMap[by&0xf])
}

// FormatOffset appends a six digit hex offset.
func FormatOffset(str *strings.Builder, off int) {
	shift := 20
	for i := 0; i < 6; i++ {
		str.WriteByte(hexMap[(off>>shift)&0xf])
		shift -= 4
	}
}

// FormatLine appends one dump row: offset, sixteen hex bytes and the
// printable characters.
func FormatLine(str *strings.Builder, off int, data []byte) {
	FormatOffset(str, off)
	str.WriteByte(' ')
	for i := 0; i < 16; i++ {
		str.WriteByte(' ')
		if i < len(data) {
			FormatByte(str, data[i])
		} else {
			str.WriteString("  ")
		}
	}
	str.WriteString("  |")
	for _, by := range data {
		if by >= 0x20 && by < 0x7f {
			str.WriteByte(by)
		} else {
			str.WriteByte('.')
		}
	}
	str.WriteString("|\n")
}

// FormatDump appends a full dump of a buffer, sixteen bytes per row.
func FormatDump(str *strings.Builder, data []byte) {
	for off := 0; off < len(data); off += 16 {
		end := off + 16
		if end > len(data) {
			end = len(data)
		}
		FormatLine(str, off, data[off:end])
	}
}
