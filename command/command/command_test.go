package command

/*
 * KeybDOS - Console keystroke model.
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

import "testing"

func TestParseKeyEvent(t *testing.T) {
	event, err := ParseKeyEvent("10", []string{"shift", "ctrl"})
	if err != nil {
		t.Fatalf("ParseKeyEvent returned error: %v", err)
	}
	if event.Scan != 0x10 {
		t.Errorf("Scan not correct got: %x expected: 10", event.Scan)
	}
	if event.Flags1 != 0x06 {
		t.Errorf("Flags1 not correct got: %x expected: 06", event.Flags1)
	}

	event, err = ParseKeyEvent("0x1e", []string{"E0"})
	if err != nil {
		t.Fatalf("ParseKeyEvent returned error: %v", err)
	}
	if event.Scan != 0x1e || event.Flags3 != 0x02 {
		t.Errorf("E0 event not correct got: %x %x", event.Scan, event.Flags3)
	}
}

func TestParseKeyEventErrors(t *testing.T) {
	if _, err := ParseKeyEvent("zz", nil); err == nil {
		t.Error("Bad scan code should fail")
	}
	if _, err := ParseKeyEvent("10", []string{"bogus"}); err == nil {
		t.Error("Unknown modifier should fail")
	}
	if _, err := ParseKeyEvent("123", nil); err == nil {
		t.Error("Scan code above a byte should fail")
	}
}
