/*
 * KeybDOS - Codepage file loader.
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

/* Package codepage loads .CPI and .CPX files and installs the screen
   font of one codepage into the adapter's font memory.

   A plain file starts with 0xFF "FONT". The DR-DOS variant starting
   with 0x7F "DRF_" is detected and rejected. Anything else is assumed
   to be UPX packed: the "UPX!" marker must sit in the first hundred
   bytes and the version byte after it must be at least ten. Packed
   files are inflated by running their own decompressor stub on the
   emulated CPU: the stub's final jump is patched into a far return, the
   payload is copied into a scratch conventional memory segment and
   called far at offset 0x100.

   The body is a forward linked list of codepage entries. The matching
   display entry's font blocks are written to the 8, 14 and 16 line font
   tables; printer entries and unknown block heights are skipped. */

package codepage

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rcornwell/KeybDOS/emu/fontram"
	"github.com/rcornwell/KeybDOS/emu/host"
	"github.com/rcornwell/KeybDOS/util/binreader"
)

// ErrInvalidFile covers a bad signature, a failed decompression and a
// file that simply has no entry for the requested codepage.
var ErrInvalidFile = errors.New("invalid codepage file")

// Largest packed payload the decompression scratch segment can hold.
const maxPackedSize = 0xfe00

// Loader reads codepage files and installs their fonts.
type Loader struct {
	res   host.Resources
	mem   host.Phys
	real  host.RealMode
	video host.Video
	fonts *fontram.Installer
}

// New returns a loader over the given host.
func New(res host.Resources, mem host.Phys, real host.RealMode, video host.Video) *Loader {
	return &Loader{
		res:   res,
		mem:   mem,
		real:  real,
		video: video,
		fonts: fontram.New(mem),
	}
}

// Names of the built in codepage files, selected by codepage id when
// the caller asks for "auto". The grouping follows the FreeDOS EGA
// codepage packs.
func autoName(id uint16) string {
	switch id {
	case 437, 850, 852, 853, 857, 858:
		return "EGA.CPX"
	case 775, 859, 1116, 1117, 1118, 1119:
		return "EGA2.CPX"
	case 771, 772, 808, 855, 866, 872:
		return "EGA3.CPX"
	case 848, 849, 1125, 1131, 3012, 30010:
		return "EGA4.CPX"
	case 113, 737, 851, 869:
		return "EGA5.CPX"
	case 899, 30008, 58210, 59829, 60258, 60853:
		return "EGA6.CPX"
	case 30011, 30013, 30014, 30017, 30018, 30019:
		return "EGA7.CPX"
	case 770, 773, 774, 777, 778:
		return "EGA8.CPX"
	case 860, 861, 863, 865:
		return "EGA9.CPX"
	case 667, 668, 790, 867, 991, 3845:
		return "EGA10.CPX"
	case 30000, 30001, 30004, 30007, 30009:
		return "EGA11.CPX"
	case 30003, 30029, 30030, 58335:
		return "EGA12.CPX"
	case 895, 30002, 58152, 59234, 62306:
		return "EGA13.CPX"
	case 30006, 30012, 30015, 30016, 30020, 30021:
		return "EGA14.CPX"
	case 30023, 30024, 30025, 30026, 30027, 30028:
		return "EGA15.CPX"
	case 3021, 30005, 30022, 30031, 30032:
		return "EGA16.CPX"
	case 862, 864, 30033, 30034, 30039, 30040:
		return "EGA17.CPX"
	case 856, 3846, 3848:
		return "EGA18.CPX"
	}
	return ""
}

// Swap the .CPI and .CPX extension of a file name.
func swapExtension(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".cpi"):
		return name[:len(name)-1] + "x"
	case strings.HasSuffix(lower, ".cpx"):
		return name[:len(name)-1] + "i"
	}
	return name
}

// Load reads the named codepage file and installs the font of the
// requested codepage. "auto" selects a built in file by id.
func (ld *Loader) Load(name string, id uint16) error {
	if name == "auto" {
		name = autoName(id)
		if name == "" {
			slog.Warn(fmt.Sprintf("No matching codepage file for %d", id))
			return ErrInvalidFile
		}
	}

	data, err := ld.res.Open(name)
	if err != nil {
		// The user may have named the packed variant of a plain
		// file or the other way around.
		data, err = ld.res.Open(swapExtension(name))
	}
	if err != nil {
		slog.Warn("Codepage file " + name + " not found")
		return ErrInvalidFile
	}

	body, err := ld.unpack(data)
	if err != nil {
		return err
	}
	return ld.install(body, id)
}

// Identify the file and inflate it when packed.
func (ld *Loader) unpack(data []byte) ([]byte, error) {
	if len(data) < 5 {
		return nil, ErrInvalidFile
	}

	if data[0] == 0xff && data[1] == 'F' && data[2] == 'O' &&
		data[3] == 'N' && data[4] == 'T' {
		return data, nil
	}

	if data[0] == 0x7f && data[1] == 'D' && data[2] == 'R' &&
		data[3] == 'F' && data[4] == '_' {
		slog.Warn("DR-DOS codepage files are not supported")
		return nil, ErrInvalidFile
	}

	// Presumed UPX packed. The marker must sit near the front.
	foundAt := -1
	for i := 0; i < 100 && i+5 <= len(data); i++ {
		if data[i] == 'U' && data[i+1] == 'P' && data[i+2] == 'X' && data[i+3] == '!' {
			if data[i+4] < 10 {
				slog.Warn("Codepage file packed with too old UPX")
				return nil, ErrInvalidFile
			}
			foundAt = i + 5
			break
		}
	}
	if foundAt < 0 {
		slog.Warn("Codepage file has no recognized signature")
		return nil, ErrInvalidFile
	}

	return ld.decompress(data, foundAt)
}

// Run the file's own UPX stub on the emulated CPU to inflate it. The
// stub ends in a jump to the unpacked image; patching that byte into a
// far return hands control back here instead.
func (ld *Loader) decompress(data []byte, foundAt int) ([]byte, error) {
	if len(data) > maxPackedSize {
		slog.Warn("Packed codepage file too big to unpack")
		return nil, ErrInvalidFile
	}
	if foundAt+19 >= len(data) {
		return nil, ErrInvalidFile
	}

	packed := make([]byte, len(data))
	copy(packed, data)
	packed[foundAt+19] = 0xcb

	seg, ok := ld.real.AllocMem(0x1500)
	if !ok {
		slog.Warn("Not enough free conventional memory to unpack codepage")
		return nil, ErrInvalidFile
	}
	defer ld.real.FreeMem(seg)

	base := uint32(seg) << 4
	ld.mem.BlockWrite(base+0x100, packed)

	save := ld.real.Segments()
	ld.real.SetSegments(host.Segments{
		DS:  seg,
		ES:  seg,
		SS:  seg + 0x1000,
		ESP: 0xfffe,
	})
	ld.real.RunFar(seg, 0x100)
	ld.real.SetSegments(save)

	out := make([]byte, binreader.ScratchSize)
	ld.mem.BlockRead(base+0x100, out)
	return out, nil
}

// Walk the codepage list and install the matching display font.
func (ld *Loader) install(body []byte, id uint16) error {
	rd := binreader.New(body)

	start32, err := rd.U32(0x13)
	if err != nil {
		return invalid(err)
	}
	if start32 >= uint32(rd.Len()) {
		return ErrInvalidFile
	}
	start := int(start32)

	count, err := rd.U16(start)
	if err != nil {
		return invalid(err)
	}
	start += 4

	for entry := 0; entry < int(count); entry++ {
		deviceType, err := rd.U16(start + 0x04)
		if err != nil {
			return invalid(err)
		}
		fontCP, err := rd.U16(start + 0x0e)
		if err != nil {
			return invalid(err)
		}
		hdr32, err := rd.U32(start + 0x16)
		if err != nil {
			return invalid(err)
		}
		hdr := int(hdr32)
		fontType, err := rd.U16(hdr)
		if err != nil {
			return invalid(err)
		}

		if deviceType == 1 && fontType == 1 && fontCP == id {
			return ld.installFonts(rd, hdr, id)
		}

		// Follow the forward chain. A pointer that does not move
		// forward would loop.
		next32, err := rd.U32(start)
		if err != nil {
			return invalid(err)
		}
		next := int(next32) + 2
		if next <= start {
			return ErrInvalidFile
		}
		start = next
	}

	slog.Warn(fmt.Sprintf("Codepage %d not found", id))
	return ErrInvalidFile
}

// Write all font blocks of one codepage entry.
func (ld *Loader) installFonts(rd *binreader.Reader, hdr int, id uint16) error {
	numFonts, err := rd.U16(hdr + 2)
	if err != nil {
		return invalid(err)
	}

	changed := false
	data := hdr + 6
	for font := 0; font < int(numFonts); font++ {
		height, err := rd.Byte(data)
		if err != nil {
			return invalid(err)
		}
		data += 6

		switch height {
		case 0x10:
			glyphs, err := rd.Slice(data, 256*16)
			if err != nil {
				return invalid(err)
			}
			ld.fonts.Install(ld.video.Font16(), glyphs)
			ld.fonts.Terminate(ld.video.Font16Alternate())
			changed = true

		case 0x0e:
			glyphs, err := rd.Slice(data, 256*14)
			if err != nil {
				return invalid(err)
			}
			ld.fonts.Install(ld.video.Font14(), glyphs)
			ld.fonts.Terminate(ld.video.Font14Alternate())
			changed = true

		case 0x08:
			glyphs, err := rd.Slice(data, 256*8)
			if err != nil {
				return invalid(err)
			}
			ld.fonts.Install(ld.video.Font8First(), glyphs[:128*8])
			ld.fonts.Install(ld.video.Font8Second(), glyphs[128*8:])
			changed = true
		}

		data += int(height) * 256
	}

	slog.Info(fmt.Sprintf("Codepage %d successfully loaded", id))

	if changed && ld.video.TextMode() {
		ld.video.ReloadFont()
	}
	ld.video.SetupRomMemoryChecksum()
	return nil
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidFile, err)
}
