// Package disasm turns byte buffers into linear instruction streams using
// the ARM/Thumb decoder.
package disasm

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strings"

	"armdis/internal/arm"
)

// Mode selects how a region of bytes is interpreted.
type Mode uint8

const (
	ModeARM Mode = iota
	ModeThumb
	ModeData // literal pools and other embedded data
)

func (m Mode) String() string {
	switch m {
	case ModeARM:
		return "arm"
	case ModeThumb:
		return "thumb"
	case ModeData:
		return "data"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// MinSize is the smallest unit the sweep advances by in mode m.
func (m Mode) MinSize() int {
	if m == ModeThumb {
		return 2
	}
	return 4
}

// ParseMode accepts "arm", "thumb" and "data".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "arm", "a32":
		return ModeARM, nil
	case "thumb", "t32":
		return ModeThumb, nil
	case "data":
		return ModeData, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// Inst is one position of a sweep. Undecodable positions are kept with Err
// set so the stream stays contiguous.
type Inst struct {
	Addr   uint32
	Mode   Mode
	Size   int    // bytes consumed
	Word   uint32 // encoding as the decoder saw it
	Raw    []byte
	Record arm.Record
	Text   arm.Text
	Err    error
}

// Valid reports whether the position decoded and formatted.
func (i *Inst) Valid() bool {
	return i.Err == nil && i.Record.Valid()
}

// Op returns the lowercase mnemonic, or "" for invalid positions.
func (i *Inst) Op() string {
	if !i.Valid() {
		return ""
	}
	return strings.ToLower(i.Text.Mnemonic)
}

// String renders the instruction, falling back to a data directive.
func (i *Inst) String() string {
	if i.Valid() {
		return i.Text.Total
	}
	switch i.Size {
	case 2:
		return fmt.Sprintf(".short 0x%04x", i.Word)
	case 4:
		return fmt.Sprintf(".word 0x%08x", i.Word)
	}
	return fmt.Sprintf(".byte % x", i.Raw)
}

// Stream is a linear sequence of instructions in address order.
type Stream []Inst

// At finds the instruction starting at addr.
func (s Stream) At(addr uint32) (*Inst, bool) {
	i := sort.Search(len(s), func(i int) bool { return s[i].Addr >= addr })
	if i < len(s) && s[i].Addr == addr {
		return &s[i], true
	}
	return nil, false
}

// Invalid counts code positions that failed to decode or format.
func (s Stream) Invalid() int {
	n := 0
	for i := range s {
		if s[i].Mode != ModeData && !s[i].Valid() {
			n++
		}
	}
	return n
}

// DecodeAt decodes the single instruction at the start of buf.
func DecodeAt(buf []byte, addr uint32, mode Mode) Inst {
	in := Inst{Addr: addr, Mode: mode, Record: arm.NewRecord()}

	unit := mode.MinSize()
	if len(buf) < unit {
		in.Size = len(buf)
		in.Raw = buf
		in.Err = fmt.Errorf("truncated %s instruction at %#x", mode, addr)
		return in
	}

	var w, w2 uint16
	var synthetic uint32
	switch mode {
	case ModeData:
		in.Size = 4
		in.Word = binary.LittleEndian.Uint32(buf)
		in.Raw = buf[:4]
		in.Err = fmt.Errorf("data at %#x", addr)
		return in
	case ModeARM:
		w = binary.LittleEndian.Uint16(buf)
		w2 = binary.LittleEndian.Uint16(buf[2:])
		synthetic = addr &^ 1
		in.Word = uint32(w2)<<16 | uint32(w)
	case ModeThumb:
		w = binary.LittleEndian.Uint16(buf)
		synthetic = addr | 1
		in.Word = uint32(w)
		if arm.IsThumb2(w) {
			if len(buf) < 4 {
				in.Size = 2
				in.Raw = buf[:2]
				in.Err = fmt.Errorf("truncated thumb2 instruction at %#x", addr)
				return in
			}
			w2 = binary.LittleEndian.Uint16(buf[2:])
			in.Word = uint32(w)<<16 | uint32(w2)
		}
	}

	n, err := arm.Decode(&in.Record, w, w2, synthetic)
	if err != nil {
		in.Size = unit
		if mode == ModeThumb {
			in.Word = uint32(w)
		}
		in.Raw = buf[:unit]
		in.Err = err
		return in
	}
	in.Size = n * 2
	in.Raw = buf[:in.Size]

	text, err := in.Record.Format()
	if err != nil {
		in.Err = fmt.Errorf("format %s at %#x: %w", in.Record.Instr, addr, err)
		return in
	}
	in.Text = text
	return in
}

// Sweep decodes buf, loaded at base, from start to end in a single mode.
func Sweep(buf []byte, base uint32, mode Mode) Stream {
	s := make(Stream, 0, len(buf)/mode.MinSize())
	for off := 0; off < len(buf); {
		in := DecodeAt(buf[off:], base+uint32(off), mode)
		s = append(s, in)
		off += in.Size
	}
	return s
}

// Region is an address range [Start, End) with one interpretation.
type Region struct {
	Start, End uint32
	Mode       Mode
}

// SweepRegions decodes buf, loaded at base, switching mode at every region
// boundary. Bytes not covered by any region use fallback.
func SweepRegions(buf []byte, base uint32, regions []Region, fallback Mode) Stream {
	rs := append([]Region(nil), regions...)
	sort.Slice(rs, func(i, j int) bool { return rs[i].Start < rs[j].Start })

	end := base + uint32(len(buf))
	var s Stream
	addr := base
	for _, r := range rs {
		if r.End <= addr || r.Start >= end {
			continue
		}
		if r.Start > addr {
			s = append(s, sweepRange(buf, base, addr, r.Start, fallback)...)
			addr = r.Start
		}
		stop := min(r.End, end)
		s = append(s, sweepRange(buf, base, addr, stop, r.Mode)...)
		addr = stop
	}
	if addr < end {
		s = append(s, sweepRange(buf, base, addr, end, fallback)...)
	}
	return s
}

func sweepRange(buf []byte, base, from, to uint32, mode Mode) Stream {
	return Sweep(buf[from-base:to-base], from, mode)
}
