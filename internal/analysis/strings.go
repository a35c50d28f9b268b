package analysis

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Memory is read access to the address space a listing was decoded from.
// *elfx.Image implements it, as does Flat for raw images.
type Memory interface {
	SliceVA(va, size uint32) ([]byte, bool)
}

// Flat is a raw image loaded at Base.
type Flat struct {
	Base uint32
	Data []byte
}

func (f Flat) SliceVA(va, size uint32) ([]byte, bool) {
	if va < f.Base {
		return nil, false
	}
	off := uint64(va - f.Base)
	end := off + uint64(size)
	if end > uint64(len(f.Data)) {
		return nil, false
	}
	return f.Data[off:end], true
}

// ReadWord reads a little-endian word at va.
func ReadWord(m Memory, va uint32) (uint32, bool) {
	b, ok := m.SliceVA(va, 4)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b), true
}

// EscapeUnprintable returns a string where printable Unicode runes are preserved.
// Control and unprintable runes are escaped as \uXXXX. Invalid UTF-8 is escaped as \xXX.
func EscapeUnprintable(b []byte) string {
	var sb strings.Builder
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		switch {
		case r == utf8.RuneError && size == 1:
			fmt.Fprintf(&sb, "\\x%02X", b[0])
		case unicode.IsPrint(r):
			sb.WriteRune(r)
		default:
			fmt.Fprintf(&sb, "\\u%04X", r)
		}
		b = b[size:]
	}
	return sb.String()
}

// minStringLen keeps short byte runs in literal pools from being shown as
// strings.
const minStringLen = 4

// ReadCString reads a NUL-terminated string of printable text at va. It
// fails for short, unterminated or mostly binary data.
func ReadCString(m Memory, va uint32, maxLen int) (string, bool) {
	raw := readPrefix(m, va, maxLen)
	i := bytes.IndexByte(raw, 0)
	if i < minStringLen {
		return "", false
	}
	raw = raw[:i]
	if !utf8.Valid(raw) {
		return "", false
	}
	for _, r := range string(raw) {
		if !unicode.IsPrint(r) && r != '\n' && r != '\t' {
			return "", false
		}
	}
	return EscapeUnprintable(raw), true
}

// readPrefix returns the longest readable run of at most maxLen bytes at va,
// so strings ending near the end of a mapping are still found.
func readPrefix(m Memory, va uint32, maxLen int) []byte {
	if maxLen <= 0 {
		return nil
	}
	if b, ok := m.SliceVA(va, uint32(maxLen)); ok {
		return b
	}
	lo, hi := 0, maxLen // lo is readable, hi is not
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		if _, ok := m.SliceVA(va, uint32(mid)); ok {
			lo = mid
		} else {
			hi = mid
		}
	}
	if lo == 0 {
		return nil
	}
	b, _ := m.SliceVA(va, uint32(lo))
	return b
}
