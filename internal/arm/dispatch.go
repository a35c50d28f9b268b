package arm

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalid is returned for bit patterns that encode no instruction.
	ErrInvalid = errors.New("invalid instruction")
	// ErrUnsupported is returned for recognised encodings this package does
	// not decode, such as Advanced SIMD loads and coprocessor data operations.
	ErrUnsupported = errors.New("unsupported instruction")
)

// InstrSet is an instruction set encoding.
type InstrSet uint8

const (
	SetARM InstrSet = iota
	SetThumb
	SetThumb2
)

func (s InstrSet) String() string {
	switch s {
	case SetARM:
		return "arm"
	case SetThumb:
		return "thumb"
	case SetThumb2:
		return "thumb2"
	}
	return fmt.Sprintf("InstrSet(%d)", uint8(s))
}

// DecodeError reports which word failed to decode.
type DecodeError struct {
	Set  InstrSet
	Word uint32
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Set == SetThumb {
		return fmt.Sprintf("%s %04x: %v", e.Set, e.Word, e.Err)
	}
	return fmt.Sprintf("%s %08x: %v", e.Set, e.Word, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsThumb2 reports whether a Thumb halfword starts a 32-bit Thumb2 instruction.
func IsThumb2(w uint16) bool {
	switch w >> 11 {
	case 0x1d, 0x1e, 0x1f:
		return true
	}
	return false
}

// Decode decodes the instruction at addr into d and returns the number of
// halfwords consumed. An even addr selects ARM, where w is the low and w2 the
// high halfword of the word. An odd addr selects Thumb, where w2 is only read
// when w starts a Thumb2 instruction. On failure d is reset and n is 0.
func Decode(d *Record, w, w2 uint16, addr uint32) (n int, err error) {
	if addr&1 == 0 {
		if err := DecodeARM(d, uint32(w2)<<16|uint32(w)); err != nil {
			return 0, err
		}
		return 2, nil
	}
	if !IsThumb2(w) {
		if err := DecodeThumb(d, w); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err := DecodeThumb2(d, w, w2); err != nil {
		return 0, err
	}
	return 2, nil
}

// DecodeARM decodes one 32-bit ARM word.
func DecodeARM(d *Record, w uint32) error {
	r := NewRecord()
	r.Word = w
	if err := decodeARM(&r, w); err != nil {
		d.Reset()
		return &DecodeError{Set: SetARM, Word: w, Err: err}
	}
	*d = r
	return nil
}

// DecodeThumb decodes one 16-bit Thumb halfword.
func DecodeThumb(d *Record, w uint16) error {
	r := NewRecord()
	r.Word = uint32(w)
	r.Cond = CondAL
	if err := decodeThumb(&r, w); err != nil {
		d.Reset()
		return &DecodeError{Set: SetThumb, Word: uint32(w), Err: err}
	}
	*d = r
	return nil
}

// DecodeThumb2 decodes a 32-bit Thumb2 instruction given as its two
// halfwords in stream order.
func DecodeThumb2(d *Record, w, w2 uint16) error {
	word := uint32(w)<<16 | uint32(w2)
	r, err := decodeThumb2(w, w2)
	if err != nil {
		d.Reset()
		return &DecodeError{Set: SetThumb2, Word: word, Err: err}
	}
	*d = r
	return nil
}
