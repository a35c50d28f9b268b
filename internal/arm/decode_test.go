package arm

import (
	"errors"
	"math/bits"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeARMFields(t *testing.T) {
	tests := []struct {
		name  string
		word  uint32
		check func(t *testing.T, d *Record)
	}{
		{
			name: "add register",
			word: 0xe0810002,
			check: func(t *testing.T, d *Record) {
				if d.Instr != ADD || d.Rd != R0 || d.Rn != R1 || d.Rm != R2 {
					t.Errorf("got %s %s %s %s", d.Instr, d.Rd, d.Rn, d.Rm)
				}
				if d.ShiftType != ShiftInvalid {
					t.Errorf("LSL #0 should leave no shift, got %s", d.ShiftType)
				}
				if d.S != Unset || d.Cond != CondAL {
					t.Errorf("S = %s, cond = %s", d.S, d.Cond)
				}
			},
		},
		{
			name: "lsl zero is mov",
			word: 0xe1a00001,
			check: func(t *testing.T, d *Record) {
				if d.Instr != MOV || d.Rd != R0 || d.Rm != R1 {
					t.Errorf("got %s %s %s", d.Instr, d.Rd, d.Rm)
				}
			},
		},
		{
			name: "ror zero is rrx",
			word: 0xe1a00062,
			check: func(t *testing.T, d *Record) {
				if d.Instr != RRX {
					t.Errorf("got %s, want RRX", d.Instr)
				}
			},
		},
		{
			name: "stmdb sp! is push",
			word: 0xe92d4010,
			check: func(t *testing.T, d *Record) {
				if d.Instr != PUSH || d.Reglist != 0x4010 {
					t.Errorf("got %s %#x", d.Instr, d.Reglist)
				}
			},
		},
		{
			name: "branch backwards",
			word: 0xeafffffe,
			check: func(t *testing.T, d *Record) {
				if d.Instr != B || d.Offset() != -8 {
					t.Errorf("got %s %d", d.Instr, d.Offset())
				}
			},
		},
		{
			name: "dsb sy",
			word: 0xf57ff04f,
			check: func(t *testing.T, d *Record) {
				if d.Instr != DSB || d.Option != 15 || d.Cond != CondUncond {
					t.Errorf("got %s option %d cond %s", d.Instr, d.Option, d.Cond)
				}
			},
		},
		{
			name: "load pre-indexed",
			word: 0xe5b10004,
			check: func(t *testing.T, d *Record) {
				if d.P != Set || d.U != Set || d.W != Set || d.Imm != 4 {
					t.Errorf("P=%s U=%s W=%s imm=%d", d.P, d.U, d.W, d.Imm)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Record
			if err := DecodeARM(&d, tt.word); err != nil {
				t.Fatalf("DecodeARM(%#08x) failed: %v", tt.word, err)
			}
			if d.Word != tt.word {
				t.Errorf("Word = %#x, want %#x", d.Word, tt.word)
			}
			tt.check(t, &d)
		})
	}
}

func TestDecodeThumbFields(t *testing.T) {
	var d Record
	if err := DecodeThumb(&d, 0x0008); err != nil {
		t.Fatalf("DecodeThumb failed: %v", err)
	}
	if d.Instr != MOV || d.Rd != R0 || d.Rm != R1 {
		t.Errorf("lsl #0: got %s %s %s", d.Instr, d.Rd, d.Rm)
	}

	if err := DecodeThumb(&d, 0xb510); err != nil {
		t.Fatalf("DecodeThumb failed: %v", err)
	}
	if d.Instr != PUSH || d.Reglist != 1<<4|1<<14 {
		t.Errorf("push: got %s %#x", d.Instr, d.Reglist)
	}

	if err := DecodeThumb(&d, 0xc803); err != nil {
		t.Fatalf("DecodeThumb failed: %v", err)
	}
	if d.Instr != LDM || d.W != Unset {
		t.Errorf("ldm with base in list: got %s W=%s", d.Instr, d.W)
	}

	if err := DecodeThumb(&d, 0xe7fe); err != nil {
		t.Fatalf("DecodeThumb failed: %v", err)
	}
	if d.Instr != B || d.Offset() != -4 {
		t.Errorf("branch: got %s %d", d.Instr, d.Offset())
	}
}

func TestDecodeThumb2Branch(t *testing.T) {
	var d Record
	if err := DecodeThumb2(&d, 0xf43f, 0xaffe); err != nil {
		t.Fatalf("DecodeThumb2 failed: %v", err)
	}
	if d.Instr != B || d.Cond != CondEQ {
		t.Errorf("got %s cond %s, want B EQ", d.Instr, d.Cond)
	}
	if d.Offset() != -4 {
		t.Errorf("offset = %d, want -4", d.Offset())
	}

	if err := DecodeThumb2(&d, 0xf7ff, 0xfffe); err != nil {
		t.Fatalf("DecodeThumb2 failed: %v", err)
	}
	if d.Instr != BL || d.Offset() != -4 {
		t.Errorf("got %s %d, want BL -4", d.Instr, d.Offset())
	}
}

func TestDecodeThumb2Memory(t *testing.T) {
	var d Record
	if err := DecodeThumb2(&d, 0xf8df, 0x0008); err != nil {
		t.Fatalf("DecodeThumb2 failed: %v", err)
	}
	if d.Instr != LDR || d.Rn != PC || d.Rt != R0 || d.Imm != 8 || d.U != Set {
		t.Errorf("literal load: got %s rn=%s rt=%s imm=%d U=%s", d.Instr, d.Rn, d.Rt, d.Imm, d.U)
	}
	if d.P != Set || d.W != Unset {
		t.Errorf("literal load should be pre-indexed without write-back, P=%s W=%s", d.P, d.W)
	}

	if err := DecodeThumb2(&d, 0xe9d0, 0x2300); err != nil {
		t.Fatalf("DecodeThumb2 failed: %v", err)
	}
	if d.Instr != LDRD || d.Rt != R2 || d.Rt2 != R3 || d.Rn != R0 {
		t.Errorf("ldrd: got %s %s %s %s", d.Instr, d.Rt, d.Rt2, d.Rn)
	}
}

func TestDecodeDispatch(t *testing.T) {
	tests := []struct {
		name  string
		w, w2 uint16
		addr  uint32
		want  Instr
		n     int
	}{
		{"arm at even address", 0x0002, 0xe081, 0x1000, ADD, 2},
		{"thumb at odd address", 0x4770, 0x0000, 0x1001, BX, 1},
		{"thumb2 at odd address", 0xe92d, 0x4010, 0x1001, PUSH, 2},
		// One halfword pair, two instruction sets.
		{"pair as arm", 0x4010, 0xe92d, 0x1000, PUSH, 2},
		{"pair as thumb", 0x4010, 0xe92d, 0x1001, AND, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Record
			n, err := Decode(&d, tt.w, tt.w2, tt.addr)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if n != tt.n {
				t.Errorf("n = %d, want %d", n, tt.n)
			}
			if d.Instr != tt.want {
				t.Errorf("instr = %s, want %s", d.Instr, tt.want)
			}
		})
	}

	t.Run("pair as arm formats", func(t *testing.T) {
		var d Record
		if _, err := Decode(&d, 0x4010, 0xe92d, 0x1000); err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if got := d.String(); got != "PUSH {r4,lr}" {
			t.Errorf("String = %q, want PUSH {r4,lr}", got)
		}
	})

	t.Run("failure consumes nothing", func(t *testing.T) {
		var d Record
		if _, err := Decode(&d, 0x0002, 0xe081, 0x1000); err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		n, err := Decode(&d, 0xffff, 0xffff, 0x1001)
		if err == nil {
			t.Fatalf("Decode(ffff ffff) succeeded as %s", d.Instr)
		}
		if n != 0 {
			t.Errorf("n = %d, want 0", n)
		}
		if d.Valid() || d.Instr != InstrInvalid {
			t.Errorf("record should be reset, have %s", d.Instr)
		}
	})
}

func TestInstrSetString(t *testing.T) {
	for set, want := range map[InstrSet]string{
		SetARM:      "arm",
		SetThumb:    "thumb",
		SetThumb2:   "thumb2",
		InstrSet(7): "InstrSet(7)",
	} {
		if got := set.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}

	err := &DecodeError{Set: SetThumb2, Word: 0xffffffff, Err: ErrInvalid}
	if got := err.Error(); got != "thumb2 ffffffff: invalid instruction" {
		t.Errorf("Error() = %q", got)
	}
}

func TestDecodeInvalid(t *testing.T) {
	var d Record
	err := DecodeThumb(&d, 0xffff)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("DecodeThumb(0xffff) = %v, want ErrInvalid", err)
	}
	var de *DecodeError
	if !errors.As(err, &de) || de.Set != SetThumb || de.Word != 0xffff {
		t.Errorf("unexpected error detail: %#v", de)
	}
	if d.Valid() {
		t.Errorf("record should be reset after a failed decode")
	}

	// The first halfword of a Thumb2 pair is not a Thumb instruction.
	if err := DecodeThumb(&d, 0xf000); !errors.Is(err, ErrInvalid) {
		t.Errorf("DecodeThumb(0xf000) = %v, want ErrInvalid", err)
	}
	if err := DecodeThumb2(&d, 0x4770, 0); !errors.Is(err, ErrInvalid) {
		t.Errorf("DecodeThumb2(0x4770) = %v, want ErrInvalid", err)
	}
}

func TestDecodeIdempotent(t *testing.T) {
	tests := []struct {
		name   string
		decode func(d *Record) error
	}{
		{"arm add", func(d *Record) error { return DecodeARM(d, 0xe0810002) }},
		{"arm push", func(d *Record) error { return DecodeARM(d, 0xe92d4010) }},
		{"arm ldr", func(d *Record) error { return DecodeARM(d, 0xe5910004) }},
		{"arm ldr shifted", func(d *Record) error { return DecodeARM(d, 0xe7910102) }},
		{"arm sxtb", func(d *Record) error { return DecodeARM(d, 0xe6af0071) }},
		{"thumb movs", func(d *Record) error { return DecodeThumb(d, 0x2001) }},
		{"thumb pop", func(d *Record) error { return DecodeThumb(d, 0xbd10) }},
		{"thumb ldr literal", func(d *Record) error { return DecodeThumb(d, 0x4801) }},
		{"thumb it", func(d *Record) error { return DecodeThumb(d, 0xbf0c) }},
		{"thumb2 push", func(d *Record) error { return DecodeThumb2(d, 0xe92d, 0x4010) }},
		{"thumb2 bl", func(d *Record) error { return DecodeThumb2(d, 0xf7ff, 0xfffe) }},
		{"thumb2 adds shifted", func(d *Record) error { return DecodeThumb2(d, 0xeb11, 0x0082) }},
		{"thumb2 ldrd", func(d *Record) error { return DecodeThumb2(d, 0xe9d0, 0x2300) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a, b Record
			if err := tt.decode(&a); err != nil {
				t.Fatalf("first decode failed: %v", err)
			}
			b.Instr = SVC
			b.Imm = 42
			b.Rd = R7
			if err := tt.decode(&b); err != nil {
				t.Fatalf("second decode failed: %v", err)
			}
			if diff := cmp.Diff(a, b); diff != "" {
				t.Errorf("mismatch (-first +second):\n%s", diff)
			}
		})
	}
}

// encodeARMImm finds the rotated form of v, the inverse of ARMExpandImm.
func encodeARMImm(v uint32) (uint32, bool) {
	for rot := 0; rot <= 30; rot += 2 {
		if x := bits.RotateLeft32(v, rot); x <= 0xff {
			return uint32(rot/2)<<8 | x, true
		}
	}
	return 0, false
}

func TestARMImmRoundTrip(t *testing.T) {
	for rot := uint32(0); rot <= 30; rot += 2 {
		imm12 := rot/2<<8 | 0xab
		word := 0xe2810000 | imm12 // add r0, r1, #imm

		var d Record
		if err := DecodeARM(&d, word); err != nil {
			t.Fatalf("DecodeARM(%#08x) failed: %v", word, err)
		}
		if d.Instr != ADD || d.I != Set {
			t.Fatalf("DecodeARM(%#08x) = %s, want ADD immediate", word, d.Instr)
		}
		got, ok := encodeARMImm(d.Imm)
		if !ok || got != imm12 {
			t.Errorf("imm %#x re-encodes to %#x, want %#x", d.Imm, got, imm12)
			continue
		}
		var s uint32
		if d.S == Set {
			s = 1
		}
		again := uint32(d.Cond)<<28 | 0x02800000 | s<<20 | uint32(d.Rn)<<16 | uint32(d.Rd)<<12 | got
		if again != word {
			t.Errorf("record of %#08x re-encodes to %#08x", word, again)
		}
	}
}

func TestARMExpandImm(t *testing.T) {
	for rot := uint32(0); rot <= 30; rot += 2 {
		imm12 := rot/2<<8 | 0xab
		want := bits.RotateLeft32(0xab, -int(rot))
		if got := ARMExpandImm(imm12); got != want {
			t.Errorf("ARMExpandImm(%#x) = %#x, want %#x", imm12, got, want)
		}
	}
}

func TestThumbExpandImm(t *testing.T) {
	tests := []struct {
		imm12, want uint32
	}{
		{0x0ab, 0x000000ab},
		{0x1ab, 0x00ab00ab},
		{0x2ab, 0xab00ab00},
		{0x3ab, 0xabababab},
		{0x4ff, 0x7f800000},
	}
	for _, tt := range tests {
		if got := ThumbExpandImm(tt.imm12); got != tt.want {
			t.Errorf("ThumbExpandImm(%#x) = %#x, want %#x", tt.imm12, got, tt.want)
		}
	}
}

func TestSignExtend(t *testing.T) {
	if got := SignExtend(0x7fe, 11); got != -2 {
		t.Errorf("SignExtend(0x7fe, 11) = %d, want -2", got)
	}
	if got := SignExtend(0x3fe, 11); got != 0x3fe {
		t.Errorf("SignExtend(0x3fe, 11) = %d, want %d", got, 0x3fe)
	}
}

func TestIsThumb2(t *testing.T) {
	for w := 0; w <= 0xffff; w += 0x800 {
		want := w>>11 >= 0x1d
		if got := IsThumb2(uint16(w)); got != want {
			t.Errorf("IsThumb2(%#04x) = %v, want %v", w, got, want)
		}
	}
}
