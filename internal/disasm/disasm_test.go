package disasm

import (
	"encoding/binary"
	"errors"
	"testing"

	"armdis/internal/arm"
)

func armBytes(words ...uint32) []byte {
	buf := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[4*i:], w)
	}
	return buf
}

func thumbBytes(hws ...uint16) []byte {
	buf := make([]byte, 2*len(hws))
	for i, w := range hws {
		binary.LittleEndian.PutUint16(buf[2*i:], w)
	}
	return buf
}

func TestSweepARM(t *testing.T) {
	buf := armBytes(0xe92d4010, 0xe3a00001, 0xe8bd8010)
	s := Sweep(buf, 0x8000, ModeARM)

	want := []struct {
		addr uint32
		text string
	}{
		{0x8000, "PUSH {r4,lr}"},
		{0x8004, "MOV r0, #1"},
		{0x8008, "POP {r4,pc}"},
	}
	if len(s) != len(want) {
		t.Fatalf("got %d instructions, want %d", len(s), len(want))
	}
	for i, w := range want {
		if s[i].Addr != w.addr || s[i].String() != w.text || s[i].Size != 4 {
			t.Errorf("inst %d = %#x %q size %d, want %#x %q", i, s[i].Addr, s[i].String(), s[i].Size, w.addr, w.text)
		}
	}
	if s[1].Op() != "mov" {
		t.Errorf("Op = %q, want mov", s[1].Op())
	}
}

func TestSweepThumbMixedWidths(t *testing.T) {
	// push {r4, lr}; push.w {r4, lr}; bx lr
	buf := thumbBytes(0xb510, 0xe92d, 0x4010, 0x4770)
	s := Sweep(buf, 0x1000, ModeThumb)

	if len(s) != 3 {
		t.Fatalf("got %d instructions, want 3", len(s))
	}
	sizes := []int{2, 4, 2}
	addrs := []uint32{0x1000, 0x1002, 0x1006}
	for i := range s {
		if s[i].Size != sizes[i] || s[i].Addr != addrs[i] {
			t.Errorf("inst %d at %#x size %d, want %#x size %d", i, s[i].Addr, s[i].Size, addrs[i], sizes[i])
		}
	}
	if s[1].Word != 0xe92d4010 {
		t.Errorf("thumb2 word = %#x, want 0xe92d4010", s[1].Word)
	}
	if s[2].String() != "BX lr" {
		t.Errorf("last = %q", s[2].String())
	}
}

func TestSweepKeepsGoingAfterInvalid(t *testing.T) {
	buf := thumbBytes(0xb800, 0xbf00)
	s := Sweep(buf, 0, ModeThumb)
	if len(s) != 2 {
		t.Fatalf("got %d positions, want 2", len(s))
	}
	if s[0].Valid() || !errors.Is(s[0].Err, arm.ErrInvalid) {
		t.Errorf("first position should be invalid, err = %v", s[0].Err)
	}
	if s[0].Size != 2 || s[0].String() != ".short 0xb800" {
		t.Errorf("invalid position = size %d %q", s[0].Size, s[0].String())
	}
	if s[1].String() != "NOP" {
		t.Errorf("second = %q, want NOP", s[1].String())
	}
	if n := s.Invalid(); n != 1 {
		t.Errorf("Invalid() = %d, want 1", n)
	}
}

func TestSweepTruncated(t *testing.T) {
	s := Sweep([]byte{0x01, 0x20, 0x2d}, 0, ModeThumb)
	if len(s) != 2 {
		t.Fatalf("got %d positions, want 2", len(s))
	}
	if s[1].Err == nil || s[1].Size != 1 {
		t.Errorf("tail should be a one-byte truncated position, got size %d err %v", s[1].Size, s[1].Err)
	}

	// A Thumb2 first halfword with nothing after it.
	s = Sweep(thumbBytes(0xf000), 0, ModeThumb)
	if len(s) != 1 || s[0].Err == nil || s[0].Size != 2 {
		t.Errorf("lone thumb2 halfword: %+v", s)
	}
}

func TestSweepRegions(t *testing.T) {
	buf := armBytes(0xe3a00001, 0xe12fff1e)
	buf = append(buf, thumbBytes(0x2001, 0x4770)...)
	buf = append(buf, armBytes(0xdeadbeef)...)

	regions := []Region{
		{Start: 0x108, End: 0x10c, Mode: ModeThumb},
		{Start: 0x10c, End: 0x110, Mode: ModeData},
	}
	s := SweepRegions(buf, 0x100, regions, ModeARM)

	want := []string{"MOV r0, #1", "BX lr", "MOV r0, #1", "BX lr", ".word 0xdeadbeef"}
	if len(s) != len(want) {
		t.Fatalf("got %d positions, want %d", len(s), len(want))
	}
	for i, w := range want {
		if got := s[i].String(); got != w {
			t.Errorf("position %d = %q, want %q", i, got, w)
		}
	}
	if s[2].Mode != ModeThumb || s[4].Mode != ModeData {
		t.Errorf("modes = %s %s", s[2].Mode, s[4].Mode)
	}
	if n := s.Invalid(); n != 0 {
		t.Errorf("data words should not count as invalid, got %d", n)
	}
}

func TestStreamAt(t *testing.T) {
	s := Sweep(armBytes(0xe3a00001, 0xe12fff1e), 0x2000, ModeARM)
	in, ok := s.At(0x2004)
	if !ok || in.Record.Instr != arm.BX {
		t.Fatalf("At(0x2004) = %v, %v", in, ok)
	}
	if _, ok := s.At(0x2002); ok {
		t.Errorf("At(0x2002) should miss")
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"arm", ModeARM},
		{"Thumb", ModeThumb},
		{"t32", ModeThumb},
		{"data", ModeData},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseMode(%q) = %s, %v", tt.in, got, err)
		}
	}
	if _, err := ParseMode("mips"); err == nil {
		t.Errorf("ParseMode(mips) should fail")
	}
}
