package analysis

import (
	"encoding/binary"
	"strings"
	"testing"

	"armdis/internal/disasm"
	"armdis/internal/elfx"
)

func armBuf(words ...uint32) []byte {
	buf := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[4*i:], w)
	}
	return buf
}

func thumbBuf(hws ...uint16) []byte {
	buf := make([]byte, 2*len(hws))
	for i, w := range hws {
		binary.LittleEndian.PutUint16(buf[2*i:], w)
	}
	return buf
}

func TestBranchTarget(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		addr uint32
		mode disasm.Mode
		want Target
	}{
		{"arm b to self", armBuf(0xeafffffe), 0x8000, disasm.ModeARM, Target{Addr: 0x8000, Mode: disasm.ModeARM}},
		{"arm bl forward", armBuf(0xeb000001), 0x8000, disasm.ModeARM, Target{Addr: 0x800c, Mode: disasm.ModeARM, Call: true}},
		{"arm blx to thumb", armBuf(0xfa000000), 0x8000, disasm.ModeARM, Target{Addr: 0x8008, Mode: disasm.ModeThumb, Call: true}},
		{"thumb b to self", thumbBuf(0xe7fe), 0x1000, disasm.ModeThumb, Target{Addr: 0x1000, Mode: disasm.ModeThumb}},
		{"thumb cbz", thumbBuf(0xb108), 0x1000, disasm.ModeThumb, Target{Addr: 0x1006, Mode: disasm.ModeThumb}},
		{"thumb2 bl to self", thumbBuf(0xf7ff, 0xfffe), 0x1000, disasm.ModeThumb, Target{Addr: 0x1000, Mode: disasm.ModeThumb, Call: true}},
		{"thumb2 beq", thumbBuf(0xf43f, 0xaffe), 0x1000, disasm.ModeThumb, Target{Addr: 0x1000, Mode: disasm.ModeThumb}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := disasm.DecodeAt(tt.buf, tt.addr, tt.mode)
			got, ok := BranchTarget(&in)
			if !ok {
				t.Fatalf("BranchTarget(%s) found no target", in.String())
			}
			if got != tt.want {
				t.Errorf("BranchTarget(%s) = %+v, want %+v", in.String(), got, tt.want)
			}
		})
	}

	in := disasm.DecodeAt(armBuf(0xe12fff1e), 0, disasm.ModeARM)
	if _, ok := BranchTarget(&in); ok {
		t.Errorf("BX lr should have no static target")
	}
}

func TestLiteralAddr(t *testing.T) {
	// ldr r0, [pc, #4] at 0x1002 reads Align(0x1006, 4) + 4.
	in := disasm.DecodeAt(thumbBuf(0x4801), 0x1002, disasm.ModeThumb)
	lit, ok := LiteralAddr(&in)
	if !ok || lit.Addr != 0x1008 || lit.Size != 4 || !lit.Load {
		t.Errorf("thumb literal = %+v, %v", lit, ok)
	}

	// ldr r0, [pc, #-4] in ARM.
	in = disasm.DecodeAt(armBuf(0xe51f0004), 0x8000, disasm.ModeARM)
	lit, ok = LiteralAddr(&in)
	if !ok || lit.Addr != 0x8004 {
		t.Errorf("arm literal = %+v, %v", lit, ok)
	}

	// ldr r0, [r1, #4] is not pc-relative.
	in = disasm.DecodeAt(armBuf(0xe5910004), 0x8000, disasm.ModeARM)
	if _, ok := LiteralAddr(&in); ok {
		t.Errorf("register-based load should not resolve")
	}
}

func TestIsReturn(t *testing.T) {
	tests := []struct {
		buf  []byte
		mode disasm.Mode
		want bool
	}{
		{armBuf(0xe12fff1e), disasm.ModeARM, true},
		{armBuf(0xe8bd8010), disasm.ModeARM, true},
		{armBuf(0xe1a0f00e), disasm.ModeARM, true},
		{armBuf(0xe3a00001), disasm.ModeARM, false},
		{thumbBuf(0x4770), disasm.ModeThumb, true},
		{thumbBuf(0xbd10), disasm.ModeThumb, true},
		{thumbBuf(0xb510), disasm.ModeThumb, false},
	}
	for _, tt := range tests {
		in := disasm.DecodeAt(tt.buf, 0, tt.mode)
		if got := IsReturn(&in); got != tt.want {
			t.Errorf("IsReturn(%s) = %v, want %v", in.String(), got, tt.want)
		}
	}
}

func TestUntilReturn(t *testing.T) {
	s := disasm.Sweep(thumbBuf(0xb510, 0x2001, 0xbd10, 0xbf00), 0, disasm.ModeThumb)
	if got := UntilReturn(s, 0); len(got) != 3 {
		t.Errorf("UntilReturn kept %d instructions, want 3", len(got))
	}
	if got := UntilReturn(s, 2); len(got) != 2 {
		t.Errorf("UntilReturn with max 2 kept %d", len(got))
	}
}

func TestSymbolizer(t *testing.T) {
	img := &elfx.Image{
		Syms:    []elfx.Sym{{Name: "_ZN3foo3barEv", Addr: 0x1000, Func: true}},
		Dynsyms: []elfx.Sym{{Name: "main", Addr: 0x2000, Func: true}},
		PLTRels: []elfx.PLTRel{{SymName: "puts", PLTAddr: 0x3000}},
	}
	s := NewSymbolizer(img)

	if name, ok := s.Lookup(0x1000); !ok || name != "foo::bar()" {
		t.Errorf("Lookup(0x1000) = %q, %v", name, ok)
	}
	if name, _ := s.Lookup(0x3000); name != "puts@plt" {
		t.Errorf("Lookup(0x3000) = %q", name)
	}
	if got := s.Describe(0x2010); got != "main+0x10" {
		t.Errorf("Describe(0x2010) = %q", got)
	}
	if got := s.Describe(0x10); got != "loc_10" {
		t.Errorf("Describe(0x10) = %q", got)
	}

	s.Add(0x10, "reset")
	if got := s.Describe(0x14); got != "reset+0x4" {
		t.Errorf("Describe after Add = %q", got)
	}
	if s.Len() != 4 {
		t.Errorf("Len = %d, want 4", s.Len())
	}
}

func TestCachedDemangle(t *testing.T) {
	if got := CachedDemangle("plain"); got != "plain" {
		t.Errorf("CachedDemangle(plain) = %q", got)
	}
	_, before := DemangleCacheStats()
	CachedDemangle("plain")
	if _, after := DemangleCacheStats(); after != before+1 {
		t.Errorf("second lookup should hit the cache: %d -> %d", before, after)
	}
}

func TestReadCString(t *testing.T) {
	mem := Flat{Base: 0x100, Data: []byte("hi\x00hello\x00\x01\x02\x03\x04\x05\x00")}
	if _, ok := ReadCString(mem, 0x100, 64); ok {
		t.Errorf("two-byte string should be rejected")
	}
	if s, ok := ReadCString(mem, 0x103, 64); !ok || s != "hello" {
		t.Errorf("ReadCString(0x103) = %q, %v", s, ok)
	}
	if _, ok := ReadCString(mem, 0x109, 64); ok {
		t.Errorf("binary run should be rejected")
	}
	if _, ok := ReadCString(mem, 0x50, 64); ok {
		t.Errorf("address below base should fail")
	}

	// Strings at the very end of an image.
	tail := []struct {
		data string
		want string
		ok   bool
	}{
		{"hello\x00", "hello", true},
		{"hello world\x00", "hello world", true},
		{"hello\x00\x00\x00", "hello", true},
		{"abcdefghij", "", false},
		{"", "", false},
	}
	for _, tt := range tail {
		got, ok := ReadCString(Flat{Base: 0x100, Data: []byte(tt.data)}, 0x100, MaxStringLength)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ReadCString(%q) = %q, %v, want %q, %v", tt.data, got, ok, tt.want, tt.ok)
		}
	}
}

func TestEscapeUnprintable(t *testing.T) {
	if got := EscapeUnprintable([]byte("a\tb\xff")); got != `a\u0009b\xFF` {
		t.Errorf("EscapeUnprintable = %q", got)
	}
}

func TestAnnotate(t *testing.T) {
	// 0x0: b 0x8; 0x4: ldr r0, [pc, #0]; 0x8: bx lr; 0xc: .word 0x12345678
	buf := armBuf(0xea000000, 0xe59f0000, 0xe12fff1e, 0x12345678)
	s := disasm.SweepRegions(buf, 0, []disasm.Region{{Start: 0xc, End: 0x10, Mode: disasm.ModeData}}, disasm.ModeARM)

	syms := NewSymbolizer(nil)
	syms.Add(0, "start")
	a := &Annotator{Symbols: syms, Mem: Flat{Data: buf}, Lower: true}
	lines := a.Annotate(s)

	var got []string
	for _, l := range lines {
		got = append(got, l.String())
	}
	out := strings.Join(got, "\n")

	for _, want := range []string{
		"00000000 <start>:",
		"00000008 <loc_8>:",
		"b        #+0",
		"; loc_8",
		"ldr      r0, [pc]",
		"=0x12345678",
		".word    0x12345678",
		"e12fff1e",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("listing missing %q:\n%s", want, out)
		}
	}
}
