package elfx

import (
	"debug/elf"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"armdis/internal/disasm"
)

func TestMappingMode(t *testing.T) {
	tests := []struct {
		name string
		mode disasm.Mode
		ok   bool
	}{
		{"$a", disasm.ModeARM, true},
		{"$t", disasm.ModeThumb, true},
		{"$d", disasm.ModeData, true},
		{"$t.42", disasm.ModeThumb, true},
		{"$x", 0, false},
		{"$tx", 0, false},
		{"main", 0, false},
		{"$", 0, false},
	}
	for _, tt := range tests {
		mode, ok := mappingMode(tt.name)
		if ok != tt.ok || (ok && mode != tt.mode) {
			t.Errorf("mappingMode(%q) = %s, %v, want %s, %v", tt.name, mode, ok, tt.mode, tt.ok)
		}
	}
}

func TestConvertSymThumbBit(t *testing.T) {
	s := convertSym(elf.Symbol{Name: "f", Value: 0x8001, Size: 8, Info: elf.ST_INFO(elf.STB_GLOBAL, elf.STT_FUNC)})
	if !s.Thumb || s.Addr != 0x8000 || !s.Func {
		t.Errorf("thumb function = %+v", s)
	}

	// Data symbols keep odd addresses.
	s = convertSym(elf.Symbol{Name: "b", Value: 0x9001, Info: elf.ST_INFO(elf.STB_GLOBAL, elf.STT_OBJECT)})
	if s.Thumb || s.Addr != 0x9001 {
		t.Errorf("object = %+v", s)
	}
}

func TestRegionsFromMappingSymbols(t *testing.T) {
	im := &Image{
		Text: Section{Name: ".text", VA: 0x1000, Size: 0x40},
		Mapping: []MapSym{
			{Addr: 0x1000, Mode: disasm.ModeARM},
			{Addr: 0x1010, Mode: disasm.ModeThumb},
			{Addr: 0x1030, Mode: disasm.ModeData},
			{Addr: 0x2000, Mode: disasm.ModeARM},
		},
	}
	want := []disasm.Region{
		{Start: 0x1000, End: 0x1010, Mode: disasm.ModeARM},
		{Start: 0x1010, End: 0x1030, Mode: disasm.ModeThumb},
		{Start: 0x1030, End: 0x1040, Mode: disasm.ModeData},
	}
	if diff := cmp.Diff(want, im.Regions(im.Text)); diff != "" {
		t.Errorf("Regions mismatch (-want +got):\n%s", diff)
	}

	if m := im.ModeAt(0x1012); m != disasm.ModeThumb {
		t.Errorf("ModeAt(0x1012) = %s, want thumb", m)
	}
	if m := im.ModeAt(0x1034); m != disasm.ModeData {
		t.Errorf("ModeAt(0x1034) = %s, want data", m)
	}
}

func TestRegionsFromThumbFunctions(t *testing.T) {
	im := &Image{
		Text: Section{Name: ".text", VA: 0x1000, Size: 0x40},
		Syms: []Sym{
			{Name: "arm_fn", Addr: 0x1000, Size: 0x10, Func: true},
			{Name: "thumb_fn", Addr: 0x1010, Size: 0x8, Func: true, Thumb: true},
		},
	}
	want := []disasm.Region{{Start: 0x1010, End: 0x1018, Mode: disasm.ModeThumb}}
	if diff := cmp.Diff(want, im.Regions(im.Text)); diff != "" {
		t.Errorf("Regions mismatch (-want +got):\n%s", diff)
	}
	if m := im.ModeAt(0x1004); m != disasm.ModeARM {
		t.Errorf("ModeAt(0x1004) = %s, want arm", m)
	}
	if m := im.ModeAt(0x1014); m != disasm.ModeThumb {
		t.Errorf("ModeAt(0x1014) = %s, want thumb", m)
	}

	im.Entry = 0x1011
	if m := im.ModeAt(0x1030); m != disasm.ModeThumb {
		t.Errorf("ModeAt past all symbols = %s, want entry mode thumb", m)
	}
}

func TestParsePLTStub(t *testing.T) {
	code := make([]byte, 12)
	binary.LittleEndian.PutUint32(code[0:], 0xe28fc600) // add ip, pc, #0
	binary.LittleEndian.PutUint32(code[4:], 0xe28cca10) // add ip, ip, #0x10000
	binary.LittleEndian.PutUint32(code[8:], 0xe5bcfcd0) // ldr pc, [ip, #0xcd0]!

	got, size, ok := parsePLTStub(code, 0x10330)
	if !ok {
		t.Fatalf("parsePLTStub failed")
	}
	if got != 0x21008 || size != 12 {
		t.Errorf("got GOT %#x size %d, want 0x21008 size 12", got, size)
	}

	binary.LittleEndian.PutUint32(code[0:], 0xe1a00000) // mov r0, r0
	if _, _, ok := parsePLTStub(code, 0x10330); ok {
		t.Errorf("a stub not starting with add ip, pc should be rejected")
	}
}

func TestFunctionsDeduplicates(t *testing.T) {
	im := &Image{
		Syms:    []Sym{{Name: "b", Addr: 0x20, Func: true}, {Name: "a", Addr: 0x10, Func: true}},
		Dynsyms: []Sym{{Name: "a", Addr: 0x10, Func: true}, {Name: "obj", Addr: 0x30}},
	}
	fns := im.Functions()
	if len(fns) != 2 || fns[0].Name != "a" || fns[1].Name != "b" {
		t.Errorf("Functions() = %+v", fns)
	}
	if _, ok := im.FindFunctionByName("b"); !ok {
		t.Errorf("FindFunctionByName(b) missed")
	}
}

func TestOpenRejectsNonELF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob.bin")
	if err := os.WriteFile(path, []byte("not an elf file at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Errorf("Open of a non-ELF file should fail")
	}
	if _, err := Open(filepath.Join(t.TempDir(), "missing")); err == nil || errors.Is(err, ErrNotARM) {
		t.Errorf("Open of a missing file = %v", err)
	}
}
