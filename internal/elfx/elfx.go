// Package elfx opens 32-bit ARM ELF binaries, locates sections and symbols,
// and works out which address ranges hold ARM code, Thumb code or data.
package elfx

import (
	"debug/elf"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"syscall"

	"armdis/internal/disasm"
)

// ErrNotARM is returned for ELF files that are not 32-bit little-endian ARM.
var ErrNotARM = errors.New("not a 32-bit little-endian ARM ELF")

type Image struct {
	Path     string
	File     *elf.File
	All      []byte
	Loads    []Seg
	Text     Section
	Rodata   Section
	Data     Section
	PLT      Section
	Dynsyms  []Sym
	Syms     []Sym
	Mapping  []MapSym
	PLTStubs []PLTStub
	PLTRels  []PLTRel
	Entry    uint32
	f        *os.File
}

type Seg struct {
	Vaddr, Off, Filesz uint32
	Flags              elf.ProgFlag
}

type Section struct {
	Name          string
	VA, Off, Size uint32
}

// Contains reports whether va lies inside the section.
func (s Section) Contains(va uint32) bool {
	return s.Size != 0 && va >= s.VA && va < s.VA+s.Size
}

// Sym is a named address. Thumb functions have the low bit cleared in Addr
// and Thumb set.
type Sym struct {
	Name  string
	Addr  uint32
	Size  uint32
	Func  bool
	Thumb bool
	IsPLT bool
}

// MapSym is an ARM mapping symbol ($a, $t or $d) marking where a run of
// code or data starts.
type MapSym struct {
	Addr uint32
	Mode disasm.Mode
}

type PLTStub struct {
	Addr    uint32
	Size    uint32
	GOTAddr uint32
	Index   int
}

type PLTRel struct {
	Offset   uint32
	SymIndex uint32
	SymName  string
	PLTAddr  uint32
}

func Open(path string) (*Image, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open elf: %w", err)
	}
	if f.Class != elf.ELFCLASS32 || f.Machine != elf.EM_ARM || f.ByteOrder != binary.LittleEndian {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrNotARM)
	}

	of, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open file: %w", err)
	}

	fi, err := of.Stat()
	if err != nil {
		of.Close()
		f.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}

	all, err := syscall.Mmap(int(of.Fd()), 0, int(fi.Size()), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		of.Close()
		f.Close()
		return nil, fmt.Errorf("mmap file: %w", err)
	}

	im := &Image{Path: path, File: f, All: all, Entry: uint32(f.Entry), f: of}
	for _, p := range f.Progs {
		if p.Type != elf.PT_LOAD {
			continue
		}
		im.Loads = append(im.Loads, Seg{
			Vaddr:  uint32(p.Vaddr),
			Off:    uint32(p.Off),
			Filesz: uint32(p.Filesz),
			Flags:  p.Flags,
		})
	}

	for _, s := range f.Sections {
		sec := Section{s.Name, uint32(s.Addr), uint32(s.Offset), uint32(s.Size)}
		switch s.Name {
		case ".text":
			im.Text = sec
		case ".rodata":
			im.Rodata = sec
		case ".data":
			im.Data = sec
		case ".plt":
			im.PLT = sec
		}
	}

	im.loadDynamicSymbols()
	im.loadStaticSymbols()
	im.parsePLTStubs()
	im.parsePLTRelocations()

	// Stripped binaries fall back to the first executable segment.
	if im.Text.Size == 0 {
		for _, l := range im.Loads {
			if l.Flags&elf.PF_X != 0 && l.Filesz > 0 {
				im.Text = Section{"LOAD(exec)", l.Vaddr, l.Off, l.Filesz}
				break
			}
		}
	}
	return im, nil
}

// Close unmaps the memory and closes the underlying files.
func (im *Image) Close() error {
	var err1, err2 error
	if im.All != nil {
		err1 = syscall.Munmap(im.All)
		im.All = nil
	}
	if im.f != nil {
		err2 = im.f.Close()
		im.f = nil
	}
	if im.File != nil {
		if err := im.File.Close(); err != nil && err2 == nil {
			err2 = err
		}
		im.File = nil
	}
	return errors.Join(err1, err2)
}

// VA2Off translates a virtual address into a file offset using PT_LOAD
// segments. It returns false if va is unmapped.
func (im *Image) VA2Off(va uint32) (uint32, bool) {
	for _, l := range im.Loads {
		if va >= l.Vaddr && va < l.Vaddr+l.Filesz {
			return l.Off + (va - l.Vaddr), true
		}
	}
	return 0, false
}

// SliceVA returns the mapped bytes for [va, va+size).
func (im *Image) SliceVA(va, size uint32) ([]byte, bool) {
	off, ok := im.VA2Off(va)
	if !ok {
		return nil, false
	}
	end := uint64(off) + uint64(size)
	if end > uint64(len(im.All)) {
		return nil, false
	}
	return im.All[off:end], true
}

// ReadWord reads a little-endian word at va.
func (im *Image) ReadWord(va uint32) (uint32, bool) {
	b, ok := im.SliceVA(va, 4)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b), true
}

// SectionBytes returns the file contents of s.
func (im *Image) SectionBytes(s Section) ([]byte, bool) {
	if s.Size == 0 {
		return nil, false
	}
	end := uint64(s.Off) + uint64(s.Size)
	if end > uint64(len(im.All)) {
		return nil, false
	}
	return im.All[s.Off:end], true
}

// InRodata reports whether va lies in .rodata.
func (im *Image) InRodata(va uint32) bool {
	return im.Rodata.Contains(va)
}

func convertSym(s elf.Symbol) Sym {
	sym := Sym{
		Name:  s.Name,
		Addr:  uint32(s.Value),
		Size:  uint32(s.Size),
		Func:  elf.ST_TYPE(s.Info) == elf.STT_FUNC,
		IsPLT: strings.HasSuffix(s.Name, "@plt"),
	}
	if sym.Func && sym.Addr&1 != 0 {
		sym.Addr &^= 1
		sym.Thumb = true
	}
	return sym
}

// loadDynamicSymbols loads .dynsym so PLT slots can be named.
func (im *Image) loadDynamicSymbols() {
	dynsyms, err := im.File.DynamicSymbols()
	if err != nil {
		return
	}
	for _, s := range dynsyms {
		im.Dynsyms = append(im.Dynsyms, convertSym(s))
	}
}

// loadStaticSymbols loads .symtab and splits out the mapping symbols.
func (im *Image) loadStaticSymbols() {
	syms, err := im.File.Symbols()
	if err != nil {
		return
	}
	for _, s := range syms {
		if mode, ok := mappingMode(s.Name); ok {
			im.Mapping = append(im.Mapping, MapSym{Addr: uint32(s.Value), Mode: mode})
			continue
		}
		if s.Value == 0 || s.Section == elf.SHN_UNDEF {
			continue
		}
		im.Syms = append(im.Syms, convertSym(s))
	}
	sort.Slice(im.Mapping, func(i, j int) bool { return im.Mapping[i].Addr < im.Mapping[j].Addr })
}

// mappingMode recognises $a, $t and $d with an optional ".suffix".
func mappingMode(name string) (disasm.Mode, bool) {
	if len(name) < 2 || name[0] != '$' || (len(name) > 2 && name[2] != '.') {
		return 0, false
	}
	switch name[1] {
	case 'a':
		return disasm.ModeARM, true
	case 't':
		return disasm.ModeThumb, true
	case 'd':
		return disasm.ModeData, true
	}
	return 0, false
}

// Regions splits s into mode regions. Mapping symbols win; without them
// Thumb function symbols mark Thumb code and everything else is ARM.
func (im *Image) Regions(s Section) []disasm.Region {
	end := s.VA + s.Size
	var rs []disasm.Region

	var marks []MapSym
	for _, m := range im.Mapping {
		if s.Contains(m.Addr) {
			marks = append(marks, m)
		}
	}
	if len(marks) > 0 {
		for i, m := range marks {
			stop := end
			if i+1 < len(marks) {
				stop = marks[i+1].Addr
			}
			if stop > m.Addr {
				rs = append(rs, disasm.Region{Start: m.Addr, End: stop, Mode: m.Mode})
			}
		}
		return rs
	}

	for _, sym := range im.Functions() {
		if !sym.Thumb || !s.Contains(sym.Addr) {
			continue
		}
		stop := min(sym.Addr+sym.Size, end)
		if sym.Size == 0 {
			stop = end
		}
		rs = append(rs, disasm.Region{Start: sym.Addr, End: stop, Mode: disasm.ModeThumb})
	}
	return rs
}

// DefaultMode is the mode for code no symbol describes: Thumb when the entry
// point has its low bit set.
func (im *Image) DefaultMode() disasm.Mode {
	if im.Entry&1 != 0 {
		return disasm.ModeThumb
	}
	return disasm.ModeARM
}

// ModeAt reports the mode of the code at va.
func (im *Image) ModeAt(va uint32) disasm.Mode {
	i := sort.Search(len(im.Mapping), func(i int) bool { return im.Mapping[i].Addr > va })
	if i > 0 {
		return im.Mapping[i-1].Mode
	}
	for _, sym := range im.Functions() {
		if va >= sym.Addr && (va < sym.Addr+sym.Size || va == sym.Addr) {
			if sym.Thumb {
				return disasm.ModeThumb
			}
			return disasm.ModeARM
		}
	}
	return im.DefaultMode()
}

// Functions returns the defined function symbols from both tables sorted by
// address, without duplicates.
func (im *Image) Functions() []Sym {
	seen := make(map[string]bool)
	var out []Sym
	for _, list := range [][]Sym{im.Syms, im.Dynsyms} {
		for _, s := range list {
			if !s.Func || s.Addr == 0 || s.Name == "" || seen[s.Name] {
				continue
			}
			seen[s.Name] = true
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Addr < out[j].Addr })
	return out
}

// FindFunctionByName searches both symbol tables for a defined function.
func (im *Image) FindFunctionByName(name string) (Sym, bool) {
	for _, list := range [][]Sym{im.Dynsyms, im.Syms} {
		for _, s := range list {
			if s.Name == name && !s.IsPLT && s.Addr != 0 {
				return s, true
			}
		}
	}
	return Sym{}, false
}

// SymbolBytes returns the code of a function symbol. Symbols without a size
// run to the next function or the end of their section.
func (im *Image) SymbolBytes(s Sym) ([]byte, bool) {
	size := s.Size
	if size == 0 {
		size = im.Text.VA + im.Text.Size - s.Addr
		for _, f := range im.Functions() {
			if f.Addr > s.Addr {
				size = f.Addr - s.Addr
				break
			}
		}
	}
	return im.SliceVA(s.Addr, size)
}

// IsPLTEntry reports whether va lies in .plt.
func (im *Image) IsPLTEntry(va uint32) bool {
	return im.PLT.Contains(va)
}

// PLTName returns the imported symbol a PLT stub jumps through.
func (im *Image) PLTName(va uint32) (string, bool) {
	for _, rel := range im.PLTRels {
		if rel.PLTAddr == va && rel.SymName != "" {
			return rel.SymName, true
		}
	}
	return "", false
}
