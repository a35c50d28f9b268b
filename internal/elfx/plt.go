package elfx

import (
	"debug/elf"
	"encoding/binary"

	"armdis/internal/arm"
)

// pltHeaderSize is the size of PLT[0], the lazy-binding resolver.
const pltHeaderSize = 20

// parsePLTStubs walks .plt after the resolver and decodes each stub.
//
// A standard ARM stub computes the GOT slot from pc and loads it into pc:
//
//	add ip, pc, #0xNN00000
//	add ip, ip, #0xNN000
//	ldr pc, [ip, #0xNNN]!
//
// Long-form stubs carry one more add.
func (im *Image) parsePLTStubs() {
	if im.PLT.Size <= pltHeaderSize {
		return
	}
	code, ok := im.SectionBytes(im.PLT)
	if !ok {
		return
	}

	for off, idx := uint32(pltHeaderSize), 1; off+12 <= uint32(len(code)); idx++ {
		addr := im.PLT.VA + off
		got, size, ok := parsePLTStub(code[off:], addr)
		if !ok {
			off += 4
			continue
		}
		im.PLTStubs = append(im.PLTStubs, PLTStub{
			Addr:    addr,
			Size:    size,
			GOTAddr: got,
			Index:   idx,
		})
		off += size
	}
}

// parsePLTStub decodes one stub starting at addr and returns the GOT slot it
// loads and the stub size in bytes.
func parsePLTStub(code []byte, addr uint32) (got, size uint32, ok bool) {
	var d arm.Record
	var acc uint32
	for off := uint32(0); off+4 <= uint32(len(code)) && off < 16; off += 4 {
		w := binary.LittleEndian.Uint32(code[off:])
		if err := arm.DecodeARM(&d, w); err != nil {
			return 0, 0, false
		}
		switch {
		case off == 0 && d.Instr == arm.ADR && d.Rd == arm.R12:
			acc = addr + 8 + d.Imm
			if d.U == arm.Unset {
				acc = addr + 8 - d.Imm
			}
		case off > 0 && d.Instr == arm.ADD && d.Rd == arm.R12 && d.Rn == arm.R12 && d.I == arm.Set:
			acc += d.Imm
		case off > 0 && d.Instr == arm.LDR && d.Rt == arm.PC && d.Rn == arm.R12 && d.I == arm.Set:
			if d.U == arm.Unset {
				return acc - d.Imm, off + 4, true
			}
			return acc + d.Imm, off + 4, true
		default:
			return 0, 0, false
		}
	}
	return 0, 0, false
}

// parsePLTRelocations reads .rel.plt, which ARM uses in place of RELA.
func (im *Image) parsePLTRelocations() {
	section := im.File.Section(".rel.plt")
	if section == nil {
		return
	}
	data, err := section.Data()
	if err != nil {
		return
	}

	dynsyms, err := im.File.DynamicSymbols()
	if err != nil {
		return
	}

	// Each Elf32_Rel entry is r_offset(4) + r_info(4).
	const entrySize = 8
	for off := 0; off+entrySize <= len(data); off += entrySize {
		rOffset := binary.LittleEndian.Uint32(data[off:])
		rInfo := binary.LittleEndian.Uint32(data[off+4:])
		if elf.R_ARM(elf.R_TYPE32(rInfo)) != elf.R_ARM_JUMP_SLOT {
			continue
		}
		symIndex := elf.R_SYM32(rInfo)

		var symName string
		// DynamicSymbols drops the null entry, so index i is dynsyms[i-1].
		if symIndex > 0 && int(symIndex) <= len(dynsyms) {
			symName = dynsyms[symIndex-1].Name
		}

		var pltAddr uint32
		for _, stub := range im.PLTStubs {
			if stub.GOTAddr == rOffset {
				pltAddr = stub.Addr
				break
			}
		}

		im.PLTRels = append(im.PLTRels, PLTRel{
			Offset:   rOffset,
			SymIndex: symIndex,
			SymName:  symName,
			PLTAddr:  pltAddr,
		})
	}
}
