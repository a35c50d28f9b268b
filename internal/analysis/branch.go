package analysis

import (
	"armdis/internal/arm"
	"armdis/internal/disasm"
)

// Target is where a control transfer lands and the instruction set it
// lands in.
type Target struct {
	Addr uint32
	Mode disasm.Mode
	Call bool
}

// PC returns the value the pc register reads as while in executes.
func PC(in *disasm.Inst) uint32 {
	if in.Mode == disasm.ModeThumb {
		return in.Addr + 4
	}
	return in.Addr + 8
}

// alignedPC is Align(PC, 4), the base of pc-relative data accesses.
func alignedPC(in *disasm.Inst) uint32 {
	return PC(in) &^ 3
}

// BranchTarget recomputes the destination of an immediate branch from its
// decoded offset. Register branches have no static target.
func BranchTarget(in *disasm.Inst) (Target, bool) {
	if !in.Valid() || in.Record.I != arm.Set {
		return Target{}, false
	}
	d := &in.Record
	t := Target{Mode: in.Mode}

	switch d.Instr {
	case arm.B:
	case arm.BL:
		t.Call = true
	case arm.BLX:
		t.Call = true
		if in.Mode == disasm.ModeThumb {
			t.Mode = disasm.ModeARM
			t.Addr = alignedPC(in) + uint32(d.Offset())
			return t, true
		}
		t.Mode = disasm.ModeThumb
	case arm.CBZ, arm.CBNZ:
		t.Addr = PC(in) + d.Imm
		return t, true
	default:
		return Target{}, false
	}
	t.Addr = PC(in) + uint32(d.Offset())
	return t, true
}

// Literal is a pc-relative data reference.
type Literal struct {
	Addr uint32
	Size int  // bytes loaded, 0 for address-only forms
	Load bool // false for ADR, which only forms the address
}

var literalSizes = map[arm.Instr]int{
	arm.LDR:   4,
	arm.LDRB:  1,
	arm.LDRSB: 1,
	arm.LDRH:  2,
	arm.LDRSH: 2,
	arm.LDRD:  8,
	arm.PLD:   0,
	arm.PLI:   0,
	arm.VLDR:  0,
}

// LiteralAddr resolves ADR and pc-relative loads to the address they read.
func LiteralAddr(in *disasm.Inst) (Literal, bool) {
	if !in.Valid() {
		return Literal{}, false
	}
	d := &in.Record

	if d.Instr == arm.ADR {
		base := alignedPC(in)
		if d.U == arm.Unset {
			return Literal{Addr: base - d.Imm}, true
		}
		return Literal{Addr: base + d.Imm}, true
	}

	size, ok := literalSizes[d.Instr]
	if !ok || d.Rn != arm.PC || d.I != arm.Set || d.Rm != arm.RegInvalid {
		return Literal{}, false
	}
	addr := alignedPC(in) + d.Imm
	if d.U == arm.Unset {
		addr = alignedPC(in) - d.Imm
	}
	return Literal{Addr: addr, Size: size, Load: size > 0}, true
}

// IsReturn reports whether in leaves the current function.
func IsReturn(in *disasm.Inst) bool {
	if !in.Valid() {
		return false
	}
	d := &in.Record
	switch d.Instr {
	case arm.BX:
		return d.Rm == arm.LR
	case arm.POP, arm.LDM:
		return d.Reglist&(1<<arm.PC) != 0
	case arm.MOV:
		return d.Rd == arm.PC && d.Rm == arm.LR
	case arm.LDR:
		return d.Rt == arm.PC && d.Rn == arm.SP
	}
	return false
}

// UntilReturn trims s after the first return, keeping at most max
// instructions when max > 0.
func UntilReturn(s disasm.Stream, max int) disasm.Stream {
	for i := range s {
		if max > 0 && i == max {
			return s[:i]
		}
		if IsReturn(&s[i]) {
			return s[:i+1]
		}
	}
	return s
}
