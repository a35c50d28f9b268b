package arm

// low3 extracts a 3-bit low register field starting at bit shift.
func low3(w uint16, shift uint) Reg {
	return Reg((w >> shift) & 7)
}

func decodeThumb(d *Record, w uint16) error {
	if IsThumb2(w) {
		return ErrInvalid
	}

	d.Instr = thumbLabels[w>>8]
	d.Type = thumbTypes[w>>8]
	imm8 := uint32(w & 0xff)

	switch d.Type {
	case ThumbOnlyImm8:
		d.I = Set
		d.Imm = imm8
		return nil

	case ThumbCondBranch:
		d.Cond = Cond((w >> 8) & 0xf)
		d.I = Set
		d.Imm = uint32(SignExtend(imm8, 8)) << 1
		return nil

	case ThumbUncondBranch:
		d.I = Set
		d.Imm = uint32(SignExtend(uint32(w&0x7ff), 11)) << 1
		return nil

	case ThumbShiftImm:
		d.Rd = low3(w, 0)
		d.Rm = low3(w, 3)
		d.Shift = uint32(w>>6) & 0x1f
		if d.Shift == 0 && d.Instr == LSL {
			d.Instr = MOV
			return nil
		}
		switch d.Instr {
		case LSL:
			d.ShiftType = ShiftLSL
		case LSR:
			d.ShiftType = ShiftLSR
		case ASR:
			d.ShiftType = ShiftASR
		}
		return nil

	case ThumbStack, ThumbLdrPc:
		d.I = Set
		d.Imm = imm8 << 2
		d.Rn = SP
		if d.Type == ThumbLdrPc {
			d.Rn = PC
		}
		d.Rt = low3(w, 8)
		d.U, d.W, d.P = Set, Unset, Set
		return nil

	case ThumbGpi:
		d.Instr = thumbGPIInstrs[(w>>6)&0xf]
		switch d.Instr {
		case AND, EOR, LSL, LSR, ASR, ADC, SBC, ROR:
			d.Rd = low3(w, 0)
			d.Rn = d.Rd
			d.Rm = low3(w, 3)
		case TST, CMP, CMN:
			d.Rn = low3(w, 0)
			d.Rm = low3(w, 3)
		case RSB:
			d.I = Set
			d.Imm = 0
			d.Rd = low3(w, 0)
			d.Rn = low3(w, 3)
		case ORR, BIC:
			d.Rn = low3(w, 0)
			d.Rd = low3(w, 0)
			d.Rm = low3(w, 3)
		case MVN:
			d.Rd = low3(w, 0)
			d.Rm = low3(w, 3)
		case MUL:
			d.Rd = low3(w, 0)
			d.Rm = d.Rd
			d.Rn = low3(w, 3)
		}
		return nil

	case ThumbBranchReg:
		d.Instr = BX
		if (w>>7)&1 == 1 {
			d.Instr = BLX
		}
		d.Rm = Reg((w >> 3) & 0xf)
		return nil

	case ThumbItHints:
		if w&0xf == 0 {
			d.Instr = thumbHintInstrs[(w>>4)&7]
			if d.Instr == InstrInvalid {
				return ErrInvalid
			}
			return nil
		}
		d.Instr = IT
		d.Mask = uint8(w & 0xf)
		d.Firstcond = Cond((w >> 4) & 0xf)
		return nil

	case ThumbHasImm8:
		d.I = Set
		d.Imm = imm8
		switch d.Instr {
		case ADD, SUB:
			d.Rd = low3(w, 8)
			d.Rn = d.Rd
		case ADR:
			d.Rn = PC
			d.U = Set
			d.Imm <<= 2
			d.Rd = low3(w, 8)
		case MOV:
			d.Rd = low3(w, 8)
		case CMP:
			d.Rn = low3(w, 8)
		}
		return nil

	case ThumbExtend:
		d.Instr = thumbExtendInstrs[(w>>6)&3]
		d.Rd = low3(w, 0)
		d.Rm = low3(w, 3)
		return nil

	case ThumbModSpImm:
		d.Instr = ADD
		if (w>>7)&1 == 1 {
			d.Instr = SUB
		}
		d.Rd, d.Rn = SP, SP
		d.I = Set
		d.Imm = uint32(w&0x7f) << 2
		return nil

	case ThumbThreeReg:
		d.Rd = low3(w, 0)
		d.Rn = low3(w, 3)
		d.Rm = low3(w, 6)
		return nil

	case ThumbTwoRegImm:
		d.Rd = low3(w, 0)
		d.Rn = low3(w, 3)
		d.I = Set
		d.Imm = uint32(w>>6) & 7
		return nil

	case ThumbAddSpImm:
		d.I = Set
		d.Imm = imm8 << 2
		d.Rn = SP
		d.Rd = low3(w, 8)
		return nil

	case ThumbMov4:
		d.Rd = Reg((w>>4)&8 | w&7)
		d.Rm = Reg((w >> 3) & 0xf)
		return nil

	case ThumbRwMemi:
		d.Rt = low3(w, 0)
		d.Rn = low3(w, 3)
		d.I = Set
		d.Imm = uint32(w>>6) & 0x1f
		switch d.Instr {
		case LDR, STR:
			d.Imm <<= 2
		case LDRH, STRH:
			d.Imm <<= 1
		}
		d.P, d.U, d.W = Set, Set, Unset
		return nil

	case ThumbRwMemo:
		d.Rt = low3(w, 0)
		d.Rn = low3(w, 3)
		d.Rm = low3(w, 6)
		d.P, d.U, d.W = Set, Set, Unset
		return nil

	case ThumbRwReg:
		d.Reglist = w & 0xff
		d.Rn = low3(w, 8)
		// LDM only writes back when the base is not reloaded.
		d.W = Set
		if d.Instr == LDM && d.Reglist&(1<<uint(d.Rn)) != 0 {
			d.W = Unset
		}
		return nil

	case ThumbRev:
		d.Instr = thumbRevInstrs[(w>>6)&3]
		if d.Instr == InstrInvalid {
			return ErrInvalid
		}
		d.Rd = low3(w, 0)
		d.Rm = low3(w, 3)
		return nil

	case ThumbSetend:
		// 0xb65x is SETEND, the rest of the row is CPS.
		if w&0xfff7 != 0xb650 {
			return ErrInvalid
		}
		d.E = flagOf(uint32(w) >> 3)
		return nil

	case ThumbPushpop:
		d.Reglist = w & 0xff
		extra := (w >> 8) & 1
		if d.Instr == PUSH {
			d.Reglist |= extra << LR
		} else {
			d.Reglist |= extra << PC
		}
		return nil

	case ThumbCmp:
		d.Rn = Reg(w&7 | (w>>4)&8)
		d.Rm = Reg((w >> 3) & 0xf)
		return nil

	case ThumbModSpReg:
		d.Rd = Reg((w>>4)&8 | w&7)
		d.Rn = d.Rd
		d.Rm = Reg((w >> 3) & 0xf)
		if d.Rm == SP {
			d.Rd, d.Rm = d.Rn, d.Rn
			d.Rn = SP
		}
		return nil

	case ThumbCbz:
		d.Instr = CBZ
		if (w>>11)&1 == 1 {
			d.Instr = CBNZ
		}
		d.Rn = low3(w, 0)
		d.Rm = PC
		d.U = Set
		d.I = Set
		d.Imm = uint32((w>>2)&0x3e | (w>>3)&0x40)
		return nil
	}
	return ErrInvalid
}
