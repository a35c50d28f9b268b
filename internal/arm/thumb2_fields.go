package arm

// decodeThumb2 runs a Thumb2 instruction through classification and the
// field extraction stages. Each stage takes the record by value and returns
// the updated copy.
func decodeThumb2(w, w2 uint16) (Record, error) {
	if !IsThumb2(w) {
		return NewRecord(), ErrInvalid
	}

	instr, s, err := classifyThumb2(w, w2)
	if err != nil {
		return NewRecord(), err
	}
	if instr == InstrInvalid {
		return NewRecord(), ErrInvalid
	}

	r := NewRecord()
	r.Word = uint32(w)<<16 | uint32(w2)
	r.Cond = CondAL
	r.Instr = instr
	r.Type, r.ImmType, r.FlagType = s.regs, s.imm, s.flags

	r = thumb2Regs(r, w, w2)
	r = thumb2Imm(r, w, w2)
	r = thumb2Flags(r, w, w2)
	return thumb2Fixup(r, w, w2), nil
}

func field4(w uint16, shift uint) Reg {
	return Reg((w >> shift) & 0xf)
}

func thumb2Regs(r Record, w, w2 uint16) Record {
	switch r.Type {
	case Thumb2RtReg:
		r.Rt = field4(w2, 12)
	case Thumb2RtRt2Reg:
		r.Rt = field4(w2, 12)
		r.Rt2 = field4(w2, 8)
	case Thumb2RmReg:
		r.Rm = field4(w, 0)
	case Thumb2RdReg:
		r.Rd = field4(w2, 8)
	case Thumb2RdRmReg:
		r.Rd = field4(w2, 8)
		r.Rm = field4(w2, 0)
	case Thumb2RnReg:
		r.Rn = field4(w, 0)
	case Thumb2RnRtReg:
		r.Rn = field4(w, 0)
		r.Rt = field4(w2, 12)
	case Thumb2RnRtRt2Reg:
		r.Rn = field4(w, 0)
		r.Rt = field4(w2, 12)
		r.Rt2 = field4(w2, 8)
	case Thumb2RnRmReg:
		r.Rn = field4(w, 0)
		r.Rm = field4(w2, 0)
	case Thumb2RnRmRtReg:
		r.Rn = field4(w, 0)
		r.Rm = field4(w2, 0)
		r.Rt = field4(w2, 12)
	case Thumb2RnRdReg:
		r.Rn = field4(w, 0)
		r.Rd = field4(w2, 8)
	case Thumb2RnRdRtReg:
		r.Rn = field4(w, 0)
		r.Rd = field4(w2, 0)
		r.Rt = field4(w2, 12)
	case Thumb2RnRdRtRt2Reg:
		r.Rn = field4(w, 0)
		r.Rd = field4(w2, 0)
		r.Rt = field4(w2, 12)
		r.Rt2 = field4(w2, 8)
	case Thumb2RnRdRmReg:
		r.Rn = field4(w, 0)
		r.Rd = field4(w2, 8)
		r.Rm = field4(w2, 0)
	case Thumb2RnRdRmRaReg:
		r.Rn = field4(w, 0)
		r.Rd = field4(w2, 8)
		r.Rm = field4(w2, 0)
		r.Ra = field4(w2, 12)
	}
	return r
}

// imm12 gathers the i:imm3:imm8 immediate split over both halfwords.
func imm12(w, w2 uint16) uint32 {
	return uint32(w&0x400)<<1 | uint32(w2&0x7000)>>4 | uint32(w2&0xff)
}

func thumb2Imm(r Record, w, w2 uint16) Record {
	r.I = Set
	switch r.ImmType {
	case NoImm:
		r.I = Unset
	case Imm12:
		r.Imm = uint32(w2 & 0xfff)
	case Imm8:
		r.Imm = uint32(w2 & 0xff)
	case Imm2:
		r.Imm = uint32(w2>>4) & 3
		r.Shift = r.Imm
		r.ShiftType = ShiftLSL
	case Imm2Imm3:
		r.Imm = uint32(w2>>10)&0x1c | uint32(w2>>6)&3
	case Imm1Imm3Imm8:
		r.Imm = imm12(w, w2)
		// Only the modified immediates are expanded, the plain ones are
		// zero extended.
		if w&0x200 == 0 {
			r.Imm = ThumbExpandImm(r.Imm)
		}
	}
	return r
}

func thumb2Flags(r Record, w, w2 uint16) Record {
	switch r.FlagType {
	case RotateFlag:
		r.Rotate = uint32(w2>>1) & 0x18
	case UFlag:
		r.U = flagOf(uint32(w) >> 7)
	case WUPFlag:
		r.W = flagOf(uint32(w2) >> 8)
		r.U = flagOf(uint32(w2) >> 9)
		r.P = flagOf(uint32(w2) >> 10)
	case TypeFlag:
		r.ShiftType, r.Shift = ShiftType((w2>>4)&3), r.Imm
	case ReglistFlag:
		r.Reglist = w2
	case WPReglistFlag:
		r.Reglist = w2
		r.W = flagOf(uint32(w) >> 5)
	case SFlag:
		r.S = flagOf(uint32(w) >> 4)
	case STypeFlag:
		r.S = flagOf(uint32(w) >> 4)
		r.ShiftType, r.Shift = ShiftType((w2>>4)&3), r.Imm
	}
	return r
}

// branchT3 reassembles the conditional branch offset S:J2:J1:imm6:imm11:'0'.
func branchT3(w, w2 uint16) uint32 {
	x := uint32(w&0x400)<<10 |
		uint32(w2&0x800)<<8 |
		uint32(w2&0x2000)<<5 |
		uint32(w&0x3f)<<12 |
		uint32(w2&0x7ff)<<1
	return uint32(SignExtend(x, 21))
}

// branchT4 reassembles S:I1:I2:imm10:imm11:'0' where In is NOT(Jn XOR S).
// The BLX form drops the low bit of imm11.
func branchT4(w, w2 uint16, lowMask uint16) uint32 {
	s := uint32(w>>10) & 1
	i1 := ^(uint32(w2>>13) ^ s) & 1
	i2 := ^(uint32(w2>>11) ^ s) & 1
	x := s<<24 | i1<<23 | i2<<22 |
		uint32(w&0x3ff)<<12 |
		uint32(w2&lowMask)<<1
	return uint32(SignExtend(x, 25))
}

func thumb2Fixup(r Record, w, w2 uint16) Record {
	wd, wd2 := uint32(w), uint32(w2)

	switch r.Instr {
	case B:
		r.I = Set
		r.S = flagOf(wd >> 10)
		if w2&0x1000 == 0 {
			r.Imm = branchT3(w, w2)
			r.Cond = Cond((w >> 6) & 0xf)
		} else {
			r.Imm = branchT4(w, w2, 0x7ff)
		}

	case BL:
		r.I = Set
		r.S = flagOf(wd >> 10)
		r.Imm = branchT4(w, w2, 0x7ff)

	case BLX:
		r.I = Set
		r.S = flagOf(wd >> 10)
		r.Imm = branchT4(w, w2, 0x7fe)
		r.H = flagOf(wd2)

	case BFC, BFI:
		r.Lsb = r.Imm & 0x1f
		r.Msb = wd2 & 0x1f
		r.Width = r.Msb + 1 - r.Lsb

	case SBFX, UBFX:
		r.Lsb = r.Imm
		r.Width = wd2&0x1f + 1

	case LSL, LSR, ASR, ROR:
		if r.I == Set {
			r.Shift = r.Imm
			r.ShiftType = ShiftType((w2 >> 4) & 3)
		}

	case MOVW, MOVT:
		r.Imm = (wd&0xf)<<12 | imm12(w, w2)

	case ADR:
		// SUBW with pc is the subtracting form.
		r.U = Set
		if (w>>4)&0x1f == 10 {
			r.U = Unset
		}

	case DBG, DMB, DSB, ISB:
		r.Option = int8(w2 & 0xf)

	case SMC:
		r.I = Set
		r.Imm = wd & 0xf

	case UDF:
		r.I = Set
		r.Imm = (wd&0xf)<<12 | wd2&0xfff

	case LDC, LDC2, STC, STC2:
		r.P = flagOf(wd >> 8)
		r.U = flagOf(wd >> 7)
		r.D = flagOf(wd >> 6)
		r.W = flagOf(wd >> 5)
		r.Rn = field4(w, 0)
		r.I = Set
		r.Imm = (wd2 & 0xff) << 2
		r.Coproc = (wd2 >> 8) & 0xf
		r.CRd = field4(w2, 12)

	case MCR, MCR2, MRC, MRC2:
		r.CRm = field4(w2, 0)
		r.CRn = field4(w, 0)
		r.Coproc = (wd2 >> 8) & 0xf
		r.Rt = field4(w2, 12)
		r.Opc1 = (wd >> 5) & 7
		r.Opc2 = (wd2 >> 5) & 7

	case MCRR, MCRR2, MRRC, MRRC2:
		r.Coproc = (wd2 >> 8) & 0xf
		r.Rt = field4(w2, 12)
		r.Rt2 = field4(w, 0)
		r.Opc1 = (wd2 >> 4) & 0xf
		r.CRm = field4(w2, 0)

	case STREX:
		r.Rd = field4(w2, 8)
		r.Imm <<= 2

	case LDREX:
		r.Imm <<= 2

	case LDRD, STRD:
		r.Imm <<= 2
		r.W = flagOf(wd >> 5)
		r.U = flagOf(wd >> 7)
		r.P = flagOf(wd >> 8)

	case POP, PUSH:
		// The single register forms carry Rt instead of a list.
		if r.Type == Thumb2RtReg {
			break
		}
		if r.Instr == POP {
			r.P = flagOf(wd2 >> 15)
		}
		r.M = flagOf(wd2 >> 14)

	case STM, STMDB:
		r.W = flagOf(wd >> 5)
		r.M = flagOf(wd2 >> 14)

	case MSR:
		r.I = Set
		r.R = flagOf(wd >> 4)
		r.Rn = field4(w, 0)
		r.Imm = (wd2 >> 10) & 3

	case MRS:
		r.R = flagOf(wd >> 4)

	case SRS:
		r.Rn = SP
		r.W = flagOf(wd >> 5)
		r.I = Set
		r.Imm = wd2 & 0x1f

	case RFE:
		r.Rn = field4(w, 0)
		r.W = flagOf(wd >> 5)

	case PKH:
		r.T = flagOf(wd2 >> 5)
		r.S = FlagInvalid
		r.ShiftType, r.Shift = ShiftType((w2>>4)&2), r.Imm

	case PLI, PLD:
		r.Rt = RegInvalid
		if r.Instr == PLD && r.Rn != RegInvalid && w&0x20 != 0 {
			r.Instr = PLDW
		}
		if r.U == FlagInvalid {
			r.U = Set
			if r.ImmType == Imm8 {
				r.U = Unset
			}
		}

	case SMLABB, SMLABT, SMLATB, SMLATT, SMULBB, SMULBT, SMULTB, SMULTT:
		r.N = flagOf(wd2 >> 5)
		r.M = flagOf(wd2 >> 4)
		if r.Ra == PC {
			r.Ra = RegInvalid
		}

	case SMLAD, SMLAW, SMLSD, SMUAD, SMULW, SMUSD:
		r.M = flagOf(wd2 >> 4)
		if r.Ra == PC {
			r.Ra = RegInvalid
		}

	case SMLALBB, SMLALBT, SMLALTB, SMLALTT:
		r.N = flagOf(wd2 >> 5)
		r.M = flagOf(wd2 >> 4)
		r = longMultiply(r, w2)

	case SMLSLD, SMLALD:
		r.M = flagOf(wd2 >> 4)
		r = longMultiply(r, w2)

	case SMLAL, SMULL, UMAAL, UMLAL, UMULL:
		r = longMultiply(r, w2)

	case SMMLA, SMMLS, SMMUL:
		r.R = flagOf(wd2 >> 4)

	case SSAT, USAT:
		r.ShiftType, r.Shift = ShiftType((w>>4)&2), r.Imm
		r.SatImm = wd2 & 0x1f
		if r.Instr == SSAT {
			r.SatImm++
		}

	case SSAT16, USAT16:
		r.SatImm = wd2 & 0xf
		if r.Instr == SSAT16 {
			r.SatImm++
		}

	case TBB, TBH:
		r.H = flagOf(wd2 >> 4)
		if r.Instr == TBH {
			r.ShiftType, r.Shift = ShiftLSL, 1
		}
	}

	// Literal loads address relative to the pc.
	if r.Rn == RegInvalid && w&0xf == 0xf && r.FlagType == UFlag {
		r.Rn = PC
	}
	if r.Instr == LDRD && r.Type == Thumb2RtRt2Reg {
		r.Rn = PC
	}

	switch r.Instr {
	case LDR, LDRB, LDRH, LDRSB, LDRSH, LDRT, LDRBT, LDRHT, LDRSBT, LDRSHT,
		STR, STRB, STRH, STRT, STRBT, STRHT:
		// Forms without P/U/W bits address [Rn, offset].
		if r.P == FlagInvalid && r.Rn != RegInvalid {
			r.P, r.W = Set, Unset
			if r.U == FlagInvalid {
				r.U = Set
			}
		}
	}

	if r.ShiftType == ShiftLSL && r.Shift == 0 {
		r.ShiftType = ShiftInvalid
	}
	return r
}

func longMultiply(r Record, w2 uint16) Record {
	r.RdHi = field4(w2, 8)
	r.RdLo = field4(w2, 12)
	return r
}
