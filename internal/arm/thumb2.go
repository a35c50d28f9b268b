package arm

// shape selects the extraction recipes applied to a classified Thumb2
// instruction.
type shape struct {
	regs  EncType
	imm   ImmShape
	flags FlagShape
}

func shapeOf(regs EncType, imm ImmShape, flags FlagShape) shape {
	return shape{regs: regs, imm: imm, flags: flags}
}

var noShape = shape{regs: Thumb2NoReg, imm: NoImm, flags: NoFlag}

// classifyThumb2 picks the mnemonic and operand shapes of a Thumb2
// instruction. It returns InstrInvalid for undefined encodings.
func classifyThumb2(w, w2 uint16) (Instr, shape, error) {
	op2 := (w >> 4) & 0x7f

	switch (w >> 11) & 3 {
	case 1:
		switch {
		case op2&0x64 == 0:
			i, s := thumb2LoadStoreMultiple(w, w2)
			return i, s, nil
		case op2&0x64 == 4:
			i, s := thumb2LoadStoreDual(w, w2)
			return i, s, nil
		case (op2>>5)&3 == 1:
			i, s := thumb2DataShiftedReg(w, w2)
			return i, s, nil
		case (op2>>6)&1 == 1:
			return thumb2Coproc(w, w2)
		}

	case 2:
		if w2&0x8000 != 0 {
			i, s := thumb2BranchMisc(w, w2)
			return i, s, nil
		}
		if op2&0x20 == 0 {
			i, s := thumb2ModifiedImm(w, w2)
			return i, s, nil
		}
		i, s := thumb2PlainImm(w, w2)
		return i, s, nil

	case 3:
		switch {
		case op2&0x40 != 0:
			return thumb2Coproc(w, w2)
		case op2&0x71 == 0:
			i, s := thumb2StoreSingle(w, w2)
			return i, s, nil
		case op2&0x71 == 0x10:
			// Advanced SIMD element and structure load/store.
			return InstrInvalid, noShape, ErrUnsupported
		case op2&0x70 == 0x20:
			i, s := thumb2DataReg(w, w2)
			return i, s, nil
		case op2&0x78 == 0x30:
			i, s := thumb2MultAccDiff(w, w2)
			return i, s, nil
		case op2&0x78 == 0x38:
			i, s := thumb2LongMult(w, w2)
			return i, s, nil
		}
		switch op2 & 0x67 {
		case 1:
			i, s := thumb2LoadByte(w, w2)
			return i, s, nil
		case 3:
			i, s := thumb2LoadHalfword(w, w2)
			return i, s, nil
		case 5:
			i, s := thumb2LoadWord(w, w2)
			return i, s, nil
		}
	}
	return InstrInvalid, noShape, nil
}

func thumb2LoadStoreMultiple(w, _ uint16) (Instr, shape) {
	load := (w>>4)&1 == 1
	// W:Rn == 1:1101 is a write-back to sp.
	wrn := (w>>1)&0x10 | w&0xf
	s := shapeOf(Thumb2RnReg, NoImm, ReglistFlag)

	switch (w >> 7) & 3 {
	case 0, 3:
		if load {
			return RFE, noShape
		}
		return SRS, noShape
	case 1:
		if !load {
			return STM, s
		}
		if wrn == 0x1d {
			s.regs = Thumb2NoReg
			return POP, s
		}
		s.flags = WPReglistFlag
		return LDM, s
	case 2:
		if !load {
			if wrn == 0x1d {
				s.regs = Thumb2NoReg
				return PUSH, s
			}
			return STMDB, s
		}
		s.flags = WPReglistFlag
		return LDMDB, s
	}
	return InstrInvalid, s
}

func thumb2LoadStoreDual(w, w2 uint16) (Instr, shape) {
	op1 := (w >> 7) & 3
	op2 := (w >> 4) & 3
	op3 := (w2 >> 4) & 0xf
	s := shapeOf(Thumb2RnRtReg, Imm8, NoFlag)

	switch {
	case op1 == 0 && op2 == 0:
		s.regs = Thumb2RnRdRtReg
		return STREX, s
	case op1 == 0 && op2 == 1:
		return LDREX, s
	case op1&2 == 0 && op2 == 2, op1&2 == 2 && op2&1 == 0:
		s.regs = Thumb2RnRtRt2Reg
		s.flags = WUPFlag
		return STRD, s
	case op1&2 == 0 && op2 == 3, op1&2 == 2 && op2&1 == 1:
		s.flags = WUPFlag
		s.regs = Thumb2RnRtRt2Reg
		if w&0xf == 0xf {
			s.regs = Thumb2RtRt2Reg
		}
		return LDRD, s
	case op1 == 1 && op2 == 0:
		s.imm = NoImm
		s.regs = Thumb2RnRdRtReg
		switch op3 {
		case 4:
			return STREXB, s
		case 5:
			return STREXH, s
		case 7:
			s.regs = Thumb2RnRdRtRt2Reg
			return STREXD, s
		}
	case op1 == 1 && op2 == 1:
		s.imm = NoImm
		switch op3 {
		case 0:
			s.regs = Thumb2RnRmReg
			return TBB, s
		case 1:
			s.regs = Thumb2RnRmReg
			return TBH, s
		case 4:
			return LDREXB, s
		case 5:
			return LDREXH, s
		case 7:
			s.regs = Thumb2RnRtRt2Reg
			return LDREXD, s
		}
	}
	return InstrInvalid, s
}

// thumb2MoveShift handles the MOV (register) form of ORR, which carries the
// immediate shifts.
func thumb2MoveShift(_, w2 uint16) (Instr, shape) {
	imm5 := (w2>>10)&0x1c | (w2>>6)&3
	s := shapeOf(Thumb2RdRmReg, Imm2Imm3, SFlag)

	switch (w2 >> 4) & 3 {
	case 0:
		if imm5 == 0 {
			s.imm = NoImm
			return MOV, s
		}
		return LSL, s
	case 1:
		return LSR, s
	case 2:
		return ASR, s
	default:
		if imm5 == 0 {
			s.imm = NoImm
			return RRX, s
		}
		return ROR, s
	}
}

// rdsAllOnes reports whether Rd is 15 and S is set, which turns the logical
// and arithmetic operations into their compare forms.
func rdsAllOnes(w, w2 uint16) bool {
	return (w2>>7)&0x1e|(w>>4)&1 == 0x1f
}

func thumb2DataShiftedReg(w, w2 uint16) (Instr, shape) {
	rn := w & 0xf
	s := shapeOf(Thumb2RnRdRmReg, Imm2Imm3, STypeFlag)
	cmp := shapeOf(Thumb2RnRmReg, Imm2Imm3, TypeFlag)

	switch (w >> 5) & 0xf {
	case 0:
		if rdsAllOnes(w, w2) {
			return TST, cmp
		}
		return AND, s
	case 1:
		return BIC, s
	case 2:
		if rn == 0xf {
			return thumb2MoveShift(w, w2)
		}
		return ORR, s
	case 3:
		if rn == 0xf {
			s.regs = Thumb2RdRmReg
			return MVN, s
		}
		return ORN, s
	case 4:
		if rdsAllOnes(w, w2) {
			return TEQ, cmp
		}
		return EOR, s
	case 6:
		s.flags = SFlag
		return PKH, s
	case 8:
		if rdsAllOnes(w, w2) {
			return CMN, cmp
		}
		return ADD, s
	case 10:
		return ADC, s
	case 11:
		return SBC, s
	case 13:
		if rdsAllOnes(w, w2) {
			return CMP, cmp
		}
		return SUB, s
	case 14:
		return RSB, s
	}
	return InstrInvalid, s
}

func thumb2ModifiedImm(w, w2 uint16) (Instr, shape) {
	rn := w & 0xf
	s := shapeOf(Thumb2RnRdReg, Imm1Imm3Imm8, SFlag)
	cmp := shapeOf(Thumb2RnReg, Imm1Imm3Imm8, NoFlag)

	switch (w >> 5) & 0xf {
	case 0:
		if rdsAllOnes(w, w2) {
			return TST, cmp
		}
		return AND, s
	case 1:
		return BIC, s
	case 2:
		if rn == 0xf {
			s.regs = Thumb2RdReg
			return MOV, s
		}
		return ORR, s
	case 3:
		if rn == 0xf {
			s.regs = Thumb2RdReg
			return MVN, s
		}
		return ORN, s
	case 4:
		if rdsAllOnes(w, w2) {
			return TEQ, cmp
		}
		return EOR, s
	case 8:
		if rdsAllOnes(w, w2) {
			return CMN, cmp
		}
		return ADD, s
	case 10:
		return ADC, s
	case 11:
		return SBC, s
	case 13:
		if rdsAllOnes(w, w2) {
			return CMP, cmp
		}
		return SUB, s
	case 14:
		return RSB, s
	}
	return InstrInvalid, s
}

func thumb2PlainImm(w, w2 uint16) (Instr, shape) {
	rn := w & 0xf
	s := shapeOf(Thumb2RnRdReg, Imm1Imm3Imm8, NoFlag)
	// A zero shift selects the halfword saturates.
	sat16 := w2&0x70c0 == 0

	switch (w >> 4) & 0x1f {
	case 0:
		if rn == 0xf {
			return ADR, s
		}
		return ADDW, s
	case 4:
		s.regs = Thumb2RdReg
		return MOVW, s
	case 10:
		if rn == 0xf {
			return ADR, s
		}
		return SUBW, s
	case 12:
		s.regs = Thumb2RdReg
		return MOVT, s
	case 16:
		s.imm = Imm2Imm3
		return SSAT, s
	case 18:
		if sat16 {
			s.imm = NoImm
			return SSAT16, s
		}
		s.imm = Imm2Imm3
		return SSAT, s
	case 20:
		s.imm = Imm2Imm3
		return SBFX, s
	case 22:
		s.imm = Imm2Imm3
		if rn == 0xf {
			s.regs = Thumb2RdReg
			return BFC, s
		}
		return BFI, s
	case 24:
		s.imm = Imm2Imm3
		return USAT, s
	case 26:
		if sat16 {
			s.imm = NoImm
			return USAT16, s
		}
		s.imm = Imm2Imm3
		return USAT, s
	case 28:
		s.imm = Imm2Imm3
		return UBFX, s
	}
	return InstrInvalid, s
}

func thumb2Hint(w2 uint16) Instr {
	if (w2>>8)&7 != 0 {
		return CPS
	}
	switch op := w2 & 0xff; {
	case op < 5:
		return [...]Instr{NOP, YIELD, WFE, WFI, SEV}[op]
	case op>>4 == 0xf:
		return DBG
	}
	return InstrInvalid
}

func thumb2MiscControl(w2 uint16) Instr {
	switch (w2 >> 4) & 7 {
	case 0, 1:
		return NOP
	case 2:
		return CLREX
	case 4:
		return DSB
	case 5:
		return DMB
	case 6:
		return ISB
	}
	return InstrInvalid
}

func thumb2BranchMisc(w, w2 uint16) (Instr, shape) {
	op := (w >> 4) & 0x7f
	op1 := (w2 >> 12) & 7
	imm8 := w2 & 0xff
	branch := shapeOf(Thumb2NoReg, NoImm, SFlag)

	switch {
	case op1 == 0 && op == 0x7f:
		return SMC, noShape
	case op1&5 == 1:
		return B, branch
	case op1 == 2 && op == 0x7f:
		return UDF, noShape
	case op1&5 == 0:
		switch {
		case op&0x38 != 0x38:
			return B, branch
		case op&0x7e == 0x38 && imm8&0x10 != 0:
			// banked register
			return MSR, noShape
		case op == 0x38:
			return MSR, shapeOf(Thumb2RnReg, NoImm, NoFlag)
		case op == 0x3a:
			return thumb2Hint(w2), noShape
		case op == 0x3b:
			return thumb2MiscControl(w2), noShape
		case op == 0x3c:
			return BXJ, shapeOf(Thumb2RmReg, NoImm, NoFlag)
		case op == 0x3e && imm8&0x10 == 0:
			return MRS, shapeOf(Thumb2RdReg, NoImm, NoFlag)
		}
	case op1&5 == 4:
		return BLX, branch
	case op1&5 == 5:
		return BL, branch
	}
	return InstrInvalid, noShape
}

func thumb2StoreSingle(w, w2 uint16) (Instr, shape) {
	op2 := (w2 >> 6) & 0x3f
	s := shapeOf(Thumb2RnRtReg, Imm8, NoFlag)
	reg := shapeOf(Thumb2RnRmRtReg, Imm2, NoFlag)
	indexed := op2&0x3c == 0x30 || op2&0x24 == 0x24

	var base, unpriv Instr
	switch (w >> 5) & 7 {
	case 0:
		base, unpriv = STRB, STRBT
	case 1:
		base, unpriv = STRH, STRHT
	case 2:
		base, unpriv = STR, STRT
	case 4:
		s.imm = Imm12
		return STRB, s
	case 5:
		s.imm = Imm12
		return STRH, s
	case 6:
		s.imm = Imm12
		return STR, s
	default:
		return InstrInvalid, s
	}

	switch {
	case op2 == 0:
		return base, reg
	case op2&0x3c == 0x38:
		return unpriv, s
	case indexed:
		// STR Rt, [sp, #-4]! is the single register PUSH.
		if base == STR && w&0xf == 0xd && w2&0xfff == 0xd04 {
			return PUSH, shapeOf(Thumb2RtReg, NoImm, NoFlag)
		}
		s.flags = WUPFlag
		return base, s
	}
	return InstrInvalid, s
}

func thumb2LoadByte(w, w2 uint16) (Instr, shape) {
	op1 := (w >> 7) & 3
	op2 := (w2 >> 6) & 0x3f
	rn := w & 0xf
	rt := (w2 >> 12) & 0xf
	s := shapeOf(Thumb2RnRtReg, Imm12, NoFlag)

	// PLD and PLI share the byte loads' space; signed selects LDRSB/PLI.
	load, hint, unpriv := LDRB, PLD, LDRBT
	if op1&2 != 0 {
		load, hint, unpriv = LDRSB, PLI, LDRSBT
	}

	if rn == 0xf {
		if rt == 0xf {
			return hint, shapeOf(Thumb2NoReg, Imm12, UFlag)
		}
		s.regs = Thumb2RtReg
		s.flags = UFlag
		return load, s
	}

	switch op1 {
	case 0, 2:
		switch {
		case op2 == 0:
			if rt == 0xf {
				return hint, shapeOf(Thumb2RnRmReg, Imm2, NoFlag)
			}
			return load, shapeOf(Thumb2RnRmRtReg, Imm2, NoFlag)
		case op2&0x24 == 0x24:
			return load, shapeOf(Thumb2RnRtReg, Imm8, WUPFlag)
		case op2&0x3c == 0x30:
			if rt == 0xf {
				return hint, shapeOf(Thumb2RnReg, Imm8, NoFlag)
			}
			return load, shapeOf(Thumb2RnRtReg, Imm8, WUPFlag)
		case op2&0x3c == 0x38:
			return unpriv, shapeOf(Thumb2RnRtReg, Imm8, NoFlag)
		}
	case 1, 3:
		if rt == 0xf {
			return hint, shapeOf(Thumb2RnReg, Imm12, NoFlag)
		}
		return load, s
	}
	return InstrInvalid, s
}

func thumb2LoadHalfword(w, w2 uint16) (Instr, shape) {
	op1 := (w >> 7) & 3
	op2 := (w2 >> 6) & 0x3f
	rn := w & 0xf
	rt := (w2 >> 12) & 0xf
	s := shapeOf(Thumb2RnRtReg, Imm12, NoFlag)
	signed := op1&2 != 0

	load, unpriv := LDRH, LDRHT
	if signed {
		load, unpriv = LDRSH, LDRSHT
	}

	if rn == 0xf {
		if rt == 0xf {
			if signed {
				return NOP, noShape
			}
			return PLD, shapeOf(Thumb2NoReg, Imm12, UFlag)
		}
		s.regs = Thumb2RtReg
		s.flags = UFlag
		return load, s
	}

	switch op1 {
	case 0, 2:
		switch {
		case op2 == 0:
			if rt == 0xf {
				if signed {
					return NOP, noShape
				}
				return PLD, shapeOf(Thumb2RnRmReg, Imm2, NoFlag)
			}
			return load, shapeOf(Thumb2RnRmRtReg, Imm2, NoFlag)
		case op2&0x24 == 0x24:
			return load, shapeOf(Thumb2RnRtReg, Imm8, WUPFlag)
		case op2&0x3c == 0x30:
			if rt == 0xf {
				if signed {
					return NOP, noShape
				}
				return PLD, shapeOf(Thumb2RnReg, Imm8, NoFlag)
			}
			return load, shapeOf(Thumb2RnRtReg, Imm8, WUPFlag)
		case op2&0x3c == 0x38:
			return unpriv, shapeOf(Thumb2RnRtReg, Imm8, NoFlag)
		}
	case 1, 3:
		if rt == 0xf {
			if signed {
				return NOP, noShape
			}
			return PLD, shapeOf(Thumb2RnReg, Imm12, NoFlag)
		}
		return load, s
	}
	return InstrInvalid, s
}

func thumb2LoadWord(w, w2 uint16) (Instr, shape) {
	op1 := (w >> 7) & 3
	op2 := (w2 >> 6) & 0x3f
	rn := w & 0xf
	s := shapeOf(Thumb2RnRtReg, Imm8, NoFlag)

	switch {
	case op1&2 == 0 && rn == 0xf:
		return LDR, shapeOf(Thumb2RtReg, Imm12, UFlag)
	case op1 == 1:
		s.imm = Imm12
		return LDR, s
	case op1 == 0:
		switch {
		case op2 == 0:
			return LDR, shapeOf(Thumb2RnRmRtReg, Imm2, NoFlag)
		case op2&0x3c == 0x30 || op2&0x24 == 0x24:
			// LDR Rt, [sp], #4 is the single register POP.
			if rn == 0xd && w2&0xfff == 0xb04 {
				return POP, shapeOf(Thumb2RtReg, NoImm, NoFlag)
			}
			s.flags = WUPFlag
			return LDR, s
		case op2&0x3c == 0x38:
			return LDRT, s
		}
	}
	return InstrInvalid, s
}

func thumb2Parallel(w, w2 uint16) (Instr, shape) {
	s := shapeOf(Thumb2RnRdRmReg, NoImm, NoFlag)
	op1 := (w >> 4) & 7
	op2 := (w2 >> 4) & 3
	if op2 == 3 {
		return InstrInvalid, s
	}
	// rows are S, Q, SH then U, UQ, UH.
	if (w2>>6)&1 == 1 {
		op2 += 3
	}
	return parallelInstrs[op2][op1], s
}

var parallelInstrs = [6][8]Instr{
	{SADD8, SADD16, SASX, inv, SSUB8, SSUB16, SSAX, inv},
	{QADD8, QADD16, QASX, inv, QSUB8, QSUB16, QSAX, inv},
	{SHADD8, SHADD16, SHASX, inv, SHSUB8, SHSUB16, SHSAX, inv},
	{UADD8, UADD16, UASX, inv, USUB8, USUB16, USAX, inv},
	{UQADD8, UQADD16, UQASX, inv, UQSUB8, UQSUB16, UQSAX, inv},
	{UHADD8, UHADD16, UHASX, inv, UHSUB8, UHSUB16, UHSAX, inv},
}

var thumb2MiscOps = [4][4]Instr{
	{QADD, QDADD, QSUB, QDSUB},
	{REV, REV16, RBIT, REVSH},
	{SEL, inv, inv, inv},
	{CLZ, inv, inv, inv},
}

func thumb2MiscOp(w, w2 uint16) (Instr, shape) {
	s := shapeOf(Thumb2RnRdRmReg, NoImm, NoFlag)
	if w2>>12 != 0xf {
		return InstrInvalid, s
	}
	op1 := (w >> 4) & 3
	i := thumb2MiscOps[op1][(w2>>4)&3]
	if op1 == 1 || op1 == 3 {
		s.regs = Thumb2RdRmReg
	}
	return i, s
}

// thumb2Extends is indexed by op1; the odd rows are unsigned.
var thumb2Extends = [6][2]Instr{
	{SXTAH, SXTH},
	{UXTAH, UXTH},
	{SXTAB16, SXTB16},
	{UXTAB16, UXTB16},
	{SXTAB, SXTB},
	{UXTAB, UXTB},
}

func thumb2DataReg(w, w2 uint16) (Instr, shape) {
	op1 := (w >> 4) & 0xf
	op2 := (w2 >> 4) & 0xf
	s := shapeOf(Thumb2RnRdRmReg, NoImm, RotateFlag)

	switch {
	case op2 == 0 && op1&8 == 0:
		s.flags = SFlag
		return [...]Instr{LSL, LSR, ASR, ROR}[(op1>>1)&3], s
	case op1 < 8 && op2&8 == 8:
		if op1 >= 6 {
			return InstrInvalid, s
		}
		if w&0xf == 0xf {
			s.regs = Thumb2RdRmReg
			return thumb2Extends[op1][1], s
		}
		return thumb2Extends[op1][0], s
	case op1&8 == 8 && op2&8 == 0:
		return thumb2Parallel(w, w2)
	case op1&0xc == 8 && op2&0xc == 8:
		return thumb2MiscOp(w, w2)
	}
	return InstrInvalid, s
}

// halves picks one of four mnemonics from the N and M halfword selectors.
func halves(w2 uint16, bb, bt, tb, tt Instr) Instr {
	switch (w2 >> 4) & 3 {
	case 0:
		return bb
	case 1:
		return bt
	case 2:
		return tb
	}
	return tt
}

func thumb2MultAccDiff(w, w2 uint16) (Instr, shape) {
	op1 := (w >> 4) & 7
	op2 := (w2 >> 4) & 3
	noRa := (w2>>12)&0xf == 0xf
	s := shapeOf(Thumb2RnRdRmRaReg, NoImm, NoFlag)
	three := shapeOf(Thumb2RnRdRmReg, NoImm, NoFlag)

	if (w2>>6)&3 != 0 {
		return InstrInvalid, s
	}
	if op1 == 1 {
		if noRa {
			return halves(w2, SMULBB, SMULBT, SMULTB, SMULTT), s
		}
		return halves(w2, SMLABB, SMLABT, SMLATB, SMLATT), s
	}
	if op2&2 != 0 {
		return InstrInvalid, s
	}

	switch op1 {
	case 0:
		switch {
		case op2 == 0 && noRa:
			return MUL, three
		case op2 == 0:
			return MLA, s
		}
		return MLS, s
	case 2:
		if noRa {
			return SMUAD, three
		}
		return SMLAD, s
	case 3:
		if noRa {
			return SMULW, three
		}
		return SMLAW, s
	case 4:
		if noRa {
			return SMUSD, three
		}
		return SMLSD, s
	case 5:
		if noRa {
			return SMMUL, three
		}
		return SMMLA, s
	case 6:
		return SMMLS, s
	case 7:
		if op2 != 0 {
			break
		}
		if noRa {
			return USAD8, three
		}
		return USADA8, s
	}
	return InstrInvalid, s
}

func thumb2LongMult(w, w2 uint16) (Instr, shape) {
	op2 := (w2 >> 4) & 0xf
	s := shapeOf(Thumb2RnRmReg, NoImm, NoFlag)
	div := shapeOf(Thumb2RnRdRmReg, NoImm, NoFlag)

	switch (w >> 4) & 7 {
	case 0:
		if op2 == 0 {
			return SMULL, s
		}
	case 1:
		if op2 == 0xf {
			return SDIV, div
		}
	case 2:
		if op2 == 0 {
			return UMULL, s
		}
	case 3:
		if op2 == 0xf {
			return UDIV, div
		}
	case 4:
		switch {
		case op2 == 0:
			return SMLAL, s
		case op2&0xc == 8:
			return halves(w2, SMLALBB, SMLALBT, SMLALTB, SMLALTT), s
		case op2&0xe == 0xc:
			return SMLALD, s
		}
	case 5:
		if op2&0xe == 0xc {
			return SMLSLD, s
		}
	case 6:
		switch op2 {
		case 0:
			return UMLAL, s
		case 6:
			return UMAAL, s
		}
	}
	return InstrInvalid, s
}

// thumb2Coproc decodes the coprocessor register transfers and loads and
// stores. VFP, Advanced SIMD and CDP are reported as unsupported.
func thumb2Coproc(w, w2 uint16) (Instr, shape, error) {
	op1 := (w >> 4) & 0x3f
	coproc := (w2 >> 8) & 0xf
	two := (w>>12)&1 == 1

	pick := func(one, other Instr) Instr {
		if two {
			return other
		}
		return one
	}

	switch {
	case op1&0x3e == 0:
		return InstrInvalid, noShape, nil
	case op1&0x30 == 0x30:
		return InstrInvalid, noShape, ErrUnsupported
	case coproc&0xe == 0xa:
		return InstrInvalid, noShape, ErrUnsupported
	case op1 == 4:
		return pick(MCRR, MCRR2), noShape, nil
	case op1 == 5:
		return pick(MRRC, MRRC2), noShape, nil
	case op1&0x20 == 0:
		if op1&1 == 1 {
			return pick(LDC, LDC2), noShape, nil
		}
		return pick(STC, STC2), noShape, nil
	case (w2>>4)&1 == 0:
		return InstrInvalid, noShape, ErrUnsupported
	case op1&1 == 1:
		return pick(MRC, MRC2), noShape, nil
	}
	return pick(MCR, MCR2), noShape, nil
}
