package arm

// reg extracts the 4-bit register field starting at bit shift.
func reg(w uint32, shift uint) Reg {
	return Reg((w >> shift) & 0xf)
}

// branchImm24 sign-extends a 24-bit branch field and scales it to bytes.
func branchImm24(w uint32) uint32 {
	return uint32(SignExtend(w&0xffffff, 24)) << 2
}

func decodeARM(d *Record, w uint32) error {
	d.Cond = Cond(w >> 28)

	var err error
	if d.Cond == CondUncond {
		err = decodeARMUncond(d, w)
	} else {
		err = decodeARMCond(d, w)
	}
	if err != nil {
		return err
	}

	// LSL #0 is no shift at all.
	if d.ShiftType == ShiftLSL && d.Rs == RegInvalid && d.Shift == 0 {
		d.ShiftType = ShiftInvalid
	}
	return nil
}

func decodeARMUncond(d *Record, w uint32) error {
	d.Type = ARMUncond

	op := (w >> 25) & 7
	switch op {
	case 0:
		d.Instr = SETEND
		d.E = flagOf(w >> 9)
		return nil

	case 2, 3:
		if op == 2 && bit(w, 21) == 1 {
			if i := armBarrierInstrs[(w>>4)&7]; i != InstrInvalid {
				d.Instr = i
				if i != CLREX {
					d.Option = int8(w & 0xf)
				}
				return nil
			}
		}

		d.Instr = PLI
		if bit(w, 24) == 1 {
			d.Instr = PLD
		}
		d.Rn = reg(w, 16)
		d.U = flagOf(w >> 23)
		if bit(w, 25) == 1 {
			d.Rm = reg(w, 0)
			d.ShiftType = ShiftType((w >> 5) & 3)
			d.Shift = (w >> 7) & 0x1f
		} else {
			d.I = Set
			d.Imm = w & 0xfff
		}
		if d.Instr == PLD && bit(w, 22) == 0 {
			d.Instr = PLDW
		}
		return nil

	case 5:
		d.Instr = BLX
		d.H = flagOf(w >> 24)
		d.I = Set
		d.Imm = branchImm24(w) | bit(w, 24)<<1
		return nil

	case 7:
		d.CRn = reg(w, 16)
		d.Coproc = (w >> 8) & 0xf
		d.Opc2 = (w >> 5) & 7
		d.CRm = reg(w, 0)
		if bit(w, 4) == 0 {
			d.Instr = CDP2
			d.CRd = reg(w, 12)
			d.Opc1 = (w >> 20) & 0xf
		} else {
			d.Instr = MCR2
			if bit(w, 20) == 1 {
				d.Instr = MRC2
			}
			d.Opc1 = (w >> 21) & 7
			d.Rt = reg(w, 12)
		}
		return nil
	}
	return ErrInvalid
}

func decodeARMCond(d *Record, w uint32) error {
	// Multiplies, extra loads/stores and synchronisation primitives overlap
	// the data-processing rows of the main table and are matched first.
	if w&(7<<25|9<<4) == 9<<4 {
		done, err := decodeARMExtra(d, w)
		if done || err != nil {
			return err
		}
	} else if (w>>26)&3 == 1 && w&(1<<25|1<<4) != 1<<25|1<<4 {
		decodeARMLoadStore(d, w)
		return nil
	}

	if w&(0xf9<<20|0xf<<4) == (1<<24 | 5<<4) {
		d.Instr = armSatInstrs[(w>>21)&3]
		d.Type = ARMSat
		d.Rn = reg(w, 16)
		d.Rd = reg(w, 12)
		d.Rm = reg(w, 0)
		return nil
	}

	if w&(0x1f<<23|1<<4) == (0x0d<<23 | 1<<4) {
		if decodeARMMedia(d, w) {
			return nil
		}
	}

	idx := (w >> 20) & 0xff
	d.Instr = armLabels[idx]
	d.Type = armTypes[idx]

	switch d.Type {
	case ARMArithShift:
		d.S = flagOf(w >> 20)
		d.Rd = reg(w, 12)
		d.Rn = reg(w, 16)
		d.Rm = reg(w, 0)
		armShiftOperand(d, w)
		return nil

	case ARMArithImm:
		d.S = flagOf(w >> 20)
		d.Rd = reg(w, 12)
		d.Rn = reg(w, 16)
		d.Imm = ARMExpandImm(w & 0xfff)
		d.I = Set
		if (d.Instr == ADD || d.Instr == SUB) && d.S == Unset && d.Rn == PC {
			d.Instr = ADR
			d.Rn = RegInvalid
			d.U = flagOf(w >> 23)
		}
		return nil

	case ARMBits:
		d.Instr = armBitsInstrs[(w>>21)&3]
		d.Rd = reg(w, 12)
		d.Rn = reg(w, 0)
		d.Lsb = (w >> 7) & 0x1f
		if d.Instr == BFI {
			d.Msb = (w >> 16) & 0x1f
			d.Width = d.Msb - d.Lsb + 1
			if d.Rn == PC {
				d.Rn = RegInvalid
				d.Instr = BFC
			}
		} else {
			d.Width = (w>>16)&0x1f + 1
		}
		return nil

	case ARMBrnchsc:
		d.I = Set
		if d.Instr == SVC {
			d.Imm = w & 0xffffff
		} else {
			d.Imm = branchImm24(w)
		}
		return nil

	case ARMBrnchmisc:
		d.Instr = armBranchMiscInstrs[(w>>4)&0xf]
		switch d.Instr {
		case BKPT:
			d.Imm = (w>>8)&0xfff<<4 + w&0xf
			d.I = Set
			return nil
		case BX, BXJ, BLX:
			d.Rm = reg(w, 0)
			return nil
		case MSR:
			d.Rn = reg(w, 0)
			d.Imm = (w >> 18) & 3
			d.I = Set
			return nil
		case SMLAW, SMULW:
			d.Rd = reg(w, 16)
			d.Rm = reg(w, 8)
			d.M = flagOf(w >> 6)
			d.Rn = reg(w, 0)
			if d.Instr == SMLAW {
				d.Ra = reg(w, 12)
			}
			return nil
		}
		return ErrInvalid

	case ARMMovImm:
		d.Rd = reg(w, 12)
		d.Imm = w & 0xfff
		d.I = Set
		if d.Instr == MOV || d.Instr == MVN {
			d.S = flagOf(w >> 20)
			d.Imm = ARMExpandImm(d.Imm)
		} else {
			d.Imm |= (w >> 16) & 0xf << 12
		}
		return nil

	case ARMCmpOp:
		d.Rn = reg(w, 16)
		d.Rm = reg(w, 0)
		armShiftOperand(d, w)
		return nil

	case ARMCmpImm:
		d.Rn = reg(w, 16)
		d.Imm = ARMExpandImm(w & 0xfff)
		d.I = Set
		return nil

	case ARMOpless:
		d.Instr = armOplessInstrs[w&7]
		if d.Instr == InstrInvalid {
			return ErrInvalid
		}
		return nil

	case ARMDstSrc:
		d.Instr = armShiftInstrs[(w>>4)&0xf]
		if d.Instr == InstrInvalid {
			return ErrInvalid
		}
		d.S = flagOf(w >> 20)
		d.Rd = reg(w, 12)
		d.ShiftType = ShiftType((w >> 5) & 3)
		if bit(w, 4) == 1 {
			d.Rm = reg(w, 8)
			d.Rn = reg(w, 0)
			return nil
		}
		d.Rm = reg(w, 0)
		d.Shift = (w >> 7) & 0x1f
		switch {
		case d.Instr == LSL && d.ShiftType == ShiftLSL && d.Shift == 0:
			d.Instr = MOV
		case d.Instr == ROR && d.ShiftType == ShiftROR && d.Shift == 0:
			d.Instr = RRX
		}
		return nil

	case ARMLdstregs:
		d.W = flagOf(w >> 21)
		d.Rn = reg(w, 16)
		d.Reglist = uint16(w)
		switch {
		case d.Instr == LDM && d.W == Set && d.Rn == SP:
			d.Instr = POP
		case d.Instr == STMDB && d.W == Set && d.Rn == SP:
			d.Instr = PUSH
		}
		return nil

	case ARMBitrev:
		d.Rd = reg(w, 12)
		d.Rm = reg(w, 0)
		if (w>>4)&0xf == 3 {
			switch d.Instr {
			case REV16:
				d.Instr = REV
			case REVSH:
				d.Instr = RBIT
			}
		}
		return nil

	case ARMMisc:
		return decodeARMMisc(d, w)

	case ARMSm:
		return decodeARMSignedMul(d, w)

	case ARMPas:
		return decodeARMParallel(d, w)

	case ARMMvcr:
		d.CRn = reg(w, 16)
		d.Coproc = (w >> 8) & 0xf
		d.Opc2 = (w >> 5) & 7
		d.CRm = reg(w, 0)
		if bit(w, 4) == 0 {
			d.Instr = CDP
			d.Opc1 = (w >> 20) & 0xf
			d.CRd = reg(w, 12)
		} else {
			d.Opc1 = (w >> 21) & 7
			d.Rt = reg(w, 12)
		}
		return nil

	case ARMUdf:
		d.I = Set
		d.Imm = w&0xf | (w>>4)&0xfff0
		return nil
	}
	return ErrInvalid
}

// armShiftOperand fills the shift of a register operand, which is either an
// immediate amount or the bottom byte of Rs.
func armShiftOperand(d *Record, w uint32) {
	d.ShiftType = ShiftType((w >> 5) & 3)
	if bit(w, 4) == 1 {
		d.Rs = reg(w, 8)
	} else {
		d.Shift = (w >> 7) & 0x1f
	}
}

// decodeARMExtra handles the words with bits 25..27 clear and bits 4 and 7
// set. done is false when the word belongs to the main table after all.
func decodeARMExtra(d *Record, w uint32) (done bool, err error) {
	switch {
	case bit(w, 24) == 0 && (w>>4)&0xf == 9:
		d.Instr = armMulInstrs[(w>>21)&7]
		d.Type = ARMMul
		d.S = flagOf(w >> 20)
		d.Rm = reg(w, 8)
		d.Rn = reg(w, 0)
		if (d.Instr == UMAAL || d.Instr == MLS) && d.S == Set {
			return true, ErrInvalid
		}
		switch d.Instr {
		case MLA, MLS:
			d.Ra = reg(w, 12)
			d.Rd = reg(w, 16)
		case MUL:
			d.Rd = reg(w, 16)
		default:
			d.RdHi = reg(w, 16)
			d.RdLo = reg(w, 12)
		}
		return true, nil

	case bit(w, 24) == 0 && (w>>5)&3 != 0 && bit(w, 21) == 1:
		d.Instr = armStack1Instrs[(w>>4)&6|bit(w, 20)]
		if d.Instr == InstrInvalid {
			return true, ErrInvalid
		}
		d.Type = ARMStack1
		armExtraLoadStore(d, w)
		return true, nil

	case (w>>5)&3 != 0 && (w>>20)&0x12 != 2:
		d.Instr = armStack2Instrs[(w>>4)&6|bit(w, 20)]
		if d.Instr == InstrInvalid {
			return true, ErrInvalid
		}
		d.Type = ARMStack2
		d.W = flagOf(w >> 21)
		armExtraLoadStore(d, w)
		return true, nil

	case bit(w, 24) == 1 && (w>>4)&0xf == 9:
		i := armSyncInstrs[(w>>20)&0xf]
		if i == InstrInvalid {
			return false, nil
		}
		d.Instr = i
		d.Type = ARMSync
		d.Rn = reg(w, 16)
		switch i {
		case SWP, SWPB:
			d.B = flagOf(w >> 22)
			d.Rt = reg(w, 12)
			d.Rt2 = reg(w, 0)
		case LDREX, LDREXD, LDREXB, LDREXH:
			d.Rt = reg(w, 12)
		default:
			d.Rd = reg(w, 12)
			d.Rt = reg(w, 0)
		}
		return true, nil
	}
	return false, nil
}

func armExtraLoadStore(d *Record, w uint32) {
	d.Rn = reg(w, 16)
	d.Rt = reg(w, 12)
	d.P = flagOf(w >> 24)
	d.U = flagOf(w >> 23)
	if bit(w, 22) == 0 {
		d.Rm = reg(w, 0)
	} else {
		d.Imm = (w>>4)&0xf0 | w&0xf
		d.I = Set
	}
}

// decodeARMLoadStore decodes the word and byte loads and stores, including
// the single-register PUSH and POP forms.
func decodeARMLoadStore(d *Record, w uint32) {
	d.Instr = armStack0Instrs[(w>>20)&0x1f]
	d.Type = ARMStack0
	d.Rn = reg(w, 16)
	d.Rt = reg(w, 12)
	d.P = flagOf(w >> 24)
	d.U = flagOf(w >> 23)
	d.W = flagOf(w >> 21)
	if bit(w, 25) == 0 {
		d.Imm = w & 0xfff
		d.I = Set
	} else {
		d.ShiftType = ShiftType((w >> 5) & 3)
		d.Shift = (w >> 7) & 0x1f
		d.Rm = reg(w, 0)
	}

	switch {
	case d.Instr == STR && d.Rn == SP && d.P == Set && d.U == Unset && d.W == Set && d.Imm == 4:
		d.Instr = PUSH
	case d.Instr == LDR && d.Rn == SP && d.P == Unset && d.U == Set && d.W == Unset && d.Imm == 4:
		d.Instr = POP
	}
}

// decodeARMMedia decodes extension, saturation and their 16-bit variants. It
// reports false when the word is left for the main table (PKH, SEL, REV...).
func decodeARMMedia(d *Record, w uint32) bool {
	op1 := (w >> 20) & 7
	a := Reg((w >> 16) & 0xf)
	op2 := (w >> 5) & 7

	d.Type = ARMPusr

	if op2 == 3 {
		idx := op1 << 1
		if a == PC {
			idx |= 1
		}
		if i := armExtendInstrs[idx]; i != InstrInvalid {
			d.Instr = i
			d.Rd = reg(w, 12)
			d.Rm = reg(w, 0)
			d.Rotate = (w >> 7) & 0x18
			if a != PC {
				d.Rn = a
			}
			return true
		}
	}

	if op1&2 == 2 && op2&1 == 0 {
		d.Instr = SSAT
		if op1>>2 != 0 {
			d.Instr = USAT
		}
		d.Imm = (w >> 16) & 0x1f
		if d.Instr == SSAT {
			d.Imm++
		}
		d.I = Set
		d.SatImm = d.Imm
		d.Rd = reg(w, 12)
		d.Shift = (w >> 7) & 0x1f
		d.ShiftType = ShiftType((w >> 5) & 3)
		d.Rn = reg(w, 0)
		return true
	}

	if (op1 == 2 || op1 == 6) && op2 == 1 {
		d.Instr = USAT16
		d.Imm = (w >> 16) & 0xf
		if op1 == 2 {
			d.Instr = SSAT16
			d.Imm++
		}
		d.I = Set
		d.SatImm = d.Imm
		d.Rd = reg(w, 12)
		d.Rn = reg(w, 0)
		return true
	}
	return false
}

func decodeARMMisc(d *Record, w uint32) error {
	switch d.Instr {
	case MVN:
		d.S = flagOf(w >> 20)
		d.Rd = reg(w, 12)
		d.Rm = reg(w, 0)
		armShiftOperand(d, w)
		return nil

	case DBG:
		d.Option = int8(w & 0xf)
		return nil

	case SMC:
		switch (w >> 4) & 0xf {
		case 8, 10, 12, 14:
			d.Instr = SMUL
			d.Type = ARMSm
			d.Rd = reg(w, 16)
			d.Rm = reg(w, 8)
			d.M = flagOf(w >> 6)
			d.N = flagOf(w >> 5)
			d.Rn = reg(w, 0)
		case 7:
			d.Imm = w & 0xf
			d.I = Set
		case 1:
			d.Instr = CLZ
			d.Rm = reg(w, 0)
			d.Rd = reg(w, 12)
		default:
			return ErrInvalid
		}
		return nil

	case SEL:
		d.Rd = reg(w, 12)
		d.Rn = reg(w, 16)
		d.Rm = reg(w, 0)
		if bit(w, 5) == 0 {
			d.Instr = PKH
			d.ShiftType = ShiftType((w >> 5) & 2)
			d.Shift = (w >> 7) & 0x1f
			d.T = flagOf(w >> 6)
		}
		return nil
	}
	return ErrInvalid
}

func decodeARMSignedMul(d *Record, w uint32) error {
	switch d.Instr {
	case SMMUL:
		d.Rd = reg(w, 16)
		d.Ra = reg(w, 12)
		d.Rm = reg(w, 8)
		d.R = flagOf(w >> 5)
		d.Rn = reg(w, 0)
		switch {
		case bit(w, 6) == 1:
			d.Instr = SMMLS
		case d.Ra != PC:
			d.Instr = SMMLA
		}
		return nil

	case SMUSD:
		d.Rd = reg(w, 16)
		d.Ra = reg(w, 12)
		d.Rm = reg(w, 8)
		d.M = flagOf(w >> 5)
		d.Rn = reg(w, 0)
		switch {
		case bit(w, 6) == 1 && d.Rn != PC:
			d.Instr = SMLSD
		case bit(w, 6) == 0 && d.Ra == PC:
			d.Instr = SMUAD
		case bit(w, 6) == 0:
			d.Instr = SMLAD
		}
		return nil

	case SMLSLD:
		d.RdHi = reg(w, 16)
		d.RdLo = reg(w, 12)
		d.Rm = reg(w, 8)
		d.M = flagOf(w >> 5)
		d.Rn = reg(w, 0)
		if bit(w, 6) == 0 {
			d.Instr = SMLALD
		}
		return nil

	case SMLA:
		d.Rd = reg(w, 16)
		d.Ra = reg(w, 12)
		d.Rm = reg(w, 8)
		d.M = flagOf(w >> 6)
		d.N = flagOf(w >> 5)
		d.Rn = reg(w, 0)
		return nil

	case SMLAL:
		d.RdHi = reg(w, 16)
		d.RdLo = reg(w, 12)
		d.Rm = reg(w, 8)
		d.M = flagOf(w >> 6)
		d.N = flagOf(w >> 5)
		d.Rn = reg(w, 0)
		return nil
	}
	return ErrInvalid
}

func decodeARMParallel(d *Record, w uint32) error {
	d.Instr = armParallelInstrs[(w>>17)&0x38|(w>>5)&7]
	if d.Instr == InstrInvalid {
		return ErrInvalid
	}
	d.Rn = reg(w, 16)
	d.Rd = reg(w, 12)
	d.Rm = reg(w, 0)
	return nil
}
