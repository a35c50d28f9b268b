package arm

// inv keeps the lookup tables readable.
const inv = InstrInvalid

// armLabels and armTypes are indexed by bits 20..27 of a conditional ARM word.
var armLabels = [256]Instr{
	AND, AND, EOR, EOR, SUB, SUB, RSB, RSB,
	ADD, ADD, ADC, ADC, SBC, SBC, RSC, RSC,
	SMLA, TST, SMULW, TEQ, SMLAL, CMP, SMC, CMN,
	ORR, ORR, STREXD, RRX, BIC, BIC, MVN, MVN,
	AND, AND, EOR, EOR, SUB, SUB, RSB, RSB,
	ADD, ADD, ADC, ADC, SBC, SBC, RSC, RSC,
	MOVW, TST, YIELD, TEQ, MOVT, CMP, inv, CMN,
	ORR, ORR, MOV, MOV, BIC, BIC, MVN, MVN,
	inv, inv, inv, inv, inv, inv, inv, inv,
	inv, inv, inv, inv, inv, inv, inv, inv,
	inv, inv, inv, inv, inv, inv, inv, inv,
	inv, inv, inv, inv, inv, inv, inv, inv,
	inv, SSUB8, QSUB8, SHSUB8, inv, USUB8, UQSUB8, UHSUB8,
	SEL, inv, inv, REV16, inv, inv, inv, REVSH,
	SMUSD, inv, inv, inv, SMLSLD, SMMUL, inv, inv,
	inv, inv, SBFX, SBFX, BFI, BFI, UBFX, UDF,
	STMDA, LDMDA, STMDA, LDMDA, inv, inv, inv, inv,
	STM, LDM, STM, LDM, inv, inv, inv, inv,
	STMDB, LDMDB, STMDB, LDMDB, inv, inv, inv, inv,
	STMIB, LDMIB, STMIB, LDMIB, inv, inv, inv, inv,
	B, B, B, B, B, B, B, B,
	B, B, B, B, B, B, B, B,
	BL, BL, BL, BL, BL, BL, BL, BL,
	BL, BL, BL, BL, BL, BL, BL, BL,
	inv, inv, inv, inv, inv, inv, inv, inv,
	inv, inv, inv, inv, inv, inv, inv, inv,
	inv, inv, inv, inv, inv, inv, inv, inv,
	inv, inv, inv, inv, inv, inv, inv, inv,
	MCR, MRC, MCR, MRC, MCR, MRC, MCR, MRC,
	MCR, MRC, MCR, MRC, MCR, MRC, MCR, MRC,
	SVC, SVC, SVC, SVC, SVC, SVC, SVC, SVC,
	SVC, SVC, SVC, SVC, SVC, SVC, SVC, SVC,
}

var armTypes = [256]EncType{
	ARMArithShift, ARMArithShift, ARMArithShift, ARMArithShift,
	ARMArithShift, ARMArithShift, ARMArithShift, ARMArithShift,
	ARMArithShift, ARMArithShift, ARMArithShift, ARMArithShift,
	ARMArithShift, ARMArithShift, ARMArithShift, ARMArithShift,
	ARMSm, ARMCmpOp, ARMBrnchmisc, ARMCmpOp,
	ARMSm, ARMCmpOp, ARMMisc, ARMCmpOp,
	ARMArithShift, ARMArithShift, ARMDstSrc, ARMDstSrc,
	ARMArithShift, ARMArithShift, ARMMisc, ARMMisc,
	ARMArithImm, ARMArithImm, ARMArithImm, ARMArithImm,
	ARMArithImm, ARMArithImm, ARMArithImm, ARMArithImm,
	ARMArithImm, ARMArithImm, ARMArithImm, ARMArithImm,
	ARMArithImm, ARMArithImm, ARMArithImm, ARMArithImm,
	ARMMovImm, ARMCmpImm, ARMOpless, ARMCmpImm,
	ARMMovImm, ARMCmpImm, EncInvalid, ARMCmpImm,
	ARMArithImm, ARMArithImm, ARMMovImm, ARMMovImm,
	ARMArithImm, ARMArithImm, ARMMovImm, ARMMovImm,
	EncInvalid, EncInvalid, EncInvalid, EncInvalid,
	EncInvalid, EncInvalid, EncInvalid, EncInvalid,
	EncInvalid, EncInvalid, EncInvalid, EncInvalid,
	EncInvalid, EncInvalid, EncInvalid, EncInvalid,
	EncInvalid, EncInvalid, EncInvalid, EncInvalid,
	EncInvalid, EncInvalid, EncInvalid, EncInvalid,
	EncInvalid, EncInvalid, EncInvalid, EncInvalid,
	EncInvalid, EncInvalid, EncInvalid, EncInvalid,
	EncInvalid, ARMPas, ARMPas, ARMPas,
	EncInvalid, ARMPas, ARMPas, ARMPas,
	ARMMisc, EncInvalid, EncInvalid, ARMBitrev,
	EncInvalid, EncInvalid, EncInvalid, ARMBitrev,
	ARMSm, EncInvalid, EncInvalid, EncInvalid,
	ARMSm, ARMSm, EncInvalid, EncInvalid,
	EncInvalid, EncInvalid, ARMBits, ARMBits,
	ARMBits, ARMBits, ARMBits, ARMUdf,
	ARMLdstregs, ARMLdstregs, ARMLdstregs, ARMLdstregs,
	EncInvalid, EncInvalid, EncInvalid, EncInvalid,
	ARMLdstregs, ARMLdstregs, ARMLdstregs, ARMLdstregs,
	EncInvalid, EncInvalid, EncInvalid, EncInvalid,
	ARMLdstregs, ARMLdstregs, ARMLdstregs, ARMLdstregs,
	EncInvalid, EncInvalid, EncInvalid, EncInvalid,
	ARMLdstregs, ARMLdstregs, ARMLdstregs, ARMLdstregs,
	EncInvalid, EncInvalid, EncInvalid, EncInvalid,
	ARMBrnchsc, ARMBrnchsc, ARMBrnchsc, ARMBrnchsc,
	ARMBrnchsc, ARMBrnchsc, ARMBrnchsc, ARMBrnchsc,
	ARMBrnchsc, ARMBrnchsc, ARMBrnchsc, ARMBrnchsc,
	ARMBrnchsc, ARMBrnchsc, ARMBrnchsc, ARMBrnchsc,
	ARMBrnchsc, ARMBrnchsc, ARMBrnchsc, ARMBrnchsc,
	ARMBrnchsc, ARMBrnchsc, ARMBrnchsc, ARMBrnchsc,
	ARMBrnchsc, ARMBrnchsc, ARMBrnchsc, ARMBrnchsc,
	ARMBrnchsc, ARMBrnchsc, ARMBrnchsc, ARMBrnchsc,
	EncInvalid, EncInvalid, EncInvalid, EncInvalid,
	EncInvalid, EncInvalid, EncInvalid, EncInvalid,
	EncInvalid, EncInvalid, EncInvalid, EncInvalid,
	EncInvalid, EncInvalid, EncInvalid, EncInvalid,
	EncInvalid, EncInvalid, EncInvalid, EncInvalid,
	EncInvalid, EncInvalid, EncInvalid, EncInvalid,
	EncInvalid, EncInvalid, EncInvalid, EncInvalid,
	EncInvalid, EncInvalid, EncInvalid, EncInvalid,
	ARMMvcr, ARMMvcr, ARMMvcr, ARMMvcr,
	ARMMvcr, ARMMvcr, ARMMvcr, ARMMvcr,
	ARMMvcr, ARMMvcr, ARMMvcr, ARMMvcr,
	ARMMvcr, ARMMvcr, ARMMvcr, ARMMvcr,
	ARMBrnchsc, ARMBrnchsc, ARMBrnchsc, ARMBrnchsc,
	ARMBrnchsc, ARMBrnchsc, ARMBrnchsc, ARMBrnchsc,
	ARMBrnchsc, ARMBrnchsc, ARMBrnchsc, ARMBrnchsc,
	ARMBrnchsc, ARMBrnchsc, ARMBrnchsc, ARMBrnchsc,
}

var armShiftInstrs = [16]Instr{
	LSL, LSL, LSR, LSR, ASR, ASR, ROR, ROR,
	LSL, inv, LSR, inv, ASR, inv, ROR, inv,
}

var armBranchMiscInstrs = [16]Instr{
	MSR, BX, BXJ, BLX, inv, QSUB, inv, BKPT,
	SMLAW, inv, SMULW, inv, SMLAW, inv, SMULW, inv,
}

var armOplessInstrs = [8]Instr{
	NOP, YIELD, WFE, WFI, SEV, inv, inv, inv,
}

var armBarrierInstrs = [8]Instr{
	inv, CLREX, inv, inv, DSB, DMB, ISB, inv,
}

var armMulInstrs = [8]Instr{
	MUL, MLA, UMAAL, MLS, UMULL, UMLAL, SMULL, SMLAL,
}

var armStack0Instrs = [32]Instr{
	STR, LDR, STRT, LDRT, STRB, LDRB, STRBT, LDRBT,
	STR, LDR, STRT, LDRT, STRB, LDRB, STRBT, LDRBT,
	STR, LDR, STR, LDR, STRB, LDRB, STRB, LDRB,
	STR, LDR, STR, LDR, STRB, LDRB, STRB, LDRB,
}

var armStack1Instrs = [8]Instr{
	inv, inv, STRHT, LDRHT, inv, LDRSBT, inv, LDRSHT,
}

var armStack2Instrs = [8]Instr{
	inv, inv, STRH, LDRH, LDRD, LDRSB, STRD, LDRSH,
}

var armBitsInstrs = [4]Instr{
	inv, SBFX, BFI, UBFX,
}

var armParallelInstrs = [64]Instr{
	inv, inv, inv, inv, inv, inv, inv, inv,
	SADD16, SASX, SSAX, SSUB16, SADD8, inv, inv, SSUB8,
	QADD16, QASX, QSAX, QSUB16, QADD8, inv, inv, QSUB8,
	SHADD16, SHASX, SHSAX, SHSUB16, SHADD8, inv, inv, SHSUB8,
	inv, inv, inv, inv, inv, inv, inv, inv,
	UADD16, UASX, USAX, USUB16, UADD8, inv, inv, USUB8,
	UQADD16, UQASX, UQSAX, UQSUB16, UQADD8, inv, inv, UQSUB8,
	UHADD16, UHASX, UHSAX, UHSUB16, UHADD8, inv, inv, UHSUB8,
}

var armSatInstrs = [4]Instr{
	QADD, QSUB, QDADD, QDSUB,
}

var armSyncInstrs = [16]Instr{
	SWP, inv, inv, inv, SWPB, inv, inv, inv,
	STREX, LDREX, STREXD, LDREXD, STREXB, LDREXB, STREXH, LDREXH,
}

var armExtendInstrs = [16]Instr{
	SXTAB16, SXTB16, inv, inv, SXTAB, SXTB, SXTAH, SXTH,
	UXTAB16, UXTB16, inv, inv, UXTAB, UXTB, UXTAH, UXTH,
}
