package arm

// thumbLabels and thumbTypes are indexed by the top byte of a Thumb halfword.
// Rows marked inv with a valid type pick their mnemonic from a second table.
var thumbLabels = [256]Instr{
	LSL, LSL, LSL, LSL, LSL, LSL, LSL, LSL,         // 00
	LSR, LSR, LSR, LSR, LSR, LSR, LSR, LSR,         // 08
	ASR, ASR, ASR, ASR, ASR, ASR, ASR, ASR,         // 10
	ADD, ADD, SUB, SUB, ADD, ADD, SUB, SUB,         // 18
	MOV, MOV, MOV, MOV, MOV, MOV, MOV, MOV,         // 20
	CMP, CMP, CMP, CMP, CMP, CMP, CMP, CMP,         // 28
	ADD, ADD, ADD, ADD, ADD, ADD, ADD, ADD,         // 30
	SUB, SUB, SUB, SUB, SUB, SUB, SUB, SUB,         // 38
	inv, inv, inv, inv, ADD, CMP, MOV, BX,          // 40
	LDR, LDR, LDR, LDR, LDR, LDR, LDR, LDR,         // 48
	STR, STR, STRH, STRH, STRB, STRB, LDRSB, LDRSB, // 50
	LDR, LDR, LDRH, LDRH, LDRB, LDRB, LDRSH, LDRSH, // 58
	STR, STR, STR, STR, STR, STR, STR, STR,         // 60
	LDR, LDR, LDR, LDR, LDR, LDR, LDR, LDR,         // 68
	STRB, STRB, STRB, STRB, STRB, STRB, STRB, STRB, // 70
	LDRB, LDRB, LDRB, LDRB, LDRB, LDRB, LDRB, LDRB, // 78
	STRH, STRH, STRH, STRH, STRH, STRH, STRH, STRH, // 80
	LDRH, LDRH, LDRH, LDRH, LDRH, LDRH, LDRH, LDRH, // 88
	STR, STR, STR, STR, STR, STR, STR, STR,         // 90
	LDR, LDR, LDR, LDR, LDR, LDR, LDR, LDR,         // 98
	ADR, ADR, ADR, ADR, ADR, ADR, ADR, ADR,         // a0
	ADD, ADD, ADD, ADD, ADD, ADD, ADD, ADD,         // a8
	inv, inv, inv, inv, PUSH, PUSH, SETEND, inv,    // b0
	inv, inv, inv, inv, POP, POP, BKPT, inv,        // b8
	STM, STM, STM, STM, STM, STM, STM, STM,         // c0
	LDM, LDM, LDM, LDM, LDM, LDM, LDM, LDM,         // c8
	B, B, B, B, B, B, B, B,                         // d0
	B, B, B, B, B, B, UDF, SVC,                     // d8
	B, B, B, B, B, B, B, B,                         // e0
	inv, inv, inv, inv, inv, inv, inv, inv,         // e8
	inv, inv, inv, inv, inv, inv, inv, inv,         // f0
	inv, inv, inv, inv, inv, inv, inv, inv,         // f8
}

var thumbTypes = [256]EncType{
	ThumbShiftImm, ThumbShiftImm, ThumbShiftImm, ThumbShiftImm,                 // 00
	ThumbShiftImm, ThumbShiftImm, ThumbShiftImm, ThumbShiftImm,                 // 04
	ThumbShiftImm, ThumbShiftImm, ThumbShiftImm, ThumbShiftImm,                 // 08
	ThumbShiftImm, ThumbShiftImm, ThumbShiftImm, ThumbShiftImm,                 // 0c
	ThumbShiftImm, ThumbShiftImm, ThumbShiftImm, ThumbShiftImm,                 // 10
	ThumbShiftImm, ThumbShiftImm, ThumbShiftImm, ThumbShiftImm,                 // 14
	ThumbThreeReg, ThumbThreeReg, ThumbThreeReg, ThumbThreeReg,                 // 18
	ThumbTwoRegImm, ThumbTwoRegImm, ThumbTwoRegImm, ThumbTwoRegImm,             // 1c
	ThumbHasImm8, ThumbHasImm8, ThumbHasImm8, ThumbHasImm8,                     // 20
	ThumbHasImm8, ThumbHasImm8, ThumbHasImm8, ThumbHasImm8,                     // 24
	ThumbHasImm8, ThumbHasImm8, ThumbHasImm8, ThumbHasImm8,                     // 28
	ThumbHasImm8, ThumbHasImm8, ThumbHasImm8, ThumbHasImm8,                     // 2c
	ThumbHasImm8, ThumbHasImm8, ThumbHasImm8, ThumbHasImm8,                     // 30
	ThumbHasImm8, ThumbHasImm8, ThumbHasImm8, ThumbHasImm8,                     // 34
	ThumbHasImm8, ThumbHasImm8, ThumbHasImm8, ThumbHasImm8,                     // 38
	ThumbHasImm8, ThumbHasImm8, ThumbHasImm8, ThumbHasImm8,                     // 3c
	ThumbGpi, ThumbGpi, ThumbGpi, ThumbGpi,                                     // 40
	ThumbModSpReg, ThumbCmp, ThumbMov4, ThumbBranchReg,                         // 44
	ThumbLdrPc, ThumbLdrPc, ThumbLdrPc, ThumbLdrPc,                             // 48
	ThumbLdrPc, ThumbLdrPc, ThumbLdrPc, ThumbLdrPc,                             // 4c
	ThumbRwMemo, ThumbRwMemo, ThumbRwMemo, ThumbRwMemo,                         // 50
	ThumbRwMemo, ThumbRwMemo, ThumbRwMemo, ThumbRwMemo,                         // 54
	ThumbRwMemo, ThumbRwMemo, ThumbRwMemo, ThumbRwMemo,                         // 58
	ThumbRwMemo, ThumbRwMemo, ThumbRwMemo, ThumbRwMemo,                         // 5c
	ThumbRwMemi, ThumbRwMemi, ThumbRwMemi, ThumbRwMemi,                         // 60
	ThumbRwMemi, ThumbRwMemi, ThumbRwMemi, ThumbRwMemi,                         // 64
	ThumbRwMemi, ThumbRwMemi, ThumbRwMemi, ThumbRwMemi,                         // 68
	ThumbRwMemi, ThumbRwMemi, ThumbRwMemi, ThumbRwMemi,                         // 6c
	ThumbRwMemi, ThumbRwMemi, ThumbRwMemi, ThumbRwMemi,                         // 70
	ThumbRwMemi, ThumbRwMemi, ThumbRwMemi, ThumbRwMemi,                         // 74
	ThumbRwMemi, ThumbRwMemi, ThumbRwMemi, ThumbRwMemi,                         // 78
	ThumbRwMemi, ThumbRwMemi, ThumbRwMemi, ThumbRwMemi,                         // 7c
	ThumbRwMemi, ThumbRwMemi, ThumbRwMemi, ThumbRwMemi,                         // 80
	ThumbRwMemi, ThumbRwMemi, ThumbRwMemi, ThumbRwMemi,                         // 84
	ThumbRwMemi, ThumbRwMemi, ThumbRwMemi, ThumbRwMemi,                         // 88
	ThumbRwMemi, ThumbRwMemi, ThumbRwMemi, ThumbRwMemi,                         // 8c
	ThumbStack, ThumbStack, ThumbStack, ThumbStack,                             // 90
	ThumbStack, ThumbStack, ThumbStack, ThumbStack,                             // 94
	ThumbStack, ThumbStack, ThumbStack, ThumbStack,                             // 98
	ThumbStack, ThumbStack, ThumbStack, ThumbStack,                             // 9c
	ThumbHasImm8, ThumbHasImm8, ThumbHasImm8, ThumbHasImm8,                     // a0
	ThumbHasImm8, ThumbHasImm8, ThumbHasImm8, ThumbHasImm8,                     // a4
	ThumbAddSpImm, ThumbAddSpImm, ThumbAddSpImm, ThumbAddSpImm,                 // a8
	ThumbAddSpImm, ThumbAddSpImm, ThumbAddSpImm, ThumbAddSpImm,                 // ac
	ThumbModSpImm, ThumbCbz, ThumbExtend, ThumbCbz,                             // b0
	ThumbPushpop, ThumbPushpop, ThumbSetend, EncInvalid,                        // b4
	EncInvalid, ThumbCbz, ThumbRev, ThumbCbz,                                   // b8
	ThumbPushpop, ThumbPushpop, ThumbOnlyImm8, ThumbItHints,                    // bc
	ThumbRwReg, ThumbRwReg, ThumbRwReg, ThumbRwReg,                             // c0
	ThumbRwReg, ThumbRwReg, ThumbRwReg, ThumbRwReg,                             // c4
	ThumbRwReg, ThumbRwReg, ThumbRwReg, ThumbRwReg,                             // c8
	ThumbRwReg, ThumbRwReg, ThumbRwReg, ThumbRwReg,                             // cc
	ThumbCondBranch, ThumbCondBranch, ThumbCondBranch, ThumbCondBranch,         // d0
	ThumbCondBranch, ThumbCondBranch, ThumbCondBranch, ThumbCondBranch,         // d4
	ThumbCondBranch, ThumbCondBranch, ThumbCondBranch, ThumbCondBranch,         // d8
	ThumbCondBranch, ThumbCondBranch, ThumbOnlyImm8, ThumbOnlyImm8,             // dc
	ThumbUncondBranch, ThumbUncondBranch, ThumbUncondBranch, ThumbUncondBranch, // e0
	ThumbUncondBranch, ThumbUncondBranch, ThumbUncondBranch, ThumbUncondBranch, // e4
	EncInvalid, EncInvalid, EncInvalid, EncInvalid,                             // e8
	EncInvalid, EncInvalid, EncInvalid, EncInvalid,                             // ec
	EncInvalid, EncInvalid, EncInvalid, EncInvalid,                             // f0
	EncInvalid, EncInvalid, EncInvalid, EncInvalid,                             // f4
	EncInvalid, EncInvalid, EncInvalid, EncInvalid,                             // f8
	EncInvalid, EncInvalid, EncInvalid, EncInvalid,                             // fc
}

var thumbGPIInstrs = [16]Instr{
	AND, EOR, LSL, LSR, ASR, ADC, SBC, ROR,
	TST, RSB, CMP, CMN, ORR, MUL, BIC, MVN,
}

var thumbExtendInstrs = [4]Instr{SXTH, SXTB, UXTH, UXTB}

var thumbRevInstrs = [4]Instr{REV, REV16, inv, REVSH}

var thumbHintInstrs = [8]Instr{NOP, YIELD, WFE, WFI, SEV, inv, inv, inv}
