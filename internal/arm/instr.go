package arm

import "strconv"

// Instr identifies a mnemonic. The zero value is InstrInvalid.
type Instr uint16

const (
	InstrInvalid Instr = iota
	ADC
	ADD
	ADDW
	ADR
	AND
	ASR
	B
	BFC
	BFI
	BIC
	BKPT
	BL
	BLX
	BX
	BXJ
	CBNZ
	CBZ
	CDP
	CDP2
	CHKA
	CLREX
	CLZ
	CMN
	CMP
	CPS
	CPY
	DBG
	DMB
	DSB
	ENTERX
	EOR
	HB
	HBL
	HBLP
	HBP
	ISB
	IT
	LDC
	LDC2
	LDM
	LDMDA
	LDMDB
	LDMIB
	LDR
	LDRB
	LDRBT
	LDRD
	LDREX
	LDREXB
	LDREXD
	LDREXH
	LDRH
	LDRHT
	LDRSB
	LDRSBT
	LDRSH
	LDRSHT
	LDRT
	LEAVEX
	LSL
	LSR
	MCR
	MCR2
	MCRR
	MCRR2
	MLA
	MLS
	MOV
	MOVT
	MOVW
	MRC
	MRC2
	MRRC
	MRRC2
	MRS
	MSR
	MUL
	MVN
	NEG
	NOP
	ORN
	ORR
	PKH
	PLD
	PLDW
	PLI
	POP
	PUSH
	QADD
	QADD16
	QADD8
	QASX
	QDADD
	QDSUB
	QSAX
	QSUB
	QSUB16
	QSUB8
	RBIT
	REV
	REV16
	REVSH
	RFE
	ROR
	RRX
	RSB
	RSC
	SADD16
	SADD8
	SASX
	SBC
	SBFX
	SDIV
	SEL
	SETEND
	SEV
	SHADD16
	SHADD8
	SHASX
	SHSAX
	SHSUB16
	SHSUB8
	SMC
	SMLA
	SMLABB
	SMLABT
	SMLAD
	SMLAL
	SMLALBB
	SMLALBT
	SMLALD
	SMLALTB
	SMLALTT
	SMLATB
	SMLATT
	SMLAW
	SMLSD
	SMLSLD
	SMMLA
	SMMLS
	SMMUL
	SMUAD
	SMUL
	SMULBB
	SMULBT
	SMULL
	SMULTB
	SMULTT
	SMULW
	SMUSD
	SRS
	SSAT
	SSAT16
	SSAX
	SSUB16
	SSUB8
	STC
	STC2
	STM
	STMDA
	STMDB
	STMIB
	STR
	STRB
	STRBT
	STRD
	STREX
	STREXB
	STREXD
	STREXH
	STRH
	STRHT
	STRT
	SUB
	SUBW
	SVC
	SWP
	SWPB
	SXTAB
	SXTAB16
	SXTAH
	SXTB
	SXTB16
	SXTH
	TBB
	TBH
	TEQ
	TST
	UADD16
	UADD8
	UASX
	UBFX
	UDF
	UDIV
	UHADD16
	UHADD8
	UHASX
	UHSAX
	UHSUB16
	UHSUB8
	UMAAL
	UMLAL
	UMULL
	UQADD16
	UQADD8
	UQASX
	UQSAX
	UQSUB16
	UQSUB8
	USAD8
	USADA8
	USAT
	USAT16
	USAX
	USUB16
	USUB8
	UXTAB
	UXTAB16
	UXTAH
	UXTB
	UXTB16
	UXTH
	VABA
	VABAL
	VABD
	VABDL
	VABS
	VACGE
	VACGT
	VACLE
	VACLT
	VADD
	VADDHN
	VADDL
	VADDW
	VAND
	VBIC
	VBIF
	VBIT
	VBSL
	VCEQ
	VCGE
	VCGT
	VCLE
	VCLS
	VCLT
	VCLZ
	VCMP
	VCMPE
	VCNT
	VCVT
	VCVTB
	VCVTR
	VCVTT
	VDIV
	VDUP
	VEOR
	VEXT
	VHADD
	VHSUB
	VLD1
	VLD2
	VLD3
	VLD4
	VLDM
	VLDR
	VMAX
	VMIN
	VMLA
	VMLAL
	VMLS
	VMLSL
	VMOV
	VMOVL
	VMOVN
	VMRS
	VMSR
	VMUL
	VMULL
	VMVN
	VNEG
	VNMLA
	VNMLS
	VNMUL
	VORN
	VORR
	VPADAL
	VPADD
	VPADDL
	VPMAX
	VPMIN
	VPOP
	VPUSH
	VQABS
	VQADD
	VQDMLAL
	VQDMLSL
	VQDMULH
	VQDMULL
	VQMOVN
	VQMOVUN
	VQNEG
	VQRDMULH
	VQRSHL
	VQRSHRN
	VQRSHRUN
	VQSHL
	VQSHLU
	VQSHRN
	VQSHRUN
	VQSUB
	VRADDHN
	VRECPE
	VRECPS
	VREV16
	VREV32
	VREV64
	VRHADD
	VRSHL
	VRSHR
	VRSHRN
	VRSQRTE
	VRSQRTS
	VRSRA
	VRSUBHN
	VSHL
	VSHLL
	VSHR
	VSHRN
	VSLI
	VSQRT
	VSRA
	VSRI
	VST1
	VST2
	VST3
	VST4
	VSTM
	VSTR
	VSUB
	VSUBHN
	VSUBL
	VSUBW
	VSWP
	VTBL
	VTBX
	VTRN
	VTST
	VUZP
	VZIP
	WFE
	WFI
	YIELD

	instrCount
)

var mnemonics = [instrCount]string{
	"INVLD", "ADC", "ADD", "ADDW", "ADR", "AND", "ASR", "B",
	"BFC", "BFI", "BIC", "BKPT", "BL", "BLX", "BX", "BXJ",
	"CBNZ", "CBZ", "CDP", "CDP2", "CHKA", "CLREX", "CLZ", "CMN",
	"CMP", "CPS", "CPY", "DBG", "DMB", "DSB", "ENTERX", "EOR",
	"HB", "HBL", "HBLP", "HBP", "ISB", "IT", "LDC", "LDC2",
	"LDM", "LDMDA", "LDMDB", "LDMIB", "LDR", "LDRB", "LDRBT", "LDRD",
	"LDREX", "LDREXB", "LDREXD", "LDREXH", "LDRH", "LDRHT", "LDRSB", "LDRSBT",
	"LDRSH", "LDRSHT", "LDRT", "LEAVEX", "LSL", "LSR", "MCR", "MCR2",
	"MCRR", "MCRR2", "MLA", "MLS", "MOV", "MOVT", "MOVW", "MRC",
	"MRC2", "MRRC", "MRRC2", "MRS", "MSR", "MUL", "MVN", "NEG",
	"NOP", "ORN", "ORR", "PKH", "PLD", "PLDW", "PLI", "POP",
	"PUSH", "QADD", "QADD16", "QADD8", "QASX", "QDADD", "QDSUB", "QSAX",
	"QSUB", "QSUB16", "QSUB8", "RBIT", "REV", "REV16", "REVSH", "RFE",
	"ROR", "RRX", "RSB", "RSC", "SADD16", "SADD8", "SASX", "SBC",
	"SBFX", "SDIV", "SEL", "SETEND", "SEV", "SHADD16", "SHADD8", "SHASX",
	"SHSAX", "SHSUB16", "SHSUB8", "SMC", "SMLA", "SMLABB", "SMLABT", "SMLAD",
	"SMLAL", "SMLALBB", "SMLALBT", "SMLALD", "SMLALTB", "SMLALTT", "SMLATB", "SMLATT",
	"SMLAW", "SMLSD", "SMLSLD", "SMMLA", "SMMLS", "SMMUL", "SMUAD", "SMUL",
	"SMULBB", "SMULBT", "SMULL", "SMULTB", "SMULTT", "SMULW", "SMUSD", "SRS",
	"SSAT", "SSAT16", "SSAX", "SSUB16", "SSUB8", "STC", "STC2", "STM",
	"STMDA", "STMDB", "STMIB", "STR", "STRB", "STRBT", "STRD", "STREX",
	"STREXB", "STREXD", "STREXH", "STRH", "STRHT", "STRT", "SUB", "SUBW",
	"SVC", "SWP", "SWPB", "SXTAB", "SXTAB16", "SXTAH", "SXTB", "SXTB16",
	"SXTH", "TBB", "TBH", "TEQ", "TST", "UADD16", "UADD8", "UASX",
	"UBFX", "UDF", "UDIV", "UHADD16", "UHADD8", "UHASX", "UHSAX", "UHSUB16",
	"UHSUB8", "UMAAL", "UMLAL", "UMULL", "UQADD16", "UQADD8", "UQASX", "UQSAX",
	"UQSUB16", "UQSUB8", "USAD8", "USADA8", "USAT", "USAT16", "USAX", "USUB16",
	"USUB8", "UXTAB", "UXTAB16", "UXTAH", "UXTB", "UXTB16", "UXTH", "VABA",
	"VABAL", "VABD", "VABDL", "VABS", "VACGE", "VACGT", "VACLE", "VACLT",
	"VADD", "VADDHN", "VADDL", "VADDW", "VAND", "VBIC", "VBIF", "VBIT",
	"VBSL", "VCEQ", "VCGE", "VCGT", "VCLE", "VCLS", "VCLT", "VCLZ",
	"VCMP", "VCMPE", "VCNT", "VCVT", "VCVTB", "VCVTR", "VCVTT", "VDIV",
	"VDUP", "VEOR", "VEXT", "VHADD", "VHSUB", "VLD1", "VLD2", "VLD3",
	"VLD4", "VLDM", "VLDR", "VMAX", "VMIN", "VMLA", "VMLAL", "VMLS",
	"VMLSL", "VMOV", "VMOVL", "VMOVN", "VMRS", "VMSR", "VMUL", "VMULL",
	"VMVN", "VNEG", "VNMLA", "VNMLS", "VNMUL", "VORN", "VORR", "VPADAL",
	"VPADD", "VPADDL", "VPMAX", "VPMIN", "VPOP", "VPUSH", "VQABS", "VQADD",
	"VQDMLAL", "VQDMLSL", "VQDMULH", "VQDMULL", "VQMOVN", "VQMOVUN", "VQNEG", "VQRDMULH",
	"VQRSHL", "VQRSHRN", "VQRSHRUN", "VQSHL", "VQSHLU", "VQSHRN", "VQSHRUN", "VQSUB",
	"VRADDHN", "VRECPE", "VRECPS", "VREV16", "VREV32", "VREV64", "VRHADD", "VRSHL",
	"VRSHR", "VRSHRN", "VRSQRTE", "VRSQRTS", "VRSRA", "VRSUBHN", "VSHL", "VSHLL",
	"VSHR", "VSHRN", "VSLI", "VSQRT", "VSRA", "VSRI", "VST1", "VST2",
	"VST3", "VST4", "VSTM", "VSTR", "VSUB", "VSUBHN", "VSUBL", "VSUBW",
	"VSWP", "VTBL", "VTBX", "VTRN", "VTST", "VUZP", "VZIP", "WFE",
	"WFI", "YIELD",
}

// MnemonicName returns the upper-case mnemonic of i, or "" when i is out of range.
func MnemonicName(i Instr) string {
	if i >= instrCount {
		return ""
	}
	return mnemonics[i]
}

func (i Instr) String() string {
	if s := MnemonicName(i); s != "" {
		return s
	}
	return "Instr(" + strconv.Itoa(int(i)) + ")"
}
