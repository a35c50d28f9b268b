package arm

import "strconv"

// EncType is the encoding shape a decoder assigned to an instruction. For
// Thumb2 it names the register recipe used by the extraction pipeline.
type EncType uint8

const (
	EncInvalid EncType = iota
	ARMAdr
	ARMUncond
	ARMMul
	ARMStack0
	ARMStack1
	ARMStack2
	ARMArithShift
	ARMArithImm
	ARMBits
	ARMBrnchsc
	ARMBrnchmisc
	ARMMovImm
	ARMCmpOp
	ARMCmpImm
	ARMOpless
	ARMDstSrc
	ARMLdstregs
	ARMBitrev
	ARMMisc
	ARMSm
	ARMPas
	ARMSat
	ARMSync
	ARMPusr
	ARMMvcr
	ARMUdf
	ThumbOnlyImm8
	ThumbCondBranch
	ThumbUncondBranch
	ThumbShiftImm
	ThumbStack
	ThumbLdrPc
	ThumbGpi
	ThumbBranchReg
	ThumbItHints
	ThumbHasImm8
	ThumbExtend
	ThumbModSpImm
	ThumbThreeReg
	ThumbTwoRegImm
	ThumbAddSpImm
	ThumbMov4
	ThumbRwMemi
	ThumbRwMemo
	ThumbRwReg
	ThumbRev
	ThumbSetend
	ThumbPushpop
	ThumbCmp
	ThumbModSpReg
	ThumbCbz
	Thumb2NoReg
	Thumb2RtReg
	Thumb2RtRt2Reg
	Thumb2RmReg
	Thumb2RdReg
	Thumb2RdRmReg
	Thumb2RnReg
	Thumb2RnRtReg
	Thumb2RnRtRt2Reg
	Thumb2RnRmReg
	Thumb2RnRmRtReg
	Thumb2RnRdReg
	Thumb2RnRdRtReg
	Thumb2RnRdRtRt2Reg
	Thumb2RnRdRmReg
	Thumb2RnRdRmRaReg

	encCount
)

var encNames = [encCount]string{
	"INVLD", "ARM_ADR", "ARM_UNCOND", "ARM_MUL",
	"ARM_STACK0", "ARM_STACK1", "ARM_STACK2", "ARM_ARITH_SHIFT",
	"ARM_ARITH_IMM", "ARM_BITS", "ARM_BRNCHSC", "ARM_BRNCHMISC",
	"ARM_MOV_IMM", "ARM_CMP_OP", "ARM_CMP_IMM", "ARM_OPLESS",
	"ARM_DST_SRC", "ARM_LDSTREGS", "ARM_BITREV", "ARM_MISC",
	"ARM_SM", "ARM_PAS", "ARM_SAT", "ARM_SYNC",
	"ARM_PUSR", "ARM_MVCR", "ARM_UDF", "THUMB_ONLY_IMM8",
	"THUMB_COND_BRANCH", "THUMB_UNCOND_BRANCH", "THUMB_SHIFT_IMM", "THUMB_STACK",
	"THUMB_LDR_PC", "THUMB_GPI", "THUMB_BRANCH_REG", "THUMB_IT_HINTS",
	"THUMB_HAS_IMM8", "THUMB_EXTEND", "THUMB_MOD_SP_IMM", "THUMB_3REG",
	"THUMB_2REG_IMM", "THUMB_ADD_SP_IMM", "THUMB_MOV4", "THUMB_RW_MEMI",
	"THUMB_RW_MEMO", "THUMB_RW_REG", "THUMB_REV", "THUMB_SETEND",
	"THUMB_PUSHPOP", "THUMB_CMP", "THUMB_MOD_SP_REG", "THUMB_CBZ",
	"THUMB2_NO_REG", "THUMB2_RT_REG", "THUMB2_RT_RT2_REG", "THUMB2_RM_REG",
	"THUMB2_RD_REG", "THUMB2_RD_RM_REG", "THUMB2_RN_REG", "THUMB2_RN_RT_REG",
	"THUMB2_RN_RT_RT2_REG", "THUMB2_RN_RM_REG", "THUMB2_RN_RM_RT_REG", "THUMB2_RN_RD_REG",
	"THUMB2_RN_RD_RT_REG", "THUMB2_RN_RD_RT_RT2_REG", "THUMB2_RN_RD_RM_REG",
	"THUMB2_RN_RD_RM_RA_REG",
}

// EncodingName returns the name of an encoding shape, or "" when out of range.
func EncodingName(t EncType) string {
	if t >= encCount {
		return ""
	}
	return encNames[t]
}

func (t EncType) String() string {
	if s := EncodingName(t); s != "" {
		return s
	}
	return "EncType(" + strconv.Itoa(int(t)) + ")"
}

// ImmShape tells the Thumb2 immediate pass which bits hold the immediate.
type ImmShape uint8

const (
	ImmInvalid ImmShape = iota
	NoImm
	Imm12
	Imm8
	Imm2
	Imm2Imm3
	Imm1Imm3Imm8
)

var immShapeNames = [...]string{
	"INVLD", "THUMB2_NO_IMM", "THUMB2_IMM12", "THUMB2_IMM8",
	"THUMB2_IMM2", "THUMB2_IMM2_IMM3", "THUMB2_IMM1_IMM3_IMM8",
}

func (s ImmShape) String() string {
	if int(s) < len(immShapeNames) {
		return immShapeNames[s]
	}
	return "ImmShape(" + strconv.Itoa(int(s)) + ")"
}

// FlagShape tells the Thumb2 flag pass which flag bits to extract.
type FlagShape uint8

const (
	FlagShapeInvalid FlagShape = iota
	NoFlag
	RotateFlag
	UFlag
	WUPFlag
	TypeFlag
	ReglistFlag
	WPReglistFlag
	SFlag
	STypeFlag
)

var flagShapeNames = [...]string{
	"INVLD", "THUMB2_NO_FLAG", "THUMB2_ROTATE_FLAG", "THUMB2_U_FLAG",
	"THUMB2_WUP_FLAG", "THUMB2_TYPE_FLAG", "THUMB2_REGLIST_FLAG",
	"THUMB2_WP_REGLIST_FLAG", "THUMB2_S_FLAG", "THUMB2_S_TYPE_FLAG",
}

func (s FlagShape) String() string {
	if int(s) < len(flagShapeNames) {
		return flagShapeNames[s]
	}
	return "FlagShape(" + strconv.Itoa(int(s)) + ")"
}

// IsThumb2 reports whether t is one of the Thumb2 register recipes.
func (t EncType) IsThumb2() bool {
	return t >= Thumb2NoReg && t < encCount
}
