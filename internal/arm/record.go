package arm

import (
	"strconv"
	"strings"
)

// Reg is a core or coprocessor register index.
type Reg int8

const (
	RegInvalid Reg = -1

	R0  Reg = 0
	R1  Reg = 1
	R2  Reg = 2
	R3  Reg = 3
	R4  Reg = 4
	R5  Reg = 5
	R6  Reg = 6
	R7  Reg = 7
	R8  Reg = 8
	R9  Reg = 9
	R10 Reg = 10
	R11 Reg = 11
	R12 Reg = 12
	SP  Reg = 13
	LR  Reg = 14
	PC  Reg = 15
)

var regNames = [16]string{
	"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7",
	"r8", "r9", "r10", "r11", "r12", "sp", "lr", "pc",
}

// RegisterName returns the assembler name of r, or "" for RegInvalid.
func RegisterName(r Reg) string {
	if r < 0 || int(r) >= len(regNames) {
		return ""
	}
	return regNames[r]
}

func (r Reg) String() string {
	if s := RegisterName(r); s != "" {
		return s
	}
	return "invalid"
}

// Cond is an ARM condition code.
type Cond int8

const (
	CondInvalid Cond = -1

	CondEQ Cond = iota - 1
	CondNE
	CondCS
	CondCC
	CondMI
	CondPL
	CondVS
	CondVC
	CondHI
	CondLS
	CondGE
	CondLT
	CondGT
	CondLE
	CondAL
	CondUncond

	CondHS = CondCS
	CondLO = CondCC
)

type condInfo struct {
	name    string
	meaning string
	fp      string
}

var conditions = [16]condInfo{
	{"EQ", "Equal", "Equal"},
	{"NE", "Not equal", "Not equal, or unordered"},
	{"CS", "Carry set", "Greater than, equal, or unordered"},
	{"CC", "Carry clear", "Less than"},
	{"MI", "Minus, negative", "Less than"},
	{"PL", "Plus, positive or zero", "Greater than, equal, or unordered"},
	{"VS", "Overflow", "Unordered"},
	{"VC", "No overflow", "Not unordered"},
	{"HI", "Unsigned higher", "Greater than, or unordered"},
	{"LS", "Unsigned lower or same", "Less than or equal"},
	{"GE", "Signed greater than or equal", "Greater than or equal"},
	{"LT", "Signed less than", "Less than, or unordered"},
	{"GT", "Signed greater than", "Greater than"},
	{"LE", "Signed less than or equal", "Less than, equal, or unordered"},
	{"AL", "Always (unconditional)", "Always (unconditional)"},
	{"", "Unconditional instruction", "Unconditional instruction"},
}

// ConditionName returns the two-letter suffix of c. With omitAL the AL
// condition yields "" since it is never written out.
func ConditionName(c Cond, omitAL bool) string {
	if c < 0 || int(c) >= len(conditions) {
		return ""
	}
	if omitAL && c == CondAL {
		return ""
	}
	return conditions[c].name
}

// ConditionMeaning describes c for integer instructions.
func ConditionMeaning(c Cond) string {
	if c < 0 || int(c) >= len(conditions) {
		return ""
	}
	return conditions[c].meaning
}

// ConditionMeaningFP describes c for floating-point comparisons.
func ConditionMeaningFP(c Cond) string {
	if c < 0 || int(c) >= len(conditions) {
		return ""
	}
	return conditions[c].fp
}

// ConditionIndex maps a suffix back to its condition. The empty string is AL
// and HS/LO are accepted for CS/CC.
func ConditionIndex(name string) Cond {
	switch name {
	case "":
		return CondAL
	case "HS", "hs":
		return CondHS
	case "LO", "lo":
		return CondLO
	}
	for i := CondEQ; i <= CondAL; i++ {
		if n := conditions[i].name; n == name || strings.ToLower(n) == name {
			return i
		}
	}
	return CondInvalid
}

func (c Cond) String() string {
	switch {
	case c == CondUncond:
		return "UNCOND"
	case c >= CondEQ && c <= CondAL:
		return conditions[c].name
	}
	return "INVLD"
}

// ShiftType is the kind of shift applied to a register operand.
type ShiftType int8

const (
	ShiftInvalid ShiftType = -1
	ShiftLSL     ShiftType = 0
	ShiftLSR     ShiftType = 1
	ShiftASR     ShiftType = 2
	ShiftROR     ShiftType = 3
)

var shiftNames = [4]string{"LSL", "LSR", "ASR", "ROR"}

// ShiftName returns the mnemonic of t, or "" when t is not a shift.
func ShiftName(t ShiftType) string {
	if t < 0 || int(t) >= len(shiftNames) {
		return ""
	}
	return shiftNames[t]
}

func (t ShiftType) String() string {
	if s := ShiftName(t); s != "" {
		return s
	}
	return "INVLD"
}

// Flag is a single instruction bit that may not apply to an instruction.
type Flag uint8

const (
	Unset Flag = iota
	Set
	FlagInvalid
)

func flagOf(b uint32) Flag {
	if b&1 != 0 {
		return Set
	}
	return Unset
}

func (f Flag) String() string {
	switch f {
	case Unset:
		return "0"
	case Set:
		return "1"
	}
	return "INVLD"
}

// OptionInvalid marks Record.Option as absent.
const OptionInvalid int8 = -1

// Record is one decoded instruction. A decode call overwrites every field,
// so a Record must not be shared between concurrent decodes.
type Record struct {
	// Word is the encoded instruction. For Thumb2 the first halfword is in
	// the upper 16 bits.
	Word uint32

	Instr    Instr
	Type     EncType
	ImmType  ImmShape
	FlagType FlagShape

	Cond Cond

	B Flag // swap a single byte
	S Flag // update condition flags
	E Flag // big endian
	M Flag // top halfword of Rm
	N Flag // top halfword of Rn
	U Flag // add offset
	H Flag // Thumb target is halfword aligned
	P Flag // pre-indexed
	R Flag // round
	T Flag // PKHTB
	W Flag // write back
	I Flag // Imm is present
	D Flag // long coprocessor transfer

	Option int8
	Rotate uint32

	Rd, Rn, Rm, Ra, Rt, Rt2, RdHi, RdLo, Rs Reg

	Imm    uint32
	SatImm uint32

	ShiftType ShiftType
	Shift     uint32

	Lsb, Msb, Width uint32

	Reglist uint16

	Coproc, Opc1, Opc2 uint32
	CRd, CRn, CRm      Reg

	Firstcond Cond
	Mask      uint8
}

// Reset puts d into the empty state every decode starts from.
func (d *Record) Reset() {
	*d = Record{
		Cond:      CondInvalid,
		ShiftType: ShiftInvalid,
		Option:    OptionInvalid,
		Firstcond: CondInvalid,
	}
	d.B, d.S, d.E, d.M, d.N, d.U, d.H = FlagInvalid, FlagInvalid, FlagInvalid, FlagInvalid, FlagInvalid, FlagInvalid, FlagInvalid
	d.P, d.R, d.T, d.W, d.I, d.D = FlagInvalid, FlagInvalid, FlagInvalid, FlagInvalid, FlagInvalid, FlagInvalid
	d.Rd, d.Rn, d.Rm, d.Ra, d.Rt = RegInvalid, RegInvalid, RegInvalid, RegInvalid, RegInvalid
	d.Rt2, d.RdHi, d.RdLo, d.Rs = RegInvalid, RegInvalid, RegInvalid, RegInvalid
	d.CRd, d.CRn, d.CRm = RegInvalid, RegInvalid, RegInvalid
}

// NewRecord returns a reset Record.
func NewRecord() Record {
	var d Record
	d.Reset()
	return d
}

// Valid reports whether d holds a decoded instruction.
func (d *Record) Valid() bool {
	return d.Instr != InstrInvalid
}

// Offset returns the signed branch displacement held in Imm.
func (d *Record) Offset() int32 {
	return int32(d.Imm)
}

func itoa(v uint32) string {
	return strconv.FormatUint(uint64(v), 10)
}
