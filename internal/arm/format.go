package arm

import (
	"errors"
	"math/bits"
	"strconv"
	"strings"
)

// ErrNoFormat is returned when a record has no textual form.
var ErrNoFormat = errors.New("instruction has no format")

// Text is a formatted instruction. Total joins the mnemonic, the arguments
// and the trailing shift the way an assembler listing shows them.
type Text struct {
	Mnemonic string
	Args     []string
	Shift    string
	Total    string
}

// maxArgs bounds the operand list of every template.
const maxArgs = 6

// formats holds up to three templates per mnemonic. When a directive cannot
// be satisfied the walk continues at the same offset in the next template.
//
//	s  S suffix            c  condition suffix     d n m a t h l  registers
//	2  Rt2, else Rt+1      i  immediate            S  shift
//	!  write-back mark     e  endianness           x  X suffix (M)
//	X  BB/BT/TB/TT (N, M)  y  B/T (M)              R  R suffix
//	T  TB/BT               r  register list        L w  lsb, width
//	o  barrier option      B O  memory base, offset
//	b  branch offset       M  memory operand       A  rotation
//	C  coprocessor         p P  opc1, opc2         N J I  CRn, CRm, CRd
//	D  L suffix            k  saturate bit         q  status register
var formats = [instrCount][]string{
	ADC:     {"scdnmS", "scdni"},
	ADD:     {"scdnmS", "scdni"},
	ADDW:    {"cdni"},
	ADR:     {"cdb"},
	AND:     {"scdnmS", "scdni"},
	ASR:     {"scdnm", "scdmS"},
	B:       {"cb"},
	BFC:     {"cdLw"},
	BFI:     {"cdnLw"},
	BIC:     {"scdnmS", "scdni"},
	BKPT:    {"i"},
	BL:      {"cb"},
	BLX:     {"b", "cm"},
	BX:      {"cm"},
	BXJ:     {"cm"},
	CDP:     {"cCpINJP"},
	CDP2:    {"cCpINJP"},
	CLREX:   {""},
	CLZ:     {"cdm"},
	CMN:     {"cnmS", "cni"},
	CMP:     {"cnmS", "cni"},
	DBG:     {"co"},
	DMB:     {"o"},
	DSB:     {"o"},
	EOR:     {"scdnmS", "scdni"},
	ISB:     {"o"},
	LDC:     {"DcCIBO"},
	LDC2:    {"DcCIBO"},
	LDM:     {"cn!r"},
	LDMDA:   {"cn!r"},
	LDMDB:   {"cn!r"},
	LDMIB:   {"cn!r"},
	LDR:     {"ctBOS"},
	LDRB:    {"ctBOS"},
	LDRBT:   {"ctBOS"},
	LDRD:    {"ct2BO"},
	LDREX:   {"ctB"},
	LDREXB:  {"ctB"},
	LDREXD:  {"ct2B"},
	LDREXH:  {"ctB"},
	LDRH:    {"ctBOS"},
	LDRHT:   {"ctBO"},
	LDRSB:   {"ctBOS"},
	LDRSBT:  {"ctBO"},
	LDRSH:   {"ctBOS"},
	LDRSHT:  {"ctBO"},
	LDRT:    {"ctBOS"},
	LSL:     {"scdnm", "scdmS"},
	LSR:     {"scdnm", "scdmS"},
	MCR:     {"cCptNJP"},
	MCR2:    {"cCptNJP"},
	MCRR:    {"cCpt2J"},
	MCRR2:   {"cCpt2J"},
	MLA:     {"scdnma"},
	MLS:     {"cdnma"},
	MOV:     {"scdi", "scdm"},
	MOVT:    {"cdi"},
	MOVW:    {"cdi"},
	MRC:     {"cCptNJP"},
	MRC2:    {"cCptNJP"},
	MRRC:    {"cCpt2J"},
	MRRC2:   {"cCpt2J"},
	MRS:     {"cdq"},
	MSR:     {"cqn"},
	MUL:     {"scdnm"},
	MVN:     {"scdi", "scdmS"},
	NOP:     {"c"},
	ORN:     {"scdnmS", "scdni"},
	ORR:     {"scdnmS", "scdni"},
	PKH:     {"TcdnmS"},
	PLD:     {"cM"},
	PLDW:    {"cM"},
	PLI:     {"cM"},
	POP:     {"cr"},
	PUSH:    {"cr"},
	QADD:    {"cdmn"},
	QADD16:  {"cdnm"},
	QADD8:   {"cdnm"},
	QASX:    {"cdnm"},
	QDADD:   {"cdmn"},
	QDSUB:   {"cdmn"},
	QSAX:    {"cdnm"},
	QSUB:    {"cdmn"},
	QSUB16:  {"cdnm"},
	QSUB8:   {"cdnm"},
	RBIT:    {"cdm"},
	REV:     {"cdm"},
	REV16:   {"cdm"},
	REVSH:   {"cdm"},
	RFE:     {"cn!"},
	ROR:     {"scdnm", "scdmS"},
	RRX:     {"scdm"},
	RSB:     {"scdnmS", "scdni"},
	RSC:     {"scdnmS", "scdni"},
	SADD16:  {"cdnm"},
	SADD8:   {"cdnm"},
	SASX:    {"cdnm"},
	SBC:     {"scdnmS", "scdni"},
	SBFX:    {"cdnLw"},
	SDIV:    {"cdnm"},
	SEL:     {"cdnm"},
	SETEND:  {"e"},
	SEV:     {"c"},
	SHADD16: {"cdnm"},
	SHADD8:  {"cdnm"},
	SHASX:   {"cdnm"},
	SHSAX:   {"cdnm"},
	SHSUB16: {"cdnm"},
	SHSUB8:  {"cdnm"},
	SMC:     {"ci"},
	SMLA:    {"Xcdnma"},
	SMLABB:  {"cdnma"},
	SMLABT:  {"cdnma"},
	SMLAD:   {"xcdnma"},
	SMLAL:   {"Xclhnm", "sclhnm"},
	SMLALBB: {"clhnm"},
	SMLALBT: {"clhnm"},
	SMLALD:  {"xclhnm"},
	SMLALTB: {"clhnm"},
	SMLALTT: {"clhnm"},
	SMLATB:  {"cdnma"},
	SMLATT:  {"cdnma"},
	SMLAW:   {"ycdnma"},
	SMLSD:   {"xcdnma"},
	SMLSLD:  {"xclhnm"},
	SMMLA:   {"Rcdnma"},
	SMMLS:   {"Rcdnma"},
	SMMUL:   {"Rcdnm"},
	SMUAD:   {"xcdnm"},
	SMUL:    {"Xcdnm"},
	SMULBB:  {"cdnm"},
	SMULBT:  {"cdnm"},
	SMULL:   {"sclhnm"},
	SMULTB:  {"cdnm"},
	SMULTT:  {"cdnm"},
	SMULW:   {"ycdnm"},
	SMUSD:   {"xcdnm"},
	SRS:     {"cn!i"},
	SSAT:    {"cdknS"},
	SSAT16:  {"cdkn"},
	SSAX:    {"cdnm"},
	SSUB16:  {"cdnm"},
	SSUB8:   {"cdnm"},
	STC:     {"DcCIBO"},
	STC2:    {"DcCIBO"},
	STM:     {"cn!r"},
	STMDA:   {"cn!r"},
	STMDB:   {"cn!r"},
	STMIB:   {"cn!r"},
	STR:     {"ctBOS"},
	STRB:    {"ctBOS"},
	STRBT:   {"ctBOS"},
	STRD:    {"ct2BO"},
	STREX:   {"cdtB"},
	STREXB:  {"cdtB"},
	STREXD:  {"cdt2B"},
	STREXH:  {"cdtB"},
	STRH:    {"ctBOS"},
	STRHT:   {"ctBO"},
	STRT:    {"ctBOS"},
	SUB:     {"scdnmS", "scdni"},
	SUBW:    {"cdni"},
	SVC:     {"ci"},
	SWP:     {"ct2B"},
	SWPB:    {"ct2B"},
	SXTAB:   {"cdnmA"},
	SXTAB16: {"cdnmA"},
	SXTAH:   {"cdnmA"},
	SXTB:    {"cdmA"},
	SXTB16:  {"cdmA"},
	SXTH:    {"cdmA"},
	TBB:     {"cM"},
	TBH:     {"cM"},
	TEQ:     {"cnmS", "cni"},
	TST:     {"cnmS", "cni"},
	UADD16:  {"cdnm"},
	UADD8:   {"cdnm"},
	UASX:    {"cdnm"},
	UBFX:    {"cdnLw"},
	UDF:     {"ci"},
	UDIV:    {"cdnm"},
	UHADD16: {"cdnm"},
	UHADD8:  {"cdnm"},
	UHASX:   {"cdnm"},
	UHSAX:   {"cdnm"},
	UHSUB16: {"cdnm"},
	UHSUB8:  {"cdnm"},
	UMAAL:   {"clhnm"},
	UMLAL:   {"sclhnm"},
	UMULL:   {"sclhnm"},
	UQADD16: {"cdnm"},
	UQADD8:  {"cdnm"},
	UQASX:   {"cdnm"},
	UQSAX:   {"cdnm"},
	UQSUB16: {"cdnm"},
	UQSUB8:  {"cdnm"},
	USAD8:   {"cdnm"},
	USADA8:  {"cdnma"},
	USAT:    {"cdknS"},
	USAT16:  {"cdkn"},
	USAX:    {"cdnm"},
	USUB16:  {"cdnm"},
	USUB8:   {"cdnm"},
	UXTAB:   {"cdnmA"},
	UXTAB16: {"cdnmA"},
	UXTAH:   {"cdnmA"},
	UXTB:    {"cdmA"},
	UXTB16:  {"cdmA"},
	UXTH:    {"cdmA"},
	WFE:     {"c"},
	WFI:     {"c"},
	YIELD:   {"c"},
}

var barrierOptions = [16]string{
	2: "OSHST", 3: "OSH", 6: "NSHST", 7: "NSH",
	10: "ISHST", 11: "ISH", 14: "ST", 15: "SY",
}

// Format renders d in upper case mnemonics with lower case registers.
func (d *Record) Format() (Text, error) {
	return format(d)
}

// FormatLower renders d entirely in lower case.
func (d *Record) FormatLower() (Text, error) {
	t, err := format(d)
	if err != nil {
		return t, err
	}
	t.Mnemonic = strings.ToLower(t.Mnemonic)
	for i := range t.Args {
		t.Args[i] = strings.ToLower(t.Args[i])
	}
	t.Shift = strings.ToLower(t.Shift)
	t.Total = strings.ToLower(t.Total)
	return t, nil
}

func (d *Record) String() string {
	t, err := d.Format()
	if err != nil {
		return "INVLD"
	}
	return t.Total
}

func format(d *Record) (Text, error) {
	if d.Instr == InstrInvalid || d.Instr >= instrCount {
		return Text{}, ErrNoFormat
	}

	f := &formatter{d: d}
	f.mnemonic.WriteString(MnemonicName(d.Instr))

	var ok bool
	switch d.Instr {
	case CBZ, CBNZ:
		f.arg(RegisterName(d.Rn))
		f.arg("#+" + immString(d.Imm))
		ok = d.Rn != RegInvalid
	case IT:
		ok = f.ifThen()
	default:
		ok = f.run(formats[d.Instr])
	}
	if !ok || len(f.args) > maxArgs {
		return Text{}, ErrNoFormat
	}
	return f.text(), nil
}

type formatter struct {
	d        *Record
	mnemonic strings.Builder
	args     []string
	shift    string
	// open is set while the last argument is a pre-indexed memory operand
	// still waiting for its offset, shift and closing bracket.
	open bool
}

func (f *formatter) arg(s string) {
	f.args = append(f.args, s)
}

func (f *formatter) run(templates []string) bool {
	if len(templates) == 0 {
		return false
	}
	idx := 0
	for off := 0; off < len(templates[idx]); off++ {
		ok, valid := f.directive(templates[idx][off])
		if !valid {
			return false
		}
		if ok {
			continue
		}
		idx++
		if idx == len(templates) || off >= len(templates[idx]) {
			return false
		}
		off--
	}
	f.closeMemory()
	return true
}

// directive applies one template character. ok is false when the record
// lacks what the directive needs, valid is false for unknown directives.
func (f *formatter) directive(ch byte) (ok, valid bool) {
	d := f.d
	switch ch {
	case 's':
		if d.S == Set {
			f.mnemonic.WriteByte('S')
		}
	case 'c':
		f.mnemonic.WriteString(ConditionName(d.Cond, true))
	case 'd':
		return f.reg(d.Rd), true
	case 'n':
		return f.reg(d.Rn), true
	case 'm':
		return f.reg(d.Rm), true
	case 'a':
		return f.reg(d.Ra), true
	case 't':
		return f.reg(d.Rt), true
	case 'h':
		return f.reg(d.RdHi), true
	case 'l':
		return f.reg(d.RdLo), true
	case '2':
		if d.Rt2 != RegInvalid {
			return f.reg(d.Rt2), true
		}
		if d.Rt == RegInvalid || d.Rt == PC {
			return false, true
		}
		return f.reg(d.Rt + 1), true
	case 'i':
		if d.I != Set {
			return false, true
		}
		f.arg("#" + immString(d.Imm))
	case 'k':
		f.arg("#" + itoa(d.SatImm))
	case 'S':
		f.shiftOperand()
	case '!':
		if d.W == Set && len(f.args) > 0 {
			f.args[len(f.args)-1] += "!"
		}
	case 'e':
		if d.E == Set {
			f.arg("BE")
		} else {
			f.arg("LE")
		}
	case 'x':
		if d.M == Set {
			f.mnemonic.WriteByte('X')
		}
	case 'X':
		if d.N == FlagInvalid || d.M == FlagInvalid {
			return false, true
		}
		f.mnemonic.WriteByte(half(d.N))
		f.mnemonic.WriteByte(half(d.M))
	case 'y':
		if d.M == FlagInvalid {
			return false, true
		}
		f.mnemonic.WriteByte(half(d.M))
	case 'R':
		if d.R == Set {
			f.mnemonic.WriteByte('R')
		}
	case 'T':
		if d.T == Set {
			f.mnemonic.WriteString("TB")
		} else {
			f.mnemonic.WriteString("BT")
		}
	case 'D':
		if d.D == Set {
			f.mnemonic.WriteByte('L')
		}
	case 'r':
		if d.Reglist != 0 {
			f.arg(Reglist(d.Reglist))
		} else if d.Rt != RegInvalid {
			f.arg("{" + RegisterName(d.Rt) + "}")
		} else {
			return false, true
		}
	case 'L':
		f.arg("#" + itoa(d.Lsb))
	case 'w':
		f.arg("#" + itoa(d.Width))
	case 'o':
		if d.Option == OptionInvalid {
			return false, true
		}
		if s := barrierOptions[d.Option&0xf]; s != "" && d.Instr != DBG {
			f.arg(s)
		} else {
			f.arg("#" + strconv.Itoa(int(d.Option)))
		}
	case 'B':
		if d.Rn == RegInvalid {
			return false, true
		}
		if d.P == Set {
			f.arg("[" + RegisterName(d.Rn))
			f.open = true
		} else {
			f.arg("[" + RegisterName(d.Rn) + "]")
		}
	case 'O':
		f.offset()
	case 'b':
		return f.branch(), true
	case 'M':
		return f.memory(), true
	case 'A':
		if d.Rotate != 0 {
			f.arg("ROR #" + itoa(d.Rotate))
		}
	case 'C':
		f.arg("p" + itoa(d.Coproc))
	case 'p':
		f.arg("#" + itoa(d.Opc1))
	case 'P':
		f.arg("#" + itoa(d.Opc2))
	case 'N':
		return f.coprocReg(d.CRn), true
	case 'J':
		return f.coprocReg(d.CRm), true
	case 'I':
		return f.coprocReg(d.CRd), true
	case 'q':
		f.statusRegister()
	default:
		return false, false
	}
	return true, true
}

func (f *formatter) reg(r Reg) bool {
	if r == RegInvalid {
		return false
	}
	f.arg(RegisterName(r))
	return true
}

func (f *formatter) coprocReg(r Reg) bool {
	if r == RegInvalid {
		return false
	}
	f.arg("c" + strconv.Itoa(int(r)))
	return true
}

func half(fl Flag) byte {
	if fl == Set {
		return 'T'
	}
	return 'B'
}

// shiftText renders the shift of d, or "" when it has none.
func (f *formatter) shiftText() string {
	d := f.d
	if d.ShiftType == ShiftInvalid {
		return ""
	}
	if d.Rs != RegInvalid {
		return ShiftName(d.ShiftType) + " " + RegisterName(d.Rs)
	}
	typ, amount, err := ImmShift(d)
	if err != nil {
		return ""
	}
	switch d.Instr {
	case LSL, LSR, ASR, ROR, RRX:
		return "#" + itoa(amount)
	}
	if typ == "RRX" {
		return typ
	}
	return typ + " #" + itoa(amount)
}

func (f *formatter) shiftOperand() {
	s := f.shiftText()
	if f.open {
		if s != "" {
			f.args[len(f.args)-1] += ", " + s
		}
		f.closeMemory()
		return
	}
	if s != "" {
		f.shift = s
	}
}

func (f *formatter) offset() {
	d := f.d
	var off string
	switch {
	case d.Rm != RegInvalid:
		off = RegisterName(d.Rm)
		if d.U == Unset {
			off = "-" + off
		}
	case d.Imm != 0:
		off = "#"
		if d.U == Unset {
			off = "#-"
		}
		off += immString(d.Imm)
	}
	if off == "" {
		return
	}
	if f.open {
		f.args[len(f.args)-1] += ", " + off
		return
	}
	f.arg(off)
}

func (f *formatter) closeMemory() {
	if !f.open {
		return
	}
	f.open = false
	last := len(f.args) - 1
	f.args[last] += "]"
	if f.d.W == Set {
		f.args[last] += "!"
	}
}

// branch renders a branch displacement. BLX only takes this form once the
// decoder has set H; the register form leaves it unset.
func (f *formatter) branch() bool {
	d := f.d
	if d.Instr == BLX && d.H == FlagInvalid {
		return false
	}
	if d.I != Set {
		return false
	}
	switch off := d.Offset(); {
	case off < 0 && d.Instr != ADR:
		f.arg("#-" + immString(uint32(-off)))
	case d.U == Unset:
		f.arg("#-" + immString(d.Imm))
	default:
		f.arg("#+" + immString(d.Imm))
	}
	return true
}

func (f *formatter) memory() bool {
	d := f.d
	if d.Rn == RegInvalid {
		return false
	}
	var b strings.Builder
	b.WriteString("[" + RegisterName(d.Rn))
	switch {
	case d.Rm != RegInvalid:
		b.WriteString(", ")
		if d.U == Unset {
			b.WriteByte('-')
		}
		b.WriteString(RegisterName(d.Rm))
		if typ, amount, err := ImmShift(d); err == nil {
			b.WriteString(", " + typ + " #" + itoa(amount))
		}
	case d.Imm != 0:
		b.WriteString(", #")
		if d.U == Unset {
			b.WriteByte('-')
		}
		b.WriteString(immString(d.Imm))
	}
	b.WriteByte(']')
	if d.P == Set && d.W == Set {
		b.WriteByte('!')
	}
	f.arg(b.String())
	return true
}

func (f *formatter) statusRegister() {
	d := f.d
	psr := "APSR"
	if d.R == Set {
		psr = "SPSR"
	}
	if d.Instr == MSR && d.I == Set {
		var fields string
		if d.Imm&2 != 0 {
			fields += "nzcvq"
		}
		if d.Imm&1 != 0 {
			fields += "g"
		}
		if fields != "" {
			psr += "_" + fields
		}
	}
	f.arg(psr)
}

// ifThen renders IT with one T or E per instruction after the first, taken
// from the mask bits above its lowest set bit.
func (f *formatter) ifThen() bool {
	d := f.d
	cond := ConditionName(d.Firstcond, false)
	if d.Mask&0xf == 0 || cond == "" {
		return false
	}
	last := bits.TrailingZeros8(d.Mask)
	for i := 3; i > last; i-- {
		if (d.Mask>>uint(i))&1 == uint8(d.Firstcond)&1 {
			f.mnemonic.WriteByte('T')
		} else {
			f.mnemonic.WriteByte('E')
		}
	}
	f.arg(cond)
	return true
}

func (f *formatter) text() Text {
	t := Text{
		Mnemonic: f.mnemonic.String(),
		Args:     f.args,
		Shift:    f.shift,
	}
	var b strings.Builder
	b.WriteString(t.Mnemonic)
	for i, a := range t.Args {
		if i != 0 {
			b.WriteByte(',')
		}
		b.WriteByte(' ')
		b.WriteString(a)
	}
	if t.Shift != "" {
		b.WriteString(", " + t.Shift)
	}
	t.Total = b.String()
	return t
}

// immString prints small immediates in decimal and large ones in hex.
func immString(v uint32) string {
	if v > 0x1000 {
		return "0x" + strconv.FormatUint(uint64(v), 16)
	}
	return itoa(v)
}

// ImmShift returns the shift applied to d's register operand. LSR and ASR
// by 0 encode a shift by 32 and ROR by 0 is RRX.
func ImmShift(d *Record) (typ string, amount uint32, err error) {
	if d.ShiftType == ShiftInvalid {
		return "", 0, ErrNoFormat
	}
	if d.Rs == RegInvalid && d.Shift == 0 {
		switch d.ShiftType {
		case ShiftROR:
			return "RRX", 0, nil
		case ShiftLSR, ShiftASR:
			return ShiftName(d.ShiftType), 32, nil
		}
	}
	return ShiftName(d.ShiftType), d.Shift, nil
}

// Reglist renders a register list, collapsing runs of three or more
// registers into a range.
func Reglist(list uint16) string {
	if list == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteByte('{')
	for list != 0 {
		start := bits.TrailingZeros16(list)
		end := start
		for end < 16 && list&(1<<uint(end)) != 0 {
			list &^= 1 << uint(end)
			end++
		}
		if b.Len() > 1 {
			b.WriteByte(',')
		}
		b.WriteString(regNames[start])
		switch end - start {
		case 1:
		case 2:
			b.WriteString("," + regNames[end-1])
		default:
			b.WriteString("-" + regNames[end-1])
		}
	}
	b.WriteByte('}')
	return b.String()
}
