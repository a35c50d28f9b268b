package analysis

import (
	"fmt"
	"strings"

	"armdis/internal/arm"
	"armdis/internal/disasm"
)

// ParamValue is what the call tracer resolved for one argument register.
type ParamValue struct {
	Reg     arm.Reg
	Value   any    // uint32 or string
	From    string // "immediate", "literal", "adr", "computed", "string"
	TraceVA uint32 // where the register was last set
}

func (p ParamValue) String() string {
	switch v := p.Value.(type) {
	case string:
		return fmt.Sprintf("%s=%q", p.Reg, v)
	case uint32:
		return fmt.Sprintf("%s=0x%x", p.Reg, v)
	}
	return fmt.Sprintf("%s=?", p.Reg)
}

// CallFinding is a call site with whatever argument values could be traced.
type CallFinding struct {
	CallVA   uint32
	TargetVA uint32 // 0 for unresolved indirect calls
	Target   string // demangled name, "loc_..." or "indirect"
	Args     []ParamValue
	Comment  string
	TraceMin uint32 // earliest VA that set up an argument
	Metadata map[string]any
}

// RegisterState tracks registers holding known constants along a linear
// stream. Anything it cannot model makes the written registers unknown.
type RegisterState struct {
	regs    map[arm.Reg]uint32
	from    map[arm.Reg]string
	sources map[arm.Reg]uint32
}

func NewRegisterState() *RegisterState {
	s := &RegisterState{}
	s.Reset()
	return s
}

// Reset forgets every register.
func (s *RegisterState) Reset() {
	s.regs = make(map[arm.Reg]uint32)
	s.from = make(map[arm.Reg]string)
	s.sources = make(map[arm.Reg]uint32)
}

// Value returns the known value of r.
func (s *RegisterState) Value(r arm.Reg) (uint32, bool) {
	v, ok := s.regs[r]
	return v, ok
}

func (s *RegisterState) set(r arm.Reg, v uint32, from string, va uint32) {
	if r == arm.RegInvalid || r == arm.PC {
		return
	}
	s.regs[r] = v
	s.from[r] = from
	s.sources[r] = va
}

func (s *RegisterState) clear(regs ...arm.Reg) {
	for _, r := range regs {
		delete(s.regs, r)
		delete(s.from, r)
		delete(s.sources, r)
	}
}

// read returns r's value as seen by in, where pc reads ahead.
func (s *RegisterState) read(r arm.Reg, in *disasm.Inst) (uint32, bool) {
	if r == arm.PC {
		return PC(in), true
	}
	return s.Value(r)
}

// callerSaved are the registers a call may clobber.
var callerSaved = []arm.Reg{arm.R0, arm.R1, arm.R2, arm.R3, arm.R12, arm.LR}

// Step applies the effect of in. Conditional writes make the destination
// unknown since the trace does not know which way the condition went.
func (s *RegisterState) Step(in *disasm.Inst, mem Memory) {
	if !in.Valid() {
		return
	}
	d := &in.Record
	conditional := d.Cond >= arm.CondEQ && d.Cond < arm.CondAL

	v, from, ok := s.eval(in, mem)
	written := writtenRegs(d)
	s.clear(written...)
	if ok && !conditional && len(written) == 1 {
		s.set(written[0], v, from, in.Addr)
	}

	if IsReturn(in) || (d.Instr == arm.B && !conditional) {
		s.Reset()
	}
}

// eval computes the single value in writes, if it is a constant.
func (s *RegisterState) eval(in *disasm.Inst, mem Memory) (uint32, string, bool) {
	d := &in.Record

	if lit, ok := LiteralAddr(in); ok {
		if !lit.Load {
			return lit.Addr, "adr", true
		}
		if lit.Size == 4 && mem != nil {
			if w, ok := ReadWord(mem, lit.Addr); ok {
				return w, "literal", true
			}
		}
		return 0, "", false
	}

	plain := d.ShiftType == arm.ShiftInvalid || (d.Rs == arm.RegInvalid && d.Shift == 0 && d.ShiftType == arm.ShiftLSL)
	switch d.Instr {
	case arm.MOV, arm.MOVW:
		if d.I == arm.Set {
			return d.Imm, "immediate", true
		}
		if d.Rm != arm.RegInvalid && plain {
			if v, ok := s.read(d.Rm, in); ok {
				return v, s.fromOf(d.Rm), true
			}
		}
	case arm.MVN:
		if d.I == arm.Set {
			return ^d.Imm, "immediate", true
		}
	case arm.MOVT:
		if v, ok := s.Value(d.Rd); ok {
			return v&0xffff | d.Imm<<16, "immediate", true
		}
	case arm.ADD, arm.SUB, arm.ADDW, arm.SUBW:
		base := d.Rn
		if base == arm.RegInvalid {
			base = d.Rd
		}
		a, ok := s.read(base, in)
		if !ok {
			return 0, "", false
		}
		var b uint32
		switch {
		case d.I == arm.Set:
			b = d.Imm
		case d.Rm != arm.RegInvalid && plain:
			if b, ok = s.read(d.Rm, in); !ok {
				return 0, "", false
			}
		default:
			return 0, "", false
		}
		if d.Instr == arm.SUB || d.Instr == arm.SUBW {
			return a - b, "computed", true
		}
		return a + b, "computed", true
	}
	return 0, "", false
}

func (s *RegisterState) fromOf(r arm.Reg) string {
	if f, ok := s.from[r]; ok {
		return f
	}
	return "computed"
}

// writtenRegs lists the registers d may modify, ignoring flags and memory.
func writtenRegs(d *arm.Record) []arm.Reg {
	var out []arm.Reg
	switch d.Instr {
	case arm.CMP, arm.CMN, arm.TST, arm.TEQ, arm.B, arm.BX, arm.CBZ, arm.CBNZ, arm.IT, arm.NOP:
		return nil
	case arm.BL, arm.BLX:
		return callerSaved
	case arm.STR, arm.STRB, arm.STRH, arm.STRD, arm.PUSH, arm.STM, arm.STMDB:
		if d.W == arm.Set && d.Rn != arm.RegInvalid {
			out = append(out, d.Rn)
		}
		if d.Instr == arm.PUSH {
			out = append(out, arm.SP)
		}
		return out
	case arm.POP, arm.LDM, arm.LDMDB, arm.LDMDA, arm.LDMIB:
		for r := arm.R0; r <= arm.PC; r++ {
			if d.Reglist&(1<<uint(r)) != 0 {
				out = append(out, r)
			}
		}
		if d.W == arm.Set || d.Instr == arm.POP {
			out = append(out, arm.SP, d.Rn)
		}
		return out
	}
	for _, r := range []arm.Reg{d.Rd, d.Rt, d.Rt2, d.RdHi, d.RdLo} {
		if r != arm.RegInvalid {
			out = append(out, r)
		}
	}
	if d.W == arm.Set && d.Rn != arm.RegInvalid && d.Rt != arm.RegInvalid {
		out = append(out, d.Rn)
	}
	return out
}

// argRegs are the AAPCS argument registers.
var argRegs = []arm.Reg{arm.R0, arm.R1, arm.R2, arm.R3}

// FindCalls walks s and reports every call with the argument registers
// known at the call site. Pointers to C strings are resolved through mem.
func FindCalls(s disasm.Stream, syms *Symbolizer, mem Memory) []CallFinding {
	if syms == nil {
		syms = NewSymbolizer(nil)
	}
	state := NewRegisterState()
	var findings []CallFinding

	for i := range s {
		in := &s[i]
		if f, ok := callAt(in, state, syms, mem); ok {
			findings = append(findings, f)
		}
		state.Step(in, mem)
	}
	return findings
}

func callAt(in *disasm.Inst, state *RegisterState, syms *Symbolizer, mem Memory) (CallFinding, bool) {
	if !in.Valid() {
		return CallFinding{}, false
	}
	d := &in.Record
	f := CallFinding{CallVA: in.Addr, Metadata: map[string]any{}}

	switch t, ok := BranchTarget(in); {
	case ok && t.Call:
		f.TargetVA = t.Addr
	case d.Instr == arm.BLX && d.I != arm.Set:
		if v, ok := state.Value(d.Rm); ok {
			f.TargetVA = v &^ 1
		} else {
			f.Target = "indirect"
		}
	default:
		return CallFinding{}, false
	}
	if f.Target == "" {
		if name, ok := syms.Lookup(f.TargetVA); ok {
			f.Target = name
		} else {
			f.Target = syms.Describe(f.TargetVA)
		}
	}

	f.TraceMin = in.Addr
	for _, r := range argRegs {
		v, ok := state.Value(r)
		if !ok {
			continue
		}
		p := ParamValue{Reg: r, Value: v, From: state.fromOf(r), TraceVA: state.sources[r]}
		if mem != nil {
			if str, ok := ReadCString(mem, v, MaxStringLength); ok {
				p.Value, p.From = str, "string"
			}
		}
		f.Args = append(f.Args, p)
		if p.TraceVA < f.TraceMin {
			f.TraceMin = p.TraceVA
		}
	}
	f.Comment = callComment(f)
	return f, true
}

func callComment(f CallFinding) string {
	args := make([]string, len(f.Args))
	for i, a := range f.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", f.Target, strings.Join(args, ", "))
}

func (f CallFinding) String() string {
	return fmt.Sprintf("%08x  %s", f.CallVA, f.Comment)
}
