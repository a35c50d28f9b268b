// Package crosscheck compares ARM decodes against golang.org/x/arch's armasm
// decoder. armasm only handles the ARM instruction set, so Thumb positions
// are skipped.
package crosscheck

import (
	"encoding/binary"
	"fmt"
	"strings"

	"golang.org/x/arch/arm/armasm"

	"armdis/internal/arm"
	"armdis/internal/disasm"
)

// Result is the outcome for one ARM word.
type Result struct {
	Addr   uint32
	Word   uint32
	Ours   string // formatted text, empty if the word did not decode
	Theirs string // armasm GNU syntax, empty if armasm rejected the word
	Match  bool
	Reason string
}

func (r Result) String() string {
	status := "ok"
	if !r.Match {
		status = "MISMATCH " + r.Reason
	}
	return fmt.Sprintf("%08x  %08x  %-32s %-32s %s", r.Addr, r.Word, r.Ours, r.Theirs, status)
}

// Reference decodes w with armasm and returns its GNU syntax.
func Reference(w uint32) (armasm.Inst, string, error) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], w)
	inst, err := armasm.Decode(buf[:], armasm.ModeARM)
	if err != nil {
		return armasm.Inst{}, "", err
	}
	return inst, armasm.GNUSyntax(inst), nil
}

// aliases lists armasm opcode names accepted for each of ours. The two
// decoders pick different preferred names for the same encodings.
var aliases = map[string][]string{
	"MOV":   {"LSL", "LSR", "ASR", "ROR", "RRX", "MOVW"},
	"LSL":   {"MOV"},
	"LSR":   {"MOV"},
	"ASR":   {"MOV"},
	"ROR":   {"MOV"},
	"RRX":   {"MOV"},
	"PUSH":  {"STMDB", "STR"},
	"POP":   {"LDM", "LDMIA", "LDR"},
	"LDM":   {"LDMIA", "POP"},
	"STM":   {"STMIA"},
	"SVC":   {"SWI"},
	"ADR":   {"ADD", "SUB"},
	"MOVW":  {"MOV"},
	"NOP":   {"MOV"},
	"LDRT":  {"LDR"},
	"STRT":  {"STR"},
	"LDRBT": {"LDRB"},
	"STRBT": {"STRB"},
	"PLDW":  {"PLD"},
}

func sameOp(ours, theirs string) bool {
	if ours == theirs {
		return true
	}
	for _, a := range aliases[ours] {
		if a == theirs {
			return true
		}
	}
	return false
}

// splitOp breaks an armasm opcode name such as "ADD.S.EQ" into its base
// name and condition.
func splitOp(op armasm.Op) (base, cond string) {
	parts := strings.Split(op.String(), ".")
	base = parts[0]
	for _, p := range parts[1:] {
		if arm.ConditionIndex(p) != arm.CondInvalid && p != "S" {
			cond = p
		}
	}
	return base, cond
}

// Compare decodes w with both decoders and reports whether they agree on
// the operation and its condition.
func Compare(addr, w uint32) Result {
	r := Result{Addr: addr, Word: w}

	var d arm.Record
	ourErr := arm.DecodeARM(&d, w)
	if ourErr == nil {
		if text, err := d.Format(); err == nil {
			r.Ours = text.Total
		} else {
			r.Ours = d.Instr.String()
		}
	}

	inst, theirs, refErr := Reference(w)
	r.Theirs = theirs

	switch {
	case ourErr != nil && refErr != nil:
		r.Match = true
		return r
	case ourErr != nil:
		r.Reason = "only armasm decodes"
		return r
	case refErr != nil:
		r.Reason = "only armdis decodes"
		return r
	}

	base, cond := splitOp(inst.Op)
	if !sameOp(d.Instr.String(), base) {
		r.Reason = fmt.Sprintf("op %s vs %s", d.Instr, base)
		return r
	}
	if ours := arm.ConditionName(d.Cond, true); d.Cond != arm.CondUncond && ours != cond {
		r.Reason = fmt.Sprintf("cond %q vs %q", ours, cond)
		return r
	}
	r.Match = true
	return r
}

// Report summarises a stream comparison.
type Report struct {
	Checked    int
	Skipped    int // Thumb and data positions
	Mismatches []Result
}

// Agreement is the fraction of checked words both decoders agree on.
func (r Report) Agreement() float64 {
	if r.Checked == 0 {
		return 1
	}
	return float64(r.Checked-len(r.Mismatches)) / float64(r.Checked)
}

// Stream compares every ARM position of s.
func Stream(s disasm.Stream) Report {
	var rep Report
	for i := range s {
		in := &s[i]
		if in.Mode != disasm.ModeARM || in.Size != 4 {
			rep.Skipped++
			continue
		}
		rep.Checked++
		if res := Compare(in.Addr, in.Word); !res.Match {
			rep.Mismatches = append(rep.Mismatches, res)
		}
	}
	return rep
}
