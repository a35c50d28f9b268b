package analysis

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"armdis/internal/arm"
	"armdis/internal/disasm"
)

// callSite is a Thumb function at 0x1000 that loads a string pointer from
// its literal pool and calls a logger:
//
//	1000: ldr r0, [pc, #4]   ; =0x100c
//	1002: movs r1, #5
//	1004: bl 1004
//	1008: .word 0x100c
//	100c: "hello\0"
func callSite() (disasm.Stream, Flat) {
	buf := append(thumbBuf(0x4801, 0x2105, 0xf7ff, 0xfffe, 0x100c, 0x0000), "hello\x00"...)
	mem := Flat{Base: 0x1000, Data: buf}
	return disasm.Sweep(buf[:8], 0x1000, disasm.ModeThumb), mem
}

func TestFindCalls(t *testing.T) {
	s, mem := callSite()
	syms := NewSymbolizer(nil)
	syms.Add(0x1004, "log_msg")

	got := FindCalls(s, syms, mem)
	if len(got) != 1 {
		t.Fatalf("FindCalls found %d calls, want 1", len(got))
	}
	f := got[0]
	want := []ParamValue{
		{Reg: arm.R0, Value: "hello", From: "string", TraceVA: 0x1000},
		{Reg: arm.R1, Value: uint32(5), From: "immediate", TraceVA: 0x1002},
	}
	if diff := cmp.Diff(want, f.Args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
	if f.CallVA != 0x1004 || f.TargetVA != 0x1004 || f.Target != "log_msg" {
		t.Errorf("call = %+v", f)
	}
	if f.TraceMin != 0x1000 {
		t.Errorf("TraceMin = %#x, want 0x1000", f.TraceMin)
	}
	if f.Comment != `log_msg(r0="hello", r1=0x5)` {
		t.Errorf("Comment = %q", f.Comment)
	}
}

func TestFindCallsIndirect(t *testing.T) {
	// mov r3, #0x8000; blx r3; blx r3
	s := disasm.Sweep(armBuf(0xe3a03902, 0xe12fff33, 0xe12fff33), 0, disasm.ModeARM)
	got := FindCalls(s, nil, nil)
	if len(got) != 2 {
		t.Fatalf("FindCalls found %d calls, want 2", len(got))
	}
	if got[0].TargetVA != 0x8000 || got[0].Target != "loc_8000" {
		t.Errorf("first call = %+v", got[0])
	}
	// The first call clobbers r3.
	if got[1].TargetVA != 0 || got[1].Target != "indirect" {
		t.Errorf("second call = %+v", got[1])
	}
}

func TestRegisterStateClobbers(t *testing.T) {
	state := NewRegisterState()
	for _, w := range []uint32{
		0xe3a00001, // mov r0, #1
		0xe3a01002, // mov r1, #2
		0xe0802001, // add r2, r0, r1
		0x03a03007, // moveq r3, #7
	} {
		in := disasm.DecodeAt(armBuf(w), 0, disasm.ModeARM)
		state.Step(&in, nil)
	}
	if v, ok := state.Value(arm.R2); !ok || v != 3 {
		t.Errorf("r2 = %d, %v, want 3", v, ok)
	}
	if _, ok := state.Value(arm.R3); ok {
		t.Errorf("conditional write should leave r3 unknown")
	}

	in := disasm.DecodeAt(armBuf(0xebfffffe), 0, disasm.ModeARM) // bl
	state.Step(&in, nil)
	for _, r := range []arm.Reg{arm.R0, arm.R1, arm.R2} {
		if _, ok := state.Value(r); ok {
			t.Errorf("%s should be clobbered by the call", r)
		}
	}

	in = disasm.DecodeAt(armBuf(0xe12fff1e), 0, disasm.ModeARM) // bx lr
	state.Step(&in, nil)
	if len(state.regs) != 0 {
		t.Errorf("return should reset the state, have %v", state.regs)
	}
}

func TestFormatStringDetector(t *testing.T) {
	findings := []CallFinding{
		{
			Target:   "printf@plt",
			Args:     []ParamValue{{Reg: arm.R0, Value: "%s: %d%%\n"}},
			Comment:  "printf@plt(...)",
			Metadata: map[string]any{},
		},
		{
			Target:   "snprintf",
			Args:     []ParamValue{{Reg: arm.R0, Value: uint32(0x100)}, {Reg: arm.R2, Value: "%*d"}},
			Metadata: map[string]any{},
		},
		{
			Target:   "memcpy",
			Args:     []ParamValue{{Reg: arm.R0, Value: "%d"}},
			Metadata: map[string]any{},
		},
	}
	got := DefaultDetectors().Detect(findings)

	if n := got[0].Metadata["format_args"]; n != 2 {
		t.Errorf("printf format args = %v, want 2", n)
	}
	if !strings.HasSuffix(got[0].Comment, "[format takes 2 args]") {
		t.Errorf("printf comment = %q", got[0].Comment)
	}
	if n := got[1].Metadata["format_args"]; n != 2 {
		t.Errorf("snprintf format args = %v, want 2", n)
	}
	if _, ok := got[2].Metadata["format"]; ok {
		t.Errorf("memcpy should not be treated as a format call")
	}
}

func TestCountDirectives(t *testing.T) {
	tests := []struct {
		format string
		want   int
	}{
		{"plain", 0},
		{"%d", 1},
		{"100%%", 0},
		{"%-8s|%08x", 2},
		{"%.*f", 2},
		{"%lld %zu", 2},
	}
	for _, tt := range tests {
		if got := countDirectives(tt.format); got != tt.want {
			t.Errorf("countDirectives(%q) = %d, want %d", tt.format, got, tt.want)
		}
	}
}
