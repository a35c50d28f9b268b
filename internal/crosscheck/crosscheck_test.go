package crosscheck

import (
	"encoding/binary"
	"testing"

	"armdis/internal/disasm"
)

func TestCompareAgrees(t *testing.T) {
	words := []uint32{
		0xe0810002, // add r0, r1, r2
		0x0a000000, // beq
		0xe5910004, // ldr r0, [r1, #4]
		0xe3500000, // cmp r0, #0
		0xe12fff1e, // bx lr
		0xe0000291, // mul r0, r1, r2
	}
	for _, w := range words {
		res := Compare(0, w)
		if !res.Match {
			t.Errorf("Compare(%#08x) = %s", w, res)
		}
		if res.Ours == "" || res.Theirs == "" {
			t.Errorf("Compare(%#08x) missing text: %+v", w, res)
		}
	}
}

func TestSameOp(t *testing.T) {
	tests := []struct {
		ours, theirs string
		want         bool
	}{
		{"ADD", "ADD", true},
		{"PUSH", "STMDB", true},
		{"LSL", "MOV", true},
		{"ADD", "SUB", false},
		{"POP", "STM", false},
	}
	for _, tt := range tests {
		if got := sameOp(tt.ours, tt.theirs); got != tt.want {
			t.Errorf("sameOp(%s, %s) = %v, want %v", tt.ours, tt.theirs, got, tt.want)
		}
	}
}

func TestStreamSkipsThumb(t *testing.T) {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf, 0xe0810002)
	binary.LittleEndian.PutUint16(buf[4:], 0x4770)
	binary.LittleEndian.PutUint16(buf[6:], 0xbf00)

	s := disasm.SweepRegions(buf, 0, []disasm.Region{{Start: 4, End: 8, Mode: disasm.ModeThumb}}, disasm.ModeARM)
	rep := Stream(s)
	if rep.Checked != 1 || rep.Skipped != 2 {
		t.Errorf("checked %d skipped %d, want 1 and 2", rep.Checked, rep.Skipped)
	}
	if len(rep.Mismatches) != 0 || rep.Agreement() != 1 {
		t.Errorf("unexpected mismatches: %v", rep.Mismatches)
	}
}

func TestAgreementEmpty(t *testing.T) {
	if got := (Report{}).Agreement(); got != 1 {
		t.Errorf("empty report agreement = %v, want 1", got)
	}
}
