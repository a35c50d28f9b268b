package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"armdis/internal/disasm"
)

func TestParseAddr(t *testing.T) {
	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{"", 0, false},
		{"0x8000", 0x8000, false},
		{"32768", 32768, false},
		{"ff", 0xff, false},
		{"0x100000000", 0, true},
		{"zz", 0, true},
	}
	for _, tt := range tests {
		got, err := parseAddr(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseAddr(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseAddr(%q) = %#x, want %#x", tt.in, got, tt.want)
		}
	}
}

func TestEncodeWords(t *testing.T) {
	tests := []struct {
		name string
		args []string
		mode disasm.Mode
		want []byte
	}{
		{"arm", []string{"e12fff1e"}, disasm.ModeARM, []byte{0x1e, 0xff, 0x2f, 0xe1}},
		{"arm prefix", []string{"0xe12fff1e"}, disasm.ModeARM, []byte{0x1e, 0xff, 0x2f, 0xe1}},
		{"thumb halfword", []string{"4770"}, disasm.ModeThumb, []byte{0x70, 0x47}},
		{"thumb2 pair", []string{"e92d4010"}, disasm.ModeThumb, []byte{0x2d, 0xe9, 0x10, 0x40}},
		{"split args", []string{"b510 4770"}, disasm.ModeThumb, []byte{0x10, 0xb5, 0x70, 0x47}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encodeWords(tt.args, tt.mode)
			if err != nil {
				t.Fatalf("encodeWords failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("encodeWords mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := encodeWords([]string{"xyz"}, disasm.ModeARM); err == nil {
		t.Errorf("encodeWords should reject non-hex input")
	}
	if _, err := encodeWords(nil, disasm.ModeARM); err == nil {
		t.Errorf("encodeWords should reject empty input")
	}
}

func TestRunDecodeARM(t *testing.T) {
	var buf bytes.Buffer
	err := runDecode(&buf, []string{"e0810002", "e12fff1e"}, decodeOptions{Addr: 0x8000})
	if err != nil {
		t.Fatalf("runDecode failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "00008000  e0810002") || !strings.HasSuffix(lines[0], "ADD r0, r1, r2") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "00008004") || !strings.HasSuffix(lines[1], "BX lr") {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestRunDecodeThumb(t *testing.T) {
	var buf bytes.Buffer
	opts := decodeOptions{Mode: disasm.ModeThumb, Lower: true}
	if err := runDecode(&buf, []string{"b510", "e92d4010", "4770"}, opts); err != nil {
		t.Fatalf("runDecode failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"00000000  b510",
		"push {r4,lr}",
		"00000002  e92d 4010",
		"00000006  4770",
		"bx lr",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunDecodeInvalid(t *testing.T) {
	var buf bytes.Buffer
	if err := runDecode(&buf, []string{"b800"}, decodeOptions{Mode: disasm.ModeThumb}); err != nil {
		t.Fatalf("runDecode failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, ".short 0xb800") {
		t.Errorf("invalid halfword should print as data:\n%s", out)
	}
	if !strings.Contains(out, "; ") {
		t.Errorf("invalid halfword should carry the decode error:\n%s", out)
	}
}

func TestRunDecodeFieldsAndCompare(t *testing.T) {
	var buf bytes.Buffer
	opts := decodeOptions{Fields: true, Compare: true, Raw: true}
	if err := runDecode(&buf, []string{"e5910004"}, opts); err != nil {
		t.Fatalf("runDecode failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"LDR r0, [r1, #4]",
		"; armasm: ",
		"instr:         LDR",
		"Rn             r1",
		"Instr:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "MISMATCH") {
		t.Errorf("unexpected mismatch:\n%s", out)
	}
}

func TestCompareLineThumb(t *testing.T) {
	in := disasm.DecodeAt([]byte{0x70, 0x47}, 0, disasm.ModeThumb)
	if got := compareLine(&in); !strings.Contains(got, "thumb not supported") {
		t.Errorf("compareLine(thumb) = %q", got)
	}
}

func TestExplainMarkdown(t *testing.T) {
	in := disasm.DecodeAt([]byte{0x04, 0x00, 0x91, 0xe5}, 0x1000, disasm.ModeARM)
	md, err := explainMarkdown(&in)
	if err != nil {
		t.Fatalf("explainMarkdown failed: %v", err)
	}
	for _, want := range []string{
		"# LDR r0, [r1, #4]",
		"`e5910004` at `0x00001000` in arm mode",
		"Executes when **AL**",
		"| Field | Value |",
		"| Rn | `r1` |",
		"| Rt | `r0` |",
		"| instr | `LDR` |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestExplainMarkdownInvalid(t *testing.T) {
	in := disasm.DecodeAt([]byte{0x00, 0xb8}, 0, disasm.ModeThumb)
	md, err := explainMarkdown(&in)
	if err != nil {
		t.Fatalf("explainMarkdown failed: %v", err)
	}
	if !strings.Contains(md, "Not a valid instruction") {
		t.Errorf("markdown for invalid halfword:\n%s", md)
	}
}

func TestRunExplainPlain(t *testing.T) {
	t.Setenv("ARMDIS_NO_COLOR", "1")
	var buf bytes.Buffer
	if err := runExplain(&buf, []string{"e92d4010"}, decodeOptions{}, 80); err != nil {
		t.Fatalf("runExplain failed: %v", err)
	}
	if !strings.Contains(buf.String(), "PUSH") {
		t.Errorf("rendered explanation missing mnemonic:\n%s", buf.String())
	}
}
