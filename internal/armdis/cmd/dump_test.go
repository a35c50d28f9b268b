package cmd

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"armdis/internal/disasm"
)

func writeARM(t *testing.T, words ...uint32) string {
	t.Helper()
	buf := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[4*i:], w)
	}
	path := filepath.Join(t.TempDir(), "code.bin")
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestRunDumpRaw(t *testing.T) {
	path := writeARM(t, 0xe0810002, 0xe3500000, 0xe12fff1e)

	var buf bytes.Buffer
	opts := dumpOptions{Base: 0x8000, Compare: true}
	if err := runDump(&buf, quietLogger(), path, opts); err != nil {
		t.Fatalf("runDump failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"raw image at 0x8000",
		"; 3 instructions, 0 invalid, 0 symbols",
		"00008000  e0810002",
		"ADD",
		"r0, r1, r2",
		"00008008  e12fff1e",
		"; armasm agreement 100.0% (3 checked, 0 skipped, 0 mismatches)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("dump without color should be plain text")
	}
}

func TestRunDumpCalls(t *testing.T) {
	// mov r0, #1; bl self; bx lr
	path := writeARM(t, 0xe3a00001, 0xebfffffe, 0xe12fff1e)

	var buf bytes.Buffer
	if err := runDump(&buf, quietLogger(), path, dumpOptions{Calls: true}); err != nil {
		t.Fatalf("runDump failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"; 1 calls", "; 00000004  loc_4(r0=0x1)"} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}
}

func TestRunDumpJSON(t *testing.T) {
	path := writeARM(t, 0xe92d4010, 0xe12fff1e)

	var buf bytes.Buffer
	if err := runDump(&buf, quietLogger(), path, dumpOptions{JSON: true}); err != nil {
		t.Fatalf("runDump failed: %v", err)
	}
	var got []jsonInst
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	want := []jsonInst{
		{Addr: "0x00000000", Mode: "arm", Size: 4, Word: "e92d4010", Text: "PUSH {r4,lr}"},
		{Addr: "0x00000004", Mode: "arm", Size: 4, Word: "e12fff1e", Text: "BX lr"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("JSON mismatch (-want +got):\n%s", diff)
	}
}

func TestRunDumpCount(t *testing.T) {
	path := writeARM(t, 0xe3a00001, 0xe3a00002, 0xe3a00003)
	l, err := buildListing(path, dumpOptions{sweepOptions: sweepOptions{Count: 2}})
	if err != nil {
		t.Fatalf("buildListing failed: %v", err)
	}
	defer l.Close()
	if len(l.stream) != 2 {
		t.Errorf("stream has %d instructions, want 2", len(l.stream))
	}
}

func TestRunDumpForcedThumb(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thumb.bin")
	if err := os.WriteFile(path, []byte{0x10, 0xb5, 0x70, 0x47}, 0o644); err != nil {
		t.Fatal(err)
	}
	l, err := buildListing(path, dumpOptions{sweepOptions: sweepOptions{Mode: disasm.ModeThumb, Forced: true}})
	if err != nil {
		t.Fatalf("buildListing failed: %v", err)
	}
	defer l.Close()
	if len(l.stream) != 2 || l.stream[1].Text.Total != "BX lr" {
		t.Errorf("unexpected thumb stream: %+v", l.stream)
	}
}

func TestRunDumpSymbolNeedsELF(t *testing.T) {
	path := writeARM(t, 0xe12fff1e)
	err := runDump(io.Discard, quietLogger(), path, dumpOptions{sweepOptions: sweepOptions{Symbol: "main"}})
	if err == nil || !strings.Contains(err.Error(), "needs an ELF") {
		t.Errorf("runDump(--symbol raw) error = %v", err)
	}
}

func TestRunDumpMissingFile(t *testing.T) {
	if err := runDump(io.Discard, quietLogger(), filepath.Join(t.TempDir(), "nope"), dumpOptions{}); err == nil {
		t.Errorf("runDump on a missing file should fail")
	}
}

func TestDumpFlagsExclusiveModes(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("base", "0", "")
	cmd.Flags().Bool("thumb", false, "")
	cmd.Flags().Bool("arm", false, "")
	if err := cmd.ParseFlags([]string{"--thumb", "--arm"}); err != nil {
		t.Fatal(err)
	}
	if _, err := dumpFlags(cmd); err == nil {
		t.Errorf("--arm with --thumb should be rejected")
	}
}

func TestParseTraceLine(t *testing.T) {
	tests := []struct {
		line   string
		want   traceEntry
		ok     bool
		hasErr bool
	}{
		{"8001 b510", traceEntry{Addr: 0x8000, Mode: disasm.ModeThumb, Words: []string{"b510"}}, true, false},
		{"0x8000: e12fff1e", traceEntry{Addr: 0x8000, Mode: disasm.ModeARM, Words: []string{"e12fff1e"}}, true, false},
		{"1003 e92d 4010", traceEntry{Addr: 0x1002, Mode: disasm.ModeThumb, Words: []string{"e92d", "4010"}}, true, false},
		{"# comment", traceEntry{}, false, false},
		{"   ", traceEntry{}, false, false},
		{"8000", traceEntry{}, false, true},
		{"zz e12fff1e", traceEntry{}, false, true},
	}
	for _, tt := range tests {
		got, ok, err := parseTraceLine(tt.line)
		if (err != nil) != tt.hasErr {
			t.Errorf("parseTraceLine(%q) error = %v", tt.line, err)
			continue
		}
		if ok != tt.ok {
			t.Errorf("parseTraceLine(%q) ok = %v, want %v", tt.line, ok, tt.ok)
		}
		if diff := cmp.Diff(tt.want, got); ok && diff != "" {
			t.Errorf("parseTraceLine(%q) mismatch (-want +got):\n%s", tt.line, diff)
		}
	}
}

func TestRunTrace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.trace")
	trace := strings.Join([]string{
		"# pc word",
		"8000 e92d4010",
		"8005 b510",
		"8007 e92d 4010",
		"not a line",
		"8004 e12fff1e",
		"",
	}, "\n")
	if err := os.WriteFile(path, []byte(trace), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := runTrace(context.Background(), &buf, quietLogger(), path, false, true); err != nil {
		t.Fatalf("runTrace failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), buf.String())
	}
	for i, want := range []string{"push {r4,lr}", "push {r4,lr}", "push {r4,lr}", "bx lr"} {
		if !strings.HasSuffix(lines[i], want) {
			t.Errorf("line %d = %q, want suffix %q", i, lines[i], want)
		}
	}
	if !strings.HasPrefix(lines[2], "00008006  e92d 4010") {
		t.Errorf("thumb2 line = %q", lines[2])
	}
}

func TestRunTraceMissingFile(t *testing.T) {
	err := runTrace(context.Background(), io.Discard, quietLogger(), filepath.Join(t.TempDir(), "nope"), false, false)
	if err == nil {
		t.Errorf("runTrace on a missing file should fail")
	}
}
