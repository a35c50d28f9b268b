package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	cfg, err := loadConfig(filepath.Join(dir, "missing.json"))
	if err != nil || cfg != (Config{}) {
		t.Fatalf("missing config = %+v, %v", cfg, err)
	}

	path := filepath.Join(dir, "ok.json")
	os.WriteFile(path, []byte(`{"base":"0x8000","mode":"thumb","lower":true}`), 0o644)
	cfg, err = loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if diff := cmp.Diff(Config{Base: "0x8000", Mode: "thumb", Lower: true}, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte(`{"mode":"mips"}`), 0o644)
	if _, err := loadConfig(bad); err == nil {
		t.Errorf("unknown mode should be rejected")
	}

	broken := filepath.Join(dir, "broken.json")
	os.WriteFile(broken, []byte(`{`), 0o644)
	if _, err := loadConfig(broken); err == nil {
		t.Errorf("malformed JSON should be rejected")
	}
}

func flagCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{}
	cmd.Flags().String("base", "0", "")
	cmd.Flags().Bool("thumb", false, "")
	cmd.Flags().Bool("arm", false, "")
	cmd.Flags().Bool("lower", false, "")
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatal(err)
	}
	return cmd
}

func TestApplyConfig(t *testing.T) {
	cfg := Config{Base: "0x100", Mode: "thumb", Lower: true, Compare: true}

	cmd := flagCmd(t, "--base", "0x200")
	if err := applyConfig(cmd, cfg); err != nil {
		t.Fatalf("applyConfig failed: %v", err)
	}
	base, _ := cmd.Flags().GetString("base")
	thumb, _ := cmd.Flags().GetBool("thumb")
	lower, _ := cmd.Flags().GetBool("lower")
	if base != "0x200" {
		t.Errorf("command line base overridden: %s", base)
	}
	if !thumb || !lower {
		t.Errorf("config defaults not applied: thumb=%v lower=%v", thumb, lower)
	}

	// An explicit --arm keeps the config from also selecting Thumb.
	cmd = flagCmd(t, "--arm")
	if err := applyConfig(cmd, cfg); err != nil {
		t.Fatalf("applyConfig failed: %v", err)
	}
	if thumb, _ := cmd.Flags().GetBool("thumb"); thumb {
		t.Errorf("config mode should not override --arm")
	}
}

func TestSchemaJSON(t *testing.T) {
	bts, err := schemaJSON(false)
	if err != nil {
		t.Fatalf("schemaJSON failed: %v", err)
	}
	for _, want := range []string{`"base"`, `"noColor"`, `"Base Address"`} {
		if !strings.Contains(string(bts), want) {
			t.Errorf("config schema missing %s", want)
		}
	}

	bts, err = schemaJSON(true)
	if err != nil {
		t.Fatalf("schemaJSON(listing) failed: %v", err)
	}
	for _, want := range []string{`"addr"`, `"text"`} {
		if !strings.Contains(string(bts), want) {
			t.Errorf("listing schema missing %s", want)
		}
	}
}

func TestModelCyclesWithoutSymbols(t *testing.T) {
	m := NewModel("/nonexistent", dumpOptions{})
	if got := m.nextMode(1); got != viewInfo {
		t.Errorf("nextMode(+1) from listing = %v, want info", got)
	}
	m.mode = viewInfo
	if got := m.nextMode(1); got != viewListing {
		t.Errorf("nextMode(+1) from info = %v, want listing", got)
	}
	if got := m.nextMode(-1); got != viewListing {
		t.Errorf("nextMode(-1) from info = %v, want listing", got)
	}
}

func TestInfoMarkdownLoading(t *testing.T) {
	m := NewModel("/tmp/fw.elf", dumpOptions{})
	m.digest = "abc123"
	md := m.infoMarkdown()
	for _, want := range []string{"# armdis", "; sha256 abc123", "Decoding..."} {
		if !strings.Contains(md, want) {
			t.Errorf("info markdown missing %q:\n%s", want, md)
		}
	}
}
