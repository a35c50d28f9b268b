package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// ConfigFile is read from the working directory after --cwd is applied.
const ConfigFile = ".armdis.json"

// Config holds defaults for command flags. Flags given on the command line
// win.
type Config struct {
	Debug   bool   `json:"debug,omitempty" jsonschema:"title=Debug,description=Enable debug logging"`
	Base    string `json:"base,omitempty" jsonschema:"title=Base Address,description=Load address for raw binaries,example=0x08000000"`
	Mode    string `json:"mode,omitempty" jsonschema:"title=Mode,description=Force one instruction set,enum=arm,enum=thumb"`
	Lower   bool   `json:"lower,omitempty" jsonschema:"title=Lowercase,description=Lowercase mnemonics"`
	Compare bool   `json:"compare,omitempty" jsonschema:"title=Compare,description=Cross-check ARM code with armasm"`
	NoColor bool   `json:"noColor,omitempty" jsonschema:"title=No Color,description=Disable syntax highlighting"`
}

// loadConfig reads path. A missing file yields the zero Config.
func loadConfig(path string) (Config, error) {
	var cfg Config
	bts, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(bts, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	switch cfg.Mode {
	case "", "arm", "thumb":
	default:
		return cfg, fmt.Errorf("%s: unknown mode %q", path, cfg.Mode)
	}
	return cfg, nil
}

// applyConfig copies cfg into the flags of cmd that the user left unset.
func applyConfig(cmd *cobra.Command, cfg Config) error {
	set := func(name, value string) error {
		f := cmd.Flags().Lookup(name)
		if f == nil || f.Changed {
			return nil
		}
		return cmd.Flags().Set(name, value)
	}
	values := []struct {
		name  string
		value string
		on    bool
	}{
		{"debug", "true", cfg.Debug},
		{"base", cfg.Base, cfg.Base != ""},
		{cfg.Mode, "true", cfg.Mode != "" && !anyChanged(cmd.Flags(), "arm", "thumb")},
		{"lower", strconv.FormatBool(cfg.Lower), cfg.Lower},
		{"compare", strconv.FormatBool(cfg.Compare), cfg.Compare},
		{"no-color", strconv.FormatBool(cfg.NoColor), cfg.NoColor},
	}
	for _, v := range values {
		if !v.on {
			continue
		}
		if err := set(v.name, v.value); err != nil {
			return fmt.Errorf("config %s: %w", v.name, err)
		}
	}
	return nil
}

func anyChanged(flags *pflag.FlagSet, names ...string) bool {
	for _, n := range names {
		if f := flags.Lookup(n); f != nil && f.Changed {
			return true
		}
	}
	return false
}
