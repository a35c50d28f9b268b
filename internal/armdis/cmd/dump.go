package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"armdis/internal/analysis"
	"armdis/internal/crosscheck"
	"armdis/internal/disasm"
	"armdis/internal/logging"
	"armdis/internal/ui/colorize"
)

type dumpOptions struct {
	sweepOptions
	Base    uint32
	Lower   bool
	Compare bool
	Calls   bool
	Color   bool
	JSON    bool
}

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Disassemble an ARM ELF or raw binary",
	Long: `Disassemble the code section of an ARM ELF file, or a raw binary loaded
at --base. ELF mapping symbols ($a, $t, $d) and Thumb function symbols
select the instruction set per region unless --arm or --thumb is given.`,
	Example: `
# Whole .text with symbols and literal annotations
armdis dump firmware.elf

# One function
armdis dump --symbol main firmware.elf

# Raw Thumb image loaded at 0x08000000
armdis dump --thumb --base 0x08000000 firmware.bin
  `,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := dumpFlags(cmd)
		if err != nil {
			return err
		}
		lg := logging.NewLogger()
		defer lg.Close()
		return runDump(cmd.OutOrStdout(), lg.Logger, args[0], opts)
	},
}

func dumpFlags(cmd *cobra.Command) (dumpOptions, error) {
	var opts dumpOptions
	base, _ := cmd.Flags().GetString("base")
	b, err := parseAddr(base)
	if err != nil {
		return opts, err
	}
	opts.Base = b

	thumb, _ := cmd.Flags().GetBool("thumb")
	armMode, _ := cmd.Flags().GetBool("arm")
	if thumb && armMode {
		return opts, fmt.Errorf("--arm and --thumb are mutually exclusive")
	}
	opts.Forced = thumb || armMode
	if thumb {
		opts.Mode = disasm.ModeThumb
	}

	opts.Symbol, _ = cmd.Flags().GetString("symbol")
	opts.Count, _ = cmd.Flags().GetInt("count")
	opts.Lower, _ = cmd.Flags().GetBool("lower")
	opts.Compare, _ = cmd.Flags().GetBool("compare")
	opts.Calls, _ = cmd.Flags().GetBool("calls")
	opts.JSON, _ = cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")
	opts.Color = !noColor && !opts.JSON && colorize.Enabled() && stdoutIsTerminal()
	return opts, nil
}

// listing holds a decoded file ready for display.
type listing struct {
	src    *source
	stream disasm.Stream
	lines  []analysis.AnnotatedInst
	syms   *analysis.Symbolizer
}

// buildListing opens path and annotates the requested range.
func buildListing(path string, opts dumpOptions) (*listing, error) {
	src, err := openSource(path, opts.Base)
	if err != nil {
		return nil, err
	}
	s, err := src.stream(opts.sweepOptions)
	if err != nil {
		src.Close()
		return nil, err
	}
	syms := src.symbolizer()
	a := &analysis.Annotator{Symbols: syms, Mem: src.memory(), Lower: opts.Lower}
	return &listing{src: src, stream: s, lines: a.Annotate(s), syms: syms}, nil
}

func (l *listing) Close() error { return l.src.Close() }

// text renders the listing, optionally colorized.
func (l *listing) text(color bool) []string {
	out := make([]string, len(l.lines))
	for i, line := range l.lines {
		out[i] = line.String()
	}
	if color {
		out = colorize.ColorizeListing(out)
	}
	return out
}

func runDump(w io.Writer, lg *log.Logger, path string, opts dumpOptions) error {
	l, err := buildListing(path, opts)
	if err != nil {
		return err
	}
	defer l.Close()

	for i := range l.stream {
		in := &l.stream[i]
		if in.Mode != disasm.ModeData && !in.Valid() {
			lg.Debug("undecodable", "addr", fmt.Sprintf("%08x", in.Addr), "err", in.Err)
		}
	}

	if opts.JSON {
		return writeJSON(w, l.stream)
	}

	fmt.Fprintf(w, "; %s: %s\n", path, l.src.kind())
	fmt.Fprintf(w, "; %d instructions, %d invalid, %d symbols\n\n", len(l.stream), l.stream.Invalid(), l.syms.Len())
	for _, line := range l.text(opts.Color) {
		fmt.Fprintln(w, line)
	}

	if opts.Calls {
		calls := analysis.DefaultDetectors().Detect(analysis.FindCalls(l.stream, l.syms, l.src.memory()))
		fmt.Fprintf(w, "\n; %d calls\n", len(calls))
		for _, c := range calls {
			fmt.Fprintf(w, "; %s\n", c)
		}
	}

	if opts.Compare {
		rep := crosscheck.Stream(l.stream)
		for _, m := range rep.Mismatches {
			lg.Warn("decoder mismatch",
				"addr", fmt.Sprintf("%08x", m.Addr),
				"word", fmt.Sprintf("%08x", m.Word),
				"ours", m.Ours,
				"armasm", m.Theirs,
				"reason", m.Reason)
		}
		fmt.Fprintf(w, "\n; armasm agreement %.1f%% (%d checked, %d skipped, %d mismatches)\n",
			rep.Agreement()*100, rep.Checked, rep.Skipped, len(rep.Mismatches))
	}
	return nil
}

// jsonInst is the --json form of one stream position, used for regression
// snapshots.
type jsonInst struct {
	Addr  string `json:"addr"`
	Mode  string `json:"mode"`
	Size  int    `json:"size"`
	Word  string `json:"word"`
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

func writeJSON(w io.Writer, s disasm.Stream) error {
	out := make([]jsonInst, 0, len(s))
	for i := range s {
		in := &s[i]
		j := jsonInst{
			Addr: fmt.Sprintf("0x%08x", in.Addr),
			Mode: in.Mode.String(),
			Size: in.Size,
			Word: strings.ReplaceAll(wordHex(in), " ", ""),
			Text: in.String(),
		}
		if in.Err != nil && in.Mode != disasm.ModeData {
			j.Error = in.Err.Error()
		}
		out = append(out, j)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func init() {
	dumpCmd.Flags().StringP("base", "b", "0", "Load address for raw binaries")
	dumpCmd.Flags().BoolP("thumb", "t", false, "Decode everything as Thumb")
	dumpCmd.Flags().Bool("arm", false, "Decode everything as ARM")
	dumpCmd.Flags().StringP("symbol", "s", "", "Only disassemble this function")
	dumpCmd.Flags().IntP("count", "n", 0, "Stop after this many instructions")
	dumpCmd.Flags().BoolP("lower", "l", false, "Lowercase mnemonics")
	dumpCmd.Flags().Bool("compare", false, "Cross-check ARM code with the armasm decoder")
	dumpCmd.Flags().Bool("calls", false, "List call sites with traced arguments")
	dumpCmd.Flags().BoolP("json", "j", false, "Output the stream as JSON")
	dumpCmd.Flags().Bool("no-color", false, "Disable syntax highlighting")
	rootCmd.AddCommand(dumpCmd)
}
