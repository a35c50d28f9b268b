package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/nxadm/tail"
	"github.com/spf13/cobra"

	"armdis/internal/disasm"
	"armdis/internal/logging"
)

var traceCmd = &cobra.Command{
	Use:   "trace <file>",
	Short: "Decode an execution trace of address/word pairs",
	Long: `Decode a trace file with one executed instruction per line:

    <addr> <hex> [<hex>]

Addresses are hex. An odd address selects Thumb, matching the interworking bit. Thumb2
instructions give both halfwords. Blank lines and lines starting with '#'
are ignored. With --follow the file is tailed as a tracer appends to it.`,
	Example: `
armdis trace run.trace
armdis trace --follow /tmp/qemu.trace
  `,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		follow, _ := cmd.Flags().GetBool("follow")
		lower, _ := cmd.Flags().GetBool("lower")
		lg := logging.NewLogger()
		defer lg.Close()
		return runTrace(cmd.Context(), cmd.OutOrStdout(), lg.Logger, args[0], follow, lower)
	},
}

// traceEntry is one parsed trace line.
type traceEntry struct {
	Addr  uint32
	Mode  disasm.Mode
	Words []string
}

// parseTraceLine returns ok=false for blank and comment lines.
func parseTraceLine(line string) (e traceEntry, ok bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return e, false, nil
	}
	fields := strings.Fields(strings.ReplaceAll(line, ":", " "))
	if len(fields) < 2 {
		return e, false, fmt.Errorf("trace line %q: want <addr> <hex>", line)
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(fields[0], "0x"), 16, 32)
	if err != nil {
		return e, false, fmt.Errorf("trace line %q: bad address: %w", line, err)
	}
	addr := uint32(v)
	e.Addr, e.Mode = addr, disasm.ModeARM
	if addr&1 == 1 {
		e.Addr, e.Mode = addr&^1, disasm.ModeThumb
	}
	e.Words = fields[1:]
	return e, true, nil
}

// decodeEntry decodes the instruction of one trace entry.
func decodeEntry(e traceEntry) (disasm.Inst, error) {
	buf, err := encodeWords(e.Words, e.Mode)
	if err != nil {
		return disasm.Inst{}, err
	}
	return disasm.DecodeAt(buf, e.Addr, e.Mode), nil
}

func runTrace(ctx context.Context, w io.Writer, lg *log.Logger, path string, follow, lower bool) error {
	t, err := tail.TailFile(path, tail.Config{
		Follow:    follow,
		ReOpen:    follow,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return fmt.Errorf("open trace: %w", err)
	}
	defer t.Cleanup()

	if ctx == nil {
		ctx = context.Background()
	}

	var num, decoded, bad int
	for {
		select {
		case <-ctx.Done():
			lg.Debug("trace stopped", "decoded", decoded, "bad", bad)
			return t.Stop()
		case line, more := <-t.Lines:
			if !more {
				lg.Debug("trace done", "decoded", decoded, "bad", bad)
				return nil
			}
			if line.Err != nil {
				return line.Err
			}
			num++
			e, ok, err := parseTraceLine(line.Text)
			if err != nil {
				bad++
				lg.Warn("skipping trace line", "line", num, "err", err)
				continue
			}
			if !ok {
				continue
			}
			in, err := decodeEntry(e)
			if err != nil {
				bad++
				lg.Warn("skipping trace line", "line", num, "err", err)
				continue
			}
			decoded++
			fmt.Fprintf(w, "%08x  %-9s  %s\n", in.Addr, wordHex(&in), instText(&in, lower))
		}
	}
}

func init() {
	traceCmd.Flags().BoolP("follow", "f", false, "Keep reading as the trace grows")
	traceCmd.Flags().BoolP("lower", "l", false, "Lowercase mnemonics")
	rootCmd.AddCommand(traceCmd)
}
