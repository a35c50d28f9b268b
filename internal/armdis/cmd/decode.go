package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"armdis/internal/arm"
	"armdis/internal/crosscheck"
	"armdis/internal/disasm"
)

type decodeOptions struct {
	Addr    uint32
	Mode    disasm.Mode
	Lower   bool
	Fields  bool // arm.Dump field listing after each line
	Raw     bool // spew dump of the decoded record
	Compare bool // armasm reference decode for ARM words
}

var recordDumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          true,
}

var decodeCmd = &cobra.Command{
	Use:   "decode <hex>...",
	Short: "Decode instruction words given in hex",
	Long: `Decode one or more instruction words.

ARM words are 32-bit hex values. In Thumb mode each argument is a 16-bit
halfword, or a 32-bit Thumb2 pair written first halfword first.
Words can also be piped on stdin.`,
	Example: `
# ARM
armdis decode e0810002 e12fff1e

# Thumb and Thumb2 at a given address
armdis decode --thumb --addr 0x8000 b510 e92d4010 4770

# Show decoded fields and the armasm reference
armdis decode --fields --compare e5910004
  `,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := decodeFlags(cmd)
		if err != nil {
			return err
		}
		if len(args) == 0 {
			args, err = stdinArgs()
			if err != nil {
				return err
			}
		}
		return runDecode(cmd.OutOrStdout(), args, opts)
	},
}

func decodeFlags(cmd *cobra.Command) (decodeOptions, error) {
	var opts decodeOptions
	addr, _ := cmd.Flags().GetString("addr")
	a, err := parseAddr(addr)
	if err != nil {
		return opts, err
	}
	opts.Addr = a
	if thumb, _ := cmd.Flags().GetBool("thumb"); thumb {
		opts.Mode = disasm.ModeThumb
	}
	opts.Lower, _ = cmd.Flags().GetBool("lower")
	opts.Fields, _ = cmd.Flags().GetBool("fields")
	opts.Raw, _ = cmd.Flags().GetBool("raw")
	opts.Compare, _ = cmd.Flags().GetBool("compare")
	return opts, nil
}

// runDecode decodes words as one contiguous stream starting at opts.Addr.
func runDecode(w io.Writer, words []string, opts decodeOptions) error {
	buf, err := encodeWords(words, opts.Mode)
	if err != nil {
		return err
	}

	s := disasm.Sweep(buf, opts.Addr, opts.Mode)
	for i := range s {
		in := &s[i]
		fmt.Fprintf(w, "%08x  %-9s  %s\n", in.Addr, wordHex(in), instText(in, opts.Lower))
		if in.Err != nil && !in.Valid() {
			fmt.Fprintf(w, "          ; %v\n", in.Err)
		}
		if opts.Compare {
			fmt.Fprintln(w, compareLine(in))
		}
		if opts.Fields && in.Record.Valid() {
			if err := arm.Dump(w, &in.Record); err != nil {
				return err
			}
		}
		if opts.Raw {
			recordDumper.Fdump(w, in.Record)
		}
	}
	return nil
}

// wordHex prints the encoding the way the decoder saw it.
func wordHex(in *disasm.Inst) string {
	switch {
	case in.Mode == disasm.ModeThumb && in.Size == 4:
		return fmt.Sprintf("%04x %04x", in.Word>>16, in.Word&0xffff)
	case in.Size == 2:
		return fmt.Sprintf("%04x", in.Word&0xffff)
	case in.Size == 4:
		return fmt.Sprintf("%08x", in.Word)
	}
	return fmt.Sprintf("% x", in.Raw)
}

func instText(in *disasm.Inst, lower bool) string {
	if !in.Valid() || !lower {
		return in.String()
	}
	if t, err := in.Record.FormatLower(); err == nil {
		return t.Total
	}
	return in.String()
}

func compareLine(in *disasm.Inst) string {
	if in.Mode != disasm.ModeARM || in.Size != 4 {
		return "          ; armasm: thumb not supported"
	}
	res := crosscheck.Compare(in.Addr, in.Word)
	theirs := res.Theirs
	if theirs == "" {
		theirs = "(undefined)"
	}
	line := "          ; armasm: " + strings.ToLower(theirs)
	if !res.Match {
		line += "  MISMATCH " + res.Reason
	}
	return line
}

func init() {
	decodeCmd.Flags().StringP("addr", "a", "0", "Address of the first word")
	decodeCmd.Flags().BoolP("thumb", "t", false, "Decode as Thumb/Thumb2")
	decodeCmd.Flags().BoolP("lower", "l", false, "Lowercase mnemonics")
	decodeCmd.Flags().BoolP("fields", "f", false, "Show decoded fields")
	decodeCmd.Flags().Bool("raw", false, "Dump the raw decoded record")
	decodeCmd.Flags().Bool("compare", false, "Compare ARM words with the armasm decoder")
	rootCmd.AddCommand(decodeCmd)
}
