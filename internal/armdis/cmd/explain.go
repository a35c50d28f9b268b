package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"armdis/internal/arm"
	"armdis/internal/armdis/styles"
	"armdis/internal/disasm"
)

var explainCmd = &cobra.Command{
	Use:   "explain <hex>",
	Short: "Describe the fields of a single instruction",
	Example: `
armdis explain e5910004
armdis explain --thumb f8d1 0004
  `,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := decodeFlags(cmd)
		if err != nil {
			return err
		}
		width := 80
		if term.IsTerminal(os.Stdout.Fd()) {
			if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
				width = w
			}
		}
		return runExplain(cmd.OutOrStdout(), args, opts, width)
	},
}

func runExplain(w io.Writer, words []string, opts decodeOptions, width int) error {
	buf, err := encodeWords([]string{strings.Join(words, "")}, opts.Mode)
	if err != nil {
		return err
	}
	in := disasm.DecodeAt(buf, opts.Addr, opts.Mode)
	md, err := explainMarkdown(&in)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, styles.Render(md, width))
	return err
}

var fieldLine = regexp.MustCompile(`^([A-Za-z0-9_-]+):?\s+(.*)$`)

// explainMarkdown renders the decoded fields of in as a markdown document.
func explainMarkdown(in *disasm.Inst) (string, error) {
	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n", instText(in, false))
	fmt.Fprintf(&md, "`%s` at `0x%08x` in %s mode\n\n", wordHex(in), in.Addr, in.Mode)

	if !in.Record.Valid() {
		fmt.Fprintf(&md, "Not a valid instruction: %v\n", in.Err)
		return md.String(), nil
	}

	d := &in.Record
	if c := d.Cond; c >= arm.CondEQ && c <= arm.CondAL {
		fmt.Fprintf(&md, "Executes when **%s**: %s.\n\n", c, arm.ConditionMeaning(c))
	}

	var dump bytes.Buffer
	if err := arm.Dump(&dump, d); err != nil {
		return "", err
	}
	md.WriteString("| Field | Value |\n|-------|-------|\n")
	for _, line := range strings.Split(dump.String(), "\n") {
		m := fieldLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		fmt.Fprintf(&md, "| %s | `%s` |\n", m[1], strings.TrimSpace(m[2]))
	}

	if typ, amount, err := arm.ImmShift(d); err == nil {
		switch {
		case d.Rs != arm.RegInvalid:
			fmt.Fprintf(&md, "\nShift operand: **%s %s**\n", typ, d.Rs)
		case typ == "RRX":
			md.WriteString("\nShift operand: **RRX**\n")
		default:
			fmt.Fprintf(&md, "\nShift operand: **%s #%d**\n", typ, amount)
		}
	}
	if in.Err != nil {
		fmt.Fprintf(&md, "\n> %v\n", in.Err)
	}
	return md.String(), nil
}

func init() {
	explainCmd.Flags().StringP("addr", "a", "0", "Address of the instruction")
	explainCmd.Flags().BoolP("thumb", "t", false, "Decode as Thumb/Thumb2")
	rootCmd.AddCommand(explainCmd)
}
