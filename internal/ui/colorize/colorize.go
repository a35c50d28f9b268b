// Package colorize highlights disassembly listings for the terminal.
package colorize

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

const (
	ansiReset   = "\033[0m"
	ansiAddress = "\033[38;2;79;79;79m"
	ansiRaw     = "\033[38;2;110;110;110m"
	ansiComment = "\033[38;2;235;194;237m"
	ansiLabel   = "\033[38;2;255;215;0m"
)

// Enabled reports whether output should carry ANSI colors. Setting
// ARMDIS_NO_COLOR to any value turns them off.
func Enabled() bool {
	return os.Getenv("ARMDIS_NO_COLOR") == ""
}

// getAssemblyLexer returns an ARM assembly lexer with fallbacks.
func getAssemblyLexer() chroma.Lexer {
	for _, name := range []string{"armasm", "gas", "nasm"} {
		if lexer := lexers.Get(name); lexer != nil {
			return lexer
		}
	}
	return nil
}

func getDisasmStyle() *chroma.Style {
	for _, name := range []string{"armdis-dark", "dracula", "monokai"} {
		if style := styles.Get(name); style != nil {
			return style
		}
	}
	return styles.Fallback
}

func getTerminalFormatter() chroma.Formatter {
	for _, name := range []string{"terminal16m", "terminal256"} {
		if formatter := formatters.Get(name); formatter != nil {
			return formatter
		}
	}
	return formatters.Fallback
}

// ColorizeAssembly highlights a block of assembly text.
func ColorizeAssembly(code string) (string, error) {
	if !Enabled() {
		return code, nil
	}
	lexer := getAssemblyLexer()
	if lexer == nil {
		return code, nil
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code, err
	}
	var buf strings.Builder
	if err := getTerminalFormatter().Format(&buf, getDisasmStyle(), iterator); err != nil {
		return code, err
	}
	return buf.String(), nil
}

// ColorizeInstructionLine colorizes one listing line of the form
//
//	"<addr>  <raw>  <mnemonic> <operands>   ; <comment>"
//
// Labels ("<addr> <name>:") and comment-only lines are styled as a whole.
func ColorizeInstructionLine(line string) string {
	if !Enabled() {
		return line
	}

	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return line
	case strings.HasPrefix(trimmed, ";"):
		return ansiComment + line + ansiReset
	case strings.HasSuffix(trimmed, ">:"):
		return ansiLabel + line + ansiReset
	}

	addr, rest, ok := strings.Cut(line, "  ")
	if !ok || !isHex(addr) {
		return colorizeFullLine(line)
	}
	raw, code, ok := strings.Cut(rest, " ")
	if !ok {
		return fmt.Sprintf("%s%s%s  %s", ansiAddress, addr, ansiReset, colorizeFullLine(rest))
	}
	// Thumb2 encodings print as two halfwords.
	if second, tail, ok := strings.Cut(code, " "); ok && len(second) == 4 && isHex(second) {
		raw, code = raw+" "+second, tail
	}

	comment := ""
	if i := strings.Index(code, " ; "); i >= 0 {
		code, comment = code[:i], code[i:]
	}

	var b strings.Builder
	b.WriteString(ansiAddress + addr + ansiReset + "  ")
	b.WriteString(ansiRaw + raw + ansiReset + " ")
	b.WriteString(colorizeFullLine(code))
	if comment != "" {
		b.WriteString(ansiComment + comment + ansiReset)
	}
	return b.String()
}

// ColorizeListing colorizes every line of a listing.
func ColorizeListing(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = ColorizeInstructionLine(l)
	}
	return out
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if !((ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')) {
			return false
		}
	}
	return true
}

// colorizeFullLine runs chroma over a fragment, returning it unchanged on
// any lexer or formatter failure.
func colorizeFullLine(line string) string {
	lexer := getAssemblyLexer()
	if lexer == nil {
		return line
	}
	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}
	var buf strings.Builder
	if err := getTerminalFormatter().Format(&buf, getDisasmStyle(), iterator); err != nil {
		return line
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// StripANSI removes ANSI escape sequences.
func StripANSI(s string) string {
	var result strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		default:
			result.WriteRune(r)
		}
	}
	return result.String()
}
