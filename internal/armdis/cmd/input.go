package cmd

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/term"

	"armdis/internal/analysis"
	"armdis/internal/disasm"
	"armdis/internal/elfx"
)

// parseAddr accepts decimal, 0x-prefixed hex and bare hex with a-f digits.
func parseAddr(s string) (uint32, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		if v, herr := strconv.ParseUint(s, 16, 32); herr == nil {
			return uint32(v), nil
		}
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return uint32(v), nil
}

// encodeWords turns hex instruction words into little-endian bytes in
// stream order. ARM words are 8 digits. Thumb takes 4-digit halfwords or
// 8-digit Thumb2 pairs written first halfword first, as objdump prints them.
func encodeWords(args []string, mode disasm.Mode) ([]byte, error) {
	var buf bytes.Buffer
	for _, arg := range args {
		for _, tok := range strings.Fields(arg) {
			tok = strings.TrimPrefix(strings.TrimPrefix(tok, "0x"), "0X")
			tok = strings.ReplaceAll(tok, "_", "")
			if _, err := hex.DecodeString(padEven(tok)); err != nil {
				return nil, fmt.Errorf("invalid hex word %q", tok)
			}
			v, err := strconv.ParseUint(tok, 16, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid hex word %q: %w", tok, err)
			}
			switch {
			case mode == disasm.ModeThumb && len(tok) <= 4:
				buf.Write(binary.LittleEndian.AppendUint16(nil, uint16(v)))
			case mode == disasm.ModeThumb:
				buf.Write(binary.LittleEndian.AppendUint16(nil, uint16(v>>16)))
				buf.Write(binary.LittleEndian.AppendUint16(nil, uint16(v)))
			default:
				buf.Write(binary.LittleEndian.AppendUint32(nil, uint32(v)))
			}
		}
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("no instruction words given")
	}
	return buf.Bytes(), nil
}

func padEven(s string) string {
	if len(s)%2 == 1 {
		return "0" + s
	}
	return s
}

// stdinArgs returns words piped on stdin, or nil when stdin is a terminal.
func stdinArgs() ([]string, error) {
	if term.IsTerminal(os.Stdin.Fd()) {
		return nil, nil
	}
	fi, err := os.Stdin.Stat()
	if err != nil {
		return nil, err
	}
	if fi.Mode()&os.ModeNamedPipe == 0 && !fi.Mode().IsRegular() {
		return nil, nil
	}
	bts, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, err
	}
	return strings.Fields(string(bts)), nil
}

// source is a file opened for disassembly: an ARM ELF image or a raw blob.
type source struct {
	path string
	img  *elfx.Image
	raw  []byte
	base uint32
}

func isELF(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	magic := make([]byte, 4)
	if _, err := io.ReadFull(f, magic); err != nil {
		return false, nil
	}
	return bytes.Equal(magic, []byte("\x7fELF")), nil
}

// openSource opens path. Raw files are loaded at base.
func openSource(path string, base uint32) (*source, error) {
	elfFile, err := isELF(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if elfFile {
		img, err := elfx.Open(path)
		if err != nil {
			return nil, err
		}
		return &source{path: path, img: img}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &source{path: path, raw: raw, base: base}, nil
}

func (s *source) Close() error {
	if s.img != nil {
		return s.img.Close()
	}
	return nil
}

// kind describes the input for headers.
func (s *source) kind() string {
	if s.img == nil {
		return fmt.Sprintf("raw image at 0x%x", s.base)
	}
	return fmt.Sprintf("ELF32 ARM, entry 0x%x", s.img.Entry)
}

func (s *source) symbolizer() *analysis.Symbolizer {
	return analysis.NewSymbolizer(s.img)
}

func (s *source) memory() analysis.Memory {
	if s.img != nil {
		return s.img
	}
	return analysis.Flat{Base: s.base, Data: s.raw}
}

// sweepOptions selects what part of a source to decode.
type sweepOptions struct {
	Symbol string
	Mode   disasm.Mode
	Forced bool // Mode overrides mapping symbols and the Thumb bit
	Count  int
}

// stream decodes the requested part of s.
func (s *source) stream(opts sweepOptions) (disasm.Stream, error) {
	var st disasm.Stream
	switch {
	case s.img == nil && opts.Symbol != "":
		return nil, fmt.Errorf("--symbol needs an ELF input")

	case s.img == nil:
		st = disasm.Sweep(s.raw, s.base, opts.Mode)

	case opts.Symbol != "":
		sym, ok := s.img.FindFunctionByName(opts.Symbol)
		if !ok {
			return nil, fmt.Errorf("symbol %q not found", opts.Symbol)
		}
		code, ok := s.img.SymbolBytes(sym)
		if !ok {
			return nil, fmt.Errorf("symbol %q is not mapped", opts.Symbol)
		}
		mode := disasm.ModeARM
		if sym.Thumb {
			mode = disasm.ModeThumb
		}
		if opts.Forced {
			mode = opts.Mode
		}
		st = disasm.Sweep(code, sym.Addr, mode)

	default:
		text := s.img.Text
		code, ok := s.img.SectionBytes(text)
		if !ok {
			return nil, fmt.Errorf("%s has no code section", s.path)
		}
		if opts.Forced {
			st = disasm.Sweep(code, text.VA, opts.Mode)
		} else {
			st = disasm.SweepRegions(code, text.VA, s.img.Regions(text), s.img.DefaultMode())
		}
	}

	if opts.Count > 0 && len(st) > opts.Count {
		st = st[:opts.Count]
	}
	return st, nil
}
