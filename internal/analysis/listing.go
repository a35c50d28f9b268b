package analysis

import (
	"fmt"
	"strings"

	"armdis/internal/disasm"
)

// AnnotatedInst is one line of a listing: an instruction, a label, or a
// comment-only line.
type AnnotatedInst struct {
	VA          uint32
	Raw         []byte
	Mode        disasm.Mode
	Mnemonic    string
	Operands    string
	Label       string
	Annotations []string
}

// String formats the line with the annotations padded out past the
// operands. The result is plain text; colorization happens afterwards.
func (a AnnotatedInst) String() string {
	if a.Label != "" {
		return fmt.Sprintf("%08x <%s>:", a.VA, a.Label)
	}
	if a.Mnemonic == "" && a.Operands == "" && len(a.Annotations) > 0 {
		return fmt.Sprintf("%-8s  %-9s %-8s %-30s ; %s", "", "", "", "", strings.Join(a.Annotations, ", "))
	}

	base := fmt.Sprintf("%08x  %-9s %-8s %-30s", a.VA, rawHex(a.Raw, a.Mode), a.Mnemonic, a.Operands)
	if len(a.Annotations) > 0 {
		return fmt.Sprintf("%s ; %s", base, strings.Join(a.Annotations, ", "))
	}
	return strings.TrimRight(base, " ")
}

// rawHex prints the encoding the way objdump does: ARM and data as one word,
// Thumb as halfwords in stream order.
func rawHex(raw []byte, mode disasm.Mode) string {
	switch {
	case len(raw) == 4 && mode != disasm.ModeThumb:
		return fmt.Sprintf("%02x%02x%02x%02x", raw[3], raw[2], raw[1], raw[0])
	case len(raw) == 4:
		return fmt.Sprintf("%02x%02x %02x%02x", raw[1], raw[0], raw[3], raw[2])
	case len(raw) == 2:
		return fmt.Sprintf("%02x%02x", raw[1], raw[0])
	}
	return fmt.Sprintf("%x", raw)
}

// Annotator turns a decoded stream into a listing with labels for symbols
// and branch targets, and comments for resolved literals.
type Annotator struct {
	Symbols *Symbolizer
	Mem     Memory // may be nil
	Lower   bool   // lowercase mnemonics and operands
}

// Annotate builds the listing for s.
func (a *Annotator) Annotate(s disasm.Stream) []AnnotatedInst {
	syms := a.Symbols
	if syms == nil {
		syms = NewSymbolizer(nil)
	}

	// Branch targets inside the stream get local labels.
	local := make(map[uint32]bool)
	for i := range s {
		if t, ok := BranchTarget(&s[i]); ok {
			if _, in := s.At(t.Addr); in {
				local[t.Addr] = true
			}
		}
	}

	out := make([]AnnotatedInst, 0, len(s))
	for i := range s {
		in := &s[i]
		if name, ok := syms.Lookup(in.Addr); ok {
			out = append(out, AnnotatedInst{VA: in.Addr, Label: name})
		} else if local[in.Addr] {
			out = append(out, AnnotatedInst{VA: in.Addr, Label: Label(in.Addr)})
		}
		out = append(out, a.line(in, syms, local))
	}
	return out
}

func (a *Annotator) line(in *disasm.Inst, syms *Symbolizer, local map[uint32]bool) AnnotatedInst {
	line := AnnotatedInst{VA: in.Addr, Raw: in.Raw, Mode: in.Mode}
	if !in.Valid() {
		directive, operand, _ := strings.Cut(in.String(), " ")
		line.Mnemonic, line.Operands = directive, operand
		if in.Err != nil && in.Mode != disasm.ModeData {
			line.Annotations = append(line.Annotations, "invalid")
		}
		return line
	}

	text := in.Text
	line.Mnemonic = text.Mnemonic
	line.Operands = strings.TrimPrefix(strings.TrimPrefix(text.Total, text.Mnemonic), " ")
	if a.Lower {
		line.Mnemonic = strings.ToLower(line.Mnemonic)
		line.Operands = strings.ToLower(line.Operands)
	}

	if t, ok := BranchTarget(in); ok {
		note, named := syms.Lookup(t.Addr)
		switch {
		case named:
		case local[t.Addr]:
			note = Label(t.Addr)
		default:
			note = syms.Describe(t.Addr)
			if !strings.HasPrefix(note, "loc_") {
				note = fmt.Sprintf("%s (0x%x)", note, t.Addr)
			}
		}
		if t.Mode != in.Mode {
			note += " [" + t.Mode.String() + "]"
		}
		line.Annotations = append(line.Annotations, note)
	}

	if lit, ok := LiteralAddr(in); ok {
		line.Annotations = append(line.Annotations, a.literalNote(lit, syms)...)
	}
	return line
}

func (a *Annotator) literalNote(lit Literal, syms *Symbolizer) []string {
	notes := []string{fmt.Sprintf("0x%x", lit.Addr)}
	if a.Mem == nil {
		return notes
	}
	target := lit.Addr
	if lit.Load && lit.Size == 4 {
		w, ok := ReadWord(a.Mem, lit.Addr)
		if !ok {
			return notes
		}
		notes[0] = fmt.Sprintf("=0x%x", w)
		target = w
		if name, ok := syms.Lookup(w &^ 1); ok {
			notes = append(notes, name)
			return notes
		}
	}
	if s, ok := ReadCString(a.Mem, target, MaxAnnotationLength); ok {
		notes = append(notes, `"`+s+`"`)
	}
	return notes
}
