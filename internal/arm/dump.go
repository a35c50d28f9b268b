package arm

import (
	"fmt"
	"io"
)

type flagNote struct {
	name     string
	get      func(d *Record) Flag
	set, off string
}

var flagNotes = []flagNote{
	{"B", func(d *Record) Flag { return d.B }, "swap one byte", "swap four bytes"},
	{"S", func(d *Record) Flag { return d.S }, "updates conditional flags", "does NOT update conditional flags"},
	{"E", func(d *Record) Flag { return d.E }, "change to big endian", "change to little endian"},
	{"U", func(d *Record) Flag { return d.U }, "add offset to address", "subtract offset from address"},
	{"H", func(d *Record) Flag { return d.H }, "Thumb2 instruction is two-byte aligned", "Thumb2 instruction is four-byte aligned"},
	{"P", func(d *Record) Flag { return d.P }, "pre-indexed addressing", "post-indexed addressing"},
	{"M", func(d *Record) Flag { return d.M }, "take the top halfword as source", "take the bottom halfword as source"},
	{"N", func(d *Record) Flag { return d.N }, "take the top halfword as source", "take the bottom halfword as source"},
	{"T", func(d *Record) Flag { return d.T }, "PKHTB form", "PKHBT form"},
	{"R", func(d *Record) Flag { return d.R }, "round the result", "do NOT round the result"},
	{"W", func(d *Record) Flag { return d.W }, "write-back", "do NOT write-back"},
	{"I", func(d *Record) Flag { return d.I }, "immediate present", "no immediate present"},
	{"D", func(d *Record) Flag { return d.D }, "long coprocessor transfer", "short coprocessor transfer"},
}

// Dump writes every populated field of d, one per line, followed by a
// blank line.
func Dump(w io.Writer, d *Record) error {
	p := &printer{w: w}
	p.printf("encoded:       0x%08x\n", d.Word)
	p.printf("instr:         %s\n", d.Instr)
	p.printf("instr-type:    %s\n", d.Type)
	if d.Type.IsThumb2() {
		p.printf("imm-type:      %s\n", d.ImmType)
		p.printf("flag-type:     %s\n", d.FlagType)
	}

	switch {
	case d.Cond == CondUncond:
		p.printf("cond:          unconditional\n")
	case d.Cond != CondInvalid:
		p.printf("cond:          %s\n", d.Cond)
	}

	regs := []struct {
		name string
		r    Reg
	}{
		{"Rd", d.Rd}, {"Rn", d.Rn}, {"Rm", d.Rm}, {"Ra", d.Ra}, {"Rs", d.Rs},
		{"Rt", d.Rt}, {"Rt2", d.Rt2}, {"RdHi", d.RdHi}, {"RdLo", d.RdLo},
	}
	for _, r := range regs {
		if r.r != RegInvalid {
			p.printf("%-5s          %s\n", r.name, r.r)
		}
	}

	if d.I == Set {
		p.printf("imm:           0x%08x  %d\n", d.Imm, d.Imm)
	}

	for _, n := range flagNotes {
		f := n.get(d)
		if f == FlagInvalid {
			continue
		}
		note := n.off
		if f == Set {
			note = n.set
		}
		p.printf("%s:             %s   (%s)\n", n.name, f, note)
	}

	if d.Option != OptionInvalid {
		p.printf("option:        %d\n", d.Option)
	}
	if d.Rotate != 0 {
		p.printf("rotate:        %d\n", d.Rotate)
	}

	if d.ShiftType != ShiftInvalid {
		p.printf("type:          %s (shift type)\n", d.ShiftType)
		if d.Rs == RegInvalid {
			p.printf("shift:         %-2d (shift constant)\n", d.Shift)
		} else {
			p.printf("Rs:            %s (register-shift)\n", d.Rs)
		}
	}

	if d.Lsb != 0 || d.Width != 0 {
		p.printf("lsb:           %d\n", d.Lsb)
		p.printf("width:         %d\n", d.Width)
	}
	if d.Reglist != 0 {
		p.printf("reglist:       %s\n", Reglist(d.Reglist))
	}
	if d.SatImm != 0 {
		p.printf("sat_imm:       %d\n", d.SatImm)
	}
	if d.Opc1 != 0 || d.Opc2 != 0 || d.Coproc != 0 {
		p.printf("opc1:          %d\n", d.Opc1)
		p.printf("opc2:          %d\n", d.Opc2)
		p.printf("coproc:        %d\n", d.Coproc)
	}
	for _, c := range []struct {
		name string
		r    Reg
	}{{"CRn", d.CRn}, {"CRm", d.CRm}, {"CRd", d.CRd}} {
		if c.r != RegInvalid {
			p.printf("%-5s          c%d\n", c.name, c.r)
		}
	}
	if d.Instr == IT {
		p.printf("firstcond:     %s\n", d.Firstcond)
		p.printf("mask:          0x%x\n", d.Mask)
	}
	p.printf("\n")
	return p.err
}

// printer keeps the first write error so Dump can report it once.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
