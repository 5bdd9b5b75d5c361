// Package tools provides human-readable formatting, invariant linting,
// and register cross-referencing for decoded regdeps traces.
package tools

import (
	"fmt"
	"strings"

	"github.com/lookbusy1344/regdeps-toolkit/regdeps"
)

// FormatStyle selects how much detail FormatTrace renders per instruction.
type FormatStyle int

const (
	FormatDefault  FormatStyle = iota // index, category, flags, operands
	FormatCompact                     // default fields without index-column padding
	FormatExpanded                    // default plus a hex disassembly line
)

// FormatOptions controls FormatTrace's rendering.
type FormatOptions struct {
	Style         FormatStyle
	IndexColumn   int // column width reserved for the instruction index
	ShowRawBytes  bool
	OperandPrefix string // prefix before each register id, default "V"
}

// DefaultFormatOptions returns the default formatter options.
func DefaultFormatOptions() *FormatOptions {
	return &FormatOptions{
		Style:         FormatDefault,
		IndexColumn:   6,
		ShowRawBytes:  false,
		OperandPrefix: "V",
	}
}

// CompactFormatOptions returns options for single-line, minimal output.
func CompactFormatOptions() *FormatOptions {
	opts := DefaultFormatOptions()
	opts.Style = FormatCompact
	opts.IndexColumn = 0
	return opts
}

// ExpandedFormatOptions returns options that include a raw hex dump per
// instruction.
func ExpandedFormatOptions() *FormatOptions {
	opts := DefaultFormatOptions()
	opts.Style = FormatExpanded
	opts.ShowRawBytes = true
	return opts
}

// Formatter renders a decoded instruction trace as human-readable text.
type Formatter struct {
	options *FormatOptions
	output  strings.Builder
}

// NewFormatter creates a formatter using options, or DefaultFormatOptions
// if options is nil.
func NewFormatter(options *FormatOptions) *Formatter {
	if options == nil {
		options = DefaultFormatOptions()
	}
	return &Formatter{options: options}
}

// FormatTrace renders insts as one line per instruction.
func (f *Formatter) FormatTrace(insts []*regdeps.Instruction) string {
	f.output.Reset()
	for i, inst := range insts {
		f.formatInstruction(i, inst)
	}
	return f.output.String()
}

func (f *Formatter) formatInstruction(index int, inst *regdeps.Instruction) {
	line := strings.Builder{}

	if f.options.Style != FormatCompact {
		idx := fmt.Sprintf("%d:", index)
		line.WriteString(idx)
		f.padToColumn(&line, f.options.IndexColumn)
	} else {
		line.WriteString(fmt.Sprintf("%d:", index))
	}

	line.WriteString(inst.Category.String())
	line.WriteString(" ")
	line.WriteString(flagLetters(inst.Flags))

	if inst.NumOpnds() > 0 {
		line.WriteString(" ")
		line.WriteString(inst.Size.String())
	}

	if len(inst.Dsts) > 0 {
		line.WriteString(" dst=")
		line.WriteString(f.formatRegs(inst.Dsts))
	}
	if len(inst.Srcs) > 0 {
		line.WriteString(" src=")
		line.WriteString(f.formatRegs(inst.Srcs))
	}

	if f.options.Style == FormatExpanded {
		if raw, n, ok := inst.RawBytes(); ok {
			disasm := regdeps.DisassembleString(raw, 0, int(n))
			line.WriteString("\n")
			for _, l := range strings.Split(strings.TrimRight(disasm, "\n"), "\n") {
				line.WriteString("      ")
				line.WriteString(l)
				line.WriteString("\n")
			}
		} else {
			line.WriteString("\n")
		}
	}

	f.output.WriteString(line.String())
	if f.options.Style != FormatExpanded {
		f.output.WriteString("\n")
	}
}

func (f *Formatter) formatRegs(regs []regdeps.Reg) string {
	parts := make([]string, len(regs))
	for i, r := range regs {
		parts[i] = f.options.OperandPrefix + strings.TrimPrefix(r.String(), "V")
	}
	return strings.Join(parts, ",")
}

func (f *Formatter) padToColumn(sb *strings.Builder, column int) {
	current := sb.Len()
	if current < column {
		sb.WriteString(strings.Repeat(" ", column-current))
	} else if current > column {
		sb.WriteString(" ")
	}
}

func flagLetters(flags regdeps.ArithFlags) string {
	letters := ""
	if flags.Writes() {
		letters += "w"
	}
	if flags.Reads() {
		letters += "r"
	}
	if letters == "" {
		return "-"
	}
	return letters
}

// FormatTrace is a convenience function formatting insts with
// DefaultFormatOptions.
func FormatTrace(insts []*regdeps.Instruction) string {
	return NewFormatter(DefaultFormatOptions()).FormatTrace(insts)
}

// FormatTraceWithStyle formats insts with the options for the given style.
func FormatTraceWithStyle(insts []*regdeps.Instruction, style FormatStyle) string {
	var options *FormatOptions
	switch style {
	case FormatCompact:
		options = CompactFormatOptions()
	case FormatExpanded:
		options = ExpandedFormatOptions()
	default:
		options = DefaultFormatOptions()
	}
	return NewFormatter(options).FormatTrace(insts)
}
