package tools

import (
	"fmt"
	"sort"

	"github.com/lookbusy1344/regdeps-toolkit/regdeps"
)

// ReferenceType indicates how an instruction refers to a register.
type ReferenceType int

const (
	RefRead ReferenceType = iota
	RefWrite
)

func (r ReferenceType) String() string {
	switch r {
	case RefRead:
		return "read"
	case RefWrite:
		return "write"
	default:
		return "unknown"
	}
}

// Reference is a single access to a register at one trace position.
type Reference struct {
	Type  ReferenceType
	Index int // position of the instruction within the trace
}

// RegisterXref collects every reference to one virtual register across a
// trace.
type RegisterXref struct {
	Register   regdeps.Reg
	References []Reference
}

// XRefGenerator builds a cross-reference table mapping each virtual
// register touched by a trace to every instruction that reads or writes
// it.
type XRefGenerator struct {
	regs map[regdeps.Reg]*RegisterXref
}

// NewXRefGenerator creates an empty cross-reference generator.
func NewXRefGenerator() *XRefGenerator {
	return &XRefGenerator{regs: make(map[regdeps.Reg]*RegisterXref)}
}

// Generate builds the cross-reference table for insts.
func (x *XRefGenerator) Generate(insts []*regdeps.Instruction) map[regdeps.Reg]*RegisterXref {
	x.regs = make(map[regdeps.Reg]*RegisterXref)
	for i, inst := range insts {
		for _, r := range inst.Dsts {
			x.record(r, RefWrite, i)
		}
		for _, r := range inst.Srcs {
			x.record(r, RefRead, i)
		}
	}
	return x.regs
}

func (x *XRefGenerator) record(reg regdeps.Reg, typ ReferenceType, index int) {
	entry, ok := x.regs[reg]
	if !ok {
		entry = &RegisterXref{Register: reg}
		x.regs[reg] = entry
	}
	entry.References = append(entry.References, Reference{Type: typ, Index: index})
}

// Xref is a convenience function returning the cross-reference entry for
// a single register within insts, or nil if reg is never accessed.
func Xref(insts []*regdeps.Instruction, reg regdeps.Reg) *RegisterXref {
	table := NewXRefGenerator().Generate(insts)
	return table[reg]
}

// SortedRegisters returns the registers present in table, sorted by id.
func SortedRegisters(table map[regdeps.Reg]*RegisterXref) []regdeps.Reg {
	out := make([]regdeps.Reg, 0, len(table))
	for r := range table {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// String renders a RegisterXref as a one-line summary, e.g.
// "V3: write@0, read@1, read@3".
func (rx *RegisterXref) String() string {
	parts := make([]string, len(rx.References))
	for i, ref := range rx.References {
		parts[i] = fmt.Sprintf("%s@%d", ref.Type, ref.Index)
	}
	out := rx.Register.String() + ":"
	for i, p := range parts {
		if i > 0 {
			out += ","
		}
		out += " " + p
	}
	return out
}
