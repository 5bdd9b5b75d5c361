package regdeps

import "sort"

// NativeOperand describes one operand of a source instruction in enough
// detail for BuildInstruction to canonicalize it: the raw (possibly
// sub-register-width) register references it uses, and whether it denotes a
// memory reference. A register operand uses exactly one raw register; a
// memory operand may use more than one (e.g. base + index).
type NativeOperand struct {
	Regs     []uint8
	IsMemory bool
}

// NativeInstruction is the fuller operand-record shape a native per-ISA
// decoder hands to BuildInstruction: destinations and sources in whatever
// order the native decoder produced them, before sub-register
// canonicalization, memory-operand folding, or deduplication.
type NativeInstruction struct {
	Category Category
	Flags    ArithFlags
	Dsts     []NativeOperand
	Srcs     []NativeOperand
}

// BuildInstruction canonicalizes a NativeInstruction into the deduplicated,
// sorted Instruction form this package's Encode expects, implementing the
// encoder-only canonicalization rule from spec.md §4.2:
//
//   - every destination that denotes a memory reference has its address
//     registers merged into the source set, because they are read, not
//     written;
//   - every remaining destination and every source has each raw register
//     mapped to its canonical full-width register via canon;
//   - canonical register ids are deduplicated and, within each of the
//     destination and source sets, returned in ascending order;
//   - the instruction's operation size is the maximum, over all
//     occurrences of a canonical register, of the sizes canon reports for
//     it.
//
// The resulting Instruction has no raw-bytes cache, so Encode always takes
// the slow path for it.
func BuildInstruction(ni *NativeInstruction, canon RegisterCanonicalizer) *Instruction {
	dstSeen := make(map[Reg]bool)
	srcSeen := make(map[Reg]bool)
	var size OpSize

	addReg := func(seen map[Reg]bool, raw uint8) {
		reg, regSize := canon.Canonicalize(raw)
		seen[reg] = true
		size = size.Max(regSize)
	}

	for _, dst := range ni.Dsts {
		if dst.IsMemory {
			for _, raw := range dst.Regs {
				addReg(srcSeen, raw)
			}
			continue
		}
		for _, raw := range dst.Regs {
			addReg(dstSeen, raw)
		}
	}
	for _, src := range ni.Srcs {
		for _, raw := range src.Regs {
			addReg(srcSeen, raw)
		}
	}

	inst := &Instruction{
		Category: ni.Category,
		Flags:    ni.Flags,
		Size:     size,
		Dsts:     sortedKeys(dstSeen),
		Srcs:     sortedKeys(srcSeen),
	}
	return inst
}

func sortedKeys(set map[Reg]bool) []Reg {
	out := make([]Reg, 0, len(set))
	for r := range set {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
