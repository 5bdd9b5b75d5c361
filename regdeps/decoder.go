package regdeps

import "encoding/binary"

// Decode reads one wire-format instruction from in, populating the
// caller-owned inst (see spec.md §4.3), and returns the number of bytes
// consumed so the caller can advance its cursor. in must begin at a 4-byte
// aligned offset and must contain at least as many bytes as the encoded
// instruction's implied length; Decode does not itself bound-check beyond
// that (truncated input is a caller responsibility per spec.md §7).
//
// Decode has no failure mode on well-formed input: every header bit pattern
// decodes to some Instruction, which Decode does not check against Valid
// (operand counts above MaxNumOpnds, for instance, are decoded as given).
// It always provisions inst's operand
// storage fresh (discarding any previous Dsts/Srcs), stamps the
// OpUndecoded/ModeSynthetic sentinels, and caches the consumed bytes on
// inst so a later Encode of the same instruction can take the fast path.
func Decode(in []byte, inst *Instruction) int {
	header := binary.LittleEndian.Uint32(in[0:4])

	numDsts := int(header & DstOpndMask)
	numSrcs := int((header & SrcOpndMask) >> SrcOpndShift)
	inst.ProvisionOperands(numDsts, numSrcs)

	flagBits := ArithFlags((header & FlagsMask) >> FlagsShift)
	inst.Flags = flagBits

	inst.Category = Category((header & CategoryMask) >> CategoryShift)

	numOpnds := numDsts + numSrcs
	var size OpSize
	if numOpnds > 0 {
		size = OpSize(in[OpSizeIndex])
	}
	inst.Size = size

	for i := 0; i < numDsts; i++ {
		inst.Dsts[i] = Reg(in[OpndIndex+i])
	}
	for i := 0; i < numSrcs; i++ {
		inst.Srcs[i] = Reg(in[OpndIndex+numDsts+i])
	}

	length := EncodedLength(numOpnds)

	inst.Opcode = OpUndecoded
	inst.Mode = ModeSynthetic

	inst.rawBytes = append([]byte(nil), in[:length]...)
	inst.length = length

	return int(length)
}

// DecodeAll decodes every instruction in a concatenated byte stream,
// stopping cleanly at the end of buf. Each instruction must start at a
// 4-byte aligned offset (the alignment law of spec.md §8); DecodeAll does
// not validate this beyond what Decode itself assumes.
func DecodeAll(buf []byte) []*Instruction {
	var out []*Instruction
	for off := 0; off < len(buf); {
		inst := &Instruction{}
		n := Decode(buf[off:], inst)
		if n <= 0 {
			break
		}
		out = append(out, inst)
		off += n
	}
	return out
}
