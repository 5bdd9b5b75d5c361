// Package regdeps implements the register-dependency instruction model and
// its fixed-width binary codec: a compact, architecture-agnostic
// representation of which registers an instruction reads and writes, which
// arithmetic flags it touches, its operation category, and its dominant
// operand size.
package regdeps

// Encoding field widths, in bits.
const (
	CategoryBits  = 22
	FlagsBits     = 2
	NumOpndBits   = 4
)

// Bit-shift positions within the 4-byte little-endian header word.
const (
	SrcOpndShift  = NumOpndBits
	FlagsShift    = 2 * NumOpndBits
	CategoryShift = 2*NumOpndBits + FlagsBits
)

// Header field masks, derived mechanically from width and shift.
const (
	DstOpndMask  = (uint32(1) << NumOpndBits) - 1
	SrcOpndMask  = ((uint32(1) << NumOpndBits) - 1) << SrcOpndShift
	FlagsMask    = ((uint32(1) << FlagsBits) - 1) << FlagsShift
	CategoryMask = ((uint32(1) << CategoryBits) - 1) << CategoryShift
)

// Arithmetic-flag usage bits (the 2-bit flags field).
const (
	FlagWritesArith = 0x1
	FlagReadsArith  = 0x2
)

// Wire layout byte offsets and sizing.
const (
	HeaderBytes  = 4
	OpSizeIndex  = HeaderBytes
	OpndIndex    = OpSizeIndex + 1
	AlignBytes   = 4
	MaxNumOpnds  = 8
	MaxNumRegs   = 256
)

// AlignUp rounds n up to the next multiple of align. align must be a power
// of two.
func AlignUp(n, align uint32) uint32 {
	return (n + align - 1) &^ (align - 1)
}

// EncodedLength computes the wire length of an instruction with numOpnds
// total register operands, per the formula in the wire-format
// specification: header bytes plus, if any operands are present, one
// operation-size byte and one byte per operand, aligned up to AlignBytes.
func EncodedLength(numOpnds int) uint32 {
	var opndBytes uint32
	if numOpnds > 0 {
		opndBytes = uint32(numOpnds) + 1
	}
	return AlignUp(HeaderBytes+opndBytes, AlignBytes)
}
