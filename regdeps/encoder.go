package regdeps

import (
	"encoding/binary"
	"log"
)

// Encode writes inst's wire-format encoding into out, starting at out[0],
// and returns the number of bytes written (the distance the caller's write
// cursor should advance). out must have at least EncodedLength(inst.NumOpnds())
// bytes of capacity; callers working with a larger shared buffer pass a
// sub-slice starting at their current (4-byte-aligned) write position.
//
// If inst already carries a valid raw-bytes cache, Encode takes the fast
// path: it memcpy's those bytes into out and returns. Otherwise it takes the
// slow path described in spec.md §4.2. The slow path fails in two cases,
// both of which return a *CodecError and write nothing to out:
// too-many-operands, which wraps ErrTooManyOperands and is also logged as a
// warning through the standard log package, and an out shorter than the
// encoded length.
func Encode(inst *Instruction, out []byte) (int, error) {
	if raw, length, ok := inst.RawBytes(); ok {
		copy(out, raw)
		return int(length), nil
	}

	numDsts := inst.NumDsts()
	numSrcs := inst.NumSrcs()
	numOpnds := numDsts + numSrcs
	if numOpnds > MaxNumOpnds {
		err := newCodecError(inst, "too many operands to encode", ErrTooManyOperands)
		log.Printf("warning: %v", err)
		return 0, err
	}

	header := uint32(numDsts) |
		uint32(numSrcs)<<SrcOpndShift |
		uint32(inst.Flags)<<FlagsShift |
		uint32(inst.Category)<<CategoryShift

	length := EncodedLength(numOpnds)
	if uint32(len(out)) < length {
		return 0, newCodecError(inst, "output buffer too small", nil)
	}

	binary.LittleEndian.PutUint32(out[0:4], header)

	if numOpnds > 0 {
		out[OpSizeIndex] = byte(inst.Size)
		for i, r := range inst.Dsts {
			out[OpndIndex+i] = byte(r)
		}
		for i, r := range inst.Srcs {
			out[OpndIndex+numDsts+i] = byte(r)
		}
	}

	return int(length), nil
}

// EncodeAppend is a convenience wrapper that appends inst's encoding to buf
// and returns the extended slice, growing buf as needed. It is the
// allocating counterpart to Encode for callers (such as the stream package)
// that build up a byte stream incrementally rather than managing their own
// fixed-size cursor.
func EncodeAppend(inst *Instruction, buf []byte) ([]byte, error) {
	length := EncodedLength(inst.NumOpnds())
	if raw, rawLen, ok := inst.RawBytes(); ok {
		length = rawLen
		_ = raw
	}
	start := len(buf)
	buf = append(buf, make([]byte, length)...)
	n, err := Encode(inst, buf[start:])
	if err != nil {
		return buf[:start], err
	}
	return buf[:start+n], nil
}
