package regdeps

// Opcode is a sentinel-only field on a synthetic instruction: the codec
// never round-trips a real per-architecture opcode (spec.md Non-goals), but
// a decoded instruction still needs a well-defined value that passes
// validity checks while signalling "no native opcode is known here."
type Opcode uint16

// OpUndecoded is the sentinel opcode value Decode stamps onto every
// instruction it produces, matching DynamoRIO's OP_UNDECODED convention for
// the synthetic regdeps ISA.
const OpUndecoded Opcode = 0

// ISAMode distinguishes the provenance of an Instruction's data.
type ISAMode uint8

const (
	// ModeUnset is the zero value: the instruction has not been populated
	// by either a native decoder or this package's Decode.
	ModeUnset ISAMode = iota
	// ModeSynthetic marks an instruction built by this package's Decode
	// from wire bytes rather than by a native per-architecture decoder.
	ModeSynthetic
)

// ArithFlags is the 2-bit summary of an instruction's use of
// arithmetic/condition-code flags. Specific flag identities (carry, zero,
// negative, overflow, ...) are never preserved, only these two aggregate
// predicates.
type ArithFlags uint8

// Bit assignments within ArithFlags, matching FlagWritesArith/FlagReadsArith.
const (
	ArithWrites ArithFlags = FlagWritesArith
	ArithReads  ArithFlags = FlagReadsArith
)

// Writes reports whether the instruction writes at least one arithmetic
// flag.
func (f ArithFlags) Writes() bool { return f&ArithWrites != 0 }

// Reads reports whether the instruction reads at least one arithmetic flag.
func (f ArithFlags) Reads() bool { return f&ArithReads != 0 }

// Valid reports whether f uses only its two defined bits (spec.md §3
// invariant 4).
func (f ArithFlags) Valid() bool {
	return f&^(ArithWrites|ArithReads) == 0
}

// NewArithFlags builds an ArithFlags value from the two aggregate
// predicates.
func NewArithFlags(writes, reads bool) ArithFlags {
	var f ArithFlags
	if writes {
		f |= ArithWrites
	}
	if reads {
		f |= ArithReads
	}
	return f
}

// Instruction is the in-memory register-dependency instruction record (C4):
// the entity the encoder consumes and the decoder produces. Created by a
// native decoder (out of scope for this package) or by Decode; mutated only
// by its producer until emitted, then treated as immutable by downstream
// tools. An Instruction owns its operand slices and, once decoded, its
// raw-bytes cache.
type Instruction struct {
	Opcode   Opcode
	Mode     ISAMode
	Category Category
	Flags    ArithFlags
	Size     OpSize

	// Dsts and Srcs are ordered register-id sequences: destinations and
	// sources respectively. Order is preserved by the codec but carries no
	// semantic guarantee beyond what the producer chose. BuildInstruction
	// removes duplicates within each sequence; Encode copies the sequences
	// as given and does not check for duplicates.
	Dsts []Reg
	Srcs []Reg

	// rawBytes, when non-nil, is the instruction's own encoded form,
	// populated by Decode and consulted by Encode's fast path. length is
	// valid whenever rawBytes is non-nil.
	rawBytes []byte
	length   uint32
}

// NumDsts returns the number of destination register operands.
func (in *Instruction) NumDsts() int { return len(in.Dsts) }

// NumSrcs returns the number of source register operands.
func (in *Instruction) NumSrcs() int { return len(in.Srcs) }

// NumOpnds returns the total register operand count.
func (in *Instruction) NumOpnds() int { return len(in.Dsts) + len(in.Srcs) }

// ProvisionOperands resizes Dsts and Srcs to the given counts, zeroing their
// contents. This is the "set operand counts" primitive Decode uses to
// provision storage before populating register ids; callers building an
// Instruction by hand may call it directly instead of appending to Dsts/Srcs
// themselves.
func (in *Instruction) ProvisionOperands(numDsts, numSrcs int) {
	in.Dsts = make([]Reg, numDsts)
	in.Srcs = make([]Reg, numSrcs)
}

// Valid reports whether the instruction satisfies the invariants of spec.md
// §3: bounded operand count, an operation size present whenever operands
// exist, a well-formed flags field, and a well-formed category.
func (in *Instruction) Valid() bool {
	if in.NumOpnds() > MaxNumOpnds {
		return false
	}
	if in.NumOpnds() > 0 && in.Size == OpSizeNone {
		return false
	}
	if !in.Flags.Valid() {
		return false
	}
	return in.Category.Valid()
}

// RawBytes returns the instruction's cached encoded form and its length, if
// one is cached (only Decode sets it; Encode reads it but never stores it).
// The second return value is false if no cache is present.
func (in *Instruction) RawBytes() ([]byte, uint32, bool) {
	if in.rawBytes == nil {
		return nil, 0, false
	}
	return in.rawBytes, in.length, true
}

// InvalidateRawBytes clears the instruction's raw-bytes cache, forcing the
// next Encode call to take the slow path. Call this after mutating any
// field that affects the wire encoding.
func (in *Instruction) InvalidateRawBytes() {
	in.rawBytes = nil
	in.length = 0
}
