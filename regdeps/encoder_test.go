package regdeps

import (
	"bytes"
	"testing"
)

// TestEncodeSingleDestination is spec.md §8 scenario 2: single-destination,
// integer math, writes flags.
func TestEncodeSingleDestination(t *testing.T) {
	inst := &Instruction{
		Category: CategoryIntMath,
		Flags:    NewArithFlags(true, false),
		Dsts:     []Reg{V(3)},
		Size:     OpSize4,
	}
	out := make([]byte, EncodedLength(inst.NumOpnds()))
	n, err := Encode(inst, out)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if n != 8 {
		t.Fatalf("length = %d, want 8", n)
	}
	want := []byte{0x01, 0x05, 0x00, 0x00, 0x04, 0x03, 0x00, 0x00}
	if !bytes.Equal(out[:4], want[:4]) || out[4] != want[4] || out[5] != want[5] {
		t.Fatalf("got % x, want % x", out, want)
	}
}

// TestEncodeTwoSourcesOneDest is spec.md §8 scenario 3: two sources, one
// destination, load category, reads flags.
func TestEncodeTwoSourcesOneDest(t *testing.T) {
	inst := &Instruction{
		Category: CategoryLoad,
		Flags:    NewArithFlags(false, true),
		Dsts:     []Reg{V(1)},
		Srcs:     []Reg{V(2), V(3)},
		Size:     OpSize8,
	}
	out := make([]byte, EncodedLength(inst.NumOpnds()))
	n, err := Encode(inst, out)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if n != 8 {
		t.Fatalf("length = %d, want 8", n)
	}
	want := []byte{0x21, 0x12, 0x00, 0x00, 0x08, 0x01, 0x02, 0x03}
	if !bytes.Equal(out, want) {
		t.Fatalf("got % x, want % x", out, want)
	}
}

// TestEncodeMaximalOperands is spec.md §8 scenario 4: 4 dst, 4 src, SIMD,
// OPSZ_16.
func TestEncodeMaximalOperands(t *testing.T) {
	inst := &Instruction{
		Category: CategorySIMD,
		Dsts:     []Reg{V(0), V(1), V(2), V(3)},
		Srcs:     []Reg{V(4), V(5), V(6), V(7)},
		Size:     OpSize16,
	}
	out := make([]byte, EncodedLength(inst.NumOpnds()))
	n, err := Encode(inst, out)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if n != 16 {
		t.Fatalf("length = %d, want 16", n)
	}
	if out[0]&0x0F != 0x04 || (out[0]>>4)&0x0F != 0x04 {
		t.Fatalf("header low byte = 0x%02x, want dst=4 src=4", out[0])
	}
	if out[4] != byte(OpSize16) {
		t.Fatalf("opsize byte = %d, want %d", out[4], OpSize16)
	}
	for i, want := range []byte{0, 1, 2, 3, 4, 5, 6, 7} {
		if out[5+i] != want {
			t.Fatalf("operand byte %d = %d, want %d", i, out[5+i], want)
		}
	}
}

func TestEncodeTooManyOperands(t *testing.T) {
	inst := &Instruction{
		Dsts: make([]Reg, 5),
		Srcs: make([]Reg, 4),
		Size: OpSize4,
	}
	out := make([]byte, 16)
	n, err := Encode(inst, out)
	if err == nil {
		t.Fatalf("expected error for 9 operands")
	}
	if n != 0 {
		t.Fatalf("expected 0 bytes written on error, got %d", n)
	}
	for _, b := range out {
		if b != 0 {
			t.Fatalf("expected output buffer untouched on error")
		}
	}
}

func TestEncodeEmptyInstructionLength(t *testing.T) {
	inst := &Instruction{Category: CategoryBranch}
	out := make([]byte, EncodedLength(0))
	n, err := Encode(inst, out)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if n != 4 {
		t.Fatalf("length = %d, want 4", n)
	}
}

func TestEncodeFastPathUsesRawBytes(t *testing.T) {
	inst := &Instruction{}
	src := []byte{0x01, 0x05, 0x00, 0x00, 0x04, 0x03, 0x00, 0x00}
	Decode(src, inst)

	// Mutate a field that would change the slow-path encoding, to prove the
	// fast path really does just memcpy the cached bytes rather than
	// recomputing the header.
	inst.Category = CategoryOther

	out := make([]byte, 8)
	n, err := Encode(inst, out)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if n != 8 || !bytes.Equal(out, src) {
		t.Fatalf("fast path did not reproduce cached bytes: got % x, want % x", out, src)
	}
}

func TestEncodeAppendGrowsBuffer(t *testing.T) {
	inst := &Instruction{Category: CategoryBranch}
	buf := []byte{0xAA}
	buf, err := EncodeAppend(inst, buf)
	if err != nil {
		t.Fatalf("EncodeAppend: %v", err)
	}
	if len(buf) != 5 {
		t.Fatalf("len(buf) = %d, want 5", len(buf))
	}
	if buf[0] != 0xAA {
		t.Fatalf("EncodeAppend clobbered existing prefix")
	}
}
