package regdeps

import (
	"bytes"
	"testing"
)

func TestDecodeSingleDestination(t *testing.T) {
	buf := []byte{0x01, 0x05, 0x00, 0x00, 0x04, 0x03, 0x00, 0x00}
	inst := &Instruction{}
	n := Decode(buf, inst)

	if n != 8 {
		t.Fatalf("length = %d, want 8", n)
	}
	if inst.Category != CategoryIntMath {
		t.Errorf("category = %v, want %v", inst.Category, CategoryIntMath)
	}
	if !inst.Flags.Writes() || inst.Flags.Reads() {
		t.Errorf("flags = %v, want writes-only", inst.Flags)
	}
	if inst.NumDsts() != 1 || inst.Dsts[0] != V(3) {
		t.Errorf("dsts = %v, want [V3]", inst.Dsts)
	}
	if inst.NumSrcs() != 0 {
		t.Errorf("srcs = %v, want none", inst.Srcs)
	}
	if inst.Size != OpSize4 {
		t.Errorf("size = %v, want OpSize4", inst.Size)
	}
	if inst.Opcode != OpUndecoded {
		t.Errorf("opcode = %v, want OpUndecoded", inst.Opcode)
	}
	if inst.Mode != ModeSynthetic {
		t.Errorf("mode = %v, want ModeSynthetic", inst.Mode)
	}
}

func TestDecodeTwoSourcesOneDest(t *testing.T) {
	buf := []byte{0x21, 0x12, 0x00, 0x00, 0x08, 0x01, 0x02, 0x03}
	inst := &Instruction{}
	Decode(buf, inst)

	if inst.Category != CategoryLoad {
		t.Errorf("category = %v, want %v", inst.Category, CategoryLoad)
	}
	if inst.Flags.Writes() || !inst.Flags.Reads() {
		t.Errorf("flags = %v, want reads-only", inst.Flags)
	}
	if inst.NumDsts() != 1 || inst.Dsts[0] != V(1) {
		t.Errorf("dsts = %v, want [V1]", inst.Dsts)
	}
	if inst.NumSrcs() != 2 || inst.Srcs[0] != V(2) || inst.Srcs[1] != V(3) {
		t.Errorf("srcs = %v, want [V2 V3]", inst.Srcs)
	}
	if inst.Size != OpSize8 {
		t.Errorf("size = %v, want OpSize8", inst.Size)
	}
}

func TestDecodeEmptyInstruction(t *testing.T) {
	buf := []byte{0x00, 0x00, 0x00, 0x00}
	inst := &Instruction{}
	n := Decode(buf, inst)
	if n != 4 {
		t.Fatalf("length = %d, want 4", n)
	}
	if inst.NumOpnds() != 0 {
		t.Errorf("expected zero operands")
	}
	if inst.Size != OpSizeNone {
		t.Errorf("size = %v, want OpSizeNone", inst.Size)
	}
}

func TestDecodeAllStopsAtBufferEnd(t *testing.T) {
	var buf []byte
	buf = append(buf, 0x00, 0x00, 0x00, 0x00) // empty instruction, 4 bytes
	buf = append(buf, 0x01, 0x05, 0x00, 0x00, 0x04, 0x03, 0x00, 0x00) // 8 bytes

	insts := DecodeAll(buf)
	if len(insts) != 2 {
		t.Fatalf("got %d instructions, want 2", len(insts))
	}
	if insts[1].NumDsts() != 1 || insts[1].Dsts[0] != V(3) {
		t.Errorf("second instruction dsts = %v", insts[1].Dsts)
	}
}

func TestDecodeCachesRawBytesForReencode(t *testing.T) {
	src := []byte{0x21, 0x12, 0x00, 0x00, 0x08, 0x01, 0x02, 0x03}
	inst := &Instruction{}
	Decode(src, inst)

	raw, length, ok := inst.RawBytes()
	if !ok {
		t.Fatalf("expected raw bytes cache")
	}
	if length != 8 || !bytes.Equal(raw, src) {
		t.Fatalf("cached bytes = % x (len %d), want % x", raw, length, src)
	}
}
