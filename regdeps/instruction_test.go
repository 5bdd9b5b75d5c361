package regdeps

import "testing"

func TestArithFlagsPredicates(t *testing.T) {
	f := NewArithFlags(true, false)
	if !f.Writes() {
		t.Errorf("expected Writes() true")
	}
	if f.Reads() {
		t.Errorf("expected Reads() false")
	}
	if !f.Valid() {
		t.Errorf("expected Valid() true")
	}
}

func TestArithFlagsInvalid(t *testing.T) {
	f := ArithFlags(0xFC)
	if f.Valid() {
		t.Errorf("expected Valid() false for bits outside the 2 defined")
	}
}

func TestInstructionValid(t *testing.T) {
	tests := []struct {
		name string
		inst *Instruction
		want bool
	}{
		{
			name: "empty instruction",
			inst: &Instruction{Category: CategoryBranch},
			want: true,
		},
		{
			name: "too many operands",
			inst: &Instruction{
				Dsts: make([]Reg, 5),
				Srcs: make([]Reg, 4),
				Size: OpSize4,
			},
			want: false,
		},
		{
			name: "operands without size",
			inst: &Instruction{Dsts: []Reg{V(1)}},
			want: false,
		},
		{
			name: "invalid category bits",
			inst: &Instruction{Category: Category(1 << 30)},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.inst.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProvisionOperands(t *testing.T) {
	inst := &Instruction{}
	inst.ProvisionOperands(2, 3)
	if inst.NumDsts() != 2 || inst.NumSrcs() != 3 {
		t.Fatalf("got %d dsts, %d srcs", inst.NumDsts(), inst.NumSrcs())
	}
	if inst.NumOpnds() != 5 {
		t.Fatalf("NumOpnds() = %d, want 5", inst.NumOpnds())
	}
}

func TestRawBytesCacheInvalidation(t *testing.T) {
	inst := &Instruction{}
	buf := []byte{0x00, 0x40, 0, 0} // empty branch-only instruction
	Decode(buf, inst)
	if _, _, ok := inst.RawBytes(); !ok {
		t.Fatalf("expected raw bytes cache after Decode")
	}
	inst.InvalidateRawBytes()
	if _, _, ok := inst.RawBytes(); ok {
		t.Fatalf("expected no raw bytes cache after invalidation")
	}
}
