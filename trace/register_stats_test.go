package trace

import (
	"testing"

	"github.com/lookbusy1344/regdeps-toolkit/regdeps"
)

func sampleTrace() []*regdeps.Instruction {
	return []*regdeps.Instruction{
		{Category: regdeps.CategoryIntMath, Dsts: []regdeps.Reg{regdeps.V(0)}},                                  // 0: writes V0
		{Category: regdeps.CategoryIntMath, Dsts: []regdeps.Reg{regdeps.V(1)}, Srcs: []regdeps.Reg{regdeps.V(0)}}, // 1: reads V0, writes V1
		{Category: regdeps.CategoryLoad, Srcs: []regdeps.Reg{regdeps.V(2)}},                                      // 2: reads V2 (never written)
		{Category: regdeps.CategoryStore, Srcs: []regdeps.Reg{regdeps.V(1)}},                                     // 3: reads V1
	}
}

func TestRegisterTraceBasic(t *testing.T) {
	rt := NewRegisterTrace()
	rt.Analyze(sampleTrace())

	if rt.TotalInstructions() != 4 {
		t.Fatalf("TotalInstructions = %d, want 4", rt.TotalInstructions())
	}

	v0 := rt.Stats(regdeps.V(0))
	if v0 == nil || v0.WriteCount != 1 || v0.ReadCount != 1 {
		t.Fatalf("V0 stats = %+v, want 1 write 1 read", v0)
	}
	if v0.FirstWrite != 0 || v0.FirstRead != 1 {
		t.Fatalf("V0 first access indices wrong: %+v", v0)
	}

	v1 := rt.Stats(regdeps.V(1))
	if v1 == nil || v1.WriteCount != 1 || v1.ReadCount != 1 {
		t.Fatalf("V1 stats = %+v, want 1 write 1 read", v1)
	}
}

func TestRegisterTraceHotRegisters(t *testing.T) {
	rt := NewRegisterTrace()
	rt.Analyze(sampleTrace())

	hot := rt.HotRegisters(1)
	if len(hot) != 1 {
		t.Fatalf("HotRegisters(1) returned %d entries, want 1", len(hot))
	}
	// V0 and V1 both have 2 accesses; V0 (lower id) wins the tie.
	if hot[0].Register != regdeps.V(0) {
		t.Errorf("hottest register = %v, want V0", hot[0].Register)
	}
}

func TestRegisterTraceReadBeforeWrite(t *testing.T) {
	rt := NewRegisterTrace()
	rt.Analyze(sampleTrace())

	rbw := rt.ReadBeforeWrite()
	if len(rbw) != 1 || rbw[0] != regdeps.V(2) {
		t.Fatalf("ReadBeforeWrite = %v, want [V2]", rbw)
	}
}

func TestRegisterTraceWriteOnly(t *testing.T) {
	rt := NewRegisterTrace()
	rt.Analyze(sampleTrace())

	writeOnly := rt.WriteOnly()
	if len(writeOnly) != 0 {
		t.Fatalf("WriteOnly = %v, want none (every write is eventually read)", writeOnly)
	}
}

func TestRegisterTraceAllStatsSorted(t *testing.T) {
	rt := NewRegisterTrace()
	rt.Analyze(sampleTrace())

	all := rt.AllStats()
	for i := 1; i < len(all); i++ {
		if all[i-1].Register >= all[i].Register {
			t.Fatalf("AllStats not sorted by register id: %v", all)
		}
	}
}
