package service

import (
	"testing"

	"github.com/lookbusy1344/regdeps-toolkit/regdeps"
)

func sampleServiceInsts() []*regdeps.Instruction {
	return []*regdeps.Instruction{
		{Category: regdeps.CategoryIntMath, Dsts: []regdeps.Reg{regdeps.V(1)}},
		{Category: regdeps.CategoryBranch, Srcs: []regdeps.Reg{regdeps.V(1)}, Dsts: []regdeps.Reg{regdeps.V(2)}},
		{Category: regdeps.CategoryLoad, Srcs: []regdeps.Reg{regdeps.V(2)}, Dsts: []regdeps.Reg{regdeps.V(3)}},
	}
}

func TestBrowserServiceGotoAndStep(t *testing.T) {
	s := NewBrowserService(sampleServiceInsts())

	if s.Length() != 3 {
		t.Fatalf("Length() = %d, want 3", s.Length())
	}

	if err := s.Goto(2); err != nil {
		t.Fatalf("Goto: %v", err)
	}
	if s.Position() != 2 {
		t.Errorf("Position() = %d, want 2", s.Position())
	}

	if err := s.Step(-1); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if s.Position() != 1 {
		t.Errorf("Position() = %d, want 1", s.Position())
	}
}

func TestBrowserServiceFilter(t *testing.T) {
	s := NewBrowserService(sampleServiceInsts())

	state, err := s.SetFilter("category==load")
	if err != nil {
		t.Fatalf("SetFilter: %v", err)
	}
	if state.Matches != 1 {
		t.Errorf("Matches = %d, want 1", state.Matches)
	}
	if s.Position() != 2 {
		t.Errorf("Position() after filter = %d, want 2", s.Position())
	}

	s.ClearFilter()
	if got := s.FilterState(); got.Expression != "" {
		t.Errorf("FilterState() after clear = %+v, want empty", got)
	}
}

func TestBrowserServiceWatches(t *testing.T) {
	s := NewBrowserService(sampleServiceInsts())

	id := s.AddWatch(regdeps.V(2), false)
	watches := s.Watches()
	if len(watches) != 1 || watches[0].ID != id {
		t.Fatalf("Watches() = %+v, want one entry with id %d", watches, id)
	}

	if err := s.RemoveWatch(id); err != nil {
		t.Fatalf("RemoveWatch: %v", err)
	}
	if len(s.Watches()) != 0 {
		t.Error("expected no watches after removal")
	}
}

func TestBrowserServiceCurrentAndWindow(t *testing.T) {
	s := NewBrowserService(sampleServiceInsts())

	cur := s.CurrentInstruction()
	if cur == nil || cur.Index != 0 {
		t.Fatalf("CurrentInstruction() = %+v, want index 0", cur)
	}

	window := s.Window(5, 5)
	if len(window) != 3 {
		t.Errorf("len(Window()) = %d, want 3", len(window))
	}
}

func TestBrowserServiceRegisterStatsAndCategories(t *testing.T) {
	s := NewBrowserService(sampleServiceInsts())

	stats := s.RegisterStats(regdeps.V(2))
	if stats == nil {
		t.Fatal("RegisterStats(V2) = nil, want a summary")
	}
	if stats.WriteCount != 1 || stats.ReadCount != 1 {
		t.Errorf("stats = %+v, want one read and one write", stats)
	}

	if s.RegisterStats(regdeps.V(99)) != nil {
		t.Error("expected nil for a never-accessed register")
	}

	top := s.TopCategories(2)
	if len(top) == 0 {
		t.Error("expected at least one category")
	}
}

func TestBrowserServiceLint(t *testing.T) {
	s := NewBrowserService(sampleServiceInsts())
	_ = s.Lint() // must not panic on a well-formed trace
}
