package debugger

import (
	"strings"
	"testing"

	"github.com/lookbusy1344/regdeps-toolkit/regdeps"
)

func sampleBrowserInsts() []*regdeps.Instruction {
	return []*regdeps.Instruction{
		{Category: regdeps.CategoryIntMath, Dsts: []regdeps.Reg{regdeps.V(1)}},
		{Category: regdeps.CategoryBranch, Srcs: []regdeps.Reg{regdeps.V(1)}, Dsts: []regdeps.Reg{regdeps.V(2)}},
		{Category: regdeps.CategoryLoad, Srcs: []regdeps.Reg{regdeps.V(2)}, Dsts: []regdeps.Reg{regdeps.V(3)}},
	}
}

func TestBrowserCurrentAndGoto(t *testing.T) {
	b := NewBrowser(sampleBrowserInsts())

	if b.Current() == nil {
		t.Fatal("Current() returned nil at position 0")
	}

	if err := b.ExecuteCommand("goto 2"); err != nil {
		t.Fatalf("goto: %v", err)
	}
	if b.Position != 2 {
		t.Errorf("Position = %d, want 2", b.Position)
	}

	if err := b.ExecuteCommand("goto 99"); err == nil {
		t.Error("expected an out-of-range error")
	}
}

func TestBrowserNextPrev(t *testing.T) {
	b := NewBrowser(sampleBrowserInsts())

	if err := b.ExecuteCommand("next"); err != nil {
		t.Fatalf("next: %v", err)
	}
	if b.Position != 1 {
		t.Errorf("Position = %d, want 1", b.Position)
	}

	if err := b.ExecuteCommand("prev"); err != nil {
		t.Fatalf("prev: %v", err)
	}
	if b.Position != 0 {
		t.Errorf("Position = %d, want 0", b.Position)
	}

	if err := b.ExecuteCommand("prev"); err == nil {
		t.Error("expected an error stepping before the start of the trace")
	}
}

func TestBrowserFilter(t *testing.T) {
	b := NewBrowser(sampleBrowserInsts())

	if err := b.ExecuteCommand("filter category==load"); err != nil {
		t.Fatalf("filter: %v", err)
	}
	if b.Position != 2 {
		t.Errorf("Position after filter = %d, want 2 (only load instruction)", b.Position)
	}

	if err := b.ExecuteCommand("clearfilter"); err != nil {
		t.Fatalf("clearfilter: %v", err)
	}
	if b.Filter != nil {
		t.Error("expected filter to be cleared")
	}
}

func TestBrowserFind(t *testing.T) {
	b := NewBrowser(sampleBrowserInsts())

	if err := b.ExecuteCommand("find writes(V3)"); err != nil {
		t.Fatalf("find: %v", err)
	}
	if b.Position != 2 {
		t.Errorf("Position after find = %d, want 2", b.Position)
	}
}

func TestBrowserWatchAndHighlight(t *testing.T) {
	b := NewBrowser(sampleBrowserInsts())

	if err := b.ExecuteCommand("watch V2"); err != nil {
		t.Fatalf("watch: %v", err)
	}
	if b.Watches.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", b.Watches.Count())
	}
	if !b.IsHighlighted(1) {
		t.Error("expected index 1 (writes V2) to be highlighted")
	}
	if b.IsHighlighted(2) {
		t.Error("did not expect index 2 (only reads V2) to be highlighted for a write-only watch")
	}
}

func TestBrowserInfoAndStats(t *testing.T) {
	b := NewBrowser(sampleBrowserInsts())

	if err := b.ExecuteCommand("info"); err != nil {
		t.Fatalf("info: %v", err)
	}
	if out := b.GetOutput(); !strings.Contains(out, "position 0 of 3") {
		t.Errorf("info output missing position summary: %q", out)
	}

	if err := b.ExecuteCommand("stats"); err != nil {
		t.Fatalf("stats: %v", err)
	}
	if out := b.GetOutput(); !strings.Contains(out, "total instructions: 3") {
		t.Errorf("stats output missing total: %q", out)
	}
}

func TestBrowserUnknownCommand(t *testing.T) {
	b := NewBrowser(sampleBrowserInsts())
	if err := b.ExecuteCommand("bogus"); err == nil {
		t.Error("expected an error for an unknown command")
	}
}

func TestBrowserRepeatsLastCommandOnEmptyInput(t *testing.T) {
	b := NewBrowser(sampleBrowserInsts())

	if err := b.ExecuteCommand("next"); err != nil {
		t.Fatalf("next: %v", err)
	}
	if err := b.ExecuteCommand(""); err != nil {
		t.Fatalf("repeat: %v", err)
	}
	if b.Position != 2 {
		t.Errorf("Position = %d, want 2 after repeating 'next'", b.Position)
	}
}
