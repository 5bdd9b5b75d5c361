package tools

import (
	"testing"

	"github.com/lookbusy1344/regdeps-toolkit/regdeps"
)

func TestLintMissingSize(t *testing.T) {
	insts := []*regdeps.Instruction{
		{Category: regdeps.CategoryIntMath, Dsts: []regdeps.Reg{regdeps.V(0)}},
	}
	issues := Lint(insts)

	found := false
	for _, issue := range issues {
		if issue.Code == "MISSING_SIZE" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected MISSING_SIZE finding, got %v", issues)
	}
}

func TestLintDuplicateSource(t *testing.T) {
	insts := []*regdeps.Instruction{
		{Category: regdeps.CategoryIntMath, Srcs: []regdeps.Reg{regdeps.V(1), regdeps.V(1)}, Size: regdeps.OpSize4},
	}
	issues := Lint(insts)

	found := false
	for _, issue := range issues {
		if issue.Code == "DUP_SRC" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected DUP_SRC finding, got %v", issues)
	}
}

func TestLintUncategorized(t *testing.T) {
	insts := []*regdeps.Instruction{{Category: regdeps.CategoryUncategorized}}
	issues := Lint(insts)

	found := false
	for _, issue := range issues {
		if issue.Code == "UNCATEGORIZED" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected UNCATEGORIZED finding, got %v", issues)
	}
}

func TestLintReadBeforeWrite(t *testing.T) {
	insts := []*regdeps.Instruction{
		{Category: regdeps.CategoryLoad, Srcs: []regdeps.Reg{regdeps.V(5)}, Size: regdeps.OpSize4},
	}
	issues := Lint(insts)

	found := false
	for _, issue := range issues {
		if issue.Code == "READ_BEFORE_WRITE" && issue.Index == 0 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected READ_BEFORE_WRITE finding, got %v", issues)
	}
}

func TestLintCleanTraceHasNoErrors(t *testing.T) {
	insts := []*regdeps.Instruction{
		{Category: regdeps.CategoryIntMath, Dsts: []regdeps.Reg{regdeps.V(0)}, Size: regdeps.OpSize4},
		{Category: regdeps.CategoryStore, Srcs: []regdeps.Reg{regdeps.V(0)}, Size: regdeps.OpSize4},
	}
	issues := NewLinter(&LintOptions{CheckInvariants: true}).Lint(insts)
	for _, issue := range issues {
		if issue.Level == LintError {
			t.Errorf("unexpected error-level finding on a clean trace: %v", issue)
		}
	}
}

func TestLintLevelString(t *testing.T) {
	cases := map[LintLevel]string{LintError: "error", LintWarning: "warning", LintInfo: "info"}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Errorf("%v.String() = %q, want %q", level, got, want)
		}
	}
}
