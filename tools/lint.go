package tools

import (
	"fmt"

	"github.com/lookbusy1344/regdeps-toolkit/regdeps"
)

// LintLevel represents the severity of a lint finding.
type LintLevel int

const (
	LintError   LintLevel = iota // an invariant from spec.md §3 is violated
	LintWarning                  // legal but suspicious (e.g. read-before-write)
	LintInfo                     // informational observation
)

func (l LintLevel) String() string {
	switch l {
	case LintError:
		return "error"
	case LintWarning:
		return "warning"
	case LintInfo:
		return "info"
	default:
		return "unknown"
	}
}

// LintIssue is a single lint finding against one instruction in a trace.
type LintIssue struct {
	Level   LintLevel
	Index   int // position of the offending instruction within the trace
	Message string
	Code    string // e.g. "OPND_COUNT", "MISSING_SIZE", "READ_BEFORE_WRITE"
}

func (i *LintIssue) String() string {
	return fmt.Sprintf("instruction %d: %s: %s [%s]", i.Index, i.Level, i.Message, i.Code)
}

// LintOptions controls which checks Lint runs.
type LintOptions struct {
	CheckInvariants      bool // the five structural invariants of spec.md §3
	CheckReadBeforeWrite bool // registers the trace reads without ever writing
	CheckUncategorized   bool // instructions with an empty category bitmask
}

// DefaultLintOptions returns the default set of enabled checks.
func DefaultLintOptions() *LintOptions {
	return &LintOptions{
		CheckInvariants:      true,
		CheckReadBeforeWrite: true,
		CheckUncategorized:   true,
	}
}

// Linter checks a decoded instruction trace against the codec's
// invariants and a handful of suspicious-but-legal patterns.
type Linter struct {
	options *LintOptions
	issues  []*LintIssue
}

// NewLinter creates a linter using options, or DefaultLintOptions if
// options is nil.
func NewLinter(options *LintOptions) *Linter {
	if options == nil {
		options = DefaultLintOptions()
	}
	return &Linter{options: options}
}

// Lint checks insts and returns every finding, in trace order.
func (l *Linter) Lint(insts []*regdeps.Instruction) []*LintIssue {
	l.issues = nil

	if l.options.CheckInvariants {
		for i, inst := range insts {
			l.checkInvariants(i, inst)
		}
	}
	if l.options.CheckUncategorized {
		for i, inst := range insts {
			if inst.Category == regdeps.CategoryUncategorized {
				l.add(LintWarning, i, "instruction has no category bits set", "UNCATEGORIZED")
			}
		}
	}
	if l.options.CheckReadBeforeWrite {
		l.checkReadBeforeWrite(insts)
	}

	return l.issues
}

func (l *Linter) checkInvariants(index int, inst *regdeps.Instruction) {
	if inst.NumOpnds() > regdeps.MaxNumOpnds {
		l.add(LintError, index, fmt.Sprintf("num_dsts+num_srcs = %d exceeds the maximum of %d", inst.NumOpnds(), regdeps.MaxNumOpnds), "OPND_COUNT")
	}
	if inst.NumOpnds() > 0 && inst.Size == regdeps.OpSizeNone {
		l.add(LintError, index, "instruction has operands but no operation size", "MISSING_SIZE")
	}
	if !inst.Flags.Valid() {
		l.add(LintError, index, "arithmetic-flags field uses undefined bits", "BAD_FLAGS")
	}
	if !inst.Category.Valid() {
		l.add(LintError, index, "category field uses bits outside the 22-bit field", "BAD_CATEGORY")
	}
	if len(inst.Dsts) != len(uniqueRegs(inst.Dsts)) {
		l.add(LintError, index, "destination operands contain a duplicate register id", "DUP_DST")
	}
	if len(inst.Srcs) != len(uniqueRegs(inst.Srcs)) {
		l.add(LintError, index, "source operands contain a duplicate register id", "DUP_SRC")
	}
}

// checkReadBeforeWrite flags registers that the trace reads at some point
// without ever having written them earlier in the same trace.
func (l *Linter) checkReadBeforeWrite(insts []*regdeps.Instruction) {
	written := make(map[regdeps.Reg]bool)
	warned := make(map[regdeps.Reg]bool)
	for i, inst := range insts {
		for _, r := range inst.Srcs {
			if !written[r] && !warned[r] {
				l.add(LintWarning, i, fmt.Sprintf("register %s read before any write in this trace", r), "READ_BEFORE_WRITE")
				warned[r] = true
			}
		}
		for _, r := range inst.Dsts {
			written[r] = true
		}
	}
}

func (l *Linter) add(level LintLevel, index int, message, code string) {
	l.issues = append(l.issues, &LintIssue{Level: level, Index: index, Message: message, Code: code})
}

func uniqueRegs(regs []regdeps.Reg) map[regdeps.Reg]bool {
	set := make(map[regdeps.Reg]bool, len(regs))
	for _, r := range regs {
		set[r] = true
	}
	return set
}

// Lint is a convenience function running DefaultLintOptions over insts.
func Lint(insts []*regdeps.Instruction) []*LintIssue {
	return NewLinter(DefaultLintOptions()).Lint(insts)
}
