// Package service provides a thread-safe interface to trace-browsing
// functionality, shared by the CLI, TUI, and HTTP API front ends.
package service

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/lookbusy1344/regdeps-toolkit/debugger"
	"github.com/lookbusy1344/regdeps-toolkit/regdeps"
	"github.com/lookbusy1344/regdeps-toolkit/tools"
)

var serviceLog *log.Logger

func init() {
	if os.Getenv("REGDEPS_DEBUG") != "" {
		// Note: file handle intentionally not closed - kept open for
		// process lifetime, cleaned up by the OS on exit.
		logPath := filepath.Join(os.TempDir(), "regdeps-service-debug.log")
		f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600) // #nosec G304 -- fixed filename in temp dir
		if err != nil {
			serviceLog = log.New(os.Stderr, "SERVICE: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
		} else {
			serviceLog = log.New(f, "SERVICE: ", log.Ltime|log.Lmicroseconds|log.Lshortfile)
		}
	} else {
		serviceLog = log.New(io.Discard, "", 0)
	}
}

// BrowserService wraps a debugger.Browser with its own mutex so the same
// decoded trace can be driven concurrently by an HTTP handler goroutine
// and a WebSocket broadcast goroutine.
//
// Lock ordering: BrowserService's mutex (s.mu) is the only lock taken by
// callers outside this package. debugger.Browser and its WatchManager
// have no exported locking of their own beyond WatchManager's internal
// mutex, which this type never holds while calling back into itself, so
// there is no lock-ordering hazard to document beyond "always go through
// BrowserService, never reach into the Browser directly."
type BrowserService struct {
	mu      sync.RWMutex
	browser *debugger.Browser
}

// NewBrowserService creates a service wrapping an already-decoded trace.
func NewBrowserService(insts []*regdeps.Instruction) *BrowserService {
	serviceLog.Printf("creating browser service over %d instructions", len(insts))
	return &BrowserService{browser: debugger.NewBrowser(insts)}
}

// Position returns the current cursor position.
func (s *BrowserService) Position() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.browser.Position
}

// Length returns the number of instructions in the trace.
func (s *BrowserService) Length() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.browser.Insts)
}

// Goto moves the cursor to an absolute index.
func (s *BrowserService) Goto(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.browser.ExecuteCommand(fmt.Sprintf("goto %d", index))
}

// Step moves the cursor by delta positions (negative steps backward),
// honoring the active filter the way the interactive "next"/"prev"
// commands do.
func (s *BrowserService) Step(delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cmd := "next"
	if delta < 0 {
		cmd = "prev"
		delta = -delta
	}
	return s.browser.ExecuteCommand(fmt.Sprintf("%s %d", cmd, delta))
}

// SetFilter compiles and installs a trace-filter expression.
func (s *BrowserService) SetFilter(expr string) (FilterState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.browser.ExecuteCommand("filter " + expr); err != nil {
		return FilterState{}, err
	}
	return s.filterStateLocked(), nil
}

// ClearFilter removes the active filter.
func (s *BrowserService) ClearFilter() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.browser.Filter = nil
	s.browser.FilterOf = ""
}

// FilterState reports the currently installed filter, if any.
func (s *BrowserService) FilterState() FilterState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterStateLocked()
}

func (s *BrowserService) filterStateLocked() FilterState {
	if s.browser.FilterOf == "" {
		return FilterState{}
	}
	matches := 0
	for i := range s.browser.Insts {
		if s.browser.MatchesFilter(i) {
			matches++
		}
	}
	return FilterState{Expression: s.browser.FilterOf, Matches: matches}
}

// AddWatch registers a highlighted register and returns its id.
func (s *BrowserService) AddWatch(reg regdeps.Reg, readWrite bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.browser.Watches.Add(reg, readWrite)
	return w.ID
}

// RemoveWatch deletes a watch by id.
func (s *BrowserService) RemoveWatch(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.browser.Watches.Delete(id)
}

// Watches lists every watch as a UI-facing snapshot.
func (s *BrowserService) Watches() []WatchInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.browser.Watches.All()
	out := make([]WatchInfo, len(all))
	for i, w := range all {
		out[i] = WatchInfo{ID: w.ID, Register: int(w.Register), ReadWrite: w.ReadWrite, Enabled: w.Enabled}
	}
	return out
}

// CurrentInstruction returns a UI-facing snapshot of the instruction
// under the cursor, or nil if the trace is empty.
func (s *BrowserService) CurrentInstruction() *InstructionInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inst := s.browser.Current()
	if inst == nil {
		return nil
	}
	return toInstructionInfo(inst, s.browser.Position)
}

// Window returns a UI-facing snapshot of the instructions from
// [position-before, position+after), clamped to the trace bounds.
func (s *BrowserService) Window(before, after int) []InstructionInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos := s.browser.Position
	start := pos - before
	if start < 0 {
		start = 0
	}
	end := pos + after
	if end > len(s.browser.Insts) {
		end = len(s.browser.Insts)
	}

	out := make([]InstructionInfo, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, *toInstructionInfo(s.browser.Insts[i], i))
	}
	return out
}

func toInstructionInfo(inst *regdeps.Instruction, index int) *InstructionInfo {
	dsts := make([]string, len(inst.Dsts))
	for i, r := range inst.Dsts {
		dsts[i] = r.String()
	}
	srcs := make([]string, len(inst.Srcs))
	for i, r := range inst.Srcs {
		srcs[i] = r.String()
	}
	return &InstructionInfo{
		Index:    index,
		Category: inst.Category.String(),
		Size:     inst.Size.String(),
		Flags:    flagsString(inst.Flags),
		Dsts:     dsts,
		Srcs:     srcs,
	}
}

func flagsString(flags regdeps.ArithFlags) string {
	switch {
	case flags.Writes() && flags.Reads():
		return "wr"
	case flags.Writes():
		return "w"
	case flags.Reads():
		return "r"
	default:
		return "-"
	}
}

// RegisterStats returns the aggregate read/write statistics for reg, or
// nil if it is never accessed in the trace.
func (s *BrowserService) RegisterStats(reg regdeps.Reg) *RegisterSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := s.browser.RegTrace.Stats(reg)
	if stats == nil {
		return nil
	}
	return &RegisterSummary{
		Register:   reg.String(),
		ReadCount:  stats.ReadCount,
		WriteCount: stats.WriteCount,
		FirstRead:  stats.FirstRead,
		FirstWrite: stats.FirstWrite,
		LastRead:   stats.LastRead,
		LastWrite:  stats.LastWrite,
	}
}

// TopCategories returns the n most common categories in the trace.
func (s *BrowserService) TopCategories(n int) []CategorySummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	top := s.browser.CatStats.TopCategories(n)
	out := make([]CategorySummary, len(top))
	for i, c := range top {
		out[i] = CategorySummary{Category: c.Category.String(), Count: c.Count}
	}
	return out
}

// Lint runs the structural linter over the whole trace.
func (s *BrowserService) Lint() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	issues := tools.Lint(s.browser.Insts)
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.String()
	}
	return out
}
