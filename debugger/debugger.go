package debugger

import (
	"fmt"
	"strings"
	"sync"

	"github.com/lookbusy1344/regdeps-toolkit/regdeps"
	"github.com/lookbusy1344/regdeps-toolkit/tools"
	"github.com/lookbusy1344/regdeps-toolkit/trace"
)

// Browser holds the state of an interactive trace-browsing session: a
// decoded instruction trace, a cursor position into it, an optional
// active filter, and the register statistics/watch state built on top
// of it. Unlike a live debugger there is nothing to run — every command
// either moves the cursor or queries data already fully computed from
// the trace.
type Browser struct {
	Insts []*regdeps.Instruction

	Position int
	Filter   Predicate
	FilterOf string

	RegTrace *trace.RegisterTrace
	CatStats *trace.CategoryStats
	Watches  *WatchManager
	History  *CommandHistory

	// Last command (for repeat on empty input)
	LastCommand string

	// Output buffer
	Output strings.Builder
}

// NewBrowser creates a browser over a decoded trace, eagerly computing
// register and category statistics since nearly every command needs them.
func NewBrowser(insts []*regdeps.Instruction) *Browser {
	regTrace := trace.NewRegisterTrace()
	regTrace.Analyze(insts)

	catStats := trace.NewCategoryStats()
	catStats.Analyze(insts)

	return &Browser{
		Insts:    insts,
		Position: 0,
		RegTrace: regTrace,
		CatStats: catStats,
		Watches:  NewWatchManager(),
		History:  NewCommandHistory(),
	}
}

// Current returns the instruction at the cursor, or nil if the trace is
// empty or the cursor has run off either end.
func (b *Browser) Current() *regdeps.Instruction {
	if b.Position < 0 || b.Position >= len(b.Insts) {
		return nil
	}
	return b.Insts[b.Position]
}

// ExecuteCommand parses and runs a single browser command line.
func (b *Browser) ExecuteCommand(cmdLine string) error {
	cmdLine = strings.TrimSpace(cmdLine)

	// Empty command repeats the last one, so arrow-free terminals can
	// page through a trace by hitting Enter.
	if cmdLine == "" {
		cmdLine = b.LastCommand
	}

	if cmdLine != "" {
		b.History.Add(cmdLine)
		b.LastCommand = cmdLine
	}

	parts := strings.Fields(cmdLine)
	if len(parts) == 0 {
		return nil
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	return b.handleCommand(cmd, args)
}

func (b *Browser) handleCommand(cmd string, args []string) error {
	switch cmd {
	case "goto", "g":
		return b.cmdGoto(args)
	case "next", "n":
		return b.cmdNext(args)
	case "prev", "p":
		return b.cmdPrev(args)
	case "first":
		b.Position = 0
		return nil
	case "last":
		b.Position = len(b.Insts) - 1
		return nil

	case "filter", "f":
		return b.cmdFilter(args)
	case "clearfilter":
		b.Filter = nil
		b.FilterOf = ""
		b.Println("filter cleared")
		return nil
	case "find":
		return b.cmdFind(args)

	case "watch", "w":
		return b.cmdWatch(args, false)
	case "awatch":
		return b.cmdWatch(args, true)
	case "unwatch":
		return b.cmdUnwatch(args)
	case "watches":
		return b.cmdWatches(args)

	case "print", "reg":
		return b.cmdPrintRegister(args)
	case "xref":
		return b.cmdXref(args)
	case "info", "i":
		return b.cmdInfo(args)
	case "stats":
		return b.cmdStats(args)
	case "lint":
		return b.cmdLint(args)

	case "help", "h", "?":
		return b.cmdHelp(args)

	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
}

// GetOutput returns and clears the output buffer.
func (b *Browser) GetOutput() string {
	output := b.Output.String()
	b.Output.Reset()
	return output
}

// Printf writes formatted output to the output buffer.
func (b *Browser) Printf(format string, args ...interface{}) {
	b.Output.WriteString(fmt.Sprintf(format, args...))
}

// Println writes a line to the output buffer.
func (b *Browser) Println(args ...interface{}) {
	b.Output.WriteString(fmt.Sprintln(args...))
}

// IsHighlighted reports whether any enabled watch matches the
// instruction at index i.
func (b *Browser) IsHighlighted(i int) bool {
	return b.Watches.Highlights(b.Insts)[i]
}

// MatchesFilter reports whether the instruction at index i passes the
// active filter. With no active filter, everything matches.
func (b *Browser) MatchesFilter(i int) bool {
	if b.Filter == nil {
		return true
	}
	return b.Filter(b.Insts[i], i)
}

// FormatCurrent renders the instruction under the cursor using the
// package-level trace formatter.
func (b *Browser) FormatCurrent() string {
	inst := b.Current()
	if inst == nil {
		return ""
	}
	return tools.FormatTrace([]*regdeps.Instruction{inst})
}

// CommandHistory maintains a history of filter expressions and commands
// typed into the trace browser's input field, with readline-style
// previous/next navigation.
type CommandHistory struct {
	mu       sync.RWMutex
	commands []string
	maxSize  int
	position int
}

// NewCommandHistory creates an empty command history capped at 1000 entries.
func NewCommandHistory() *CommandHistory {
	return &CommandHistory{
		commands: make([]string, 0, 100),
		maxSize:  1000,
	}
}

// Add appends cmd to history, unless it is empty or repeats the last entry.
func (h *CommandHistory) Add(cmd string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cmd == "" {
		return
	}

	if len(h.commands) > 0 && h.commands[len(h.commands)-1] == cmd {
		h.position = len(h.commands)
		return
	}

	h.commands = append(h.commands, cmd)
	if len(h.commands) > h.maxSize {
		h.commands = h.commands[len(h.commands)-h.maxSize:]
	}
	h.position = len(h.commands)
}

// Previous moves the navigation cursor back one entry and returns it.
func (h *CommandHistory) Previous() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.commands) == 0 || h.position == 0 {
		return ""
	}

	h.position--
	return h.commands[h.position]
}

// Next moves the navigation cursor forward one entry and returns it, or
// the empty string once the cursor reaches the end.
func (h *CommandHistory) Next() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.commands) == 0 {
		return ""
	}

	if h.position >= len(h.commands)-1 {
		h.position = len(h.commands)
		return ""
	}

	h.position++
	return h.commands[h.position]
}

// GetLast returns the most recently added command without moving the
// navigation cursor.
func (h *CommandHistory) GetLast() string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.commands) == 0 {
		return ""
	}

	return h.commands[len(h.commands)-1]
}

// GetAll returns a copy of every command currently retained.
func (h *CommandHistory) GetAll() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make([]string, len(h.commands))
	copy(result, h.commands)
	return result
}

// Clear empties the history and resets the navigation cursor.
func (h *CommandHistory) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.commands = h.commands[:0]
	h.position = 0
}

// Size returns the number of commands currently retained.
func (h *CommandHistory) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.commands)
}

// Search returns every retained command that starts with prefix.
func (h *CommandHistory) Search(prefix string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var results []string
	for _, cmd := range h.commands {
		if strings.HasPrefix(cmd, prefix) {
			results = append(results, cmd)
		}
	}

	return results
}
