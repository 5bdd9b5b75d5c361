package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lookbusy1344/regdeps-toolkit/regdeps"
	"github.com/lookbusy1344/regdeps-toolkit/tools"
)

// Command handler implementations.

// cmdGoto moves the cursor to an absolute trace index.
func (b *Browser) cmdGoto(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: goto <index>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid index: %s", args[0])
	}
	if n < 0 || n >= len(b.Insts) {
		return fmt.Errorf("index %d out of range [0, %d)", n, len(b.Insts))
	}
	b.Position = n
	return nil
}

// cmdNext advances the cursor, optionally by a count, optionally
// honoring the active filter (so "next" skips straight to the next
// match rather than walking one-by-one).
func (b *Browser) cmdNext(args []string) error {
	count := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid count: %s", args[0])
		}
		count = n
	}

	for i := 0; i < count; i++ {
		next, ok := b.advance(1)
		if !ok {
			return fmt.Errorf("already at the end of the trace")
		}
		b.Position = next
	}
	return nil
}

// cmdPrev retreats the cursor, mirroring cmdNext.
func (b *Browser) cmdPrev(args []string) error {
	count := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid count: %s", args[0])
		}
		count = n
	}

	for i := 0; i < count; i++ {
		next, ok := b.advance(-1)
		if !ok {
			return fmt.Errorf("already at the start of the trace")
		}
		b.Position = next
	}
	return nil
}

// advance walks the cursor one step in dir (+1 or -1), skipping over
// positions the active filter rejects. Returns false if it falls off
// either end without finding a match.
func (b *Browser) advance(dir int) (int, bool) {
	pos := b.Position
	for {
		pos += dir
		if pos < 0 || pos >= len(b.Insts) {
			return 0, false
		}
		if b.MatchesFilter(pos) {
			return pos, true
		}
	}
}

// cmdFilter compiles and installs a trace-filter expression, then moves
// the cursor to the first match in the trace.
func (b *Browser) cmdFilter(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: filter <expression>")
	}
	expr := strings.Join(args, " ")
	pred, err := Parse(expr)
	if err != nil {
		return fmt.Errorf("invalid filter: %w", err)
	}
	b.Filter = pred
	b.FilterOf = expr

	for i := 0; i < len(b.Insts); i++ {
		if pred(b.Insts[i], i) {
			b.Position = i
			b.Printf("filter installed: %s (%d matches)\n", expr, b.countMatches())
			return nil
		}
	}
	b.Printf("filter installed: %s (no matches)\n", expr)
	return nil
}

func (b *Browser) countMatches() int {
	n := 0
	for i := range b.Insts {
		if b.MatchesFilter(i) {
			n++
		}
	}
	return n
}

// cmdFind jumps forward to the next instruction matching a one-off
// expression, without installing it as the standing filter.
func (b *Browser) cmdFind(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: find <expression>")
	}
	pred, err := Parse(strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("invalid expression: %w", err)
	}
	for i := b.Position + 1; i < len(b.Insts); i++ {
		if pred(b.Insts[i], i) {
			b.Position = i
			return nil
		}
	}
	return fmt.Errorf("no match found after index %d", b.Position)
}

// cmdWatch adds a highlighted register; readWrite also highlights reads.
func (b *Browser) cmdWatch(args []string, readWrite bool) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: watch <Vn>")
	}
	reg, err := parseRegArg(args[0])
	if err != nil {
		return err
	}
	w := b.Watches.Add(reg, readWrite)
	b.Printf("watch %d: V%d%s\n", w.ID, reg, rwSuffix(readWrite))
	return nil
}

func rwSuffix(readWrite bool) string {
	if readWrite {
		return " (read+write)"
	}
	return ""
}

func parseRegArg(s string) (regdeps.Reg, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "V"), "v")
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > int(regdeps.MaxReg) {
		return 0, fmt.Errorf("invalid register %q", s)
	}
	return regdeps.V(uint8(n)), nil
}

// cmdUnwatch removes a watch by ID.
func (b *Browser) cmdUnwatch(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: unwatch <id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid watch id: %s", args[0])
	}
	if err := b.Watches.Delete(id); err != nil {
		return err
	}
	b.Printf("watch %d deleted\n", id)
	return nil
}

// cmdWatches lists the active watches.
func (b *Browser) cmdWatches(_ []string) error {
	all := b.Watches.All()
	if len(all) == 0 {
		b.Println("no watches set")
		return nil
	}
	for _, w := range all {
		status := "enabled"
		if !w.Enabled {
			status = "disabled"
		}
		b.Printf("  %d: V%d%s [%s]\n", w.ID, w.Register, rwSuffix(w.ReadWrite), status)
	}
	return nil
}

// cmdPrintRegister prints the aggregate statistics for a register.
func (b *Browser) cmdPrintRegister(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: print <Vn>")
	}
	reg, err := parseRegArg(args[0])
	if err != nil {
		return err
	}
	stats := b.RegTrace.Stats(reg)
	if stats == nil {
		b.Printf("V%d: never accessed\n", reg)
		return nil
	}
	b.Printf("V%d: reads=%d writes=%d first-write=%d last-write=%d first-read=%d last-read=%d\n",
		reg, stats.ReadCount, stats.WriteCount, stats.FirstWrite, stats.LastWrite, stats.FirstRead, stats.LastRead)
	return nil
}

// cmdXref prints every trace index referencing a register.
func (b *Browser) cmdXref(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: xref <Vn>")
	}
	reg, err := parseRegArg(args[0])
	if err != nil {
		return err
	}
	x := tools.Xref(b.Insts, reg)
	if x == nil || len(x.References) == 0 {
		b.Printf("V%d: no references\n", reg)
		return nil
	}
	b.Println(x.String())
	return nil
}

// cmdInfo reports where the cursor is and the registers the current
// instruction touches.
func (b *Browser) cmdInfo(_ []string) error {
	inst := b.Current()
	if inst == nil {
		return fmt.Errorf("cursor is out of range")
	}
	b.Printf("position %d of %d\n", b.Position, len(b.Insts))
	if b.FilterOf != "" {
		b.Printf("active filter: %s (%d matches)\n", b.FilterOf, b.countMatches())
	}
	b.Println(tools.FormatTrace([]*regdeps.Instruction{inst}))
	return nil
}

// cmdStats prints the top categories seen across the trace.
func (b *Browser) cmdStats(args []string) error {
	n := DefaultTopCategories
	if len(args) > 0 {
		parsed, err := strconv.Atoi(args[0])
		if err == nil {
			n = parsed
		}
	}
	b.Printf("total instructions: %d\n", b.CatStats.TotalInstructions)
	b.Printf("arithmetic flag writes: %d  reads: %d\n", b.CatStats.ArithWrites, b.CatStats.ArithReads)
	for _, c := range b.CatStats.TopCategories(n) {
		b.Printf("  %s: %d\n", c.Category, c.Count)
	}
	return nil
}

// cmdLint runs the structural linter over the whole trace.
func (b *Browser) cmdLint(_ []string) error {
	issues := tools.Lint(b.Insts)
	if len(issues) == 0 {
		b.Println("no issues found")
		return nil
	}
	for _, issue := range issues {
		b.Println(issue.String())
	}
	return nil
}

// cmdHelp lists available commands.
func (b *Browser) cmdHelp(_ []string) error {
	b.Println("Navigation: goto <n>, next [count], prev [count], first, last")
	b.Println("Filtering:  filter <expr>, clearfilter, find <expr>")
	b.Println("Watches:    watch <Vn>, awatch <Vn>, unwatch <id>, watches")
	b.Println("Inspection: print <Vn>, xref <Vn>, info, stats [n], lint")
	b.Println("Filter expression grammar: category==NAME, writes(Vn), reads(Vn), && || !, ( )")
	return nil
}
