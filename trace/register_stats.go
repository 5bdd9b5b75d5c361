// Package trace aggregates statistics over a decoded regdeps instruction
// trace: which virtual registers are read/written and how often, and
// which instruction categories dominate the trace.
package trace

import (
	"sort"

	"github.com/lookbusy1344/regdeps-toolkit/regdeps"
)

// RegisterStats holds read/write counters for a single virtual register
// across a trace.
type RegisterStats struct {
	Register   regdeps.Reg
	ReadCount  uint64
	WriteCount uint64
	FirstRead  int // trace index of first read, -1 if never read
	FirstWrite int // trace index of first write, -1 if never written
	LastRead   int
	LastWrite  int
}

func newRegisterStats(reg regdeps.Reg) *RegisterStats {
	return &RegisterStats{
		Register:   reg,
		FirstRead:  -1,
		FirstWrite: -1,
		LastRead:   -1,
		LastWrite:  -1,
	}
}

func (r *RegisterStats) recordRead(index int) {
	r.ReadCount++
	if r.FirstRead < 0 {
		r.FirstRead = index
	}
	r.LastRead = index
}

func (r *RegisterStats) recordWrite(index int) {
	r.WriteCount++
	if r.FirstWrite < 0 {
		r.FirstWrite = index
	}
	r.LastWrite = index
}

// RegisterTrace accumulates RegisterStats by replaying a decoded
// instruction trace in order.
type RegisterTrace struct {
	stats map[regdeps.Reg]*RegisterStats
	total int
}

// NewRegisterTrace creates an empty register-dependency trace.
func NewRegisterTrace() *RegisterTrace {
	return &RegisterTrace{stats: make(map[regdeps.Reg]*RegisterStats)}
}

// Analyze replays insts in order, recording a read for every source
// register and a write for every destination register of each
// instruction.
func (t *RegisterTrace) Analyze(insts []*regdeps.Instruction) {
	for i, inst := range insts {
		for _, r := range inst.Dsts {
			t.getOrCreate(r).recordWrite(i)
		}
		for _, r := range inst.Srcs {
			t.getOrCreate(r).recordRead(i)
		}
		t.total++
	}
}

func (t *RegisterTrace) getOrCreate(reg regdeps.Reg) *RegisterStats {
	s, ok := t.stats[reg]
	if !ok {
		s = newRegisterStats(reg)
		t.stats[reg] = s
	}
	return s
}

// Stats returns the statistics recorded for reg, or nil if reg was never
// accessed.
func (t *RegisterTrace) Stats(reg regdeps.Reg) *RegisterStats {
	return t.stats[reg]
}

// AllStats returns every register's statistics, sorted by register id.
func (t *RegisterTrace) AllStats() []*RegisterStats {
	out := make([]*RegisterStats, 0, len(t.stats))
	for _, s := range t.stats {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Register < out[j].Register })
	return out
}

// HotRegisters returns up to limit registers sorted by total access
// count (reads + writes), descending. limit <= 0 returns every register.
func (t *RegisterTrace) HotRegisters(limit int) []*RegisterStats {
	stats := t.AllStats()
	sort.Slice(stats, func(i, j int) bool {
		ti := stats[i].ReadCount + stats[i].WriteCount
		tj := stats[j].ReadCount + stats[j].WriteCount
		if ti != tj {
			return ti > tj
		}
		return stats[i].Register < stats[j].Register
	})
	if limit > 0 && limit < len(stats) {
		return stats[:limit]
	}
	return stats
}

// ReadBeforeWrite returns the registers whose first trace access was a
// read that occurred before (or without) any write — a register the
// trace consumes without the trace itself ever producing it.
func (t *RegisterTrace) ReadBeforeWrite() []regdeps.Reg {
	var out []regdeps.Reg
	for _, s := range t.stats {
		if s.FirstRead >= 0 && (s.FirstWrite < 0 || s.FirstRead < s.FirstWrite) {
			out = append(out, s.Register)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// WriteOnly returns registers that were written but never read within
// the trace — dead output, from the trace's point of view.
func (t *RegisterTrace) WriteOnly() []regdeps.Reg {
	var out []regdeps.Reg
	for _, s := range t.stats {
		if s.WriteCount > 0 && s.ReadCount == 0 {
			out = append(out, s.Register)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// TotalInstructions returns the number of instructions analyzed.
func (t *RegisterTrace) TotalInstructions() int {
	return t.total
}
