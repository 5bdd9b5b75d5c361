package debugger

import (
	"fmt"
	"sort"
	"sync"

	"github.com/lookbusy1344/regdeps-toolkit/regdeps"
)

// Watch represents a register the trace browser should highlight: every
// trace position where the register is written (or, if ReadWrite is
// set, read as well) is marked up for the user. There is no live
// execution to halt — a static trace has no "when this changes" moment,
// only positions to flag — so unlike a running debugger's watchpoint
// this never "fires" once; it marks every matching position at once.
type Watch struct {
	ID        int
	Register  regdeps.Reg
	ReadWrite bool // also highlight reads, not just writes
	Enabled   bool
}

// WatchManager manages the set of registers the trace browser highlights.
type WatchManager struct {
	mu      sync.RWMutex
	watches map[int]*Watch
	nextID  int
}

// NewWatchManager creates an empty watch manager.
func NewWatchManager() *WatchManager {
	return &WatchManager{
		watches: make(map[int]*Watch),
		nextID:  1,
	}
}

// Add registers a new highlighted register and returns it.
func (wm *WatchManager) Add(reg regdeps.Reg, readWrite bool) *Watch {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	w := &Watch{ID: wm.nextID, Register: reg, ReadWrite: readWrite, Enabled: true}
	wm.watches[w.ID] = w
	wm.nextID++
	return w
}

// Delete removes a watch by ID.
func (wm *WatchManager) Delete(id int) error {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	if _, ok := wm.watches[id]; !ok {
		return fmt.Errorf("watch %d not found", id)
	}
	delete(wm.watches, id)
	return nil
}

// Enable enables a watch by ID.
func (wm *WatchManager) Enable(id int) error {
	return wm.setEnabled(id, true)
}

// Disable disables a watch by ID.
func (wm *WatchManager) Disable(id int) error {
	return wm.setEnabled(id, false)
}

func (wm *WatchManager) setEnabled(id int, enabled bool) error {
	wm.mu.Lock()
	defer wm.mu.Unlock()

	w, ok := wm.watches[id]
	if !ok {
		return fmt.Errorf("watch %d not found", id)
	}
	w.Enabled = enabled
	return nil
}

// All returns every watch, sorted by ID.
func (wm *WatchManager) All() []*Watch {
	wm.mu.RLock()
	defer wm.mu.RUnlock()

	out := make([]*Watch, 0, len(wm.watches))
	for _, w := range wm.watches {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Clear removes every watch.
func (wm *WatchManager) Clear() {
	wm.mu.Lock()
	defer wm.mu.Unlock()
	wm.watches = make(map[int]*Watch)
}

// Count returns the number of watches.
func (wm *WatchManager) Count() int {
	wm.mu.RLock()
	defer wm.mu.RUnlock()
	return len(wm.watches)
}

// Highlights returns the trace indices where any enabled watch matches
// inst, given its position index.
func (wm *WatchManager) Highlights(insts []*regdeps.Instruction) map[int]bool {
	wm.mu.RLock()
	defer wm.mu.RUnlock()

	hits := make(map[int]bool)
	for i, inst := range insts {
		for _, w := range wm.watches {
			if !w.Enabled {
				continue
			}
			if regInSlice(inst.Dsts, w.Register) {
				hits[i] = true
				continue
			}
			if w.ReadWrite && regInSlice(inst.Srcs, w.Register) {
				hits[i] = true
			}
		}
	}
	return hits
}

func regInSlice(regs []regdeps.Reg, target regdeps.Reg) bool {
	for _, r := range regs {
		if r == target {
			return true
		}
	}
	return false
}
