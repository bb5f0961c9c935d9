// Package memory implements the temporal index (MemoryMachine), the
// per-channel variable map and correlation query (MemoryTable), and the
// ordered channel container (MemoryChannel). This is the core of the
// store.
package memory

import (
	"sort"

	"github.com/wbrown/qdb-core/interval"
	"github.com/wbrown/qdb-core/predicate"
	"github.com/wbrown/qdb-core/value"
)

// machineEntry pairs a distinct Value with the History of logical ticks
// it was in effect. entries are kept sorted by value.Compare so iteration
// over the Value domain is deterministic.
type machineEntry struct {
	val  value.Value
	hist interval.History
}

// MemoryMachine is the temporal index for a single variable: every
// distinct Value it has ever been assigned, each mapped to the ordered
// list of inclusive logical-time intervals during which that value held.
//
// The zero value is an empty machine (clock 0, no recorded values);
// NewMachine returns a pointer to one.
type MemoryMachine struct {
	entries []machineEntry
	clock   int64
}

// NewMachine returns a fresh MemoryMachine: clock 0, no recorded values.
func NewMachine() *MemoryMachine {
	return &MemoryMachine{}
}

// search returns the index at which v is, or would be, in m.entries.
func (m *MemoryMachine) search(v value.Value) int {
	return sort.Search(len(m.entries), func(i int) bool {
		return value.Compare(m.entries[i].val, v) >= 0
	})
}

func (m *MemoryMachine) find(v value.Value) (int, bool) {
	i := m.search(v)
	if i < len(m.entries) && value.Compare(m.entries[i].val, v) == 0 {
		return i, true
	}
	return i, false
}

// Insert records that v held at the current logical tick, then advances
// the clock by one. If v is unseen it gets a fresh single-point History;
// otherwise its History is extended. Because every logical tick belongs
// to exactly one Value, only v's most recent interval can possibly abut
// the new tick, so extending the last interval of v's History correctly
// captures every tick during which v held. Never fails.
func (m *MemoryMachine) Insert(v value.Value) {
	t := m.clock
	if i, ok := m.find(v); ok {
		m.entries[i].hist = m.entries[i].hist.Extend(t)
	} else {
		// find returned the insertion index when ok is false.
		idx := i
		entry := machineEntry{val: v, hist: interval.History{}.Extend(t)}
		m.entries = append(m.entries, machineEntry{})
		copy(m.entries[idx+1:], m.entries[idx:])
		m.entries[idx] = entry
	}
	m.clock = t + 1
}

// Get returns a copy of v's History, or false if v has never been
// observed by this machine.
func (m *MemoryMachine) Get(v value.Value) (interval.History, bool) {
	i, ok := m.find(v)
	if !ok {
		return nil, false
	}
	return m.entries[i].hist.Clone(), true
}

// Clock returns the number of inserts this machine has received.
func (m *MemoryMachine) Clock() int64 { return m.clock }

// ValuesIn iterates the Value map in key order and returns every Value
// whose History coarsely intersects (interval.HistoryIntersect) ranges.
func (m *MemoryMachine) ValuesIn(ranges interval.History) []value.Value {
	var out []value.Value
	for _, e := range m.entries {
		if interval.HistoryIntersect(e.hist, ranges) {
			out = append(out, e.val)
		}
	}
	return out
}

// LastValue returns the Value whose History contains clock-1, the most
// recently inserted value. Exactly one entry can cover that tick;
// returns false when the machine has never been written to.
func (m *MemoryMachine) LastValue() (value.Value, bool) {
	if m.clock == 0 {
		return value.Value{}, false
	}
	target := m.clock - 1
	for _, e := range m.entries {
		if len(e.hist) > 0 && e.hist[len(e.hist)-1].Contains(target) {
			return e.val, true
		}
	}
	// Invariant violation: a non-empty machine must have exactly one
	// Value whose History covers the most recent tick.
	panic("memory: last_value invariant violated: no value covers clock-1")
}

// SelectBy iterates the Value map in key order and returns a copy of the
// History of every key k for which predicate.Eval(op, k, other) holds.
func (m *MemoryMachine) SelectBy(other value.Value, op predicate.Op) []interval.History {
	var out []interval.History
	for _, e := range m.entries {
		if predicate.Eval(op, e.val, other) {
			out = append(out, e.hist.Clone())
		}
	}
	return out
}
