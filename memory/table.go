package memory

import (
	"sort"

	"github.com/wbrown/qdb-core/predicate"
	"github.com/wbrown/qdb-core/value"
)

// VariableSnapshot pairs a variable name with the co-temporal values a
// query extracted from it. It is the only result record a query
// produces.
type VariableSnapshot struct {
	Name   string
	Values []value.Value
}

// Less orders by variable name first, then by values in order, giving a
// deterministic total order useful for test comparisons (the spec leaves
// MemoryTable's own iteration order unspecified, but results must still
// be stable across reads within one process).
func (s VariableSnapshot) Less(other VariableSnapshot) bool {
	if s.Name != other.Name {
		return s.Name < other.Name
	}
	n := len(s.Values)
	if len(other.Values) < n {
		n = len(other.Values)
	}
	for i := 0; i < n; i++ {
		if c := value.Compare(s.Values[i], other.Values[i]); c != 0 {
			return c < 0
		}
	}
	return len(s.Values) < len(other.Values)
}

// Binding is a single name/value pair as produced by an onCreate clause,
// e.g. `c:int = 2`.
type Binding struct {
	Name  string
	Value value.Value
}

// BinaryExpr is a predicate expression over two terms, at most one of
// which may be a symbol (variable reference); the other is a literal.
// This is the shape QueryResolver.OnRead dispatches through
// MemoryTable.FindByPredicate.
type BinaryExpr struct {
	Left  value.Value
	Op    predicate.Op
	Right value.Value
}

// MemoryTable is a single channel: a map from variable name to its
// MemoryMachine. Each variable's clock runs independently of the
// others.
//
// The zero value is not ready to use; construct with NewTable.
type MemoryTable struct {
	vars  map[string]*MemoryMachine
	order []string // insertion order, for stable iteration
}

// NewTable returns an empty MemoryTable.
func NewTable() *MemoryTable {
	return &MemoryTable{vars: make(map[string]*MemoryMachine)}
}

// Insert forwards v to name's MemoryMachine, creating one (and
// registering it in insertion order) if name is unseen in this table.
func (t *MemoryTable) Insert(name string, v value.Value) {
	m, ok := t.vars[name]
	if !ok {
		m = NewMachine()
		t.vars[name] = m
		t.order = append(t.order, name)
	}
	m.Insert(v)
}

// Machine returns the named variable's MemoryMachine, or false if it has
// never been written to.
func (t *MemoryTable) Machine(name string) (*MemoryMachine, bool) {
	m, ok := t.vars[name]
	return m, ok
}

// Find looks up the History of varValue within varName's MemoryMachine,
// then returns the first non-empty result of calling ValuesIn with that
// History against every variable in the table, iterating variables in
// insertion order. Returns false if varName is unseen or varValue has
// never been observed on it.
func (t *MemoryTable) Find(varName string, varValue value.Value) ([]value.Value, bool) {
	m, ok := t.vars[varName]
	if !ok {
		return nil, false
	}
	h, ok := m.Get(varValue)
	if !ok {
		return nil, false
	}
	for _, name := range t.order {
		vals := t.vars[name].ValuesIn(h)
		if len(vals) > 0 {
			return vals, true
		}
	}
	return nil, false
}

// FindByPredicate is the correlation query: given a binary expression
// with exactly one symbolic side, it finds the anchor variable's
// matching History for the first matching key (by Value total order)
// and returns a VariableSnapshot for every variable in the table built
// from that History. If both sides are symbols, returns false (join
// across two variables is unsupported). The non-symbolic side is a
// literal and cannot anchor, so if the anchor variable is missing or
// yields no matching keys, FindByPredicate returns false.
func (t *MemoryTable) FindByPredicate(expr BinaryExpr) ([]VariableSnapshot, bool) {
	leftSym, leftIsSym := expr.Left.SymbolName()
	rightSym, rightIsSym := expr.Right.SymbolName()

	if leftIsSym && rightIsSym {
		return nil, false
	}
	if !leftIsSym && !rightIsSym {
		return nil, false
	}

	if leftIsSym {
		if snaps, ok := t.tryAnchor(leftSym, expr.Right, expr.Op); ok {
			return snaps, true
		}
	} else {
		if snaps, ok := t.tryAnchor(rightSym, expr.Left, expr.Op); ok {
			return snaps, true
		}
	}
	return nil, false
}

// tryAnchor runs the anchor/literal correlation for one side: look up
// anchorVar's MemoryMachine, select the first matching key (by Value
// order) via SelectBy, and build a snapshot per variable in the table
// from that key's History.
func (t *MemoryTable) tryAnchor(anchorVar string, literal value.Value, op predicate.Op) ([]VariableSnapshot, bool) {
	m, ok := t.vars[anchorVar]
	if !ok {
		return nil, false
	}

	histories := m.SelectBy(literal, op)
	if len(histories) == 0 {
		return nil, false
	}
	// SelectBy already iterates in Value key order, so the first entry
	// is the first matching key.
	matching := histories[0]

	snapshots := make([]VariableSnapshot, 0, len(t.order))
	for _, name := range t.order {
		vals := t.vars[name].ValuesIn(matching)
		snapshots = append(snapshots, VariableSnapshot{Name: name, Values: vals})
	}
	return snapshots, true
}

// SortSnapshots orders snapshots deterministically by name then values,
// for callers (tests, display) that want a stable presentation of a
// result whose underlying variable iteration order is otherwise
// unspecified.
func SortSnapshots(snaps []VariableSnapshot) {
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Less(snaps[j]) })
}
