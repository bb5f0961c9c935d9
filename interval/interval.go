// Package interval implements the inclusive integer ranges MemoryMachine
// uses to compress a variable's history, and the (intentionally coarse)
// intersection rule MemoryTable uses to correlate variables.
package interval

import "fmt"

// Interval is an inclusive integer range [Lo, Hi] with Lo <= Hi.
type Interval struct {
	Lo int64
	Hi int64
}

// New constructs a single-point interval [t, t].
func New(t int64) Interval { return Interval{Lo: t, Hi: t} }

// Contains reports whether t falls within [i.Lo, i.Hi].
func (i Interval) Contains(t int64) bool {
	return i.Lo <= t && t <= i.Hi
}

// Intersect reports whether two inclusive intervals overlap: A contains
// an endpoint of B, or B contains an endpoint of A. Equivalently
// a.Lo <= b.Hi && b.Lo <= a.Hi.
func Intersect(a, b Interval) bool {
	return a.Lo <= b.Hi && b.Lo <= a.Hi
}

func (i Interval) String() string {
	return fmt.Sprintf("%d..=%d", i.Lo, i.Hi)
}

// History is an insertion-ordered, non-empty sequence of disjoint
// Intervals recording every logical tick a single Value was in effect.
type History []Interval

// Extend grows the last interval in h to include t if t is contiguous
// with it (t == last.Hi+1), otherwise appends a fresh point interval.
// This implements the extension rule of MemoryMachine.insert: "extend
// the History entry that contains t-1; otherwise append a fresh [t,t]".
func (h History) Extend(t int64) History {
	if len(h) > 0 && h[len(h)-1].Contains(t - 1) {
		last := &h[len(h)-1]
		last.Hi = t
		return h
	}
	return append(h, New(t))
}

// Clone returns a copy of h, so callers holding a returned History cannot
// mutate the store's internal state (MemoryMachine.Get's contract).
func (h History) Clone() History {
	if h == nil {
		return nil
	}
	out := make(History, len(h))
	copy(out, h)
	return out
}

// HistoryIntersect is a coarse History-set intersection: only the
// first-vs-first and last-vs-last interval pairs are compared, not the
// full cross product. Two histories whose bounding intervals don't touch
// are reported as non-overlapping even if interior intervals would
// intersect, trading precision for an O(1) check instead of O(n*m).
//
// Both histories must be non-empty for the result to be well-defined; an
// empty history always yields false.
func HistoryIntersect(l, r History) bool {
	if len(l) == 0 || len(r) == 0 {
		return false
	}
	ls, le := l[0], l[len(l)-1]
	rs, re := r[0], r[len(r)-1]
	return Intersect(ls, rs) || Intersect(le, re)
}
