// Package value implements the tagged scalar value domain consumed by the
// rest of qdb-core: a closed sum of {null, integer, real, text, symbol}
// with a total order (used as a map key inside MemoryMachine) and a
// partial comparison used to evaluate predicates.
package value

import (
	"fmt"
	"strings"
)

// Kind discriminates the variants of Value. Kept as a closed, comparable
// enum rather than a type switch on interface{} so extraction is
// exhaustive and cheap, per the tagged-scalar design note.
type Kind int

const (
	Null Kind = iota
	Int
	Real
	Text
	Symbol
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Int:
		return "int"
	case Real:
		return "real"
	case Text:
		return "text"
	case Symbol:
		return "symbol"
	default:
		return "unknown"
	}
}

// Value is an immutable tagged scalar. Only one of the payload fields is
// meaningful, selected by Kind. Values are copied by assignment; there is
// no mutable state.
type Value struct {
	kind Kind
	i    int64
	r    float64
	s    string // Text payload, or Symbol name
}

// NewNull returns the null value.
func NewNull() Value { return Value{kind: Null} }

// NewInt wraps an integer.
func NewInt(i int64) Value { return Value{kind: Int, i: i} }

// NewReal wraps a floating-point number.
func NewReal(r float64) Value { return Value{kind: Real, r: r} }

// NewText wraps a string.
func NewText(s string) Value { return Value{kind: Text, s: s} }

// NewSymbol wraps a variable-reference name, as used on either side of a
// predicate expression to denote "this side names a variable."
func NewSymbol(name string) Value { return Value{kind: Symbol, s: name} }

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// Int returns the integer payload and whether v is an Int.
func (v Value) Int() (int64, bool) { return v.i, v.kind == Int }

// Real returns the real payload and whether v is a Real.
func (v Value) Real() (float64, bool) { return v.r, v.kind == Real }

// Text returns the string payload and whether v is a Text.
func (v Value) Text() (string, bool) { return v.s, v.kind == Text }

// SymbolName returns the symbol name and whether v is a Symbol.
func (v Value) SymbolName() (string, bool) { return v.s, v.kind == Symbol }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == Null }

// IsSymbol reports whether v denotes a variable reference rather than a
// literal.
func (v Value) IsSymbol() bool { return v.kind == Symbol }

// String renders v for diagnostics and table display.
func (v Value) String() string {
	switch v.kind {
	case Null:
		return "null"
	case Int:
		return fmt.Sprintf("%d", v.i)
	case Real:
		return fmt.Sprintf("%g", v.r)
	case Text:
		return fmt.Sprintf("%q", v.s)
	case Symbol:
		return v.s
	default:
		return "<invalid>"
	}
}

// rank orders Kind values so that the total order below is total across
// variants: null < {int, real} < text < symbol. Int and Real share one
// rank so int/real compare by magnitude rather than by kind alone.
func rank(k Kind) int {
	switch k {
	case Null:
		return 0
	case Int, Real:
		return 1
	case Text:
		return 2
	case Symbol:
		return 3
	default:
		return 4
	}
}

// Compare defines the total order used as MemoryMachine's map key order.
// It is total: every pair of Values, including mixed kinds, returns a
// definite -1/0/1. This is deliberately stricter than PartialCmp, which
// may report no ordering for heterogeneous comparisons.
func Compare(a, b Value) int {
	if a.kind != b.kind {
		ra, rb := rank(a.kind), rank(b.kind)
		if ra != rb {
			if ra < rb {
				return -1
			}
			return 1
		}
		// Same rank (int vs real): fall through to numeric compare below.
	}

	switch a.kind {
	case Null:
		if b.kind == Null {
			return 0
		}
	case Int, Real:
		af := asFloat(a)
		bf := asFloat(b)
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	case Text:
		return strings.Compare(a.s, b.s)
	case Symbol:
		return strings.Compare(a.s, b.s)
	}
	return 0
}

func asFloat(v Value) float64 {
	if v.kind == Int {
		return float64(v.i)
	}
	return v.r
}

// Ordering is the result of a partial comparison: it may report no
// ordering exists between two values of incompatible kinds.
type Ordering int

const (
	Unordered Ordering = iota
	Less
	Equal
	Greater
)

// PartialCmp compares two Values, returning Unordered when the pair
// cannot be meaningfully ordered (e.g. Text vs Int, or either side being
// a Symbol — symbols only ever compare equal to identically-named
// symbols). Numeric kinds (Int, Real) compare across kinds by value.
func PartialCmp(a, b Value) Ordering {
	if a.kind == Symbol || b.kind == Symbol {
		if a.kind == Symbol && b.kind == Symbol {
			if a.s == b.s {
				return Equal
			}
			return Unordered
		}
		return Unordered
	}

	if a.kind == Null && b.kind == Null {
		return Equal
	}
	if a.kind == Null || b.kind == Null {
		return Unordered
	}

	numeric := func(k Kind) bool { return k == Int || k == Real }
	if numeric(a.kind) && numeric(b.kind) {
		af, bf := asFloat(a), asFloat(b)
		switch {
		case af < bf:
			return Less
		case af > bf:
			return Greater
		default:
			return Equal
		}
	}

	if a.kind != b.kind {
		return Unordered
	}

	switch a.kind {
	case Text:
		switch c := strings.Compare(a.s, b.s); {
		case c < 0:
			return Less
		case c > 0:
			return Greater
		default:
			return Equal
		}
	}
	return Unordered
}
