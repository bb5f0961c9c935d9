// Package predicate implements the six-operator comparison set as a
// closed variant (Op) with a total operator-to-function mapping, closed
// at construction so an unknown operator string is caught when the Op
// is built, not deep inside evaluation.
package predicate

import (
	"fmt"

	"github.com/wbrown/qdb-core/value"
)

// Op is the closed set of comparison operators the query language
// supports.
type Op int

const (
	Eq Op = iota
	Neq
	Ge
	Gt
	Le
	Lt
)

// opTokens maps the surface-syntax operator token to its Op.
var opTokens = map[string]Op{
	"==": Eq,
	"!=": Neq,
	">=": Ge,
	">":  Gt,
	"<=": Le,
	"<":  Lt,
}

// ParseOp resolves an operator token to its Op. An unrecognized token
// means the query surface produced something its own grammar shouldn't
// allow; callers should treat an error here as fatal.
func ParseOp(token string) (Op, error) {
	op, ok := opTokens[token]
	if !ok {
		return 0, fmt.Errorf("predicate: unknown operator %q", token)
	}
	return op, nil
}

func (op Op) String() string {
	for token, o := range opTokens {
		if o == op {
			return token
		}
	}
	return "<invalid op>"
}

// Eval applies op to the ordering a and b's partial comparison yields.
// If no ordering exists (value.Unordered), Eval returns false regardless
// of op.
func Eval(op Op, a, b value.Value) bool {
	ord := value.PartialCmp(a, b)
	if ord == value.Unordered {
		return false
	}
	switch op {
	case Eq:
		return ord == value.Equal
	case Neq:
		return ord == value.Less || ord == value.Greater
	case Ge:
		return ord == value.Greater || ord == value.Equal
	case Gt:
		return ord == value.Greater
	case Le:
		return ord == value.Less || ord == value.Equal
	case Lt:
		return ord == value.Less
	default:
		// Unreachable for any Op value returned by ParseOp; a caller
		// constructing an Op outside ParseOp has violated the closed
		// variant contract.
		panic(fmt.Sprintf("predicate: unknown Op %d", op))
	}
}
