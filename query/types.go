// Package query defines the AST the resolver consumes: unary function
// expressions produced by parsing a query string. The lexer/parser that
// produces this AST lives in package parser; this package only
// describes the shape.
package query

import (
	"github.com/wbrown/qdb-core/memory"
)

// FuncKind is the function an Expr invokes. Only OnCreate and OnRead are
// acted on; a parser may in principle produce other kinds, which the
// resolver ignores.
type FuncKind int

const (
	OnCreate FuncKind = iota
	OnRead
	Unknown
)

func (k FuncKind) String() string {
	switch k {
	case OnCreate:
		return "onCreate"
	case OnRead:
		return "onRead"
	default:
		return "unknown"
	}
}

// Expr is a single parsed unary function expression: a function kind, a
// list of target channel names, optional variable bindings (for
// OnCreate), and optional per-channel predicate expressions (for
// OnRead).
type Expr struct {
	Func     FuncKind
	Channels []string
	Bindings []memory.Binding

	// Predicates holds, per channel (same length and order as Channels),
	// the binary predicate expressions attached to that channel.
	Predicates [][]memory.BinaryExpr
}
