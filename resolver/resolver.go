// Package resolver takes parsed query.Expr values and a mutable
// MemoryChannel, dispatches each expression by its function kind, and
// returns either nothing or the accumulated VariableSnapshot results.
package resolver

import (
	"github.com/wbrown/qdb-core/memory"
	"github.com/wbrown/qdb-core/parser"
	"github.com/wbrown/qdb-core/query"
)

// Response is the tagged union QueryResolver.Resolve returns: either a
// (possibly empty) list of snapshots, or nothing at all. Snapshots is
// nil and Empty is true for queries that produced no read result (an
// OnCreate call, or any other function kind this layer does not
// interpret).
type Response struct {
	Snapshots []memory.VariableSnapshot
	Empty     bool
}

// Resolve parses line and dispatches every expression it contains
// against channel, in order. Parse errors from the query surface are
// surfaced verbatim; once parsed, every other outcome — a missing
// channel, a predicate nobody satisfies, a join across two symbols —
// flows through as an empty result rather than an error.
func Resolve(channel *memory.MemoryChannel, line string) (Response, error) {
	exprs, err := parser.ParseString(line)
	if err != nil {
		return Response{}, err
	}

	resp := Response{Empty: true}
	for _, e := range exprs {
		switch e.Func {
		case query.OnCreate:
			resolveOnCreate(channel, e)
			resp = Response{Empty: true}
		case query.OnRead:
			snaps := resolveOnRead(channel, e)
			resp = Response{Snapshots: snaps, Empty: false}
		default:
			// Function kinds this layer does not interpret are ignored.
		}
	}
	return resp, nil
}

// resolveOnCreate ensures every named channel exists, then applies every
// binding to each. Channels created by an earlier OnCreate in the same
// line, or in an earlier call, are reused rather than recreated.
func resolveOnCreate(channel *memory.MemoryChannel, e query.Expr) {
	for _, name := range e.Channels {
		table := channel.EnsureTable(name)
		for _, b := range e.Bindings {
			table.Insert(b.Name, b.Value)
		}
	}
}

// resolveOnRead accumulates VariableSnapshots from every predicate
// attached to every named channel that exists. A channel name with no
// matching MemoryTable contributes nothing and is not an error.
func resolveOnRead(channel *memory.MemoryChannel, e query.Expr) []memory.VariableSnapshot {
	var result []memory.VariableSnapshot
	for i, name := range e.Channels {
		table, ok := channel.Table(name)
		if !ok {
			continue
		}
		if i >= len(e.Predicates) {
			continue
		}
		for _, pred := range e.Predicates[i] {
			if snaps, ok := table.FindByPredicate(pred); ok {
				result = append(result, snaps...)
			}
		}
	}
	return result
}
