package fern

import (
	"math"
	"sort"

	"github.com/jward/fern/internal/scope"
	"github.com/jward/fern/internal/syntax"
	"github.com/jward/fern/internal/textpos"
)

// Variables returns every identifier visible at offset, mapped to the byte
// offset of its most recent binding at or before that point. The query line
// is the nearest non-blank line at or above the offset, so typing on a fresh
// blank line resolves against the last real statement. Reserved and builtin
// names are always present, mapped to Undefined unless user code shadows
// them.
func (e *Engine) Variables(offset int) map[string]int {
	line := textpos.ScopeLine(e.source, offset)
	path := scope.PathTo(e.tree, line)

	c := scope.NewCollector(line)
	for _, n := range path {
		c.Visit(n)
	}

	vars := make(map[string]int, len(c.Bindings)+len(e.builtins))
	for name, positions := range c.Bindings {
		most := Undefined
		for _, p := range positions {
			if idx := textpos.Index(e.source, p.Line, p.Col); idx > most {
				most = idx
			}
		}
		vars[name] = most
	}
	for _, name := range e.builtins {
		if _, ok := vars[name]; !ok {
			vars[name] = Undefined
		}
	}
	return vars
}

// VariableIndices returns every occurrence of the identifier at offset
// within its binding's validity window, as (offset, length) pairs sorted by
// offset.
//
// The identifier's governing scope is the innermost enclosing scope that
// binds the name at all. Within it, the window runs from the binding
// immediately at or before offset to the next rebinding strictly after it,
// so redefinitions split a name's occurrences into disjoint ranges.
//
// Returns nil when offset is out of bounds, no identifier touches it, or the
// name is bound in no enclosing scope.
func (e *Engine) VariableIndices(offset int) []Occurrence {
	if offset < 0 || offset >= len(e.source) {
		return nil
	}
	name := textpos.WordAt(e.source, offset)
	if name == "" {
		return nil
	}

	line := textpos.LineAt(e.source, offset)
	path := scope.PathTo(e.tree, line)

	// Innermost enclosing scope that binds the name.
	var scopeNode *syntax.Node
	var bound []scope.Position
	for i := len(path) - 1; i >= 0; i-- {
		n := path[i]
		if !n.IsScope() {
			continue
		}
		c := scope.NewCollector(scope.NoCutoff)
		c.Visit(n)
		if positions, ok := c.Bindings[name]; ok {
			scopeNode, bound = n, positions
			break
		}
	}
	if scopeNode == nil {
		return nil
	}

	// Validity window: [binding at-or-before offset, next rebinding).
	indices := make([]int, 0, len(bound))
	for _, p := range bound {
		indices = append(indices, textpos.Index(e.source, p.Line, p.Col))
	}
	sort.Ints(indices)
	prev, next := 0, math.MaxInt
	for i := len(indices) - 1; i >= 0; i-- {
		if indices[i] <= offset {
			prev = indices[i]
			break
		}
	}
	for _, idx := range indices {
		if idx > offset {
			next = idx
			break
		}
	}

	var occs []Occurrence
	for _, p := range scope.FindName(scopeNode, name) {
		idx := textpos.Index(e.source, p.Line, p.Col)
		if idx >= prev && idx < next {
			occs = append(occs, Occurrence{Offset: idx, Length: len(name)})
		}
	}
	sort.Slice(occs, func(i, j int) bool { return occs[i].Offset < occs[j].Offset })
	return occs
}
