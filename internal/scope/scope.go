// Package scope implements lexical scope analysis over a syntax tree: path
// finding, binding collection with a line cutoff, and identifier occurrence
// search.
package scope

import (
	"math"
	"sort"

	"github.com/jward/fern/internal/syntax"
)

// Position is a (line, column) source coordinate of a binding or occurrence.
type Position struct {
	Line int
	Col  int
}

// NoCutoff collects every binding in a scope regardless of line.
const NoCutoff = math.MaxInt

// PathTo returns the chain of nodes from root to the first pre-order
// root-to-leaf path containing a node on the target line, prefixed with root.
// Returns nil when no node sits on that line.
func PathTo(root *syntax.Node, line int) []*syntax.Node {
	if root == nil || line <= 0 {
		return nil
	}
	var result []*syntax.Node
	var descend func(n *syntax.Node, cur []*syntax.Node) bool
	descend = func(n *syntax.Node, cur []*syntax.Node) bool {
		kids := n.Children()
		if len(kids) == 0 {
			for _, pn := range cur {
				if pn.Line == line {
					result = append([]*syntax.Node{root}, cur...)
					return true
				}
			}
			return false
		}
		for _, k := range kids {
			next := append(cur[:len(cur):len(cur)], k)
			if descend(k, next) {
				return true
			}
		}
		return false
	}
	descend(root, nil)
	return result
}

// Collector gathers the bindings of one scope's body, honoring a line cutoff
// and nested-scope boundaries. Visit may be called for each node of a
// PathTo chain in turn; bindings accumulate across calls.
type Collector struct {
	cutoff int

	// Bindings maps each bound name to its defining positions in the order
	// encountered. A name appears more than once on redefinition.
	Bindings map[string][]Position
}

// NewCollector returns a Collector that sees bindings on lines <= cutoff.
func NewCollector(cutoff int) *Collector {
	return &Collector{cutoff: cutoff, Bindings: make(map[string][]Position)}
}

// Reset discards all collected bindings.
func (c *Collector) Reset() {
	c.Bindings = make(map[string][]Position)
}

// Visit collects bindings from n. Positional nodes past the cutoff are
// skipped entirely; structural nodes (line 0) are always traversed.
func (c *Collector) Visit(n *syntax.Node) {
	if n == nil || (n.Line != 0 && n.Line > c.cutoff) {
		return
	}
	switch n.Kind {
	case syntax.Module:
		// Top-level def and class names are visible regardless of cutoff.
		for _, stmt := range n.Body {
			if stmt.Kind == syntax.FunctionDef || stmt.Kind == syntax.ClassDef {
				c.add(stmt.Text, stmt.Line, stmt.Col)
			} else {
				c.Visit(stmt)
			}
		}
	case syntax.FunctionDef:
		c.visitDef(n, false)
		// Parameters become visible strictly below the signature line, so a
		// query on the signature itself does not yet see them.
		if n.Line < c.cutoff {
			for _, p := range n.Params {
				c.add(p.Text, p.Line, p.Col)
			}
		}
	case syntax.ClassDef:
		c.visitDef(n, true)
	case syntax.Assign, syntax.For:
		for _, t := range n.Targets {
			c.bindTarget(t)
		}
		c.generic(n)
	case syntax.Comprehension:
		// Generator targets bind in the scope being collected, at their own
		// position. That places the first clause's target in the enclosing
		// scope rather than the comprehension's own; kept intentionally.
		for _, t := range n.Targets {
			c.bindTarget(t)
		}
	case syntax.Import, syntax.ImportFrom:
		for _, child := range n.Rest {
			if child.Kind != syntax.ImportName {
				continue
			}
			name := child.Alias
			if name == "" {
				name = child.Text
			}
			c.add(name, n.Line, n.Col)
		}
	default:
		c.generic(n)
	}
}

// visitDef collects a function or class body without recursing into nested
// scopes: a nested def or class contributes only its name. Class-level names
// bind regardless of cutoff, function-local ones only up to it.
func (c *Collector) visitDef(n *syntax.Node, isClass bool) {
	for _, stmt := range n.Body {
		if stmt.Kind == syntax.FunctionDef || stmt.Kind == syntax.ClassDef {
			if isClass || stmt.Line <= c.cutoff {
				c.add(stmt.Text, stmt.Line, stmt.Col)
			}
		} else {
			c.Visit(stmt)
		}
	}
	c.add(n.Text, n.Line, n.Col)
}

func (c *Collector) generic(n *syntax.Node) {
	for _, child := range n.Children() {
		c.Visit(child)
	}
}

// bindTarget binds a single-name target, or every element of a destructured
// one. Non-binding targets (attribute and subscript assignments) are ignored.
func (c *Collector) bindTarget(t *syntax.Node) {
	switch t.Kind {
	case syntax.Name:
		c.add(t.Text, t.Line, t.Col)
	case syntax.Tuple:
		for _, e := range t.Children() {
			if e.Kind == syntax.Name {
				c.add(e.Text, e.Line, e.Col)
			}
		}
	}
}

func (c *Collector) add(name string, line, col int) {
	if name == "" {
		return
	}
	c.Bindings[name] = append(c.Bindings[name], Position{Line: line, Col: col})
}

// FindName returns every occurrence of name within root's full subtree,
// nested scopes included: identifier references, parameters, and def/class
// definitions. Definition positions are advanced past the leading keyword so
// they point at the identifier. Results are deduplicated and ordered by
// position.
func FindName(root *syntax.Node, name string) []Position {
	seen := make(map[Position]bool)
	var out []Position
	record := func(p Position) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	syntax.Walk(root, func(n *syntax.Node) bool {
		if n.Text != name {
			return true
		}
		switch n.Kind {
		case syntax.Name, syntax.Param:
			record(Position{Line: n.Line, Col: n.Col})
		case syntax.FunctionDef:
			record(Position{Line: n.Line, Col: n.Col + len("def ")})
		case syntax.ClassDef:
			record(Position{Line: n.Line, Col: n.Col + len("class ")})
		}
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].Col < out[j].Col
	})
	return out
}
