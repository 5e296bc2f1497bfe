package fern

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jward/fern/internal/outline"
)

// Documentation returns a plain-text summary of the file's top-level
// functions and classes: a "Functions" section and a "Classes" section,
// entries sorted by name, each as "<line> <name>" followed by the
// definition's docstring. Methods are excluded from this view.
func (e *Engine) Documentation() string {
	defs := outline.Extract(e.tree, e.source)

	var functions, classes []outline.Definition
	for _, d := range defs {
		switch d.Kind {
		case outline.Function:
			functions = append(functions, d)
		case outline.Class:
			classes = append(classes, d)
		}
	}
	byName := func(defs []outline.Definition) func(i, j int) bool {
		return func(i, j int) bool { return defs[i].Name < defs[j].Name }
	}
	sort.Slice(functions, byName(functions))
	sort.Slice(classes, byName(classes))

	var b strings.Builder
	b.WriteString("Functions\n\n")
	for _, d := range functions {
		fmt.Fprintf(&b, "%d %s\n%s\n\n", d.StartLine, d.Name, d.Doc)
	}
	b.WriteString("Classes\n\n")
	for _, d := range classes {
		fmt.Fprintf(&b, "%d %s\n%s\n\n", d.StartLine, d.Name, d.Doc)
	}
	return b.String()
}

// Navigation returns every definition — top-level functions and classes plus
// their methods — keyed by line range. Item names are signature titles, so a
// function's arguments and a class's bases are part of the name.
func (e *Engine) Navigation() map[LineRange]NavigationItem {
	nav := make(map[LineRange]NavigationItem)
	for _, d := range outline.Extract(e.tree, e.source) {
		key := LineRange{Start: d.StartLine, Count: d.LineCount}
		nav[key] = NavigationItem{Name: d.Title, Kind: d.Kind}
	}
	return nav
}

// NestableLines returns the fold range of every compound statement in the
// file. An empty module yields nil.
func (e *Engine) NestableLines() []Span {
	return outline.Nesting(e.tree)
}
