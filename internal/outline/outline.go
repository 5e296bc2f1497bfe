// Package outline extracts the structural view of a parsed source file:
// function/class/method definitions with titles and documentation, and fold
// ranges for compound statements.
package outline

import (
	"strings"

	"github.com/jward/fern/internal/syntax"
)

// Kind classifies a definition.
type Kind int

const (
	Function Kind = iota
	Class
	Method
)

func (k Kind) String() string {
	switch k {
	case Function:
		return "function"
	case Class:
		return "class"
	case Method:
		return "method"
	default:
		return "unknown"
	}
}

// Definition describes one function, class, or method definition.
type Definition struct {
	Name      string // bare identifier
	Title     string // signature line, keyword stripped
	StartLine int    // signature line, decorators skipped
	LineCount int    // lines through the deepest positional descendant
	Doc       string // leading string-literal statement, "" if absent
	Kind      Kind
}

// Span is an inclusive line range of a collapsible block.
type Span struct {
	Start int
	End   int
}

// Extract returns the definitions of tree in document order: every top-level
// function and class, and every function one level inside a class body as a
// method. Deeper nesting is not reported.
func Extract(tree *syntax.Node, source string) []Definition {
	lines := strings.Split(source, "\n")
	var defs []Definition
	for _, stmt := range tree.Body {
		switch stmt.Kind {
		case syntax.FunctionDef:
			defs = append(defs, build(stmt, lines, Function))
		case syntax.ClassDef:
			defs = append(defs, build(stmt, lines, Class))
			for _, sub := range stmt.Body {
				if sub.Kind == syntax.FunctionDef {
					defs = append(defs, build(sub, lines, Method))
				}
			}
		}
	}
	return defs
}

// build assembles one Definition. The signature line is located by scanning
// forward from the node's line past any decorator lines; the title is that
// line with the leading keyword stripped, the block-opening colon removed
// when the signature closes on the same line, and an ellipsis marker
// appended when it does not.
//
// The end line is the maximum line of any positional descendant, which can
// undercount a trailing multi-line literal with no positional subnodes.
func build(n *syntax.Node, lines []string, kind Kind) Definition {
	prefix := "def "
	if kind == Class {
		prefix = "class "
	}

	lineno := n.Line
	for i := n.Line - 1; i < len(lines); i++ {
		signature := strings.TrimPrefix(strings.TrimSpace(lines[i]), "async ")
		if strings.HasPrefix(signature, prefix) {
			break
		}
		lineno++
	}

	title := ""
	if lineno-1 < len(lines) {
		title = strings.TrimSpace(lines[lineno-1])
	}
	title = strings.TrimPrefix(title, "async ")
	title = strings.TrimPrefix(title, prefix)
	if strings.HasSuffix(title, ":") {
		title = strings.TrimSuffix(title, ":")
	} else {
		title += " ..."
	}

	end := syntax.MaxLine(n)
	return Definition{
		Name:      n.Text,
		Title:     title,
		StartLine: lineno,
		LineCount: end - lineno + 1,
		Doc:       n.Doc(),
		Kind:      kind,
	}
}

// Nesting returns the fold range of every compound statement in the tree:
// function and class definitions, conditionals, loops, and exception blocks.
// An empty module yields nil.
func Nesting(tree *syntax.Node) []Span {
	var spans []Span
	syntax.Walk(tree, func(n *syntax.Node) bool {
		switch n.Kind {
		case syntax.FunctionDef, syntax.ClassDef, syntax.If, syntax.For,
			syntax.While, syntax.Try:
			spans = append(spans, Span{Start: n.Line, End: syntax.MaxLine(n)})
		}
		return true
	})
	return spans
}
