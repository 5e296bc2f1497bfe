// Package syntax defines the node model the engine operates on. Nodes are
// produced by a tree provider (internal/parser by default) and never mutated
// afterwards; every query is a read-only traversal.
package syntax

// Kind is the closed set of node categories the engine understands.
// Providers map their concrete syntax onto these; anything without scope,
// outline, or reference significance becomes Other.
type Kind int

const (
	Module Kind = iota
	FunctionDef
	ClassDef
	Assign
	For
	While
	If
	Try
	Comprehension
	Import
	ImportFrom
	ImportName
	Name
	Tuple
	Param
	String
	Other
)

func (k Kind) String() string {
	switch k {
	case Module:
		return "module"
	case FunctionDef:
		return "function-def"
	case ClassDef:
		return "class-def"
	case Assign:
		return "assignment"
	case For:
		return "for-loop"
	case While:
		return "while-loop"
	case If:
		return "conditional"
	case Try:
		return "exception-block"
	case Comprehension:
		return "comprehension"
	case Import:
		return "import"
	case ImportFrom:
		return "import-from"
	case ImportName:
		return "import-name"
	case Name:
		return "name"
	case Tuple:
		return "tuple-target"
	case Param:
		return "parameter"
	case String:
		return "string"
	default:
		return "other"
	}
}

// Node is one node of a parsed tree.
//
// Line is 1-based; Line == 0 marks a structural node with no source position
// (only the module root today), which scope collection always traverses
// regardless of cutoff. Col is a 0-based byte column.
//
// Children are split by role so that consumers never have to guess whether a
// Name is an assignment target or a reference: Targets holds binding targets
// (each of kind Name or Tuple, the tag deciding single vs destructured),
// Params holds function parameters, Body holds statement suites, and Rest
// holds everything else (values, conditions, bases, decorators).
type Node struct {
	Kind  Kind
	Text  string // identifier, string value, or dotted module path
	Alias string // ImportName only: the "as" alias, "" when absent
	Line  int
	Col   int

	Targets []*Node
	Params  []*Node
	Rest    []*Node
	Body    []*Node
}

// Children returns all children in document order: targets, then parameters,
// then remaining expressions, then the body suite.
func (n *Node) Children() []*Node {
	out := make([]*Node, 0, len(n.Targets)+len(n.Params)+len(n.Rest)+len(n.Body))
	out = append(out, n.Targets...)
	out = append(out, n.Params...)
	out = append(out, n.Rest...)
	out = append(out, n.Body...)
	return out
}

// IsScope reports whether the node opens a lexical scope.
func (n *Node) IsScope() bool {
	return n.Kind == Module || n.Kind == FunctionDef || n.Kind == ClassDef
}

// Doc returns the node's leading string-literal statement, or "" when the
// body does not start with one. Meaningful for Module, FunctionDef, ClassDef.
func (n *Node) Doc() string {
	if len(n.Body) > 0 && n.Body[0].Kind == String {
		return n.Body[0].Text
	}
	return ""
}

// Walk calls fn for n and every descendant in pre-order. fn returning false
// prunes the subtree.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}

// MaxLine returns the highest line number reached by n or any descendant,
// ignoring nodes without a position. Returns 0 for a tree with no positional
// nodes.
func MaxLine(n *Node) int {
	end := 0
	Walk(n, func(c *Node) bool {
		if c.Line > end {
			end = c.Line
		}
		return true
	})
	return end
}
