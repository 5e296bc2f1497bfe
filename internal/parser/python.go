// Package parser turns Python source text into the engine's syntax.Node
// model using tree-sitter. It is the default tree provider; anything that
// produces the same model can replace it.
package parser

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/jward/fern/internal/syntax"
)

// ParseError reports the position of the first syntax error or missing token
// in unparsable source. No tree is produced alongside it.
type ParseError struct {
	Line int
	Col  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parser: syntax error at line %d, column %d", e.Line, e.Col)
}

// Python parses Python source into a syntax tree. The zero value is ready to
// use; instances are safe for concurrent Parse calls since each call builds
// its own tree-sitter parser.
type Python struct{}

// NewPython returns a Python tree provider.
func NewPython() *Python {
	return &Python{}
}

// Parse builds a syntax tree for src. Invalid source yields a *ParseError
// and no tree; the translated tree owns no tree-sitter memory, so the
// underlying CST is released before returning.
func (p *Python) Parse(src []byte) (*syntax.Node, error) {
	tsp := sitter.NewParser()
	defer tsp.Close()
	tsp.SetLanguage(python.GetLanguage())

	tree, err := tsp.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("parser: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		line, col := firstError(root)
		return nil, &ParseError{Line: line, Col: col}
	}

	b := &builder{src: src}
	mod := &syntax.Node{Kind: syntax.Module}
	for _, child := range namedChildren(root) {
		if n := b.node(child); n != nil {
			mod.Body = append(mod.Body, n)
		}
	}
	return mod, nil
}

// firstError locates the first ERROR or missing node in pre-order.
func firstError(n *sitter.Node) (line, col int) {
	if n.Type() == "ERROR" || n.IsMissing() {
		p := n.StartPoint()
		return int(p.Row) + 1, int(p.Column)
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if child := n.Child(i); child != nil && (child.HasError() || child.IsMissing()) {
			return firstError(child)
		}
	}
	p := n.StartPoint()
	return int(p.Row) + 1, int(p.Column)
}

// namedChildren returns the named children of ts, comments excluded.
func namedChildren(ts *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(ts.NamedChildCount()); i++ {
		child := ts.NamedChild(i)
		if child == nil || child.Type() == "comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}

type builder struct {
	src []byte
}

func at(k syntax.Kind, ts *sitter.Node) *syntax.Node {
	p := ts.StartPoint()
	return &syntax.Node{Kind: k, Line: int(p.Row) + 1, Col: int(p.Column)}
}

func (b *builder) text(ts *sitter.Node) string {
	return ts.Content(b.src)
}

// node translates one CST node. Returns nil for nodes with no model
// representation (comments).
func (b *builder) node(ts *sitter.Node) *syntax.Node {
	switch ts.Type() {
	case "comment":
		return nil

	case "expression_statement":
		// Unwrap single-expression statements so docstrings surface as a
		// String node directly in the suite.
		kids := namedChildren(ts)
		if len(kids) == 1 {
			return b.node(kids[0])
		}
		return b.genericNode(ts)

	case "assignment":
		n := at(syntax.Assign, ts)
		if left := ts.ChildByFieldName("left"); left != nil {
			n.Targets = b.targets(left)
		}
		if typ := ts.ChildByFieldName("type"); typ != nil {
			n.Rest = appendNode(n.Rest, b.node(typ))
		}
		if right := ts.ChildByFieldName("right"); right != nil {
			n.Rest = appendNode(n.Rest, b.node(right))
		}
		return n

	case "function_definition":
		n := at(syntax.FunctionDef, ts)
		// An async function node starts at the async keyword; the anchor is
		// always the def keyword so definition columns stay keyword-relative.
		for i := 0; i < int(ts.ChildCount()); i++ {
			if kw := ts.Child(i); kw != nil && kw.Type() == "def" {
				p := kw.StartPoint()
				n.Line, n.Col = int(p.Row)+1, int(p.Column)
				break
			}
		}
		if name := ts.ChildByFieldName("name"); name != nil {
			n.Text = b.text(name)
		}
		if params := ts.ChildByFieldName("parameters"); params != nil {
			n.Params = b.params(params)
		}
		if ret := ts.ChildByFieldName("return_type"); ret != nil {
			n.Rest = appendNode(n.Rest, b.node(ret))
		}
		n.Body = b.block(ts.ChildByFieldName("body"))
		return n

	case "class_definition":
		n := at(syntax.ClassDef, ts)
		if name := ts.ChildByFieldName("name"); name != nil {
			n.Text = b.text(name)
		}
		if bases := ts.ChildByFieldName("superclasses"); bases != nil {
			n.Rest = appendNode(n.Rest, b.genericNode(bases))
		}
		n.Body = b.block(ts.ChildByFieldName("body"))
		return n

	case "decorated_definition":
		// The definition keeps its own (def/class keyword) position;
		// decorator expressions ride along as references.
		def := ts.ChildByFieldName("definition")
		if def == nil {
			return b.genericNode(ts)
		}
		n := b.node(def)
		if n == nil {
			return nil
		}
		for _, child := range namedChildren(ts) {
			if child.Type() == "decorator" {
				n.Rest = appendNode(n.Rest, b.genericNode(child))
			}
		}
		return n

	case "for_statement":
		n := at(syntax.For, ts)
		if left := ts.ChildByFieldName("left"); left != nil {
			n.Targets = b.targets(left)
		}
		if right := ts.ChildByFieldName("right"); right != nil {
			n.Rest = appendNode(n.Rest, b.node(right))
		}
		n.Body = b.block(ts.ChildByFieldName("body"))
		if alt := ts.ChildByFieldName("alternative"); alt != nil {
			n.Body = appendNode(n.Body, b.node(alt))
		}
		return n

	case "while_statement":
		n := at(syntax.While, ts)
		if cond := ts.ChildByFieldName("condition"); cond != nil {
			n.Rest = appendNode(n.Rest, b.node(cond))
		}
		n.Body = b.block(ts.ChildByFieldName("body"))
		if alt := ts.ChildByFieldName("alternative"); alt != nil {
			n.Body = appendNode(n.Body, b.node(alt))
		}
		return n

	case "if_statement":
		n := at(syntax.If, ts)
		if cond := ts.ChildByFieldName("condition"); cond != nil {
			n.Rest = appendNode(n.Rest, b.node(cond))
		}
		n.Body = b.block(ts.ChildByFieldName("consequence"))
		for _, child := range namedChildren(ts) {
			if child.Type() == "elif_clause" || child.Type() == "else_clause" {
				n.Body = appendNode(n.Body, b.node(child))
			}
		}
		return n

	case "elif_clause":
		// An elif is its own conditional, as in a nested-if rendering.
		n := at(syntax.If, ts)
		if cond := ts.ChildByFieldName("condition"); cond != nil {
			n.Rest = appendNode(n.Rest, b.node(cond))
		}
		n.Body = b.block(ts.ChildByFieldName("consequence"))
		return n

	case "else_clause":
		n := at(syntax.Other, ts)
		n.Body = b.block(ts.ChildByFieldName("body"))
		return n

	case "try_statement":
		n := at(syntax.Try, ts)
		n.Body = b.block(ts.ChildByFieldName("body"))
		for _, child := range namedChildren(ts) {
			switch child.Type() {
			case "except_clause", "except_group_clause", "finally_clause", "else_clause":
				n.Body = appendNode(n.Body, b.genericNode(child))
			}
		}
		return n

	case "import_statement":
		n := at(syntax.Import, ts)
		for _, child := range namedChildren(ts) {
			n.Rest = appendNode(n.Rest, b.importName(child))
		}
		return n

	case "import_from_statement":
		n := at(syntax.ImportFrom, ts)
		module := ts.ChildByFieldName("module_name")
		if module != nil {
			n.Text = b.text(module)
		}
		for _, child := range namedChildren(ts) {
			if module != nil && child.StartByte() == module.StartByte() {
				continue
			}
			if child.Type() == "wildcard_import" {
				n.Rest = appendNode(n.Rest, &syntax.Node{Kind: syntax.ImportName, Text: "*"})
				continue
			}
			n.Rest = appendNode(n.Rest, b.importName(child))
		}
		return n

	case "list_comprehension", "set_comprehension", "dictionary_comprehension",
		"generator_expression":
		n := at(syntax.Comprehension, ts)
		for _, child := range namedChildren(ts) {
			if child.Type() == "for_in_clause" {
				if left := child.ChildByFieldName("left"); left != nil {
					n.Targets = append(n.Targets, b.targets(left)...)
				}
				if right := child.ChildByFieldName("right"); right != nil {
					n.Rest = appendNode(n.Rest, b.node(right))
				}
				continue
			}
			n.Rest = appendNode(n.Rest, b.node(child))
		}
		return n

	case "identifier":
		n := at(syntax.Name, ts)
		n.Text = b.text(ts)
		return n

	case "attribute":
		// Only the object side is a reference; the attribute identifier is
		// not an occurrence of a visible name.
		n := at(syntax.Other, ts)
		if obj := ts.ChildByFieldName("object"); obj != nil {
			n.Rest = appendNode(n.Rest, b.node(obj))
		}
		return n

	case "keyword_argument":
		n := at(syntax.Other, ts)
		if val := ts.ChildByFieldName("value"); val != nil {
			n.Rest = appendNode(n.Rest, b.node(val))
		}
		return n

	case "string":
		n := at(syntax.String, ts)
		n.Text = stringValue(b.text(ts))
		return n

	case "lambda":
		n := at(syntax.Other, ts)
		if params := ts.ChildByFieldName("parameters"); params != nil {
			n.Params = b.params(params)
		}
		if body := ts.ChildByFieldName("body"); body != nil {
			n.Rest = appendNode(n.Rest, b.node(body))
		}
		return n

	default:
		return b.genericNode(ts)
	}
}

// genericNode translates a node with no special handling: its position plus
// all translated named children.
func (b *builder) genericNode(ts *sitter.Node) *syntax.Node {
	n := at(syntax.Other, ts)
	for _, child := range namedChildren(ts) {
		n.Rest = appendNode(n.Rest, b.node(child))
	}
	return n
}

// block translates a statement suite.
func (b *builder) block(ts *sitter.Node) []*syntax.Node {
	if ts == nil {
		return nil
	}
	var out []*syntax.Node
	for _, child := range namedChildren(ts) {
		out = appendNode(out, b.node(child))
	}
	return out
}

// targets translates an assignment/loop/comprehension target into tagged
// binding nodes: a Name for a single target, a Tuple of Names for a
// destructured one. Attribute and subscript targets translate generically
// and bind nothing.
func (b *builder) targets(ts *sitter.Node) []*syntax.Node {
	switch ts.Type() {
	case "identifier":
		return []*syntax.Node{b.node(ts)}
	case "pattern_list", "tuple_pattern", "list_pattern":
		tuple := at(syntax.Tuple, ts)
		for _, child := range namedChildren(ts) {
			tuple.Rest = appendNode(tuple.Rest, b.patternElement(child))
		}
		return []*syntax.Node{tuple}
	default:
		return []*syntax.Node{b.node(ts)}
	}
}

// patternElement unwraps splat elements so `a, *rest = xs` binds rest.
func (b *builder) patternElement(ts *sitter.Node) *syntax.Node {
	if ts.Type() == "list_splat_pattern" || ts.Type() == "dictionary_splat_pattern" {
		kids := namedChildren(ts)
		if len(kids) == 1 && kids[0].Type() == "identifier" {
			return b.node(kids[0])
		}
	}
	return b.node(ts)
}

// params translates a parameter list into Param nodes positioned at each
// identifier. Annotations and default values ride along as references.
func (b *builder) params(ts *sitter.Node) []*syntax.Node {
	var out []*syntax.Node
	for _, child := range namedChildren(ts) {
		switch child.Type() {
		case "identifier":
			p := at(syntax.Param, child)
			p.Text = b.text(child)
			out = append(out, p)
		case "typed_parameter":
			kids := namedChildren(child)
			if len(kids) == 0 {
				continue
			}
			p := b.paramFromPattern(kids[0])
			if p == nil {
				continue
			}
			if typ := child.ChildByFieldName("type"); typ != nil {
				p.Rest = appendNode(p.Rest, b.node(typ))
			}
			out = append(out, p)
		case "default_parameter", "typed_default_parameter":
			name := child.ChildByFieldName("name")
			if name == nil {
				continue
			}
			p := b.paramFromPattern(name)
			if p == nil {
				continue
			}
			if typ := child.ChildByFieldName("type"); typ != nil {
				p.Rest = appendNode(p.Rest, b.node(typ))
			}
			if val := child.ChildByFieldName("value"); val != nil {
				p.Rest = appendNode(p.Rest, b.node(val))
			}
			out = append(out, p)
		case "list_splat_pattern", "dictionary_splat_pattern":
			if p := b.paramFromPattern(child); p != nil {
				out = append(out, p)
			}
		}
	}
	return out
}

func (b *builder) paramFromPattern(ts *sitter.Node) *syntax.Node {
	if ts.Type() == "list_splat_pattern" || ts.Type() == "dictionary_splat_pattern" {
		kids := namedChildren(ts)
		if len(kids) != 1 {
			return nil
		}
		ts = kids[0]
	}
	if ts.Type() != "identifier" {
		return nil
	}
	p := at(syntax.Param, ts)
	p.Text = b.text(ts)
	return p
}

// importName translates a dotted_name or aliased_import child of an import
// statement. Returns nil for anything else.
func (b *builder) importName(ts *sitter.Node) *syntax.Node {
	switch ts.Type() {
	case "dotted_name":
		return &syntax.Node{Kind: syntax.ImportName, Text: b.text(ts)}
	case "aliased_import":
		n := &syntax.Node{Kind: syntax.ImportName}
		if name := ts.ChildByFieldName("name"); name != nil {
			n.Text = b.text(name)
		}
		if alias := ts.ChildByFieldName("alias"); alias != nil {
			n.Alias = b.text(alias)
		}
		return n
	default:
		return nil
	}
}

func appendNode(dst []*syntax.Node, n *syntax.Node) []*syntax.Node {
	if n == nil {
		return dst
	}
	return append(dst, n)
}

// stringValue strips string prefixes and quotes and trims surrounding
// whitespace, approximating a cleaned docstring.
func stringValue(lit string) string {
	i := 0
	for i < len(lit) && lit[i] != '"' && lit[i] != '\'' {
		i++
	}
	prefix, rest := lit[:i], lit[i:]
	if len(prefix) > 2 { // not a string prefix; leave untouched
		return strings.TrimSpace(lit)
	}
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(rest, q) && strings.HasSuffix(rest, q) && len(rest) >= 2*len(q) {
			return strings.TrimSpace(rest[len(q) : len(rest)-len(q)])
		}
	}
	return strings.TrimSpace(rest)
}
