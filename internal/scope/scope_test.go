package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/fern/internal/parser"
	"github.com/jward/fern/internal/syntax"
)

const nestedSrc = `x = 1

def func1(a, b):
    y = a + b
    def in_func(c):
        z = c
        return z
    return y

def func2(d):
    w = d
    return w
`

func parse(t *testing.T, src string) *syntax.Node {
	t.Helper()
	tree, err := parser.NewPython().Parse([]byte(src))
	require.NoError(t, err)
	return tree
}

// collectAt mirrors the scope query: find the path to a line, then let one
// collector visit every node on it.
func collectAt(t *testing.T, src string, line int) map[string][]Position {
	t.Helper()
	tree := parse(t, src)
	c := NewCollector(line)
	for _, n := range PathTo(tree, line) {
		c.Visit(n)
	}
	return c.Bindings
}

func names(bindings map[string][]Position) []string {
	out := make([]string, 0, len(bindings))
	for name := range bindings {
		out = append(out, name)
	}
	return out
}

func TestPathTo(t *testing.T) {
	tree := parse(t, nestedSrc)

	path := PathTo(tree, 6)
	require.NotEmpty(t, path)
	assert.Same(t, tree, path[0])

	var kinds []syntax.Kind
	for _, n := range path {
		kinds = append(kinds, n.Kind)
	}
	assert.Contains(t, kinds, syntax.FunctionDef)

	// Both enclosing functions sit on the path to the inner assignment.
	var defNames []string
	for _, n := range path {
		if n.Kind == syntax.FunctionDef {
			defNames = append(defNames, n.Text)
		}
	}
	assert.Equal(t, []string{"func1", "in_func"}, defNames)
}

func TestPathTo_NoNodeOnLine(t *testing.T) {
	tree := parse(t, nestedSrc)
	assert.Nil(t, PathTo(tree, 0))
	assert.Nil(t, PathTo(tree, -3))
	assert.Nil(t, PathTo(tree, 999))
	assert.Nil(t, PathTo(nil, 1))
}

func TestCollector_InnerScopeSeesEnclosing(t *testing.T) {
	got := names(collectAt(t, nestedSrc, 6))
	assert.ElementsMatch(t,
		[]string{"x", "y", "z", "a", "b", "c", "func1", "func2", "in_func"}, got)
}

func TestCollector_OuterScopeExcludesInner(t *testing.T) {
	got := names(collectAt(t, nestedSrc, 4))
	assert.ElementsMatch(t, []string{"x", "y", "a", "b", "func1", "func2"}, got)
	assert.NotContains(t, got, "z")
	assert.NotContains(t, got, "w")
}

func TestCollector_TopLevelDefsVisibleBeforeDefinition(t *testing.T) {
	// Querying on line 1 still sees both module-level functions.
	got := names(collectAt(t, nestedSrc, 1))
	assert.Contains(t, got, "func1")
	assert.Contains(t, got, "func2")
	assert.NotContains(t, got, "y")
}

func TestCollector_ParamsHiddenOnSignatureLine(t *testing.T) {
	onSignature := names(collectAt(t, nestedSrc, 3))
	assert.NotContains(t, onSignature, "a")
	assert.NotContains(t, onSignature, "b")

	inBody := names(collectAt(t, nestedSrc, 4))
	assert.Contains(t, inBody, "a")
	assert.Contains(t, inBody, "b")
}

func TestCollector_ClassMethodsVisibleRegardlessOfCutoff(t *testing.T) {
	src := `class K:
    def m1(self):
        pass
    def m2(self):
        pass
`
	got := names(collectAt(t, src, 3))
	assert.ElementsMatch(t, []string{"K", "m1", "m2", "self"}, got)
}

func TestCollector_ComprehensionTargetBindsInEnclosingScope(t *testing.T) {
	tree := parse(t, "pairs = [a + 1 for a in items]\n")
	c := NewCollector(NoCutoff)
	c.Visit(tree)
	got := names(c.Bindings)
	assert.ElementsMatch(t, []string{"pairs", "a"}, got)
	assert.NotContains(t, got, "items")
}

func TestCollector_ImportsBindAliasOrName(t *testing.T) {
	src := "import numpy as np\nfrom os import path as p\nimport sys\n"
	tree := parse(t, src)
	c := NewCollector(NoCutoff)
	c.Visit(tree)
	got := names(c.Bindings)
	assert.ElementsMatch(t, []string{"np", "p", "sys"}, got)
}

func TestCollector_RedefinitionRecordsEveryPosition(t *testing.T) {
	tree := parse(t, "x = 1\nx = 2\n")
	c := NewCollector(NoCutoff)
	c.Visit(tree)
	require.Contains(t, c.Bindings, "x")
	assert.Equal(t, []Position{{Line: 1, Col: 0}, {Line: 2, Col: 0}}, c.Bindings["x"])
}

func TestCollector_Reset(t *testing.T) {
	tree := parse(t, "x = 1\n")
	c := NewCollector(NoCutoff)
	c.Visit(tree)
	require.NotEmpty(t, c.Bindings)
	c.Reset()
	assert.Empty(t, c.Bindings)
}

func TestFindName_SkipsLeadingKeyword(t *testing.T) {
	src := `def foo():
    foo = 1
    return foo
`
	tree := parse(t, src)
	got := FindName(tree, "foo")
	assert.Equal(t, []Position{
		{Line: 1, Col: 4},
		{Line: 2, Col: 4},
		{Line: 3, Col: 11},
	}, got)
}

func TestFindName_ClassKeyword(t *testing.T) {
	tree := parse(t, "class Box:\n    pass\n")
	got := FindName(tree, "Box")
	assert.Equal(t, []Position{{Line: 1, Col: 6}}, got)
}

func TestFindName_AsyncDef(t *testing.T) {
	tree := parse(t, "async def fetch(url):\n    return fetch\n")
	got := FindName(tree, "fetch")
	assert.Equal(t, []Position{
		{Line: 1, Col: 10},
		{Line: 2, Col: 11},
	}, got)
}

func TestFindName_Missing(t *testing.T) {
	tree := parse(t, "x = 1\n")
	assert.Empty(t, FindName(tree, "nope"))
}

func TestReserved(t *testing.T) {
	assert.Contains(t, Reserved, "print")
	assert.Contains(t, Reserved, "None")
	assert.Contains(t, Reserved, "len")
	assert.Contains(t, Reserved, "ValueError")
	assert.Contains(t, Reserved, "__name__")

	seen := make(map[string]bool, len(Reserved))
	for _, name := range Reserved {
		assert.False(t, seen[name], "duplicate reserved name %q", name)
		seen[name] = true
	}
}
