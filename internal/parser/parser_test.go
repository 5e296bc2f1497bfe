package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/fern/internal/syntax"
)

func parse(t *testing.T, src string) *syntax.Node {
	t.Helper()
	tree, err := NewPython().Parse([]byte(src))
	require.NoError(t, err)
	require.NotNil(t, tree)
	return tree
}

func TestParse_EmptySource(t *testing.T) {
	tree := parse(t, "")
	assert.Equal(t, syntax.Module, tree.Kind)
	assert.Equal(t, 0, tree.Line)
	assert.Empty(t, tree.Body)
}

func TestParse_ModuleShape(t *testing.T) {
	src := `"""Module doc."""
import os, json as j
from collections import OrderedDict

x = 1
a, b = 1, 2

def greet(name, times=2):
    """Say hi."""
    return name * times

class Greeter(object):
    def hello(self):
        pass
`
	tree := parse(t, src)
	require.Len(t, tree.Body, 7)

	doc := tree.Body[0]
	assert.Equal(t, syntax.String, doc.Kind)
	assert.Equal(t, "Module doc.", doc.Text)
	assert.Equal(t, "Module doc.", tree.Doc())

	imp := tree.Body[1]
	require.Equal(t, syntax.Import, imp.Kind)
	assert.Equal(t, 2, imp.Line)
	require.Len(t, imp.Rest, 2)
	assert.Equal(t, syntax.ImportName, imp.Rest[0].Kind)
	assert.Equal(t, "os", imp.Rest[0].Text)
	assert.Empty(t, imp.Rest[0].Alias)
	assert.Equal(t, "json", imp.Rest[1].Text)
	assert.Equal(t, "j", imp.Rest[1].Alias)

	from := tree.Body[2]
	require.Equal(t, syntax.ImportFrom, from.Kind)
	assert.Equal(t, "collections", from.Text)
	require.Len(t, from.Rest, 1)
	assert.Equal(t, "OrderedDict", from.Rest[0].Text)

	single := tree.Body[3]
	require.Equal(t, syntax.Assign, single.Kind)
	assert.Equal(t, 5, single.Line)
	require.Len(t, single.Targets, 1)
	assert.Equal(t, syntax.Name, single.Targets[0].Kind)
	assert.Equal(t, "x", single.Targets[0].Text)

	multi := tree.Body[4]
	require.Equal(t, syntax.Assign, multi.Kind)
	require.Len(t, multi.Targets, 1)
	tuple := multi.Targets[0]
	require.Equal(t, syntax.Tuple, tuple.Kind)
	require.Len(t, tuple.Rest, 2)
	assert.Equal(t, "a", tuple.Rest[0].Text)
	assert.Equal(t, "b", tuple.Rest[1].Text)

	fn := tree.Body[5]
	require.Equal(t, syntax.FunctionDef, fn.Kind)
	assert.Equal(t, "greet", fn.Text)
	assert.Equal(t, 8, fn.Line)
	assert.Equal(t, 0, fn.Col)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, syntax.Param, fn.Params[0].Kind)
	assert.Equal(t, "name", fn.Params[0].Text)
	assert.Equal(t, 8, fn.Params[0].Line)
	assert.Equal(t, "times", fn.Params[1].Text)
	assert.Equal(t, "Say hi.", fn.Doc())

	cls := tree.Body[6]
	require.Equal(t, syntax.ClassDef, cls.Kind)
	assert.Equal(t, "Greeter", cls.Text)
	assert.Equal(t, 12, cls.Line)
	require.Len(t, cls.Body, 1)
	method := cls.Body[0]
	require.Equal(t, syntax.FunctionDef, method.Kind)
	assert.Equal(t, "hello", method.Text)
	require.Len(t, method.Params, 1)
	assert.Equal(t, "self", method.Params[0].Text)
}

func TestParse_DecoratedDefinitionKeepsKeywordLine(t *testing.T) {
	src := "@wrap\ndef f():\n    pass\n"
	tree := parse(t, src)
	require.Len(t, tree.Body, 1)
	fn := tree.Body[0]
	require.Equal(t, syntax.FunctionDef, fn.Kind)
	assert.Equal(t, "f", fn.Text)
	assert.Equal(t, 2, fn.Line)
	assert.NotEmpty(t, fn.Rest, "decorator should ride along as a reference")
}

func TestParse_AsyncDefAnchorsAtDefKeyword(t *testing.T) {
	tree := parse(t, "async def fetch(url):\n    return url\n")
	require.Len(t, tree.Body, 1)
	fn := tree.Body[0]
	require.Equal(t, syntax.FunctionDef, fn.Kind)
	assert.Equal(t, "fetch", fn.Text)
	assert.Equal(t, 1, fn.Line)
	assert.Equal(t, 6, fn.Col, "anchor sits on def, not async")
	require.Len(t, fn.Params, 1)
	assert.Equal(t, "url", fn.Params[0].Text)
}

func TestParse_Comprehension(t *testing.T) {
	tree := parse(t, "squares = [n * n for n in nums]\n")
	require.Len(t, tree.Body, 1)
	assign := tree.Body[0]
	require.Equal(t, syntax.Assign, assign.Kind)
	require.Len(t, assign.Rest, 1)
	comp := assign.Rest[0]
	require.Equal(t, syntax.Comprehension, comp.Kind)
	require.Len(t, comp.Targets, 1)
	assert.Equal(t, "n", comp.Targets[0].Text)
}

func TestParse_SplatTargetBinds(t *testing.T) {
	tree := parse(t, "a, *rest = xs\n")
	require.Len(t, tree.Body, 1)
	tuple := tree.Body[0].Targets[0]
	require.Equal(t, syntax.Tuple, tuple.Kind)
	require.Len(t, tuple.Rest, 2)
	assert.Equal(t, "a", tuple.Rest[0].Text)
	assert.Equal(t, "rest", tuple.Rest[1].Text)
}

func TestParse_AttributeDropsAttrIdentifier(t *testing.T) {
	tree := parse(t, "value = obj.field\n")
	var names []string
	syntax.Walk(tree, func(n *syntax.Node) bool {
		if n.Kind == syntax.Name {
			names = append(names, n.Text)
		}
		return true
	})
	assert.ElementsMatch(t, []string{"value", "obj"}, names)
}

func TestParse_SyntaxError(t *testing.T) {
	_, err := NewPython().Parse([]byte("def broken(:\n"))
	require.Error(t, err)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.GreaterOrEqual(t, perr.Line, 1)
	assert.Contains(t, perr.Error(), "syntax error")
}

func TestStringValue(t *testing.T) {
	tests := []struct {
		name string
		lit  string
		want string
	}{
		{"double quotes", `"hi"`, "hi"},
		{"single quotes", `'hi'`, "hi"},
		{"triple quotes", `"""  padded  """`, "padded"},
		{"raw prefix", `r"raw"`, "raw"},
		{"unicode prefix", `u'text'`, "text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stringValue(tt.lit))
		})
	}
}
