package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/fern/internal/parser"
	"github.com/jward/fern/internal/syntax"
)

const outlineSrc = `"""Top doc."""

def solo(x, y):
    """Adds."""
    return x + y

@decorator
def wrapped(
        a,
        b):
    return a

class Shape:
    """A shape."""

    def area(self):
        return 0

    def name(self):
        return "shape"
`

func parse(t *testing.T, src string) *syntax.Node {
	t.Helper()
	tree, err := parser.NewPython().Parse([]byte(src))
	require.NoError(t, err)
	return tree
}

func TestExtract(t *testing.T) {
	tree := parse(t, outlineSrc)
	defs := Extract(tree, outlineSrc)
	require.Len(t, defs, 5)

	solo := defs[0]
	assert.Equal(t, "solo", solo.Name)
	assert.Equal(t, "solo(x, y)", solo.Title)
	assert.Equal(t, 3, solo.StartLine)
	assert.Equal(t, 3, solo.LineCount)
	assert.Equal(t, "Adds.", solo.Doc)
	assert.Equal(t, Function, solo.Kind)

	wrapped := defs[1]
	assert.Equal(t, "wrapped", wrapped.Name)
	assert.Equal(t, "wrapped( ...", wrapped.Title, "open signature gets a continuation marker")
	assert.Equal(t, 8, wrapped.StartLine, "start is the def line, not the decorator")
	assert.Equal(t, 4, wrapped.LineCount)
	assert.Empty(t, wrapped.Doc)

	shape := defs[2]
	assert.Equal(t, "Shape", shape.Name)
	assert.Equal(t, "Shape", shape.Title)
	assert.Equal(t, 13, shape.StartLine)
	assert.Equal(t, 8, shape.LineCount)
	assert.Equal(t, "A shape.", shape.Doc)
	assert.Equal(t, Class, shape.Kind)

	area := defs[3]
	assert.Equal(t, "area", area.Name)
	assert.Equal(t, "area(self)", area.Title)
	assert.Equal(t, 16, area.StartLine)
	assert.Equal(t, 2, area.LineCount)
	assert.Equal(t, Method, area.Kind)

	name := defs[4]
	assert.Equal(t, "name", name.Name)
	assert.Equal(t, 19, name.StartLine)
	assert.Equal(t, Method, name.Kind)
}

func TestExtract_AsyncDef(t *testing.T) {
	src := "async def fetch(url):\n    \"\"\"Get.\"\"\"\n    return url\n"
	defs := Extract(parse(t, src), src)
	require.Len(t, defs, 1)
	assert.Equal(t, "fetch", defs[0].Name)
	assert.Equal(t, "fetch(url)", defs[0].Title)
	assert.Equal(t, 1, defs[0].StartLine)
	assert.Equal(t, 3, defs[0].LineCount)
	assert.Equal(t, "Get.", defs[0].Doc)
}

func TestExtract_SkipsDeeperNesting(t *testing.T) {
	src := `def outer():
    def inner():
        pass
`
	defs := Extract(parse(t, src), src)
	require.Len(t, defs, 1)
	assert.Equal(t, "outer", defs[0].Name)
}

func TestExtract_EmptyModule(t *testing.T) {
	assert.Empty(t, Extract(parse(t, ""), ""))
}

func TestNesting(t *testing.T) {
	src := `if cond:
    for i in range(3):
        total = i
try:
    risky()
except ValueError:
    pass
while running:
    step()
`
	spans := Nesting(parse(t, src))
	assert.Equal(t, []Span{
		{Start: 1, End: 3},
		{Start: 2, End: 3},
		{Start: 4, End: 7},
		{Start: 8, End: 9},
	}, spans)
}

func TestNesting_ElifIsItsOwnSpan(t *testing.T) {
	src := `if a:
    one()
elif b:
    two()
else:
    three()
`
	spans := Nesting(parse(t, src))
	assert.Equal(t, []Span{
		{Start: 1, End: 6},
		{Start: 3, End: 4},
	}, spans)
}

func TestNesting_FlatModule(t *testing.T) {
	assert.Empty(t, Nesting(parse(t, "x = 1\ny = 2\n")))
	assert.Empty(t, Nesting(parse(t, "")))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "function", Function.String())
	assert.Equal(t, "class", Class.String())
	assert.Equal(t, "method", Method.String())
}
