package fern

import (
	"github.com/jward/fern/internal/outline"
	"github.com/jward/fern/internal/parser"
	"github.com/jward/fern/internal/resolve"
	"github.com/jward/fern/internal/syntax"
)

// Public type aliases for internal types used in the facade API. These are
// Go type aliases (=) — identical to the internal types at compile time.

// Node and Kind form the syntax tree model consumed by the engine and
// produced by Parser implementations.
type Node = syntax.Node
type Kind = syntax.Kind

// Definition and DefKind describe extracted definitions; Span is a fold
// range.
type Definition = outline.Definition
type DefKind = outline.Kind
type Span = outline.Span

// Resolver and NativeLoader are the module-resolution collaborators;
// SourceResolver is the in-tree default.
type Resolver = resolve.Resolver
type NativeLoader = resolve.NativeLoader
type SourceResolver = resolve.SourceResolver

// ParseError is returned (wrapped) by SetSource for invalid source.
type ParseError = parser.ParseError

// ErrModuleNotFound reports that no resolution strategy located an imported
// module.
var ErrModuleNotFound = resolve.ErrNotFound

// NewSourceResolver returns the default search-path resolver; loader may be
// nil.
func NewSourceResolver(searchPath []string, loader NativeLoader) *SourceResolver {
	return resolve.NewSourceResolver(searchPath, loader)
}

// Undefined is the sentinel position of reserved/builtin names that no user
// code shadows.
const Undefined = -1

// Occurrence is one textual occurrence of an identifier.
type Occurrence struct {
	Offset int
	Length int
}

// LineRange keys a navigation item: a 1-based start line and an inclusive
// line count.
type LineRange struct {
	Start int
	Count int
}

// NavigationItem is the navigation view of a definition: its title and kind.
type NavigationItem struct {
	Name string
	Kind DefKind
}
