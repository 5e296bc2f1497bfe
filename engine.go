package fern

import (
	"fmt"

	"github.com/jward/fern/internal/parser"
	"github.com/jward/fern/internal/resolve"
	"github.com/jward/fern/internal/scope"
	"github.com/jward/fern/internal/syntax"
)

// Parser is the tree provider collaborator: it turns source text into a
// syntax tree, failing (not producing a partial tree) on invalid input.
type Parser interface {
	Parse(src []byte) (*syntax.Node, error)
}

// Engine holds one parsed source file and answers the scope, occurrence,
// outline, and import queries against it.
//
// An Engine is safe for concurrent queries over a committed source, but not
// for concurrent SetSource calls; callers reassigning source from multiple
// goroutines must serialize, or use one Engine per goroutine.
type Engine struct {
	parser   Parser
	resolver resolve.Resolver
	builtins []string

	source string
	tree   *syntax.Node
}

// Option configures an Engine.
type Option func(*Engine)

// WithParser replaces the default tree-sitter Python provider.
func WithParser(p Parser) Option {
	return func(e *Engine) { e.parser = p }
}

// WithResolver replaces the module resolver used by Modules. The default
// resolves nothing (empty search path, no native loader).
func WithResolver(r resolve.Resolver) Option {
	return func(e *Engine) { e.resolver = r }
}

// WithBuiltins replaces the reserved/builtin identifier table merged into
// every Variables result.
func WithBuiltins(names []string) Option {
	return func(e *Engine) { e.builtins = names }
}

// New creates an Engine with empty source already committed, so queries are
// callable immediately.
func New(opts ...Option) *Engine {
	e := &Engine{
		parser:   parser.NewPython(),
		resolver: resolve.NewSourceResolver(nil, nil),
		builtins: scope.Reserved,
	}
	for _, opt := range opts {
		opt(e)
	}
	// Empty source always parses; committing it keeps tree non-nil.
	if err := e.SetSource(""); err != nil {
		panic(fmt.Sprintf("fern: parse empty source: %v", err))
	}
	return e
}

// SetSource parses src and, only on success, replaces the engine's
// (tree, source) pair. On failure the previous pair is left untouched and
// the parse error is returned.
func (e *Engine) SetSource(src string) error {
	tree, err := e.parser.Parse([]byte(src))
	if err != nil {
		return fmt.Errorf("fern: set source: %w", err)
	}
	e.tree = tree
	e.source = src
	return nil
}

// Source returns the committed source text.
func (e *Engine) Source() string {
	return e.source
}

// Tree returns the committed syntax tree. Callers must not mutate it.
func (e *Engine) Tree() *syntax.Node {
	return e.tree
}
