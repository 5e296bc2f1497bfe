package fern

import (
	"context"
	"fmt"
	"slices"

	"github.com/jward/fern/internal/syntax"
)

// Modules resolves every import statement in the tree to the imported
// module's exported names.
//
// `import m` (and `import m as a`) entries are keyed by m. `from m import n`
// entries are keyed by n when n is among m's exports, and are omitted when
// it is not; `from m import *` is keyed by m. A module that no resolution
// strategy can locate is a fatal lookup failure.
//
// Resolution may perform filesystem or host-loader I/O; ctx bounds it.
func (e *Engine) Modules(ctx context.Context) (map[string][]string, error) {
	modules := make(map[string][]string)
	var firstErr error

	syntax.Walk(e.tree, func(n *syntax.Node) bool {
		if firstErr != nil {
			return false
		}
		switch n.Kind {
		case syntax.Import:
			for _, child := range n.Rest {
				if child.Kind != syntax.ImportName {
					continue
				}
				exports, err := e.resolver.Resolve(ctx, child.Text)
				if err != nil {
					firstErr = fmt.Errorf("fern: modules: %w", err)
					return false
				}
				modules[child.Text] = exports
			}
		case syntax.ImportFrom:
			exports, err := e.resolver.Resolve(ctx, n.Text)
			if err != nil {
				firstErr = fmt.Errorf("fern: modules: %w", err)
				return false
			}
			for _, child := range n.Rest {
				if child.Kind != syntax.ImportName {
					continue
				}
				if child.Text == "*" {
					modules[n.Text] = exports
					continue
				}
				if slices.Contains(exports, child.Text) {
					modules[child.Text] = exports
				}
			}
		}
		return true
	})

	if firstErr != nil {
		return nil, firstErr
	}
	return modules, nil
}
