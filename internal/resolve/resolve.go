// Package resolve maps imported module names to their exported names.
//
// The default SourceResolver enumerates top-level definitions of modules it
// can find as source on a search path. Compiled or native modules cannot be
// enumerated that way; hosts plug a NativeLoader in for those. A module no
// strategy can resolve is a lookup failure.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jward/fern/internal/outline"
	"github.com/jward/fern/internal/parser"
)

// ErrNotFound reports that no resolution strategy located a module.
var ErrNotFound = errors.New("module not found")

// Resolver resolves a dotted module name to its exported names. Resolution
// may touch the filesystem or a host runtime and should be treated as
// blocking.
type Resolver interface {
	Resolve(ctx context.Context, name string) ([]string, error)
}

// NativeLoader introspects a compiled or native module for its attribute
// names. Host-specific; the library ships no implementation.
type NativeLoader interface {
	Attributes(ctx context.Context, name string) ([]string, error)
}

// SourceResolver resolves modules by locating their source on a search path
// and enumerating top-level function and class names. When the source cannot
// be found and a Loader is configured, the loader is consulted before giving
// up.
type SourceResolver struct {
	SearchPath []string
	Loader     NativeLoader

	parser *parser.Python
}

// NewSourceResolver returns a SourceResolver over the given directories.
// loader may be nil.
func NewSourceResolver(searchPath []string, loader NativeLoader) *SourceResolver {
	return &SourceResolver{
		SearchPath: searchPath,
		Loader:     loader,
		parser:     parser.NewPython(),
	}
}

// Resolve returns the sorted exported names of the named module.
func (r *SourceResolver) Resolve(ctx context.Context, name string) ([]string, error) {
	if path, ok := r.locate(name); ok {
		return r.exports(path)
	}
	if r.Loader != nil {
		attrs, err := r.Loader.Attributes(ctx, name)
		if err == nil {
			sort.Strings(attrs)
			return attrs, nil
		}
	}
	return nil, fmt.Errorf("resolve %q: %w", name, ErrNotFound)
}

// locate probes each search directory for the dotted name, as a module file
// first, then as a package directory.
func (r *SourceResolver) locate(name string) (string, bool) {
	rel := filepath.Join(strings.Split(name, ".")...)
	for _, dir := range r.SearchPath {
		file := filepath.Join(dir, rel+".py")
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			return file, true
		}
		pkg := filepath.Join(dir, rel, "__init__.py")
		if info, err := os.Stat(pkg); err == nil && !info.IsDir() {
			return pkg, true
		}
	}
	return "", false
}

// exports parses the module source and returns its top-level function and
// class names, sorted and deduplicated.
func (r *SourceResolver) exports(path string) ([]string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("resolve: read %s: %w", path, err)
	}
	tree, err := r.parser.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("resolve: parse %s: %w", path, err)
	}

	seen := make(map[string]bool)
	var names []string
	for _, def := range outline.Extract(tree, string(src)) {
		if def.Kind == outline.Method || seen[def.Name] {
			continue
		}
		seen[def.Name] = true
		names = append(names, def.Name)
	}
	sort.Strings(names)
	return names, nil
}
