// Package fern provides scope-aware symbol resolution and structural
// navigation over Python source text, built on tree-sitter. Given a byte
// offset into a file, it answers which identifiers are visible there, where
// an identifier is bound and used within its governing scope, and what
// outline (definitions, documentation, fold ranges) the file exposes.
//
// # Model
//
// An [Engine] holds one (source, tree) pair. [Engine.SetSource] parses the
// new text first and commits both atomically only on success, so a failed
// parse leaves the previous state intact. Every query is a pure function of
// the committed pair; nothing is cached between calls.
//
// Scoping is lexical and computed purely by tree traversal: nested function
// and class bodies are opaque from the outside (only the definition's name
// is visible), parameters become visible inside the body but not on the
// signature line itself, and redefinition picks the most recent binding.
//
// # Usage
//
//	e := fern.New()
//	if err := e.SetSource(src); err != nil { ... }
//
//	vars := e.Variables(120)          // visible names -> binding offset
//	occs := e.VariableIndices(120)    // occurrences of the name under the cursor
//	doc := e.Documentation()          // "Functions" / "Classes" sections
//	nav := e.Navigation()             // line ranges -> navigation items
//	folds := e.NestableLines()        // fold ranges
//	mods, err := e.Modules(ctx)       // imports -> exported names
//
// # Collaborators
//
// The tree provider and the module resolver are pluggable. The default
// provider parses Python with tree-sitter and fails fast on invalid source;
// the default resolver enumerates top-level definitions of modules found on
// a search path and defers compiled modules to an optional host
// [NativeLoader]. See [WithParser] and [WithResolver].
//
// # Indexing
//
// Separately from the engine, [Indexer] walks a directory tree, extracts
// definitions from every Python file, and persists them to SQLite for
// project-wide name lookup. The engine's queries never read that database.
package fern
