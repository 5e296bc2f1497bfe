package store

import "time"

// File is one indexed source file.
type File struct {
	ID          int64
	Path        string
	Hash        string
	LineCount   int
	LastIndexed time.Time
}

// Definition is one extracted function, class, or method definition.
type Definition struct {
	ID        int64
	FileID    int64
	Name      string
	Title     string
	Kind      string
	StartLine int
	LineCount int
	Doc       string
}

// DefinitionHit is a Definition joined with the path of its file, for
// name-search results.
type DefinitionHit struct {
	Definition
	Path string
}
