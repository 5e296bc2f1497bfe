package fern

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/jward/fern/internal/outline"
	"github.com/jward/fern/internal/parser"
	"github.com/jward/fern/internal/store"
)

// Store is the SQLite outline index; public alias of the internal type.
type Store = store.Store

// IndexedFile and IndexedDefinition are the store's row types.
type IndexedFile = store.File
type IndexedDefinition = store.Definition

// DefinitionHit is a definition search result joined with its file path.
type DefinitionHit = store.DefinitionHit

// OpenStore opens (creating and migrating as needed) the outline index
// database at dbPath.
func OpenStore(dbPath string) (*Store, error) {
	s, err := store.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("fern: open store: %w", err)
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("fern: migrate store: %w", err)
	}
	return s, nil
}

// Indexer extracts definitions from Python files and persists them to the
// outline store. It is independent of the Engine: the engine's queries never
// read the index.
type Indexer struct {
	store   *Store
	parser  Parser
	workers int
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithWorkers sets the size of the parse worker pool. Defaults to the number
// of CPUs.
func WithWorkers(n int) IndexerOption {
	return func(ix *Indexer) { ix.workers = n }
}

// WithIndexParser replaces the tree provider used for extraction.
func WithIndexParser(p Parser) IndexerOption {
	return func(ix *Indexer) { ix.parser = p }
}

// NewIndexer returns an Indexer writing to s.
func NewIndexer(s *Store, opts ...IndexerOption) *Indexer {
	ix := &Indexer{
		store:   s,
		parser:  parser.NewPython(),
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(ix)
	}
	if ix.workers < 1 {
		ix.workers = 1
	}
	return ix
}

// workItem holds everything an extraction worker needs.
type workItem struct {
	path    string
	content []byte
	hash    string

	// oldFileID is the file's previous row, 0 when new. Deleted at commit
	// time so a failed extraction leaves the old data in place.
	oldFileID int64
}

// indexResult is one worker's output for a file.
type indexResult struct {
	item workItem
	defs []outline.Definition
	err  error
}

// skipDirs are directory names excluded from indexing walks.
var skipDirs = map[string]bool{
	"__pycache__": true,
}

// IndexDirectory walks root and indexes every Python file, skipping hidden
// directories and __pycache__.
func (ix *Indexer) IndexDirectory(ctx context.Context, root string) error {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || skipDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".py") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("fern: walk directory: %w", err)
	}
	return ix.IndexFiles(ctx, paths)
}

// IndexFiles indexes the given files using a three-phase pipeline:
//
//	Phase A (serial):   read content, hash, skip unchanged files.
//	Phase B (parallel): parse and extract definitions via worker pool.
//	Phase C (serial):   replace each file's rows in the store.
//
// Errors on individual files are collected; processing continues past them.
func (ix *Indexer) IndexFiles(ctx context.Context, paths []string) error {
	// ---- Phase A: serial file preparation ----
	var items []workItem
	for _, path := range paths {
		item, skip, err := ix.prepareFile(path)
		if err != nil {
			return fmt.Errorf("fern: prepare %s: %w", path, err)
		}
		if skip {
			continue
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil
	}

	// ---- Phase B: parallel extraction ----
	workers := min(ix.workers, len(items))
	workCh := make(chan workItem, len(items))
	for _, item := range items {
		workCh <- item
	}
	close(workCh)

	resultCh := make(chan indexResult, len(items))
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range workCh {
				if ctx.Err() != nil {
					resultCh <- indexResult{item: item, err: ctx.Err()}
					continue
				}
				defs, err := ix.extract(item)
				resultCh <- indexResult{item: item, defs: defs, err: err}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	// ---- Phase C: serial commit ----
	var errs []error
	for res := range resultCh {
		if res.err != nil {
			errs = append(errs, fmt.Errorf("extract %s: %w", res.item.path, res.err))
			continue
		}
		if err := ix.commit(res); err != nil {
			errs = append(errs, fmt.Errorf("commit %s: %w", res.item.path, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("fern: indexing had %d error(s): %w", len(errs), errs[0])
	}
	return nil
}

// prepareFile reads and hashes a file and decides whether it needs
// reindexing.
func (ix *Indexer) prepareFile(path string) (workItem, bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return workItem{}, false, fmt.Errorf("read file: %w", err)
	}
	hash := fmt.Sprintf("%x", sha256.Sum256(content))

	existing, err := ix.store.FileByPath(path)
	if err != nil {
		return workItem{}, false, fmt.Errorf("lookup file: %w", err)
	}
	if existing != nil && existing.Hash == hash {
		return workItem{}, true, nil // unchanged
	}

	item := workItem{path: path, content: content, hash: hash}
	if existing != nil {
		item.oldFileID = existing.ID
	}
	return item, false, nil
}

// extract parses one file and returns its definitions.
func (ix *Indexer) extract(item workItem) ([]outline.Definition, error) {
	tree, err := ix.parser.Parse(item.content)
	if err != nil {
		return nil, err
	}
	return outline.Extract(tree, string(item.content)), nil
}

// commit replaces a file's rows with freshly extracted data.
func (ix *Indexer) commit(res indexResult) error {
	if res.item.oldFileID != 0 {
		if err := ix.store.DeleteFile(res.item.oldFileID); err != nil {
			return fmt.Errorf("delete old data: %w", err)
		}
	}

	lineCount := strings.Count(string(res.item.content), "\n") + 1
	fileID, err := ix.store.InsertFile(&store.File{
		Path:        res.item.path,
		Hash:        res.item.hash,
		LineCount:   lineCount,
		LastIndexed: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("insert file: %w", err)
	}

	for _, def := range res.defs {
		_, err := ix.store.InsertDefinition(&store.Definition{
			FileID:    fileID,
			Name:      def.Name,
			Title:     def.Title,
			Kind:      def.Kind.String(),
			StartLine: def.StartLine,
			LineCount: def.LineCount,
			Doc:       def.Doc,
		})
		if err != nil {
			return fmt.Errorf("insert definition: %w", err)
		}
	}
	return nil
}
