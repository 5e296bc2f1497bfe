package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jward/fern"
	"github.com/spf13/cobra"
)

var (
	flagDB    string
	flagForce bool
)

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Index a directory's definitions into SQLite",
	Long:  "Walks a directory tree, extracts function/class/method definitions from every Python file, and writes them to the index database. Unchanged files are skipped by content hash.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIndexCmd,
}

var defsCmd = &cobra.Command{
	Use:   "defs <name>",
	Short: "Search indexed definitions by name",
	Long:  "Looks up definitions in the index database by name. The name may contain SQL LIKE wildcards (% and _).",
	Args:  cobra.ExactArgs(1),
	RunE:  runDefs,
}

func init() {
	indexCmd.Flags().StringVar(&flagDB, "db", "", "database path (default: .fern/index.db under the indexed directory)")
	indexCmd.Flags().BoolVar(&flagForce, "force", false, "delete database and reindex from scratch")
	defsCmd.Flags().StringVar(&flagDB, "db", "", "database path (default: .fern/index.db under the current directory)")
}

// resolveDBPath returns the database location for a target directory.
func resolveDBPath(root string) string {
	if flagDB != "" {
		return flagDB
	}
	return filepath.Join(root, ".fern", "index.db")
}

func runIndexCmd(cmd *cobra.Command, args []string) error {
	start := time.Now()

	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	dbPath := resolveDBPath(root)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return outputError("index", fmt.Errorf("creating %s: %w", filepath.Dir(dbPath), err))
	}
	if flagForce {
		if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
			return outputError("index", fmt.Errorf("removing database for --force: %w", err))
		}
	}

	s, err := fern.OpenStore(dbPath)
	if err != nil {
		return outputError("index", err)
	}
	defer s.Close()

	ix := fern.NewIndexer(s)
	if err := ix.IndexDirectory(context.Background(), root); err != nil {
		return outputError("index", err)
	}

	files, err := s.Files()
	if err != nil {
		return outputError("index", err)
	}
	fmt.Fprintf(os.Stderr, "Indexed %d file(s) in %s (db: %s)\n",
		len(files), time.Since(start).Round(time.Millisecond), dbPath)
	return nil
}

func runDefs(cmd *cobra.Command, args []string) error {
	dbPath := resolveDBPath(".")
	if _, err := os.Stat(dbPath); err != nil {
		return outputError("defs", fmt.Errorf("no index database at %s (run `fern index` first)", dbPath))
	}

	s, err := fern.OpenStore(dbPath)
	if err != nil {
		return outputError("defs", err)
	}
	defer s.Close()

	hits, err := s.SearchDefinitions(args[0])
	if err != nil {
		return outputError("defs", err)
	}

	items := make([]cliDefinition, 0, len(hits))
	for _, h := range hits {
		items = append(items, cliDefinition{
			Name:      h.Name,
			Title:     h.Title,
			Kind:      h.Kind,
			File:      h.Path,
			StartLine: h.StartLine,
			LineCount: h.LineCount,
			Doc:       h.Doc,
		})
	}
	return outputResult(cliResult{Command: "defs", Count: len(items), Definitions: items})
}
