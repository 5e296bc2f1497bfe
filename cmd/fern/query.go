package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jward/fern"
	"github.com/spf13/cobra"
)

// loadEngine reads a Python file and commits it to a fresh engine.
func loadEngine(path string) (*fern.Engine, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	e := fern.New(fern.WithResolver(buildResolver(path)))
	if err := e.SetSource(string(src)); err != nil {
		return nil, err
	}
	return e, nil
}

// buildResolver returns a source resolver searching the file's own
// directory plus any --path entries.
func buildResolver(file string) fern.Resolver {
	dirs := []string{dirOf(file)}
	if flagSearchPath != "" {
		dirs = append(dirs, strings.Split(flagSearchPath, string(os.PathListSeparator))...)
	}
	return fern.NewSourceResolver(dirs, nil)
}

func dirOf(path string) string {
	if i := strings.LastIndexByte(path, os.PathSeparator); i >= 0 {
		return path[:i]
	}
	return "."
}

var varsCmd = &cobra.Command{
	Use:   "vars <file>",
	Short: "List identifiers visible at an offset",
	Args:  cobra.ExactArgs(1),
	RunE:  runVars,
}

var refsCmd = &cobra.Command{
	Use:   "refs <file>",
	Short: "List occurrences of the identifier at an offset",
	Args:  cobra.ExactArgs(1),
	RunE:  runRefs,
}

var docCmd = &cobra.Command{
	Use:   "doc <file>",
	Short: "Print function and class documentation",
	Args:  cobra.ExactArgs(1),
	RunE:  runDoc,
}

var navCmd = &cobra.Command{
	Use:   "nav <file>",
	Short: "List navigable definitions with line ranges",
	Args:  cobra.ExactArgs(1),
	RunE:  runNav,
}

var foldsCmd = &cobra.Command{
	Use:   "folds <file>",
	Short: "List fold ranges of compound statements",
	Args:  cobra.ExactArgs(1),
	RunE:  runFolds,
}

var modsCmd = &cobra.Command{
	Use:   "mods <file>",
	Short: "Resolve imports to exported names",
	Args:  cobra.ExactArgs(1),
	RunE:  runMods,
}

var flagSearchPath string

func init() {
	varsCmd.Flags().IntVar(&flagOffset, "offset", 0, "byte offset of the query point")
	refsCmd.Flags().IntVar(&flagOffset, "offset", 0, "byte offset of the query point")
	modsCmd.Flags().StringVar(&flagSearchPath, "path", "", "module search path (OS path-list separated)")
}

func runVars(cmd *cobra.Command, args []string) error {
	e, err := loadEngine(args[0])
	if err != nil {
		return outputError("vars", err)
	}
	vars := e.Variables(flagOffset)

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	items := make([]cliVariable, 0, len(names))
	for _, name := range names {
		items = append(items, cliVariable{Name: name, Position: vars[name]})
	}
	return outputResult(cliResult{Command: "vars", Count: len(items), Variables: items})
}

func runRefs(cmd *cobra.Command, args []string) error {
	e, err := loadEngine(args[0])
	if err != nil {
		return outputError("refs", err)
	}
	occs := e.VariableIndices(flagOffset)
	items := make([]cliOccurrence, 0, len(occs))
	for _, o := range occs {
		items = append(items, cliOccurrence{Offset: o.Offset, Length: o.Length})
	}
	return outputResult(cliResult{Command: "refs", Count: len(items), Occurrences: items})
}

func runDoc(cmd *cobra.Command, args []string) error {
	e, err := loadEngine(args[0])
	if err != nil {
		return outputError("doc", err)
	}
	return outputResult(cliResult{Command: "doc", Count: 1, Text: e.Documentation()})
}

func runNav(cmd *cobra.Command, args []string) error {
	e, err := loadEngine(args[0])
	if err != nil {
		return outputError("nav", err)
	}
	nav := e.Navigation()
	items := make([]cliNavItem, 0, len(nav))
	for r, item := range nav {
		items = append(items, cliNavItem{
			Name:      item.Name,
			Kind:      item.Kind.String(),
			StartLine: r.Start,
			LineCount: r.Count,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].StartLine < items[j].StartLine })
	return outputResult(cliResult{Command: "nav", Count: len(items), Navigation: items})
}

func runFolds(cmd *cobra.Command, args []string) error {
	e, err := loadEngine(args[0])
	if err != nil {
		return outputError("folds", err)
	}
	spans := e.NestableLines()
	items := make([]cliSpan, 0, len(spans))
	for _, s := range spans {
		items = append(items, cliSpan{Start: s.Start, End: s.End})
	}
	return outputResult(cliResult{Command: "folds", Count: len(items), Spans: items})
}

func runMods(cmd *cobra.Command, args []string) error {
	e, err := loadEngine(args[0])
	if err != nil {
		return outputError("mods", err)
	}
	mods, err := e.Modules(context.Background())
	if err != nil {
		return outputError("mods", err)
	}
	names := make([]string, 0, len(mods))
	for name := range mods {
		names = append(names, name)
	}
	sort.Strings(names)
	items := make([]cliModule, 0, len(names))
	for _, name := range names {
		items = append(items, cliModule{Name: name, Exports: mods[name]})
	}
	return outputResult(cliResult{Command: "mods", Count: len(items), Modules: items})
}
