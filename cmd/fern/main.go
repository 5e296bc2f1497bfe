package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	flagFormat string
	flagOffset int
)

// errorHandled is set by outputError so main() doesn't double-print.
var errorHandled bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errorHandled {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "fern",
	Short:         "Scope-aware symbol resolution and navigation for Python source",
	Long:          "Fern parses Python files with tree-sitter and answers scope, occurrence, outline, and import queries; it can also index a directory's definitions into SQLite.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagFormat)
	},
	// No Run — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format: json|text")

	rootCmd.AddCommand(varsCmd)
	rootCmd.AddCommand(refsCmd)
	rootCmd.AddCommand(docCmd)
	rootCmd.AddCommand(navCmd)
	rootCmd.AddCommand(foldsCmd)
	rootCmd.AddCommand(modsCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(defsCmd)
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}
