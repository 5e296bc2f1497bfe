package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
)

// cliResult is the output envelope shared by every subcommand. Exactly one
// of the payload fields is populated.
type cliResult struct {
	Command string `json:"command"`
	Count   int    `json:"count"`
	Error   string `json:"error,omitempty"`

	Variables   []cliVariable   `json:"variables,omitempty"`
	Occurrences []cliOccurrence `json:"occurrences,omitempty"`
	Navigation  []cliNavItem    `json:"navigation,omitempty"`
	Spans       []cliSpan       `json:"spans,omitempty"`
	Modules     []cliModule     `json:"modules,omitempty"`
	Definitions []cliDefinition `json:"definitions,omitempty"`
	Text        string          `json:"text,omitempty"`
}

type cliVariable struct {
	Name     string `json:"name"`
	Position int    `json:"position"` // -1 for builtins
}

type cliOccurrence struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
}

type cliNavItem struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	StartLine int    `json:"start_line"`
	LineCount int    `json:"line_count"`
}

type cliSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type cliModule struct {
	Name    string   `json:"name"`
	Exports []string `json:"exports"`
}

type cliDefinition struct {
	Name      string `json:"name"`
	Title     string `json:"title"`
	Kind      string `json:"kind"`
	File      string `json:"file"`
	StartLine int    `json:"start_line"`
	LineCount int    `json:"line_count"`
	Doc       string `json:"doc,omitempty"`
}

// outputResult writes a cliResult to stdout in the selected format.
func outputResult(result cliResult) error {
	if flagFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	outputResultText(os.Stdout, result)
	return nil
}

// outputError writes an error in the selected format and returns it so RunE
// can propagate it to Cobra.
func outputError(command string, err error) error {
	errorHandled = true
	if flagFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(cliResult{Command: command, Error: err.Error()})
		return err
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	return err
}

func outputResultText(w io.Writer, result cliResult) {
	switch {
	case result.Text != "":
		fmt.Fprint(w, result.Text)
	case result.Variables != nil:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tPOSITION")
		for _, v := range result.Variables {
			pos := fmt.Sprintf("%d", v.Position)
			if v.Position < 0 {
				pos = "builtin"
			}
			fmt.Fprintf(tw, "%s\t%s\n", v.Name, pos)
		}
		tw.Flush()
	case result.Occurrences != nil:
		for _, o := range result.Occurrences {
			fmt.Fprintf(w, "%d+%d\n", o.Offset, o.Length)
		}
	case result.Navigation != nil:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "LINES\tKIND\tNAME")
		for _, n := range result.Navigation {
			fmt.Fprintf(tw, "%d-%d\t%s\t%s\n",
				n.StartLine, n.StartLine+n.LineCount-1, n.Kind, n.Name)
		}
		tw.Flush()
	case result.Spans != nil:
		for _, s := range result.Spans {
			fmt.Fprintf(w, "%d-%d\n", s.Start, s.End)
		}
	case result.Modules != nil:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "MODULE\tEXPORTS")
		for _, m := range result.Modules {
			fmt.Fprintf(tw, "%s\t%s\n", m.Name, strings.Join(m.Exports, ", "))
		}
		tw.Flush()
	case result.Definitions != nil:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tKIND\tFILE\tLINES")
		for _, d := range result.Definitions {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d-%d\n",
				d.Name, d.Kind, d.File, d.StartLine, d.StartLine+d.LineCount-1)
		}
		tw.Flush()
	}
}
