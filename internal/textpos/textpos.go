// Package textpos translates between byte offsets and 1-based line /
// 0-based column coordinates of a source string.
package textpos

import "strings"

// lines splits text into lines keeping the trailing newline of each, with no
// phantom empty final element when text ends in a newline.
func lines(text string) []string {
	if text == "" {
		return nil
	}
	parts := strings.SplitAfter(text, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// LineAt returns the 1-based line number containing offset. An offset past
// the end of text maps to the last line; empty text maps to line 1.
func LineAt(text string, offset int) int {
	ls := lines(text)
	if len(ls) == 0 {
		return 1
	}
	idx := 0
	for i, line := range ls {
		idx += len(line)
		if idx >= offset {
			return i + 1
		}
	}
	return len(ls)
}

// ScopeLine returns the line governing a query at offset: the line containing
// the offset, walked backward over empty or whitespace-only lines to the
// nearest preceding non-blank line. Returns 0 when no such line exists, so a
// query into leading blank text resolves against nothing.
func ScopeLine(text string, offset int) int {
	lineno := LineAt(text, offset)
	ls := lines(text)
	if lineno > len(ls) {
		lineno = len(ls)
	}
	ls = ls[:lineno]
	for len(ls) > 0 && strings.TrimSpace(ls[len(ls)-1]) == "" {
		ls = ls[:len(ls)-1]
	}
	return len(ls)
}

// Index returns the byte offset of (line, col): the summed lengths of all
// prior lines plus col. Inverse of LineAt plus column extraction.
func Index(text string, line, col int) int {
	idx := 0
	for i, l := range lines(text) {
		if i >= line-1 {
			break
		}
		idx += len(l)
	}
	return idx + col
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

// WordAt returns the identifier containing offset, or "" when offset is out
// of bounds or rests on a non-identifier byte. Identifier bytes are ASCII
// letters, digits, and underscore.
func WordAt(text string, offset int) string {
	if offset < 0 || offset >= len(text) {
		return ""
	}
	if !isWordByte(text[offset]) {
		return ""
	}
	anchor := 0
	for i := offset; i >= 0; i-- {
		if !isWordByte(text[i]) {
			anchor = i + 1
			break
		}
	}
	bound := len(text)
	for i := offset; i < len(text); i++ {
		if !isWordByte(text[i]) {
			bound = i
			break
		}
	}
	return text[anchor:bound]
}
