package textpos

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sample = "first = 1\n\nsecond = 2\n   \nthird = 3\n"

func TestLineAt(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		offset int
		want   int
	}{
		{"empty text", "", 0, 1},
		{"start of text", sample, 0, 1},
		{"middle of first line", sample, 5, 1},
		{"start of third line", sample, 12, 3},
		{"offset past end", sample, 1000, 5},
		{"single line no newline", "abc", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LineAt(tt.text, tt.offset))
		})
	}
}

func TestScopeLine_BacktracksBlankLines(t *testing.T) {
	// Offset on the blank line 2 resolves to line 1.
	assert.Equal(t, 1, ScopeLine(sample, 10))
	// Offset on the whitespace-only line 4 resolves to line 3.
	assert.Equal(t, 3, ScopeLine(sample, 23))
	// Offset on a real statement stays on its line.
	assert.Equal(t, 3, ScopeLine(sample, 12))
}

func TestScopeLine_AllBlank(t *testing.T) {
	assert.Equal(t, 0, ScopeLine("\n  \n\n", 3))
	assert.Equal(t, 0, ScopeLine("", 0))
}

func TestIndex_InvertsLineAt(t *testing.T) {
	// Line 3 starts at offset 11; column 9 lands on "2".
	idx := Index(sample, 3, 9)
	assert.Equal(t, 20, idx)
	assert.Equal(t, byte('2'), sample[idx])
	assert.Equal(t, 3, LineAt(sample, idx))

	assert.Equal(t, 0, Index(sample, 1, 0))
}

func TestWordAt(t *testing.T) {
	text := "alpha = beta_2 + 1"
	tests := []struct {
		name   string
		offset int
		want   string
	}{
		{"start of word", 0, "alpha"},
		{"middle of word", 2, "alpha"},
		{"word with underscore and digit", 10, "beta_2"},
		{"on whitespace", 5, ""},
		{"on operator", 6, ""},
		{"negative offset", -1, ""},
		{"past end", len(text), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WordAt(text, tt.offset))
		})
	}
}
