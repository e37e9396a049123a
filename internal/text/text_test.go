package text_test

import (
	"strings"
	"testing"

	"github.com/mjsalimin/postyar/internal/text"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "simple text",
			input:    "hello world",
			expected: "hello world",
		},
		{
			name:     "multiple spaces collapsed",
			input:    "hello   world",
			expected: "hello world",
		},
		{
			name:     "tabs and newlines collapsed",
			input:    "hello\t\nworld",
			expected: "hello world",
		},
		{
			name:     "leading and trailing whitespace trimmed",
			input:    "  hello world  ",
			expected: "hello world",
		},
		{
			name:     "non-breaking space entity",
			input:    "hello&nbsp;world",
			expected: "hello world",
		},
		{
			name:     "ampersand entity",
			input:    "tips &amp; tricks",
			expected: "tips & tricks",
		},
		{
			name:     "angle bracket entities",
			input:    "&lt;b&gt;bold&lt;/b&gt;",
			expected: "<b>bold</b>",
		},
		{
			name:     "persian text preserved",
			input:    "  هوش   مصنوعی  ",
			expected: "هوش مصنوعی",
		},
		{
			name:     "only whitespace",
			input:    " \t\n\r ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := text.Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		limit    int
		expected string
	}{
		{name: "shorter than limit", input: "abc", limit: 10, expected: "abc"},
		{name: "exactly at limit", input: "abcde", limit: 5, expected: "abcde"},
		{name: "over limit gets ellipsis", input: "abcdef", limit: 3, expected: "abc..."},
		{name: "zero limit", input: "abc", limit: 0, expected: ""},
		{name: "persian runes counted not bytes", input: "سلام دنیا", limit: 4, expected: "سلام..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := text.Truncate(tt.input, tt.limit); got != tt.expected {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.limit, got, tt.expected)
			}
		})
	}
}

func TestSplitMessage(t *testing.T) {
	t.Parallel()

	t.Run("empty input yields no chunks", func(t *testing.T) {
		t.Parallel()
		if got := text.SplitMessage("", 100); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})

	t.Run("short input yields one chunk", func(t *testing.T) {
		t.Parallel()
		got := text.SplitMessage("hello", 100)
		if len(got) != 1 || got[0] != "hello" {
			t.Errorf("expected [hello], got %v", got)
		}
	})

	t.Run("long input is chunked at limit", func(t *testing.T) {
		t.Parallel()
		got := text.SplitMessage(strings.Repeat("a", 250), 100)
		if len(got) != 3 {
			t.Fatalf("expected 3 chunks, got %d", len(got))
		}
		if len(got[0]) != 100 || len(got[1]) != 100 || len(got[2]) != 50 {
			t.Errorf("unexpected chunk sizes: %d, %d, %d", len(got[0]), len(got[1]), len(got[2]))
		}
	})

	t.Run("chunks capped at three", func(t *testing.T) {
		t.Parallel()
		got := text.SplitMessage(strings.Repeat("a", 1000), 100)
		if len(got) != 3 {
			t.Errorf("expected cap of 3 chunks, got %d", len(got))
		}
	})
}
