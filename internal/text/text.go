// Package text provides normalization and chunking helpers for scraped
// fragments and outgoing Telegram messages.
package text

import (
	"regexp"
	"strings"
)

// MaxMessageLength is Telegram's hard limit for a single text message.
const MaxMessageLength = 4096

// maxChunksPerPost caps how many Telegram messages a single post may span.
const maxChunksPerPost = 3

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)

	entityReplacer = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	)
)

// Normalize collapses runs of whitespace into single spaces, decodes the
// HTML entities that survive scraping, and trims the result.
func Normalize(s string) string {
	s = entityReplacer.Replace(s)
	s = whitespaceRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Truncate cuts s to at most limit runes, appending an ellipsis marker
// when anything was removed. A limit <= 0 returns the empty string.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// SplitMessage breaks text into Telegram-sized chunks of at most max
// runes each, capped at three chunks. Longer input is silently dropped,
// matching the delivery cap of the conversation front-end.
func SplitMessage(s string, max int) []string {
	if max <= 0 {
		max = MaxMessageLength
	}
	runes := []rune(s)
	if len(runes) == 0 {
		return nil
	}

	var chunks []string
	for start := 0; start < len(runes) && len(chunks) < maxChunksPerPost; start += max {
		end := start + max
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
