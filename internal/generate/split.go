package generate

import (
	"strings"
	"unicode/utf8"
)

// minPostLength is the floor below which a split segment is discarded.
const minPostLength = 50

// paragraphSplitThreshold is the minimum paragraph count for the
// paragraph-midpoint fallback; fewer paragraphs split on word count.
const paragraphSplitThreshold = 4

// SplitPosts divides one generated text block into posts, preferring:
// the explicit post markers, then the legacy dashed markers, then the
// paragraph midpoint, then the word-count midpoint. Segments under
// minPostLength are dropped; when nothing survives, the raw content is
// wrapped so the caller always receives at least one non-empty post.
func SplitPosts(content string) []string {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	posts := splitOnMarkers(content)
	if posts == nil {
		posts = splitOnMidpoint(content)
	}

	var valid []string
	for _, p := range posts {
		if p = strings.TrimSpace(p); utf8.RuneCountInString(p) >= minPostLength {
			valid = append(valid, p)
		}
	}

	if len(valid) == 0 {
		return []string{"📚 " + content + "\n\n" + closingLine}
	}
	return valid
}

func splitOnMarkers(content string) []string {
	type markerPair struct{ first, second string }
	for _, m := range []markerPair{
		{PostOneMarker, PostTwoMarker},
		{legacyPostOneMarker, legacyPostTwoMarker},
	} {
		if !strings.Contains(content, m.second) {
			continue
		}
		parts := strings.SplitN(content, m.second, 2)
		if len(parts) != 2 {
			continue
		}
		first := strings.TrimSpace(strings.ReplaceAll(parts[0], m.first, ""))
		second := strings.TrimSpace(parts[1])
		return []string{first, second}
	}
	return nil
}

func splitOnMidpoint(content string) []string {
	var paragraphs []string
	for _, p := range strings.Split(content, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	if len(paragraphs) >= paragraphSplitThreshold {
		mid := len(paragraphs) / 2
		return []string{
			strings.Join(paragraphs[:mid], "\n\n"),
			strings.Join(paragraphs[mid:], "\n\n"),
		}
	}

	words := strings.Fields(content)
	mid := len(words) / 2
	return []string{
		strings.Join(words[:mid], " "),
		strings.Join(words[mid:], " "),
	}
}
