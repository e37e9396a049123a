package search

import (
	"fmt"
	"io"
	"net/url"

	"golang.org/x/net/html"

	"github.com/mjsalimin/postyar/internal/text"
)

const duckDuckGoBase = "https://html.duckduckgo.com"

// DuckDuckGo scrapes the HTML (no-JS) DuckDuckGo endpoint. Result rows
// are div.result, with a.result__a carrying title and href and
// a.result__snippet carrying the snippet.
type DuckDuckGo struct{}

// NewDuckDuckGo returns the DuckDuckGo engine adapter.
func NewDuckDuckGo() DuckDuckGo { return DuckDuckGo{} }

// Name implements Engine.
func (DuckDuckGo) Name() string { return "duckduckgo" }

// SearchURL implements Engine.
func (DuckDuckGo) SearchURL(query string) string {
	return fmt.Sprintf("%s/html/?q=%s", duckDuckGoBase, url.QueryEscape(query))
}

// Parse implements Engine.
func (DuckDuckGo) Parse(r io.Reader) ([]Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse duckduckgo html: %w", err)
	}

	var results []Result
	for _, row := range findAll(doc, "div", "result") {
		link := findFirst(row, "a", "result__a")
		if link == nil {
			continue
		}
		title := text.Normalize(nodeText(link))
		if title == "" {
			continue
		}

		snippet := ""
		if sn := findFirst(row, "a", "result__snippet"); sn != nil {
			snippet = text.Normalize(nodeText(sn))
		}

		results = append(results, Result{
			Title:   title,
			Snippet: snippet,
			URL:     absoluteURL(attrValue(link, "href"), duckDuckGoBase),
		})
	}
	return results, nil
}
