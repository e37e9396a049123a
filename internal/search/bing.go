package search

import (
	"fmt"
	"io"
	"net/url"

	"golang.org/x/net/html"

	"github.com/mjsalimin/postyar/internal/text"
)

const bingBase = "https://www.bing.com"

// Bing scrapes Bing's HTML results. Result rows are li.b_algo; the
// first anchor carries the href, the h2 the title and the first p the
// snippet.
type Bing struct{}

// NewBing returns the Bing engine adapter.
func NewBing() Bing { return Bing{} }

// Name implements Engine.
func (Bing) Name() string { return "bing" }

// SearchURL implements Engine.
func (Bing) SearchURL(query string) string {
	return fmt.Sprintf("%s/search?q=%s", bingBase, url.QueryEscape(query))
}

// Parse implements Engine.
func (Bing) Parse(r io.Reader) ([]Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bing html: %w", err)
	}

	var results []Result
	for _, row := range findAll(doc, "li", "b_algo") {
		link := findFirst(row, "a", "")
		heading := findFirst(row, "h2", "")
		if link == nil || heading == nil {
			continue
		}
		title := text.Normalize(nodeText(heading))
		if title == "" {
			continue
		}

		snippet := ""
		if p := findFirst(row, "p", ""); p != nil {
			snippet = text.Normalize(nodeText(p))
		}

		results = append(results, Result{
			Title:   title,
			Snippet: snippet,
			URL:     absoluteURL(attrValue(link, "href"), bingBase),
		})
	}
	return results, nil
}
