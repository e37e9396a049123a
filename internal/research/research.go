// Package research orchestrates the search engines and encyclopedia
// scraping into a single research blob per topic. Individual source
// failures are logged and skipped; the aggregate never fails outright.
package research

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"

	"github.com/mjsalimin/postyar/internal/search"
	"github.com/mjsalimin/postyar/internal/text"
)

const (
	// minArticleLength is the floor below which an encyclopedia page is
	// considered empty and the next locale is tried.
	minArticleLength = 100

	// maxArticleLength bounds how much encyclopedia text joins the blob.
	maxArticleLength = 800

	maxSnippetsPerEngine  = 5
	maxLinkedInSnippets   = 5
	linkedInPerEngineHits = 3

	searchHeader   = "نتایج جستجو:"
	linkedInHeader = "محتوای لینکدین:"
	wikiHeader     = "محتوای ویکی‌پدیا:"
)

// wikipediaLocales is the fallback order for encyclopedia lookups.
var wikipediaLocales = []string{"fa", "en"}

// Source is one attributed origin of research text.
type Source struct {
	Title string
	URL   string
}

// Bundle is the transient product of one research run.
type Bundle struct {
	Text    string
	Sources []Source
}

// Searcher is the slice of the search client the aggregator needs.
type Searcher interface {
	Search(ctx context.Context, engine search.Engine, query string) []search.Result
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// Aggregator combines engines, LinkedIn lookups, and Wikipedia pages
// into a Bundle, with a canned paragraph as the last resort.
type Aggregator struct {
	client  Searcher
	engines []search.Engine
	logger  *slog.Logger
}

// NewAggregator creates an aggregator. Engines are tried in order; the
// first engine yielding usable snippets wins.
func NewAggregator(client Searcher, engines []search.Engine, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		client:  client,
		engines: engines,
		logger:  logger.With("component", "research_aggregator"),
	}
}

// Research gathers text and sources for a topic. It always returns a
// non-empty Bundle: if every external source fails, the text is a fixed
// template built from the topic alone.
func (a *Aggregator) Research(ctx context.Context, topic string) *Bundle {
	a.logger.InfoContext(ctx, "Starting research", "topic", topic)

	var parts []string
	var sources []Source

	if block, srcs := a.searchWithFallback(ctx, topic); block != "" {
		parts = append(parts, searchHeader+"\n"+block)
		sources = append(sources, srcs...)
	}

	if block := a.searchLinkedIn(ctx, topic); block != "" {
		parts = append(parts, linkedInHeader+"\n"+block)
	}

	if block, src := a.fetchWikipedia(ctx, topic); block != "" {
		parts = append(parts, wikiHeader+"\n"+block)
		sources = append(sources, src)
	}

	if len(parts) == 0 {
		a.logger.WarnContext(ctx, "No external content found, using template research", "topic", topic)
		parts = append(parts, templateResearch(topic))
	}

	combined := strings.Join(parts, "\n\n")
	a.logger.InfoContext(ctx, "Research completed", "topic", topic, "length", len(combined), "sources", len(sources))
	return &Bundle{Text: combined, Sources: sources}
}

// searchWithFallback tries each engine in order and keeps the first one
// that produces at least one non-empty snippet.
func (a *Aggregator) searchWithFallback(ctx context.Context, topic string) (string, []Source) {
	for _, engine := range a.engines {
		results := a.client.Search(ctx, engine, topic)

		var lines []string
		var sources []Source
		for _, r := range results {
			if r.Snippet == "" {
				continue
			}
			lines = append(lines, fmt.Sprintf("• %s: %s", r.Title, r.Snippet))
			if r.URL != "" {
				sources = append(sources, Source{Title: r.Title, URL: r.URL})
			}
			if len(lines) >= maxSnippetsPerEngine {
				break
			}
		}

		if len(lines) > 0 {
			a.logger.DebugContext(ctx, "Engine produced snippets", "engine", engine.Name(), "count", len(lines))
			return strings.Join(lines, "\n"), sources
		}
		a.logger.DebugContext(ctx, "Engine produced no usable snippets, trying next", "engine", engine.Name())
	}
	return "", nil
}

// searchLinkedIn runs a site-scoped query through the same engine
// fallback order and collects distinct snippets.
func (a *Aggregator) searchLinkedIn(ctx context.Context, topic string) string {
	query := "site:linkedin.com " + topic

	var snippets []string
	seen := make(map[string]bool)
	for _, engine := range a.engines {
		taken := 0
		for _, r := range a.client.Search(ctx, engine, query) {
			if r.Snippet == "" || seen[r.Snippet] {
				continue
			}
			seen[r.Snippet] = true
			snippets = append(snippets, r.Snippet)
			taken++
			if taken >= linkedInPerEngineHits || len(snippets) >= maxLinkedInSnippets {
				break
			}
		}
		// The second engine only runs when the first came up short.
		if len(snippets) >= 2 {
			break
		}
	}

	return strings.Join(snippets, "\n")
}

// fetchWikipedia fetches one article per locale and keeps the first
// whose extracted body is long enough to be meaningful.
func (a *Aggregator) fetchWikipedia(ctx context.Context, topic string) (string, Source) {
	for _, locale := range wikipediaLocales {
		pageURL := fmt.Sprintf("https://%s.wikipedia.org/wiki/%s", locale, url.PathEscape(topic))

		page, err := a.client.Fetch(ctx, pageURL)
		if err != nil {
			a.logger.DebugContext(ctx, "Wikipedia fetch failed", "locale", locale, "error", err)
			continue
		}

		parsed, err := url.Parse(pageURL)
		if err != nil {
			continue
		}
		article, err := readability.FromReader(strings.NewReader(page), parsed)
		if err != nil {
			a.logger.DebugContext(ctx, "Wikipedia extraction failed", "locale", locale, "error", err)
			continue
		}

		body := text.Normalize(article.TextContent)
		if len(body) < minArticleLength {
			continue
		}

		return text.Truncate(body, maxArticleLength), Source{Title: "Wikipedia", URL: pageURL}
	}
	return "", Source{}
}

// templateResearch is the canned paragraph used when every external
// source fails; the pipeline must never stall on total network failure.
func templateResearch(topic string) string {
	return fmt.Sprintf(`موضوع تحقیق: %s

این موضوع در حوزه‌های مختلف کاربرد دارد و می‌تواند شامل جنبه‌های زیر باشد:
• مفاهیم کلیدی و تعاریف اساسی
• کاربردهای عملی در صنعت
• روش‌ها و تکنیک‌های مرتبط
• فواید و چالش‌های موجود
• آینده و روندهای پیش‌رو

برای دریافت اطلاعات دقیق‌تر، توصیه می‌شود به منابع معتبر مراجعه شود.`, topic)
}
