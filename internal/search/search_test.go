package search_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mjsalimin/postyar/internal/search"
)

const ddgFixture = `<html><body>
<div class="result results_links">
  <a class="result__a" href="https://example.com/ai">Artificial Intelligence</a>
  <a class="result__snippet" href="https://example.com/ai">AI is   the simulation of human&nbsp;intelligence.</a>
</div>
<div class="result results_links">
  <a class="result__a" href="//mirror.example.com/ml">Machine Learning</a>
  <a class="result__snippet" href="//mirror.example.com/ml">Snippet two</a>
</div>
<div class="result results_links">
  <a class="result__a" href="/l/?uddg=three">Relative Result</a>
</div>
</body></html>`

const bingFixture = `<html><body><ol>
<li class="b_algo">
  <h2><a href="https://example.org/sales">Sales Management</a></h2>
  <p>Managing a sales team effectively.</p>
</li>
<li class="b_algo">
  <h2><a href="https://example.org/crm">CRM Tools</a></h2>
</li>
</ol></body></html>`

func TestDuckDuckGoParse(t *testing.T) {
	t.Parallel()

	engine := search.NewDuckDuckGo()
	results, err := engine.Parse(strings.NewReader(ddgFixture))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	first := results[0]
	if first.Title != "Artificial Intelligence" {
		t.Errorf("unexpected title: %q", first.Title)
	}
	if first.Snippet != "AI is the simulation of human intelligence." {
		t.Errorf("snippet not normalized: %q", first.Snippet)
	}
	if first.URL != "https://example.com/ai" {
		t.Errorf("unexpected url: %q", first.URL)
	}

	if results[1].URL != "https://mirror.example.com/ml" {
		t.Errorf("protocol-relative url not resolved: %q", results[1].URL)
	}
	if results[2].URL != "https://html.duckduckgo.com/l/?uddg=three" {
		t.Errorf("root-relative url not resolved: %q", results[2].URL)
	}
}

func TestBingParse(t *testing.T) {
	t.Parallel()

	engine := search.NewBing()
	results, err := engine.Parse(strings.NewReader(bingFixture))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Title != "Sales Management" || results[0].Snippet != "Managing a sales team effectively." {
		t.Errorf("unexpected first result: %+v", results[0])
	}
	if results[1].Snippet != "" {
		t.Errorf("expected empty snippet for result without p, got %q", results[1].Snippet)
	}
}

func TestClientSearchSwallowsFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-200 status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
		},
		{
			name: "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "<html><body></body></html>")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := search.NewClient(2*time.Second, nil)
			results := client.Search(context.Background(), serverEngine{srv.URL}, "anything")
			if len(results) != 0 {
				t.Errorf("expected no results, got %d", len(results))
			}
		})
	}
}

func TestClientSearchCapsResults(t *testing.T) {
	t.Parallel()

	var rows strings.Builder
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&rows, `<div class="result"><a class="result__a" href="https://e.com/%d">Title %d</a></div>`, i, i)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "<html><body>%s</body></html>", rows.String())
	}))
	defer srv.Close()

	client := search.NewClient(2*time.Second, nil)
	results := client.Search(context.Background(), serverEngine{srv.URL}, "anything")
	if len(results) != search.MaxResults {
		t.Errorf("expected %d results, got %d", search.MaxResults, len(results))
	}
}

// serverEngine reuses the DuckDuckGo parser against a local server.
type serverEngine struct {
	url string
}

func (s serverEngine) Name() string              { return "local" }
func (s serverEngine) SearchURL(q string) string { return s.url }

func (s serverEngine) Parse(r io.Reader) ([]search.Result, error) {
	return search.NewDuckDuckGo().Parse(r)
}
