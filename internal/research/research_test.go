package research_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mjsalimin/postyar/internal/research"
	"github.com/mjsalimin/postyar/internal/search"
)

// fakeSearcher returns scripted results per engine name and fails all
// page fetches unless a body is provided.
type fakeSearcher struct {
	results map[string][]search.Result
	page    string
	queries []string
}

func (f *fakeSearcher) Search(_ context.Context, engine search.Engine, query string) []search.Result {
	f.queries = append(f.queries, engine.Name()+"|"+query)
	return f.results[engine.Name()]
}

func (f *fakeSearcher) Fetch(_ context.Context, _ string) (string, error) {
	if f.page == "" {
		return "", errors.New("fetch disabled")
	}
	return f.page, nil
}

type namedEngine struct {
	search.DuckDuckGo
	name string
}

func (e namedEngine) Name() string { return e.name }

func TestResearchEngineFallback(t *testing.T) {
	t.Parallel()

	engineA := namedEngine{name: "a"}
	engineB := namedEngine{name: "b"}

	searcher := &fakeSearcher{
		results: map[string][]search.Result{
			"a": nil,
			"b": {
				{Title: "One", Snippet: "first snippet", URL: "https://e.com/1"},
				{Title: "Two", Snippet: "second snippet", URL: "https://e.com/2"},
				{Title: "Three", Snippet: "third snippet", URL: "https://e.com/3"},
			},
		},
	}

	agg := research.NewAggregator(searcher, []search.Engine{engineA, engineB}, nil)
	bundle := agg.Research(context.Background(), "هوش مصنوعی")

	if len(bundle.Sources) < 3 {
		t.Fatalf("expected at least 3 sources, got %d", len(bundle.Sources))
	}
	for i, want := range []string{"https://e.com/1", "https://e.com/2", "https://e.com/3"} {
		if bundle.Sources[i].URL != want {
			t.Errorf("source %d = %q, want %q (order must follow engine output)", i, bundle.Sources[i].URL, want)
		}
	}
	for _, snippet := range []string{"first snippet", "second snippet", "third snippet"} {
		if !strings.Contains(bundle.Text, snippet) {
			t.Errorf("combined text missing snippet %q", snippet)
		}
	}
}

func TestResearchTemplateFallback(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{results: map[string][]search.Result{}}
	agg := research.NewAggregator(searcher, []search.Engine{namedEngine{name: "a"}}, nil)

	bundle := agg.Research(context.Background(), "فروش آنلاین")
	if bundle.Text == "" {
		t.Fatal("bundle text must never be empty")
	}
	if !strings.Contains(bundle.Text, "فروش آنلاین") {
		t.Errorf("template research must mention the topic, got %q", bundle.Text)
	}
	if len(bundle.Sources) != 0 {
		t.Errorf("expected no sources, got %d", len(bundle.Sources))
	}
}

func TestResearchSkipsEmptySnippets(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{
		results: map[string][]search.Result{
			"a": {
				{Title: "Empty", Snippet: "", URL: "https://e.com/empty"},
				{Title: "Full", Snippet: "useful text", URL: "https://e.com/full"},
			},
		},
	}
	agg := research.NewAggregator(searcher, []search.Engine{namedEngine{name: "a"}}, nil)

	bundle := agg.Research(context.Background(), "topic")
	if strings.Contains(bundle.Text, "Empty:") {
		t.Error("snippet-less results must not appear in the research text")
	}
	for _, s := range bundle.Sources {
		if s.URL == "https://e.com/empty" {
			t.Error("snippet-less results must not contribute sources")
		}
	}
}
