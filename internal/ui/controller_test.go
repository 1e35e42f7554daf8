// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/newsdesk/internal/backend"
	"github.com/pdiddy/newsdesk/internal/feedprobe"
	"github.com/pdiddy/newsdesk/internal/render"
	"github.com/pdiddy/newsdesk/internal/sources"
	"github.com/pdiddy/newsdesk/pkg/types"
)

// --- fakes ---

type fakeBackend struct {
	mu sync.Mutex

	articles    []types.Article
	articlesErr error
	patents     []types.Article
	patentsErr  error
	web         []types.Article
	webErr      error
	summary     string
	summaryErr  error

	calls       []string
	lastField   string
	lastQuery   string
	lastLimit   int
	lastSources []types.Source
	lastTitle   string
}

func (f *fakeBackend) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeBackend) SearchArticles(_ context.Context, field, _ string) ([]types.Article, error) {
	f.record("articles")
	f.lastField = field
	return f.articles, f.articlesErr
}

func (f *fakeBackend) SearchPatents(_ context.Context, query string, limit int) ([]types.Article, error) {
	f.record("patents")
	f.lastQuery, f.lastLimit = query, limit
	return f.patents, f.patentsErr
}

func (f *fakeBackend) FetchWebArticles(_ context.Context, list []types.Source) ([]types.Article, error) {
	f.record("web")
	f.lastSources = list
	return f.web, f.webErr
}

func (f *fakeBackend) Summarize(_ context.Context, title, _ string) (string, error) {
	f.record("summarize")
	f.lastTitle = title
	return f.summary, f.summaryErr
}

type fakeProber struct{ err error }

func (p fakeProber) Probe(context.Context, string) (feedprobe.Report, error) {
	return feedprobe.Report{ItemCount: 1}, p.err
}

// --- helpers ---

func testStore(t *testing.T) *sources.Store {
	t.Helper()
	s, err := sources.Open(types.StoreConfig{Path: filepath.Join(t.TempDir(), "newsdesk.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testController(t *testing.T, fb *fakeBackend, opts ...Option) (*Controller, *sources.Store) {
	t.Helper()
	store := testStore(t)
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	return NewController(store, fb, render.Catalog("en"), opts...), store
}

func view(t *testing.T, c *Controller) Page {
	t.Helper()
	p, err := c.View(context.Background())
	require.NoError(t, err)
	return p
}

func papers(titles ...string) []types.Article {
	out := make([]types.Article, len(titles))
	for i, title := range titles {
		out[i] = types.Article{Title: title, Abstract: "abstract of " + title, Source: "arXiv"}
	}
	return out
}

// --- tabs ---

func TestInitialState(t *testing.T) {
	c, _ := testController(t, &fakeBackend{})
	p := view(t, c)

	assert.Equal(t, types.TabArxiv, p.Tab)
	assert.True(t, p.Results.Empty())
	assert.Empty(t, p.Error)
	assert.True(t, p.CanFetch)
	require.Len(t, p.Sources, 4)
	require.Len(t, p.Tabs, 3)
	assert.True(t, p.Tabs[0].Active)
}

func TestSwitchTabClearsResults(t *testing.T) {
	fb := &fakeBackend{articles: papers("a", "b")}
	c, _ := testController(t, fb)
	ctx := context.Background()

	c.SearchArxiv(ctx, "機械学習", "transformer")
	require.Len(t, view(t, c).Results.Cards, 2)

	c.SwitchTab(types.TabPatents)
	p := view(t, c)
	assert.Equal(t, types.TabPatents, p.Tab)
	assert.True(t, p.Results.Empty())
	assert.True(t, p.Tabs[1].Active)
}

// --- searches ---

func TestSearchArxivSuccess(t *testing.T) {
	fb := &fakeBackend{articles: papers("a", "b", "c")}
	c, _ := testController(t, fb)

	c.SearchArxiv(context.Background(), "機械学習", "llm")
	p := view(t, c)

	assert.Equal(t, "機械学習", fb.lastField)
	assert.Equal(t, "Results: 3 articles", p.Results.Header)
	assert.Equal(t, types.KindPaper, p.Results.Kind)
	assert.Empty(t, p.Error)
	assert.Equal(t, "llm", p.Form.Keywords)
	for _, f := range p.Fields {
		if f.Value == "機械学習" {
			assert.True(t, f.Selected)
		}
	}
}

func TestSearchErrorBranches(t *testing.T) {
	m := render.Catalog("en")
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"api error with message", &backend.APIError{Endpoint: backend.PathArticles, Status: 500, Message: "upstream down"}, "upstream down"},
		{"api error without message", &backend.APIError{Endpoint: backend.PathArticles, Status: 502}, m.ErrArticles},
		{"empty with message", &backend.NoResultsError{Endpoint: backend.PathArticles, Message: "try again"}, "try again"},
		{"empty without message", &backend.NoResultsError{Endpoint: backend.PathArticles}, m.NoArticles},
		{"network", errors.New("dial tcp: connection refused"), m.NetworkError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := &fakeBackend{articles: papers("old")}
			c, _ := testController(t, fb)
			ctx := context.Background()

			c.SearchArxiv(ctx, "", "first")
			require.False(t, view(t, c).Results.Empty())

			fb.articles, fb.articlesErr = nil, tt.err
			c.SearchArxiv(ctx, "", "second")
			p := view(t, c)

			assert.Equal(t, m.WarningPrefix+tt.want, p.Error)
			assert.True(t, p.Results.Empty(), "results are cleared on failure")
		})
	}
}

func TestSuccessfulSearchClearsError(t *testing.T) {
	fb := &fakeBackend{articlesErr: errors.New("boom")}
	c, _ := testController(t, fb)
	ctx := context.Background()

	c.SearchArxiv(ctx, "", "x")
	require.NotEmpty(t, view(t, c).Error)

	fb.articles, fb.articlesErr = papers("a"), nil
	c.SearchArxiv(ctx, "", "x")
	assert.Empty(t, view(t, c).Error)
}

func TestSearchPatentsBlankQuery(t *testing.T) {
	fb := &fakeBackend{}
	c, _ := testController(t, fb)

	c.SearchPatents(context.Background(), "   ")
	p := view(t, c)

	assert.Empty(t, fb.calls, "no request for a blank query")
	assert.Equal(t, "⚠️ Enter search keywords", p.Error)
}

func TestSearchPatents(t *testing.T) {
	fb := &fakeBackend{patents: []types.Article{{Title: "Battery", Assignees: []string{"Acme"}}}}
	c, _ := testController(t, fb)

	c.SearchPatents(context.Background(), "  battery  ")
	p := view(t, c)

	assert.Equal(t, "battery", fb.lastQuery)
	assert.Equal(t, 20, fb.lastLimit)
	assert.Equal(t, types.KindPatent, p.Results.Kind)
	assert.Equal(t, "Acme", p.Results.Cards[0].Assignees)
	assert.Equal(t, "battery", p.Form.PatentQuery)
}

func TestSearchPatentsFallbackMessage(t *testing.T) {
	fb := &fakeBackend{patentsErr: &backend.NoResultsError{Endpoint: backend.PathPatents}}
	c, _ := testController(t, fb)

	c.SearchPatents(context.Background(), "nothing")
	assert.Equal(t, "⚠️ No patents found", view(t, c).Error)
}

// --- web sources ---

func TestFetchWebArticlesSendsAllSourcesAndGroups(t *testing.T) {
	fb := &fakeBackend{web: []types.Article{
		{Title: "one", Category: "テックニュース"},
		{Title: "two", Category: "スタートアップ"},
		{Title: "three", Category: "テックニュース"},
	}}
	c, _ := testController(t, fb)
	ctx := context.Background()

	c.ToggleSource(ctx, 0)
	c.FetchWebArticles(ctx)

	require.Len(t, fb.lastSources, 4, "disabled sources are sent too")
	assert.False(t, fb.lastSources[0].Enabled)
	assert.Equal(t, "スタートアップ", fb.lastSources[0].Category, "stored categories are sent untranslated")

	p := view(t, c)
	require.Len(t, p.Results.Groups, 2)
	assert.Equal(t, "Tech News", p.Results.Groups[0].Category)
	assert.Len(t, p.Results.Groups[0].Cards, 2)
	assert.Equal(t, "Results: 3 web articles", p.Results.Header)
}

func TestFetchWebArticlesNoEnabledSources(t *testing.T) {
	fb := &fakeBackend{}
	c, _ := testController(t, fb)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		c.ToggleSource(ctx, i)
	}
	assert.False(t, view(t, c).CanFetch)

	c.FetchWebArticles(ctx)
	assert.Empty(t, fb.calls)
}

func TestFetchWebArticlesEmpty(t *testing.T) {
	fb := &fakeBackend{webErr: &backend.NoResultsError{Endpoint: backend.PathWebArticles}}
	c, _ := testController(t, fb)

	c.FetchWebArticles(context.Background())
	assert.Equal(t, "⚠️ No articles found", view(t, c).Error)
}

func TestAddSource(t *testing.T) {
	c, store := testController(t, &fakeBackend{})
	ctx := context.Background()

	c.ToggleAddForm()
	require.True(t, view(t, c).ShowAddForm)

	c.AddSource(ctx, sources.Input{Name: "Go Blog", RSSURL: "https://go.dev/blog/feed.atom"})
	p := view(t, c)

	assert.False(t, p.ShowAddForm, "form hides after a successful add")
	assert.Empty(t, p.Form.Source)
	assert.Empty(t, p.Flash)
	require.Len(t, p.Sources, 5)
	assert.Equal(t, "Uncategorized", p.Sources[4].Category)

	list, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Go Blog", list[4].Name)
}

func TestAddSourceMissingFields(t *testing.T) {
	c, _ := testController(t, &fakeBackend{})
	c.ToggleAddForm()

	c.AddSource(context.Background(), sources.Input{Name: "No feed", Category: "x"})
	p := view(t, c)

	assert.Equal(t, "Name and RSS URL are required", p.Flash)
	assert.True(t, p.ShowAddForm)
	assert.Equal(t, "No feed", p.Form.Source.Name, "inputs are kept")
	assert.Len(t, p.Sources, 4)

	// The flash is shown once.
	assert.Empty(t, view(t, c).Flash)
}

func TestAddSourceUnreadableFeed(t *testing.T) {
	c, _ := testController(t, &fakeBackend{}, WithFeedProber(fakeProber{err: errors.New("parsing feed: not a feed")}))

	c.AddSource(context.Background(), sources.Input{Name: "Bad", RSSURL: "https://bad.example/"})
	p := view(t, c)

	assert.Equal(t, "Could not read the RSS feed; check the URL", p.Flash)
	assert.NotContains(t, p.Flash, "not a feed")
	assert.Equal(t, "Bad", p.Form.Source.Name, "inputs are kept")
	assert.Len(t, p.Sources, 4)
}

func TestAddSourceReadableFeed(t *testing.T) {
	c, _ := testController(t, &fakeBackend{}, WithFeedProber(fakeProber{}))

	c.AddSource(context.Background(), sources.Input{Name: "Good", RSSURL: "https://good.example/rss"})
	assert.Len(t, view(t, c).Sources, 5)
}

func TestAddSourceInvalidURL(t *testing.T) {
	tests := []struct {
		name   string
		prober FeedProber
		in     sources.Input
	}{
		{"bad rss scheme", nil, sources.Input{Name: "FTP", RSSURL: "ftp://files.example/feed"}},
		{"relative rss", nil, sources.Input{Name: "Rel", RSSURL: "/feed"}},
		{"bad site url", nil, sources.Input{Name: "Site", URL: "mailto:me@example.com", RSSURL: "https://ok.example/rss"}},
		{"checked before the feed is read", fakeProber{err: errors.New("unreachable")}, sources.Input{Name: "FTP", RSSURL: "ftp://files.example/feed"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []Option
			if tt.prober != nil {
				opts = append(opts, WithFeedProber(tt.prober))
			}
			c, _ := testController(t, &fakeBackend{}, opts...)

			c.AddSource(context.Background(), tt.in)
			p := view(t, c)

			assert.Equal(t, "URLs must start with http:// or https://", p.Flash)
			assert.Len(t, p.Sources, 4)
		})
	}
}

func TestDeleteAndResetSources(t *testing.T) {
	c, _ := testController(t, &fakeBackend{})
	ctx := context.Background()

	c.DeleteSource(ctx, 0)
	c.DeleteSource(ctx, 0)
	assert.Len(t, view(t, c).Sources, 2)

	c.ResetSources(ctx)
	p := view(t, c)
	require.Len(t, p.Sources, 4)
	assert.Equal(t, "TechCrunch", p.Sources[0].Source.Name)
}

func TestDeleteOutOfRangeFlashes(t *testing.T) {
	c, _ := testController(t, &fakeBackend{})

	c.DeleteSource(context.Background(), 42)
	p := view(t, c)
	assert.Equal(t, "Failed to save the website list", p.Flash)
	assert.Len(t, p.Sources, 4)
}

// --- summaries ---

func TestSummarize(t *testing.T) {
	fb := &fakeBackend{articles: papers("a", "b"), summary: "<b>Short</b> summary"}
	c, _ := testController(t, fb)
	ctx := context.Background()

	c.SearchArxiv(ctx, "", "x")
	c.Summarize(ctx, 1)

	p := view(t, c)
	assert.Equal(t, "b", fb.lastTitle)
	assert.Equal(t, "Short summary", p.Results.Cards[1].Summary)
	assert.True(t, p.Results.Cards[1].Summarized())
	assert.False(t, p.Results.Cards[0].Summarized())

	// A summarized article is not requested again.
	c.Summarize(ctx, 1)
	assert.Equal(t, []string{"articles", "summarize"}, fb.calls)
}

func TestSummarizeFailureKeepsButton(t *testing.T) {
	fb := &fakeBackend{articles: papers("a"), summaryErr: &backend.APIError{Endpoint: backend.PathSummarize, Status: 500}}
	c, _ := testController(t, fb)
	ctx := context.Background()

	c.SearchArxiv(ctx, "", "x")
	c.Summarize(ctx, 0)

	p := view(t, c)
	assert.Equal(t, "Failed to generate the summary", p.Flash)
	assert.False(t, p.Results.Cards[0].Summarized())

	fb.summaryErr = errors.New("connection reset")
	c.Summarize(ctx, 0)
	assert.Equal(t, "A network error occurred", view(t, c).Flash)
}

func TestSummarizeOutOfRangeIgnored(t *testing.T) {
	fb := &fakeBackend{}
	c, _ := testController(t, fb)

	c.Summarize(context.Background(), 3)
	assert.Empty(t, fb.calls)
}

func TestSummariesResetWithNewResults(t *testing.T) {
	fb := &fakeBackend{articles: papers("a"), summary: "s"}
	c, _ := testController(t, fb)
	ctx := context.Background()

	c.SearchArxiv(ctx, "", "x")
	c.Summarize(ctx, 0)
	require.True(t, view(t, c).Results.Cards[0].Summarized())

	c.SearchArxiv(ctx, "", "y")
	assert.False(t, view(t, c).Results.Cards[0].Summarized())
}

type blockingBackend struct {
	*fakeBackend
	started chan struct{}
	release chan struct{}
}

func (b *blockingBackend) Summarize(ctx context.Context, title, abstract string) (string, error) {
	close(b.started)
	<-b.release
	return b.fakeBackend.Summarize(ctx, title, abstract)
}

func TestLateSummaryForReplacedResultsIsDropped(t *testing.T) {
	fb := &fakeBackend{articles: papers("a"), summary: "late"}
	bb := &blockingBackend{fakeBackend: fb, started: make(chan struct{}), release: make(chan struct{})}
	c := NewController(testStore(t), bb, render.Catalog("en"), WithLogger(quietLogger()))
	ctx := context.Background()

	c.SearchArxiv(ctx, "", "x")

	done := make(chan struct{})
	go func() {
		c.Summarize(ctx, 0)
		close(done)
	}()
	<-bb.started
	c.SwitchTab(types.TabArxiv)
	c.SearchArxiv(ctx, "", "y")
	close(bb.release)
	<-done

	assert.False(t, view(t, c).Results.Cards[0].Summarized())
}
