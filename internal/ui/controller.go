// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ui is the server-rendered web interface: tab switching, paper,
// patent and web-article searches against the backend, source management,
// and per-article summaries. All view state lives in a Controller shared
// by every request; backend calls are made without holding its lock.
package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/pdiddy/newsdesk/internal/backend"
	"github.com/pdiddy/newsdesk/internal/feedprobe"
	"github.com/pdiddy/newsdesk/internal/render"
	"github.com/pdiddy/newsdesk/internal/sources"
	"github.com/pdiddy/newsdesk/pkg/types"
)

// Backend is the subset of the backend client the UI uses.
type Backend interface {
	SearchArticles(ctx context.Context, field, keywords string) ([]types.Article, error)
	SearchPatents(ctx context.Context, query string, limit int) ([]types.Article, error)
	FetchWebArticles(ctx context.Context, list []types.Source) ([]types.Article, error)
	Summarize(ctx context.Context, title, abstract string) (string, error)
}

// SourceStore persists the source list.
type SourceStore interface {
	Load(ctx context.Context) ([]types.Source, error)
	Add(ctx context.Context, in sources.Input) ([]types.Source, types.Source, error)
	Toggle(ctx context.Context, index int) ([]types.Source, error)
	Delete(ctx context.Context, index int) ([]types.Source, error)
	Reset(ctx context.Context) ([]types.Source, error)
}

// FeedProber checks a feed URL before a source is added.
type FeedProber interface {
	Probe(ctx context.Context, feedURL string) (feedprobe.Report, error)
}

// FormValues echoes the user's last inputs back into the page.
type FormValues struct {
	Field       string
	Keywords    string
	PatentQuery string
	Source      sources.Input
}

// state is the mutable view state.
type state struct {
	tab       types.Tab
	articles  []types.Article
	kind      types.ArticleKind
	summaries map[int]string

	// generation increments whenever the result set is replaced so late
	// summaries for an old result set are dropped.
	generation int

	errMsg      string
	flash       string
	showAddForm bool
	form        FormValues
}

// Controller holds the UI state and implements every user action.
type Controller struct {
	store  SourceStore
	api    Backend
	prober FeedProber
	msgs   render.Messages
	log    *slog.Logger

	mu sync.Mutex
	st state
}

// Option configures a Controller.
type Option func(*Controller)

// WithFeedProber verifies feed URLs with p before adding a source.
func WithFeedProber(p FeedProber) Option {
	return func(c *Controller) { c.prober = p }
}

// WithLogger sets the logger; slog.Default() is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// NewController returns a controller on the arXiv tab with no results.
func NewController(store SourceStore, api Backend, msgs render.Messages, opts ...Option) *Controller {
	c := &Controller{
		store: store,
		api:   api,
		msgs:  msgs,
		log:   slog.Default(),
		st:    state{tab: types.TabArxiv, summaries: map[int]string{}},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Messages returns the controller's message catalog.
func (c *Controller) Messages() render.Messages { return c.msgs }

// SwitchTab activates tab and clears the displayed results.
func (c *Controller) SwitchTab(tab types.Tab) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.tab = tab
	c.clearResults()
}

// clearResults must be called with mu held.
func (c *Controller) clearResults() {
	c.st.articles = nil
	c.st.summaries = map[int]string{}
	c.st.generation++
}

// begin clears the error banner before a backend call.
func (c *Controller) begin(update func(*FormValues)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.errMsg = ""
	if update != nil {
		update(&c.st.form)
	}
}

// finish applies a search outcome: results on success, otherwise the
// banner text for the error class and an empty result set.
func (c *Controller) finish(kind types.ArticleKind, articles []types.Article, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clearResults()
	if err == nil {
		c.st.articles = articles
		c.st.kind = kind
		return
	}
	c.st.errMsg = c.bannerText(kind, err)
}

func (c *Controller) bannerText(kind types.ArticleKind, err error) string {
	var apiErr *backend.APIError
	var noResults *backend.NoResultsError
	switch {
	case errors.As(err, &apiErr):
		c.log.Warn("backend request failed", "endpoint", apiErr.Endpoint, "status", apiErr.Status, "error", apiErr.Message)
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return c.msgs.FailureFallback(kind)
	case errors.As(err, &noResults):
		if noResults.Message != "" {
			return noResults.Message
		}
		return c.msgs.EmptyFallback(kind)
	default:
		c.log.Error("backend unreachable", "kind", kind, "error", err)
		return c.msgs.NetworkError
	}
}

// SearchArxiv searches papers by field and keywords.
func (c *Controller) SearchArxiv(ctx context.Context, field, keywords string) {
	c.begin(func(f *FormValues) { f.Field, f.Keywords = field, keywords })
	articles, err := c.api.SearchArticles(ctx, field, keywords)
	c.finish(types.KindPaper, articles, err)
}

// SearchPatents searches patents. A blank query only shows the
// enter-keywords banner and leaves the current results alone.
func (c *Controller) SearchPatents(ctx context.Context, query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		c.mu.Lock()
		c.st.errMsg = c.msgs.EnterKeywords
		c.st.form.PatentQuery = ""
		c.mu.Unlock()
		return
	}

	c.begin(func(f *FormValues) { f.PatentQuery = query })
	articles, err := c.api.SearchPatents(ctx, query, backend.DefaultPatentLimit)
	c.finish(types.KindPatent, articles, err)
}

// FetchWebArticles sends the whole source list to the backend. It does
// nothing when every source is disabled.
func (c *Controller) FetchWebArticles(ctx context.Context) {
	list, err := c.store.Load(ctx)
	if err != nil {
		c.log.Error("loading sources", "error", err)
		c.setFlash(c.msgs.SourceSaveFailed)
		return
	}
	if types.EnabledCount(list) == 0 {
		return
	}

	c.begin(nil)
	articles, err := c.api.FetchWebArticles(ctx, list)
	c.finish(types.KindWeb, articles, err)
}

// Summarize requests a summary for the article at index of the current
// result set and attaches it to that article on success.
func (c *Controller) Summarize(ctx context.Context, index int) {
	c.mu.Lock()
	if index < 0 || index >= len(c.st.articles) {
		c.mu.Unlock()
		return
	}
	if _, done := c.st.summaries[index]; done {
		c.mu.Unlock()
		return
	}
	article := c.st.articles[index]
	gen := c.st.generation
	c.mu.Unlock()

	summary, err := c.api.Summarize(ctx, article.Title, article.Abstract)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			c.log.Warn("summarize failed", "status", apiErr.Status, "error", apiErr.Message)
			c.st.flash = c.msgs.SummarizeFailed
		} else {
			c.log.Error("summarize unreachable", "error", err)
			c.st.flash = c.msgs.SummarizeNetwork
		}
		return
	}
	if gen != c.st.generation {
		return
	}
	c.st.summaries[index] = render.PlainText(summary)
}

// ToggleAddForm shows or hides the add-source form.
func (c *Controller) ToggleAddForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.showAddForm = !c.st.showAddForm
}

// AddSource validates and stores a new source. On success the form is
// cleared and hidden; on failure its values are kept and a flash explains why.
func (c *Controller) AddSource(ctx context.Context, in sources.Input) {
	c.mu.Lock()
	c.st.form.Source = in
	c.mu.Unlock()

	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.RSSURL) == "" {
		c.setFlash(c.msgs.NameAndRSSRequired)
		return
	}
	if c.prober != nil {
		rss := strings.TrimSpace(in.RSSURL)
		if err := sources.ValidateURL(rss); err != nil {
			c.setFlash(c.addFailure(err))
			return
		}
		if _, err := c.prober.Probe(ctx, rss); err != nil {
			c.log.Warn("feed check failed", "url", rss, "error", err)
			c.setFlash(c.msgs.FeedCheckFailed)
			return
		}
	}

	_, src, err := c.store.Add(ctx, in)
	if err != nil {
		c.setFlash(c.addFailure(err))
		return
	}
	c.log.Info("source added", "id", src.ID, "name", src.Name)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.form.Source = sources.Input{}
	c.st.showAddForm = false
}

// addFailure maps a source validation or store error to flash text.
func (c *Controller) addFailure(err error) string {
	switch {
	case errors.Is(err, sources.ErrNameRequired), errors.Is(err, sources.ErrRSSURLRequired):
		return c.msgs.NameAndRSSRequired
	case errors.Is(err, sources.ErrInvalidURL):
		c.log.Info("rejected source URL", "error", err)
		return c.msgs.InvalidURL
	default:
		c.log.Error("adding source", "error", err)
		return c.msgs.SourceSaveFailed
	}
}

// ToggleSource flips the enabled flag of the source at index.
func (c *Controller) ToggleSource(ctx context.Context, index int) {
	if _, err := c.store.Toggle(ctx, index); err != nil {
		c.storeFailed("toggle source", err)
	}
}

// DeleteSource removes the source at index.
func (c *Controller) DeleteSource(ctx context.Context, index int) {
	if _, err := c.store.Delete(ctx, index); err != nil {
		c.storeFailed("delete source", err)
	}
}

// ResetSources restores the default sources.
func (c *Controller) ResetSources(ctx context.Context) {
	if _, err := c.store.Reset(ctx); err != nil {
		c.storeFailed("reset sources", err)
	}
}

func (c *Controller) storeFailed(op string, err error) {
	c.log.Error(op, "error", err)
	c.setFlash(c.msgs.SourceSaveFailed)
}

func (c *Controller) setFlash(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.flash = msg
}

// TabLink is a rendered tab button.
type TabLink struct {
	ID     types.Tab
	Name   string
	Active bool
}

// SourceRow is a rendered source entry.
type SourceRow struct {
	Index    int
	Source   types.Source
	Category string
}

// Page is everything the page template needs.
type Page struct {
	M           render.Messages
	Tab         types.Tab
	Tabs        []TabLink
	Error       string
	Flash       string
	Results     render.Results
	Sources     []SourceRow
	CanFetch    bool
	ShowAddForm bool
	Form        FormValues
	Fields      []FieldOption
}

// View snapshots the state for rendering and consumes the pending flash.
func (c *Controller) View(ctx context.Context) (Page, error) {
	list, err := c.store.Load(ctx)
	if err != nil {
		return Page{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := Page{
		M:           c.msgs,
		Tab:         c.st.tab,
		Flash:       c.st.flash,
		Results:     render.Build(c.st.articles, c.st.kind, c.st.summaries, c.msgs),
		CanFetch:    types.EnabledCount(list) > 0,
		ShowAddForm: c.st.showAddForm,
		Form:        c.st.form,
		Fields:      fieldOptions(c.msgs.Lang, c.st.form.Field),
	}
	if c.st.errMsg != "" {
		p.Error = c.msgs.WarningPrefix + c.st.errMsg
	}
	for _, t := range types.Tabs {
		p.Tabs = append(p.Tabs, TabLink{ID: t, Name: c.msgs.TabName(t), Active: t == c.st.tab})
	}
	for i, s := range list {
		p.Sources = append(p.Sources, SourceRow{Index: i, Source: s, Category: c.msgs.CategoryName(s.Category)})
	}

	c.st.flash = ""
	return p, nil
}
