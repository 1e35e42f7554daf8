// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package feedprobe checks that a URL serves a parseable RSS/Atom/JSON feed
// and discovers feed URLs advertised by a site's HTML. It is used when
// adding a source so a typo in the feed URL is caught before the backend
// silently returns nothing for it.
package feedprobe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/pdiddy/newsdesk/internal/httputil"
	"github.com/pdiddy/newsdesk/pkg/types"
)

// maxBody bounds how much of a response is read.
const maxBody = 5 << 20

// Report describes a successfully parsed feed.
type Report struct {
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	FeedType  string    `json:"feed_type"`
	ItemCount int       `json:"item_count"`
	Latest    time.Time `json:"latest,omitempty"`
}

// Candidate is a feed advertised by a page through <link rel="alternate">.
type Candidate struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"`
}

// feedTypes are the MIME types recognized as feeds during discovery.
var feedTypes = map[string]bool{
	"application/rss+xml":   true,
	"application/atom+xml":  true,
	"application/feed+json": true,
	"application/json":      true,
}

// Prober fetches and inspects feeds. It is safe for concurrent use.
type Prober struct {
	Client *http.Client
	cfg    types.FeedConfig
}

// NewProber returns a Prober using cfg's timeout and user agent.
func NewProber(cfg types.FeedConfig) *Prober {
	return &Prober{
		Client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
	}
}

// Probe fetches feedURL and parses it as a feed.
func (p *Prober) Probe(ctx context.Context, feedURL string) (Report, error) {
	body, err := p.get(ctx, feedURL)
	if err != nil {
		return Report{}, err
	}
	defer body.Close()

	// A gofeed.Parser is not safe for concurrent use.
	feed, err := gofeed.NewParser().Parse(io.LimitReader(body, maxBody))
	if err != nil {
		return Report{}, fmt.Errorf("parsing feed %s: %w", feedURL, err)
	}

	r := Report{
		Title:     strings.TrimSpace(feed.Title),
		Link:      feed.Link,
		FeedType:  feed.FeedType,
		ItemCount: len(feed.Items),
	}
	for _, item := range feed.Items {
		ts := item.PublishedParsed
		if ts == nil {
			ts = item.UpdatedParsed
		}
		if ts != nil && ts.After(r.Latest) {
			r.Latest = *ts
		}
	}
	return r, nil
}

// Discover fetches siteURL and returns the feeds its <head> advertises,
// with relative hrefs resolved against the page URL.
func (p *Prober) Discover(ctx context.Context, siteURL string) ([]Candidate, error) {
	base, err := url.Parse(siteURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", siteURL, err)
	}

	body, err := p.get(ctx, siteURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML %s: %w", siteURL, err)
	}

	var out []Candidate
	seen := make(map[string]bool)
	doc.Find(`link[rel~="alternate"]`).Each(func(_ int, s *goquery.Selection) {
		typ := strings.ToLower(strings.TrimSpace(s.AttrOr("type", "")))
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if !feedTypes[typ] || href == "" {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref).String()
		if seen[abs] {
			return
		}
		seen[abs] = true
		out = append(out, Candidate{
			Title: strings.TrimSpace(s.AttrOr("title", "")),
			URL:   abs,
			Type:  typ,
		})
	})
	return out, nil
}

func (p *Prober) get(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if p.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", p.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, p.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s returned HTTP %d", rawURL, resp.StatusCode)
	}
	return resp.Body, nil
}
