// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for newsdesk: the web
// sources a user aggregates, the articles the backend returns, the UI tabs,
// and configuration.
package types

import (
	"strings"
)

// UncategorizedCategory is the category assigned to a source or article
// whose category is blank. The UI translates it to the active locale.
const UncategorizedCategory = "uncategorized"

// Source is a user-configured RSS feed entry.
type Source struct {
	// ID is "custom-<unix millis>" for user-added sources and a short slug
	// for the built-in defaults.
	ID string `json:"id" yaml:"id"`

	// Name is the display name of the site.
	Name string `json:"name" yaml:"name"`

	// URL is the site's home page. Defaults to RSSURL when not given.
	URL string `json:"url" yaml:"url"`

	// RSSURL is the feed address handed to the backend.
	RSSURL string `json:"rssUrl" yaml:"rss_url"`

	// Category groups web articles into tabs.
	Category string `json:"category" yaml:"category"`

	// Enabled controls whether the backend fetches this source.
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// Normalize returns a copy of s whose category is trimmed and never empty.
func (s Source) Normalize() Source {
	s.Category = NormalizeCategory(s.Category)
	return s
}

// NormalizeCategory trims c and substitutes UncategorizedCategory for blanks.
func NormalizeCategory(c string) string {
	c = strings.TrimSpace(c)
	if c == "" {
		return UncategorizedCategory
	}
	return c
}

// DefaultSources returns the built-in source list used on first load and
// after a reset. A fresh slice is returned on every call.
func DefaultSources() []Source {
	return []Source{
		{ID: "techcrunch", Name: "TechCrunch", URL: "https://techcrunch.com", RSSURL: "https://techcrunch.com/feed/", Category: "スタートアップ", Enabled: true},
		{ID: "hackernews", Name: "Hacker News", URL: "https://news.ycombinator.com", RSSURL: "https://hnrss.org/frontpage", Category: "テックニュース", Enabled: true},
		{ID: "devto", Name: "DEV Community", URL: "https://dev.to", RSSURL: "https://dev.to/feed", Category: "開発", Enabled: true},
		{ID: "qiita", Name: "Qiita", URL: "https://qiita.com", RSSURL: "https://qiita.com/popular-items/feed", Category: "日本語", Enabled: true},
	}
}

// EnabledCount returns the number of enabled sources.
func EnabledCount(sources []Source) int {
	n := 0
	for _, s := range sources {
		if s.Enabled {
			n++
		}
	}
	return n
}
