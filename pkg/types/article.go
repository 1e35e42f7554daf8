// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ArticleKind tells the renderer which labels to use for an Article.
type ArticleKind string

const (
	KindPaper  ArticleKind = "paper"
	KindPatent ArticleKind = "patent"
	KindWeb    ArticleKind = "web"
)

// Article is a generic display record for a paper, patent, or web post as
// returned by the backend. It is transient: the UI replaces the whole result
// set on every search or fetch.
type Article struct {
	// ID is whatever identifier the backend assigned, if any.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	Title string `json:"title" yaml:"title"`

	// Source names the API or site the article came from.
	Source string `json:"source" yaml:"source"`

	// PublishedDate is passed through verbatim; backends return RFC 3339,
	// plain dates, or RSS (RFC 1123) timestamps.
	PublishedDate string `json:"publishedDate" yaml:"published_date"`

	// Authors lists authors, or inventors for patents.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Assignees is only populated for patents.
	Assignees []string `json:"assignees,omitempty" yaml:"assignees,omitempty"`

	Category string `json:"category,omitempty" yaml:"category,omitempty"`
	Abstract string `json:"abstract" yaml:"abstract"`
	URL      string `json:"url" yaml:"url"`
}

// Tab identifies one of the UI's top-level panels.
type Tab string

const (
	TabArxiv   Tab = "arxiv"
	TabPatents Tab = "patents"
	TabWeb     Tab = "web"
)

// Tabs lists the panels in display order.
var Tabs = []Tab{TabArxiv, TabPatents, TabWeb}

// ParseTab maps s to a known tab, falling back to TabArxiv.
func ParseTab(s string) Tab {
	for _, t := range Tabs {
		if string(t) == s {
			return t
		}
	}
	return TabArxiv
}

// Kind returns the article kind rendered on this tab.
func (t Tab) Kind() ArticleKind {
	switch t {
	case TabPatents:
		return KindPatent
	case TabWeb:
		return KindWeb
	default:
		return KindPaper
	}
}
