// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns backend articles into display-ready view models:
// result cards, category groups for web articles, localized dates and
// author lists, and plain-text tables for the CLI.
package render

import (
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/pdiddy/newsdesk/pkg/types"
)

const (
	maxAuthors   = 3
	maxAssignees = 2
)

var strict = bluemonday.StrictPolicy()

// Card is one rendered article.
type Card struct {
	// Index is the article's position in the full result set; summarize
	// requests refer to it.
	Index int

	Title    string
	Source   string
	Date     string
	Abstract string
	URL      string

	AuthorsLabel string
	Authors      string
	Assignees    string
	Category     string

	Summary string
}

// Summarized reports whether an AI summary is attached.
func (c Card) Summarized() bool { return c.Summary != "" }

// Group is a category panel of web articles.
type Group struct {
	Index    int
	Category string
	Cards    []Card
}

// Results is the rendered result set.
type Results struct {
	Header string
	Kind   types.ArticleKind
	Cards  []Card

	// Groups is only set for web articles.
	Groups []Group
}

// Empty reports whether there is nothing to show.
func (r Results) Empty() bool { return len(r.Cards) == 0 }

// Build renders articles of the given kind. summaries maps article index to
// an already generated summary.
func Build(articles []types.Article, kind types.ArticleKind, summaries map[int]string, m Messages) Results {
	if len(articles) == 0 {
		return Results{Kind: kind}
	}

	r := Results{
		Header: m.Header(len(articles), kind),
		Kind:   kind,
		Cards:  make([]Card, len(articles)),
	}
	for i, a := range articles {
		r.Cards[i] = NewCard(i, a, kind, m)
		r.Cards[i].Summary = summaries[i]
	}

	if kind == types.KindWeb {
		for gi, g := range GroupByCategory(articles) {
			group := Group{Index: gi, Category: m.CategoryName(g.Category)}
			for _, idx := range g.Indexes {
				group.Cards = append(group.Cards, r.Cards[idx])
			}
			r.Groups = append(r.Groups, group)
		}
	}
	return r
}

// NewCard renders a single article.
func NewCard(index int, a types.Article, kind types.ArticleKind, m Messages) Card {
	c := Card{
		Index:    index,
		Title:    PlainText(a.Title),
		Source:   a.Source,
		Date:     FormatDate(a.PublishedDate, m),
		Abstract: PlainText(a.Abstract),
		URL:      a.URL,
	}

	if len(a.Authors) > 0 {
		c.AuthorsLabel = m.AuthorsLabel
		if kind == types.KindPatent {
			c.AuthorsLabel = m.InventorsLabel
		}
		c.Authors = JoinLimited(a.Authors, maxAuthors, m.More)
	}
	if kind == types.KindPatent {
		c.Assignees = JoinLimited(a.Assignees, maxAssignees, m.More)
	} else if strings.TrimSpace(a.Category) != "" {
		c.Category = m.CategoryName(a.Category)
	}
	return c
}

// CategoryGroup lists the indexes of the articles sharing a category.
type CategoryGroup struct {
	Category string
	Indexes  []int
}

// GroupByCategory groups articles by normalized category, ordering groups
// by first appearance and keeping article order within each group.
func GroupByCategory(articles []types.Article) []CategoryGroup {
	var groups []CategoryGroup
	pos := make(map[string]int)
	for i, a := range articles {
		c := types.NormalizeCategory(a.Category)
		gi, ok := pos[c]
		if !ok {
			gi = len(groups)
			pos[c] = gi
			groups = append(groups, CategoryGroup{Category: c})
		}
		groups[gi].Indexes = append(groups[gi].Indexes, i)
	}
	return groups
}

// JoinLimited joins the first limit names with ", " and appends more when
// names were dropped. It returns "" for an empty list.
func JoinLimited(names []string, limit int, more string) string {
	if len(names) == 0 {
		return ""
	}
	if len(names) <= limit {
		return strings.Join(names, ", ")
	}
	return strings.Join(names[:limit], ", ") + more
}

// dateLayouts are tried in order when parsing backend dates.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	time.RFC822Z,
	time.RFC822,
}

// ParseDate parses the date formats the backend is known to return.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders s in the locale's short date layout. Unparseable
// dates are shown verbatim.
func FormatDate(s string, m Messages) string {
	t, ok := ParseDate(s)
	if !ok {
		return strings.TrimSpace(s)
	}
	return t.Format(m.DateLayout)
}

// PlainText strips markup from backend-provided text and unescapes entities;
// templates escape the result again on output.
func PlainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
