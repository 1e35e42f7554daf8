// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/newsdesk/pkg/types"
)

// FormatTable writes articles as a human-readable table to w.
func FormatTable(articles []types.Article, kind types.ArticleKind, m Messages, w io.Writer) {
	if len(articles) == 0 {
		fmt.Fprintln(w, m.EmptyFallback(kind))
		return
	}

	fmt.Fprintln(w, m.Header(len(articles), kind))
	fmt.Fprintf(w, "%-4s  %-60s  %-24s  %-10s  %s\n", "#", "Title", "Authors", "Date", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, a := range articles {
		authors := a.Authors
		if kind == types.KindPatent && len(authors) == 0 {
			authors = a.Assignees
		}
		fmt.Fprintf(w, "%-4d  %-60s  %-24s  %-10s  %s\n",
			i, truncate(PlainText(a.Title), 60), truncate(JoinLimited(authors, 1, m.More), 24),
			FormatDate(a.PublishedDate, m), a.Source)
	}
}

// FormatGroups writes web articles grouped by category.
func FormatGroups(articles []types.Article, m Messages, w io.Writer) {
	if len(articles) == 0 {
		fmt.Fprintln(w, m.NoWebArticles)
		return
	}
	fmt.Fprintln(w, m.Header(len(articles), types.KindWeb))
	for _, g := range GroupByCategory(articles) {
		fmt.Fprintf(w, "\n[%s] (%d)\n", m.CategoryName(g.Category), len(g.Indexes))
		for _, i := range g.Indexes {
			a := articles[i]
			fmt.Fprintf(w, "  %-4d %-70s  %s\n", i, truncate(PlainText(a.Title), 70), a.Source)
		}
	}
}

// FormatSources writes the source list with its indexes.
func FormatSources(list []types.Source, m Messages, w io.Writer) {
	fmt.Fprintf(w, "%-4s  %-3s  %-20s  %-16s  %s\n", "#", "On", "Name", "Category", "RSS URL")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for i, s := range list {
		on := " "
		if s.Enabled {
			on = "x"
		}
		fmt.Fprintf(w, "%-4d  [%s]  %-20s  %-16s  %s\n",
			i, on, truncate(s.Name, 20), truncate(m.CategoryName(s.Category), 16), s.RSSURL)
	}
	fmt.Fprintf(w, "\n%d sources, %d enabled\n", len(list), types.EnabledCount(list))
}

// FormatJSON writes v as indented JSON to w.
func FormatJSON(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// truncate shortens s to max runes, ending in "...".
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}
