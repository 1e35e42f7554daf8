// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"

	"github.com/pdiddy/newsdesk/pkg/types"
)

// Messages is the localized text for one UI language.
type Messages struct {
	Lang       string
	DateLayout string

	AppTitle      string
	TabArxiv      string
	TabPatents    string
	TabWeb        string
	Placeholder   string
	Loading       string
	Uncategorized string

	// Categories translates the built-in source categories. Categories not
	// listed are shown as stored.
	Categories map[string]string

	FieldLabel     string
	KeywordsLabel  string
	SearchButton   string
	PatentLabel    string
	SourcesHeading string
	AddSource      string
	ConfirmAdd     string
	ResetSources   string
	FetchWeb       string
	Delete         string
	ConfirmDelete  string
	ConfirmReset   string
	SourceName     string
	SourceURL      string
	SourceRSS      string
	SourceCategory string
	CategoryLabel  string

	ResultsHeader string // Printf format: count, item type
	ItemPaper     string
	ItemPatent    string
	ItemWeb       string

	AuthorsLabel   string
	InventorsLabel string
	AssigneesLabel string
	More           string
	ViewDetails    string
	Summarize      string
	SummaryHeading string

	ErrArticles        string
	ErrPatents         string
	ErrWeb             string
	NoArticles         string
	NoPatents          string
	NoWebArticles      string
	NetworkError       string
	EnterKeywords      string
	SummarizeFailed    string
	SummarizeNetwork   string
	NameAndRSSRequired string
	InvalidURL         string
	FeedCheckFailed    string
	SourceSaveFailed   string
	WarningPrefix      string
}

var catalogs = map[string]Messages{
	"ja": {
		Lang:       "ja",
		DateLayout: "2006/1/2",

		AppTitle:      "論文・ニュースアグリゲーター",
		TabArxiv:      "arXiv論文",
		TabPatents:    "特許",
		TabWeb:        "ウェブ記事",
		Placeholder:   "技術分野を選択して、論文・記事を検索してください",
		Loading:       "読み込み中...",
		Uncategorized: "未分類",

		FieldLabel:     "技術分野",
		KeywordsLabel:  "キーワード",
		SearchButton:   "検索",
		PatentLabel:    "特許検索キーワード",
		SourcesHeading: "ウェブサイト",
		AddSource:      "ウェブサイトを追加",
		ConfirmAdd:     "追加",
		ResetSources:   "デフォルトに戻す",
		FetchWeb:       "記事を取得",
		Delete:         "削除",
		ConfirmDelete:  "このウェブサイトを削除しますか？",
		ConfirmReset:   "デフォルトのウェブサイトリストに戻しますか？",
		SourceName:     "名前",
		SourceURL:      "サイトURL",
		SourceRSS:      "RSS URL",
		SourceCategory: "カテゴリ",
		CategoryLabel:  "カテゴリ",

		ResultsHeader: "検索結果: %d件の%s",
		ItemPaper:     "記事",
		ItemPatent:    "特許",
		ItemWeb:       "ウェブ記事",

		AuthorsLabel:   "著者",
		InventorsLabel: "発明者",
		AssigneesLabel: "出願人",
		More:           " 他",
		ViewDetails:    "詳細を見る",
		Summarize:      "AI要約を生成",
		SummaryHeading: "AI要約:",

		ErrArticles:        "論文の取得に失敗しました",
		ErrPatents:         "特許の取得に失敗しました",
		ErrWeb:             "ウェブ記事の取得に失敗しました",
		NoArticles:         "検索結果が見つかりませんでした",
		NoPatents:          "特許が見つかりませんでした",
		NoWebArticles:      "記事が見つかりませんでした",
		NetworkError:       "ネットワークエラー: サーバーに接続できませんでした",
		EnterKeywords:      "検索キーワードを入力してください",
		SummarizeFailed:    "要約の生成に失敗しました",
		SummarizeNetwork:   "ネットワークエラーが発生しました",
		NameAndRSSRequired: "名前とRSS URLは必須です",
		InvalidURL:         "URLはhttp://またはhttps://で始まる形式で入力してください",
		FeedCheckFailed:    "RSSフィードを読み込めませんでした。URLを確認してください",
		SourceSaveFailed:   "ウェブサイトの保存に失敗しました",
		WarningPrefix:      "⚠️ ",
	},
	"en": {
		Lang:       "en",
		DateLayout: "1/2/2006",

		AppTitle:      "Research & News Aggregator",
		TabArxiv:      "arXiv papers",
		TabPatents:    "Patents",
		TabWeb:        "Web articles",
		Placeholder:   "Choose a field and search for papers and articles",
		Loading:       "Loading...",
		Uncategorized: "Uncategorized",
		Categories: map[string]string{
			"スタートアップ": "Startups",
			"テックニュース": "Tech News",
			"開発":      "Development",
			"日本語":     "Japanese",
		},

		FieldLabel:     "Field",
		KeywordsLabel:  "Keywords",
		SearchButton:   "Search",
		PatentLabel:    "Patent search keywords",
		SourcesHeading: "Websites",
		AddSource:      "Add website",
		ConfirmAdd:     "Add",
		ResetSources:   "Reset to defaults",
		FetchWeb:       "Fetch articles",
		Delete:         "Delete",
		ConfirmDelete:  "Delete this website?",
		ConfirmReset:   "Restore the default website list?",
		SourceName:     "Name",
		SourceURL:      "Site URL",
		SourceRSS:      "RSS URL",
		SourceCategory: "Category",
		CategoryLabel:  "Category",

		ResultsHeader: "Results: %d %s",
		ItemPaper:     "articles",
		ItemPatent:    "patents",
		ItemWeb:       "web articles",

		AuthorsLabel:   "Authors",
		InventorsLabel: "Inventors",
		AssigneesLabel: "Assignees",
		More:           " et al.",
		ViewDetails:    "View details",
		Summarize:      "Generate AI summary",
		SummaryHeading: "AI summary:",

		ErrArticles:        "Failed to fetch papers",
		ErrPatents:         "Failed to fetch patents",
		ErrWeb:             "Failed to fetch web articles",
		NoArticles:         "No results found",
		NoPatents:          "No patents found",
		NoWebArticles:      "No articles found",
		NetworkError:       "Network error: could not reach the server",
		EnterKeywords:      "Enter search keywords",
		SummarizeFailed:    "Failed to generate the summary",
		SummarizeNetwork:   "A network error occurred",
		NameAndRSSRequired: "Name and RSS URL are required",
		InvalidURL:         "URLs must start with http:// or https://",
		FeedCheckFailed:    "Could not read the RSS feed; check the URL",
		SourceSaveFailed:   "Failed to save the website list",
		WarningPrefix:      "⚠️ ",
	},
}

// DefaultLocale is used when no locale or an unknown one is configured.
const DefaultLocale = "ja"

// Catalog returns the messages for locale, falling back to DefaultLocale.
func Catalog(locale string) Messages {
	if m, ok := catalogs[locale]; ok {
		return m
	}
	return catalogs[DefaultLocale]
}

// Locales lists the supported locales.
func Locales() []string {
	return []string{"ja", "en"}
}

// CategoryName returns the display name of a category.
func (m Messages) CategoryName(c string) string {
	c = types.NormalizeCategory(c)
	if c == types.UncategorizedCategory {
		return m.Uncategorized
	}
	if name, ok := m.Categories[c]; ok {
		return name
	}
	return c
}

// TabName returns the display name of a tab.
func (m Messages) TabName(t types.Tab) string {
	switch t {
	case types.TabPatents:
		return m.TabPatents
	case types.TabWeb:
		return m.TabWeb
	default:
		return m.TabArxiv
	}
}

// Header returns the results header for n items of kind.
func (m Messages) Header(n int, kind types.ArticleKind) string {
	item := m.ItemPaper
	switch kind {
	case types.KindPatent:
		item = m.ItemPatent
	case types.KindWeb:
		item = m.ItemWeb
	}
	return fmt.Sprintf(m.ResultsHeader, n, item)
}

// FailureFallback returns the banner text used when the backend reports an
// error without a message.
func (m Messages) FailureFallback(kind types.ArticleKind) string {
	switch kind {
	case types.KindPatent:
		return m.ErrPatents
	case types.KindWeb:
		return m.ErrWeb
	default:
		return m.ErrArticles
	}
}

// EmptyFallback returns the banner text used when the backend returns no
// results without a message.
func (m Messages) EmptyFallback(kind types.ArticleKind) string {
	switch kind {
	case types.KindPatent:
		return m.NoPatents
	case types.KindWeb:
		return m.NoWebArticles
	default:
		return m.NoArticles
	}
}
