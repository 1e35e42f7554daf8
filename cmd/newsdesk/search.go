// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/newsdesk/internal/backend"
	"github.com/pdiddy/newsdesk/internal/render"
	"github.com/pdiddy/newsdesk/internal/sources"
	"github.com/pdiddy/newsdesk/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search papers, patents or web articles through the backend",
	Long: `Search runs the same backend requests as the web UI tabs and prints the
results as a table, or as JSON with --json.`,
}

// newBackend returns a backend client for the loaded config.
func newBackend() (*backend.Client, error) {
	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return nil, err
	}
	return backend.NewClient(cfg.Backend), nil
}

// printArticles writes articles as a table, grouped for web results, or as JSON.
// An empty result from the backend is reported on stdout, not as a failure.
func printArticles(cmd *cobra.Command, articles []types.Article, kind types.ArticleKind, err error) error {
	w := cmd.OutOrStdout()
	var noResults *backend.NoResultsError
	if errors.As(err, &noResults) {
		if noResults.Message != "" {
			fmt.Fprintln(w, noResults.Message)
		} else {
			fmt.Fprintln(w, messages().EmptyFallback(kind))
		}
		return nil
	}
	if err != nil {
		return err
	}
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return render.FormatJSON(articles, w)
	}
	if kind == types.KindWeb {
		render.FormatGroups(articles, messages(), w)
		return nil
	}
	render.FormatTable(articles, kind, messages(), w)
	return nil
}

// --- papers subcommand ---

var searchPapersCmd = &cobra.Command{
	Use:   "papers [keywords...]",
	Short: "Search arXiv papers by field and keywords",
	Long: `Papers searches arXiv through the backend. --field takes one of the
field values shown in the web UI (for example 機械学習); leave it empty to
search all fields.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		field, _ := cmd.Flags().GetString("field")
		api, err := newBackend()
		if err != nil {
			return err
		}
		articles, err := api.SearchArticles(context.Background(), field, strings.Join(args, " "))
		return printArticles(cmd, articles, types.KindPaper, err)
	},
}

// --- patents subcommand ---

var searchPatentsCmd = &cobra.Command{
	Use:   "patents <keywords...>",
	Short: "Search patents by keywords",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		api, err := newBackend()
		if err != nil {
			return err
		}
		articles, err := api.SearchPatents(context.Background(), strings.Join(args, " "), limit)
		return printArticles(cmd, articles, types.KindPatent, err)
	},
}

// --- web subcommand ---

var searchWebCmd = &cobra.Command{
	Use:   "web",
	Short: "Fetch articles from the enabled sources",
	Long: `Web sends the stored source list to the backend, which fetches the
enabled sources' feeds. Results are grouped by category.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newBackend()
		if err != nil {
			return err
		}
		return withStore(func(ctx context.Context, s *sources.Store) error {
			list, err := s.Load(ctx)
			if err != nil {
				return err
			}
			if types.EnabledCount(list) == 0 {
				cmd.PrintErrln("No sources are enabled.")
				return nil
			}
			articles, err := api.FetchWebArticles(ctx, list)
			return printArticles(cmd, articles, types.KindWeb, err)
		})
	},
}

func init() {
	searchPapersCmd.Flags().String("field", "", "technology field")
	searchPatentsCmd.Flags().Int("limit", backend.DefaultPatentLimit, "maximum number of patents")

	for _, c := range []*cobra.Command{searchPapersCmd, searchPatentsCmd, searchWebCmd} {
		c.Flags().Bool("json", false, "output JSON")
		searchCmd.AddCommand(c)
	}
	rootCmd.AddCommand(searchCmd)
}
