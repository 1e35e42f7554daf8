// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/newsdesk/internal/feedprobe"
	"github.com/pdiddy/newsdesk/internal/render"
	"github.com/pdiddy/newsdesk/internal/sources"
	"github.com/pdiddy/newsdesk/pkg/types"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage the web article sources",
	Long: `Sources manages the list of RSS sources used by the web articles tab. The
list is stored in the SQLite database at store.path and shared with the web UI.
Indexes are zero-based, as printed by "sources list".`,
}

// openStore opens the configured source store.
func openStore() (*sources.Store, error) {
	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return nil, err
	}
	return sources.Open(cfg.Store)
}

// withStore opens the store, runs fn and closes the store.
func withStore(fn func(ctx context.Context, s *sources.Store) error) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(context.Background(), s)
}

// printSources writes list as a table or JSON.
func printSources(cmd *cobra.Command, list []types.Source, w io.Writer) error {
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return render.FormatJSON(list, w)
	}
	render.FormatSources(list, messages(), w)
	return nil
}

func indexArg(arg string) (int, error) {
	i, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q: %w", arg, err)
	}
	return i, nil
}

// --- list subcommand ---

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the sources and whether each is enabled",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, s *sources.Store) error {
			list, err := s.Load(ctx)
			if err != nil {
				return err
			}
			return printSources(cmd, list, cmd.OutOrStdout())
		})
	},
}

// --- add subcommand ---

var sourcesAddCmd = &cobra.Command{
	Use:   "add <name> <rss-url>",
	Short: "Add a custom source",
	Long: `Add appends a custom source. The site URL defaults to the RSS URL and the
category defaults to uncategorized. With --verify the feed is fetched and
parsed first and the source is only added when that succeeds.`,
	Args: cobra.ExactArgs(2),
	RunE: runSourcesAdd,
}

func runSourcesAdd(cmd *cobra.Command, args []string) error {
	siteURL, _ := cmd.Flags().GetString("url")
	category, _ := cmd.Flags().GetString("category")
	verify, _ := cmd.Flags().GetBool("verify")

	in := sources.Input{Name: args[0], RSSURL: args[1], URL: siteURL, Category: category}

	if verify {
		cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
		if err != nil {
			return err
		}
		report, err := feedprobe.NewProber(cfg.Feed).Probe(context.Background(), in.RSSURL)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Feed OK: %s (%s, %d items)\n", report.Title, report.FeedType, report.ItemCount)
	}

	return withStore(func(ctx context.Context, s *sources.Store) error {
		_, src, err := s.Add(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", src.Name, src.ID)
		return nil
	})
}

// --- toggle / delete / reset subcommands ---

var sourcesToggleCmd = &cobra.Command{
	Use:   "toggle <index>",
	Short: "Enable or disable a source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		i, err := indexArg(args[0])
		if err != nil {
			return err
		}
		return withStore(func(ctx context.Context, s *sources.Store) error {
			list, err := s.Toggle(ctx, i)
			if err != nil {
				return err
			}
			return printSources(cmd, list, cmd.OutOrStdout())
		})
	},
}

var sourcesDeleteCmd = &cobra.Command{
	Use:   "delete <index>",
	Short: "Remove a source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		i, err := indexArg(args[0])
		if err != nil {
			return err
		}
		return withStore(func(ctx context.Context, s *sources.Store) error {
			list, err := s.Delete(ctx, i)
			if err != nil {
				return err
			}
			return printSources(cmd, list, cmd.OutOrStdout())
		})
	},
}

var sourcesResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default sources",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, s *sources.Store) error {
			list, err := s.Reset(ctx)
			if err != nil {
				return err
			}
			return printSources(cmd, list, cmd.OutOrStdout())
		})
	},
}

// --- export / import subcommands ---

var sourcesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the source list as YAML or JSON",
	Long: `Export writes the source list to stdout. YAML output can be edited and
loaded back with "sources import"; JSON output matches the stored format.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		return withStore(func(ctx context.Context, s *sources.Store) error {
			switch format {
			case "yaml", "yml":
				return s.ExportYAML(ctx, cmd.OutOrStdout())
			case "json":
				return s.ExportJSON(ctx, cmd.OutOrStdout())
			default:
				return fmt.Errorf("unknown format %q (use yaml or json)", format)
			}
		})
	},
}

var sourcesImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the source list with a YAML file",
	Long: `Import replaces the stored source list with the sources in a YAML file
written by "sources export". Use "-" to read from stdin. Every entry is
validated; nothing is stored if any entry is invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()
			r = f
		}
		return withStore(func(ctx context.Context, s *sources.Store) error {
			list, err := s.ImportYAML(ctx, r)
			if err != nil {
				return err
			}
			return printSources(cmd, list, cmd.OutOrStdout())
		})
	},
}

// --- probe / discover subcommands ---

var sourcesProbeCmd = &cobra.Command{
	Use:   "probe <rss-url>",
	Short: "Fetch and parse a feed without adding it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
		if err != nil {
			return err
		}
		report, err := feedprobe.NewProber(cfg.Feed).Probe(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return render.FormatJSON(report, cmd.OutOrStdout())
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Title:  %s\n", report.Title)
		fmt.Fprintf(w, "Link:   %s\n", report.Link)
		fmt.Fprintf(w, "Type:   %s\n", report.FeedType)
		fmt.Fprintf(w, "Items:  %d\n", report.ItemCount)
		if !report.Latest.IsZero() {
			fmt.Fprintf(w, "Latest: %s\n", report.Latest.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var sourcesDiscoverCmd = &cobra.Command{
	Use:   "discover <site-url>",
	Short: "List the feeds a web page advertises",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
		if err != nil {
			return err
		}
		found, err := feedprobe.NewProber(cfg.Feed).Discover(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return render.FormatJSON(found, cmd.OutOrStdout())
		}
		if len(found) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No feeds found.")
			return nil
		}
		for _, c := range found {
			fmt.Fprintf(cmd.OutOrStdout(), "%-24s  %-22s  %s\n", c.Type, c.Title, c.URL)
		}
		return nil
	},
}

func init() {
	sourcesAddCmd.Flags().String("url", "", "site URL (defaults to the RSS URL)")
	sourcesAddCmd.Flags().String("category", "", "category name")
	sourcesAddCmd.Flags().Bool("verify", false, "fetch and parse the feed before adding")

	sourcesExportCmd.Flags().String("format", "yaml", "output format: yaml or json")

	for _, c := range []*cobra.Command{sourcesListCmd, sourcesToggleCmd, sourcesDeleteCmd, sourcesResetCmd, sourcesImportCmd, sourcesProbeCmd, sourcesDiscoverCmd} {
		c.Flags().Bool("json", false, "output JSON")
	}

	sourcesCmd.AddCommand(sourcesListCmd, sourcesAddCmd, sourcesToggleCmd, sourcesDeleteCmd,
		sourcesResetCmd, sourcesExportCmd, sourcesImportCmd, sourcesProbeCmd, sourcesDiscoverCmd)
	rootCmd.AddCommand(sourcesCmd)
}
