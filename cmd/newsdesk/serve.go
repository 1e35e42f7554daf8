// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/newsdesk/internal/backend"
	"github.com/pdiddy/newsdesk/internal/feedprobe"
	"github.com/pdiddy/newsdesk/internal/sources"
	"github.com/pdiddy/newsdesk/internal/ui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web UI",
	Long: `Serve starts the web UI on server.addr. The UI searches arXiv papers and
patents, fetches web articles from the enabled sources, and requests
summaries through the backend at backend.url. The source list is kept in
the SQLite store at store.path.

With --verify-feeds, a new source's RSS URL is fetched and parsed before it
is saved.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	serveCmd.Flags().Bool("verify-feeds", false, "check that a feed parses before adding a source")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}

	logger := slog.Default()
	store, err := sources.Open(cfg.Store, sources.WithLogger(logger))
	if err != nil {
		return err
	}
	defer store.Close()

	opts := []ui.Option{ui.WithLogger(logger)}
	if verify, _ := cmd.Flags().GetBool("verify-feeds"); verify {
		opts = append(opts, ui.WithFeedProber(feedprobe.NewProber(cfg.Feed)))
	}

	c := ui.NewController(store, backend.NewClient(cfg.Backend), messages(), opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting newsdesk",
		"version", version,
		"backend", cfg.Backend.URL,
		"store", cfg.Store.Path,
		"locale", cfg.UI.Locale)
	return ui.Serve(ctx, cfg.Server.Addr, ui.NewRouter(c, logger), logger)
}
