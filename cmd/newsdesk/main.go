// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the newsdesk CLI. The serve command
// runs the web UI; the remaining commands expose the same searches and
// source management from the terminal.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/newsdesk/internal/render"
	"github.com/pdiddy/newsdesk/internal/secrets"
	"github.com/pdiddy/newsdesk/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	appName          = "newsdesk"
	secretsDir       = ".secrets/"
	defaultUserAgent = "newsdesk/0.1"
)

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// rootCmd is the base command for the newsdesk CLI.
var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Research paper, patent and tech news aggregator",
	Long: `newsdesk is a front end for a research aggregation backend. It searches
arXiv papers and patents, fetches articles from configurable RSS sources, and
asks the backend for AI summaries.

Run "newsdesk serve" for the web UI. The sources, search and summarize
commands do the same work from the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		slog.SetDefault(newLogger(viper.GetString("log.level")))

		s, err := secrets.Load(secretsDir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if names := s.Names(); len(names) > 0 {
			slog.Debug("loaded secrets", "names", names)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	setDefaults(viper.GetViper())

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./newsdesk.yaml or $XDG_CONFIG_HOME/newsdesk/newsdesk.yaml)")
	pf.String("backend", "", "backend base URL")
	pf.String("db", "", "source store database file")
	pf.String("locale", "", "message language (ja or en)")
	pf.String("log-level", "", "log level (debug, info, warn, error)")

	_ = viper.BindPFlag("backend.url", pf.Lookup("backend"))
	_ = viper.BindPFlag("store.path", pf.Lookup("db"))
	_ = viper.BindPFlag("ui.locale", pf.Lookup("locale"))
	_ = viper.BindPFlag("log.level", pf.Lookup("log-level"))
}

// setDefaults registers the built-in value of every config key.
func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.url", "http://localhost:5000")
	v.SetDefault("backend.timeout", 30*time.Second)
	v.SetDefault("backend.max_retries", 0)
	v.SetDefault("backend.user_agent", defaultUserAgent)
	v.SetDefault("feed.timeout", 15*time.Second)
	v.SetDefault("feed.user_agent", defaultUserAgent)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("store.path", filepath.Join(xdg.DataHome, appName, appName+".db"))
	v.SetDefault("ui.locale", render.DefaultLocale)
	v.SetDefault("log.level", "info")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(appName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath(filepath.Join(xdg.ConfigHome, appName))
	}

	viper.SetEnvPrefix("NEWSDESK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig decodes the merged flags, environment, config file and
// defaults into an AppConfig. The backend API key comes from the config
// when set, otherwise from .secrets/backend-api-key.
func loadConfig(v *viper.Viper, s secrets.Secrets) (types.AppConfig, error) {
	var cfg types.AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Backend.APIKey = s.Get(secrets.BackendAPIKey, cfg.Backend.APIKey)

	if cfg.Backend.URL == "" {
		return cfg, fmt.Errorf("backend.url must be set")
	}
	if cfg.Store.Path == "" {
		return cfg, fmt.Errorf("store.path must be set")
	}
	return cfg, nil
}

// newLogger returns a JSON logger on stderr at the named level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// messages returns the catalog for the configured locale.
func messages() render.Messages {
	return render.Catalog(viper.GetString("ui.locale"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
