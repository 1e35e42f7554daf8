// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. A hung backend request ends in the
	// network-error banner once it elapses.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "newsdesk/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// BackendConfig holds settings for the aggregation backend client.
type BackendConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// URL is the backend base URL; endpoint paths such as /api/articles
	// are appended to it.
	URL string `json:"url" yaml:"url" mapstructure:"url"`

	// MaxRetries is the number of retries on HTTP 429. Zero disables retries.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// APIKey is sent as a bearer token when set.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
}

// StoreConfig holds settings for the local source store.
type StoreConfig struct {
	// Path is the SQLite database file.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// ServerConfig holds settings for the UI web server.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	// Locale selects the message catalog: "ja" (default) or "en".
	Locale string `json:"locale" yaml:"locale" mapstructure:"locale"`
}

// FeedConfig holds settings for feed probing and discovery.
type FeedConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`
}

// AppConfig groups every component's configuration.
type AppConfig struct {
	Backend BackendConfig `json:"backend" yaml:"backend" mapstructure:"backend"`
	Store   StoreConfig   `json:"store" yaml:"store" mapstructure:"store"`
	Server  ServerConfig  `json:"server" yaml:"server" mapstructure:"server"`
	UI      UIConfig      `json:"ui" yaml:"ui" mapstructure:"ui"`
	Feed    FeedConfig    `json:"feed" yaml:"feed" mapstructure:"feed"`
}
