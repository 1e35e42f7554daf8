// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sources persists the user's list of web sources. The list is
// stored as a single JSON array under a fixed key in a SQLite key/value
// table, and every mutation rewrites the whole array.
package sources

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/newsdesk/pkg/types"
)

// StorageKey is the key the source list is stored under.
const StorageKey = "websiteSources"

var (
	ErrNameRequired   = errors.New("name is required")
	ErrRSSURLRequired = errors.New("RSS URL is required")
	ErrIndexRange     = errors.New("source index out of range")
	ErrInvalidURL     = errors.New("invalid URL")
)

// Input holds the add-form fields. Blank URL defaults to RSSURL and blank
// Category to types.UncategorizedCategory.
type Input struct {
	Name     string
	URL      string
	RSSURL   string
	Category string
}

// Store manages the source list in SQLite.
type Store struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
	log *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for store warnings. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// Open opens or creates the store database at cfg.Path.
func Open(cfg types.StoreConfig, opts ...Option) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("store path is empty")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	s := &Store{db: db, now: time.Now, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the stored sources with categories normalized. When nothing
// has been stored yet, or the stored value cannot be decoded, it returns the
// defaults without persisting them.
func (s *Store) Load(ctx context.Context) ([]types.Source, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) ([]types.Source, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, StorageKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return normalizeAll(types.DefaultSources()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", StorageKey, err)
	}

	var list []types.Source
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		s.log.Warn("stored sources are corrupt, using defaults", "key", StorageKey, "error", err)
		return normalizeAll(types.DefaultSources()), nil
	}
	return normalizeAll(list), nil
}

// Save replaces the stored list.
func (s *Store) Save(ctx context.Context, list []types.Source) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, list)
}

func (s *Store) save(ctx context.Context, list []types.Source) error {
	if list == nil {
		list = []types.Source{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encoding sources: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		StorageKey, string(data), s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing %s: %w", StorageKey, err)
	}
	return nil
}

// mutate loads the list, applies fn, and persists the result.
func (s *Store) mutate(ctx context.Context, fn func([]types.Source) ([]types.Source, error)) ([]types.Source, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	list, err = fn(list)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Add validates in and appends a new enabled source.
func (s *Store) Add(ctx context.Context, in Input) ([]types.Source, types.Source, error) {
	src, err := s.newSource(in)
	if err != nil {
		return nil, types.Source{}, err
	}
	list, err := s.mutate(ctx, func(list []types.Source) ([]types.Source, error) {
		src.ID = uniqueID(list, src.ID)
		return append(list, src), nil
	})
	if err != nil {
		return nil, types.Source{}, err
	}
	return list, src, nil
}

func (s *Store) newSource(in Input) (types.Source, error) {
	name := strings.TrimSpace(in.Name)
	rssURL := strings.TrimSpace(in.RSSURL)
	siteURL := strings.TrimSpace(in.URL)

	if name == "" {
		return types.Source{}, ErrNameRequired
	}
	if rssURL == "" {
		return types.Source{}, ErrRSSURLRequired
	}
	if err := ValidateURL(rssURL); err != nil {
		return types.Source{}, fmt.Errorf("RSS URL: %w", err)
	}
	if siteURL == "" {
		siteURL = rssURL
	} else if err := ValidateURL(siteURL); err != nil {
		return types.Source{}, fmt.Errorf("site URL: %w", err)
	}

	return types.Source{
		ID:       fmt.Sprintf("custom-%d", s.now().UnixMilli()),
		Name:     name,
		URL:      siteURL,
		RSSURL:   rssURL,
		Category: types.NormalizeCategory(in.Category),
		Enabled:  true,
	}, nil
}

// Toggle flips the enabled flag of the source at index.
func (s *Store) Toggle(ctx context.Context, index int) ([]types.Source, error) {
	return s.mutate(ctx, func(list []types.Source) ([]types.Source, error) {
		if index < 0 || index >= len(list) {
			return nil, fmt.Errorf("toggle %d: %w", index, ErrIndexRange)
		}
		list[index].Enabled = !list[index].Enabled
		return list, nil
	})
}

// Delete removes the source at index.
func (s *Store) Delete(ctx context.Context, index int) ([]types.Source, error) {
	return s.mutate(ctx, func(list []types.Source) ([]types.Source, error) {
		if index < 0 || index >= len(list) {
			return nil, fmt.Errorf("delete %d: %w", index, ErrIndexRange)
		}
		return append(list[:index], list[index+1:]...), nil
	})
}

// Reset replaces the stored list with the defaults.
func (s *Store) Reset(ctx context.Context) ([]types.Source, error) {
	return s.mutate(ctx, func([]types.Source) ([]types.Source, error) {
		return normalizeAll(types.DefaultSources()), nil
	})
}

func normalizeAll(list []types.Source) []types.Source {
	out := make([]types.Source, len(list))
	for i, src := range list {
		out[i] = src.Normalize()
	}
	return out
}

// uniqueID appends a numeric suffix to id until no source in list uses it.
func uniqueID(list []types.Source, id string) string {
	taken := make(map[string]bool, len(list))
	for _, src := range list {
		taken[src.ID] = true
	}
	candidate := id
	for n := 2; taken[candidate]; n++ {
		candidate = fmt.Sprintf("%s-%d", id, n)
	}
	return candidate
}

// ValidateURL checks that raw is an absolute http or https URL. Failures
// wrap ErrInvalidURL.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidURL, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w %q: scheme must be http or https", ErrInvalidURL, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%w %q: no host", ErrInvalidURL, raw)
	}
	return nil
}
