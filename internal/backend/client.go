// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package backend calls the aggregation backend's JSON endpoints: paper
// search, patent search, web-article aggregation and summarization.
// Every call issues a single POST; the only retry is on HTTP 429 and only
// when BackendConfig.MaxRetries is set.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/newsdesk/internal/httputil"
	"github.com/pdiddy/newsdesk/pkg/types"
)

// Endpoint paths relative to BackendConfig.URL.
const (
	PathArticles    = "/api/articles"
	PathPatents     = "/api/patents"
	PathWebArticles = "/api/web-articles"
	PathSummarize   = "/api/summarize"
)

// DefaultPatentLimit is the number of patents requested per search.
const DefaultPatentLimit = 20

// Client talks to the backend.
type Client struct {
	HTTP *http.Client
	cfg  types.BackendConfig
}

// NewClient returns a client for the backend at cfg.URL.
func NewClient(cfg types.BackendConfig) *Client {
	return &Client{
		HTTP: &http.Client{Timeout: cfg.Timeout},
		cfg:  cfg,
	}
}

// envelope is the union of every endpoint's response shape.
type envelope struct {
	Articles []types.Article `json:"articles"`
	Patents  []types.Article `json:"patents"`
	Summary  string          `json:"summary"`
	Error    string          `json:"error"`
	Details  string          `json:"details"`
	Message  string          `json:"message"`
}

// SearchArticles searches papers by field and keywords.
func (c *Client) SearchArticles(ctx context.Context, field, keywords string) ([]types.Article, error) {
	payload := map[string]string{"field": field, "keywords": keywords}
	env, err := c.post(ctx, PathArticles, payload)
	if err != nil {
		return nil, err
	}
	if len(env.Articles) == 0 {
		return nil, &NoResultsError{Endpoint: PathArticles, Message: env.Message}
	}
	return env.Articles, nil
}

// SearchPatents searches patents. A non-positive limit uses DefaultPatentLimit.
func (c *Client) SearchPatents(ctx context.Context, query string, limit int) ([]types.Article, error) {
	if limit <= 0 {
		limit = DefaultPatentLimit
	}
	payload := struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}{query, limit}
	env, err := c.post(ctx, PathPatents, payload)
	if err != nil {
		return nil, err
	}
	if len(env.Patents) == 0 {
		return nil, &NoResultsError{Endpoint: PathPatents, Message: env.Message}
	}
	return env.Patents, nil
}

// FetchWebArticles asks the backend to aggregate the given feeds. The full
// list is sent; the backend skips disabled sources.
func (c *Client) FetchWebArticles(ctx context.Context, sources []types.Source) ([]types.Article, error) {
	if sources == nil {
		sources = []types.Source{}
	}
	payload := map[string][]types.Source{"sources": sources}
	env, err := c.post(ctx, PathWebArticles, payload)
	if err != nil {
		return nil, err
	}
	if len(env.Articles) == 0 {
		return nil, &NoResultsError{Endpoint: PathWebArticles, Message: env.Message}
	}
	return env.Articles, nil
}

// Summarize requests an AI summary for a title and abstract.
func (c *Client) Summarize(ctx context.Context, title, abstract string) (string, error) {
	payload := map[string]string{"title": title, "abstract": abstract}
	env, err := c.post(ctx, PathSummarize, payload)
	if err != nil {
		return "", err
	}
	return env.Summary, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (envelope, error) {
	var env envelope

	req, err := httputil.NewJSONRequest(ctx, c.endpoint(path), payload)
	if err != nil {
		return env, err
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, c.cfg.MaxRetries)
	if err != nil {
		return env, fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// An undecodable error body still yields an APIError without a message.
		return env, &APIError{
			Endpoint: path,
			Status:   resp.StatusCode,
			Message:  env.Error,
			Details:  env.Details,
		}
	}
	if decodeErr != nil {
		return env, fmt.Errorf("decoding %s response: %w", path, decodeErr)
	}
	return env, nil
}

func (c *Client) endpoint(path string) string {
	return strings.TrimRight(c.cfg.URL, "/") + path
}
