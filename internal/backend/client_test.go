// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/newsdesk/pkg/types"
)

// --- test helpers ---

func testClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return NewClient(types.BackendConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "newsdesk-test/0.1"},
		URL:        ts.URL + "/",
		APIKey:     "tok",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// --- SearchArticles ---

func TestSearchArticlesSendsFieldAndKeywords(t *testing.T) {
	var got map[string]string
	var gotPath, gotAuth, gotUA string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotUA = r.Header.Get("User-Agent")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, map[string]any{
			"articles": []map[string]any{
				{"title": "Attention Is All You Need", "source": "arXiv", "authors": []string{"Vaswani"}},
			},
		})
	})

	articles, err := c.SearchArticles(context.Background(), "cs.AI", "transformer")
	require.NoError(t, err)
	require.Len(t, articles, 1)

	assert.Equal(t, PathArticles, gotPath)
	assert.Equal(t, map[string]string{"field": "cs.AI", "keywords": "transformer"}, got)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "newsdesk-test/0.1", gotUA)
	assert.Equal(t, "Attention Is All You Need", articles[0].Title)
	assert.Equal(t, []string{"Vaswani"}, articles[0].Authors)
}

func TestSearchArticlesEmptyCarriesMessage(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"articles": []any{}, "message": "try other keywords"})
	})

	_, err := c.SearchArticles(context.Background(), "", "nothing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoResults))

	var nr *NoResultsError
	require.ErrorAs(t, err, &nr)
	assert.Equal(t, "try other keywords", nr.Message)
}

func TestSearchArticlesServerError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "fetch failed", "details": "timeout"})
	})

	_, err := c.SearchArticles(context.Background(), "cs.AI", "")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "fetch failed", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "timeout")
}

func TestNonJSONErrorBodyStillAPIError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := c.SearchArticles(context.Background(), "cs.AI", "")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Empty(t, apiErr.Message)
}

func TestMalformedSuccessBodyIsError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html>not json</html>"))
	})

	_, err := c.SearchArticles(context.Background(), "cs.AI", "")
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.False(t, errors.Is(err, ErrNoResults))
}

func TestTransportError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := NewClient(types.BackendConfig{URL: url, HTTPConfig: types.HTTPConfig{Timeout: time.Second}})
	_, err := c.SearchArticles(context.Background(), "cs.AI", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), PathArticles)
}

// --- SearchPatents ---

func TestSearchPatentsDefaultsLimit(t *testing.T) {
	var got struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, map[string]any{
			"patents": []map[string]any{
				{"title": "Solid-state battery", "assignees": []string{"Acme Corp"}},
			},
		})
	})

	patents, err := c.SearchPatents(context.Background(), "battery", 0)
	require.NoError(t, err)
	require.Len(t, patents, 1)
	assert.Equal(t, "battery", got.Query)
	assert.Equal(t, DefaultPatentLimit, got.Limit)
	assert.Equal(t, []string{"Acme Corp"}, patents[0].Assignees)
}

func TestSearchPatentsReadsPatentsKeyOnly(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"articles": []map[string]any{{"title": "wrong key"}},
		})
	})

	_, err := c.SearchPatents(context.Background(), "battery", 5)
	assert.ErrorIs(t, err, ErrNoResults)
}

// --- FetchWebArticles ---

func TestFetchWebArticlesSendsSources(t *testing.T) {
	var got struct {
		Sources []types.Source `json:"sources"`
	}
	var raw map[string][]map[string]any
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.NoError(t, json.Unmarshal(body, &got))
		require.NoError(t, json.Unmarshal(body, &raw))
		writeJSON(w, http.StatusOK, map[string]any{
			"articles": []map[string]any{{"title": "Post", "category": "Tech News"}},
		})
	})

	sources := types.DefaultSources()
	sources[1].Enabled = false

	articles, err := c.FetchWebArticles(context.Background(), sources)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, sources, got.Sources)
	assert.Equal(t, "https://hnrss.org/frontpage", raw["sources"][1]["rssUrl"])
}

// --- Summarize ---

func TestSummarize(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathSummarize, r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]string{"summary": "Short version."})
	})

	s, err := c.Summarize(context.Background(), "Title", "Abstract")
	require.NoError(t, err)
	assert.Equal(t, "Short version.", s)
}

func TestSummarizeBadRequest(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title and abstract required"})
	})

	_, err := c.Summarize(context.Background(), "", "")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}
