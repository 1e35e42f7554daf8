// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ui

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pdiddy/newsdesk/internal/render"
	"github.com/pdiddy/newsdesk/internal/sources"
	"github.com/pdiddy/newsdesk/pkg/types"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// cardView pairs a card with the catalog so the card template can label it.
type cardView struct {
	M render.Messages
	render.Card
}

var pageTmpl = template.Must(template.New("").Funcs(template.FuncMap{
	"cardData": func(m render.Messages, c render.Card) cardView { return cardView{M: m, Card: c} },
}).ParseFS(templateFS, "templates/*.tmpl"))

// Handler serves the web UI.
type Handler struct {
	c   *Controller
	log *slog.Logger
}

// NewRouter returns the UI routes backed by c.
func NewRouter(c *Controller, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{c: c, log: logger}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.requestLog)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	static, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(static)))

	r.Get("/", h.index)
	r.Post("/tab", h.switchTab)
	r.Post("/search/arxiv", h.searchArxiv)
	r.Post("/search/patents", h.searchPatents)
	r.Post("/web/fetch", h.fetchWeb)

	r.Route("/sources", func(r chi.Router) {
		r.Post("/", h.addSource)
		r.Post("/form", h.toggleForm)
		r.Post("/reset", h.resetSources)
		r.Post("/{index}/toggle", h.withIndex(h.c.ToggleSource))
		r.Post("/{index}/delete", h.withIndex(h.c.DeleteSource))
	})

	r.Post("/articles/{index}/summarize", h.summarize)
	return r
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	page, err := h.c.View(r.Context())
	if err != nil {
		h.log.Error("building page", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := pageTmpl.ExecuteTemplate(w, "page", page); err != nil {
		h.log.Error("rendering page", "error", err)
	}
}

func (h *Handler) switchTab(w http.ResponseWriter, r *http.Request) {
	h.c.SwitchTab(types.ParseTab(r.PostFormValue("tab")))
	back(w, r)
}

func (h *Handler) searchArxiv(w http.ResponseWriter, r *http.Request) {
	h.c.SearchArxiv(r.Context(), r.PostFormValue("field"), r.PostFormValue("keywords"))
	back(w, r)
}

func (h *Handler) searchPatents(w http.ResponseWriter, r *http.Request) {
	h.c.SearchPatents(r.Context(), r.PostFormValue("query"))
	back(w, r)
}

func (h *Handler) fetchWeb(w http.ResponseWriter, r *http.Request) {
	h.c.FetchWebArticles(r.Context())
	back(w, r)
}

func (h *Handler) addSource(w http.ResponseWriter, r *http.Request) {
	h.c.AddSource(r.Context(), sources.Input{
		Name:     r.PostFormValue("name"),
		URL:      r.PostFormValue("url"),
		RSSURL:   r.PostFormValue("rss_url"),
		Category: r.PostFormValue("category"),
	})
	back(w, r)
}

func (h *Handler) toggleForm(w http.ResponseWriter, r *http.Request) {
	h.c.ToggleAddForm()
	back(w, r)
}

func (h *Handler) resetSources(w http.ResponseWriter, r *http.Request) {
	h.c.ResetSources(r.Context())
	back(w, r)
}

func (h *Handler) summarize(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "invalid index", http.StatusBadRequest)
		return
	}
	h.c.Summarize(r.Context(), index)
	http.Redirect(w, r, fmt.Sprintf("/#article-%d", index), http.StatusSeeOther)
}

func (h *Handler) withIndex(fn func(context.Context, int)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			http.Error(w, "invalid index", http.StatusBadRequest)
			return
		}
		fn(r.Context(), index)
		back(w, r)
	}
}

// back redirects to the page after a state change (post/redirect/get).
func back(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

// Serve runs the UI on addr until ctx is cancelled, then shuts down,
// giving in-flight requests a few seconds to finish.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("newsdesk listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	logger.Info("newsdesk stopped")
	return nil
}
