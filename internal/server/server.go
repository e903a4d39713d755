// Package server publishes stored guide sets as OPML over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/tengjizhang/bbopml/internal/opml"
	"github.com/tengjizhang/bbopml/internal/store"
)

const opmlContentType = "text/x-opml; charset=utf-8"

// Options tunes the documents the server writes.
type Options struct {
	Generator string
	// Extended is the default for the basic query parameter.
	Extended bool
	Now      func() time.Time
}

type Server struct {
	store  *store.Store
	opts   Options
	log    *zap.Logger
	router chi.Router
}

func New(st *store.Store, opts Options, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		store: st,
		opts:  opts,
		log:   log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/sets", func(r chi.Router) {
		r.Get("/", s.handleListSets)
		r.Get("/{id}.opml", s.handleExportSet)
		r.Get("/{id}/guides/{index}.opml", s.handleExportGuide)
	})

	s.router = r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("server stopping")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListSets(w http.ResponseWriter, r *http.Request) {
	sets, err := s.store.ListGuideSets(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sets)
}

func (s *Server) handleExportSet(w http.ResponseWriter, r *http.Request) {
	exp, ok := s.exporter(w, r)
	if !ok {
		return
	}
	set, err := s.store.GetGuideSet(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeOPML(w, func() (string, error) { return exp.ExportString(set) })
}

func (s *Server) handleExportGuide(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		http.Error(w, "invalid guide index", http.StatusBadRequest)
		return
	}
	exp, ok := s.exporter(w, r)
	if !ok {
		return
	}
	set, err := s.store.GetGuideSet(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	if index >= len(set.Guides) {
		http.Error(w, "guide not found", http.StatusNotFound)
		return
	}
	guide := set.Guides[index]
	s.writeOPML(w, func() (string, error) {
		doc, err := exp.ExportGuide(guide)
		if err != nil {
			return "", err
		}
		return doc.WriteToString()
	})
}

func (s *Server) exporter(w http.ResponseWriter, r *http.Request) (*opml.Exporter, bool) {
	q := r.URL.Query()
	extended := s.opts.Extended
	if v := strings.TrimSpace(q.Get("basic")); v != "" {
		basic, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, "invalid basic flag", http.StatusBadRequest)
			return nil, false
		}
		extended = !basic
	}
	exp, err := opml.NewExporter(opml.Dialect(q.Get("dialect")), opml.ExportOptions{
		Extended:  extended,
		Generator: s.opts.Generator,
		Now:       s.opts.Now,
		Indent:    2,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return exp, true
}

func (s *Server) writeOPML(w http.ResponseWriter, render func() (string, error)) {
	out, err := render()
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", opmlContentType)
	_, _ = w.Write([]byte(out))
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "guide set not found", http.StatusNotFound)
		return
	}
	s.log.Error("request failed", zap.Error(err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
