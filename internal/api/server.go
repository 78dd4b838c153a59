package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/quimicadatos/cuadro-search/internal/catalog"
	"github.com/quimicadatos/cuadro-search/internal/indexer"
	"github.com/quimicadatos/cuadro-search/internal/metrics"
	"github.com/quimicadatos/cuadro-search/internal/search"
)

type Server struct {
	Search  *search.Engine
	Indexer *indexer.Indexer
	Metrics *metrics.Metrics
	Logger  *logrus.Entry
	Router  chi.Router

	httpServer *http.Server
}

func NewServer(eng *search.Engine, ix *indexer.Indexer, m *metrics.Metrics, logger *logrus.Entry) *Server {
	if logger == nil {
		logger = logrus.WithField("component", "api")
	}
	s := &Server{
		Search:  eng,
		Indexer: ix,
		Metrics: m,
		Logger:  logger,
		Router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.Use(middleware.RequestID)
	s.Router.Use(middleware.Recoverer)
	s.Router.Use(s.requestLogger)

	s.Router.Get("/api/v1/search", s.handleSearch)
	s.Router.Get("/api/v1/status", s.handleStatus)
	s.Router.Post("/api/v1/reindex", s.handleReindex)
	s.Router.Get("/api/v1/groups", s.handleGroups)
	s.Router.Method(http.MethodGet, "/metrics", s.Metrics.Handler())
}

func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.Logger.Infof("Starting API Server on %s", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Responses
type ErrorResponse struct {
	Error string `json:"error"`
}

type SearchResponse struct {
	Query    string             `json:"query"`
	Count    int                `json:"count"`
	Indexing bool               `json:"indexing"`
	Results  []SearchResultView `json:"results"`
}

// SearchResultView is one result as the presentation layer renders it. The
// snippet is an HTML fragment with escaped text and <mark> highlights.
type SearchResultView struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	SourceRef string `json:"source_ref"`
	Score     int    `json:"score"`
	Snippet   string `json:"snippet"`
}

type StatusResponse struct {
	indexer.Stats
	Indexed int `json:"indexed"`
}

type GroupsResponse struct {
	Groups []GroupView `json:"groups"`
}

type GroupView struct {
	catalog.Group
	SourceRef string `json:"source_ref"`
}

// Handlers

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	hits := s.Search.Search(query)
	s.Metrics.Searched(len(hits))

	response := SearchResponse{
		Query:    query,
		Count:    len(hits),
		Indexing: s.Indexer != nil && s.Indexer.IsIndexing(),
		Results:  make([]SearchResultView, len(hits)),
	}
	for i, hit := range hits {
		response.Results[i] = SearchResultView{
			ID:        hit.Document.ID,
			Label:     hit.Document.Label,
			SourceRef: hit.Document.SourceRef,
			Score:     hit.Score,
			Snippet:   hit.Snippet,
		}
	}

	s.jsonResponse(w, http.StatusOK, response)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{Indexed: s.Search.Len()}
	if s.Indexer != nil {
		resp.Stats = s.Indexer.Stats()
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	if s.Indexer == nil {
		s.jsonResponse(w, http.StatusServiceUnavailable, ErrorResponse{Error: "indexer not configured"})
		return
	}

	if err := s.Indexer.Start(); err != nil {
		if errors.Is(err, indexer.ErrAlreadyIndexing) {
			s.jsonResponse(w, http.StatusConflict, ErrorResponse{Error: err.Error()})
			return
		}
		s.jsonResponse(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	s.jsonResponse(w, http.StatusAccepted, map[string]string{"status": "indexing_started"})
}

func (s *Server) handleGroups(w http.ResponseWriter, r *http.Request) {
	resp := GroupsResponse{Groups: make([]GroupView, 0)}
	if s.Indexer != nil {
		for _, g := range s.Indexer.Groups {
			resp.Groups = append(resp.Groups, GroupView{Group: g, SourceRef: s.Indexer.SourceRef(g)})
		}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.Logger.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("Request served")
	})
}

func (s *Server) jsonResponse(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		s.Logger.WithError(err).Error("Failed to encode response")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		s.Logger.WithError(err).Debug("Failed to write response")
	}
}
