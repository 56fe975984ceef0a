//
// Tencent is pleased to support the open source community by making trpc-solr-gateway available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-solr-gateway is licensed under the Apache License Version 2.0.
//
//

// Package server exposes the search service over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"trpc.group/trpc-go/trpc-solr-gateway/log"
	"trpc.group/trpc-go/trpc-solr-gateway/search"
)

const (
	requestIDHeader = "X-Request-ID"

	defaultShutdownTimeout = 10 * time.Second
	maxRequestBodyBytes    = 1 << 20
)

// Searcher is the service surface the server fronts.
type Searcher interface {
	Search(ctx context.Context, req *search.SearchRequest) (*search.SearchResponse, error)
}

// Server serves the search API over HTTP with JSON bodies.
type Server struct {
	searcher Searcher
	router   *mux.Router
	http     *http.Server

	corsOrigins []string
}

// Option configures the Server instance.
type Option func(*Server)

// WithCORSOrigins sets the allowed CORS origins. Defaults to none.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) { s.corsOrigins = origins }
}

// New creates a server for the given search service.
func New(searcher Searcher, opts ...Option) *Server {
	s := &Server{
		searcher: searcher,
		router:   mux.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/v1/search", s.handleSearch).Methods(http.MethodPost)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
}

// Handler returns the full middleware-wrapped handler, exported for tests.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.router
	if len(s.corsOrigins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins: s.corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Content-Type", requestIDHeader},
		}).Handler(handler)
	}
	return handler
}

// Start serves on addr and blocks until ctx is cancelled, then drains
// in-flight requests before returning.
func (s *Server) Start(ctx context.Context, addr string) error {
	s.http = &http.Server{Addr: addr, Handler: s.Handler()}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("http server listening on %s", addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	log.Info("http server shutting down")
	return s.http.Shutdown(shutdownCtx)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	w.Header().Set(requestIDHeader, requestID)

	var req search.SearchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, requestID, search.WrapError(search.KindInvalidArgument, err, "malformed request body"))
		return
	}

	resp, err := s.searcher.Search(r.Context(), &req)
	if err != nil {
		s.writeError(w, requestID, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorBody struct {
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	RequestID string `json:"requestId"`
}

func (s *Server) writeError(w http.ResponseWriter, requestID string, err error) {
	kind := search.KindOf(err)
	log.Warnf("request %s failed (%s): %v", requestID, kind, err)
	s.writeJSON(w, kind.HTTPStatus(), errorBody{
		Error:     err.Error(),
		Kind:      kind.String(),
		RequestID: requestID,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("write response: %v", err)
	}
}
