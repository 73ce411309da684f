// Package server exposes the resolver engine over a small HTTP facade so
// it can run as a sidecar for the web frontend.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/marketlens/logocache/internal/resolver"
)

// Server wires the resolver to HTTP handlers.
type Server struct {
	resolver *resolver.Resolver
	log      zerolog.Logger
}

// New creates a Server over the given resolver.
func New(r *resolver.Resolver, log zerolog.Logger) *Server {
	return &Server{resolver: r, log: log}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/logos/{symbol}", s.handleGetLogo)
	mux.HandleFunc("POST /v1/warm", s.handleWarm)
	mux.HandleFunc("POST /v1/invalidate", s.handleInvalidate)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	return s.logRequests(mux)
}

// warmRequest is the POST /v1/warm payload.
type warmRequest struct {
	Symbols []string `json:"symbols"`
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleGetLogo(w http.ResponseWriter, r *http.Request) {
	rec, err := s.resolver.Resolve(r.Context(), r.PathValue("symbol"))
	if err != nil {
		if errors.Is(err, resolver.ErrInvalidSymbol) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		// Context cancellation: the client has gone away.
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleWarm(w http.ResponseWriter, r *http.Request) {
	var req warmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}
	if len(req.Symbols) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "symbols cannot be empty"})
		return
	}

	if err := s.resolver.Warm(r.Context(), req.Symbols); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleInvalidate(w http.ResponseWriter, _ *http.Request) {
	s.resolver.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// logRequests emits one debug line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug().
			Str("component", "server").
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
