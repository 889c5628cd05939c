// Package api is the pipeline's outbound HTTP/JSON surface: profiles,
// stats, search, and rag endpoints over the core's storage and
// retrieval handles. It is deliberately thin — payment flows,
// richer REST conventions, and a router framework are an external
// collaborator's concern, not this core's.
package api

import (
	"net/http"
	"time"

	"github.com/snaprag/snaprag/pkg/lifecycle"
	"github.com/snaprag/snaprag/pkg/log"
	"github.com/snaprag/snaprag/pkg/retrieval"
	"github.com/snaprag/snaprag/pkg/storage"
)

// Server wraps the storage and retrieval handles the HTTP surface
// needs and produces a http.Handler via Mux.
type Server struct {
	store     storage.Store
	retrieval *retrieval.Engine
	lockPath  string
}

// NewServer builds a Server. lockPath is the lifecycle lockfile the
// /healthz handler reads to report progress; empty uses lifecycle.DefaultPath.
func NewServer(store storage.Store, eng *retrieval.Engine, lockPath string) *Server {
	return &Server{store: store, retrieval: eng, lockPath: lockPath}
}

// Mux builds the routes. Each handler is wrapped with a request
// logger and a panic-to-500 recoverer, mirroring the interceptor chain
// the teacher's gRPC server used for auth/logging.
func (s *Server) Mux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /profiles/{fid}", s.handleGetProfile)
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("GET /search/casts", s.handleSearchCasts)
	mux.HandleFunc("GET /search/profiles", s.handleSearchProfiles)
	mux.HandleFunc("POST /rag", s.handleRAG)
	return withMiddleware(mux)
}

func withMiddleware(next http.Handler) http.Handler {
	accessLog := log.WithComponent("api")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		defer func() {
			if rec := recover(); rec != nil {
				accessLog.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("handler panicked")
				writeError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
		accessLog.Debug().Str("method", r.Method).Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).Msg("request handled")
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	state, err := lifecycle.Read(s.lockPath)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "no running pipeline lock found")
		return
	}
	writeJSON(w, http.StatusOK, state)
}
