package api

import (
	"net/http"
	"strconv"

	"github.com/snaprag/snaprag/pkg/retrieval"
)

const defaultSearchK = 20

func parseSearchParams(r *http.Request) (mode retrieval.Mode, query string, k int) {
	mode = retrieval.Mode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = retrieval.ModeHybrid
	}
	query = r.URL.Query().Get("q")
	k = defaultSearchK
	if raw := r.URL.Query().Get("k"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			k = parsed
		}
	}
	return mode, query, k
}

func (s *Server) handleSearchCasts(w http.ResponseWriter, r *http.Request) {
	mode, query, k := parseSearchParams(r)
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	hits, err := s.retrieval.SearchCasts(r.Context(), mode, query, k, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, hits)
}

func (s *Server) handleSearchProfiles(w http.ResponseWriter, r *http.Request) {
	mode, query, k := parseSearchParams(r)
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	hits, err := s.retrieval.SearchProfiles(r.Context(), mode, query, k)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, hits)
}
