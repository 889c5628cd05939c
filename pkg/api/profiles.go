package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/snaprag/snaprag/pkg/storage"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	fid, err := strconv.ParseUint(r.PathValue("fid"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "fid must be a positive integer")
		return
	}

	profile, err := s.store.GetProfile(r.Context(), fid)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
