package api

import (
	"encoding/json"
	"net/http"
	"time"
)

type ragRequest struct {
	FID   uint64 `json:"fid"`
	Query string `json:"query"`
	K     int    `json:"k"`
}

type ragResponse struct {
	Context []ragCast `json:"context"`
}

type ragCast struct {
	MessageHash string  `json:"message_hash"`
	Text        string  `json:"text"`
	Score       float64 `json:"score"`
}

// handleRAG returns the ranked-context casts for the "ask as this
// user" feature. Prompt assembly and calling the configured LLM
// endpoint are an external collaborator's job; this endpoint only
// prepares the retrieval context.
func (s *Server) handleRAG(w http.ResponseWriter, r *http.Request) {
	var req ragRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	if req.K <= 0 {
		req.K = defaultSearchK
	}

	ranked, err := s.retrieval.RankCastsForUser(r.Context(), req.FID, req.Query, req.K, time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := ragResponse{Context: make([]ragCast, 0, len(ranked))}
	for _, rc := range ranked {
		resp.Context = append(resp.Context, ragCast{
			MessageHash: rc.Cast.Cast.MessageHash,
			Text:        rc.Cast.Cast.Text,
			Score:       rc.Score,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
