package api

import "net/http"

type statsResponse struct {
	Shards                []shardStat `json:"shards"`
	CastsWithoutEmbedding int64       `json:"casts_without_embedding"`
}

type shardStat struct {
	ShardID             uint32 `json:"shard_id"`
	LastProcessedHeight uint64 `json:"last_processed_height"`
	Status              string `json:"status"`
	Error               string `json:"error,omitempty"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	progress, err := s.store.AllSyncProgress(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	missing, err := s.store.CountCastsWithoutEmbeddings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := statsResponse{CastsWithoutEmbedding: missing}
	for _, p := range progress {
		stat := shardStat{
			ShardID:             p.ShardID,
			LastProcessedHeight: p.LastProcessedHeight,
			Status:              string(p.Status),
		}
		if p.ErrorMessage != nil {
			stat.Error = *p.ErrorMessage
		}
		resp.Shards = append(resp.Shards, stat)
	}
	writeJSON(w, http.StatusOK, resp)
}
