package server

import (
	"net/http"

	"github.com/kirankm/resume-ranker/internal/ranking"
	"github.com/kirankm/resume-ranker/internal/types"
	"go.uber.org/zap"
)

const rankRequiredMsg = "Job description and resumes are required"

// handleRankResumes scores resume texts against a job description.
func (s *Server) handleRankResumes(w http.ResponseWriter, r *http.Request) {
	var req types.RankRequest
	if err := decodeJSON(r, &req, s.maxJSONBytes); err != nil {
		if bodyTooLarge(err) {
			writeTooLarge(w, s.logger, s.maxJSONBytes)
			return
		}
		writeError(w, s.logger, http.StatusBadRequest, rankRequiredMsg)
		return
	}
	if req.Validate() != nil {
		writeError(w, s.logger, http.StatusBadRequest, rankRequiredMsg)
		return
	}

	ranked, err := ranking.Rank(req.JobDescription, req.Resumes)
	if err != nil {
		status := HTTPStatus(err)
		if status == http.StatusBadRequest {
			writeError(w, s.logger, status, rankRequiredMsg)
			return
		}
		s.logger.Error("ranking failed", zap.Error(err))
		writeError(w, s.logger, status, "internal server error")
		return
	}

	resp := types.RankResponse{RankedCandidates: make([]types.RankedCandidate, 0, len(ranked))}
	for _, c := range ranked {
		resp.RankedCandidates = append(resp.RankedCandidates, types.RankedCandidate{Name: c.Name, Score: c.Score})
	}
	writeJSON(w, s.logger, http.StatusOK, resp)
}
