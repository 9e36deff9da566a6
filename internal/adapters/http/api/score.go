package api

import (
	"encoding/json"
	"net/http"

	"github.com/okian/skillswap/internal/domain/scoring"
	"github.com/okian/skillswap/internal/domain/types"
)

// ScoreDependencies defines the stateless scoring operation.
type ScoreDependencies interface {
	Score(current, other types.ScoreInput) scoring.Result
}

// ScoreHandler handles stateless scoring requests.
type ScoreHandler struct {
	deps ScoreDependencies
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(deps ScoreDependencies) *ScoreHandler {
	return &ScoreHandler{deps: deps}
}

type scoreRequest struct {
	Current types.ScoreInput `json:"current"`
	Other   types.ScoreInput `json:"other"`
}

type scoreResponse struct {
	scoring.Result
	scoring.Label
}

// HandleScore handles POST /score requests.
func (h *ScoreHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.score"
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	res := h.deps.Score(req.Current, req.Other)
	writeJSON(w, http.StatusOK, scoreResponse{Result: res, Label: res.Tier.Label()})
}
