package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/okian/skillswap/internal/domain/model"
	"github.com/okian/skillswap/internal/domain/types"
	"github.com/okian/skillswap/pkg/metrics"
)

// MatchDependencies defines the match operations used by the handlers.
type MatchDependencies interface {
	GenerateMatches(ctx context.Context, userID string) (types.GenerateReport, error)
	RequestRegeneration(ctx context.Context, userID string) (types.Ack, error)
	UserMatches(ctx context.Context, userID string, limit int) ([]model.Match, error)
}

// MatchesHandler handles match generation and listing.
type MatchesHandler struct {
	deps     MatchDependencies
	limiter  *rate.Limiter
	maxLimit int
}

// NewMatchesHandler creates a new matches handler. A nil limiter disables rate limiting.
func NewMatchesHandler(deps MatchDependencies, limiter *rate.Limiter, maxLimit int) *MatchesHandler {
	return &MatchesHandler{deps: deps, limiter: limiter, maxLimit: maxLimit}
}

type ackResponse struct {
	Status string `json:"status"`
	UserID string `json:"user_id"`
}

// HandleGenerate handles POST /matches/{user_id}/generate requests.
// With ?async=true the request is queued and answered with 202.
func (h *MatchesHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	const op = "api.generate_matches"
	userID := r.PathValue("user_id")

	if h.limiter != nil && !h.limiter.Allow() {
		metrics.RecordRateLimited("generate")
		writeError(w, http.StatusTooManyRequests, "rate_limited", NewKind(op, ErrRateLimited))
		return
	}

	async, err := parseBool(r.URL.Query().Get("async"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if async {
		ack, err := h.deps.RequestRegeneration(r.Context(), userID)
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		writeJSON(w, http.StatusAccepted, ackResponse{Status: ack.Status(), UserID: ack.UserID})
		return
	}

	report, err := h.deps.GenerateMatches(r.Context(), userID)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// HandleList handles GET /matches/{user_id}?limit=N requests.
func (h *MatchesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_matches"
	limit := h.maxLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if h.maxLimit > 0 && n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}
	ms, err := h.deps.UserMatches(r.Context(), r.PathValue("user_id"), limit)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ms)
}

func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, errors.New("async must be a boolean")
	}
	return b, nil
}
