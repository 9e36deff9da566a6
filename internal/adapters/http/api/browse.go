package api

import (
	"context"
	"net/http"

	"github.com/okian/skillswap/internal/domain/types"
)

// BrowseDependencies lists other profiles with their stored scores.
type BrowseDependencies interface {
	Browse(ctx context.Context, userID string) ([]types.BrowseEntry, error)
}

// BrowseHandler handles browse requests.
type BrowseHandler struct {
	deps BrowseDependencies
}

// NewBrowseHandler creates a new browse handler.
func NewBrowseHandler(deps BrowseDependencies) *BrowseHandler {
	return &BrowseHandler{deps: deps}
}

// HandleBrowse handles GET /browse/{user_id} requests.
func (h *BrowseHandler) HandleBrowse(w http.ResponseWriter, r *http.Request) {
	entries, err := h.deps.Browse(r.Context(), r.PathValue("user_id"))
	if err != nil {
		writeServiceError(w, "api.browse", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
