package api

import (
	"net/http"

	"github.com/okian/pulse/pkg/logger"
)

// ReloadHandler re-runs the collection load on explicit request.
type ReloadHandler struct {
	deps Dependencies
}

// NewReloadHandler creates a new reload handler.
func NewReloadHandler(deps Dependencies) *ReloadHandler {
	return &ReloadHandler{deps: deps}
}

type reloadResponse struct {
	Status   string `json:"status"`
	Patients int    `json:"patients"`
}

// HandleReload handles POST /api/reload.
func (h *ReloadHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.deps.Reload(ctx); err != nil {
		logger.Get().Warn(ctx, "reload failed", logger.Error(err))
		writeError(w, http.StatusBadGateway, "upstream_error", err)
		return
	}
	entries, err := h.deps.Patients(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", nil)
		return
	}
	writeJSON(w, http.StatusOK, reloadResponse{Status: "ok", Patients: len(entries)})
}
