package api

import (
	"net/http"

	"github.com/okian/pulse/internal/domain/dashboard"
	"github.com/okian/pulse/pkg/logger"
)

// PatientsHandler serves the read-only patient views.
type PatientsHandler struct {
	deps Dependencies
}

// NewPatientsHandler creates a new patients handler.
func NewPatientsHandler(deps Dependencies) *PatientsHandler {
	return &PatientsHandler{deps: deps}
}

type patientsResponse struct {
	Patients []dashboard.ListEntry `json:"patients"`
	Count    int                   `json:"count"`
}

// HandleList handles GET /api/patients.
func (h *PatientsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if h.deps.LoadError() != nil {
		writeError(w, http.StatusServiceUnavailable, "load_failed", ErrLoadFailed)
		return
	}
	entries, err := h.deps.Patients(r.Context())
	if err != nil {
		logger.Get().Error(r.Context(), "list patients failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", nil)
		return
	}
	writeJSON(w, http.StatusOK, patientsResponse{Patients: entries, Count: len(entries)})
}

// HandleGet handles GET /api/patients/{index}. The selection is not changed.
func (h *PatientsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	index, err := parseIndex(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	detail, err := h.deps.Detail(r.Context(), index)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		logger.Get().Error(r.Context(), "patient detail failed", logger.Int("index", index), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", nil)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
