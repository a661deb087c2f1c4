// Package api declares the JSON and operational HTTP routes.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"

	"github.com/okian/pulse/internal/adapters/http/httpmetrics"
	"github.com/okian/pulse/internal/adapters/repository"
	"github.com/okian/pulse/internal/domain/dashboard"
)

const defaultRateLimit = 50

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Patients returns the list entries with the selection marker.
	Patients(ctx context.Context) ([]dashboard.ListEntry, error)
	// Detail returns the detail view of one patient without selecting it.
	Detail(ctx context.Context, index int) (dashboard.Detail, error)
	// Reload re-fetches the collection.
	Reload(ctx context.Context) error
	// LoadError is non-nil while the last load failed.
	LoadError() *dashboard.LoadError
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	patientsHandler *PatientsHandler
	reloadHandler   *ReloadHandler

	rateLimit      int
	allowedOrigins []string
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithRateLimit sets the per-IP request budget per second for /api routes.
func WithRateLimit(perSecond int) Option {
	return func(s *Server) {
		if perSecond > 0 {
			s.rateLimit = perSecond
		}
	}
}

// WithAllowedOrigins sets the CORS origins of /api routes.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.allowedOrigins = origins
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		patientsHandler: NewPatientsHandler(deps),
		reloadHandler:   NewReloadHandler(deps),
		rateLimit:       defaultRateLimit,
		allowedOrigins:  []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	if r == nil {
		panic("router is nil")
	}

	r.Get("/healthz", httpmetrics.Middleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/stats", httpmetrics.Middleware(s.statsHandler.HandleStats, "stats"))

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
		r.Use(httprate.LimitByIP(s.rateLimit, time.Second))

		r.Get("/patients", httpmetrics.Middleware(s.patientsHandler.HandleList, "patients"))
		r.Get("/patients/{index}", httpmetrics.Middleware(s.patientsHandler.HandleGet, "patient"))
		r.Post("/reload", httpmetrics.Middleware(s.reloadHandler.HandleReload, "reload"))
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// parseIndex reads the {index} URL parameter.
func parseIndex(r *http.Request) (int, error) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		return 0, ErrBadIndex
	}
	return index, nil
}

// isNotFound translates store lookups outside the collection to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrIndexOutOfRange)
}
