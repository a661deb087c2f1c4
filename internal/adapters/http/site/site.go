// Package site serves the server-rendered patient dashboard.
package site

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/okian/pulse/internal/adapters/chart"
	"github.com/okian/pulse/internal/adapters/http/httpmetrics"
	"github.com/okian/pulse/internal/adapters/repository"
	"github.com/okian/pulse/internal/domain/dashboard"
	"github.com/okian/pulse/pkg/logger"
	"github.com/okian/pulse/pkg/metrics"
)

// Error constants
var (
	ErrTemplate = errors.New("site templates unavailable")
	ErrRender   = errors.New("site render failed")
	ErrBadIndex = errors.New("patient index must be a non-negative integer")
)

// Dependencies required by the page handlers.
type Dependencies interface {
	Page(ctx context.Context) (dashboard.Page, error)
	Select(ctx context.Context, index int) (dashboard.Page, error)
	SelectDetail(ctx context.Context, index int) (dashboard.Detail, error)
	Chart(ctx context.Context, index int) (dashboard.BloodPressureChart, error)
}

// Handler serves the dashboard pages and components.
type Handler struct {
	deps      Dependencies
	renderer  *Renderer
	chartOpts []chart.Option
}

// Option applies a configuration option to the Handler.
type Option func(*Handler)

// WithRenderer replaces the default renderer.
func WithRenderer(r *Renderer) Option {
	return func(h *Handler) {
		if r != nil {
			h.renderer = r
		}
	}
}

// WithChartOptions sets options passed to every chart render.
func WithChartOptions(opts ...chart.Option) Option {
	return func(h *Handler) {
		h.chartOpts = append(h.chartOpts, opts...)
	}
}

// NewHandler creates the page handler.
func NewHandler(deps Dependencies, opts ...Option) (*Handler, error) {
	h := &Handler{deps: deps}
	for _, opt := range opts {
		opt(h)
	}
	if h.renderer == nil {
		r, err := NewRenderer()
		if err != nil {
			return nil, err
		}
		h.renderer = r
	}
	return h, nil
}

// Register attaches the dashboard routes to r.
func (h *Handler) Register(_ context.Context, r chi.Router) {
	if r == nil {
		panic("router is nil")
	}

	r.Get("/", httpmetrics.Middleware(h.HandlePage, "page"))
	r.Get("/patients/{index}", httpmetrics.Middleware(h.HandleSelect, "select"))
	r.Get("/patients/{index}/detail", httpmetrics.Middleware(h.HandleDetail, "detail"))
	r.Get("/patients/{index}/chart", httpmetrics.Middleware(h.HandleChart, "chart"))
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(FS())))
}

// HandlePage handles GET / with the current selection.
func (h *Handler) HandlePage(w http.ResponseWriter, r *http.Request) {
	page, err := h.deps.Page(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeHTML(w, r, func(buf *bytes.Buffer) error { return h.renderer.Page(buf, page) })
}

// HandleSelect handles GET /patients/{index}: selects the patient and renders the page.
func (h *Handler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	index, ok := h.index(w, r)
	if !ok {
		return
	}
	page, err := h.deps.Select(r.Context(), index)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeHTML(w, r, func(buf *bytes.Buffer) error { return h.renderer.Page(buf, page) })
}

// HandleDetail handles GET /patients/{index}/detail: selects the patient and renders
// only the detail component.
func (h *Handler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	index, ok := h.index(w, r)
	if !ok {
		return
	}
	d, err := h.deps.SelectDetail(r.Context(), index)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeHTML(w, r, func(buf *bytes.Buffer) error { return h.renderer.Detail(buf, d) })
}

// HandleChart handles GET /patients/{index}/chart with a fresh chart document.
func (h *Handler) HandleChart(w http.ResponseWriter, r *http.Request) {
	index, ok := h.index(w, r)
	if !ok {
		return
	}
	c, err := h.deps.Chart(r.Context(), index)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeHTML(w, r, func(buf *bytes.Buffer) error {
		if err := chart.Render(buf, c, h.chartOpts...); err != nil {
			metrics.RecordRenderError("chart")
			return err
		}
		return nil
	})
}

func (h *Handler) writeHTML(w http.ResponseWriter, r *http.Request, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		http.Error(w, ErrBadIndex.Error(), http.StatusBadRequest)
		return 0, false
	}
	return index, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repository.ErrIndexOutOfRange) {
		http.NotFound(w, r)
		return
	}
	logger.Get().Error(r.Context(), "dashboard render failed",
		logger.String("path", r.URL.Path),
		logger.Error(err),
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
