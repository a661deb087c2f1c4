// Package service owns the dashboard's application state: the loaded patient
// collection, the selection slot and the load error. It implements the
// dependencies required by the HTTP adapters and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/pulse/internal/adapters/repository"
	"github.com/okian/pulse/internal/adapters/upstream"
	"github.com/okian/pulse/internal/domain/dashboard"
	"github.com/okian/pulse/internal/domain/patient"
	"github.com/okian/pulse/pkg/logger"
	"github.com/okian/pulse/pkg/metrics"
)

// Service implements the dashboard operations.
type Service struct {
	mu sync.RWMutex

	// Core components
	store  repository.Store
	source upstream.Source

	// Configuration
	chart dashboard.ChartConfig

	// State
	started   bool
	selected  int
	loadErr   *dashboard.LoadError
	loadedAt  time.Time
	loadCount int

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSource sets where the patient collection is loaded from.
func WithSource(src upstream.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithStore sets the patient store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithChartConfig sets the chart labels and vertical axis range.
func WithChartConfig(cfg dashboard.ChartConfig) Option {
	return func(s *Service) {
		if len(cfg.Labels) > 0 {
			s.chart.Labels = cfg.Labels
		}
		if cfg.YMax > cfg.YMin {
			s.chart.YMin = cfg.YMin
			s.chart.YMax = cfg.YMax
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		store: repository.NewInMemoryStore(),
		chart: dashboard.DefaultChartConfig(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start runs the bootstrap once. A failed load does not fail start-up: the service
// stays in the load-failed state, which the page shows as a blocking alert.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.source == nil {
		s.source = upstream.New()
	}
	s.started = true
	s.mu.Unlock()

	s.logger.Info(ctx, "starting dashboard service...")

	if err := s.Bootstrap(ctx); err != nil {
		s.logger.Warn(ctx, "dashboard started without patient data", logger.Error(err))
		return nil
	}

	s.logger.Info(ctx, "dashboard service started", logger.Int("patients", s.store.Count(ctx)))
	return nil
}

// Stop releases the service state.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

// Bootstrap awaits one load from the source. On success the collection is replaced
// and patient 0 is selected. On failure the collection is emptied and the load error
// is recorded; nothing is partially rendered.
func (s *Service) Bootstrap(ctx context.Context) error {
	s.mu.RLock()
	src, log := s.source, s.logger
	s.mu.RUnlock()
	if src == nil {
		src = upstream.New()
	}
	if log == nil {
		log = logger.Get()
	}

	var res upstream.Result
	select {
	case r, ok := <-src.Load(ctx):
		if !ok {
			r = upstream.Result{Err: ErrNoResult}
		}
		res = r
	case <-ctx.Done():
		res = upstream.Result{Err: ctx.Err()}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadCount++

	if !res.OK() {
		loadErr := res.Err
		if err := s.store.Replace(ctx, nil); err != nil {
			loadErr = errors.Join(loadErr, fmt.Errorf("clear patients: %w", err))
		}
		s.selected = 0
		s.loadErr = &dashboard.LoadError{StatusCode: res.StatusCode, Message: dashboard.LoadErrorMessage}
		metrics.RecordBootstrap("failed")
		log.Error(ctx, dashboard.LoadErrorMessage,
			logger.Int("status", res.StatusCode),
			logger.Error(loadErr),
		)
		return fmt.Errorf("%w: %w", ErrLoadFailed, loadErr)
	}

	if err := s.store.Replace(ctx, res.Patients); err != nil {
		s.loadErr = &dashboard.LoadError{StatusCode: res.StatusCode, Message: dashboard.LoadErrorMessage}
		metrics.RecordBootstrap("failed")
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	s.selected = 0
	s.loadErr = nil
	s.loadedAt = time.Now()
	metrics.RecordBootstrap("ok")
	log.Info(ctx, "patient collection loaded", logger.Int("count", len(res.Patients)))
	return nil
}

// Reload re-runs the bootstrap on explicit request.
func (s *Service) Reload(ctx context.Context) error {
	return s.Bootstrap(ctx)
}

// Page returns the list with the current selection and its detail, or the load
// error with no entries.
func (s *Service) Page(ctx context.Context) (dashboard.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.pageLocked(ctx)
}

func (s *Service) pageLocked(ctx context.Context) (dashboard.Page, error) {
	if s.loadErr != nil {
		return dashboard.FailedPage(s.loadErr.StatusCode), nil
	}
	patients, err := s.store.List(ctx)
	if err != nil {
		return dashboard.Page{}, err
	}
	return dashboard.BuildPage(patients, s.selected, s.chart), nil
}

// Select moves the selection slot to index and returns the re-rendered page.
// Returns repository.ErrIndexOutOfRange for an index outside the collection.
func (s *Service) Select(ctx context.Context, index int) (dashboard.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.selectLocked(ctx, index); err != nil {
		return dashboard.Page{}, err
	}
	return s.pageLocked(ctx)
}

// SelectDetail moves the selection slot to index and returns only the detail
// component of the newly selected patient.
func (s *Service) SelectDetail(ctx context.Context, index int) (dashboard.Detail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.selectLocked(ctx, index)
	if err != nil {
		return dashboard.Detail{}, err
	}
	return dashboard.BuildDetail(index, p, s.chart), nil
}

func (s *Service) selectLocked(ctx context.Context, index int) (patient.Patient, error) {
	p, err := s.store.Get(ctx, index)
	if err != nil {
		return patient.Patient{}, err
	}
	s.selected = index
	metrics.RecordSelection()
	if s.logger != nil {
		s.logger.Debug(ctx, "patient selected", logger.Int("index", index), logger.String("name", p.Name))
	}
	return p, nil
}

// Detail returns the detail view of the patient at index without changing the selection.
func (s *Service) Detail(ctx context.Context, index int) (dashboard.Detail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.store.Get(ctx, index)
	if err != nil {
		return dashboard.Detail{}, err
	}
	return dashboard.BuildDetail(index, p, s.chart), nil
}

// Chart returns the blood pressure chart input for the patient at index.
func (s *Service) Chart(ctx context.Context, index int) (dashboard.BloodPressureChart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.store.Get(ctx, index)
	if err != nil {
		return dashboard.BloodPressureChart{}, err
	}
	return dashboard.BuildChart(p.DiagnosisHistory, s.chart), nil
}

// Patients returns the list entries with the current selection marked.
func (s *Service) Patients(ctx context.Context) ([]dashboard.ListEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	patients, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return dashboard.BuildList(patients, s.selected), nil
}

// Selected returns the index held by the selection slot.
func (s *Service) Selected() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// LoadError returns the error of the last load, or nil after a successful one.
func (s *Service) LoadError() *dashboard.LoadError {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.loadErr == nil {
		return nil
	}
	e := *s.loadErr
	return &e
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":   s.started,
		"patients":  s.store.Count(context.Background()),
		"selected":  s.selected,
		"loads":     s.loadCount,
		"loadError": s.loadErr != nil,
	}
	if !s.loadedAt.IsZero() {
		stats["loadedAt"] = s.loadedAt.UTC().Format(time.RFC3339)
	}
	return stats
}
