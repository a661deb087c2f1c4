// Package router assembles the HTTP surface: dashboard pages, JSON API, ops
// endpoints and API docs on one chi router.
package router

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/okian/pulse/internal/adapters/http/api"
	"github.com/okian/pulse/internal/adapters/http/site"
	"github.com/okian/pulse/internal/adapters/http/swagger"
	"github.com/okian/pulse/pkg/logger"
)

const defaultRequestTimeout = 30 * time.Second

// Dependencies is everything the routes read from the application service.
type Dependencies interface {
	site.Dependencies
	api.Dependencies
	api.StatsProvider
}

type config struct {
	timeout     time.Duration
	apiOptions  []api.Option
	siteOptions []site.Option
	logger      logger.Logger
}

// Option applies a configuration option to the router.
type Option func(*config)

// WithRequestTimeout bounds every request.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithAPIOptions forwards options to the API server.
func WithAPIOptions(opts ...api.Option) Option {
	return func(c *config) {
		c.apiOptions = append(c.apiOptions, opts...)
	}
}

// WithSiteOptions forwards options to the page handler.
func WithSiteOptions(opts ...site.Option) Option {
	return func(c *config) {
		c.siteOptions = append(c.siteOptions, opts...)
	}
}

// WithLogger sets the access logger.
func WithLogger(l logger.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// New builds the router with all routes registered.
func New(ctx context.Context, deps Dependencies, opts ...Option) (http.Handler, error) {
	cfg := config{timeout: defaultRequestTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logger.Named("http")
	}

	pages, err := site.NewHandler(deps, cfg.siteOptions...)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(RequestID)
	r.Use(AccessLog(cfg.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.timeout))

	api.NewServer(deps, deps, cfg.apiOptions...).Register(ctx, r)
	swagger.Register(ctx, r)
	pages.Register(ctx, r)

	return r, nil
}
