// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and PULSE_ environment variables.
// - External errors are wrapped with this package's sentinel errors.
package config

import "time"

// Default upstream settings for the patient API.
const (
	DefaultUpstreamURL      = "https://fedskillstest.coalitiontechnologies.workers.dev"
	DefaultUpstreamUsername = "coalition"
	DefaultUpstreamPassword = "skills-test"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// UpstreamURL is the patient collection endpoint.
	UpstreamURL string `koanf:"upstream_url" validate:"required,url"`

	// UpstreamUsername and UpstreamPassword form the Basic credential.
	UpstreamUsername string `koanf:"upstream_username"`
	UpstreamPassword string `koanf:"upstream_password"`

	// UpstreamTimeoutMS bounds the single fetch.
	UpstreamTimeoutMS int `koanf:"upstream_timeout_ms" validate:"gt=0"`

	// ChartLabels are the fixed x-axis labels of the blood pressure chart.
	ChartLabels []string `koanf:"chart_labels" validate:"len=6,dive,required"`

	// ChartYMin and ChartYMax clamp the chart's vertical axis.
	ChartYMin float64 `koanf:"chart_y_min"`
	ChartYMax float64 `koanf:"chart_y_max" validate:"gtfield=ChartYMin"`

	// RateLimitPerSecond caps API requests per client IP.
	RateLimitPerSecond int `koanf:"rate_limit_per_second" validate:"gt=0"`

	// CORSAllowedOrigins lists origins allowed to call the JSON API.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// ChartWidth and ChartHeight size the chart element (CSS lengths).
	ChartWidth  string `koanf:"chart_width" validate:"required"`
	ChartHeight string `koanf:"chart_height" validate:"required"`

	// AssetsHost overrides where chart documents load echarts from. Empty keeps the library default.
	AssetsHost string `koanf:"assets_host" validate:"omitempty,url"`
}

// UpstreamTimeout returns the fetch timeout as a duration.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutMS) * time.Millisecond
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9080",
		UpstreamURL:        DefaultUpstreamURL,
		UpstreamUsername:   DefaultUpstreamUsername,
		UpstreamPassword:   DefaultUpstreamPassword,
		UpstreamTimeoutMS:  15_000,
		ChartLabels:        []string{"Oct,2023", "Nov,2023", "Dec,2023", "Jan,2024", "Feb,2024", "Mar,2024"},
		ChartYMin:          60,
		ChartYMax:          180,
		ChartWidth:         "100%",
		ChartHeight:        "300px",
		RateLimitPerSecond: 50,
		CORSAllowedOrigins: []string{"*"},
	}
}
