// Package chart renders the blood pressure line chart with go-echarts.
//
// Every call produces a complete, self-contained chart document with its own
// chart id, so a re-render never reuses an earlier chart instance.
package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/google/uuid"

	"github.com/okian/pulse/internal/domain/dashboard"
)

// Series names and colours.
const (
	SystolicName   = "Systolic"
	DiastolicName  = "Diastolic"
	SystolicColor  = "#E66FD2"
	DiastolicColor = "#8C6FE6"
)

const defaultTitle = "Blood Pressure"

type config struct {
	title      string
	chartID    string
	assetsHost string
	width      string
	height     string
}

// Option applies a configuration option to a render.
type Option func(*config)

// WithTitle sets the document title.
func WithTitle(title string) Option {
	return func(c *config) {
		if title != "" {
			c.title = title
		}
	}
}

// WithChartID fixes the chart element id instead of generating one.
func WithChartID(id string) Option {
	return func(c *config) {
		if id != "" {
			c.chartID = id
		}
	}
}

// WithAssetsHost points the document at a self-hosted echarts bundle.
func WithAssetsHost(host string) Option {
	return func(c *config) {
		if host != "" {
			c.assetsHost = host
		}
	}
}

// WithSize sets the CSS width and height of the chart element.
func WithSize(width, height string) Option {
	return func(c *config) {
		if width != "" {
			c.width = width
		}
		if height != "" {
			c.height = height
		}
	}
}

// New builds the line chart for bp without rendering it.
func New(bp dashboard.BloodPressureChart, options ...Option) *charts.Line {
	cfg := config{
		title:  defaultTitle,
		width:  "100%",
		height: "300px",
	}
	for _, opt := range options {
		opt(&cfg)
	}
	if cfg.chartID == "" {
		cfg.chartID = "bp-" + uuid.NewString()
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts(cfg)),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithYAxisOpts(opts.YAxis{Min: bp.YMin, Max: bp.YMax}),
	)

	line.SetXAxis(bp.Labels).
		AddSeries(SystolicName, lineData(bp.Systolic), seriesOpts(SystolicColor)...).
		AddSeries(DiastolicName, lineData(bp.Diastolic), seriesOpts(DiastolicColor)...)

	return line
}

// Render writes the chart document for bp to w.
func Render(w io.Writer, bp dashboard.BloodPressureChart, options ...Option) error {
	if err := New(bp, options...).Render(w); err != nil {
		return fmt.Errorf("render blood pressure chart: %w", err)
	}
	return nil
}

func initOpts(cfg config) opts.Initialization {
	initialization := opts.Initialization{
		PageTitle: cfg.title,
		ChartID:   cfg.chartID,
		Width:     cfg.width,
		Height:    cfg.height,
	}
	if cfg.assetsHost != "" {
		initialization.AssetsHost = cfg.assetsHost
	}
	return initialization
}

func seriesOpts(color string) []charts.SeriesOpts {
	return []charts.SeriesOpts{
		charts.WithLineChartOpts(opts.LineChart{
			Smooth:     opts.Bool(true),
			ShowSymbol: opts.Bool(true),
		}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: color, Width: 2}),
	}
}

func lineData(values []float64) []opts.LineData {
	data := make([]opts.LineData, 0, len(values))
	for _, v := range values {
		data = append(data, opts.LineData{Value: v})
	}
	return data
}
