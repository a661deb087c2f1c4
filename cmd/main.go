package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/pulse/internal/adapters/chart"
	"github.com/okian/pulse/internal/adapters/upstream"
	app "github.com/okian/pulse/internal/app"
	"github.com/okian/pulse/internal/config"
	"github.com/okian/pulse/internal/domain/dashboard"
	"github.com/okian/pulse/pkg/logger"
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "pulse",
		Short:        "Patient dashboard service",
		SilenceUsage: true,
	}
	root.AddCommand(serveCmd())
	root.AddCommand(renderCmd())
	return root
}

// loadConfig loads configuration and applies the configured log level
// (fallback to info on invalid input).
func loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, nil
}

// newService builds the application service from configuration.
func newService(cfg *config.Config) *app.Service {
	source := upstream.New(
		upstream.WithURL(cfg.UpstreamURL),
		upstream.WithCredentials(cfg.UpstreamUsername, cfg.UpstreamPassword),
		upstream.WithTimeout(cfg.UpstreamTimeout()),
	)
	return app.New(
		app.WithLogger(logger.Get()),
		app.WithSource(source),
		app.WithChartConfig(chartConfig(cfg)),
	)
}

func chartConfig(cfg *config.Config) dashboard.ChartConfig {
	return dashboard.ChartConfig{
		Labels: cfg.ChartLabels,
		YMin:   cfg.ChartYMin,
		YMax:   cfg.ChartYMax,
	}
}

func chartOptions(cfg *config.Config) []chart.Option {
	return []chart.Option{
		chart.WithAssetsHost(cfg.AssetsHost),
		chart.WithSize(cfg.ChartWidth, cfg.ChartHeight),
	}
}
