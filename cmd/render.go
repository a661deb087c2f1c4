package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/pulse/internal/adapters/http/site"
	"github.com/okian/pulse/internal/domain/dashboard"
	"github.com/okian/pulse/pkg/logger"
)

// errLoad reports a failed patient load with the same text as the page alert.
var errLoad = errors.New(dashboard.LoadErrorMessage)

func renderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Load the patient collection and write a standalone page for one patient",
		RunE: func(cmd *cobra.Command, _ []string) error {
			index, _ := cmd.Flags().GetInt("index")
			out, _ := cmd.Flags().GetString("out")
			title, _ := cmd.Flags().GetString("title")

			if out == "" || out == "-" {
				return runRender(cmd.Context(), cmd.ErrOrStderr(), cmd.OutOrStdout(), index, title)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := runRender(cmd.Context(), cmd.ErrOrStderr(), f, index, title); err != nil {
				_ = f.Close()
				_ = os.Remove(out)
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().Int("index", 0, "Zero-based position of the patient to select")
	cmd.Flags().String("out", "", "Output file (stdout when empty)")
	cmd.Flags().String("title", "", "Page title")
	return cmd
}

func runRender(ctx context.Context, logw, w io.Writer, index int, title string) error {
	// Logs go to stderr so stdout carries only the page.
	if err := logger.InitWithWriter(logw); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	svc := newService(cfg)
	if err := svc.Bootstrap(ctx); err != nil {
		return fmt.Errorf("%w: %w", errLoad, err)
	}

	page, err := svc.Select(ctx, index)
	if err != nil {
		return err
	}

	renderer, err := site.NewRenderer(site.WithTitle(title))
	if err != nil {
		return err
	}
	return renderer.Standalone(w, page, chartOptions(cfg)...)
}
