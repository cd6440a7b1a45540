package main

import (
	"context"
	stderrors "errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"polysynth/domain/core"
	"polysynth/internal/container"
	"polysynth/internal/errors"
	"polysynth/internal/report"

	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate every enabled dataset variant",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return generate(ctx, cmd)
		},
	}
}

func generate(ctx context.Context, cmd *cobra.Command) error {
	c, err := container.New(cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	if cfg.Catalog.DatabaseURL != "" {
		if err := c.Connect(ctx); err != nil {
			return err
		}
	}

	logger.Info("Generating %d run(s) of %d rows from base seed %d", cfg.Runs, cfg.Rows, c.Seed)

	var runErrs []error
	for i := 1; i <= cfg.Runs; i++ {
		seq := 0
		if cfg.Runs > 1 {
			seq = i
		}
		execID := core.NewExecutionID(time.Now(), seq)

		logger.Debug("Run %s uses seed %d", execID, c.RunSeed(i))
		result, err := c.Generator(i).Run(ctx, execID)
		if result != nil {
			if renderErr := report.RenderRun(cmd.OutOrStdout(), result.Manifest); renderErr != nil {
				logger.Warn("Failed to render summary: %v", renderErr)
			}
			logger.Info("Manifest written to %s", result.ManifestPath)
		}
		if err != nil {
			if core.IsRunFatal(err) || ctx.Err() != nil {
				return err
			}
			logger.Error("Run %s finished with failures: %v", execID, err)
			runErrs = append(runErrs, err)
		}
	}

	if len(runErrs) > 0 {
		return errors.WithCode(errors.GetCode(runErrs[0]), stderrors.Join(runErrs...))
	}
	return nil
}
