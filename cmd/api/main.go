package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"heartrisk/internal/api"
	"heartrisk/internal/artifact"
	"heartrisk/internal/config"
	"heartrisk/internal/inference"
	"heartrisk/internal/storage"
	"heartrisk/pkg/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		l := utils.CLILogger()
		l.Error("command failed", zap.Error(err))
		_ = l.Sync()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envDir string
	cmd := &cobra.Command{
		Use:           "api",
		Short:         "Serve heart-disease risk predictions over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), envDir)
		},
	}
	cmd.Flags().StringVar(&envDir, "env", ".", "directory holding the .env file")
	return cmd
}

func serve(ctx context.Context, envDir string) error {
	cfg, err := config.LoadConfig(envDir)
	if err != nil {
		return err
	}
	logger, err := utils.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	var opts []artifact.LoaderOption
	if cfg.Storage.Enabled() {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logger.Fatal("Failed to create storage client", zap.Error(err))
		}
		opts = append(opts, artifact.WithObjectSource(artifact.ObjectSource{Store: client}))
	}

	handle, err := artifact.NewLoader(opts...).Load(ctx, cfg.Model.Path)
	if err != nil {
		var le *artifact.LoadError
		if errors.As(err, &le) {
			logger.Fatal("Failed to load model",
				zap.String("path", cfg.Model.Path),
				zap.String("reason", string(le.Reason)),
				zap.Error(err),
			)
		}
		return err
	}
	meta := handle.Meta()
	logger.Info("Model loaded",
		zap.String("path", cfg.Model.Path),
		zap.String("kind", meta.Kind),
		zap.Float64("threshold", meta.Threshold),
		zap.Time("trained_at", meta.TrainedAt),
	)

	inv, err := inference.New(handle)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return api.NewServer(cfg.Server, inv, logger).Run(ctx)
}
