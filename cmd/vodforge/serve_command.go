package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"vodforge/internal/catalog"
	"vodforge/internal/daemon"
	"vodforge/internal/logging"
	"vodforge/internal/pipeline"
	"vodforge/internal/preflight"
	"vodforge/internal/storage"
	"vodforge/internal/tasks"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the transcoding daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			level := logLevel
			if level == "" {
				level = cfg.Logging.Level
			}
			logger, err := logging.New(logging.Options{
				Level:  level,
				Format: cfg.Logging.Format,
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			for _, check := range preflight.RunAll(cfg) {
				if !check.Passed {
					logger.Warn("preflight check failed",
						logging.String("check", check.Name),
						logging.String("detail", check.Detail),
					)
				}
			}

			store, err := catalog.Open(cfg)
			if err != nil {
				return err
			}
			local, err := storage.NewLocal(cfg.Paths.LibraryDir)
			if err != nil {
				return err
			}
			tracker := tasks.NewTracker()
			orch, err := pipeline.New(pipeline.Options{
				Config:  cfg,
				Logger:  logger,
				Catalog: store,
				Storage: local,
				Tracker: tracker,
			})
			if err != nil {
				return err
			}
			d, err := daemon.New(cfg, store, tracker, orch, logger)
			if err != nil {
				return err
			}
			defer d.Close()

			signalCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := d.Start(signalCtx); err != nil {
				return err
			}
			<-signalCtx.Done()
			d.Stop()
			return nil
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "", "Override the configured log level")
	return cmd
}
