package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"vodforge/internal/catalog"
	"vodforge/internal/logging"
	"vodforge/internal/pipeline"
	"vodforge/internal/storage"
	"vodforge/internal/tasks"
)

// transcode runs one job synchronously in-process, without the daemon.
// Useful for batch scripts and for testing a configuration.
func newTranscodeCommand(ctx *commandContext) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "transcode <file>",
		Short: "Transcode a file synchronously without the daemon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
			})
			if err != nil {
				return err
			}

			store, err := catalog.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

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

			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			if strings.TrimSpace(name) == "" {
				name = filepath.Base(path)
			}

			taskID := uuid.NewString()
			if err := tracker.Create(taskID); err != nil {
				return err
			}

			result, err := orch.Run(cmd.Context(), taskID, path, name)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Content hash: %s\n", result.ContentHash)
			fmt.Fprintf(out, "Renditions:   %v\n", result.Resolutions)
			if len(result.Subtitles) > 0 {
				fmt.Fprintf(out, "Subtitles:    %s\n", strings.Join(result.Subtitles, ", "))
			}
			fmt.Fprintf(out, "Duration:     %s\n", formatDuration(result.DurationSeconds))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name for the source (defaults to the file name)")
	return cmd
}
