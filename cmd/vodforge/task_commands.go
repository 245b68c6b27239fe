package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vodforge/internal/tasks"
)

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var name string
	var follow bool

	cmd := &cobra.Command{
		Use:   "submit <file>",
		Short: "Submit a source file to the daemon for transcoding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			resp, err := client.Submit(cmd.Context(), path, name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %s accepted\n", resp.TaskID)
			if !follow {
				return nil
			}

			for {
				progress, err := client.Progress(cmd.Context(), resp.TaskID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\r%-12s %5.1f%%", progress.Status, progress.Progress)
				if progress.Status == string(tasks.StatusCompleted) {
					fmt.Fprintln(cmd.OutOrStdout())
					return nil
				}
				if progress.Status == string(tasks.StatusFailed) {
					fmt.Fprintln(cmd.OutOrStdout())
					return fmt.Errorf("transcode failed: %s", progress.Error)
				}
				select {
				case <-cmd.Context().Done():
					return cmd.Context().Err()
				case <-time.After(time.Second):
				}
			}
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name for the source (defaults to the file name)")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Poll progress until the task finishes")
	return cmd
}

func newProgressCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "progress <task-id>",
		Short: "Show the current state of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			progress, err := client.Progress(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Task:     %s\n", progress.TaskID)
			fmt.Fprintf(out, "Status:   %s\n", progress.Status)
			fmt.Fprintf(out, "Progress: %.1f%%\n", progress.Progress)
			if progress.Error != "" {
				fmt.Fprintf(out, "Error:    %s\n", progress.Error)
			}
			return nil
		},
	}
}

func newTasksCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "List all tracked transcode tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			resp, err := client.Tasks(cmd.Context())
			if err != nil {
				return err
			}
			if len(resp.Tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks.")
				return nil
			}

			sort.Slice(resp.Tasks, func(i, j int) bool {
				return resp.Tasks[i].TaskID < resp.Tasks[j].TaskID
			})
			rows := make([][]string, 0, len(resp.Tasks))
			for _, task := range resp.Tasks {
				detail := task.Error
				rows = append(rows, []string{
					task.TaskID,
					task.Status,
					strconv.FormatFloat(task.Progress, 'f', 1, 64) + "%",
					detail,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Task", "Status", "Progress", "Detail"},
				rows,
				2,
			))
			return nil
		},
	}
}

func newVideosCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "videos",
		Short: "List cataloged videos",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			resp, err := client.Videos(cmd.Context())
			if err != nil {
				return err
			}
			if len(resp.Videos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Catalog is empty.")
				return nil
			}

			rows := make([][]string, 0, len(resp.Videos))
			for _, video := range resp.Videos {
				heights := make([]string, 0, len(video.Resolutions))
				for _, h := range video.Resolutions {
					heights = append(heights, strconv.Itoa(h)+"p")
				}
				rows = append(rows, []string{
					strconv.FormatInt(video.ID, 10),
					video.SourceName,
					shortHash(video.ContentHash),
					strings.Join(heights, " "),
					strconv.Itoa(len(video.Subtitles)),
					formatDuration(video.DurationSeconds),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Source", "Hash", "Renditions", "Subs", "Duration"},
				rows,
				0, 4, 5,
			))
			return nil
		},
	}
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

func formatDuration(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second)).Round(time.Second)
	return d.String()
}
