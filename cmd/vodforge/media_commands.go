package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"vodforge/internal/encoding"
	"vodforge/internal/ladder"
	"vodforge/internal/media/inspect"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <file>",
		Short: "Inspect a media file's streams",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			probe, err := inspect.Probe(cmd.Context(), cfg.FFprobeBinary(), path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Video:    #%d %s %dx%d", probe.Video.Index, probe.Video.Codec, probe.Video.Width, probe.Video.Height)
			if probe.Video.BitrateBps > 0 {
				fmt.Fprintf(out, " %d kbps", probe.Video.BitrateBps/1000)
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Duration: %s\n", formatDuration(probe.DurationSeconds))
			for _, audio := range probe.AudioStreams {
				fmt.Fprintf(out, "Audio:    #%d %s %dch\n", audio.Index, audio.Codec, audio.Channels)
			}
			for _, sub := range probe.SubtitleStreams {
				forced := ""
				if sub.Forced {
					forced = " forced"
				}
				fmt.Fprintf(out, "Subtitle: #%d %s%s\n", sub.Index, sub.Language, forced)
			}
			return nil
		},
	}
}

func newPlanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <file>",
		Short: "Preview the rendition ladder and copy decisions for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			probe, err := inspect.Probe(cmd.Context(), cfg.FFprobeBinary(), path)
			if err != nil {
				return err
			}

			mode, err := ladder.ParseMode(cfg.FFmpeg.Mode)
			if err != nil {
				return err
			}
			rungs, err := ladder.Plan(probe.Video.Width, probe.Video.Height, mode)
			if err != nil {
				return err
			}

			quality := encoding.Quality(cfg.FFmpeg.Quality)
			rows := make([][]string, 0, len(rungs))
			for i, rung := range rungs {
				decision := encoding.EvaluateCopy(probe, rung)
				plan := encoding.BuildPlan(rung, i, len(rungs), probe, decision, quality, cfg.FFmpeg.Preset)

				action := fmt.Sprintf("encode %s crf %d", plan.Profile, plan.CRF)
				maxrate := strconv.Itoa(plan.MaxrateKbps) + "k"
				if plan.VideoCopy {
					action = "copy"
					maxrate = "-"
				}
				rows = append(rows, []string{
					rung.Name(),
					strconv.Itoa(rung.Width) + "x" + strconv.Itoa(rung.Height),
					maxrate,
					action,
					decision.Reason,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Rung", "Size", "Maxrate", "Video", "Reason"},
				rows,
				2,
			))
			return nil
		},
	}
}
