package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vodforge/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and host readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			status, err := client.Status(cmd.Context())
			if err == nil {
				fmt.Fprintf(out, "Daemon:      running (pid %d)\n", status.PID)
				fmt.Fprintf(out, "Catalog DB:  %s\n", status.CatalogDBPath)
				fmt.Fprintf(out, "Lock file:   %s\n", status.LockFilePath)
				fmt.Fprintf(out, "Active jobs: %d\n", status.ActiveTasks)
				rows := make([][]string, 0, len(status.Checks))
				for _, check := range status.Checks {
					rows = append(rows, []string{check.Name, passLabel(check.Passed), check.Detail})
				}
				if len(rows) > 0 {
					fmt.Fprintln(out, renderTable(
						[]string{"Check", "State", "Detail"},
						rows,
					))
				}
				return nil
			}

			// Daemon unreachable: run the same checks locally so the command
			// is still useful before first start.
			fmt.Fprintln(out, "Daemon:      not reachable")
			cfg, cfgErr := ctx.ensureConfig()
			if cfgErr != nil {
				return cfgErr
			}
			rows := make([][]string, 0)
			for _, check := range preflight.RunAll(cfg) {
				rows = append(rows, []string{check.Name, passLabel(check.Passed), check.Detail})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Check", "State", "Detail"},
				rows,
			))
			return nil
		},
	}
}

func passLabel(passed bool) string {
	if passed {
		return "ok"
	}
	return "FAIL"
}
