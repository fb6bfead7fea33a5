package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"episodic/internal/ipc"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon and journal status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				status, err := client.Status()
				if err != nil {
					return fmt.Errorf("query status: %w", err)
				}

				stdout := cmd.OutOrStdout()
				if jsonFlag {
					return writeJSON(cmd, status)
				}

				colorize := shouldColorize(stdout)
				for _, line := range renderSectionHeader("Daemon", colorize) {
					fmt.Fprintln(stdout, line)
				}
				running := statusError
				detail := "stopped"
				if status.Running {
					running = statusOK
					detail = "listening on " + status.Bind
				}
				fmt.Fprintln(stdout, renderStatusLine("State", running, detail, colorize))
				fmt.Fprintln(stdout, renderStatusLine("PID", statusInfo, strconv.Itoa(status.PID), colorize))
				if status.StartedAt != "" {
					fmt.Fprintln(stdout, renderStatusLine("Started", statusInfo, status.StartedAt, colorize))
				}
				fmt.Fprintln(stdout)

				rows := [][]string{
					{"Output directory", status.OutputDir},
					{"Journal", status.JournalPath},
					{"Episodes saved", strconv.FormatInt(status.Journal.Saves, 10)},
					{"Bytes written", strconv.FormatInt(status.Journal.BytesWritten, 10)},
				}
				if status.Journal.LastFilename != "" {
					rows = append(rows, []string{"Last episode", status.Journal.LastFilename})
					rows = append(rows, []string{"Last save at", status.Journal.LastSaveAt.Format("2006-01-02 15:04:05 MST")})
				}
				fmt.Fprintln(stdout, renderTable(
					[]string{"Field", "Value"},
					rows,
					[]columnAlignment{alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit status as JSON")
	return cmd
}

func newStopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop a running daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Stop()
				if err != nil {
					return fmt.Errorf("request stop: %w", err)
				}
				stdout := cmd.OutOrStdout()
				if resp.Stopping {
					fmt.Fprintln(stdout, "Stop request sent")
				} else {
					fmt.Fprintln(stdout, "Daemon declined to stop")
				}
				return nil
			})
		},
	}
}
