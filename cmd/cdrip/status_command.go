package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cdrip/internal/deps"
	"cdrip/internal/disc"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check external binaries, directories, and the optical drive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			headers := []string{"Tool", "Available", "Optional", "Detail"}
			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				detail := status.Detail
				if detail == "" {
					detail = status.Command
				}
				rows = append(rows, []string{
					status.Name,
					yesNo(status.Available),
					yesNo(status.Optional),
					detail,
				})
			}
			fmt.Fprintln(out, renderTable(headers, rows))

			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				fmt.Fprintf(out, "Missing required tools: %s\n", strings.Join(missing, ", "))
			}

			fmt.Fprintf(out, "Library dir: %s\n", cfg.Paths.LibraryDir)
			fmt.Fprintf(out, "Staging dir: %s\n", cfg.Paths.StagingDir)
			fmt.Fprintf(out, "History db:  %s\n", cfg.CatalogPath())

			driveStatus, err := disc.CheckDriveStatus(cfg.Drive.Device)
			if err != nil {
				fmt.Fprintf(out, "Drive %s: unavailable (%v)\n", cfg.Drive.Device, err)
				return nil
			}
			fmt.Fprintf(out, "Drive %s: %s\n", cfg.Drive.Device, driveStatus)
			return nil
		},
	}
}
