package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"cdrip/internal/catalog"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded pipeline runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No recorded runs")
				return nil
			}

			headers := []string{"ID", "When", "Operation", "Album", "Tracks", "Status", "Error"}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					strconv.FormatInt(run.ID, 10),
					run.CreatedAt.Local().Format(time.DateTime),
					run.Operation,
					runAlbumLabel(run),
					strconv.Itoa(run.TrackCount),
					string(run.Status),
					run.ErrorMessage,
				})
			}
			fmt.Fprintln(out, renderTable(headers, rows, 0, 4))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")
	return cmd
}

func runAlbumLabel(run *catalog.Run) string {
	if run.AlbumTitle != "" {
		return run.AlbumTitle
	}
	return run.AlbumDir
}
