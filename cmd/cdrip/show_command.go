package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cdrip/internal/services/mid3v2"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <file.mp3>",
		Short: "Print the ID3 tags currently on a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			client, err := mid3v2.New(cfg.Mid3v2.Binary)
			if err != nil {
				return err
			}
			lines, err := client.List(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(lines) == 0 {
				fmt.Fprintln(out, "No tags present")
				return nil
			}
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}
