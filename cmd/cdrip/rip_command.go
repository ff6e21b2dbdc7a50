package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cdrip/internal/ripping"
)

func newRipCommand(ctx *commandContext) *cobra.Command {
	var discs int
	var device string
	var waitDisc bool
	var eject bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "rip <album_dir>",
		Short: "Rip one or more CDs into the album's raw directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger()
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if !cmd.Flags().Changed("eject") {
				eject = cfg.Drive.EjectAfter
			}

			ripper := ripping.NewRipper(cfg, store, logger)
			result, err := ripper.Rip(cmd.Context(), args[0], ripping.Options{
				Discs:    discs,
				Device:   device,
				WaitDisc: waitDisc,
				Eject:    eject,
				DryRun:   dryRun,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintf(out, "Dry run: would rip %d track(s) across %d disc(s) into %s\n",
					result.TrackCount, len(result.Discs), result.RawDir)
				return nil
			}
			fmt.Fprintf(out, "Ripped %d track(s) across %d disc(s) into %s\n",
				result.TrackCount, len(result.Discs), result.RawDir)
			return nil
		},
	}

	cmd.Flags().IntVarP(&discs, "discs", "n", 1, "Number of CDs in the album")
	cmd.Flags().StringVar(&device, "device", "", "Optical drive device (default from config)")
	cmd.Flags().BoolVar(&waitDisc, "wait-disc", false, "Wait for a disc before ripping each CD")
	cmd.Flags().BoolVar(&eject, "eject", false, "Eject the tray after each disc")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log planned track moves without ripping")
	return cmd
}
