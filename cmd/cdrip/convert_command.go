package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cdrip/internal/encoding"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var outputDir string
	var overwrite bool
	var deleteWAV bool
	var noProgress bool

	cmd := &cobra.Command{
		Use:   "convert <input_dir>",
		Short: "Convert a directory of WAV files to MP3, one output per input",
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

			converter := encoding.NewConverter(cfg, store, logger)
			result, err := converter.Convert(cmd.Context(), args[0], encoding.Options{
				OutputDir: outputDir,
				Overwrite: overwrite || cfg.Output.OverwriteExisting,
				DeleteWAV: deleteWAV || cfg.Output.DeleteWAV,
				Progress:  !noProgress,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Converted %d file(s), skipped %d in %s\n",
				len(result.Converted), len(result.Skipped), result.OutputDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for the MP3s, also --od (default: the input directory)")
	cmd.Flags().StringVar(&outputDir, "od", "", "Alias for --output-dir")
	_ = cmd.Flags().MarkHidden("od")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Re-encode WAVs whose MP3s already exist")
	cmd.Flags().BoolVar(&deleteWAV, "delete-wav", false, "Delete each WAV after its MP3 is written")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the terminal progress bar")
	return cmd
}
