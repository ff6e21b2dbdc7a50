package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cdrip/internal/encoding"
	"cdrip/internal/tagging"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var outputDir string
	var metadataPath string
	var overwrite bool
	var deleteWAV bool

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "cdrip [album_dir]",
		Short: "Convert ripped audio CD tracks into tagged MP3 files",
		Long: "cdrip pipelines cdparanoia, ffmpeg, and mid3v2 to turn audio CDs " +
			"into tagged MP3 albums. Run with an album directory to convert its " +
			"WAV files and tag the results from the album's metadata JSON, or use " +
			"the subcommands for the individual stages.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runPipeline(cmd, ctx, args[0], pipelineOptions{
				outputDir:    outputDir,
				metadataPath: metadataPath,
				overwrite:    overwrite,
				deleteWAV:    deleteWAV,
			})
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for the converted MP3s, also --od (default: the album directory)")
	rootCmd.Flags().StringVar(&outputDir, "od", "", "Alias for --output-dir")
	_ = rootCmd.Flags().MarkHidden("od")
	rootCmd.Flags().StringVar(&metadataPath, "config-json", "", "Album metadata JSON (default: first *.json in the album directory)")
	rootCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Re-encode WAVs whose MP3s already exist")
	rootCmd.Flags().BoolVar(&deleteWAV, "delete-wav", false, "Delete each WAV after its MP3 is written")

	rootCmd.AddCommand(newRipCommand(ctx))
	rootCmd.AddCommand(newConvertCommand(ctx))
	rootCmd.AddCommand(newTagCommand(ctx))
	rootCmd.AddCommand(newShowCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

type pipelineOptions struct {
	outputDir    string
	metadataPath string
	overwrite    bool
	deleteWAV    bool
}

// runPipeline converts every WAV in the album directory and tags the
// resulting MP3s from the album's metadata JSON.
func runPipeline(cmd *cobra.Command, ctx *commandContext, albumDir string, opts pipelineOptions) error {
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

	overwrite := opts.overwrite || cfg.Output.OverwriteExisting
	deleteWAV := opts.deleteWAV || cfg.Output.DeleteWAV

	converter := encoding.NewConverter(cfg, store, logger)
	convResult, err := converter.Convert(cmd.Context(), albumDir, encoding.Options{
		OutputDir: opts.outputDir,
		Overwrite: overwrite,
		DeleteWAV: deleteWAV,
		Progress:  true,
	})
	if err != nil {
		return err
	}

	tagger := tagging.NewTagger(cfg, store, logger)
	tagResult, err := tagger.Tag(cmd.Context(), albumDir, tagging.Options{
		MetadataPath: opts.metadataPath,
		OutputDir:    convResult.OutputDir,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Converted %d file(s), skipped %d, tagged %d in %s\n",
		len(convResult.Converted), len(convResult.Skipped), len(tagResult.Files), convResult.OutputDir)
	return nil
}
