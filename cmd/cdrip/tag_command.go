package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cdrip/internal/tagging"
)

func newTagCommand(ctx *commandContext) *cobra.Command {
	var metadataPath string
	var outputDir string

	cmd := &cobra.Command{
		Use:   "tag <album_dir>",
		Short: "Write ID3 tags onto converted MP3s from the album metadata JSON",
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

			tagger := tagging.NewTagger(cfg, store, logger)
			result, err := tagger.Tag(cmd.Context(), args[0], tagging.Options{
				MetadataPath: metadataPath,
				OutputDir:    outputDir,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, file := range result.Files {
				fmt.Fprintf(out, "%2d  %s\n", file.Track, file.Path)
			}
			fmt.Fprintf(out, "Tagged %d file(s)\n", len(result.Files))
			return nil
		},
	}

	cmd.Flags().StringVar(&metadataPath, "config-json", "", "Album metadata JSON (default: first *.json in the album directory)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory holding the MP3s, also --od (default: the album directory)")
	cmd.Flags().StringVar(&outputDir, "od", "", "Alias for --output-dir")
	_ = cmd.Flags().MarkHidden("od")
	return cmd
}
