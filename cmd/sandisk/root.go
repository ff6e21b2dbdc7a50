package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cdrip/internal/config"
	"cdrip/internal/fileutil"
	"cdrip/internal/services"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sandisk",
		Short: "Transfer music to and from a USB mass-storage MP3 player",
		Long: "sandisk copies music between the local library and an MP3 player " +
			"mounted as an ordinary removable drive. Every file is verified by " +
			"size and checksum after copying.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newWriteCommand())
	rootCmd.AddCommand(newReadCommand())

	return rootCmd
}

func newWriteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "write <source_dir> <player_mount>",
		Short: "Copy music onto the mounted player",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return transfer(cmd, args[0], args[1])
		},
	}
}

func newReadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "read <player_mount> <dest_dir>",
		Short: "Copy tracks off the mounted player",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return transfer(cmd, args[0], args[1])
		},
	}
}

func transfer(cmd *cobra.Command, srcArg, dstArg string) error {
	src, err := config.ExpandPath(srcArg)
	if err != nil {
		return err
	}
	dst, err := config.ExpandPath(dstArg)
	if err != nil {
		return err
	}

	info, err := os.Stat(src)
	if err != nil || !info.IsDir() {
		return services.Wrap(services.ErrNotFound, "sandisk", "inspect source",
			fmt.Sprintf("source directory %q does not exist", src), err)
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return fmt.Errorf("create destination %q: %w", dst, err)
	}

	stats, err := fileutil.CopyTreeVerified(src, dst)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Copied %d file(s) (%d bytes) to %s\n", stats.Files, stats.Bytes, dst)
	return nil
}
