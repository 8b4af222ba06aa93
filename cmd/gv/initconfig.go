package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/config"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/updater"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/version"
)

func newInitConfigCmd(flags *globalFlags) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.WriteDefault(flags.configPath, force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newVersionCmd() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current := version.Current()
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "gv %s\n", current); err != nil {
				return err
			}
			if !check {
				return nil
			}
			rel, newer, err := updater.NewChecker().Newer(cmd.Context(), current)
			if err != nil {
				return fmt.Errorf("check for updates: %w", err)
			}
			if newer {
				fmt.Fprintf(out, "%s is available: %s\n", rel.TagName, rel.HTMLURL)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "ask GitHub for a newer release")
	return cmd
}
