package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/ui"
)

func newInspectCmd(flags *globalFlags) *cobra.Command {
	var cols, rows int
	cmd := &cobra.Command{
		Use:   "inspect [app/type/id]",
		Short: "Show which image variant and geometry this terminal gets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			if cols == 0 || rows == 0 {
				w, h, err := term.GetSize(int(os.Stdout.Fd()))
				if err != nil {
					w, h = 80, 24
				}
				if cols == 0 {
					cols = w
				}
				if rows == 0 {
					rows = h
				}
			}

			sizes, count := cfg.Sizes, 0
			if len(args) > 0 {
				src, err := openSource(cfg)
				if err != nil {
					return err
				}
				defer src.Close()
				key, err := model.ParseKey(args[0])
				if err != nil {
					return err
				}
				snap, err := src.Load(cmd.Context(), key)
				if err != nil {
					return err
				}
				sizes, count = snap.SizeSpec, len(snap.Images)
			}

			l, err := cfg.ViewLayout()
			if err != nil {
				return err
			}
			metrics := ui.Metrics{CellWidth: cfg.Terminal.CellWidth, CellHeight: cfg.Terminal.CellHeight}
			viewport := ui.NewTermViewport(metrics)
			viewport.SetCells(cols, rows)
			size := viewport.Size()

			g := l.Compute(l.Choose(size, sizes), sizes, count)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "terminal:  %dx%d cells, %s px\n", cols, rows, size)
			fmt.Fprintf(out, "layout:    %s\n", l.Kind)
			if count > 0 {
				fmt.Fprintf(out, "images:    %d\n", count)
			}
			fmt.Fprint(out, ui.Describe(metrics, g))
			return nil
		},
	}
	cmd.Flags().IntVar(&cols, "cols", 0, "terminal width in cells (default is the current terminal)")
	cmd.Flags().IntVar(&rows, "rows", 0, "terminal height in cells")
	return cmd
}
