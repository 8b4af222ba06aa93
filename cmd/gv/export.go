package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/export"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/preload"
)

func newExportCmd(flags *globalFlags) *cobra.Command {
	var (
		output  string
		format  string
		title   string
		columns int
	)
	cmd := &cobra.Command{
		Use:   "export [app/type/id]",
		Short: "Write a contact sheet of a gallery's thumbnails",
		Example: `  gv export shop/product/7 -o sheet.svg
  gv export shop/product/7 -o sheet.png --columns 4`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			log := pslog.Ctx(ctx)

			src, err := openSource(cfg)
			if err != nil {
				return err
			}
			defer src.Close()
			key, err := resolveKey(ctx, src, args)
			if err != nil {
				return err
			}
			snap, err := src.Load(ctx, key)
			if err != nil {
				return fmt.Errorf("load %s: %w", key, err)
			}
			preloader, err := preload.New(cfg.PreloadOptions(log))
			if err != nil {
				return err
			}

			if title == "" {
				title = key.String()
			}
			if err := export.SaveContactSheet(ctx, export.ContactSheetOptions{
				Path:     output,
				Format:   format,
				Title:    title,
				Snapshot: snap,
				Columns:  columns,
				Fetcher:  preloader,
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d thumbnails to %s\n", len(snap.Images), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "contact-sheet.svg", "output file")
	cmd.Flags().StringVar(&format, "format", "", "svg or png (default from the file extension)")
	cmd.Flags().StringVar(&title, "title", "", "sheet title (default is the gallery key)")
	cmd.Flags().IntVar(&columns, "columns", 6, "thumbnails per row")
	return cmd
}
