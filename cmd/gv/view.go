package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/config"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/logx"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/preload"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/ui"
)

func newViewCmd(flags *globalFlags) *cobra.Command {
	var noPixels bool
	cmd := &cobra.Command{
		Use:   "view [app/type/id]",
		Short: "Open a gallery in the terminal",
		Example: `  # Pick a gallery from the manifest
  gv view --path gallery.yaml

  # Open one record from a running site
  gv view shop/product/7 --source http --base-url https://example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			if noPixels {
				cfg.Terminal.Pixels = false
			}

			log, closer, err := logx.OpenFile(cfg.Log.File, cfg.Log.Level)
			if err != nil {
				return err
			}
			defer closer.Close()
			ctx := pslog.ContextWithLogger(cmd.Context(), log)

			src, err := openSource(cfg)
			if err != nil {
				return err
			}
			defer src.Close()

			key, err := resolveKey(ctx, src, args)
			if err != nil {
				return err
			}
			preloader, err := preload.New(cfg.PreloadOptions(log))
			if err != nil {
				return err
			}
			opts, err := modelOptions(cfg, log, key, preloader)
			if err != nil {
				return err
			}
			opts.WatchPath = watchPath(cfg)

			log.Info("viewer starting", "key", key.String(), "source", cfg.Source.Kind)
			m := ui.NewModel(ctx, src, opts)
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run viewer: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noPixels, "no-pixels", false, "draw placeholders instead of images")
	return cmd
}

// modelOptions maps the config onto the terminal program.
func modelOptions(cfg config.Config, log pslog.Logger, key model.Key, preloader *preload.Preloader) (ui.Options, error) {
	carouselOpts, err := cfg.CarouselOptions(log)
	if err != nil {
		return ui.Options{}, err
	}
	duration := cfg.AnimationDuration()
	if duration == 0 {
		duration = -1
	}
	return ui.Options{
		Key:       key,
		Preloader: preloader,
		Carousel:  carouselOpts,
		Metrics: ui.Metrics{
			CellWidth:  cfg.Terminal.CellWidth,
			CellHeight: cfg.Terminal.CellHeight,
		},
		Duration: duration,
		Interval: cfg.FrameInterval(),
		Pixels:   cfg.Terminal.Pixels,
	}, nil
}
