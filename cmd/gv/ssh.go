package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/preload"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/sshserve"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/ui"
)

func newSSHCmd(flags *globalFlags) *cobra.Command {
	var (
		addr       string
		defaultKey string
	)
	cmd := &cobra.Command{
		Use:   "ssh",
		Short: "Serve the viewer to remote terminals over SSH",
		Long: `Runs an SSH server where every session gets its own viewer.
Clients name the gallery as the remote command:

  ssh -t -p 23234 gallery.example.com shop/product/7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.SSH.Addr = addr
			}
			var fallback model.Key
			if defaultKey != "" {
				if fallback, err = model.ParseKey(defaultKey); err != nil {
					return err
				}
			}

			log := pslog.Ctx(cmd.Context())
			src, err := openSource(cfg)
			if err != nil {
				return err
			}
			defer src.Close()
			preloader, err := preload.New(cfg.PreloadOptions(log))
			if err != nil {
				return err
			}

			srv := &sshserve.Server{
				Addr:        cfg.SSH.Addr,
				HostKeyPath: cfg.SSH.HostKeyPath,
				NewModel: func(ctx context.Context, sess sshserve.Session) (tea.Model, error) {
					key := fallback
					if len(sess.Args) > 0 {
						k, err := model.ParseKey(sess.Args[0])
						if err != nil {
							return nil, err
						}
						key = k
					}
					if key.IsZero() {
						return nil, errNoKey
					}
					log := pslog.Ctx(ctx)
					opts, err := modelOptions(cfg, log, key, preloader)
					if err != nil {
						return nil, err
					}
					opts.Carousel.ID = sess.ID
					opts.Theme = sess.Theme
					opts.Clipboard = sess.Clipboard
					return ui.NewModel(ctx, src, opts), nil
				},
			}
			fmt.Fprintf(cmd.OutOrStdout(), "SSH viewer listening on %s\n", cfg.SSH.Addr)
			return srv.ListenAndServe(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&defaultKey, "key", "", "gallery shown when the client names none")
	return cmd
}
