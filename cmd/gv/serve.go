package main

import (
	"fmt"

	"github.com/mdp/qrterminal/v3"
	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/export"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	var (
		port int
		open bool
		host string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve gallery_data and media for the browser carousel",
		Long: `Serves the configured source over the same endpoint a site exposes:

  GET /ajax/gallery_data/{app}/{type}/{id}/   (needs X-Requested-With: XMLHttpRequest)
  GET /ajax/choices/{app}/{type}/
  GET /media/...

Another gv can browse it with --source http --base-url <url>.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Serve.Port = port
			}
			if cmd.Flags().Changed("open") {
				cfg.Serve.Open = open
			}

			src, err := openSource(cfg)
			if err != nil {
				return err
			}
			defer src.Close()

			if cfg.Serve.Port == 0 {
				cfg.Serve.Port, err = export.FindAvailablePort(export.DefaultPortRangeStart, export.DefaultPortRangeEnd)
				if err != nil {
					return err
				}
			}
			srv := export.NewGalleryServer(src, mediaRoot(cfg), cfg.Serve.Port)

			url := fmt.Sprintf("http://%s:%d/", host, srv.Port())
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Serving %s source at %s\n", cfg.Source.Kind, url)
			if cfg.Serve.QR {
				qrterminal.GenerateHalfBlock(url, qrterminal.L, out)
			}
			if cfg.Serve.Open {
				if err := export.OpenInBrowser(srv.URL() + "/__gallery__/status"); err != nil {
					pslog.Ctx(cmd.Context()).Warn("could not open browser", "err", err)
				}
			}
			return srv.ListenAndServe(cmd.Context())
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "port to listen on (0 picks a free one)")
	cmd.Flags().BoolVar(&open, "open", false, "open the status page in a browser")
	cmd.Flags().StringVar(&host, "host", "localhost", "host name printed in the url and QR code")
	return cmd
}
