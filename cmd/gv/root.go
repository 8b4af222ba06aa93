package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/config"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/loader"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
)

// globalFlags override the config file for one run.
type globalFlags struct {
	configPath string
	kind       string
	path       string
	baseURL    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	var flags globalFlags
	root := &cobra.Command{
		Use:   "gv",
		Short: "Browse image galleries in the terminal",
		Long: `gv opens the image gallery attached to a record and lets you step
through it with the same carousel the web site uses: a large image with
prev/next controls above a strip of thumbnails.

Galleries come from a YAML manifest, a folder of images, a sqlite database
or a site serving gallery_data.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "config file (default is the user config dir)")
	pf.StringVar(&flags.kind, "source", "", "source kind: manifest, dir, sqlite or http")
	pf.StringVarP(&flags.path, "path", "p", "", "manifest, folder or database path")
	pf.StringVar(&flags.baseURL, "base-url", "", "site serving gallery_data (http source)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(newViewCmd(&flags))
	root.AddCommand(newServeCmd(&flags))
	root.AddCommand(newSSHCmd(&flags))
	root.AddCommand(newExportCmd(&flags))
	root.AddCommand(newInspectCmd(&flags))
	root.AddCommand(newInitConfigCmd(&flags))
	root.AddCommand(newVersionCmd())
	return root
}

// loadConfig reads the config file and applies the command line overrides.
func loadConfig(cmd *cobra.Command, flags *globalFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return config.Config{}, err
	}
	changed := cmd.Flags().Changed
	if changed("source") {
		cfg.Source.Kind = flags.kind
	}
	if changed("path") {
		cfg.Source.Path = flags.path
	}
	if changed("base-url") {
		cfg.Source.BaseURL = flags.baseURL
	}
	if changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func openSource(cfg config.Config) (loader.Source, error) {
	src, err := loader.Open(cfg.LoaderOptions())
	if err != nil {
		return nil, fmt.Errorf("open %s source: %w", cfg.Source.Kind, err)
	}
	return src, nil
}

// mediaRoot is the folder `gv serve` publishes under /media/.
func mediaRoot(cfg config.Config) string {
	if cfg.Source.MediaRoot != "" {
		return cfg.Source.MediaRoot
	}
	switch loader.Kind(cfg.Source.Kind) {
	case loader.KindDir:
		return cfg.Source.Path
	case loader.KindManifest:
		return filepath.Dir(cfg.Source.Path)
	}
	return ""
}

// watchPath is the file or folder whose changes reload the open gallery.
func watchPath(cfg config.Config) string {
	if !cfg.Source.Watch {
		return ""
	}
	switch loader.Kind(cfg.Source.Kind) {
	case loader.KindManifest, loader.KindDir, loader.KindSQLite:
		return cfg.Source.Path
	}
	return ""
}

var errNoKey = errors.New("a gallery key (app/type/id) is required")

// resolveKey parses the key argument, or asks for one when the source can
// list its galleries.
func resolveKey(ctx context.Context, src loader.Source, args []string) (model.Key, error) {
	if len(args) > 0 {
		return model.ParseKey(args[0])
	}
	lister, ok := src.(loader.Lister)
	if !ok {
		return model.Key{}, errNoKey
	}
	keys, err := lister.Keys(ctx)
	if err != nil {
		return model.Key{}, fmt.Errorf("list galleries: %w", err)
	}
	switch len(keys) {
	case 0:
		return model.Key{}, fmt.Errorf("the source has no galleries")
	case 1:
		return keys[0], nil
	}

	options := make([]huh.Option[model.Key], len(keys))
	for i, k := range keys {
		options[i] = huh.NewOption(k.String(), k)
	}
	var picked model.Key
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[model.Key]().
				Title("Which gallery?").
				Options(options...).
				Value(&picked),
		),
	).RunWithContext(ctx)
	if err != nil {
		return model.Key{}, err
	}
	return picked, nil
}
