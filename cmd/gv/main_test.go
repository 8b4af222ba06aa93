package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/config"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/loader"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
)

const manifestYAML = `image_size: {width: 752, height: 608}
small_image_size: {width: 564, height: 456}
thumbnail_size: {width: 94, height: 76}
galleries:
  shop/product/7:
    - image: /media/gallery/boat.jpg
      image_size: {width: 752, height: 500}
    - image: /media/gallery/pier.jpg
`

// setup writes a manifest and a default config into a temp dir.
func setup(t *testing.T) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "gallery.yaml"), []byte(manifestYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath = filepath.Join(dir, "config.yaml")
	if _, err := run(t, "init-config", "--config", cfgPath); err != nil {
		t.Fatalf("init-config: %v", err)
	}
	return dir, cfgPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestInitConfigRefusesOverwrite(t *testing.T) {
	_, cfgPath := setup(t)
	if _, err := run(t, "init-config", "--config", cfgPath); err == nil {
		t.Error("expected an error for an existing config")
	}
	if _, err := run(t, "init-config", "--config", cfgPath, "--force"); err != nil {
		t.Errorf("--force: %v", err)
	}
}

func TestInspectPicksVariant(t *testing.T) {
	dir, cfgPath := setup(t)
	manifest := filepath.Join(dir, "gallery.yaml")

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"large terminal", []string{"--cols", "200", "--rows", "80"}, []string{"variant:   full", "stride:    102 px"}},
		{"small terminal", []string{"--cols", "80", "--rows", "30"}, []string{"variant:   small", "564x456"}},
		{"with gallery", []string{"--cols", "200", "--rows", "80", "shop/product/7"}, []string{"images:    2", "strip:     204 px"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"inspect", "--config", cfgPath, "--path", manifest}, tt.args...)
			out, err := run(t, args...)
			if err != nil {
				t.Fatalf("inspect: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestExportWritesSheet(t *testing.T) {
	dir, cfgPath := setup(t)
	out := filepath.Join(dir, "sheet.svg")
	stdout, err := run(t, "export", "shop/product/7",
		"--config", cfgPath,
		"--path", filepath.Join(dir, "gallery.yaml"),
		"-o", out)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(stdout, "Wrote 2 thumbnails") {
		t.Errorf("stdout = %q", stdout)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "pier_thumbnail.jpg") {
		t.Error("sheet does not reference the derived thumbnail")
	}
}

func TestLoadConfigRejectsBadOverride(t *testing.T) {
	_, cfgPath := setup(t)
	_, err := run(t, "inspect", "--config", cfgPath, "--source", "ftp", "--cols", "80", "--rows", "24")
	if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("err = %v", err)
	}
}

type plainSource struct{}

func (plainSource) Load(context.Context, model.Key) (model.Snapshot, error) {
	return model.Snapshot{}, nil
}
func (plainSource) Close() error { return nil }

func TestResolveKey(t *testing.T) {
	dir, _ := setup(t)
	src := loader.NewManifest(filepath.Join(dir, "gallery.yaml"), model.DefaultSizeSpec())

	key, err := resolveKey(context.Background(), src, nil)
	if err != nil || key.String() != "shop/product/7" {
		t.Errorf("single gallery: %v %v", key, err)
	}
	key, err = resolveKey(context.Background(), src, []string{"blog/post/3"})
	if err != nil || key.ObjectID != 3 {
		t.Errorf("explicit key: %v %v", key, err)
	}
	if _, err := resolveKey(context.Background(), src, []string{"nope"}); err == nil {
		t.Error("expected parse error")
	}
	if _, err := resolveKey(context.Background(), plainSource{}, nil); !errors.Is(err, errNoKey) {
		t.Errorf("unlistable source: %v", err)
	}
}

func TestMediaRootAndWatchPath(t *testing.T) {
	tests := []struct {
		kind, path, mediaRoot string
		watch                 bool
		wantRoot, wantWatch   string
	}{
		{"manifest", "/srv/site/gallery.yaml", "", true, "/srv/site", "/srv/site/gallery.yaml"},
		{"dir", "/srv/photos", "", false, "/srv/photos", ""},
		{"sqlite", "/srv/db.sqlite3", "/srv/media", true, "/srv/media", "/srv/db.sqlite3"},
		{"http", "", "", true, "", ""},
	}
	for _, tt := range tests {
		var cfg config.Config
		cfg.Source.Kind = tt.kind
		cfg.Source.Path = tt.path
		cfg.Source.MediaRoot = tt.mediaRoot
		cfg.Source.Watch = tt.watch
		if got := mediaRoot(cfg); got != tt.wantRoot {
			t.Errorf("%s: mediaRoot = %q, want %q", tt.kind, got, tt.wantRoot)
		}
		if got := watchPath(cfg); got != tt.wantWatch {
			t.Errorf("%s: watchPath = %q, want %q", tt.kind, got, tt.wantWatch)
		}
	}
}
