package loader

import (
	"context"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
)

// Manifest is the YAML gallery file. Declared sizes sit at the top level,
// galleries are keyed by "app/type/id".
type Manifest struct {
	model.SizeSpec `yaml:",inline"`
	Galleries      map[string][]model.ImageItem `yaml:"galleries"`
}

// ReadManifest parses the manifest at path
func ReadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Manifest{}, fmt.Errorf("no gallery manifest found at %s", path)
		}
		return Manifest{}, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	for key := range m.Galleries {
		if _, err := model.ParseKey(key); err != nil {
			return Manifest{}, fmt.Errorf("manifest %s: %w", path, err)
		}
	}
	return m, nil
}

// Keys returns the gallery keys in sorted order
func (m Manifest) Keys() []model.Key {
	names := make([]string, 0, len(m.Galleries))
	for name := range m.Galleries {
		names = append(names, name)
	}
	sort.Strings(names)

	keys := make([]model.Key, 0, len(names))
	for _, name := range names {
		key, _ := model.ParseKey(name)
		keys = append(keys, key)
	}
	return keys
}

// Snapshot returns the gallery of key with missing fields derived the way
// the upload pipeline names and sizes its variants.
func (m Manifest) Snapshot(key model.Key, fallback model.SizeSpec) (model.Snapshot, error) {
	items, ok := m.Galleries[key.String()]
	if !ok {
		return model.Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	sizes := mergeSizes(m.SizeSpec, fallback)
	snap := model.Snapshot{SizeSpec: sizes, Images: make([]model.ImageItem, 0, len(items))}
	for _, item := range items {
		if item.FullURL == "" {
			continue
		}
		derived := buildItem(item.FullURL, item.FullSize, sizes)
		if item.FullSize.IsZero() {
			derived.FullSize = sizes.Full
			derived.SmallSize = sizes.Small
		}
		if item.SmallURL != "" {
			derived.SmallURL = item.SmallURL
		}
		if !item.SmallSize.IsZero() {
			derived.SmallSize = item.SmallSize
		}
		if item.ThumbnailURL != "" {
			derived.ThumbnailURL = item.ThumbnailURL
		}
		snap.Images = append(snap.Images, derived)
	}
	return snap, nil
}

func mergeSizes(declared, fallback model.SizeSpec) model.SizeSpec {
	if declared.Full.IsZero() {
		declared.Full = fallback.Full
	}
	if declared.Small.IsZero() {
		declared.Small = fallback.Small
	}
	if declared.Thumbnail.IsZero() {
		declared.Thumbnail = fallback.Thumbnail
	}
	return declared
}

// ManifestSource re-reads its file on every load, so edits show up on the
// next open.
type ManifestSource struct {
	path  string
	sizes model.SizeSpec
}

// NewManifest returns a source reading path
func NewManifest(path string, sizes model.SizeSpec) *ManifestSource {
	return &ManifestSource{path: path, sizes: sizes}
}

// Path returns the manifest location
func (s *ManifestSource) Path() string {
	return s.path
}

func (s *ManifestSource) Load(ctx context.Context, key model.Key) (model.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return model.Snapshot{}, err
	}
	m, err := ReadManifest(s.path)
	if err != nil {
		return model.Snapshot{}, err
	}
	return m.Snapshot(key, s.sizes)
}

// Keys lists the galleries in the manifest
func (s *ManifestSource) Keys(ctx context.Context) ([]model.Key, error) {
	m, err := ReadManifest(s.path)
	if err != nil {
		return nil, err
	}
	return m.Keys(), nil
}

func (s *ManifestSource) Close() error { return nil }

// WriteManifest stores m at path as YAML
func WriteManifest(path string, m Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
