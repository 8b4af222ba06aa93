package loader

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
)

// imageExts are the file types the directory source picks up.
var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".webp": true, ".bmp": true, ".tif": true, ".tiff": true,
}

// IsImageFile reports whether name has a supported image extension
func IsImageFile(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}

// decodeSize reads only the image header
func decodeSize(path string) (model.Size, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Size{}, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return model.Size{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return model.Size{Width: cfg.Width, Height: cfg.Height}, nil
}

// DirSource maps key app/type/id onto the folder root/app/type/id. Images are
// ordered by file name; pre-rendered "_small" and "_thumbnail" files are used
// when present, the original otherwise.
type DirSource struct {
	root  string
	sizes model.SizeSpec
}

// NewDir returns a source rooted at root
func NewDir(root string, sizes model.SizeSpec) (*DirSource, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("image root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("image root %s is not a directory", root)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &DirSource{root: abs, sizes: sizes}, nil
}

func (s *DirSource) dir(key model.Key) string {
	return filepath.Join(s.root, key.AppLabel, key.ContentType, strconv.FormatInt(key.ObjectID, 10))
}

func (s *DirSource) Load(ctx context.Context, key model.Key) (model.Snapshot, error) {
	dir := s.dir(key)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return model.Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("read gallery folder: %w", err)
	}

	present := make(map[string]bool, len(entries))
	var names []string
	for _, e := range entries {
		if e.IsDir() || !IsImageFile(e.Name()) {
			continue
		}
		present[e.Name()] = true
		if !IsVariantName(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	snap := model.Snapshot{SizeSpec: s.sizes, Images: make([]model.ImageItem, 0, len(names))}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return model.Snapshot{}, err
		}
		full := filepath.Join(dir, name)
		size, err := decodeSize(full)
		if err != nil {
			continue
		}
		item := buildItem(full, size, s.sizes)
		if !present[VariantName(name, WordSmall)] {
			item.SmallURL = full
		}
		if !present[VariantName(name, WordThumbnail)] {
			item.ThumbnailURL = full
		}
		snap.Images = append(snap.Images, item)
	}
	return snap, nil
}

// Keys walks the three folder levels below the root
func (s *DirSource) Keys(ctx context.Context) ([]model.Key, error) {
	matches, err := filepath.Glob(filepath.Join(s.root, "*", "*", "*"))
	if err != nil {
		return nil, err
	}
	var keys []model.Key
	for _, m := range matches {
		rel, err := filepath.Rel(s.root, m)
		if err != nil {
			continue
		}
		key, err := model.ParseKey(filepath.ToSlash(rel))
		if err != nil {
			continue
		}
		if info, err := os.Stat(m); err == nil && info.IsDir() {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (s *DirSource) Close() error { return nil }
