// Package loader fetches gallery snapshots from the supported sources: a YAML
// manifest, the gallery_data HTTP endpoint, a content gallery SQLite
// database, or a plain directory tree of images.
package loader

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
)

// ErrNotFound is returned when the source has no record for the key.
var ErrNotFound = errors.New("gallery not found")

// Source loads complete snapshots and releases its resources on Close.
type Source interface {
	Load(ctx context.Context, key model.Key) (model.Snapshot, error)
	Close() error
}

// Kind names a source type
type Kind string

const (
	KindManifest Kind = "manifest"
	KindHTTP     Kind = "http"
	KindSQLite   Kind = "sqlite"
	KindDir      Kind = "dir"
)

// Options configures Open
type Options struct {
	Kind Kind
	// Path is the manifest file, database file or image root.
	Path string
	// BaseURL is the site serving gallery_data.
	BaseURL string
	// MediaURL prefixes stored image names (sqlite only).
	MediaURL string
	// MediaRoot is where stored image names resolve on disk (sqlite only).
	MediaRoot string
	// Sizes are the declared bounds for sources that do not carry their own.
	Sizes   model.SizeSpec
	Timeout time.Duration
	Client  *http.Client
}

// Open builds the source described by opts
func Open(opts Options) (Source, error) {
	if opts.Sizes == (model.SizeSpec{}) {
		opts.Sizes = model.DefaultSizeSpec()
	}
	switch opts.Kind {
	case KindManifest, "":
		if opts.Path == "" {
			return nil, fmt.Errorf("manifest source needs a path")
		}
		return NewManifest(opts.Path, opts.Sizes), nil
	case KindHTTP:
		client := opts.Client
		if client == nil {
			timeout := opts.Timeout
			if timeout <= 0 {
				timeout = 30 * time.Second
			}
			client = &http.Client{Timeout: timeout}
		}
		return NewHTTP(opts.BaseURL, client)
	case KindSQLite:
		return OpenSQLite(opts.Path, opts.MediaURL, opts.MediaRoot, opts.Sizes)
	case KindDir:
		return NewDir(opts.Path, opts.Sizes)
	default:
		return nil, fmt.Errorf("unknown source kind %q", opts.Kind)
	}
}

// Variant words used in derived image file names.
const (
	WordSmall        = "small"
	WordThumbnail    = "thumbnail"
	WordPreview      = "preview"
	WordSmallPreview = "small_preview"
)

// GalleryDir is the folder stored image names live in.
const GalleryDir = "gallery"

// VariantName derives the file name of a resized variant: "a/b.jpg" with
// word "small" becomes "a/b_small.jpg".
func VariantName(name, word string) string {
	ext := path.Ext(name)
	return strings.TrimSuffix(name, ext) + "_" + word + ext
}

// IsVariantName reports whether name was produced by VariantName.
func IsVariantName(name string) bool {
	base := strings.TrimSuffix(path.Base(name), path.Ext(name))
	for _, word := range []string{WordSmallPreview, WordThumbnail, WordPreview, WordSmall} {
		if strings.HasSuffix(base, "_"+word) {
			return true
		}
	}
	return false
}

// MediaURL joins the media prefix and a stored name without doubling slashes,
// keeping the prefix's leading slash.
func MediaURL(mediaURL, name string) string {
	name = strings.TrimLeft(name, "/")
	if mediaURL == "" {
		return "/" + name
	}
	return strings.TrimRight(mediaURL, "/") + "/" + name
}

// buildItem derives an item from a full-size image url and its pixel size.
// Both variants are bounded by the declared sizes.
func buildItem(fullURL string, size model.Size, sizes model.SizeSpec) model.ImageItem {
	return model.ImageItem{
		FullURL:      fullURL,
		FullSize:     model.FitWithin(size, sizes.Full),
		SmallURL:     VariantName(fullURL, WordSmall),
		SmallSize:    model.FitWithin(size, sizes.Small),
		ThumbnailURL: VariantName(fullURL, WordThumbnail),
	}
}

// Lister is implemented by sources that can enumerate their galleries.
type Lister interface {
	Keys(ctx context.Context) ([]model.Key, error)
}
