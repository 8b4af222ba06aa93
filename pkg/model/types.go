package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Size is a width/height pair in pixels
type Size struct {
	Width  int `json:"width" yaml:"width" mapstructure:"width"`
	Height int `json:"height" yaml:"height" mapstructure:"height"`
}

// IsZero reports whether both dimensions are zero
func (s Size) IsZero() bool {
	return s.Width == 0 && s.Height == 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// ImageItem describes one image of a gallery in all of its rendered variants.
// Items are immutable once loaded.
type ImageItem struct {
	FullURL      string `json:"image" yaml:"image"`
	FullSize     Size   `json:"image_size" yaml:"image_size"`
	SmallURL     string `json:"small_image" yaml:"small_image"`
	SmallSize    Size   `json:"small_image_size" yaml:"small_image_size"`
	ThumbnailURL string `json:"thumbnail" yaml:"thumbnail"`
}

// Source returns the url and size of the requested variant
func (i ImageItem) Source(small bool) (string, Size) {
	if small {
		return i.SmallURL, i.SmallSize
	}
	return i.FullURL, i.FullSize
}

// SizeSpec holds the three bounding sizes declared for a gallery.
// They are constant for the lifetime of one loaded gallery.
type SizeSpec struct {
	Full      Size `json:"image_size" yaml:"image_size" mapstructure:"image_size"`
	Small     Size `json:"small_image_size" yaml:"small_image_size" mapstructure:"small_image_size"`
	Thumbnail Size `json:"thumbnail_size" yaml:"thumbnail_size" mapstructure:"thumbnail_size"`
}

// DefaultSizeSpec mirrors the stock content gallery settings
func DefaultSizeSpec() SizeSpec {
	return SizeSpec{
		Full:      Size{Width: 752, Height: 608},
		Small:     Size{Width: 564, Height: 456},
		Thumbnail: Size{Width: 94, Height: 76},
	}
}

// Validate checks that every declared size is positive
func (s SizeSpec) Validate() error {
	for name, size := range map[string]Size{
		"image_size":       s.Full,
		"small_image_size": s.Small,
		"thumbnail_size":   s.Thumbnail,
	} {
		if size.Width <= 0 || size.Height <= 0 {
			return fmt.Errorf("invalid %s %s", name, size)
		}
	}
	return nil
}

// Snapshot is the complete result of one loader call
type Snapshot struct {
	Images   []ImageItem `json:"images" yaml:"images"`
	SizeSpec `yaml:",inline"`
}

// Key identifies the host record a gallery is attached to
type Key struct {
	AppLabel    string
	ContentType string
	ObjectID    int64
}

func (k Key) String() string {
	return k.AppLabel + "/" + k.ContentType + "/" + strconv.FormatInt(k.ObjectID, 10)
}

// IsZero reports whether the key is unset
func (k Key) IsZero() bool {
	return k == Key{}
}

// ParseKey parses the "app/type/id" form produced by Key.String
func ParseKey(s string) (Key, error) {
	parts := strings.Split(strings.Trim(s, "/"), "/")
	if len(parts) != 3 {
		return Key{}, fmt.Errorf("invalid gallery key %q: want app/type/id", s)
	}
	id, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || id < 0 {
		return Key{}, fmt.Errorf("invalid object id in gallery key %q", s)
	}
	if parts[0] == "" || parts[1] == "" {
		return Key{}, fmt.Errorf("invalid gallery key %q: empty app or type", s)
	}
	return Key{AppLabel: parts[0], ContentType: parts[1], ObjectID: id}, nil
}

// FitWithin scales size down proportionally so it fits inside bound.
// Width is fitted first, then height; no dimension drops below 1.
func FitWithin(size, bound Size) Size {
	x, y := size.Width, size.Height
	if x > bound.Width {
		y = max(y*bound.Width/x, 1)
		x = bound.Width
	}
	if y > bound.Height {
		x = max(x*bound.Height/y, 1)
		y = bound.Height
	}
	return Size{Width: x, Height: y}
}
