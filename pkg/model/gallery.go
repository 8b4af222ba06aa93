package model

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyGallery is returned by Load when the loaded collection has no items.
	// Navigation must stay disabled for an empty gallery.
	ErrEmptyGallery = errors.New("gallery has no images")

	// ErrIndexOutOfRange is returned by JumpTo for an index outside [0, count).
	ErrIndexOutOfRange = errors.New("image index out of range")
)

// Gallery owns the ordered images of one open gallery and its cursor.
// Display order is insertion order; items are unique by position.
type Gallery struct {
	items  []ImageItem
	sizes  SizeSpec
	cursor int
}

// NewGallery returns an empty gallery
func NewGallery() *Gallery {
	return &Gallery{}
}

// Load replaces the collection and resets the cursor to 0.
// An empty collection still replaces the previous one but reports ErrEmptyGallery.
func (g *Gallery) Load(items []ImageItem, sizes SizeSpec) error {
	g.items = append([]ImageItem(nil), items...)
	g.sizes = sizes
	g.cursor = 0
	if len(g.items) == 0 {
		return ErrEmptyGallery
	}
	return nil
}

// Count returns the number of images
func (g *Gallery) Count() int {
	return len(g.items)
}

// Cursor returns the index of the current image
func (g *Gallery) Cursor() int {
	return g.cursor
}

// Sizes returns the declared size spec
func (g *Gallery) Sizes() SizeSpec {
	return g.sizes
}

// Items returns a copy of the loaded images
func (g *Gallery) Items() []ImageItem {
	return append([]ImageItem(nil), g.items...)
}

// Item returns the image at index
func (g *Gallery) Item(index int) (ImageItem, bool) {
	if index < 0 || index >= len(g.items) {
		return ImageItem{}, false
	}
	return g.items[index], true
}

// Current returns the image under the cursor, or false when empty
func (g *Gallery) Current() (ImageItem, bool) {
	return g.Item(g.cursor)
}

// Advance moves the cursor forward, wrapping to the first image.
// With fewer than two images it does nothing.
func (g *Gallery) Advance() int {
	if n := len(g.items); n >= 2 {
		g.cursor = (g.cursor + 1) % n
	}
	return g.cursor
}

// Retreat moves the cursor backward, wrapping to the last image.
// With fewer than two images it does nothing.
func (g *Gallery) Retreat() int {
	if n := len(g.items); n >= 2 {
		g.cursor = (g.cursor - 1 + n) % n
	}
	return g.cursor
}

// JumpTo sets the cursor directly. The cursor is left untouched on error.
func (g *Gallery) JumpTo(index int) error {
	if index < 0 || index >= len(g.items) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, index, len(g.items))
	}
	g.cursor = index
	return nil
}
