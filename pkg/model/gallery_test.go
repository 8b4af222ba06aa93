package model

import (
	"errors"
	"testing"
)

func testItems(n int) []ImageItem {
	items := make([]ImageItem, n)
	for i := range items {
		items[i] = ImageItem{
			FullURL:      "/media/gallery/" + string(rune('a'+i)) + ".jpg",
			FullSize:     Size{Width: 752, Height: 500},
			SmallURL:     "/media/gallery/" + string(rune('a'+i)) + "_small.jpg",
			SmallSize:    Size{Width: 564, Height: 375},
			ThumbnailURL: "/media/gallery/" + string(rune('a'+i)) + "_thumbnail.jpg",
		}
	}
	return items
}

func TestGalleryAdvanceRetreatInverse(t *testing.T) {
	for _, count := range []int{2, 3, 7} {
		g := NewGallery()
		if err := g.Load(testItems(count), DefaultSizeSpec()); err != nil {
			t.Fatalf("Load: %v", err)
		}
		for start := 0; start < count; start++ {
			if err := g.JumpTo(start); err != nil {
				t.Fatalf("JumpTo(%d): %v", start, err)
			}
			g.Advance()
			if got := g.Retreat(); got != start {
				t.Errorf("count=%d: advance+retreat from %d landed on %d", count, start, got)
			}
			g.Retreat()
			if got := g.Advance(); got != start {
				t.Errorf("count=%d: retreat+advance from %d landed on %d", count, start, got)
			}
		}
	}
}

func TestGalleryWraparound(t *testing.T) {
	g := NewGallery()
	_ = g.Load(testItems(3), DefaultSizeSpec())

	if got := g.Retreat(); got != 2 {
		t.Errorf("Retreat from 0: expected 2, got %d", got)
	}
	if got := g.Advance(); got != 0 {
		t.Errorf("Advance from 2: expected 0, got %d", got)
	}
}

func TestGallerySingleItemIsNoop(t *testing.T) {
	g := NewGallery()
	_ = g.Load(testItems(1), DefaultSizeSpec())

	if got := g.Advance(); got != 0 {
		t.Errorf("Advance: expected 0, got %d", got)
	}
	if got := g.Retreat(); got != 0 {
		t.Errorf("Retreat: expected 0, got %d", got)
	}
}

func TestGalleryJumpToOutOfRange(t *testing.T) {
	g := NewGallery()
	_ = g.Load(testItems(3), DefaultSizeSpec())
	_ = g.JumpTo(1)

	for _, idx := range []int{-1, 3, 100} {
		err := g.JumpTo(idx)
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("JumpTo(%d): expected ErrIndexOutOfRange, got %v", idx, err)
		}
		if g.Cursor() != 1 {
			t.Errorf("JumpTo(%d) moved cursor to %d", idx, g.Cursor())
		}
	}
}

func TestGalleryEmptyLoad(t *testing.T) {
	g := NewGallery()
	_ = g.Load(testItems(2), DefaultSizeSpec())
	_ = g.JumpTo(1)

	err := g.Load(nil, DefaultSizeSpec())
	if !errors.Is(err, ErrEmptyGallery) {
		t.Fatalf("expected ErrEmptyGallery, got %v", err)
	}
	if _, ok := g.Current(); ok {
		t.Error("expected no current image after empty load")
	}
	g.Advance()
	g.Retreat()
	if g.Cursor() != 0 {
		t.Errorf("expected cursor 0, got %d", g.Cursor())
	}
	if !errors.Is(g.JumpTo(0), ErrIndexOutOfRange) {
		t.Error("expected JumpTo(0) to fail on empty gallery")
	}
}

func TestGalleryLoadResetsCursor(t *testing.T) {
	g := NewGallery()
	_ = g.Load(testItems(4), DefaultSizeSpec())
	_ = g.JumpTo(3)
	_ = g.Load(testItems(2), DefaultSizeSpec())

	if g.Cursor() != 0 {
		t.Errorf("expected cursor reset to 0, got %d", g.Cursor())
	}
	cur, ok := g.Current()
	if !ok || cur.FullURL != "/media/gallery/a.jpg" {
		t.Errorf("unexpected current image %+v", cur)
	}
}

func TestGalleryItemsAreCopied(t *testing.T) {
	items := testItems(2)
	g := NewGallery()
	_ = g.Load(items, DefaultSizeSpec())
	items[0].FullURL = "mutated"

	cur, _ := g.Current()
	if cur.FullURL == "mutated" {
		t.Error("gallery shares backing array with caller")
	}
}
