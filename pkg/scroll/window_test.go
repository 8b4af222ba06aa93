package scroll

import "testing"

// threeInOneTwenty is 3 thumbnails of stride 50 in a 120 wide container
func threeInOneTwenty() *Window {
	w := New(50)
	w.ComputeBounds(120, 150)
	return w
}

func TestComputeBounds(t *testing.T) {
	w := New(50)
	if got := w.ComputeBounds(120, 150); got != -30 {
		t.Errorf("expected maxOffset -30, got %d", got)
	}
	if got := w.ComputeBounds(400, 150); got != 250 {
		t.Errorf("expected maxOffset 250 for a short strip, got %d", got)
	}
	if w.Scrollable() {
		t.Error("short strip should not be scrollable")
	}
}

func TestScrollToLeavesVisibleThumbnailAlone(t *testing.T) {
	w := threeInOneTwenty()

	for i := 0; i < 2; i++ {
		if offset, changed := w.ScrollTo(0); changed || offset != 0 {
			t.Errorf("ScrollTo(0) call %d: expected unchanged 0, got %d (changed=%v)", i+1, offset, changed)
		}
	}

	w = New(102)
	w.ComputeBounds(816, 1020)
	for _, idx := range []int{0, 1} {
		if _, changed := w.ScrollTo(idx); changed || !w.Visible(idx) {
			t.Errorf("ScrollTo(%d) from 0: offset %d visible=%v", idx, w.Offset(), w.Visible(idx))
		}
	}
}

func TestScrollToPullsOverscrolledStripToTail(t *testing.T) {
	w := threeInOneTwenty()
	w.SetOffset(-50)

	// thumbnail 2 spans [50,100]: visible, but the strip is past -30
	offset, changed := w.ScrollTo(2)
	if !changed || offset != -30 {
		t.Errorf("ScrollTo(2) from -50: expected -30 (changed), got %d (changed=%v)", offset, changed)
	}
	if !w.Visible(2) {
		t.Error("thumbnail 2 hidden after the snap")
	}
	if _, changed := w.ScrollTo(2); changed {
		t.Errorf("second ScrollTo(2) moved the strip to %d", w.Offset())
	}

	// a strip that fits rests at 0
	w = New(50)
	w.ComputeBounds(400, 150)
	w.SetOffset(-50)
	if offset, _ := w.ScrollTo(1); offset != 0 {
		t.Errorf("short strip: expected 0, got %d", offset)
	}
}

func TestScrollToKeepsTargetVisible(t *testing.T) {
	w := New(102)
	w.ComputeBounds(816, 1020)

	for _, idx := range []int{0, 1, 5, 8, 9, 9, 3, 0, 7} {
		w.ScrollTo(idx)
		if !w.Visible(idx) {
			t.Errorf("thumbnail %d not visible at offset %d", idx, w.Offset())
		}
		if _, changed := w.ScrollTo(idx); changed {
			t.Errorf("second ScrollTo(%d) changed the offset", idx)
		}
	}
}

func TestScrollToLeavesRestingStrip(t *testing.T) {
	w := threeInOneTwenty()
	w.SetOffset(-30)

	offset, changed := w.ScrollTo(2)
	if changed || offset != -30 {
		t.Errorf("ScrollTo(2) from -30: expected unchanged -30, got %d (changed=%v)", offset, changed)
	}
}

func TestScrollToIsIdempotentAtRest(t *testing.T) {
	w := threeInOneTwenty()

	// thumbnail 2 spans [100,150]: the first call aligns it to the right edge
	if offset, changed := w.ScrollTo(2); !changed || offset != -30 {
		t.Fatalf("ScrollTo(2) from 0: expected -30, got %d (changed=%v)", offset, changed)
	}
	if _, changed := w.ScrollTo(2); changed {
		t.Errorf("second ScrollTo(2) moved the strip to %d", w.Offset())
	}

	w = New(50)
	w.ComputeBounds(120, 500)
	w.ScrollTo(9)
	if _, changed := w.ScrollTo(9); changed {
		t.Errorf("second ScrollTo(9) moved the strip to %d", w.Offset())
	}
}

func TestScrollToWithoutSnapKeepsThumbnailVisible(t *testing.T) {
	w := New(50)
	w.SetSnapTail(false)
	w.ComputeBounds(120, 500)

	for idx := 0; idx < 10; idx++ {
		w.ScrollTo(idx)
		if !w.Visible(idx) {
			t.Errorf("thumbnail %d not visible at offset %d", idx, w.Offset())
		}
		if _, changed := w.ScrollTo(idx); changed {
			t.Errorf("second ScrollTo(%d) changed the offset", idx)
		}
	}
}

func TestScrollToAlignsEdges(t *testing.T) {
	w := New(50)
	w.SetSnapTail(false)
	w.ComputeBounds(120, 500)

	// thumbnail 5 spans [250,300]: align its right edge to 120
	if offset, _ := w.ScrollTo(5); offset != -180 {
		t.Errorf("ScrollTo(5): expected -180, got %d", offset)
	}
	// thumbnail 1 spans [-130,-80]: align its left edge to 0
	if offset, _ := w.ScrollTo(1); offset != -50 {
		t.Errorf("ScrollTo(1): expected -50, got %d", offset)
	}
}

func TestScrollToRightEdgeWinsWhenBothCrossed(t *testing.T) {
	// container narrower than a single thumbnail
	w := New(50)
	w.ComputeBounds(30, 150)
	w.SetOffset(-60)

	// thumbnail 1 spans [-10,40]: crosses both edges
	if offset, _ := w.ScrollTo(1); offset != 30-100 {
		t.Errorf("expected right edge alignment -70, got %d", offset)
	}
}

func TestScrollToShortStripNeverMoves(t *testing.T) {
	w := New(50)
	w.ComputeBounds(400, 150)

	for idx := 0; idx < 3; idx++ {
		if _, changed := w.ScrollTo(idx); changed {
			t.Errorf("ScrollTo(%d) moved a strip that fits", idx)
		}
	}
}

func TestPaging(t *testing.T) {
	w := threeInOneTwenty()

	if w.CanPageLeft() {
		t.Error("strip at 0 should not page left")
	}
	if !w.CanPageRight() {
		t.Error("strip at 0 should page right")
	}
	if _, moved := w.PageLeft(); moved {
		t.Error("PageLeft at 0 should be a no-op")
	}

	offset, moved := w.PageRight()
	if !moved || offset != -50 {
		t.Errorf("PageRight: expected -50, got %d (moved=%v)", offset, moved)
	}
	if w.CanPageRight() {
		t.Error("strip past maxOffset should not page right")
	}
	if _, moved := w.PageRight(); moved {
		t.Error("PageRight past maxOffset should be a no-op")
	}

	offset, moved = w.PageLeft()
	if !moved || offset != 0 {
		t.Errorf("PageLeft: expected 0, got %d (moved=%v)", offset, moved)
	}
}

func TestResetAndStride(t *testing.T) {
	w := New(0)
	if w.Stride() != 1 {
		t.Errorf("expected stride clamped to 1, got %d", w.Stride())
	}
	w.SetStride(102)
	w.SetOffset(-204)
	w.Reset()
	if w.Offset() != 0 || w.Stride() != 102 {
		t.Errorf("unexpected state offset=%d stride=%d", w.Offset(), w.Stride())
	}
}
