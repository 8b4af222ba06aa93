// Package scroll keeps the thumbnail strip's horizontal offset so that the
// selected thumbnail stays visible.
//
// The offset is the leftward displacement of the strip inside its container:
// 0 shows the first thumbnail at the left edge, negative values reveal later
// thumbnails. MaxOffset is the most negative useful offset; when the strip is
// narrower than its container MaxOffset is positive and nothing ever scrolls.
package scroll

// Window holds the scroll state of one strip
type Window struct {
	offset    int
	maxOffset int
	stride    int
	container int

	// snapTail pulls a strip scrolled past its tail back to MaxOffset
	snapTail bool
}

// New returns a window with the given thumbnail stride.
// The tail snap is on, matching the shipped widget.
func New(stride int) *Window {
	if stride <= 0 {
		stride = 1
	}
	return &Window{stride: stride, snapTail: true}
}

// SetSnapTail toggles pulling an overscrolled strip back to its tail
func (w *Window) SetSnapTail(on bool) {
	w.snapTail = on
}

// SetStride changes the scroll unit
func (w *Window) SetStride(stride int) {
	if stride > 0 {
		w.stride = stride
	}
}

// ComputeBounds records the container width and returns the new MaxOffset.
func (w *Window) ComputeBounds(containerWidth, stripWidth int) int {
	w.container = containerWidth
	w.maxOffset = containerWidth - stripWidth
	return w.maxOffset
}

// Offset returns the current strip offset
func (w *Window) Offset() int { return w.offset }

// MaxOffset returns the most negative useful offset from the last ComputeBounds
func (w *Window) MaxOffset() int { return w.maxOffset }

// Stride returns the width of one thumbnail slot
func (w *Window) Stride() int { return w.stride }

// ContainerWidth returns the visible width of the strip
func (w *Window) ContainerWidth() int { return w.container }

// CanPageLeft reports whether thumbnails are hidden past the left edge
func (w *Window) CanPageLeft() bool { return w.offset < 0 }

// CanPageRight reports whether thumbnails are hidden past the right edge
func (w *Window) CanPageRight() bool { return w.offset > w.maxOffset }

// Scrollable reports whether the strip is wider than its container
func (w *Window) Scrollable() bool { return w.maxOffset < 0 }

// SetOffset places the strip without any clamping
func (w *Window) SetOffset(offset int) { w.offset = offset }

func (w *Window) restOffset() int { return min(w.maxOffset, 0) }

// Reset returns the strip to its leftmost position
func (w *Window) Reset() {
	w.offset = 0
}

// Visible reports whether the thumbnail at index lies fully inside the container.
func (w *Window) Visible(index int) bool {
	begin := index * w.stride
	end := begin + w.stride
	return w.offset+begin >= 0 && w.offset+end <= w.container
}

// ScrollTo moves the strip so the thumbnail at index is visible and returns
// the new offset and whether it changed.
//
// A thumbnail that is already visible leaves the strip alone unless the strip
// has been scrolled past its tail, in which case it is pulled back to
// MaxOffset (or 0 for a strip that fits). A hidden
// thumbnail is aligned to whichever edge it crosses; when it crosses both,
// the right edge wins.
func (w *Window) ScrollTo(index int) (int, bool) {
	prev := w.offset
	begin := index * w.stride
	end := begin + w.stride

	next := prev
	if prev+begin >= 0 && prev+end <= w.container {
		if w.snapTail && prev < w.maxOffset {
			next = w.restOffset()
		}
	} else {
		if prev+begin < 0 {
			next = -begin
		}
		if prev+end > w.container {
			next = w.container - end
		}
	}

	w.offset = next
	return next, next != prev
}

// PageLeft reveals one more thumbnail on the left, if the strip is scrolled.
func (w *Window) PageLeft() (int, bool) {
	if !w.CanPageLeft() {
		return w.offset, false
	}
	w.offset += w.stride
	return w.offset, true
}

// PageRight reveals one more thumbnail on the right, if any remain hidden.
func (w *Window) PageRight() (int, bool) {
	if !w.CanPageRight() {
		return w.offset, false
	}
	w.offset -= w.stride
	return w.offset, true
}
