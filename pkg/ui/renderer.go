package ui

import (
	"context"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/carousel"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/layout"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
)

// Animation defaults, matching the page widget's jQuery timings.
const (
	DefaultAnimationDuration = 250 * time.Millisecond
	DefaultFrameInterval     = time.Second / 30
)

// ViewState is what the terminal draws. TermRenderer owns the live copy;
// State returns snapshots.
type ViewState struct {
	Source     string
	Box        model.Size
	Offset     int
	Highlight  int
	CanPage    [2]bool
	Loading    bool
	Thumbnails []string
	Geometry   layout.Geometry
	// Animating counts running tweens.
	Animating int
}

// TermRenderer implements carousel.Renderer by tweening a ViewState and
// asking the program to redraw after every frame.
type TermRenderer struct {
	duration time.Duration
	interval time.Duration
	redraw   chan struct{}

	mu    sync.Mutex
	state ViewState
}

var _ carousel.Renderer = (*TermRenderer)(nil)

// NewTermRenderer creates a renderer. A zero duration applies animated
// changes in a single frame.
func NewTermRenderer(duration, interval time.Duration) *TermRenderer {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &TermRenderer{
		duration: duration,
		interval: interval,
		redraw:   make(chan struct{}, 1),
		state:    ViewState{Highlight: -1},
	}
}

// Redraws delivers at most one pending redraw request at a time
func (r *TermRenderer) Redraws() <-chan struct{} {
	return r.redraw
}

// RequestRedraw enqueues a redraw without blocking
func (r *TermRenderer) RequestRedraw() {
	select {
	case r.redraw <- struct{}{}:
	default:
	}
}

// State returns a copy of the current view state
func (r *TermRenderer) State() ViewState {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.state
	s.Thumbnails = slices.Clone(r.state.Thumbnails)
	return s
}

func (r *TermRenderer) update(fn func(s *ViewState)) {
	r.mu.Lock()
	fn(&r.state)
	r.mu.Unlock()
	r.RequestRedraw()
}

// swing is jQuery's default easing curve.
func swing(p float64) float64 {
	return 0.5 - math.Cos(p*math.Pi)/2
}

func lerp(from, to int, p float64) int {
	return from + int(math.Round(float64(to-from)*p))
}

// tween calls step with eased progress once per frame until the duration has
// passed. The last call always has progress 1 unless ctx ends first.
func (r *TermRenderer) tween(ctx context.Context, step func(s *ViewState, p float64)) error {
	r.update(func(s *ViewState) { s.Animating++ })
	defer r.update(func(s *ViewState) { s.Animating-- })

	if r.duration <= 0 {
		r.update(func(s *ViewState) { step(s, 1) })
		return nil
	}
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	start := time.Now()
	for {
		p := min(float64(time.Since(start))/float64(r.duration), 1)
		r.update(func(s *ViewState) { step(s, swing(p)) })
		if p >= 1 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (r *TermRenderer) SetImageSource(url string) {
	r.update(func(s *ViewState) { s.Source = url })
}

func (r *TermRenderer) SetImageBox(ctx context.Context, size model.Size, animate bool) error {
	if !animate {
		r.update(func(s *ViewState) { s.Box = size })
		return nil
	}
	from := r.State().Box
	return r.tween(ctx, func(s *ViewState, p float64) {
		s.Box = model.Size{
			Width:  lerp(from.Width, size.Width, p),
			Height: lerp(from.Height, size.Height, p),
		}
	})
}

func (r *TermRenderer) SetStripOffset(ctx context.Context, x int, animate bool) error {
	if !animate {
		r.update(func(s *ViewState) { s.Offset = x })
		return nil
	}
	from := r.State().Offset
	return r.tween(ctx, func(s *ViewState, p float64) {
		s.Offset = lerp(from, x, p)
	})
}

func (r *TermRenderer) SetThumbnailHighlight(index int) {
	r.update(func(s *ViewState) { s.Highlight = index })
}

func (r *TermRenderer) SetPagingAffordance(side carousel.Side, enabled bool) {
	r.update(func(s *ViewState) { s.CanPage[side] = enabled })
}

func (r *TermRenderer) ShowLoadingIndicator() {
	r.update(func(s *ViewState) { s.Loading = true })
}

func (r *TermRenderer) HideLoadingIndicator() {
	r.update(func(s *ViewState) { s.Loading = false })
}

func (r *TermRenderer) SetThumbnails(urls []string) {
	urls = slices.Clone(urls)
	r.update(func(s *ViewState) { s.Thumbnails = urls })
}

func (r *TermRenderer) SetGeometry(g layout.Geometry) {
	r.update(func(s *ViewState) { s.Geometry = g })
}

// Reset clears the view; tweens still running keep their own counter.
func (r *TermRenderer) Reset() {
	r.update(func(s *ViewState) {
		*s = ViewState{Highlight: -1, Animating: s.Animating}
	})
}
