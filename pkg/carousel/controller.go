// Package carousel drives one open image gallery: it owns the cursor, the
// strip scroll state and the transition guard, and tells a Renderer what to
// show. All navigation commands except Resize and Close go through the guard,
// so at most one animated transition manipulates the view at a time.
package carousel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"pkt.systems/pslog"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/layout"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/logx"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/scroll"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/transition"
)

var (
	// ErrLoadFailure wraps loader errors; the gallery does not open.
	ErrLoadFailure = errors.New("gallery load failed")
	// ErrBusy is returned by Open while a transition is in flight.
	ErrBusy = errors.New("gallery transition in flight")
	// ErrClosed is returned by commands that need an open gallery.
	ErrClosed = errors.New("gallery is not open")
)

// DefaultPreloadTimeout bounds how long a transition waits for an image.
const DefaultPreloadTimeout = 10 * time.Second

// Options configures a Controller
type Options struct {
	// ID names the instance in logs; a random one is generated when empty.
	ID     string
	Layout layout.Layout
	// DisableSnapTail leaves a strip scrolled past its tail where it is
	// instead of pulling it back to MaxOffset.
	DisableSnapTail bool
	PreloadTimeout  time.Duration
	Logger          pslog.Logger
}

// Controller is one open gallery instance. The zero value is not usable;
// construct it with New.
type Controller struct {
	id             string
	loader         Loader
	preloader      Preloader
	view           Renderer
	viewport       Viewport
	layout         layout.Layout
	preloadTimeout time.Duration
	baseLog        pslog.Logger

	guard *transition.Guard

	mu       sync.Mutex
	log      pslog.Logger
	key      model.Key
	opened   bool
	gallery  *model.Gallery
	strip    *scroll.Window
	geometry layout.Geometry

	resizePending atomic.Bool
}

// New builds a closed controller
func New(loader Loader, preloader Preloader, view Renderer, viewport Viewport, opts Options) *Controller {
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if opts.Layout.Kind == "" {
		opts.Layout = layout.Composite()
	}
	if opts.PreloadTimeout <= 0 {
		opts.PreloadTimeout = DefaultPreloadTimeout
	}
	if opts.Logger == nil {
		opts.Logger = pslog.Ctx(context.Background())
	}

	strip := scroll.New(opts.Layout.Stride(model.DefaultSizeSpec().Thumbnail))
	strip.SetSnapTail(!opts.DisableSnapTail)

	c := &Controller{
		id:             opts.ID,
		loader:         loader,
		preloader:      preloader,
		view:           view,
		viewport:       viewport,
		layout:         opts.Layout,
		preloadTimeout: opts.PreloadTimeout,
		baseLog:        opts.Logger,
		log:            logx.WithGallery(opts.Logger, opts.ID, model.Key{}),
		guard:          transition.NewGuard(),
		gallery:        model.NewGallery(),
		strip:          strip,
	}
	c.guard.OnIdle(c.flushResize)
	return c
}

// ID returns the instance id
func (c *Controller) ID() string {
	return c.id
}

// Open loads the gallery of key and shows its first image without animation.
//
// A loader error is wrapped in ErrLoadFailure and leaves the previous state
// alone. An empty result opens the gallery with navigation disabled and
// returns model.ErrEmptyGallery.
func (c *Controller) Open(ctx context.Context, key model.Key) error {
	if c.guard.Busy() {
		return ErrBusy
	}

	log := logx.WithGallery(c.baseLog, c.id, key)
	start := time.Now()
	snap, err := c.loader.Load(ctx, key)
	if err == nil {
		err = snap.Validate()
	}
	if err != nil {
		log.Warn("gallery load failed", "err", err)
		return fmt.Errorf("%w: %s: %w", ErrLoadFailure, key, err)
	}

	applied := false
	var result error
	c.guard.TryRun(func() {
		applied = true
		result = c.apply(log, key, snap)
	})
	if !applied {
		return ErrBusy
	}
	log.Info("gallery opened", "images", len(snap.Images), "elapsed", time.Since(start).String())
	return result
}

// Reload re-opens the current key. It waits for a transition in flight to
// finish instead of failing with ErrBusy.
func (c *Controller) Reload(ctx context.Context) error {
	c.mu.Lock()
	key, opened := c.key, c.opened
	c.mu.Unlock()
	if !opened {
		return ErrClosed
	}
	for {
		if err := c.guard.Wait(ctx); err != nil {
			return err
		}
		err := c.Open(ctx, key)
		if !errors.Is(err, ErrBusy) {
			return err
		}
		c.log.Debug("reload raced a transition, retrying")
	}
}

func (c *Controller) apply(log pslog.Logger, key model.Key, snap model.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.log = log
	c.key = key
	c.opened = true
	err := c.gallery.Load(snap.Images, snap.SizeSpec)

	thumbs := make([]string, len(snap.Images))
	for i, img := range snap.Images {
		thumbs[i] = img.ThumbnailURL
	}
	c.view.Reset()
	c.view.SetThumbnails(thumbs)
	c.strip.Reset()
	c.resizeLocked()
	if errors.Is(err, model.ErrEmptyGallery) {
		log.Info("gallery is empty")
	}
	return err
}

// Close discards the gallery. Animations already running finish on their own.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.opened {
		return
	}
	c.log.Info("gallery closed")
	c.opened = false
	c.key = model.Key{}
	c.gallery = model.NewGallery()
	c.strip.Reset()
	c.geometry = layout.Geometry{}
	c.resizePending.Store(false)
	c.view.Reset()
}

// Next shows the following image, wrapping around.
func (c *Controller) Next() {
	c.step((*model.Gallery).Advance)
}

// Previous shows the preceding image, wrapping around.
func (c *Controller) Previous() {
	c.step((*model.Gallery).Retreat)
}

func (c *Controller) step(move func(*model.Gallery) int) {
	c.guard.TryRun(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if !c.opened {
			return
		}
		prev := c.gallery.Cursor()
		if idx := move(c.gallery); idx != prev {
			c.showAnimatedLocked(idx)
		}
	})
}

// JumpTo shows the image at index. An index outside the gallery is a host
// bug and is reported with model.ErrIndexOutOfRange.
func (c *Controller) JumpTo(index int) error {
	c.mu.Lock()
	if !c.opened {
		c.mu.Unlock()
		return ErrClosed
	}
	count := c.gallery.Count()
	c.mu.Unlock()
	if index < 0 || index >= count {
		return fmt.Errorf("%w: %d not in [0,%d)", model.ErrIndexOutOfRange, index, count)
	}

	c.guard.TryRun(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if !c.opened || c.gallery.JumpTo(index) != nil {
			return
		}
		c.showAnimatedLocked(index)
	})
	return nil
}

// PageLeft slides the strip one thumbnail toward its start.
func (c *Controller) PageLeft() {
	c.page((*scroll.Window).PageLeft)
}

// PageRight slides the strip one thumbnail toward its end.
func (c *Controller) PageRight() {
	c.page((*scroll.Window).PageRight)
}

func (c *Controller) page(move func(*scroll.Window) (int, bool)) {
	c.guard.TryRun(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if !c.opened || c.layout.Kind != layout.KindComposite {
			return
		}
		offset, moved := move(c.strip)
		if !moved {
			return
		}
		c.guard.RunGuarded(context.Background(), func(ctx context.Context) error {
			return c.view.SetStripOffset(ctx, offset, true)
		})
		c.updateAffordancesLocked()
	})
}

// Resize re-derives the variant and geometry from the viewport and redraws
// the current image and strip without animation. While a transition is in
// flight the resize is deferred until the guard becomes idle.
func (c *Controller) Resize() {
	c.resizePending.Store(true)
	c.flushResize()
}

// flushResize applies a pending resize once the guard is idle. The flag is
// set before the guard is checked, so a transition that ends in between
// still sees it from its idle hook.
func (c *Controller) flushResize() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.opened {
		c.resizePending.Store(false)
		return
	}
	if c.guard.Busy() {
		return
	}
	if c.resizePending.CompareAndSwap(true, false) {
		c.resizeLocked()
	}
}

func (c *Controller) resizeLocked() {
	ctx := context.Background()
	variant := c.refreshGeometryLocked(true)

	item, ok := c.gallery.Current()
	if ok {
		url, size := item.Source(variant == layout.Small)
		c.view.SetImageSource(url)
		_ = c.view.SetImageBox(ctx, size, false)
		c.view.SetThumbnailHighlight(c.gallery.Cursor())
		c.scrollToLocked(ctx, c.gallery.Cursor(), false)
	}
	c.updateAffordancesLocked()
}

// refreshGeometryLocked re-evaluates the variant. The geometry is pushed to
// the view when force is set or the variant changed.
func (c *Controller) refreshGeometryLocked(force bool) layout.Variant {
	sizes := c.gallery.Sizes()
	viewport := c.viewport.Size()
	variant := c.layout.Choose(viewport, sizes)
	if !force && variant == c.geometry.Variant && c.geometry.Stride != 0 {
		return variant
	}

	c.geometry = c.layout.Compute(variant, sizes, c.gallery.Count())
	c.view.SetGeometry(c.geometry)
	if c.geometry.Stride > 0 {
		c.strip.SetStride(c.geometry.Stride)
	}
	c.strip.ComputeBounds(c.geometry.ContainerWidth, c.geometry.StripWidth)
	c.log.Debug("geometry updated",
		"viewport", viewport.String(),
		"variant", variant.String(),
		"max_offset", c.strip.MaxOffset())
	return variant
}

// showAnimatedLocked runs the two-phase image swap for index and slides the
// strip in parallel. The returned future resolves when the grow animation
// finishes.
func (c *Controller) showAnimatedLocked(index int) *transition.Future {
	item, ok := c.gallery.Item(index)
	if !ok {
		return transition.Resolved(model.ErrIndexOutOfRange)
	}
	variant := c.refreshGeometryLocked(false)
	url, size := item.Source(variant == layout.Small)
	c.view.SetThumbnailHighlight(index)

	ctx := context.Background()
	log := c.log.With("index", index, "variant", variant.String())
	log.Debug("transition start", "url", url)

	swap := c.guard.RunGuarded(ctx, func(ctx context.Context) error {
		return c.swapImage(ctx, log, url, size)
	})
	c.scrollToLocked(ctx, index, true)
	return swap
}

// swapImage shrinks the current image while the next one preloads, then
// swaps the source and grows the box to size once both are done.
func (c *Controller) swapImage(ctx context.Context, log pslog.Logger, url string, size model.Size) error {
	indicator := &loadingIndicator{view: c.view}

	preload := transition.Go(ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, c.preloadTimeout)
		defer cancel()
		return c.preloader.Preload(ctx, url)
	})
	preload.Then(func(error) { indicator.loaded() })

	shrink := transition.Go(ctx, func(ctx context.Context) error {
		return c.view.SetImageBox(ctx, model.Size{}, true)
	})

	<-shrink.Done()
	if !preload.Resolved() {
		indicator.show()
	}

	if err := transition.Join(ctx, preload, shrink).Wait(ctx); err != nil {
		if perr := preload.Err(); perr != nil {
			log.Warn("image preload failed, showing it anyway", "url", url, "err", perr)
		} else {
			log.Warn("shrink animation failed", "err", err)
		}
	}
	indicator.loaded()

	c.view.SetImageSource(url)
	err := c.view.SetImageBox(ctx, size, true)
	log.Debug("transition done", "err", err)
	return err
}

func (c *Controller) scrollToLocked(ctx context.Context, index int, animate bool) {
	if c.layout.Kind != layout.KindComposite {
		return
	}
	offset, changed := c.strip.ScrollTo(index)
	if changed {
		if animate {
			c.guard.RunGuarded(ctx, func(ctx context.Context) error {
				return c.view.SetStripOffset(ctx, offset, true)
			})
		} else {
			_ = c.view.SetStripOffset(ctx, offset, false)
		}
	}
	c.updateAffordancesLocked()
}

func (c *Controller) updateAffordancesLocked() {
	scrollable := c.layout.Kind == layout.KindComposite
	c.view.SetPagingAffordance(Left, scrollable && c.strip.CanPageLeft())
	c.view.SetPagingAffordance(Right, scrollable && c.strip.CanPageRight())
}

// Wait blocks until no transition is in flight
func (c *Controller) Wait(ctx context.Context) error {
	return c.guard.Wait(ctx)
}

// Transitioning reports whether an animated transition is in flight
func (c *Controller) Transitioning() bool {
	return c.guard.Busy()
}

// State is a point-in-time copy of the controller's view state
type State struct {
	Opened   bool
	Key      model.Key
	Cursor   int
	Count    int
	Current  model.ImageItem
	Items    []model.ImageItem
	Geometry layout.Geometry
	Offset   int
	Busy     bool
}

// Snapshot returns the current state
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	cur, _ := c.gallery.Current()
	return State{
		Opened:   c.opened,
		Key:      c.key,
		Cursor:   c.gallery.Cursor(),
		Count:    c.gallery.Count(),
		Current:  cur,
		Items:    c.gallery.Items(),
		Geometry: c.geometry,
		Offset:   c.strip.Offset(),
		Busy:     c.guard.Busy(),
	}
}

// loadingIndicator shows the host's indicator at most once per transition
// and hides it as soon as the image is loaded.
type loadingIndicator struct {
	mu     sync.Mutex
	view   Renderer
	done   bool
	active bool
}

func (l *loadingIndicator) show() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done || l.active {
		return
	}
	l.active = true
	l.view.ShowLoadingIndicator()
}

func (l *loadingIndicator) loaded() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.done = true
	if l.active {
		l.active = false
		l.view.HideLoadingIndicator()
	}
}
