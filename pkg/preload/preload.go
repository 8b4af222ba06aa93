// Package preload fetches and decodes gallery images off-screen. Concurrent
// requests for one url share a single fetch, and decoded images are kept in a
// small LRU so the view can draw them without decoding again.
package preload

import (
	"container/list"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/singleflight"
	"pkt.systems/pslog"
)

// DefaultCacheSize is how many decoded images are kept.
const DefaultCacheSize = 32

// maxImageBytes bounds a single download.
const maxImageBytes = 64 << 20

// Options configures a Preloader
type Options struct {
	CacheSize int
	Client    *http.Client
	// Base resolves relative urls such as "/media/gallery/a.jpg".
	Base   string
	Logger pslog.Logger
}

// Preloader loads images from http(s) urls, file:// urls or local paths.
type Preloader struct {
	client *http.Client
	base   *url.URL
	log    pslog.Logger
	group  singleflight.Group

	mu    sync.Mutex
	limit int
	order *list.List
	cache map[string]*list.Element
}

type entry struct {
	url string
	img image.Image
}

// New builds a Preloader
func New(opts Options) (*Preloader, error) {
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 60 * time.Second}
	}
	if opts.Logger == nil {
		opts.Logger = pslog.Ctx(context.Background())
	}
	p := &Preloader{
		client: opts.Client,
		log:    opts.Logger,
		limit:  opts.CacheSize,
		order:  list.New(),
		cache:  make(map[string]*list.Element),
	}
	if opts.Base != "" {
		base, err := url.Parse(opts.Base)
		if err != nil {
			return nil, fmt.Errorf("invalid base url %q: %w", opts.Base, err)
		}
		p.base = base
	}
	return p, nil
}

// Preload makes sure the image at ref is decoded and cached.
func (p *Preloader) Preload(ctx context.Context, ref string) error {
	_, err := p.Fetch(ctx, ref)
	return err
}

// Fetch returns the decoded image at ref. A fetch abandoned through ctx keeps
// running in the background so a later request finds it cached.
func (p *Preloader) Fetch(ctx context.Context, ref string) (image.Image, error) {
	if ref == "" {
		return nil, fmt.Errorf("empty image url")
	}
	if img, ok := p.Cached(ref); ok {
		return img, nil
	}

	ch := p.group.DoChan(ref, func() (any, error) {
		start := time.Now()
		img, err := p.load(context.WithoutCancel(ctx), ref)
		if err != nil {
			p.log.Debug("image load failed", "url", ref, "err", err)
			return nil, err
		}
		p.store(ref, img)
		p.log.Debug("image loaded", "url", ref, "bounds", img.Bounds().String(), "elapsed", time.Since(start).String())
		return img, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(image.Image), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Cached returns a decoded image without loading it
func (p *Preloader) Cached(ref string) (image.Image, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	el, ok := p.cache[ref]
	if !ok {
		return nil, false
	}
	p.order.MoveToFront(el)
	return el.Value.(*entry).img, true
}

// Len returns the number of cached images
func (p *Preloader) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.order.Len()
}

func (p *Preloader) store(ref string, img image.Image) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if el, ok := p.cache[ref]; ok {
		el.Value.(*entry).img = img
		p.order.MoveToFront(el)
		return
	}
	p.cache[ref] = p.order.PushFront(&entry{url: ref, img: img})
	for p.order.Len() > p.limit {
		oldest := p.order.Back()
		p.order.Remove(oldest)
		delete(p.cache, oldest.Value.(*entry).url)
	}
}

func (p *Preloader) load(ctx context.Context, ref string) (image.Image, error) {
	rc, err := p.open(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	img, _, err := image.Decode(io.LimitReader(rc, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ref, err)
	}
	return img, nil
}

func (p *Preloader) open(ctx context.Context, ref string) (io.ReadCloser, error) {
	u, err := url.Parse(ref)
	if err != nil || (u.Scheme == "" && !strings.HasPrefix(ref, "/")) {
		return os.Open(ref)
	}
	if u.Scheme == "" && p.base != nil {
		u = p.base.ResolveReference(u)
	}

	switch u.Scheme {
	case "http", "https":
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		resp, err := p.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", ref, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch %s: status %s", ref, resp.Status)
		}
		return resp.Body, nil
	case "file":
		return os.Open(u.Path)
	case "":
		return os.Open(ref)
	default:
		return nil, fmt.Errorf("unsupported image url %q", ref)
	}
}
