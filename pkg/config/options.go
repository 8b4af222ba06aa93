package config

import (
	"net/http"
	"time"

	"pkt.systems/pslog"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/carousel"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/layout"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/loader"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/preload"
)

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// LoaderOptions describes the configured source
func (c Config) LoaderOptions() loader.Options {
	return loader.Options{
		Kind:      loader.Kind(c.Source.Kind),
		Path:      c.Source.Path,
		BaseURL:   c.Source.BaseURL,
		MediaURL:  c.Source.MediaURL,
		MediaRoot: c.Source.MediaRoot,
		Sizes:     c.Sizes,
		Timeout:   millis(c.Source.TimeoutMS),
	}
}

// ViewLayout returns the configured layout with its margins and gap applied.
func (c Config) ViewLayout() (layout.Layout, error) {
	l, err := layout.ByName(c.Layout.Kind)
	if err != nil {
		return layout.Layout{}, err
	}
	l.MarginWidth = c.Layout.MarginWidth
	l.MarginHeight = c.Layout.MarginHeight
	if l.Kind == layout.KindComposite {
		l.ThumbnailGap = c.Strip.Gap
	}
	return l, nil
}

// CarouselOptions builds controller options logging to log.
func (c Config) CarouselOptions(log pslog.Logger) (carousel.Options, error) {
	l, err := c.ViewLayout()
	if err != nil {
		return carousel.Options{}, err
	}
	return carousel.Options{
		Layout:          l,
		DisableSnapTail: !c.Strip.SnapTail,
		PreloadTimeout:  millis(c.Preload.TimeoutMS),
		Logger:          log,
	}, nil
}

// PreloadOptions builds preloader options. Relative image urls resolve
// against the http source's base url.
func (c Config) PreloadOptions(log pslog.Logger) preload.Options {
	opts := preload.Options{
		CacheSize: c.Preload.CacheSize,
		Logger:    log,
	}
	if c.Source.Kind == string(loader.KindHTTP) {
		opts.Base = c.Source.BaseURL
		opts.Client = &http.Client{Timeout: millis(c.Source.TimeoutMS)}
	}
	return opts
}

// AnimationDuration is how long one tween runs
func (c Config) AnimationDuration() time.Duration {
	return millis(c.Animation.DurationMS)
}

// FrameInterval is the delay between two animation frames
func (c Config) FrameInterval() time.Duration {
	if c.Animation.FPS <= 0 {
		return time.Second / 30
	}
	return time.Second / time.Duration(c.Animation.FPS)
}
