package carousel

import (
	"context"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/layout"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
)

// Loader fetches the complete image list of one host record.
type Loader interface {
	Load(ctx context.Context, key model.Key) (model.Snapshot, error)
}

// Preloader fetches and decodes an image off-screen.
type Preloader interface {
	Preload(ctx context.Context, url string) error
}

// Viewport reports the current drawable area in pixels.
type Viewport interface {
	Size() model.Size
}

// Side names a paging affordance
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// Renderer is implemented by the host view layer. The controller never
// touches layout or styling except through these calls.
//
// The animated setters block until the animation completes (or ctx ends);
// with animate=false they apply immediately.
type Renderer interface {
	SetImageSource(url string)
	SetImageBox(ctx context.Context, size model.Size, animate bool) error
	SetStripOffset(ctx context.Context, x int, animate bool) error
	SetThumbnailHighlight(index int)
	SetPagingAffordance(side Side, enabled bool)
	ShowLoadingIndicator()
	HideLoadingIndicator()

	// SetThumbnails replaces the strip contents.
	SetThumbnails(urls []string)
	// SetGeometry sizes the view, image and strip containers.
	SetGeometry(g layout.Geometry)
	// Reset clears everything when the gallery closes.
	Reset()
}
