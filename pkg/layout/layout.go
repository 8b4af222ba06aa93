// Package layout decides which image variant fits the viewport and derives
// the carousel's view geometry from the declared sizes.
package layout

import (
	"fmt"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
)

// Variant is the rendered size of an image
type Variant int

const (
	Full Variant = iota
	Small
)

func (v Variant) String() string {
	if v == Small {
		return "small"
	}
	return "full"
}

// ChooseVariant picks Small iff the content plus its margins does not fit the
// viewport in either dimension. It keeps no memory of earlier choices.
func ChooseVariant(viewportWidth, viewportHeight, contentWidth, contentHeight, marginW, marginH int) Variant {
	if viewportWidth < contentWidth+marginW || viewportHeight < contentHeight+marginH {
		return Small
	}
	return Full
}

// Layout constants of the composite (image + strip) view.
const (
	// CompositeExtraWidth is the room for the prev/next controls around the image.
	CompositeExtraWidth = 200
	// CompositeExtraHeight is the chrome above and below the strip.
	CompositeExtraHeight = 45
	// StripOverflowSlack is how far the strip container may exceed the image width.
	StripOverflowSlack = 140
	// DefaultThumbnailGap is the spacing between two thumbnails.
	DefaultThumbnailGap = 8

	DefaultMarginWidth  = 40
	DefaultMarginHeight = 65
)

// Kind names a layout
type Kind string

const (
	KindComposite  Kind = "composite"
	KindStandalone Kind = "standalone"
)

// Layout describes the chrome around the image for one kind of view.
type Layout struct {
	Kind         Kind
	MarginWidth  int
	MarginHeight int
	// ThumbnailGap is added to the thumbnail width to get the strip stride.
	ThumbnailGap int
}

// Composite is the gallery view with a thumbnail strip under the image
func Composite() Layout {
	return Layout{
		Kind:         KindComposite,
		MarginWidth:  DefaultMarginWidth,
		MarginHeight: DefaultMarginHeight,
		ThumbnailGap: DefaultThumbnailGap,
	}
}

// Standalone is the single image preview without a strip
func Standalone() Layout {
	return Layout{
		Kind:         KindStandalone,
		MarginWidth:  DefaultMarginWidth,
		MarginHeight: DefaultMarginHeight,
	}
}

// ByName returns the named layout
func ByName(name string) (Layout, error) {
	switch Kind(name) {
	case KindComposite, "":
		return Composite(), nil
	case KindStandalone:
		return Standalone(), nil
	default:
		return Layout{}, fmt.Errorf("unknown layout %q", name)
	}
}

// Stride is the strip scroll unit for the given thumbnail size
func (l Layout) Stride(thumb model.Size) int {
	return thumb.Width + l.ThumbnailGap
}

// Content returns the space the view needs around an image of the given size.
func (l Layout) Content(image, thumb model.Size) model.Size {
	if l.Kind == KindStandalone {
		return image
	}
	return model.Size{
		Width:  image.Width + CompositeExtraWidth,
		Height: image.Height + thumb.Height + CompositeExtraHeight,
	}
}

// Choose picks the variant for the viewport, measured against the full size.
func (l Layout) Choose(viewport model.Size, sizes model.SizeSpec) Variant {
	content := l.Content(sizes.Full, sizes.Thumbnail)
	return ChooseVariant(viewport.Width, viewport.Height, content.Width, content.Height, l.MarginWidth, l.MarginHeight)
}

// Geometry is everything the host needs to size the carousel's boxes.
type Geometry struct {
	Variant Variant
	// Image is the declared bounding box of the chosen variant.
	Image     model.Size
	Thumbnail model.Size
	// View is the outer box of the whole carousel.
	View           model.Size
	Stride         int
	ContainerWidth int
	StripWidth     int
}

// Compute derives the view geometry for count thumbnails.
func (l Layout) Compute(variant Variant, sizes model.SizeSpec, count int) Geometry {
	image := sizes.Full
	if variant == Small {
		image = sizes.Small
	}
	g := Geometry{
		Variant:   variant,
		Image:     image,
		Thumbnail: sizes.Thumbnail,
		View:      l.Content(image, sizes.Thumbnail),
	}
	if l.Kind == KindStandalone {
		return g
	}

	g.Stride = l.Stride(sizes.Thumbnail)
	if g.Stride <= 0 {
		return g
	}
	g.StripWidth = g.Stride * count
	g.ContainerWidth = StripContainerWidth(image.Width, g.Stride)
	return g
}

// StripContainerWidth rounds the image width up to a whole number of
// thumbnails, dropping one when that overshoots the image by too much.
func StripContainerWidth(imageWidth, stride int) int {
	if stride <= 0 {
		return 0
	}
	width := (imageWidth + stride - 1) / stride * stride
	if width > imageWidth+StripOverflowSlack {
		width -= stride
	}
	return width
}
