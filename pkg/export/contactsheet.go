// Package export renders galleries outside the terminal: contact sheets in
// SVG or PNG, and a local server speaking the gallery_data protocol.
package export

import (
	"context"
	"fmt"
	"image"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/draw"
	"golang.org/x/image/font/basicfont"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
)

// Fetcher returns decoded images; *preload.Preloader implements it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (image.Image, error)
}

// ContactSheetOptions configures SaveContactSheet
type ContactSheetOptions struct {
	Path string
	// Format is "svg" or "png"; derived from Path when empty.
	Format   string
	Title    string
	Snapshot model.Snapshot
	// Columns defaults to 6.
	Columns int
	// Fetcher is needed for PNG output only.
	Fetcher Fetcher
}

// Sheet geometry, in pixels
const (
	sheetMargin   = 16
	sheetGap      = 8
	sheetCaption  = 18
	sheetTitle    = 32
	defaultColumn = 6
)

type cell struct {
	x, y   int
	box    model.Size
	item   model.ImageItem
	label  string
	fitted model.Size
}

// layoutSheet places each thumbnail in a fixed grid cell sized by the
// declared thumbnail bound.
func layoutSheet(snap model.Snapshot, columns int) (model.Size, []cell) {
	if columns <= 0 {
		columns = defaultColumn
	}
	thumb := snap.Thumbnail
	if thumb.IsZero() {
		thumb = model.DefaultSizeSpec().Thumbnail
	}
	n := len(snap.Images)
	cols := min(columns, max(n, 1))
	rows := (n + cols - 1) / cols

	cellW := thumb.Width + sheetGap
	cellH := thumb.Height + sheetCaption + sheetGap
	size := model.Size{
		Width:  2*sheetMargin + cols*cellW - sheetGap,
		Height: 2*sheetMargin + sheetTitle + max(rows, 1)*cellH - sheetGap,
	}

	cells := make([]cell, 0, n)
	for i, item := range snap.Images {
		c := cell{
			x:      sheetMargin + (i%cols)*cellW,
			y:      sheetMargin + sheetTitle + (i/cols)*cellH,
			box:    thumb,
			item:   item,
			label:  fmt.Sprintf("%d. %s", i+1, Caption(item.FullURL)),
			fitted: model.FitWithin(item.FullSize, thumb),
		}
		cells = append(cells, c)
	}
	return size, cells
}

// Caption is the file name of an image url
func Caption(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	return path.Base(filepath.ToSlash(url))
}

// SaveContactSheet writes a grid of the gallery's thumbnails.
func SaveContactSheet(ctx context.Context, opts ContactSheetOptions) error {
	format := strings.ToLower(opts.Format)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.Path)), ".")
	}
	if len(opts.Snapshot.Images) == 0 {
		return model.ErrEmptyGallery
	}

	switch format {
	case "svg":
		return saveSVG(opts)
	case "png":
		if opts.Fetcher == nil {
			return fmt.Errorf("png contact sheet needs an image fetcher")
		}
		return savePNG(ctx, opts)
	default:
		return fmt.Errorf("unsupported contact sheet format %q (want svg or png)", format)
	}
}

func saveSVG(opts ContactSheetOptions) error {
	f, err := os.Create(opts.Path)
	if err != nil {
		return fmt.Errorf("create %s: %w", opts.Path, err)
	}
	defer f.Close()

	size, cells := layoutSheet(opts.Snapshot, opts.Columns)
	canvas := svg.New(f)
	canvas.Start(size.Width, size.Height)
	canvas.Rect(0, 0, size.Width, size.Height, "fill:#1e1e2e")
	if opts.Title != "" {
		canvas.Title(opts.Title)
		canvas.Text(sheetMargin, sheetMargin+18, opts.Title, "fill:#cdd6f4;font-family:sans-serif;font-size:18px")
	}
	for _, c := range cells {
		canvas.Rect(c.x, c.y, c.box.Width, c.box.Height, "fill:#313244")
		ox := c.x + (c.box.Width-c.fitted.Width)/2
		oy := c.y + (c.box.Height-c.fitted.Height)/2
		canvas.Image(ox, oy, c.fitted.Width, c.fitted.Height, c.item.ThumbnailURL)
		canvas.Text(c.x, c.y+c.box.Height+14, c.label, "fill:#a6adc8;font-family:monospace;font-size:11px")
	}
	canvas.End()
	return nil
}

func savePNG(ctx context.Context, opts ContactSheetOptions) error {
	size, cells := layoutSheet(opts.Snapshot, opts.Columns)
	dc := gg.NewContext(size.Width, size.Height)
	dc.SetRGB255(30, 30, 46)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	if opts.Title != "" {
		dc.SetRGB255(205, 214, 244)
		dc.DrawString(opts.Title, sheetMargin, sheetMargin+16)
	}
	for _, c := range cells {
		dc.SetRGB255(49, 50, 68)
		dc.DrawRectangle(float64(c.x), float64(c.y), float64(c.box.Width), float64(c.box.Height))
		dc.Fill()

		img, err := opts.Fetcher.Fetch(ctx, c.item.ThumbnailURL)
		if err == nil {
			fitted := model.FitWithin(model.Size{Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}, c.box)
			dst := image.NewRGBA(image.Rect(0, 0, fitted.Width, fitted.Height))
			draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
			dc.DrawImage(dst, c.x+(c.box.Width-fitted.Width)/2, c.y+(c.box.Height-fitted.Height)/2)
		} else if ctx.Err() != nil {
			return ctx.Err()
		}

		dc.SetRGB255(166, 173, 200)
		dc.DrawString(truncateLabel(c.label, c.box.Width/7), float64(c.x), float64(c.y+c.box.Height+13))
	}
	if err := dc.SavePNG(opts.Path); err != nil {
		return fmt.Errorf("write %s: %w", opts.Path, err)
	}
	return nil
}

// truncateLabel cuts s to n glyphs of the fixed 7px face, which only covers ASCII.
func truncateLabel(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}
