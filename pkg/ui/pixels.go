package ui

import (
	"fmt"
	"image"
	"strings"
	"sync"

	"golang.org/x/image/draw"
)

const upperHalf = "▀"

// HalfBlocks draws img into cols x rows cells. Each cell carries two pixels:
// the upper half in the foreground color, the lower half in the background.
func HalfBlocks(img image.Image, cols, rows int) []string {
	if img == nil || cols <= 0 || rows <= 0 {
		return nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, cols, rows*2))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	lines := make([]string, rows)
	var b strings.Builder
	for y := range rows {
		b.Reset()
		for x := range cols {
			top := dst.RGBAAt(x, 2*y)
			bottom := dst.RGBAAt(x, 2*y+1)
			fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm%s",
				top.R, top.G, top.B, bottom.R, bottom.G, bottom.B, upperHalf)
		}
		b.WriteString("\x1b[0m")
		lines[y] = b.String()
	}
	return lines
}

type blockKey struct {
	url        string
	cols, rows int
}

// blockCache keeps the most recent half-block renderings by url and cell size.
type blockCache struct {
	mu    sync.Mutex
	limit int
	keys  []blockKey
	lines map[blockKey][]string
}

func newBlockCache(limit int) *blockCache {
	return &blockCache{limit: max(limit, 1), lines: make(map[blockKey][]string)}
}

func (c *blockCache) get(url string, img image.Image, cols, rows int) []string {
	k := blockKey{url: url, cols: cols, rows: rows}
	c.mu.Lock()
	if lines, ok := c.lines[k]; ok {
		c.mu.Unlock()
		return lines
	}
	c.mu.Unlock()

	lines := HalfBlocks(img, cols, rows)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.lines[k]; !ok {
		c.keys = append(c.keys, k)
		if len(c.keys) > c.limit {
			delete(c.lines, c.keys[0])
			c.keys = c.keys[1:]
		}
	}
	c.lines[k] = lines
	return lines
}
