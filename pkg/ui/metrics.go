package ui

import (
	"sync"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
)

// Default pixel size of one terminal cell.
const (
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
)

// Layout breakpoints for the status bar.
const (
	// BreakpointNarrow is the width below which hints are dropped.
	BreakpointNarrow = 60
	// chromeRows is the title line plus the status bar.
	chromeRows = 2
)

// Metrics converts between the carousel's pixels and terminal cells.
type Metrics struct {
	CellWidth  int
	CellHeight int
}

func (m Metrics) normalized() Metrics {
	if m.CellWidth <= 0 {
		m.CellWidth = DefaultCellWidth
	}
	if m.CellHeight <= 0 {
		m.CellHeight = DefaultCellHeight
	}
	return m
}

// Cols converts a pixel width to whole cells, rounding to nearest.
func (m Metrics) Cols(px int) int {
	m = m.normalized()
	if px <= 0 {
		return 0
	}
	return max((px+m.CellWidth/2)/m.CellWidth, 1)
}

// Rows converts a pixel height to whole cells, rounding to nearest.
func (m Metrics) Rows(px int) int {
	m = m.normalized()
	if px <= 0 {
		return 0
	}
	return max((px+m.CellHeight/2)/m.CellHeight, 1)
}

// ColAt returns the column holding pixel x; negative x lies left of the origin.
func (m Metrics) ColAt(x int) int {
	m = m.normalized()
	if x >= 0 {
		return x / m.CellWidth
	}
	return -((-x + m.CellWidth - 1) / m.CellWidth)
}

// Pixels converts a cell area to pixels
func (m Metrics) Pixels(cols, rows int) model.Size {
	m = m.normalized()
	return model.Size{Width: cols * m.CellWidth, Height: rows * m.CellHeight}
}

// TermViewport reports the drawable terminal area in pixels. Window size
// messages update it; the controller reads it on Resize.
type TermViewport struct {
	metrics Metrics

	mu         sync.Mutex
	cols, rows int
}

// NewTermViewport creates a viewport with the given cell metrics
func NewTermViewport(metrics Metrics) *TermViewport {
	return &TermViewport{metrics: metrics.normalized()}
}

// SetCells records the terminal size. Chrome rows are excluded.
func (v *TermViewport) SetCells(cols, rows int) {
	v.mu.Lock()
	v.cols, v.rows = cols, max(rows-chromeRows, 0)
	v.mu.Unlock()
}

// Size implements carousel.Viewport
func (v *TermViewport) Size() model.Size {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.metrics.Pixels(v.cols, v.rows)
}
