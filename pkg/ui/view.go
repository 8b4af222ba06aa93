package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/carousel"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/export"
	"github.com/Dicklesworthstone/gallery_viewer/pkg/layout"
)

// View implements tea.Model
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.overlay.IsVisible() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.overlay.View())
	}

	var body string
	switch {
	case m.err != nil:
		body = m.errorView()
	case !m.ready:
		body = m.spinner.View() + " loading " + m.key.String()
	default:
		body = m.galleryView()
	}
	if m.searching {
		body = lipgloss.JoinVertical(lipgloss.Center, body, m.search.View())
	}

	bodyHeight := max(m.height-chromeRows, 1)
	return lipgloss.JoinVertical(lipgloss.Left,
		m.titleBar(),
		lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body),
		m.statusBar(),
	)
}

func (m Model) errorView() string {
	title := m.theme.Renderer.NewStyle().Foreground(m.theme.Danger).Bold(true).Render("Could not open gallery")
	detail := m.theme.Renderer.NewStyle().Foreground(m.theme.Subtext).Width(min(m.width-4, 70)).Render(m.err.Error())
	hint := m.theme.Renderer.NewStyle().Faint(true).Render("r retry · q quit")
	return lipgloss.JoinVertical(lipgloss.Center, title, "", detail, "", hint)
}

func (m Model) titleBar() string {
	st := m.ctrl.Snapshot()
	left := m.theme.Renderer.NewStyle().Bold(true).Foreground(m.theme.Primary).Render(" " + m.key.String())
	parts := []string{left, RenderCounter(m.theme, st.Cursor, st.Count)}
	if st.Opened && st.Count > 0 {
		parts = append(parts, RenderVariantBadge(m.theme, st.Geometry.Variant.String()))
	}
	if st.Busy {
		parts = append(parts, m.spinner.View())
	}
	return strings.Join(parts, "  ")
}

func (m Model) statusBar() string {
	var left string
	st := m.ctrl.Snapshot()
	if m.status != "" {
		left = m.status
	} else if st.Count > 0 {
		left = export.Caption(st.Current.FullURL)
	}

	hints := ""
	if m.width >= BreakpointNarrow {
		hints = m.help.View(m.keys)
	}
	room := m.width - lipgloss.Width(hints) - SpaceSM
	left = runewidth.Truncate(left, max(room, 0), "…")
	leftStyled := m.theme.Renderer.NewStyle().Foreground(m.theme.Subtext).Render(" " + left)
	gap := max(m.width-lipgloss.Width(leftStyled)-lipgloss.Width(hints), 1)
	return leftStyled + strings.Repeat(" ", gap) + hints
}

// galleryView draws the image box, the prev/next controls and the strip.
func (m Model) galleryView() string {
	vs := m.view.State()
	g := vs.Geometry
	if g.Image.IsZero() || len(vs.Thumbnails) == 0 {
		return m.theme.Renderer.NewStyle().Faint(true).Render("no images")
	}

	imgCols, imgRows := m.metrics.Cols(g.Image.Width), m.metrics.Rows(g.Image.Height)
	image := lipgloss.Place(imgCols, imgRows, lipgloss.Center, lipgloss.Center, m.imageBox(vs))
	if vs.Loading {
		image = lipgloss.Place(imgCols, imgRows, lipgloss.Center, lipgloss.Center, m.spinner.View()+" loading")
	}

	if g.Stride == 0 {
		return image
	}

	arrows := m.theme.Renderer.NewStyle().Foreground(m.theme.Primary).Padding(0, SpaceSM)
	row := lipgloss.JoinHorizontal(lipgloss.Center, arrows.Render("‹"), image, arrows.Render("›"))
	return lipgloss.JoinVertical(lipgloss.Center, row, "", m.strip(vs))
}

// imageBox renders the current image at the animated box size.
func (m Model) imageBox(vs ViewState) string {
	cols, rows := m.metrics.Cols(vs.Box.Width), m.metrics.Rows(vs.Box.Height)
	if cols == 0 || rows == 0 || vs.Source == "" {
		return ""
	}
	if m.pixels {
		if img, ok := m.preloader.Cached(vs.Source); ok {
			return strings.Join(m.blocks.get(vs.Source, img, cols, rows), "\n")
		}
	}
	return placeholder(m.theme, cols, rows, export.Caption(vs.Source), m.theme.Frame)
}

// placeholder is a framed box with a centered label, used when pixels are
// off or the image is not decoded yet.
func placeholder(t Theme, cols, rows int, label string, bg lipgloss.AdaptiveColor) string {
	if cols < 3 || rows < 3 {
		return t.Renderer.NewStyle().Background(bg).Width(cols).Height(rows).Render("")
	}
	label = runewidth.Truncate(label, cols-2, "…")
	return t.Renderer.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		Width(cols-2).
		Height(rows-2).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(t.Subtext).
		Render(label)
}

// strip draws the visible window of the thumbnail strip. Thumbnails are
// placed at offset + i*stride pixels and clipped to the container.
func (m Model) strip(vs ViewState) string {
	g := vs.Geometry
	containerCols := m.metrics.Cols(g.ContainerWidth)
	thumbCols := m.metrics.Cols(g.Thumbnail.Width)
	thumbRows := m.metrics.Rows(g.Thumbnail.Height)
	if containerCols == 0 || thumbRows == 0 {
		return ""
	}

	var cells []string
	pos := 0
	for i, url := range vs.Thumbnails {
		start := m.metrics.ColAt(vs.Offset + i*g.Stride)
		end := start + thumbCols
		from, to := max(start, 0), min(end, containerCols)
		if to <= from || to <= pos {
			continue
		}
		from = max(from, pos)
		if from > pos {
			cells = append(cells, strings.Repeat(" ", from-pos))
		}
		cells = append(cells, m.thumbnail(i, url, to-from, thumbRows, i == vs.Highlight))
		pos = to
	}
	if pos < containerCols {
		cells = append(cells, strings.Repeat(" ", containerCols-pos))
	}
	strip := lipgloss.JoinHorizontal(lipgloss.Top, cells...)

	on := m.theme.Renderer.NewStyle().Foreground(m.theme.Primary).Padding(0, 1)
	off := on.Foreground(m.theme.Border)
	left, right := off.Render("◀"), off.Render("▶")
	if vs.CanPage[carousel.Left] {
		left = on.Render("◀")
	}
	if vs.CanPage[carousel.Right] {
		right = on.Render("▶")
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, left, strip, right)
}

func (m Model) thumbnail(index int, url string, cols, rows int, selected bool) string {
	if m.pixels {
		if img, ok := m.preloader.Cached(url); ok {
			lines := m.blocks.get(url, img, cols, rows)
			if selected {
				return m.theme.Renderer.NewStyle().Underline(true).Render(strings.Join(lines, "\n"))
			}
			return strings.Join(lines, "\n")
		}
	}
	bg := m.theme.Frame
	fg := m.theme.Subtext
	if selected {
		bg, fg = m.theme.Highlight, lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: string(ColorBgDark)}
	}
	return m.theme.Renderer.NewStyle().
		Width(cols).
		Height(rows).
		MaxWidth(cols).
		MaxHeight(rows).
		Align(lipgloss.Center, lipgloss.Center).
		Background(bg).
		Foreground(fg).
		Render(strconv.Itoa(index + 1))
}

// Describe summarizes the geometry chosen for a viewport, for `gv inspect`.
func Describe(metrics Metrics, g layout.Geometry) string {
	metrics = metrics.normalized()
	var b strings.Builder
	fmt.Fprintf(&b, "variant:   %s\n", g.Variant)
	fmt.Fprintf(&b, "image:     %s px (%dx%d cells)\n", g.Image, metrics.Cols(g.Image.Width), metrics.Rows(g.Image.Height))
	fmt.Fprintf(&b, "view:      %s px\n", g.View)
	if g.Stride > 0 {
		fmt.Fprintf(&b, "stride:    %d px\n", g.Stride)
		fmt.Fprintf(&b, "strip:     %d px in a %d px container\n", g.StripWidth, g.ContainerWidth)
	}
	return b.String()
}
