package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ══════════════════════════════════════════════════════════════════════════════
// DESIGN TOKENS - Consistent spacing, colors, and visual language
// ══════════════════════════════════════════════════════════════════════════════

// Spacing constants for consistent layout (in characters)
const (
	SpaceXS = 1
	SpaceSM = 2
	SpaceMD = 3
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Dracula-inspired
// ══════════════════════════════════════════════════════════════════════════════

var (
	ColorBg          = lipgloss.Color("#282A36")
	ColorBgDark      = lipgloss.Color("#1E1F29")
	ColorBgSubtle    = lipgloss.Color("#363949")
	ColorBgHighlight = lipgloss.Color("#44475A")
	ColorText        = lipgloss.Color("#F8F8F2")
	ColorSubtext     = lipgloss.Color("#BFBFBF")
	ColorMuted       = lipgloss.Color("#6272A4")

	ColorPrimary = lipgloss.Color("#BD93F9")
	ColorInfo    = lipgloss.Color("#8BE9FD")
	ColorSuccess = lipgloss.Color("#50FA7B")
	ColorWarning = lipgloss.Color("#FFB86C")
	ColorDanger  = lipgloss.Color("#FF5555")
	ColorAccent  = lipgloss.Color("#FF79C6")
)

// Theme carries the renderer a view draws with. Every SSH session has its own
// renderer, so styles are always built from the theme, never globally.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Danger    lipgloss.AdaptiveColor
	Success   lipgloss.AdaptiveColor
	Frame     lipgloss.AdaptiveColor
}

// DefaultTheme returns the gallery theme for r; nil uses the default renderer.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Theme{
		Renderer:  r,
		Primary:   lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: string(ColorPrimary)},
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: string(ColorMuted)},
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: string(ColorSubtext)},
		Border:    lipgloss.AdaptiveColor{Light: "#DDDDDD", Dark: string(ColorBgHighlight)},
		Highlight: lipgloss.AdaptiveColor{Light: "#D63384", Dark: string(ColorAccent)},
		Danger:    lipgloss.AdaptiveColor{Light: "#CC0000", Dark: string(ColorDanger)},
		Success:   lipgloss.AdaptiveColor{Light: "#008800", Dark: string(ColorSuccess)},
		Frame:     lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: string(ColorBgSubtle)},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// BADGES
// ══════════════════════════════════════════════════════════════════════════════

// RenderCounter renders the "3/12" position badge
func RenderCounter(t Theme, cursor, count int) string {
	if count == 0 {
		return t.Renderer.NewStyle().Foreground(t.Secondary).Render("0/0")
	}
	return t.Renderer.NewStyle().
		Foreground(t.Primary).
		Bold(true).
		Render(fmt.Sprintf("%d/%d", cursor+1, count))
}

// RenderVariantBadge shows which image variant is on screen
func RenderVariantBadge(t Theme, variant string) string {
	fg := t.Success
	if variant == "small" {
		fg = t.Highlight
	}
	return t.Renderer.NewStyle().
		Foreground(fg).
		Background(ColorBgSubtle).
		Padding(0, 1).
		Render(strings.ToUpper(variant))
}

// ══════════════════════════════════════════════════════════════════════════════
// DIVIDERS AND SEPARATORS
// ══════════════════════════════════════════════════════════════════════════════

// RenderDivider renders a horizontal divider line
func RenderDivider(t Theme, width int) string {
	if width <= 0 {
		return ""
	}
	return t.Renderer.NewStyle().
		Foreground(t.Border).
		Render(strings.Repeat("─", width))
}
