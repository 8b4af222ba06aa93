package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// HelpOverlayModel shows keyboard shortcuts help
type HelpOverlayModel struct {
	visible bool
	width   int
	height  int
	theme   Theme
	keys    KeyMap

	cache *renderedHelp
}

// renderedHelp caches the glamour output for one width.
type renderedHelp struct {
	text  string
	width int
}

// NewHelpOverlayModel creates a new help overlay
func NewHelpOverlayModel(theme Theme, keys KeyMap) HelpOverlayModel {
	return HelpOverlayModel{
		theme: theme,
		keys:  keys,
		cache: &renderedHelp{},
	}
}

// Toggle toggles visibility
func (m *HelpOverlayModel) Toggle() {
	m.visible = !m.visible
}

// IsVisible returns true if overlay is showing
func (m HelpOverlayModel) IsVisible() bool {
	return m.visible
}

// SetSize sets dimensions
func (m *HelpOverlayModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles input
func (m HelpOverlayModel) Update(msg tea.Msg) (HelpOverlayModel, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	if _, ok := msg.(tea.KeyMsg); ok {
		// Any key closes help
		m.visible = false
	}
	return m, nil
}

// Markdown returns the help text before styling
func (m HelpOverlayModel) Markdown() string {
	var b strings.Builder
	b.WriteString("# Gallery\n\n")
	sections := []struct {
		title    string
		bindings []key.Binding
	}{
		{"Navigation", []key.Binding{m.keys.Previous, m.keys.Next, m.keys.First, m.keys.Last, m.keys.Search}},
		{"Thumbnail strip", []key.Binding{m.keys.PageLeft, m.keys.PageRight}},
		{"Other", []key.Binding{m.keys.Copy, m.keys.Reload, m.keys.Help, m.keys.Quit}},
	}
	for _, s := range sections {
		fmt.Fprintf(&b, "## %s\n\n| Key | Action |\n|---|---|\n", s.title)
		for _, kb := range s.bindings {
			h := kb.Help()
			fmt.Fprintf(&b, "| `%s` | %s |\n", h.Key, h.Desc)
		}
		b.WriteString("\n")
	}
	b.WriteString("Commands typed while an image is changing are ignored.\n")
	return b.String()
}

func (m HelpOverlayModel) render(width int) string {
	if m.cache.text != "" && m.cache.width == width {
		return m.cache.text
	}
	md := m.Markdown()
	out := md
	if r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	); err == nil {
		if s, err := r.Render(md); err == nil {
			out = strings.TrimSpace(s)
		}
	}
	m.cache.text, m.cache.width = out, width
	return out
}

// View renders the help overlay
func (m HelpOverlayModel) View() string {
	if !m.visible {
		return ""
	}
	width := 56
	if m.width > 0 && m.width < width+8 {
		width = max(m.width-8, 20)
	}

	var b strings.Builder
	b.WriteString(m.render(width))
	b.WriteString("\n\n")
	hintStyle := m.theme.Renderer.NewStyle().Faint(true).Italic(true)
	b.WriteString(hintStyle.Render("[Press any key to close]"))

	boxStyle := m.theme.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Border).
		Padding(1, 2)

	return boxStyle.Render(b.String())
}
