package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// maxMatches is how many results the jump prompt lists.
const maxMatches = 6

// SearchModel is the "/" prompt that jumps to an image by file name or number.
type SearchModel struct {
	input    textinput.Model
	captions []string
	matches  []int
	selected int
	width    int
	theme    Theme

	submitted bool
	cancelled bool
}

// NewSearchModel creates a focused prompt over the gallery's captions.
func NewSearchModel(captions []string, theme Theme) SearchModel {
	ti := textinput.New()
	ti.Placeholder = "file name or number..."
	ti.Prompt = "/ "
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 40

	m := SearchModel{input: ti, captions: captions, theme: theme}
	m.filter()
	return m
}

func (m *SearchModel) filter() {
	query := strings.TrimSpace(m.input.Value())
	m.selected = 0
	m.matches = nil
	if query == "" {
		for i := range min(len(m.captions), maxMatches) {
			m.matches = append(m.matches, i)
		}
		return
	}
	if n, err := strconv.Atoi(query); err == nil && n >= 1 && n <= len(m.captions) {
		m.matches = append(m.matches, n-1)
	}
	for _, match := range fuzzy.Find(query, m.captions) {
		if len(m.matches) >= maxMatches {
			break
		}
		if len(m.matches) > 0 && m.matches[0] == match.Index {
			continue
		}
		m.matches = append(m.matches, match.Index)
	}
}

// Update handles input
func (m SearchModel) Update(msg tea.Msg) (SearchModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc", "ctrl+c":
			m.cancelled = true
			return m, nil
		case "enter":
			m.submitted = len(m.matches) > 0
			m.cancelled = !m.submitted
			return m, nil
		case "up", "ctrl+p":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "ctrl+n", "tab":
			if m.selected < len(m.matches)-1 {
				m.selected++
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.filter()
	}
	return m, cmd
}

// Selected returns the chosen image index
func (m SearchModel) Selected() (int, bool) {
	if m.selected < 0 || m.selected >= len(m.matches) {
		return 0, false
	}
	return m.matches[m.selected], true
}

// IsSubmitted returns true if the user picked a match
func (m SearchModel) IsSubmitted() bool {
	return m.submitted
}

// IsCancelled returns true if the user cancelled
func (m SearchModel) IsCancelled() bool {
	return m.cancelled
}

// SetWidth sets the prompt width
func (m *SearchModel) SetWidth(width int) {
	m.width = width
	m.input.Width = min(max(width-12, 20), 60)
}

// View renders the prompt and its matches
func (m SearchModel) View() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")

	itemStyle := m.theme.Renderer.NewStyle().Foreground(m.theme.Subtext)
	selStyle := m.theme.Renderer.NewStyle().Foreground(m.theme.Primary).Bold(true)
	numStyle := m.theme.Renderer.NewStyle().Foreground(m.theme.Secondary).Width(5)
	if len(m.matches) == 0 {
		b.WriteString(m.theme.Renderer.NewStyle().Faint(true).Render("  no match"))
	}
	for i, idx := range m.matches {
		style, marker := itemStyle, "  "
		if i == m.selected {
			style, marker = selStyle, "▸ "
		}
		b.WriteString("\n" + marker + numStyle.Render(strconv.Itoa(idx+1)+".") + style.Render(m.captions[idx]))
	}

	return m.theme.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Primary).
		Padding(0, 1).
		Render(b.String())
}
