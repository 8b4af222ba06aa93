package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

var captions = []string{
	"harbour.jpg",
	"lighthouse.jpg",
	"market_square.png",
	"harbour_night.jpg",
	"old_town.jpg",
	"bridge.jpg",
	"cathedral.jpg",
	"museum.jpg",
}

func typeQuery(m SearchModel, q string) SearchModel {
	for _, r := range q {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestSearchFilter(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{"empty lists first page", "", []int{0, 1, 2, 3, 4, 5}},
		{"fuzzy", "harb", []int{0, 3}},
		{"number first", "3", []int{2}},
		{"number out of range falls back to fuzzy", "42", nil},
		{"no match", "zzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := typeQuery(NewSearchModel(captions, DefaultTheme(nil)), tt.query)
			if len(m.matches) != len(tt.want) {
				t.Fatalf("matches = %v, want %v", m.matches, tt.want)
			}
			for i := range tt.want {
				if m.matches[i] != tt.want[i] {
					t.Errorf("matches = %v, want %v", m.matches, tt.want)
					break
				}
			}
		})
	}
}

func TestSearchNumberDoesNotRepeat(t *testing.T) {
	names := []string{"1.jpg", "2.jpg", "10.jpg", "11.jpg"}
	m := typeQuery(NewSearchModel(names, DefaultTheme(nil)), "1")
	if len(m.matches) == 0 || m.matches[0] != 0 {
		t.Fatalf("matches = %v", m.matches)
	}
	seen := map[int]bool{}
	for _, idx := range m.matches {
		if seen[idx] {
			t.Errorf("index %d listed twice in %v", idx, m.matches)
		}
		seen[idx] = true
	}
}

func TestSearchSelection(t *testing.T) {
	m := NewSearchModel(captions, DefaultTheme(nil))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if idx, ok := m.Selected(); !ok || idx != 1 {
		t.Errorf("selected = %d, %v", idx, ok)
	}

	for range 20 {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	if idx, _ := m.Selected(); idx != maxMatches-1 {
		t.Errorf("selection ran past the list: %d", idx)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.IsSubmitted() || m.IsCancelled() {
		t.Error("enter should submit")
	}
}

func TestSearchEnterWithoutMatchCancels(t *testing.T) {
	m := typeQuery(NewSearchModel(captions, DefaultTheme(nil)), "zzz")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.IsSubmitted() || !m.IsCancelled() {
		t.Error("enter without matches should cancel")
	}
	if _, ok := m.Selected(); ok {
		t.Error("nothing should be selected")
	}
}

func TestSearchEscCancels(t *testing.T) {
	m := typeQuery(NewSearchModel(captions, DefaultTheme(nil)), "mus")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !m.IsCancelled() {
		t.Error("esc should cancel")
	}
}

func TestSearchView(t *testing.T) {
	m := NewSearchModel(captions, DefaultTheme(nil))
	m.SetWidth(80)
	view := m.View()
	if !strings.Contains(view, "harbour.jpg") || !strings.Contains(view, "▸") {
		t.Errorf("view = %s", view)
	}
	m = typeQuery(m, "zzz")
	if !strings.Contains(m.View(), "no match") {
		t.Errorf("view = %s", m.View())
	}
}
