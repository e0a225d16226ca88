// Package components provides reusable Bubble Tea sub-models for the TUI.
// Views take the current theme.Styles so a theme toggle repaints them.
package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"packdeck/internal/adapter/tui/theme"
)

// Tab represents a single tab entry.
type Tab struct {
	ID    string
	Label string
	Badge int // notification badge count; 0 = hidden
}

// TabBarModel is a horizontal tab bar with keyboard navigation.
type TabBarModel struct {
	Tabs      []Tab
	Active    int
	width     int
	collapsed bool // true when width < MinTabWidth
}

// NewTabBar creates a tab bar with the given tabs. The first tab is active.
func NewTabBar(tabs []Tab) TabBarModel {
	return TabBarModel{Tabs: tabs}
}

// SetWidth updates the available width and determines if tabs should collapse.
func (m *TabBarModel) SetWidth(w int) {
	m.width = w
	m.collapsed = w < theme.MinTabWidth
}

// Next advances to the next tab, wrapping around.
func (m *TabBarModel) Next() {
	if len(m.Tabs) == 0 {
		return
	}
	m.Active = (m.Active + 1) % len(m.Tabs)
}

// Prev moves to the previous tab, wrapping around.
func (m *TabBarModel) Prev() {
	if len(m.Tabs) == 0 {
		return
	}
	m.Active = (m.Active - 1 + len(m.Tabs)) % len(m.Tabs)
}

// SetActive sets the active tab by index.
func (m *TabBarModel) SetActive(i int) {
	if i >= 0 && i < len(m.Tabs) {
		m.Active = i
	}
}

// ActiveID returns the ID of the active tab.
func (m TabBarModel) ActiveID() string {
	if len(m.Tabs) == 0 {
		return ""
	}
	return m.Tabs[m.Active].ID
}

// Index returns the position of the tab with id, or -1.
func (m TabBarModel) Index(id string) int {
	for i, t := range m.Tabs {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// SetBadge sets the badge count of the tab with id.
func (m *TabBarModel) SetBadge(id string, n int) {
	if i := m.Index(id); i >= 0 {
		m.Tabs[i].Badge = n
	}
}

// View renders the tab bar. When the labels do not fit, a window of tabs
// around the active one is shown with < and > marking hidden tabs.
func (m TabBarModel) View(s theme.Styles) string {
	if len(m.Tabs) == 0 {
		return ""
	}

	if m.collapsed {
		t := m.Tabs[m.Active]
		label := s.TabActive.Render(t.Label)
		counter := s.Dim.Render("[" + strconv.Itoa(m.Active+1) + "/" + strconv.Itoa(len(m.Tabs)) + "]")
		return lipgloss.JoinHorizontal(lipgloss.Center, label, " ", counter)
	}

	cells := make([]string, len(m.Tabs))
	for i, t := range m.Tabs {
		label := t.Label
		if t.Badge > 0 {
			label += " " + strconv.Itoa(t.Badge)
		}
		if i == m.Active {
			cells[i] = s.TabActive.Render(label)
		} else {
			cells[i] = s.TabNormal.Render(label)
		}
	}

	lo, hi := m.window(cells)
	parts := append([]string(nil), cells[lo:hi]...)
	if lo > 0 {
		parts = append([]string{s.Dim.Render("<")}, parts...)
	}
	if hi < len(cells) {
		parts = append(parts, s.Dim.Render(">"))
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Center, parts...)

	if m.width > 0 {
		if remaining := m.width - lipgloss.Width(bar); remaining > 0 {
			bar += s.TabNormal.UnsetPadding().Render(strings.Repeat(" ", remaining))
		}
	}
	return bar
}

// window returns the half-open range of cells to show: all of them when
// they fit, otherwise the widest run around the active tab that leaves
// room for both overflow markers.
func (m TabBarModel) window(cells []string) (int, int) {
	total := 0
	for _, c := range cells {
		total += lipgloss.Width(c)
	}
	if m.width <= 0 || total <= m.width {
		return 0, len(cells)
	}

	budget := m.width - 2
	lo, hi := m.Active, m.Active+1
	used := lipgloss.Width(cells[m.Active])
	for {
		grew := false
		if hi < len(cells) && used+lipgloss.Width(cells[hi]) <= budget {
			used += lipgloss.Width(cells[hi])
			hi++
			grew = true
		}
		if lo > 0 && used+lipgloss.Width(cells[lo-1]) <= budget {
			lo--
			used += lipgloss.Width(cells[lo])
			grew = true
		}
		if !grew {
			return lo, hi
		}
	}
}
