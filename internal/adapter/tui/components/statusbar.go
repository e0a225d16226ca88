package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"packdeck/internal/adapter/tui/theme"
)

// KeyHint represents a single keybinding hint shown in the status bar.
type KeyHint struct {
	Key  string // e.g. "ctrl+r"
	Desc string // e.g. "run"
}

// StatusBarModel renders a bottom status bar: key hints on the left, the
// latest log message and run state on the right.
type StatusBarModel struct {
	Hints   []KeyHint
	Message string // last log message
	State   string // e.g. "running"
	width   int
}

// NewStatusBar creates a status bar with the given hints.
func NewStatusBar(hints ...KeyHint) StatusBarModel {
	return StatusBarModel{Hints: hints}
}

// SetWidth updates the available width.
func (m *StatusBarModel) SetWidth(w int) {
	m.width = w
}

// View renders the status bar as a single line. The message is truncated
// to fit before the hints are dropped.
func (m StatusBarModel) View(s theme.Styles, sym theme.SymbolSet) string {
	var hints []string
	for _, h := range m.Hints {
		hints = append(hints, s.StatusKey.Render(h.Key)+": "+h.Desc)
	}
	left := strings.Join(hints, "  "+s.Dim.Render("|")+"  ")

	var right string
	if m.State != "" {
		right = s.TextInfo.Render(m.State)
	}
	if m.Message != "" {
		msg := m.Message
		room := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 6
		if room < 8 {
			left = ""
			room = m.width - lipgloss.Width(right) - 6
		}
		msg = truncate(msg, room, sym.Ellipsis)
		if right != "" {
			right = s.TextMuted.Render(msg) + " " + s.Dim.Render(sym.Bullet) + " " + right
		} else {
			right = s.TextMuted.Render(msg)
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	bar := left + strings.Repeat(" ", gap) + right
	return s.StatusBar.Width(m.width).Render(bar)
}

func truncate(text string, width int, ellipsis string) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(text) <= width {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 && lipgloss.Width(string(runes))+lipgloss.Width(ellipsis) > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + ellipsis
}
