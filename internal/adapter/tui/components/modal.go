package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"packdeck/internal/adapter/tui/theme"
)

// ModalKind selects the modal's footer and key handling.
type ModalKind int

const (
	// ModalInfo is a scrollable read-only dialog (help, errors).
	ModalInfo ModalKind = iota
	// ModalConfirm asks a yes/no question.
	ModalConfirm
)

// ModalResultMsg is emitted when a confirm modal is answered.
type ModalResultMsg struct {
	ID        string
	Confirmed bool
}

// ModalModel is an overlay viewport for dialogs and long content.
type ModalModel struct {
	Viewport viewport.Model
	ID       string
	Title    string
	Kind     ModalKind
	Visible  bool
	width    int
	height   int
}

// NewModal creates a modal.
func NewModal() ModalModel {
	return ModalModel{}
}

// Open shows a read-only modal with the given content.
func (m *ModalModel) Open(title, content string) {
	m.open("", title, content, ModalInfo)
}

// Confirm shows a yes/no modal. The answer comes back as a ModalResultMsg
// carrying id.
func (m *ModalModel) Confirm(id, title, question string) {
	m.open(id, title, question, ModalConfirm)
}

func (m *ModalModel) open(id, title, content string, kind ModalKind) {
	m.ID = id
	m.Title = title
	m.Kind = kind
	m.Visible = true
	w, h := m.innerSize()
	m.Viewport = viewport.New(w, h)
	m.Viewport.MouseWheelEnabled = true
	m.Viewport.SetContent(content)
}

func (m ModalModel) innerSize() (int, int) {
	if m.width <= 0 || m.height <= 0 {
		return 80, 24
	}
	return max(m.width-4, 10), max(m.height-6, 3)
}

// Close hides the modal.
func (m *ModalModel) Close() {
	m.Visible = false
}

// SetSize updates the modal dimensions.
func (m *ModalModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	if m.Visible {
		m.Viewport.Width, m.Viewport.Height = m.innerSize()
	}
}

// Update handles modal keys. Info modals close on esc/q/enter and scroll
// with j/k; confirm modals answer on y/enter or n/esc.
func (m ModalModel) Update(msg tea.Msg) (ModalModel, tea.Cmd) {
	if !m.Visible {
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if m.Kind == ModalConfirm {
			switch keyMsg.String() {
			case "y", "Y", "enter":
				return m.answer(true)
			case "n", "N", "esc", "q":
				return m.answer(false)
			}
			return m, nil
		}

		switch keyMsg.String() {
		case "esc", "q", "enter":
			m.Close()
			return m, nil
		case "j", "down":
			m.Viewport.LineDown(3)
			return m, nil
		case "k", "up":
			m.Viewport.LineUp(3)
			return m, nil
		case "g":
			m.Viewport.GotoTop()
			return m, nil
		case "G":
			m.Viewport.GotoBottom()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

func (m ModalModel) answer(yes bool) (ModalModel, tea.Cmd) {
	m.Close()
	id := m.ID
	return m, func() tea.Msg {
		return ModalResultMsg{ID: id, Confirmed: yes}
	}
}

// View renders the modal overlay.
func (m ModalModel) View(s theme.Styles) string {
	if !m.Visible {
		return ""
	}

	titleBar := s.Bold.Render("  " + m.Title)

	var footer string
	if m.Kind == ModalConfirm {
		footer = s.Dim.Render("  y/enter: yes  n/esc: no")
	} else {
		pct := m.Viewport.ScrollPercent() * 100
		footer = s.Dim.Render("  esc/q/enter: close  j/k: scroll  g/G: top/bottom") +
			"  " + s.TextMuted.Render(fmt.Sprintf(" %.0f%%", pct))
	}

	inner := lipgloss.JoinVertical(lipgloss.Left, titleBar, m.Viewport.View(), footer)

	w, h := m.width-2, m.height-2
	if w <= 0 || h <= 0 {
		return s.ModalBorder.Render(inner)
	}
	return s.ModalBorder.Width(w).Height(h).Render(inner)
}
