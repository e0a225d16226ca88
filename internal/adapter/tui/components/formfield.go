package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"packdeck/internal/adapter/tui/theme"
)

// FieldSubmitMsg is sent when enter is pressed in a form field.
type FieldSubmitMsg struct {
	Key   string
	Value string
}

// FormFieldModel wraps a textinput with a label and an inline error.
type FormFieldModel struct {
	Input       textinput.Model
	Key         string
	Label       string
	Description string
	ErrMsg      string
}

// NewTextField creates an unfocused text input field.
func NewTextField(key, label, placeholder string) FormFieldModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.Width = 50

	return FormFieldModel{
		Input: ti,
		Key:   key,
		Label: label,
	}
}

// ApplyStyles repaints the input with s.
func (m *FormFieldModel) ApplyStyles(s theme.Styles) {
	m.Input.PromptStyle = s.InputPrompt
	m.Input.PlaceholderStyle = s.InputPlaceholder
	m.Input.TextStyle = s.InputText
	m.Input.Cursor.Style = s.Cursor
}

// SetWidth sizes the input to w columns.
func (m *FormFieldModel) SetWidth(w int) {
	m.Input.Width = theme.Clamp(w-lipgloss.Width(m.Input.Prompt)-1, 10, 200)
}

// Focus gives the field keyboard focus.
func (m *FormFieldModel) Focus() tea.Cmd { return m.Input.Focus() }

// Blur removes keyboard focus.
func (m *FormFieldModel) Blur() { m.Input.Blur() }

// Focused reports whether the field has focus.
func (m FormFieldModel) Focused() bool { return m.Input.Focused() }

// SetValue replaces the text.
func (m *FormFieldModel) SetValue(v string) { m.Input.SetValue(v) }

// SetError displays a validation error message.
func (m *FormFieldModel) SetError(msg string) {
	m.ErrMsg = msg
}

// ClearError clears the validation error.
func (m *FormFieldModel) ClearError() {
	m.ErrMsg = ""
}

// Value returns the current input value, trimmed.
func (m FormFieldModel) Value() string {
	return strings.TrimSpace(m.Input.Value())
}

// Update handles input events.
func (m FormFieldModel) Update(msg tea.Msg) (FormFieldModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.Focused() {
		if keyMsg.Type == tea.KeyEnter {
			key, value := m.Key, m.Value()
			return m, func() tea.Msg {
				return FieldSubmitMsg{Key: key, Value: value}
			}
		}
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

// View renders the form field.
func (m FormFieldModel) View(s theme.Styles, sym theme.SymbolSet) string {
	label := s.FieldLabel.Render(m.Label)
	if m.Focused() {
		label = s.Cursor.Render(sym.Cursor+" ") + s.Bold.Render(m.Label)
	} else {
		label = "  " + label
	}

	parts := []string{label}
	if m.Description != "" {
		parts = append(parts, "  "+s.TextMuted.Render(m.Description))
	}
	parts = append(parts, "  "+m.Input.View())

	if m.ErrMsg != "" {
		parts = append(parts, "  "+s.TextError.Render(sym.Error+" "+m.ErrMsg))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
