package components

import (
	"strings"

	"packdeck/internal/adapter/tui/theme"
)

// CheckItem is one row of a checklist.
type CheckItem struct {
	Key     string
	Label   string
	Detail  string // shown dimmed after the label, e.g. the emitted flag
	Checked bool
}

// ChecklistModel is a vertical list of checkable rows with a cursor.
type ChecklistModel struct {
	Items   []CheckItem
	Cursor  int
	focused bool
}

// NewChecklist creates a checklist over items.
func NewChecklist(items []CheckItem) ChecklistModel {
	return ChecklistModel{Items: items}
}

// Focus shows the cursor.
func (m *ChecklistModel) Focus() { m.focused = true }

// Blur hides the cursor.
func (m *ChecklistModel) Blur() { m.focused = false }

// Focused reports whether the list has focus.
func (m ChecklistModel) Focused() bool { return m.focused }

// Up moves the cursor up; it reports false when already at the top.
func (m *ChecklistModel) Up() bool {
	if m.Cursor == 0 {
		return false
	}
	m.Cursor--
	return true
}

// Down moves the cursor down; it reports false when already at the bottom.
func (m *ChecklistModel) Down() bool {
	if m.Cursor >= len(m.Items)-1 {
		return false
	}
	m.Cursor++
	return true
}

// Current returns the item under the cursor.
func (m ChecklistModel) Current() (CheckItem, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Items) {
		return CheckItem{}, false
	}
	return m.Items[m.Cursor], true
}

// Toggle flips the item under the cursor and returns it.
func (m *ChecklistModel) Toggle() (CheckItem, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Items) {
		return CheckItem{}, false
	}
	m.Items[m.Cursor].Checked = !m.Items[m.Cursor].Checked
	return m.Items[m.Cursor], true
}

// SetChecked sets the checked state of key.
func (m *ChecklistModel) SetChecked(key string, on bool) {
	for i := range m.Items {
		if m.Items[i].Key == key {
			m.Items[i].Checked = on
		}
	}
}

// Checked returns the keys of checked items in list order.
func (m ChecklistModel) Checked() []string {
	var out []string
	for _, it := range m.Items {
		if it.Checked {
			out = append(out, it.Key)
		}
	}
	return out
}

// View renders the list. Without checkboxes the rows act as a pick list.
func (m ChecklistModel) View(s theme.Styles, sym theme.SymbolSet, checkboxes bool) string {
	var b strings.Builder
	for i, it := range m.Items {
		cursor := "  "
		if m.focused && i == m.Cursor {
			cursor = s.Cursor.Render(sym.Cursor + " ")
		}
		b.WriteString(cursor)
		if checkboxes {
			if it.Checked {
				b.WriteString(s.Checked.Render(sym.CheckOn))
			} else {
				b.WriteString(s.Dim.Render(sym.CheckOff))
			}
			b.WriteByte(' ')
		}
		label := it.Label
		if m.focused && i == m.Cursor {
			b.WriteString(s.Bold.Render(label))
		} else {
			b.WriteString(s.LogLine.Render(label))
		}
		if it.Detail != "" {
			b.WriteString("  " + s.Dim.Render(it.Detail))
		}
		if i < len(m.Items)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
