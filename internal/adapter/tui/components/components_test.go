package components

import (
	"strconv"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"packdeck/internal/adapter/tui/theme"
	"packdeck/internal/domain"
)

var (
	testStyles  = theme.Render(domain.ThemeDark)
	testSymbols = theme.Symbols(true)
)

func TestTabBar_Navigation(t *testing.T) {
	bar := NewTabBar([]Tab{{ID: "a", Label: "A"}, {ID: "b", Label: "B"}, {ID: "c", Label: "C"}})

	bar.Next()
	assert.Equal(t, "b", bar.ActiveID())
	bar.Prev()
	bar.Prev()
	assert.Equal(t, "c", bar.ActiveID())
	bar.SetActive(99)
	assert.Equal(t, "c", bar.ActiveID())
	assert.Equal(t, 1, bar.Index("b"))
	assert.Equal(t, -1, bar.Index("zz"))

	bar.SetBadge("b", 3)
	assert.Equal(t, 3, bar.Tabs[1].Badge)
}

func TestTabBar_View(t *testing.T) {
	bar := NewTabBar([]Tab{{ID: "a", Label: "General"}, {ID: "b", Label: "Log"}})
	bar.SetWidth(100)
	view := bar.View(testStyles)
	assert.Contains(t, view, "General")
	assert.Contains(t, view, "Log")

	bar.SetWidth(30)
	bar.SetActive(1)
	view = bar.View(testStyles)
	assert.Contains(t, view, "[2/2]")
	assert.NotContains(t, view, "General")
}

func TestTabBar_Window(t *testing.T) {
	cells := []string{"aaaaa", "bbbbb", "ccccc", "ddddd", "eeeee", "fffff", "ggggg", "hhhhh", "iiiii", "jjjjj"}
	bar := TabBarModel{Active: 5, width: 20}

	lo, hi := bar.window(cells)
	assert.Equal(t, 4, lo)
	assert.Equal(t, 7, hi)

	bar.Active = 0
	lo, hi = bar.window(cells)
	assert.Equal(t, 0, lo)
	assert.Equal(t, 3, hi)

	bar.width = 200
	lo, hi = bar.window(cells)
	assert.Equal(t, 0, lo)
	assert.Equal(t, len(cells), hi)
}

func TestTabBar_ViewOverflow(t *testing.T) {
	tabs := make([]Tab, 10)
	for i := range tabs {
		tabs[i] = Tab{ID: strconv.Itoa(i), Label: "Tab" + strconv.Itoa(i)}
	}
	bar := NewTabBar(tabs)
	bar.SetWidth(theme.MinTabWidth)
	bar.SetActive(9)

	view := bar.View(testStyles)
	assert.Contains(t, view, "Tab9")
	assert.Contains(t, view, "<")
	assert.NotContains(t, view, "Tab0")
}

func TestStatusBar_TruncatesMessage(t *testing.T) {
	sb := NewStatusBar(KeyHint{Key: "ctrl+r", Desc: "run"})
	sb.SetWidth(60)
	sb.Message = strings.Repeat("x", 200)
	view := sb.View(testStyles, testSymbols)
	assert.Contains(t, view, "...")
	assert.NotContains(t, view, strings.Repeat("x", 100))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 10, "..."))
	assert.Equal(t, "he...", truncate("hello world", 5, "..."))
	assert.Equal(t, "", truncate("hello", 0, "..."))
}

func TestModal_InfoCloses(t *testing.T) {
	m := NewModal()
	m.SetSize(80, 20)
	m.Open("Help", "body")
	require.True(t, m.Visible)
	assert.Contains(t, m.View(testStyles), "Help")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.Visible)
	assert.Empty(t, m.View(testStyles))
}

func TestModal_ConfirmAnswers(t *testing.T) {
	m := NewModal()
	m.Confirm("quit", "Packaging in progress", "Quit anyway?")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	require.NotNil(t, cmd)
	assert.False(t, m.Visible)
	assert.Equal(t, ModalResultMsg{ID: "quit", Confirmed: true}, cmd())

	m.Confirm("quit", "t", "q")
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, ModalResultMsg{ID: "quit", Confirmed: false}, cmd())

	m.Confirm("quit", "t", "q")
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("z")})
	assert.Nil(t, cmd)
	assert.True(t, m.Visible)
}

func TestFormField_SubmitAndValue(t *testing.T) {
	f := NewTextField("script", "Main script", "app.py")
	f.Focus()
	f.SetValue("  main.py  ")
	assert.Equal(t, "main.py", f.Value())

	f, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, FieldSubmitMsg{Key: "script", Value: "main.py"}, cmd())

	f.SetError("required")
	assert.Contains(t, f.View(testStyles, testSymbols), "required")
	f.ClearError()
	assert.NotContains(t, f.View(testStyles, testSymbols), "required")
}

func TestFormField_IgnoresKeysWhenBlurred(t *testing.T) {
	f := NewTextField("icon", "Icon", "")
	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("abc")})
	assert.Empty(t, f.Value())
}

func TestChecklist(t *testing.T) {
	c := NewChecklist([]CheckItem{{Key: "a", Label: "A"}, {Key: "b", Label: "B"}, {Key: "c", Label: "C"}})

	assert.False(t, c.Up())
	assert.True(t, c.Down())
	it, ok := c.Toggle()
	require.True(t, ok)
	assert.Equal(t, "b", it.Key)
	assert.True(t, it.Checked)

	c.SetChecked("c", true)
	assert.Equal(t, []string{"b", "c"}, c.Checked())

	c.Down()
	assert.False(t, c.Down())

	c.Focus()
	view := c.View(testStyles, testSymbols, true)
	assert.Contains(t, view, "[x]")
	assert.Contains(t, view, ">")
}
