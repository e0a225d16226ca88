// Package theme provides the visual design system for the TUI.
//
// Render is the single place where a Theme becomes concrete styles. The
// root model keeps the returned Styles value and asks for a new one when
// the user toggles the theme; components never read package globals.
//
// NO_COLOR (https://no-color.org/) is respected automatically by lipgloss via
// its color profile detection.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"packdeck/internal/domain"
)

// Palette is the set of colors one theme is built from.
type Palette struct {
	Success lipgloss.Color
	Error   lipgloss.Color
	Warning lipgloss.Color
	Info    lipgloss.Color
	Accent  lipgloss.Color
	Muted   lipgloss.Color

	Border       lipgloss.Color
	BorderActive lipgloss.Color

	Bg       lipgloss.Color
	BgAlt    lipgloss.Color
	Fg       lipgloss.Color
	FgDim    lipgloss.Color
	TabBg    lipgloss.Color
	TabFg    lipgloss.Color
	TabActBg lipgloss.Color
	TabActFg lipgloss.Color
}

var darkPalette = Palette{
	Success:      "#66bb6a",
	Error:        "#ef5350",
	Warning:      "#ffa726",
	Info:         "#4fc3f7",
	Accent:       "#ce93d8",
	Muted:        "#9e9e9e",
	Border:       "#616161",
	BorderActive: "#42a5f5",
	Bg:           "#1e1e1e",
	BgAlt:        "#2d2d2d",
	Fg:           "#e0e0e0",
	FgDim:        "#757575",
	TabBg:        "#333333",
	TabFg:        "#9e9e9e",
	TabActBg:     "#42a5f5",
	TabActFg:     "#1e1e1e",
}

var lightPalette = Palette{
	Success:      "#2e7d32",
	Error:        "#c62828",
	Warning:      "#e65100",
	Info:         "#0277bd",
	Accent:       "#6a1b9a",
	Muted:        "#757575",
	Border:       "#bdbdbd",
	BorderActive: "#1565c0",
	Bg:           "#ffffff",
	BgAlt:        "#f5f5f5",
	Fg:           "#212121",
	FgDim:        "#9e9e9e",
	TabBg:        "#e0e0e0",
	TabFg:        "#616161",
	TabActBg:     "#1565c0",
	TabActFg:     "#ffffff",
}

// Styles is every style the TUI draws with, for one theme.
type Styles struct {
	Theme   domain.Theme
	Palette Palette

	// Base is applied to the whole frame so the light theme also
	// repaints the terminal background.
	Base lipgloss.Style

	Bold lipgloss.Style
	Dim  lipgloss.Style

	TextSuccess lipgloss.Style
	TextError   lipgloss.Style
	TextWarning lipgloss.Style
	TextInfo    lipgloss.Style
	TextAccent  lipgloss.Style
	TextMuted   lipgloss.Style

	BorderNormal lipgloss.Style
	BorderActive lipgloss.Style
	ModalBorder  lipgloss.Style

	TabNormal lipgloss.Style
	TabActive lipgloss.Style

	StatusBar lipgloss.Style
	StatusKey lipgloss.Style

	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style
	InputText        lipgloss.Style

	SectionTitle lipgloss.Style
	FieldLabel   lipgloss.Style
	Cursor       lipgloss.Style
	Checked      lipgloss.Style
	Timestamp    lipgloss.Style
	LogLine      lipgloss.Style

	// ProgressFrom and ProgressTo are the gradient ends of the progress bar.
	ProgressFrom string
	ProgressTo   string

	// Glamour names the glamour standard style matching this theme.
	Glamour string
}

// Render builds the styles for t.
func Render(t domain.Theme) Styles {
	p := darkPalette
	glamour := "dark"
	if !t.Dark() {
		p = lightPalette
		glamour = "light"
	}

	return Styles{
		Theme:   t,
		Palette: p,

		Base: lipgloss.NewStyle().Foreground(p.Fg).Background(p.Bg),

		Bold: lipgloss.NewStyle().Bold(true).Foreground(p.Fg),
		Dim:  lipgloss.NewStyle().Foreground(p.FgDim),

		TextSuccess: lipgloss.NewStyle().Foreground(p.Success).Bold(true),
		TextError:   lipgloss.NewStyle().Foreground(p.Error).Bold(true),
		TextWarning: lipgloss.NewStyle().Foreground(p.Warning).Bold(true),
		TextInfo:    lipgloss.NewStyle().Foreground(p.Info),
		TextAccent:  lipgloss.NewStyle().Foreground(p.Accent),
		TextMuted:   lipgloss.NewStyle().Foreground(p.Muted),

		BorderNormal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border),
		BorderActive: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.BorderActive),
		ModalBorder: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(p.BorderActive).
			Padding(0, 1),

		TabNormal: lipgloss.NewStyle().
			Foreground(p.TabFg).
			Background(p.TabBg).
			Padding(0, 2),
		TabActive: lipgloss.NewStyle().
			Foreground(p.TabActFg).
			Background(p.TabActBg).
			Bold(true).
			Padding(0, 2),

		StatusBar: lipgloss.NewStyle().
			Foreground(p.FgDim).
			Background(p.BgAlt).
			Padding(0, 1),
		StatusKey: lipgloss.NewStyle().
			Foreground(p.Info).
			Bold(true),

		InputPrompt:      lipgloss.NewStyle().Foreground(p.Info).Bold(true),
		InputPlaceholder: lipgloss.NewStyle().Foreground(p.FgDim),
		InputText:        lipgloss.NewStyle().Foreground(p.Fg),

		SectionTitle: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true).
			Padding(0, 0, 1, 0),
		FieldLabel: lipgloss.NewStyle().Foreground(p.Muted),
		Cursor:     lipgloss.NewStyle().Foreground(p.Info).Bold(true),
		Checked:    lipgloss.NewStyle().Foreground(p.Success),
		Timestamp:  lipgloss.NewStyle().Foreground(p.FgDim),
		LogLine:    lipgloss.NewStyle().Foreground(p.Fg),

		ProgressFrom: string(p.Info),
		ProgressTo:   string(p.Success),

		Glamour: glamour,
	}
}

// MinTabWidth is the minimum terminal width that shows tab labels (else collapse).
const MinTabWidth = 60

// Clamp returns v clamped to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
