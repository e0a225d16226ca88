package domain

import "context"

// PreferenceDarkTheme is the persisted theme choice; true selects dark.
const PreferenceDarkTheme = "dark_theme"

// PreferenceStore is a small key/value store for UI preferences.
type PreferenceStore interface {
	GetBool(ctx context.Context, key string, def bool) (bool, error)
	SetBool(ctx context.Context, key string, value bool) error
}

// Theme selects the color scheme of the TUI.
type Theme int

const (
	ThemeDark Theme = iota
	ThemeLight
)

// ThemeFromDark converts the persisted boolean into a Theme.
func ThemeFromDark(dark bool) Theme {
	if dark {
		return ThemeDark
	}
	return ThemeLight
}

// Dark reports whether t is the dark theme.
func (t Theme) Dark() bool { return t == ThemeDark }

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

func (t Theme) String() string {
	if t == ThemeDark {
		return "dark"
	}
	return "light"
}
