package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"packdeck/internal/domain"
)

func TestRender_PicksPalette(t *testing.T) {
	dark := Render(domain.ThemeDark)
	light := Render(domain.ThemeLight)

	assert.Equal(t, domain.ThemeDark, dark.Theme)
	assert.Equal(t, darkPalette, dark.Palette)
	assert.Equal(t, "dark", dark.Glamour)

	assert.Equal(t, domain.ThemeLight, light.Theme)
	assert.Equal(t, lightPalette, light.Palette)
	assert.Equal(t, "light", light.Glamour)

	assert.NotEqual(t, dark.ProgressFrom, light.ProgressFrom)
}

func TestRender_ToggleRoundTrip(t *testing.T) {
	s := Render(domain.ThemeDark)
	s = Render(s.Theme.Toggle())
	assert.Equal(t, domain.ThemeLight, s.Theme)
	s = Render(s.Theme.Toggle())
	assert.Equal(t, darkPalette, s.Palette)
}

func TestSymbols(t *testing.T) {
	t.Setenv("PACKDECK_ASCII_SYMBOLS", "")
	t.Setenv("LANG", "en_US.UTF-8")

	assert.Equal(t, asciiSymbols, Symbols(true))
	assert.Equal(t, unicodeSymbols, Symbols(false))

	t.Setenv("PACKDECK_ASCII_SYMBOLS", "1")
	assert.False(t, DetectUnicodeSupport())
	assert.Equal(t, asciiSymbols, Symbols(false))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-3, 0, 10))
	assert.Equal(t, 10, Clamp(30, 0, 10))
	assert.Equal(t, 5, Clamp(5, 0, 10))
}
