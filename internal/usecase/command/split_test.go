package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"packdeck/internal/domain"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"plain", "python -m nuitka app.py", []string{"python", "-m", "nuitka", "app.py"}},
		{"extra whitespace", "  python\t-m  nuitka\n app.py ", []string{"python", "-m", "nuitka", "app.py"}},
		{"double quotes", `"C:\Program Files\py\python.exe" app.py`, []string{`C:\Program Files\py\python.exe`, "app.py"}},
		{"single quotes", `python '--company-name=Acme Inc' a.py`, []string{"python", "--company-name=Acme Inc", "a.py"}},
		{"escaped quote", `python "--file-description=say \"hi\"" a.py`, []string{"python", `--file-description=say "hi"`, "a.py"}},
		{"windows path unquoted", `C:\venv\Scripts\nuitka.cmd main.py`, []string{`C:\venv\Scripts\nuitka.cmd`, "main.py"}},
		{"empty quoted token", `python "" a.py`, []string{"python", "", "a.py"}},
		{"joined quotes", `--copyright="(c) Acme"`, []string{"--copyright=(c) Acme"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitErrors(t *testing.T) {
	_, err := Split("   \n")
	assert.ErrorIs(t, err, domain.ErrEmptyCommand)

	_, err = Split(`python "unterminated`)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRenderSplitRoundTrip(t *testing.T) {
	tokens := []string{
		`C:\Program Files\Python\python.exe`, "-m", "nuitka",
		"--company-name=Acme Inc",
		`--file-description=say "hi"`,
		`--output-dir=C:\out dir\`,
		`--product-name=it's "odd"`,
		"app.py",
	}
	got, err := Split(Render(tokens))
	require.NoError(t, err)
	assert.Equal(t, tokens, got)
}

func TestRenderSplitRoundTripMixedQuotes(t *testing.T) {
	tokens := []string{"py", `--company-name=Bob's "Co" \`}
	rendered := Render(tokens)
	got, err := Split(rendered)
	require.NoError(t, err, rendered)
	assert.Equal(t, tokens, got)
}

// Every token of up to four runes over the characters Split treats
// specially must come back unchanged.
func TestRenderSplitRoundTripExhaustive(t *testing.T) {
	alphabet := []string{"a", " ", "'", `"`, `\`, "\t"}
	tokens := []string{""}
	frontier := []string{""}
	for n := 0; n < 4; n++ {
		var next []string
		for _, prefix := range frontier {
			for _, r := range alphabet {
				next = append(next, prefix+r)
			}
		}
		tokens = append(tokens, next...)
		frontier = next
	}

	for _, tok := range tokens {
		want := []string{"python", tok, "app.py"}
		rendered := Render(want)
		got, err := Split(rendered)
		if assert.NoError(t, err, "token %q rendered as %s", tok, rendered) {
			assert.Equal(t, want, got, "token %q rendered as %s", tok, rendered)
		}
	}
}

func TestRenderLeavesSimpleTokens(t *testing.T) {
	assert.Equal(t, "python -m nuitka --onefile app.py",
		Render([]string{"python", "-m", "nuitka", "--onefile", "app.py"}))
	assert.Equal(t, `python "my app.py"`, Render([]string{"python", "my app.py"}))
}
