package command

import (
	"strings"
	"unicode"

	"packdeck/internal/domain"
)

// Render joins tokens into one line for the command view. Tokens that would
// not survive Split unquoted are quoted.
func Render(tokens []string) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = quote(tok)
	}
	return strings.Join(parts, " ")
}

func quote(tok string) string {
	if tok != "" && !strings.ContainsAny(tok, `'"`) && !strings.ContainsFunc(tok, unicode.IsSpace) {
		return tok
	}
	switch {
	case !strings.Contains(tok, `"`) && !strings.HasSuffix(tok, `\`):
		return `"` + tok + `"`
	case !strings.Contains(tok, "'"):
		return "'" + tok + "'"
	default:
		// Single-quoted runs with each ' spliced in as "'"; Split joins
		// adjacent quoted segments into one token.
		return "'" + strings.ReplaceAll(tok, "'", `'"'"'`) + "'"
	}
}

// Split parses edited command text back into tokens. Whitespace separates
// tokens; single quotes are literal; inside double quotes \" is a quote.
// Backslashes are otherwise literal so Windows paths pass through.
func Split(text string) ([]string, error) {
	var (
		tokens  []string
		cur     strings.Builder
		inToken bool
		quote   rune
	)
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case quote == '\'':
			if r == '\'' {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case quote == '"':
			switch {
			case r == '\\' && i+1 < len(runes) && runes[i+1] == '"':
				cur.WriteRune('"')
				i++
			case r == '"':
				quote = 0
			default:
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inToken = true
		case unicode.IsSpace(r):
			if inToken {
				tokens = append(tokens, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}
	if quote != 0 {
		return nil, domain.NewSubSystemError("command", "command.Split", domain.ErrInvalidInput, "unterminated quote")
	}
	if inToken {
		tokens = append(tokens, cur.String())
	}
	if len(tokens) == 0 {
		return nil, domain.NewSubSystemError("command", "command.Split", domain.ErrEmptyCommand, "")
	}
	return tokens, nil
}
