package theme

import (
	"os"
	"strings"
)

// SymbolSet holds all UI glyphs, allowing a switch between Unicode and an
// ASCII fallback.
type SymbolSet struct {
	Success  string
	Error    string
	Warning  string
	Info     string
	ArrowR   string
	Bullet   string
	Ellipsis string
	Cursor   string
	CheckOn  string
	CheckOff string
}

var unicodeSymbols = SymbolSet{
	Success:  "\u2714", // ✔
	Error:    "\u2718", // ✘
	Warning:  "\u26A0", // ⚠
	Info:     "\u25CF", // ●
	ArrowR:   "\u2192", // →
	Bullet:   "\u2022", // •
	Ellipsis: "\u2026", // …
	Cursor:   "\u25B8", // ▸
	CheckOn:  "[✔]",
	CheckOff: "[ ]",
}

var asciiSymbols = SymbolSet{
	Success:  "[OK]",
	Error:    "[ERR]",
	Warning:  "[!]",
	Info:     "[i]",
	ArrowR:   "->",
	Bullet:   "*",
	Ellipsis: "...",
	Cursor:   ">",
	CheckOn:  "[x]",
	CheckOff: "[ ]",
}

// DetectUnicodeSupport checks whether the terminal likely supports Unicode.
// PACKDECK_ASCII_SYMBOLS wins over locale detection.
func DetectUnicodeSupport() bool {
	if v := os.Getenv("PACKDECK_ASCII_SYMBOLS"); v == "1" || strings.EqualFold(v, "true") {
		return false
	}

	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		val := strings.ToLower(os.Getenv(key))
		if strings.Contains(val, "utf-8") || strings.Contains(val, "utf8") {
			return true
		}
	}

	// Most modern terminals support Unicode.
	return true
}

// Symbols picks the glyph set. forceASCII comes from ui.ascii_symbols.
func Symbols(forceASCII bool) SymbolSet {
	if forceASCII || !DetectUnicodeSupport() {
		return asciiSymbols
	}
	return unicodeSymbols
}
