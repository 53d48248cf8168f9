// Package parser turns extracted menu text into a normalized structured dataset.
package parser

import (
	"strings"
	"unicode"
)

// Normalize cleans raw extracted text before chunking: control characters and
// common OCR encoding artifacts are stripped, runs of spaces collapse to one,
// and line breaks are preserved since menu layout is line-oriented.
// Pure; always returns a string.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r == '\n':
			b.WriteRune('\n')
		case r == '\t' || r == ' ':
			b.WriteRune(' ')
		case r == '\uFEFF' || r == '\uFFFD' || r == '\u200B':
			// BOM, replacement char, zero-width space: OCR noise.
		case unicode.IsControl(r):
			// Remaining control characters carry no layout meaning.
		default:
			b.WriteRune(r)
		}
	}

	lines := strings.Split(b.String(), "\n")
	cleaned := make([]string, 0, len(lines))
	blankRun := 0
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			blankRun++
			// Keep a single blank line between sections, drop the rest.
			if blankRun > 1 || len(cleaned) == 0 {
				continue
			}
		} else {
			blankRun = 0
		}
		cleaned = append(cleaned, line)
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}
