package extract

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
)

// pdfText extracts text from every page of a PDF. Page content streams are
// decoded and their text-showing operators collected; layout beyond line
// breaks is not reconstructed. Scanned (image-only) PDFs yield no text.
func pdfText(path string) (string, error) {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}

	var pages []string
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil {
			return "", fmt.Errorf("failed to extract page %d content: %w", pageNr, err)
		}
		if r == nil {
			continue
		}
		content, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d content: %w", pageNr, err)
		}

		if text := contentStreamText(content); text != "" {
			pages = append(pages, text)
		}
	}

	return strings.Join(pages, "\n"), nil
}

// contentStreamText pulls string literals out of a decoded PDF content
// stream. Text-positioning operators (Td, TD, T*) and block ends (ET) start
// a new line so menu rows keep their shape.
func contentStreamText(content []byte) string {
	var b strings.Builder
	var token []byte
	inString := false
	depth := 0

	flushToken := func() {
		switch string(token) {
		case "Td", "TD", "T*", "ET":
			b.WriteByte('\n')
		case "Tj", "TJ", "'", "\"":
			b.WriteByte(' ')
		}
		token = token[:0]
	}

	for i := 0; i < len(content); i++ {
		c := content[i]

		if inString {
			switch c {
			case '\\':
				if i+1 < len(content) {
					i++
					b.WriteByte(unescapePDFChar(content[i]))
				}
			case '(':
				depth++
				b.WriteByte(c)
			case ')':
				if depth == 0 {
					inString = false
				} else {
					depth--
					b.WriteByte(c)
				}
			default:
				b.WriteByte(c)
			}
			continue
		}

		switch {
		case c == '(':
			flushToken()
			inString = true
			depth = 0
		case c == ' ' || c == '\n' || c == '\r' || c == '\t' ||
			c == '[' || c == ']' || c == '<' || c == '>' || c == '/':
			flushToken()
		default:
			token = append(token, c)
		}
	}
	flushToken()

	return strings.TrimSpace(b.String())
}

func unescapePDFChar(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	default:
		return c
	}
}
