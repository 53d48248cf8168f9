package parser

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"collapses spaces within lines", "Butter   Chicken    12.50", "Butter Chicken 12.50"},
		{"preserves line breaks", "Starters\nSamosa 3.00\nPakora 4.00", "Starters\nSamosa 3.00\nPakora 4.00"},
		{"windows line endings", "Samosa 3.00\r\nPakora 4.00", "Samosa 3.00\nPakora 4.00"},
		{"tabs become spaces", "Samosa\t3.00", "Samosa 3.00"},
		{"strips control characters", "Samosa\x00 3.00\x07", "Samosa 3.00"},
		{"strips OCR artifacts", "\uFEFFSamosa\u00A03.00\uFFFD", "Samosa 3.00"},
		{"collapses blank line runs", "Starters\n\n\n\nMains", "Starters\n\nMains"},
		{"trims edges", "  \n Samosa 3.00 \n  ", "Samosa 3.00"},
		{"whitespace only", " \t \n ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_Pure(t *testing.T) {
	in := "Paneer  Tikka\t250"
	first := Normalize(in)
	second := Normalize(in)
	if first != second {
		t.Errorf("expected identical results, got %q and %q", first, second)
	}
	// Normalizing already-clean text is a fixed point.
	if got := Normalize(first); got != first {
		t.Errorf("re-normalizing changed output: %q -> %q", first, got)
	}
}

func TestChunk(t *testing.T) {
	t.Run("short text is one trimmed chunk", func(t *testing.T) {
		chunks := Chunk("  menu text  ", 100)
		if len(chunks) != 1 {
			t.Fatalf("expected 1 chunk, got %d", len(chunks))
		}
		if chunks[0] != "menu text" {
			t.Errorf("expected trimmed chunk, got %q", chunks[0])
		}
	})

	t.Run("empty input yields one empty chunk", func(t *testing.T) {
		chunks := Chunk("", 100)
		if len(chunks) != 1 || chunks[0] != "" {
			t.Errorf("expected single empty chunk, got %v", chunks)
		}
	})

	t.Run("5000 chars at 2000 gives 2000/2000/1000", func(t *testing.T) {
		text := strings.Repeat("a", 5000)
		chunks := Chunk(text, 2000)
		if len(chunks) != 3 {
			t.Fatalf("expected 3 chunks, got %d", len(chunks))
		}
		for i, want := range []int{2000, 2000, 1000} {
			if len(chunks[i]) != want {
				t.Errorf("chunk %d: expected %d chars, got %d", i, want, len(chunks[i]))
			}
		}
	})

	t.Run("no chunk exceeds budget and order is preserved", func(t *testing.T) {
		text := strings.Repeat("abcdefghij", 137) // 1370 chars
		maxChars := 300
		chunks := Chunk(text, maxChars)

		wantCount := (len(text) + maxChars - 1) / maxChars
		if len(chunks) != wantCount {
			t.Errorf("expected %d chunks, got %d", wantCount, len(chunks))
		}
		for i, c := range chunks {
			if len(c) > maxChars {
				t.Errorf("chunk %d exceeds budget: %d > %d", i, len(c), maxChars)
			}
		}
		// No whitespace at boundaries, so concatenation reconstructs the input.
		if strings.Join(chunks, "") != text {
			t.Error("concatenated chunks do not reconstruct input")
		}
	})

	t.Run("multi-byte text counts characters not bytes", func(t *testing.T) {
		text := strings.Repeat("₹", 1000)
		chunks := Chunk(text, 600)
		if len(chunks) != 2 {
			t.Fatalf("expected 2 chunks, got %d", len(chunks))
		}
		for i, c := range chunks {
			if !utf8.ValidString(c) {
				t.Errorf("chunk %d is not valid UTF-8", i)
			}
			if n := utf8.RuneCountInString(c); n > 600 {
				t.Errorf("chunk %d exceeds budget: %d chars", i, n)
			}
		}
		if strings.Join(chunks, "") != text {
			t.Error("concatenated chunks do not reconstruct input")
		}
	})

	t.Run("non-positive budget falls back to default", func(t *testing.T) {
		text := strings.Repeat("a", DefaultMaxChunkChars+1)
		chunks := Chunk(text, 0)
		if len(chunks) != 2 {
			t.Errorf("expected 2 chunks with default budget, got %d", len(chunks))
		}
	})
}
