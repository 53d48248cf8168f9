package extract

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSupported(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"menu.pdf", true},
		{"menu.PDF", true},
		{"menu.txt", true},
		{"menu.md", true},
		{"menu.jpg", false},
		{"menu", false},
	}
	for _, tt := range tests {
		if got := Supported(tt.path); got != tt.want {
			t.Errorf("Supported(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestFile_Text(t *testing.T) {
	t.Run("reads plain text file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "menu.txt")
		content := "STARTERS\nSamosa 3.00\nPakora 4.00\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		result := File(path, nil)
		if !result.Success {
			t.Fatalf("expected success, got error: %s", result.Error)
		}
		if result.Text != content {
			t.Errorf("unexpected text: %q", result.Text)
		}
		if result.Method != "text" {
			t.Errorf("expected method text, got %s", result.Method)
		}
		if result.SourceFile != "menu.txt" {
			t.Errorf("expected source menu.txt, got %s", result.SourceFile)
		}
		if result.CharCount != len(content) {
			t.Errorf("expected char count %d, got %d", len(content), result.CharCount)
		}
	})

	t.Run("empty file is not a success", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.txt")
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatal(err)
		}

		result := File(path, nil)
		if result.Success {
			t.Error("expected failure for empty file")
		}
		if result.Error == "" {
			t.Error("expected an error message")
		}
	})

	t.Run("missing file is a failed result", func(t *testing.T) {
		result := File(filepath.Join(t.TempDir(), "missing.txt"), nil)
		if result.Success {
			t.Error("expected failure for missing file")
		}
	})

	t.Run("unsupported format is a failed result", func(t *testing.T) {
		result := File("menu.jpg", nil)
		if result.Success {
			t.Error("expected failure for unsupported format")
		}
		if !strings.Contains(result.Error, "unsupported format") {
			t.Errorf("unexpected error: %s", result.Error)
		}
	})
}

// miniPDF builds a minimal single-page PDF whose content stream shows text,
// with a correct xref table so strict readers accept it.
func miniPDF(text string) []byte {
	content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects)+1)
	for i, body := range objects {
		offsets[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objects); i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestFile_PDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.pdf")
	if err := os.WriteFile(path, miniPDF("Samosa 3.00"), 0o644); err != nil {
		t.Fatal(err)
	}

	result := File(path, nil)
	if !result.Success {
		t.Fatalf("expected success, got error: %s", result.Error)
	}
	if result.Method != "pdf" {
		t.Errorf("expected method pdf, got %s", result.Method)
	}
	if !strings.Contains(result.Text, "Samosa 3.00") {
		t.Errorf("expected page text in result, got %q", result.Text)
	}
}

func TestContentStreamText(t *testing.T) {
	t.Run("extracts Tj strings", func(t *testing.T) {
		content := []byte("BT /F1 12 Tf 72 720 Td (Butter Chicken) Tj ET")
		got := contentStreamText(content)
		if got != "Butter Chicken" {
			t.Errorf("expected %q, got %q", "Butter Chicken", got)
		}
	})

	t.Run("TJ arrays and line positioning", func(t *testing.T) {
		content := []byte("BT (Samosa) Tj 0 -14 Td [(3) -20 (.00)] TJ ET")
		got := contentStreamText(content)
		if !strings.Contains(got, "Samosa") {
			t.Errorf("missing first line: %q", got)
		}
		if !strings.Contains(got, "3.00") {
			t.Errorf("missing second line: %q", got)
		}
		if !strings.Contains(got, "\n") {
			t.Errorf("expected line break between rows: %q", got)
		}
	})

	t.Run("handles escapes and nested parens", func(t *testing.T) {
		content := []byte(`((Chef\'s) Special \(spicy\)) Tj`)
		got := contentStreamText(content)
		if got != "(Chef's) Special (spicy)" {
			t.Errorf("unexpected text: %q", got)
		}
	})

	t.Run("no text operators", func(t *testing.T) {
		if got := contentStreamText([]byte("q 1 0 0 1 0 0 cm Q")); got != "" {
			t.Errorf("expected empty, got %q", got)
		}
	})
}
