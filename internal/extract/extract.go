// Package extract provides upstream text extraction from menu source files.
// The parsing pipeline only runs when extraction reports success.
package extract

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Result is the outcome of extracting text from one source file.
// Success is false when no usable text could be produced; Error then holds
// the reason.
type Result struct {
	Text       string `json:"text"`
	SourceFile string `json:"source_file"`
	Method     string `json:"extraction_method"`
	CharCount  int    `json:"char_count"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}

// SupportedExtensions lists the file types File can handle.
var SupportedExtensions = []string{".pdf", ".txt", ".md"}

// Supported reports whether the file's extension has an extractor.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// File extracts text from a source file, dispatching on extension.
// Extraction failures are reported in the Result, not returned: the caller
// decides whether a failed document aborts a batch.
func File(path string, logger *slog.Logger) Result {
	if logger == nil {
		logger = slog.Default()
	}

	name := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(path))

	var (
		text   string
		method string
		err    error
	)

	switch ext {
	case ".pdf":
		method = "pdf"
		text, err = pdfText(path)
	case ".txt", ".md":
		method = "text"
		text, err = textFile(path)
	default:
		return Result{
			SourceFile: name,
			Success:    false,
			Error:      fmt.Sprintf("unsupported format: %s", ext),
		}
	}

	if err != nil {
		logger.Warn("text extraction failed", "file", name, "method", method, "error", err)
		return Result{
			SourceFile: name,
			Method:     method,
			Success:    false,
			Error:      err.Error(),
		}
	}

	logger.Info("extracted text", "file", name, "method", method, "chars", len(text))
	return Result{
		Text:       text,
		SourceFile: name,
		Method:     method,
		CharCount:  len(text),
		Success:    len(text) > 0,
		Error:      errIfEmpty(text),
	}
}

func errIfEmpty(text string) string {
	if len(text) > 0 {
		return ""
	}
	return "no text found in document"
}

func textFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(data), nil
}
