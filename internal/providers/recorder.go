package providers

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// ResponseRecorder persists the last successful raw model response to a fixed
// diagnostic path, overwritten each call. This is a debugging aid outside the
// data contract: a failed write is logged and never fails the extraction.
type ResponseRecorder struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// NewResponseRecorder creates a recorder writing to the given path.
func NewResponseRecorder(path string, logger *slog.Logger) *ResponseRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResponseRecorder{path: path, logger: logger}
}

// Record captures a raw response as {"raw": <text>}. Best-effort.
func (r *ResponseRecorder) Record(raw string) {
	if r == nil || r.path == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	payload, err := json.MarshalIndent(map[string]string{"raw": raw}, "", "  ")
	if err != nil {
		r.logger.Warn("failed to encode diagnostic response", "error", err)
		return
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		r.logger.Warn("failed to create diagnostic directory", "path", r.path, "error", err)
		return
	}
	if err := os.WriteFile(r.path, payload, 0o644); err != nil {
		r.logger.Warn("failed to write diagnostic response", "path", r.path, "error", err)
	}
}
