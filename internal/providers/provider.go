// Package providers wraps external structured-generation capabilities.
package providers

import (
	"context"
	"errors"
	"time"

	"github.com/menucarta/carta/internal/menu"
)

// ErrExhausted is returned when every retry attempt for a chunk has failed.
var ErrExhausted = errors.New("extraction attempts exhausted")

// StructuredExtractor extracts schema-conforming menu records from one text
// chunk. Implementations own their retry policy; a returned error is
// definitive for the chunk.
type StructuredExtractor interface {
	// Extract sends one chunk to the generation capability and returns the
	// schema-validated result.
	Extract(ctx context.Context, chunk string) (*ExtractResult, error)

	// Name returns the extractor identifier (e.g. "azure-openai").
	Name() string
}

// ExtractResult is one successful structured extraction.
type ExtractResult struct {
	// Menu holds the schema-validated raw records.
	Menu menu.RawMenu

	// Raw is the response text exactly as the capability returned it.
	Raw string

	// Request tracking
	RequestID string
	Attempts  int
}

// Config holds construction-time settings for the Azure OpenAI extractor.
type Config struct {
	Endpoint        string        // Azure OpenAI resource endpoint
	APIKey          string        // API key
	Deployment      string        // Deployment (model) name
	APIVersion      string        // Azure API version
	MaxOutputTokens int           // Output size limit per call
	MaxRetries      int           // Attempts per chunk
	RetryDelay      time.Duration // Base backoff delay, doubles per attempt
	Timeout         time.Duration // Per-call request timeout
}
