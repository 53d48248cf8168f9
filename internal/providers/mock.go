package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/menucarta/carta/internal/menu"
)

const MockExtractorName = "mock"

// MockExtractor is a StructuredExtractor for testing. Responses are returned
// per call in order (the last entry repeats); FailOn forces specific calls to
// fail instead.
type MockExtractor struct {
	// Configurable behavior
	Responses []menu.RawMenu
	FailOn    map[int]error // 0-based call index → error
	Latency   time.Duration

	// State
	callCount atomic.Int64
}

// Name returns the extractor identifier.
func (m *MockExtractor) Name() string {
	return MockExtractorName
}

// Calls returns how many times Extract has been invoked.
func (m *MockExtractor) Calls() int {
	return int(m.callCount.Load())
}

// Extract returns the scripted response for this call.
func (m *MockExtractor) Extract(ctx context.Context, chunk string) (*ExtractResult, error) {
	n := int(m.callCount.Add(1)) - 1

	if m.Latency > 0 {
		select {
		case <-time.After(m.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err, ok := m.FailOn[n]; ok {
		return nil, err
	}

	var resp menu.RawMenu
	switch {
	case len(m.Responses) == 0:
		resp = menu.RawMenu{Items: []menu.RawItem{}}
	case n < len(m.Responses):
		resp = m.Responses[n]
	default:
		resp = m.Responses[len(m.Responses)-1]
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal mock response: %w", err)
	}

	return &ExtractResult{
		Menu:      resp,
		Raw:       string(raw),
		RequestID: fmt.Sprintf("mock-%d", n+1),
		Attempts:  1,
	}, nil
}
