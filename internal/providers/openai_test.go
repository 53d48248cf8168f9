package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func chatCompletionBody(content string) string {
	msg, _ := json.Marshal(content)
	return fmt.Sprintf(`{
		"id": "chatcmpl-test",
		"object": "chat.completion",
		"model": "gpt-4o",
		"choices": [{
			"index": 0,
			"message": {"role": "assistant", "content": %s},
			"finish_reason": "stop"
		}],
		"usage": {"prompt_tokens": 100, "completion_tokens": 50, "total_tokens": 150}
	}`, msg)
}

func testConfig() Config {
	return Config{
		Endpoint:        "https://example.openai.azure.com",
		APIKey:          "test-key",
		Deployment:      "gpt-4o",
		MaxOutputTokens: 1024,
		MaxRetries:      3,
		RetryDelay:      time.Millisecond,
		Timeout:         5 * time.Second,
	}
}

func newTestClient(t *testing.T, server *httptest.Server, rec *ResponseRecorder) *AzureOpenAIClient {
	t.Helper()
	client, err := NewAzureOpenAIClient(testConfig(), rec, nil, WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestNewAzureOpenAIClient_MissingCredentials(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Config)
	}{
		{"missing endpoint", func(c *Config) { c.Endpoint = "" }},
		{"missing api key", func(c *Config) { c.APIKey = "" }},
		{"missing deployment", func(c *Config) { c.Deployment = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mut(&cfg)
			if _, err := NewAzureOpenAIClient(cfg, nil, nil); err == nil {
				t.Error("expected construction error")
			}
		})
	}
}

func TestAzureOpenAIClient_Extract(t *testing.T) {
	t.Run("successful extraction", func(t *testing.T) {
		var requests atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
			if r.Method != http.MethodPost {
				t.Errorf("unexpected method: %s", r.Method)
			}
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("failed to decode request: %v", err)
			}
			if _, ok := body["response_format"]; !ok {
				t.Error("request missing response_format")
			}
			if msgs, ok := body["messages"].([]any); !ok || len(msgs) != 2 {
				t.Errorf("expected 2 messages, got %v", body["messages"])
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, chatCompletionBody(`{"items":[{"item_name":"Masala Dosa","price":6.5}]}`))
		}))
		defer server.Close()

		client := newTestClient(t, server, nil)
		result, err := client.Extract(context.Background(), "MASALA DOSA ... 6.50")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Menu.Items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(result.Menu.Items))
		}
		if result.Menu.Items[0].ItemName != "Masala Dosa" {
			t.Errorf("unexpected item: %s", result.Menu.Items[0].ItemName)
		}
		if result.Attempts != 1 {
			t.Errorf("expected 1 attempt, got %d", result.Attempts)
		}
		if requests.Load() != 1 {
			t.Errorf("expected 1 request, got %d", requests.Load())
		}
		if result.RequestID == "" {
			t.Error("expected a request ID")
		}
	})

	t.Run("fails twice then succeeds within retry budget", func(t *testing.T) {
		var requests atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n := requests.Add(1)
			if n <= 2 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, chatCompletionBody(`{"items":[{"item_name":"Idli","price":3}]}`))
		}))
		defer server.Close()

		client := newTestClient(t, server, nil)
		result, err := client.Extract(context.Background(), "IDLI ... 3.00")
		if err != nil {
			t.Fatalf("expected success on 3rd attempt, got: %v", err)
		}
		if result.Attempts != 3 {
			t.Errorf("expected 3 attempts, got %d", result.Attempts)
		}
		if requests.Load() != 3 {
			t.Errorf("expected 3 requests, got %d", requests.Load())
		}
	})

	t.Run("all attempts fail", func(t *testing.T) {
		var requests atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := newTestClient(t, server, nil)
		_, err := client.Extract(context.Background(), "text")
		if err == nil {
			t.Fatal("expected error after exhausting retries")
		}
		if !errors.Is(err, ErrExhausted) {
			t.Errorf("expected ErrExhausted, got: %v", err)
		}
		if requests.Load() != 3 {
			t.Errorf("expected 3 requests, got %d", requests.Load())
		}
	})

	t.Run("schema-invalid response consumes an attempt", func(t *testing.T) {
		var requests atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n := requests.Add(1)
			w.Header().Set("Content-Type", "application/json")
			if n == 1 {
				// Parses as JSON but violates the schema.
				fmt.Fprint(w, chatCompletionBody(`{"items":[{"category":"Mains"}]}`))
				return
			}
			fmt.Fprint(w, chatCompletionBody(`{"items":[{"item_name":"Vada","price":4}]}`))
		}))
		defer server.Close()

		client := newTestClient(t, server, nil)
		result, err := client.Extract(context.Background(), "VADA ... 4.00")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Attempts != 2 {
			t.Errorf("expected 2 attempts, got %d", result.Attempts)
		}
	})

	t.Run("records last successful raw response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, chatCompletionBody(`{"items":[{"item_name":"Chai","price":2}]}`))
		}))
		defer server.Close()

		path := filepath.Join(t.TempDir(), "last_response.json")
		client := newTestClient(t, server, NewResponseRecorder(path, nil))

		if _, err := client.Extract(context.Background(), "CHAI ... 2.00"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := readDiagnostic(path)
		if err != nil {
			t.Fatalf("failed to read diagnostic: %v", err)
		}
		if data["raw"] != `{"items":[{"item_name":"Chai","price":2}]}` {
			t.Errorf("unexpected diagnostic capture: %q", data["raw"])
		}
	})

	t.Run("cancelled context stops retries", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := newTestClient(t, server, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := client.Extract(ctx, "text"); err == nil {
			t.Error("expected error with cancelled context")
		}
	})
}

func readDiagnostic(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var payload map[string]string
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
