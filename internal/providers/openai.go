package providers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/azure"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

const AzureOpenAIName = "azure-openai"

const (
	azureDefaultAPIVersion = "2024-08-01-preview"
	systemInstruction      = "You extract structured menu JSON. Follow the schema exactly."
	userInstruction        = `Extract menu items and numeric prices from the text below.
Fill fields for:
- price
- half_plate_price
- full_plate_price
- small_price, medium_price, large_price
Return null for any unavailable fields.

MENU TEXT:
%s`
)

// AzureOpenAIClient implements StructuredExtractor against an Azure OpenAI
// deployment using the official SDK.
type AzureOpenAIClient struct {
	deployment      string
	maxOutputTokens int
	maxRetries      int
	retryDelay      time.Duration
	timeout         time.Duration
	client          openai.Client
	recorder        *ResponseRecorder
	logger          *slog.Logger
}

// AzureOption customizes client construction.
type AzureOption func(*azureOptions)

type azureOptions struct {
	httpClient *http.Client
	baseURL    string
}

// WithHTTPClient overrides the HTTP client (tests).
func WithHTTPClient(hc *http.Client) AzureOption {
	return func(o *azureOptions) { o.httpClient = hc }
}

// WithBaseURL overrides the request base URL (tests).
func WithBaseURL(u string) AzureOption {
	return func(o *azureOptions) { o.baseURL = u }
}

// NewAzureOpenAIClient creates a structured extraction client.
// Missing credentials are a construction-time failure: extraction is never
// attempted with an unconfigured capability.
func NewAzureOpenAIClient(cfg Config, recorder *ResponseRecorder, logger *slog.Logger, opts ...AzureOption) (*AzureOpenAIClient, error) {
	if cfg.Endpoint == "" || cfg.APIKey == "" || cfg.Deployment == "" {
		return nil, fmt.Errorf("missing Azure OpenAI credentials: endpoint, api key and deployment are required")
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = azureDefaultAPIVersion
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = 4096
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	var ao azureOptions
	for _, opt := range opts {
		opt(&ao)
	}

	// The retry schedule is owned here; disable SDK transport retries so an
	// attempt maps 1:1 to a request.
	clientOpts := []option.RequestOption{
		azure.WithEndpoint(cfg.Endpoint, cfg.APIVersion),
		azure.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if ao.httpClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(ao.httpClient))
	}
	if ao.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(ao.baseURL))
	}

	return &AzureOpenAIClient{
		deployment:      cfg.Deployment,
		maxOutputTokens: cfg.MaxOutputTokens,
		maxRetries:      cfg.MaxRetries,
		retryDelay:      cfg.RetryDelay,
		timeout:         cfg.Timeout,
		client:          openai.NewClient(clientOpts...),
		recorder:        recorder,
		logger:          logger,
	}, nil
}

// Name returns the extractor identifier.
func (c *AzureOpenAIClient) Name() string {
	return AzureOpenAIName
}

// Extract sends one chunk through the deployment with the menu schema
// enforced, retrying with exponential backoff. Network errors, timeouts and
// schema-invalid responses all consume one attempt; after the final attempt
// the error is definitive.
func (c *AzureOpenAIClient) Extract(ctx context.Context, chunk string) (*ExtractResult, error) {
	requestID := uuid.New().String()

	var result *ExtractResult
	attempts := 0

	err := retry.Do(
		func() error {
			attempts++
			r, err := c.callOnce(ctx, chunk, requestID)
			if err != nil {
				return err
			}
			result = r
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.maxRetries)),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("extraction attempt failed",
				"request_id", requestID,
				"attempt", n+1,
				"max_retries", c.maxRetries,
				"error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w after %d attempt(s): %v", ErrExhausted, attempts, err)
	}

	result.RequestID = requestID
	result.Attempts = attempts
	return result, nil
}

func (c *AzureOpenAIClient) callOnce(ctx context.Context, chunk, requestID string) (*ExtractResult, error) {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.deployment),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemInstruction),
			openai.UserMessage(fmt.Sprintf(userInstruction, chunk)),
		},
		Temperature: openai.Float(0),
		MaxTokens:   openai.Int(int64(c.maxOutputTokens)),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   menuSchemaName,
					Schema: menuSchemaDoc(),
					Strict: openai.Bool(true),
				},
			},
		},
	}

	resp, err := c.client.Chat.Completions.New(ctx, params, option.WithRequestTimeout(c.timeout))
	if err != nil {
		return nil, fmt.Errorf("chat completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	raw := resp.Choices[0].Message.Content
	parsed, err := ParseMenuJSON(raw)
	if err != nil {
		return nil, err
	}

	// Diagnostic capture happens only for responses that passed validation.
	c.recorder.Record(raw)

	c.logger.Debug("structured extraction succeeded",
		"request_id", requestID,
		"items", len(parsed.Items))

	return &ExtractResult{Menu: *parsed, Raw: raw}, nil
}
