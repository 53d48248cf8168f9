package config

import "time"

// Config holds carta configuration.
// Stored at: {home}/config.yaml
type Config struct {
	Provider ProviderCfg `mapstructure:"provider" yaml:"provider"`
	Parser   ParserCfg   `mapstructure:"parser" yaml:"parser"`
	Export   ExportCfg   `mapstructure:"export" yaml:"export"`
}

// ProviderCfg configures the structured extraction provider.
type ProviderCfg struct {
	Endpoint        string `mapstructure:"endpoint" yaml:"endpoint"`                     // Azure OpenAI resource endpoint
	APIKey          string `mapstructure:"api_key" yaml:"api_key"`                       // API key (supports ${ENV_VAR} syntax)
	Deployment      string `mapstructure:"deployment" yaml:"deployment"`                 // Deployment (model) name
	APIVersion      string `mapstructure:"api_version" yaml:"api_version"`               // Azure API version
	MaxOutputTokens int    `mapstructure:"max_output_tokens" yaml:"max_output_tokens"`   // Output size limit per call
	MaxRetries      int    `mapstructure:"max_retries" yaml:"max_retries"`               // Attempts per chunk
	RetryDelayMS    int    `mapstructure:"retry_delay_ms" yaml:"retry_delay_ms"`         // Base backoff delay, doubles per attempt
	TimeoutSeconds  int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`       // Per-call request timeout
}

// ParserCfg configures text normalization and chunking.
type ParserCfg struct {
	MaxChunkChars int `mapstructure:"max_chunk_chars" yaml:"max_chunk_chars"` // Character budget per chunk
}

// ExportCfg configures dataset export.
type ExportCfg struct {
	Formats   []string `mapstructure:"formats" yaml:"formats"`       // "csv", "xlsx"
	OutputDir string   `mapstructure:"output_dir" yaml:"output_dir"` // Overrides {home}/output when set
}

// RetryDelay returns the base backoff delay as a duration.
func (c *Config) RetryDelay() time.Duration {
	if c.Provider.RetryDelayMS <= 0 {
		return time.Second
	}
	return time.Duration(c.Provider.RetryDelayMS) * time.Millisecond
}

// Timeout returns the per-call request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	if c.Provider.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.Provider.TimeoutSeconds) * time.Second
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderCfg{
			Endpoint:        "${AZURE_OPENAI_ENDPOINT}",
			APIKey:          "${AZURE_OPENAI_API_KEY}",
			Deployment:      "${AZURE_OPENAI_DEPLOYMENT_NAME}",
			APIVersion:      "2024-08-01-preview",
			MaxOutputTokens: 4096,
			MaxRetries:      3,
			RetryDelayMS:    1000,
			TimeoutSeconds:  60,
		},
		Parser: ParserCfg{
			MaxChunkChars: 2000,
		},
		Export: ExportCfg{
			Formats: []string{"csv"},
		},
	}
}
