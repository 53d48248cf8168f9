package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/menucarta/carta/internal/providers"
)

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a new config manager and loads initial config.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{
		callbacks: make([]func(*Config), 0),
	}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile string) error {
	// Defaults are registered per leaf key so a config file that sets only
	// some fields still inherits the rest.
	defaults := DefaultConfig()
	viper.SetDefault("provider.endpoint", defaults.Provider.Endpoint)
	viper.SetDefault("provider.api_key", defaults.Provider.APIKey)
	viper.SetDefault("provider.deployment", defaults.Provider.Deployment)
	viper.SetDefault("provider.api_version", defaults.Provider.APIVersion)
	viper.SetDefault("provider.max_output_tokens", defaults.Provider.MaxOutputTokens)
	viper.SetDefault("provider.max_retries", defaults.Provider.MaxRetries)
	viper.SetDefault("provider.retry_delay_ms", defaults.Provider.RetryDelayMS)
	viper.SetDefault("provider.timeout_seconds", defaults.Provider.TimeoutSeconds)
	viper.SetDefault("parser.max_chunk_chars", defaults.Parser.MaxChunkChars)
	viper.SetDefault("export.formats", defaults.Export.Formats)
	viper.SetDefault("export.output_dir", defaults.Export.OutputDir)

	// Environment variables with CARTA_ prefix
	viper.SetEnvPrefix("CARTA")
	viper.AutomaticEnv()

	// Config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.carta")
	}

	// Try to read config file (not required)
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration.
func (cm *Manager) WatchConfig() {
	viper.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	viper.WatchConfig()
}

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	pattern := regexp.MustCompile(`\$\{([^}]+)\}`)
	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// ToProviderConfig converts the provider section into a providers.Config,
// resolving all ${ENV_VAR} references.
func (c *Config) ToProviderConfig() providers.Config {
	return providers.Config{
		Endpoint:        ResolveEnvVars(c.Provider.Endpoint),
		APIKey:          ResolveEnvVars(c.Provider.APIKey),
		Deployment:      ResolveEnvVars(c.Provider.Deployment),
		APIVersion:      c.Provider.APIVersion,
		MaxOutputTokens: c.Provider.MaxOutputTokens,
		MaxRetries:      c.Provider.MaxRetries,
		RetryDelay:      c.RetryDelay(),
		Timeout:         c.Timeout(),
	}
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Carta configuration
# Values use ${ENV_VAR} syntax to reference environment variables
# Set these in your shell: export AZURE_OPENAI_ENDPOINT=xxx AZURE_OPENAI_API_KEY=xxx AZURE_OPENAI_DEPLOYMENT_NAME=xxx

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
