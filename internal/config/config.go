// Package config loads runtime settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/GogikarMahashri/MEDCARE-QR/internal/llm"
)

// Analysis strategies.
const (
	StrategyMock       = "mock"
	StrategyGenerative = "generative"
)

type Config struct {
	Port            string        `mapstructure:"PORT"`
	Env             string        `mapstructure:"ENV"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	LogFormat       string        `mapstructure:"LOG_FORMAT"`
	Strategy        string        `mapstructure:"ANALYSIS_STRATEGY"`
	Provider        string        `mapstructure:"LLM_PROVIDER"`
	APIKey          string        `mapstructure:"LLM_API_KEY"`
	Model           string        `mapstructure:"LLM_MODEL"`
	BaseURL         string        `mapstructure:"LLM_BASE_URL"`
	OllamaHost      string        `mapstructure:"OLLAMA_HOST"`
	OpenAIKey       string        `mapstructure:"OPENAI_API_KEY"`
	GoogleKey       string        `mapstructure:"GOOGLE_API_KEY"`
	AnthropicKey    string        `mapstructure:"ANTHROPIC_API_KEY"`
	MinLength       int           `mapstructure:"MIN_SYMPTOM_LENGTH"`
	MockDelay       time.Duration `mapstructure:"MOCK_DELAY"`
	MockPoolFile    string        `mapstructure:"MOCK_POOL_FILE"`
	UpstreamTimeout time.Duration `mapstructure:"UPSTREAM_TIMEOUT"`
	CORSOrigins     string        `mapstructure:"CORS_ORIGINS"`
}

var keys = []string{
	"PORT", "ENV", "LOG_LEVEL", "LOG_FORMAT",
	"ANALYSIS_STRATEGY", "LLM_PROVIDER", "LLM_API_KEY", "LLM_MODEL", "LLM_BASE_URL", "OLLAMA_HOST",
	"OPENAI_API_KEY", "GOOGLE_API_KEY", "ANTHROPIC_API_KEY",
	"MIN_SYMPTOM_LENGTH", "MOCK_DELAY", "MOCK_POOL_FILE", "UPSTREAM_TIMEOUT", "CORS_ORIGINS",
}

// Load reads configuration from the environment, falling back to a .env file
// in the working directory when present. It does not validate.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("ANALYSIS_STRATEGY", StrategyMock)
	v.SetDefault("LLM_PROVIDER", string(llm.ProviderOpenAI))
	v.SetDefault("MIN_SYMPTOM_LENGTH", 10)
	v.SetDefault("MOCK_DELAY", time.Second)
	v.SetDefault("UPSTREAM_TIMEOUT", 30*time.Second)
	v.SetDefault("CORS_ORIGINS", "*")

	// Bind env vars explicitly so Unmarshal picks them up
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// A missing .env is fine; an unreadable or malformed one is not.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read .env: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Strategy = strings.ToLower(strings.TrimSpace(cfg.Strategy))
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	return cfg, nil
}

// Validate rejects settings the service cannot run with. A missing upstream
// credential is not an error here; it is reported when an analysis runs.
func (c *Config) Validate() error {
	if c.Strategy != StrategyMock && c.Strategy != StrategyGenerative {
		return fmt.Errorf("ANALYSIS_STRATEGY must be %q or %q, got %q", StrategyMock, StrategyGenerative, c.Strategy)
	}
	if !llm.Known(llm.Provider(c.Provider)) {
		return fmt.Errorf("LLM_PROVIDER must be openai, google, anthropic or ollama, got %q", c.Provider)
	}
	if f := strings.ToLower(c.LogFormat); f != "text" && f != "json" {
		return fmt.Errorf("LOG_FORMAT must be \"text\" or \"json\", got %q", c.LogFormat)
	}
	if c.MinLength < 1 {
		return fmt.Errorf("MIN_SYMPTOM_LENGTH must be at least 1, got %d", c.MinLength)
	}
	if c.MockDelay < 0 {
		return fmt.Errorf("MOCK_DELAY must not be negative, got %s", c.MockDelay)
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive, got %s", c.UpstreamTimeout)
	}
	return nil
}

// Credential returns the API key for the configured provider. LLM_API_KEY
// wins over the provider-specific variables.
func (c *Config) Credential() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	switch llm.Provider(c.Provider) {
	case llm.ProviderOpenAI:
		return c.OpenAIKey
	case llm.ProviderGoogle:
		return c.GoogleKey
	case llm.ProviderAnthropic:
		return c.AnthropicKey
	}
	return ""
}

// LLM returns the client configuration for the generative strategy.
func (c *Config) LLM() llm.Config {
	base := c.BaseURL
	if llm.Provider(c.Provider) == llm.ProviderOllama && c.OllamaHost != "" {
		base = c.OllamaHost
	}
	return llm.Config{
		Provider: llm.Provider(c.Provider),
		APIKey:   c.Credential(),
		Model:    c.Model,
		BaseURL:  base,
	}
}
