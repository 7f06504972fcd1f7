package llm

import (
	"context"
	"errors"
)

// Provider identifies an upstream text-generation service.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderGoogle    Provider = "google"
	ProviderAnthropic Provider = "anthropic"
	ProviderOllama    Provider = "ollama"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrMissingCredential is returned by NewClient when the provider's API key
// (or host, for ollama) is not configured.
var ErrMissingCredential = errors.New("llm: missing upstream credential")

// Message is a single chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a provider-neutral completion request. JSON asks the provider
// for a strict JSON response where it supports such a mode.
type Request struct {
	Messages []Message
	JSON     bool
}

// Response is the text produced by the provider plus usage metadata.
type Response struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Model        string
}

// Client sends completion requests to one provider.
type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
	Provider() Provider
	Model() string
}

// Config selects and configures a provider client.
type Config struct {
	Provider Provider
	APIKey   string
	Model    string
	BaseURL  string // optional endpoint override; for ollama, the host URL
}

// DefaultModel returns the model used when none is configured.
func DefaultModel(p Provider) string {
	switch p {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderGoogle:
		return "gemini-2.5-flash"
	case ProviderAnthropic:
		return "claude-3-5-haiku-latest"
	case ProviderOllama:
		return "llama3.1"
	default:
		return ""
	}
}

// Known reports whether p names a supported provider.
func Known(p Provider) bool {
	return DefaultModel(p) != ""
}

const (
	defaultTemperature = 0.2
	defaultMaxTokens   = 1024
)
