package llm

import (
	"fmt"
	"net/http"
	"strings"
)

// NewClient builds the client for cfg.Provider. It returns ErrMissingCredential
// when the credential is absent so callers can treat that case separately
// from a bad provider name.
func NewClient(cfg Config) (Client, error) {
	if !Known(cfg.Provider) {
		return nil, fmt.Errorf("unknown LLM provider %q (want openai, google, anthropic or ollama)", cfg.Provider)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel(cfg.Provider)
	}

	if cfg.Provider == ProviderOllama {
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("%w: OLLAMA_HOST is not set", ErrMissingCredential)
		}
		return NewOllamaClient(cfg.BaseURL, model)
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: no API key for %s", ErrMissingCredential, cfg.Provider)
	}

	switch cfg.Provider {
	case ProviderOpenAI:
		c := NewOpenAIClient(cfg.APIKey, model)
		if cfg.BaseURL != "" {
			c.baseURL = strings.TrimRight(cfg.BaseURL, "/")
		}
		return c, nil
	case ProviderGoogle:
		c := NewGoogleClient(cfg.APIKey, model)
		if cfg.BaseURL != "" {
			c.baseURL = strings.TrimRight(cfg.BaseURL, "/")
		}
		return c, nil
	default:
		c := NewAnthropicClient(cfg.APIKey, model)
		if cfg.BaseURL != "" {
			c.baseURL = strings.TrimRight(cfg.BaseURL, "/")
		}
		return c, nil
	}
}

// apiError formats a non-2xx upstream reply.
func apiError(provider Provider, resp *http.Response, body []byte) error {
	return fmt.Errorf("%s API error (%d): %s", provider, resp.StatusCode, truncate(string(body), 500))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// splitSystem separates system turns from the conversation.
func splitSystem(messages []Message) (system string, rest []Message) {
	var parts []string
	for _, m := range messages {
		if m.Role == RoleSystem {
			parts = append(parts, m.Content)
			continue
		}
		rest = append(rest, m)
	}
	return strings.Join(parts, "\n\n"), rest
}
