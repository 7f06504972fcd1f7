package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_UnknownProvider(t *testing.T) {
	_, err := NewClient(Config{Provider: "watson", APIKey: "k"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMissingCredential))
	assert.Contains(t, err.Error(), "watson")
}

func TestNewClient_MissingAPIKey(t *testing.T) {
	for _, p := range []Provider{ProviderOpenAI, ProviderGoogle, ProviderAnthropic} {
		t.Run(string(p), func(t *testing.T) {
			_, err := NewClient(Config{Provider: p})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingCredential)
		})
	}
}

func TestNewClient_OllamaNeedsHost(t *testing.T) {
	_, err := NewClient(Config{Provider: ProviderOllama})
	assert.ErrorIs(t, err, ErrMissingCredential)

	_, err = NewClient(Config{Provider: ProviderOllama, BaseURL: "not a url"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMissingCredential))

	c, err := NewClient(Config{Provider: ProviderOllama, BaseURL: "http://localhost:11434"})
	require.NoError(t, err)
	assert.Equal(t, ProviderOllama, c.Provider())
	assert.Equal(t, "llama3.1", c.Model())
}

func TestNewClient_DefaultsAndOverrides(t *testing.T) {
	tests := []struct {
		provider Provider
		model    string
		want     string
	}{
		{ProviderOpenAI, "", "gpt-4o-mini"},
		{ProviderGoogle, "", "gemini-2.5-flash"},
		{ProviderAnthropic, "", "claude-3-5-haiku-latest"},
		{ProviderOpenAI, "gpt-4o", "gpt-4o"},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider)+"/"+tt.want, func(t *testing.T) {
			c, err := NewClient(Config{Provider: tt.provider, APIKey: "k", Model: tt.model})
			require.NoError(t, err)
			assert.Equal(t, tt.provider, c.Provider())
			assert.Equal(t, tt.want, c.Model())
		})
	}
}

func TestNewClient_BaseURLOverride(t *testing.T) {
	c, err := NewClient(Config{Provider: ProviderOpenAI, APIKey: "k", BaseURL: "http://proxy.local/v1/"})
	require.NoError(t, err)
	assert.Equal(t, "http://proxy.local/v1", c.(*OpenAIClient).baseURL)
}

func TestSplitSystem(t *testing.T) {
	system, rest := splitSystem([]Message{
		{Role: RoleSystem, Content: "one"},
		{Role: RoleUser, Content: "hi"},
		{Role: RoleSystem, Content: "two"},
	})
	assert.Equal(t, "one\n\ntwo", system)
	require.Len(t, rest, 1)
	assert.Equal(t, "hi", rest[0].Content)
}

func TestOllamaComplete_CancelledContext(t *testing.T) {
	c, err := NewOllamaClient("http://127.0.0.1:1", "m")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.Complete(ctx, Request{Messages: []Message{{Role: RoleSystem, Content: "x"}}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc...", truncate("abcdef", 3))
}
