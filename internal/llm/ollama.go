package llm

import (
	"context"
	"fmt"
	"net/url"

	"github.com/JexSrs/go-ollama"
)

// OllamaClient implements Client for a local Ollama server.
type OllamaClient struct {
	client *ollama.Ollama
	model  string
}

// NewOllamaClient creates a client for the Ollama server at host.
func NewOllamaClient(host, model string) (*OllamaClient, error) {
	u, err := url.Parse(host)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid Ollama host %q", host)
	}

	return &OllamaClient{
		client: ollama.New(*u),
		model:  model,
	}, nil
}

// Complete runs a single Generate call. The library call takes no context:
// when ctx ends, Complete returns at once but the HTTP request itself is not
// aborted and its goroutine finishes in the background.
func (c *OllamaClient) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	system, rest := splitSystem(req.Messages)
	prompt := jsonTurn
	if len(rest) > 0 {
		prompt = rest[len(rest)-1].Content
	} else if !req.JSON {
		prompt = "Respond now."
	}

	type result struct {
		content string
		err     error
	}
	// Buffered so the goroutine can exit even if nobody is left to receive.
	done := make(chan result, 1)

	opts := []func(*ollama.GenerateRequestBuilder){
		c.client.Generate.WithModel(c.model),
		c.client.Generate.WithSystem(system),
		c.client.Generate.WithPrompt(prompt),
	}
	if req.JSON {
		opts = append(opts, c.client.Generate.WithFormat("json"))
	}

	go func() {
		res, err := c.client.Generate(opts...)
		if err != nil {
			done <- result{err: fmt.Errorf("ollama generate: %w", err)}
			return
		}
		if !res.Done {
			done <- result{err: fmt.Errorf("ollama generate: response not complete")}
			return
		}
		done <- result{content: res.Response}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		return &Response{Content: r.content, Model: c.model}, nil
	}
}

// Provider returns the provider name
func (c *OllamaClient) Provider() Provider {
	return ProviderOllama
}

// Model returns the model name
func (c *OllamaClient) Model() string {
	return c.model
}
