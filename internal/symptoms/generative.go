package symptoms

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/GogikarMahashri/MEDCARE-QR/internal/llm"
	"github.com/GogikarMahashri/MEDCARE-QR/internal/logging"
	"github.com/GogikarMahashri/MEDCARE-QR/pkg/models"
)

// DefaultUpstreamTimeout bounds a single upstream call.
const DefaultUpstreamTimeout = 30 * time.Second

// GenerativeStrategy asks an upstream model for suggestions. A strategy built
// without a client reports ErrConfiguration from Check.
type GenerativeStrategy struct {
	client  llm.Client
	timeout time.Duration
	log     *logrus.Entry
}

// GenerativeOption configures a GenerativeStrategy.
type GenerativeOption func(*GenerativeStrategy)

// WithTimeout bounds each upstream call.
func WithTimeout(d time.Duration) GenerativeOption {
	return func(g *GenerativeStrategy) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithGenerativeLogger sets where upstream failure causes are logged.
func WithGenerativeLogger(logger logrus.FieldLogger) GenerativeOption {
	return func(g *GenerativeStrategy) {
		if logger != nil {
			g.log = logging.Component(logger, "symptoms.generative")
		}
	}
}

// NewGenerativeStrategy wraps client. client may be nil when no credential
// is configured.
func NewGenerativeStrategy(client llm.Client, opts ...GenerativeOption) *GenerativeStrategy {
	g := &GenerativeStrategy{
		client:  client,
		timeout: DefaultUpstreamTimeout,
		log:     logging.Component(nil, "symptoms.generative"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *GenerativeStrategy) Name() string { return "generative" }

// Check reports ErrConfiguration when there is no upstream client.
func (g *GenerativeStrategy) Check() error {
	if g.client == nil {
		return ErrConfiguration
	}
	return nil
}

// Analyze sends the composed instruction as a single system message and
// validates the reply. Every failure collapses into the generic upstream
// error; the cause is only logged.
func (g *GenerativeStrategy) Analyze(ctx context.Context, query string) (*models.AnalysisResult, error) {
	if g.client == nil {
		return nil, configurationError()
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	log := g.log.WithFields(logrus.Fields{
		"provider": g.client.Provider(),
		"model":    g.client.Model(),
	})

	start := time.Now()
	resp, err := g.client.Complete(ctx, llm.Request{
		Messages: []llm.Message{{Role: llm.RoleSystem, Content: BuildInstruction(query)}},
		JSON:     true,
	})
	if err != nil {
		entry := log.WithError(err)
		if errors.Is(err, context.DeadlineExceeded) {
			entry = entry.WithField("timeout", g.timeout)
		}
		entry.Warn("upstream call failed")
		return nil, upstreamError()
	}
	if resp == nil {
		log.Warn("upstream returned no response")
		return nil, upstreamError()
	}

	result, err := ParseResult(resp.Content)
	if err != nil {
		log.WithError(err).WithField("response_chars", len(resp.Content)).Warn("upstream response rejected")
		return nil, upstreamError()
	}

	log.WithFields(logrus.Fields{
		"elapsed":       time.Since(start),
		"input_tokens":  resp.InputTokens,
		"output_tokens": resp.OutputTokens,
		"conditions":    len(result.PossibleConditions),
	}).Debug("upstream analysis complete")

	return result, nil
}
