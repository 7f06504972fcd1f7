// Package symptoms turns a free-text symptom description into a short list
// of possible conditions and care suggestions.
package symptoms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/GogikarMahashri/MEDCARE-QR/internal/config"
	"github.com/GogikarMahashri/MEDCARE-QR/internal/llm"
	"github.com/GogikarMahashri/MEDCARE-QR/internal/logging"
	"github.com/GogikarMahashri/MEDCARE-QR/pkg/models"
)

// DefaultMinLength is the shortest accepted description, in characters,
// after trimming.
const DefaultMinLength = 10

// Strategy produces suggestions for an already validated query.
type Strategy interface {
	Name() string
	// Check reports ErrConfiguration when the strategy cannot run at all.
	Check() error
	Analyze(ctx context.Context, query string) (*models.AnalysisResult, error)
}

// Service is the single analysis entry point shared by the HTTP API and CLI.
type Service struct {
	strategy  Strategy
	minLength int
	log       *logrus.Entry
}

// Option configures a Service.
type Option func(*Service)

// WithMinLength sets the minimum trimmed description length.
func WithMinLength(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minLength = n
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		if logger != nil {
			s.log = logging.Component(logger, "symptoms")
		}
	}
}

// NewService creates a service around strategy.
func NewService(strategy Strategy, opts ...Option) *Service {
	s := &Service{
		strategy:  strategy,
		minLength: DefaultMinLength,
		log:       logging.Component(nil, "symptoms"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFromConfig selects and builds the strategy named by cfg. A missing
// upstream credential does not fail here: the generative strategy is built
// unconfigured and every analysis reports ErrConfiguration.
func NewFromConfig(cfg *config.Config, logger logrus.FieldLogger) (*Service, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	var strategy Strategy
	switch cfg.Strategy {
	case config.StrategyMock:
		opts := []MockOption{WithDelay(cfg.MockDelay)}
		if cfg.MockPoolFile != "" {
			pool, err := LoadPool(cfg.MockPoolFile)
			if err != nil {
				return nil, err
			}
			opts = append(opts, WithPool(pool))
		}
		strategy = NewMockStrategy(opts...)

	case config.StrategyGenerative:
		client, err := llm.NewClient(cfg.LLM())
		if err != nil {
			if !errors.Is(err, llm.ErrMissingCredential) {
				return nil, err
			}
			logger.WithField("provider", cfg.Provider).Warn("No upstream credential configured; analyses will be refused")
			client = nil
		}
		strategy = NewGenerativeStrategy(client,
			WithTimeout(cfg.UpstreamTimeout),
			WithGenerativeLogger(logger),
		)

	default:
		return nil, fmt.Errorf("unknown analysis strategy %q", cfg.Strategy)
	}

	return NewService(strategy, WithMinLength(cfg.MinLength), WithLogger(logger)), nil
}

// StrategyName returns the name of the active strategy.
func (s *Service) StrategyName() string {
	return s.strategy.Name()
}

// MinLength returns the minimum accepted description length.
func (s *Service) MinLength() int {
	return s.minLength
}

// Ready reports whether analyses can run at all.
func (s *Service) Ready() error {
	return s.strategy.Check()
}

// Analyze runs one analysis. Failures are always *Error.
func (s *Service) Analyze(ctx context.Context, query string) (*models.AnalysisResult, error) {
	return s.AnalyzeStream(ctx, query, nil)
}

// AnalyzeStream is Analyze with progress events sent to emitter, which may be
// nil. The configuration check runs before validation, so an unconfigured
// service refuses every query the same way.
func (s *Service) AnalyzeStream(ctx context.Context, query string, emitter ProgressEmitter) (*models.AnalysisResult, error) {
	start := time.Now()
	name := s.strategy.Name()
	emit := func(ev ProgressEvent) {
		if emitter == nil {
			return
		}
		ev.Strategy = name
		ev.ElapsedMs = time.Since(start).Milliseconds()
		emitter.Emit(ev)
	}
	fail := func(e *Error) (*models.AnalysisResult, error) {
		emit(ProgressEvent{Type: StageFailed, Message: e.Message, Kind: e.KindName()})
		return nil, e
	}

	emit(ProgressEvent{Type: StageValidating})

	if err := s.strategy.Check(); err != nil {
		s.log.WithField("strategy", name).Warn("analysis refused: strategy not configured")
		return fail(configurationError())
	}

	trimmed := strings.TrimSpace(query)
	if utf8.RuneCountInString(trimmed) < s.minLength {
		return fail(validationError(s.minLength))
	}

	if name == "mock" {
		emit(ProgressEvent{Type: StageMock})
	} else {
		emit(ProgressEvent{Type: StageGenerating, Message: "asking the model"})
	}

	result, err := s.strategy.Analyze(ctx, trimmed)
	if err != nil {
		var se *Error
		if errors.As(err, &se) {
			return fail(se)
		}
		// Only a cancelled or expired ctx gets here; report it like any other
		// failed attempt.
		s.log.WithError(err).WithField("strategy", name).Warn("analysis aborted")
		return fail(upstreamError())
	}

	s.log.WithFields(logrus.Fields{
		"strategy":   name,
		"conditions": len(result.PossibleConditions),
		"elapsed":    time.Since(start),
	}).Debug("analysis complete")

	emit(ProgressEvent{Type: StageDone, Result: result})
	return result, nil
}
