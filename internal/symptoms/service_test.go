package symptoms

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GogikarMahashri/MEDCARE-QR/internal/config"
	"github.com/GogikarMahashri/MEDCARE-QR/internal/llm"
	"github.com/GogikarMahashri/MEDCARE-QR/pkg/models"
)

type recorder struct {
	mu     sync.Mutex
	events []ProgressEvent
}

func (r *recorder) Emit(ev ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

func instantMock(i int) *MockStrategy {
	return NewMockStrategy(WithDelay(0), WithSelector(fixed(i)))
}

func TestService_RejectsShortQuery(t *testing.T) {
	client := &fakeClient{}
	svc := NewService(NewGenerativeStrategy(client))

	got, err := svc.Analyze(context.Background(), "ab")
	assert.Nil(t, got)
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Please describe your symptoms in at least 10 characters.", err.Error())
	assert.Zero(t, client.calls.Load(), "upstream must not be called")
}

func TestService_Validation(t *testing.T) {
	tests := []struct {
		name  string
		query string
		ok    bool
	}{
		{"empty", "", false},
		{"whitespace", "   \t\n  ", false},
		{"nine chars", "123456789", false},
		{"nine chars padded", "   123456789   ", false},
		{"exactly ten", "1234567890", true},
		{"ten runes multibyte", "дихание бо", true},
		{"long", "I have had a sore throat for three days", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(instantMock(0))
			_, err := svc.Analyze(context.Background(), tt.query)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrValidation)
			}
		})
	}
}

func TestService_CustomMinLength(t *testing.T) {
	svc := NewService(instantMock(0), WithMinLength(3))
	assert.Equal(t, 3, svc.MinLength())

	_, err := svc.Analyze(context.Background(), "flu")
	assert.NoError(t, err)

	_, err = svc.Analyze(context.Background(), "ab")
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "at least 3 characters")
}

func TestService_MockReturnsPoolEntry(t *testing.T) {
	svc := NewService(instantMock(2))

	got, err := svc.Analyze(context.Background(), "I have fever and headache")
	require.NoError(t, err)
	assert.Equal(t, DefaultPool()[2], *got)
	assert.Equal(t, "mock", svc.StrategyName())
}

func TestService_UnconfiguredRefusesEveryQuery(t *testing.T) {
	svc := NewService(NewGenerativeStrategy(nil))

	for _, q := range []string{"I have fever and headache", "ab", ""} {
		got, err := svc.Analyze(context.Background(), q)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, ErrConfiguration, "query %q", q)
	}
	assert.ErrorIs(t, svc.Ready(), ErrConfiguration)
}

func TestService_GenerativeReturnsUpstreamListInOrder(t *testing.T) {
	svc := NewService(NewGenerativeStrategy(replying(`{"possibleConditions":["Common cold","Seasonal allergies"]}`)))

	got, err := svc.Analyze(context.Background(), "sneezing and itchy eyes every morning")
	require.NoError(t, err)
	assert.Equal(t, []string{"Common cold", "Seasonal allergies"}, got.PossibleConditions)
}

func TestService_GenerativeWrongShape(t *testing.T) {
	svc := NewService(NewGenerativeStrategy(replying(`{"diagnosis":"flu"}`)))

	got, err := svc.Analyze(context.Background(), "sneezing and itchy eyes every morning")
	assert.Nil(t, got)
	require.ErrorIs(t, err, ErrUpstream)

	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "upstream", se.KindName())
	assert.NotContains(t, se.Message, "diagnosis")
}

func TestService_QueryIsTrimmedBeforeUpstream(t *testing.T) {
	client := &fakeClient{}
	svc := NewService(NewGenerativeStrategy(client))

	_, err := svc.Analyze(context.Background(), "   sore throat and fever   ")
	require.NoError(t, err)
	assert.Contains(t, client.last.Messages[0].Content, "\"\"\"\nsore throat and fever\n\"\"\"")
}

func TestService_CancelledMockReportsUpstream(t *testing.T) {
	svc := NewService(NewMockStrategy(WithDelay(time.Hour)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Analyze(ctx, "I have fever and headache")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestService_ResultRoundTripsAsJSON(t *testing.T) {
	svc := NewService(instantMock(4))

	got, err := svc.Analyze(context.Background(), "tired all the time lately")
	require.NoError(t, err)

	data, err := json.Marshal(got)
	require.NoError(t, err)

	var back models.AnalysisResult
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, *got, back)
	assert.True(t, strings.HasPrefix(string(data), `{"possibleConditions":[`))
}

func TestService_StreamEvents(t *testing.T) {
	t.Run("mock success", func(t *testing.T) {
		rec := &recorder{}
		_, err := NewService(instantMock(0)).AnalyzeStream(context.Background(), "I have fever and headache", rec)
		require.NoError(t, err)
		assert.Equal(t, []string{StageValidating, StageMock, StageDone}, rec.types())

		last := rec.events[len(rec.events)-1]
		require.NotNil(t, last.Result)
		assert.Equal(t, "mock", last.Strategy)
	})

	t.Run("generative success", func(t *testing.T) {
		rec := &recorder{}
		_, err := NewService(NewGenerativeStrategy(&fakeClient{})).AnalyzeStream(context.Background(), "I have fever and headache", rec)
		require.NoError(t, err)
		assert.Equal(t, []string{StageValidating, StageGenerating, StageDone}, rec.types())
	})

	t.Run("validation failure", func(t *testing.T) {
		rec := &recorder{}
		_, err := NewService(instantMock(0)).AnalyzeStream(context.Background(), "ab", rec)
		require.Error(t, err)
		assert.Equal(t, []string{StageValidating, StageFailed}, rec.types())
		assert.Equal(t, "validation", rec.events[1].Kind)
		assert.Equal(t, err.Error(), rec.events[1].Message)
	})

	t.Run("configuration failure", func(t *testing.T) {
		rec := &recorder{}
		_, err := NewService(NewGenerativeStrategy(nil)).AnalyzeStream(context.Background(), "I have fever and headache", rec)
		require.Error(t, err)
		assert.Equal(t, []string{StageValidating, StageFailed}, rec.types())
		assert.Equal(t, "configuration", rec.events[1].Kind)
	})
}

func TestTextEmitter(t *testing.T) {
	var buf bytes.Buffer
	e := &TextEmitter{W: &buf}

	e.Emit(ProgressEvent{Type: StageValidating, Strategy: "mock"})
	e.Emit(ProgressEvent{Type: StageDone, Strategy: "mock", ElapsedMs: 1300})
	e.Emit(ProgressEvent{Type: StageFailed, Strategy: "mock", Kind: "validation", Message: "nope", ElapsedMs: 3})

	out := buf.String()
	assert.Contains(t, out, "[mock] checking description")
	assert.Contains(t, out, "[mock] done in 1.3s")
	assert.Contains(t, out, "[mock] failed (validation) after 3ms")
	assert.NotContains(t, out, "nope")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "850ms", formatDuration(850))
	assert.Equal(t, "2.0s", formatDuration(2000))
}

func TestNewFromConfig(t *testing.T) {
	base := func() *config.Config {
		return &config.Config{
			Strategy:        config.StrategyMock,
			Provider:        string(llm.ProviderOpenAI),
			MinLength:       12,
			MockDelay:       0,
			UpstreamTimeout: time.Second,
		}
	}

	t.Run("mock", func(t *testing.T) {
		svc, err := NewFromConfig(base(), nil)
		require.NoError(t, err)
		assert.Equal(t, "mock", svc.StrategyName())
		assert.Equal(t, 12, svc.MinLength())
		assert.NoError(t, svc.Ready())
	})

	t.Run("mock with pool file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pool.yaml")
		require.NoError(t, os.WriteFile(path, []byte("- possibleConditions: [Rest]\n"), 0o600))

		cfg := base()
		cfg.MockPoolFile = path
		svc, err := NewFromConfig(cfg, nil)
		require.NoError(t, err)

		got, err := svc.Analyze(context.Background(), "a long enough query")
		require.NoError(t, err)
		assert.Equal(t, []string{"Rest"}, got.PossibleConditions)
	})

	t.Run("mock with bad pool file", func(t *testing.T) {
		cfg := base()
		cfg.MockPoolFile = filepath.Join(t.TempDir(), "missing.yaml")
		_, err := NewFromConfig(cfg, nil)
		assert.Error(t, err)
	})

	t.Run("generative without credential", func(t *testing.T) {
		cfg := base()
		cfg.Strategy = config.StrategyGenerative
		svc, err := NewFromConfig(cfg, nil)
		require.NoError(t, err)
		assert.Equal(t, "generative", svc.StrategyName())
		assert.ErrorIs(t, svc.Ready(), ErrConfiguration)
	})

	t.Run("generative with credential", func(t *testing.T) {
		cfg := base()
		cfg.Strategy = config.StrategyGenerative
		cfg.APIKey = "sk-test"
		svc, err := NewFromConfig(cfg, nil)
		require.NoError(t, err)
		assert.NoError(t, svc.Ready())
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := base()
		cfg.Strategy = config.StrategyGenerative
		cfg.Provider = "watson"
		_, err := NewFromConfig(cfg, nil)
		assert.Error(t, err)
	})

	t.Run("unknown strategy", func(t *testing.T) {
		cfg := base()
		cfg.Strategy = "oracle"
		_, err := NewFromConfig(cfg, nil)
		assert.Error(t, err)
	})
}
