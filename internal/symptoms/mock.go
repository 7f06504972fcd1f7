package symptoms

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/GogikarMahashri/MEDCARE-QR/pkg/models"
)

// DefaultMockDelay mimics upstream latency so callers can show a loading state.
const DefaultMockDelay = time.Second

// Selector picks an index in [0, n).
type Selector func(n int) int

// RandomSelector picks uniformly at random.
func RandomSelector(n int) int {
	return rand.IntN(n)
}

// MockStrategy answers from a fixed pool of canned results. It never calls
// out and never fails once a query has been validated.
type MockStrategy struct {
	pool  []models.AnalysisResult
	pick  Selector
	delay time.Duration
}

// MockOption configures a MockStrategy.
type MockOption func(*MockStrategy)

// WithPool replaces the canned pool. Empty pools are ignored.
func WithPool(pool []models.AnalysisResult) MockOption {
	return func(m *MockStrategy) {
		if len(pool) > 0 {
			m.pool = pool
		}
	}
}

// WithSelector replaces the random index selection.
func WithSelector(s Selector) MockOption {
	return func(m *MockStrategy) {
		if s != nil {
			m.pick = s
		}
	}
}

// WithDelay sets the artificial latency; zero disables it.
func WithDelay(d time.Duration) MockOption {
	return func(m *MockStrategy) {
		if d >= 0 {
			m.delay = d
		}
	}
}

// NewMockStrategy creates a mock strategy over the default pool.
func NewMockStrategy(opts ...MockOption) *MockStrategy {
	m := &MockStrategy{
		pool:  DefaultPool(),
		pick:  RandomSelector,
		delay: DefaultMockDelay,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MockStrategy) Name() string { return "mock" }

// Check always succeeds; the mock has no external dependency.
func (m *MockStrategy) Check() error { return nil }

// Pool returns the canned results.
func (m *MockStrategy) Pool() []models.AnalysisResult {
	return m.pool
}

// Analyze returns a copy of one pool entry after the configured delay. The
// only error is a cancelled ctx during the delay.
func (m *MockStrategy) Analyze(ctx context.Context, _ string) (*models.AnalysisResult, error) {
	idx := m.pick(len(m.pool))
	if idx < 0 || idx >= len(m.pool) {
		idx = 0
	}
	result := m.pool[idx].Clone()

	if m.delay > 0 {
		timer := time.NewTimer(m.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return result, nil
}
