package resilience

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("upstream 502")

func fail() error    { return errUpstream }
func succeed() error { return nil }

func newTestBreaker(t *testing.T, cfg CircuitBreakerConfig) (*CircuitBreaker, *time.Time, *[]string) {
	t.Helper()
	var transitions []string
	cfg.Enabled = true
	cfg.OnStateChange = func(from, to CircuitState) {
		transitions = append(transitions, string(from)+">"+string(to))
	}
	b := NewCircuitBreaker(cfg)
	require.NotNil(t, b)

	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	b.now = func() time.Time { return now }
	return b, &now, &transitions
}

func TestCircuitBreaker_OpensAndRecovers(t *testing.T) {
	b, now, transitions := newTestBreaker(t, CircuitBreakerConfig{
		FailureThreshold: 2,
		OpenTimeout:      5 * time.Second,
		HalfOpenMaxReq:   1,
	})

	assert.ErrorIs(t, b.Execute(fail, nil), errUpstream)
	assert.Equal(t, CircuitStateClosed, b.State())
	assert.ErrorIs(t, b.Execute(fail, nil), errUpstream)
	assert.Equal(t, CircuitStateOpen, b.State())

	assert.ErrorIs(t, b.Execute(succeed, nil), ErrCircuitOpen)

	*now = now.Add(6 * time.Second)
	assert.Equal(t, CircuitStateHalfOpen, b.State())
	require.NoError(t, b.Execute(succeed, nil))
	assert.Equal(t, CircuitStateClosed, b.State())

	assert.Equal(t, []string{"closed>open", "open>half_open", "half_open>closed"}, *transitions)
}

func TestCircuitBreaker_FailedProbeReopens(t *testing.T) {
	b, now, _ := newTestBreaker(t, CircuitBreakerConfig{
		FailureThreshold: 1,
		OpenTimeout:      time.Second,
		HalfOpenMaxReq:   1,
	})

	_ = b.Execute(fail, nil)
	*now = now.Add(2 * time.Second)
	_ = b.Execute(fail, nil)

	assert.Equal(t, CircuitStateOpen, b.State())
	assert.ErrorIs(t, b.Execute(succeed, nil), ErrCircuitOpen)
}

func TestCircuitBreaker_IgnoredErrorsDoNotTrip(t *testing.T) {
	b, _, transitions := newTestBreaker(t, CircuitBreakerConfig{FailureThreshold: 1})
	errClient := errors.New("unauthorized")

	err := b.Execute(func() error { return errClient }, func(err error) bool { return !errors.Is(err, errClient) })
	assert.ErrorIs(t, err, errClient)
	assert.Equal(t, CircuitStateClosed, b.State())
	assert.Empty(t, *transitions)
}

func TestNewCircuitBreaker(t *testing.T) {
	assert.Nil(t, NewCircuitBreaker(CircuitBreakerConfig{}))

	var disabled *CircuitBreaker
	require.NoError(t, disabled.Execute(succeed, nil))
	assert.Equal(t, CircuitStateClosed, disabled.State())

	b := NewCircuitBreaker(CircuitBreakerConfig{Enabled: true})
	require.NotNil(t, b)
	assert.Equal(t, defaultFailureThreshold, b.cfg.FailureThreshold)
	assert.Equal(t, defaultOpenTimeout, b.cfg.OpenTimeout)
	assert.Equal(t, defaultHalfOpenMaxReq, b.cfg.HalfOpenMaxReq)
}
