package resilience

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

const (
	defaultFailureThreshold = 5
	defaultOpenTimeout      = 15 * time.Second
	defaultHalfOpenMaxReq   = 2
)

type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
	// OnStateChange runs outside the breaker lock after every transition.
	OnStateChange func(from, to CircuitState)
}

// CircuitBreaker guards one upstream. After FailureThreshold consecutive
// counted failures it rejects calls for OpenTimeout, then lets up to
// HalfOpenMaxReq probes through; all of them must succeed to close again.
// A nil *CircuitBreaker runs every call unguarded.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig
	now func() time.Time

	mu        sync.Mutex
	state     CircuitState
	failures  int
	probes    int
	successes int
	openedAt  time.Time
}

// NewCircuitBreaker returns nil when cfg is disabled. Unset limits fall back
// to 5 failures, 15s open and 2 probes.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = defaultFailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaultOpenTimeout
	}
	if cfg.HalfOpenMaxReq < 1 {
		cfg.HalfOpenMaxReq = defaultHalfOpenMaxReq
	}
	return &CircuitBreaker{cfg: cfg, now: time.Now, state: CircuitStateClosed}
}

// Execute runs fn through the breaker. Errors for which countAsFailure
// returns false are handed back without counting against the upstream.
func (b *CircuitBreaker) Execute(fn func() error, countAsFailure func(error) bool) error {
	if b == nil {
		return fn()
	}
	if err := b.admit(); err != nil {
		return err
	}

	err := fn()
	ok := err == nil || (countAsFailure != nil && !countAsFailure(err))
	b.settle(ok)
	return err
}

// State reports half-open once the open timeout has run out, even before the
// next call arrives.
func (b *CircuitBreaker) State() CircuitState {
	if b == nil {
		return CircuitStateClosed
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && !b.now().Before(b.openedAt.Add(b.cfg.OpenTimeout)) {
		return CircuitStateHalfOpen
	}
	return b.state
}

func (b *CircuitBreaker) admit() error {
	b.mu.Lock()
	from := b.state
	err := b.admitLocked(b.now())
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
	return err
}

func (b *CircuitBreaker) admitLocked(now time.Time) error {
	switch b.state {
	case CircuitStateOpen:
		if now.Before(b.openedAt.Add(b.cfg.OpenTimeout)) {
			return ErrCircuitOpen
		}
		b.moveLocked(CircuitStateHalfOpen, now)
		fallthrough
	case CircuitStateHalfOpen:
		if b.probes >= b.cfg.HalfOpenMaxReq {
			return ErrCircuitOpen
		}
		b.probes++
	}
	return nil
}

func (b *CircuitBreaker) settle(ok bool) {
	b.mu.Lock()
	from := b.state
	now := b.now()

	switch b.state {
	case CircuitStateClosed:
		if ok {
			b.failures = 0
			break
		}
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.moveLocked(CircuitStateOpen, now)
		}
	case CircuitStateHalfOpen:
		if b.probes > 0 {
			b.probes--
		}
		if !ok {
			b.moveLocked(CircuitStateOpen, now)
			break
		}
		b.successes++
		if b.successes >= b.cfg.HalfOpenMaxReq && b.probes == 0 {
			b.moveLocked(CircuitStateClosed, now)
		}
	case CircuitStateOpen:
		if !ok {
			b.openedAt = now
		}
	}

	to := b.state
	b.mu.Unlock()
	b.notify(from, to)
}

func (b *CircuitBreaker) moveLocked(to CircuitState, now time.Time) {
	b.state = to
	b.failures = 0
	b.probes = 0
	b.successes = 0
	b.openedAt = time.Time{}
	if to == CircuitStateOpen {
		b.openedAt = now
	}
}

func (b *CircuitBreaker) notify(from, to CircuitState) {
	if from != to && b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(from, to)
	}
}
