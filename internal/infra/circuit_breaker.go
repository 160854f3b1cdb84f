package infra

import (
	"errors"
	"sync"
	"time"
)

// ── Mailer circuit breaker ───────────────────────────────────────────────────
// Classic three-state breaker (closed / open / half-open) sized for an SMTP
// relay. Relays that greylist or throttle tend to reject in bursts, so the
// breaker trips fast and cools off long enough for the relay to forget us
// before the retry cron probes again.

// CBState is one of closed, open or half-open.
type CBState int

const (
	CBClosed CBState = iota
	CBOpen
	CBHalfOpen
)

func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	}
	return "unknown"
}

// ErrCircuitOpen short-circuits Execute while the breaker cools off.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitBreakerConfig struct {
	// FailureThreshold consecutive failures trip the breaker open.
	FailureThreshold int
	// SuccessThreshold consecutive half-open probes close it again.
	SuccessThreshold int
	// CoolOff is how long the breaker stays open before allowing a probe.
	CoolOff time.Duration
}

// DefaultCBConfig trips after three straight SMTP failures and cools off for
// two minutes; one delivered probe is enough to close, a mail relay either
// takes the message or it does not.
func DefaultCBConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 1,
		CoolOff:          2 * time.Minute,
	}
}

type CircuitBreaker struct {
	mu       sync.Mutex
	cfg      CircuitBreakerConfig
	state    CBState
	failures int // consecutive, resets on success
	probesOK int // consecutive half-open successes
	openedAt time.Time
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 1
	}
	if cfg.CoolOff <= 0 {
		cfg.CoolOff = 2 * time.Minute
	}
	return &CircuitBreaker{cfg: cfg, state: CBClosed}
}

// State reports the current state, moving open → half-open once the cool-off
// window has elapsed. Safe for concurrent use.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.stateLocked()
}

func (cb *CircuitBreaker) stateLocked() CBState {
	if cb.state == CBOpen && time.Since(cb.openedAt) >= cb.cfg.CoolOff {
		cb.state = CBHalfOpen
		cb.probesOK = 0
	}
	return cb.state
}

// Execute runs fn unless the breaker is open, and feeds the outcome back
// into the state machine. The error from fn is returned as-is.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	if cb.stateLocked() == CBOpen {
		cb.mu.Unlock()
		return ErrCircuitOpen
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.record(err == nil)
	return err
}

// record advances the state machine. Caller holds the lock.
func (cb *CircuitBreaker) record(ok bool) {
	if ok {
		switch cb.state {
		case CBClosed:
			cb.failures = 0
		case CBHalfOpen:
			cb.probesOK++
			if cb.probesOK >= cb.cfg.SuccessThreshold {
				cb.state = CBClosed
				cb.failures = 0
			}
		}
		return
	}

	cb.failures++
	switch cb.state {
	case CBClosed:
		if cb.failures >= cb.cfg.FailureThreshold {
			cb.state = CBOpen
			cb.openedAt = time.Now()
		}
	case CBHalfOpen:
		// The probe bounced, start a fresh cool-off.
		cb.state = CBOpen
		cb.openedAt = time.Now()
		cb.failures = 0
	}
}
