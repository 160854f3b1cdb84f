package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreaker_OuvertureApresEchecsConsecutifs(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 3, SuccessThreshold: 1, CoolOff: time.Hour})
	boom := errors.New("smtp: 421 service not available")

	for i := 0; i < 3; i++ {
		require.ErrorIs(t, cb.Execute(func() error { return boom }), boom)
	}
	assert.Equal(t, CBOpen, cb.State())

	// Open breaker fast-fails without calling fn.
	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_UnSuccesRefermeApresCoolOff(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 1, CoolOff: 10 * time.Millisecond})
	require.Error(t, cb.Execute(func() error { return errors.New("refused") }))
	require.Equal(t, CBOpen, cb.State())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, CBHalfOpen, cb.State())

	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_SondeRateeRouvre(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 1, CoolOff: 10 * time.Millisecond})
	require.Error(t, cb.Execute(func() error { return errors.New("refused") }))

	time.Sleep(20 * time.Millisecond)
	require.Equal(t, CBHalfOpen, cb.State())

	require.Error(t, cb.Execute(func() error { return errors.New("still down") }))
	assert.Equal(t, CBOpen, cb.State())
}
