package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_BloqueAuDelaDuSeuil(t *testing.T) {
	l := newLimiter(3, time.Minute, "trop de requêtes")

	for i := 0; i < 3; i++ {
		ok, _ := l.allow("10.0.0.1")
		assert.True(t, ok)
	}
	ok, retryAt := l.allow("10.0.0.1")
	assert.False(t, ok)
	assert.True(t, retryAt.After(time.Now()))

	// Another IP has its own window.
	ok, _ = l.allow("10.0.0.2")
	assert.True(t, ok)
}

func TestLimiter_FenetreExpireeRepartDeZero(t *testing.T) {
	l := newLimiter(1, 10*time.Millisecond, "trop de requêtes")

	ok, _ := l.allow("10.0.0.3")
	assert.True(t, ok)
	ok, _ = l.allow("10.0.0.3")
	assert.False(t, ok)

	time.Sleep(20 * time.Millisecond)
	ok, _ = l.allow("10.0.0.3")
	assert.True(t, ok)
}

func TestPurge_SupprimeLesFenetresExpirees(t *testing.T) {
	l := newLimiter(5, 10*time.Millisecond, "trop de requêtes")
	l.allow("10.0.0.4")

	purgeExpired(time.Now().Add(time.Second))

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.perIP, "10.0.0.4")
}
