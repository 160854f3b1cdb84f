package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/thiamyoussouph/sasstock-sub000/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ── Rate limiting ─────────────────────────────────────────────────────────────
// In-process fixed-window counters keyed by client IP. Good enough for a
// single back-office instance; counters are not shared across replicas.

// Login window is deliberately tight: a cashier mistyping a password a few
// times stays well under it, a credential stuffer does not.
const (
	loginAttemptsPerWindow = 10
	loginWindow            = time.Minute
)

type ipWindow struct {
	mu        sync.Mutex
	count     int
	windowEnd time.Time
}

// limiter owns one counter map. Both middlewares are instances of it, which
// keeps the purge loop uniform.
type limiter struct {
	mu      sync.Mutex
	perIP   map[string]*ipWindow
	limit   int
	window  time.Duration
	message string
}

func newLimiter(limit int, window time.Duration, message string) *limiter {
	l := &limiter{
		perIP:   make(map[string]*ipWindow),
		limit:   limit,
		window:  window,
		message: message,
	}
	registryMu.Lock()
	registry = append(registry, l)
	registryMu.Unlock()
	return l
}

func (l *limiter) allow(ip string) (ok bool, retryAt time.Time) {
	l.mu.Lock()
	w, exists := l.perIP[ip]
	if !exists {
		w = &ipWindow{}
		l.perIP[ip] = w
	}
	l.mu.Unlock()

	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	if now.After(w.windowEnd) {
		w.count = 0
		w.windowEnd = now.Add(l.window)
	}
	w.count++
	return w.count <= l.limit, w.windowEnd
}

func (l *limiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, retryAt := l.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", retryAt.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.message))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter guards POST /auth/login against brute force.
func LoginRateLimiter() gin.HandlerFunc {
	return loginLimiter.middleware()
}

// RateLimiter is the coarse per-IP ceiling applied to the whole API.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return newLimiter(limit, window, "Trop de requêtes. Réessayez dans un instant.").middleware()
}

var (
	registryMu sync.Mutex
	registry   []*limiter

	loginLimiter = newLimiter(loginAttemptsPerWindow, loginWindow,
		"Trop de tentatives de connexion. Réessayez dans 1 minute.")
)

// Expired windows are dropped every few minutes so one-off IPs do not pile
// up in the maps for the life of the process.
const purgeInterval = 5 * time.Minute

func init() {
	go func() {
		ticker := time.NewTicker(purgeInterval)
		defer ticker.Stop()
		for range ticker.C {
			purgeExpired(time.Now())
		}
	}()
}

func purgeExpired(now time.Time) {
	registryMu.Lock()
	limiters := make([]*limiter, len(registry))
	copy(limiters, registry)
	registryMu.Unlock()

	purged := 0
	for _, l := range limiters {
		l.mu.Lock()
		for ip, w := range l.perIP {
			w.mu.Lock()
			if now.After(w.windowEnd) {
				delete(l.perIP, ip)
				purged++
			}
			w.mu.Unlock()
		}
		l.mu.Unlock()
	}
	if purged > 0 {
		log.Debug().Int("entries_purged", purged).Msg("rate limiter maps purged")
	}
}
