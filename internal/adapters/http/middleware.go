package httpadapter

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	headerRequestID = "X-Request-Id"
	playerCookie    = "picreveal_player"
	ctxRequestID    = "request_id"
	ctxPlayer       = "player"
)

// RequestIDMiddleware ensures every request has a unique X-Request-Id.
func RequestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(headerRequestID)
			if id == "" {
				id = generateID()
			}
			c.Response().Header().Set(headerRequestID, id)
			c.Set(ctxRequestID, id)
			return next(c)
		}
	}
}

// LoggingMiddleware logs each request with structured fields.
func LoggingMiddleware(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			log.Info().
				Interface("request_id", c.Get(ctxRequestID)).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Int("status", c.Response().Status).
				Int64("bytes", c.Response().Size).
				Dur("latency", time.Since(start)).
				Msg("http")
			return nil
		}
	}
}

// PlayerMiddleware identifies the browser by a long-lived cookie, issuing a
// new id when the cookie is missing or malformed.
func PlayerMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := ""
			if ck, err := c.Cookie(playerCookie); err == nil {
				if parsed, err := uuid.Parse(ck.Value); err == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     playerCookie,
					Value:    id,
					Path:     "/",
					MaxAge:   365 * 24 * 60 * 60,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			c.Set(ctxPlayer, id)
			return next(c)
		}
	}
}

// RateLimitMiddleware gives each player a token bucket. A zero rate disables
// limiting. Buckets unused for idle are dropped.
func RateLimitMiddleware(perSec float64, burst int, idle time.Duration) echo.MiddlewareFunc {
	rl := newRateLimiter(perSec, burst, idle)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if perSec <= 0 {
				return next(c)
			}
			player, _ := c.Get(ctxPlayer).(string)
			if !rl.allow(player) {
				return c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "too many requests"})
			}
			return next(c)
		}
	}
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	limit     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newRateLimiter(perSec float64, burst int, idle time.Duration) *rateLimiter {
	return &rateLimiter{
		buckets: map[string]*bucket{},
		limit:   rate.Limit(perSec),
		burst:   burst,
		idle:    idle,
		now:     time.Now,
	}
}

func (r *rateLimiter) allow(player string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if r.idle > 0 && now.Sub(r.lastSweep) >= r.idle {
		r.sweepLocked(now)
	}
	b, ok := r.buckets[player]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(r.limit, r.burst)}
		r.buckets[player] = b
	}
	b.lastSeen = now
	return b.lim.AllowN(now, 1)
}

func (r *rateLimiter) sweepLocked(now time.Time) {
	cutoff := now.Add(-r.idle)
	for id, b := range r.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(r.buckets, id)
		}
	}
	r.lastSweep = now
}

func (r *rateLimiter) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buckets)
}

func generateID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
