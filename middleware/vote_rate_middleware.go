package middleware

import (
	"sync"
	"time"

	apimodels "blytzwork-backend/models/api"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

type userLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// UserRateLimiter throttles requests per authenticated user with a token bucket.
type UserRateLimiter struct {
	mu       sync.Mutex
	perSec   rate.Limit
	burst    int
	idleTTL  time.Duration
	limiters map[string]*userLimiter
	lastGC   time.Time
}

func NewUserRateLimiter(perSecond float64, burst int) *UserRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &UserRateLimiter{
		perSec:   rate.Limit(perSecond),
		burst:    burst,
		idleTTL:  10 * time.Minute,
		limiters: map[string]*userLimiter{},
		lastGC:   time.Now(),
	}
}

func (l *UserRateLimiter) Allow(userID string) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	if now.Sub(l.lastGC) > l.idleTTL {
		for key, item := range l.limiters {
			if now.Sub(item.lastSeen) > l.idleTTL {
				delete(l.limiters, key)
			}
		}
		l.lastGC = now
	}
	item, ok := l.limiters[userID]
	if !ok {
		item = &userLimiter{limiter: rate.NewLimiter(l.perSec, l.burst)}
		l.limiters[userID] = item
	}
	item.lastSeen = now
	return item.limiter.AllowN(now, 1)
}

func (l *UserRateLimiter) Handler() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userID := GetUserID(ctx)
		if userID == "" {
			userID = ctx.IP()
		}
		if !l.Allow(userID) {
			return ctx.Status(fiber.StatusTooManyRequests).JSON(apimodels.NewError("too many votes, slow down"))
		}
		return ctx.Next()
	}
}
