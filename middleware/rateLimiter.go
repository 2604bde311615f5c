package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// OrganizationRateLimiter throttles a route per organization. It must run
// after ProtectedRoute.
type OrganizationRateLimiter struct {
	mu       sync.Mutex
	limiters map[uuid.UUID]*rate.Limiter
	every    time.Duration
	burst    int
}

// NewOrganizationRateLimiter allows perMinute requests per organization, with
// the full minute's allowance available as a burst.
func NewOrganizationRateLimiter(perMinute int) *OrganizationRateLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	return &OrganizationRateLimiter{
		limiters: make(map[uuid.UUID]*rate.Limiter),
		every:    time.Minute / time.Duration(perMinute),
		burst:    perMinute,
	}
}

func (l *OrganizationRateLimiter) limiterFor(organizationID uuid.UUID) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[organizationID]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(l.every), l.burst)
		l.limiters[organizationID] = limiter
	}
	return limiter
}

func (l *OrganizationRateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return unauthorized(c, "Authentication required")
		}

		if !l.limiterFor(user.OrganizationID).Allow() {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"message": "Too many imports, please try again shortly",
			})
		}
		return c.Next()
	}
}
