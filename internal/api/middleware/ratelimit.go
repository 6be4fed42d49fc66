package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// NewLoginRateLimiter creates a Gin middleware for rate limiting login
// attempts. Buckets are keyed per client IP and organization, so a burst
// against one tenant's login page does not exhaust the budget a client
// has at another tenant.
// requests is the number of attempts allowed per period.
// period is a duration string (e.g., "1m", "1h").
func NewLoginRateLimiter(requests int64, period string) (gin.HandlerFunc, error) {
	duration, err := time.ParseDuration(period)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit period %q: %w", period, err)
	}

	rate := limiter.Rate{
		Period: duration,
		Limit:  requests,
	}

	instance := limiter.New(memory.NewStore(), rate)

	middleware := mgin.NewMiddleware(instance, mgin.WithKeyGetter(loginRateKey))
	return middleware, nil
}

func loginRateKey(c *gin.Context) string {
	return c.ClientIP() + "|" + c.Param(OrgParam)
}
