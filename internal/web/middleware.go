package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/zh1gn/FoundItBot/internal/ratelimit"
	"github.com/zh1gn/FoundItBot/internal/settings"
)

// limitSource resolves the public rate limit from the settings table and
// caches it for ttl. A ttl of zero re-reads on every call, so edits to the
// settings row take effect without a restart.
type limitSource struct {
	settings *settings.Service
	ttl      time.Duration

	mu      sync.Mutex
	value   int
	expires time.Time
}

func newLimitSource(settingsService *settings.Service, ttl time.Duration) *limitSource {
	return &limitSource{settings: settingsService, ttl: ttl}
}

func (s *limitSource) limit(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if s.ttl > 0 && now.Before(s.expires) {
		return s.value
	}
	s.value = s.settings.PublicRateLimit(ctx)
	s.expires = now.Add(s.ttl)
	return s.value
}

// rateLimitMiddleware throttles public lookups per client address. Codes are
// short enough that an unthrottled surface would allow enumeration.
func rateLimitMiddleware(limiter ratelimit.Limiter, limits *limitSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := ratelimit.KeyForClient(c.ClientIP())
		limit := limits.limit(c.Request.Context())
		res, errAllow := limiter.Allow(c.Request.Context(), key, limit, time.Now())
		if errAllow != nil {
			log.WithError(errAllow).Warn("rate limit check failed")
			c.Next()
			return
		}
		if !res.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
