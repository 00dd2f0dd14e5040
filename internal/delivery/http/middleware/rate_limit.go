package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go-jobportal-backend/internal/delivery/http/response"
	"go-jobportal-backend/pkg/logger"
	"go-jobportal-backend/pkg/metrics"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Custom key extractor (default: IP-based)
	KeyFunc func(*gin.Context) string
	// Key prefix for Redis (default: "rl:ip:")
	KeyPrefix string
	// Whether to fail closed (reject) when Redis is unavailable
	FailClosed bool
}

// DefaultRateLimitConfig returns sensible defaults for API rate limiting
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:      100,             // 100 requests
		Window:     1 * time.Minute, // per minute
		KeyPrefix:  "rl:ip:",
		FailClosed: false, // Fail open by default for availability
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// rateLimitEntry tracks request count for a key (in-memory fallback)
type rateLimitEntry struct {
	count   int
	resetAt time.Time
	// removed is set by sweep once the entry has left the store.
	removed bool
	mu      sync.Mutex
}

const sweepInterval = 5 * time.Minute

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
// Returns: [current_count, ttl_remaining]
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

// RateLimiter counts requests in Redis when a client is given and in
// process memory otherwise. The in-memory store is per instance.
type RateLimiter struct {
	config    RateLimitConfig
	client    *goredis.Client
	store     sync.Map
	lastSweep atomic.Int64
	now       func() time.Time
}

func NewRateLimiter(config RateLimitConfig, client *goredis.Client) *RateLimiter {
	def := DefaultRateLimitConfig()
	if config.Limit <= 0 {
		config.Limit = def.Limit
	}
	if config.Window <= 0 {
		config.Window = def.Window
	}
	if config.KeyFunc == nil {
		config.KeyFunc = def.KeyFunc
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = def.KeyPrefix
	}
	rl := &RateLimiter{config: config, client: client, now: time.Now}
	rl.lastSweep.Store(rl.now().UnixNano())
	return rl
}

// Middleware creates the gin handler.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		fullKey := rl.config.KeyPrefix + rl.config.KeyFunc(c)
		now := rl.now()

		var (
			count   int
			resetAt time.Time
			backend = "memory"
		)

		// Try Redis first
		if rl.client != nil {
			var err error
			count, resetAt, err = rl.checkRedis(c.Request.Context(), fullKey)
			if err == nil {
				backend = "redis"
			} else {
				logger.Log.WarnContext(c.Request.Context(), "Rate limit store unavailable",
					"error", err,
					"fail_closed", rl.config.FailClosed,
					"request_id", response.RequestID(c),
				)
				if rl.config.FailClosed {
					response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", nil)
					c.Abort()
					return
				}
				// Fall through to in-memory
				count, resetAt = rl.checkInMemory(fullKey, now)
			}
		} else {
			count, resetAt = rl.checkInMemory(fullKey, now)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Reset", resetAt.UTC().Format(time.RFC3339))

		// Check if limit exceeded
		if count > rl.config.Limit {
			retryAfter := int(resetAt.Sub(now).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			metrics.RateLimited.WithLabelValues(backend).Inc()
			logger.Log.InfoContext(c.Request.Context(), "Rate limit triggered",
				"client_ip", c.ClientIP(),
				"path", c.FullPath(),
				"request_id", response.RequestID(c),
			)

			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(rl.config.Limit-count))
		c.Next()
	}
}

// checkRedis checks rate limit using Redis with atomic Lua script
func (rl *RateLimiter) checkRedis(ctx context.Context, key string) (int, time.Time, error) {
	ttlSeconds := int(rl.config.Window.Seconds())
	if ttlSeconds < 1 {
		ttlSeconds = 1
	}

	result, err := rl.client.Eval(ctx, rateLimitLuaScript, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	// Parse result [count, ttl]
	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}

	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)

	return int(count), rl.now().Add(time.Duration(ttl) * time.Second), nil
}

// checkInMemory checks rate limit using the in-memory store
func (rl *RateLimiter) checkInMemory(key string, now time.Time) (int, time.Time) {
	rl.sweep(now)

	for {
		entryI, _ := rl.store.LoadOrStore(key, &rateLimitEntry{
			resetAt: now.Add(rl.config.Window),
		})
		if count, resetAt, ok := rl.increment(entryI.(*rateLimitEntry), now); ok {
			return count, resetAt
		}
	}
}

// increment counts one request against entry. ok is false when sweep removed
// the entry after it was loaded; the caller must load a fresh one.
func (rl *RateLimiter) increment(entry *rateLimitEntry, now time.Time) (count int, resetAt time.Time, ok bool) {
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.removed {
		return 0, time.Time{}, false
	}

	// Reset if window expired
	if now.After(entry.resetAt) {
		entry.count = 0
		entry.resetAt = now.Add(rl.config.Window)
	}

	entry.count++
	return entry.count, entry.resetAt, true
}

// sweep drops expired entries at most once per sweepInterval.
func (rl *RateLimiter) sweep(now time.Time) {
	last := rl.lastSweep.Load()
	if now.UnixNano()-last < int64(sweepInterval) || !rl.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	rl.store.Range(func(key, value interface{}) bool {
		entry := value.(*rateLimitEntry)
		entry.mu.Lock()
		if now.After(entry.resetAt) {
			entry.removed = true
			rl.store.CompareAndDelete(key, entry)
		}
		entry.mu.Unlock()
		return true
	})
}
