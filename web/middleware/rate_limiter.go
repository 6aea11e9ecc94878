package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
)

// RateLimiterConfig holds configuration for rate limiting
type RateLimiterConfig struct {
	RequestsPerMinute int // Max API requests per session per minute
	BurstSize         int // Allow burst of N requests
	CacheSize         int // Max sessions tracked at once
}

// TokenBucket implements a token bucket rate limiter
type TokenBucket struct {
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	mu         sync.Mutex
}

// NewTokenBucket creates a new token bucket
func NewTokenBucket(maxTokens float64, refillRate float64) *TokenBucket {
	return &TokenBucket{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// Allow checks if a request can proceed and consumes a token if so
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()

	// Refill tokens based on elapsed time
	tb.tokens = min(tb.maxTokens, tb.tokens+(elapsed*tb.refillRate))
	tb.lastRefill = now

	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		return true
	}
	return false
}

// Remaining returns the number of tokens remaining
func (tb *TokenBucket) Remaining() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tokens := min(tb.maxTokens, tb.tokens+(elapsed*tb.refillRate))
	return int(tokens)
}

// SessionRateLimiter manages per-session token buckets. The buckets live
// in a bounded LRU so an unbounded stream of sessions cannot grow the
// map without limit; evicting an idle session just resets its bucket.
type SessionRateLimiter struct {
	config  RateLimiterConfig
	buckets *lru.Cache
	mu      sync.Mutex
	logger  *zap.Logger
}

// NewSessionRateLimiter creates a new session-based rate limiter
func NewSessionRateLimiter(config RateLimiterConfig, logger *zap.Logger) (*SessionRateLimiter, error) {
	if config.CacheSize < 1 {
		config.CacheSize = 1024
	}
	buckets, err := lru.New(config.CacheSize)
	if err != nil {
		return nil, err
	}
	return &SessionRateLimiter{
		config:  config,
		buckets: buckets,
		logger:  logger,
	}, nil
}

func (srl *SessionRateLimiter) bucket(sessionID string) *TokenBucket {
	srl.mu.Lock()
	defer srl.mu.Unlock()

	if v, ok := srl.buckets.Get(sessionID); ok {
		return v.(*TokenBucket)
	}
	refillRate := float64(srl.config.RequestsPerMinute) / 60.0
	bucket := NewTokenBucket(float64(srl.config.BurstSize), refillRate)
	srl.buckets.Add(sessionID, bucket)
	return bucket
}

// Allow checks if a request can proceed for the given session
func (srl *SessionRateLimiter) Allow(sessionID string) bool {
	return srl.bucket(sessionID).Allow()
}

// Remaining returns remaining tokens and the burst limit for a session
func (srl *SessionRateLimiter) Remaining(sessionID string) (remaining int, limit int) {
	srl.mu.Lock()
	v, ok := srl.buckets.Get(sessionID)
	srl.mu.Unlock()

	if !ok {
		return srl.config.BurstSize, srl.config.BurstSize
	}
	return v.(*TokenBucket).Remaining(), srl.config.BurstSize
}

// RateLimitMiddleware creates a Gin middleware for rate limiting
func RateLimitMiddleware(limiter *SessionRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionIDValue, exists := c.Get("sessionID")
		if !exists {
			// Auth middleware should run before this
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session not initialized"})
			return
		}
		sessionID := sessionIDValue.(string)

		allowed := limiter.Allow(sessionID)
		remaining, limit := limiter.Remaining(sessionID)

		// Add rate limit headers
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			if limiter.logger != nil {
				limiter.logger.Warn("Rate limit exceeded",
					zap.String("session_id", sessionID),
					zap.Int("limit", limit))
			}

			c.Header("Retry-After", "60") // Suggest retry after 60 seconds
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"limit":       limit,
				"remaining":   remaining,
				"retry_after": 60,
			})
			return
		}

		c.Next()
	}
}
