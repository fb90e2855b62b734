package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/dto"
)

const (
	// DefaultMaxAttempts is the default number of allowed attempts per window.
	DefaultMaxAttempts = 5
	// DefaultWindowDuration is the default time window for rate limiting.
	DefaultWindowDuration = 1 * time.Minute

	redisKeyPrefix = "ratelimit:"
)

// LimiterStore counts attempts per key within a fixed window.
type LimiterStore interface {
	// Allow records an attempt and reports whether it is within the limit.
	Allow(ctx context.Context, key string) (bool, error)
	// Cleanup drops expired windows.
	Cleanup(ctx context.Context) error
}

// RateLimiter provides IP-based rate limiting functionality.
type RateLimiter struct {
	store LimiterStore
}

// NewRateLimiter creates a rate limiter backed by the given store.
func NewRateLimiter(store LimiterStore) *RateLimiter {
	return &RateLimiter{store: store}
}

// Middleware returns a Gin middleware handler that enforces rate limiting.
// Store failures let the request through.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		if clientIP == "" {
			clientIP = c.Request.RemoteAddr
		}

		allowed, err := rl.store.Allow(c.Request.Context(), clientIP)
		if err != nil {
			slog.Error("Rate limiter unavailable, allowing request",
				"client_ip", clientIP,
				"error", err,
			)
			c.Next()
			return
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error: "Too many requests. Please try again later.",
				Code:  string(domainerror.ErrCodeRateLimited),
			})
			return
		}

		c.Next()
	}
}

// Cleanup removes expired entries from the underlying store.
func (rl *RateLimiter) Cleanup(ctx context.Context) error {
	return rl.store.Cleanup(ctx)
}

// rateLimitEntry tracks rate limit data for a single key.
type rateLimitEntry struct {
	attempts  int
	resetTime time.Time
}

// MemoryStore keeps windows in process memory.
type MemoryStore struct {
	mu             sync.Mutex
	entries        map[string]*rateLimitEntry
	maxAttempts    int
	windowDuration time.Duration
	now            func() time.Time
}

// NewMemoryStore creates an in-memory limiter store.
func NewMemoryStore(maxAttempts int, windowDuration time.Duration) *MemoryStore {
	maxAttempts, windowDuration = limitsOrDefault(maxAttempts, windowDuration)
	return &MemoryStore{
		entries:        make(map[string]*rateLimitEntry),
		maxAttempts:    maxAttempts,
		windowDuration: windowDuration,
		now:            time.Now,
	}
}

// Allow checks if a request from the given key should be allowed.
func (s *MemoryStore) Allow(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	entry, exists := s.entries[key]
	if !exists || now.After(entry.resetTime) {
		s.entries[key] = &rateLimitEntry{
			attempts:  1,
			resetTime: now.Add(s.windowDuration),
		}
		return true, nil
	}

	if entry.attempts < s.maxAttempts {
		entry.attempts++
		return true, nil
	}

	return false, nil
}

// Cleanup removes expired entries.
func (s *MemoryStore) Cleanup(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, entry := range s.entries {
		if now.After(entry.resetTime) {
			delete(s.entries, key)
		}
	}
	return nil
}

// size returns the number of tracked keys.
func (s *MemoryStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// RedisStore shares fixed windows across instances using INCR and EXPIRE.
type RedisStore struct {
	client         redis.UniversalClient
	maxAttempts    int
	windowDuration time.Duration
}

// NewRedisStore creates a Redis backed limiter store.
func NewRedisStore(client redis.UniversalClient, maxAttempts int, windowDuration time.Duration) *RedisStore {
	maxAttempts, windowDuration = limitsOrDefault(maxAttempts, windowDuration)
	return &RedisStore{
		client:         client,
		maxAttempts:    maxAttempts,
		windowDuration: windowDuration,
	}
}

// Allow increments the key's counter, starting the window on the first hit.
// A counter left without a TTL gets one on its next hit, so a failed
// EXPIRE cannot lock a client out for good.
func (s *RedisStore) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := s.key(key)

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		ttl = pipe.TTL(ctx, redisKey)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	// TTL reports -1 for a key without expiry.
	if ttl.Val() < 0 {
		if err := s.client.Expire(ctx, redisKey, s.windowDuration).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	return incr.Val() <= int64(s.maxAttempts), nil
}

// Cleanup is a no-op; Redis expires windows itself.
func (s *RedisStore) Cleanup(context.Context) error {
	return nil
}

func (s *RedisStore) key(clientKey string) string {
	return redisKeyPrefix + clientKey
}

func limitsOrDefault(maxAttempts int, window time.Duration) (int, time.Duration) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if window <= 0 {
		window = DefaultWindowDuration
	}
	return maxAttempts, window
}

// Ensure implementations satisfy interfaces.
var (
	_ LimiterStore = (*MemoryStore)(nil)
	_ LimiterStore = (*RedisStore)(nil)
)

