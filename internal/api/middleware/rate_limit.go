package middleware

import (
	"container/list"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimiter is a token bucket limiter for one key.
type RateLimiter struct {
	lastRefill time.Time
	mu         sync.Mutex
	refill     time.Duration
	tokens     int
	capacity   int
}

// NewRateLimiter creates a limiter that holds capacity tokens and refills one
// token every refillRate.
func NewRateLimiter(capacity int, refillRate time.Duration) *RateLimiter {
	return &RateLimiter{
		lastRefill: time.Now(),
		refill:     refillRate,
		tokens:     capacity,
		capacity:   capacity,
	}
}

// Allow consumes a token if one is available.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastRefill) >= rl.refill {
		tokensToAdd := int(now.Sub(rl.lastRefill) / rl.refill)
		rl.tokens = minInt(rl.capacity, rl.tokens+tokensToAdd)
		rl.lastRefill = now
	}

	if rl.tokens > 0 {
		rl.tokens--
		return true
	}
	return false
}

// LRUCache bounds the number of per-key limiters held in memory.
type LRUCache struct {
	items    map[string]*list.Element
	list     *list.List
	mu       sync.RWMutex
	capacity int
}

type lruItem struct {
	limiter *RateLimiter
	key     string
}

// NewLRUCache creates a new LRU cache with the specified capacity.
func NewLRUCache(capacity int) *LRUCache {
	return &LRUCache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		list:     list.New(),
	}
}

// Get retrieves the limiter for key, creating it via factory on a miss. The
// least recently used limiter is evicted when over capacity.
func (c *LRUCache) Get(key string, factory func() *RateLimiter) *RateLimiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.items[key]; exists {
		c.list.MoveToFront(elem)
		if item, ok := elem.Value.(*lruItem); ok {
			return item.limiter
		}
		delete(c.items, key)
		c.list.Remove(elem)
		return factory()
	}

	limiter := factory()
	elem := c.list.PushFront(&lruItem{key: key, limiter: limiter})
	c.items[key] = elem

	if c.list.Len() > c.capacity {
		if oldest := c.list.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}

	return limiter
}

func (c *LRUCache) removeElement(elem *list.Element) {
	c.list.Remove(elem)
	if item, ok := elem.Value.(*lruItem); ok {
		delete(c.items, item.key)
	}
}

// Len returns the current number of items in the cache.
func (c *LRUCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.list.Len()
}

// RedisRateLimiter implements distributed sliding-window limiting for
// multi-instance deployments.
type RedisRateLimiter struct {
	client    *redis.Client
	keyPrefix string
	requests  int
	window    time.Duration
}

// NewRedisRateLimiter creates a Redis-backed limiter allowing requests per
// window.
func NewRedisRateLimiter(client *redis.Client, keyPrefix string, requests int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		client:    client,
		keyPrefix: keyPrefix,
		requests:  requests,
		window:    window,
	}
}

// Allow checks the sliding window for key and records this request.
func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("%s:%s", rl.keyPrefix, key)
	now := time.Now()
	windowStart := now.Add(-rl.window)

	pipe := rl.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(windowStart.Unix(), 10))
	pipe.ZCard(ctx, redisKey)
	pipe.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.Unix()),
		Member: now.UnixNano(),
	})
	pipe.Expire(ctx, redisKey, rl.window+time.Minute)

	results, err := pipe.Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("redis rate limiting error: %w", err)
	}

	countCmd, ok := results[1].(*redis.IntCmd)
	if !ok {
		return false, fmt.Errorf("unexpected Redis command result type")
	}
	count, err := countCmd.Result()
	if err != nil {
		return false, fmt.Errorf("failed to get request count: %w", err)
	}

	return count < int64(rl.requests), nil
}

// RateLimitConfig holds configuration for rate limiting.
type RateLimitConfig struct {
	// KeyGenerator derives the limiting key from the request (IP, user ID, ...).
	KeyGenerator func(c *gin.Context) string
	// Requests is the number of requests allowed per Window.
	Requests int
	// Window is the limiting window (default: one minute).
	Window time.Duration
	// KeyPrefix namespaces this limiter's keys against others sharing a store.
	KeyPrefix string
	// CacheCapacity bounds the in-memory limiter cache (default: 10000).
	CacheCapacity int
	// UseRedis enables Redis-based distributed limiting.
	UseRedis      bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// RateLimitManager owns the limiter state behind a middleware.
type RateLimitManager struct {
	cache        *LRUCache
	redisLimiter *RedisRateLimiter
	config       RateLimitConfig
}

// NewRateLimitManager creates a new rate limit manager.
func NewRateLimitManager(ctx context.Context, config RateLimitConfig) (*RateLimitManager, error) {
	if config.Window <= 0 {
		config.Window = time.Minute
	}
	if config.CacheCapacity <= 0 {
		config.CacheCapacity = 10000
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = "rate_limit"
	}

	manager := &RateLimitManager{
		cache:  NewLRUCache(config.CacheCapacity),
		config: config,
	}

	if config.UseRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
			DB:       config.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		manager.redisLimiter = NewRedisRateLimiter(client, config.KeyPrefix, config.Requests, config.Window)
	}

	return manager, nil
}

// Allow checks if a request should be allowed for the given key.
func (rm *RateLimitManager) Allow(ctx context.Context, key string) (bool, error) {
	if rm.redisLimiter != nil {
		return rm.redisLimiter.Allow(ctx, key)
	}

	limiter := rm.cache.Get(key, func() *RateLimiter {
		return NewRateLimiter(rm.config.Requests, rm.config.Window/time.Duration(rm.config.Requests))
	})
	return limiter.Allow(), nil
}

// Middleware returns the gin handler enforcing this manager's limit. Limiter
// store failures fail open: availability wins over strictness.
func (rm *RateLimitManager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rm.config.KeyGenerator(c)

		allowed, err := rm.Allow(c.Request.Context(), key)
		if err != nil {
			c.Header("X-RateLimit-Error", "true")
			c.Next()
			return
		}

		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error": gin.H{
					"type":    "RATE_LIMIT_ERROR",
					"code":    "RATE_LIMITED",
					"message": "Rate limit exceeded. Please try again later.",
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// IPKeyGenerator limits by client IP.
func IPKeyGenerator(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// OAuthKeyGenerator limits per chat user, falling back to client IP when the
// user is not identified.
func OAuthKeyGenerator(c *gin.Context) string {
	if id := c.Query("chat_user_id"); id != "" {
		return "user:" + id
	}
	return "ip:" + c.ClientIP()
}

// IPRateLimitMiddleware limits by client IP with an in-memory store.
func IPRateLimitMiddleware(requestsPerMinute int) gin.HandlerFunc {
	manager, _ := NewRateLimitManager(context.Background(), RateLimitConfig{
		Requests:     requestsPerMinute,
		Window:       time.Minute,
		KeyPrefix:    "api",
		KeyGenerator: IPKeyGenerator,
	})
	return manager.Middleware()
}

// OAuthRateLimitMiddleware limits OAuth initiations with an in-memory store.
func OAuthRateLimitMiddleware(requests int, window time.Duration) gin.HandlerFunc {
	manager, _ := NewRateLimitManager(context.Background(), RateLimitConfig{
		Requests:     requests,
		Window:       window,
		KeyPrefix:    "oauth",
		KeyGenerator: OAuthKeyGenerator,
	})
	return manager.Middleware()
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
