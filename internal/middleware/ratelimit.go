package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/iliyamo/cinema-seat-picker/internal/config"
)

// takeResult is the outcome of taking one token from a bucket.
type takeResult struct {
	allowed   bool
	remaining int64
	retryMs   int64
}

// bucketStore takes tokens from the bucket identified by key.
type bucketStore interface {
	take(ctx context.Context, key string, now time.Time) (takeResult, error)
}

var limiterScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local refill_tokens = tonumber(ARGV[3])
	local interval_ms = tonumber(ARGV[4])
	local ttl_seconds = tonumber(ARGV[5])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	if interval_ms > 0 and refill_tokens > 0 then
		local elapsed = math.max(0, now_ms - last_refill)
		local intervals = math.floor(elapsed / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + (intervals * refill_tokens))
			last_refill = last_refill + (intervals * interval_ms)
		end
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		local until_next = interval_ms - (now_ms - last_refill)
		if until_next < 0 then until_next = 0 end
		retry_after_ms = until_next
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill, 'capacity', capacity)
	redis.call('EXPIRE', key, ttl_seconds)

	return { allowed, tokens, retry_after_ms }
`)

// redisBuckets keeps bucket state in Redis so limits hold across replicas.
type redisBuckets struct {
	cfg config.RateLimitConfig
	rdb *redis.Client
}

func (s *redisBuckets) take(ctx context.Context, key string, now time.Time) (takeResult, error) {
	args := []interface{}{
		now.UnixMilli(),
		s.cfg.Capacity,
		s.cfg.RefillTokens,
		s.cfg.RefillInterval.Milliseconds(),
		int64(s.cfg.TTL / time.Second),
	}
	vals, err := limiterScript.Run(ctx, s.rdb, []string{key}, args...).Result()
	if err != nil {
		return takeResult{}, err
	}
	arr, ok := vals.([]interface{})
	if !ok || len(arr) != 3 {
		return takeResult{}, fmt.Errorf("unexpected script result %#v", vals)
	}
	return takeResult{
		allowed:   asInt64(arr[0]) == 1,
		remaining: asInt64(arr[1]),
		retryMs:   asInt64(arr[2]),
	}, nil
}

// localBuckets keeps one x/time/rate limiter per key in process memory.
// Used when Redis is not reachable.
type localBuckets struct {
	cfg      config.RateLimitConfig
	mu       sync.Mutex
	limiters map[string]*localEntry
}

type localEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func newLocalBuckets(cfg config.RateLimitConfig) *localBuckets {
	return &localBuckets{cfg: cfg, limiters: make(map[string]*localEntry)}
}

func (s *localBuckets) take(_ context.Context, key string, now time.Time) (takeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evict(now)
	e, ok := s.limiters[key]
	if !ok {
		every := s.cfg.RefillInterval / time.Duration(s.cfg.RefillTokens)
		e = &localEntry{lim: rate.NewLimiter(rate.Every(every), s.cfg.Capacity)}
		s.limiters[key] = e
	}
	e.lastSeen = now

	if e.lim.AllowN(now, 1) {
		return takeResult{allowed: true, remaining: int64(e.lim.TokensAt(now))}, nil
	}
	// Time until one full token is available again.
	missing := 1 - e.lim.TokensAt(now)
	wait := time.Duration(missing * float64(time.Second) / float64(e.lim.Limit()))
	return takeResult{retryMs: wait.Milliseconds()}, nil
}

// evict drops limiters idle for longer than the configured TTL.
func (s *localBuckets) evict(now time.Time) {
	for k, e := range s.limiters {
		if now.Sub(e.lastSeen) > s.cfg.TTL {
			delete(s.limiters, k)
		}
	}
}

// NewTokenBucket limits requests per key (see RateLimitConfig.KeyStrategy).
// Buckets live in Redis when rdb is non-nil and in process memory otherwise.
// Redis errors fail open.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	var store bucketStore
	if rdb != nil {
		store = &redisBuckets{cfg: cfg, rdb: rdb}
	} else {
		store = newLocalBuckets(cfg)
	}
	return tokenBucket(cfg, store)
}

func tokenBucket(cfg config.RateLimitConfig, store bucketStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := buildRateKey(cfg, c)

			res, err := store.take(c.Request().Context(), key, time.Now())
			if err != nil {
				if cfg.Debug {
					c.Logger().Warnf("[ratelimit] store error for key=%s: %v", key, err)
				}
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(res.remaining, 10))

			if !res.allowed {
				secs := int(math.Ceil(float64(res.retryMs) / 1000.0))
				if secs < 0 {
					secs = 0
				}
				h.Set("Retry-After", strconv.Itoa(secs))
				if cfg.Debug {
					c.Logger().Infof("[ratelimit] block key=%s retry=%dms", key, res.retryMs)
				}
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too_many_requests",
					"message":     "rate limit exceeded",
					"retry_after": secs,
				})
			}

			if cfg.Debug {
				h.Set("X-RateLimit-Key", key)
			}
			return next(c)
		}
	}
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
	parts := []string{cfg.Prefix}
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	sub := subject(c)
	route := c.Request().Method + " " + c.Path()

	switch strings.ToLower(cfg.KeyStrategy) {
	case "ip":
		parts = append(parts, "ip", ip)
	case "user":
		parts = append(parts, "user", sub)
	case "route":
		parts = append(parts, "route", route)
	case "ip_user":
		parts = append(parts, "ip", ip, "user", sub)
	case "ip_route":
		parts = append(parts, "ip", ip, "route", route)
	case "user_route":
		parts = append(parts, "user", sub, "route", route)
	default:
		parts = append(parts, "ip", ip, "user", sub, "route", route)
	}
	return strings.Join(parts, ":")
}
