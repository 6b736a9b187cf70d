package middleware

// ratelimit.go implements a token-bucket limiter in front of /api. The
// bucket state lives in Redis so every replica of the server shares the
// same budget per client. A Redis outage fails open: availability of
// the booking API matters more than the limiter.

import (
    "math"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/sahasuyana/booking-api/internal/config"
)

// bucketScript refills and drains one bucket atomically. It returns
// {allowed, remaining, wait_ms} where wait_ms is how long until the next
// token when the request was rejected.
var bucketScript = redis.NewScript(`
    local now = tonumber(ARGV[1])
    local capacity = tonumber(ARGV[2])
    local refill = tonumber(ARGV[3])
    local interval = tonumber(ARGV[4])
    local ttl = tonumber(ARGV[5])

    local state = redis.call('HMGET', KEYS[1], 'tokens', 'stamp')
    local tokens = tonumber(state[1])
    local stamp = tonumber(state[2])
    if tokens == nil or stamp == nil then
        tokens = capacity
        stamp = now
    end

    local ticks = math.floor(math.max(0, now - stamp) / interval)
    if ticks > 0 then
        tokens = math.min(capacity, tokens + ticks * refill)
        stamp = stamp + ticks * interval
    end

    local allowed = 0
    local wait = 0
    if tokens > 0 then
        allowed = 1
        tokens = tokens - 1
    else
        wait = math.max(0, interval - (now - stamp))
    end

    redis.call('HMSET', KEYS[1], 'tokens', tokens, 'stamp', stamp)
    redis.call('EXPIRE', KEYS[1], ttl)
    return { allowed, tokens, wait }
`)

// rateKey buckets by client IP, admin identity and route so one noisy
// dashboard tab cannot starve the public booking form.
func rateKey(prefix string, c echo.Context) string {
    ip := c.RealIP()
    if ip == "" {
        ip = "unknown"
    }
    return strings.Join([]string{
        prefix, ip, adminID(c), c.Request().Method + " " + c.Path(),
    }, ":")
}

// NewTokenBucket returns the rate-limit middleware. With limiting
// disabled or no Redis client it collapses to a pass-through.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc {
            return func(c echo.Context) error { return next(c) }
        }
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            key := rateKey(cfg.Prefix, c)
            res, err := bucketScript.Run(c.Request().Context(), rdb,
                []string{key},
                time.Now().UnixMilli(),
                cfg.Capacity,
                cfg.RefillTokens,
                cfg.RefillInterval.Milliseconds(),
                int64(cfg.TTL/time.Second),
            ).Int64Slice()
            if err != nil || len(res) != 3 {
                c.Logger().Warnf("rate limit unavailable for %s: %v", key, err)
                return next(c)
            }
            allowed, remaining, waitMs := res[0] == 1, res[1], res[2]

            c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
            c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

            if !allowed {
                retry := int(math.Ceil(float64(waitMs) / 1000))
                c.Response().Header().Set("Retry-After", strconv.Itoa(retry))
                return c.JSON(http.StatusTooManyRequests, echo.Map{
                    "message":    "Too many requests. Please try again later.",
                    "retryAfter": retry,
                })
            }
            return next(c)
        }
    }
}
