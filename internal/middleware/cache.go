package middleware

// cache.go holds a Redis-backed response cache for the public GET
// endpoints that the booking calendar hammers: venue availability,
// unavailable dates, stall occupancy and the published news list. Only
// 200 responses are stored; anything else is served straight through.

import (
    "bytes"
    "context"
    "crypto/sha256"
    "encoding/json"
    "fmt"
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/sahasuyana/booking-api/internal/config"
)

// cachedResponse is the envelope stored in Redis. The body is kept as
// produced so cached and fresh responses are byte-identical.
type cachedResponse struct {
    Status      int    `json:"status"`
    ContentType string `json:"contentType"`
    Body        []byte `json:"body"`
}

// teeWriter forwards writes to the client while keeping a copy for the
// cache, up to limit bytes. Oversized responses set overflow and are
// not stored.
type teeWriter struct {
    http.ResponseWriter
    status   int
    buf      bytes.Buffer
    limit    int
    overflow bool
}

func (w *teeWriter) WriteHeader(code int) {
    w.status = code
    w.ResponseWriter.WriteHeader(code)
}

func (w *teeWriter) Write(b []byte) (int, error) {
    if !w.overflow {
        if w.buf.Len()+len(b) > w.limit {
            w.overflow = true
        } else {
            w.buf.Write(b)
        }
    }
    return w.ResponseWriter.Write(b)
}

// cacheKey hashes the route plus raw query so keys stay short and free
// of characters Redis tooling chokes on.
func cacheKey(prefix string, c echo.Context) string {
    sum := sha256.Sum256([]byte(c.Path() + "?" + c.Request().URL.RawQuery))
    return fmt.Sprintf("%s:%x", prefix, sum[:16])
}

// NewRedisCache returns the cache middleware. With caching disabled or
// no Redis client it collapses to a pass-through.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc {
            return func(c echo.Context) error { return next(c) }
        }
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if c.Request().Method != http.MethodGet {
                return next(c)
            }
            key := cacheKey(cfg.Prefix, c)

            if raw, err := rdb.Get(c.Request().Context(), key).Bytes(); err == nil {
                var cached cachedResponse
                if json.Unmarshal(raw, &cached) == nil && cached.Status != 0 {
                    h := c.Response().Header()
                    if cached.ContentType != "" {
                        h.Set(echo.HeaderContentType, cached.ContentType)
                    }
                    h.Set("X-Cache", "HIT")
                    c.Response().WriteHeader(cached.Status)
                    _, werr := c.Response().Write(cached.Body)
                    return werr
                }
            }

            tee := &teeWriter{
                ResponseWriter: c.Response().Writer,
                status:         http.StatusOK,
                limit:          cfg.MaxBodyBytes,
            }
            c.Response().Writer = tee
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }

            if tee.status == http.StatusOK && !tee.overflow {
                raw, err := json.Marshal(cachedResponse{
                    Status:      tee.status,
                    ContentType: c.Response().Header().Get(echo.HeaderContentType),
                    Body:        tee.buf.Bytes(),
                })
                if err == nil {
                    // The store may finish after the request; use a
                    // fresh context so a client disconnect cannot
                    // cancel it.
                    _ = rdb.SetEx(context.Background(), key, raw, cfg.TTL).Err()
                }
            }
            return nil
        }
    }
}
