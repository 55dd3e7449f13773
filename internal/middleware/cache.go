package middleware

import (
    "bytes"
    "context"
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/seat-booking/internal/config"
)

// The seat listing is cached under <prefix>:seats:<generation>.  Purge bumps
// <prefix>:gen, so a listing read from the database before a booking
// committed is written under a generation nobody asks for any more.

func generationKey(cfg config.CacheConfig) string { return cfg.Prefix + ":gen" }

func listingKey(cfg config.CacheConfig, gen int64) string {
    return cfg.Prefix + ":seats:" + strconv.FormatInt(gen, 10)
}

// currentGeneration returns the generation counter; zero before the first purge.
func currentGeneration(ctx context.Context, cfg config.CacheConfig, rdb *redis.Client) (int64, error) {
    gen, err := rdb.Get(ctx, generationKey(cfg)).Int64()
    if errors.Is(err, redis.Nil) {
        return 0, nil
    }
    return gen, err
}

// listingWriter tees the listing body into buf until it passes limit.
type listingWriter struct {
    http.ResponseWriter
    status   int
    buf      bytes.Buffer
    limit    int
    overflow bool
}

func (w *listingWriter) WriteHeader(code int) { w.status = code; w.ResponseWriter.WriteHeader(code) }

func (w *listingWriter) Write(b []byte) (int, error) {
    if !w.overflow {
        if w.limit > 0 && w.buf.Len()+len(b) > w.limit {
            w.overflow = true
            w.buf.Reset()
        } else {
            w.buf.Write(b)
        }
    }
    return w.ResponseWriter.Write(b)
}

// NewSeatListCache serves GET /v1/seats from Redis.  Only the JSON body of a
// 200 response is stored; a hit is written fresh with c.JSONBlob so
// per-request headers such as X-Request-Id are never replayed.  Redis
// errors bypass the cache.
func NewSeatListCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if c.Request().Method != http.MethodGet {
                return next(c)
            }
            ctx := c.Request().Context()
            gen, err := currentGeneration(ctx, cfg, rdb)
            if err != nil {
                c.Response().Header().Set("X-Cache", "BYPASS")
                return next(c)
            }
            key := listingKey(cfg, gen)

            if body, err := rdb.Get(ctx, key).Bytes(); err == nil {
                c.Response().Header().Set("X-Cache", "HIT")
                return c.JSONBlob(http.StatusOK, body)
            }

            w := &listingWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
            c.Response().Writer = w
            defer func() { c.Response().Writer = w.ResponseWriter }()
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }
            if w.status == http.StatusOK && !w.overflow && w.buf.Len() > 0 {
                if err := rdb.Set(context.Background(), key, w.buf.Bytes(), cfg.TTL).Err(); err != nil {
                    c.Logger().Warnf("cache seat listing: %v", err)
                }
            }
            return nil
        }
    }
}

// CachePurger invalidates the cached seat listing after a booking or reset.
type CachePurger struct {
    cfg config.CacheConfig
    rdb *redis.Client
}

// NewCachePurger returns a purger; it is a no-op when caching is disabled
// or rdb is nil.
func NewCachePurger(cfg config.CacheConfig, rdb *redis.Client) *CachePurger {
    if !cfg.Enabled {
        rdb = nil
    }
    return &CachePurger{cfg: cfg, rdb: rdb}
}

// Purge moves readers to a new generation, then drops the stored listings.
func (p *CachePurger) Purge(ctx context.Context) error {
    if p == nil || p.rdb == nil {
        return nil
    }
    if err := p.rdb.Incr(ctx, generationKey(p.cfg)).Err(); err != nil {
        return err
    }
    var cursor uint64
    for {
        keys, next, err := p.rdb.Scan(ctx, cursor, p.cfg.Prefix+":seats:*", 100).Result()
        if err != nil {
            return err
        }
        if len(keys) > 0 {
            if err := p.rdb.Del(ctx, keys...).Err(); err != nil {
                return err
            }
        }
        cursor = next
        if cursor == 0 {
            return nil
        }
    }
}
