package middleware

import (
    "bytes"
    "encoding/json"
    "io"
    "math"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/seat-booking/internal/config"
    "github.com/iliyamo/seat-booking/internal/seating"
)

// seatBucket takes ARGV[6] tokens from the bucket at KEYS[1] when it holds
// that many, refilling first.  Returns {allowed, remaining, retry_after_ms}.
var seatBucket = redis.NewScript(`
    local key = KEYS[1]
    local now_ms = tonumber(ARGV[1])
    local capacity = tonumber(ARGV[2])
    local refill = tonumber(ARGV[3])
    local interval_ms = tonumber(ARGV[4])
    local ttl = tonumber(ARGV[5])
    local cost = tonumber(ARGV[6])

    local state = redis.call('HMGET', key, 'seats', 'at')
    local seats = tonumber(state[1])
    local at = tonumber(state[2])
    if seats == nil or at == nil then
        seats = capacity
        at = now_ms
    end

    if interval_ms > 0 then
        local ticks = math.floor(math.max(0, now_ms - at) / interval_ms)
        if ticks > 0 then
            seats = math.min(capacity, seats + ticks * refill)
            at = at + ticks * interval_ms
        end
    end

    local allowed = 0
    local retry_ms = 0
    if seats >= cost then
        allowed = 1
        seats = seats - cost
    else
        local need = math.ceil((cost - seats) / refill)
        retry_ms = math.max(0, need * interval_ms - (now_ms - at))
    end

    redis.call('HSET', key, 'seats', seats, 'at', at)
    redis.call('EXPIRE', key, ttl)
    return { allowed, seats, retry_ms }
`)

// maxCostBody bounds how much of a request body is read to price it.
const maxCostBody = 4 << 10

// NewSeatLimiter rations seats per client.  Each request is charged the
// number of seats it asks for (see seatCost) from a token bucket kept in
// Redis, so a client may book Capacity seats in a burst and then
// RefillTokens seats per RefillInterval.  Redis errors let the request
// through.
func NewSeatLimiter(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            key := bucketKey(cfg, c)
            cost := seatCost(cfg, c)

            res, err := seatBucket.Run(c.Request().Context(), rdb, []string{key},
                time.Now().UnixMilli(),
                cfg.Capacity,
                cfg.RefillTokens,
                cfg.RefillInterval.Milliseconds(),
                int64(cfg.TTL/time.Second),
                cost,
            ).Int64Slice()
            if err != nil || len(res) != 3 {
                if cfg.Debug {
                    c.Logger().Warnf("[ratelimit] key=%s: %v %v", key, res, err)
                }
                return next(c)
            }

            h := c.Response().Header()
            h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
            h.Set("X-RateLimit-Remaining", strconv.FormatInt(res[1], 10))
            h.Set("X-RateLimit-Cost", strconv.Itoa(cost))

            if res[0] != 1 {
                secs := int(math.Ceil(float64(res[2]) / 1000.0))
                h.Set("Retry-After", strconv.Itoa(secs))
                if cfg.Debug {
                    c.Logger().Infof("[ratelimit] block key=%s cost=%d remaining=%d", key, cost, res[1])
                }
                return c.JSON(http.StatusTooManyRequests, echo.Map{
                    "error":       "seat request limit exceeded",
                    "seats":       cost,
                    "remaining":   res[1],
                    "retry_after": secs,
                })
            }
            return next(c)
        }
    }
}

// bucketKey is one bucket per client address, shared by every seat route.
func bucketKey(cfg config.RateLimitConfig, c echo.Context) string {
    ip := c.RealIP()
    if ip == "" { ip = "unknown" }
    return cfg.Prefix + ":seats:" + ip
}

// seatCost prices a request in seats.  A reset costs ResetCost; a booking
// costs the length of "seats", or "count" for a server-side allocation,
// clamped to [1, seating.MaxPerRequest] since the handler rejects larger
// requests anyway.  Anything else costs one seat.  The body is restored
// for the handler.
func seatCost(cfg config.RateLimitConfig, c echo.Context) int {
    if strings.HasSuffix(c.Path(), "/reset") {
        return cfg.ResetCost
    }
    req := c.Request()
    if req.Body == nil {
        return 1
    }
    orig := req.Body
    raw, _ := io.ReadAll(io.LimitReader(orig, maxCostBody))
    req.Body = struct {
        io.Reader
        io.Closer
    }{io.MultiReader(bytes.NewReader(raw), orig), orig}

    var body struct {
        Seats []int `json:"seats"`
        Count *int  `json:"count"`
    }
    if json.Unmarshal(raw, &body) != nil {
        return 1 // malformed or oversized; the handler answers 400
    }
    switch {
    case body.Seats != nil:
        return clampCost(len(body.Seats))
    case body.Count != nil:
        return clampCost(*body.Count)
    }
    return 1
}

func clampCost(n int) int {
    if n < 1 { return 1 }
    if n > seating.MaxPerRequest { return seating.MaxPerRequest }
    return n
}
