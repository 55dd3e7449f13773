package config

import "time"

// RateLimitConfig configures the seat budget placed in front of the
// seat-changing routes.  Tokens are seats: a request for three seats takes
// three tokens from the caller's bucket.
type RateLimitConfig struct {
    Enabled        bool
    Capacity       int           // seats a client may claim in a burst
    RefillTokens   int           // seats returned to the bucket per interval
    RefillInterval time.Duration
    ResetCost      int           // tokens charged for a full reset
    TTL            time.Duration // idle buckets expire after this
    Prefix         string
    Debug          bool
}

// LoadRateLimitConfig reads the RATE_LIMIT_* variables.  Values out of range
// are clamped so the bucket can always admit at least one seat.
func LoadRateLimitConfig() RateLimitConfig {
    def := RateLimitConfig{
        Enabled:        envBool("RATE_LIMIT_ENABLED", true),
        Capacity:       envInt("RATE_LIMIT_CAPACITY", 30),
        RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
        RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
        ResetCost:      envInt("RATE_LIMIT_RESET_COST", 7),
        TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
        Prefix:         envStr("RATE_LIMIT_PREFIX", "rl"),
        Debug:          envBool("RATE_LIMIT_DEBUG", false),
    }
    if b := envInt("RATE_LIMIT_BURST", -1); b > 0 { def.Capacity = b }
    if every := envDur("RATE_LIMIT_REFILL_EVERY", 0); every > 0 {
        def.RefillTokens = 1
        def.RefillInterval = every
    }
    if def.Capacity < 1 { def.Capacity = 1 }
    if def.RefillTokens < 1 { def.RefillTokens = 1 }
    if def.RefillInterval <= 0 { def.RefillInterval = time.Second }
    if def.ResetCost < 1 { def.ResetCost = 1 }
    if def.ResetCost > def.Capacity { def.ResetCost = def.Capacity }
    minTTL := 5 * def.RefillInterval
    if def.TTL < minTTL { def.TTL = minTTL }
    return def
}
