package config

import "time"

// CacheConfig configures the Redis copy of the seat listing.  When Enabled
// is false or no Redis client is configured, every GET reads the database.
// Prefix namespaces both the cached listings and the generation counter a
// booking or reset bumps to invalidate them.
type CacheConfig struct {
    Enabled      bool
    TTL          time.Duration
    Prefix       string
    MaxBodyBytes int // listings larger than this are served but not cached
}

// LoadCacheConfig reads the CACHE_* variables.
func LoadCacheConfig() CacheConfig {
    cfg := CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", true),
        TTL:          envDur("CACHE_TTL", 30*time.Second),
        Prefix:       envStr("CACHE_PREFIX", "seatcache"),
        MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 64<<10),
    }
    if cfg.TTL <= 0 { cfg.TTL = 30 * time.Second }
    return cfg
}
