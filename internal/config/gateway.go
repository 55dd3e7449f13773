package config

import (
    "strings"
    "time"
)

// GatewayConfig tells the booking client where the seat gateway lives.
type GatewayConfig struct {
    BaseURL string        // e.g. http://localhost:8080
    Timeout time.Duration // per-request timeout applied by the client
}

// LoadGatewayConfig reads GATEWAY_URL and GATEWAY_TIMEOUT.  A trailing slash
// on the URL is dropped so paths can be appended directly.
func LoadGatewayConfig() GatewayConfig {
    cfg := GatewayConfig{
        BaseURL: strings.TrimRight(envStr("GATEWAY_URL", "http://localhost:8080"), "/"),
        Timeout: envDur("GATEWAY_TIMEOUT", 10*time.Second),
    }
    if cfg.Timeout <= 0 { cfg.Timeout = 10 * time.Second }
    return cfg
}
