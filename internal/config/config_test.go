package config

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

func TestLoadRateLimitConfigDefaults(t *testing.T) {
    cfg := LoadRateLimitConfig()
    assert.True(t, cfg.Enabled)
    assert.Equal(t, 10, cfg.Capacity)
    assert.Equal(t, "ip_route", cfg.KeyStrategy)
    assert.GreaterOrEqual(t, cfg.TTL, 5*cfg.RefillInterval)
}

func TestLoadRateLimitConfigOverrides(t *testing.T) {
    t.Setenv("RATE_LIMIT_BURST", "3")
    t.Setenv("RATE_LIMIT_REFILL_EVERY", "2s")
    t.Setenv("RATE_LIMIT_TTL", "1s")
    t.Setenv("RATE_LIMIT_ENABLED", "off")

    cfg := LoadRateLimitConfig()
    assert.False(t, cfg.Enabled)
    assert.Equal(t, 3, cfg.Capacity)
    assert.Equal(t, 1, cfg.RefillTokens)
    assert.Equal(t, 2*time.Second, cfg.RefillInterval)
    assert.Equal(t, 10*time.Second, cfg.TTL)
}

func TestLoadCacheConfig(t *testing.T) {
    t.Setenv("CACHE_METHODS", "get, head")
    t.Setenv("CACHE_TTL", "nonsense")

    cfg := LoadCacheConfig()
    assert.True(t, cfg.Methods["GET"])
    assert.True(t, cfg.Methods["HEAD"])
    assert.False(t, cfg.Methods["POST"])
    assert.Equal(t, 15*time.Second, cfg.TTL)
}

func TestLoadEventsConfigURLPrecedence(t *testing.T) {
    t.Setenv("AMQP_URL", "amqp://b/")
    assert.Equal(t, "amqp://b/", LoadEventsConfig().URL)

    t.Setenv("RABBITMQ_URL", "amqp://a/")
    cfg := LoadEventsConfig()
    assert.Equal(t, "amqp://a/", cfg.URL)
    assert.Equal(t, "accounts.audit", cfg.Queue)
    assert.False(t, cfg.Enabled)
}

func TestEnvBool(t *testing.T) {
    t.Setenv("X_FLAG", "maybe")
    assert.True(t, envBool("X_FLAG", true))
    t.Setenv("X_FLAG", "NO")
    assert.False(t, envBool("X_FLAG", true))
}

func TestRateLimitConfigNormalized(t *testing.T) {
    cfg := RateLimitConfig{Capacity: -4, RefillTokens: 0, RefillInterval: -time.Second}.normalized()
    assert.Equal(t, 1, cfg.Capacity)
    assert.Equal(t, 1, cfg.RefillTokens)
    assert.Equal(t, time.Second, cfg.RefillInterval)
    assert.Equal(t, 5*time.Second, cfg.TTL)
}

func TestEnvReadersFallBack(t *testing.T) {
    t.Setenv("X_NUM", " 12 ")
    assert.Equal(t, 12, envInt("X_NUM", 3))
    t.Setenv("X_NUM", "twelve")
    assert.Equal(t, 3, envInt("X_NUM", 3))
    t.Setenv("X_DUR", "")
    assert.Equal(t, time.Minute, envDur("X_DUR", time.Minute))
}
