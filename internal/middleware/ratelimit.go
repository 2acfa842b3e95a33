package middleware

import (
    "context"
    "errors"
    "log/slog"
    "math"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/condominio-auth/internal/config"
)

// tokenBucket refills `refill` tokens every `interval_ms` up to `capacity`
// and takes one token per call.  State lives in a hash per key so that every
// server instance shares the same bucket.
var tokenBucket = redis.NewScript(`
    local key = KEYS[1]
    local now_ms = tonumber(ARGV[1])
    local capacity = tonumber(ARGV[2])
    local refill = tonumber(ARGV[3])
    local interval_ms = tonumber(ARGV[4])
    local ttl_seconds = tonumber(ARGV[5])

    local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
    local tokens = tonumber(state[1])
    local last_refill = tonumber(state[2])
    if tokens == nil or last_refill == nil then
        tokens = capacity
        last_refill = now_ms
    end

    if interval_ms > 0 and refill > 0 then
        local intervals = math.floor(math.max(0, now_ms - last_refill) / interval_ms)
        if intervals > 0 then
            tokens = math.min(capacity, tokens + intervals * refill)
            last_refill = last_refill + intervals * interval_ms
        end
    end

    local allowed = 0
    local retry_ms = 0
    if tokens > 0 then
        allowed = 1
        tokens = tokens - 1
    else
        retry_ms = math.max(0, interval_ms - (now_ms - last_refill))
    end

    redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
    redis.call('EXPIRE', key, ttl_seconds)
    return { allowed, tokens, retry_ms }
`)

var errUnexpectedReply = errors.New("unexpected token bucket reply")

// bucketDecision is the parsed reply of the token bucket script.
type bucketDecision struct {
    Allowed   bool
    Remaining int64
    RetryMs   int64
}

func parseDecision(v interface{}) (bucketDecision, bool) {
    arr, ok := v.([]interface{})
    if !ok || len(arr) != 3 {
        return bucketDecision{}, false
    }
    return bucketDecision{
        Allowed:   asInt64(arr[0]) == 1,
        Remaining: asInt64(arr[1]),
        RetryMs:   asInt64(arr[2]),
    }, true
}

// RateLimit returns a Redis backed token bucket limiter.  With rate limiting
// disabled or no Redis client it is a no-op, and a Redis failure lets the
// request through: the limiter protects bcrypt, it is not an auth control.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            key := rateKey(cfg, c)
            d, err := takeToken(c.Request().Context(), rdb, cfg, key)
            if err != nil {
                slog.Warn("rate limit check failed", slog.String("key", key), slog.Any("err", err))
                return next(c)
            }

            h := c.Response().Header()
            h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
            h.Set("X-RateLimit-Remaining", strconv.FormatInt(d.Remaining, 10))
            if cfg.Debug {
                h.Set("X-RateLimit-Key", key)
            }
            if d.Allowed {
                return next(c)
            }

            secs := int(math.Ceil(float64(d.RetryMs) / 1000.0))
            h.Set("Retry-After", strconv.Itoa(secs))
            slog.Info("rate limited", slog.String("key", key), slog.Int("retry_after", secs))
            return c.JSON(http.StatusTooManyRequests, echo.Map{
                "error":       "too_many_requests",
                "detail":      "rate limit exceeded",
                "retry_after": secs,
            })
        }
    }
}

func takeToken(ctx context.Context, rdb *redis.Client, cfg config.RateLimitConfig, key string) (bucketDecision, error) {
    v, err := tokenBucket.Run(ctx, rdb, []string{key},
        time.Now().UnixMilli(),
        cfg.Capacity,
        cfg.RefillTokens,
        cfg.RefillInterval.Milliseconds(),
        int64(cfg.TTL/time.Second),
    ).Result()
    if err != nil {
        return bucketDecision{}, err
    }
    d, ok := parseDecision(v)
    if !ok {
        return bucketDecision{}, errUnexpectedReply
    }
    return d, nil
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

// rateKey builds the bucket key for the configured strategy.  Login and
// refresh are anonymous, so the user component is usually "guest".
func rateKey(cfg config.RateLimitConfig, c echo.Context) string {
    ip := c.RealIP()
    if ip == "" {
        ip = "unknown"
    }
    uid := userID(c)
    route := c.Request().Method + " " + c.Path()

    parts := []string{cfg.Prefix}
    switch strings.ToLower(cfg.KeyStrategy) {
    case "ip":
        parts = append(parts, "ip", ip)
    case "user":
        parts = append(parts, "user", uid)
    case "route":
        parts = append(parts, "route", route)
    case "ip_user":
        parts = append(parts, "ip", ip, "user", uid)
    case "ip_route":
        parts = append(parts, "ip", ip, "route", route)
    case "user_route":
        parts = append(parts, "user", uid, "route", route)
    default:
        parts = append(parts, "ip", ip, "user", uid, "route", route)
    }
    return strings.Join(parts, ":")
}
