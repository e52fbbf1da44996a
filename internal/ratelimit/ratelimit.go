package ratelimit

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

type LimiterConfig struct {
	RPS   int
	Burst int
}

// RateLimiter is a per-key token bucket kept in Redis so several app
// instances share one budget.
type RateLimiter struct {
	Redis  *redis.Client
	Prefix string
	Config LimiterConfig
}

func New(client *redis.Client, prefix string, cfg LimiterConfig) *RateLimiter {
	if cfg.RPS <= 0 {
		cfg.RPS = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = cfg.RPS * 2
	}
	return &RateLimiter{Redis: client, Prefix: prefix, Config: cfg}
}

// KEYS[1] = key
// ARGV[1] = max_tokens (burst)
// ARGV[2] = refill_rate (tokens per second)
// ARGV[3] = now (ms)
// Returns 1 if allowed, 0 if not.
var tokenBucket = redis.NewScript(`
local tokens_key = KEYS[1]
local max_tokens = tonumber(ARGV[1])
local refill_rate = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local bucket = redis.call('HMGET', tokens_key, 'tokens', 'last')
local tokens = tonumber(bucket[1]) or max_tokens
local last = tonumber(bucket[2]) or now
local delta = math.max(0, now - last) / 1000
local refill = math.floor(delta * refill_rate)
tokens = math.min(max_tokens, tokens + refill)
if refill > 0 then
  last = now
end
local allowed = 0
if tokens > 0 then
  tokens = tokens - 1
  allowed = 1
end
redis.call('HMSET', tokens_key, 'tokens', tokens, 'last', last)
redis.call('EXPIRE', tokens_key, math.max(2, math.ceil(max_tokens / refill_rate)))
return allowed
`)

// Middleware rejects requests over budget with 429. Redis failures let the
// request through so an outage of the limiter never blocks weather lookups.
func (rl *RateLimiter) Middleware(keyFunc func(r *http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := rl.Prefix + ":" + keyFunc(r)
			allowed, err := rl.Allow(r.Context(), key)
			if err != nil {
				slog.Warn("rate limiter unavailable, allowing request", "key", key, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				w.Header().Set("Retry-After", "1")
				writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := time.Now().UnixMilli()
	res, err := tokenBucket.Run(ctx, rl.Redis, []string{key}, rl.Config.Burst, rl.Config.RPS, now).Int64()
	if err != nil {
		return false, err
	}
	slog.Debug("token bucket", "key", key, "allowed", res, "max", rl.Config.Burst, "rps", rl.Config.RPS)
	return res == 1, nil
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// KeyByIP keys by the client address. Run after chi's RealIP middleware so
// proxies are accounted for.
func KeyByIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
