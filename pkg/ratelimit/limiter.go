package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/richxcame/giftcard-service/pkg/config"
)

// IdentityType distinguishes authenticated callers from anonymous ones.
type IdentityType int

const (
	IdentityAnonymous IdentityType = iota
	IdentityAuthenticated
)

// Rule is the effective limit applied to a single request.
type Rule struct {
	Limit  int
	Burst  int
	Window time.Duration
}

// Result describes the outcome of a rate limit check.
type Result struct {
	Allowed      bool
	Remaining    int
	RetryAfter   time.Duration
	Limit        int
	Window       time.Duration
	ResetAfter   time.Duration
	IdentityKey  string
	EndpointKey  string
	IdentityType IdentityType
}

// Token bucket evaluated atomically in Redis. Returns
// {allowed, remaining, retry_after_seconds, reset_after_seconds}.
const tokenBucketScript = `
local tokens_key = KEYS[1]
local timestamp_key = KEYS[2]

local rate = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local requested = tonumber(ARGV[4])

local fill_time = capacity / rate
local ttl = math.floor(fill_time * 2)
if ttl < 1 then
	ttl = 1
end

local last_tokens = tonumber(redis.call("get", tokens_key))
if last_tokens == nil then
	last_tokens = capacity
end

local last_refreshed = tonumber(redis.call("get", timestamp_key))
if last_refreshed == nil then
	last_refreshed = 0
end

local delta = math.max(0, now - last_refreshed)
local filled_tokens = math.min(capacity, last_tokens + (delta * rate))
local allowed = filled_tokens >= requested

local new_tokens = filled_tokens
local retry_after = 0
if allowed then
	new_tokens = filled_tokens - requested
else
	retry_after = (requested - filled_tokens) / rate
end

local reset_after = (capacity - new_tokens) / rate

redis.call("setex", tokens_key, ttl, new_tokens)
redis.call("setex", timestamp_key, ttl, now)

return { allowed and 1 or 0, tostring(new_tokens), tostring(retry_after), tostring(reset_after) }
`

// Limiter enforces per-identity, per-endpoint limits backed by Redis.
type Limiter struct {
	client *redis.Client
	script *redis.Script
	cfg    config.RateLimitConfig
	now    func() time.Time
}

// NewLimiter creates a limiter using the given Redis client and configuration.
func NewLimiter(client *redis.Client, cfg config.RateLimitConfig) *Limiter {
	return &Limiter{
		client: client,
		script: redis.NewScript(tokenBucketScript),
		cfg:    cfg,
		now:    time.Now,
	}
}

// WithNow overrides the clock. Intended for tests.
func (l *Limiter) WithNow(now func() time.Time) {
	l.now = now
}

// RuleFor resolves the effective rule for an endpoint and identity type,
// applying per-endpoint overrides on top of the configured defaults.
func (l *Limiter) RuleFor(endpoint string, identity IdentityType) Rule {
	limit := l.cfg.DefaultLimit
	burst := l.cfg.DefaultBurst
	if identity == IdentityAnonymous {
		limit = l.cfg.AnonymousLimit
		burst = l.cfg.AnonymousBurst
	}
	window := l.cfg.Window()

	if override, ok := l.cfg.EndpointOverrides[endpoint]; ok {
		overrideLimit := override.AuthenticatedLimit
		overrideBurst := override.AuthenticatedBurst
		if identity == IdentityAnonymous {
			overrideLimit = override.AnonymousLimit
			overrideBurst = override.AnonymousBurst
		}
		if overrideLimit > 0 {
			limit = overrideLimit
		}
		if overrideBurst >= 0 {
			burst = overrideBurst
		}
		if override.WindowSeconds > 0 {
			window = time.Duration(override.WindowSeconds) * time.Second
		}
	}

	if burst < 0 {
		burst = 0
	}

	return Rule{Limit: limit, Burst: burst, Window: window}
}

// Allow checks whether the request identified by endpoint and identity may
// proceed under the given rule. A disabled limiter or a non-positive limit
// always allows the request.
func (l *Limiter) Allow(ctx context.Context, endpoint, identity string, rule Rule, identityType IdentityType) (Result, error) {
	result := Result{
		Limit:        rule.Limit,
		Window:       rule.Window,
		IdentityKey:  identity,
		EndpointKey:  endpoint,
		IdentityType: identityType,
	}

	if !l.cfg.Enabled || rule.Limit <= 0 {
		result.Allowed = true
		result.Remaining = rule.Limit
		if result.Remaining < 0 {
			result.Remaining = 0
		}
		return result, nil
	}

	window := rule.Window
	if window <= 0 {
		window = l.cfg.Window()
		result.Window = window
	}

	capacity := rule.Limit + rule.Burst
	rate := float64(rule.Limit) / window.Seconds()
	now := float64(l.now().UnixNano()) / float64(time.Second)

	base := l.cfg.RedisPrefix + ":" + endpoint + ":" + identity
	keys := []string{base + ":tokens", base + ":ts"}
	args := []interface{}{
		formatFloat(rate),
		strconv.Itoa(capacity),
		formatFloat(now),
		"1",
	}

	values, err := l.script.Run(ctx, l.client, keys, args...).Slice()
	if err != nil {
		return result, fmt.Errorf("rate limit script: %w", err)
	}
	if len(values) != 4 {
		return result, fmt.Errorf("rate limit script: unexpected result length %d", len(values))
	}

	result.Allowed = toInt(values[0]) == 1
	result.Remaining = int(toFloat(values[1]))
	result.RetryAfter = time.Duration(toFloat(values[2]) * float64(time.Second))
	result.ResetAfter = time.Duration(toFloat(values[3]) * float64(time.Second))

	return result, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 10, 64)
}

func toInt(v interface{}) int {
	switch value := v.(type) {
	case int64:
		return int(value)
	case int:
		return value
	case float64:
		return int(value)
	case string:
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func toFloat(v interface{}) float64 {
	switch value := v.(type) {
	case float64:
		return value
	case int64:
		return float64(value)
	case int:
		return float64(value)
	case string:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
