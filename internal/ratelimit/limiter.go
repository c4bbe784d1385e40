// Package ratelimit enforces per-user fixed-window quotas backed by a
// shared counter store.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/animekun/chatd/internal/infrastructure/logging"
)

// Unlimited marks limit/remaining when no store is configured or the
// allow policy kicked in after a store failure.
const Unlimited = -1

// Store is the counter backend. Incr bumps the window counter and
// returns its new value plus the time left in the window;
// implementations set the key's expiry to the window length on first
// write and report the remaining TTL afterwards.
type Store interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int64, ttl time.Duration, err error)
}

// Policy decides what happens when the store is reachable in
// configuration but fails at check time.
type Policy string

const (
	PolicyAllow Policy = "allow"
	PolicyDeny  Policy = "deny"
)

// Config defines limiter behavior.
type Config struct {
	// Max requests per window. Ignored when Store is nil.
	Max int

	// Window length, e.g. 24h.
	Window time.Duration

	// Prefix namespaces counter keys in the shared store.
	Prefix string

	// OnUnavailable selects the failure policy.
	OnUnavailable Policy
}

// Result of one quota check.
type Result struct {
	Success   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// Limiter checks per-user quotas. A nil store disables limiting
// entirely: every check passes with an unlimited quota.
type Limiter struct {
	store  Store
	cfg    Config
	logger *logging.Logger
}

// New creates a limiter. store may be nil.
func New(store Store, cfg Config, logger *logging.Logger) *Limiter {
	if cfg.Prefix == "" {
		cfg.Prefix = "anime-ai-chat"
	}
	if cfg.Window <= 0 {
		cfg.Window = 24 * time.Hour
	}
	if cfg.OnUnavailable == "" {
		cfg.OnUnavailable = PolicyAllow
	}
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Limiter{store: store, cfg: cfg, logger: logger}
}

// Enabled reports whether a counter store is configured.
func (l *Limiter) Enabled() bool {
	return l.store != nil
}

// Check consumes one request from userID's window quota.
func (l *Limiter) Check(ctx context.Context, userID string) Result {
	if l.store == nil {
		return Result{
			Success:   true,
			Limit:     Unlimited,
			Remaining: Unlimited,
			Reset:     time.Now().Add(l.cfg.Window),
		}
	}

	key := fmt.Sprintf("%s:%s", l.cfg.Prefix, userID)
	count, ttl, err := l.store.Incr(ctx, key, l.cfg.Window)
	if err != nil {
		l.logger.Warn("rate limit check failed",
			zap.String("user_id", userID),
			zap.String("policy", string(l.cfg.OnUnavailable)),
			zap.Error(err))
		if l.cfg.OnUnavailable == PolicyDeny {
			return Result{Success: false, Limit: l.cfg.Max, Remaining: 0, Reset: time.Now().Add(l.cfg.Window)}
		}
		return Result{Success: true, Limit: Unlimited, Remaining: Unlimited, Reset: time.Now()}
	}

	remaining := l.cfg.Max - int(count)
	if remaining < 0 {
		remaining = 0
	}
	if ttl <= 0 {
		ttl = l.cfg.Window
	}

	// Reset marks the end of the window that was opened by the first
	// request, not a fresh window per check.
	return Result{
		Success:   count <= int64(l.cfg.Max),
		Limit:     l.cfg.Max,
		Remaining: remaining,
		Reset:     time.Now().Add(ttl),
	}
}
