package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"projectdesk/internal/domain"
	"projectdesk/internal/utils"
)

// LoginGuard counts failed logins per e-mail in Redis. A nil Client disables it.
type LoginGuard struct {
	Client      *redis.Client
	MaxAttempts int
	Window      time.Duration
	RequestID   string
}

func (g LoginGuard) key(email string) string {
	return "login:failures:" + strings.ToLower(strings.TrimSpace(email))
}

func (g LoginGuard) enabled() bool {
	return g.Client != nil && g.MaxAttempts > 0
}

// Check fails with ErrTooManyAttempts while the e-mail is locked. Redis outages fail open.
func (g LoginGuard) Check(ctx context.Context, email string) error {
	if !g.enabled() {
		return nil
	}
	n, err := g.Client.Get(ctx, g.key(email)).Int()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		utils.LogFailure(g.RequestID, "auth", "login_guard_check", err)
		return nil
	}
	if n >= g.MaxAttempts {
		return domain.ValidationError{Msg: "too many failed login attempts, try again later", Err: domain.ErrTooManyAttempts}
	}
	return nil
}

// Fail records one failed attempt. The window starts at the first failure; EXPIRE NX
// runs on every failure so a counter never outlives a lost expiry.
func (g LoginGuard) Fail(ctx context.Context, email string) {
	if !g.enabled() {
		return
	}
	key := g.key(email)
	var incr *redis.IntCmd
	_, err := g.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, g.Window)
		return nil
	})
	if err != nil {
		utils.LogFailure(g.RequestID, "auth", "login_guard_fail", err)
		return
	}
	if incr.Val() >= int64(g.MaxAttempts) {
		utils.LogEvent(g.RequestID, "auth", "login_locked", "failed attempts reached limit")
	}
}

func (g LoginGuard) Reset(ctx context.Context, email string) {
	if !g.enabled() {
		return
	}
	if err := g.Client.Del(ctx, g.key(email)).Err(); err != nil {
		utils.LogFailure(g.RequestID, "auth", "login_guard_reset", err)
	}
}
