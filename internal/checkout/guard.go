package checkout

import (
	"context"
	"sync"
	"time"
)

// InFlightGuard allows at most one pending submission per cart session.
type InFlightGuard interface {
	Acquire(ctx context.Context, sessionID string) (bool, error)
	Release(ctx context.Context, sessionID string) error
}

type guardStore interface {
	SetNX(context.Context, string, any, time.Duration) (bool, error)
	Del(context.Context, ...string) error
	CheckoutInFlightKey(sessionID string) string
}

// RedisGuard marks a session busy with a TTL'd key so a crashed submission
// frees the session on its own.
type RedisGuard struct {
	store guardStore
	ttl   time.Duration
}

func NewRedisGuard(store guardStore, ttl time.Duration) *RedisGuard {
	return &RedisGuard{store: store, ttl: ttl}
}

func (g *RedisGuard) Acquire(ctx context.Context, sessionID string) (bool, error) {
	return g.store.SetNX(ctx, g.store.CheckoutInFlightKey(sessionID), time.Now().UTC().Format(time.RFC3339Nano), g.ttl)
}

func (g *RedisGuard) Release(ctx context.Context, sessionID string) error {
	return g.store.Del(ctx, g.store.CheckoutInFlightKey(sessionID))
}

// MemoryGuard is the single-process guard used in demo mode.
type MemoryGuard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{active: map[string]struct{}{}}
}

func (g *MemoryGuard) Acquire(_ context.Context, sessionID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.active[sessionID]; busy {
		return false, nil
	}
	g.active[sessionID] = struct{}{}
	return true, nil
}

func (g *MemoryGuard) Release(_ context.Context, sessionID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.active, sessionID)
	return nil
}
