// Package sessions keeps one initialized FileStore per access token so that
// the site lookup runs once per token instead of once per request.
package sessions

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrijs2005/gestiongasto/internal/logging"
	"github.com/dmitrijs2005/gestiongasto/internal/server/auth"
	"github.com/dmitrijs2005/gestiongasto/internal/server/services"
)

// Factory builds and initializes a store for a token.
type Factory func(ctx context.Context, token string) (services.FileStore, error)

// DefaultTTL bounds sessions for tokens without a readable expiry.
const DefaultTTL = 30 * time.Minute

// DefaultInitTimeout bounds a shared session start. The start runs detached
// from the request that triggered it, since other callers may be waiting on it.
const DefaultInitTimeout = 30 * time.Second

type entry struct {
	store   services.FileStore
	expires time.Time
}

type Registry struct {
	mu      sync.Mutex
	entries map[string]entry
	group   singleflight.Group

	factory     Factory
	ttl         time.Duration
	initTimeout time.Duration
	now         func() time.Time
	logger      logging.Logger
}

func NewRegistry(factory Factory, ttl time.Duration, l logging.Logger) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Registry{
		entries:     map[string]entry{},
		factory:     factory,
		ttl:         ttl,
		initTimeout: DefaultInitTimeout,
		now:         time.Now,
		logger:      l.With("module", "sessions"),
	}
}

// tokens are never used as map keys or logged as is.
func keyOf(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Get returns the store for token, creating it on first use. Expired tokens
// fail with common.ErrTokenExpired without any remote call.
func (r *Registry) Get(ctx context.Context, token string) (services.FileStore, error) {
	now := r.now()
	if err := auth.CheckNotExpired(token, now); err != nil {
		return nil, err
	}

	key := keyOf(token)

	r.mu.Lock()
	r.evictLocked(now)
	e, ok := r.entries[key]
	r.mu.Unlock()
	if ok {
		return e.store, nil
	}

	ch := r.group.DoChan(key, func() (any, error) {
		r.mu.Lock()
		e, ok := r.entries[key]
		r.mu.Unlock()
		if ok {
			return e.store, nil
		}

		initCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.initTimeout)
		defer cancel()

		store, err := r.factory(initCtx, token)
		if err != nil {
			return nil, err
		}

		expires := now.Add(r.ttl)
		if exp, ok := auth.TokenExpiry(token); ok && exp.Before(expires) {
			expires = exp
		}

		r.mu.Lock()
		r.entries[key] = entry{store: store, expires: expires}
		r.mu.Unlock()

		r.logger.Debug(initCtx, "session started", "session", key[:12], "expires", expires)
		return store, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(services.FileStore), nil
	}
}

// Evict drops the session for token, e.g. after Graph rejected it.
func (r *Registry) Evict(token string) {
	r.mu.Lock()
	delete(r.entries, keyOf(token))
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) evictLocked(now time.Time) {
	for k, e := range r.entries {
		if !now.Before(e.expires) {
			delete(r.entries, k)
		}
	}
}
