// Package rating resolves a player's skill rating from an external source,
// falling back to Default when the player is unknown or the lookup fails.
package rating

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Default is used for any player whose rating cannot be determined.
const Default = 1400

// Source looks up a rating. ok=false means the player has no rating.
type Source interface {
	Lookup(ctx context.Context, key string) (rating int, ok bool, err error)
}

type SourceFunc func(ctx context.Context, key string) (int, bool, error)

func (f SourceFunc) Lookup(ctx context.Context, key string) (int, bool, error) { return f(ctx, key) }

// Namer is implemented by sources that also know a player's in-game name.
type Namer interface {
	RiotID(ctx context.Context, key string) (string, error)
}

// Static is a fixed rating table, mostly for tests and offline runs.
type Static map[string]int

func (s Static) Lookup(_ context.Context, key string) (int, bool, error) {
	r, ok := s[key]
	return r, ok, nil
}

type Resolver struct {
	source  Source
	logger  *zap.Logger
	timeout time.Duration

	mu       sync.Mutex
	cache    map[string]int
	names    map[string]string
	inflight singleflight.Group
}

// NewResolver wraps source. A nil source resolves everyone to Default.
func NewResolver(source Source, logger *zap.Logger, timeout time.Duration) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		source:  source,
		logger:  logger,
		timeout: timeout,
		cache:   make(map[string]int),
		names:   make(map[string]string),
	}
}

// Resolve never fails: lookup errors are logged and the default is returned uncached
// so a later call can retry. Concurrent calls for the same key share one lookup.
func (r *Resolver) Resolve(ctx context.Context, key string) int {
	if v, ok := r.Cached(key); ok {
		return v
	}
	v, _, _ := r.inflight.Do(key, func() (any, error) {
		return r.lookup(ctx, key), nil
	})
	return v.(int)
}

func (r *Resolver) lookup(ctx context.Context, key string) int {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	v, known, err := r.source.Lookup(ctx, key)
	if err != nil {
		r.logger.Warn("rating lookup failed, using default",
			zap.String("player", key),
			zap.Int("default", Default),
			zap.Error(err))
		return Default
	}
	if !known {
		v = Default
	}

	var name string
	if n, ok := r.source.(Namer); ok && known {
		if name, err = n.RiotID(ctx, key); err != nil {
			r.logger.Debug("riot id lookup failed", zap.String("player", key), zap.Error(err))
		}
	}

	r.mu.Lock()
	r.cache[key] = v
	if name != "" {
		r.names[key] = name
	}
	r.mu.Unlock()
	r.logger.Debug("rating resolved", zap.String("player", key), zap.Int("rating", v), zap.Bool("known", known))
	return v
}

// ResolveAll looks up several players concurrently.
func (r *Resolver) ResolveAll(ctx context.Context, keys []string) map[string]int {
	out := make([]int, len(keys))
	var g errgroup.Group
	g.SetLimit(4)
	for i, key := range keys {
		g.Go(func() error {
			out[i] = r.Resolve(ctx, key)
			return nil
		})
	}
	_ = g.Wait()

	m := make(map[string]int, len(keys))
	for i, key := range keys {
		m[key] = out[i]
	}
	return m
}

// Cached reports a rating without triggering a lookup. Without a source every
// player is known at Default.
func (r *Resolver) Cached(key string) (int, bool) {
	if r.source == nil {
		return Default, true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.cache[key]
	return v, ok
}

// RiotID returns the in-game name found by the last lookup, if the source provides one.
func (r *Resolver) RiotID(key string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name, ok := r.names[key]
	return name, ok
}

// Forget drops a cached rating, e.g. after an account is relinked.
func (r *Resolver) Forget(key string) {
	r.mu.Lock()
	delete(r.cache, key)
	delete(r.names, key)
	r.mu.Unlock()
}
