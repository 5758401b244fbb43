package querycache

import (
	"context"
	"strings"

	"github.com/goliatone/go-storefront/cache"
	"github.com/goliatone/go-storefront/pkg/logger"
)

// Layer is the entity query layer: reads go through the cache, mutations go
// to the backend and are then reconciled into the cache according to Policies.
type Layer struct {
	remote   Remote
	cache    cache.CacheService
	keys     Keys
	policies Policies
	logger   *logger.Logger
}

// Option configures a Layer.
type Option func(*Layer)

// WithPolicies overrides the reconciliation policies. Unset fields keep their defaults.
func WithPolicies(p Policies) Option {
	return func(l *Layer) {
		l.policies = p.withDefaults()
	}
}

func WithLogger(log *logger.Logger) Option {
	return func(l *Layer) {
		if log != nil {
			l.logger = log
		}
	}
}

// New creates a Layer reading from remote and caching into cacheService.
func New(remote Remote, cacheService cache.CacheService, keySerializer cache.KeySerializer, opts ...Option) *Layer {
	l := &Layer{
		remote:   remote,
		cache:    cacheService,
		keys:     NewKeys(keySerializer),
		policies: DefaultPolicies(),
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Keys returns the key builder used by the layer.
func (l *Layer) Keys() Keys {
	return l.keys
}

// Policies returns the effective reconciliation policies.
func (l *Layer) Policies() Policies {
	return l.policies
}

// Subscribe forwards to the cache so callers can re-render when related keys change.
func (l *Layer) Subscribe(prefix string, listener cache.Listener) func() {
	return l.cache.Subscribe(prefix, listener)
}

func requireScope(operation, scope, value string) error {
	if strings.TrimSpace(value) == "" {
		return &MissingScopeError{Operation: operation, Scope: scope}
	}
	return nil
}

func deref[T any](v *T, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	return *v, nil
}

// invalidate marks keys stale. Failures are logged; the mutation already succeeded.
func (l *Layer) invalidate(ctx context.Context, operation string, keys ...string) {
	if err := l.cache.InvalidateKeys(ctx, keys); err != nil {
		l.logger.Warn(l.logger.WithField(ctx, "operation", operation), "cache invalidation failed", err)
		return
	}
	l.logger.Debug(l.logger.WithFields(ctx, map[string]any{"operation": operation, "keys": keys}), "cache invalidated")
}

func (l *Layer) invalidatePrefix(ctx context.Context, operation, prefix string) {
	if err := l.cache.DeleteByPrefix(ctx, prefix); err != nil {
		l.logger.Warn(l.logger.WithField(ctx, "operation", operation), "cache prefix invalidation failed", err)
		return
	}
	l.logger.Debug(l.logger.WithFields(ctx, map[string]any{"operation": operation, "prefix": prefix}), "cache prefix invalidated")
}

// patchCollection applies fn to the cached collection at key, only if cached.
// When the patch cannot be applied the entry is invalidated instead.
func patchCollection[T any](ctx context.Context, l *Layer, operation, key string, fn func([]T) []T) {
	if err := cache.UpdateData(ctx, l.cache, key, fn); err != nil {
		l.logger.Warn(l.logger.WithFields(ctx, map[string]any{"operation": operation, "key": key}), "cache patch failed, invalidating", err)
		_ = l.cache.Delete(ctx, key)
		return
	}
	l.logger.Debug(l.logger.WithFields(ctx, map[string]any{"operation": operation, "key": key}), "cache patched")
}

// patchEntity replaces the cached single entity at key, only if cached.
func patchEntity[T any](ctx context.Context, l *Layer, operation, key string, value T) {
	if err := cache.UpdateData(ctx, l.cache, key, func(T) T { return value }); err != nil {
		l.logger.Warn(l.logger.WithFields(ctx, map[string]any{"operation": operation, "key": key}), "cache patch failed, invalidating", err)
		_ = l.cache.Delete(ctx, key)
	}
}

// The helpers below never modify their input: cached snapshots must stay
// intact so an optimistic rollback restores them exactly.

func prepend[T any](items []T, v T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, v)
	return append(out, items...)
}

func appendCopy[T any](items []T, v T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, items...)
	return append(out, v)
}

func mapWhere[T any](items []T, match func(T) bool, fn func(T) T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		if match(item) {
			item = fn(item)
		}
		out[i] = item
	}
	return out
}

func replaceWhere[T any](items []T, match func(T) bool, v T) []T {
	return mapWhere(items, match, func(T) T { return v })
}

func removeWhere[T any](items []T, match func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if !match(item) {
			out = append(out, item)
		}
	}
	return out
}
