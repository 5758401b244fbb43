package cache

import (
	"context"
	"errors"

	"github.com/goliatone/go-storefront/internal/cacheinfra"
)

var (
	// ErrInvalidResultType is returned when a cached value does not match the requested type.
	ErrInvalidResultType = errors.New("cache: cached value has unexpected type")

	// ErrFetchCancelled is returned to readers whose in-flight fetch was cancelled
	// through CancelInFlight. The fetched value, if any, is never stored.
	ErrFetchCancelled = cacheinfra.ErrFetchCancelled

	// ErrCommitFailed marks an Optimistic mutation the remote side accepted but
	// whose result could not be folded into the cache.
	ErrCommitFailed = errors.New("cache: optimistic commit failed")
)

// KeySerializer builds a cache key from an entity kind + scope arguments.
// It is responsible for producing stable keys across calls.
type KeySerializer interface {
	SerializeKey(method string, args ...any) string
}

// FetchFn is the function signature CacheService expects when fetching from the source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// UpdateFn receives the current cached value (found reports whether one exists)
// and returns the value to store. Returning write=false leaves the entry untouched.
type UpdateFn = cacheinfra.UpdateFn

// EventKind describes what happened to a cache entry.
type EventKind = cacheinfra.EventKind

const (
	// EventUpdated is emitted after a value was written (fetch commit, Set or Update).
	EventUpdated = cacheinfra.EventUpdated
	// EventInvalidated is emitted after an entry was marked stale.
	EventInvalidated = cacheinfra.EventInvalidated
)

// Event is delivered to subscribers after the change has been committed.
type Event = cacheinfra.Event

// Listener receives cache events. Listeners run synchronously after the write
// completes and must not block.
type Listener = cacheinfra.Listener

// Observer receives hit, miss, invalidation and cancellation signals, typically for metrics.
type Observer = cacheinfra.Observer

// CacheService is the process-wide keyed store the query layer reconciles into.
// Implementations serialize every write so a reconciliation step always observes
// the latest committed value.
type CacheService interface {
	// GetOrFetch returns the cached value for key or runs fetchFn and stores the result.
	GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error)
	// Get returns the cached value without fetching.
	Get(ctx context.Context, key string) (any, bool)
	// Set writes a value directly (direct patch).
	Set(ctx context.Context, key string, value any) error
	// Update performs an atomic read-modify-write of a single entry.
	Update(ctx context.Context, key string, fn UpdateFn) error
	// Delete invalidates a single entry; the next read refetches.
	Delete(ctx context.Context, key string) error
	// DeleteByPrefix invalidates every entry related to prefix.
	DeleteByPrefix(ctx context.Context, prefix string) error
	// InvalidateKeys invalidates each of the given keys.
	InvalidateKeys(ctx context.Context, keys []string) error
	// CancelInFlight aborts fetches running for key so they cannot overwrite later writes.
	CancelInFlight(ctx context.Context, key string) error
	// Subscribe registers a listener for keys related to prefix. An empty prefix matches every key.
	Subscribe(prefix string, listener Listener) (unsubscribe func())
}

// GetOrFetch is a type-safe wrapper function that provides generic support for CacheService.
func GetOrFetch[T any](ctx context.Context, service CacheService, key string, fetchFn FetchFn[T]) (T, error) {
	var zero T
	result, err := service.GetOrFetch(ctx, key, fetchFn)
	if err != nil {
		return zero, err
	}
	return cast[T](result)
}

// GetData returns the typed cached value for key without triggering a fetch.
func GetData[T any](ctx context.Context, service CacheService, key string) (T, bool, error) {
	var zero T
	result, ok := service.Get(ctx, key)
	if !ok {
		return zero, false, nil
	}
	value, err := cast[T](result)
	if err != nil {
		return zero, false, err
	}
	return value, true, nil
}

// UpdateData applies fn to the cached value for key, only when one exists.
// fn must return a new value rather than mutating current in place.
func UpdateData[T any](ctx context.Context, service CacheService, key string, fn func(current T) T) error {
	var castErr error
	err := service.Update(ctx, key, func(current any, found bool) (any, bool) {
		if !found {
			return nil, false
		}
		typed, err := cast[T](current)
		if err != nil {
			castErr = err
			return nil, false
		}
		return fn(typed), true
	})
	if err != nil {
		return err
	}
	return castErr
}

func cast[T any](result any) (T, error) {
	var zero T
	if result == nil {
		return zero, nil
	}
	typed, ok := result.(T)
	if !ok {
		return zero, ErrInvalidResultType
	}
	return typed, nil
}
