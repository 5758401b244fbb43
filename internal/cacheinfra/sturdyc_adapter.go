package cacheinfra

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/viccon/sturdyc"
	"golang.org/x/sync/singleflight"
)

// KeySeparator delimits the segments of a query key.
const KeySeparator = "::"

// KeyMatches reports whether key equals prefix or is nested under it.
func KeyMatches(key, prefix string) bool {
	if prefix == "" || key == prefix {
		return true
	}
	return strings.HasPrefix(key, prefix+KeySeparator)
}

// Option customizes the sturdyc service.
type Option func(*sturdycService)

// WithObserver registers an observer for hits, misses, invalidations and cancellations.
func WithObserver(o Observer) Option {
	return func(s *sturdycService) {
		if o != nil {
			s.observer = o
		}
	}
}

type subscription struct {
	prefix   string
	listener Listener
}

// Stats is a point in time view of read traffic.
type Stats struct {
	Hits   int64
	Misses int64
}

// sturdycService uses a sturdyc client as storage and layers the reconciliation
// guarantees on top of it:
//
//   - every write (commit, set, update, invalidate) happens under one mutex
//   - concurrent reads of a key share a single fetch
//   - each key carries a generation; a fetch only commits when the generation
//     it started with is still current, so a stale read can never overwrite a
//     later write or invalidation
type sturdycService struct {
	client *sturdyc.Client[any]
	group  singleflight.Group

	mu          sync.Mutex
	generations map[string]uint64
	flights     map[string]map[uint64]context.CancelCauseFunc
	nextFlight  uint64

	subscribers *xsync.MapOf[uint64, subscription]
	nextSub     atomic.Uint64

	hits     *xsync.Counter
	misses   *xsync.Counter
	observer Observer
}

// NewSturdycService validates cfg and creates a sturdyc backed cache service.
func NewSturdycService(cfg Config, opts ...Option) (*sturdycService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	s := &sturdycService{
		client:      client,
		generations: make(map[string]uint64),
		flights:     make(map[string]map[uint64]context.CancelCauseFunc),
		subscribers: xsync.NewMapOf[uint64, subscription](),
		hits:        xsync.NewCounter(),
		misses:      xsync.NewCounter(),
		observer:    nopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// validateFetchFn ensures fetchFn has the signature func(context.Context) (T, error).
func validateFetchFn(fetchFn any) error {
	if fetchFn == nil {
		return &ConfigError{Field: "fetchFn", Message: "cannot be nil"}
	}

	fnType := reflect.TypeOf(fetchFn)
	if fnType.Kind() != reflect.Func {
		return &ConfigError{Field: "fetchFn", Message: "must be a function"}
	}

	if fnType.NumIn() != 1 || fnType.NumOut() != 2 {
		return &ConfigError{Field: "fetchFn", Message: "must have signature func(context.Context) (T, error)"}
	}

	contextType := reflect.TypeOf((*context.Context)(nil)).Elem()
	if !fnType.In(0).Implements(contextType) {
		return &ConfigError{Field: "fetchFn", Message: "first parameter must be context.Context"}
	}

	errorType := reflect.TypeOf((*error)(nil)).Elem()
	if !fnType.Out(1).Implements(errorType) {
		return &ConfigError{Field: "fetchFn", Message: "second return value must be error"}
	}

	return nil
}

// GetOrFetch returns the cached value for key. On a miss the fetch is shared
// with every concurrent reader of the same key. A caller whose ctx ends stops
// waiting but does not abort the shared fetch.
func (s *sturdycService) GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error) {
	if err := validateFetchFn(fetchFn); err != nil {
		return nil, err
	}

	if value, ok := s.client.Get(key); ok {
		s.hits.Inc()
		s.observer.CacheHit(key)
		return value, nil
	}
	s.misses.Inc()
	s.observer.CacheMiss(key)

	detached := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		return s.fetch(detached, key, fetchFn)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

func (s *sturdycService) fetch(ctx context.Context, key string, fetchFn any) (any, error) {
	fetchCtx, cancel := context.WithCancelCause(ctx)

	s.mu.Lock()
	generation := s.generations[key]
	s.nextFlight++
	id := s.nextFlight
	if s.flights[key] == nil {
		s.flights[key] = make(map[uint64]context.CancelCauseFunc)
	}
	s.flights[key][id] = cancel
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.flights[key], id)
		if len(s.flights[key]) == 0 {
			delete(s.flights, key)
		}
		s.mu.Unlock()
		cancel(nil)
	}()

	value, err := callFetchFunctionWithReflection(fetchCtx, fetchFn)
	if errors.Is(context.Cause(fetchCtx), ErrFetchCancelled) {
		return nil, ErrFetchCancelled
	}
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.generations[key] != generation {
		// superseded by a write or invalidation while fetching
		s.mu.Unlock()
		return value, nil
	}
	s.client.Set(key, value)
	s.mu.Unlock()

	s.notify(Event{Key: key, Kind: EventUpdated})
	return value, nil
}

// callFetchFunctionWithReflection calls a pre-validated FetchFn[T].
func callFetchFunctionWithReflection(ctx context.Context, fetchFn any) (any, error) {
	if fn, ok := fetchFn.(func(context.Context) (any, error)); ok {
		return fn(ctx)
	}

	results := reflect.ValueOf(fetchFn).Call([]reflect.Value{reflect.ValueOf(ctx)})

	var result any
	if rv := results[0]; rv.IsValid() && rv.CanInterface() {
		result = rv.Interface()
	}

	var err error
	if ev := results[1]; ev.IsValid() && !ev.IsNil() {
		err = ev.Interface().(error)
	}

	return result, err
}

// Get returns the cached value without fetching.
func (s *sturdycService) Get(ctx context.Context, key string) (any, bool) {
	return s.client.Get(key)
}

// Set stores value under key. Any fetch already running for key will not commit.
func (s *sturdycService) Set(ctx context.Context, key string, value any) error {
	s.mu.Lock()
	s.client.Set(key, value)
	s.generations[key]++
	s.mu.Unlock()

	s.notify(Event{Key: key, Kind: EventUpdated})
	return nil
}

// Update runs fn against the current value while holding the write lock.
func (s *sturdycService) Update(ctx context.Context, key string, fn UpdateFn) error {
	if fn == nil {
		return &ConfigError{Field: "fn", Message: "cannot be nil"}
	}

	s.mu.Lock()
	current, found := s.client.Get(key)
	next, write := fn(current, found)
	if write {
		s.client.Set(key, next)
		s.generations[key]++
	}
	s.mu.Unlock()

	if write {
		s.notify(Event{Key: key, Kind: EventUpdated})
	}
	return nil
}

// Delete invalidates key. The next read refetches.
func (s *sturdycService) Delete(ctx context.Context, key string) error {
	return s.InvalidateKeys(ctx, []string{key})
}

// DeleteByPrefix invalidates every stored or in-flight key related to prefix.
// "products" covers "products::s1" and "products::category::c1" but not "productsx".
func (s *sturdycService) DeleteByPrefix(ctx context.Context, prefix string) error {
	s.mu.Lock()
	seen := make(map[string]struct{})
	var keys []string
	for _, key := range s.client.ScanKeys() {
		if _, dup := seen[key]; !dup && KeyMatches(key, prefix) {
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	for key := range s.flights {
		if _, dup := seen[key]; !dup && KeyMatches(key, prefix) {
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	s.invalidateLocked(keys)
	s.mu.Unlock()

	s.afterInvalidate(keys)
	return nil
}

// InvalidateKeys invalidates each of keys under a single lock acquisition.
func (s *sturdycService) InvalidateKeys(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	s.mu.Lock()
	s.invalidateLocked(keys)
	s.mu.Unlock()

	s.afterInvalidate(keys)
	return nil
}

func (s *sturdycService) invalidateLocked(keys []string) {
	for _, key := range keys {
		s.client.Delete(key)
		s.generations[key]++
		s.group.Forget(key)
	}
}

func (s *sturdycService) afterInvalidate(keys []string) {
	for _, key := range keys {
		s.observer.CacheInvalidated(key)
		s.notify(Event{Key: key, Kind: EventInvalidated})
	}
}

// CancelInFlight aborts every fetch running for key. Readers waiting on those
// fetches receive ErrFetchCancelled and nothing they fetched is stored.
func (s *sturdycService) CancelInFlight(ctx context.Context, key string) error {
	s.mu.Lock()
	flights := s.flights[key]
	for _, cancel := range flights {
		cancel(ErrFetchCancelled)
	}
	cancelled := len(flights) > 0
	if cancelled {
		s.generations[key]++
		s.group.Forget(key)
	}
	s.mu.Unlock()

	if cancelled {
		s.observer.FetchCancelled(key)
	}
	return nil
}

// Subscribe registers listener for keys related to prefix. An empty prefix
// receives every event.
func (s *sturdycService) Subscribe(prefix string, listener Listener) func() {
	if listener == nil {
		return func() {}
	}
	id := s.nextSub.Add(1)
	s.subscribers.Store(id, subscription{prefix: prefix, listener: listener})

	var once sync.Once
	return func() {
		once.Do(func() { s.subscribers.Delete(id) })
	}
}

func (s *sturdycService) notify(event Event) {
	s.subscribers.Range(func(_ uint64, sub subscription) bool {
		if KeyMatches(event.Key, sub.prefix) {
			sub.listener(event)
		}
		return true
	})
}

// Stats reports the hit and miss counters accumulated by GetOrFetch.
func (s *sturdycService) Stats() Stats {
	return Stats{Hits: s.hits.Value(), Misses: s.misses.Value()}
}

// Size returns the number of entries currently stored.
func (s *sturdycService) Size() int {
	return s.client.Size()
}
