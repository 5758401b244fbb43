package cacheinfra

import "errors"

// ErrFetchCancelled is returned to every reader of a fetch that was cancelled
// through CancelInFlight.
var ErrFetchCancelled = errors.New("cache: in-flight fetch cancelled")

// UpdateFn receives the current value and reports the value to write.
type UpdateFn = func(current any, found bool) (next any, write bool)

// EventKind describes what happened to a cache entry.
type EventKind int

const (
	EventUpdated EventKind = iota + 1
	EventInvalidated
)

func (k EventKind) String() string {
	switch k {
	case EventUpdated:
		return "updated"
	case EventInvalidated:
		return "invalidated"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers once a write has been committed.
type Event struct {
	Key  string
	Kind EventKind
}

// Listener receives cache events.
type Listener = func(Event)

// Observer is notified about cache traffic. Implementations must be safe for
// concurrent use.
type Observer interface {
	CacheHit(key string)
	CacheMiss(key string)
	CacheInvalidated(key string)
	FetchCancelled(key string)
}

type nopObserver struct{}

func (nopObserver) CacheHit(string)         {}
func (nopObserver) CacheMiss(string)        {}
func (nopObserver) CacheInvalidated(string) {}
func (nopObserver) FetchCancelled(string)   {}
