package cache

import (
	"context"
	"fmt"
)

// OptimisticUpdate describes a mutation whose expected effect is written to the
// cache before the remote call confirms it.
type OptimisticUpdate[T, R any] struct {
	// Key addresses the cached collection the mutation affects.
	Key string
	// Apply returns the optimistic value. It must not mutate current.
	Apply func(current T) T
	// Mutate performs the remote call.
	Mutate func(ctx context.Context) (R, error)
	// Commit folds the authoritative result into the cached value. Optional.
	Commit func(current T, result R) T
}

// Optimistic runs the snapshot, apply, commit-or-revert protocol:
//
//  1. in-flight reads for Key are cancelled so they cannot overwrite the optimistic value
//  2. the current value is captured as a snapshot and Apply is written in the
//     same atomic update
//  3. on Mutate failure the snapshot is restored as-is
//  4. on success Commit replaces the optimistic value with the server's answer;
//     if that write fails the result is returned with an ErrCommitFailed error
//
// When nothing is cached for Key only Mutate runs.
func Optimistic[T, R any](ctx context.Context, service CacheService, update OptimisticUpdate[T, R]) (R, error) {
	var zero R

	if err := service.CancelInFlight(ctx, update.Key); err != nil {
		return zero, err
	}

	// snapshot and apply share one write
	var (
		snapshot T
		found    bool
		castErr  error
	)
	err := service.Update(ctx, update.Key, func(current any, ok bool) (any, bool) {
		if !ok {
			return nil, false
		}
		typed, err := cast[T](current)
		if err != nil {
			castErr = err
			return nil, false
		}
		snapshot, found = typed, true
		if update.Apply == nil {
			return nil, false
		}
		return update.Apply(typed), true
	})
	if err != nil {
		return zero, err
	}
	if castErr != nil {
		return zero, castErr
	}

	result, err := update.Mutate(ctx)
	if err != nil {
		if found {
			_ = service.Set(ctx, update.Key, snapshot)
		}
		return zero, err
	}

	if update.Commit != nil {
		if cerr := UpdateData(ctx, service, update.Key, func(current T) T {
			return update.Commit(current, result)
		}); cerr != nil {
			return result, fmt.Errorf("%w: %w", ErrCommitFailed, cerr)
		}
	}

	return result, nil
}
