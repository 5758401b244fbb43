// Package cache is the keyed store behind the storefront query layer.
//
// # Overview
//
// The package exports:
//
//   - CacheService: a process-wide store with read-through fetches, direct
//     writes, atomic updates, invalidation and in-flight cancellation
//   - KeySerializer: builds query keys such as products::<storeId> or
//     products::category::<categoryId> from an entity kind and its scope
//   - Optimistic: the snapshot, apply, commit-or-revert protocol used by
//     optimistic mutations
//
// # Keys
//
// Key segments are joined with KeySeparator. Prefix operations match whole
// segments, so invalidating "store" never touches "stores::<userId>":
//
//	serializer := cache.NewDefaultKeySerializer()
//	key := serializer.SerializeKey("products", "category", categoryID)
//
// # Reads
//
//	products, err := cache.GetOrFetch(ctx, svc, key, func(ctx context.Context) ([]api.Product, error) {
//		return client.Products.ListByCategory(ctx, categoryID)
//	})
//
// Concurrent readers of the same key share one fetch. A fetch only commits if
// no write, invalidation or cancellation touched its key while it was running.
//
// # Writes
//
// Set, Update and the invalidation methods are serialized. Update hands the
// current value to a function and stores its result atomically; UpdateData is
// the typed form and never creates a missing entry. Update functions must
// return new values rather than modifying the ones they receive, which keeps
// snapshots taken by Optimistic intact for rollback.
//
// # Events
//
// Subscribe delivers an Event after each committed change to keys related to
// the given prefix.
package cache
