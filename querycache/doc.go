// Package querycache exposes the storefront entities (stores, products,
// categories, metrics and billing) through a shared cache.
//
// Reads are keyed by query and served by cache.GetOrFetch, so concurrent
// screens asking for the same list share one request. Every read requires its
// scope (store id, product id, slug...); a missing scope fails with
// ErrMissingScope before any request or cache access.
//
// Mutations always go to the backend first. Once the backend answers, the
// affected cache entries are reconciled according to the Layer's Policies:
//
//	PolicyDirectPatch  the returned entity is written into cached collections
//	PolicyInvalidate   the related keys are dropped and refetched on next read
//	PolicyNone         the cache is left as is
//
// A failed mutation leaves the cache untouched. ToggleAvailability is the one
// optimistic operation: the flipped flag is visible immediately and is rolled
// back to the exact previous collection if the backend rejects it.
//
// Key layout:
//
//	stores::<userID>
//	store::<storeID>
//	store::public::<slug>
//	products::<storeID>
//	products::category::<categoryID>
//	product::<productID>
//	categories::<storeID>
//	metrics::<storeID>::<days>
package querycache
