package querycache

import (
	"context"

	"github.com/goliatone/go-storefront/api"
	"github.com/goliatone/go-storefront/cache"
)

// UserStores returns the store memberships of a user.
func (l *Layer) UserStores(ctx context.Context, userID string) ([]api.StoreUser, error) {
	if err := requireScope("UserStores", "user id", userID); err != nil {
		return nil, err
	}
	return cache.GetOrFetch(ctx, l.cache, l.keys.UserStores(userID), func(ctx context.Context) ([]api.StoreUser, error) {
		return l.remote.Stores.ListByUser(ctx, userID)
	})
}

func (l *Layer) Store(ctx context.Context, storeID string) (api.Store, error) {
	if err := requireScope("Store", "store id", storeID); err != nil {
		return api.Store{}, err
	}
	return cache.GetOrFetch(ctx, l.cache, l.keys.Store(storeID), func(ctx context.Context) (api.Store, error) {
		return deref(l.remote.Stores.Get(ctx, storeID))
	})
}

// PublicStore returns the storefront projection for slug.
func (l *Layer) PublicStore(ctx context.Context, slug string) (api.PublicStore, error) {
	if err := requireScope("PublicStore", "slug", slug); err != nil {
		return api.PublicStore{}, err
	}
	return cache.GetOrFetch(ctx, l.cache, l.keys.PublicStore(slug), func(ctx context.Context) (api.PublicStore, error) {
		return deref(l.remote.Stores.GetPublic(ctx, slug))
	})
}

// CreateStore creates a store and invalidates the user's store list when userID is known.
func (l *Layer) CreateStore(ctx context.Context, userID string, req api.CreateStoreRequest) (api.Store, error) {
	created, err := deref(l.remote.Stores.Create(ctx, req))
	if err != nil {
		return api.Store{}, err
	}
	if userID != "" {
		l.invalidate(ctx, "CreateStore", l.keys.UserStores(userID))
	}
	return created, nil
}

// UpdateStore always invalidates: the backend recomputes derived fields such
// as the logo URL, and store names appear in every user's store list.
func (l *Layer) UpdateStore(ctx context.Context, storeID string, req api.UpdateStoreRequest) (api.Store, error) {
	if err := requireScope("UpdateStore", "store id", storeID); err != nil {
		return api.Store{}, err
	}
	updated, err := deref(l.remote.Stores.Update(ctx, storeID, req))
	if err != nil {
		return api.Store{}, err
	}
	ctx = l.logger.WithStoreID(ctx, storeID)
	l.invalidate(ctx, "UpdateStore", l.keys.Store(storeID))
	l.invalidatePrefix(ctx, "UpdateStore", l.keys.AllUserStores())
	l.invalidatePrefix(ctx, "UpdateStore", l.keys.AllPublicStores())
	return updated, nil
}

// UpdateThemeConfig changes the storefront theme and invalidates the store.
func (l *Layer) UpdateThemeConfig(ctx context.Context, storeID string, req api.UpdateThemeConfigRequest) (api.Store, error) {
	if err := requireScope("UpdateThemeConfig", "store id", storeID); err != nil {
		return api.Store{}, err
	}
	updated, err := deref(l.remote.Stores.UpdateTheme(ctx, storeID, req))
	if err != nil {
		return api.Store{}, err
	}
	ctx = l.logger.WithStoreID(ctx, storeID)
	l.invalidate(ctx, "UpdateThemeConfig", l.keys.Store(storeID))
	l.invalidatePrefix(ctx, "UpdateThemeConfig", l.keys.AllPublicStores())
	return updated, nil
}
