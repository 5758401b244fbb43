package querycache

import (
	"context"

	"github.com/goliatone/go-storefront/api"
	"github.com/goliatone/go-storefront/cache"
)

func categoryByID(id string) func(api.Category) bool {
	return func(c api.Category) bool { return c.ID == id }
}

// StoreCategories returns a store's categories in insertion order.
func (l *Layer) StoreCategories(ctx context.Context, storeID string) ([]api.Category, error) {
	if err := requireScope("StoreCategories", "store id", storeID); err != nil {
		return nil, err
	}
	return cache.GetOrFetch(ctx, l.cache, l.keys.StoreCategories(storeID), func(ctx context.Context) ([]api.Category, error) {
		return l.remote.Categories.ListByStore(ctx, storeID)
	})
}

// CreateCategory creates a category and appends it to the cached store list.
func (l *Layer) CreateCategory(ctx context.Context, req api.CreateCategoryRequest) (api.Category, error) {
	if err := requireScope("CreateCategory", "store id", req.StoreID); err != nil {
		return api.Category{}, err
	}
	created, err := deref(l.remote.Categories.Create(ctx, req))
	if err != nil {
		return api.Category{}, err
	}

	ctx = l.logger.WithStoreID(ctx, req.StoreID)
	key := l.keys.StoreCategories(req.StoreID)
	switch l.policies.CreateCategory {
	case PolicyDirectPatch:
		patchCollection(ctx, l, "CreateCategory", key, func(current []api.Category) []api.Category {
			return appendCopy(current, created)
		})
	case PolicyInvalidate:
		l.invalidate(ctx, "CreateCategory", key)
	}
	return created, nil
}

// UpdateCategory replaces the category in the cached store list.
func (l *Layer) UpdateCategory(ctx context.Context, storeID, categoryID string, req api.UpdateCategoryRequest) (api.Category, error) {
	if err := requireScope("UpdateCategory", "store id", storeID); err != nil {
		return api.Category{}, err
	}
	if err := requireScope("UpdateCategory", "category id", categoryID); err != nil {
		return api.Category{}, err
	}
	updated, err := deref(l.remote.Categories.Update(ctx, categoryID, req))
	if err != nil {
		return api.Category{}, err
	}

	ctx = l.logger.WithStoreID(ctx, storeID)
	key := l.keys.StoreCategories(storeID)
	switch l.policies.UpdateCategory {
	case PolicyDirectPatch:
		patchCollection(ctx, l, "UpdateCategory", key, func(current []api.Category) []api.Category {
			return replaceWhere(current, categoryByID(updated.ID), updated)
		})
	case PolicyInvalidate:
		l.invalidate(ctx, "UpdateCategory", key)
	}
	return updated, nil
}

// DeleteCategory deletes a category. With the default policy the cache is
// left untouched. storeID is only required by the patch and invalidate policies.
func (l *Layer) DeleteCategory(ctx context.Context, storeID, categoryID string) error {
	if err := requireScope("DeleteCategory", "category id", categoryID); err != nil {
		return err
	}
	policy := l.policies.DeleteCategory
	if policy != PolicyNone {
		if err := requireScope("DeleteCategory", "store id", storeID); err != nil {
			return err
		}
	}
	if err := l.remote.Categories.Delete(ctx, categoryID); err != nil {
		return err
	}

	switch policy {
	case PolicyDirectPatch:
		ctx = l.logger.WithStoreID(ctx, storeID)
		patchCollection(ctx, l, "DeleteCategory", l.keys.StoreCategories(storeID), func(current []api.Category) []api.Category {
			return removeWhere(current, categoryByID(categoryID))
		})
		l.invalidate(ctx, "DeleteCategory", l.keys.CategoryProducts(categoryID))
	case PolicyInvalidate:
		ctx = l.logger.WithStoreID(ctx, storeID)
		l.invalidate(ctx, "DeleteCategory", l.keys.StoreCategories(storeID), l.keys.CategoryProducts(categoryID))
	}
	return nil
}
