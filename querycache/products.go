package querycache

import (
	"context"
	"errors"

	"github.com/goliatone/go-storefront/api"
	"github.com/goliatone/go-storefront/cache"
)

func productByID(id string) func(api.Product) bool {
	return func(p api.Product) bool { return p.ID == id }
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// StoreProducts returns every product of a store.
func (l *Layer) StoreProducts(ctx context.Context, storeID string) ([]api.Product, error) {
	if err := requireScope("StoreProducts", "store id", storeID); err != nil {
		return nil, err
	}
	return cache.GetOrFetch(ctx, l.cache, l.keys.StoreProducts(storeID), func(ctx context.Context) ([]api.Product, error) {
		return l.remote.Products.ListByStore(ctx, storeID)
	})
}

// CategoryProducts returns the products of a category in display order.
func (l *Layer) CategoryProducts(ctx context.Context, categoryID string) ([]api.Product, error) {
	if err := requireScope("CategoryProducts", "category id", categoryID); err != nil {
		return nil, err
	}
	return cache.GetOrFetch(ctx, l.cache, l.keys.CategoryProducts(categoryID), func(ctx context.Context) ([]api.Product, error) {
		return l.remote.Products.ListByCategory(ctx, categoryID)
	})
}

func (l *Layer) Product(ctx context.Context, productID string) (api.Product, error) {
	if err := requireScope("Product", "product id", productID); err != nil {
		return api.Product{}, err
	}
	return cache.GetOrFetch(ctx, l.cache, l.keys.Product(productID), func(ctx context.Context) (api.Product, error) {
		return deref(l.remote.Products.Get(ctx, productID))
	})
}

// CreateProduct creates a product and reconciles it into the store's product list.
// The category list is always invalidated: the backend decides the display position.
func (l *Layer) CreateProduct(ctx context.Context, req api.CreateProductRequest) (api.Product, error) {
	if err := requireScope("CreateProduct", "store id", req.StoreID); err != nil {
		return api.Product{}, err
	}
	created, err := deref(l.remote.Products.Create(ctx, req))
	if err != nil {
		return api.Product{}, err
	}

	ctx = l.logger.WithStoreID(ctx, req.StoreID)
	storeKey := l.keys.StoreProducts(req.StoreID)
	var related []string
	if categoryID := firstNonEmpty(created.CategoryID(), req.CategoryID); categoryID != "" {
		related = append(related, l.keys.CategoryProducts(categoryID))
	}

	switch l.policies.CreateProduct {
	case PolicyDirectPatch:
		patchCollection(ctx, l, "CreateProduct", storeKey, func(current []api.Product) []api.Product {
			return prepend(current, created)
		})
		if err := l.cache.Set(ctx, l.keys.Product(created.ID), created); err != nil {
			l.logger.Warn(ctx, "cache set failed", err)
		}
		if len(related) > 0 {
			l.invalidate(ctx, "CreateProduct", related...)
		}
	case PolicyInvalidate:
		l.invalidate(ctx, "CreateProduct", append(related, storeKey)...)
	}
	return created, nil
}

// UpdateProduct submits a partial changeset and reconciles the returned entity.
// Per-category lists are invalidated since the category may have changed.
func (l *Layer) UpdateProduct(ctx context.Context, storeID, productID string, req api.UpdateProductRequest) (api.Product, error) {
	if err := requireScope("UpdateProduct", "store id", storeID); err != nil {
		return api.Product{}, err
	}
	if err := requireScope("UpdateProduct", "product id", productID); err != nil {
		return api.Product{}, err
	}
	updated, err := deref(l.remote.Products.Update(ctx, productID, req))
	if err != nil {
		return api.Product{}, err
	}

	ctx = l.logger.WithStoreID(ctx, storeID)
	storeKey := l.keys.StoreProducts(storeID)
	productKey := l.keys.Product(productID)

	switch l.policies.UpdateProduct {
	case PolicyDirectPatch:
		patchCollection(ctx, l, "UpdateProduct", storeKey, func(current []api.Product) []api.Product {
			return replaceWhere(current, productByID(updated.ID), updated)
		})
		patchEntity(ctx, l, "UpdateProduct", productKey, updated)
		l.invalidatePrefix(ctx, "UpdateProduct", l.keys.AllCategoryProducts())
	case PolicyInvalidate:
		l.invalidate(ctx, "UpdateProduct", storeKey, productKey)
		l.invalidatePrefix(ctx, "UpdateProduct", l.keys.AllCategoryProducts())
	}
	return updated, nil
}

// DeleteProduct deletes a product. With the default policy the cache is left
// untouched and callers remove the product from their own view. storeID is
// only required by the patch and invalidate policies.
func (l *Layer) DeleteProduct(ctx context.Context, storeID, productID string) error {
	if err := requireScope("DeleteProduct", "product id", productID); err != nil {
		return err
	}
	policy := l.policies.DeleteProduct
	if policy != PolicyNone {
		if err := requireScope("DeleteProduct", "store id", storeID); err != nil {
			return err
		}
	}
	if err := l.remote.Products.Delete(ctx, productID); err != nil {
		return err
	}

	switch policy {
	case PolicyDirectPatch:
		ctx = l.logger.WithStoreID(ctx, storeID)
		patchCollection(ctx, l, "DeleteProduct", l.keys.StoreProducts(storeID), func(current []api.Product) []api.Product {
			return removeWhere(current, productByID(productID))
		})
		l.invalidate(ctx, "DeleteProduct", l.keys.Product(productID))
		l.invalidatePrefix(ctx, "DeleteProduct", l.keys.AllCategoryProducts())
	case PolicyInvalidate:
		ctx = l.logger.WithStoreID(ctx, storeID)
		l.invalidate(ctx, "DeleteProduct", l.keys.StoreProducts(storeID), l.keys.Product(productID))
		l.invalidatePrefix(ctx, "DeleteProduct", l.keys.AllCategoryProducts())
	}
	return nil
}

// ToggleAvailability flips a product's availability optimistically in the
// store's product list. In-flight reads of that list are cancelled first; on
// failure the list is restored exactly, on success the server's entity
// replaces the optimistic one.
func (l *Layer) ToggleAvailability(ctx context.Context, storeID, productID string) (api.Product, error) {
	if err := requireScope("ToggleAvailability", "store id", storeID); err != nil {
		return api.Product{}, err
	}
	if err := requireScope("ToggleAvailability", "product id", productID); err != nil {
		return api.Product{}, err
	}

	ctx = l.logger.WithStoreID(ctx, storeID)
	updated, err := cache.Optimistic(ctx, l.cache, cache.OptimisticUpdate[[]api.Product, api.Product]{
		Key: l.keys.StoreProducts(storeID),
		Apply: func(current []api.Product) []api.Product {
			return mapWhere(current, productByID(productID), func(p api.Product) api.Product {
				p.Available = !p.Available
				return p
			})
		},
		Mutate: func(ctx context.Context) (api.Product, error) {
			return deref(l.remote.Products.ToggleAvailability(ctx, productID))
		},
		Commit: func(current []api.Product, result api.Product) []api.Product {
			return replaceWhere(current, productByID(productID), result)
		},
	})
	if errors.Is(err, cache.ErrCommitFailed) {
		// the server flipped the product; drop the optimistic list so the next read refetches it
		l.logger.Warn(l.logger.WithField(ctx, "product_id", productID), "toggle availability commit failed", err)
		l.invalidate(ctx, "ToggleAvailability", l.keys.StoreProducts(storeID))
		return updated, err
	}
	if err != nil {
		l.logger.Debug(l.logger.WithField(ctx, "product_id", productID), "toggle availability rolled back")
		return api.Product{}, err
	}

	patchEntity(ctx, l, "ToggleAvailability", l.keys.Product(productID), updated)
	if categoryID := updated.CategoryID(); categoryID != "" {
		patchCollection(ctx, l, "ToggleAvailability", l.keys.CategoryProducts(categoryID), func(current []api.Product) []api.Product {
			return replaceWhere(current, productByID(productID), updated)
		})
	}
	return updated, nil
}

// ReorderProducts submits the full ordered id list of a category. Both the
// category list and the store list are invalidated on success.
func (l *Layer) ReorderProducts(ctx context.Context, storeID, categoryID string, productIDs []string) error {
	if err := requireScope("ReorderProducts", "store id", storeID); err != nil {
		return err
	}
	if err := requireScope("ReorderProducts", "category id", categoryID); err != nil {
		return err
	}
	if err := l.remote.Products.Reorder(ctx, categoryID, productIDs); err != nil {
		return err
	}
	ctx = l.logger.WithStoreID(ctx, storeID)
	l.invalidate(ctx, "ReorderProducts", l.keys.CategoryProducts(categoryID), l.keys.StoreProducts(storeID))
	return nil
}
