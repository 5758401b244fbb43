package querycache

import (
	"context"

	"github.com/goliatone/go-storefront/api"
)

// StoresRemote is the subset of the backend used for stores.
type StoresRemote interface {
	ListByUser(ctx context.Context, userID string) ([]api.StoreUser, error)
	Get(ctx context.Context, storeID string) (*api.Store, error)
	GetPublic(ctx context.Context, slug string) (*api.PublicStore, error)
	Create(ctx context.Context, req api.CreateStoreRequest) (*api.Store, error)
	Update(ctx context.Context, storeID string, req api.UpdateStoreRequest) (*api.Store, error)
	UpdateTheme(ctx context.Context, storeID string, req api.UpdateThemeConfigRequest) (*api.Store, error)
}

type ProductsRemote interface {
	ListByStore(ctx context.Context, storeID string) ([]api.Product, error)
	ListByCategory(ctx context.Context, categoryID string) ([]api.Product, error)
	Get(ctx context.Context, productID string) (*api.Product, error)
	Create(ctx context.Context, req api.CreateProductRequest) (*api.Product, error)
	Update(ctx context.Context, productID string, req api.UpdateProductRequest) (*api.Product, error)
	Delete(ctx context.Context, productID string) error
	ToggleAvailability(ctx context.Context, productID string) (*api.Product, error)
	Reorder(ctx context.Context, categoryID string, productIDs []string) error
}

type CategoriesRemote interface {
	ListByStore(ctx context.Context, storeID string) ([]api.Category, error)
	Create(ctx context.Context, req api.CreateCategoryRequest) (*api.Category, error)
	Update(ctx context.Context, categoryID string, req api.UpdateCategoryRequest) (*api.Category, error)
	Delete(ctx context.Context, categoryID string) error
}

type MetricsRemote interface {
	StoreMetrics(ctx context.Context, storeID string, days int) (*api.StoreMetrics, error)
	RecordStoreAccess(ctx context.Context, storeID string) error
	RecordProductClick(ctx context.Context, storeID, productID string) error
}

type BillingRemote interface {
	Create(ctx context.Context, storeID string, req api.CreateBillingRequest) (*api.Billing, error)
}

// Remote groups the backend resources the layer reads from and writes to.
type Remote struct {
	Stores     StoresRemote
	Products   ProductsRemote
	Categories CategoriesRemote
	Metrics    MetricsRemote
	Billing    BillingRemote
}

// RemoteFromClient adapts an api.Client.
func RemoteFromClient(c *api.Client) Remote {
	return Remote{
		Stores:     c.Stores,
		Products:   c.Products,
		Categories: c.Categories,
		Metrics:    c.Metrics,
		Billing:    c.Billing,
	}
}
