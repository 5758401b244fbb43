package testsupport

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-storefront/api"
)

//go:embed testdata/catalog.json
var defaultCatalog []byte

// Catalog describes a store with its categories and products, ready to be
// created through the API.
type Catalog struct {
	Store      api.CreateStoreRequest `json:"store"`
	Categories []CatalogCategory      `json:"categories"`
}

// CatalogCategory holds product requests whose StoreID and CategoryID are
// filled in while seeding.
type CatalogCategory struct {
	Name        string                     `json:"name"`
	Description string                     `json:"description"`
	Products    []api.CreateProductRequest `json:"products"`
}

// Seeded is what Seed created, in catalog order.
type Seeded struct {
	Store      api.Store
	Categories []api.Category
	// Products is indexed like Categories.
	Products [][]api.Product
}

// AllProducts flattens Products in creation order.
func (s Seeded) AllProducts() []api.Product {
	var out []api.Product
	for _, list := range s.Products {
		out = append(out, list...)
	}
	return out
}

// DefaultCatalog returns a fresh copy of the bundled catalog.
func DefaultCatalog() (Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(defaultCatalog, &c); err != nil {
		return Catalog{}, fmt.Errorf("decode default catalog: %w", err)
	}
	return c, nil
}

// Seed creates catalog through client. It stops at the first failure.
func Seed(ctx context.Context, client *api.Client, catalog Catalog) (Seeded, error) {
	store, err := client.Stores.Create(ctx, catalog.Store)
	if err != nil {
		return Seeded{}, fmt.Errorf("create store: %w", err)
	}
	out := Seeded{Store: *store}

	for _, cc := range catalog.Categories {
		category, err := client.Categories.Create(ctx, api.CreateCategoryRequest{
			Name:        cc.Name,
			Description: cc.Description,
			StoreID:     store.ID,
		})
		if err != nil {
			return out, fmt.Errorf("create category %q: %w", cc.Name, err)
		}
		out.Categories = append(out.Categories, *category)

		products := make([]api.Product, 0, len(cc.Products))
		for _, req := range cc.Products {
			req.StoreID = store.ID
			req.CategoryID = category.ID
			product, err := client.Products.Create(ctx, req)
			if err != nil {
				return out, fmt.Errorf("create product %q: %w", req.Title, err)
			}
			products = append(products, *product)
		}
		out.Products = append(out.Products, products)
	}
	return out, nil
}
