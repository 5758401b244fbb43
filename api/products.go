package api

import (
	"context"
	"net/http"
)

// ProductsService wraps the /products endpoints.
type ProductsService struct {
	client *Client
}

func (s *ProductsService) ListByStore(ctx context.Context, storeID string) ([]Product, error) {
	var out []Product
	if err := s.client.do(ctx, http.MethodGet, s.client.buildURL("products", "store", storeID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByCategory returns the products of a category in display order.
func (s *ProductsService) ListByCategory(ctx context.Context, categoryID string) ([]Product, error) {
	var out []Product
	if err := s.client.do(ctx, http.MethodGet, s.client.buildURL("products", "category", categoryID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ProductsService) Get(ctx context.Context, productID string) (*Product, error) {
	var out Product
	if err := s.client.do(ctx, http.MethodGet, s.client.buildURL("products", productID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ProductsService) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out Product
	if err := s.client.do(ctx, http.MethodPost, s.client.buildURL("products"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ProductsService) Update(ctx context.Context, productID string, req UpdateProductRequest) (*Product, error) {
	var out Product
	if err := s.client.do(ctx, http.MethodPut, s.client.buildURL("products", productID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ProductsService) Delete(ctx context.Context, productID string) error {
	return s.client.do(ctx, http.MethodDelete, s.client.buildURL("products", productID), nil, nil)
}

// ToggleAvailability flips the product's availability and returns the stored entity.
func (s *ProductsService) ToggleAvailability(ctx context.Context, productID string) (*Product, error) {
	var out Product
	if err := s.client.do(ctx, http.MethodPatch, s.client.buildURL("products", productID, "toggle-availability"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Reorder sets the display order of a category's products to the order of productIDs.
func (s *ProductsService) Reorder(ctx context.Context, categoryID string, productIDs []string) error {
	if productIDs == nil {
		productIDs = []string{}
	}
	return s.client.do(ctx, http.MethodPut, s.client.buildURL("products", "category", categoryID, "order"), productIDs, nil)
}
