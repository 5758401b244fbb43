package api

import (
	"context"
	"net/http"
)

// CategoriesService wraps the /categories endpoints.
type CategoriesService struct {
	client *Client
}

func (s *CategoriesService) ListByStore(ctx context.Context, storeID string) ([]Category, error) {
	var out []Category
	if err := s.client.do(ctx, http.MethodGet, s.client.buildURL("categories", "store", storeID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CategoriesService) Get(ctx context.Context, categoryID string) (*Category, error) {
	var out Category
	if err := s.client.do(ctx, http.MethodGet, s.client.buildURL("categories", categoryID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CategoriesService) Create(ctx context.Context, req CreateCategoryRequest) (*Category, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out Category
	if err := s.client.do(ctx, http.MethodPost, s.client.buildURL("categories"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CategoriesService) Update(ctx context.Context, categoryID string, req UpdateCategoryRequest) (*Category, error) {
	var out Category
	if err := s.client.do(ctx, http.MethodPut, s.client.buildURL("categories", categoryID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CategoriesService) Delete(ctx context.Context, categoryID string) error {
	return s.client.do(ctx, http.MethodDelete, s.client.buildURL("categories", categoryID), nil, nil)
}
