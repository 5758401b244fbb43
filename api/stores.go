package api

import (
	"context"
	"net/http"
)

// StoresService wraps the /stores endpoints.
type StoresService struct {
	client *Client
}

// ListByUser returns the store memberships of a user.
func (s *StoresService) ListByUser(ctx context.Context, userID string) ([]StoreUser, error) {
	var out []StoreUser
	if err := s.client.do(ctx, http.MethodGet, s.client.buildURL("stores", "user", userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *StoresService) Get(ctx context.Context, storeID string) (*Store, error) {
	var out Store
	if err := s.client.do(ctx, http.MethodGet, s.client.buildURL("stores", storeID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPublic returns the storefront projection for slug. No authentication is required.
func (s *StoresService) GetPublic(ctx context.Context, slug string) (*PublicStore, error) {
	var out PublicStore
	if err := s.client.do(ctx, http.MethodGet, s.client.buildURL("stores", "public", slug), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *StoresService) Create(ctx context.Context, req CreateStoreRequest) (*Store, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out Store
	if err := s.client.do(ctx, http.MethodPost, s.client.buildURL("stores"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *StoresService) Update(ctx context.Context, storeID string, req UpdateStoreRequest) (*Store, error) {
	var out Store
	if err := s.client.do(ctx, http.MethodPut, s.client.buildURL("stores", storeID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *StoresService) UpdateTheme(ctx context.Context, storeID string, req UpdateThemeConfigRequest) (*Store, error) {
	var out Store
	if err := s.client.do(ctx, http.MethodPut, s.client.buildURL("stores", storeID, "theme"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
