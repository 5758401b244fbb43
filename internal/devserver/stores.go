package devserver

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-storefront/api"
)

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func (s *Server) findStore(ctx context.Context, db bun.IDB, storeID string) (*storeRow, error) {
	row := new(storeRow)
	err := db.NewSelect().Model(row).Where("id = ?", storeID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("store")
	}
	return row, err
}

func (s *Server) slugTaken(ctx context.Context, db bun.IDB, slug, exceptID string) (bool, error) {
	return db.NewSelect().Model((*storeRow)(nil)).
		Where("slug = ?", slug).
		Where("id != ?", exceptID).
		Exists(ctx)
}

func (s *Server) handleListUserStores(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userID")

	var memberships []storeUserRow
	if err := s.db.NewSelect().Model(&memberships).Where("user_id = ?", userID).OrderExpr("rowid ASC").Scan(ctx); err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]api.StoreUser, 0, len(memberships))
	for _, m := range memberships {
		store, err := s.findStore(ctx, s.db, m.StoreID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		out = append(out, api.StoreUser{
			ID:        m.ID,
			StoreID:   m.StoreID,
			StoreName: store.Name,
			UserID:    m.UserID,
			UserName:  m.UserName,
			UserEmail: m.UserEmail,
			Role:      m.Role,
			CreatedAt: m.CreatedAt,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetStore(w http.ResponseWriter, r *http.Request) {
	store, err := s.findStore(r.Context(), s.db, chi.URLParam(r, "storeID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, store.toAPI())
}

// handleGetPublicStore serves the storefront: categories in creation order,
// each with its available products in display order.
func (s *Server) handleGetPublicStore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	store := new(storeRow)
	err := s.db.NewSelect().Model(store).Where("slug = ?", chi.URLParam(r, "slug")).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		err = notFound("store")
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	categories, err := s.listCategories(ctx, store.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var products []productRow
	err = s.db.NewSelect().Model(&products).
		Where("store_id = ?", store.ID).
		Where("available = ?", true).
		OrderExpr("display_order ASC, rowid ASC").
		Scan(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sections := make([]api.CategoryWithProducts, 0, len(categories)+1)
	index := make(map[string]int, len(categories))
	byID := make(map[string]*api.Category, len(categories))
	for i := range categories {
		c := categories[i].toAPI()
		byID[c.ID] = &c
		index[c.ID] = len(sections)
		sections = append(sections, api.CategoryWithProducts{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			ImageURL:    c.ImageURL,
			StoreID:     c.StoreID,
			Products:    []api.Product{},
		})
	}
	for _, p := range products {
		i, ok := index[p.CategoryID]
		if !ok {
			i = len(sections)
			index[p.CategoryID] = i
			sections = append(sections, api.CategoryWithProducts{StoreID: store.ID, Products: []api.Product{}})
		}
		sections[i].Products = append(sections[i].Products, p.toAPI(byID[p.CategoryID]))
	}

	s.writeJSON(w, http.StatusOK, api.PublicStore{Store: store.toAPI(), Categories: sections})
}

func (s *Server) handleCreateStore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CreateStoreRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	now := s.timestamp()
	row := &storeRow{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Slug:        strings.ToLower(strings.TrimSpace(req.Slug)),
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		Instagram:   req.Instagram,
		Facebook:    req.Facebook,
		ThemeMode:   api.ThemeLight,
		ActivePlan:  api.PlanFree,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Street != "" || req.City != "" || req.State != "" || req.ZipCode != "" {
		row.Address = &api.Address{ID: uuid.NewString(), Street: req.Street, City: req.City, State: req.State, ZipCode: req.ZipCode}
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		taken, err := s.slugTaken(ctx, tx, row.Slug, "")
		if err != nil {
			return err
		}
		if taken {
			return conflict("slug %q is already in use", row.Slug)
		}
		if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
			return err
		}

		userID := userFromRequest(r)
		if userID == "" {
			return nil
		}
		_, err = tx.NewInsert().Model(&storeUserRow{
			ID:        uuid.NewString(),
			StoreID:   row.ID,
			UserID:    userID,
			Role:      api.RoleOwner,
			CreatedAt: now,
		}).Exec(ctx)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, row.toAPI())
}

func (s *Server) handleUpdateStore(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateStoreRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.updateStore(w, r, func(ctx context.Context, tx bun.Tx, row *storeRow) error {
		if req.Slug != nil {
			slug := strings.ToLower(strings.TrimSpace(*req.Slug))
			if slug == "" {
				return badRequest("slug cannot be empty")
			}
			taken, err := s.slugTaken(ctx, tx, slug, row.ID)
			if err != nil {
				return err
			}
			if taken {
				return conflict("slug %q is already in use", slug)
			}
			row.Slug = slug
		}
		set(&row.Name, req.Name)
		set(&row.Description, req.Description)
		set(&row.PhoneNumber, req.PhoneNumber)
		set(&row.Email, req.Email)
		set(&row.Instagram, req.Instagram)
		set(&row.Facebook, req.Facebook)

		if req.Street != nil || req.City != nil || req.State != nil || req.ZipCode != nil {
			addr := api.Address{ID: uuid.NewString()}
			if row.Address != nil {
				addr = *row.Address
			}
			set(&addr.Street, req.Street)
			set(&addr.City, req.City)
			set(&addr.State, req.State)
			set(&addr.ZipCode, req.ZipCode)
			row.Address = &addr
		}
		if req.Logo != nil {
			row.LogoURL = s.assetURL("logos", req.Logo)
		}
		return nil
	})
}

func (s *Server) handleUpdateTheme(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateThemeConfigRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.updateStore(w, r, func(ctx context.Context, tx bun.Tx, row *storeRow) error {
		set(&row.PrimaryColor, req.PrimaryColor)
		set(&row.ThemeMode, req.ThemeMode)
		set(&row.PrimaryFont, req.PrimaryFont)
		set(&row.SecondaryFont, req.SecondaryFont)
		set(&row.RoundedLevel, req.RoundedLevel)
		set(&row.ProductCardShadow, req.ProductCardShadow)
		set(&row.BackgroundType, req.BackgroundType)
		set(&row.BackgroundColor, req.BackgroundColor)
		set(&row.BackgroundConfigJSON, req.BackgroundConfigJSON)
		if req.BackgroundEnabled != nil {
			row.BackgroundEnabled = req.BackgroundEnabled
		}
		if req.BackgroundOpacity != nil {
			if *req.BackgroundOpacity < 0 || *req.BackgroundOpacity > 1 {
				return badRequest("backgroundOpacity must be between 0 and 1")
			}
			row.BackgroundOpacity = req.BackgroundOpacity
		}
		if req.Logo != nil {
			row.LogoURL = s.assetURL("logos", req.Logo)
		}
		if req.BannerDesktop != nil {
			row.BannerDesktopURL = s.assetURL("banners", req.BannerDesktop)
		}
		if req.BannerTablet != nil {
			row.BannerTabletURL = s.assetURL("banners", req.BannerTablet)
		}
		if req.BannerMobile != nil {
			row.BannerMobileURL = s.assetURL("banners", req.BannerMobile)
		}
		return nil
	})
}

// updateStore loads the store, applies fn and persists the row in one transaction.
func (s *Server) updateStore(w http.ResponseWriter, r *http.Request, fn func(context.Context, bun.Tx, *storeRow) error) {
	storeID := chi.URLParam(r, "storeID")

	var updated *storeRow
	err := s.db.RunInTx(r.Context(), nil, func(ctx context.Context, tx bun.Tx) error {
		row, err := s.findStore(ctx, tx, storeID)
		if err != nil {
			return err
		}
		if err := fn(ctx, tx, row); err != nil {
			return err
		}
		row.UpdatedAt = s.timestamp()
		if _, err := tx.NewUpdate().Model(row).WherePK().Exec(ctx); err != nil {
			return err
		}
		updated = row
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updated.toAPI())
}
