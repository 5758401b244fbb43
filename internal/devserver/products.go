package devserver

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-storefront/api"
)

func (s *Server) findProduct(ctx context.Context, db bun.IDB, productID string) (*productRow, error) {
	row := new(productRow)
	err := db.NewSelect().Model(row).Where("id = ?", productID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("product")
	}
	return row, err
}

// withCategories resolves the category of each product row.
func (s *Server) withCategories(ctx context.Context, db bun.IDB, rows []productRow) ([]api.Product, error) {
	ids := make([]string, 0, len(rows))
	seen := make(map[string]struct{})
	for _, row := range rows {
		if row.CategoryID == "" {
			continue
		}
		if _, ok := seen[row.CategoryID]; !ok {
			seen[row.CategoryID] = struct{}{}
			ids = append(ids, row.CategoryID)
		}
	}

	categories := make(map[string]*api.Category, len(ids))
	if len(ids) > 0 {
		var cats []categoryRow
		if err := db.NewSelect().Model(&cats).Where("id IN (?)", bun.In(ids)).Scan(ctx); err != nil {
			return nil, err
		}
		for _, c := range cats {
			category := c.toAPI()
			categories[c.ID] = &category
		}
	}

	out := make([]api.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toAPI(categories[row.CategoryID]))
	}
	return out, nil
}

func (s *Server) productResponse(ctx context.Context, db bun.IDB, row *productRow) (api.Product, error) {
	products, err := s.withCategories(ctx, db, []productRow{*row})
	if err != nil {
		return api.Product{}, err
	}
	return products[0], nil
}

func (s *Server) nextDisplayOrder(ctx context.Context, db bun.IDB, categoryID string) (int, error) {
	var highest sql.NullInt64
	err := db.NewSelect().Model((*productRow)(nil)).
		ColumnExpr("MAX(display_order)").
		Where("category_id = ?", categoryID).
		Scan(ctx, &highest)
	if err != nil {
		return 0, err
	}
	return int(highest.Int64) + 1, nil
}

// requireCategoryInStore rejects categories that are unknown or belong to another store.
func (s *Server) requireCategoryInStore(ctx context.Context, db bun.IDB, categoryID, storeID string) error {
	category, err := s.findCategory(ctx, db, categoryID)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.status == http.StatusNotFound {
			return badRequest("category %s does not exist", categoryID)
		}
		return err
	}
	if category.StoreID != storeID {
		return badRequest("category %s does not belong to store %s", categoryID, storeID)
	}
	return nil
}

// handleListStoreProducts lists a store's products, newest first.
func (s *Server) handleListStoreProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var rows []productRow
	err := s.db.NewSelect().Model(&rows).Where("store_id = ?", chi.URLParam(r, "storeID")).OrderExpr("rowid DESC").Scan(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := s.withCategories(ctx, s.db, rows)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

// handleListCategoryProducts lists a category's products in display order.
func (s *Server) handleListCategoryProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var rows []productRow
	err := s.db.NewSelect().Model(&rows).Where("category_id = ?", chi.URLParam(r, "categoryID")).OrderExpr("display_order ASC, rowid ASC").Scan(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := s.withCategories(ctx, s.db, rows)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	row, err := s.findProduct(ctx, s.db, chi.URLParam(r, "productID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := s.productResponse(ctx, s.db, row)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req api.CreateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.PromotionalPrice != nil && *req.PromotionalPrice < 0 {
		s.writeError(w, r, badRequest("promotionalPrice cannot be negative"))
		return
	}

	var out api.Product
	err := s.db.RunInTx(r.Context(), nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := s.findStore(ctx, tx, req.StoreID); err != nil {
			return err
		}
		if err := s.requireCategoryInStore(ctx, tx, req.CategoryID, req.StoreID); err != nil {
			return err
		}
		order, err := s.nextDisplayOrder(ctx, tx, req.CategoryID)
		if err != nil {
			return err
		}

		available := true
		set(&available, req.Available)
		badge := false
		set(&badge, req.ShowPromotionBadge)

		now := s.timestamp()
		row := &productRow{
			ID:                 uuid.NewString(),
			Title:              req.Title,
			Price:              req.Price,
			PromotionalPrice:   req.PromotionalPrice,
			ShowPromotionBadge: badge,
			Description:        req.Description,
			StoreID:            req.StoreID,
			CategoryID:         req.CategoryID,
			Available:          &available,
			DisplayOrder:       order,
			Images:             s.productImages(req.Images),
			Variations:         s.productVariations(req.Variations),
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
			return err
		}
		out, err = s.productResponse(ctx, tx, row)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Title != nil && *req.Title == "" {
		s.writeError(w, r, badRequest("title cannot be empty"))
		return
	}
	if req.Price != nil && *req.Price < 0 {
		s.writeError(w, r, badRequest("price cannot be negative"))
		return
	}

	var out api.Product
	err := s.db.RunInTx(r.Context(), nil, func(ctx context.Context, tx bun.Tx) error {
		row, err := s.findProduct(ctx, tx, chi.URLParam(r, "productID"))
		if err != nil {
			return err
		}
		if req.CategoryID != nil && *req.CategoryID != row.CategoryID {
			if err := s.requireCategoryInStore(ctx, tx, *req.CategoryID, row.StoreID); err != nil {
				return err
			}
			order, err := s.nextDisplayOrder(ctx, tx, *req.CategoryID)
			if err != nil {
				return err
			}
			row.CategoryID = *req.CategoryID
			row.DisplayOrder = order
		}
		set(&row.Title, req.Title)
		set(&row.Price, req.Price)
		set(&row.ShowPromotionBadge, req.ShowPromotionBadge)
		set(&row.Description, req.Description)
		if req.PromotionalPrice != nil {
			// zero clears the promotion
			row.PromotionalPrice = req.PromotionalPrice
			if *req.PromotionalPrice <= 0 {
				row.PromotionalPrice = nil
			}
		}
		if req.Available != nil {
			row.Available = req.Available
		}
		if req.Images != nil {
			row.Images = s.productImages(req.Images)
		}
		if req.Variations != nil {
			row.Variations = s.productVariations(req.Variations)
		}
		row.UpdatedAt = s.timestamp()

		if _, err := tx.NewUpdate().Model(row).WherePK().Exec(ctx); err != nil {
			return err
		}
		out, err = s.productResponse(ctx, tx, row)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	res, err := s.db.NewDelete().Model((*productRow)(nil)).Where("id = ?", chi.URLParam(r, "productID")).Exec(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		s.writeError(w, r, notFound("product"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleToggleAvailability flips availability; a product without a recorded
// availability counts as unavailable.
func (s *Server) handleToggleAvailability(w http.ResponseWriter, r *http.Request) {
	var out api.Product
	err := s.db.RunInTx(r.Context(), nil, func(ctx context.Context, tx bun.Tx) error {
		row, err := s.findProduct(ctx, tx, chi.URLParam(r, "productID"))
		if err != nil {
			return err
		}
		next := !(row.Available != nil && *row.Available)
		row.Available = &next
		row.UpdatedAt = s.timestamp()
		if _, err := tx.NewUpdate().Model(row).Column("available", "updated_at").WherePK().Exec(ctx); err != nil {
			return err
		}
		out, err = s.productResponse(ctx, tx, row)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

// handleReorderProducts assigns display orders 1..n following the submitted
// ids. Every id must belong to the category; products left out keep their
// relative order after the listed ones.
func (s *Server) handleReorderProducts(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "categoryID")

	var ids []string
	if err := decodeJSON(r, &ids); err != nil {
		s.writeError(w, r, err)
		return
	}

	err := s.db.RunInTx(r.Context(), nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := s.findCategory(ctx, tx, categoryID); err != nil {
			return err
		}

		var current []productRow
		if err := tx.NewSelect().Model(&current).
			Column("id").
			Where("category_id = ?", categoryID).
			OrderExpr("display_order ASC, rowid ASC").
			Scan(ctx); err != nil {
			return err
		}

		members := make(map[string]bool, len(current))
		for _, p := range current {
			members[p.ID] = true
		}

		ordered := make([]string, 0, len(current))
		listed := make(map[string]bool, len(ids))
		for _, id := range ids {
			if !members[id] {
				return badRequest("product %s does not belong to category %s", id, categoryID)
			}
			if listed[id] {
				return badRequest("product %s listed more than once", id)
			}
			listed[id] = true
			ordered = append(ordered, id)
		}
		for _, p := range current {
			if !listed[p.ID] {
				ordered = append(ordered, p.ID)
			}
		}

		now := s.timestamp()
		for i, id := range ordered {
			if _, err := tx.NewUpdate().Model((*productRow)(nil)).
				Set("display_order = ?", i+1).
				Set("updated_at = ?", now).
				Where("id = ?", id).
				Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
