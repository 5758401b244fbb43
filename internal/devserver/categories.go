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

func (s *Server) listCategories(ctx context.Context, storeID string) ([]categoryRow, error) {
	var rows []categoryRow
	err := s.db.NewSelect().Model(&rows).Where("store_id = ?", storeID).OrderExpr("rowid ASC").Scan(ctx)
	return rows, err
}

func (s *Server) findCategory(ctx context.Context, db bun.IDB, categoryID string) (*categoryRow, error) {
	row := new(categoryRow)
	err := db.NewSelect().Model(row).Where("id = ?", categoryID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("category")
	}
	return row, err
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	rows, err := s.listCategories(r.Context(), chi.URLParam(r, "storeID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]api.Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toAPI())
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	row, err := s.findCategory(r.Context(), s.db, chi.URLParam(r, "categoryID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, row.toAPI())
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CreateCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.findStore(ctx, s.db, req.StoreID); err != nil {
		s.writeError(w, r, err)
		return
	}

	now := s.timestamp()
	row := &categoryRow{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    s.assetURL("categories", req.Image),
		StoreID:     req.StoreID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, row.toAPI())
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Name != nil && *req.Name == "" {
		s.writeError(w, r, badRequest("name cannot be empty"))
		return
	}

	var updated *categoryRow
	err := s.db.RunInTx(r.Context(), nil, func(ctx context.Context, tx bun.Tx) error {
		row, err := s.findCategory(ctx, tx, chi.URLParam(r, "categoryID"))
		if err != nil {
			return err
		}
		set(&row.Name, req.Name)
		set(&row.Description, req.Description)
		if req.Image != nil {
			row.ImageURL = s.assetURL("categories", req.Image)
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

// handleDeleteCategory removes the category; its products stay in the store
// without a category.
func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "categoryID")
	err := s.db.RunInTx(r.Context(), nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := s.findCategory(ctx, tx, categoryID); err != nil {
			return err
		}
		if _, err := tx.NewUpdate().Model((*productRow)(nil)).
			Set("category_id = ?", "").
			Set("updated_at = ?", s.timestamp()).
			Where("category_id = ?", categoryID).
			Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().Model((*categoryRow)(nil)).Where("id = ?", categoryID).Exec(ctx)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
