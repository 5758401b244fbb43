package devserver

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// privateMemoryDSN names a fresh in-memory database so servers in the same
// process never share state.
func privateMemoryDSN() string {
	return fmt.Sprintf("file:storefront-%s?mode=memory&cache=shared", uuid.NewString())
}

func openDB(ctx context.Context, dsn string) (*bun.DB, error) {
	if dsn == "" {
		dsn = privateMemoryDSN()
	}
	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite serializes writers; one connection also keeps a memory database alive
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	if err := createSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func createSchema(ctx context.Context, db *bun.DB) error {
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}

	indexes := []struct {
		model  any
		name   string
		column string
	}{
		{(*productRow)(nil), "products_store_idx", "store_id"},
		{(*productRow)(nil), "products_category_idx", "category_id"},
		{(*categoryRow)(nil), "categories_store_idx", "store_id"},
		{(*storeUserRow)(nil), "store_users_user_idx", "user_id"},
		{(*eventRow)(nil), "store_events_store_idx", "store_id"},
	}
	for _, idx := range indexes {
		if _, err := db.NewCreateIndex().Model(idx.model).Index(idx.name).IfNotExists().Column(idx.column).Exec(ctx); err != nil {
			return fmt.Errorf("create index %s: %w", idx.name, err)
		}
	}
	return nil
}
