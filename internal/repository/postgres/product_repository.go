package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/repository"
)

type productRepository struct {
	db *DB
}

func NewProductRepository(db *DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.GetContext(ctx, &product, `
		SELECT id, sku, name, COALESCE(description, '') AS description,
		       stock_level, reorder_point, lead_time_days, supplier_id,
		       discontinued, created_at, updated_at
		FROM products
		WHERE sku = $1`, sku)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sku %s: %w", sku, domain.ErrProductNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return &product, nil
}

func (r *productRepository) ListActive(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.SelectContext(ctx, &products, `
		SELECT id, sku, name, COALESCE(description, '') AS description,
		       stock_level, reorder_point, lead_time_days, supplier_id,
		       discontinued, created_at, updated_at
		FROM products
		WHERE NOT discontinued
		ORDER BY sku`)
	if err != nil {
		return nil, fmt.Errorf("list active products: %w", err)
	}
	return products, nil
}

func (r *productRepository) UpdateReorderPoint(ctx context.Context, sku string, reorderPoint int) error {
	// Batch runs fan out per SKU; WithTx also throttles them through the
	// shared semaphore.
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET reorder_point = $2, updated_at = NOW()
			WHERE sku = $1`, sku, reorderPoint)
		if err != nil {
			return fmt.Errorf("update reorder point for %s: %w", sku, err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update reorder point for %s: %w", sku, err)
		}
		if rows == 0 {
			return fmt.Errorf("sku %s: %w", sku, domain.ErrProductNotFound)
		}
		return nil
	})
}
