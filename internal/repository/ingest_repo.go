package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/andresuchdata/stockcast/internal/domain"
)

// IngestRepository writes catalog rows and ledger entries during history
// imports. It runs over database/sql so the CLI can use the pgx driver.
type IngestRepository struct {
	db *sql.DB
}

func NewIngestRepository(db *sql.DB) *IngestRepository {
	return &IngestRepository{db: db}
}

func (r *IngestRepository) UpsertSupplier(ctx context.Context, supplier *domain.Supplier) (int64, error) {
	query := `
		INSERT INTO suppliers (name, lead_time_days, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name)
		DO UPDATE SET lead_time_days = EXCLUDED.lead_time_days, updated_at = NOW()
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query, supplier.Name, supplier.LeadTimeDays).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert supplier: %w", err)
	}
	return id, nil
}

func (r *IngestRepository) UpsertProduct(ctx context.Context, product *domain.Product) (int64, error) {
	query := `
		INSERT INTO products (sku, name, description, stock_level, lead_time_days, supplier_id, discontinued, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (sku)
		DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			stock_level = EXCLUDED.stock_level,
			lead_time_days = EXCLUDED.lead_time_days,
			supplier_id = EXCLUDED.supplier_id,
			discontinued = EXCLUDED.discontinued,
			updated_at = NOW()
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		product.SKU,
		product.Name,
		product.Description,
		product.StockLevel,
		product.LeadTimeDays,
		product.SupplierID,
		product.Discontinued,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert product: %w", err)
	}
	return id, nil
}

func (r *IngestRepository) InsertTransaction(ctx context.Context, txn *domain.Transaction) error {
	query := `
		INSERT INTO transactions (product_id, transaction_type, quantity, transaction_date)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query,
		txn.ProductID,
		txn.TransactionType,
		txn.Quantity,
		txn.TransactionDate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}
