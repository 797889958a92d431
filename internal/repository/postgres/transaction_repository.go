package postgres

import (
	"context"
	"fmt"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/repository"
)

type transactionRepository struct {
	db *DB
}

func NewTransactionRepository(db *DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) DemandHistory(ctx context.Context, sku string) ([]domain.DemandObservation, error) {
	var observations []domain.DemandObservation
	err := r.db.SelectContext(ctx, &observations, `
		SELECT t.transaction_date, t.quantity
		FROM transactions t
		JOIN products p ON p.id = t.product_id
		WHERE p.sku = $1
		ORDER BY t.transaction_date`, sku)
	if err != nil {
		return nil, fmt.Errorf("demand history for %s: %w", sku, err)
	}
	return observations, nil
}

func (r *transactionRepository) RecentQuantities(ctx context.Context, sku string, windowDays int) ([]float64, error) {
	var quantities []float64
	err := r.db.SelectContext(ctx, &quantities, `
		SELECT t.quantity
		FROM transactions t
		JOIN products p ON p.id = t.product_id
		WHERE p.sku = $1
		  AND t.transaction_date >= NOW() - ($2 * INTERVAL '1 day')
		ORDER BY t.transaction_date`, sku, windowDays)
	if err != nil {
		return nil, fmt.Errorf("recent quantities for %s: %w", sku, err)
	}
	return quantities, nil
}
