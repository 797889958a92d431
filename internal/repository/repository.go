// internal/repository/repository.go
package repository

import (
	"context"

	"github.com/andresuchdata/stockcast/internal/domain"
)

// ProductRepository exposes the catalog surface the forecasting core needs:
// lookups plus the single reorder_point write-back.
type ProductRepository interface {
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
	ListActive(ctx context.Context) ([]domain.Product, error)
	UpdateReorderPoint(ctx context.Context, sku string, reorderPoint int) error
}

// TransactionRepository is the read-only view of the transaction ledger.
type TransactionRepository interface {
	// DemandHistory returns all (date, quantity) observations for a SKU,
	// ordered by transaction date.
	DemandHistory(ctx context.Context, sku string) ([]domain.DemandObservation, error)
	// RecentQuantities returns the raw transacted quantities within the
	// trailing windowDays, for demand-variability estimation.
	RecentQuantities(ctx context.Context, sku string, windowDays int) ([]float64, error)
}

// SupplierRepository resolves replenishment lead times.
type SupplierRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Supplier, error)
}
