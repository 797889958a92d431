package service

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/reorder"
	"github.com/andresuchdata/stockcast/internal/repository"
)

// defaultLeadTimeDays is used when neither the product nor its supplier
// carries a usable lead time.
const defaultLeadTimeDays = 7

// ReorderService computes and persists reorder points. Products are
// independent, so batch updates run with plain per-SKU parallelism.
type ReorderService struct {
	products     repository.ProductRepository
	suppliers    repository.SupplierRepository
	calculator   *reorder.Calculator
	serviceLevel float64
}

func NewReorderService(
	products repository.ProductRepository,
	suppliers repository.SupplierRepository,
	calculator *reorder.Calculator,
	serviceLevel float64,
) *ReorderService {
	if serviceLevel <= 0 || serviceLevel >= 1 {
		serviceLevel = reorder.DefaultServiceLevel
	}
	return &ReorderService{
		products:     products,
		suppliers:    suppliers,
		calculator:   calculator,
		serviceLevel: serviceLevel,
	}
}

// UpdateReorderPoint recomputes one product's reorder point and writes it
// back to the catalog. serviceLevel <= 0 selects the configured default.
func (s *ReorderService) UpdateReorderPoint(ctx context.Context, sku string, serviceLevel float64) (*domain.Product, error) {
	if serviceLevel <= 0 {
		serviceLevel = s.serviceLevel
	}

	product, err := s.products.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}

	leadTime := s.leadTimeFor(ctx, product)
	point, err := s.calculator.ReorderPoint(ctx, sku, leadTime, serviceLevel)
	if err != nil {
		return nil, err
	}

	if err := s.products.UpdateReorderPoint(ctx, sku, point); err != nil {
		return nil, err
	}

	log.Info().Str("sku", sku).Int("reorder_point", point).
		Int("lead_time_days", leadTime).Float64("service_level", serviceLevel).
		Msg("reorder point updated")

	product.ReorderPoint = point
	return product, nil
}

// BatchResult summarizes one UpdateAll run.
type BatchResult struct {
	Updated int
	Failed  int
}

// UpdateAll recomputes reorder points for every active product with at most
// workers running concurrently. Per-product failures are logged and counted,
// never retried, and do not stop the batch.
func (s *ReorderService) UpdateAll(ctx context.Context, serviceLevel float64, workers int) (BatchResult, error) {
	products, err := s.products.ListActive(ctx)
	if err != nil {
		return BatchResult{}, err
	}

	if workers < 1 {
		workers = 1
	}

	var updated, failed atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, product := range products {
		sku := product.SKU
		g.Go(func() error {
			if _, err := s.UpdateReorderPoint(ctx, sku, serviceLevel); err != nil {
				log.Error().Err(err).Str("sku", sku).Msg("reorder point update failed")
				failed.Add(1)
				return nil
			}
			updated.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return BatchResult{}, err
	}
	return BatchResult{Updated: int(updated.Load()), Failed: int(failed.Load())}, nil
}

// leadTimeFor prefers the supplier's lead time, falls back to the product's
// own, then to the default.
func (s *ReorderService) leadTimeFor(ctx context.Context, product *domain.Product) int {
	if product.SupplierID != nil && s.suppliers != nil {
		supplier, err := s.suppliers.GetByID(ctx, *product.SupplierID)
		if err != nil {
			log.Warn().Err(err).Str("sku", product.SKU).Msg("supplier lookup failed, using product lead time")
		} else if supplier.LeadTimeDays > 0 {
			return supplier.LeadTimeDays
		}
	}
	if product.LeadTimeDays > 0 {
		return product.LeadTimeDays
	}
	return defaultLeadTimeDays
}
