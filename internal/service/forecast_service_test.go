package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/stockcast/internal/cache"
	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/forecast"
)

type stubProducts struct {
	products map[string]*domain.Product
}

func (s *stubProducts) GetBySKU(_ context.Context, sku string) (*domain.Product, error) {
	if p, ok := s.products[sku]; ok {
		return p, nil
	}
	return nil, domain.ErrProductNotFound
}

func (s *stubProducts) ListActive(context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, *p)
	}
	return out, nil
}

func (s *stubProducts) UpdateReorderPoint(_ context.Context, sku string, reorderPoint int) error {
	p, ok := s.products[sku]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.ReorderPoint = reorderPoint
	return nil
}

type stubTransactions struct {
	history map[string][]domain.DemandObservation
	calls   int
}

func (s *stubTransactions) DemandHistory(_ context.Context, sku string) ([]domain.DemandObservation, error) {
	s.calls++
	return s.history[sku], nil
}

func (s *stubTransactions) RecentQuantities(context.Context, string, int) ([]float64, error) {
	return nil, nil
}

type memoryCache struct {
	entries map[string][]domain.ForecastPoint
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]domain.ForecastPoint)}
}

func (c *memoryCache) key(k cache.ForecastKey) string {
	return fmt.Sprintf("%s|%s|%s|%d", k.SKU, k.Strategy, k.Order, k.Horizon)
}

func (c *memoryCache) Get(_ context.Context, k cache.ForecastKey) ([]domain.ForecastPoint, bool, error) {
	points, ok := c.entries[c.key(k)]
	return points, ok, nil
}

func (c *memoryCache) Set(_ context.Context, k cache.ForecastKey, points []domain.ForecastPoint) error {
	c.entries[c.key(k)] = points
	return nil
}

func (c *memoryCache) InvalidateSKU(_ context.Context, sku string) error {
	for key := range c.entries {
		if len(key) >= len(sku) && key[:len(sku)] == sku {
			delete(c.entries, key)
		}
	}
	return nil
}

func steadyHistory(days, quantity int) []domain.DemandObservation {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	observations := make([]domain.DemandObservation, 0, days)
	for i := 0; i < days; i++ {
		observations = append(observations, domain.DemandObservation{
			Date:     start.AddDate(0, 0, i),
			Quantity: quantity,
		})
	}
	return observations
}

func newTestService(history []domain.DemandObservation, c cache.ForecastCache) (*ForecastService, *stubTransactions) {
	products := &stubProducts{products: map[string]*domain.Product{
		"WIDGET-1": {SKU: "WIDGET-1", Name: "Widget"},
	}}
	transactions := &stubTransactions{history: map[string][]domain.DemandObservation{
		"WIDGET-1": history,
	}}
	return NewForecastService(products, transactions, c), transactions
}

func TestForecastUnknownProduct(t *testing.T) {
	svc, _ := newTestService(nil, nil)

	_, _, err := svc.Forecast(context.Background(), "NOPE", 7, forecast.DefaultParams(forecast.StrategyARIMA))
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestForecastNoHistory(t *testing.T) {
	svc, _ := newTestService(nil, nil)

	product, _, err := svc.Forecast(context.Background(), "WIDGET-1", 7, forecast.DefaultParams(forecast.StrategyARIMA))
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
	assert.Nil(t, product)
}

func TestForecastCacheAside(t *testing.T) {
	memory := newMemoryCache()
	svc, transactions := newTestService(steadyHistory(30, 10), memory)
	params := forecast.DefaultParams(forecast.StrategyARIMA)

	product, first, err := svc.Forecast(context.Background(), "WIDGET-1", 7, params)
	require.NoError(t, err)
	assert.Equal(t, "Widget", product.Name)
	require.Len(t, first, 7)
	assert.Equal(t, 1, transactions.calls)

	// Second identical call is served from the cache without touching the ledger.
	_, second, err := svc.Forecast(context.Background(), "WIDGET-1", 7, params)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, transactions.calls)

	// A different horizon is a different key.
	_, _, err = svc.Forecast(context.Background(), "WIDGET-1", 14, params)
	require.NoError(t, err)
	assert.Equal(t, 2, transactions.calls)
}

func TestBacktestNeverCached(t *testing.T) {
	memory := newMemoryCache()
	svc, transactions := newTestService(steadyHistory(30, 10), memory)
	params := forecast.DefaultParams(forecast.StrategyARIMA)

	_, result, err := svc.Backtest(context.Background(), "WIDGET-1", 7, params)
	require.NoError(t, err)
	require.Len(t, result.Forecast, 7)
	assert.Empty(t, memory.entries)

	_, _, err = svc.Backtest(context.Background(), "WIDGET-1", 7, params)
	require.NoError(t, err)
	assert.Equal(t, 2, transactions.calls)
}

func TestForecastUnavailableStillReturnsProduct(t *testing.T) {
	// A short, non-constant history cannot support an ARIMA(5,1,0) fit.
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	history := []domain.DemandObservation{
		{Date: start, Quantity: 5},
		{Date: start.AddDate(0, 0, 1), Quantity: 9},
		{Date: start.AddDate(0, 0, 2), Quantity: 2},
		{Date: start.AddDate(0, 0, 3), Quantity: 7},
	}
	svc, _ := newTestService(history, nil)

	product, points, err := svc.Forecast(context.Background(), "WIDGET-1", 7, forecast.DefaultParams(forecast.StrategyARIMA))
	assert.ErrorIs(t, err, domain.ErrForecastUnavailable)
	assert.Nil(t, points)
	require.NotNil(t, product)
	assert.Equal(t, "Widget", product.Name)
}
