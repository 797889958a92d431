package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/stockcast/internal/backtest"
	"github.com/andresuchdata/stockcast/internal/cache"
	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/forecast"
	"github.com/andresuchdata/stockcast/internal/repository"
	"github.com/andresuchdata/stockcast/internal/timeseries"
)

// ForecastService wires the ledger, the series preparer and the forecast
// engine behind the HTTP handlers, with a cache-aside on forecast results.
type ForecastService struct {
	products     repository.ProductRepository
	transactions repository.TransactionRepository
	cache        cache.ForecastCache
}

func NewForecastService(
	products repository.ProductRepository,
	transactions repository.TransactionRepository,
	cacheImpl cache.ForecastCache,
) *ForecastService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopForecastCache()
	}
	return &ForecastService{products: products, transactions: transactions, cache: cacheImpl}
}

// Forecast returns the product and its future demand curve. The series is
// rebuilt from the ledger on every miss; fitted models are never reused.
func (s *ForecastService) Forecast(ctx context.Context, sku string, horizon int, params forecast.Params) (*domain.Product, []domain.ForecastPoint, error) {
	product, err := s.products.GetBySKU(ctx, sku)
	if err != nil {
		return nil, nil, err
	}

	key := cache.ForecastKey{SKU: sku, Strategy: params.Strategy, Order: params.Order, Horizon: horizon}
	if points, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		return product, points, nil
	} else if err != nil {
		log.Warn().Err(err).Str("sku", sku).Msg("forecast: cache get failed")
	}

	series, err := s.prepareSeries(ctx, sku)
	if err != nil {
		return nil, nil, err
	}

	points, err := forecast.Forecast(series, horizon, params)
	if err != nil {
		// The product is still returned so callers can describe it even
		// when no model could be fitted.
		return product, nil, err
	}

	if err := s.cache.Set(ctx, key, points); err != nil {
		log.Warn().Err(err).Str("sku", sku).Msg("forecast: cache set failed")
	}

	return product, points, nil
}

// Backtest evaluates a strategy against the held-out suffix of the SKU's
// history. Results are ephemeral and never cached.
func (s *ForecastService) Backtest(ctx context.Context, sku string, validationHorizon int, params forecast.Params) (*domain.Product, *backtest.Result, error) {
	product, err := s.products.GetBySKU(ctx, sku)
	if err != nil {
		return nil, nil, err
	}

	series, err := s.prepareSeries(ctx, sku)
	if err != nil {
		return nil, nil, err
	}

	result, err := backtest.Run(series, validationHorizon, params)
	if err != nil {
		return nil, nil, err
	}
	return product, result, nil
}

func (s *ForecastService) prepareSeries(ctx context.Context, sku string) (timeseries.Series, error) {
	observations, err := s.transactions.DemandHistory(ctx, sku)
	if err != nil {
		return timeseries.Series{}, err
	}
	return timeseries.Prepare(observations)
}
