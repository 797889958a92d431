// internal/reorder/calculator.go
//
// Reorder-point calculation: forecasted lead-time demand plus a safety stock
// buffer derived from demand variability and a target service level.
package reorder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/forecast"
	"github.com/andresuchdata/stockcast/internal/repository"
	"github.com/andresuchdata/stockcast/internal/stat"
	"github.com/andresuchdata/stockcast/internal/timeseries"
)

const (
	// DefaultServiceLevel is the target probability of not stocking out
	// during lead time.
	DefaultServiceLevel = 0.95

	// defaultDemandStdDev substitutes for demand variability when no
	// transactions exist inside the history window.
	defaultDemandStdDev = 5.0
)

// Options tunes a Calculator. Zero values fall back to sensible defaults.
type Options struct {
	// ForecastTimeout bounds the lead-time demand forecast; on expiry the
	// forecast degrades to zero demand instead of blocking the write.
	ForecastTimeout time.Duration
	// DemandWindowDays is the history window for the variability estimate.
	DemandWindowDays int
	// Order is the ARIMA order used for the lead-time forecast.
	Order forecast.ARIMAOrder
}

// Calculator derives a safety-stock-adjusted reorder point per SKU. It holds
// no mutable state; concurrent use across SKUs is safe.
type Calculator struct {
	transactions repository.TransactionRepository
	timeout      time.Duration
	windowDays   int
	order        forecast.ARIMAOrder
}

func NewCalculator(transactions repository.TransactionRepository, opts Options) *Calculator {
	timeout := opts.ForecastTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	window := opts.DemandWindowDays
	if window <= 0 {
		window = 90
	}
	order := opts.Order
	if order == (forecast.ARIMAOrder{}) {
		order = forecast.DefaultARIMAOrder
	}
	return &Calculator{
		transactions: transactions,
		timeout:      timeout,
		windowDays:   window,
		order:        order,
	}
}

// ReorderPoint computes max(0, int(forecasted lead-time demand + z·σ)).
// Idempotent for identical history, lead time and service level; not
// repeatable across calls in time since it reads live history.
func (c *Calculator) ReorderPoint(ctx context.Context, sku string, leadTimeDays int, serviceLevel float64) (int, error) {
	if leadTimeDays <= 0 {
		return 0, fmt.Errorf("%w: lead time must be a positive number of days, got %d",
			domain.ErrInvalidParameter, leadTimeDays)
	}
	if serviceLevel <= 0 || serviceLevel >= 1 {
		return 0, fmt.Errorf("%w: service level must be in (0,1), got %v",
			domain.ErrInvalidParameter, serviceLevel)
	}

	forecastedDemand := c.leadTimeDemand(ctx, sku, leadTimeDays)

	stdDev, err := c.demandStdDev(ctx, sku)
	if err != nil {
		return 0, err
	}

	zScore := stat.NormQuantile(serviceLevel)
	safetyStock := zScore * stdDev

	reorderPoint := forecastedDemand + safetyStock
	if reorderPoint < 0 {
		return 0, nil
	}
	return int(reorderPoint), nil
}

// leadTimeDemand sums an in-process ARIMA forecast over the lead-time
// horizon. Every failure mode (no history, fit failure, timeout) degrades to
// zero demand rather than blocking the reorder-point write.
func (c *Calculator) leadTimeDemand(ctx context.Context, sku string, leadTimeDays int) float64 {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	type outcome struct {
		total float64
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		observations, err := c.transactions.DemandHistory(ctx, sku)
		if err != nil {
			done <- outcome{err: err}
			return
		}

		series, err := timeseries.Prepare(observations)
		if err != nil {
			done <- outcome{err: err}
			return
		}

		points, err := forecast.Forecast(series, leadTimeDays, forecast.Params{
			Strategy: forecast.StrategyARIMA,
			Order:    c.order,
		})
		if err != nil {
			done <- outcome{err: err}
			return
		}

		total := 0.0
		for _, p := range points {
			total += p.Quantity
		}
		done <- outcome{total: total}
	}()

	select {
	case <-ctx.Done():
		log.Warn().Str("sku", sku).Int("lead_time_days", leadTimeDays).
			Msg("lead-time forecast timed out, treating demand as 0")
		return 0
	case out := <-done:
		if out.err != nil {
			if errors.Is(out.err, domain.ErrEmptyInput) || errors.Is(out.err, domain.ErrForecastUnavailable) {
				log.Warn().Err(out.err).Str("sku", sku).Int("lead_time_days", leadTimeDays).
					Msg("lead-time forecast unavailable, treating demand as 0")
			} else {
				log.Error().Err(out.err).Str("sku", sku).Int("lead_time_days", leadTimeDays).
					Msg("lead-time forecast failed, treating demand as 0")
			}
			return 0
		}
		return out.total
	}
}

// demandStdDev estimates demand variability over the trailing window,
// falling back to a fixed default when the window has no transactions.
func (c *Calculator) demandStdDev(ctx context.Context, sku string) (float64, error) {
	quantities, err := c.transactions.RecentQuantities(ctx, sku, c.windowDays)
	if err != nil {
		return 0, fmt.Errorf("demand std dev for %s: %w", sku, err)
	}
	if len(quantities) == 0 {
		return defaultDemandStdDev, nil
	}
	return stat.StdDev(quantities), nil
}
