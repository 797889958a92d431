package reorder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLedger struct {
	history      []domain.DemandObservation
	historyErr   error
	historyDelay time.Duration
	recent       []float64
	recentErr    error
}

func (s *stubLedger) DemandHistory(ctx context.Context, sku string) ([]domain.DemandObservation, error) {
	if s.historyDelay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.historyDelay):
		}
	}
	return s.history, s.historyErr
}

func (s *stubLedger) RecentQuantities(ctx context.Context, sku string, windowDays int) ([]float64, error) {
	return s.recent, s.recentErr
}

func constantHistory(days, quantity int) []domain.DemandObservation {
	obs := make([]domain.DemandObservation, days)
	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	for i := range obs {
		obs[i] = domain.DemandObservation{Date: start.AddDate(0, 0, i), Quantity: quantity}
	}
	return obs
}

func TestReorderPointConstantDemand(t *testing.T) {
	// 30 days of 10 units: lead-time forecast totals 70 and the window
	// std dev is 0, so the reorder point is exactly the forecast total.
	recent := make([]float64, 30)
	for i := range recent {
		recent[i] = 10
	}
	ledger := &stubLedger{history: constantHistory(30, 10), recent: recent}
	calc := NewCalculator(ledger, Options{})

	got, err := calc.ReorderPoint(context.Background(), "SKU-1", 7, 0.95)
	require.NoError(t, err)
	assert.Equal(t, 70, got)
}

func TestReorderPointNeverNegative(t *testing.T) {
	// Empty history: forecast degrades to 0 and variability falls back to
	// the default. A sub-0.5 service level makes the buffer negative, which
	// must clamp to zero rather than propagate.
	ledger := &stubLedger{}
	calc := NewCalculator(ledger, Options{})

	got, err := calc.ReorderPoint(context.Background(), "SKU-1", 7, 0.05)
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestReorderPointDefaultStdDevFallback(t *testing.T) {
	// No transactions in the variability window: σ falls back to 5 units.
	ledger := &stubLedger{history: constantHistory(30, 10)}
	calc := NewCalculator(ledger, Options{})

	got, err := calc.ReorderPoint(context.Background(), "SKU-1", 7, 0.95)
	require.NoError(t, err)

	// 70 + 1.6449*5 = 78.22, truncated.
	assert.Equal(t, 78, got)
}

func TestReorderPointSoftFailsOnEmptyHistory(t *testing.T) {
	recent := []float64{4, 6, 5}
	ledger := &stubLedger{recent: recent}
	calc := NewCalculator(ledger, Options{})

	// σ of {4,6,5} ≈ 0.8165, z=1.6449 → buffer ≈ 1.34; forecast is 0.
	got, err := calc.ReorderPoint(context.Background(), "SKU-1", 14, 0.95)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestReorderPointForecastTimeout(t *testing.T) {
	ledger := &stubLedger{
		history:      constantHistory(30, 10),
		historyDelay: 200 * time.Millisecond,
		recent:       []float64{10, 10, 10},
	}
	calc := NewCalculator(ledger, Options{ForecastTimeout: 20 * time.Millisecond})

	start := time.Now()
	got, err := calc.ReorderPoint(context.Background(), "SKU-1", 7, 0.95)
	require.NoError(t, err)
	assert.Equal(t, 0, got)
	assert.Less(t, time.Since(start), 150*time.Millisecond)
}

func TestReorderPointParameterValidation(t *testing.T) {
	calc := NewCalculator(&stubLedger{}, Options{})

	_, err := calc.ReorderPoint(context.Background(), "SKU-1", 0, 0.95)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)

	_, err = calc.ReorderPoint(context.Background(), "SKU-1", 7, 1.0)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)

	_, err = calc.ReorderPoint(context.Background(), "SKU-1", 7, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestReorderPointPropagatesLedgerError(t *testing.T) {
	dbErr := errors.New("connection reset")
	ledger := &stubLedger{history: constantHistory(30, 10), recentErr: dbErr}
	calc := NewCalculator(ledger, Options{})

	_, err := calc.ReorderPoint(context.Background(), "SKU-1", 7, 0.95)
	assert.ErrorIs(t, err, dbErr)
}
