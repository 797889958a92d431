// internal/forecast/forecast.go
//
// The forecast engine: two interchangeable strategies producing a future
// daily demand curve from a prepared series. Both strategies surface fitting
// failures as domain.ErrForecastUnavailable and let the caller decide whether
// "empty" or "aborted" is the right rendering.
package forecast

import (
	"fmt"
	"time"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/timeseries"
)

// Forecast fits the selected strategy on the full series and returns exactly
// horizon points, dates strictly increasing, starting the day after the last
// observed date. Fit-and-discard: no state survives between calls.
func Forecast(series timeseries.Series, horizon int, params Params) ([]domain.ForecastPoint, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("%w: horizon must be a positive integer, got %d", domain.ErrInvalidParameter, horizon)
	}
	if params.Strategy != StrategyTrend && params.Strategy != StrategyARIMA {
		return nil, fmt.Errorf("%w: unknown strategy %q", domain.ErrInvalidParameter, params.Strategy)
	}
	if series.Len() == 0 {
		return nil, fmt.Errorf("forecast: %w", domain.ErrEmptyInput)
	}

	values, err := fitAndProject(series, horizon, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %s model: %v", domain.ErrForecastUnavailable, params.Strategy, err)
	}

	points := make([]domain.ForecastPoint, horizon)
	for k := 0; k < horizon; k++ {
		points[k] = domain.ForecastPoint{
			Date:     series.End().Add(time.Duration(k+1) * 24 * time.Hour),
			Quantity: values[k],
		}
	}
	return points, nil
}

func fitAndProject(series timeseries.Series, horizon int, params Params) ([]float64, error) {
	switch params.Strategy {
	case StrategyTrend:
		model, err := fitTrend(series)
		if err != nil {
			return nil, err
		}
		return model.forecast(horizon), nil
	default:
		order := params.Order
		if order == (ARIMAOrder{}) {
			order = DefaultARIMAOrder
		}
		model, err := fitARIMA(series, order)
		if err != nil {
			return nil, err
		}
		return model.forecast(horizon), nil
	}
}
