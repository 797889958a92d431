// internal/backtest/backtest.go
//
// Backtesting: fit a strategy on a chronological training prefix and score
// its predictions against the held-out validation suffix. No shuffling, no
// leakage of validation dates into training.
package backtest

import (
	"fmt"
	"math"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/forecast"
	"github.com/andresuchdata/stockcast/internal/timeseries"
)

// Metrics holds the accuracy scores for one backtest run. NaN means "no
// usable data", which is deliberately distinct from a perfect 0.
type Metrics struct {
	MAE  Metric `json:"mae"`
	RMSE Metric `json:"rmse"`
}

// Result is the ephemeral outcome of one backtest: metrics plus the per-date
// validation predictions so callers can plot forecast against actuals.
type Result struct {
	Metrics  Metrics                `json:"metrics"`
	Forecast []domain.ForecastPoint `json:"forecast"`
	Params   forecast.Params        `json:"-"`
}

// Run splits the series into series[:n-h] for training and series[n-h:] for
// validation, fits the strategy on the training prefix only, and predicts
// exactly the validation suffix's dates.
func Run(series timeseries.Series, validationHorizon int, params forecast.Params) (*Result, error) {
	if validationHorizon <= 0 {
		return nil, fmt.Errorf("%w: validation horizon must be a positive integer, got %d",
			domain.ErrInvalidParameter, validationHorizon)
	}

	train, validation := series.Split(validationHorizon)
	if train.Len() == 0 || validation.Len() == 0 {
		return nil, fmt.Errorf("%w: need data for both training and validation periods (series=%d, validation=%d)",
			domain.ErrInsufficientData, series.Len(), validationHorizon)
	}

	points, err := forecast.Forecast(train, validation.Len(), params)
	if err != nil {
		return nil, err
	}

	// Paired exclusion: a non-finite prediction removes both the predicted
	// and the actual value, keeping the arrays aligned.
	actuals := make([]float64, 0, validation.Len())
	predicted := make([]float64, 0, validation.Len())
	for i, p := range points {
		if math.IsNaN(p.Quantity) || math.IsInf(p.Quantity, 0) {
			continue
		}
		actuals = append(actuals, validation.Value(i))
		predicted = append(predicted, p.Quantity)
	}

	return &Result{
		Metrics:  score(actuals, predicted),
		Forecast: points,
		Params:   params,
	}, nil
}

func score(actuals, predicted []float64) Metrics {
	if len(actuals) == 0 {
		nan := Metric(math.NaN())
		return Metrics{MAE: nan, RMSE: nan}
	}

	var absSum, sqSum float64
	for i := range actuals {
		d := predicted[i] - actuals[i]
		absSum += math.Abs(d)
		sqSum += d * d
	}
	n := float64(len(actuals))
	return Metrics{
		MAE:  Metric(absSum / n),
		RMSE: Metric(math.Sqrt(sqSum / n)),
	}
}
