// internal/forecast/trend.go
package forecast

import (
	"fmt"
	"math"
	"time"

	"github.com/andresuchdata/stockcast/internal/timeseries"
)

const (
	weeklyMinDays = 14
	yearlyMinDays = 730
	daysPerYear   = 365.25
)

// trendModel is the additive decomposition model: a linear trend plus weekly
// (weekday dummies) and, with two years of history, yearly (first-order
// Fourier) seasonal components, fitted jointly by least squares over the full
// series.
type trendModel struct {
	beta   []float64
	scale  float64
	weekly bool
	yearly bool
	start  time.Time
	n      int
}

func fitTrend(series timeseries.Series) (*trendModel, error) {
	n := series.Len()
	if n < 3 {
		return nil, fmt.Errorf("series of %d points too short for trend decomposition", n)
	}

	m := &trendModel{
		scale:  float64(n - 1),
		weekly: n >= weeklyMinDays,
		yearly: n >= yearlyMinDays,
		start:  series.Start(),
		n:      n,
	}

	x := make([][]float64, n)
	y := make([]float64, n)
	for t := 0; t < n; t++ {
		x[t] = m.features(t)
		y[t] = series.Value(t)
	}

	beta, err := solveOLS(x, y)
	if err != nil {
		return nil, err
	}
	m.beta = beta
	return m, nil
}

// features builds the regression row for day index t (days since the series
// start). The same row layout serves fitting and projection.
func (m *trendModel) features(t int) []float64 {
	date := m.start.Add(time.Duration(t) * 24 * time.Hour)

	row := []float64{1, float64(t) / m.scale}
	if m.weekly {
		// Six dummies, Sunday as baseline.
		wd := int(date.Weekday())
		for k := 1; k <= 6; k++ {
			if wd == k {
				row = append(row, 1)
			} else {
				row = append(row, 0)
			}
		}
	}
	if m.yearly {
		phase := 2 * math.Pi * float64(date.YearDay()) / daysPerYear
		row = append(row, math.Sin(phase), math.Cos(phase))
	}
	return row
}

// forecast projects the fitted components horizon days past the series end.
// In-sample fitted values are never returned.
func (m *trendModel) forecast(horizon int) []float64 {
	out := make([]float64, horizon)
	for k := 0; k < horizon; k++ {
		row := m.features(m.n + k)
		v := 0.0
		for i, b := range m.beta {
			v += b * row[i]
		}
		out[k] = v
	}
	return out
}
