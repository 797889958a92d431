package forecast

import (
	"math"
	"testing"
	"time"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/timeseries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func constantSeries(n int, v float64) timeseries.Series {
	values := make([]float64, n)
	for i := range values {
		values[i] = v
	}
	return timeseries.New(date(2025, 1, 1), values)
}

func TestParseARIMAOrder(t *testing.T) {
	order, err := ParseARIMAOrder("2,1,2")
	require.NoError(t, err)
	assert.Equal(t, ARIMAOrder{P: 2, D: 1, Q: 2}, order)

	order, err = ParseARIMAOrder(" 5, 1, 0 ")
	require.NoError(t, err)
	assert.Equal(t, DefaultARIMAOrder, order)

	for _, bad := range []string{"", "5,1", "5,1,0,0", "a,b,c", "5,-1,0", "5.5,1,0"} {
		_, err := ParseARIMAOrder(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidParameter, "input %q", bad)
	}
}

func TestForecastRejectsBadParameters(t *testing.T) {
	s := constantSeries(30, 10)

	_, err := Forecast(s, 0, DefaultParams(StrategyARIMA))
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)

	_, err = Forecast(s, -3, DefaultParams(StrategyTrend))
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)

	_, err = Forecast(s, 7, Params{Strategy: Strategy("prophet")})
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)

	_, err = Forecast(timeseries.Series{}, 7, DefaultParams(StrategyARIMA))
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestARIMAForecastShape(t *testing.T) {
	s := constantSeries(30, 10)

	points, err := Forecast(s, 14, DefaultParams(StrategyARIMA))
	require.NoError(t, err)
	require.Len(t, points, 14)

	// Points start the day after the last observed date and step one day.
	assert.Equal(t, s.End().Add(24*time.Hour), points[0].Date)
	for i := 1; i < len(points); i++ {
		assert.Equal(t, points[i-1].Date.Add(24*time.Hour), points[i].Date)
	}
}

func TestARIMAConstantSeries(t *testing.T) {
	s := constantSeries(30, 10)

	points, err := Forecast(s, 7, DefaultParams(StrategyARIMA))
	require.NoError(t, err)
	for _, p := range points {
		assert.InDelta(t, 10.0, p.Quantity, 1e-9)
	}
}

func TestARIMALinearSeries(t *testing.T) {
	// A straight line differences to a constant, so ARIMA(5,1,0) continues
	// the line exactly.
	values := make([]float64, 40)
	for i := range values {
		values[i] = 3 + 2*float64(i)
	}
	s := timeseries.New(date(2025, 1, 1), values)

	points, err := Forecast(s, 5, DefaultParams(StrategyARIMA))
	require.NoError(t, err)
	for k, p := range points {
		assert.InDelta(t, 3+2*float64(40+k), p.Quantity, 1e-6, "step %d", k)
	}
}

func TestARIMARecoversAR1(t *testing.T) {
	// Exact AR(1) recursion w[t] = 2 + 0.5*w[t-1]; least squares recovers
	// the generating coefficients and the forecast continues the recursion.
	values := make([]float64, 20)
	for i := 1; i < len(values); i++ {
		values[i] = 2 + 0.5*values[i-1]
	}
	s := timeseries.New(date(2025, 1, 1), values)

	points, err := Forecast(s, 3, Params{Strategy: StrategyARIMA, Order: ARIMAOrder{P: 1, D: 0, Q: 0}})
	require.NoError(t, err)

	want := values[len(values)-1]
	for _, p := range points {
		want = 2 + 0.5*want
		assert.InDelta(t, want, p.Quantity, 1e-6)
	}
}

func TestARIMAWithMovingAverageTerms(t *testing.T) {
	values := make([]float64, 60)
	for i := range values {
		values[i] = 20 + 5*math.Sin(float64(i)/3) + float64(i%4)
	}
	s := timeseries.New(date(2025, 1, 1), values)

	points, err := Forecast(s, 10, Params{Strategy: StrategyARIMA, Order: ARIMAOrder{P: 2, D: 1, Q: 1}})
	require.NoError(t, err)
	require.Len(t, points, 10)
	for _, p := range points {
		assert.False(t, math.IsNaN(p.Quantity) || math.IsInf(p.Quantity, 0))
	}
}

func TestARIMATooShortSeries(t *testing.T) {
	s := timeseries.New(date(2025, 1, 1), []float64{1, 5, 2})

	_, err := Forecast(s, 7, DefaultParams(StrategyARIMA))
	assert.ErrorIs(t, err, domain.ErrForecastUnavailable)
}

func TestTrendConstantSeries(t *testing.T) {
	s := constantSeries(30, 10)

	points, err := Forecast(s, 7, DefaultParams(StrategyTrend))
	require.NoError(t, err)
	require.Len(t, points, 7)
	for _, p := range points {
		assert.InDelta(t, 10.0, p.Quantity, 1e-6)
	}
}

func TestTrendLinearSeries(t *testing.T) {
	values := make([]float64, 28)
	for i := range values {
		values[i] = 1 + 0.5*float64(i)
	}
	s := timeseries.New(date(2025, 1, 1), values)

	points, err := Forecast(s, 4, DefaultParams(StrategyTrend))
	require.NoError(t, err)
	for k, p := range points {
		assert.InDelta(t, 1+0.5*float64(28+k), p.Quantity, 1e-6)
	}
}

func TestTrendWeeklySeasonality(t *testing.T) {
	// Eight weeks with a fixed weekly profile and no trend: the projection
	// must reproduce the profile for the matching future weekdays.
	profile := []float64{4, 9, 8, 7, 6, 5, 2}
	values := make([]float64, 56)
	start := date(2025, 1, 6)
	for i := range values {
		wd := int(start.Add(time.Duration(i) * 24 * time.Hour).Weekday())
		values[i] = profile[wd]
	}
	s := timeseries.New(start, values)

	points, err := Forecast(s, 7, DefaultParams(StrategyTrend))
	require.NoError(t, err)
	for _, p := range points {
		assert.InDelta(t, profile[int(p.Date.Weekday())], p.Quantity, 1e-6)
	}
}

func TestTrendTooShortSeries(t *testing.T) {
	s := timeseries.New(date(2025, 1, 1), []float64{5, 6})

	_, err := Forecast(s, 7, DefaultParams(StrategyTrend))
	assert.ErrorIs(t, err, domain.ErrForecastUnavailable)
}
