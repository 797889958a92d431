package timeseries

import (
	"testing"
	"time"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPrepareEmptyInput(t *testing.T) {
	_, err := Prepare(nil)
	require.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestPrepareSumsSameDayTransactions(t *testing.T) {
	obs := []domain.DemandObservation{
		{Date: time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC), Quantity: 3},
		{Date: time.Date(2025, 3, 1, 17, 45, 0, 0, time.UTC), Quantity: 4},
	}

	s, err := Prepare(obs)
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())
	assert.Equal(t, 7.0, s.Value(0))
	assert.Equal(t, date(2025, 3, 1), s.Start())
}

func TestPrepareForwardFillsGaps(t *testing.T) {
	obs := []domain.DemandObservation{
		{Date: date(2025, 3, 1), Quantity: 5},
		{Date: date(2025, 3, 4), Quantity: 2},
	}

	s, err := Prepare(obs)
	require.NoError(t, err)
	require.Equal(t, 4, s.Len())
	assert.Equal(t, []float64{5, 5, 5, 2}, s.Values())
}

func TestPrepareDenseCalendar(t *testing.T) {
	obs := []domain.DemandObservation{
		{Date: date(2025, 1, 15), Quantity: 1},
		{Date: date(2025, 1, 10), Quantity: 2},
		{Date: date(2025, 1, 12), Quantity: 3},
	}

	s, err := Prepare(obs)
	require.NoError(t, err)

	// Exactly one entry per calendar day between first and last date.
	require.Equal(t, 6, s.Len())
	for i := 0; i < s.Len(); i++ {
		assert.Equal(t, date(2025, 1, 10+i), s.Date(i))
	}
	assert.Equal(t, date(2025, 1, 15), s.End())
}

func TestPrepareDiscardsTimeOfDay(t *testing.T) {
	obs := []domain.DemandObservation{
		{Date: time.Date(2025, 6, 10, 23, 59, 59, 0, time.UTC), Quantity: 8},
	}

	s, err := Prepare(obs)
	require.NoError(t, err)
	assert.Equal(t, date(2025, 6, 10), s.Start())
}

func TestSplitChronological(t *testing.T) {
	s := New(date(2025, 2, 1), []float64{1, 2, 3, 4, 5, 6, 7})

	train, validation := s.Split(3)
	require.Equal(t, 4, train.Len())
	require.Equal(t, 3, validation.Len())
	assert.Equal(t, []float64{1, 2, 3, 4}, train.Values())
	assert.Equal(t, []float64{5, 6, 7}, validation.Values())

	// No validation date precedes any training date.
	assert.True(t, train.End().Before(validation.Start()))
	assert.Equal(t, train.End().Add(24*time.Hour), validation.Start())
}

func TestSplitLongerThanSeries(t *testing.T) {
	s := New(date(2025, 2, 1), []float64{1, 2, 3})

	train, validation := s.Split(5)
	assert.Equal(t, 0, train.Len())
	assert.Equal(t, 3, validation.Len())
}

func TestTail(t *testing.T) {
	s := New(date(2025, 2, 1), []float64{1, 2, 3, 4, 5})

	tail := s.Tail(2)
	assert.Equal(t, []float64{4, 5}, tail.Values())
	assert.Equal(t, date(2025, 2, 4), tail.Start())

	assert.Equal(t, 5, s.Tail(10).Len())
}
