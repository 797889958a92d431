// internal/timeseries/series.go
package timeseries

import "time"

const day = 24 * time.Hour

// Series is a dense daily demand series: one value per calendar day, strictly
// increasing dates, frequency of one day. Built fresh per request, never
// persisted.
type Series struct {
	start  time.Time
	values []float64
}

// New builds a Series from a start day and daily values. The start time is
// truncated to a UTC calendar day.
func New(start time.Time, values []float64) Series {
	return Series{start: Day(start), values: values}
}

// Day truncates a timestamp to its UTC calendar day.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s Series) Len() int { return len(s.values) }

// Start returns the first day of the series.
func (s Series) Start() time.Time { return s.start }

// End returns the last day of the series. Zero time for an empty series.
func (s Series) End() time.Time {
	if len(s.values) == 0 {
		return time.Time{}
	}
	return s.Date(len(s.values) - 1)
}

// Date returns the calendar day of index i.
func (s Series) Date(i int) time.Time {
	return s.start.Add(time.Duration(i) * day)
}

// Value returns the demand on day i.
func (s Series) Value(i int) float64 { return s.values[i] }

// Values returns a copy of the daily values.
func (s Series) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

// Tail returns the trailing n days of the series, or the whole series when it
// is shorter than n.
func (s Series) Tail(n int) Series {
	if n >= len(s.values) {
		return s
	}
	return Series{start: s.Date(len(s.values) - n), values: s.values[len(s.values)-n:]}
}

// Split cuts the series into a training prefix and a validation suffix of h
// days, in strict chronological order.
func (s Series) Split(h int) (train, validation Series) {
	if h >= len(s.values) {
		return Series{start: s.start}, s
	}
	cut := len(s.values) - h
	train = Series{start: s.start, values: s.values[:cut]}
	validation = Series{start: s.Date(cut), values: s.values[cut:]}
	return train, validation
}
