// internal/timeseries/prepare.go
package timeseries

import (
	"fmt"
	"time"

	"github.com/andresuchdata/stockcast/internal/domain"
)

// Prepare normalizes raw ledger observations into a dense daily demand
// series. Observations on the same calendar day are summed, never
// overwritten; days with no activity carry the last known value forward.
func Prepare(observations []domain.DemandObservation) (Series, error) {
	if len(observations) == 0 {
		return Series{}, fmt.Errorf("prepare series: %w", domain.ErrEmptyInput)
	}

	daily := make(map[time.Time]float64, len(observations))
	var first, last time.Time
	for i, obs := range observations {
		d := Day(obs.Date)
		daily[d] += float64(obs.Quantity)
		if i == 0 || d.Before(first) {
			first = d
		}
		if i == 0 || d.After(last) {
			last = d
		}
	}

	n := int(last.Sub(first)/day) + 1
	values := make([]float64, 0, n)
	carry := 0.0
	for d := first; !d.After(last); d = d.Add(day) {
		if v, ok := daily[d]; ok {
			carry = v
		}
		values = append(values, carry)
	}

	return Series{start: first, values: values}, nil
}
