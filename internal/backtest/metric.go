// internal/backtest/metric.go
package backtest

import (
	"bytes"
	"math"
	"strconv"
)

// Metric is an accuracy score that serializes non-finite values as the JSON
// string "NaN" instead of failing to marshal, matching the wire format the
// dashboard already consumes.
type Metric float64

func (m Metric) IsNaN() bool { return math.IsNaN(float64(m)) }

func (m Metric) MarshalJSON() ([]byte, error) {
	f := float64(m)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte(`"NaN"`), nil
	}
	return []byte(strconv.FormatFloat(f, 'g', -1, 64)), nil
}

func (m *Metric) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(data, []byte(`"`)) {
		*m = Metric(math.NaN())
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*m = Metric(f)
	return nil
}
