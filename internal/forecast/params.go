// internal/forecast/params.go
package forecast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/andresuchdata/stockcast/internal/domain"
)

// Strategy selects one of the two interchangeable forecasting models.
type Strategy string

const (
	// StrategyTrend is the additive trend + seasonality regression model.
	StrategyTrend Strategy = "trend"
	// StrategyARIMA is the autoregressive integrated moving-average model.
	StrategyARIMA Strategy = "arima"
)

// ARIMAOrder is the (p,d,q) order of an ARIMA model. Callers supplying the
// "p,d,q" wire form go through ParseARIMAOrder; everything past the boundary
// works with the struct.
type ARIMAOrder struct {
	P int `json:"p"`
	D int `json:"d"`
	Q int `json:"q"`
}

// DefaultARIMAOrder is the order used when the caller does not supply one.
var DefaultARIMAOrder = ARIMAOrder{P: 5, D: 1, Q: 0}

func (o ARIMAOrder) String() string {
	return fmt.Sprintf("(%d,%d,%d)", o.P, o.D, o.Q)
}

// Tuple renders the order as [p,d,q] for the arima_order_used response field.
func (o ARIMAOrder) Tuple() [3]int { return [3]int{o.P, o.D, o.Q} }

// ParseARIMAOrder parses a "p,d,q" string. Malformed or negative components
// are rejected before any model work begins.
func ParseARIMAOrder(s string) (ARIMAOrder, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return ARIMAOrder{}, fmt.Errorf("%w: arima order %q, want \"p,d,q\"", domain.ErrInvalidParameter, s)
	}
	vals := make([]int, 3)
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || v < 0 {
			return ARIMAOrder{}, fmt.Errorf("%w: arima order %q, want \"p,d,q\"", domain.ErrInvalidParameter, s)
		}
		vals[i] = v
	}
	return ARIMAOrder{P: vals[0], D: vals[1], Q: vals[2]}, nil
}

// Params configures a single forecast run.
type Params struct {
	Strategy Strategy
	Order    ARIMAOrder
}

// DefaultParams returns ARIMA parameters with the default order.
func DefaultParams(strategy Strategy) Params {
	return Params{Strategy: strategy, Order: DefaultARIMAOrder}
}
