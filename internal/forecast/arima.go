// internal/forecast/arima.go
package forecast

import (
	"fmt"
	"math"

	"github.com/andresuchdata/stockcast/internal/timeseries"
)

// arimaModel is a fitted ARIMA(p,d,q). The AR and MA coefficients are
// estimated by Hannan-Rissanen conditional least squares: a long AR fit
// supplies residual proxies, then the final regression runs on p value lags
// and q residual lags. Each invocation refits from scratch.
type arimaModel struct {
	order     ARIMAOrder
	intercept float64
	phi       []float64 // AR coefficients, lag 1..p
	theta     []float64 // MA coefficients, lag 1..q
	wTail     []float64 // trailing differenced values, oldest first
	eTail     []float64 // trailing residuals, oldest first
	seeds     []float64 // last level value at each differencing stage
}

func fitARIMA(series timeseries.Series, order ARIMAOrder) (*arimaModel, error) {
	y := series.Values()
	if len(y) <= order.D {
		return nil, fmt.Errorf("series of %d points cannot be differenced %d times", len(y), order.D)
	}

	// Apply d-fold first differencing, remembering the last level value at
	// each stage so forecasts can be integrated back.
	w := y
	seeds := make([]float64, 0, order.D)
	for i := 0; i < order.D; i++ {
		seeds = append(seeds, w[len(w)-1])
		w = diff(w)
	}

	m := &arimaModel{order: order, seeds: seeds}

	if isConstant(w) {
		// Zero-variance differenced series: an intercept-only model is the
		// exact fit, and the regression below would be singular.
		m.intercept = meanOf(w)
		m.phi = make([]float64, order.P)
		m.theta = make([]float64, order.Q)
		m.wTail = tailOf(w, order.P)
		m.eTail = make([]float64, order.Q)
		return m, nil
	}

	if err := m.estimate(w); err != nil {
		return nil, err
	}

	resid := m.residuals(w)
	m.wTail = tailOf(w, order.P)
	m.eTail = tailOf(resid, order.Q)
	return m, nil
}

// estimate fills intercept, phi and theta from the differenced series.
func (m *arimaModel) estimate(w []float64) error {
	p, q := m.order.P, m.order.Q
	n := len(w)

	if p == 0 && q == 0 {
		m.intercept = meanOf(w)
		return nil
	}

	var eProxy []float64
	if q > 0 {
		long := p + q
		if long < 1 {
			long = 1
		}
		if max := (n - 1) / 2; long > max {
			long = max
		}
		if long < 1 {
			return fmt.Errorf("series of %d differenced points too short for ARMA(%d,%d)", n, p, q)
		}
		var err error
		eProxy, err = longARResiduals(w, long)
		if err != nil {
			return err
		}
	}

	start := p
	if q > 0 && q > start {
		start = q
	}
	rows := n - start
	cols := 1 + p + q
	if rows < cols {
		return fmt.Errorf("series of %d differenced points too short for ARMA(%d,%d)", n, p, q)
	}

	x := make([][]float64, rows)
	yv := make([]float64, rows)
	for r := 0; r < rows; r++ {
		t := start + r
		row := make([]float64, 0, cols)
		row = append(row, 1)
		for i := 1; i <= p; i++ {
			row = append(row, w[t-i])
		}
		for j := 1; j <= q; j++ {
			row = append(row, eProxy[t-j])
		}
		x[r] = row
		yv[r] = w[t]
	}

	beta, err := solveOLS(x, yv)
	if err != nil {
		return err
	}

	m.intercept = beta[0]
	m.phi = beta[1 : 1+p]
	m.theta = beta[1+p:]
	return nil
}

// residuals runs one full in-sample pass with the fitted coefficients.
// Unavailable lags are treated as zero, the usual conditional convention.
func (m *arimaModel) residuals(w []float64) []float64 {
	e := make([]float64, len(w))
	for t := range w {
		pred := m.intercept
		for i, c := range m.phi {
			if t-i-1 >= 0 {
				pred += c * w[t-i-1]
			}
		}
		for j, c := range m.theta {
			if t-j-1 >= 0 {
				pred += c * e[t-j-1]
			}
		}
		e[t] = w[t] - pred
	}
	return e
}

// forecast produces horizon steps ahead in level space, applying the AR/MA
// recursion in differenced space and integrating back through the seeds.
// Future shocks are zero.
func (m *arimaModel) forecast(horizon int) []float64 {
	w := append([]float64(nil), m.wTail...)
	e := append([]float64(nil), m.eTail...)

	out := make([]float64, 0, horizon)
	for k := 0; k < horizon; k++ {
		v := m.intercept
		for i, c := range m.phi {
			if idx := len(w) - i - 1; idx >= 0 {
				v += c * w[idx]
			}
		}
		for j, c := range m.theta {
			if idx := len(e) - j - 1; idx >= 0 {
				v += c * e[idx]
			}
		}
		w = append(w, v)
		e = append(e, 0)
		out = append(out, v)
	}

	for level := len(m.seeds) - 1; level >= 0; level-- {
		running := m.seeds[level]
		for k := range out {
			running += out[k]
			out[k] = running
		}
	}
	return out
}

// longARResiduals fits a plain AR(order) by least squares and returns its
// residual sequence as a proxy for the unobserved shocks.
func longARResiduals(w []float64, order int) ([]float64, error) {
	n := len(w)
	rows := n - order
	if rows < order+1 {
		return nil, fmt.Errorf("series of %d differenced points too short for AR(%d) proxy", n, order)
	}

	x := make([][]float64, rows)
	yv := make([]float64, rows)
	for r := 0; r < rows; r++ {
		t := order + r
		row := make([]float64, 0, order+1)
		row = append(row, 1)
		for i := 1; i <= order; i++ {
			row = append(row, w[t-i])
		}
		x[r] = row
		yv[r] = w[t]
	}

	beta, err := solveOLS(x, yv)
	if err != nil {
		return nil, err
	}

	e := make([]float64, n)
	for t := order; t < n; t++ {
		pred := beta[0]
		for i := 1; i <= order; i++ {
			pred += beta[i] * w[t-i]
		}
		e[t] = w[t] - pred
	}
	return e, nil
}

func diff(v []float64) []float64 {
	out := make([]float64, len(v)-1)
	for i := 1; i < len(v); i++ {
		out[i-1] = v[i] - v[i-1]
	}
	return out
}

func isConstant(v []float64) bool {
	if len(v) == 0 {
		return true
	}
	lo, hi := v[0], v[0]
	for _, x := range v {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return hi-lo < 1e-10
}

func meanOf(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}

func tailOf(v []float64, n int) []float64 {
	if n >= len(v) {
		return append([]float64(nil), v...)
	}
	return append([]float64(nil), v[len(v)-n:]...)
}
