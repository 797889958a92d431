// internal/forecast/leastsquares.go
package forecast

import (
	"errors"
	"math"
)

var errSingular = errors.New("singular design matrix")

// solveOLS fits y = X·beta by ordinary least squares via the normal
// equations. The design matrices here are tiny (at most a dozen columns), so
// Gaussian elimination with partial pivoting is enough.
func solveOLS(x [][]float64, y []float64) ([]float64, error) {
	rows := len(x)
	if rows == 0 || rows != len(y) {
		return nil, errSingular
	}
	cols := len(x[0])
	if rows < cols {
		return nil, errSingular
	}

	// xtx = Xᵀ·X, xty = Xᵀ·y
	xtx := make([][]float64, cols)
	xty := make([]float64, cols)
	for i := 0; i < cols; i++ {
		xtx[i] = make([]float64, cols)
	}
	for r := 0; r < rows; r++ {
		for i := 0; i < cols; i++ {
			xty[i] += x[r][i] * y[r]
			for j := i; j < cols; j++ {
				xtx[i][j] += x[r][i] * x[r][j]
			}
		}
	}
	for i := 1; i < cols; i++ {
		for j := 0; j < i; j++ {
			xtx[i][j] = xtx[j][i]
		}
	}

	return solveLinear(xtx, xty)
}

// solveLinear solves a·x = b in place with partial pivoting.
func solveLinear(a [][]float64, b []float64) ([]float64, error) {
	n := len(a)
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return nil, errSingular
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		for r := col + 1; r < n; r++ {
			f := a[r][col] / a[col][col]
			for c := col; c < n; c++ {
				a[r][c] -= f * a[col][c]
			}
			b[r] -= f * b[col]
		}
	}

	x := make([]float64, n)
	for r := n - 1; r >= 0; r-- {
		sum := b[r]
		for c := r + 1; c < n; c++ {
			sum -= a[r][c] * x[c]
		}
		x[r] = sum / a[r][r]
	}

	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errSingular
		}
	}
	return x, nil
}
