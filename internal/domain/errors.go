// internal/domain/errors.go
package domain

import "errors"

var (
	// ErrEmptyInput means there is no transaction history at all for a SKU.
	// Callers must treat it as "insufficient history", never as zero demand.
	ErrEmptyInput = errors.New("no historical transaction data")

	// ErrInsufficientData means the history is shorter than the requested
	// validation/training split.
	ErrInsufficientData = errors.New("insufficient data for requested split")

	// ErrForecastUnavailable means the underlying model failed to fit.
	// A failed fit is reported, not retried.
	ErrForecastUnavailable = errors.New("forecast unavailable")

	// ErrInvalidParameter means a malformed ARIMA order, non-positive
	// horizon, or out-of-range service level was rejected before any model
	// work began.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrProductNotFound means the SKU does not exist in the catalog.
	ErrProductNotFound = errors.New("product not found")
)
