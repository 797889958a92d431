// internal/domain/models.go
package domain

import (
	"encoding/json"
	"time"
)

// Product represents a stocked item. The forecasting core reads sku and lead
// time and writes reorder_point; everything else belongs to the catalog.
type Product struct {
	ID           int64     `json:"id" db:"id"`
	SKU          string    `json:"sku" db:"sku"`
	Name         string    `json:"name" db:"name"`
	Description  string    `json:"description" db:"description"`
	StockLevel   int       `json:"stock_level" db:"stock_level"`
	ReorderPoint int       `json:"reorder_point" db:"reorder_point"`
	LeadTimeDays int       `json:"lead_time_days" db:"lead_time_days"`
	SupplierID   *int64    `json:"supplier_id,omitempty" db:"supplier_id"`
	Discontinued bool      `json:"discontinued" db:"discontinued"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// ProductDetails is the slim product payload embedded in forecast responses.
type ProductDetails struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Supplier represents a replenishment source with its delivery lead time.
type Supplier struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	LeadTimeDays int       `json:"lead_time_days" db:"lead_time_days"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Transaction types mirror the ledger schema.
const (
	TransactionSale     = "sale"
	TransactionPurchase = "purchase"
)

// Transaction is a single ledger row. Read-only to the forecasting core.
type Transaction struct {
	ID              int64     `json:"id" db:"id"`
	ProductID       int64     `json:"product_id" db:"product_id"`
	TransactionType string    `json:"transaction_type" db:"transaction_type"`
	Quantity        int       `json:"quantity" db:"quantity"`
	TransactionDate time.Time `json:"transaction_date" db:"transaction_date"`
}

// DemandObservation is one raw (timestamp, quantity) pair from the ledger.
// Time-of-day is insignificant; the preparer truncates to calendar days.
type DemandObservation struct {
	Date     time.Time `db:"transaction_date"`
	Quantity int       `db:"quantity"`
}

// ForecastPoint is one predicted day of demand. The ds/yhat field names are
// the wire contract consumed by the dashboard.
type ForecastPoint struct {
	Date     time.Time
	Quantity float64
}

type forecastPointJSON struct {
	DS   string  `json:"ds"`
	YHat float64 `json:"yhat"`
}

func (p ForecastPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(forecastPointJSON{
		DS:   p.Date.Format("2006-01-02"),
		YHat: p.Quantity,
	})
}

func (p *ForecastPoint) UnmarshalJSON(data []byte) error {
	var raw forecastPointJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	date, err := time.Parse("2006-01-02", raw.DS)
	if err != nil {
		return err
	}
	p.Date = date
	p.Quantity = raw.YHat
	return nil
}
