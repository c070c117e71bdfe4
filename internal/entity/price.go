package entity

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// PricePoint is the daily close of the tracked asset.
type PricePoint struct {
	Date  civil.Date      `json:"date"`
	Close decimal.Decimal `json:"close"`
}

// PriceSeries is ordered by date ascending.
type PriceSeries []PricePoint
