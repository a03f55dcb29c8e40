package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

func init() {
	// prices and totals go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// Column limits: stock and quantity are INTEGER, price is NUMERIC(12,2) and
// total_amount is NUMERIC(14,2).
const MaxQuantity = math.MaxInt32

var (
	MaxPrice      = decimal.RequireFromString("9999999999.99")
	MaxOrderTotal = decimal.RequireFromString("999999999999.99")
)
