// Package money checks decimal amounts against the numeric(14,2) columns they are stored in.
package money

import (
	"github.com/shopspring/decimal"
)

// Scale is the number of decimals kept by the storage columns
const Scale = 2

var limit = decimal.New(1, 12)

// IsAmount reports whether d is positive, fits numeric(14,2) and carries no more than two decimals
func IsAmount(d decimal.Decimal) bool {
	return d.IsPositive() && d.LessThan(limit) && HasScale(d)
}

// HasScale reports whether d is representable with Scale decimals without rounding
func HasScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(Scale))
}
