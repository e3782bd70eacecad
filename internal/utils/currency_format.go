package utils

import (
	"github.com/shopspring/decimal"
)

// FormatAmount formats an amount with two decimal places prefixed by its
// currency code, e.g. "USD 120.50". Used for display strings in responses
// and analytics events.
func FormatAmount(amount decimal.Decimal, currency string) string {
	return currency + " " + amount.Round(2).StringFixed(2)
}
