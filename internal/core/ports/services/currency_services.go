package services

import (
	"context"

	"github.com/shopspring/decimal"
)

// ExchangeRateSvcFacade converts amounts between currencies using cached
// rates. Implementations cache rates per base currency with a TTL and fetch
// at most once per window.
type ExchangeRateSvcFacade interface {
	// Convert converts amount from one currency to another. Returns the
	// amount unchanged when the currencies are equal.
	Convert(ctx context.Context, amount decimal.Decimal, fromCurrency, toCurrency string) (decimal.Decimal, error)

	// GetRates returns the rate table for a base currency.
	GetRates(ctx context.Context, baseCurrency string) (map[string]decimal.Decimal, error)
}

// ReceiptScannerSvc extracts structured fields from an uploaded receipt.
// It is a best-effort collaborator: failures are logged by callers and never
// block expense submission.
type ReceiptScannerSvc interface {
	ScanReceipt(ctx context.Context, data []byte, filename string) (*ReceiptScanResult, error)
}

// ReceiptScanResult holds fields extracted from a receipt image.
type ReceiptScanResult struct {
	Merchant string
	Amount   *decimal.Decimal
	Currency string
}
