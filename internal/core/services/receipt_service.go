package services

import (
	"context"
	"strings"
	"unicode/utf8"

	portssvc "github.com/expenza/expense_flow_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// receiptScannerService is a heuristic scanner for text receipts. Image OCR
// would slot in behind the same interface; binary uploads simply yield an
// empty result.
type receiptScannerService struct {
	BaseService
}

// NewReceiptScannerService creates a new receipt scanner.
func NewReceiptScannerService() portssvc.ReceiptScannerSvc {
	return &receiptScannerService{}
}

var _ portssvc.ReceiptScannerSvc = (*receiptScannerService)(nil)

var knownCurrencies = []string{"USD", "EUR", "GBP", "INR", "JPY", "CAD", "AUD"}

func (s *receiptScannerService) ScanReceipt(ctx context.Context, data []byte, filename string) (*portssvc.ReceiptScanResult, error) {
	result := &portssvc.ReceiptScanResult{}
	if !utf8.Valid(data) {
		return result, nil
	}

	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if result.Merchant == "" && i == 0 {
			result.Merchant = trimmed
		}
		if result.Currency == "" {
			for _, code := range knownCurrencies {
				if strings.Contains(trimmed, code) {
					result.Currency = code
					break
				}
			}
		}
		upper := strings.ToUpper(trimmed)
		if strings.Contains(upper, "TOTAL") {
			if amount, ok := parseTrailingAmount(trimmed); ok {
				result.Amount = &amount
			}
		}
	}
	return result, nil
}

// parseTrailingAmount extracts a decimal amount from the end of a line like
// "TOTAL: USD 42.50".
func parseTrailingAmount(line string) (decimal.Decimal, bool) {
	fields := strings.Fields(line)
	for i := len(fields) - 1; i >= 0; i-- {
		token := strings.Trim(fields[i], "$€£₹¥,")
		amount, err := decimal.NewFromString(token)
		if err == nil && amount.IsPositive() {
			return amount, true
		}
	}
	return decimal.Zero, false
}
