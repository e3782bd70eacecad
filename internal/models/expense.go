package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Expense is the persistence shape of an expense claim.
type Expense struct {
	ExpenseID       string              `db:"expense_id"`
	CompanyID       string              `db:"company_id"`
	SubmitterID     string              `db:"submitter_id"`
	Title           string              `db:"title"`
	Description     string              `db:"description"`
	Amount          decimal.Decimal     `db:"amount"`
	Currency        string              `db:"currency"`
	ConvertedAmount decimal.NullDecimal `db:"converted_amount"`
	Category        string              `db:"category"`
	ExpenseDate     time.Time           `db:"expense_date"`
	ReceiptURL      sql.NullString      `db:"receipt_url"`
	Status          string              `db:"status"`
	AuditFields
}
