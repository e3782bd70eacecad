package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseStatus is the lifecycle state of a submitted expense.
type ExpenseStatus string

const (
	ExpensePending  ExpenseStatus = "PENDING"
	ExpenseApproved ExpenseStatus = "APPROVED"
	ExpenseRejected ExpenseStatus = "REJECTED"
)

// IsTerminal reports whether the status ends the approval lifecycle.
func (s ExpenseStatus) IsTerminal() bool {
	return s == ExpenseApproved || s == ExpenseRejected
}

// ExpenseCategory classifies an expense for reporting.
type ExpenseCategory string

const (
	CategoryTravel         ExpenseCategory = "TRAVEL"
	CategoryMeals          ExpenseCategory = "MEALS"
	CategoryOfficeSupplies ExpenseCategory = "OFFICE_SUPPLIES"
	CategoryMarketing      ExpenseCategory = "MARKETING"
	CategoryTraining       ExpenseCategory = "TRAINING"
	CategoryUtilities      ExpenseCategory = "UTILITIES"
	CategoryOther          ExpenseCategory = "OTHER"
)

// ValidCategories lists the accepted expense categories.
func ValidCategories() []ExpenseCategory {
	return []ExpenseCategory{
		CategoryTravel, CategoryMeals, CategoryOfficeSupplies,
		CategoryMarketing, CategoryTraining, CategoryUtilities, CategoryOther,
	}
}

// Expense is a submitted expense claim. Amount is in the native currency the
// expense was incurred in; ConvertedAmount is in the company base currency
// and stays nil when conversion failed at submission.
type Expense struct {
	ExpenseID       string           `json:"expenseID"`
	CompanyID       string           `json:"companyID"`
	SubmitterID     string           `json:"submitterID"`
	Title           string           `json:"title"`
	Description     string           `json:"description,omitempty"`
	Amount          decimal.Decimal  `json:"amount"`
	Currency        string           `json:"currency"`
	ConvertedAmount *decimal.Decimal `json:"convertedAmount,omitempty"`
	Category        ExpenseCategory  `json:"category"`
	ExpenseDate     time.Time        `json:"expenseDate"`
	ReceiptURL      *string          `json:"receiptURL,omitempty"`
	Status          ExpenseStatus    `json:"status"`
	AuditFields
}
