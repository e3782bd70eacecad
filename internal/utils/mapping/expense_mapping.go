package mapping

import (
	"github.com/expenza/expense_flow_app/internal/core/domain"
	"github.com/expenza/expense_flow_app/internal/models"
)

// ToModelExpense converts a domain Expense to a model Expense.
func ToModelExpense(d domain.Expense) models.Expense {
	return models.Expense{
		ExpenseID:       d.ExpenseID,
		CompanyID:       d.CompanyID,
		SubmitterID:     d.SubmitterID,
		Title:           d.Title,
		Description:     d.Description,
		Amount:          d.Amount,
		Currency:        d.Currency,
		ConvertedAmount: PtrToNullDecimal(d.ConvertedAmount),
		Category:        string(d.Category),
		ExpenseDate:     d.ExpenseDate,
		ReceiptURL:      PtrToNullString(d.ReceiptURL),
		Status:          string(d.Status),
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExpense converts a model Expense to a domain Expense.
func ToDomainExpense(m models.Expense) domain.Expense {
	return domain.Expense{
		ExpenseID:       m.ExpenseID,
		CompanyID:       m.CompanyID,
		SubmitterID:     m.SubmitterID,
		Title:           m.Title,
		Description:     m.Description,
		Amount:          m.Amount,
		Currency:        m.Currency,
		ConvertedAmount: NullDecimalToPtr(m.ConvertedAmount),
		Category:        domain.ExpenseCategory(m.Category),
		ExpenseDate:     m.ExpenseDate,
		ReceiptURL:      NullStringToPtr(m.ReceiptURL),
		Status:          domain.ExpenseStatus(m.Status),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainExpenseSlice converts a slice of model Expenses to domain Expenses.
func ToDomainExpenseSlice(ms []models.Expense) []domain.Expense {
	ds := make([]domain.Expense, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainExpense(m)
	}
	return ds
}
