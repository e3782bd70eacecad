package repositories

import (
	"context"

	"github.com/expenza/expense_flow_app/internal/core/domain"
)

// ExpenseRepository defines persistence operations for expenses.
type ExpenseRepository interface {
	SaveExpense(ctx context.Context, expense domain.Expense) error
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)
	UpdateExpenseStatus(ctx context.Context, expenseID string, status domain.ExpenseStatus, updatedBy string) error
	// ListCompanyExpenses returns all of a company's expenses, newest first.
	ListCompanyExpenses(ctx context.Context, companyID string) ([]domain.Expense, error)
	// ListExpensesBySubmitters returns expenses submitted by any of the
	// given users, newest first.
	ListExpensesBySubmitters(ctx context.Context, submitterIDs []string) ([]domain.Expense, error)
	// ListExpensesAwaitingApprover returns expenses that have a PENDING
	// step assigned to approverID, newest first.
	ListExpensesAwaitingApprover(ctx context.Context, approverID string) ([]domain.Expense, error)
}
