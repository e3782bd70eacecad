package services

import (
	"context"
	"io"

	"github.com/expenza/expense_flow_app/internal/core/domain"
	"github.com/expenza/expense_flow_app/internal/dto"
)

// ExpenseSvcFacade manages expense submission and retrieval.
type ExpenseSvcFacade interface {
	// SubmitExpense creates a PENDING expense for the submitter, converts
	// the amount into the company base currency (failure tolerated), runs
	// the optional receipt through OCR, and builds the approval flow. The
	// returned expense reflects any immediate auto-approval.
	SubmitExpense(ctx context.Context, submitterID string, req dto.CreateExpenseRequest, receipt io.Reader, receiptName string) (*domain.Expense, error)

	// GetExpenseByID fetches one expense visible to the requesting user.
	GetExpenseByID(ctx context.Context, expenseID string, requestingUserID string) (*domain.Expense, error)

	// ListExpenses lists expenses scoped by the requesting user's role:
	// admins see the whole company, managers their own, their team's, and
	// those awaiting their approval, employees only their own.
	ListExpenses(ctx context.Context, requestingUserID string) ([]domain.Expense, error)
}

// CompanySvcFacade manages companies.
type CompanySvcFacade interface {
	CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error)
	GetCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)
}
