package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/expenza/expense_flow_app/internal/apperrors"
	"github.com/expenza/expense_flow_app/internal/core/domain"
	portsrepo "github.com/expenza/expense_flow_app/internal/core/ports/repositories"
	portssvc "github.com/expenza/expense_flow_app/internal/core/ports/services"
	"github.com/expenza/expense_flow_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// maxReceiptBytes caps how much of an uploaded receipt the scanner reads.
const maxReceiptBytes = 10 << 20

// expenseService implements expense submission and role-scoped retrieval.
type expenseService struct {
	BaseService
	expenseRepo  portsrepo.ExpenseRepository
	userRepo     portsrepo.UserRepository
	companyRepo  portsrepo.CompanyRepository
	approvalSvc  portssvc.ApprovalSvcFacade
	exchangeRate portssvc.ExchangeRateSvcFacade
	scanner      portssvc.ReceiptScannerSvc
}

// NewExpenseService creates a new expense service.
func NewExpenseService(
	expenseRepo portsrepo.ExpenseRepository,
	userRepo portsrepo.UserRepository,
	companyRepo portsrepo.CompanyRepository,
	approvalSvc portssvc.ApprovalSvcFacade,
	exchangeRate portssvc.ExchangeRateSvcFacade,
	scanner portssvc.ReceiptScannerSvc,
) portssvc.ExpenseSvcFacade {
	return &expenseService{
		expenseRepo:  expenseRepo,
		userRepo:     userRepo,
		companyRepo:  companyRepo,
		approvalSvc:  approvalSvc,
		exchangeRate: exchangeRate,
		scanner:      scanner,
	}
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

// SubmitExpense creates the expense and builds its approval flow. Currency
// conversion and receipt scanning are best-effort: their failures are
// logged and submission proceeds with the native amount / without extracted
// receipt fields.
func (s *expenseService) SubmitExpense(ctx context.Context, submitterID string, req dto.CreateExpenseRequest, receipt io.Reader, receiptName string) (*domain.Expense, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: expense amount must be positive", apperrors.ErrValidation)
	}

	submitter, err := s.userRepo.FindUserByID(ctx, submitterID)
	if err != nil {
		return nil, fmt.Errorf("failed to load submitter: %w", err)
	}
	if !submitter.IsActive {
		return nil, fmt.Errorf("%w: inactive users cannot submit expenses", apperrors.ErrForbidden)
	}
	company, err := s.companyRepo.FindCompanyByID(ctx, submitter.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load company: %w", err)
	}

	var receiptURL *string
	if receipt != nil {
		receiptURL = s.scanUploadedReceipt(ctx, receipt, receiptName)
	}

	now := time.Now()
	expense := domain.Expense{
		ExpenseID:   uuid.NewString(),
		CompanyID:   company.CompanyID,
		SubmitterID: submitter.UserID,
		Title:       req.Title,
		Description: req.Description,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Category:    domain.ExpenseCategory(req.Category),
		ExpenseDate: req.Date,
		ReceiptURL:  receiptURL,
		Status:      domain.ExpensePending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     submitter.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: submitter.UserID,
		},
	}

	// Convert into the company base currency; a conversion failure is a
	// dependency failure, not a submission failure.
	if expense.Currency == company.Currency {
		converted := expense.Amount
		expense.ConvertedAmount = &converted
	} else {
		converted, convErr := s.exchangeRate.Convert(ctx, expense.Amount, expense.Currency, company.Currency)
		if convErr != nil {
			s.LogWarn(ctx, "currency conversion failed, keeping native amount only",
				"expense_id", expense.ExpenseID, "from", expense.Currency, "to", company.Currency, "error", convErr.Error())
		} else {
			expense.ConvertedAmount = &converted
		}
	}

	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}

	if _, err := s.approvalSvc.BuildFlow(ctx, expense, *submitter); err != nil {
		return nil, fmt.Errorf("failed to build approval flow: %w", err)
	}

	// Re-read to pick up an immediate auto-approval.
	saved, err := s.expenseRepo.FindExpenseByID(ctx, expense.ExpenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload expense after flow build: %w", err)
	}
	return saved, nil
}

// scanUploadedReceipt runs the receipt through OCR. Only the derived
// storage reference is kept; extraction failures are swallowed.
func (s *expenseService) scanUploadedReceipt(ctx context.Context, receipt io.Reader, receiptName string) *string {
	data, err := io.ReadAll(io.LimitReader(receipt, maxReceiptBytes))
	if err != nil {
		s.LogWarn(ctx, "failed to read uploaded receipt", "error", err.Error())
		return nil
	}
	if len(data) == 0 {
		return nil
	}
	result, err := s.scanner.ScanReceipt(ctx, data, receiptName)
	if err != nil {
		s.LogWarn(ctx, "receipt scan failed", "receipt", receiptName, "error", err.Error())
	} else if result != nil {
		s.LogDebug(ctx, "receipt scanned", "merchant", result.Merchant)
	}
	url := "receipts/" + uuid.NewString() + "/" + receiptName
	return &url
}

func (s *expenseService) GetExpenseByID(ctx context.Context, expenseID string, requestingUserID string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	requester, err := s.userRepo.FindUserByID(ctx, requestingUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load requesting user: %w", err)
	}
	if requester.CompanyID != expense.CompanyID {
		return nil, fmt.Errorf("%w: expense not visible to requester", apperrors.ErrNotFound)
	}
	return expense, nil
}

// ListExpenses scopes the listing by role: admins see all company expenses,
// managers their own, their direct reports' and those awaiting their
// approval, employees only their own.
func (s *expenseService) ListExpenses(ctx context.Context, requestingUserID string) ([]domain.Expense, error) {
	requester, err := s.userRepo.FindUserByID(ctx, requestingUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load requesting user: %w", err)
	}

	switch requester.Role {
	case domain.RoleAdmin:
		return s.expenseRepo.ListCompanyExpenses(ctx, requester.CompanyID)
	case domain.RoleManager:
		reports, err := s.userRepo.ListDirectReports(ctx, requester.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to list direct reports: %w", err)
		}
		submitterIDs := make([]string, 0, len(reports)+1)
		submitterIDs = append(submitterIDs, requester.UserID)
		for _, r := range reports {
			submitterIDs = append(submitterIDs, r.UserID)
		}
		own, err := s.expenseRepo.ListExpensesBySubmitters(ctx, submitterIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to list team expenses: %w", err)
		}
		awaiting, err := s.expenseRepo.ListExpensesAwaitingApprover(ctx, requester.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to list expenses awaiting approval: %w", err)
		}
		return mergeExpenses(own, awaiting), nil
	default:
		return s.expenseRepo.ListExpensesBySubmitters(ctx, []string{requester.UserID})
	}
}

// mergeExpenses unions two newest-first lists, preserving order and
// dropping duplicates.
func mergeExpenses(a, b []domain.Expense) []domain.Expense {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]domain.Expense, 0, len(a)+len(b))
	for _, list := range [][]domain.Expense{a, b} {
		for _, e := range list {
			if seen[e.ExpenseID] {
				continue
			}
			seen[e.ExpenseID] = true
			out = append(out, e)
		}
	}
	return out
}
