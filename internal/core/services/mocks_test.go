package services_test

import (
	"context"
	"time"

	"github.com/expenza/expense_flow_app/internal/core/domain"
	portsrepo "github.com/expenza/expense_flow_app/internal/core/ports/repositories"
	portssvc "github.com/expenza/expense_flow_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock type for the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListUsersByCompany(ctx context.Context, companyID string) ([]domain.User, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) ListApproverCandidates(ctx context.Context, companyID string, excludeUserID string) ([]domain.User, error) {
	args := m.Called(ctx, companyID, excludeUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) ListDirectReports(ctx context.Context, managerID string) ([]domain.User, error) {
	args := m.Called(ctx, managerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	args := m.Called(ctx, userID, refreshTokenHash, refreshTokenExpiryTime)
	return args.Error(0)
}

func (m *MockUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockCompanyRepository is a mock type for the CompanyRepository interface
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) SaveCompany(ctx context.Context, company domain.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

// MockRuleRepository is a mock type for the ApprovalRuleRepository interface
type MockRuleRepository struct {
	mock.Mock
}

func (m *MockRuleRepository) SaveRule(ctx context.Context, rule domain.ApprovalRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockRuleRepository) UpdateRule(ctx context.Context, rule domain.ApprovalRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockRuleRepository) FindRuleByID(ctx context.Context, ruleID string) (*domain.ApprovalRule, error) {
	args := m.Called(ctx, ruleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalRule), args.Error(1)
}

func (m *MockRuleRepository) ListActiveRules(ctx context.Context, companyID string) ([]domain.ApprovalRule, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApprovalRule), args.Error(1)
}

func (m *MockRuleRepository) ListRules(ctx context.Context, companyID string) ([]domain.ApprovalRule, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApprovalRule), args.Error(1)
}

func (m *MockRuleRepository) DeleteRule(ctx context.Context, ruleID string) error {
	args := m.Called(ctx, ruleID)
	return args.Error(0)
}

func (m *MockRuleRepository) CountFlowsUsingRule(ctx context.Context, ruleID string) (int, error) {
	args := m.Called(ctx, ruleID)
	return args.Int(0), args.Error(1)
}

// MockExpenseRepository is a mock type for the ExpenseRepository interface
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) UpdateExpenseStatus(ctx context.Context, expenseID string, status domain.ExpenseStatus, updatedBy string) error {
	args := m.Called(ctx, expenseID, status, updatedBy)
	return args.Error(0)
}

func (m *MockExpenseRepository) ListCompanyExpenses(ctx context.Context, companyID string) ([]domain.Expense, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) ListExpensesBySubmitters(ctx context.Context, submitterIDs []string) ([]domain.Expense, error) {
	args := m.Called(ctx, submitterIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) ListExpensesAwaitingApprover(ctx context.Context, approverID string) ([]domain.Expense, error) {
	args := m.Called(ctx, approverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}

// MockFlowRepository is a mock type for the ApprovalFlowRepository interface.
// DecideStep runs the supplied DecideFunc against the flow and rule primed
// into the mock so service tests exercise the real decision closure.
type MockFlowRepository struct {
	mock.Mock

	// LockedFlow and LockedRule are handed to the DecideFunc as the
	// lock-protected state. AppliedMutation records what the closure
	// produced.
	LockedFlow      domain.ApprovalFlow
	LockedRule      *domain.ApprovalRule
	AppliedMutation *domain.FlowMutation
}

func (m *MockFlowRepository) SaveFlow(ctx context.Context, flow domain.ApprovalFlow, steps []domain.ApprovalStep) error {
	args := m.Called(ctx, flow, steps)
	return args.Error(0)
}

func (m *MockFlowRepository) FindFlowByExpenseID(ctx context.Context, expenseID string) (*domain.ApprovalFlow, error) {
	args := m.Called(ctx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalFlow), args.Error(1)
}

func (m *MockFlowRepository) FindFlowByID(ctx context.Context, flowID string) (*domain.ApprovalFlow, error) {
	args := m.Called(ctx, flowID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalFlow), args.Error(1)
}

func (m *MockFlowRepository) ListPendingStepsForApprover(ctx context.Context, approverID string) ([]domain.ApprovalStep, error) {
	args := m.Called(ctx, approverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApprovalStep), args.Error(1)
}

func (m *MockFlowRepository) DecideStep(ctx context.Context, flowID string, decide portsrepo.DecideFunc) (*domain.DecisionResult, error) {
	args := m.Called(ctx, flowID)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}

	mutation, err := decide(m.LockedFlow, m.LockedRule)
	if err != nil {
		return nil, err
	}
	m.AppliedMutation = &mutation

	expenseStatus := domain.ExpensePending
	if mutation.FinalStatus.IsTerminal() {
		expenseStatus = mutation.FinalStatus
	}
	return &domain.DecisionResult{
		FlowStatus:    mutation.FinalStatus,
		ExpenseStatus: expenseStatus,
		Step:          mutation.Step,
	}, nil
}

// MockRuleSelector is a mock type for the RuleSelectorSvc interface
type MockRuleSelector struct {
	mock.Mock
}

func (m *MockRuleSelector) SelectRule(ctx context.Context, companyID string, amount decimal.Decimal) (*domain.ApprovalRule, error) {
	args := m.Called(ctx, companyID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalRule), args.Error(1)
}

// MockApprovalService is a mock type for the ApprovalSvcFacade interface
type MockApprovalService struct {
	mock.Mock
}

func (m *MockApprovalService) BuildFlow(ctx context.Context, expense domain.Expense, submitter domain.User) (*domain.ApprovalFlow, error) {
	args := m.Called(ctx, expense, submitter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalFlow), args.Error(1)
}

func (m *MockApprovalService) Decide(ctx context.Context, expenseID string, actorID string, action domain.ApprovalAction, comment *string) (*domain.DecisionResult, error) {
	args := m.Called(ctx, expenseID, actorID, action, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DecisionResult), args.Error(1)
}

func (m *MockApprovalService) GetFlowForExpense(ctx context.Context, expenseID string) (*domain.ApprovalFlow, error) {
	args := m.Called(ctx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalFlow), args.Error(1)
}

func (m *MockApprovalService) GetFlowByID(ctx context.Context, flowID string) (*domain.ApprovalFlow, error) {
	args := m.Called(ctx, flowID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalFlow), args.Error(1)
}

func (m *MockApprovalService) ListPendingApprovals(ctx context.Context, approverID string) ([]domain.ApprovalStep, error) {
	args := m.Called(ctx, approverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApprovalStep), args.Error(1)
}

// MockExchangeRateService is a mock type for the ExchangeRateSvcFacade interface
type MockExchangeRateService struct {
	mock.Mock
}

func (m *MockExchangeRateService) Convert(ctx context.Context, amount decimal.Decimal, fromCurrency, toCurrency string) (decimal.Decimal, error) {
	args := m.Called(ctx, amount, fromCurrency, toCurrency)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockExchangeRateService) GetRates(ctx context.Context, baseCurrency string) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, baseCurrency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

// MockReceiptScanner is a mock type for the ReceiptScannerSvc interface
type MockReceiptScanner struct {
	mock.Mock
}

func (m *MockReceiptScanner) ScanReceipt(ctx context.Context, data []byte, filename string) (*portssvc.ReceiptScanResult, error) {
	args := m.Called(ctx, data, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.ReceiptScanResult), args.Error(1)
}

// MockRateProvider is a mock type for the RateProvider interface
type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) FetchRates(ctx context.Context, baseCurrency string) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, baseCurrency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

// compile-time interface checks for the mocks
var (
	_ portsrepo.UserRepository         = (*MockUserRepository)(nil)
	_ portsrepo.CompanyRepository      = (*MockCompanyRepository)(nil)
	_ portsrepo.ApprovalRuleRepository = (*MockRuleRepository)(nil)
	_ portsrepo.ExpenseRepository      = (*MockExpenseRepository)(nil)
	_ portsrepo.ApprovalFlowRepository = (*MockFlowRepository)(nil)
	_ portssvc.RuleSelectorSvc         = (*MockRuleSelector)(nil)
	_ portssvc.ApprovalSvcFacade       = (*MockApprovalService)(nil)
	_ portssvc.ExchangeRateSvcFacade   = (*MockExchangeRateService)(nil)
	_ portssvc.ReceiptScannerSvc       = (*MockReceiptScanner)(nil)
)
