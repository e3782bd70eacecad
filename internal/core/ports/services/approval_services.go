package services

import (
	"context"

	"github.com/expenza/expense_flow_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RuleSelectorSvc picks the applicable rule for an expense amount.
type RuleSelectorSvc interface {
	// SelectRule returns the earliest-created active rule of the company
	// whose amount range contains amount, or nil when none matches.
	SelectRule(ctx context.Context, companyID string, amount decimal.Decimal) (*domain.ApprovalRule, error)
}

// ApprovalSvcFacade exposes the approval-flow engine: flow materialization
// at submission time and step decisions afterwards.
type ApprovalSvcFacade interface {
	// BuildFlow materializes the approval flow for a freshly created
	// expense. It may auto-approve the expense (admin, no rule) in which
	// case no flow is created and the returned flow is nil.
	BuildFlow(ctx context.Context, expense domain.Expense, submitter domain.User) (*domain.ApprovalFlow, error)

	// Decide records actorID's decision on their pending step of the
	// expense's flow and reports the resulting flow/expense status.
	Decide(ctx context.Context, expenseID string, actorID string, action domain.ApprovalAction, comment *string) (*domain.DecisionResult, error)

	// GetFlowForExpense returns the expense's flow with ordered steps.
	GetFlowForExpense(ctx context.Context, expenseID string) (*domain.ApprovalFlow, error)

	// GetFlowByID returns one flow with ordered steps.
	GetFlowByID(ctx context.Context, flowID string) (*domain.ApprovalFlow, error)

	// ListPendingApprovals returns the steps currently awaiting approverID.
	ListPendingApprovals(ctx context.Context, approverID string) ([]domain.ApprovalStep, error)
}
