package repositories

import (
	"context"

	"github.com/expenza/expense_flow_app/internal/core/domain"
)

// ApprovalRuleRepository defines persistence operations for approval rules.
type ApprovalRuleRepository interface {
	SaveRule(ctx context.Context, rule domain.ApprovalRule) error
	UpdateRule(ctx context.Context, rule domain.ApprovalRule) error
	FindRuleByID(ctx context.Context, ruleID string) (*domain.ApprovalRule, error)
	// ListActiveRules returns the company's active rules ordered by
	// creation time ascending, the order rule selection depends on.
	ListActiveRules(ctx context.Context, companyID string) ([]domain.ApprovalRule, error)
	ListRules(ctx context.Context, companyID string) ([]domain.ApprovalRule, error)
	DeleteRule(ctx context.Context, ruleID string) error
	// CountFlowsUsingRule reports how many flows reference the rule, the
	// guard against deleting a rule that is in use.
	CountFlowsUsingRule(ctx context.Context, ruleID string) (int, error)
}

// DecideFunc computes the writes for one approver's decision. It runs inside
// the repository's flow-level lock: flow carries the ordered step list as it
// exists under the lock, rule is the flow's rule (nil on the default path).
type DecideFunc func(flow domain.ApprovalFlow, rule *domain.ApprovalRule) (domain.FlowMutation, error)

// ApprovalFlowRepository defines persistence operations for flows and steps.
// SaveFlow persists the flow and all steps atomically. DecideStep serializes
// decisions per flow: it locks the flow row, loads steps and rule, invokes
// decide, and applies the returned mutation (step, flow, expense rows) in
// the same transaction.
type ApprovalFlowRepository interface {
	SaveFlow(ctx context.Context, flow domain.ApprovalFlow, steps []domain.ApprovalStep) error
	FindFlowByExpenseID(ctx context.Context, expenseID string) (*domain.ApprovalFlow, error)
	FindFlowByID(ctx context.Context, flowID string) (*domain.ApprovalFlow, error)
	ListPendingStepsForApprover(ctx context.Context, approverID string) ([]domain.ApprovalStep, error)
	DecideStep(ctx context.Context, flowID string, decide DecideFunc) (*domain.DecisionResult, error)
}
