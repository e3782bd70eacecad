package services

import (
	"context"

	"github.com/expenza/expense_flow_app/internal/core/domain"
	"github.com/expenza/expense_flow_app/internal/dto"
)

// RuleSvcFacade manages a company's approval rules and selects the rule
// applicable to an expense.
type RuleSvcFacade interface {
	RuleSelectorSvc

	// CreateRule creates a rule after validating the rule-type-specific
	// required fields. Admin only.
	CreateRule(ctx context.Context, companyID string, req dto.CreateApprovalRuleRequest, creatorUserID string) (*domain.ApprovalRule, error)

	// UpdateRule updates a rule, re-validating and nulling the fields the
	// (possibly changed) rule type does not use. Admin only.
	UpdateRule(ctx context.Context, ruleID string, req dto.UpdateApprovalRuleRequest, updaterUserID string) (*domain.ApprovalRule, error)

	// GetRuleByID fetches one rule.
	GetRuleByID(ctx context.Context, ruleID string) (*domain.ApprovalRule, error)

	// ListRules lists a company's rules, newest first.
	ListRules(ctx context.Context, companyID string) ([]domain.ApprovalRule, error)

	// DeleteRule deletes a rule; fails with Conflict while any flow
	// references it.
	DeleteRule(ctx context.Context, ruleID string, requestingUserID string) error
}
