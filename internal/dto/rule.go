package dto

import (
	"time"

	"github.com/expenza/expense_flow_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateApprovalRuleRequest is the payload for creating an approval rule.
// Which optional fields are required depends on ruleType; the rule service
// validates the pairing.
type CreateApprovalRuleRequest struct {
	Name                string           `json:"name" binding:"required"`
	RuleType            string           `json:"ruleType" binding:"required,oneof=PERCENTAGE SPECIFIC HYBRID"`
	PercentageThreshold *decimal.Decimal `json:"percentageThreshold,omitempty"`
	SpecificApproverID  *string          `json:"specificApproverID,omitempty"`
	IsManagerFirst      bool             `json:"isManagerFirst"`
	MinAmount           *decimal.Decimal `json:"minAmount,omitempty"`
	MaxAmount           *decimal.Decimal `json:"maxAmount,omitempty"`
}

// UpdateApprovalRuleRequest is the payload for updating a rule. Absent
// fields keep their current value except those the (possibly new) rule type
// does not use, which are nulled.
type UpdateApprovalRuleRequest struct {
	Name                *string          `json:"name,omitempty"`
	RuleType            *string          `json:"ruleType,omitempty" binding:"omitempty,oneof=PERCENTAGE SPECIFIC HYBRID"`
	PercentageThreshold *decimal.Decimal `json:"percentageThreshold,omitempty"`
	SpecificApproverID  *string          `json:"specificApproverID,omitempty"`
	IsManagerFirst      *bool            `json:"isManagerFirst,omitempty"`
	MinAmount           *decimal.Decimal `json:"minAmount,omitempty"`
	MaxAmount           *decimal.Decimal `json:"maxAmount,omitempty"`
	IsActive            *bool            `json:"isActive,omitempty"`
}

// ApprovalRuleResponse is the API shape of an approval rule.
type ApprovalRuleResponse struct {
	RuleID              string           `json:"ruleID"`
	CompanyID           string           `json:"companyID"`
	Name                string           `json:"name"`
	RuleType            string           `json:"ruleType"`
	PercentageThreshold *decimal.Decimal `json:"percentageThreshold,omitempty"`
	SpecificApproverID  *string          `json:"specificApproverID,omitempty"`
	IsManagerFirst      bool             `json:"isManagerFirst"`
	MinAmount           *decimal.Decimal `json:"minAmount,omitempty"`
	MaxAmount           *decimal.Decimal `json:"maxAmount,omitempty"`
	IsActive            bool             `json:"isActive"`
	CreatedAt           time.Time        `json:"createdAt"`
}

// ToApprovalRuleResponse maps a domain rule to its API shape.
func ToApprovalRuleResponse(r domain.ApprovalRule) ApprovalRuleResponse {
	return ApprovalRuleResponse{
		RuleID:              r.RuleID,
		CompanyID:           r.CompanyID,
		Name:                r.Name,
		RuleType:            string(r.RuleType),
		PercentageThreshold: r.PercentageThreshold,
		SpecificApproverID:  r.SpecificApproverID,
		IsManagerFirst:      r.IsManagerFirst,
		MinAmount:           r.MinAmount,
		MaxAmount:           r.MaxAmount,
		IsActive:            r.IsActive,
		CreatedAt:           r.CreatedAt,
	}
}

// ToApprovalRuleResponses maps a slice of domain rules.
func ToApprovalRuleResponses(rules []domain.ApprovalRule) []ApprovalRuleResponse {
	out := make([]ApprovalRuleResponse, len(rules))
	for i, r := range rules {
		out[i] = ToApprovalRuleResponse(r)
	}
	return out
}
