package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RuleType selects the evaluation policy of an approval rule.
type RuleType string

const (
	RulePercentage RuleType = "PERCENTAGE"
	RuleSpecific   RuleType = "SPECIFIC"
	RuleHybrid     RuleType = "HYBRID"
)

// DefaultPercentageThreshold applies when a percentage rule carries no
// explicit threshold.
var DefaultPercentageThreshold = decimal.NewFromInt(50)

// ApprovalRule configures how expenses in an amount range get approved.
// Which optional fields must be set depends on RuleType; Validate enforces
// the pairing and Normalize nulls the fields the type does not use, so a
// persisted rule never carries stale configuration from a previous type.
type ApprovalRule struct {
	RuleID              string           `json:"ruleID"`
	CompanyID           string           `json:"companyID"`
	Name                string           `json:"name"`
	RuleType            RuleType         `json:"ruleType"`
	PercentageThreshold *decimal.Decimal `json:"percentageThreshold,omitempty"`
	SpecificApproverID  *string          `json:"specificApproverID,omitempty"`
	IsManagerFirst      bool             `json:"isManagerFirst"`
	MinAmount           *decimal.Decimal `json:"minAmount,omitempty"`
	MaxAmount           *decimal.Decimal `json:"maxAmount,omitempty"`
	IsActive            bool             `json:"isActive"`
	AuditFields
}

// Validate checks the rule-type-specific field requirements.
func (r *ApprovalRule) Validate() error {
	switch r.RuleType {
	case RulePercentage:
		if r.PercentageThreshold == nil {
			return fmt.Errorf("percentage threshold is required for %s rules", RulePercentage)
		}
	case RuleSpecific:
		if r.SpecificApproverID == nil || *r.SpecificApproverID == "" {
			return fmt.Errorf("specific approver is required for %s rules", RuleSpecific)
		}
	case RuleHybrid:
		if r.PercentageThreshold == nil {
			return fmt.Errorf("percentage threshold is required for %s rules", RuleHybrid)
		}
		if r.SpecificApproverID == nil || *r.SpecificApproverID == "" {
			return fmt.Errorf("specific approver is required for %s rules", RuleHybrid)
		}
	default:
		return fmt.Errorf("unknown rule type %q", r.RuleType)
	}
	if r.PercentageThreshold != nil {
		t := *r.PercentageThreshold
		if t.LessThanOrEqual(decimal.Zero) || t.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("percentage threshold must be in (0, 100]")
		}
	}
	if r.MinAmount != nil && r.MaxAmount != nil && r.MinAmount.GreaterThan(*r.MaxAmount) {
		return fmt.Errorf("minAmount must not exceed maxAmount")
	}
	return nil
}

// Normalize clears the fields the rule type does not use.
func (r *ApprovalRule) Normalize() {
	switch r.RuleType {
	case RulePercentage:
		r.SpecificApproverID = nil
	case RuleSpecific:
		r.PercentageThreshold = nil
	}
}

// Threshold returns the effective percentage threshold.
func (r *ApprovalRule) Threshold() decimal.Decimal {
	if r.PercentageThreshold != nil {
		return *r.PercentageThreshold
	}
	return DefaultPercentageThreshold
}

// Matches reports whether the rule's inclusive amount range contains amount.
// An absent bound is unbounded on that side.
func (r *ApprovalRule) Matches(amount decimal.Decimal) bool {
	if r.MinAmount != nil && amount.LessThan(*r.MinAmount) {
		return false
	}
	if r.MaxAmount != nil && amount.GreaterThan(*r.MaxAmount) {
		return false
	}
	return true
}
