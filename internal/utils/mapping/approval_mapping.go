package mapping

import (
	"github.com/expenza/expense_flow_app/internal/core/domain"
	"github.com/expenza/expense_flow_app/internal/models"
)

// ToModelApprovalRule converts a domain ApprovalRule to a model ApprovalRule.
func ToModelApprovalRule(d domain.ApprovalRule) models.ApprovalRule {
	return models.ApprovalRule{
		RuleID:              d.RuleID,
		CompanyID:           d.CompanyID,
		Name:                d.Name,
		RuleType:            string(d.RuleType),
		PercentageThreshold: PtrToNullDecimal(d.PercentageThreshold),
		SpecificApproverID:  PtrToNullString(d.SpecificApproverID),
		IsManagerFirst:      d.IsManagerFirst,
		MinAmount:           PtrToNullDecimal(d.MinAmount),
		MaxAmount:           PtrToNullDecimal(d.MaxAmount),
		IsActive:            d.IsActive,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainApprovalRule converts a model ApprovalRule to a domain ApprovalRule.
func ToDomainApprovalRule(m models.ApprovalRule) domain.ApprovalRule {
	return domain.ApprovalRule{
		RuleID:              m.RuleID,
		CompanyID:           m.CompanyID,
		Name:                m.Name,
		RuleType:            domain.RuleType(m.RuleType),
		PercentageThreshold: NullDecimalToPtr(m.PercentageThreshold),
		SpecificApproverID:  NullStringToPtr(m.SpecificApproverID),
		IsManagerFirst:      m.IsManagerFirst,
		MinAmount:           NullDecimalToPtr(m.MinAmount),
		MaxAmount:           NullDecimalToPtr(m.MaxAmount),
		IsActive:            m.IsActive,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainApprovalRuleSlice converts model rules to domain rules.
func ToDomainApprovalRuleSlice(ms []models.ApprovalRule) []domain.ApprovalRule {
	ds := make([]domain.ApprovalRule, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainApprovalRule(m)
	}
	return ds
}

// ToModelApprovalFlow converts a domain ApprovalFlow to its model shape.
// Steps travel separately; the flows table does not embed them.
func ToModelApprovalFlow(d domain.ApprovalFlow) models.ApprovalFlow {
	return models.ApprovalFlow{
		FlowID:      d.FlowID,
		ExpenseID:   d.ExpenseID,
		RuleID:      PtrToNullString(d.RuleID),
		CurrentStep: d.CurrentStep,
		IsCompleted: d.IsCompleted,
		CreatedAt:   d.CreatedAt,
	}
}

// ToDomainApprovalFlow converts a model ApprovalFlow to the domain shape.
func ToDomainApprovalFlow(m models.ApprovalFlow) domain.ApprovalFlow {
	return domain.ApprovalFlow{
		FlowID:      m.FlowID,
		ExpenseID:   m.ExpenseID,
		RuleID:      NullStringToPtr(m.RuleID),
		CurrentStep: m.CurrentStep,
		IsCompleted: m.IsCompleted,
		CreatedAt:   m.CreatedAt,
	}
}

// ToModelApprovalStep converts a domain ApprovalStep to a model ApprovalStep.
func ToModelApprovalStep(d domain.ApprovalStep) models.ApprovalStep {
	return models.ApprovalStep{
		StepID:     d.StepID,
		FlowID:     d.FlowID,
		StepNumber: d.StepNumber,
		ApproverID: d.ApproverID,
		Status:     string(d.Status),
		Comment:    PtrToNullString(d.Comment),
		ApprovedAt: PtrToNullTime(d.ApprovedAt),
		CreatedAt:  d.CreatedAt,
	}
}

// ToDomainApprovalStep converts a model ApprovalStep to the domain shape.
func ToDomainApprovalStep(m models.ApprovalStep) domain.ApprovalStep {
	return domain.ApprovalStep{
		StepID:     m.StepID,
		FlowID:     m.FlowID,
		StepNumber: m.StepNumber,
		ApproverID: m.ApproverID,
		Status:     domain.StepStatus(m.Status),
		Comment:    NullStringToPtr(m.Comment),
		ApprovedAt: NullTimeToPtr(m.ApprovedAt),
		CreatedAt:  m.CreatedAt,
	}
}

// ToDomainApprovalStepSlice converts model steps to domain steps.
func ToDomainApprovalStepSlice(ms []models.ApprovalStep) []domain.ApprovalStep {
	ds := make([]domain.ApprovalStep, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainApprovalStep(m)
	}
	return ds
}
