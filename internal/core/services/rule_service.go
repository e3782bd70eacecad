package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/expenza/expense_flow_app/internal/apperrors"
	"github.com/expenza/expense_flow_app/internal/core/domain"
	portsrepo "github.com/expenza/expense_flow_app/internal/core/ports/repositories"
	portssvc "github.com/expenza/expense_flow_app/internal/core/ports/services"
	"github.com/expenza/expense_flow_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ruleService implements RuleSvcFacade: rule CRUD with the per-type field
// invariant, and rule selection for submitted expenses.
type ruleService struct {
	BaseService
	ruleRepo portsrepo.ApprovalRuleRepository
	userRepo portsrepo.UserRepository
}

// NewRuleService creates a new rule service.
func NewRuleService(ruleRepo portsrepo.ApprovalRuleRepository, userRepo portsrepo.UserRepository) portssvc.RuleSvcFacade {
	return &ruleService{ruleRepo: ruleRepo, userRepo: userRepo}
}

var _ portssvc.RuleSvcFacade = (*ruleService)(nil)

// SelectRule returns the earliest-created active rule whose amount range
// contains amount, or nil when none matches. The repository returns active
// rules in creation order; matching stops at the first hit.
func (s *ruleService) SelectRule(ctx context.Context, companyID string, amount decimal.Decimal) (*domain.ApprovalRule, error) {
	rules, err := s.ruleRepo.ListActiveRules(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active rules for selection: %w", err)
	}
	for i := range rules {
		if rules[i].Matches(amount) {
			return &rules[i], nil
		}
	}
	return nil, nil
}

func (s *ruleService) CreateRule(ctx context.Context, companyID string, req dto.CreateApprovalRuleRequest, creatorUserID string) (*domain.ApprovalRule, error) {
	if err := s.requireAdmin(ctx, creatorUserID, companyID); err != nil {
		return nil, err
	}

	now := time.Now()
	rule := domain.ApprovalRule{
		RuleID:              uuid.NewString(),
		CompanyID:           companyID,
		Name:                req.Name,
		RuleType:            domain.RuleType(req.RuleType),
		PercentageThreshold: req.PercentageThreshold,
		SpecificApproverID:  req.SpecificApproverID,
		IsManagerFirst:      req.IsManagerFirst,
		MinAmount:           req.MinAmount,
		MaxAmount:           req.MaxAmount,
		IsActive:            true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.validateRule(ctx, &rule); err != nil {
		return nil, err
	}
	rule.Normalize()

	if err := s.ruleRepo.SaveRule(ctx, rule); err != nil {
		s.LogError(ctx, err, "failed to save approval rule", "rule_id", rule.RuleID)
		return nil, fmt.Errorf("failed to create approval rule: %w", err)
	}
	return &rule, nil
}

func (s *ruleService) UpdateRule(ctx context.Context, ruleID string, req dto.UpdateApprovalRuleRequest, updaterUserID string) (*domain.ApprovalRule, error) {
	rule, err := s.ruleRepo.FindRuleByID(ctx, ruleID)
	if err != nil {
		return nil, fmt.Errorf("failed to find rule for update: %w", err)
	}
	if err := s.requireAdmin(ctx, updaterUserID, rule.CompanyID); err != nil {
		return nil, err
	}

	if req.Name != nil {
		rule.Name = *req.Name
	}
	if req.RuleType != nil {
		rule.RuleType = domain.RuleType(*req.RuleType)
	}
	if req.PercentageThreshold != nil {
		rule.PercentageThreshold = req.PercentageThreshold
	}
	if req.SpecificApproverID != nil {
		rule.SpecificApproverID = req.SpecificApproverID
	}
	if req.IsManagerFirst != nil {
		rule.IsManagerFirst = *req.IsManagerFirst
	}
	if req.MinAmount != nil {
		rule.MinAmount = req.MinAmount
	}
	if req.MaxAmount != nil {
		rule.MaxAmount = req.MaxAmount
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	if err := s.validateRule(ctx, rule); err != nil {
		return nil, err
	}
	rule.Normalize()

	rule.LastUpdatedAt = time.Now()
	rule.LastUpdatedBy = updaterUserID

	if err := s.ruleRepo.UpdateRule(ctx, *rule); err != nil {
		s.LogError(ctx, err, "failed to update approval rule", "rule_id", ruleID)
		return nil, fmt.Errorf("failed to update approval rule: %w", err)
	}
	return rule, nil
}

func (s *ruleService) GetRuleByID(ctx context.Context, ruleID string) (*domain.ApprovalRule, error) {
	rule, err := s.ruleRepo.FindRuleByID(ctx, ruleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}
	return rule, nil
}

func (s *ruleService) ListRules(ctx context.Context, companyID string) ([]domain.ApprovalRule, error) {
	rules, err := s.ruleRepo.ListRules(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	return rules, nil
}

func (s *ruleService) DeleteRule(ctx context.Context, ruleID string, requestingUserID string) error {
	rule, err := s.ruleRepo.FindRuleByID(ctx, ruleID)
	if err != nil {
		return fmt.Errorf("failed to find rule for deletion: %w", err)
	}
	if err := s.requireAdmin(ctx, requestingUserID, rule.CompanyID); err != nil {
		return err
	}

	inUse, err := s.ruleRepo.CountFlowsUsingRule(ctx, ruleID)
	if err != nil {
		return fmt.Errorf("failed to count flows using rule: %w", err)
	}
	if inUse > 0 {
		return fmt.Errorf("%w: rule is used by %d existing approval flows", apperrors.ErrConflict, inUse)
	}

	if err := s.ruleRepo.DeleteRule(ctx, ruleID); err != nil {
		s.LogError(ctx, err, "failed to delete approval rule", "rule_id", ruleID)
		return fmt.Errorf("failed to delete approval rule: %w", err)
	}
	return nil
}

// validateRule checks the per-type field invariant and that a configured
// specific approver exists, is active and can approve.
func (s *ruleService) validateRule(ctx context.Context, rule *domain.ApprovalRule) error {
	if err := rule.Validate(); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	if rule.SpecificApproverID != nil && (rule.RuleType == domain.RuleSpecific || rule.RuleType == domain.RuleHybrid) {
		approver, err := s.userRepo.FindUserByID(ctx, *rule.SpecificApproverID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: specific approver %q not found", apperrors.ErrValidation, *rule.SpecificApproverID)
			}
			return fmt.Errorf("failed to validate specific approver: %w", err)
		}
		if approver.CompanyID != rule.CompanyID {
			return fmt.Errorf("%w: specific approver belongs to a different company", apperrors.ErrValidation)
		}
		if !approver.IsActive || !approver.Role.IsApproverRole() {
			return fmt.Errorf("%w: specific approver must be an active admin or manager", apperrors.ErrValidation)
		}
	}
	return nil
}

func (s *ruleService) requireAdmin(ctx context.Context, userID, companyID string) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load requesting user: %w", err)
	}
	if user.CompanyID != companyID || user.Role != domain.RoleAdmin {
		return fmt.Errorf("%w: only company admins may manage approval rules", apperrors.ErrForbidden)
	}
	return nil
}
