package services

import (
	"context"
	"fmt"
	"time"

	"github.com/expenza/expense_flow_app/internal/apperrors"
	"github.com/expenza/expense_flow_app/internal/core/domain"
	portsrepo "github.com/expenza/expense_flow_app/internal/core/ports/repositories"
	portssvc "github.com/expenza/expense_flow_app/internal/core/ports/services"
	"github.com/google/uuid"
)

// approvalService implements the approval-flow engine: it materializes
// flows when expenses are submitted and records approver decisions.
type approvalService struct {
	BaseService
	flowRepo    portsrepo.ApprovalFlowRepository
	expenseRepo portsrepo.ExpenseRepository
	userRepo    portsrepo.UserRepository
	selector    portssvc.RuleSelectorSvc
}

// NewApprovalService creates a new approval service.
func NewApprovalService(
	flowRepo portsrepo.ApprovalFlowRepository,
	expenseRepo portsrepo.ExpenseRepository,
	userRepo portsrepo.UserRepository,
	selector portssvc.RuleSelectorSvc,
) portssvc.ApprovalSvcFacade {
	return &approvalService{
		flowRepo:    flowRepo,
		expenseRepo: expenseRepo,
		userRepo:    userRepo,
		selector:    selector,
	}
}

var _ portssvc.ApprovalSvcFacade = (*approvalService)(nil)

// BuildFlow selects the applicable rule for the expense and materializes
// the approval flow. With no applicable rule an admin submitter is
// auto-approved (no flow), other submitters get a single manager step when
// they have a manager, and submitters without one stay pending with no
// flow. The flow and all its steps are persisted atomically.
func (s *approvalService) BuildFlow(ctx context.Context, expense domain.Expense, submitter domain.User) (*domain.ApprovalFlow, error) {
	rule, err := s.selector.SelectRule(ctx, expense.CompanyID, expense.Amount)
	if err != nil {
		return nil, fmt.Errorf("failed to select approval rule: %w", err)
	}

	var pool []domain.User
	if rule != nil && (rule.RuleType == domain.RulePercentage || rule.RuleType == domain.RuleHybrid) {
		pool, err = s.userRepo.ListApproverCandidates(ctx, expense.CompanyID, submitter.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to list approver candidates: %w", err)
		}
	}

	plan := domain.PlanFlow(submitter, rule, pool)

	if plan.AutoApprove {
		if err := s.expenseRepo.UpdateExpenseStatus(ctx, expense.ExpenseID, domain.ExpenseApproved, submitter.UserID); err != nil {
			return nil, fmt.Errorf("failed to auto-approve expense: %w", err)
		}
		s.LogInfo(ctx, "expense auto-approved for admin submitter", "expense_id", expense.ExpenseID)
		return nil, nil
	}

	if len(plan.Steps) == 0 {
		s.LogWarn(ctx, "no approvers available, expense stays pending without a flow",
			"expense_id", expense.ExpenseID, "submitter_id", submitter.UserID)
		return nil, nil
	}

	now := time.Now()
	flow := domain.ApprovalFlow{
		FlowID:      uuid.NewString(),
		ExpenseID:   expense.ExpenseID,
		RuleID:      plan.RuleID,
		CurrentStep: 1,
		IsCompleted: false,
		CreatedAt:   now,
	}
	steps := make([]domain.ApprovalStep, len(plan.Steps))
	for i, st := range plan.Steps {
		st.StepID = uuid.NewString()
		st.FlowID = flow.FlowID
		st.CreatedAt = now
		steps[i] = st
	}
	flow.Steps = steps

	if err := s.flowRepo.SaveFlow(ctx, flow, steps); err != nil {
		return nil, fmt.Errorf("failed to persist approval flow: %w", err)
	}
	s.LogInfo(ctx, "approval flow created",
		"expense_id", expense.ExpenseID, "flow_id", flow.FlowID, "steps", len(steps))
	return &flow, nil
}

// Decide records actorID's decision on their pending step. The whole
// read-evaluate-write sequence runs under the repository's per-flow lock so
// concurrent decisions on the same flow cannot produce a lost update.
func (s *approvalService) Decide(ctx context.Context, expenseID string, actorID string, action domain.ApprovalAction, comment *string) (*domain.DecisionResult, error) {
	if !action.Valid() {
		return nil, fmt.Errorf("%w: action must be APPROVED or REJECTED", apperrors.ErrValidation)
	}

	actor, err := s.userRepo.FindUserByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load acting user: %w", err)
	}
	if !actor.Role.IsApproverRole() {
		return nil, fmt.Errorf("%w: only admins and managers may decide approvals", apperrors.ErrForbidden)
	}

	flow, err := s.flowRepo.FindFlowByExpenseID(ctx, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to find approval flow for expense: %w", err)
	}

	result, err := s.flowRepo.DecideStep(ctx, flow.FlowID, func(locked domain.ApprovalFlow, rule *domain.ApprovalRule) (domain.FlowMutation, error) {
		if locked.IsCompleted {
			return domain.FlowMutation{}, fmt.Errorf("%w: approval flow already completed", apperrors.ErrConflict)
		}
		step := locked.PendingStepFor(actorID)
		if step == nil {
			return domain.FlowMutation{}, fmt.Errorf("%w: no pending approval step found for this approver", apperrors.ErrNotFound)
		}

		now := time.Now()
		decided := *step
		decided.Status = domain.StepStatus(action)
		decided.Comment = comment
		decided.ApprovedAt = &now
		*step = decided

		outcome := domain.EvaluateFlow(&locked, rule, &decided, action)
		return domain.FlowMutation{
			Step:        decided,
			AdvanceStep: outcome.AdvanceStep,
			FinalStatus: outcome.Status,
			ActorID:     actorID,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "approval decision recorded",
		"expense_id", expenseID, "flow_id", flow.FlowID, "actor_id", actorID,
		"action", string(action), "flow_status", string(result.FlowStatus))
	return result, nil
}

// GetFlowForExpense returns the expense's flow with its ordered steps.
func (s *approvalService) GetFlowForExpense(ctx context.Context, expenseID string) (*domain.ApprovalFlow, error) {
	flow, err := s.flowRepo.FindFlowByExpenseID(ctx, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get approval flow: %w", err)
	}
	return flow, nil
}

// GetFlowByID returns one flow with its ordered steps.
func (s *approvalService) GetFlowByID(ctx context.Context, flowID string) (*domain.ApprovalFlow, error) {
	flow, err := s.flowRepo.FindFlowByID(ctx, flowID)
	if err != nil {
		return nil, fmt.Errorf("failed to get approval flow: %w", err)
	}
	return flow, nil
}

// ListPendingApprovals returns the steps currently awaiting the approver.
func (s *approvalService) ListPendingApprovals(ctx context.Context, approverID string) ([]domain.ApprovalStep, error) {
	steps, err := s.flowRepo.ListPendingStepsForApprover(ctx, approverID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending approvals: %w", err)
	}
	return steps, nil
}
