package services_test

import (
	"context"
	"testing"

	"github.com/expenza/expense_flow_app/internal/apperrors"
	"github.com/expenza/expense_flow_app/internal/core/domain"
	portssvc "github.com/expenza/expense_flow_app/internal/core/ports/services"
	"github.com/expenza/expense_flow_app/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ApprovalServiceTestSuite struct {
	suite.Suite
	mockFlowRepo    *MockFlowRepository
	mockExpenseRepo *MockExpenseRepository
	mockUserRepo    *MockUserRepository
	mockSelector    *MockRuleSelector
	service         portssvc.ApprovalSvcFacade

	companyID string
}

func (suite *ApprovalServiceTestSuite) SetupTest() {
	suite.mockFlowRepo = new(MockFlowRepository)
	suite.mockExpenseRepo = new(MockExpenseRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockSelector = new(MockRuleSelector)
	suite.service = services.NewApprovalService(suite.mockFlowRepo, suite.mockExpenseRepo, suite.mockUserRepo, suite.mockSelector)
	suite.companyID = uuid.NewString()
}

func (suite *ApprovalServiceTestSuite) expense(submitterID string) domain.Expense {
	return domain.Expense{
		ExpenseID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		SubmitterID: submitterID,
		Amount:      decimal.NewFromInt(250),
		Currency:    "USD",
		Status:      domain.ExpensePending,
	}
}

func (suite *ApprovalServiceTestSuite) TestBuildFlow_AdminWithoutRuleAutoApproves() {
	ctx := context.Background()
	admin := domain.User{UserID: uuid.NewString(), CompanyID: suite.companyID, Role: domain.RoleAdmin, IsActive: true}
	expense := suite.expense(admin.UserID)

	suite.mockSelector.On("SelectRule", ctx, suite.companyID, expense.Amount).Return(nil, nil).Once()
	suite.mockExpenseRepo.On("UpdateExpenseStatus", ctx, expense.ExpenseID, domain.ExpenseApproved, admin.UserID).Return(nil).Once()

	flow, err := suite.service.BuildFlow(ctx, expense, admin)

	suite.Require().NoError(err)
	suite.Nil(flow)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
	suite.mockFlowRepo.AssertNotCalled(suite.T(), "SaveFlow", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ApprovalServiceTestSuite) TestBuildFlow_EmployeeWithoutRuleGetsManagerStep() {
	ctx := context.Background()
	managerID := uuid.NewString()
	employee := domain.User{UserID: uuid.NewString(), CompanyID: suite.companyID, Role: domain.RoleEmployee, ManagerID: &managerID, IsActive: true}
	expense := suite.expense(employee.UserID)

	suite.mockSelector.On("SelectRule", ctx, suite.companyID, expense.Amount).Return(nil, nil).Once()
	suite.mockFlowRepo.On("SaveFlow", ctx, mock.AnythingOfType("domain.ApprovalFlow"), mock.AnythingOfType("[]domain.ApprovalStep")).Return(nil).Once()

	flow, err := suite.service.BuildFlow(ctx, expense, employee)

	suite.Require().NoError(err)
	suite.Require().NotNil(flow)
	suite.Nil(flow.RuleID)
	suite.Equal(expense.ExpenseID, flow.ExpenseID)
	suite.Equal(1, flow.CurrentStep)
	suite.Require().Len(flow.Steps, 1)
	suite.Equal(managerID, flow.Steps[0].ApproverID)
	suite.Equal(domain.StepPending, flow.Steps[0].Status)
	suite.NotEmpty(flow.Steps[0].StepID)
	suite.Equal(flow.FlowID, flow.Steps[0].FlowID)
}

func (suite *ApprovalServiceTestSuite) TestBuildFlow_NoApproversLeavesExpensePending() {
	ctx := context.Background()
	employee := domain.User{UserID: uuid.NewString(), CompanyID: suite.companyID, Role: domain.RoleEmployee, IsActive: true}
	expense := suite.expense(employee.UserID)

	suite.mockSelector.On("SelectRule", ctx, suite.companyID, expense.Amount).Return(nil, nil).Once()

	flow, err := suite.service.BuildFlow(ctx, expense, employee)

	suite.Require().NoError(err)
	suite.Nil(flow)
	suite.mockFlowRepo.AssertNotCalled(suite.T(), "SaveFlow", mock.Anything, mock.Anything, mock.Anything)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "UpdateExpenseStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ApprovalServiceTestSuite) TestBuildFlow_PercentageRuleUsesApproverPool() {
	ctx := context.Background()
	employee := domain.User{UserID: uuid.NewString(), CompanyID: suite.companyID, Role: domain.RoleEmployee, IsActive: true}
	expense := suite.expense(employee.UserID)

	threshold := decimal.NewFromInt(50)
	rule := &domain.ApprovalRule{
		RuleID:              uuid.NewString(),
		CompanyID:           suite.companyID,
		RuleType:            domain.RulePercentage,
		PercentageThreshold: &threshold,
		IsActive:            true,
	}
	pool := []domain.User{
		{UserID: uuid.NewString(), CompanyID: suite.companyID, Role: domain.RoleAdmin, IsActive: true},
		{UserID: uuid.NewString(), CompanyID: suite.companyID, Role: domain.RoleManager, IsActive: true},
	}

	suite.mockSelector.On("SelectRule", ctx, suite.companyID, expense.Amount).Return(rule, nil).Once()
	suite.mockUserRepo.On("ListApproverCandidates", ctx, suite.companyID, employee.UserID).Return(pool, nil).Once()
	suite.mockFlowRepo.On("SaveFlow", ctx, mock.AnythingOfType("domain.ApprovalFlow"), mock.AnythingOfType("[]domain.ApprovalStep")).Return(nil).Once()

	flow, err := suite.service.BuildFlow(ctx, expense, employee)

	suite.Require().NoError(err)
	suite.Require().NotNil(flow)
	suite.Require().NotNil(flow.RuleID)
	suite.Equal(rule.RuleID, *flow.RuleID)
	suite.Require().Len(flow.Steps, 2)
	suite.Equal(1, flow.Steps[0].StepNumber)
	suite.Equal(1, flow.Steps[1].StepNumber)
}

func (suite *ApprovalServiceTestSuite) TestDecide_InvalidAction() {
	ctx := context.Background()

	result, err := suite.service.Decide(ctx, uuid.NewString(), uuid.NewString(), domain.ApprovalAction("MAYBE"), nil)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ApprovalServiceTestSuite) TestDecide_EmployeeForbidden() {
	ctx := context.Background()
	actorID := uuid.NewString()
	suite.mockUserRepo.On("FindUserByID", ctx, actorID).Return(&domain.User{
		UserID:    actorID,
		CompanyID: suite.companyID,
		Role:      domain.RoleEmployee,
		IsActive:  true,
	}, nil).Once()

	result, err := suite.service.Decide(ctx, uuid.NewString(), actorID, domain.ActionApprove, nil)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *ApprovalServiceTestSuite) TestDecide_CompletedFlowConflicts() {
	ctx := context.Background()
	actorID := uuid.NewString()
	expenseID := uuid.NewString()
	flowID := uuid.NewString()

	suite.mockUserRepo.On("FindUserByID", ctx, actorID).Return(&domain.User{
		UserID: actorID, CompanyID: suite.companyID, Role: domain.RoleManager, IsActive: true,
	}, nil).Once()
	suite.mockFlowRepo.On("FindFlowByExpenseID", ctx, expenseID).Return(&domain.ApprovalFlow{FlowID: flowID, ExpenseID: expenseID}, nil).Once()
	suite.mockFlowRepo.On("DecideStep", ctx, flowID).Return(nil, nil).Once()
	suite.mockFlowRepo.LockedFlow = domain.ApprovalFlow{FlowID: flowID, ExpenseID: expenseID, IsCompleted: true}

	result, err := suite.service.Decide(ctx, expenseID, actorID, domain.ActionApprove, nil)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *ApprovalServiceTestSuite) TestDecide_NoPendingStepForActor() {
	ctx := context.Background()
	actorID := uuid.NewString()
	expenseID := uuid.NewString()
	flowID := uuid.NewString()

	suite.mockUserRepo.On("FindUserByID", ctx, actorID).Return(&domain.User{
		UserID: actorID, CompanyID: suite.companyID, Role: domain.RoleManager, IsActive: true,
	}, nil).Once()
	suite.mockFlowRepo.On("FindFlowByExpenseID", ctx, expenseID).Return(&domain.ApprovalFlow{FlowID: flowID, ExpenseID: expenseID}, nil).Once()
	suite.mockFlowRepo.On("DecideStep", ctx, flowID).Return(nil, nil).Once()
	suite.mockFlowRepo.LockedFlow = domain.ApprovalFlow{
		FlowID:    flowID,
		ExpenseID: expenseID,
		Steps: []domain.ApprovalStep{
			{StepID: uuid.NewString(), StepNumber: 1, ApproverID: uuid.NewString(), Status: domain.StepPending},
		},
	}

	result, err := suite.service.Decide(ctx, expenseID, actorID, domain.ActionApprove, nil)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ApprovalServiceTestSuite) TestDecide_RejectionVetoesFlow() {
	ctx := context.Background()
	actorID := uuid.NewString()
	expenseID := uuid.NewString()
	flowID := uuid.NewString()
	comment := "missing receipt"

	suite.mockUserRepo.On("FindUserByID", ctx, actorID).Return(&domain.User{
		UserID: actorID, CompanyID: suite.companyID, Role: domain.RoleManager, IsActive: true,
	}, nil).Once()
	suite.mockFlowRepo.On("FindFlowByExpenseID", ctx, expenseID).Return(&domain.ApprovalFlow{FlowID: flowID, ExpenseID: expenseID}, nil).Once()
	suite.mockFlowRepo.On("DecideStep", ctx, flowID).Return(nil, nil).Once()
	suite.mockFlowRepo.LockedFlow = domain.ApprovalFlow{
		FlowID:    flowID,
		ExpenseID: expenseID,
		Steps: []domain.ApprovalStep{
			{StepID: uuid.NewString(), StepNumber: 1, ApproverID: actorID, Status: domain.StepPending},
			{StepID: uuid.NewString(), StepNumber: 1, ApproverID: uuid.NewString(), Status: domain.StepPending},
		},
	}

	result, err := suite.service.Decide(ctx, expenseID, actorID, domain.ActionReject, &comment)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal(domain.ExpenseRejected, result.FlowStatus)
	suite.Equal(domain.ExpenseRejected, result.ExpenseStatus)
	suite.Equal(domain.StepRejected, result.Step.Status)
	suite.Equal(&comment, result.Step.Comment)
	suite.Require().NotNil(suite.mockFlowRepo.AppliedMutation)
	suite.Equal(actorID, suite.mockFlowRepo.AppliedMutation.ActorID)
}

func (suite *ApprovalServiceTestSuite) TestDecide_SequentialApprovalAdvances() {
	ctx := context.Background()
	actorID := uuid.NewString()
	expenseID := uuid.NewString()
	flowID := uuid.NewString()

	suite.mockUserRepo.On("FindUserByID", ctx, actorID).Return(&domain.User{
		UserID: actorID, CompanyID: suite.companyID, Role: domain.RoleManager, IsActive: true,
	}, nil).Once()
	suite.mockFlowRepo.On("FindFlowByExpenseID", ctx, expenseID).Return(&domain.ApprovalFlow{FlowID: flowID, ExpenseID: expenseID}, nil).Once()
	suite.mockFlowRepo.On("DecideStep", ctx, flowID).Return(nil, nil).Once()
	suite.mockFlowRepo.LockedFlow = domain.ApprovalFlow{
		FlowID:      flowID,
		ExpenseID:   expenseID,
		CurrentStep: 1,
		Steps: []domain.ApprovalStep{
			{StepID: uuid.NewString(), StepNumber: 1, ApproverID: actorID, Status: domain.StepPending},
			{StepID: uuid.NewString(), StepNumber: 2, ApproverID: uuid.NewString(), Status: domain.StepPending},
		},
	}

	result, err := suite.service.Decide(ctx, expenseID, actorID, domain.ActionApprove, nil)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal(domain.ExpensePending, result.FlowStatus)
	suite.Equal(domain.ExpensePending, result.ExpenseStatus)
	suite.Require().NotNil(suite.mockFlowRepo.AppliedMutation)
	suite.True(suite.mockFlowRepo.AppliedMutation.AdvanceStep)
}

func (suite *ApprovalServiceTestSuite) TestDecide_SpecificApproverCompletesFlow() {
	ctx := context.Background()
	actorID := uuid.NewString()
	expenseID := uuid.NewString()
	flowID := uuid.NewString()
	ruleID := uuid.NewString()

	suite.mockUserRepo.On("FindUserByID", ctx, actorID).Return(&domain.User{
		UserID: actorID, CompanyID: suite.companyID, Role: domain.RoleAdmin, IsActive: true,
	}, nil).Once()
	suite.mockFlowRepo.On("FindFlowByExpenseID", ctx, expenseID).Return(&domain.ApprovalFlow{FlowID: flowID, ExpenseID: expenseID, RuleID: &ruleID}, nil).Once()
	suite.mockFlowRepo.On("DecideStep", ctx, flowID).Return(nil, nil).Once()
	suite.mockFlowRepo.LockedFlow = domain.ApprovalFlow{
		FlowID:    flowID,
		ExpenseID: expenseID,
		RuleID:    &ruleID,
		Steps: []domain.ApprovalStep{
			{StepID: uuid.NewString(), StepNumber: 1, ApproverID: actorID, Status: domain.StepPending},
		},
	}
	suite.mockFlowRepo.LockedRule = &domain.ApprovalRule{
		RuleID:             ruleID,
		RuleType:           domain.RuleSpecific,
		SpecificApproverID: &actorID,
	}

	result, err := suite.service.Decide(ctx, expenseID, actorID, domain.ActionApprove, nil)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal(domain.ExpenseApproved, result.FlowStatus)
	suite.Equal(domain.ExpenseApproved, result.ExpenseStatus)
	suite.Equal(domain.StepApproved, result.Step.Status)
	suite.Require().NotNil(result.Step.ApprovedAt)
}

func TestApprovalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ApprovalServiceTestSuite))
}
