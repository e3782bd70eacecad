package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/expenza/expense_flow_app/internal/apperrors"
	"github.com/expenza/expense_flow_app/internal/core/domain"
	portssvc "github.com/expenza/expense_flow_app/internal/core/ports/services"
	"github.com/expenza/expense_flow_app/internal/core/services"
	"github.com/expenza/expense_flow_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type RuleServiceTestSuite struct {
	suite.Suite
	mockRuleRepo *MockRuleRepository
	mockUserRepo *MockUserRepository
	service      portssvc.RuleSvcFacade

	companyID string
	adminID   string
}

func (suite *RuleServiceTestSuite) SetupTest() {
	suite.mockRuleRepo = new(MockRuleRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewRuleService(suite.mockRuleRepo, suite.mockUserRepo)
	suite.companyID = uuid.NewString()
	suite.adminID = uuid.NewString()
}

func (suite *RuleServiceTestSuite) admin() *domain.User {
	return &domain.User{
		UserID:    suite.adminID,
		CompanyID: suite.companyID,
		Role:      domain.RoleAdmin,
		IsActive:  true,
	}
}

func (suite *RuleServiceTestSuite) TestSelectRule_FirstMatchWins() {
	ctx := context.Background()
	min100 := decimal.NewFromInt(100)
	max500 := decimal.NewFromInt(500)
	threshold := decimal.NewFromInt(50)
	rules := []domain.ApprovalRule{
		{RuleID: "older", RuleType: domain.RulePercentage, PercentageThreshold: &threshold, MinAmount: &min100, MaxAmount: &max500},
		{RuleID: "newer", RuleType: domain.RulePercentage, PercentageThreshold: &threshold},
	}
	suite.mockRuleRepo.On("ListActiveRules", ctx, suite.companyID).Return(rules, nil).Once()

	selected, err := suite.service.SelectRule(ctx, suite.companyID, decimal.NewFromInt(250))

	suite.Require().NoError(err)
	suite.Require().NotNil(selected)
	suite.Equal("older", selected.RuleID)
	suite.mockRuleRepo.AssertExpectations(suite.T())
}

func (suite *RuleServiceTestSuite) TestSelectRule_SkipsNonMatchingRanges() {
	ctx := context.Background()
	min1000 := decimal.NewFromInt(1000)
	threshold := decimal.NewFromInt(50)
	rules := []domain.ApprovalRule{
		{RuleID: "big-only", RuleType: domain.RulePercentage, PercentageThreshold: &threshold, MinAmount: &min1000},
		{RuleID: "catch-all", RuleType: domain.RulePercentage, PercentageThreshold: &threshold},
	}
	suite.mockRuleRepo.On("ListActiveRules", ctx, suite.companyID).Return(rules, nil).Once()

	selected, err := suite.service.SelectRule(ctx, suite.companyID, decimal.NewFromInt(40))

	suite.Require().NoError(err)
	suite.Require().NotNil(selected)
	suite.Equal("catch-all", selected.RuleID)
}

func (suite *RuleServiceTestSuite) TestSelectRule_NoMatchReturnsNil() {
	ctx := context.Background()
	min1000 := decimal.NewFromInt(1000)
	threshold := decimal.NewFromInt(50)
	rules := []domain.ApprovalRule{
		{RuleID: "big-only", RuleType: domain.RulePercentage, PercentageThreshold: &threshold, MinAmount: &min1000},
	}
	suite.mockRuleRepo.On("ListActiveRules", ctx, suite.companyID).Return(rules, nil).Once()

	selected, err := suite.service.SelectRule(ctx, suite.companyID, decimal.NewFromInt(40))

	suite.Require().NoError(err)
	suite.Nil(selected)
}

func (suite *RuleServiceTestSuite) TestCreateRule_Success() {
	ctx := context.Background()
	threshold := decimal.NewFromInt(60)
	req := dto.CreateApprovalRuleRequest{
		Name:                "Majority approval",
		RuleType:            string(domain.RulePercentage),
		PercentageThreshold: &threshold,
	}
	suite.mockUserRepo.On("FindUserByID", ctx, suite.adminID).Return(suite.admin(), nil).Once()
	suite.mockRuleRepo.On("SaveRule", ctx, mock.AnythingOfType("domain.ApprovalRule")).Return(nil).Once()

	rule, err := suite.service.CreateRule(ctx, suite.companyID, req, suite.adminID)

	suite.Require().NoError(err)
	suite.Require().NotNil(rule)
	suite.NotEmpty(rule.RuleID)
	suite.Equal(domain.RulePercentage, rule.RuleType)
	suite.True(rule.IsActive)
	suite.Equal(suite.adminID, rule.CreatedBy)
	suite.WithinDuration(time.Now(), rule.CreatedAt, time.Second)
	suite.mockRuleRepo.AssertExpectations(suite.T())
}

func (suite *RuleServiceTestSuite) TestCreateRule_NonAdminForbidden() {
	ctx := context.Background()
	employeeID := uuid.NewString()
	employee := &domain.User{UserID: employeeID, CompanyID: suite.companyID, Role: domain.RoleEmployee, IsActive: true}
	suite.mockUserRepo.On("FindUserByID", ctx, employeeID).Return(employee, nil).Once()

	threshold := decimal.NewFromInt(60)
	req := dto.CreateApprovalRuleRequest{
		Name:                "Majority approval",
		RuleType:            string(domain.RulePercentage),
		PercentageThreshold: &threshold,
	}

	rule, err := suite.service.CreateRule(ctx, suite.companyID, req, employeeID)

	suite.Require().Error(err)
	suite.Nil(rule)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRuleRepo.AssertNotCalled(suite.T(), "SaveRule", mock.Anything, mock.Anything)
}

func (suite *RuleServiceTestSuite) TestCreateRule_MissingThresholdFails() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.adminID).Return(suite.admin(), nil).Once()

	req := dto.CreateApprovalRuleRequest{
		Name:     "Broken rule",
		RuleType: string(domain.RulePercentage),
	}

	rule, err := suite.service.CreateRule(ctx, suite.companyID, req, suite.adminID)

	suite.Require().Error(err)
	suite.Nil(rule)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RuleServiceTestSuite) TestCreateRule_SpecificApproverMustBeActiveApprover() {
	ctx := context.Background()
	approverID := uuid.NewString()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.adminID).Return(suite.admin(), nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, approverID).Return(&domain.User{
		UserID:    approverID,
		CompanyID: suite.companyID,
		Role:      domain.RoleEmployee,
		IsActive:  true,
	}, nil).Once()

	req := dto.CreateApprovalRuleRequest{
		Name:               "CFO approval",
		RuleType:           string(domain.RuleSpecific),
		SpecificApproverID: &approverID,
	}

	rule, err := suite.service.CreateRule(ctx, suite.companyID, req, suite.adminID)

	suite.Require().Error(err)
	suite.Nil(rule)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RuleServiceTestSuite) TestUpdateRule_TypeChangeNormalizesFields() {
	ctx := context.Background()
	ruleID := uuid.NewString()
	approverID := uuid.NewString()
	threshold := decimal.NewFromInt(60)
	existing := &domain.ApprovalRule{
		RuleID:              ruleID,
		CompanyID:           suite.companyID,
		Name:                "Majority approval",
		RuleType:            domain.RulePercentage,
		PercentageThreshold: &threshold,
		IsActive:            true,
	}
	suite.mockRuleRepo.On("FindRuleByID", ctx, ruleID).Return(existing, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.adminID).Return(suite.admin(), nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, approverID).Return(&domain.User{
		UserID:    approverID,
		CompanyID: suite.companyID,
		Role:      domain.RoleManager,
		IsActive:  true,
	}, nil).Once()
	suite.mockRuleRepo.On("UpdateRule", ctx, mock.AnythingOfType("domain.ApprovalRule")).Return(nil).Once()

	newType := string(domain.RuleSpecific)
	updated, err := suite.service.UpdateRule(ctx, ruleID, dto.UpdateApprovalRuleRequest{
		RuleType:           &newType,
		SpecificApproverID: &approverID,
	}, suite.adminID)

	suite.Require().NoError(err)
	suite.Require().NotNil(updated)
	suite.Equal(domain.RuleSpecific, updated.RuleType)
	// The stale percentage threshold must not survive the type change.
	suite.Nil(updated.PercentageThreshold)
	suite.Equal(&approverID, updated.SpecificApproverID)
}

func (suite *RuleServiceTestSuite) TestDeleteRule_InUseConflicts() {
	ctx := context.Background()
	ruleID := uuid.NewString()
	suite.mockRuleRepo.On("FindRuleByID", ctx, ruleID).Return(&domain.ApprovalRule{
		RuleID:    ruleID,
		CompanyID: suite.companyID,
	}, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.adminID).Return(suite.admin(), nil).Once()
	suite.mockRuleRepo.On("CountFlowsUsingRule", ctx, ruleID).Return(3, nil).Once()

	err := suite.service.DeleteRule(ctx, ruleID, suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRuleRepo.AssertNotCalled(suite.T(), "DeleteRule", mock.Anything, mock.Anything)
}

func (suite *RuleServiceTestSuite) TestDeleteRule_Success() {
	ctx := context.Background()
	ruleID := uuid.NewString()
	suite.mockRuleRepo.On("FindRuleByID", ctx, ruleID).Return(&domain.ApprovalRule{
		RuleID:    ruleID,
		CompanyID: suite.companyID,
	}, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.adminID).Return(suite.admin(), nil).Once()
	suite.mockRuleRepo.On("CountFlowsUsingRule", ctx, ruleID).Return(0, nil).Once()
	suite.mockRuleRepo.On("DeleteRule", ctx, ruleID).Return(nil).Once()

	err := suite.service.DeleteRule(ctx, ruleID, suite.adminID)

	suite.Require().NoError(err)
	suite.mockRuleRepo.AssertExpectations(suite.T())
}

func TestRuleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RuleServiceTestSuite))
}
