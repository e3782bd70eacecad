package services

import (
	portsrepo "github.com/expenza/expense_flow_app/internal/core/ports/repositories"
	portssvc "github.com/expenza/expense_flow_app/internal/core/ports/services"
	"github.com/expenza/expense_flow_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo, repos.CompanyRepo)
	container.Company = NewCompanyService(repos.CompanyRepo)
	container.Rule = NewRuleService(repos.RuleRepo, repos.UserRepo)

	// The approval service consumes only the rule-selection slice of the
	// rule facade.
	container.Approval = NewApprovalService(repos.FlowRepo, repos.ExpenseRepo, repos.UserRepo, container.Rule)

	rateProvider := &HTTPRateProvider{BaseURL: cfg.ExchangeRateAPIURL}
	container.ExchangeRate = NewExchangeRateService(rateProvider, cfg.ExchangeRateCacheTTL)

	scanner := NewReceiptScannerService()
	container.Expense = NewExpenseService(
		repos.ExpenseRepo,
		repos.UserRepo,
		repos.CompanyRepo,
		container.Approval,
		container.ExchangeRate,
		scanner,
	)

	container.Token = NewTokenService(cfg, container.User)
	container.GoogleAuth = NewGoogleAuthService(cfg, container.User)

	return container
}
