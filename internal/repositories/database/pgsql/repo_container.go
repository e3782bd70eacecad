package pgsql

import (
	portsrepo "github.com/expenza/expense_flow_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:    newPgxUserRepository(dbPool),
		CompanyRepo: newPgxCompanyRepository(dbPool),
		RuleRepo:    newPgxRuleRepository(dbPool),
		ExpenseRepo: newPgxExpenseRepository(dbPool),
		FlowRepo:    newPgxFlowRepository(dbPool),
	}
}
