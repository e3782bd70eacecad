package repositories

import (
	"context"
	"time"

	"github.com/expenza/expense_flow_app/internal/core/domain"
)

// UserRepository defines persistence operations for users and the manager
// tree. Lookups return apperrors.ErrNotFound when no row matches.
type UserRepository interface {
	SaveUser(ctx context.Context, user domain.User) error
	UpdateUser(ctx context.Context, user domain.User) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsersByCompany(ctx context.Context, companyID string) ([]domain.User, error)
	// ListApproverCandidates returns the company's active ADMIN/MANAGER
	// users excluding excludeUserID, the pool for percentage cohorts.
	ListApproverCandidates(ctx context.Context, companyID string, excludeUserID string) ([]domain.User, error)
	ListDirectReports(ctx context.Context, managerID string) ([]domain.User, error)
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error
	ClearRefreshToken(ctx context.Context, userID string) error
}

// CompanyRepository defines persistence operations for companies.
type CompanyRepository interface {
	SaveCompany(ctx context.Context, company domain.Company) error
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)
}
