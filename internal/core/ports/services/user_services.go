package services

import (
	"context"
	"time"

	"github.com/expenza/expense_flow_app/internal/core/domain"
	"github.com/expenza/expense_flow_app/internal/dto"
)

// UserReaderSvc defines read operations for user data.
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByEmail retrieves a user by email.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// ListCompanyUsers lists the members of a company.
	ListCompanyUsers(ctx context.Context, companyID string) ([]domain.User, error)

	// ListTeam lists the direct reports of a manager.
	ListTeam(ctx context.Context, managerID string) ([]domain.User, error)
}

// UserWriterSvc defines write operations for user data.
type UserWriterSvc interface {
	// CreateUser creates a new company member. Only admins may call this.
	CreateUser(ctx context.Context, companyID string, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error)

	// UpdateUser updates an existing member.
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error)

	// AssignManager sets or clears a member's manager, rejecting
	// assignments that would create a cycle in the reporting tree.
	AssignManager(ctx context.Context, userID string, managerID *string, requestingUserID string) (*domain.User, error)

	// UpdateRefreshToken stores the hash and expiry of a refresh token.
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error

	// ClearRefreshToken clears the stored refresh token.
	ClearRefreshToken(ctx context.Context, userID string) error
}

// UserAuthSvc defines operations for user authentication.
type UserAuthSvc interface {
	// AuthenticateUser authenticates a user with email and password.
	AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error)

	// RegisterWithCompany creates a company and its first admin user.
	RegisterWithCompany(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// FindOrCreateByGoogleIdentity resolves the user for a verified Google
	// identity. Unknown emails are rejected so membership stays under
	// admin control.
	FindOrCreateByGoogleIdentity(ctx context.Context, email, name string) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces.
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserAuthSvc
}
