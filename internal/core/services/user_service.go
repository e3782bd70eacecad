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
	"github.com/expenza/expense_flow_app/internal/utils"
	"github.com/google/uuid"
)

// maxManagerChainDepth bounds the ancestor walk during cycle checks so a
// corrupted tree cannot loop forever.
const maxManagerChainDepth = 64

// userService implements UserSvcFacade.
type userService struct {
	BaseService
	userRepo    portsrepo.UserRepository
	companyRepo portsrepo.CompanyRepository
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepository, companyRepo portsrepo.CompanyRepository) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo, companyRepo: companyRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (s *userService) ListCompanyUsers(ctx context.Context, companyID string) ([]domain.User, error) {
	users, err := s.userRepo.ListUsersByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list company users: %w", err)
	}
	return users, nil
}

func (s *userService) ListTeam(ctx context.Context, managerID string) ([]domain.User, error) {
	users, err := s.userRepo.ListDirectReports(ctx, managerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team: %w", err)
	}
	return users, nil
}

func (s *userService) CreateUser(ctx context.Context, companyID string, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error) {
	creator, err := s.userRepo.FindUserByID(ctx, creatorUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load creating user: %w", err)
	}
	if creator.CompanyID != companyID || creator.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: only company admins may add members", apperrors.ErrForbidden)
	}

	if existing, err := s.userRepo.FindUserByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		CompanyID:    companyID,
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         domain.UserRole(req.Role),
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if req.ManagerID != nil {
		if err := s.validateManagerAssignment(ctx, &user, *req.ManagerID); err != nil {
			return nil, err
		}
		user.ManagerID = req.ManagerID
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	return &user, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user for update: %w", err)
	}
	requester, err := s.userRepo.FindUserByID(ctx, requestingUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load requesting user: %w", err)
	}
	if requester.UserID != user.UserID && (requester.CompanyID != user.CompanyID || requester.Role != domain.RoleAdmin) {
		return nil, fmt.Errorf("%w: cannot update another company's member", apperrors.ErrForbidden)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		if requester.Role != domain.RoleAdmin {
			return nil, fmt.Errorf("%w: only admins may change roles", apperrors.ErrForbidden)
		}
		user.Role = domain.UserRole(*req.Role)
	}
	if req.IsActive != nil {
		if requester.Role != domain.RoleAdmin {
			return nil, fmt.Errorf("%w: only admins may change activation", apperrors.ErrForbidden)
		}
		user.IsActive = *req.IsActive
	}

	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = requestingUserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// AssignManager sets or clears a member's manager. The walk up the proposed
// ancestor chain rejects assignments that would close a cycle in the
// reporting tree.
func (s *userService) AssignManager(ctx context.Context, userID string, managerID *string, requestingUserID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user for manager assignment: %w", err)
	}
	requester, err := s.userRepo.FindUserByID(ctx, requestingUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load requesting user: %w", err)
	}
	if requester.CompanyID != user.CompanyID || requester.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: only company admins may assign managers", apperrors.ErrForbidden)
	}

	if managerID != nil {
		if err := s.validateManagerAssignment(ctx, user, *managerID); err != nil {
			return nil, err
		}
	}
	user.ManagerID = managerID
	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = requestingUserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("failed to update user manager: %w", err)
	}
	return user, nil
}

// validateManagerAssignment checks company membership, role, and that the
// user does not appear in the proposed manager's ancestor chain.
func (s *userService) validateManagerAssignment(ctx context.Context, user *domain.User, managerID string) error {
	if managerID == user.UserID {
		return fmt.Errorf("%w: a user cannot be their own manager", apperrors.ErrValidation)
	}
	manager, err := s.userRepo.FindUserByID(ctx, managerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: manager %q not found", apperrors.ErrValidation, managerID)
		}
		return fmt.Errorf("failed to load proposed manager: %w", err)
	}
	if manager.CompanyID != user.CompanyID {
		return fmt.Errorf("%w: manager belongs to a different company", apperrors.ErrValidation)
	}
	if !manager.Role.IsApproverRole() {
		return fmt.Errorf("%w: manager must have the ADMIN or MANAGER role", apperrors.ErrValidation)
	}

	current := manager
	for depth := 0; current.ManagerID != nil; depth++ {
		if depth >= maxManagerChainDepth {
			return fmt.Errorf("%w: manager chain too deep", apperrors.ErrValidation)
		}
		if *current.ManagerID == user.UserID {
			return fmt.Errorf("%w: assignment would create a cycle in the manager tree", apperrors.ErrValidation)
		}
		next, err := s.userRepo.FindUserByID(ctx, *current.ManagerID)
		if err != nil {
			return fmt.Errorf("failed to walk manager chain: %w", err)
		}
		current = next
	}
	return nil
}

func (s *userService) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	return s.userRepo.UpdateRefreshToken(ctx, userID, refreshTokenHash, refreshTokenExpiryTime)
}

func (s *userService) ClearRefreshToken(ctx context.Context, userID string) error {
	return s.userRepo.ClearRefreshToken(ctx, userID)
}

// AuthenticateUser verifies email/password credentials.
func (s *userService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up user for authentication: %w", err)
	}
	if !user.IsActive || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

// RegisterWithCompany creates a company and its first admin in one go.
func (s *userService) RegisterWithCompany(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	if existing, err := s.userRepo.FindUserByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	userID := uuid.NewString()
	company := domain.Company{
		CompanyID: uuid.NewString(),
		Name:      req.CompanyName,
		Currency:  req.CompanyCurrency,
		Country:   req.Country,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.companyRepo.SaveCompany(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	user := domain.User{
		UserID:       userID,
		CompanyID:    company.CompanyID,
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create admin user: %w", err)
	}
	return &user, nil
}

// FindOrCreateByGoogleIdentity resolves a verified Google identity to a
// user. Google sign-in never provisions a company; unknown emails are
// rejected so membership stays admin-controlled.
func (s *userService) FindOrCreateByGoogleIdentity(ctx context.Context, email, name string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no account for this Google identity", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to look up Google identity: %w", err)
	}
	if !user.IsActive {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}
