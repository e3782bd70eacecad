package domain

import "time"

// UserRole distinguishes what a user may do within their company.
type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleManager  UserRole = "MANAGER"
	RoleEmployee UserRole = "EMPLOYEE"
)

// IsApproverRole reports whether the role can act on approval steps.
func (r UserRole) IsApproverRole() bool {
	return r == RoleAdmin || r == RoleManager
}

// User represents an employee, manager or admin of a company.
// ManagerID is a self-referential reference forming the reporting tree;
// assignment validates acyclicity (see userService.AssignManager).
type User struct {
	UserID       string   `json:"userID"`
	CompanyID    string   `json:"companyID"`
	Email        string   `json:"email"`
	Name         string   `json:"name"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
	ManagerID    *string  `json:"managerID,omitempty"`
	IsActive     bool     `json:"isActive"`
	AuditFields

	// Refresh token state for session renewal.
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
}
