package mapping

import (
	"github.com/expenza/expense_flow_app/internal/core/domain"
	"github.com/expenza/expense_flow_app/internal/models"
)

// ToModelUser converts a domain User to a model User.
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:                 d.UserID,
		CompanyID:              d.CompanyID,
		Email:                  d.Email,
		Name:                   d.Name,
		PasswordHash:           d.PasswordHash,
		Role:                   string(d.Role),
		ManagerID:              PtrToNullString(d.ManagerID),
		IsActive:               d.IsActive,
		AuditFields:            ToModelAuditFields(d.AuditFields),
		RefreshTokenHash:       PtrToNullString(nonEmptyPtr(d.RefreshTokenHash)),
		RefreshTokenExpiryTime: PtrToNullTime(d.RefreshTokenExpiryTime),
	}
}

// ToDomainUser converts a model User to a domain User.
func ToDomainUser(m models.User) domain.User {
	u := domain.User{
		UserID:                 m.UserID,
		CompanyID:              m.CompanyID,
		Email:                  m.Email,
		Name:                   m.Name,
		PasswordHash:           m.PasswordHash,
		Role:                   domain.UserRole(m.Role),
		ManagerID:              NullStringToPtr(m.ManagerID),
		IsActive:               m.IsActive,
		AuditFields:            ToDomainAuditFields(m.AuditFields),
		RefreshTokenExpiryTime: NullTimeToPtr(m.RefreshTokenExpiryTime),
	}
	if m.RefreshTokenHash.Valid {
		u.RefreshTokenHash = m.RefreshTokenHash.String
	}
	return u
}

// ToDomainUserSlice converts a slice of model Users to domain Users.
func ToDomainUserSlice(ms []models.User) []domain.User {
	ds := make([]domain.User, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainUser(m)
	}
	return ds
}

// ToModelCompany converts a domain Company to a model Company.
func ToModelCompany(d domain.Company) models.Company {
	return models.Company{
		CompanyID:   d.CompanyID,
		Name:        d.Name,
		Currency:    d.Currency,
		Country:     d.Country,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCompany converts a model Company to a domain Company.
func ToDomainCompany(m models.Company) domain.Company {
	return domain.Company{
		CompanyID:   m.CompanyID,
		Name:        m.Name,
		Currency:    m.Currency,
		Country:     m.Country,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

func nonEmptyPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
