package models

import (
	"database/sql"
)

// User is the persistence shape of a company member.
type User struct {
	UserID       string         `db:"user_id"`
	CompanyID    string         `db:"company_id"`
	Email        string         `db:"email"`
	Name         string         `db:"name"`
	PasswordHash string         `db:"password_hash"`
	Role         string         `db:"role"`
	ManagerID    sql.NullString `db:"manager_id"`
	IsActive     bool           `db:"is_active"`
	AuditFields

	RefreshTokenHash       sql.NullString `db:"refresh_token_hash"`
	RefreshTokenExpiryTime sql.NullTime   `db:"refresh_token_expiry_time"`
}

// Company is the persistence shape of a company.
type Company struct {
	CompanyID string `db:"company_id"`
	Name      string `db:"name"`
	Currency  string `db:"currency"`
	Country   string `db:"country"`
	AuditFields
}
