package dto

import (
	"time"

	"github.com/expenza/expense_flow_app/internal/core/domain"
)

// CreateCompanyRequest is the payload for creating a company.
type CreateCompanyRequest struct {
	Name     string `json:"name" binding:"required"`
	Currency string `json:"currency" binding:"required,len=3"`
	Country  string `json:"country"`
}

// CompanyResponse is the API shape of a company.
type CompanyResponse struct {
	CompanyID string    `json:"companyID"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToCompanyResponse maps a domain Company to its API shape.
func ToCompanyResponse(c domain.Company) CompanyResponse {
	return CompanyResponse{
		CompanyID: c.CompanyID,
		Name:      c.Name,
		Currency:  c.Currency,
		Country:   c.Country,
		CreatedAt: c.CreatedAt,
	}
}
