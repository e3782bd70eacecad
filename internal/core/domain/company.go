package domain

// Company owns users, approval rules and expenses. Currency is the company
// base currency; expense amounts are converted into it at submission time.
type Company struct {
	CompanyID string `json:"companyID"`
	Name      string `json:"name"`
	Currency  string `json:"currency"`
	Country   string `json:"country"`
	AuditFields
}
