package domain

// CostCenter is an organizational unit (department, project) against which spend
// is tracked independently of account type. The engine treats it as opaque identity.
type CostCenter struct {
	CostCenterID string `json:"costCenterID"` // Primary Key (UUID)
	CompanyID    string `json:"companyID"`
	Code         string `json:"code"` // Unique per company
	Name         string `json:"name"`
	IsActive     bool   `json:"isActive"`
	AuditFields
}
