package models

import (
	"github.com/shopspring/decimal"
)

// Account is the database representation of a chart-of-accounts node.
// ParentCode is a nullable self-reference by account code within the company.
type Account struct {
	AccountID     string          `db:"account_id"`
	CompanyID     string          `db:"company_id"`
	AccountCode   string          `db:"account_code"`
	Name          string          `db:"name"`
	AccountType   string          `db:"account_type"`
	NormalBalance string          `db:"normal_balance"`
	ParentCode    *string         `db:"parent_code"`
	Description   string          `db:"description"`
	IsActive      bool            `db:"is_active"`
	Balance       decimal.Decimal `db:"balance"`
	AuditFields
}

// CostCenter is the database representation of a cost center.
type CostCenter struct {
	CostCenterID string `db:"cost_center_id"`
	CompanyID    string `db:"company_id"`
	Code         string `db:"code"`
	Name         string `db:"name"`
	IsActive     bool   `db:"is_active"`
	AuditFields
}
