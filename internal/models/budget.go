package models

import (
	"github.com/shopspring/decimal"
)

// Budget is the database representation of a budget document header.
type Budget struct {
	BudgetID   string `db:"budget_id"`
	CompanyID  string `db:"company_id"`
	FiscalYear string `db:"fiscal_year"`
	BudgetType string `db:"budget_type"`
	Status     string `db:"status"`
	AuditFields
}

// BudgetLine is the database representation of one allocation line. TotalBudget
// and Available are stored denormalized and recomputed in the same statement as
// every amount mutation, so a reader never sees them stale.
type BudgetLine struct {
	LineID       string  `db:"line_id"`
	BudgetID     string  `db:"budget_id"`
	AccountCode  string  `db:"account_code"`
	CostCenterID *string `db:"cost_center_id"`

	OriginalBudget      decimal.Decimal `db:"original_budget"`
	RevisedBudget       decimal.Decimal `db:"revised_budget"`
	SupplementaryBudget decimal.Decimal `db:"supplementary_budget"`
	SurrenderedAmount   decimal.Decimal `db:"surrendered_amount"`
	ReappropriatedIn    decimal.Decimal `db:"reappropriated_in"`
	ReappropriatedOut   decimal.Decimal `db:"reappropriated_out"`

	TotalBudget decimal.Decimal `db:"total_budget"`
	Utilized    decimal.Decimal `db:"utilized"`
	Committed   decimal.Decimal `db:"committed"`
	Available   decimal.Decimal `db:"available"`

	AlertThreshold decimal.Decimal `db:"alert_threshold"`
	BlockThreshold decimal.Decimal `db:"block_threshold"`
	AllowOverride  bool            `db:"allow_override"`
}
