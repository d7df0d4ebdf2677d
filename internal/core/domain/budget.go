package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BudgetStatus indicates the lifecycle state of a budget.
type BudgetStatus string

const (
	BudgetDraft     BudgetStatus = "DRAFT"
	BudgetSubmitted BudgetStatus = "SUBMITTED"
	BudgetApproved  BudgetStatus = "APPROVED"
	BudgetActive    BudgetStatus = "ACTIVE"
	BudgetClosed    BudgetStatus = "CLOSED"
)

// BudgetType distinguishes the origin of a budget document.
type BudgetType string

const (
	BudgetOriginal      BudgetType = "ORIGINAL"
	BudgetRevised       BudgetType = "REVISED"
	BudgetSupplementary BudgetType = "SUPPLEMENTARY"
)

// BudgetHealth summarises how consumed a budget line is, for dashboards.
type BudgetHealth string

const (
	HealthHealthy   BudgetHealth = "HEALTHY"
	HealthModerate  BudgetHealth = "MODERATE"
	HealthWarning   BudgetHealth = "WARNING"
	HealthExhausted BudgetHealth = "EXHAUSTED"
)

// AvailabilityStatus is the outcome of a budget availability check.
type AvailabilityStatus string

const (
	AvailabilityOK      AvailabilityStatus = "AVAILABLE"
	AvailabilityWarning AvailabilityStatus = "WARNING"
	AvailabilityBlocked AvailabilityStatus = "BLOCKED"
)

// Budget is a per-company, per-fiscal-year allocation document. Only one budget
// per (company, fiscalYear) may be ACTIVE at a time.
type Budget struct {
	BudgetID   string       `json:"budgetID"` // Primary Key (UUID)
	CompanyID  string       `json:"companyID"`
	FiscalYear string       `json:"fiscalYear"`
	BudgetType BudgetType   `json:"budgetType"`
	Status     BudgetStatus `json:"status"`
	Lines      []BudgetLine `json:"lines,omitempty"`
	AuditFields
}

// BudgetLine allocates budget to a head of account, optionally narrowed to a
// cost center. Utilized and Committed are mutated only through the budget
// service's commit/utilize/release operations.
type BudgetLine struct {
	LineID       string `json:"lineID"` // Primary Key (UUID)
	BudgetID     string `json:"budgetID"`
	AccountCode  string `json:"accountCode"`
	CostCenterID string `json:"costCenterID"` // Optional

	OriginalBudget      decimal.Decimal `json:"originalBudget"`
	RevisedBudget       decimal.Decimal `json:"revisedBudget"`
	SupplementaryBudget decimal.Decimal `json:"supplementaryBudget"`
	SurrenderedAmount   decimal.Decimal `json:"surrenderedAmount"`
	ReappropriatedIn    decimal.Decimal `json:"reappropriatedIn"`
	ReappropriatedOut   decimal.Decimal `json:"reappropriatedOut"`

	TotalBudget decimal.Decimal `json:"totalBudget"` // Derived, see RecomputeDerived
	Utilized    decimal.Decimal `json:"utilized"`
	Committed   decimal.Decimal `json:"committed"`
	Available   decimal.Decimal `json:"available"` // Derived, see RecomputeDerived

	AlertThreshold decimal.Decimal `json:"alertThreshold"` // Percent, e.g. 80
	BlockThreshold decimal.Decimal `json:"blockThreshold"` // Percent, e.g. 100
	AllowOverride  bool            `json:"allowOverride"`
}

// RecomputeDerived refreshes TotalBudget and Available from the line's components.
// It must be called after every mutation of the underlying amounts.
func (l *BudgetLine) RecomputeDerived() {
	l.TotalBudget = l.OriginalBudget.
		Add(l.RevisedBudget).
		Add(l.SupplementaryBudget).
		Sub(l.SurrenderedAmount).
		Add(l.ReappropriatedIn).
		Sub(l.ReappropriatedOut)
	l.Available = l.TotalBudget.Sub(l.Utilized).Sub(l.Committed)
}

// ConsumedPercent returns (utilized + committed + extra) / totalBudget * 100.
// A zero total budget with any consumption reads as fully consumed.
func (l *BudgetLine) ConsumedPercent(extra decimal.Decimal) decimal.Decimal {
	consumed := l.Utilized.Add(l.Committed).Add(extra)
	if l.TotalBudget.IsZero() {
		if consumed.IsPositive() {
			return decimal.NewFromInt(100)
		}
		return decimal.Zero
	}
	return consumed.Div(l.TotalBudget).Mul(decimal.NewFromInt(100))
}

// Health classifies the line's consumption for dashboard snapshots.
func (l *BudgetLine) Health() BudgetHealth {
	pct := l.ConsumedPercent(decimal.Zero)
	switch {
	case pct.GreaterThanOrEqual(decimal.NewFromInt(100)):
		return HealthExhausted
	case pct.GreaterThanOrEqual(l.AlertThreshold):
		return HealthWarning
	case pct.GreaterThanOrEqual(decimal.NewFromInt(50)):
		return HealthModerate
	default:
		return HealthHealthy
	}
}

// ApplyCommit reserves budget for an approved but not yet realized expense.
func (l *BudgetLine) ApplyCommit(amount decimal.Decimal) error {
	next := l.Committed.Add(amount)
	if next.IsNegative() {
		return fmt.Errorf("committed amount cannot go negative (current %s, delta %s)", l.Committed, amount)
	}
	l.Committed = next
	l.RecomputeDerived()
	return nil
}

// ApplyUtilize records realized spend. When releaseCommitted is true the same
// amount is released from the committed pool, floored at zero, converting an
// encumbrance into spend.
func (l *BudgetLine) ApplyUtilize(amount decimal.Decimal, releaseCommitted bool) error {
	next := l.Utilized.Add(amount)
	if next.IsNegative() {
		return fmt.Errorf("utilized amount cannot go negative (current %s, delta %s)", l.Utilized, amount)
	}
	l.Utilized = next
	if releaseCommitted && amount.IsPositive() {
		l.Committed = decimal.Max(l.Committed.Sub(amount), decimal.Zero)
	}
	l.RecomputeDerived()
	return nil
}

// ApplyRelease returns committed budget to the available pool without touching
// utilized, for encumbering documents cancelled before realization.
func (l *BudgetLine) ApplyRelease(amount decimal.Decimal) error {
	next := l.Committed.Sub(amount)
	if next.IsNegative() {
		next = decimal.Zero
	}
	l.Committed = next
	l.RecomputeDerived()
	return nil
}

// CheckAvailability evaluates whether an additional amount fits within the line's
// thresholds. A block is only binding when the line does not allow override.
func (l *BudgetLine) CheckAvailability(amount decimal.Decimal) AvailabilityResult {
	pct := l.ConsumedPercent(amount)
	result := AvailabilityResult{
		Status:          AvailabilityOK,
		ConsumedPercent: pct,
		Available:       l.Available,
		Requested:       amount,
	}
	switch {
	case pct.GreaterThan(l.BlockThreshold) && !l.AllowOverride:
		result.Status = AvailabilityBlocked
		result.Shortfall = l.Utilized.Add(l.Committed).Add(amount).Sub(l.TotalBudget)
		result.Threshold = l.BlockThreshold
		result.Message = fmt.Sprintf("requested %s exceeds block threshold %s%% (available %s, shortfall %s)",
			amount, l.BlockThreshold, l.Available, result.Shortfall)
	case pct.GreaterThan(l.BlockThreshold):
		// Over the block line but override is allowed; surface as a warning.
		result.Status = AvailabilityWarning
		result.Threshold = l.BlockThreshold
		result.Message = fmt.Sprintf("over budget by override: consumption %s%% exceeds block threshold %s%%",
			pct.StringFixed(2), l.BlockThreshold)
	case pct.GreaterThan(l.AlertThreshold):
		result.Status = AvailabilityWarning
		result.Threshold = l.AlertThreshold
		result.Message = fmt.Sprintf("consumption %s%% exceeds alert threshold %s%%",
			pct.StringFixed(2), l.AlertThreshold)
	}
	return result
}

// AvailabilityResult reports the outcome of a budget availability check with the
// exact shortfall and threshold, so an operator can decide on an override.
type AvailabilityResult struct {
	Status          AvailabilityStatus `json:"status"`
	ConsumedPercent decimal.Decimal    `json:"consumedPercent"`
	Available       decimal.Decimal    `json:"available"`
	Requested       decimal.Decimal    `json:"requested"`
	Shortfall       decimal.Decimal    `json:"shortfall"`
	Threshold       decimal.Decimal    `json:"threshold"`
	Message         string             `json:"message,omitempty"`
}
