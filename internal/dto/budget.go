package dto

import (
	"github.com/hroffice/gl_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BudgetLineRequest is one allocation line of a budget creation payload.
type BudgetLineRequest struct {
	AccountCode         string          `json:"accountCode" binding:"required"`
	CostCenterID        string          `json:"costCenterID"`
	OriginalBudget      decimal.Decimal `json:"originalBudget"`
	RevisedBudget       decimal.Decimal `json:"revisedBudget"`
	SupplementaryBudget decimal.Decimal `json:"supplementaryBudget"`
	SurrenderedAmount   decimal.Decimal `json:"surrenderedAmount"`
	ReappropriatedIn    decimal.Decimal `json:"reappropriatedIn"`
	ReappropriatedOut   decimal.Decimal `json:"reappropriatedOut"`
	AlertThreshold      decimal.Decimal `json:"alertThreshold"`
	BlockThreshold      decimal.Decimal `json:"blockThreshold"`
	AllowOverride       bool            `json:"allowOverride"`
}

// CreateBudgetRequest is the payload for creating a draft budget.
type CreateBudgetRequest struct {
	FiscalYear string              `json:"fiscalYear" binding:"required"`
	BudgetType domain.BudgetType   `json:"budgetType" binding:"required,oneof=ORIGINAL REVISED SUPPLEMENTARY"`
	Lines      []BudgetLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// BudgetScope identifies a budget line for availability checks and encumbrance
// operations, always against the ACTIVE budget of the fiscal year.
type BudgetScope struct {
	FiscalYear   string `json:"fiscalYear" binding:"required"`
	AccountCode  string `json:"accountCode" binding:"required"`
	CostCenterID string `json:"costCenterID"`
}

// AvailabilityRequest asks whether an additional amount fits a budget line.
type AvailabilityRequest struct {
	BudgetScope
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// EncumbranceRequest commits or releases budget on behalf of an encumbering
// document (purchase order, payment batch).
type EncumbranceRequest struct {
	BudgetScope
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	DocumentType string          `json:"documentType"`
	DocumentID   string          `json:"documentID"`
}

// UtilizationRequest records realized spend directly (used by documents that
// own their budget mutation, e.g. a bank payment batch approval).
type UtilizationRequest struct {
	BudgetScope
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	ReleaseCommitted bool            `json:"releaseCommitted"`
	DocumentType     string          `json:"documentType"`
	DocumentID       string          `json:"documentID"`
}

// BudgetLineResponse is the API representation of a budget line, including the
// derived amounts and the dashboard health classification.
type BudgetLineResponse struct {
	LineID              string              `json:"lineID"`
	AccountCode         string              `json:"accountCode"`
	CostCenterID        string              `json:"costCenterID,omitempty"`
	OriginalBudget      decimal.Decimal     `json:"originalBudget"`
	RevisedBudget       decimal.Decimal     `json:"revisedBudget"`
	SupplementaryBudget decimal.Decimal     `json:"supplementaryBudget"`
	SurrenderedAmount   decimal.Decimal     `json:"surrenderedAmount"`
	ReappropriatedIn    decimal.Decimal     `json:"reappropriatedIn"`
	ReappropriatedOut   decimal.Decimal     `json:"reappropriatedOut"`
	TotalBudget         decimal.Decimal     `json:"totalBudget"`
	Utilized            decimal.Decimal     `json:"utilized"`
	Committed           decimal.Decimal     `json:"committed"`
	Available           decimal.Decimal     `json:"available"`
	AlertThreshold      decimal.Decimal     `json:"alertThreshold"`
	BlockThreshold      decimal.Decimal     `json:"blockThreshold"`
	AllowOverride       bool                `json:"allowOverride"`
	Health              domain.BudgetHealth `json:"health"`
}

// ToBudgetLineResponse converts a domain budget line to its API representation.
func ToBudgetLineResponse(l *domain.BudgetLine) BudgetLineResponse {
	return BudgetLineResponse{
		LineID:              l.LineID,
		AccountCode:         l.AccountCode,
		CostCenterID:        l.CostCenterID,
		OriginalBudget:      l.OriginalBudget,
		RevisedBudget:       l.RevisedBudget,
		SupplementaryBudget: l.SupplementaryBudget,
		SurrenderedAmount:   l.SurrenderedAmount,
		ReappropriatedIn:    l.ReappropriatedIn,
		ReappropriatedOut:   l.ReappropriatedOut,
		TotalBudget:         l.TotalBudget,
		Utilized:            l.Utilized,
		Committed:           l.Committed,
		Available:           l.Available,
		AlertThreshold:      l.AlertThreshold,
		BlockThreshold:      l.BlockThreshold,
		AllowOverride:       l.AllowOverride,
		Health:              l.Health(),
	}
}

// BudgetResponse is the API representation of a budget.
type BudgetResponse struct {
	BudgetID   string               `json:"budgetID"`
	CompanyID  string               `json:"companyID"`
	FiscalYear string               `json:"fiscalYear"`
	BudgetType domain.BudgetType    `json:"budgetType"`
	Status     domain.BudgetStatus  `json:"status"`
	Lines      []BudgetLineResponse `json:"lines,omitempty"`
}

// ToBudgetResponse converts a domain budget to its API representation.
func ToBudgetResponse(b *domain.Budget) BudgetResponse {
	resp := BudgetResponse{
		BudgetID:   b.BudgetID,
		CompanyID:  b.CompanyID,
		FiscalYear: b.FiscalYear,
		BudgetType: b.BudgetType,
		Status:     b.Status,
	}
	for i := range b.Lines {
		resp.Lines = append(resp.Lines, ToBudgetLineResponse(&b.Lines[i]))
	}
	return resp
}

// ListBudgetsParams holds pagination parameters for listing budgets.
type ListBudgetsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListBudgetsResponse is a paginated budget listing.
type ListBudgetsResponse struct {
	Budgets   []BudgetResponse `json:"budgets"`
	NextToken *string          `json:"nextToken,omitempty"`
}
