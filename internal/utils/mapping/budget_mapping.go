package mapping

import (
	"github.com/hroffice/gl_backend/internal/core/domain"
	"github.com/hroffice/gl_backend/internal/models"
)

// ToModelBudget converts a domain Budget to a model Budget
func ToModelBudget(d domain.Budget) models.Budget {
	return models.Budget{
		BudgetID:    d.BudgetID,
		CompanyID:   d.CompanyID,
		FiscalYear:  d.FiscalYear,
		BudgetType:  string(d.BudgetType),
		Status:      string(d.Status),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBudget converts a model Budget to a domain Budget
func ToDomainBudget(m models.Budget) domain.Budget {
	return domain.Budget{
		BudgetID:    m.BudgetID,
		CompanyID:   m.CompanyID,
		FiscalYear:  m.FiscalYear,
		BudgetType:  domain.BudgetType(m.BudgetType),
		Status:      domain.BudgetStatus(m.Status),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelBudgetLine converts a domain BudgetLine to a model BudgetLine
func ToModelBudgetLine(d domain.BudgetLine) models.BudgetLine {
	return models.BudgetLine{
		LineID:              d.LineID,
		BudgetID:            d.BudgetID,
		AccountCode:         d.AccountCode,
		CostCenterID:        nullableString(d.CostCenterID),
		OriginalBudget:      d.OriginalBudget,
		RevisedBudget:       d.RevisedBudget,
		SupplementaryBudget: d.SupplementaryBudget,
		SurrenderedAmount:   d.SurrenderedAmount,
		ReappropriatedIn:    d.ReappropriatedIn,
		ReappropriatedOut:   d.ReappropriatedOut,
		TotalBudget:         d.TotalBudget,
		Utilized:            d.Utilized,
		Committed:           d.Committed,
		Available:           d.Available,
		AlertThreshold:      d.AlertThreshold,
		BlockThreshold:      d.BlockThreshold,
		AllowOverride:       d.AllowOverride,
	}
}

// ToDomainBudgetLine converts a model BudgetLine to a domain BudgetLine
func ToDomainBudgetLine(m models.BudgetLine) domain.BudgetLine {
	return domain.BudgetLine{
		LineID:              m.LineID,
		BudgetID:            m.BudgetID,
		AccountCode:         m.AccountCode,
		CostCenterID:        stringValue(m.CostCenterID),
		OriginalBudget:      m.OriginalBudget,
		RevisedBudget:       m.RevisedBudget,
		SupplementaryBudget: m.SupplementaryBudget,
		SurrenderedAmount:   m.SurrenderedAmount,
		ReappropriatedIn:    m.ReappropriatedIn,
		ReappropriatedOut:   m.ReappropriatedOut,
		TotalBudget:         m.TotalBudget,
		Utilized:            m.Utilized,
		Committed:           m.Committed,
		Available:           m.Available,
		AlertThreshold:      m.AlertThreshold,
		BlockThreshold:      m.BlockThreshold,
		AllowOverride:       m.AllowOverride,
	}
}

// ToDomainBudgetLineSlice converts a slice of model lines to domain lines
func ToDomainBudgetLineSlice(ms []models.BudgetLine) []domain.BudgetLine {
	ds := make([]domain.BudgetLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBudgetLine(m)
	}
	return ds
}
