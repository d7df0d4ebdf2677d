package mapping

import (
	"github.com/hroffice/gl_backend/internal/core/domain"
	"github.com/hroffice/gl_backend/internal/models"
)

// ToModelAuditLogEntry converts a domain AuditLogEntry to a model AuditLogEntry
func ToModelAuditLogEntry(d domain.AuditLogEntry) models.AuditLogEntry {
	return models.AuditLogEntry{
		AuditID:      d.AuditID,
		CompanyID:    d.CompanyID,
		Sequence:     d.Sequence,
		Action:       string(d.Action),
		Module:       d.Module,
		DocumentType: d.DocumentType,
		DocumentID:   d.DocumentID,
		Actor:        d.Actor,
		Timestamp:    d.Timestamp,
		BeforeState:  d.BeforeState,
		AfterState:   d.AfterState,
		ImpactDebit:  d.Impact.Debit,
		ImpactCredit: d.Impact.Credit,
		ImpactNet:    d.Impact.Net,
		PreviousHash: d.PreviousHash,
		CurrentHash:  d.CurrentHash,
	}
}

// ToDomainAuditLogEntry converts a model AuditLogEntry to a domain AuditLogEntry
func ToDomainAuditLogEntry(m models.AuditLogEntry) domain.AuditLogEntry {
	return domain.AuditLogEntry{
		AuditID:      m.AuditID,
		CompanyID:    m.CompanyID,
		Sequence:     m.Sequence,
		Action:       domain.AuditAction(m.Action),
		Module:       m.Module,
		DocumentType: m.DocumentType,
		DocumentID:   m.DocumentID,
		Actor:        m.Actor,
		Timestamp:    m.Timestamp,
		BeforeState:  m.BeforeState,
		AfterState:   m.AfterState,
		Impact: domain.FinancialImpact{
			Debit:  m.ImpactDebit,
			Credit: m.ImpactCredit,
			Net:    m.ImpactNet,
		},
		PreviousHash: m.PreviousHash,
		CurrentHash:  m.CurrentHash,
	}
}

// ToModelYearEndClosing converts a domain ClosingRecord to a model YearEndClosing
func ToModelYearEndClosing(d domain.ClosingRecord) models.YearEndClosing {
	return models.YearEndClosing{
		ClosingID:  d.ClosingID,
		CompanyID:  d.CompanyID,
		FiscalYear: d.FiscalYear,
		Status:     string(d.Status),
		ClosedAt:   d.ClosedAt,
		ClosedBy:   d.ClosedBy,
		ReversedAt: d.ReversedAt,
		ReversedBy: nullableString(d.ReversedBy),
		Remarks:    d.Remarks,
	}
}

// ToDomainYearEndClosing converts a model YearEndClosing to a domain ClosingRecord
func ToDomainYearEndClosing(m models.YearEndClosing) domain.ClosingRecord {
	return domain.ClosingRecord{
		ClosingID:  m.ClosingID,
		CompanyID:  m.CompanyID,
		FiscalYear: m.FiscalYear,
		Status:     domain.ClosingStatus(m.Status),
		ClosedAt:   m.ClosedAt,
		ClosedBy:   m.ClosedBy,
		ReversedAt: m.ReversedAt,
		ReversedBy: stringValue(m.ReversedBy),
		Remarks:    m.Remarks,
	}
}
