package mapping

import (
	"encoding/json"

	"github.com/hroffice/gl_backend/internal/core/domain"
	"github.com/hroffice/gl_backend/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:                 d.EntryID,
		EntryNumber:             nullableString(d.EntryNumber),
		CompanyID:               d.CompanyID,
		EntryDate:               d.EntryDate,
		FiscalYear:              d.FiscalYear,
		Period:                  d.Period,
		Description:             d.Description,
		Status:                  string(d.Status),
		SourceType:              string(d.SourceDocument.Type),
		SourceDocumentID:        nullableString(d.SourceDocument.DocumentID),
		BudgetUpdatedExternally: d.SourceDocument.BudgetUpdatedExternally,
		PostedAt:                d.PostedAt,
		PostedBy:                nullableString(d.PostedBy),
		OriginalEntryID:         d.OriginalEntryID,
		ReversingEntryID:        d.ReversingEntryID,
		ReversalReason:          nullableString(d.ReversalReason),
		AuditFields:             ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:     m.EntryID,
		EntryNumber: stringValue(m.EntryNumber),
		CompanyID:   m.CompanyID,
		EntryDate:   m.EntryDate,
		FiscalYear:  m.FiscalYear,
		Period:      m.Period,
		Description: m.Description,
		Status:      domain.EntryStatus(m.Status),
		SourceDocument: domain.SourceDocument{
			Type:                    domain.SourceDocumentType(m.SourceType),
			DocumentID:              stringValue(m.SourceDocumentID),
			BudgetUpdatedExternally: m.BudgetUpdatedExternally,
		},
		PostedAt:         m.PostedAt,
		PostedBy:         stringValue(m.PostedBy),
		OriginalEntryID:  m.OriginalEntryID,
		ReversingEntryID: m.ReversingEntryID,
		ReversalReason:   stringValue(m.ReversalReason),
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(d domain.JournalLine, companyID string) models.JournalLine {
	return models.JournalLine{
		LineID:        d.LineID,
		EntryID:       d.EntryID,
		CompanyID:     companyID,
		AccountCode:   d.AccountCode,
		CostCenterID:  nullableString(d.CostCenterID),
		Debit:         d.Debit,
		Credit:        d.Credit,
		SubledgerType: nullableString(d.SubledgerType),
		SubledgerID:   nullableString(d.SubledgerID),
		Narration:     d.Narration,
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:        m.LineID,
		EntryID:       m.EntryID,
		AccountCode:   m.AccountCode,
		CostCenterID:  stringValue(m.CostCenterID),
		Debit:         m.Debit,
		Credit:        m.Credit,
		SubledgerType: stringValue(m.SubledgerType),
		SubledgerID:   stringValue(m.SubledgerID),
		Narration:     m.Narration,
	}
}

// ToDomainJournalLineSlice converts a slice of model lines to domain lines
func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalLine(m)
	}
	return ds
}

// ToModelPostingRun converts a domain PostingRun to a model PostingRun
func ToModelPostingRun(d domain.PostingRun) models.PostingRun {
	steps, _ := json.Marshal(d.CompletedSteps)
	return models.PostingRun{
		RunID:          d.RunID,
		EntryID:        d.EntryID,
		CompanyID:      d.CompanyID,
		Ownership:      string(d.Ownership),
		CompletedSteps: steps,
		Status:         string(d.Status),
		StartedAt:      d.StartedAt,
		CompletedAt:    d.CompletedAt,
		LastError:      nullableString(d.LastError),
	}
}

// ToDomainPostingRun converts a model PostingRun to a domain PostingRun
func ToDomainPostingRun(m models.PostingRun) domain.PostingRun {
	var steps []domain.PostingStep
	if len(m.CompletedSteps) > 0 {
		_ = json.Unmarshal(m.CompletedSteps, &steps)
	}
	return domain.PostingRun{
		RunID:          m.RunID,
		EntryID:        m.EntryID,
		CompanyID:      m.CompanyID,
		Ownership:      domain.BudgetOwnership(m.Ownership),
		CompletedSteps: steps,
		Status:         domain.PostingRunStatus(m.Status),
		StartedAt:      m.StartedAt,
		CompletedAt:    m.CompletedAt,
		LastError:      stringValue(m.LastError),
	}
}
