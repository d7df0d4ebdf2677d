package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is the database representation of a journal entry header.
type JournalEntry struct {
	EntryID                 string     `db:"entry_id"`
	EntryNumber             *string    `db:"entry_number"` // Assigned at posting
	CompanyID               string     `db:"company_id"`
	EntryDate               time.Time  `db:"entry_date"`
	FiscalYear              string     `db:"fiscal_year"`
	Period                  string     `db:"period"`
	Description             string     `db:"description"`
	Status                  string     `db:"status"`
	SourceType              string     `db:"source_type"`
	SourceDocumentID        *string    `db:"source_document_id"`
	BudgetUpdatedExternally bool       `db:"budget_updated_externally"`
	PostedAt                *time.Time `db:"posted_at"`
	PostedBy                *string    `db:"posted_by"`
	OriginalEntryID         *string    `db:"original_entry_id"`
	ReversingEntryID        *string    `db:"reversing_entry_id"`
	ReversalReason          *string    `db:"reversal_reason"`
	AuditFields
}

// JournalLine is the database representation of a single debit or credit line.
type JournalLine struct {
	LineID        string          `db:"line_id"`
	EntryID       string          `db:"entry_id"`
	CompanyID     string          `db:"company_id"`
	AccountCode   string          `db:"account_code"`
	CostCenterID  *string         `db:"cost_center_id"`
	Debit         decimal.Decimal `db:"debit"`
	Credit        decimal.Decimal `db:"credit"`
	SubledgerType *string         `db:"subledger_type"`
	SubledgerID   *string         `db:"subledger_id"`
	Narration     string          `db:"narration"`
}

// PostingRun is the database representation of a posting workflow record.
// CompletedSteps is stored as a jsonb array of step names.
type PostingRun struct {
	RunID          string     `db:"run_id"`
	EntryID        string     `db:"entry_id"`
	CompanyID      string     `db:"company_id"`
	Ownership      string     `db:"ownership"`
	CompletedSteps []byte     `db:"completed_steps"`
	Status         string     `db:"status"`
	StartedAt      time.Time  `db:"started_at"`
	CompletedAt    *time.Time `db:"completed_at"`
	LastError      *string    `db:"last_error"`
}
