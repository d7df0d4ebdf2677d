package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	EntryDraft     EntryStatus = "DRAFT"
	EntryPending   EntryStatus = "PENDING"
	EntryApproved  EntryStatus = "APPROVED"
	EntryPosted    EntryStatus = "POSTED"
	EntryReversed  EntryStatus = "REVERSED"
	EntryRejected  EntryStatus = "REJECTED"
	EntryCancelled EntryStatus = "CANCELLED"
)

// CanPost reports whether an entry in this status may transition to POSTED.
func (s EntryStatus) CanPost() bool {
	return s == EntryDraft || s == EntryPending || s == EntryApproved
}

// IsTerminal reports whether the status admits no further transitions.
func (s EntryStatus) IsTerminal() bool {
	return s == EntryReversed || s == EntryRejected || s == EntryCancelled
}

// SourceDocumentType identifies the kind of upstream document an entry originates from.
type SourceDocumentType string

const (
	SourceManual           SourceDocumentType = "MANUAL"
	SourcePurchaseOrder    SourceDocumentType = "PURCHASE_ORDER"
	SourcePayrollRun       SourceDocumentType = "PAYROLL_RUN"
	SourceBankPaymentBatch SourceDocumentType = "BANK_PAYMENT_BATCH"
	SourceDepreciationRun  SourceDocumentType = "DEPRECIATION_RUN"
)

// SourceDocument references the upstream originator of a journal entry.
// BudgetUpdatedExternally marks that the originating document already adjusted
// budget state, so posting must not adjust it again.
type SourceDocument struct {
	Type                    SourceDocumentType `json:"type"`
	DocumentID              string             `json:"documentID"`
	BudgetUpdatedExternally bool               `json:"budgetUpdatedExternally"`
}

// JournalLine is a single line item within a journal entry, affecting one account.
// Exactly one of Debit/Credit is positive; the other is zero.
type JournalLine struct {
	LineID        string          `json:"lineID"`    // Primary Key (UUID)
	EntryID       string          `json:"entryID"`   // FK -> JournalEntry
	AccountCode   string          `json:"accountCode"`
	CostCenterID  string          `json:"costCenterID"` // Optional
	Debit         decimal.Decimal `json:"debit"`        // >= 0
	Credit        decimal.Decimal `json:"credit"`       // >= 0
	SubledgerType string          `json:"subledgerType"` // Optional opaque reference (vendor, employee)
	SubledgerID   string          `json:"subledgerID"`
	Narration     string          `json:"narration"`
}

// JournalEntry represents a balanced double-entry financial event.
// Once posted it is immutable except for reversal, which creates a new entry
// with swapped debit/credit lines and marks the original REVERSED.
type JournalEntry struct {
	EntryID     string      `json:"entryID"`     // Primary Key (UUID)
	EntryNumber string      `json:"entryNumber"` // Sequential per company+fiscalYear, assigned at post time
	CompanyID   string      `json:"companyID"`
	EntryDate   time.Time   `json:"entryDate"`
	FiscalYear  string      `json:"fiscalYear"` // Derived from EntryDate
	Period      string      `json:"period"`     // Derived "YYYY-MM"
	Description string      `json:"description"`
	Status      EntryStatus `json:"status"`
	Lines       []JournalLine `json:"lines,omitempty"`

	SourceDocument SourceDocument `json:"sourceDocument"`

	PostedAt *time.Time `json:"postedAt,omitempty"`
	PostedBy string     `json:"postedBy,omitempty"`

	// Reversal linkage: a reversing entry points at its original, and a
	// reversed original points at the entry that reversed it.
	OriginalEntryID  *string `json:"originalEntryID,omitempty"`
	ReversingEntryID *string `json:"reversingEntryID,omitempty"`
	ReversalReason   string  `json:"reversalReason,omitempty"`

	AuditFields
}

// TotalDebits sums the debit side of the entry's lines.
func (e *JournalEntry) TotalDebits() decimal.Decimal {
	total := decimal.Zero
	for _, line := range e.Lines {
		total = total.Add(line.Debit)
	}
	return total
}

// TotalCredits sums the credit side of the entry's lines.
func (e *JournalEntry) TotalCredits() decimal.Decimal {
	total := decimal.Zero
	for _, line := range e.Lines {
		total = total.Add(line.Credit)
	}
	return total
}
