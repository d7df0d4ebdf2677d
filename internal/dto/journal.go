package dto

import (
	"time"

	"github.com/hroffice/gl_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one line of a journal entry creation payload.
// Exactly one of debit/credit must be positive.
type JournalLineRequest struct {
	AccountCode   string          `json:"accountCode" binding:"required"`
	CostCenterID  string          `json:"costCenterID"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	SubledgerType string          `json:"subledgerType"`
	SubledgerID   string          `json:"subledgerID"`
	Narration     string          `json:"narration"`
}

// SourceDocumentRequest references the upstream document an entry originates from.
type SourceDocumentRequest struct {
	Type                    domain.SourceDocumentType `json:"type" binding:"omitempty,oneof=MANUAL PURCHASE_ORDER PAYROLL_RUN BANK_PAYMENT_BATCH DEPRECIATION_RUN"`
	DocumentID              string                    `json:"documentID"`
	BudgetUpdatedExternally bool                      `json:"budgetUpdatedExternally"`
}

// CreateJournalEntryRequest is the payload for creating a draft journal entry.
type CreateJournalEntryRequest struct {
	EntryDate      time.Time              `json:"entryDate" binding:"required"`
	Description    string                 `json:"description" binding:"required"`
	SourceDocument *SourceDocumentRequest `json:"sourceDocument"`
	Lines          []JournalLineRequest   `json:"lines" binding:"required,min=2,dive"`
}

// PostEntryRequest carries post-time options. SkipBudgetUpdate is the caller-side
// equivalent of sourceDocument.budgetUpdatedExternally.
type PostEntryRequest struct {
	SkipBudgetUpdate bool `json:"skipBudgetUpdate"`
}

// ReverseEntryRequest carries the operator's reason for a reversal.
type ReverseEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// JournalLineResponse is the API representation of a journal line.
type JournalLineResponse struct {
	LineID        string          `json:"lineID"`
	AccountCode   string          `json:"accountCode"`
	CostCenterID  string          `json:"costCenterID,omitempty"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	SubledgerType string          `json:"subledgerType,omitempty"`
	SubledgerID   string          `json:"subledgerID,omitempty"`
	Narration     string          `json:"narration,omitempty"`
}

// JournalEntryResponse is the API representation of a journal entry.
type JournalEntryResponse struct {
	EntryID          string                `json:"entryID"`
	EntryNumber      string                `json:"entryNumber,omitempty"`
	CompanyID        string                `json:"companyID"`
	EntryDate        time.Time             `json:"entryDate"`
	FiscalYear       string                `json:"fiscalYear"`
	Period           string                `json:"period"`
	Description      string                `json:"description"`
	Status           domain.EntryStatus    `json:"status"`
	TotalDebits      decimal.Decimal       `json:"totalDebits"`
	TotalCredits     decimal.Decimal       `json:"totalCredits"`
	SourceDocument   domain.SourceDocument `json:"sourceDocument"`
	PostedAt         *time.Time            `json:"postedAt,omitempty"`
	PostedBy         string                `json:"postedBy,omitempty"`
	OriginalEntryID  *string               `json:"originalEntryID,omitempty"`
	ReversingEntryID *string               `json:"reversingEntryID,omitempty"`
	Lines            []JournalLineResponse `json:"lines,omitempty"`
}

// ToJournalEntryResponse converts a domain entry to its API representation.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		EntryID:          e.EntryID,
		EntryNumber:      e.EntryNumber,
		CompanyID:        e.CompanyID,
		EntryDate:        e.EntryDate,
		FiscalYear:       e.FiscalYear,
		Period:           e.Period,
		Description:      e.Description,
		Status:           e.Status,
		TotalDebits:      e.TotalDebits(),
		TotalCredits:     e.TotalCredits(),
		SourceDocument:   e.SourceDocument,
		PostedAt:         e.PostedAt,
		PostedBy:         e.PostedBy,
		OriginalEntryID:  e.OriginalEntryID,
		ReversingEntryID: e.ReversingEntryID,
	}
	for _, line := range e.Lines {
		resp.Lines = append(resp.Lines, JournalLineResponse{
			LineID:        line.LineID,
			AccountCode:   line.AccountCode,
			CostCenterID:  line.CostCenterID,
			Debit:         line.Debit,
			Credit:        line.Credit,
			SubledgerType: line.SubledgerType,
			SubledgerID:   line.SubledgerID,
			Narration:     line.Narration,
		})
	}
	return resp
}

// PostingResult is returned by a successful post: the updated entry plus any
// budget warnings that did not block the posting (override or alert cases).
type PostingResult struct {
	Entry    JournalEntryResponse `json:"entry"`
	Warnings []string             `json:"warnings,omitempty"`
}

// ListEntriesParams holds filters and pagination for listing journal entries.
type ListEntriesParams struct {
	Limit            int     `form:"limit"`
	NextToken        *string `form:"nextToken"`
	IncludeReversals bool    `form:"includeReversals"`
}

// ListEntriesResponse is a paginated journal entry listing.
type ListEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}
