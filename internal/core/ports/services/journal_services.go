package services

import (
	"context"

	"github.com/hroffice/gl_backend/internal/core/domain"
	"github.com/hroffice/gl_backend/internal/dto"
)

// JournalSvcFacade defines the journal engine's operations: draft management,
// the posting/reversal state machine and read access for reporting.
type JournalSvcFacade interface {
	// CreateDraftEntry validates and persists a new DRAFT entry.
	CreateDraftEntry(ctx context.Context, companyID string, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error)

	// SubmitEntry moves DRAFT -> PENDING.
	SubmitEntry(ctx context.Context, companyID string, entryID string, actor string) error

	// ApproveEntry moves PENDING -> APPROVED.
	ApproveEntry(ctx context.Context, companyID string, entryID string, actor string) error

	// RejectEntry moves DRAFT/PENDING -> REJECTED (terminal).
	RejectEntry(ctx context.Context, companyID string, entryID string, actor string) error

	// CancelEntry moves DRAFT -> CANCELLED (terminal).
	CancelEntry(ctx context.Context, companyID string, entryID string, actor string) error

	// PostEntry runs the posting sequence: validation, period-lock check,
	// balance updates, budget utilization (unless ownership lies with the
	// source document or skipBudgetUpdate is set) and audit append.
	PostEntry(ctx context.Context, companyID string, entryID string, actor string, skipBudgetUpdate bool) (*dto.PostingResult, error)

	// ReverseEntry posts a mirror-image entry and marks the original REVERSED.
	ReverseEntry(ctx context.Context, companyID string, entryID string, actor string, reason string) (*domain.JournalEntry, error)

	// GetEntryByID retrieves an entry with its lines.
	GetEntryByID(ctx context.Context, companyID string, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated entry listing for report generation.
	ListEntries(ctx context.Context, companyID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)

	// ListEntriesByAccount retrieves posted entries touching an account, for
	// ledger reconstruction per account.
	ListEntriesByAccount(ctx context.Context, companyID string, accountCode string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}
