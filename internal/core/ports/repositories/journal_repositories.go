package repositories

import (
	"context"
	"time"

	"github.com/hroffice/gl_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalReader defines read operations for journal entries.
type JournalReader interface {
	// FindEntryByID retrieves a journal entry with its embedded lines.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of entries for a company using
	// token-based pagination; reversal entries are included when asked for.
	ListEntries(ctx context.Context, companyID string, limit int, nextToken *string, includeReversals bool) ([]domain.JournalEntry, *string, error)

	// ListEntriesByAccount retrieves posted entries touching an account, for
	// ledger reconstruction and reporting.
	ListEntriesByAccount(ctx context.Context, companyID string, accountCode string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalWriter defines write operations for journal entries.
type JournalWriter interface {
	// SaveDraftEntry persists a new entry in DRAFT with its lines.
	SaveDraftEntry(ctx context.Context, entry domain.JournalEntry) error

	// UpdateEntryStatus transitions an entry's workflow status (submit,
	// approve, reject, cancel) without touching lines or balances.
	UpdateEntryStatus(ctx context.Context, entryID string, status domain.EntryStatus, updatedBy string, updatedAt time.Time) error

	// PostEntry atomically assigns the entry number from the per-company
	// fiscal-year sequence, marks the entry POSTED and applies the account
	// balance deltas, all within one database transaction.
	PostEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal) (entryNumber string, err error)

	// ReverseEntry posts the reversing entry and marks the original REVERSED
	// with reversal linkage, within one database transaction.
	ReverseEntry(ctx context.Context, original domain.JournalEntry, reversing domain.JournalEntry, balanceChanges map[string]decimal.Decimal) (entryNumber string, err error)
}

// PostingRunRepository persists per-posting workflow records so a partial
// failure across the non-atomic account/budget/audit writes is visible and
// the sequence can be retried as a unit.
type PostingRunRepository interface {
	SavePostingRun(ctx context.Context, run domain.PostingRun) error
	FindPostingRunByEntry(ctx context.Context, entryID string) (*domain.PostingRun, error)
	UpdatePostingRun(ctx context.Context, run domain.PostingRun) error
}

// JournalRepositoryFacade combines all journal repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	PostingRunRepository
}
