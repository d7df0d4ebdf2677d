package repositories

import (
	"context"
	"time"

	"github.com/hroffice/gl_backend/internal/core/domain"
)

// ClosingReader defines read operations for year-end closing records.
type ClosingReader interface {
	// FindClosing retrieves the closing record for a fiscal year, or
	// apperrors.ErrNotFound if the year was never closed.
	FindClosing(ctx context.Context, companyID string, fiscalYear string) (*domain.ClosingRecord, error)

	// IsPeriodLocked reports whether a COMPLETED closing exists for the year.
	IsPeriodLocked(ctx context.Context, companyID string, fiscalYear string) (bool, error)
}

// ClosingWriter defines write operations for year-end closing records.
type ClosingWriter interface {
	// SaveClosing persists a new COMPLETED closing record.
	SaveClosing(ctx context.Context, record domain.ClosingRecord) error

	// ReverseClosing flips a COMPLETED record to REVERSED, unlocking the year.
	ReverseClosing(ctx context.Context, closingID string, reversedBy string, reversedAt time.Time) error
}

// ClosingRepositoryFacade combines the closing repository interfaces.
type ClosingRepositoryFacade interface {
	ClosingReader
	ClosingWriter
}
