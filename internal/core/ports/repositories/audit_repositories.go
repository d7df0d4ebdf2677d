package repositories

import (
	"context"

	"github.com/hroffice/gl_backend/internal/core/domain"
)

// AuditReader defines read operations over the audit chain.
type AuditReader interface {
	// FindLatestEntry retrieves the most recent audit entry for a company, or
	// apperrors.ErrNotFound for an empty chain.
	FindLatestEntry(ctx context.Context, companyID string) (*domain.AuditLogEntry, error)

	// ListEntriesBySequence retrieves entries ordered oldest-to-newest within
	// the inclusive sequence range; toSequence <= 0 means unbounded.
	ListEntriesBySequence(ctx context.Context, companyID string, fromSequence int64, toSequence int64) ([]domain.AuditLogEntry, error)

	// ListEntries retrieves a paginated audit log for a company, newest first.
	ListEntries(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.AuditLogEntry, *string, error)
}

// AuditWriter defines the append-only write operation of the audit chain.
type AuditWriter interface {
	// AppendEntry inserts a new audit entry. The store enforces
	// (companyID, sequence) uniqueness; entries are never updated or deleted.
	AppendEntry(ctx context.Context, entry domain.AuditLogEntry) error
}

// AuditRepositoryFacade combines the audit chain repository interfaces.
type AuditRepositoryFacade interface {
	AuditReader
	AuditWriter
}
