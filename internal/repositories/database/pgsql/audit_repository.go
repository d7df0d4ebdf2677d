package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hroffice/gl_backend/internal/apperrors"
	"github.com/hroffice/gl_backend/internal/core/domain"
	portsrepo "github.com/hroffice/gl_backend/internal/core/ports/repositories"
	"github.com/hroffice/gl_backend/internal/models"
	"github.com/hroffice/gl_backend/internal/utils/mapping"
	"github.com/hroffice/gl_backend/internal/utils/pagination"
)

const auditColumns = `audit_id, company_id, sequence, action, module, document_type, document_id, actor, timestamp, before_state, after_state, impact_debit, impact_credit, impact_net, previous_hash, current_hash`

type PgxAuditRepository struct {
	BaseRepository
}

// newPgxAuditRepository creates a new repository for the append-only audit chain.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepositoryFacade {
	return &PgxAuditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

func scanAuditEntry(row pgx.Row) (models.AuditLogEntry, error) {
	var m models.AuditLogEntry
	err := row.Scan(
		&m.AuditID, &m.CompanyID, &m.Sequence, &m.Action, &m.Module,
		&m.DocumentType, &m.DocumentID, &m.Actor, &m.Timestamp,
		&m.BeforeState, &m.AfterState,
		&m.ImpactDebit, &m.ImpactCredit, &m.ImpactNet,
		&m.PreviousHash, &m.CurrentHash,
	)
	return m, err
}

// AppendEntry inserts a new audit entry. The unique index on
// (company_id, sequence) rejects a fork of the chain; there is no update or
// delete path for this table.
func (r *PgxAuditRepository) AppendEntry(ctx context.Context, entry domain.AuditLogEntry) error {
	m := mapping.ToModelAuditLogEntry(entry)

	query := `
		INSERT INTO audit_logs (` + auditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AuditID, m.CompanyID, m.Sequence, m.Action, m.Module,
		m.DocumentType, m.DocumentID, m.Actor, m.Timestamp,
		m.BeforeState, m.AfterState,
		m.ImpactDebit, m.ImpactCredit, m.ImpactNet,
		m.PreviousHash, m.CurrentHash,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: audit sequence %d already written for company %s", apperrors.ErrDuplicate, m.Sequence, m.CompanyID)
		}
		return fmt.Errorf("failed to append audit entry %s: %w", m.AuditID, err)
	}
	return nil
}

// FindLatestEntry retrieves the most recent audit entry for a company.
func (r *PgxAuditRepository) FindLatestEntry(ctx context.Context, companyID string) (*domain.AuditLogEntry, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_logs WHERE company_id = $1 ORDER BY sequence DESC LIMIT 1;`

	m, err := scanAuditEntry(r.Pool.QueryRow(ctx, query, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find latest audit entry for %s: %w", companyID, err)
	}
	entry := mapping.ToDomainAuditLogEntry(m)
	return &entry, nil
}

// ListEntriesBySequence retrieves entries ordered oldest-to-newest within the
// inclusive sequence range; toSequence <= 0 means unbounded.
func (r *PgxAuditRepository) ListEntriesBySequence(ctx context.Context, companyID string, fromSequence int64, toSequence int64) ([]domain.AuditLogEntry, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_logs WHERE company_id = $1 AND sequence >= $2`
	args := []any{companyID, fromSequence}

	if toSequence > 0 {
		query += ` AND sequence <= $3`
		args = append(args, toSequence)
	}
	query += ` ORDER BY sequence ASC;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries by sequence: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditLogEntry
	for rows.Next() {
		m, err := scanAuditEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit entry row: %w", err)
		}
		entries = append(entries, mapping.ToDomainAuditLogEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit entry rows: %w", err)
	}
	return entries, nil
}

// ListEntries retrieves a paginated audit log for a company, newest first,
// using the per-company sequence as the pagination key.
func (r *PgxAuditRepository) ListEntries(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.AuditLogEntry, *string, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_logs WHERE company_id = $1`
	args := []any{companyID}

	if nextToken != nil && *nextToken != "" {
		lastSequence, err := pagination.DecodeSequenceToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		query += ` AND sequence < $2`
		args = append(args, lastSequence)
	}
	query += fmt.Sprintf(` ORDER BY sequence DESC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var ms []models.AuditLogEntry
	for rows.Next() {
		m, err := scanAuditEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan audit entry row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate audit entry rows: %w", err)
	}

	var nextTokenVal *string
	if len(ms) > limit {
		ms = ms[:limit]
		token := pagination.EncodeSequenceToken(ms[len(ms)-1].Sequence)
		nextTokenVal = &token
	}

	entries := make([]domain.AuditLogEntry, len(ms))
	for i, m := range ms {
		entries[i] = mapping.ToDomainAuditLogEntry(m)
	}
	return entries, nextTokenVal, nil
}
