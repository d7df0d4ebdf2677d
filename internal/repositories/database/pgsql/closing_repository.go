package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hroffice/gl_backend/internal/apperrors"
	"github.com/hroffice/gl_backend/internal/core/domain"
	portsrepo "github.com/hroffice/gl_backend/internal/core/ports/repositories"
	"github.com/hroffice/gl_backend/internal/models"
	"github.com/hroffice/gl_backend/internal/utils/mapping"
)

const closingColumns = `closing_id, company_id, fiscal_year, status, closed_at, closed_by, reversed_at, reversed_by, remarks`

type PgxClosingRepository struct {
	BaseRepository
}

func newPgxClosingRepository(pool *pgxpool.Pool) portsrepo.ClosingRepositoryFacade {
	return &PgxClosingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ClosingRepositoryFacade = (*PgxClosingRepository)(nil)

func scanClosing(row pgx.Row) (models.YearEndClosing, error) {
	var m models.YearEndClosing
	err := row.Scan(
		&m.ClosingID, &m.CompanyID, &m.FiscalYear, &m.Status,
		&m.ClosedAt, &m.ClosedBy, &m.ReversedAt, &m.ReversedBy, &m.Remarks,
	)
	return m, err
}

// FindClosing retrieves the latest closing record for a fiscal year.
func (r *PgxClosingRepository) FindClosing(ctx context.Context, companyID string, fiscalYear string) (*domain.ClosingRecord, error) {
	query := `SELECT ` + closingColumns + ` FROM year_end_closings WHERE company_id = $1 AND fiscal_year = $2 ORDER BY closed_at DESC LIMIT 1;`

	m, err := scanClosing(r.Pool.QueryRow(ctx, query, companyID, fiscalYear))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find closing for %s/%s: %w", companyID, fiscalYear, err)
	}
	record := mapping.ToDomainYearEndClosing(m)
	return &record, nil
}

// IsPeriodLocked reports whether a COMPLETED closing exists for the year.
func (r *PgxClosingRepository) IsPeriodLocked(ctx context.Context, companyID string, fiscalYear string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM year_end_closings WHERE company_id = $1 AND fiscal_year = $2 AND status = 'COMPLETED');`

	var locked bool
	if err := r.Pool.QueryRow(ctx, query, companyID, fiscalYear).Scan(&locked); err != nil {
		return false, fmt.Errorf("failed to check period lock for %s/%s: %w", companyID, fiscalYear, err)
	}
	return locked, nil
}

// SaveClosing persists a new closing record. The unique partial index on
// (company_id, fiscal_year) WHERE status = 'COMPLETED' rejects a second
// concurrent close of the same year.
func (r *PgxClosingRepository) SaveClosing(ctx context.Context, record domain.ClosingRecord) error {
	m := mapping.ToModelYearEndClosing(record)

	query := `
		INSERT INTO year_end_closings (` + closingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ClosingID, m.CompanyID, m.FiscalYear, m.Status,
		m.ClosedAt, m.ClosedBy, m.ReversedAt, m.ReversedBy, m.Remarks,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: fiscal year %s is already closed", apperrors.ErrConflict, m.FiscalYear)
		}
		return fmt.Errorf("failed to save closing %s: %w", m.ClosingID, err)
	}
	return nil
}

// ReverseClosing flips a COMPLETED record to REVERSED, unlocking the year.
func (r *PgxClosingRepository) ReverseClosing(ctx context.Context, closingID string, reversedBy string, reversedAt time.Time) error {
	query := `
		UPDATE year_end_closings
		SET status = 'REVERSED', reversed_at = $2, reversed_by = $3
		WHERE closing_id = $1 AND status = 'COMPLETED';
	`
	tag, err := r.Pool.Exec(ctx, query, closingID, reversedAt, reversedBy)
	if err != nil {
		return fmt.Errorf("failed to reverse closing %s: %w", closingID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
