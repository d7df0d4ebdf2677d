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

const costCenterColumns = `cost_center_id, company_id, code, name, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxCostCenterRepository struct {
	BaseRepository
}

func newPgxCostCenterRepository(pool *pgxpool.Pool) portsrepo.CostCenterRepositoryFacade {
	return &PgxCostCenterRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CostCenterRepositoryFacade = (*PgxCostCenterRepository)(nil)

func scanCostCenter(row pgx.Row) (models.CostCenter, error) {
	var m models.CostCenter
	err := row.Scan(
		&m.CostCenterID, &m.CompanyID, &m.Code, &m.Name, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxCostCenterRepository) SaveCostCenter(ctx context.Context, costCenter domain.CostCenter) error {
	m := mapping.ToModelCostCenter(costCenter)

	query := `
		INSERT INTO cost_centers (` + costCenterColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CostCenterID, m.CompanyID, m.Code, m.Name, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: cost center with code %s already exists", apperrors.ErrDuplicate, m.Code)
		}
		return fmt.Errorf("failed to save cost center %s: %w", m.Code, err)
	}
	return nil
}

func (r *PgxCostCenterRepository) FindCostCenterByID(ctx context.Context, companyID string, costCenterID string) (*domain.CostCenter, error) {
	query := `SELECT ` + costCenterColumns + ` FROM cost_centers WHERE company_id = $1 AND cost_center_id = $2;`

	m, err := scanCostCenter(r.Pool.QueryRow(ctx, query, companyID, costCenterID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find cost center %s: %w", costCenterID, err)
	}
	costCenter := mapping.ToDomainCostCenter(m)
	return &costCenter, nil
}

func (r *PgxCostCenterRepository) ListCostCenters(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.CostCenter, *string, error) {
	query := `SELECT ` + costCenterColumns + ` FROM cost_centers WHERE company_id = $1`
	args := []any{companyID}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, err := pagination.DecodeCursorToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		// Tuple comparison keeps rows sharing a timestamp from being skipped.
		query += ` AND (created_at, cost_center_id) > ($2, $3)`
		args = append(args, lastCreatedAt, lastID)
	}
	query += fmt.Sprintf(` ORDER BY created_at ASC, cost_center_id ASC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list cost centers: %w", err)
	}
	defer rows.Close()

	var ms []models.CostCenter
	for rows.Next() {
		m, err := scanCostCenter(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan cost center row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate cost center rows: %w", err)
	}

	var nextTokenVal *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		token := pagination.EncodeCursorToken(last.CreatedAt, last.CostCenterID)
		nextTokenVal = &token
	}

	costCenters := make([]domain.CostCenter, len(ms))
	for i, m := range ms {
		costCenters[i] = mapping.ToDomainCostCenter(m)
	}
	return costCenters, nextTokenVal, nil
}
