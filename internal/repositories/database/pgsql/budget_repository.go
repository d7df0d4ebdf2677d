package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hroffice/gl_backend/internal/apperrors"
	"github.com/hroffice/gl_backend/internal/core/domain"
	portsrepo "github.com/hroffice/gl_backend/internal/core/ports/repositories"
	"github.com/hroffice/gl_backend/internal/models"
	"github.com/hroffice/gl_backend/internal/utils/mapping"
	"github.com/hroffice/gl_backend/internal/utils/pagination"
)

const budgetColumns = `budget_id, company_id, fiscal_year, budget_type, status, created_at, created_by, last_updated_at, last_updated_by`

const budgetLineColumns = `line_id, budget_id, account_code, cost_center_id, original_budget, revised_budget, supplementary_budget, surrendered_amount, reappropriated_in, reappropriated_out, total_budget, utilized, committed, available, alert_threshold, block_threshold, allow_override`

type PgxBudgetRepository struct {
	BaseRepository
}

// newPgxBudgetRepository creates a new repository for budget documents and lines.
func newPgxBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepositoryFacade {
	return &PgxBudgetRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BudgetRepositoryFacade = (*PgxBudgetRepository)(nil)

func scanBudget(row pgx.Row) (models.Budget, error) {
	var m models.Budget
	err := row.Scan(
		&m.BudgetID, &m.CompanyID, &m.FiscalYear, &m.BudgetType, &m.Status,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func scanBudgetLine(row pgx.Row) (models.BudgetLine, error) {
	var m models.BudgetLine
	err := row.Scan(
		&m.LineID, &m.BudgetID, &m.AccountCode, &m.CostCenterID,
		&m.OriginalBudget, &m.RevisedBudget, &m.SupplementaryBudget,
		&m.SurrenderedAmount, &m.ReappropriatedIn, &m.ReappropriatedOut,
		&m.TotalBudget, &m.Utilized, &m.Committed, &m.Available,
		&m.AlertThreshold, &m.BlockThreshold, &m.AllowOverride,
	)
	return m, err
}

// FindBudgetByID retrieves a budget with its lines.
func (r *PgxBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE budget_id = $1;`

	m, err := scanBudget(r.Pool.QueryRow(ctx, query, budgetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find budget %s: %w", budgetID, err)
	}

	lines, err := r.findLinesByBudgetID(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	budget := mapping.ToDomainBudget(m)
	budget.Lines = mapping.ToDomainBudgetLineSlice(lines)
	return &budget, nil
}

// FindActiveBudget retrieves the single ACTIVE budget for a fiscal year.
func (r *PgxBudgetRepository) FindActiveBudget(ctx context.Context, companyID string, fiscalYear string) (*domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE company_id = $1 AND fiscal_year = $2 AND status = 'ACTIVE';`

	m, err := scanBudget(r.Pool.QueryRow(ctx, query, companyID, fiscalYear))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active budget for %s/%s: %w", companyID, fiscalYear, err)
	}

	lines, err := r.findLinesByBudgetID(ctx, m.BudgetID)
	if err != nil {
		return nil, err
	}

	budget := mapping.ToDomainBudget(m)
	budget.Lines = mapping.ToDomainBudgetLineSlice(lines)
	return &budget, nil
}

func (r *PgxBudgetRepository) findLinesByBudgetID(ctx context.Context, budgetID string) ([]models.BudgetLine, error) {
	query := `SELECT ` + budgetLineColumns + ` FROM budget_lines WHERE budget_id = $1 ORDER BY account_code, cost_center_id;`

	rows, err := r.Pool.Query(ctx, query, budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query budget lines for %s: %w", budgetID, err)
	}
	defer rows.Close()

	var ms []models.BudgetLine
	for rows.Next() {
		m, err := scanBudgetLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget line row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budget line rows: %w", err)
	}
	return ms, nil
}

// activeLinePredicate narrows budget_lines to the key's line inside the ACTIVE
// budget of the company and fiscal year. An empty CostCenterID matches the
// line stored with a NULL cost center.
const activeLinePredicate = `
	budget_id = (
		SELECT budget_id FROM budgets
		WHERE company_id = $1 AND fiscal_year = $2 AND status = 'ACTIVE'
	)
	AND account_code = $3
	AND cost_center_id IS NOT DISTINCT FROM NULLIF($4, '')`

// FindActiveLine retrieves the budget line for a key within the ACTIVE budget.
func (r *PgxBudgetRepository) FindActiveLine(ctx context.Context, key portsrepo.BudgetLineKey) (*domain.BudgetLine, error) {
	query := `SELECT ` + budgetLineColumns + ` FROM budget_lines WHERE` + activeLinePredicate + `;`

	m, err := scanBudgetLine(r.Pool.QueryRow(ctx, query, key.CompanyID, key.FiscalYear, key.AccountCode, key.CostCenterID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active budget line for %s: %w", key.AccountCode, err)
	}
	line := mapping.ToDomainBudgetLine(m)
	return &line, nil
}

// ListBudgets retrieves budgets for a company, newest first. Lines are not
// hydrated on listing.
func (r *PgxBudgetRepository) ListBudgets(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Budget, *string, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE company_id = $1`
	args := []any{companyID}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, err := pagination.DecodeCursorToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		// Tuple comparison keeps rows sharing a timestamp from being skipped.
		query += ` AND (created_at, budget_id) < ($2, $3)`
		args = append(args, lastCreatedAt, lastID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, budget_id DESC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var ms []models.Budget
	for rows.Next() {
		m, err := scanBudget(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan budget row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate budget rows: %w", err)
	}

	var nextTokenVal *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		token := pagination.EncodeCursorToken(last.CreatedAt, last.BudgetID)
		nextTokenVal = &token
	}

	budgets := make([]domain.Budget, len(ms))
	for i, m := range ms {
		budgets[i] = mapping.ToDomainBudget(m)
	}
	return budgets, nextTokenVal, nil
}

// SaveBudget persists a new budget with its lines.
func (r *PgxBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	m := mapping.ToModelBudget(budget)
	budgetQuery := `
		INSERT INTO budgets (` + budgetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(ctx, budgetQuery,
		m.BudgetID, m.CompanyID, m.FiscalYear, m.BudgetType, m.Status,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: budget %s already exists", apperrors.ErrDuplicate, m.BudgetID)
		}
		return fmt.Errorf("failed to insert budget %s: %w", m.BudgetID, err)
	}

	lineQuery := `
		INSERT INTO budget_lines (` + budgetLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	batch := &pgx.Batch{}
	for _, line := range budget.Lines {
		lm := mapping.ToModelBudgetLine(line)
		batch.Queue(lineQuery,
			lm.LineID, lm.BudgetID, lm.AccountCode, lm.CostCenterID,
			lm.OriginalBudget, lm.RevisedBudget, lm.SupplementaryBudget,
			lm.SurrenderedAmount, lm.ReappropriatedIn, lm.ReappropriatedOut,
			lm.TotalBudget, lm.Utilized, lm.Committed, lm.Available,
			lm.AlertThreshold, lm.BlockThreshold, lm.AllowOverride,
		)
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range budget.Lines {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert budget line for %s: %w", m.BudgetID, err)
		}
	}
	if err := results.Close(); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateBudgetStatus transitions a budget's lifecycle status.
func (r *PgxBudgetRepository) UpdateBudgetStatus(ctx context.Context, budgetID string, status domain.BudgetStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE budgets
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE budget_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, budgetID, string(status), updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update status of budget %s: %w", budgetID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ActivateBudget marks the budget ACTIVE, closing any previously active budget
// of the same company and fiscal year in the same transaction so the unique
// partial index on (company_id, fiscal_year) WHERE status = 'ACTIVE' holds.
func (r *PgxBudgetRepository) ActivateBudget(ctx context.Context, budgetID string, companyID string, fiscalYear string, updatedBy string, updatedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	closeQuery := `
		UPDATE budgets
		SET status = 'CLOSED', last_updated_at = $3, last_updated_by = $4
		WHERE company_id = $1 AND fiscal_year = $2 AND status = 'ACTIVE' AND budget_id <> $5;
	`
	if _, err := tx.Exec(ctx, closeQuery, companyID, fiscalYear, updatedAt, updatedBy, budgetID); err != nil {
		return fmt.Errorf("failed to close prior active budget for %s/%s: %w", companyID, fiscalYear, err)
	}

	activateQuery := `
		UPDATE budgets
		SET status = 'ACTIVE', last_updated_at = $2, last_updated_by = $3
		WHERE budget_id = $1;
	`
	tag, err := tx.Exec(ctx, activateQuery, budgetID, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to activate budget %s: %w", budgetID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return r.Commit(ctx, tx)
}

// ApplyCommit atomically increments committed and recomputes available in one
// statement. The WHERE guard rejects a decrement past zero without effect.
func (r *PgxBudgetRepository) ApplyCommit(ctx context.Context, key portsrepo.BudgetLineKey, delta decimal.Decimal, updatedAt time.Time) (*domain.BudgetLine, error) {
	query := `
		UPDATE budget_lines
		SET committed = committed + $5,
			available = total_budget - utilized - (committed + $5)
		WHERE` + activeLinePredicate + `
			AND committed + $5 >= 0
		RETURNING ` + budgetLineColumns + `;
	`
	return r.applyMutation(ctx, query, key, delta)
}

// ApplyUtilize atomically increments utilized, optionally draining the same
// amount from committed (floored at zero), and recomputes available. Only a
// positive delta may drain committed; a negative reversal never grows it.
func (r *PgxBudgetRepository) ApplyUtilize(ctx context.Context, key portsrepo.BudgetLineKey, delta decimal.Decimal, releaseCommitted bool, updatedAt time.Time) (*domain.BudgetLine, error) {
	var query string
	if releaseCommitted {
		query = `
			UPDATE budget_lines
			SET utilized = utilized + $5,
				committed = GREATEST(committed - GREATEST($5, 0), 0),
				available = total_budget - (utilized + $5) - GREATEST(committed - GREATEST($5, 0), 0)
			WHERE` + activeLinePredicate + `
				AND utilized + $5 >= 0
			RETURNING ` + budgetLineColumns + `;
		`
	} else {
		query = `
			UPDATE budget_lines
			SET utilized = utilized + $5,
				available = total_budget - (utilized + $5) - committed
			WHERE` + activeLinePredicate + `
				AND utilized + $5 >= 0
			RETURNING ` + budgetLineColumns + `;
		`
	}
	return r.applyMutation(ctx, query, key, delta)
}

// ApplyRelease atomically decrements committed by amount, floored at zero.
func (r *PgxBudgetRepository) ApplyRelease(ctx context.Context, key portsrepo.BudgetLineKey, amount decimal.Decimal, updatedAt time.Time) (*domain.BudgetLine, error) {
	query := `
		UPDATE budget_lines
		SET committed = GREATEST(committed - $5, 0),
			available = total_budget - utilized - GREATEST(committed - $5, 0)
		WHERE` + activeLinePredicate + `
		RETURNING ` + budgetLineColumns + `;
	`
	return r.applyMutation(ctx, query, key, amount)
}

func (r *PgxBudgetRepository) applyMutation(ctx context.Context, query string, key portsrepo.BudgetLineKey, amount decimal.Decimal) (*domain.BudgetLine, error) {
	m, err := scanBudgetLine(r.Pool.QueryRow(ctx, query, key.CompanyID, key.FiscalYear, key.AccountCode, key.CostCenterID, amount))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either no active line for the key, or the amount guard rejected
			// the mutation; the caller distinguishes via FindActiveLine.
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to apply budget mutation for %s: %w", key.AccountCode, err)
	}
	line := mapping.ToDomainBudgetLine(m)
	return &line, nil
}
