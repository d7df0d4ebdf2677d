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

const journalEntryColumns = `entry_id, entry_number, company_id, entry_date, fiscal_year, period, description, status, source_type, source_document_id, budget_updated_externally, posted_at, posted_by, original_entry_id, reversing_entry_id, reversal_reason, created_at, created_by, last_updated_at, last_updated_by`

const journalLineColumns = `line_id, entry_id, company_id, account_code, cost_center_id, debit, credit, subledger_type, subledger_id, narration`

const postingRunColumns = `run_id, entry_id, company_id, ownership, completed_steps, status, started_at, completed_at, last_error`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries, lines
// and posting run records.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func scanJournalEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID, &m.EntryNumber, &m.CompanyID, &m.EntryDate, &m.FiscalYear,
		&m.Period, &m.Description, &m.Status, &m.SourceType, &m.SourceDocumentID,
		&m.BudgetUpdatedExternally, &m.PostedAt, &m.PostedBy, &m.OriginalEntryID,
		&m.ReversingEntryID, &m.ReversalReason,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// FindEntryByID retrieves a journal entry with its lines.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalEntryColumns + ` FROM journal_entries WHERE entry_id = $1;`

	m, err := scanJournalEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}

	lines, err := r.findLinesByEntryIDs(ctx, []string{entryID})
	if err != nil {
		return nil, err
	}

	entry := mapping.ToDomainJournalEntry(m)
	entry.Lines = mapping.ToDomainJournalLineSlice(lines[entryID])
	return &entry, nil
}

func (r *PgxJournalRepository) findLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]models.JournalLine, error) {
	if len(entryIDs) == 0 {
		return map[string][]models.JournalLine{}, nil
	}
	query := `SELECT ` + journalLineColumns + ` FROM journal_lines WHERE entry_id = ANY($1) ORDER BY line_id;`

	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal lines: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]models.JournalLine, len(entryIDs))
	for rows.Next() {
		var m models.JournalLine
		err := rows.Scan(
			&m.LineID, &m.EntryID, &m.CompanyID, &m.AccountCode, &m.CostCenterID,
			&m.Debit, &m.Credit, &m.SubledgerType, &m.SubledgerID, &m.Narration,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal line row: %w", err)
		}
		result[m.EntryID] = append(result[m.EntryID], m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate journal line rows: %w", err)
	}
	return result, nil
}

// ListEntries retrieves a paginated list of entries for a company, most recent
// entry date first, with stable keyset pagination on (entry_date, created_at).
func (r *PgxJournalRepository) ListEntries(ctx context.Context, companyID string, limit int, nextToken *string, includeReversals bool) ([]domain.JournalEntry, *string, error) {
	query := `SELECT ` + journalEntryColumns + ` FROM journal_entries WHERE company_id = $1`
	args := []any{companyID}

	if !includeReversals {
		query += ` AND original_entry_id IS NULL`
	}
	if nextToken != nil && *nextToken != "" {
		lastEntryDate, lastCreatedAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		query += fmt.Sprintf(` AND (entry_date, created_at) < ($%d, $%d)`, len(args)+1, len(args)+2)
		args = append(args, lastEntryDate, lastCreatedAt)
	}
	query += fmt.Sprintf(` ORDER BY entry_date DESC, created_at DESC LIMIT %d;`, limit+1)

	return r.listEntriesQuery(ctx, query, args, limit)
}

// ListEntriesByAccount retrieves posted entries touching an account.
func (r *PgxJournalRepository) ListEntriesByAccount(ctx context.Context, companyID string, accountCode string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	query := `
		SELECT DISTINCT e.entry_id, e.entry_number, e.company_id, e.entry_date, e.fiscal_year,
			e.period, e.description, e.status, e.source_type, e.source_document_id,
			e.budget_updated_externally, e.posted_at, e.posted_by, e.original_entry_id,
			e.reversing_entry_id, e.reversal_reason,
			e.created_at, e.created_by, e.last_updated_at, e.last_updated_by
		FROM journal_entries e
		JOIN journal_lines l ON l.entry_id = e.entry_id
		WHERE e.company_id = $1 AND l.account_code = $2 AND e.status IN ('POSTED', 'REVERSED')`
	args := []any{companyID, accountCode}

	if nextToken != nil && *nextToken != "" {
		lastEntryDate, lastCreatedAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		query += ` AND (e.entry_date, e.created_at) < ($3, $4)`
		args = append(args, lastEntryDate, lastCreatedAt)
	}
	query += fmt.Sprintf(` ORDER BY e.entry_date DESC, e.created_at DESC LIMIT %d;`, limit+1)

	return r.listEntriesQuery(ctx, query, args, limit)
}

func (r *PgxJournalRepository) listEntriesQuery(ctx context.Context, query string, args []any, limit int) ([]domain.JournalEntry, *string, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	var ms []models.JournalEntry
	for rows.Next() {
		m, err := scanJournalEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate journal entry rows: %w", err)
	}

	var nextTokenVal *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		nextTokenVal = &token
	}

	entryIDs := make([]string, len(ms))
	for i, m := range ms {
		entryIDs[i] = m.EntryID
	}
	lines, err := r.findLinesByEntryIDs(ctx, entryIDs)
	if err != nil {
		return nil, nil, err
	}

	entries := make([]domain.JournalEntry, len(ms))
	for i, m := range ms {
		entries[i] = mapping.ToDomainJournalEntry(m)
		entries[i].Lines = mapping.ToDomainJournalLineSlice(lines[m.EntryID])
	}
	return entries, nextTokenVal, nil
}

// SaveDraftEntry persists a new entry in DRAFT with its lines.
func (r *PgxJournalRepository) SaveDraftEntry(ctx context.Context, entry domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := insertEntryInTx(ctx, tx, entry); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func insertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)

	entryQuery := `
		INSERT INTO journal_entries (` + journalEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err := tx.Exec(ctx, entryQuery,
		m.EntryID, m.EntryNumber, m.CompanyID, m.EntryDate, m.FiscalYear,
		m.Period, m.Description, m.Status, m.SourceType, m.SourceDocumentID,
		m.BudgetUpdatedExternally, m.PostedAt, m.PostedBy, m.OriginalEntryID,
		m.ReversingEntryID, m.ReversalReason,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: journal entry %s already exists", apperrors.ErrDuplicate, m.EntryID)
		}
		return fmt.Errorf("failed to insert journal entry %s: %w", m.EntryID, err)
	}

	lineQuery := `
		INSERT INTO journal_lines (` + journalLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	batch := &pgx.Batch{}
	for _, line := range entry.Lines {
		lm := mapping.ToModelJournalLine(line, entry.CompanyID)
		batch.Queue(lineQuery,
			lm.LineID, lm.EntryID, lm.CompanyID, lm.AccountCode, lm.CostCenterID,
			lm.Debit, lm.Credit, lm.SubledgerType, lm.SubledgerID, lm.Narration,
		)
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range entry.Lines {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert journal line for entry %s: %w", m.EntryID, err)
		}
	}
	return results.Close()
}

// UpdateEntryStatus transitions an entry's workflow status without touching
// lines or balances.
func (r *PgxJournalRepository) UpdateEntryStatus(ctx context.Context, entryID string, status domain.EntryStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, entryID, string(status), updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update status of journal entry %s: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// nextEntryNumber increments the per-company fiscal-year sequence and formats
// the entry number. The UPDATE ... RETURNING on the upserted row serializes
// concurrent posters on the sequence row lock.
func nextEntryNumber(ctx context.Context, tx pgx.Tx, companyID string, fiscalYear string) (string, error) {
	query := `
		INSERT INTO journal_sequences (company_id, fiscal_year, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (company_id, fiscal_year)
		DO UPDATE SET last_value = journal_sequences.last_value + 1
		RETURNING last_value;
	`
	var seq int64
	if err := tx.QueryRow(ctx, query, companyID, fiscalYear).Scan(&seq); err != nil {
		return "", fmt.Errorf("failed to advance journal sequence for %s/%s: %w", companyID, fiscalYear, err)
	}
	return fmt.Sprintf("JV-%s-%06d", fiscalYear, seq), nil
}

// PostEntry assigns the entry number, marks the entry POSTED and applies the
// account balance deltas, all in one database transaction. Writes are
// conditioned on the row still being unposted so a retried posting step is a
// no-op that returns the already assigned number.
func (r *PgxJournalRepository) PostEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	var currentStatus string
	var currentNumber *string
	lockQuery := `SELECT status, entry_number FROM journal_entries WHERE entry_id = $1 FOR UPDATE;`
	if err := tx.QueryRow(ctx, lockQuery, entry.EntryID).Scan(&currentStatus, &currentNumber); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to lock journal entry %s: %w", entry.EntryID, err)
	}
	if currentStatus == string(domain.EntryPosted) && currentNumber != nil {
		// Idempotent retry of a completed write.
		return *currentNumber, r.Commit(ctx, tx)
	}
	if !domain.EntryStatus(currentStatus).CanPost() {
		return "", fmt.Errorf("%w: cannot post entry in status %s", apperrors.ErrInvalidState, currentStatus)
	}

	entryNumber, err := nextEntryNumber(ctx, tx, entry.CompanyID, entry.FiscalYear)
	if err != nil {
		return "", err
	}

	updateQuery := `
		UPDATE journal_entries
		SET status = $2, entry_number = $3, posted_at = $4, posted_by = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE entry_id = $1;
	`
	_, err = tx.Exec(ctx, updateQuery,
		entry.EntryID, string(domain.EntryPosted), entryNumber,
		entry.PostedAt, entry.PostedBy, entry.LastUpdatedAt, entry.LastUpdatedBy,
	)
	if err != nil {
		return "", fmt.Errorf("failed to mark journal entry %s posted: %w", entry.EntryID, err)
	}

	if err := applyBalanceChangesInTx(ctx, tx, entry.CompanyID, balanceChanges, entry.PostedBy, entry.LastUpdatedAt); err != nil {
		return "", err
	}
	return entryNumber, r.Commit(ctx, tx)
}

// ReverseEntry posts the reversing entry and marks the original REVERSED with
// reversal linkage, in one database transaction.
func (r *PgxJournalRepository) ReverseEntry(ctx context.Context, original domain.JournalEntry, reversing domain.JournalEntry, balanceChanges map[string]decimal.Decimal) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	var currentStatus string
	var reversingID *string
	lockQuery := `SELECT status, reversing_entry_id FROM journal_entries WHERE entry_id = $1 FOR UPDATE;`
	if err := tx.QueryRow(ctx, lockQuery, original.EntryID).Scan(&currentStatus, &reversingID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to lock journal entry %s: %w", original.EntryID, err)
	}
	if currentStatus == string(domain.EntryReversed) && reversingID != nil && *reversingID == reversing.EntryID {
		// Idempotent retry: the reversing entry was already written.
		var entryNumber string
		numberQuery := `SELECT entry_number FROM journal_entries WHERE entry_id = $1;`
		if err := tx.QueryRow(ctx, numberQuery, reversing.EntryID).Scan(&entryNumber); err != nil {
			return "", fmt.Errorf("failed to read reversing entry number for %s: %w", reversing.EntryID, err)
		}
		return entryNumber, r.Commit(ctx, tx)
	}
	if currentStatus != string(domain.EntryPosted) {
		return "", fmt.Errorf("%w: cannot reverse entry in status %s", apperrors.ErrInvalidState, currentStatus)
	}

	entryNumber, err := nextEntryNumber(ctx, tx, reversing.CompanyID, reversing.FiscalYear)
	if err != nil {
		return "", err
	}
	reversing.EntryNumber = entryNumber
	if err := insertEntryInTx(ctx, tx, reversing); err != nil {
		return "", err
	}

	markQuery := `
		UPDATE journal_entries
		SET status = $2, reversing_entry_id = $3, reversal_reason = $4,
			last_updated_at = $5, last_updated_by = $6
		WHERE entry_id = $1;
	`
	_, err = tx.Exec(ctx, markQuery,
		original.EntryID, string(domain.EntryReversed), reversing.EntryID,
		reversing.ReversalReason, reversing.LastUpdatedAt, reversing.LastUpdatedBy,
	)
	if err != nil {
		return "", fmt.Errorf("failed to mark journal entry %s reversed: %w", original.EntryID, err)
	}

	if err := applyBalanceChangesInTx(ctx, tx, reversing.CompanyID, balanceChanges, reversing.PostedBy, reversing.LastUpdatedAt); err != nil {
		return "", err
	}
	return entryNumber, r.Commit(ctx, tx)
}

// SavePostingRun persists a new posting workflow record.
func (r *PgxJournalRepository) SavePostingRun(ctx context.Context, run domain.PostingRun) error {
	m := mapping.ToModelPostingRun(run)

	query := `
		INSERT INTO posting_runs (` + postingRunColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.RunID, m.EntryID, m.CompanyID, m.Ownership, m.CompletedSteps,
		m.Status, m.StartedAt, m.CompletedAt, m.LastError,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: posting run for entry %s already exists", apperrors.ErrDuplicate, m.EntryID)
		}
		return fmt.Errorf("failed to save posting run %s: %w", m.RunID, err)
	}
	return nil
}

// FindPostingRunByEntry retrieves the posting run for an entry, if any.
func (r *PgxJournalRepository) FindPostingRunByEntry(ctx context.Context, entryID string) (*domain.PostingRun, error) {
	query := `SELECT ` + postingRunColumns + ` FROM posting_runs WHERE entry_id = $1;`

	var m models.PostingRun
	err := r.Pool.QueryRow(ctx, query, entryID).Scan(
		&m.RunID, &m.EntryID, &m.CompanyID, &m.Ownership, &m.CompletedSteps,
		&m.Status, &m.StartedAt, &m.CompletedAt, &m.LastError,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find posting run for entry %s: %w", entryID, err)
	}
	run := mapping.ToDomainPostingRun(m)
	return &run, nil
}

// UpdatePostingRun rewrites a posting run's progress and status.
func (r *PgxJournalRepository) UpdatePostingRun(ctx context.Context, run domain.PostingRun) error {
	m := mapping.ToModelPostingRun(run)

	query := `
		UPDATE posting_runs
		SET completed_steps = $2, status = $3, completed_at = $4, last_error = $5
		WHERE run_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, m.RunID, m.CompletedSteps, m.Status, m.CompletedAt, m.LastError)
	if err != nil {
		return fmt.Errorf("failed to update posting run %s: %w", m.RunID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
