package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/hroffice/gl_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all pgx-backed repositories over a shared pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		AccountRepo:    newPgxAccountRepository(pool),
		CostCenterRepo: newPgxCostCenterRepository(pool),
		JournalRepo:    newPgxJournalRepository(pool),
		BudgetRepo:     newPgxBudgetRepository(pool),
		AuditRepo:      newPgxAuditRepository(pool),
		ClosingRepo:    newPgxClosingRepository(pool),
	}
}
