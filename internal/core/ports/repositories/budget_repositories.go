package repositories

import (
	"context"
	"time"

	"github.com/hroffice/gl_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BudgetLineKey identifies the budget line affected by a commit/utilize/release,
// scoped to the ACTIVE budget of the company and fiscal year. CostCenterID may
// be empty for lines not narrowed to a cost center.
type BudgetLineKey struct {
	CompanyID    string
	FiscalYear   string
	AccountCode  string
	CostCenterID string
}

// BudgetReader defines read operations for budgets.
type BudgetReader interface {
	// FindBudgetByID retrieves a budget with its lines.
	FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error)

	// FindActiveBudget retrieves the single ACTIVE budget for a fiscal year.
	FindActiveBudget(ctx context.Context, companyID string, fiscalYear string) (*domain.Budget, error)

	// FindActiveLine retrieves the budget line for a key within the ACTIVE budget.
	FindActiveLine(ctx context.Context, key BudgetLineKey) (*domain.BudgetLine, error)

	// ListBudgets retrieves budgets for a company, newest first.
	ListBudgets(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Budget, *string, error)
}

// BudgetWriter defines write operations for budgets.
type BudgetWriter interface {
	// SaveBudget persists a new budget with its lines.
	SaveBudget(ctx context.Context, budget domain.Budget) error

	// UpdateBudgetStatus transitions a budget's lifecycle status.
	UpdateBudgetStatus(ctx context.Context, budgetID string, status domain.BudgetStatus, updatedBy string, updatedAt time.Time) error

	// ActivateBudget marks the budget ACTIVE and closes any previously active
	// budget of the same company and fiscal year, in one database transaction.
	ActivateBudget(ctx context.Context, budgetID string, companyID string, fiscalYear string, updatedBy string, updatedAt time.Time) error

	// ApplyCommit atomically increments committed by delta (which may be
	// negative for corrections) and recomputes available in the same
	// statement. Fails without effect if committed would go negative.
	ApplyCommit(ctx context.Context, key BudgetLineKey, delta decimal.Decimal, updatedAt time.Time) (*domain.BudgetLine, error)

	// ApplyUtilize atomically increments utilized by delta; when
	// releaseCommitted is set the same amount is drained from committed,
	// floored at zero. Fails without effect if utilized would go negative.
	ApplyUtilize(ctx context.Context, key BudgetLineKey, delta decimal.Decimal, releaseCommitted bool, updatedAt time.Time) (*domain.BudgetLine, error)

	// ApplyRelease atomically decrements committed by amount, floored at zero.
	ApplyRelease(ctx context.Context, key BudgetLineKey, amount decimal.Decimal, updatedAt time.Time) (*domain.BudgetLine, error)
}

// BudgetRepositoryFacade combines all budget repository interfaces.
type BudgetRepositoryFacade interface {
	BudgetReader
	BudgetWriter
}
