package services

import (
	"context"

	"github.com/hroffice/gl_backend/internal/core/domain"
	"github.com/hroffice/gl_backend/internal/dto"
)

// BudgetSvcFacade defines the budget controller: lifecycle administration and
// the commit/utilize/release encumbrance operations against the active budget.
type BudgetSvcFacade interface {
	// CreateBudget persists a new DRAFT budget with derived amounts computed.
	CreateBudget(ctx context.Context, companyID string, req dto.CreateBudgetRequest, creatorUserID string) (*domain.Budget, error)

	// SubmitBudget moves DRAFT -> SUBMITTED.
	SubmitBudget(ctx context.Context, companyID string, budgetID string, actor string) error

	// ApproveBudget moves SUBMITTED -> APPROVED.
	ApproveBudget(ctx context.Context, companyID string, budgetID string, actor string) error

	// ActivateBudget moves APPROVED -> ACTIVE and closes the previously active
	// budget of the same fiscal year.
	ActivateBudget(ctx context.Context, companyID string, budgetID string, actor string) error

	// CloseBudget moves ACTIVE -> CLOSED.
	CloseBudget(ctx context.Context, companyID string, budgetID string, actor string) error

	// GetBudgetByID retrieves a budget with its lines.
	GetBudgetByID(ctx context.Context, companyID string, budgetID string) (*domain.Budget, error)

	// GetActiveBudget retrieves the single ACTIVE budget for a fiscal year.
	GetActiveBudget(ctx context.Context, companyID string, fiscalYear string) (*domain.Budget, error)

	// ListBudgets retrieves a paginated budget listing.
	ListBudgets(ctx context.Context, companyID string, params dto.ListBudgetsParams) (*dto.ListBudgetsResponse, error)

	// CheckAvailability evaluates whether an amount fits the scoped line's
	// thresholds without mutating anything.
	CheckAvailability(ctx context.Context, companyID string, req dto.AvailabilityRequest) (*domain.AvailabilityResult, error)

	// Commit reserves budget for an approved but unrealized expense.
	Commit(ctx context.Context, companyID string, req dto.EncumbranceRequest, actor string) (*domain.BudgetLine, error)

	// Utilize records realized spend, optionally converting a commitment.
	Utilize(ctx context.Context, companyID string, req dto.UtilizationRequest, actor string) (*domain.BudgetLine, error)

	// Release returns committed budget for a cancelled encumbrance.
	Release(ctx context.Context, companyID string, req dto.EncumbranceRequest, actor string) (*domain.BudgetLine, error)
}
