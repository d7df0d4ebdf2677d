package repositories

import (
	"context"
	"time"

	"github.com/hroffice/gl_backend/internal/core/domain"
)

// AccountReader defines read operations for chart-of-accounts data.
type AccountReader interface {
	// FindAccountByCode retrieves an account by company and account code.
	FindAccountByCode(ctx context.Context, companyID string, accountCode string) (*domain.Account, error)

	// FindAccountsByCodes retrieves multiple accounts by code, keyed by code.
	// Missing codes are simply absent from the returned map.
	FindAccountsByCodes(ctx context.Context, companyID string, accountCodes []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts for a company.
	ListAccounts(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Account, *string, error)
}

// AccountWriter defines write operations for chart-of-accounts data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks the account inactive; accounts are never deleted.
	DeactivateAccount(ctx context.Context, companyID string, accountCode string, updatedBy string, updatedAt time.Time) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
