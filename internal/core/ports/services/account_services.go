package services

import (
	"context"

	"github.com/hroffice/gl_backend/internal/core/domain"
	"github.com/hroffice/gl_backend/internal/dto"
)

// AccountSvcFacade defines chart-of-accounts operations. Balances are read-only
// here; they change only through posted journal entries.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)
	GetAccountByCode(ctx context.Context, companyID string, accountCode string) (*domain.Account, error)
	GetAccountsByCodes(ctx context.Context, companyID string, accountCodes []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context, companyID string, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error)
	DeactivateAccount(ctx context.Context, companyID string, accountCode string, actor string) error
}

// CostCenterSvcFacade defines the cost-center registry operations.
type CostCenterSvcFacade interface {
	CreateCostCenter(ctx context.Context, companyID string, req dto.CreateCostCenterRequest, creatorUserID string) (*domain.CostCenter, error)
	GetCostCenterByID(ctx context.Context, companyID string, costCenterID string) (*domain.CostCenter, error)
	ListCostCenters(ctx context.Context, companyID string, params dto.ListCostCentersParams) (*dto.ListCostCentersResponse, error)
}
