package repositories

import (
	"context"

	"github.com/hroffice/gl_backend/internal/core/domain"
)

// CostCenterRepositoryFacade defines storage operations for the cost-center
// registry. The engine only needs identity and active status.
type CostCenterRepositoryFacade interface {
	SaveCostCenter(ctx context.Context, costCenter domain.CostCenter) error
	FindCostCenterByID(ctx context.Context, companyID string, costCenterID string) (*domain.CostCenter, error)
	ListCostCenters(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.CostCenter, *string, error)
}
