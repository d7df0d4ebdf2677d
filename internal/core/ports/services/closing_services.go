package services

import (
	"context"

	"github.com/hroffice/gl_backend/internal/core/domain"
	"github.com/hroffice/gl_backend/internal/dto"
)

// ClosingSvcFacade defines year-end closing operations. A completed closing
// locks its fiscal year against posting until reversed by an authorized
// closing-reversal, never bypassed.
type ClosingSvcFacade interface {
	CloseFiscalYear(ctx context.Context, companyID string, req dto.CreateClosingRequest, actor string) (*domain.ClosingRecord, error)
	ReverseClosing(ctx context.Context, companyID string, fiscalYear string, actor string) error
	IsPeriodLocked(ctx context.Context, companyID string, fiscalYear string) (bool, error)
	GetClosing(ctx context.Context, companyID string, fiscalYear string) (*domain.ClosingRecord, error)
}
