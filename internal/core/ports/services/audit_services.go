package services

import (
	"context"

	"github.com/hroffice/gl_backend/internal/core/domain"
	"github.com/hroffice/gl_backend/internal/dto"
)

// AuditSvcFacade defines the tamper-evident audit chain operations.
type AuditSvcFacade interface {
	// Append adds a hash-linked record for a mutating action. It never returns
	// an error: append failures are logged and swallowed so they cannot abort
	// the business operation being audited.
	Append(ctx context.Context, params dto.AuditAppendParams)

	// VerifyChain walks a company's chain oldest-to-newest and reports link
	// breaks and recomputation mismatches as integrity violations.
	VerifyChain(ctx context.Context, companyID string, params dto.VerifyChainParams) (*domain.ChainVerificationReport, error)

	// ListEntries retrieves a paginated audit log for compliance export.
	ListEntries(ctx context.Context, companyID string, params dto.ListAuditParams) (*dto.ListAuditResponse, error)
}
