package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/hroffice/gl_backend/internal/apperrors"
	"github.com/hroffice/gl_backend/internal/core/domain"
	portsrepo "github.com/hroffice/gl_backend/internal/core/ports/repositories"
	portssvc "github.com/hroffice/gl_backend/internal/core/ports/services"
	"github.com/hroffice/gl_backend/internal/dto"
	"github.com/hroffice/gl_backend/internal/middleware"
)

// fiscalYearPattern matches the "YYYY-YYYY" fiscal year label.
var fiscalYearPattern = regexp.MustCompile(`^\d{4}-\d{4}$`)

type closingService struct {
	closingRepo portsrepo.ClosingRepositoryFacade
	auditSvc    portssvc.AuditSvcFacade
}

// NewClosingService creates a new year-end closing service.
func NewClosingService(closingRepo portsrepo.ClosingRepositoryFacade, auditSvc portssvc.AuditSvcFacade) portssvc.ClosingSvcFacade {
	return &closingService{closingRepo: closingRepo, auditSvc: auditSvc}
}

var _ portssvc.ClosingSvcFacade = (*closingService)(nil)

// CloseFiscalYear records a COMPLETED closing for the year, locking it against
// further posting. Closing an already-closed year is a conflict.
func (s *closingService) CloseFiscalYear(ctx context.Context, companyID string, req dto.CreateClosingRequest, actor string) (*domain.ClosingRecord, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !fiscalYearPattern.MatchString(req.FiscalYear) {
		return nil, fmt.Errorf("%w: fiscal year must be formatted like 2025-2026", apperrors.ErrValidation)
	}

	locked, err := s.closingRepo.IsPeriodLocked(ctx, companyID, req.FiscalYear)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing closing: %w", err)
	}
	if locked {
		return nil, fmt.Errorf("%w: fiscal year %s is already closed", apperrors.ErrConflict, req.FiscalYear)
	}

	now := time.Now().UTC()
	record := domain.ClosingRecord{
		ClosingID:  uuid.NewString(),
		CompanyID:  companyID,
		FiscalYear: req.FiscalYear,
		Status:     domain.ClosingCompleted,
		ClosedAt:   now,
		ClosedBy:   actor,
		Remarks:    req.Remarks,
	}

	if err := s.closingRepo.SaveClosing(ctx, record); err != nil {
		logger.Error("Failed to save closing record", slog.String("error", err.Error()), slog.String("fiscal_year", req.FiscalYear))
		return nil, fmt.Errorf("failed to save closing record: %w", err)
	}

	s.auditSvc.Append(ctx, dto.AuditAppendParams{
		CompanyID:    companyID,
		Action:       domain.AuditCreate,
		Module:       "closing",
		DocumentType: "year_end_closing",
		DocumentID:   record.ClosingID,
		Actor:        actor,
		After:        record,
	})

	logger.Info("Fiscal year closed", slog.String("fiscal_year", req.FiscalYear), slog.String("closing_id", record.ClosingID))
	return &record, nil
}

// ReverseClosing unlocks a closed fiscal year. The reversal is itself audited;
// the lock is never silently bypassed.
func (s *closingService) ReverseClosing(ctx context.Context, companyID, fiscalYear, actor string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	record, err := s.closingRepo.FindClosing(ctx, companyID, fiscalYear)
	if err != nil {
		return fmt.Errorf("failed to find closing for %s: %w", fiscalYear, err)
	}
	if record.Status != domain.ClosingCompleted {
		return fmt.Errorf("%w: closing for %s is %s, expected COMPLETED", apperrors.ErrInvalidState, fiscalYear, record.Status)
	}

	now := time.Now().UTC()
	if err := s.closingRepo.ReverseClosing(ctx, record.ClosingID, actor, now); err != nil {
		logger.Error("Failed to reverse closing", slog.String("error", err.Error()), slog.String("fiscal_year", fiscalYear))
		return fmt.Errorf("failed to reverse closing: %w", err)
	}

	s.auditSvc.Append(ctx, dto.AuditAppendParams{
		CompanyID:    companyID,
		Action:       domain.AuditReverse,
		Module:       "closing",
		DocumentType: "year_end_closing",
		DocumentID:   record.ClosingID,
		Actor:        actor,
		Before:       map[string]any{"status": domain.ClosingCompleted},
		After:        map[string]any{"status": domain.ClosingReversed},
	})

	logger.Info("Fiscal year closing reversed", slog.String("fiscal_year", fiscalYear))
	return nil
}

// IsPeriodLocked reports whether a COMPLETED closing exists for the year.
func (s *closingService) IsPeriodLocked(ctx context.Context, companyID, fiscalYear string) (bool, error) {
	locked, err := s.closingRepo.IsPeriodLocked(ctx, companyID, fiscalYear)
	if err != nil && errors.Is(err, apperrors.ErrNotFound) {
		return false, nil
	}
	return locked, err
}

// GetClosing retrieves the closing record for a fiscal year.
func (s *closingService) GetClosing(ctx context.Context, companyID, fiscalYear string) (*domain.ClosingRecord, error) {
	record, err := s.closingRepo.FindClosing(ctx, companyID, fiscalYear)
	if err != nil {
		return nil, fmt.Errorf("failed to find closing for %s: %w", fiscalYear, err)
	}
	return record, nil
}
