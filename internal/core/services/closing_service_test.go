package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hroffice/gl_backend/internal/apperrors"
	"github.com/hroffice/gl_backend/internal/core/domain"
	"github.com/hroffice/gl_backend/internal/core/services"
	"github.com/hroffice/gl_backend/internal/dto"
)

func newClosingFixture() (*MockClosingRepository, *MockAuditService, context.Context) {
	return new(MockClosingRepository), new(MockAuditService), context.Background()
}

func TestCloseFiscalYear_Success(t *testing.T) {
	closingRepo, auditSvc, ctx := newClosingFixture()
	svc := services.NewClosingService(closingRepo, auditSvc)
	companyID := uuid.NewString()

	closingRepo.On("IsPeriodLocked", mock.Anything, companyID, "2024-2025").Return(false, nil).Once()
	closingRepo.On("SaveClosing", mock.Anything, mock.MatchedBy(func(r domain.ClosingRecord) bool {
		return r.FiscalYear == "2024-2025" && r.Status == domain.ClosingCompleted
	})).Return(nil).Once()
	auditSvc.On("Append", mock.Anything, mock.AnythingOfType("dto.AuditAppendParams")).Return().Once()

	record, err := svc.CloseFiscalYear(ctx, companyID, dto.CreateClosingRequest{
		FiscalYear: "2024-2025",
		Remarks:    "annual close",
	}, "cfo")

	require.NoError(t, err)
	assert.Equal(t, domain.ClosingCompleted, record.Status)
	assert.Equal(t, "cfo", record.ClosedBy)
	closingRepo.AssertExpectations(t)
}

func TestCloseFiscalYear_AlreadyClosed(t *testing.T) {
	closingRepo, auditSvc, ctx := newClosingFixture()
	svc := services.NewClosingService(closingRepo, auditSvc)
	companyID := uuid.NewString()

	closingRepo.On("IsPeriodLocked", mock.Anything, companyID, "2024-2025").Return(true, nil).Once()

	_, err := svc.CloseFiscalYear(ctx, companyID, dto.CreateClosingRequest{FiscalYear: "2024-2025"}, "cfo")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	closingRepo.AssertNotCalled(t, "SaveClosing", mock.Anything, mock.Anything)
}

func TestCloseFiscalYear_BadLabel(t *testing.T) {
	closingRepo, auditSvc, ctx := newClosingFixture()
	svc := services.NewClosingService(closingRepo, auditSvc)

	_, err := svc.CloseFiscalYear(ctx, uuid.NewString(), dto.CreateClosingRequest{FiscalYear: "2025"}, "cfo")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestReverseClosing_Success(t *testing.T) {
	closingRepo, auditSvc, ctx := newClosingFixture()
	svc := services.NewClosingService(closingRepo, auditSvc)
	companyID := uuid.NewString()
	closingID := uuid.NewString()

	closingRepo.On("FindClosing", mock.Anything, companyID, "2024-2025").Return(&domain.ClosingRecord{
		ClosingID:  closingID,
		CompanyID:  companyID,
		FiscalYear: "2024-2025",
		Status:     domain.ClosingCompleted,
	}, nil).Once()
	closingRepo.On("ReverseClosing", mock.Anything, closingID, "cfo", mock.AnythingOfType("time.Time")).Return(nil).Once()
	auditSvc.On("Append", mock.Anything, mock.MatchedBy(func(params dto.AuditAppendParams) bool {
		return params.Action == domain.AuditReverse
	})).Return().Once()

	err := svc.ReverseClosing(ctx, companyID, "2024-2025", "cfo")

	require.NoError(t, err)
	closingRepo.AssertExpectations(t)
}

func TestReverseClosing_AlreadyReversed(t *testing.T) {
	closingRepo, auditSvc, ctx := newClosingFixture()
	svc := services.NewClosingService(closingRepo, auditSvc)
	companyID := uuid.NewString()

	closingRepo.On("FindClosing", mock.Anything, companyID, "2024-2025").Return(&domain.ClosingRecord{
		ClosingID:  uuid.NewString(),
		CompanyID:  companyID,
		FiscalYear: "2024-2025",
		Status:     domain.ClosingReversed,
	}, nil).Once()

	err := svc.ReverseClosing(ctx, companyID, "2024-2025", "cfo")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestIsPeriodLocked_NoClosingMeansUnlocked(t *testing.T) {
	closingRepo, auditSvc, ctx := newClosingFixture()
	svc := services.NewClosingService(closingRepo, auditSvc)
	companyID := uuid.NewString()

	closingRepo.On("IsPeriodLocked", mock.Anything, companyID, "2025-2026").Return(false, apperrors.ErrNotFound).Once()

	locked, err := svc.IsPeriodLocked(ctx, companyID, "2025-2026")

	require.NoError(t, err)
	assert.False(t, locked)
}
