package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hroffice/gl_backend/internal/core/domain"
	portsrepo "github.com/hroffice/gl_backend/internal/core/ports/repositories"
	portssvc "github.com/hroffice/gl_backend/internal/core/ports/services"
	"github.com/hroffice/gl_backend/internal/dto"
	"github.com/hroffice/gl_backend/internal/middleware"
)

type costCenterService struct {
	costCenterRepo portsrepo.CostCenterRepositoryFacade
	auditSvc       portssvc.AuditSvcFacade
}

// NewCostCenterService creates a new cost-center registry service.
func NewCostCenterService(costCenterRepo portsrepo.CostCenterRepositoryFacade, auditSvc portssvc.AuditSvcFacade) portssvc.CostCenterSvcFacade {
	return &costCenterService{costCenterRepo: costCenterRepo, auditSvc: auditSvc}
}

var _ portssvc.CostCenterSvcFacade = (*costCenterService)(nil)

func (s *costCenterService) CreateCostCenter(ctx context.Context, companyID string, req dto.CreateCostCenterRequest, creatorUserID string) (*domain.CostCenter, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	costCenter := domain.CostCenter{
		CostCenterID: uuid.NewString(),
		CompanyID:    companyID,
		Code:         req.Code,
		Name:         req.Name,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.costCenterRepo.SaveCostCenter(ctx, costCenter); err != nil {
		logger.Error("Failed to save cost center", slog.String("error", err.Error()), slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save cost center: %w", err)
	}

	s.auditSvc.Append(ctx, dto.AuditAppendParams{
		CompanyID:    companyID,
		Action:       domain.AuditCreate,
		Module:       "cost_centers",
		DocumentType: "cost_center",
		DocumentID:   costCenter.CostCenterID,
		Actor:        creatorUserID,
		After:        costCenter,
	})

	logger.Info("Cost center created", slog.String("cost_center_id", costCenter.CostCenterID), slog.String("code", req.Code))
	return &costCenter, nil
}

func (s *costCenterService) GetCostCenterByID(ctx context.Context, companyID, costCenterID string) (*domain.CostCenter, error) {
	costCenter, err := s.costCenterRepo.FindCostCenterByID(ctx, companyID, costCenterID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cost center %s: %w", costCenterID, err)
	}
	return costCenter, nil
}

func (s *costCenterService) ListCostCenters(ctx context.Context, companyID string, params dto.ListCostCentersParams) (*dto.ListCostCentersResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	costCenters, nextToken, err := s.costCenterRepo.ListCostCenters(ctx, companyID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list cost centers: %w", err)
	}
	resp := &dto.ListCostCentersResponse{NextToken: nextToken}
	for i := range costCenters {
		resp.CostCenters = append(resp.CostCenters, dto.ToCostCenterResponse(&costCenters[i]))
	}
	return resp, nil
}
