package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hroffice/gl_backend/internal/apperrors"
	"github.com/hroffice/gl_backend/internal/core/domain"
	portsrepo "github.com/hroffice/gl_backend/internal/core/ports/repositories"
	portssvc "github.com/hroffice/gl_backend/internal/core/ports/services"
	"github.com/hroffice/gl_backend/internal/dto"
	"github.com/hroffice/gl_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// budgetTransitions lists the permitted budget lifecycle moves.
var budgetTransitions = map[domain.BudgetStatus]domain.BudgetStatus{
	domain.BudgetDraft:     domain.BudgetSubmitted,
	domain.BudgetSubmitted: domain.BudgetApproved,
	domain.BudgetApproved:  domain.BudgetActive,
	domain.BudgetActive:    domain.BudgetClosed,
}

// budgetService implements the budget controller: lifecycle administration and
// the commit/utilize/release encumbrance operations.
type budgetService struct {
	budgetRepo  portsrepo.BudgetRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	auditSvc    portssvc.AuditSvcFacade
}

// NewBudgetService creates a new budget controller service.
func NewBudgetService(budgetRepo portsrepo.BudgetRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, auditSvc portssvc.AuditSvcFacade) portssvc.BudgetSvcFacade {
	return &budgetService{
		budgetRepo:  budgetRepo,
		accountRepo: accountRepo,
		auditSvc:    auditSvc,
	}
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

// CreateBudget validates line accounts and persists a new DRAFT budget with
// derived totals computed.
func (s *budgetService) CreateBudget(ctx context.Context, companyID string, req dto.CreateBudgetRequest, creatorUserID string) (*domain.Budget, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accountCodes := make([]string, 0, len(req.Lines))
	for _, line := range req.Lines {
		accountCodes = append(accountCodes, line.AccountCode)
	}
	accountsMap, err := s.accountRepo.FindAccountsByCodes(ctx, companyID, uniqueStrings(accountCodes))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts for budget creation: %w", err)
	}

	now := time.Now().UTC()
	budget := domain.Budget{
		BudgetID:   uuid.NewString(),
		CompanyID:  companyID,
		FiscalYear: req.FiscalYear,
		BudgetType: req.BudgetType,
		Status:     domain.BudgetDraft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	seen := make(map[string]bool)
	for _, lineReq := range req.Lines {
		account, found := accountsMap[lineReq.AccountCode]
		if !found {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownAccount, lineReq.AccountCode)
		}
		if !account.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrUnknownAccount, lineReq.AccountCode)
		}
		dupKey := lineReq.AccountCode + "|" + lineReq.CostCenterID
		if seen[dupKey] {
			return nil, fmt.Errorf("%w: duplicate budget line for account %s", apperrors.ErrValidation, lineReq.AccountCode)
		}
		seen[dupKey] = true

		line := domain.BudgetLine{
			LineID:              uuid.NewString(),
			BudgetID:            budget.BudgetID,
			AccountCode:         lineReq.AccountCode,
			CostCenterID:        lineReq.CostCenterID,
			OriginalBudget:      lineReq.OriginalBudget,
			RevisedBudget:       lineReq.RevisedBudget,
			SupplementaryBudget: lineReq.SupplementaryBudget,
			SurrenderedAmount:   lineReq.SurrenderedAmount,
			ReappropriatedIn:    lineReq.ReappropriatedIn,
			ReappropriatedOut:   lineReq.ReappropriatedOut,
			AlertThreshold:      lineReq.AlertThreshold,
			BlockThreshold:      lineReq.BlockThreshold,
			AllowOverride:       lineReq.AllowOverride,
		}
		if line.AlertThreshold.IsZero() {
			line.AlertThreshold = decimal.NewFromInt(80)
		}
		if line.BlockThreshold.IsZero() {
			line.BlockThreshold = decimal.NewFromInt(100)
		}
		line.RecomputeDerived()
		if line.TotalBudget.IsNegative() {
			return nil, fmt.Errorf("%w: total budget is negative for account %s", apperrors.ErrValidation, lineReq.AccountCode)
		}
		budget.Lines = append(budget.Lines, line)
	}

	if err := s.budgetRepo.SaveBudget(ctx, budget); err != nil {
		logger.Error("Failed to save budget", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to save budget: %w", err)
	}

	s.auditSvc.Append(ctx, dto.AuditAppendParams{
		CompanyID:    companyID,
		Action:       domain.AuditCreate,
		Module:       "budget",
		DocumentType: "budget",
		DocumentID:   budget.BudgetID,
		Actor:        creatorUserID,
		After:        budget,
	})

	logger.Info("Budget created", slog.String("budget_id", budget.BudgetID), slog.String("fiscal_year", budget.FiscalYear))
	return &budget, nil
}

func (s *budgetService) transition(ctx context.Context, companyID, budgetID, actor string, target domain.BudgetStatus, action domain.AuditAction) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	budget, err := s.findCompanyBudget(ctx, companyID, budgetID)
	if err != nil {
		return err
	}

	if budgetTransitions[budget.Status] != target {
		return fmt.Errorf("%w: budget status is %s, cannot move to %s", apperrors.ErrInvalidState, budget.Status, target)
	}

	now := time.Now().UTC()
	if target == domain.BudgetActive {
		// Activation closes any previously active budget for the fiscal year,
		// keeping at most one ACTIVE budget per (company, fiscalYear).
		if err := s.budgetRepo.ActivateBudget(ctx, budgetID, companyID, budget.FiscalYear, actor, now); err != nil {
			logger.Error("Failed to activate budget", slog.String("error", err.Error()), slog.String("budget_id", budgetID))
			return fmt.Errorf("failed to activate budget: %w", err)
		}
	} else {
		if err := s.budgetRepo.UpdateBudgetStatus(ctx, budgetID, target, actor, now); err != nil {
			logger.Error("Failed to update budget status", slog.String("error", err.Error()), slog.String("budget_id", budgetID))
			return fmt.Errorf("failed to update budget status: %w", err)
		}
	}

	s.auditSvc.Append(ctx, dto.AuditAppendParams{
		CompanyID:    companyID,
		Action:       action,
		Module:       "budget",
		DocumentType: "budget",
		DocumentID:   budgetID,
		Actor:        actor,
		Before:       map[string]any{"status": budget.Status},
		After:        map[string]any{"status": target},
	})

	logger.Info("Budget status changed", slog.String("budget_id", budgetID), slog.String("status", string(target)))
	return nil
}

// SubmitBudget moves DRAFT -> SUBMITTED.
func (s *budgetService) SubmitBudget(ctx context.Context, companyID, budgetID, actor string) error {
	return s.transition(ctx, companyID, budgetID, actor, domain.BudgetSubmitted, domain.AuditUpdate)
}

// ApproveBudget moves SUBMITTED -> APPROVED.
func (s *budgetService) ApproveBudget(ctx context.Context, companyID, budgetID, actor string) error {
	return s.transition(ctx, companyID, budgetID, actor, domain.BudgetApproved, domain.AuditApprove)
}

// ActivateBudget moves APPROVED -> ACTIVE, closing the prior active budget.
func (s *budgetService) ActivateBudget(ctx context.Context, companyID, budgetID, actor string) error {
	return s.transition(ctx, companyID, budgetID, actor, domain.BudgetActive, domain.AuditApprove)
}

// CloseBudget moves ACTIVE -> CLOSED.
func (s *budgetService) CloseBudget(ctx context.Context, companyID, budgetID, actor string) error {
	return s.transition(ctx, companyID, budgetID, actor, domain.BudgetClosed, domain.AuditUpdate)
}

// GetBudgetByID retrieves a budget with its lines.
func (s *budgetService) GetBudgetByID(ctx context.Context, companyID, budgetID string) (*domain.Budget, error) {
	return s.findCompanyBudget(ctx, companyID, budgetID)
}

func (s *budgetService) findCompanyBudget(ctx context.Context, companyID, budgetID string) (*domain.Budget, error) {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to find budget %s: %w", budgetID, err)
	}
	if budget.CompanyID != companyID {
		// Obscure existence of other companies' budgets.
		return nil, apperrors.ErrNotFound
	}
	return budget, nil
}

// GetActiveBudget retrieves the single ACTIVE budget for a fiscal year.
func (s *budgetService) GetActiveBudget(ctx context.Context, companyID, fiscalYear string) (*domain.Budget, error) {
	if !fiscalYearPattern.MatchString(fiscalYear) {
		return nil, fmt.Errorf("%w: invalid fiscal year '%s'", apperrors.ErrValidation, fiscalYear)
	}
	budget, err := s.budgetRepo.FindActiveBudget(ctx, companyID, fiscalYear)
	if err != nil {
		return nil, fmt.Errorf("failed to find active budget for %s: %w", fiscalYear, err)
	}
	return budget, nil
}

// ListBudgets retrieves a paginated budget listing.
func (s *budgetService) ListBudgets(ctx context.Context, companyID string, params dto.ListBudgetsParams) (*dto.ListBudgetsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	budgets, nextToken, err := s.budgetRepo.ListBudgets(ctx, companyID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	resp := &dto.ListBudgetsResponse{NextToken: nextToken}
	for i := range budgets {
		resp.Budgets = append(resp.Budgets, dto.ToBudgetResponse(&budgets[i]))
	}
	return resp, nil
}

func (s *budgetService) lineKey(companyID string, scope dto.BudgetScope) portsrepo.BudgetLineKey {
	return portsrepo.BudgetLineKey{
		CompanyID:    companyID,
		FiscalYear:   scope.FiscalYear,
		AccountCode:  scope.AccountCode,
		CostCenterID: scope.CostCenterID,
	}
}

// CheckAvailability evaluates the scoped line's thresholds for an additional amount.
func (s *budgetService) CheckAvailability(ctx context.Context, companyID string, req dto.AvailabilityRequest) (*domain.AvailabilityResult, error) {
	line, err := s.budgetRepo.FindActiveLine(ctx, s.lineKey(companyID, req.BudgetScope))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no active budget line for account %s in %s", apperrors.ErrNotFound, req.AccountCode, req.FiscalYear)
		}
		return nil, fmt.Errorf("failed to find budget line: %w", err)
	}
	result := line.CheckAvailability(req.Amount)
	return &result, nil
}

// guardBlock refuses positive consumption past the block threshold on lines
// that do not allow override. Negative deltas (reversals) are never blocked.
func (s *budgetService) guardBlock(ctx context.Context, key portsrepo.BudgetLineKey, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return nil
	}
	line, err := s.budgetRepo.FindActiveLine(ctx, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: no active budget line for account %s in %s", apperrors.ErrNotFound, key.AccountCode, key.FiscalYear)
		}
		return fmt.Errorf("failed to find budget line: %w", err)
	}
	if result := line.CheckAvailability(amount); result.Status == domain.AvailabilityBlocked {
		return fmt.Errorf("%w: %s", apperrors.ErrBudgetBlocked, result.Message)
	}
	return nil
}

// Commit reserves budget for an approved but unrealized expense (encumbrance).
func (s *budgetService) Commit(ctx context.Context, companyID string, req dto.EncumbranceRequest, actor string) (*domain.BudgetLine, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	key := s.lineKey(companyID, req.BudgetScope)

	if err := s.guardBlock(ctx, key, req.Amount); err != nil {
		return nil, err
	}

	line, err := s.budgetRepo.ApplyCommit(ctx, key, req.Amount, time.Now().UTC())
	if err != nil {
		logger.Error("Failed to commit budget", slog.String("error", err.Error()), slog.String("account_code", key.AccountCode))
		return nil, fmt.Errorf("failed to commit budget: %w", err)
	}

	s.auditSvc.Append(ctx, dto.AuditAppendParams{
		CompanyID:    companyID,
		Action:       domain.AuditUpdate,
		Module:       "budget",
		DocumentType: req.DocumentType,
		DocumentID:   req.DocumentID,
		Actor:        actor,
		After:        line,
		Impact:       domain.FinancialImpact{Net: req.Amount},
	})

	logger.Info("Budget committed",
		slog.String("account_code", key.AccountCode),
		slog.String("amount", req.Amount.String()),
		slog.String("available", line.Available.String()))
	return line, nil
}

// Utilize records realized spend; with ReleaseCommitted the same amount drains
// from the committed pool, converting the encumbrance into spend.
func (s *budgetService) Utilize(ctx context.Context, companyID string, req dto.UtilizationRequest, actor string) (*domain.BudgetLine, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	key := s.lineKey(companyID, req.BudgetScope)

	if err := s.guardBlock(ctx, key, req.Amount); err != nil {
		return nil, err
	}

	// Committed is only drained by realized spend; a negative reversal must
	// never grow the encumbrance pool.
	releaseCommitted := req.ReleaseCommitted && req.Amount.IsPositive()

	line, err := s.budgetRepo.ApplyUtilize(ctx, key, req.Amount, releaseCommitted, time.Now().UTC())
	if err != nil {
		logger.Error("Failed to utilize budget", slog.String("error", err.Error()), slog.String("account_code", key.AccountCode))
		return nil, fmt.Errorf("failed to utilize budget: %w", err)
	}

	s.auditSvc.Append(ctx, dto.AuditAppendParams{
		CompanyID:    companyID,
		Action:       domain.AuditUpdate,
		Module:       "budget",
		DocumentType: req.DocumentType,
		DocumentID:   req.DocumentID,
		Actor:        actor,
		After:        line,
		Impact:       domain.FinancialImpact{Net: req.Amount},
	})

	logger.Info("Budget utilized",
		slog.String("account_code", key.AccountCode),
		slog.String("amount", req.Amount.String()),
		slog.String("available", line.Available.String()))
	return line, nil
}

// Release returns committed budget for an encumbrance cancelled before
// realization; utilized is untouched.
func (s *budgetService) Release(ctx context.Context, companyID string, req dto.EncumbranceRequest, actor string) (*domain.BudgetLine, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	key := s.lineKey(companyID, req.BudgetScope)

	line, err := s.budgetRepo.ApplyRelease(ctx, key, req.Amount, time.Now().UTC())
	if err != nil {
		logger.Error("Failed to release budget", slog.String("error", err.Error()), slog.String("account_code", key.AccountCode))
		return nil, fmt.Errorf("failed to release budget: %w", err)
	}

	s.auditSvc.Append(ctx, dto.AuditAppendParams{
		CompanyID:    companyID,
		Action:       domain.AuditUpdate,
		Module:       "budget",
		DocumentType: req.DocumentType,
		DocumentID:   req.DocumentID,
		Actor:        actor,
		After:        line,
		Impact:       domain.FinancialImpact{Net: req.Amount.Neg()},
	})

	logger.Info("Budget released",
		slog.String("account_code", key.AccountCode),
		slog.String("amount", req.Amount.String()))
	return line, nil
}
