package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hroffice/gl_backend/internal/apperrors"
	"github.com/hroffice/gl_backend/internal/core/domain"
	portsrepo "github.com/hroffice/gl_backend/internal/core/ports/repositories"
	portssvc "github.com/hroffice/gl_backend/internal/core/ports/services"
	"github.com/hroffice/gl_backend/internal/dto"
	"github.com/hroffice/gl_backend/internal/middleware"
)

type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	auditSvc    portssvc.AuditSvcFacade
}

// NewAccountService creates a new chart-of-accounts service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, auditSvc portssvc.AuditSvcFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo, auditSvc: auditSvc}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount registers a new account. The normal balance defaults from the
// account type when not supplied; the opening balance is always zero, balances
// change only through posted journal entries.
func (s *accountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	normalBalance := req.NormalBalance
	if normalBalance == "" {
		normalBalance = domain.DefaultNormalBalance(req.AccountType)
	}

	if _, err := s.accountRepo.FindAccountByCode(ctx, companyID, req.AccountCode); err == nil {
		return nil, fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, req.AccountCode)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check account code: %w", err)
	}

	if req.ParentCode != "" {
		parent, err := s.accountRepo.FindAccountByCode(ctx, companyID, req.ParentCode)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %s", apperrors.ErrUnknownAccount, req.ParentCode)
			}
			return nil, fmt.Errorf("failed to check parent account: %w", err)
		}
		if parent.AccountType != req.AccountType {
			return nil, fmt.Errorf("%w: parent account %s has type %s, child declares %s",
				apperrors.ErrValidation, req.ParentCode, parent.AccountType, req.AccountType)
		}
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:     uuid.NewString(),
		CompanyID:     companyID,
		AccountCode:   req.AccountCode,
		Name:          req.Name,
		AccountType:   req.AccountType,
		NormalBalance: normalBalance,
		ParentCode:    req.ParentCode,
		Description:   req.Description,
		IsActive:      true,
		Balance:       decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("account_code", req.AccountCode))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.auditSvc.Append(ctx, dto.AuditAppendParams{
		CompanyID:    companyID,
		Action:       domain.AuditCreate,
		Module:       "accounts",
		DocumentType: "account",
		DocumentID:   account.AccountID,
		Actor:        creatorUserID,
		After:        account,
	})

	logger.Info("Account created", slog.String("account_code", req.AccountCode), slog.String("account_type", string(req.AccountType)))
	return &account, nil
}

// GetAccountByCode retrieves a single account.
func (s *accountService) GetAccountByCode(ctx context.Context, companyID, accountCode string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, companyID, accountCode)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountCode, err)
	}
	return account, nil
}

// GetAccountsByCodes retrieves accounts keyed by code. Missing codes are
// simply absent from the map; the caller decides whether that is an error.
func (s *accountService) GetAccountsByCodes(ctx context.Context, companyID string, accountCodes []string) (map[string]domain.Account, error) {
	return s.accountRepo.FindAccountsByCodes(ctx, companyID, accountCodes)
}

// ListAccounts retrieves a paginated account listing.
func (s *accountService) ListAccounts(ctx context.Context, companyID string, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	accounts, nextToken, err := s.accountRepo.ListAccounts(ctx, companyID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	resp := &dto.ListAccountsResponse{NextToken: nextToken}
	for i := range accounts {
		resp.Accounts = append(resp.Accounts, dto.ToAccountResponse(&accounts[i]))
	}
	return resp, nil
}

// DeactivateAccount marks an account inactive so it rejects new journal lines.
// Accounts are never deleted; posted history must stay reconstructable.
func (s *accountService) DeactivateAccount(ctx context.Context, companyID, accountCode, actor string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByCode(ctx, companyID, accountCode)
	if err != nil {
		return fmt.Errorf("failed to find account %s: %w", accountCode, err)
	}
	if !account.IsActive {
		return fmt.Errorf("%w: account %s is already inactive", apperrors.ErrInvalidState, accountCode)
	}

	now := time.Now().UTC()
	if err := s.accountRepo.DeactivateAccount(ctx, companyID, accountCode, actor, now); err != nil {
		logger.Error("Failed to deactivate account", slog.String("error", err.Error()), slog.String("account_code", accountCode))
		return fmt.Errorf("failed to deactivate account: %w", err)
	}

	s.auditSvc.Append(ctx, dto.AuditAppendParams{
		CompanyID:    companyID,
		Action:       domain.AuditUpdate,
		Module:       "accounts",
		DocumentType: "account",
		DocumentID:   account.AccountID,
		Actor:        actor,
		Before:       map[string]any{"isActive": true},
		After:        map[string]any{"isActive": false},
	})

	logger.Info("Account deactivated", slog.String("account_code", accountCode))
	return nil
}
