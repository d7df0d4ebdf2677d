package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/hroffice/gl_backend/internal/core/domain"
	portsrepo "github.com/hroffice/gl_backend/internal/core/ports/repositories"
	portssvc "github.com/hroffice/gl_backend/internal/core/ports/services"
	"github.com/hroffice/gl_backend/internal/dto"
)

// --- Mock JournalRepository ---

type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListEntries(ctx context.Context, companyID string, limit int, nextToken *string, includeReversals bool) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, companyID, limit, nextToken, includeReversals)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedToken = &tokenVal
	}
	return args.Get(0).([]domain.JournalEntry), returnedToken, args.Error(2)
}

func (m *MockJournalRepository) ListEntriesByAccount(ctx context.Context, companyID string, accountCode string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, companyID, accountCode, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedToken = &tokenVal
	}
	return args.Get(0).([]domain.JournalEntry), returnedToken, args.Error(2)
}

func (m *MockJournalRepository) SaveDraftEntry(ctx context.Context, entry domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) UpdateEntryStatus(ctx context.Context, entryID string, status domain.EntryStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, entryID, status, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockJournalRepository) PostEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal) (string, error) {
	args := m.Called(ctx, entry, balanceChanges)
	return args.String(0), args.Error(1)
}

func (m *MockJournalRepository) ReverseEntry(ctx context.Context, original domain.JournalEntry, reversing domain.JournalEntry, balanceChanges map[string]decimal.Decimal) (string, error) {
	args := m.Called(ctx, original, reversing, balanceChanges)
	return args.String(0), args.Error(1)
}

func (m *MockJournalRepository) SavePostingRun(ctx context.Context, run domain.PostingRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockJournalRepository) FindPostingRunByEntry(ctx context.Context, entryID string) (*domain.PostingRun, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostingRun), args.Error(1)
}

func (m *MockJournalRepository) UpdatePostingRun(ctx context.Context, run domain.PostingRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, companyID string, accountCode string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByCodes(ctx context.Context, companyID string, accountCodes []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, companyID, accountCodes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Account, *string, error) {
	args := m.Called(ctx, companyID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedToken = &tokenVal
	}
	return args.Get(0).([]domain.Account), returnedToken, args.Error(2)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, companyID string, accountCode string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, companyID, accountCode, updatedBy, updatedAt)
	return args.Error(0)
}

// --- Mock BudgetRepository ---

type MockBudgetRepository struct {
	mock.Mock
}

var _ portsrepo.BudgetRepositoryFacade = (*MockBudgetRepository)(nil)

func (m *MockBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	args := m.Called(ctx, budgetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) FindActiveBudget(ctx context.Context, companyID string, fiscalYear string) (*domain.Budget, error) {
	args := m.Called(ctx, companyID, fiscalYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) FindActiveLine(ctx context.Context, key portsrepo.BudgetLineKey) (*domain.BudgetLine, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetLine), args.Error(1)
}

func (m *MockBudgetRepository) ListBudgets(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Budget, *string, error) {
	args := m.Called(ctx, companyID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedToken = &tokenVal
	}
	return args.Get(0).([]domain.Budget), returnedToken, args.Error(2)
}

func (m *MockBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	args := m.Called(ctx, budget)
	return args.Error(0)
}

func (m *MockBudgetRepository) UpdateBudgetStatus(ctx context.Context, budgetID string, status domain.BudgetStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, budgetID, status, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockBudgetRepository) ActivateBudget(ctx context.Context, budgetID string, companyID string, fiscalYear string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, budgetID, companyID, fiscalYear, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockBudgetRepository) ApplyCommit(ctx context.Context, key portsrepo.BudgetLineKey, delta decimal.Decimal, updatedAt time.Time) (*domain.BudgetLine, error) {
	args := m.Called(ctx, key, delta, updatedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetLine), args.Error(1)
}

func (m *MockBudgetRepository) ApplyUtilize(ctx context.Context, key portsrepo.BudgetLineKey, delta decimal.Decimal, releaseCommitted bool, updatedAt time.Time) (*domain.BudgetLine, error) {
	args := m.Called(ctx, key, delta, releaseCommitted, updatedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetLine), args.Error(1)
}

func (m *MockBudgetRepository) ApplyRelease(ctx context.Context, key portsrepo.BudgetLineKey, amount decimal.Decimal, updatedAt time.Time) (*domain.BudgetLine, error) {
	args := m.Called(ctx, key, amount, updatedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetLine), args.Error(1)
}

// --- Mock ClosingRepository ---

type MockClosingRepository struct {
	mock.Mock
}

var _ portsrepo.ClosingRepositoryFacade = (*MockClosingRepository)(nil)

func (m *MockClosingRepository) FindClosing(ctx context.Context, companyID string, fiscalYear string) (*domain.ClosingRecord, error) {
	args := m.Called(ctx, companyID, fiscalYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClosingRecord), args.Error(1)
}

func (m *MockClosingRepository) IsPeriodLocked(ctx context.Context, companyID string, fiscalYear string) (bool, error) {
	args := m.Called(ctx, companyID, fiscalYear)
	return args.Bool(0), args.Error(1)
}

func (m *MockClosingRepository) SaveClosing(ctx context.Context, record domain.ClosingRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockClosingRepository) ReverseClosing(ctx context.Context, closingID string, reversedBy string, reversedAt time.Time) error {
	args := m.Called(ctx, closingID, reversedBy, reversedAt)
	return args.Error(0)
}

// --- Mock AccountService (as used by JournalService) ---

type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByCode(ctx context.Context, companyID string, accountCode string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountsByCodes(ctx context.Context, companyID string, accountCodes []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, companyID, accountCodes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, companyID string, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error) {
	args := m.Called(ctx, companyID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListAccountsResponse), args.Error(1)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, companyID string, accountCode string, actor string) error {
	args := m.Called(ctx, companyID, accountCode, actor)
	return args.Error(0)
}

// --- Mock BudgetService ---

type MockBudgetService struct {
	mock.Mock
}

var _ portssvc.BudgetSvcFacade = (*MockBudgetService)(nil)

func (m *MockBudgetService) CreateBudget(ctx context.Context, companyID string, req dto.CreateBudgetRequest, creatorUserID string) (*domain.Budget, error) {
	args := m.Called(ctx, companyID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetService) SubmitBudget(ctx context.Context, companyID string, budgetID string, actor string) error {
	args := m.Called(ctx, companyID, budgetID, actor)
	return args.Error(0)
}

func (m *MockBudgetService) ApproveBudget(ctx context.Context, companyID string, budgetID string, actor string) error {
	args := m.Called(ctx, companyID, budgetID, actor)
	return args.Error(0)
}

func (m *MockBudgetService) ActivateBudget(ctx context.Context, companyID string, budgetID string, actor string) error {
	args := m.Called(ctx, companyID, budgetID, actor)
	return args.Error(0)
}

func (m *MockBudgetService) CloseBudget(ctx context.Context, companyID string, budgetID string, actor string) error {
	args := m.Called(ctx, companyID, budgetID, actor)
	return args.Error(0)
}

func (m *MockBudgetService) GetBudgetByID(ctx context.Context, companyID string, budgetID string) (*domain.Budget, error) {
	args := m.Called(ctx, companyID, budgetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetService) GetActiveBudget(ctx context.Context, companyID string, fiscalYear string) (*domain.Budget, error) {
	args := m.Called(ctx, companyID, fiscalYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetService) ListBudgets(ctx context.Context, companyID string, params dto.ListBudgetsParams) (*dto.ListBudgetsResponse, error) {
	args := m.Called(ctx, companyID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListBudgetsResponse), args.Error(1)
}

func (m *MockBudgetService) CheckAvailability(ctx context.Context, companyID string, req dto.AvailabilityRequest) (*domain.AvailabilityResult, error) {
	args := m.Called(ctx, companyID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AvailabilityResult), args.Error(1)
}

func (m *MockBudgetService) Commit(ctx context.Context, companyID string, req dto.EncumbranceRequest, actor string) (*domain.BudgetLine, error) {
	args := m.Called(ctx, companyID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetLine), args.Error(1)
}

func (m *MockBudgetService) Utilize(ctx context.Context, companyID string, req dto.UtilizationRequest, actor string) (*domain.BudgetLine, error) {
	args := m.Called(ctx, companyID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetLine), args.Error(1)
}

func (m *MockBudgetService) Release(ctx context.Context, companyID string, req dto.EncumbranceRequest, actor string) (*domain.BudgetLine, error) {
	args := m.Called(ctx, companyID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetLine), args.Error(1)
}

// --- Mock ClosingService ---

type MockClosingService struct {
	mock.Mock
}

var _ portssvc.ClosingSvcFacade = (*MockClosingService)(nil)

func (m *MockClosingService) CloseFiscalYear(ctx context.Context, companyID string, req dto.CreateClosingRequest, actor string) (*domain.ClosingRecord, error) {
	args := m.Called(ctx, companyID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClosingRecord), args.Error(1)
}

func (m *MockClosingService) ReverseClosing(ctx context.Context, companyID string, fiscalYear string, actor string) error {
	args := m.Called(ctx, companyID, fiscalYear, actor)
	return args.Error(0)
}

func (m *MockClosingService) IsPeriodLocked(ctx context.Context, companyID string, fiscalYear string) (bool, error) {
	args := m.Called(ctx, companyID, fiscalYear)
	return args.Bool(0), args.Error(1)
}

func (m *MockClosingService) GetClosing(ctx context.Context, companyID string, fiscalYear string) (*domain.ClosingRecord, error) {
	args := m.Called(ctx, companyID, fiscalYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClosingRecord), args.Error(1)
}

// --- Mock AuditService ---

type MockAuditService struct {
	mock.Mock
}

var _ portssvc.AuditSvcFacade = (*MockAuditService)(nil)

func (m *MockAuditService) Append(ctx context.Context, params dto.AuditAppendParams) {
	m.Called(ctx, params)
}

func (m *MockAuditService) VerifyChain(ctx context.Context, companyID string, params dto.VerifyChainParams) (*domain.ChainVerificationReport, error) {
	args := m.Called(ctx, companyID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChainVerificationReport), args.Error(1)
}

func (m *MockAuditService) ListEntries(ctx context.Context, companyID string, params dto.ListAuditParams) (*dto.ListAuditResponse, error) {
	args := m.Called(ctx, companyID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListAuditResponse), args.Error(1)
}
