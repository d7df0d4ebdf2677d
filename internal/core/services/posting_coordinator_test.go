package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hroffice/gl_backend/internal/apperrors"
	"github.com/hroffice/gl_backend/internal/core/domain"
	"github.com/hroffice/gl_backend/internal/core/services"
	"github.com/hroffice/gl_backend/internal/dto"
)

func newCoordinatorFixture() (*services.PostingCoordinator, *MockJournalRepository, *MockBudgetService, *MockAuditService) {
	journalRepo := new(MockJournalRepository)
	budgetSvc := new(MockBudgetService)
	auditSvc := new(MockAuditService)
	return services.NewPostingCoordinator(journalRepo, budgetSvc, auditSvc), journalRepo, budgetSvc, auditSvc
}

func coordinatorEntry(companyID string, lines []domain.JournalLine) domain.JournalEntry {
	entryID := uuid.NewString()
	for i := range lines {
		lines[i].EntryID = entryID
	}
	entryDate := time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)
	return domain.JournalEntry{
		EntryID:        entryID,
		CompanyID:      companyID,
		EntryDate:      entryDate,
		FiscalYear:     domain.FiscalYearOf(entryDate),
		Period:         domain.PeriodOf(entryDate),
		Status:         domain.EntryPosted,
		SourceDocument: domain.SourceDocument{Type: domain.SourceManual},
		Lines:          lines,
	}
}

func TestResolveOwnership(t *testing.T) {
	coordinator, _, _, _ := newCoordinatorFixture()

	entry := coordinatorEntry(uuid.NewString(), nil)
	assert.Equal(t, domain.OwnedByJournal, coordinator.ResolveOwnership(&entry, false))
	assert.Equal(t, domain.OwnedBySource, coordinator.ResolveOwnership(&entry, true))

	entry.SourceDocument.BudgetUpdatedExternally = true
	assert.Equal(t, domain.OwnedBySource, coordinator.ResolveOwnership(&entry, false))
}

func TestBudgetUtilizations_AggregatesByLineKey(t *testing.T) {
	coordinator, _, _, _ := newCoordinatorFixture()
	companyID := uuid.NewString()
	costCenterA := uuid.NewString()
	costCenterB := uuid.NewString()

	expense := domain.Account{AccountCode: "5001", AccountType: domain.Expense, NormalBalance: domain.NormalDebit, IsActive: true}
	cash := domain.Account{AccountCode: "1001", AccountType: domain.Asset, NormalBalance: domain.NormalDebit, IsActive: true}
	accounts := map[string]domain.Account{"5001": expense, "1001": cash}

	entry := coordinatorEntry(companyID, []domain.JournalLine{
		{AccountCode: "5001", CostCenterID: costCenterA, Debit: decimal.NewFromInt(60)},
		{AccountCode: "5001", CostCenterID: costCenterA, Debit: decimal.NewFromInt(40)},
		{AccountCode: "5001", CostCenterID: costCenterB, Debit: decimal.NewFromInt(25)},
		// Expense line without a cost center never touches the budget.
		{AccountCode: "5001", Debit: decimal.NewFromInt(10)},
		// Non-expense lines never touch the budget.
		{AccountCode: "1001", CostCenterID: costCenterA, Credit: decimal.NewFromInt(135)},
	})

	utilizations := coordinator.BudgetUtilizations(&entry, accounts)

	require.Len(t, utilizations, 2)
	assert.Equal(t, costCenterA, utilizations[0].Scope.CostCenterID)
	assert.True(t, utilizations[0].Amount.Equal(decimal.NewFromInt(100)))
	assert.True(t, utilizations[0].ReleaseCommitted)
	assert.Equal(t, costCenterB, utilizations[1].Scope.CostCenterID)
	assert.True(t, utilizations[1].Amount.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, entry.FiscalYear, utilizations[0].Scope.FiscalYear)
}

func TestBudgetUtilizations_NetZeroSkipped(t *testing.T) {
	coordinator, _, _, _ := newCoordinatorFixture()
	costCenter := uuid.NewString()
	expense := domain.Account{AccountCode: "5001", AccountType: domain.Expense, NormalBalance: domain.NormalDebit, IsActive: true}

	entry := coordinatorEntry(uuid.NewString(), []domain.JournalLine{
		{AccountCode: "5001", CostCenterID: costCenter, Debit: decimal.NewFromInt(50)},
		{AccountCode: "5001", CostCenterID: costCenter, Credit: decimal.NewFromInt(50)},
	})

	utilizations := coordinator.BudgetUtilizations(&entry, map[string]domain.Account{"5001": expense})
	assert.Empty(t, utilizations)
}

func TestExecutePosting_ResumesAfterPartialFailure(t *testing.T) {
	coordinator, journalRepo, budgetSvc, auditSvc := newCoordinatorFixture()
	companyID := uuid.NewString()
	costCenter := uuid.NewString()
	ctx := context.Background()

	entry := coordinatorEntry(companyID, []domain.JournalLine{
		{AccountCode: "5001", CostCenterID: costCenter, Debit: decimal.NewFromInt(100)},
		{AccountCode: "1001", Credit: decimal.NewFromInt(100)},
	})
	entry.EntryNumber = "JV-2025-2026-000009"

	// A prior attempt already wrote the entry but crashed before the budget step.
	journalRepo.On("FindPostingRunByEntry", mock.Anything, entry.EntryID).Return(&domain.PostingRun{
		RunID:          uuid.NewString(),
		EntryID:        entry.EntryID,
		CompanyID:      companyID,
		Ownership:      domain.OwnedByJournal,
		CompletedSteps: []domain.PostingStep{domain.StepWriteEntry},
		Status:         domain.RunFailed,
		StartedAt:      time.Now().Add(-time.Minute),
	}, nil).Once()
	journalRepo.On("UpdatePostingRun", mock.Anything, mock.AnythingOfType("domain.PostingRun")).Return(nil)

	budgetSvc.On("Utilize", mock.Anything, companyID, mock.AnythingOfType("dto.UtilizationRequest"), "retrier").
		Return(&domain.BudgetLine{}, nil).Once()
	auditSvc.On("Append", mock.Anything, mock.AnythingOfType("dto.AuditAppendParams")).Return().Once()

	entryNumber, err := coordinator.ExecutePosting(ctx, services.PostingPlan{
		Entry:          entry,
		BalanceChanges: map[string]decimal.Decimal{},
		Ownership:      domain.OwnedByJournal,
		Utilizations: []services.BudgetUtilization{{
			Scope:            dto.BudgetScope{FiscalYear: entry.FiscalYear, AccountCode: "5001", CostCenterID: costCenter},
			Amount:           decimal.NewFromInt(100),
			ReleaseCommitted: true,
		}},
		Actor: "retrier",
	})

	require.NoError(t, err)
	assert.Equal(t, "JV-2025-2026-000009", entryNumber)
	// The write step must not run twice.
	journalRepo.AssertNotCalled(t, "PostEntry", mock.Anything, mock.Anything, mock.Anything)
	budgetSvc.AssertExpectations(t)
	auditSvc.AssertExpectations(t)
}

func TestExecutePosting_CompletedRunRejected(t *testing.T) {
	coordinator, journalRepo, _, _ := newCoordinatorFixture()
	ctx := context.Background()

	entry := coordinatorEntry(uuid.NewString(), nil)
	journalRepo.On("FindPostingRunByEntry", mock.Anything, entry.EntryID).Return(&domain.PostingRun{
		EntryID: entry.EntryID,
		Status:  domain.RunCompleted,
	}, nil).Once()

	_, err := coordinator.ExecutePosting(ctx, services.PostingPlan{Entry: entry})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already completed")
}

func TestExecutePosting_RunLookupFailureAborts(t *testing.T) {
	coordinator, journalRepo, _, _ := newCoordinatorFixture()
	ctx := context.Background()

	entry := coordinatorEntry(uuid.NewString(), nil)
	lookupErr := errors.New("connection reset")
	journalRepo.On("FindPostingRunByEntry", mock.Anything, entry.EntryID).Return(nil, lookupErr).Once()

	_, err := coordinator.ExecutePosting(ctx, services.PostingPlan{Entry: entry})

	require.Error(t, err)
	assert.ErrorIs(t, err, lookupErr)
	// A pending run may exist behind the failed lookup; no step may run blind.
	journalRepo.AssertNotCalled(t, "PostEntry", mock.Anything, mock.Anything, mock.Anything)
	journalRepo.AssertNotCalled(t, "SavePostingRun", mock.Anything, mock.Anything)
}

func TestExecutePosting_BudgetFailureMarksRunFailed(t *testing.T) {
	coordinator, journalRepo, budgetSvc, _ := newCoordinatorFixture()
	companyID := uuid.NewString()
	costCenter := uuid.NewString()
	ctx := context.Background()

	entry := coordinatorEntry(companyID, []domain.JournalLine{
		{AccountCode: "5001", CostCenterID: costCenter, Debit: decimal.NewFromInt(100)},
		{AccountCode: "1001", Credit: decimal.NewFromInt(100)},
	})

	journalRepo.On("FindPostingRunByEntry", mock.Anything, entry.EntryID).Return(nil, apperrors.ErrNotFound).Once()
	journalRepo.On("SavePostingRun", mock.Anything, mock.AnythingOfType("domain.PostingRun")).Return(nil)
	journalRepo.On("PostEntry", mock.Anything, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("map[string]decimal.Decimal")).
		Return("JV-2025-2026-000010", nil).Once()

	var failedRun domain.PostingRun
	journalRepo.On("UpdatePostingRun", mock.Anything, mock.AnythingOfType("domain.PostingRun")).
		Run(func(args mock.Arguments) {
			failedRun = args.Get(1).(domain.PostingRun)
		}).Return(nil)

	budgetErr := errors.New("budget line missing")
	budgetSvc.On("Utilize", mock.Anything, companyID, mock.AnythingOfType("dto.UtilizationRequest"), "actor").
		Return(nil, budgetErr).Once()

	_, err := coordinator.ExecutePosting(ctx, services.PostingPlan{
		Entry:     entry,
		Ownership: domain.OwnedByJournal,
		Utilizations: []services.BudgetUtilization{{
			Scope:  dto.BudgetScope{FiscalYear: entry.FiscalYear, AccountCode: "5001", CostCenterID: costCenter},
			Amount: decimal.NewFromInt(100),
		}},
		Actor: "actor",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, budgetErr)
	assert.Equal(t, domain.RunFailed, failedRun.Status)
	assert.Contains(t, failedRun.CompletedSteps, domain.StepWriteEntry)
	assert.NotContains(t, failedRun.CompletedSteps, domain.StepUtilizeBudget)
}
