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
	portssvc "github.com/hroffice/gl_backend/internal/core/ports/services"
	"github.com/hroffice/gl_backend/internal/dto"
	"github.com/hroffice/gl_backend/internal/middleware"
	"github.com/hroffice/gl_backend/internal/utils/accounting"
)

// journalService implements the journal engine: draft management, the posting
// and reversal state machine, and read access for reporting.
type journalService struct {
	accountSvc  portssvc.AccountSvcFacade
	budgetSvc   portssvc.BudgetSvcFacade
	closingSvc  portssvc.ClosingSvcFacade
	auditSvc    portssvc.AuditSvcFacade
	coordinator *PostingCoordinator
}

// JournalServiceDeps bundles the collaborators of the journal engine.
type JournalServiceDeps struct {
	AccountSvc  portssvc.AccountSvcFacade
	BudgetSvc   portssvc.BudgetSvcFacade
	ClosingSvc  portssvc.ClosingSvcFacade
	AuditSvc    portssvc.AuditSvcFacade
	Coordinator *PostingCoordinator
}

// NewJournalService creates a new journal engine service.
func NewJournalService(deps JournalServiceDeps) portssvc.JournalSvcFacade {
	return &journalService{
		accountSvc:  deps.AccountSvc,
		budgetSvc:   deps.BudgetSvc,
		closingSvc:  deps.ClosingSvc,
		auditSvc:    deps.AuditSvc,
		coordinator: deps.Coordinator,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// fetchActiveAccounts loads and checks every account referenced by the lines.
func (s *journalService) fetchActiveAccounts(ctx context.Context, companyID string, lines []domain.JournalLine) (map[string]domain.Account, error) {
	accountCodes := make([]string, 0, len(lines))
	for _, line := range lines {
		accountCodes = append(accountCodes, line.AccountCode)
	}
	uniqueCodes := uniqueStrings(accountCodes)

	accountsMap, err := s.accountSvc.GetAccountsByCodes(ctx, companyID, uniqueCodes)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, code := range uniqueCodes {
		account, found := accountsMap[code]
		if !found {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownAccount, code)
		}
		if !account.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrUnknownAccount, code)
		}
	}
	return accountsMap, nil
}

// CreateDraftEntry validates and persists a new DRAFT entry. The fiscal year
// and period are derived from the entry date here and never accepted from the
// caller, since every later budget and period-lock lookup hangs off them.
func (s *journalService) CreateDraftEntry(ctx context.Context, companyID string, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Description == "" {
		return nil, fmt.Errorf("%w: entry description is required", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()

	entry := domain.JournalEntry{
		EntryID:     entryID,
		CompanyID:   companyID,
		EntryDate:   req.EntryDate,
		FiscalYear:  domain.FiscalYearOf(req.EntryDate),
		Period:      domain.PeriodOf(req.EntryDate),
		Description: req.Description,
		Status:      domain.EntryDraft,
		SourceDocument: domain.SourceDocument{
			Type: domain.SourceManual,
		},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if req.SourceDocument != nil {
		entry.SourceDocument = domain.SourceDocument{
			Type:                    req.SourceDocument.Type,
			DocumentID:              req.SourceDocument.DocumentID,
			BudgetUpdatedExternally: req.SourceDocument.BudgetUpdatedExternally,
		}
		if entry.SourceDocument.Type == "" {
			entry.SourceDocument.Type = domain.SourceManual
		}
	}

	for _, lineReq := range req.Lines {
		entry.Lines = append(entry.Lines, domain.JournalLine{
			LineID:        uuid.NewString(),
			EntryID:       entryID,
			AccountCode:   lineReq.AccountCode,
			CostCenterID:  lineReq.CostCenterID,
			Debit:         lineReq.Debit,
			Credit:        lineReq.Credit,
			SubledgerType: lineReq.SubledgerType,
			SubledgerID:   lineReq.SubledgerID,
			Narration:     lineReq.Narration,
		})
	}

	if err := accounting.ValidateEntryBalance(entry.Lines); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrImbalancedEntry, err.Error())
	}
	if _, err := s.fetchActiveAccounts(ctx, companyID, entry.Lines); err != nil {
		return nil, err
	}

	if err := s.coordinator.journalRepo.SaveDraftEntry(ctx, entry); err != nil {
		logger.Error("Failed to save draft entry", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to save draft entry: %w", err)
	}

	s.auditSvc.Append(ctx, dto.AuditAppendParams{
		CompanyID:    companyID,
		Action:       domain.AuditCreate,
		Module:       "journal",
		DocumentType: "journal_entry",
		DocumentID:   entryID,
		Actor:        creatorUserID,
		After:        entry,
	})

	logger.Info("Draft journal entry created", slog.String("entry_id", entryID), slog.String("fiscal_year", entry.FiscalYear))
	return &entry, nil
}

// entryTransitions lists the permitted workflow moves outside posting.
var entryTransitions = map[domain.EntryStatus]map[domain.EntryStatus]bool{
	domain.EntryDraft: {
		domain.EntryPending:   true,
		domain.EntryRejected:  true,
		domain.EntryCancelled: true,
	},
	domain.EntryPending: {
		domain.EntryApproved: true,
		domain.EntryRejected: true,
	},
}

func (s *journalService) transition(ctx context.Context, companyID, entryID, actor string, target domain.EntryStatus, action domain.AuditAction) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.findCompanyEntry(ctx, companyID, entryID)
	if err != nil {
		return err
	}

	if !entryTransitions[entry.Status][target] {
		return fmt.Errorf("%w: entry status is %s, cannot move to %s", apperrors.ErrInvalidState, entry.Status, target)
	}

	now := time.Now().UTC()
	if err := s.coordinator.journalRepo.UpdateEntryStatus(ctx, entryID, target, actor, now); err != nil {
		logger.Error("Failed to update entry status", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return fmt.Errorf("failed to update entry status: %w", err)
	}

	s.auditSvc.Append(ctx, dto.AuditAppendParams{
		CompanyID:    companyID,
		Action:       action,
		Module:       "journal",
		DocumentType: "journal_entry",
		DocumentID:   entryID,
		Actor:        actor,
		Before:       map[string]any{"status": entry.Status},
		After:        map[string]any{"status": target},
	})

	logger.Info("Journal entry status changed", slog.String("entry_id", entryID), slog.String("status", string(target)))
	return nil
}

// SubmitEntry moves DRAFT -> PENDING.
func (s *journalService) SubmitEntry(ctx context.Context, companyID, entryID, actor string) error {
	return s.transition(ctx, companyID, entryID, actor, domain.EntryPending, domain.AuditUpdate)
}

// ApproveEntry moves PENDING -> APPROVED.
func (s *journalService) ApproveEntry(ctx context.Context, companyID, entryID, actor string) error {
	return s.transition(ctx, companyID, entryID, actor, domain.EntryApproved, domain.AuditApprove)
}

// RejectEntry moves DRAFT/PENDING -> REJECTED (terminal).
func (s *journalService) RejectEntry(ctx context.Context, companyID, entryID, actor string) error {
	return s.transition(ctx, companyID, entryID, actor, domain.EntryRejected, domain.AuditReject)
}

// CancelEntry moves DRAFT -> CANCELLED (terminal).
func (s *journalService) CancelEntry(ctx context.Context, companyID, entryID, actor string) error {
	return s.transition(ctx, companyID, entryID, actor, domain.EntryCancelled, domain.AuditVoid)
}

// PostEntry validates the entry, checks the period lock and budget thresholds,
// then hands the resolved plan to the posting coordinator. All precondition
// failures abort before any write.
func (s *journalService) PostEntry(ctx context.Context, companyID, entryID, actor string, skipBudgetUpdate bool) (*dto.PostingResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.findCompanyEntry(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}

	if !entry.Status.CanPost() {
		if entry.Status == domain.EntryPosted {
			// The entry write may have landed while a later step failed; a
			// pending run means the posting must be resumed, not rejected.
			return s.resumePosting(ctx, entry, actor)
		}
		return nil, fmt.Errorf("%w: entry status is %s, expected DRAFT, PENDING or APPROVED", apperrors.ErrInvalidState, entry.Status)
	}

	locked, err := s.closingSvc.IsPeriodLocked(ctx, companyID, entry.FiscalYear)
	if err != nil {
		return nil, fmt.Errorf("failed to check period lock: %w", err)
	}
	if locked {
		return nil, fmt.Errorf("%w: fiscal year %s is closed", apperrors.ErrPeriodLocked, entry.FiscalYear)
	}

	if err := accounting.ValidateEntryBalance(entry.Lines); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrImbalancedEntry, err.Error())
	}

	accountsMap, err := s.fetchActiveAccounts(ctx, companyID, entry.Lines)
	if err != nil {
		return nil, err
	}

	normalBalances := make(map[string]domain.NormalBalance, len(accountsMap))
	for code, account := range accountsMap {
		normalBalances[code] = account.NormalBalance
	}
	balanceChanges, err := accounting.NetBalanceChanges(entry.Lines, normalBalances)
	if err != nil {
		return nil, fmt.Errorf("failed to compute balance changes: %w", err)
	}

	ownership := s.coordinator.ResolveOwnership(entry, skipBudgetUpdate)
	utilizations := s.coordinator.BudgetUtilizations(entry, accountsMap)

	// Fail closed on budget blocks before any write; collect non-blocking
	// warnings for the result.
	var warnings []string
	if ownership == domain.OwnedByJournal {
		for _, utilization := range utilizations {
			if !utilization.Amount.IsPositive() {
				continue
			}
			result, err := s.budgetSvc.CheckAvailability(ctx, companyID, dto.AvailabilityRequest{
				BudgetScope: utilization.Scope,
				Amount:      utilization.Amount,
			})
			if err != nil {
				return nil, err
			}
			switch result.Status {
			case domain.AvailabilityBlocked:
				return nil, fmt.Errorf("%w: %s", apperrors.ErrBudgetBlocked, result.Message)
			case domain.AvailabilityWarning:
				warnings = append(warnings, result.Message)
			}
		}
	}

	now := time.Now().UTC()
	posted := *entry
	posted.Status = domain.EntryPosted
	posted.PostedAt = &now
	posted.PostedBy = actor
	posted.LastUpdatedAt = now
	posted.LastUpdatedBy = actor

	entryNumber, err := s.coordinator.ExecutePosting(ctx, PostingPlan{
		Entry:          posted,
		BalanceChanges: balanceChanges,
		Ownership:      ownership,
		Utilizations:   utilizations,
		Actor:          actor,
	})
	if err != nil {
		logger.Error("Posting sequence failed", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, err
	}
	posted.EntryNumber = entryNumber

	logger.Info("Journal entry posted",
		slog.String("entry_id", entryID),
		slog.String("entry_number", entryNumber),
		slog.String("ownership", string(ownership)))

	return &dto.PostingResult{
		Entry:    dto.ToJournalEntryResponse(&posted),
		Warnings: warnings,
	}, nil
}

// resumePosting finishes a posting whose entry write landed but whose later
// steps did not. The entry is already POSTED so the pre-write gates are not
// re-run; the pending run record says which steps remain.
func (s *journalService) resumePosting(ctx context.Context, entry *domain.JournalEntry, actor string) (*dto.PostingResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	run, err := s.coordinator.journalRepo.FindPostingRunByEntry(ctx, entry.EntryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: entry %s is already posted", apperrors.ErrInvalidState, entry.EntryID)
		}
		return nil, fmt.Errorf("failed to load posting run for entry %s: %w", entry.EntryID, err)
	}
	if run.Status == domain.RunCompleted {
		return nil, fmt.Errorf("%w: entry %s is already posted", apperrors.ErrInvalidState, entry.EntryID)
	}

	accountsMap, err := s.fetchActiveAccounts(ctx, entry.CompanyID, entry.Lines)
	if err != nil {
		return nil, err
	}
	normalBalances := make(map[string]domain.NormalBalance, len(accountsMap))
	for code, account := range accountsMap {
		normalBalances[code] = account.NormalBalance
	}
	balanceChanges, err := accounting.NetBalanceChanges(entry.Lines, normalBalances)
	if err != nil {
		return nil, fmt.Errorf("failed to compute balance changes: %w", err)
	}

	logger.Info("Resuming posting after partial failure",
		slog.String("entry_id", entry.EntryID),
		slog.Int("completed_steps", len(run.CompletedSteps)))

	entryNumber, err := s.coordinator.ExecutePosting(ctx, PostingPlan{
		Entry:          *entry,
		BalanceChanges: balanceChanges,
		Ownership:      run.Ownership,
		Utilizations:   s.coordinator.BudgetUtilizations(entry, accountsMap),
		Actor:          actor,
	})
	if err != nil {
		logger.Error("Posting resume failed", slog.String("error", err.Error()), slog.String("entry_id", entry.EntryID))
		return nil, err
	}

	resumed := *entry
	resumed.EntryNumber = entryNumber
	return &dto.PostingResult{Entry: dto.ToJournalEntryResponse(&resumed)}, nil
}

// ReverseEntry creates and posts a mirror-image entry, marks the original
// REVERSED and undoes the original's budget effect with a negative utilization.
func (s *journalService) ReverseEntry(ctx context.Context, companyID, entryID, actor, reason string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.findCompanyEntry(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}

	if original.Status != domain.EntryPosted {
		return nil, fmt.Errorf("%w: entry status is %s, expected POSTED", apperrors.ErrInvalidState, original.Status)
	}
	if original.OriginalEntryID != nil {
		return nil, fmt.Errorf("%w: cannot reverse an entry that is itself a reversal", apperrors.ErrConflict)
	}
	if reason == "" {
		return nil, fmt.Errorf("%w: reversal reason is required", apperrors.ErrValidation)
	}

	locked, err := s.closingSvc.IsPeriodLocked(ctx, companyID, original.FiscalYear)
	if err != nil {
		return nil, fmt.Errorf("failed to check period lock: %w", err)
	}
	if locked {
		return nil, fmt.Errorf("%w: fiscal year %s is closed", apperrors.ErrPeriodLocked, original.FiscalYear)
	}

	accountsMap, err := s.fetchActiveAccounts(ctx, companyID, original.Lines)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	reversingID := uuid.NewString()

	reversing := domain.JournalEntry{
		EntryID:         reversingID,
		CompanyID:       companyID,
		EntryDate:       original.EntryDate,
		FiscalYear:      original.FiscalYear,
		Period:          original.Period,
		Description:     fmt.Sprintf("Reversal of %s: %s", original.EntryNumber, original.Description),
		Status:          domain.EntryPosted,
		SourceDocument:  original.SourceDocument,
		OriginalEntryID: &original.EntryID,
		ReversalReason:  reason,
		PostedAt:        &now,
		PostedBy:        actor,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	for _, line := range accounting.SwapDebitCredit(original.Lines) {
		line.LineID = uuid.NewString()
		line.EntryID = reversingID
		reversing.Lines = append(reversing.Lines, line)
	}

	normalBalances := make(map[string]domain.NormalBalance, len(accountsMap))
	for code, account := range accountsMap {
		normalBalances[code] = account.NormalBalance
	}
	balanceChanges, err := accounting.NetBalanceChanges(reversing.Lines, normalBalances)
	if err != nil {
		return nil, fmt.Errorf("failed to compute reversal balance changes: %w", err)
	}

	// The reversal's budget effect mirrors the original posting's ownership:
	// if the source document owned the budget mutation, it owns the undo too.
	ownership := s.coordinator.ResolveOwnership(original, false)
	utilizations := s.coordinator.BudgetUtilizations(&reversing, accountsMap)

	entryNumber, err := s.coordinator.ExecutePosting(ctx, PostingPlan{
		Entry:          reversing,
		BalanceChanges: balanceChanges,
		Ownership:      ownership,
		Utilizations:   utilizations,
		Actor:          actor,
		Reversal:       original,
	})
	if err != nil {
		logger.Error("Reversal sequence failed", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, err
	}
	reversing.EntryNumber = entryNumber

	logger.Info("Journal entry reversed",
		slog.String("original_entry_id", entryID),
		slog.String("reversing_entry_id", reversingID))
	return &reversing, nil
}

// GetEntryByID retrieves an entry with its lines.
func (s *journalService) GetEntryByID(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	return s.findCompanyEntry(ctx, companyID, entryID)
}

func (s *journalService) findCompanyEntry(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.coordinator.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	if entry.CompanyID != companyID {
		// Obscure existence of other companies' entries.
		return nil, apperrors.ErrNotFound
	}
	return entry, nil
}

// ListEntries retrieves a paginated entry listing for report generation.
func (s *journalService) ListEntries(ctx context.Context, companyID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	entries, nextToken, err := s.coordinator.journalRepo.ListEntries(ctx, companyID, limit, params.NextToken, params.IncludeReversals)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	resp := &dto.ListEntriesResponse{NextToken: nextToken}
	for i := range entries {
		resp.Entries = append(resp.Entries, dto.ToJournalEntryResponse(&entries[i]))
	}
	return resp, nil
}

// ListEntriesByAccount retrieves posted entries touching an account, for
// ledger reconstruction and reporting.
func (s *journalService) ListEntriesByAccount(ctx context.Context, companyID string, accountCode string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	entries, nextToken, err := s.coordinator.journalRepo.ListEntriesByAccount(ctx, companyID, accountCode, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries for account %s: %w", accountCode, err)
	}
	resp := &dto.ListEntriesResponse{NextToken: nextToken}
	for i := range entries {
		resp.Entries = append(resp.Entries, dto.ToJournalEntryResponse(&entries[i]))
	}
	return resp, nil
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
