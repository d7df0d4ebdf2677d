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

// BudgetUtilization is one budget mutation a posting must perform.
type BudgetUtilization struct {
	Scope            dto.BudgetScope
	Amount           decimal.Decimal
	ReleaseCommitted bool
}

// PostingPlan is the fully resolved write sequence for one posting: the entry,
// its account balance deltas, and the budget mutations this posting owns.
type PostingPlan struct {
	Entry          domain.JournalEntry
	BalanceChanges map[string]decimal.Decimal
	Ownership      domain.BudgetOwnership
	Utilizations   []BudgetUtilization
	Actor          string

	// Reversal is the original entry when this posting reverses it.
	Reversal *domain.JournalEntry
}

// PostingCoordinator owns the consistency rules around a posting. A journal
// entry's budget effect can be applied either by the originating document
// (payment batch, payroll) or by the posting itself; applying it twice
// double-counts spend. Ownership is resolved exactly once, here, and every
// posting runs through ExecutePosting so the rule cannot be re-implemented
// per caller.
//
// The entry, account balances, budget line and audit record are separate
// writes with no cross-document transaction, so each posting keeps a
// PostingRun record naming the steps already completed; a retry after a
// partial failure resumes at the first incomplete step.
type PostingCoordinator struct {
	journalRepo portsrepo.JournalRepositoryFacade
	budgetSvc   portssvc.BudgetSvcFacade
	auditSvc    portssvc.AuditSvcFacade
}

// NewPostingCoordinator creates a new posting coordinator.
func NewPostingCoordinator(journalRepo portsrepo.JournalRepositoryFacade, budgetSvc portssvc.BudgetSvcFacade, auditSvc portssvc.AuditSvcFacade) *PostingCoordinator {
	return &PostingCoordinator{
		journalRepo: journalRepo,
		budgetSvc:   budgetSvc,
		auditSvc:    auditSvc,
	}
}

// ResolveOwnership decides who is responsible for the budget mutation of this
// posting. The source document wins when it declared the budget already
// updated, or when the caller passes skipBudgetUpdate at post time.
func (c *PostingCoordinator) ResolveOwnership(entry *domain.JournalEntry, skipBudgetUpdate bool) domain.BudgetOwnership {
	if skipBudgetUpdate || entry.SourceDocument.BudgetUpdatedExternally {
		return domain.OwnedBySource
	}
	return domain.OwnedByJournal
}

// BudgetUtilizations derives the budget mutations a posting owns: one per
// (account, cost center) over the entry's expense lines that carry a cost
// center, with net spend = debit - credit. Lines without a cost center and
// non-expense lines never touch the budget.
func (c *PostingCoordinator) BudgetUtilizations(entry *domain.JournalEntry, accounts map[string]domain.Account) []BudgetUtilization {
	type key struct{ account, costCenter string }
	amounts := make(map[key]decimal.Decimal)
	order := make([]key, 0)

	for _, line := range entry.Lines {
		if line.CostCenterID == "" {
			continue
		}
		account, ok := accounts[line.AccountCode]
		if !ok || account.AccountType != domain.Expense {
			continue
		}
		k := key{line.AccountCode, line.CostCenterID}
		if _, seen := amounts[k]; !seen {
			order = append(order, k)
		}
		amounts[k] = amounts[k].Add(line.Debit.Sub(line.Credit))
	}

	utilizations := make([]BudgetUtilization, 0, len(order))
	for _, k := range order {
		amount := amounts[k]
		if amount.IsZero() {
			continue
		}
		utilizations = append(utilizations, BudgetUtilization{
			Scope: dto.BudgetScope{
				FiscalYear:   entry.FiscalYear,
				AccountCode:  k.account,
				CostCenterID: k.costCenter,
			},
			Amount:           amount,
			ReleaseCommitted: amount.IsPositive(),
		})
	}
	return utilizations
}

// ExecutePosting runs the posting sequence step by step, resuming a pending
// run if one exists. It returns the assigned entry number.
func (c *PostingCoordinator) ExecutePosting(ctx context.Context, plan PostingPlan) (string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	run, err := c.loadOrStartRun(ctx, plan)
	if err != nil {
		return "", err
	}

	entryNumber := plan.Entry.EntryNumber

	if !run.HasCompleted(domain.StepWriteEntry) {
		if plan.Reversal != nil {
			entryNumber, err = c.journalRepo.ReverseEntry(ctx, *plan.Reversal, plan.Entry, plan.BalanceChanges)
		} else {
			entryNumber, err = c.journalRepo.PostEntry(ctx, plan.Entry, plan.BalanceChanges)
		}
		if err != nil {
			c.failRun(ctx, run, err)
			return "", fmt.Errorf("failed to write posted entry: %w", err)
		}
		run.MarkCompleted(domain.StepWriteEntry)
		c.saveRun(ctx, run)
	}

	if !run.HasCompleted(domain.StepUtilizeBudget) {
		if run.Ownership == domain.OwnedByJournal {
			for _, utilization := range plan.Utilizations {
				_, err := c.budgetSvc.Utilize(ctx, plan.Entry.CompanyID, dto.UtilizationRequest{
					BudgetScope:      utilization.Scope,
					Amount:           utilization.Amount,
					ReleaseCommitted: utilization.ReleaseCommitted,
					DocumentType:     "journal_entry",
					DocumentID:       plan.Entry.EntryID,
				}, plan.Actor)
				if err != nil {
					c.failRun(ctx, run, err)
					return entryNumber, fmt.Errorf("failed to utilize budget for account %s: %w", utilization.Scope.AccountCode, err)
				}
			}
		} else {
			logger.Debug("Budget mutation owned by source document; skipping",
				slog.String("entry_id", plan.Entry.EntryID),
				slog.String("source_type", string(plan.Entry.SourceDocument.Type)))
		}
		run.MarkCompleted(domain.StepUtilizeBudget)
		c.saveRun(ctx, run)
	}

	if !run.HasCompleted(domain.StepAppendAudit) {
		action := domain.AuditPost
		documentID := plan.Entry.EntryID
		var before any
		if plan.Reversal != nil {
			action = domain.AuditReverse
			documentID = plan.Reversal.EntryID
			before = plan.Reversal
		}
		totalDebits := plan.Entry.TotalDebits()
		totalCredits := plan.Entry.TotalCredits()
		c.auditSvc.Append(ctx, dto.AuditAppendParams{
			CompanyID:    plan.Entry.CompanyID,
			Action:       action,
			Module:       "journal",
			DocumentType: "journal_entry",
			DocumentID:   documentID,
			Actor:        plan.Actor,
			Before:       before,
			After:        plan.Entry,
			Impact: domain.FinancialImpact{
				Debit:  totalDebits,
				Credit: totalCredits,
				Net:    totalDebits.Sub(totalCredits),
			},
		})
		run.MarkCompleted(domain.StepAppendAudit)
	}

	now := time.Now().UTC()
	run.Status = domain.RunCompleted
	run.CompletedAt = &now
	run.LastError = ""
	c.saveRun(ctx, run)

	return entryNumber, nil
}

func (c *PostingCoordinator) loadOrStartRun(ctx context.Context, plan PostingPlan) (*domain.PostingRun, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := c.journalRepo.FindPostingRunByEntry(ctx, plan.Entry.EntryID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		// A transient lookup failure must not shadow a pending run: starting a
		// fresh one here would replay already-completed steps.
		return nil, fmt.Errorf("failed to load posting run for entry %s: %w", plan.Entry.EntryID, err)
	}
	if err == nil {
		if existing.Status == domain.RunCompleted {
			return nil, fmt.Errorf("posting run for entry %s already completed", plan.Entry.EntryID)
		}
		logger.Info("Resuming pending posting run",
			slog.String("entry_id", plan.Entry.EntryID),
			slog.Int("completed_steps", len(existing.CompletedSteps)))
		existing.Status = domain.RunPending
		return existing, nil
	}

	run := &domain.PostingRun{
		RunID:     uuid.NewString(),
		EntryID:   plan.Entry.EntryID,
		CompanyID: plan.Entry.CompanyID,
		Ownership: plan.Ownership,
		Status:    domain.RunPending,
		StartedAt: time.Now().UTC(),
	}
	if err := c.journalRepo.SavePostingRun(ctx, *run); err != nil {
		// The run record is bookkeeping for resumption; its absence must not
		// stop the posting itself.
		logger.Warn("Failed to save posting run record", slog.String("error", err.Error()))
	}
	return run, nil
}

func (c *PostingCoordinator) saveRun(ctx context.Context, run *domain.PostingRun) {
	if err := c.journalRepo.UpdatePostingRun(ctx, *run); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to update posting run record",
			slog.String("run_id", run.RunID), slog.String("error", err.Error()))
	}
}

func (c *PostingCoordinator) failRun(ctx context.Context, run *domain.PostingRun, cause error) {
	run.Status = domain.RunFailed
	run.LastError = cause.Error()
	c.saveRun(ctx, run)
}
