package domain

import "time"

// BudgetOwnership records which party is responsible for the budget mutation
// attached to a journal posting. Exactly one party ever mutates the budget for
// a given economic event.
type BudgetOwnership string

const (
	// OwnedByJournal: the posting itself must utilize the budget.
	OwnedByJournal BudgetOwnership = "JOURNAL"
	// OwnedBySource: the originating document already adjusted the budget;
	// the posting is general-ledger bookkeeping only.
	OwnedBySource BudgetOwnership = "SOURCE"
)

// PostingStep names one write in the posting sequence.
type PostingStep string

const (
	StepWriteEntry    PostingStep = "WRITE_ENTRY"
	StepUtilizeBudget PostingStep = "UTILIZE_BUDGET"
	StepAppendAudit   PostingStep = "APPEND_AUDIT"
)

// PostingRunStatus indicates the state of a posting workflow record.
type PostingRunStatus string

const (
	RunPending   PostingRunStatus = "PENDING"
	RunCompleted PostingRunStatus = "COMPLETED"
	RunFailed    PostingRunStatus = "FAILED"
)

// PostingRun is the short-lived workflow record for a single posting. The
// Account/Budget/Audit updates are separate writes with no cross-document
// transaction, so a crash mid-sequence leaves a PENDING run naming the steps
// already completed; the sequence is retried as a unit and each step is
// idempotent per (entryID, step).
type PostingRun struct {
	RunID          string           `json:"runID"` // Primary Key (UUID)
	EntryID        string           `json:"entryID"`
	CompanyID      string           `json:"companyID"`
	Ownership      BudgetOwnership  `json:"ownership"`
	CompletedSteps []PostingStep    `json:"completedSteps"`
	Status         PostingRunStatus `json:"status"`
	StartedAt      time.Time        `json:"startedAt"`
	CompletedAt    *time.Time       `json:"completedAt,omitempty"`
	LastError      string           `json:"lastError,omitempty"`
}

// HasCompleted reports whether a step has already run, for idempotent retries.
func (r *PostingRun) HasCompleted(step PostingStep) bool {
	for _, s := range r.CompletedSteps {
		if s == step {
			return true
		}
	}
	return false
}

// MarkCompleted appends a step to the completed list if not already present.
func (r *PostingRun) MarkCompleted(step PostingStep) {
	if !r.HasCompleted(step) {
		r.CompletedSteps = append(r.CompletedSteps, step)
	}
}
