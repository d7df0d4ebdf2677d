package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hroffice/gl_backend/internal/apperrors"
	"github.com/hroffice/gl_backend/internal/core/domain"
	portsrepo "github.com/hroffice/gl_backend/internal/core/ports/repositories"
	portssvc "github.com/hroffice/gl_backend/internal/core/ports/services"
	"github.com/hroffice/gl_backend/internal/dto"
	"github.com/hroffice/gl_backend/internal/middleware"
)

// auditService maintains the per-company hash-linked audit chain.
//
// The fetch-latest-then-append path is the contention point: two writers racing
// on the latest hash would both link to it and fork the chain. Appends for a
// company therefore serialize through a per-company mutex.
type auditService struct {
	auditRepo portsrepo.AuditRepositoryFacade

	mu           sync.Mutex
	companyLocks map[string]*sync.Mutex
}

// NewAuditService creates a new audit chain service.
func NewAuditService(auditRepo portsrepo.AuditRepositoryFacade) portssvc.AuditSvcFacade {
	return &auditService{
		auditRepo:    auditRepo,
		companyLocks: make(map[string]*sync.Mutex),
	}
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

func (s *auditService) lockFor(companyID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.companyLocks[companyID]
	if !ok {
		lock = &sync.Mutex{}
		s.companyLocks[companyID] = lock
	}
	return lock
}

// Append adds a hash-linked record for a mutating action. Failures are logged
// and swallowed: an audit problem must never abort the financial operation it
// is recording.
func (s *auditService) Append(ctx context.Context, params dto.AuditAppendParams) {
	logger := middleware.GetLoggerFromCtx(ctx)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Audit append panicked", slog.Any("panic", r), slog.String("document_id", params.DocumentID))
		}
	}()

	lock := s.lockFor(params.CompanyID)
	lock.Lock()
	defer lock.Unlock()

	previousHash := domain.GenesisHash
	sequence := int64(1)
	latest, err := s.auditRepo.FindLatestEntry(ctx, params.CompanyID)
	switch {
	case err == nil:
		previousHash = latest.CurrentHash
		sequence = latest.Sequence + 1
	case errors.Is(err, apperrors.ErrNotFound):
		// First entry for this company; link to the genesis sentinel.
	default:
		logger.Error("Audit append failed to fetch latest entry", slog.String("company_id", params.CompanyID), slog.String("error", err.Error()))
		return
	}

	entry := domain.AuditLogEntry{
		AuditID:      uuid.NewString(),
		CompanyID:    params.CompanyID,
		Sequence:     sequence,
		Action:       params.Action,
		Module:       params.Module,
		DocumentType: params.DocumentType,
		DocumentID:   params.DocumentID,
		Actor:        params.Actor,
		Timestamp:    time.Now().UTC(),
		Impact:       params.Impact,
	}

	if params.Before != nil {
		if encoded, err := json.Marshal(params.Before); err == nil {
			entry.BeforeState = encoded
		} else {
			logger.Warn("Audit append failed to encode before state", slog.String("error", err.Error()))
		}
	}
	if params.After != nil {
		if encoded, err := json.Marshal(params.After); err == nil {
			entry.AfterState = encoded
		} else {
			logger.Warn("Audit append failed to encode after state", slog.String("error", err.Error()))
		}
	}

	entry.PreviousHash = previousHash
	entry.CurrentHash = entry.ComputeHash(previousHash)

	if err := s.auditRepo.AppendEntry(ctx, entry); err != nil {
		logger.Error("Audit append failed to persist entry",
			slog.String("company_id", params.CompanyID),
			slog.Int64("sequence", sequence),
			slog.String("error", err.Error()))
		return
	}

	logger.Debug("Audit entry appended",
		slog.String("company_id", params.CompanyID),
		slog.Int64("sequence", sequence),
		slog.String("action", string(params.Action)))
}

// VerifyChain walks the chain oldest-to-newest, checking both the stored
// previous-hash linkage and a full recomputation of every current hash so
// post-hoc edits to stored state snapshots are detected.
func (s *auditService) VerifyChain(ctx context.Context, companyID string, params dto.VerifyChainParams) (*domain.ChainVerificationReport, error) {
	entries, err := s.auditRepo.ListEntriesBySequence(ctx, companyID, params.FromSequence, params.ToSequence)
	if err != nil {
		return nil, fmt.Errorf("failed to load audit entries for verification: %w", err)
	}

	report := &domain.ChainVerificationReport{
		CompanyID: companyID,
		Checked:   len(entries),
		Valid:     true,
	}

	previousHash := domain.GenesisHash
	for i := range entries {
		entry := &entries[i]

		// Link check only holds from the second inspected entry onward when
		// verification starts mid-chain.
		if i > 0 || params.FromSequence <= 1 {
			if entry.PreviousHash != previousHash {
				report.Valid = false
				report.Violations = append(report.Violations, domain.ChainViolation{
					Sequence: entry.Sequence,
					AuditID:  entry.AuditID,
					Expected: previousHash,
					Actual:   entry.PreviousHash,
					Detail:   "previous hash does not match the prior entry",
				})
			}
		}

		recomputed := entry.ComputeHash(entry.PreviousHash)
		if recomputed != entry.CurrentHash {
			report.Valid = false
			report.Violations = append(report.Violations, domain.ChainViolation{
				Sequence: entry.Sequence,
				AuditID:  entry.AuditID,
				Expected: recomputed,
				Actual:   entry.CurrentHash,
				Detail:   "stored hash does not match recomputation; entry fields were modified",
			})
		}

		previousHash = entry.CurrentHash
	}

	return report, nil
}

// ListEntries retrieves a paginated audit log for compliance export.
func (s *auditService) ListEntries(ctx context.Context, companyID string, params dto.ListAuditParams) (*dto.ListAuditResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	entries, nextToken, err := s.auditRepo.ListEntries(ctx, companyID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	resp := &dto.ListAuditResponse{NextToken: nextToken}
	for i := range entries {
		resp.Entries = append(resp.Entries, dto.ToAuditEntryResponse(&entries[i]))
	}
	return resp, nil
}
