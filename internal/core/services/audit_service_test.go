package services_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hroffice/gl_backend/internal/apperrors"
	"github.com/hroffice/gl_backend/internal/core/domain"
	"github.com/hroffice/gl_backend/internal/core/services"
	"github.com/hroffice/gl_backend/internal/dto"
)

// memAuditRepo is an in-memory audit store so chain behavior is exercised
// end to end rather than asserted call by call.
type memAuditRepo struct {
	mu      sync.Mutex
	entries map[string][]domain.AuditLogEntry
}

func newMemAuditRepo() *memAuditRepo {
	return &memAuditRepo{entries: make(map[string][]domain.AuditLogEntry)}
}

func (r *memAuditRepo) FindLatestEntry(ctx context.Context, companyID string) (*domain.AuditLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chain := r.entries[companyID]
	if len(chain) == 0 {
		return nil, apperrors.ErrNotFound
	}
	latest := chain[len(chain)-1]
	return &latest, nil
}

func (r *memAuditRepo) ListEntriesBySequence(ctx context.Context, companyID string, fromSequence int64, toSequence int64) ([]domain.AuditLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.AuditLogEntry
	for _, entry := range r.entries[companyID] {
		if entry.Sequence < fromSequence {
			continue
		}
		if toSequence > 0 && entry.Sequence > toSequence {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

func (r *memAuditRepo) ListEntries(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.AuditLogEntry, *string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chain := r.entries[companyID]
	out := make([]domain.AuditLogEntry, 0, len(chain))
	for i := len(chain) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, chain[i])
	}
	return out, nil, nil
}

func (r *memAuditRepo) AppendEntry(ctx context.Context, entry domain.AuditLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.CompanyID] = append(r.entries[entry.CompanyID], entry)
	return nil
}

// tamper rewrites a stored entry's after-state in place, bypassing the service.
func (r *memAuditRepo) tamper(companyID string, sequence int64, newState string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chain := r.entries[companyID]
	for i := range chain {
		if chain[i].Sequence == sequence {
			chain[i].AfterState = json.RawMessage(newState)
		}
	}
}

func appendN(t *testing.T, svc interface {
	Append(ctx context.Context, params dto.AuditAppendParams)
}, companyID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		svc.Append(context.Background(), dto.AuditAppendParams{
			CompanyID:    companyID,
			Action:       domain.AuditCreate,
			Module:       "journal",
			DocumentType: "journal_entry",
			DocumentID:   uuid.NewString(),
			Actor:        "tester",
			After:        map[string]any{"index": i},
		})
	}
}

func TestAuditAppend_ChainsSequentially(t *testing.T) {
	repo := newMemAuditRepo()
	svc := services.NewAuditService(repo)
	companyID := uuid.NewString()

	appendN(t, svc, companyID, 3)

	chain := repo.entries[companyID]
	require.Len(t, chain, 3)

	assert.Equal(t, int64(1), chain[0].Sequence)
	assert.Equal(t, domain.GenesisHash, chain[0].PreviousHash)
	for i := 1; i < len(chain); i++ {
		assert.Equal(t, chain[i-1].CurrentHash, chain[i].PreviousHash)
		assert.Equal(t, chain[i-1].Sequence+1, chain[i].Sequence)
	}
	for i := range chain {
		assert.Equal(t, chain[i].CurrentHash, chain[i].ComputeHash(chain[i].PreviousHash))
	}
}

func TestAuditAppend_CompaniesHaveIndependentChains(t *testing.T) {
	repo := newMemAuditRepo()
	svc := services.NewAuditService(repo)
	companyA := uuid.NewString()
	companyB := uuid.NewString()

	appendN(t, svc, companyA, 2)
	appendN(t, svc, companyB, 1)

	assert.Equal(t, int64(1), repo.entries[companyB][0].Sequence)
	assert.Equal(t, domain.GenesisHash, repo.entries[companyB][0].PreviousHash)
}

func TestAuditAppend_ConcurrentWritersDoNotFork(t *testing.T) {
	repo := newMemAuditRepo()
	svc := services.NewAuditService(repo)
	companyID := uuid.NewString()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			appendN(t, svc, companyID, 1)
		}()
	}
	wg.Wait()

	chain := repo.entries[companyID]
	require.Len(t, chain, 20)
	seen := make(map[int64]bool)
	for i := 1; i < len(chain); i++ {
		assert.Equal(t, chain[i-1].CurrentHash, chain[i].PreviousHash)
	}
	for _, entry := range chain {
		assert.False(t, seen[entry.Sequence], "duplicate sequence %d", entry.Sequence)
		seen[entry.Sequence] = true
	}
}

func TestVerifyChain_CleanChainValid(t *testing.T) {
	repo := newMemAuditRepo()
	svc := services.NewAuditService(repo)
	companyID := uuid.NewString()
	appendN(t, svc, companyID, 5)

	report, err := svc.VerifyChain(context.Background(), companyID, dto.VerifyChainParams{})

	require.NoError(t, err)
	assert.True(t, report.Valid)
	assert.Equal(t, 5, report.Checked)
	assert.Empty(t, report.Violations)
}

func TestVerifyChain_DetectsTamperedState(t *testing.T) {
	repo := newMemAuditRepo()
	svc := services.NewAuditService(repo)
	companyID := uuid.NewString()
	appendN(t, svc, companyID, 5)

	repo.tamper(companyID, 3, `{"index":"rewritten"}`)

	report, err := svc.VerifyChain(context.Background(), companyID, dto.VerifyChainParams{})

	require.NoError(t, err)
	assert.False(t, report.Valid)
	require.NotEmpty(t, report.Violations)
	assert.Equal(t, int64(3), report.Violations[0].Sequence)
}

func TestVerifyChain_DetectsRelinkedEntry(t *testing.T) {
	repo := newMemAuditRepo()
	svc := services.NewAuditService(repo)
	companyID := uuid.NewString()
	appendN(t, svc, companyID, 4)

	// Rewrite an entry completely, including a self-consistent hash; the link
	// to its neighbours still betrays it.
	repo.mu.Lock()
	entry := &repo.entries[companyID][2]
	entry.PreviousHash = "forged"
	entry.CurrentHash = entry.ComputeHash("forged")
	repo.mu.Unlock()

	report, err := svc.VerifyChain(context.Background(), companyID, dto.VerifyChainParams{})

	require.NoError(t, err)
	assert.False(t, report.Valid)
}

func TestVerifyChain_MidChainStartSkipsFirstLinkCheck(t *testing.T) {
	repo := newMemAuditRepo()
	svc := services.NewAuditService(repo)
	companyID := uuid.NewString()
	appendN(t, svc, companyID, 5)

	report, err := svc.VerifyChain(context.Background(), companyID, dto.VerifyChainParams{FromSequence: 3})

	require.NoError(t, err)
	assert.True(t, report.Valid)
	assert.Equal(t, 3, report.Checked)
}
