package domain_test

import (
	"testing"

	"github.com/hroffice/gl_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLine(total int64) domain.BudgetLine {
	line := domain.BudgetLine{
		LineID:         "line-1",
		AccountCode:    "5001",
		OriginalBudget: decimal.NewFromInt(total),
		AlertThreshold: decimal.NewFromInt(80),
		BlockThreshold: decimal.NewFromInt(100),
	}
	line.RecomputeDerived()
	return line
}

func TestBudgetLine_RecomputeDerived(t *testing.T) {
	line := domain.BudgetLine{
		OriginalBudget:      decimal.NewFromInt(100000),
		RevisedBudget:       decimal.NewFromInt(20000),
		SupplementaryBudget: decimal.NewFromInt(5000),
		SurrenderedAmount:   decimal.NewFromInt(10000),
		ReappropriatedIn:    decimal.NewFromInt(3000),
		ReappropriatedOut:   decimal.NewFromInt(8000),
		Utilized:            decimal.NewFromInt(40000),
		Committed:           decimal.NewFromInt(15000),
	}
	line.RecomputeDerived()

	assert.True(t, decimal.NewFromInt(110000).Equal(line.TotalBudget))
	assert.True(t, decimal.NewFromInt(55000).Equal(line.Available))
}

func TestBudgetLine_CommitUtilizeRelease(t *testing.T) {
	line := newTestLine(100000)

	// Commit reserves without spending.
	require.NoError(t, line.ApplyCommit(decimal.NewFromInt(30000)))
	assert.True(t, decimal.NewFromInt(30000).Equal(line.Committed))
	assert.True(t, decimal.NewFromInt(70000).Equal(line.Available))
	assert.True(t, line.Utilized.IsZero())

	// Utilize with release converts the encumbrance into spend: committed nets
	// back to where it started, utilized grows by the amount.
	require.NoError(t, line.ApplyUtilize(decimal.NewFromInt(30000), true))
	assert.True(t, line.Committed.IsZero())
	assert.True(t, decimal.NewFromInt(30000).Equal(line.Utilized))
	assert.True(t, decimal.NewFromInt(70000).Equal(line.Available))

	// Release without realization returns committed budget.
	require.NoError(t, line.ApplyCommit(decimal.NewFromInt(10000)))
	require.NoError(t, line.ApplyRelease(decimal.NewFromInt(10000)))
	assert.True(t, line.Committed.IsZero())
	assert.True(t, decimal.NewFromInt(70000).Equal(line.Available))

	// Available identity holds after every mutation.
	assert.True(t, line.Available.Equal(line.TotalBudget.Sub(line.Utilized).Sub(line.Committed)))
}

func TestBudgetLine_UtilizeWithoutCommitRelease(t *testing.T) {
	line := newTestLine(50000)
	require.NoError(t, line.ApplyCommit(decimal.NewFromInt(20000)))
	require.NoError(t, line.ApplyUtilize(decimal.NewFromInt(5000), false))

	assert.True(t, decimal.NewFromInt(20000).Equal(line.Committed))
	assert.True(t, decimal.NewFromInt(5000).Equal(line.Utilized))
	assert.True(t, decimal.NewFromInt(25000).Equal(line.Available))
}

func TestBudgetLine_ReleaseFloorsAtZero(t *testing.T) {
	line := newTestLine(10000)
	require.NoError(t, line.ApplyCommit(decimal.NewFromInt(3000)))
	require.NoError(t, line.ApplyRelease(decimal.NewFromInt(5000)))

	assert.True(t, line.Committed.IsZero())
	assert.True(t, decimal.NewFromInt(10000).Equal(line.Available))
}

func TestBudgetLine_NegativeUtilizedRejected(t *testing.T) {
	line := newTestLine(10000)
	err := line.ApplyUtilize(decimal.NewFromInt(-1), false)
	assert.Error(t, err)
	assert.True(t, line.Utilized.IsZero())
}

func TestBudgetLine_CheckAvailability(t *testing.T) {
	tests := []struct {
		name          string
		utilized      int64
		allowOverride bool
		request       int64
		wantStatus    domain.AvailabilityStatus
	}{
		{
			name:       "well within budget",
			utilized:   10000,
			request:    10000,
			wantStatus: domain.AvailabilityOK,
		},
		{
			name:       "over alert threshold warns",
			utilized:   80000,
			request:    5000,
			wantStatus: domain.AvailabilityWarning,
		},
		{
			name:       "over block threshold without override blocks",
			utilized:   80000,
			request:    100000,
			wantStatus: domain.AvailabilityBlocked,
		},
		{
			name:          "over block threshold with override warns instead",
			utilized:      80000,
			allowOverride: true,
			request:       100000,
			wantStatus:    domain.AvailabilityWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := newTestLine(100000)
			line.Utilized = decimal.NewFromInt(tt.utilized)
			line.AllowOverride = tt.allowOverride
			line.RecomputeDerived()

			result := line.CheckAvailability(decimal.NewFromInt(tt.request))
			assert.Equal(t, tt.wantStatus, result.Status)
			if tt.wantStatus == domain.AvailabilityBlocked {
				assert.True(t, result.Shortfall.IsPositive())
				assert.NotEmpty(t, result.Message)
			}
		})
	}
}

func TestBudgetLine_OverrideOverspend(t *testing.T) {
	line := newTestLine(100000)
	line.Utilized = decimal.NewFromInt(80000)
	line.AllowOverride = true
	line.RecomputeDerived()

	require.NoError(t, line.ApplyUtilize(decimal.NewFromInt(100000), false))
	assert.True(t, decimal.NewFromInt(180000).Equal(line.Utilized))
	assert.True(t, decimal.NewFromInt(-80000).Equal(line.Available))
	assert.Equal(t, domain.HealthExhausted, line.Health())
}
