package domain_test

import (
	"testing"
	"time"

	"github.com/hroffice/gl_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestFiscalYearOf(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{
			name: "june 30 falls in the closing fiscal year",
			date: time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC),
			want: "2024-2025",
		},
		{
			name: "july 1 opens the next fiscal year",
			date: time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
			want: "2025-2026",
		},
		{
			name: "mid december",
			date: time.Date(2024, time.December, 15, 0, 0, 0, 0, time.UTC),
			want: "2024-2025",
		},
		{
			name: "january after new year stays in same fiscal year",
			date: time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC),
			want: "2024-2025",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.FiscalYearOf(tt.date))
		})
	}
}

func TestPeriodOf(t *testing.T) {
	date := time.Date(2025, time.July, 1, 13, 45, 0, 0, time.UTC)
	assert.Equal(t, "2025-07", domain.PeriodOf(date))
}
