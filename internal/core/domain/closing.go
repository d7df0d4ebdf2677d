package domain

import "time"

// ClosingStatus indicates whether a year-end closing is in force.
type ClosingStatus string

const (
	ClosingCompleted ClosingStatus = "COMPLETED"
	ClosingReversed  ClosingStatus = "REVERSED"
)

// ClosingRecord marks a fiscal year as closed for a company. While a COMPLETED
// record exists, no journal entry dated in that fiscal year may be posted.
type ClosingRecord struct {
	ClosingID  string        `json:"closingID"` // Primary Key (UUID)
	CompanyID  string        `json:"companyID"`
	FiscalYear string        `json:"fiscalYear"`
	Status     ClosingStatus `json:"status"`
	ClosedAt   time.Time     `json:"closedAt"`
	ClosedBy   string        `json:"closedBy"`
	ReversedAt *time.Time    `json:"reversedAt,omitempty"`
	ReversedBy string        `json:"reversedBy,omitempty"`
	Remarks    string        `json:"remarks,omitempty"`
}
