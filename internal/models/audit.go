package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditLogEntry is the database representation of one audit chain record.
// Rows are append-only; there is no update or delete path.
type AuditLogEntry struct {
	AuditID      string          `db:"audit_id"`
	CompanyID    string          `db:"company_id"`
	Sequence     int64           `db:"sequence"`
	Action       string          `db:"action"`
	Module       string          `db:"module"`
	DocumentType string          `db:"document_type"`
	DocumentID   string          `db:"document_id"`
	Actor        string          `db:"actor"`
	Timestamp    time.Time       `db:"timestamp"`
	BeforeState  []byte          `db:"before_state"`
	AfterState   []byte          `db:"after_state"`
	ImpactDebit  decimal.Decimal `db:"impact_debit"`
	ImpactCredit decimal.Decimal `db:"impact_credit"`
	ImpactNet    decimal.Decimal `db:"impact_net"`
	PreviousHash string          `db:"previous_hash"`
	CurrentHash  string          `db:"current_hash"`
}

// YearEndClosing is the database representation of a fiscal-year closing record.
type YearEndClosing struct {
	ClosingID  string     `db:"closing_id"`
	CompanyID  string     `db:"company_id"`
	FiscalYear string     `db:"fiscal_year"`
	Status     string     `db:"status"`
	ClosedAt   time.Time  `db:"closed_at"`
	ClosedBy   string     `db:"closed_by"`
	ReversedAt *time.Time `db:"reversed_at"`
	ReversedBy *string    `db:"reversed_by"`
	Remarks    string     `db:"remarks"`
}
