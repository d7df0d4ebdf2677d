package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// GenesisHash is the sentinel previous-hash for the first audit entry of a company.
const GenesisHash = "GENESIS"

// AuditAction identifies the mutating action an audit entry records.
type AuditAction string

const (
	AuditCreate  AuditAction = "CREATE"
	AuditUpdate  AuditAction = "UPDATE"
	AuditApprove AuditAction = "APPROVE"
	AuditReject  AuditAction = "REJECT"
	AuditPost    AuditAction = "POST"
	AuditReverse AuditAction = "REVERSE"
	AuditVoid    AuditAction = "VOID"
)

// FinancialImpact summarises the monetary effect of an audited action.
type FinancialImpact struct {
	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
	Net    decimal.Decimal `json:"net"`
}

// AuditLogEntry is an append-only, hash-linked record of a mutating action.
// CurrentHash covers PreviousHash plus a canonical encoding of the entry, so a
// retroactive edit to any stored field is detectable by recomputation.
type AuditLogEntry struct {
	AuditID      string          `json:"auditID"` // Primary Key (UUID)
	CompanyID    string          `json:"companyID"`
	Sequence     int64           `json:"sequence"` // Monotonic per company
	Action       AuditAction     `json:"action"`
	Module       string          `json:"module"` // e.g. "journal", "budget"
	DocumentType string          `json:"documentType"`
	DocumentID   string          `json:"documentID"`
	Actor        string          `json:"actor"`
	Timestamp    time.Time       `json:"timestamp"`
	BeforeState  json.RawMessage `json:"beforeState,omitempty"`
	AfterState   json.RawMessage `json:"afterState,omitempty"`
	Impact       FinancialImpact `json:"impact"`
	PreviousHash string          `json:"previousHash"`
	CurrentHash  string          `json:"currentHash"`
}

// hashPayload fixes the field set and order covered by the chain hash.
type hashPayload struct {
	PreviousHash string          `json:"previousHash"`
	Action       AuditAction     `json:"action"`
	Module       string          `json:"module"`
	DocumentType string          `json:"documentType"`
	DocumentID   string          `json:"documentID"`
	Actor        string          `json:"actor"`
	Timestamp    string          `json:"timestamp"`
	AfterState   json.RawMessage `json:"afterState"`
}

// ComputeHash derives the chain hash for this entry given the previous entry's hash.
func (e *AuditLogEntry) ComputeHash(previousHash string) string {
	payload := hashPayload{
		PreviousHash: previousHash,
		Action:       e.Action,
		Module:       e.Module,
		DocumentType: e.DocumentType,
		DocumentID:   e.DocumentID,
		Actor:        e.Actor,
		Timestamp:    e.Timestamp.UTC().Format(time.RFC3339Nano),
		AfterState:   e.AfterState,
	}
	// Struct fields marshal in declaration order, so the encoding is canonical.
	encoded, _ := json.Marshal(payload)
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:])
}

// ChainViolation describes a single integrity failure found during verification.
type ChainViolation struct {
	Sequence int64  `json:"sequence"`
	AuditID  string `json:"auditID"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Detail   string `json:"detail"`
}

// ChainVerificationReport is the result of walking a company's audit chain.
type ChainVerificationReport struct {
	CompanyID  string           `json:"companyID"`
	Checked    int              `json:"checked"`
	Valid      bool             `json:"valid"`
	Violations []ChainViolation `json:"violations,omitempty"`
}
