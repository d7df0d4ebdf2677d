package dto

import (
	"time"

	"github.com/hroffice/gl_backend/internal/core/domain"
)

// AuditAppendParams carries everything the audit service needs to append one
// chain entry. Before and After are marshalled to JSON snapshots by the service.
type AuditAppendParams struct {
	CompanyID    string
	Action       domain.AuditAction
	Module       string
	DocumentType string
	DocumentID   string
	Actor        string
	Before       any
	After        any
	Impact       domain.FinancialImpact
}

// AuditEntryResponse is the API representation of an audit log entry.
type AuditEntryResponse struct {
	AuditID      string                 `json:"auditID"`
	CompanyID    string                 `json:"companyID"`
	Sequence     int64                  `json:"sequence"`
	Action       domain.AuditAction     `json:"action"`
	Module       string                 `json:"module"`
	DocumentType string                 `json:"documentType"`
	DocumentID   string                 `json:"documentID"`
	Actor        string                 `json:"actor"`
	Timestamp    time.Time              `json:"timestamp"`
	Impact       domain.FinancialImpact `json:"impact"`
	PreviousHash string                 `json:"previousHash"`
	CurrentHash  string                 `json:"currentHash"`
}

// ToAuditEntryResponse converts a domain audit entry to its API representation.
// State snapshots are omitted from listings; compliance export fetches them
// through the verification endpoint's full records.
func ToAuditEntryResponse(e *domain.AuditLogEntry) AuditEntryResponse {
	return AuditEntryResponse{
		AuditID:      e.AuditID,
		CompanyID:    e.CompanyID,
		Sequence:     e.Sequence,
		Action:       e.Action,
		Module:       e.Module,
		DocumentType: e.DocumentType,
		DocumentID:   e.DocumentID,
		Actor:        e.Actor,
		Timestamp:    e.Timestamp,
		Impact:       e.Impact,
		PreviousHash: e.PreviousHash,
		CurrentHash:  e.CurrentHash,
	}
}

// ListAuditParams holds pagination parameters for the audit log listing.
type ListAuditParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListAuditResponse is a paginated audit log listing.
type ListAuditResponse struct {
	Entries   []AuditEntryResponse `json:"entries"`
	NextToken *string              `json:"nextToken,omitempty"`
}

// VerifyChainParams bounds a chain verification run by sequence number.
// Zero values mean "from the beginning" and "to the end".
type VerifyChainParams struct {
	FromSequence int64 `form:"fromSequence"`
	ToSequence   int64 `form:"toSequence"`
}
