package dto

import (
	"time"

	"github.com/hroffice/gl_backend/internal/core/domain"
)

// CreateClosingRequest asks to close a fiscal year for posting.
type CreateClosingRequest struct {
	FiscalYear string `json:"fiscalYear" binding:"required"`
	Remarks    string `json:"remarks"`
}

// ClosingResponse is the API representation of a year-end closing record.
type ClosingResponse struct {
	ClosingID  string               `json:"closingID"`
	CompanyID  string               `json:"companyID"`
	FiscalYear string               `json:"fiscalYear"`
	Status     domain.ClosingStatus `json:"status"`
	ClosedAt   time.Time            `json:"closedAt"`
	ClosedBy   string               `json:"closedBy"`
	ReversedAt *time.Time           `json:"reversedAt,omitempty"`
	ReversedBy string               `json:"reversedBy,omitempty"`
	Remarks    string               `json:"remarks,omitempty"`
}

// ToClosingResponse converts a domain closing record to its API representation.
func ToClosingResponse(r *domain.ClosingRecord) ClosingResponse {
	return ClosingResponse{
		ClosingID:  r.ClosingID,
		CompanyID:  r.CompanyID,
		FiscalYear: r.FiscalYear,
		Status:     r.Status,
		ClosedAt:   r.ClosedAt,
		ClosedBy:   r.ClosedBy,
		ReversedAt: r.ReversedAt,
		ReversedBy: r.ReversedBy,
		Remarks:    r.Remarks,
	}
}
