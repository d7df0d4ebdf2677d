package dto

import "github.com/hroffice/gl_backend/internal/core/domain"

// CreateCostCenterRequest is the payload for registering a cost center.
type CreateCostCenterRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
}

// CostCenterResponse is the API representation of a cost center.
type CostCenterResponse struct {
	CostCenterID string `json:"costCenterID"`
	CompanyID    string `json:"companyID"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	IsActive     bool   `json:"isActive"`
}

// ToCostCenterResponse converts a domain cost center to its API representation.
func ToCostCenterResponse(c *domain.CostCenter) CostCenterResponse {
	return CostCenterResponse{
		CostCenterID: c.CostCenterID,
		CompanyID:    c.CompanyID,
		Code:         c.Code,
		Name:         c.Name,
		IsActive:     c.IsActive,
	}
}

// ListCostCentersParams holds pagination parameters for listing cost centers.
type ListCostCentersParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListCostCentersResponse is a paginated cost-center listing.
type ListCostCentersResponse struct {
	CostCenters []CostCenterResponse `json:"costCenters"`
	NextToken   *string              `json:"nextToken,omitempty"`
}
