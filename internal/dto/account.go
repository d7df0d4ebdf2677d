package dto

import (
	"github.com/hroffice/gl_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest is the payload for creating a chart-of-accounts node.
type CreateAccountRequest struct {
	AccountCode   string               `json:"accountCode" binding:"required"`
	Name          string               `json:"name" binding:"required"`
	AccountType   domain.AccountType   `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	NormalBalance domain.NormalBalance `json:"normalBalance" binding:"omitempty,oneof=DEBIT CREDIT"`
	ParentCode    string               `json:"parentCode"`
	Description   string               `json:"description"`
}

// AccountResponse is the API representation of an account.
type AccountResponse struct {
	AccountID     string               `json:"accountID"`
	CompanyID     string               `json:"companyID"`
	AccountCode   string               `json:"accountCode"`
	Name          string               `json:"name"`
	AccountType   domain.AccountType   `json:"accountType"`
	NormalBalance domain.NormalBalance `json:"normalBalance"`
	ParentCode    string               `json:"parentCode,omitempty"`
	Description   string               `json:"description,omitempty"`
	IsActive      bool                 `json:"isActive"`
	Balance       decimal.Decimal      `json:"balance"`
}

// ToAccountResponse converts a domain account to its API representation.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     a.AccountID,
		CompanyID:     a.CompanyID,
		AccountCode:   a.AccountCode,
		Name:          a.Name,
		AccountType:   a.AccountType,
		NormalBalance: a.NormalBalance,
		ParentCode:    a.ParentCode,
		Description:   a.Description,
		IsActive:      a.IsActive,
		Balance:       a.Balance,
	}
}

// ListAccountsParams holds pagination parameters for listing accounts.
type ListAccountsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListAccountsResponse is a paginated account listing.
type ListAccountsResponse struct {
	Accounts  []AccountResponse `json:"accounts"`
	NextToken *string           `json:"nextToken,omitempty"`
}
