package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// NormalBalance indicates which side increases an account's balance.
type NormalBalance string

const (
	NormalDebit  NormalBalance = "DEBIT"
	NormalCredit NormalBalance = "CREDIT"
)

// DefaultNormalBalance returns the conventional normal-balance side for an account type.
// Asset and Expense accounts grow on the debit side; the rest grow on the credit side.
func DefaultNormalBalance(t AccountType) NormalBalance {
	switch t {
	case Asset, Expense:
		return NormalDebit
	default:
		return NormalCredit
	}
}

// Account represents a chart-of-accounts node (head of account) within a company.
// Its balance changes only through posted journal lines; accounts are deactivated,
// never deleted.
type Account struct {
	AccountID     string          `json:"accountID"`     // Primary Key (UUID)
	CompanyID     string          `json:"companyID"`     // Owning company (Not Null)
	AccountCode   string          `json:"accountCode"`   // Human-readable code, unique per company
	Name          string          `json:"name"`          // User-defined name
	AccountType   AccountType     `json:"accountType"`   // ASSET, LIABILITY, etc.
	NormalBalance NormalBalance   `json:"normalBalance"` // DEBIT or CREDIT
	ParentCode    string          `json:"parentCode"`    // Nullable, self-referencing by code
	Description   string          `json:"description"`
	IsActive      bool            `json:"isActive"`
	Balance       decimal.Decimal `json:"balance"` // Persisted running balance
	AuditFields
}
