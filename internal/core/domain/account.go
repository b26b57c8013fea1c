package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of a general ledger account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// Account represents a general ledger account within the core domain.
// This is the primary representation used by services.
type Account struct {
	AccountID    string          `json:"accountID"`    // Primary Key (UUID)
	Name         string          `json:"name"`         // User-defined name
	AccountType  AccountType     `json:"accountType"`  // ASSET, LIABILITY, etc.
	CurrencyCode string          `json:"currencyCode"` // ISO 4217 code
	Description  string          `json:"description"`  // Nullable user description
	IsActive     bool            `json:"isActive"`     // Soft delete flag
	AuditFields                  // Embed CreatedAt, CreatedBy, etc.
	Balance      decimal.Decimal `json:"balance"` // Persisted account balance
}
