package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankTransactionType indicates the direction of money movement on a bank account.
type BankTransactionType string

const (
	Deposit    BankTransactionType = "DEPOSIT"
	Withdrawal BankTransactionType = "WITHDRAWAL"
	Transfer   BankTransactionType = "TRANSFER"
)

// BankAccount represents a real-world bank account tracked for reconciliation.
// CurrentBalance is maintained server-side as transactions are recorded; clients
// only read it to compute reconciliation deltas.
type BankAccount struct {
	BankAccountID  string          `json:"bankAccountID"` // Primary Key (UUID)
	Name           string          `json:"name"`
	BankName       string          `json:"bankName"`
	AccountNumber  string          `json:"accountNumber"` // Masked on output
	CurrencyCode   string          `json:"currencyCode"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	IsActive       bool            `json:"isActive"`
	AuditFields
}

// BankTransaction represents a single movement on a bank account.
// Reconciliation flips IsReconciled to true; there is no unreconcile operation.
type BankTransaction struct {
	TransactionID   string              `json:"transactionID"` // Primary Key (UUID)
	BankAccountID   string              `json:"bankAccountID"` // FK -> BankAccount
	Type            BankTransactionType `json:"type"`
	Amount          decimal.Decimal     `json:"amount"` // Always positive; Type carries direction
	TransactionDate time.Time           `json:"transactionDate"`
	Description     string              `json:"description"`
	Reference       string              `json:"reference"`
	IsReconciled    bool                `json:"isReconciled"`
	ReconciledAt    *time.Time          `json:"reconciledAt,omitempty"`
	AuditFields
}

// SignedAmount returns the transaction amount with its direction applied:
// deposits add to the balance, withdrawals and transfers subtract.
func (t BankTransaction) SignedAmount() decimal.Decimal {
	if t.Type == Deposit {
		return t.Amount
	}
	return t.Amount.Neg()
}
