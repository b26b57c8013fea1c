package models

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

// BankAccount represents a bank account row.
type BankAccount struct {
	BankAccountID  string          `db:"bank_account_id"`
	Name           string          `db:"name"`
	BankName       string          `db:"bank_name"`
	AccountNumber  string          `db:"account_number"`
	CurrencyCode   string          `db:"currency_code"`
	OpeningBalance decimal.Decimal `db:"opening_balance"`
	CurrentBalance decimal.Decimal `db:"current_balance"`
	IsActive       bool            `db:"is_active"`
	AuditFields
}

// BankTransaction represents a bank transaction row.
type BankTransaction struct {
	TransactionID   string              `db:"transaction_id"`
	BankAccountID   string              `db:"bank_account_id"`
	Type            BankTransactionType `db:"type"`
	Amount          decimal.Decimal     `db:"amount"`
	TransactionDate time.Time           `db:"transaction_date"`
	Description     string              `db:"description"`
	Reference       string              `db:"reference"`
	IsReconciled    bool                `db:"is_reconciled"`
	ReconciledAt    *time.Time          `db:"reconciled_at"`
	AuditFields
}
