package domain

import (
	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single row in a trial balance report
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// ReconciliationSummaryRow summarises a bank account's reconciliation position.
type ReconciliationSummaryRow struct {
	BankAccountID     string          `json:"bankAccountID"`
	BankAccountName   string          `json:"bankAccountName"`
	BookBalance       decimal.Decimal `json:"bookBalance"`
	UnreconciledCount int             `json:"unreconciledCount"`
	UnreconciledTotal decimal.Decimal `json:"unreconciledTotal"` // Net signed sum
}
