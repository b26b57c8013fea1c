package dto

import (
	"time"

	"github.com/bizbooks/bizbooks_backend/internal/core/domain"
	"github.com/bizbooks/bizbooks_backend/internal/utils/banking"
	"github.com/shopspring/decimal"
)

// CreateBankAccountRequest defines the data needed to register a bank account.
type CreateBankAccountRequest struct {
	Name           string          `json:"name" binding:"required"`
	BankName       string          `json:"bankName" binding:"required"`
	AccountNumber  string          `json:"accountNumber" binding:"required"`
	CurrencyCode   string          `json:"currencyCode" binding:"required,currencycode"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
}

// UpdateBankAccountRequest defines the data allowed for updating a bank account.
type UpdateBankAccountRequest struct {
	Name     *string `json:"name"`
	BankName *string `json:"bankName"`
}

// BankAccountResponse defines the data returned for a bank account.
// The account number is masked to its last four digits.
type BankAccountResponse struct {
	BankAccountID  string          `json:"bankAccountID"`
	Name           string          `json:"name"`
	BankName       string          `json:"bankName"`
	AccountNumber  string          `json:"accountNumber"`
	CurrencyCode   string          `json:"currencyCode"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	IsActive       bool            `json:"isActive"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// maskAccountNumber hides all but the last four characters.
func maskAccountNumber(number string) string {
	if len(number) <= 4 {
		return number
	}
	masked := make([]byte, len(number)-4)
	for i := range masked {
		masked[i] = '*'
	}
	return string(masked) + number[len(number)-4:]
}

// ToBankAccountResponse converts a domain.BankAccount to its response DTO.
func ToBankAccountResponse(acc *domain.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		BankAccountID:  acc.BankAccountID,
		Name:           acc.Name,
		BankName:       acc.BankName,
		AccountNumber:  maskAccountNumber(acc.AccountNumber),
		CurrencyCode:   acc.CurrencyCode,
		OpeningBalance: acc.OpeningBalance,
		CurrentBalance: acc.CurrentBalance,
		IsActive:       acc.IsActive,
		CreatedAt:      acc.CreatedAt,
	}
}

// ToListBankAccountResponse converts a slice of bank accounts to response DTOs.
func ToListBankAccountResponse(accounts []domain.BankAccount) []BankAccountResponse {
	res := make([]BankAccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToBankAccountResponse(&acc)
	}
	return res
}

// CreateBankTransactionRequest defines the data needed to record a bank transaction.
type CreateBankTransactionRequest struct {
	Type            domain.BankTransactionType `json:"type" binding:"required,oneof=DEPOSIT WITHDRAWAL TRANSFER"`
	Amount          decimal.Decimal            `json:"amount" binding:"required"`
	TransactionDate time.Time                  `json:"transactionDate" binding:"required"`
	Description     string                     `json:"description"`
	Reference       string                     `json:"reference"`
}

// BankTransactionResponse defines the data returned for a bank transaction.
type BankTransactionResponse struct {
	TransactionID   string                     `json:"transactionID"`
	BankAccountID   string                     `json:"bankAccountID"`
	Type            domain.BankTransactionType `json:"type"`
	Amount          decimal.Decimal            `json:"amount"`
	TransactionDate time.Time                  `json:"transactionDate"`
	Description     string                     `json:"description"`
	Reference       string                     `json:"reference"`
	IsReconciled    bool                       `json:"isReconciled"`
	ReconciledAt    *time.Time                 `json:"reconciledAt,omitempty"`
}

// ToBankTransactionResponse converts a domain.BankTransaction to its response DTO.
func ToBankTransactionResponse(t *domain.BankTransaction) BankTransactionResponse {
	return BankTransactionResponse{
		TransactionID:   t.TransactionID,
		BankAccountID:   t.BankAccountID,
		Type:            t.Type,
		Amount:          t.Amount,
		TransactionDate: t.TransactionDate,
		Description:     t.Description,
		Reference:       t.Reference,
		IsReconciled:    t.IsReconciled,
		ReconciledAt:    t.ReconciledAt,
	}
}

// ToBankTransactionResponses converts a slice of transactions to response DTOs.
func ToBankTransactionResponses(txns []domain.BankTransaction) []BankTransactionResponse {
	res := make([]BankTransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToBankTransactionResponse(&txns[i])
	}
	return res
}

// ListBankTransactionsParams defines query parameters for listing transactions.
type ListBankTransactionsParams struct {
	Reconciled *bool   `form:"reconciled"` // nil = all
	Limit      int     `form:"limit,default=20"`
	NextToken  *string `form:"nextToken"`
}

// ListBankTransactionsResponse wraps a page of transactions.
type ListBankTransactionsResponse struct {
	Transactions []BankTransactionResponse `json:"transactions"`
	NextToken    *string                   `json:"nextToken,omitempty"`
}

// ReconciliationPreviewRequest asks for the reconciliation deltas of a selection
// without mutating anything.
type ReconciliationPreviewRequest struct {
	SelectedTransactionIDs []string         `json:"selectedTransactionIDs"`
	StatementBalance       *decimal.Decimal `json:"statementBalance"` // Optional
}

// ReconciliationPreviewResponse returns the computed deltas.
type ReconciliationPreviewResponse struct {
	BankAccountID string                          `json:"bankAccountID"`
	BookBalance   decimal.Decimal                 `json:"bookBalance"`
	Result        banking.ReconciliationResult    `json:"result"`
}

// BulkReconcileRequest flips a set of transactions to reconciled, atomically.
type BulkReconcileRequest struct {
	TransactionIDs []string `json:"transactionIDs" binding:"required,min=1"`
}

// BulkReconcileResponse reports the outcome of a bulk reconcile.
type BulkReconcileResponse struct {
	ReconciledCount int `json:"reconciledCount"`
}
