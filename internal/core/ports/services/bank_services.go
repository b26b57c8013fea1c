package services

import (
	"context"

	"github.com/bizbooks/bizbooks_backend/internal/core/domain"
	"github.com/bizbooks/bizbooks_backend/internal/dto"
)

// BankAccountReaderSvc defines read operations for bank account data
type BankAccountReaderSvc interface {
	// GetBankAccountByID retrieves a specific bank account.
	GetBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error)

	// ListBankAccounts retrieves all active bank accounts.
	ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error)
}

// BankAccountWriterSvc defines write operations for bank account data
type BankAccountWriterSvc interface {
	// CreateBankAccount persists a new bank account.
	CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest, creatorUserID string) (*domain.BankAccount, error)

	// UpdateBankAccount updates an existing bank account's details.
	UpdateBankAccount(ctx context.Context, bankAccountID string, req dto.UpdateBankAccountRequest, requestingUserID string) (*domain.BankAccount, error)

	// DeactivateBankAccount marks a bank account as inactive.
	DeactivateBankAccount(ctx context.Context, bankAccountID string, requestingUserID string) error
}

// BankTransactionSvc defines operations on bank transactions
type BankTransactionSvc interface {
	// CreateBankTransaction records a transaction against a bank account and
	// adjusts its current balance.
	CreateBankTransaction(ctx context.Context, bankAccountID string, req dto.CreateBankTransactionRequest, creatorUserID string) (*domain.BankTransaction, error)

	// ListBankTransactions retrieves a paginated list of transactions for a
	// bank account, optionally filtered by reconciliation status.
	ListBankTransactions(ctx context.Context, bankAccountID string, params dto.ListBankTransactionsParams) (*dto.ListBankTransactionsResponse, error)
}

// ReconciliationSvc defines reconciliation operations
type ReconciliationSvc interface {
	// PreviewReconciliation computes the reconciliation deltas for a selection
	// of unreconciled transactions without persisting anything.
	PreviewReconciliation(ctx context.Context, bankAccountID string, req dto.ReconciliationPreviewRequest) (*dto.ReconciliationPreviewResponse, error)

	// ReconcileTransaction marks a single transaction as reconciled.
	ReconcileTransaction(ctx context.Context, bankAccountID string, transactionID string, requestingUserID string) error

	// BulkReconcile marks a set of transactions as reconciled in one atomic
	// operation; either all of them flip or none do.
	BulkReconcile(ctx context.Context, bankAccountID string, req dto.BulkReconcileRequest, requestingUserID string) (*dto.BulkReconcileResponse, error)
}

// BankSvcFacade combines all banking-related service interfaces
// This is a facade for clients that need access to all operations
type BankSvcFacade interface {
	BankAccountReaderSvc
	BankAccountWriterSvc
	BankTransactionSvc
	ReconciliationSvc
}
