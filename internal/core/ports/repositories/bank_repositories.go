package repositories

import (
	"context"
	"time"

	"github.com/bizbooks/bizbooks_backend/internal/core/domain"
)

// BankAccountReader defines read operations for bank account data
type BankAccountReader interface {
	// FindBankAccountByID retrieves a specific bank account by its identifier.
	FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error)

	// ListBankAccounts retrieves all bank accounts, active first.
	ListBankAccounts(ctx context.Context, includeInactive bool) ([]domain.BankAccount, error)
}

// BankAccountWriter defines write operations for bank account data
type BankAccountWriter interface {
	// SaveBankAccount persists a new bank account.
	SaveBankAccount(ctx context.Context, account domain.BankAccount) error

	// UpdateBankAccount updates an existing bank account's details.
	UpdateBankAccount(ctx context.Context, account domain.BankAccount) error

	// DeactivateBankAccount marks a bank account as inactive.
	DeactivateBankAccount(ctx context.Context, bankAccountID string, userID string, now time.Time) error
}

// BankTransactionReader defines read operations for bank transaction data
type BankTransactionReader interface {
	// FindBankTransactionByID retrieves a specific bank transaction.
	FindBankTransactionByID(ctx context.Context, transactionID string) (*domain.BankTransaction, error)

	// ListBankTransactions retrieves a token-paginated list of transactions for a
	// bank account, optionally filtered by reconciliation state (nil = all).
	ListBankTransactions(ctx context.Context, bankAccountID string, reconciled *bool, limit int, nextToken *string) ([]domain.BankTransaction, *string, error)

	// FindUnreconciledByIDs retrieves the given transactions, failing with
	// apperrors.ErrNotFound if any ID is unknown and apperrors.ErrConflict if
	// any is already reconciled.
	FindUnreconciledByIDs(ctx context.Context, bankAccountID string, transactionIDs []string) ([]domain.BankTransaction, error)
}

// BankTransactionWriter defines write operations for bank transaction data
type BankTransactionWriter interface {
	// SaveBankTransaction persists a new bank transaction and adjusts the owning
	// account's current balance in the same database transaction.
	SaveBankTransaction(ctx context.Context, txn domain.BankTransaction) error

	// MarkReconciled flips the given transactions to reconciled inside one
	// database transaction; either all flip or none do.
	MarkReconciled(ctx context.Context, bankAccountID string, transactionIDs []string, userID string, now time.Time) error
}

// BankRepositoryFacade combines all banking repository interfaces
type BankRepositoryFacade interface {
	BankAccountReader
	BankAccountWriter
	BankTransactionReader
	BankTransactionWriter
}
