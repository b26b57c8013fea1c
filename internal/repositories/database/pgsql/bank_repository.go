package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bizbooks/bizbooks_backend/internal/apperrors"
	"github.com/bizbooks/bizbooks_backend/internal/core/domain"
	portsrepo "github.com/bizbooks/bizbooks_backend/internal/core/ports/repositories"
	"github.com/bizbooks/bizbooks_backend/internal/models"
	"github.com/bizbooks/bizbooks_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxBankRepository struct {
	BaseRepository
}

// newPgxBankRepository creates a new repository for bank account and
// transaction data.
func newPgxBankRepository(pool *pgxpool.Pool) portsrepo.BankRepositoryFacade {
	return &PgxBankRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxBankRepository implements portsrepo.BankRepositoryFacade
var _ portsrepo.BankRepositoryFacade = (*PgxBankRepository)(nil)

func toModelBankAccount(d domain.BankAccount) models.BankAccount {
	return models.BankAccount{
		BankAccountID:  d.BankAccountID,
		Name:           d.Name,
		BankName:       d.BankName,
		AccountNumber:  d.AccountNumber,
		CurrencyCode:   d.CurrencyCode,
		OpeningBalance: d.OpeningBalance,
		CurrentBalance: d.CurrentBalance,
		IsActive:       d.IsActive,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainBankAccount(m models.BankAccount) domain.BankAccount {
	return domain.BankAccount{
		BankAccountID:  m.BankAccountID,
		Name:           m.Name,
		BankName:       m.BankName,
		AccountNumber:  m.AccountNumber,
		CurrencyCode:   m.CurrencyCode,
		OpeningBalance: m.OpeningBalance,
		CurrentBalance: m.CurrentBalance,
		IsActive:       m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func toDomainBankTransaction(m models.BankTransaction) domain.BankTransaction {
	return domain.BankTransaction{
		TransactionID:   m.TransactionID,
		BankAccountID:   m.BankAccountID,
		Type:            domain.BankTransactionType(m.Type),
		Amount:          m.Amount,
		TransactionDate: m.TransactionDate,
		Description:     m.Description,
		Reference:       m.Reference,
		IsReconciled:    m.IsReconciled,
		ReconciledAt:    m.ReconciledAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const bankAccountColumns = `bank_account_id, name, bank_name, account_number, currency_code, opening_balance, current_balance, is_active, created_at, created_by, last_updated_at, last_updated_by`

const bankTxnColumns = `transaction_id, bank_account_id, type, amount, transaction_date, description, reference, is_reconciled, reconciled_at, created_at, created_by, last_updated_at, last_updated_by`

func scanBankAccount(row pgx.Row) (models.BankAccount, error) {
	var m models.BankAccount
	err := row.Scan(
		&m.BankAccountID,
		&m.Name,
		&m.BankName,
		&m.AccountNumber,
		&m.CurrencyCode,
		&m.OpeningBalance,
		&m.CurrentBalance,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanBankTransaction(row pgx.Row) (models.BankTransaction, error) {
	var m models.BankTransaction
	err := row.Scan(
		&m.TransactionID,
		&m.BankAccountID,
		&m.Type,
		&m.Amount,
		&m.TransactionDate,
		&m.Description,
		&m.Reference,
		&m.IsReconciled,
		&m.ReconciledAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveBankAccount inserts a new bank account.
func (r *PgxBankRepository) SaveBankAccount(ctx context.Context, account domain.BankAccount) error {
	m := toModelBankAccount(account)

	query := `
		INSERT INTO bank_accounts (` + bankAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.BankAccountID,
		m.Name,
		m.BankName,
		m.AccountNumber,
		m.CurrencyCode,
		m.OpeningBalance,
		m.CurrentBalance,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: bank account with ID %s already exists", apperrors.ErrDuplicate, m.BankAccountID)
		}
		return fmt.Errorf("failed to save bank account %s: %w", m.BankAccountID, err)
	}
	return nil
}

// FindBankAccountByID retrieves a bank account by its ID.
func (r *PgxBankRepository) FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE bank_account_id = $1;`

	m, err := scanBankAccount(r.Pool.QueryRow(ctx, query, bankAccountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find bank account by ID %s: %w", bankAccountID, err)
	}

	account := toDomainBankAccount(m)
	return &account, nil
}

// ListBankAccounts retrieves all bank accounts, active first.
func (r *PgxBankRepository) ListBankAccounts(ctx context.Context, includeInactive bool) ([]domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY is_active DESC, name;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query bank accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.BankAccount{}
	for rows.Next() {
		m, err := scanBankAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank account row: %w", err)
		}
		accounts = append(accounts, toDomainBankAccount(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bank account rows: %w", err)
	}
	return accounts, nil
}

// UpdateBankAccount updates an existing bank account's mutable details.
func (r *PgxBankRepository) UpdateBankAccount(ctx context.Context, account domain.BankAccount) error {
	query := `
		UPDATE bank_accounts
		SET name = $2, bank_name = $3, last_updated_at = $4, last_updated_by = $5
		WHERE bank_account_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		account.BankAccountID,
		account.Name,
		account.BankName,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update bank account %s: %w", account.BankAccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateBankAccount marks a bank account as inactive.
func (r *PgxBankRepository) DeactivateBankAccount(ctx context.Context, bankAccountID string, userID string, now time.Time) error {
	query := `
		UPDATE bank_accounts
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE bank_account_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, bankAccountID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate bank account %s: %w", bankAccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveBankTransaction persists a new bank transaction and adjusts the owning
// account's current balance in the same database transaction.
func (r *PgxBankRepository) SaveBankTransaction(ctx context.Context, txn domain.BankTransaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO bank_transactions (` + bankTxnColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, query,
		txn.TransactionID,
		txn.BankAccountID,
		string(txn.Type),
		txn.Amount,
		txn.TransactionDate,
		txn.Description,
		txn.Reference,
		txn.IsReconciled,
		txn.ReconciledAt,
		txn.CreatedAt,
		txn.CreatedBy,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert bank transaction "+txn.TransactionID, err)
	}

	balanceQuery := `
		UPDATE bank_accounts
		SET current_balance = current_balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE bank_account_id = $1;
	`
	tag, err := tx.Exec(ctx, balanceQuery, txn.BankAccountID, txn.SignedAmount(), txn.LastUpdatedAt, txn.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to adjust balance for bank account "+txn.BankAccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

// FindBankTransactionByID retrieves a bank transaction by its ID.
func (r *PgxBankRepository) FindBankTransactionByID(ctx context.Context, transactionID string) (*domain.BankTransaction, error) {
	query := `SELECT ` + bankTxnColumns + ` FROM bank_transactions WHERE transaction_id = $1;`

	m, err := scanBankTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find bank transaction by ID %s: %w", transactionID, err)
	}

	txn := toDomainBankTransaction(m)
	return &txn, nil
}

// ListBankTransactions retrieves a token-paginated list of transactions for a
// bank account, newest first, optionally filtered by reconciliation state.
// A limit of zero or less returns all matching rows.
func (r *PgxBankRepository) ListBankTransactions(ctx context.Context, bankAccountID string, reconciled *bool, limit int, nextToken *string) ([]domain.BankTransaction, *string, error) {
	query := `SELECT ` + bankTxnColumns + ` FROM bank_transactions WHERE bank_account_id = $1`
	args := []interface{}{bankAccountID}
	argPos := 2

	if reconciled != nil {
		query += fmt.Sprintf(" AND is_reconciled = $%d", argPos)
		args = append(args, *reconciled)
		argPos++
	}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, decodeErr)
		}
		query += fmt.Sprintf(" AND (transaction_date, created_at) < ($%d, $%d)", argPos, argPos+1)
		args = append(args, lastDate, lastCreatedAt)
		argPos += 2
	}

	query += " ORDER BY transaction_date DESC, created_at DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argPos)
		args = append(args, limit+1)
	}
	query += ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query bank transactions for account %s: %w", bankAccountID, err)
	}
	defer rows.Close()

	txns := []domain.BankTransaction{}
	for rows.Next() {
		m, err := scanBankTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan bank transaction row: %w", err)
		}
		txns = append(txns, toDomainBankTransaction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating bank transaction rows: %w", err)
	}

	var newToken *string
	if limit > 0 && len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		token := pagination.EncodeToken(last.TransactionDate, last.CreatedAt)
		newToken = &token
	}

	return txns, newToken, nil
}

// FindUnreconciledByIDs retrieves the given transactions, failing with
// apperrors.ErrNotFound if any ID is unknown (or belongs to a different
// account) and apperrors.ErrConflict if any is already reconciled.
func (r *PgxBankRepository) FindUnreconciledByIDs(ctx context.Context, bankAccountID string, transactionIDs []string) ([]domain.BankTransaction, error) {
	if len(transactionIDs) == 0 {
		return []domain.BankTransaction{}, nil
	}

	query := `SELECT ` + bankTxnColumns + ` FROM bank_transactions WHERE bank_account_id = $1 AND transaction_id = ANY($2);`

	rows, err := r.Pool.Query(ctx, query, bankAccountID, transactionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query bank transactions by IDs: %w", err)
	}
	defer rows.Close()

	found := make(map[string]domain.BankTransaction, len(transactionIDs))
	for rows.Next() {
		m, err := scanBankTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank transaction row: %w", err)
		}
		found[m.TransactionID] = toDomainBankTransaction(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bank transaction rows: %w", err)
	}

	txns := make([]domain.BankTransaction, 0, len(transactionIDs))
	for _, id := range transactionIDs {
		txn, ok := found[id]
		if !ok {
			return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, id)
		}
		if txn.IsReconciled {
			return nil, fmt.Errorf("%w: transaction %s is already reconciled", apperrors.ErrConflict, id)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// MarkReconciled flips the given transactions to reconciled inside one
// database transaction; either all flip or none do.
func (r *PgxBankRepository) MarkReconciled(ctx context.Context, bankAccountID string, transactionIDs []string, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE bank_transactions
		SET is_reconciled = TRUE, reconciled_at = $3, last_updated_at = $3, last_updated_by = $4
		WHERE bank_account_id = $1 AND transaction_id = ANY($2) AND is_reconciled = FALSE;
	`
	tag, err := tx.Exec(ctx, query, bankAccountID, transactionIDs, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark transactions reconciled", err)
	}
	if tag.RowsAffected() != int64(len(transactionIDs)) {
		// A transaction vanished or was reconciled concurrently; roll back so
		// the flip stays all-or-nothing.
		return fmt.Errorf("%w: expected to reconcile %d transactions, matched %d",
			apperrors.ErrConflict, len(transactionIDs), tag.RowsAffected())
	}

	return r.Commit(ctx, tx)
}
