package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bizbooks/bizbooks_backend/internal/apperrors"
	"github.com/bizbooks/bizbooks_backend/internal/core/domain"
	portsrepo "github.com/bizbooks/bizbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/bizbooks/bizbooks_backend/internal/core/ports/services"
	"github.com/bizbooks/bizbooks_backend/internal/dto"
	"github.com/bizbooks/bizbooks_backend/internal/middleware"
	"github.com/bizbooks/bizbooks_backend/internal/realtime"
	"github.com/bizbooks/bizbooks_backend/internal/utils/banking"
)

var ErrEmptySelection = errors.New("no transactions selected")

// bankService provides bank account, transaction, and reconciliation operations.
// Reconciliation outcomes are pushed to the notification store so connected
// clients see them without polling.
type bankService struct {
	bankRepo      portsrepo.BankRepositoryFacade
	notifications *realtime.Store
}

// NewBankService creates a new bank service. The notification store may be nil,
// in which case no notifications are published.
func NewBankService(bankRepo portsrepo.BankRepositoryFacade, notifications *realtime.Store) portssvc.BankSvcFacade {
	return &bankService{
		bankRepo:      bankRepo,
		notifications: notifications,
	}
}

// Ensure bankService implements the portssvc.BankSvcFacade interface
var _ portssvc.BankSvcFacade = (*bankService)(nil)

func (s *bankService) notify(nType domain.NotificationType, title, message string) {
	if s.notifications == nil {
		return
	}
	s.notifications.Publish(domain.Notification{
		Type:    nType,
		Title:   title,
		Message: message,
	})
}

// CreateBankAccount persists a new bank account.
func (s *bankService) CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest, creatorUserID string) (*domain.BankAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	account := domain.BankAccount{
		BankAccountID:  uuid.NewString(),
		Name:           req.Name,
		BankName:       req.BankName,
		AccountNumber:  req.AccountNumber,
		CurrencyCode:   req.CurrencyCode,
		OpeningBalance: req.OpeningBalance,
		CurrentBalance: req.OpeningBalance,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.bankRepo.SaveBankAccount(ctx, account); err != nil {
		logger.Error("Failed to save bank account", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save bank account: %w", err)
	}

	logger.Info("Bank account created", slog.String("bank_account_id", account.BankAccountID))
	return &account, nil
}

// GetBankAccountByID retrieves a specific bank account.
func (s *bankService) GetBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	account, err := s.bankRepo.FindBankAccountByID(ctx, bankAccountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find bank account", slog.String("error", err.Error()), slog.String("bank_account_id", bankAccountID))
		}
		return nil, fmt.Errorf("failed to find bank account %s: %w", bankAccountID, err)
	}
	return account, nil
}

// ListBankAccounts retrieves all active bank accounts.
func (s *bankService) ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error) {
	accounts, err := s.bankRepo.ListBankAccounts(ctx, false)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list bank accounts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve bank accounts: %w", err)
	}
	return accounts, nil
}

// UpdateBankAccount updates an existing bank account's details.
func (s *bankService) UpdateBankAccount(ctx context.Context, bankAccountID string, req dto.UpdateBankAccountRequest, requestingUserID string) (*domain.BankAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.bankRepo.FindBankAccountByID(ctx, bankAccountID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.BankName != nil {
		account.BankName = *req.BankName
		updated = true
	}
	if !updated {
		return account, nil
	}

	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = requestingUserID

	if err := s.bankRepo.UpdateBankAccount(ctx, *account); err != nil {
		logger.Error("Failed to update bank account", slog.String("error", err.Error()), slog.String("bank_account_id", bankAccountID))
		return nil, fmt.Errorf("failed to update bank account: %w", err)
	}

	logger.Info("Bank account updated", slog.String("bank_account_id", bankAccountID))
	return account, nil
}

// DeactivateBankAccount marks a bank account as inactive.
func (s *bankService) DeactivateBankAccount(ctx context.Context, bankAccountID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.bankRepo.FindBankAccountByID(ctx, bankAccountID); err != nil {
		return err
	}

	if err := s.bankRepo.DeactivateBankAccount(ctx, bankAccountID, requestingUserID, time.Now().UTC()); err != nil {
		logger.Error("Failed to deactivate bank account", slog.String("error", err.Error()), slog.String("bank_account_id", bankAccountID))
		return fmt.Errorf("failed to deactivate bank account: %w", err)
	}

	logger.Info("Bank account deactivated", slog.String("bank_account_id", bankAccountID))
	return nil
}

// CreateBankTransaction records a transaction against a bank account and
// adjusts its current balance.
func (s *bankService) CreateBankTransaction(ctx context.Context, bankAccountID string, req dto.CreateBankTransactionRequest, creatorUserID string) (*domain.BankTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.IsNegative() || req.Amount.IsZero() {
		return nil, fmt.Errorf("%w: transaction amount must be positive", apperrors.ErrValidation)
	}

	account, err := s.bankRepo.FindBankAccountByID(ctx, bankAccountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: bank account %s is inactive", apperrors.ErrValidation, bankAccountID)
	}

	now := time.Now().UTC()
	txn := domain.BankTransaction{
		TransactionID:   uuid.NewString(),
		BankAccountID:   bankAccountID,
		Type:            req.Type,
		Amount:          req.Amount,
		TransactionDate: req.TransactionDate,
		Description:     req.Description,
		Reference:       req.Reference,
		IsReconciled:    false,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.bankRepo.SaveBankTransaction(ctx, txn); err != nil {
		logger.Error("Failed to save bank transaction", slog.String("error", err.Error()), slog.String("bank_account_id", bankAccountID))
		return nil, fmt.Errorf("failed to save bank transaction: %w", err)
	}

	logger.Info("Bank transaction recorded", slog.String("transaction_id", txn.TransactionID), slog.String("type", string(txn.Type)))
	return &txn, nil
}

// ListBankTransactions retrieves a paginated list of transactions for a bank
// account, optionally filtered by reconciliation status.
func (s *bankService) ListBankTransactions(ctx context.Context, bankAccountID string, params dto.ListBankTransactionsParams) (*dto.ListBankTransactionsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	txns, nextToken, err := s.bankRepo.ListBankTransactions(ctx, bankAccountID, params.Reconciled, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list bank transactions", slog.String("error", err.Error()), slog.String("bank_account_id", bankAccountID))
		return nil, fmt.Errorf("failed to retrieve bank transactions: %w", err)
	}

	return &dto.ListBankTransactionsResponse{
		Transactions: dto.ToBankTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}

// PreviewReconciliation computes the reconciliation deltas for a selection of
// unreconciled transactions without persisting anything.
func (s *bankService) PreviewReconciliation(ctx context.Context, bankAccountID string, req dto.ReconciliationPreviewRequest) (*dto.ReconciliationPreviewResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.bankRepo.FindBankAccountByID(ctx, bankAccountID)
	if err != nil {
		return nil, err
	}

	reconciled := false
	unreconciled, _, err := s.bankRepo.ListBankTransactions(ctx, bankAccountID, &reconciled, 0, nil)
	if err != nil {
		logger.Error("Failed to list unreconciled transactions for preview", slog.String("error", err.Error()), slog.String("bank_account_id", bankAccountID))
		return nil, fmt.Errorf("failed to retrieve unreconciled transactions: %w", err)
	}

	result := banking.Calculate(account.CurrentBalance, req.SelectedTransactionIDs, unreconciled, req.StatementBalance)

	return &dto.ReconciliationPreviewResponse{
		BankAccountID: bankAccountID,
		BookBalance:   account.CurrentBalance,
		Result:        result,
	}, nil
}

// ReconcileTransaction marks a single transaction as reconciled.
func (s *bankService) ReconcileTransaction(ctx context.Context, bankAccountID string, transactionID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	txns, err := s.bankRepo.FindUnreconciledByIDs(ctx, bankAccountID, []string{transactionID})
	if err != nil {
		return err
	}

	if err := s.bankRepo.MarkReconciled(ctx, bankAccountID, []string{transactionID}, requestingUserID, time.Now().UTC()); err != nil {
		logger.Error("Failed to mark transaction reconciled", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return fmt.Errorf("failed to reconcile transaction: %w", err)
	}

	logger.Info("Transaction reconciled", slog.String("transaction_id", transactionID))
	s.notify(domain.NotificationSuccess, "Transaction reconciled",
		fmt.Sprintf("Reconciled %s of %s", txns[0].Type, txns[0].Amount.StringFixed(2)))
	return nil
}

// BulkReconcile marks a set of transactions as reconciled in one atomic
// operation; either all of them flip or none do.
func (s *bankService) BulkReconcile(ctx context.Context, bankAccountID string, req dto.BulkReconcileRequest, requestingUserID string) (*dto.BulkReconcileResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	ids := uniqueStrings(req.TransactionIDs)
	if len(ids) == 0 {
		return nil, ErrEmptySelection
	}

	// Validates every ID up front: unknown -> ErrNotFound, already
	// reconciled -> ErrConflict. Nothing flips unless all pass.
	if _, err := s.bankRepo.FindUnreconciledByIDs(ctx, bankAccountID, ids); err != nil {
		return nil, err
	}

	if err := s.bankRepo.MarkReconciled(ctx, bankAccountID, ids, requestingUserID, time.Now().UTC()); err != nil {
		logger.Error("Failed to bulk reconcile transactions", slog.String("error", err.Error()), slog.String("bank_account_id", bankAccountID), slog.Int("count", len(ids)))
		return nil, fmt.Errorf("failed to reconcile transactions: %w", err)
	}

	logger.Info("Transactions reconciled in bulk", slog.String("bank_account_id", bankAccountID), slog.Int("count", len(ids)))
	s.notify(domain.NotificationSuccess, "Reconciliation complete",
		fmt.Sprintf("%d transactions reconciled", len(ids)))

	return &dto.BulkReconcileResponse{ReconciledCount: len(ids)}, nil
}
