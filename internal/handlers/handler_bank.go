package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/bizbooks/bizbooks_backend/internal/apperrors"
	portssvc "github.com/bizbooks/bizbooks_backend/internal/core/ports/services"
	"github.com/bizbooks/bizbooks_backend/internal/core/services"
	"github.com/bizbooks/bizbooks_backend/internal/dto"
	"github.com/bizbooks/bizbooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// bankHandler handles HTTP requests for bank accounts, transactions and
// reconciliation.
type bankHandler struct {
	bankService portssvc.BankSvcFacade
}

func newBankHandler(bs portssvc.BankSvcFacade) *bankHandler {
	return &bankHandler{bankService: bs}
}

// registerBankRoutes registers routes related to bank accounts and reconciliation.
func registerBankRoutes(rg *gin.RouterGroup, bankService portssvc.BankSvcFacade) {
	h := newBankHandler(bankService)

	banks := rg.Group("/bank-accounts")
	{
		banks.POST("", h.createBankAccount)
		banks.GET("", h.listBankAccounts)
		banks.GET("/:id", h.getBankAccount)
		banks.PUT("/:id", h.updateBankAccount)
		banks.DELETE("/:id", h.deleteBankAccount)

		banks.POST("/:id/transactions", h.createTransaction)
		banks.GET("/:id/transactions", h.listTransactions)

		banks.POST("/:id/reconciliation/preview", h.previewReconciliation)
		banks.POST("/:id/transactions/:txnID/reconcile", h.reconcileTransaction)
		banks.POST("/:id/reconciliation/bulk", h.bulkReconcile)
	}
}

// createBankAccount godoc
// @Summary Create a bank account
// @Description Registers a bank account for reconciliation tracking
// @Tags banking
// @Accept json
// @Produce json
// @Param account body dto.CreateBankAccountRequest true "Bank account details"
// @Success 201 {object} dto.BankAccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create bank account"
// @Security BearerAuth
// @Router /bank-accounts [post]
func (h *bankHandler) createBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBankAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.bankService.CreateBankAccount(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create bank account in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create bank account"})
		}
		return
	}

	logger.Info("Bank account created", slog.String("bank_account_id", account.BankAccountID))
	c.JSON(http.StatusCreated, dto.ToBankAccountResponse(account))
}

// getBankAccount godoc
// @Summary Get a bank account by ID
// @Description Retrieves details for a bank account; account numbers are masked
// @Tags banking
// @Produce json
// @Param id path string true "Bank account ID"
// @Success 200 {object} dto.BankAccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Bank account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve bank account"
// @Security BearerAuth
// @Router /bank-accounts/{id} [get]
func (h *bankHandler) getBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bankAccountID := c.Param("id")

	account, err := h.bankService.GetBankAccountByID(c.Request.Context(), bankAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bank account not found"})
		} else {
			logger.Error("Failed to get bank account from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve bank account"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToBankAccountResponse(account))
}

// listBankAccounts godoc
// @Summary List bank accounts
// @Description Retrieves all active bank accounts
// @Tags banking
// @Produce json
// @Success 200 {array} dto.BankAccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list bank accounts"
// @Security BearerAuth
// @Router /bank-accounts [get]
func (h *bankHandler) listBankAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accounts, err := h.bankService.ListBankAccounts(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list bank accounts from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bank accounts"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListBankAccountResponse(accounts))
}

// updateBankAccount godoc
// @Summary Update a bank account
// @Description Updates a bank account's name or bank name
// @Tags banking
// @Accept json
// @Produce json
// @Param id path string true "Bank account ID"
// @Param account body dto.UpdateBankAccountRequest true "Fields to update"
// @Success 200 {object} dto.BankAccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Bank account not found"
// @Failure 500 {object} map[string]string "Failed to update bank account"
// @Security BearerAuth
// @Router /bank-accounts/{id} [put]
func (h *bankHandler) updateBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bankAccountID := c.Param("id")

	var req dto.UpdateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateBankAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Logged-in user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.bankService.UpdateBankAccount(c.Request.Context(), bankAccountID, req, loggedInUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bank account not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update bank account in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update bank account"})
		}
		return
	}

	logger.Info("Bank account updated", slog.String("bank_account_id", bankAccountID))
	c.JSON(http.StatusOK, dto.ToBankAccountResponse(account))
}

// deleteBankAccount godoc
// @Summary Deactivate a bank account
// @Description Marks a bank account as inactive; its transactions are retained
// @Tags banking
// @Produce json
// @Param id path string true "Bank account ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Bank account not found"
// @Failure 500 {object} map[string]string "Failed to deactivate bank account"
// @Security BearerAuth
// @Router /bank-accounts/{id} [delete]
func (h *bankHandler) deleteBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bankAccountID := c.Param("id")

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Logged-in user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.bankService.DeactivateBankAccount(c.Request.Context(), bankAccountID, loggedInUserID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bank account not found"})
		} else {
			logger.Error("Failed to deactivate bank account in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate bank account"})
		}
		return
	}

	logger.Info("Bank account deactivated", slog.String("bank_account_id", bankAccountID))
	c.Status(http.StatusNoContent)
}

// createTransaction godoc
// @Summary Record a bank transaction
// @Description Records a deposit, withdrawal or transfer and adjusts the account's current balance
// @Tags banking
// @Accept json
// @Produce json
// @Param id path string true "Bank account ID"
// @Param transaction body dto.CreateBankTransactionRequest true "Transaction details"
// @Success 201 {object} dto.BankTransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Bank account not found"
// @Failure 500 {object} map[string]string "Failed to record transaction"
// @Security BearerAuth
// @Router /bank-accounts/{id}/transactions [post]
func (h *bankHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bankAccountID := c.Param("id")

	var req dto.CreateBankTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBankTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.bankService.CreateBankTransaction(c.Request.Context(), bankAccountID, req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bank account not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to record bank transaction in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record transaction"})
		}
		return
	}

	logger.Info("Bank transaction recorded",
		slog.String("bank_account_id", bankAccountID),
		slog.String("transaction_id", txn.TransactionID),
		slog.String("type", string(txn.Type)))
	c.JSON(http.StatusCreated, dto.ToBankTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List bank transactions
// @Description Retrieves a token-paginated list of transactions for a bank account, newest first
// @Tags banking
// @Produce json
// @Param id path string true "Bank account ID"
// @Param reconciled query bool false "Filter by reconciliation state"
// @Param limit query int false "Limit number of results" default(20)
// @Param nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListBankTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Bank account not found"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Security BearerAuth
// @Router /bank-accounts/{id}/transactions [get]
func (h *bankHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bankAccountID := c.Param("id")

	var params dto.ListBankTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListBankTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.bankService.ListBankTransactions(c.Request.Context(), bankAccountID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bank account not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list bank transactions from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transactions"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// previewReconciliation godoc
// @Summary Preview a reconciliation
// @Description Computes the adjusted book balance and statement difference for a selection of unreconciled transactions without persisting anything
// @Tags banking
// @Accept json
// @Produce json
// @Param id path string true "Bank account ID"
// @Param preview body dto.ReconciliationPreviewRequest true "Selected transaction IDs and optional statement balance"
// @Success 200 {object} dto.ReconciliationPreviewResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Bank account not found"
// @Failure 500 {object} map[string]string "Failed to compute preview"
// @Security BearerAuth
// @Router /bank-accounts/{id}/reconciliation/preview [post]
func (h *bankHandler) previewReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bankAccountID := c.Param("id")

	var req dto.ReconciliationPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PreviewReconciliation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.bankService.PreviewReconciliation(c.Request.Context(), bankAccountID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bank account not found"})
		} else {
			logger.Error("Failed to compute reconciliation preview", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute preview"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// reconcileTransaction godoc
// @Summary Reconcile a single transaction
// @Description Marks one bank transaction as reconciled
// @Tags banking
// @Produce json
// @Param id path string true "Bank account ID"
// @Param txnID path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction already reconciled"
// @Failure 500 {object} map[string]string "Failed to reconcile transaction"
// @Security BearerAuth
// @Router /bank-accounts/{id}/transactions/{txnID}/reconcile [post]
func (h *bankHandler) reconcileTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bankAccountID := c.Param("id")
	transactionID := c.Param("txnID")

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Logged-in user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	err := h.bankService.ReconcileTransaction(c.Request.Context(), bankAccountID, transactionID, loggedInUserID)
	if err != nil {
		h.respondReconcileError(c, logger, err)
		return
	}

	logger.Info("Transaction reconciled",
		slog.String("bank_account_id", bankAccountID),
		slog.String("transaction_id", transactionID))
	c.Status(http.StatusNoContent)
}

// bulkReconcile godoc
// @Summary Reconcile a batch of transactions
// @Description Marks the given transactions as reconciled atomically; if any is unknown or already reconciled, none are changed
// @Tags banking
// @Accept json
// @Produce json
// @Param id path string true "Bank account ID"
// @Param batch body dto.BulkReconcileRequest true "Transaction IDs to reconcile"
// @Success 200 {object} dto.BulkReconcileResponse
// @Failure 400 {object} map[string]string "Invalid or empty selection"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction already reconciled"
// @Failure 500 {object} map[string]string "Failed to reconcile transactions"
// @Security BearerAuth
// @Router /bank-accounts/{id}/reconciliation/bulk [post]
func (h *bankHandler) bulkReconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bankAccountID := c.Param("id")

	var req dto.BulkReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for BulkReconcile", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Logged-in user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.bankService.BulkReconcile(c.Request.Context(), bankAccountID, req, loggedInUserID)
	if err != nil {
		if errors.Is(err, services.ErrEmptySelection) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.respondReconcileError(c, logger, err)
		return
	}

	logger.Info("Bulk reconciliation applied",
		slog.String("bank_account_id", bankAccountID),
		slog.Int("reconciled_count", resp.ReconciledCount))
	c.JSON(http.StatusOK, resp)
}

func (h *bankHandler) respondReconcileError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Failed to reconcile", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reconcile transactions"})
	}
}
