package dto

import (
	"time"

	"github.com/bizbooks/bizbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceParams defines query parameters for the trial balance report.
type TrialBalanceParams struct {
	AsOf *time.Time `form:"asOf" time_format:"2006-01-02"`
}

// TrialBalanceResponse returns per-account debit/credit totals plus the
// grand totals used to verify the ledger balances overall.
type TrialBalanceResponse struct {
	Rows         []domain.TrialBalanceRow `json:"rows"`
	TotalDebits  decimal.Decimal          `json:"totalDebits"`
	TotalCredits decimal.Decimal          `json:"totalCredits"`
	IsBalanced   bool                     `json:"isBalanced"`
}

// ReconciliationSummaryResponse returns the per-bank-account reconciliation status.
type ReconciliationSummaryResponse struct {
	Rows []domain.ReconciliationSummaryRow `json:"rows"`
}
