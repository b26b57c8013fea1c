package repositories

import (
	"context"
	"time"

	"github.com/bizbooks/bizbooks_backend/internal/core/domain"
)

// ReportingRepository defines operations for retrieving financial report data
type ReportingRepository interface {
	// GetTrialBalanceData retrieves per-account debit/credit totals over posted
	// journals as of a specific date.
	GetTrialBalanceData(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error)

	// GetReconciliationSummary retrieves book balance and unreconciled
	// count/total for every bank account.
	GetReconciliationSummary(ctx context.Context) ([]domain.ReconciliationSummaryRow, error)
}
