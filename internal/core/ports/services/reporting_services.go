package services

import (
	"context"
	"time"

	"github.com/bizbooks/bizbooks_backend/internal/dto"
)

// ReportingService defines operations for generating financial reports
type ReportingService interface {
	// TrialBalance generates a trial balance report as of a specific date.
	TrialBalance(ctx context.Context, asOf time.Time) (*dto.TrialBalanceResponse, error)

	// ReconciliationSummary reports the reconciliation status of every
	// active bank account.
	ReconciliationSummary(ctx context.Context) (*dto.ReconciliationSummaryResponse, error)
}
