package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	portsrepo "github.com/bizbooks/bizbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/bizbooks/bizbooks_backend/internal/core/ports/services"
	"github.com/bizbooks/bizbooks_backend/internal/dto"
	"github.com/bizbooks/bizbooks_backend/internal/middleware"
)

// reportingService generates financial reports from posted ledger data.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingRepository) portssvc.ReportingService {
	return &reportingService{reportingRepo: reportingRepo}
}

// Ensure reportingService implements the portssvc.ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// TrialBalance generates a trial balance report as of a specific date.
// For a consistent ledger the grand debit and credit totals are equal.
func (s *reportingService) TrialBalance(ctx context.Context, asOf time.Time) (*dto.TrialBalanceResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	rows, err := s.reportingRepo.GetTrialBalanceData(ctx, asOf)
	if err != nil {
		logger.Error("Failed to fetch trial balance data", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to generate trial balance: %w", err)
	}

	totalDebits := decimal.Zero
	totalCredits := decimal.Zero
	for _, row := range rows {
		totalDebits = totalDebits.Add(row.Debit)
		totalCredits = totalCredits.Add(row.Credit)
	}

	resp := &dto.TrialBalanceResponse{
		Rows:         rows,
		TotalDebits:  totalDebits,
		TotalCredits: totalCredits,
		IsBalanced:   totalDebits.Equal(totalCredits),
	}

	if !resp.IsBalanced {
		logger.Warn("Trial balance does not balance",
			slog.String("total_debits", totalDebits.String()),
			slog.String("total_credits", totalCredits.String()))
	}
	return resp, nil
}

// ReconciliationSummary reports the reconciliation status of every active bank account.
func (s *reportingService) ReconciliationSummary(ctx context.Context) (*dto.ReconciliationSummaryResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	rows, err := s.reportingRepo.GetReconciliationSummary(ctx)
	if err != nil {
		logger.Error("Failed to fetch reconciliation summary", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to generate reconciliation summary: %w", err)
	}

	return &dto.ReconciliationSummaryResponse{Rows: rows}, nil
}
