package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/bizbooks/bizbooks_backend/internal/core/domain"
	portsrepo "github.com/bizbooks/bizbooks_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a new repository for report queries.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxReportingRepository implements portsrepo.ReportingRepository
var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// GetTrialBalanceData sums debits and credits per account over posted and
// reversed journals up to the given date. Accounts with no activity are
// included with zero totals so the report covers the full chart of accounts.
func (r *PgxReportingRepository) GetTrialBalanceData(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT a.account_id, a.name, a.account_type,
		       COALESCE(SUM(l.debit), 0) AS total_debit,
		       COALESCE(SUM(l.credit), 0) AS total_credit
		FROM accounts a
		LEFT JOIN ledger_lines l ON l.account_id = a.account_id
		LEFT JOIN journals j ON j.journal_id = l.journal_id
			AND j.status IN ('POSTED', 'REVERSED')
			AND j.journal_date <= $1
		WHERE a.is_active = TRUE
		GROUP BY a.account_id, a.name, a.account_type
		ORDER BY a.name;
	`
	rows, err := r.Pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query trial balance data: %w", err)
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		if err := rows.Scan(&row.AccountID, &row.AccountName, &row.AccountType, &row.Debit, &row.Credit); err != nil {
			return nil, fmt.Errorf("failed to scan trial balance row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trial balance rows: %w", err)
	}
	return result, nil
}

// GetReconciliationSummary reports, per bank account, the current book balance
// alongside the count and net signed total of unreconciled transactions.
func (r *PgxReportingRepository) GetReconciliationSummary(ctx context.Context) ([]domain.ReconciliationSummaryRow, error) {
	query := `
		SELECT b.bank_account_id, b.name, b.current_balance,
		       COUNT(t.transaction_id) AS unreconciled_count,
		       COALESCE(SUM(CASE WHEN t.type = 'DEPOSIT' THEN t.amount ELSE -t.amount END), 0) AS unreconciled_total
		FROM bank_accounts b
		LEFT JOIN bank_transactions t ON t.bank_account_id = b.bank_account_id
			AND t.is_reconciled = FALSE
		WHERE b.is_active = TRUE
		GROUP BY b.bank_account_id, b.name, b.current_balance
		ORDER BY b.name;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query reconciliation summary: %w", err)
	}
	defer rows.Close()

	result := []domain.ReconciliationSummaryRow{}
	for rows.Next() {
		var row domain.ReconciliationSummaryRow
		if err := rows.Scan(&row.BankAccountID, &row.BankAccountName, &row.BookBalance, &row.UnreconciledCount, &row.UnreconciledTotal); err != nil {
			return nil, fmt.Errorf("failed to scan reconciliation summary row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reconciliation summary rows: %w", err)
	}
	return result, nil
}
