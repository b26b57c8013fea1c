package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/bizbooks/bizbooks_backend/internal/apperrors"
	"github.com/bizbooks/bizbooks_backend/internal/core/domain"
	portsrepo "github.com/bizbooks/bizbooks_backend/internal/core/ports/repositories"
	"github.com/bizbooks/bizbooks_backend/internal/models"
	"github.com/bizbooks/bizbooks_backend/internal/utils/accounting"
	"github.com/bizbooks/bizbooks_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxJournalRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxJournalRepository creates a new repository for journal data. It needs
// the account repository to lock and update account balances while posting.
func newPgxJournalRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func toModelJournal(d domain.Journal) models.Journal {
	return models.Journal{
		JournalID:          d.JournalID,
		EntryNumber:        d.EntryNumber,
		JournalDate:        d.JournalDate,
		Description:        d.Description,
		Reference:          d.Reference,
		CurrencyCode:       d.CurrencyCode,
		Status:             models.JournalStatus(d.Status),
		Amount:             d.Amount,
		OriginalJournalID:  d.OriginalJournalID,
		ReversingJournalID: d.ReversingJournalID,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainJournal(m models.Journal) domain.Journal {
	return domain.Journal{
		JournalID:          m.JournalID,
		EntryNumber:        m.EntryNumber,
		JournalDate:        m.JournalDate,
		Description:        m.Description,
		Reference:          m.Reference,
		CurrencyCode:       m.CurrencyCode,
		Status:             domain.JournalStatus(m.Status),
		Amount:             m.Amount,
		OriginalJournalID:  m.OriginalJournalID,
		ReversingJournalID: m.ReversingJournalID,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func toDomainLine(m models.LedgerLine) domain.LedgerLine {
	return domain.LedgerLine{
		LineID:      m.LineID,
		JournalID:   m.JournalID,
		AccountID:   m.AccountID,
		Description: m.Description,
		Debit:       m.Debit,
		Credit:      m.Credit,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
		RunningBalance: m.RunningBalance,
	}
}

const journalColumns = `journal_id, entry_number, journal_date, description, reference, currency_code, status, amount, original_journal_id, reversing_journal_id, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, journal_id, account_id, description, debit, credit, created_at, created_by, last_updated_at, last_updated_by, running_balance`

func scanJournal(row pgx.Row) (models.Journal, error) {
	var m models.Journal
	err := row.Scan(
		&m.JournalID,
		&m.EntryNumber,
		&m.JournalDate,
		&m.Description,
		&m.Reference,
		&m.CurrencyCode,
		&m.Status,
		&m.Amount,
		&m.OriginalJournalID,
		&m.ReversingJournalID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanLine(row pgx.Row) (models.LedgerLine, error) {
	var m models.LedgerLine
	err := row.Scan(
		&m.LineID,
		&m.JournalID,
		&m.AccountID,
		&m.Description,
		&m.Debit,
		&m.Credit,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.RunningBalance,
	)
	return m, err
}

// insertJournalTx inserts the journal header row inside the given transaction.
func insertJournalTx(ctx context.Context, tx pgx.Tx, journal domain.Journal) error {
	m := toModelJournal(journal)
	query := `
		INSERT INTO journals (` + journalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := tx.Exec(ctx, query,
		m.JournalID,
		m.EntryNumber,
		m.JournalDate,
		m.Description,
		m.Reference,
		m.CurrencyCode,
		m.Status,
		m.Amount,
		m.OriginalJournalID,
		m.ReversingJournalID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert journal "+m.JournalID, err)
	}
	return nil
}

// queueLineInserts queues inserts for the given lines on the batch.
func queueLineInserts(batch *pgx.Batch, lines []domain.LedgerLine) {
	query := `
		INSERT INTO ledger_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	for _, line := range lines {
		batch.Queue(query,
			line.LineID,
			line.JournalID,
			line.AccountID,
			line.Description,
			line.Debit,
			line.Credit,
			line.CreatedAt,
			line.CreatedBy,
			line.LastUpdatedAt,
			line.LastUpdatedBy,
			line.RunningBalance,
		)
	}
}

// NextEntryNumber reserves and returns the next journal entry sequence number.
func (r *PgxJournalRepository) NextEntryNumber(ctx context.Context) (int64, error) {
	var seq int64
	if err := r.Pool.QueryRow(ctx, `SELECT nextval('journal_entry_seq');`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("failed to get next entry number: %w", err)
	}
	return seq, nil
}

// SaveDraft persists a new draft journal with its lines. No account balances change.
func (r *PgxJournalRepository) SaveDraft(ctx context.Context, journal domain.Journal, lines []domain.LedgerLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertJournalTx(ctx, tx, journal); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	queueLineInserts(batch, lines)
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for journal "+journal.JournalID, err)
	}

	return r.Commit(ctx, tx)
}

// UpdateDraft replaces a draft journal's details and lines. The WHERE guard on
// status makes a concurrent post lose gracefully rather than corrupt the draft.
func (r *PgxJournalRepository) UpdateDraft(ctx context.Context, journal domain.Journal, lines []domain.LedgerLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := toModelJournal(journal)
	query := `
		UPDATE journals
		SET journal_date = $2, description = $3, reference = $4, amount = $5, last_updated_at = $6, last_updated_by = $7
		WHERE journal_id = $1 AND status = 'DRAFT';
	`
	tag, err := tx.Exec(ctx, query,
		m.JournalID,
		m.JournalDate,
		m.Description,
		m.Reference,
		m.Amount,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update draft journal "+m.JournalID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal %s is not an editable draft", apperrors.ErrConflict, m.JournalID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM ledger_lines WHERE journal_id = $1;`, m.JournalID); err != nil {
		return apperrors.NewAppError(500, "failed to clear lines for journal "+m.JournalID, err)
	}

	batch := &pgx.Batch{}
	queueLineInserts(batch, lines)
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for journal "+m.JournalID, err)
	}

	return r.Commit(ctx, tx)
}

// DeleteDraft removes a draft journal and its lines.
func (r *PgxJournalRepository) DeleteDraft(ctx context.Context, journalID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM ledger_lines WHERE journal_id = $1;`, journalID); err != nil {
		return apperrors.NewAppError(500, "failed to delete lines for journal "+journalID, err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM journals WHERE journal_id = $1 AND status = 'DRAFT';`, journalID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete draft journal "+journalID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal %s is not a deletable draft", apperrors.ErrConflict, journalID)
	}

	return r.Commit(ctx, tx)
}

// applyPosting locks the affected accounts, applies the balance deltas, and
// writes per-line running balances. Shared by PostJournal and SavePosted.
func (r *PgxJournalRepository) applyPosting(ctx context.Context, tx pgx.Tx, lines []domain.LedgerLine, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) ([]domain.LedgerLine, error) {
	accountIDs := make([]string, 0, len(balanceChanges))
	for accID := range balanceChanges {
		accountIDs = append(accountIDs, accID)
	}

	lockedAccounts, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to lock accounts for update", err)
	}
	for _, accID := range accountIDs {
		if _, ok := lockedAccounts[accID]; !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accID)
		}
	}

	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, userID, now); err != nil {
		return nil, apperrors.NewAppError(500, "failed to update account balances", err)
	}

	// Running balances start from the balance before this journal's changes
	// and accumulate line by line in a deterministic order.
	currentRunningBalances := make(map[string]decimal.Decimal, len(lockedAccounts))
	for accID, acc := range lockedAccounts {
		currentRunningBalances[accID] = acc.Balance
	}

	sorted := make([]domain.LedgerLine, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LineID < sorted[j].LineID
	})

	for i := range sorted {
		acc := lockedAccounts[sorted[i].AccountID]
		signedAmount, err := accounting.CalculateSignedAmount(sorted[i], acc.AccountType)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to calculate signed amount for line "+sorted[i].LineID, err)
		}
		newBalance := currentRunningBalances[sorted[i].AccountID].Add(signedAmount)
		sorted[i].RunningBalance = newBalance
		currentRunningBalances[sorted[i].AccountID] = newBalance
	}

	return sorted, nil
}

// PostJournal transitions a draft to POSTED and applies the account balance
// changes atomically, writing running balances onto the existing lines.
func (r *PgxJournalRepository) PostJournal(ctx context.Context, journal domain.Journal, lines []domain.LedgerLine, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE journals
		SET status = 'POSTED', amount = $2, last_updated_at = $3, last_updated_by = $4
		WHERE journal_id = $1 AND status = 'DRAFT';
	`
	tag, err := tx.Exec(ctx, query, journal.JournalID, journal.Amount, journal.LastUpdatedAt, journal.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to post journal "+journal.JournalID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal %s is not a postable draft", apperrors.ErrConflict, journal.JournalID)
	}

	posted, err := r.applyPosting(ctx, tx, lines, balanceChanges, journal.LastUpdatedBy, journal.LastUpdatedAt)
	if err != nil {
		return err
	}

	batch := &pgx.Batch{}
	lineQuery := `UPDATE ledger_lines SET running_balance = $2, last_updated_at = $3, last_updated_by = $4 WHERE line_id = $1;`
	for _, line := range posted {
		batch.Queue(lineQuery, line.LineID, line.RunningBalance, journal.LastUpdatedAt, journal.LastUpdatedBy)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to update running balances for journal "+journal.JournalID, err)
	}

	return r.Commit(ctx, tx)
}

// SavePosted persists a new journal directly in POSTED state (used for
// reversals), applying balance changes in the same database transaction.
func (r *PgxJournalRepository) SavePosted(ctx context.Context, journal domain.Journal, lines []domain.LedgerLine, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertJournalTx(ctx, tx, journal); err != nil {
		return err
	}

	posted, err := r.applyPosting(ctx, tx, lines, balanceChanges, journal.CreatedBy, journal.CreatedAt)
	if err != nil {
		return err
	}

	batch := &pgx.Batch{}
	queueLineInserts(batch, posted)
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for journal "+journal.JournalID, err)
	}

	return r.Commit(ctx, tx)
}

// UpdateJournalStatusAndLinks updates the status and reversal linkage of a journal.
func (r *PgxJournalRepository) UpdateJournalStatusAndLinks(ctx context.Context, journalID string, status domain.JournalStatus, reversingJournalID *string, updatedByUserID string, updatedAt time.Time) error {
	query := `
		UPDATE journals
		SET status = $2, reversing_journal_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE journal_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, journalID, string(status), reversingJournalID, updatedAt, updatedByUserID)
	if err != nil {
		return fmt.Errorf("failed to update journal status for %s: %w", journalID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindJournalByID retrieves a journal by its ID.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE journal_id = $1;`

	m, err := scanJournal(r.Pool.QueryRow(ctx, query, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal by ID %s: %w", journalID, err)
	}

	journal := toDomainJournal(m)
	return &journal, nil
}

// ListJournals retrieves a paginated list of journals using token-based keyset
// pagination ordered by (journal_date, created_at) descending.
func (r *PgxJournalRepository) ListJournals(ctx context.Context, limit int, nextToken *string, includeReversals bool) ([]domain.Journal, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + journalColumns + ` FROM journals`
	conditions := []string{}
	args := []interface{}{}
	argPos := 1

	if !includeReversals {
		conditions = append(conditions, "original_journal_id IS NULL")
	}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, decodeErr)
		}
		conditions = append(conditions, fmt.Sprintf("(journal_date, created_at) < ($%d, $%d)", argPos, argPos+1))
		args = append(args, lastDate, lastCreatedAt)
		argPos += 2
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	// Fetch one extra row to detect whether another page exists.
	query += fmt.Sprintf(" ORDER BY journal_date DESC, created_at DESC LIMIT $%d;", argPos)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query journals: %w", err)
	}
	defer rows.Close()

	journals := []domain.Journal{}
	for rows.Next() {
		m, err := scanJournal(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		journals = append(journals, toDomainJournal(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating journal rows: %w", err)
	}

	var newToken *string
	if len(journals) > limit {
		journals = journals[:limit]
		last := journals[len(journals)-1]
		token := pagination.EncodeToken(last.JournalDate, last.CreatedAt)
		newToken = &token
	}

	return journals, newToken, nil
}

// FindLinesByJournalID retrieves all ledger lines of a single journal.
func (r *PgxJournalRepository) FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.LedgerLine, error) {
	query := `SELECT ` + lineColumns + ` FROM ledger_lines WHERE journal_id = $1 ORDER BY created_at, line_id;`

	rows, err := r.Pool.Query(ctx, query, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for journal %s: %w", journalID, err)
	}
	defer rows.Close()

	lines := []domain.LedgerLine{}
	for rows.Next() {
		m, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line row: %w", err)
		}
		lines = append(lines, toDomainLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows: %w", err)
	}
	return lines, nil
}

// ListLinesByAccountID retrieves a paginated list of posted ledger lines for a
// specific account, newest first, with journal details denormalised in.
func (r *PgxJournalRepository) ListLinesByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerLine, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT l.line_id, l.journal_id, l.account_id, l.description, l.debit, l.credit,
		       l.created_at, l.created_by, l.last_updated_at, l.last_updated_by, l.running_balance,
		       j.journal_date, j.description
		FROM ledger_lines l
		JOIN journals j ON j.journal_id = l.journal_id
		WHERE l.account_id = $1 AND j.status IN ('POSTED', 'REVERSED')
	`
	args := []interface{}{accountID}
	argPos := 2

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, decodeErr)
		}
		query += fmt.Sprintf(" AND (j.journal_date, l.created_at) < ($%d, $%d)", argPos, argPos+1)
		args = append(args, lastDate, lastCreatedAt)
		argPos += 2
	}

	query += fmt.Sprintf(" ORDER BY j.journal_date DESC, l.created_at DESC LIMIT $%d;", argPos)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query lines for account %s: %w", accountID, err)
	}
	defer rows.Close()

	lines := []domain.LedgerLine{}
	for rows.Next() {
		var m models.LedgerLine
		var journalDate time.Time
		var journalDescription string
		err := rows.Scan(
			&m.LineID,
			&m.JournalID,
			&m.AccountID,
			&m.Description,
			&m.Debit,
			&m.Credit,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
			&m.RunningBalance,
			&journalDate,
			&journalDescription,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan line row: %w", err)
		}
		line := toDomainLine(m)
		line.JournalDate = journalDate
		line.JournalDescription = journalDescription
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating line rows: %w", err)
	}

	var newToken *string
	if len(lines) > limit {
		lines = lines[:limit]
		last := lines[len(lines)-1]
		token := pagination.EncodeToken(last.JournalDate, last.CreatedAt)
		newToken = &token
	}

	return lines, newToken, nil
}
