package repositories

import (
	"context"
	"time"

	"github.com/bizbooks/bizbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalByID retrieves a specific journal by its unique identifier.
	FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// ListJournals retrieves a paginated list of journals using token-based
	// pagination. It returns the journals, a token for the next page, and an error.
	ListJournals(ctx context.Context, limit int, nextToken *string, includeReversals bool) ([]domain.Journal, *string, error)

	// NextEntryNumber reserves and returns the next journal entry sequence number.
	NextEntryNumber(ctx context.Context) (int64, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// SaveDraft persists a new draft journal with its lines. No account balances change.
	SaveDraft(ctx context.Context, journal domain.Journal, lines []domain.LedgerLine) error

	// UpdateDraft replaces a draft journal's details and lines. No account balances change.
	UpdateDraft(ctx context.Context, journal domain.Journal, lines []domain.LedgerLine) error

	// DeleteDraft removes a draft journal and its lines.
	DeleteDraft(ctx context.Context, journalID string) error

	// PostJournal transitions a draft to POSTED and applies the account balance
	// changes atomically, writing running balances onto the lines.
	PostJournal(ctx context.Context, journal domain.Journal, lines []domain.LedgerLine, balanceChanges map[string]decimal.Decimal) error

	// SavePosted persists a new journal directly in POSTED state (used for reversals),
	// applying balance changes in the same database transaction.
	SavePosted(ctx context.Context, journal domain.Journal, lines []domain.LedgerLine, balanceChanges map[string]decimal.Decimal) error

	// UpdateJournalStatusAndLinks updates the status and reversal linkage of a journal.
	UpdateJournalStatusAndLinks(ctx context.Context, journalID string, status domain.JournalStatus, reversingJournalID *string, updatedByUserID string, updatedAt time.Time) error
}

// LedgerLineReader defines read operations for ledger line data
type LedgerLineReader interface {
	// FindLinesByJournalID retrieves all ledger lines of a single journal.
	FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.LedgerLine, error)

	// ListLinesByAccountID retrieves a paginated list of posted ledger lines for
	// a specific account using token-based pagination.
	ListLinesByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerLine, *string, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	LedgerLineReader
}
