package services

import (
	"context"

	"github.com/bizbooks/bizbooks_backend/internal/core/domain"
	"github.com/bizbooks/bizbooks_backend/internal/dto"
	"github.com/bizbooks/bizbooks_backend/internal/utils/accounting"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetJournalByID retrieves a specific journal with its ledger lines.
	GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// ListJournals retrieves a paginated list of journals.
	ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error)
}

// JournalWriterSvc defines write operations for journal data
type JournalWriterSvc interface {
	// CreateDraftJournal persists a new journal in DRAFT status. The lines
	// are stored as-is; balance is only enforced at posting time.
	CreateDraftJournal(ctx context.Context, req dto.CreateJournalRequest, creatorUserID string) (*domain.Journal, error)

	// UpdateDraftJournal replaces the details and lines of a DRAFT journal.
	UpdateDraftJournal(ctx context.Context, journalID string, req dto.UpdateJournalRequest, requestingUserID string) (*domain.Journal, error)

	// DeleteDraftJournal removes a DRAFT journal and its lines.
	DeleteDraftJournal(ctx context.Context, journalID string, requestingUserID string) error

	// PostJournal validates a DRAFT journal's lines and, if balanced,
	// transitions it to POSTED and applies balance changes to the accounts.
	PostJournal(ctx context.Context, journalID string, requestingUserID string) (*domain.Journal, error)

	// ReverseJournal creates and posts a reversal journal for a POSTED journal.
	ReverseJournal(ctx context.Context, journalID string, requestingUserID string) (*domain.Journal, error)
}

// LedgerReaderSvc defines read operations for ledger line data
type LedgerReaderSvc interface {
	// ListLinesByAccount retrieves the ledger lines posted against an account,
	// with running balances.
	ListLinesByAccount(ctx context.Context, accountID string, params dto.ListLinesParams) (*dto.ListLinesResponse, error)
}

// BalanceCheckerSvc defines validation operations on journal lines
type BalanceCheckerSvc interface {
	// CheckJournalBalance computes the debit/credit totals of a journal's
	// lines without persisting anything.
	CheckJournalBalance(ctx context.Context, lines []dto.LedgerLineRequest) (accounting.BalanceResult, error)
}

// JournalSvcFacade combines all journal-related service interfaces
// This is a facade for clients that need access to all operations
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
	LedgerReaderSvc
	BalanceCheckerSvc
}
