package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft    JournalStatus = "DRAFT"
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// Journal represents a journal entry row.
type Journal struct {
	JournalID          string          `db:"journal_id"`
	EntryNumber        string          `db:"entry_number"`
	JournalDate        time.Time       `db:"journal_date"`
	Description        string          `db:"description"`
	Reference          string          `db:"reference"`
	CurrencyCode       string          `db:"currency_code"`
	Status             JournalStatus   `db:"status"`
	Amount             decimal.Decimal `db:"amount"`
	OriginalJournalID  *string         `db:"original_journal_id"`
	ReversingJournalID *string         `db:"reversing_journal_id"`
	AuditFields
}

// LedgerLine represents one debit-or-credit row of a journal.
type LedgerLine struct {
	LineID      string          `db:"line_id"`
	JournalID   string          `db:"journal_id"`
	AccountID   string          `db:"account_id"`
	Description string          `db:"description"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	AuditFields
	RunningBalance decimal.Decimal `db:"running_balance"`
}
