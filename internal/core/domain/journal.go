package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
// A journal starts as a draft, becomes immutable once posted, and a posted
// journal can only be corrected by a reversal (never edited in place).
type JournalStatus string

const (
	Draft    JournalStatus = "DRAFT"
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// Journal represents a single financial event composed of multiple ledger lines.
// The lines must balance (total debits == total credits) before the journal can
// be posted to the general ledger.
type Journal struct {
	JournalID          string          `json:"journalID"`   // Primary Key (UUID)
	EntryNumber        string          `json:"entryNumber"` // Unique, generated (e.g. JE-000042)
	JournalDate        time.Time       `json:"journalDate"` // Date the event occurred
	Description        string          `json:"description"`
	Reference          string          `json:"reference"`    // External document reference, nullable
	CurrencyCode       string          `json:"currencyCode"` // Primary currency of the journal
	Status             JournalStatus   `json:"status"`
	Amount             decimal.Decimal `json:"amount"`                       // Total debit side of the posted journal
	OriginalJournalID  *string         `json:"originalJournalID,omitempty"`  // Set on a reversing journal
	ReversingJournalID *string         `json:"reversingJournalID,omitempty"` // Set on a reversed journal
	AuditFields
	Lines []LedgerLine `json:"lines,omitempty"` // Often loaded separately
}

// IsMutable reports whether the journal may still be edited or deleted.
// Only drafts are mutable; posting is a one-way transition.
func (j *Journal) IsMutable() bool {
	return j.Status == Draft
}

// LedgerLine represents a single debit-or-credit line within a Journal,
// affecting one account. Exactly one of Debit/Credit is non-zero; the
// constraint is enforced on write, not by the type.
type LedgerLine struct {
	LineID      string          `json:"lineID"`    // Primary Key (UUID)
	JournalID   string          `json:"journalID"` // FK -> Journal.journalID
	AccountID   string          `json:"accountID"` // FK -> Account.accountID
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`  // >= 0
	Credit      decimal.Decimal `json:"credit"` // >= 0
	AuditFields
	RunningBalance decimal.Decimal `json:"runningBalance"` // Account balance after this line, set on posting

	// Denormalised journal details, populated when lines are listed per account.
	JournalDate        time.Time `json:"journalDate,omitempty"`
	JournalDescription string    `json:"journalDescription,omitempty"`
}

// Amount returns the non-zero side of the line.
func (l LedgerLine) Amount() decimal.Decimal {
	if l.Debit.IsPositive() {
		return l.Debit
	}
	return l.Credit
}

// IsDebit reports whether the line carries its amount on the debit side.
func (l LedgerLine) IsDebit() bool {
	return l.Debit.IsPositive()
}
