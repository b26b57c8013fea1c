package dto

import (
	"time"

	"github.com/bizbooks/bizbooks_backend/internal/core/domain"
	"github.com/bizbooks/bizbooks_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// LedgerLineRequest is one debit-or-credit line of a journal request.
// Amounts arrive as strings because the client forms submit raw text input;
// empty or unparseable values fall back to zero at the boundary.
type LedgerLineRequest struct {
	AccountID   string `json:"accountID"`
	Description string `json:"description"`
	Debit       string `json:"debit"`
	Credit      string `json:"credit"`
}

// ToDomainLine parses the request line into a domain ledger line.
func (r LedgerLineRequest) ToDomainLine() domain.LedgerLine {
	return domain.LedgerLine{
		AccountID:   r.AccountID,
		Description: r.Description,
		Debit:       accounting.ParseAmount(r.Debit),
		Credit:      accounting.ParseAmount(r.Credit),
	}
}

// CreateJournalRequest defines the data needed to create a new draft journal.
type CreateJournalRequest struct {
	Date         time.Time           `json:"date" binding:"required"`
	Description  string              `json:"description" binding:"required"`
	Reference    string              `json:"reference"`
	CurrencyCode string              `json:"currencyCode" binding:"required,currencycode"`
	Lines        []LedgerLineRequest `json:"lines" binding:"required"`
}

// UpdateJournalRequest defines the data allowed for updating a draft journal.
type UpdateJournalRequest struct {
	Date        *time.Time          `json:"date"`
	Description *string             `json:"description"`
	Reference   *string             `json:"reference"`
	Lines       []LedgerLineRequest `json:"lines"` // nil keeps existing lines
}

// LedgerLineResponse defines the data returned for one ledger line.
type LedgerLineResponse struct {
	LineID             string          `json:"lineID"`
	JournalID          string          `json:"journalID"`
	AccountID          string          `json:"accountID"`
	Description        string          `json:"description"`
	Debit              decimal.Decimal `json:"debit"`
	Credit             decimal.Decimal `json:"credit"`
	RunningBalance     decimal.Decimal `json:"runningBalance"`
	JournalDate        time.Time       `json:"journalDate,omitempty"`
	JournalDescription string          `json:"journalDescription,omitempty"`
}

// JournalResponse defines the data returned for a journal entry.
type JournalResponse struct {
	JournalID          string                    `json:"journalID"`
	EntryNumber        string                    `json:"entryNumber"`
	Date               time.Time                 `json:"date"`
	Description        string                    `json:"description"`
	Reference          string                    `json:"reference"`
	CurrencyCode       string                    `json:"currencyCode"`
	Status             domain.JournalStatus      `json:"status"`
	Amount             decimal.Decimal           `json:"amount"`
	OriginalJournalID  *string                   `json:"originalJournalID,omitempty"`
	ReversingJournalID *string                   `json:"reversingJournalID,omitempty"`
	Balance            accounting.BalanceResult  `json:"balance"`
	Lines              []LedgerLineResponse      `json:"lines,omitempty"`
	CreatedAt          time.Time                 `json:"createdAt"`
	CreatedBy          string                    `json:"createdBy"`
}

// ToLedgerLineResponse converts a domain.LedgerLine to its response DTO.
func ToLedgerLineResponse(l *domain.LedgerLine) LedgerLineResponse {
	return LedgerLineResponse{
		LineID:             l.LineID,
		JournalID:          l.JournalID,
		AccountID:          l.AccountID,
		Description:        l.Description,
		Debit:              l.Debit,
		Credit:             l.Credit,
		RunningBalance:     l.RunningBalance,
		JournalDate:        l.JournalDate,
		JournalDescription: l.JournalDescription,
	}
}

// ToLedgerLineResponses converts a slice of lines to response DTOs.
func ToLedgerLineResponses(lines []domain.LedgerLine) []LedgerLineResponse {
	responses := make([]LedgerLineResponse, len(lines))
	for i := range lines {
		responses[i] = ToLedgerLineResponse(&lines[i])
	}
	return responses
}

// ToJournalResponse converts a domain.Journal to JournalResponse DTO,
// including the live balance check over its lines.
func ToJournalResponse(j *domain.Journal) JournalResponse {
	resp := JournalResponse{
		JournalID:          j.JournalID,
		EntryNumber:        j.EntryNumber,
		Date:               j.JournalDate,
		Description:        j.Description,
		Reference:          j.Reference,
		CurrencyCode:       j.CurrencyCode,
		Status:             j.Status,
		Amount:             j.Amount,
		OriginalJournalID:  j.OriginalJournalID,
		ReversingJournalID: j.ReversingJournalID,
		Balance:            accounting.CheckBalance(j.Lines),
		CreatedAt:          j.CreatedAt,
		CreatedBy:          j.CreatedBy,
	}
	if len(j.Lines) > 0 {
		resp.Lines = ToLedgerLineResponses(j.Lines)
	}
	return resp
}

// ListJournalsParams holds parameters for listing journals.
type ListJournalsParams struct {
	Limit            int     `form:"limit,default=20"`
	NextToken        *string `form:"nextToken"`
	IncludeReversals bool    `form:"includeReversals,default=true"`
	IncludeLines     bool    `form:"includeLines,default=false"`
}

// ListJournalsResponse wraps a page of journals and the next-page token.
type ListJournalsResponse struct {
	Journals  []JournalResponse `json:"journals"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ListLinesParams holds parameters for listing ledger lines per account.
type ListLinesParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListLinesResponse wraps a page of ledger lines and the next-page token.
type ListLinesResponse struct {
	Lines     []LedgerLineResponse `json:"lines"`
	NextToken *string              `json:"nextToken,omitempty"`
}
