package accounting

import (
	"testing"

	"github.com/bizbooks/bizbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func line(accountID string, debit, credit float64) domain.LedgerLine {
	return domain.LedgerLine{
		AccountID: accountID,
		Debit:     decimal.NewFromFloat(debit),
		Credit:    decimal.NewFromFloat(credit),
	}
}

func TestCheckBalance(t *testing.T) {
	tests := []struct {
		name           string
		lines          []domain.LedgerLine
		wantDebits     string
		wantCredits    string
		wantBalanced   bool
		wantDifference string
	}{
		{
			name:           "balanced pair",
			lines:          []domain.LedgerLine{line("a1", 100, 0), line("a2", 0, 100)},
			wantDebits:     "100",
			wantCredits:    "100",
			wantBalanced:   true,
			wantDifference: "0",
		},
		{
			name:           "unbalanced by 50",
			lines:          []domain.LedgerLine{line("a1", 150, 0), line("a2", 0, 100)},
			wantDebits:     "150",
			wantCredits:    "100",
			wantBalanced:   false,
			wantDifference: "50",
		},
		{
			name:           "difference is non-negative when credits are larger",
			lines:          []domain.LedgerLine{line("a1", 100, 0), line("a2", 0, 175)},
			wantDebits:     "100",
			wantCredits:    "175",
			wantBalanced:   false,
			wantDifference: "75",
		},
		{
			name: "incomplete lines excluded from totals",
			lines: []domain.LedgerLine{
				line("a1", 100, 0),
				line("", 999, 0),  // no account
				line("a3", 0, 0),  // no amount
				line("a2", 0, 100),
			},
			wantDebits:     "100",
			wantCredits:    "100",
			wantBalanced:   true,
			wantDifference: "0",
		},
		{
			name:           "sub-epsilon difference counts as balanced",
			lines:          []domain.LedgerLine{line("a1", 100.005, 0), line("a2", 0, 100)},
			wantDebits:     "100.005",
			wantCredits:    "100",
			wantBalanced:   true,
			wantDifference: "0.005",
		},
		{
			name:           "exactly one cent apart is not balanced",
			lines:          []domain.LedgerLine{line("a1", 100.01, 0), line("a2", 0, 100)},
			wantDebits:     "100.01",
			wantCredits:    "100",
			wantBalanced:   false,
			wantDifference: "0.01",
		},
		{
			name:           "empty set balances trivially",
			lines:          nil,
			wantDebits:     "0",
			wantCredits:    "0",
			wantBalanced:   true,
			wantDifference: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckBalance(tt.lines)
			assert.Equal(t, tt.wantDebits, got.TotalDebits.String())
			assert.Equal(t, tt.wantCredits, got.TotalCredits.String())
			assert.Equal(t, tt.wantBalanced, got.IsBalanced)
			assert.Equal(t, tt.wantDifference, got.Difference.String())
			assert.False(t, got.Difference.IsNegative(), "difference must never be negative")
		})
	}
}

func TestValidateLines(t *testing.T) {
	t.Run("single valid line fails minimum regardless of balance", func(t *testing.T) {
		err := ValidateLines([]domain.LedgerLine{line("a1", 100, 0)})
		assert.ErrorIs(t, err, ErrMinLines)
	})

	t.Run("incomplete lines do not count towards the minimum", func(t *testing.T) {
		err := ValidateLines([]domain.LedgerLine{
			line("a1", 100, 0),
			line("", 100, 0),
			line("a2", 0, 0),
		})
		assert.ErrorIs(t, err, ErrMinLines)
	})

	t.Run("two complete lines pass", func(t *testing.T) {
		err := ValidateLines([]domain.LedgerLine{line("a1", 100, 0), line("a2", 0, 100)})
		assert.NoError(t, err)
	})

	t.Run("line with both sides set is rejected", func(t *testing.T) {
		err := ValidateLines([]domain.LedgerLine{line("a1", 100, 50), line("a2", 0, 100)})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not both")
	})

	t.Run("negative amount is rejected", func(t *testing.T) {
		err := ValidateLines([]domain.LedgerLine{line("a1", -10, 0), line("a2", 0, 100)})
		assert.Error(t, err)
	})
}

func TestParseAmount(t *testing.T) {
	assert.True(t, ParseAmount("").IsZero(), "empty string parses to zero")
	assert.True(t, ParseAmount("abc").IsZero(), "garbage parses to zero")
	assert.True(t, ParseAmount("12.34").Equal(decimal.NewFromFloat(12.34)))
	assert.True(t, ParseAmount("-5").Equal(decimal.NewFromInt(-5)))
}

func TestCalculateSignedAmount(t *testing.T) {
	debitLine := line("a1", 40, 0)
	creditLine := line("a1", 0, 40)

	cases := []struct {
		name        string
		ln          domain.LedgerLine
		accountType domain.AccountType
		want        string
	}{
		{"debit to asset is positive", debitLine, domain.Asset, "40"},
		{"credit to asset is negative", creditLine, domain.Asset, "-40"},
		{"debit to expense is positive", debitLine, domain.Expense, "40"},
		{"debit to liability is negative", debitLine, domain.Liability, "-40"},
		{"credit to income is positive", creditLine, domain.Income, "40"},
		{"credit to equity is positive", creditLine, domain.Equity, "40"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CalculateSignedAmount(tc.ln, tc.accountType)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got.String())
		})
	}

	t.Run("unknown account type errors", func(t *testing.T) {
		_, err := CalculateSignedAmount(debitLine, domain.AccountType("BOGUS"))
		assert.Error(t, err)
	})
}

func TestCalculateJournalAmount(t *testing.T) {
	lines := []domain.LedgerLine{line("a1", 100, 0), line("a2", 50, 0), line("a3", 0, 150)}
	assert.Equal(t, "150", CalculateJournalAmount(lines).String())
	assert.True(t, CalculateJournalAmount(nil).IsZero())
}
