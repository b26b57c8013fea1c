package accounting

import (
	"errors"

	"github.com/bizbooks/bizbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// balanceEpsilon is the fixed tolerance for the debit/credit equality check.
// Client amounts arrive as user-typed strings parsed from floating input, so
// the comparison absorbs up to a cent of rounding. Not configurable.
var balanceEpsilon = decimal.NewFromFloat(0.01)

// ErrMinLines is returned when a journal has fewer than two complete ledger lines.
// It is independent of the balance check: a single line can never be accepted,
// balanced or not.
var ErrMinLines = errors.New("at least two ledger entries required")

// BalanceResult summarises the debit/credit totals of a set of ledger lines.
type BalanceResult struct {
	TotalDebits  decimal.Decimal `json:"totalDebits"`
	TotalCredits decimal.Decimal `json:"totalCredits"`
	IsBalanced   bool            `json:"isBalanced"`
	Difference   decimal.Decimal `json:"difference"` // |debits - credits|, always >= 0
}

// CheckBalance computes debit and credit totals over the given lines and reports
// whether they balance within the fixed tolerance. Lines that carry neither an
// account nor an amount are treated as incomplete and excluded from the totals.
func CheckBalance(lines []domain.LedgerLine) BalanceResult {
	totalDebits := decimal.Zero
	totalCredits := decimal.Zero

	for _, line := range lines {
		if !IsCompleteLine(line) {
			continue
		}
		totalDebits = totalDebits.Add(line.Debit)
		totalCredits = totalCredits.Add(line.Credit)
	}

	difference := totalDebits.Sub(totalCredits).Abs()

	return BalanceResult{
		TotalDebits:  totalDebits,
		TotalCredits: totalCredits,
		IsBalanced:   difference.LessThan(balanceEpsilon),
		Difference:   difference,
	}
}

// IsCompleteLine reports whether a ledger line carries both an account and an
// amount on one side. Incomplete lines are skipped by CheckBalance and rejected
// on write.
func IsCompleteLine(line domain.LedgerLine) bool {
	if line.AccountID == "" {
		return false
	}
	return line.Debit.IsPositive() || line.Credit.IsPositive()
}

// ValidateLines runs the full pre-post validation over a journal's lines:
// at least two complete lines, each with exactly one positive side.
func ValidateLines(lines []domain.LedgerLine) error {
	complete := 0
	for _, line := range lines {
		if !IsCompleteLine(line) {
			continue
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return errors.New("ledger amounts must not be negative")
		}
		if line.Debit.IsPositive() && line.Credit.IsPositive() {
			return errors.New("ledger line must be either a debit or a credit, not both")
		}
		complete++
	}
	if complete < 2 {
		return ErrMinLines
	}
	return nil
}

// ParseAmount parses a user-entered amount string into a decimal.
// Empty or unparseable input falls back to zero so a half-filled form line
// never propagates an error (or a NaN-equivalent) into the totals.
func ParseAmount(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
