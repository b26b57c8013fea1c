package accounting

import (
	"fmt"

	"github.com/bizbooks/bizbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CalculateSignedAmount applies the correct sign to a ledger line amount based on
// the account type. This is used in both services and repositories to ensure
// consistent accounting logic.
//
// Convention:
//
//	DEBIT to ASSET/EXPENSE -> Positive (+)
//	CREDIT to ASSET/EXPENSE -> Negative (-)
//	DEBIT to LIABILITY/EQUITY/INCOME -> Negative (-)
//	CREDIT to LIABILITY/EQUITY/INCOME -> Positive (+)
func CalculateSignedAmount(line domain.LedgerLine, accountType domain.AccountType) (decimal.Decimal, error) {
	signedAmount := line.Amount()
	isDebit := line.IsDebit()

	switch accountType {
	case domain.Asset, domain.Expense:
		if !isDebit { // Credit to Asset/Expense
			signedAmount = signedAmount.Neg()
		}
	case domain.Liability, domain.Equity, domain.Income:
		if isDebit { // Debit to Liability/Equity/Income
			signedAmount = signedAmount.Neg()
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, line.AccountID)
	}
	return signedAmount, nil
}

// CalculateJournalAmount computes the true economic value of a journal.
// For a balanced journal the debit and credit sides are equal, so the debit
// total represents the total money movement.
func CalculateJournalAmount(lines []domain.LedgerLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Debit)
	}
	return total
}
