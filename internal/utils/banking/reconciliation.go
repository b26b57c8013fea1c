// Package banking holds the pure bank-reconciliation arithmetic, shared by the
// reconciliation service and the preview endpoint.
package banking

import (
	"github.com/bizbooks/bizbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// reconcileEpsilon is the fixed tolerance for matching the adjusted book balance
// against a user-entered statement balance. Same one-cent tolerance as the
// ledger balance check.
var reconcileEpsilon = decimal.NewFromFloat(0.01)

// ReconciliationResult is the outcome of a reconciliation computation.
// Difference and IsReconciled are only meaningful when a statement balance was
// supplied; Difference is nil otherwise.
type ReconciliationResult struct {
	SelectedAmount  decimal.Decimal  `json:"selectedAmount"`
	AdjustedBalance decimal.Decimal  `json:"adjustedBalance"`
	Difference      *decimal.Decimal `json:"difference,omitempty"`
	IsReconciled    bool             `json:"isReconciled"`
	SelectedCount   int              `json:"selectedCount"`
}

// Calculate computes the reconciliation deltas for a selection of unreconciled
// transactions against the current book balance.
//
//	selectedAmount  = sum over selected of (deposit ? +amount : -amount)
//	adjustedBalance = bookBalance - selectedAmount
//	difference      = statementBalance - adjustedBalance (when statement given)
//
// The selection is treated as a set: IDs not present in the transaction list are
// ignored, and duplicates count once. Selecting nothing leaves the adjusted
// balance equal to the book balance.
func Calculate(bookBalance decimal.Decimal, selectedIDs []string, unreconciled []domain.BankTransaction, statementBalance *decimal.Decimal) ReconciliationResult {
	selected := make(map[string]struct{}, len(selectedIDs))
	for _, id := range selectedIDs {
		selected[id] = struct{}{}
	}

	selectedAmount := decimal.Zero
	count := 0
	for _, txn := range unreconciled {
		if _, ok := selected[txn.TransactionID]; !ok {
			continue
		}
		selectedAmount = selectedAmount.Add(txn.SignedAmount())
		count++
	}

	result := ReconciliationResult{
		SelectedAmount:  selectedAmount,
		AdjustedBalance: bookBalance.Sub(selectedAmount),
		SelectedCount:   count,
	}

	if statementBalance != nil {
		diff := statementBalance.Sub(result.AdjustedBalance)
		result.Difference = &diff
		result.IsReconciled = diff.Abs().LessThan(reconcileEpsilon)
	}

	return result
}
