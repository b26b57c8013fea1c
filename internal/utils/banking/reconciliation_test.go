package banking

import (
	"testing"

	"github.com/bizbooks/bizbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func txn(id string, t domain.BankTransactionType, amount float64) domain.BankTransaction {
	return domain.BankTransaction{
		TransactionID: id,
		Type:          t,
		Amount:        decimal.NewFromFloat(amount),
	}
}

func TestCalculate_EmptySelectionKeepsBookBalance(t *testing.T) {
	unreconciled := []domain.BankTransaction{
		txn("t1", domain.Deposit, 200),
		txn("t2", domain.Withdrawal, 50),
	}
	for _, book := range []float64{0, 1000, -350.25} {
		result := Calculate(decimal.NewFromFloat(book), nil, unreconciled, nil)
		assert.True(t, result.SelectedAmount.IsZero())
		assert.True(t, result.AdjustedBalance.Equal(decimal.NewFromFloat(book)),
			"adjusted balance must equal book balance for empty selection")
		assert.Nil(t, result.Difference, "no statement balance means no difference")
		assert.False(t, result.IsReconciled)
	}
}

func TestCalculate_DepositsAddWithdrawalsSubtract(t *testing.T) {
	unreconciled := []domain.BankTransaction{
		txn("t1", domain.Deposit, 200),
		txn("t2", domain.Withdrawal, 50),
	}
	result := Calculate(decimal.NewFromInt(1000), []string{"t1", "t2"}, unreconciled, nil)

	assert.Equal(t, "150", result.SelectedAmount.String())
	assert.Equal(t, "850", result.AdjustedBalance.String())
	assert.Equal(t, 2, result.SelectedCount)
}

func TestCalculate_TransfersSubtractLikeWithdrawals(t *testing.T) {
	unreconciled := []domain.BankTransaction{txn("t1", domain.Transfer, 75)}
	result := Calculate(decimal.NewFromInt(100), []string{"t1"}, unreconciled, nil)
	assert.Equal(t, "-75", result.SelectedAmount.String())
	assert.Equal(t, "175", result.AdjustedBalance.String())
}

func TestCalculate_StatementMatch(t *testing.T) {
	unreconciled := []domain.BankTransaction{
		txn("t1", domain.Deposit, 200),
		txn("t2", domain.Withdrawal, 50),
	}
	statement := decimal.NewFromInt(850)
	result := Calculate(decimal.NewFromInt(1000), []string{"t1", "t2"}, unreconciled, &statement)

	assert.NotNil(t, result.Difference)
	assert.True(t, result.Difference.IsZero())
	assert.True(t, result.IsReconciled)
}

func TestCalculate_StatementMismatch(t *testing.T) {
	unreconciled := []domain.BankTransaction{txn("t1", domain.Deposit, 100)}
	statement := decimal.NewFromInt(500)
	result := Calculate(decimal.NewFromInt(1000), []string{"t1"}, unreconciled, &statement)

	// adjusted = 1000 - 100 = 900; difference = 500 - 900 = -400
	assert.Equal(t, "-400", result.Difference.String())
	assert.False(t, result.IsReconciled)
}

func TestCalculate_SubEpsilonDifferenceReconciles(t *testing.T) {
	unreconciled := []domain.BankTransaction{txn("t1", domain.Deposit, 100)}
	statement := decimal.NewFromFloat(900.005)
	result := Calculate(decimal.NewFromInt(1000), []string{"t1"}, unreconciled, &statement)
	assert.True(t, result.IsReconciled)
}

func TestCalculate_SelectionRoundTripIsIdempotent(t *testing.T) {
	unreconciled := []domain.BankTransaction{
		txn("t1", domain.Deposit, 200),
		txn("t2", domain.Withdrawal, 50),
		txn("t3", domain.Deposit, 25),
	}
	book := decimal.NewFromInt(1000)

	before := Calculate(book, []string{"t1"}, unreconciled, nil)
	// Toggle t3 in, then out again.
	toggledIn := Calculate(book, []string{"t1", "t3"}, unreconciled, nil)
	after := Calculate(book, []string{"t1"}, unreconciled, nil)

	assert.False(t, toggledIn.SelectedAmount.Equal(before.SelectedAmount))
	assert.True(t, after.SelectedAmount.Equal(before.SelectedAmount),
		"removing a toggled transaction must restore the prior selected amount")
	assert.True(t, after.AdjustedBalance.Equal(before.AdjustedBalance))
}

func TestCalculate_UnknownAndDuplicateIDsIgnored(t *testing.T) {
	unreconciled := []domain.BankTransaction{txn("t1", domain.Deposit, 10)}
	result := Calculate(decimal.NewFromInt(100), []string{"t1", "t1", "ghost"}, unreconciled, nil)
	assert.Equal(t, "10", result.SelectedAmount.String())
	assert.Equal(t, 1, result.SelectedCount)
}
