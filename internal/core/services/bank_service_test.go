package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/bizbooks/bizbooks_backend/internal/apperrors"
	"github.com/bizbooks/bizbooks_backend/internal/core/domain"
	portsrepo "github.com/bizbooks/bizbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/bizbooks/bizbooks_backend/internal/core/ports/services"
	"github.com/bizbooks/bizbooks_backend/internal/core/services"
	"github.com/bizbooks/bizbooks_backend/internal/dto"
	"github.com/bizbooks/bizbooks_backend/internal/realtime"
)

// --- Mock BankRepository ---
type MockBankRepository struct {
	mock.Mock
}

// Ensure MockBankRepository implements portsrepo.BankRepositoryFacade
var _ portsrepo.BankRepositoryFacade = (*MockBankRepository)(nil)

func (m *MockBankRepository) FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	args := m.Called(ctx, bankAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

func (m *MockBankRepository) ListBankAccounts(ctx context.Context, includeInactive bool) ([]domain.BankAccount, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankAccount), args.Error(1)
}

func (m *MockBankRepository) SaveBankAccount(ctx context.Context, account domain.BankAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockBankRepository) UpdateBankAccount(ctx context.Context, account domain.BankAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockBankRepository) DeactivateBankAccount(ctx context.Context, bankAccountID string, userID string, now time.Time) error {
	args := m.Called(ctx, bankAccountID, userID, now)
	return args.Error(0)
}

func (m *MockBankRepository) FindBankTransactionByID(ctx context.Context, transactionID string) (*domain.BankTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankTransaction), args.Error(1)
}

func (m *MockBankRepository) ListBankTransactions(ctx context.Context, bankAccountID string, reconciled *bool, limit int, nextToken *string) ([]domain.BankTransaction, *string, error) {
	args := m.Called(ctx, bankAccountID, reconciled, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.BankTransaction), returnedNextToken, args.Error(2)
}

func (m *MockBankRepository) FindUnreconciledByIDs(ctx context.Context, bankAccountID string, transactionIDs []string) ([]domain.BankTransaction, error) {
	args := m.Called(ctx, bankAccountID, transactionIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankTransaction), args.Error(1)
}

func (m *MockBankRepository) SaveBankTransaction(ctx context.Context, txn domain.BankTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockBankRepository) MarkReconciled(ctx context.Context, bankAccountID string, transactionIDs []string, userID string, now time.Time) error {
	args := m.Called(ctx, bankAccountID, transactionIDs, userID, now)
	return args.Error(0)
}

// --- Test Suite Setup ---
type BankServiceTestSuite struct {
	suite.Suite
	mockBankRepo  *MockBankRepository
	notifications *realtime.Store
	service       portssvc.BankSvcFacade
	account       domain.BankAccount
	userID        string
}

func (suite *BankServiceTestSuite) SetupTest() {
	suite.mockBankRepo = new(MockBankRepository)
	suite.notifications = realtime.NewStore(100)
	suite.service = services.NewBankService(suite.mockBankRepo, suite.notifications)

	suite.userID = uuid.NewString()
	suite.account = domain.BankAccount{
		BankAccountID:  uuid.NewString(),
		Name:           "Operating",
		BankName:       "First National",
		AccountNumber:  "000123456789",
		CurrencyCode:   "USD",
		OpeningBalance: decimal.NewFromInt(1000),
		CurrentBalance: decimal.NewFromInt(1000),
		IsActive:       true,
	}
}

// txn builds an unreconciled transaction on the suite's account.
func (suite *BankServiceTestSuite) txn(txType domain.BankTransactionType, amount int64) domain.BankTransaction {
	return domain.BankTransaction{
		TransactionID:   uuid.NewString(),
		BankAccountID:   suite.account.BankAccountID,
		Type:            txType,
		Amount:          decimal.NewFromInt(amount),
		TransactionDate: time.Now().UTC(),
	}
}

// --- Test Cases ---

func (suite *BankServiceTestSuite) TestCreateBankTransaction_Success() {
	ctx := context.Background()
	req := dto.CreateBankTransactionRequest{
		Type:            domain.Deposit,
		Amount:          decimal.NewFromInt(200),
		TransactionDate: time.Now(),
		Description:     "Customer payment",
	}

	suite.mockBankRepo.On("FindBankAccountByID", ctx, suite.account.BankAccountID).Return(&suite.account, nil).Once()
	suite.mockBankRepo.On("SaveBankTransaction", ctx, mock.AnythingOfType("domain.BankTransaction")).Return(nil).Once()

	created, err := suite.service.CreateBankTransaction(ctx, suite.account.BankAccountID, req, suite.userID)

	suite.Require().NoError(err)
	suite.NotEmpty(created.TransactionID)
	suite.False(created.IsReconciled)
	suite.mockBankRepo.AssertExpectations(suite.T())
}

func (suite *BankServiceTestSuite) TestCreateBankTransaction_NonPositiveAmount() {
	ctx := context.Background()
	req := dto.CreateBankTransactionRequest{
		Type:            domain.Deposit,
		Amount:          decimal.Zero,
		TransactionDate: time.Now(),
	}

	_, err := suite.service.CreateBankTransaction(ctx, suite.account.BankAccountID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockBankRepo.AssertNotCalled(suite.T(), "SaveBankTransaction", mock.Anything, mock.Anything)
}

func (suite *BankServiceTestSuite) TestPreviewReconciliation_EmptySelectionMatchesBookBalance() {
	ctx := context.Background()
	unreconciled := []domain.BankTransaction{
		suite.txn(domain.Deposit, 200),
		suite.txn(domain.Withdrawal, 50),
	}

	suite.mockBankRepo.On("FindBankAccountByID", ctx, suite.account.BankAccountID).Return(&suite.account, nil).Once()
	suite.mockBankRepo.On("ListBankTransactions", ctx, suite.account.BankAccountID, mock.AnythingOfType("*bool"), 0, (*string)(nil)).Return(unreconciled, nil, nil).Once()

	resp, err := suite.service.PreviewReconciliation(ctx, suite.account.BankAccountID, dto.ReconciliationPreviewRequest{})

	suite.Require().NoError(err)
	suite.True(resp.Result.SelectedAmount.IsZero())
	suite.True(resp.Result.AdjustedBalance.Equal(suite.account.CurrentBalance))
	suite.Nil(resp.Result.Difference)
	suite.False(resp.Result.IsReconciled)
}

func (suite *BankServiceTestSuite) TestPreviewReconciliation_DepositAndWithdrawal() {
	ctx := context.Background()
	deposit := suite.txn(domain.Deposit, 200)
	withdrawal := suite.txn(domain.Withdrawal, 50)
	unreconciled := []domain.BankTransaction{deposit, withdrawal}

	suite.mockBankRepo.On("FindBankAccountByID", ctx, suite.account.BankAccountID).Return(&suite.account, nil).Once()
	suite.mockBankRepo.On("ListBankTransactions", ctx, suite.account.BankAccountID, mock.AnythingOfType("*bool"), 0, (*string)(nil)).Return(unreconciled, nil, nil).Once()

	statement := decimal.NewFromInt(850)
	resp, err := suite.service.PreviewReconciliation(ctx, suite.account.BankAccountID, dto.ReconciliationPreviewRequest{
		SelectedTransactionIDs: []string{deposit.TransactionID, withdrawal.TransactionID},
		StatementBalance:       &statement,
	})

	suite.Require().NoError(err)
	// Deposit 200 - withdrawal 50 = 150 selected; adjusted 1000 - 150 = 850.
	suite.True(resp.Result.SelectedAmount.Equal(decimal.NewFromInt(150)))
	suite.True(resp.Result.AdjustedBalance.Equal(decimal.NewFromInt(850)))
	suite.Require().NotNil(resp.Result.Difference)
	suite.True(resp.Result.Difference.IsZero())
	suite.True(resp.Result.IsReconciled)
}

func (suite *BankServiceTestSuite) TestBulkReconcile_Success() {
	ctx := context.Background()
	t1 := suite.txn(domain.Deposit, 200)
	t2 := suite.txn(domain.Withdrawal, 50)
	ids := []string{t1.TransactionID, t2.TransactionID}

	suite.mockBankRepo.On("FindUnreconciledByIDs", ctx, suite.account.BankAccountID, ids).Return([]domain.BankTransaction{t1, t2}, nil).Once()
	suite.mockBankRepo.On("MarkReconciled", ctx, suite.account.BankAccountID, ids, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	resp, err := suite.service.BulkReconcile(ctx, suite.account.BankAccountID, dto.BulkReconcileRequest{TransactionIDs: ids}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(2, resp.ReconciledCount)
	suite.mockBankRepo.AssertExpectations(suite.T())

	// A success notification lands in the shared store.
	notifications := suite.notifications.List()
	suite.Require().Len(notifications, 1)
	suite.Equal(domain.NotificationSuccess, notifications[0].Type)
}

func (suite *BankServiceTestSuite) TestBulkReconcile_DuplicateIDsCollapse() {
	ctx := context.Background()
	t1 := suite.txn(domain.Deposit, 200)
	ids := []string{t1.TransactionID}

	suite.mockBankRepo.On("FindUnreconciledByIDs", ctx, suite.account.BankAccountID, ids).Return([]domain.BankTransaction{t1}, nil).Once()
	suite.mockBankRepo.On("MarkReconciled", ctx, suite.account.BankAccountID, ids, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	resp, err := suite.service.BulkReconcile(ctx, suite.account.BankAccountID, dto.BulkReconcileRequest{
		TransactionIDs: []string{t1.TransactionID, t1.TransactionID, t1.TransactionID},
	}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(1, resp.ReconciledCount)
}

func (suite *BankServiceTestSuite) TestBulkReconcile_EmptySelection() {
	ctx := context.Background()

	_, err := suite.service.BulkReconcile(ctx, suite.account.BankAccountID, dto.BulkReconcileRequest{}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrEmptySelection)
	suite.mockBankRepo.AssertNotCalled(suite.T(), "MarkReconciled", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BankServiceTestSuite) TestBulkReconcile_AlreadyReconciledFailsAtomically() {
	ctx := context.Background()
	t1 := suite.txn(domain.Deposit, 200)
	ids := []string{t1.TransactionID}
	conflict := apperrors.ErrConflict

	suite.mockBankRepo.On("FindUnreconciledByIDs", ctx, suite.account.BankAccountID, ids).Return(nil, conflict).Once()

	_, err := suite.service.BulkReconcile(ctx, suite.account.BankAccountID, dto.BulkReconcileRequest{TransactionIDs: ids}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	// Nothing flips when validation fails; no notification either.
	suite.mockBankRepo.AssertNotCalled(suite.T(), "MarkReconciled", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.Empty(suite.notifications.List())
}

func (suite *BankServiceTestSuite) TestReconcileTransaction_Success() {
	ctx := context.Background()
	t1 := suite.txn(domain.Deposit, 200)

	suite.mockBankRepo.On("FindUnreconciledByIDs", ctx, suite.account.BankAccountID, []string{t1.TransactionID}).Return([]domain.BankTransaction{t1}, nil).Once()
	suite.mockBankRepo.On("MarkReconciled", ctx, suite.account.BankAccountID, []string{t1.TransactionID}, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.ReconcileTransaction(ctx, suite.account.BankAccountID, t1.TransactionID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(suite.notifications.List(), 1)
}

// --- Run Test Suite ---
func TestBankService(t *testing.T) {
	suite.Run(t, new(BankServiceTestSuite))
}
