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
	"github.com/bizbooks/bizbooks_backend/internal/utils/accounting"
)

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

// Ensure MockJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalRepository) ListJournals(ctx context.Context, limit int, nextToken *string, includeReversals bool) ([]domain.Journal, *string, error) {
	args := m.Called(ctx, limit, nextToken, includeReversals)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Journal), returnedNextToken, args.Error(2)
}

func (m *MockJournalRepository) NextEntryNumber(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJournalRepository) SaveDraft(ctx context.Context, journal domain.Journal, lines []domain.LedgerLine) error {
	args := m.Called(ctx, journal, lines)
	return args.Error(0)
}

func (m *MockJournalRepository) UpdateDraft(ctx context.Context, journal domain.Journal, lines []domain.LedgerLine) error {
	args := m.Called(ctx, journal, lines)
	return args.Error(0)
}

func (m *MockJournalRepository) DeleteDraft(ctx context.Context, journalID string) error {
	args := m.Called(ctx, journalID)
	return args.Error(0)
}

func (m *MockJournalRepository) PostJournal(ctx context.Context, journal domain.Journal, lines []domain.LedgerLine, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, journal, lines, balanceChanges)
	return args.Error(0)
}

func (m *MockJournalRepository) SavePosted(ctx context.Context, journal domain.Journal, lines []domain.LedgerLine, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, journal, lines, balanceChanges)
	return args.Error(0)
}

func (m *MockJournalRepository) UpdateJournalStatusAndLinks(ctx context.Context, journalID string, status domain.JournalStatus, reversingJournalID *string, updatedByUserID string, updatedAt time.Time) error {
	args := m.Called(ctx, journalID, status, reversingJournalID, updatedByUserID, updatedAt)
	return args.Error(0)
}

func (m *MockJournalRepository) FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.LedgerLine, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerLine), args.Error(1)
}

func (m *MockJournalRepository) ListLinesByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerLine, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.LedgerLine), returnedNextToken, args.Error(2)
}

// --- Mock AccountService (as used by JournalService) ---
type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListAccountsResponse), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, accountID string, requestingUserID string) error {
	args := m.Called(ctx, accountID, requestingUserID)
	return args.Error(0)
}

func (m *MockAccountService) CalculateAccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Test Suite Setup ---
type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo  *MockJournalRepository
	mockAccountSvc   *MockAccountService
	service          portssvc.JournalSvcFacade
	assetAccount     domain.Account
	liabilityAccount domain.Account
	userID           string
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.service = services.NewJournalService(suite.mockJournalRepo, suite.mockAccountSvc)

	suite.userID = uuid.NewString()

	suite.assetAccount = domain.Account{
		AccountID:    uuid.NewString(),
		AccountType:  domain.Asset,
		CurrencyCode: "USD",
		IsActive:     true,
	}
	suite.liabilityAccount = domain.Account{
		AccountID:    uuid.NewString(),
		AccountType:  domain.Liability,
		CurrencyCode: "USD",
		IsActive:     true,
	}
}

// draftJournal returns a draft with a balanced pair of lines against the
// suite's asset and liability accounts.
func (suite *JournalServiceTestSuite) draftJournal() (*domain.Journal, []domain.LedgerLine) {
	journalID := uuid.NewString()
	journal := &domain.Journal{
		JournalID:    journalID,
		EntryNumber:  "JE-000007",
		JournalDate:  time.Now().UTC(),
		Description:  "Opening position",
		CurrencyCode: "USD",
		Status:       domain.Draft,
	}
	lines := []domain.LedgerLine{
		{LineID: uuid.NewString(), JournalID: journalID, AccountID: suite.assetAccount.AccountID, Debit: decimal.NewFromInt(100)},
		{LineID: uuid.NewString(), JournalID: journalID, AccountID: suite.liabilityAccount.AccountID, Credit: decimal.NewFromInt(100)},
	}
	return journal, lines
}

func (suite *JournalServiceTestSuite) accountsMap() map[string]domain.Account {
	return map[string]domain.Account{
		suite.assetAccount.AccountID:     suite.assetAccount,
		suite.liabilityAccount.AccountID: suite.liabilityAccount,
	}
}

// --- Test Cases ---

func (suite *JournalServiceTestSuite) TestCreateDraftJournal_Success() {
	ctx := context.Background()
	req := dto.CreateJournalRequest{
		Date:         time.Now(),
		Description:  "Office rent for August",
		CurrencyCode: "USD",
		Lines: []dto.LedgerLineRequest{
			{AccountID: suite.assetAccount.AccountID, Debit: "250.00"},
			{AccountID: suite.liabilityAccount.AccountID, Credit: "250.00"},
		},
	}

	suite.mockJournalRepo.On("NextEntryNumber", ctx).Return(int64(42), nil).Once()
	suite.mockJournalRepo.On("SaveDraft", ctx, mock.AnythingOfType("domain.Journal"), mock.AnythingOfType("[]domain.LedgerLine")).Return(nil).Once()

	created, err := suite.service.CreateDraftJournal(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.JournalID)
	suite.Equal("JE-000042", created.EntryNumber)
	suite.Equal(domain.Draft, created.Status)
	suite.Equal(suite.userID, created.CreatedBy)
	suite.True(created.Amount.Equal(decimal.NewFromInt(250)))
	suite.Len(created.Lines, 2)

	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateDraftJournal_DropsIncompleteLines() {
	ctx := context.Background()
	req := dto.CreateJournalRequest{
		Date:         time.Now(),
		Description:  "Half-filled form",
		CurrencyCode: "USD",
		Lines: []dto.LedgerLineRequest{
			{AccountID: suite.assetAccount.AccountID, Debit: "100"},
			{AccountID: "", Debit: "50"},                          // no account
			{AccountID: suite.liabilityAccount.AccountID},         // no amount
			{AccountID: suite.liabilityAccount.AccountID, Credit: "100"},
		},
	}

	suite.mockJournalRepo.On("NextEntryNumber", ctx).Return(int64(1), nil).Once()
	suite.mockJournalRepo.On("SaveDraft", ctx, mock.AnythingOfType("domain.Journal"), mock.AnythingOfType("[]domain.LedgerLine")).Return(nil).Once()

	created, err := suite.service.CreateDraftJournal(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Len(created.Lines, 2)
}

func (suite *JournalServiceTestSuite) TestCreateDraftJournal_SingleLineRejected() {
	ctx := context.Background()
	req := dto.CreateJournalRequest{
		Date:         time.Now(),
		Description:  "One-sided entry",
		CurrencyCode: "USD",
		Lines: []dto.LedgerLineRequest{
			{AccountID: suite.assetAccount.AccountID, Debit: "100"},
		},
	}

	_, err := suite.service.CreateDraftJournal(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, accounting.ErrMinLines)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveDraft", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateDraftJournal_OnlyIncompleteLinesRejected() {
	ctx := context.Background()
	req := dto.CreateJournalRequest{
		Date:         time.Now(),
		Description:  "Nothing usable",
		CurrencyCode: "USD",
		Lines: []dto.LedgerLineRequest{
			{AccountID: "", Debit: "50"},                  // no account
			{AccountID: suite.assetAccount.AccountID},     // no amount
		},
	}

	_, err := suite.service.CreateDraftJournal(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, accounting.ErrMinLines)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveDraft", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateDraftJournal_MissingDescription() {
	ctx := context.Background()
	req := dto.CreateJournalRequest{
		Date:         time.Now(),
		CurrencyCode: "USD",
		Lines:        []dto.LedgerLineRequest{},
	}

	_, err := suite.service.CreateDraftJournal(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrDescriptionMissing)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveDraft", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostJournal_Success() {
	ctx := context.Background()
	journal, lines := suite.draftJournal()

	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()
	suite.mockJournalRepo.On("FindLinesByJournalID", ctx, journal.JournalID).Return(lines, nil).Once()
	suite.mockAccountSvc.On("GetAccountByIDs", ctx, mock.AnythingOfType("[]string")).Return(suite.accountsMap(), nil).Once()
	suite.mockJournalRepo.On("PostJournal", ctx, mock.AnythingOfType("domain.Journal"), lines, mock.AnythingOfType("map[string]decimal.Decimal")).
		Run(func(args mock.Arguments) {
			changes := args.Get(3).(map[string]decimal.Decimal)
			// Debit to asset adds, credit to liability adds.
			suite.True(changes[suite.assetAccount.AccountID].Equal(decimal.NewFromInt(100)))
			suite.True(changes[suite.liabilityAccount.AccountID].Equal(decimal.NewFromInt(100)))
		}).
		Return(nil).Once()

	posted, err := suite.service.PostJournal(ctx, journal.JournalID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, posted.Status)
	suite.True(posted.Amount.Equal(decimal.NewFromInt(100)))
	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockAccountSvc.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostJournal_Unbalanced() {
	ctx := context.Background()
	journal, lines := suite.draftJournal()
	lines[1].Credit = decimal.NewFromInt(150)

	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()
	suite.mockJournalRepo.On("FindLinesByJournalID", ctx, journal.JournalID).Return(lines, nil).Once()

	_, err := suite.service.PostJournal(ctx, journal.JournalID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrJournalUnbalanced)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "PostJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostJournal_SubCentDifferenceBalances() {
	ctx := context.Background()
	journal, lines := suite.draftJournal()
	lines[1].Credit = decimal.RequireFromString("100.005")

	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()
	suite.mockJournalRepo.On("FindLinesByJournalID", ctx, journal.JournalID).Return(lines, nil).Once()
	suite.mockAccountSvc.On("GetAccountByIDs", ctx, mock.AnythingOfType("[]string")).Return(suite.accountsMap(), nil).Once()
	suite.mockJournalRepo.On("PostJournal", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	_, err := suite.service.PostJournal(ctx, journal.JournalID, suite.userID)

	suite.Require().NoError(err)
}

func (suite *JournalServiceTestSuite) TestPostJournal_SingleLine() {
	ctx := context.Background()
	journal, lines := suite.draftJournal()
	lines = lines[:1]

	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()
	suite.mockJournalRepo.On("FindLinesByJournalID", ctx, journal.JournalID).Return(lines, nil).Once()

	_, err := suite.service.PostJournal(ctx, journal.JournalID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, accounting.ErrMinLines)
}

func (suite *JournalServiceTestSuite) TestPostJournal_NotDraft() {
	ctx := context.Background()
	journal, _ := suite.draftJournal()
	journal.Status = domain.Posted

	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()

	_, err := suite.service.PostJournal(ctx, journal.JournalID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNotDraft)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "FindLinesByJournalID", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostJournal_InactiveAccount() {
	ctx := context.Background()
	journal, lines := suite.draftJournal()

	inactive := suite.liabilityAccount
	inactive.IsActive = false
	accountsMap := map[string]domain.Account{
		suite.assetAccount.AccountID: suite.assetAccount,
		inactive.AccountID:           inactive,
	}

	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()
	suite.mockJournalRepo.On("FindLinesByJournalID", ctx, journal.JournalID).Return(lines, nil).Once()
	suite.mockAccountSvc.On("GetAccountByIDs", ctx, mock.AnythingOfType("[]string")).Return(accountsMap, nil).Once()

	_, err := suite.service.PostJournal(ctx, journal.JournalID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestPostJournal_CurrencyMismatch() {
	ctx := context.Background()
	journal, lines := suite.draftJournal()

	eurAccount := suite.liabilityAccount
	eurAccount.CurrencyCode = "EUR"
	accountsMap := map[string]domain.Account{
		suite.assetAccount.AccountID: suite.assetAccount,
		eurAccount.AccountID:         eurAccount,
	}

	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()
	suite.mockJournalRepo.On("FindLinesByJournalID", ctx, journal.JournalID).Return(lines, nil).Once()
	suite.mockAccountSvc.On("GetAccountByIDs", ctx, mock.AnythingOfType("[]string")).Return(accountsMap, nil).Once()

	_, err := suite.service.PostJournal(ctx, journal.JournalID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrCurrencyMismatch)
}

func (suite *JournalServiceTestSuite) TestUpdateDraftJournal_NotDraft() {
	ctx := context.Background()
	journal, _ := suite.draftJournal()
	journal.Status = domain.Posted
	newDesc := "edited"

	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()

	_, err := suite.service.UpdateDraftJournal(ctx, journal.JournalID, dto.UpdateJournalRequest{Description: &newDesc}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNotDraft)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "UpdateDraft", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestDeleteDraftJournal_Success() {
	ctx := context.Background()
	journal, _ := suite.draftJournal()

	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()
	suite.mockJournalRepo.On("DeleteDraft", ctx, journal.JournalID).Return(nil).Once()

	err := suite.service.DeleteDraftJournal(ctx, journal.JournalID, suite.userID)

	suite.Require().NoError(err)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestReverseJournal_Success() {
	ctx := context.Background()
	journal, lines := suite.draftJournal()
	journal.Status = domain.Posted

	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()
	suite.mockJournalRepo.On("FindLinesByJournalID", ctx, journal.JournalID).Return(lines, nil).Once()
	suite.mockJournalRepo.On("NextEntryNumber", ctx).Return(int64(8), nil).Once()
	suite.mockAccountSvc.On("GetAccountByIDs", ctx, mock.AnythingOfType("[]string")).Return(suite.accountsMap(), nil).Once()
	suite.mockJournalRepo.On("SavePosted", ctx, mock.AnythingOfType("domain.Journal"), mock.AnythingOfType("[]domain.LedgerLine"), mock.AnythingOfType("map[string]decimal.Decimal")).
		Run(func(args mock.Arguments) {
			revLines := args.Get(2).([]domain.LedgerLine)
			suite.Require().Len(revLines, 2)
			// Sides swapped relative to the original.
			suite.True(revLines[0].Credit.Equal(decimal.NewFromInt(100)))
			suite.True(revLines[1].Debit.Equal(decimal.NewFromInt(100)))
			changes := args.Get(3).(map[string]decimal.Decimal)
			suite.True(changes[suite.assetAccount.AccountID].Equal(decimal.NewFromInt(-100)))
			suite.True(changes[suite.liabilityAccount.AccountID].Equal(decimal.NewFromInt(-100)))
		}).
		Return(nil).Once()
	suite.mockJournalRepo.On("UpdateJournalStatusAndLinks", ctx, journal.JournalID, domain.Reversed, mock.AnythingOfType("*string"), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	reversing, err := suite.service.ReverseJournal(ctx, journal.JournalID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, reversing.Status)
	suite.Require().NotNil(reversing.OriginalJournalID)
	suite.Equal(journal.JournalID, *reversing.OriginalJournalID)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestReverseJournal_NotPosted() {
	ctx := context.Background()
	journal, _ := suite.draftJournal()

	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()

	_, err := suite.service.ReverseJournal(ctx, journal.JournalID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *JournalServiceTestSuite) TestReverseJournal_AlreadyReversed() {
	ctx := context.Background()
	journal, _ := suite.draftJournal()
	journal.Status = domain.Posted
	reversingID := uuid.NewString()
	journal.ReversingJournalID = &reversingID

	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()

	_, err := suite.service.ReverseJournal(ctx, journal.JournalID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SavePosted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCheckJournalBalance_StringAmounts() {
	ctx := context.Background()
	result, err := suite.service.CheckJournalBalance(ctx, []dto.LedgerLineRequest{
		{AccountID: "a1", Debit: "150.00"},
		{AccountID: "a2", Credit: "100"},
		{AccountID: "a3", Credit: "not-a-number"}, // parses to zero, incomplete, excluded
	})

	suite.Require().NoError(err)
	suite.False(result.IsBalanced)
	suite.True(result.TotalDebits.Equal(decimal.NewFromInt(150)))
	suite.True(result.TotalCredits.Equal(decimal.NewFromInt(100)))
	suite.True(result.Difference.Equal(decimal.NewFromInt(50)))
}

// --- Run Test Suite ---
func TestJournalService(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
