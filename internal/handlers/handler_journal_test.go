package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bizbooks/bizbooks_backend/internal/apperrors"
	"github.com/bizbooks/bizbooks_backend/internal/core/domain"
	portssvc "github.com/bizbooks/bizbooks_backend/internal/core/ports/services"
	"github.com/bizbooks/bizbooks_backend/internal/core/services"
	"github.com/bizbooks/bizbooks_backend/internal/dto"
	"github.com/bizbooks/bizbooks_backend/internal/middleware"
	"github.com/bizbooks/bizbooks_backend/internal/utils"
	"github.com/bizbooks/bizbooks_backend/internal/utils/accounting"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalService) ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListJournalsResponse), args.Error(1)
}

func (m *MockJournalService) CreateDraftJournal(ctx context.Context, req dto.CreateJournalRequest, creatorUserID string) (*domain.Journal, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalService) UpdateDraftJournal(ctx context.Context, journalID string, req dto.UpdateJournalRequest, requestingUserID string) (*domain.Journal, error) {
	args := m.Called(ctx, journalID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalService) DeleteDraftJournal(ctx context.Context, journalID string, requestingUserID string) error {
	args := m.Called(ctx, journalID, requestingUserID)
	return args.Error(0)
}

func (m *MockJournalService) PostJournal(ctx context.Context, journalID string, requestingUserID string) (*domain.Journal, error) {
	args := m.Called(ctx, journalID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalService) ReverseJournal(ctx context.Context, journalID string, requestingUserID string) (*domain.Journal, error) {
	args := m.Called(ctx, journalID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalService) ListLinesByAccount(ctx context.Context, accountID string, params dto.ListLinesParams) (*dto.ListLinesResponse, error) {
	args := m.Called(ctx, accountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListLinesResponse), args.Error(1)
}

func (m *MockJournalService) CheckJournalBalance(ctx context.Context, lines []dto.LedgerLineRequest) (accounting.BalanceResult, error) {
	args := m.Called(ctx, lines)
	return args.Get(0).(accounting.BalanceResult), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Test Suite ---
type JournalHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockJournalService *MockJournalService
	jwtSecret          string
	userID             string
}

func (suite *JournalHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	registerCustomValidators()
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.userID = uuid.NewString()

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockJournalService = new(MockJournalService)

	v1 := suite.router.Group("/api/v1")
	registerJournalRoutes(v1, suite.mockJournalService)
}

func (suite *JournalHandlerTestSuite) authHeader() string {
	token, err := utils.GenerateJWT(suite.userID, suite.jwtSecret, time.Hour, "test")
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return "Bearer " + token
}

func (suite *JournalHandlerTestSuite) doJSON(method, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Authorization", suite.authHeader())
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *JournalHandlerTestSuite) sampleJournal(status domain.JournalStatus) *domain.Journal {
	now := time.Now().UTC()
	return &domain.Journal{
		JournalID:    uuid.NewString(),
		EntryNumber:  "JE-000042",
		JournalDate:  now,
		Description:  "Office rent",
		CurrencyCode: "USD",
		Status:       status,
		Amount:       decimal.NewFromInt(100),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     suite.userID,
			LastUpdatedAt: now,
			LastUpdatedBy: suite.userID,
		},
	}
}

// --- Test Cases ---

func (suite *JournalHandlerTestSuite) TestCreateJournal_Success() {
	expected := suite.sampleJournal(domain.Draft)

	suite.mockJournalService.On("CreateDraftJournal",
		mock.Anything,
		mock.MatchedBy(func(req dto.CreateJournalRequest) bool {
			return req.Description == "Office rent" && len(req.Lines) == 2
		}),
		suite.userID,
	).Return(expected, nil).Once()

	body := dto.CreateJournalRequest{
		Date:         time.Now().UTC(),
		Description:  "Office rent",
		CurrencyCode: "USD",
		Lines: []dto.LedgerLineRequest{
			{AccountID: uuid.NewString(), Debit: "100"},
			{AccountID: uuid.NewString(), Credit: "100"},
		},
	}

	w := suite.doJSON(http.MethodPost, "/api/v1/journals", body)

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.JournalResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(expected.JournalID, resp.JournalID)
	suite.Equal("JE-000042", resp.EntryNumber)
	suite.Equal(domain.Draft, resp.Status)

	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestCreateJournal_MissingDescription() {
	body := dto.CreateJournalRequest{
		Date:         time.Now().UTC(),
		CurrencyCode: "USD",
		Lines:        []dto.LedgerLineRequest{{AccountID: uuid.NewString(), Debit: "100"}},
	}

	w := suite.doJSON(http.MethodPost, "/api/v1/journals", body)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockJournalService.AssertNotCalled(suite.T(), "CreateDraftJournal")
}

func (suite *JournalHandlerTestSuite) TestGetJournal_NotFound() {
	journalID := uuid.NewString()
	suite.mockJournalService.On("GetJournalByID", mock.Anything, journalID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doJSON(http.MethodGet, "/api/v1/journals/"+journalID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestPostJournal_Success() {
	expected := suite.sampleJournal(domain.Posted)

	suite.mockJournalService.On("PostJournal", mock.Anything, expected.JournalID, suite.userID).
		Return(expected, nil).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/journals/"+expected.JournalID+"/post", nil)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.JournalResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.Posted, resp.Status)
	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestPostJournal_Unbalanced() {
	journalID := uuid.NewString()
	suite.mockJournalService.On("PostJournal", mock.Anything, journalID, suite.userID).
		Return(nil, services.ErrJournalUnbalanced).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/journals/"+journalID+"/post", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestPostJournal_NotDraft() {
	journalID := uuid.NewString()
	suite.mockJournalService.On("PostJournal", mock.Anything, journalID, suite.userID).
		Return(nil, services.ErrNotDraft).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/journals/"+journalID+"/post", nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestReverseJournal_AlreadyReversed() {
	journalID := uuid.NewString()
	suite.mockJournalService.On("ReverseJournal", mock.Anything, journalID, suite.userID).
		Return(nil, apperrors.ErrConflict).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/journals/"+journalID+"/reverse", nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestCheckBalance_ReturnsTotals() {
	lines := []dto.LedgerLineRequest{
		{AccountID: uuid.NewString(), Debit: "150"},
		{AccountID: uuid.NewString(), Credit: "100"},
	}
	result := accounting.BalanceResult{
		TotalDebits:  decimal.NewFromInt(150),
		TotalCredits: decimal.NewFromInt(100),
		Difference:   decimal.NewFromInt(50),
		IsBalanced:   false,
	}

	suite.mockJournalService.On("CheckJournalBalance", mock.Anything, lines).
		Return(result, nil).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/journals/balance-check", lines)

	suite.Equal(http.StatusOK, w.Code)

	var resp accounting.BalanceResult
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.TotalDebits.Equal(decimal.NewFromInt(150)))
	suite.False(resp.IsBalanced)
	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestListJournals_MissingToken() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/journals", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockJournalService.AssertNotCalled(suite.T(), "ListJournals")
}

// --- Run Test Suite ---
func TestJournalHandler(t *testing.T) {
	suite.Run(t, new(JournalHandlerTestSuite))
}
