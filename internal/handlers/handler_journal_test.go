package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hroffice/gl_backend/internal/apperrors"
	"github.com/hroffice/gl_backend/internal/core/domain"
	portssvc "github.com/hroffice/gl_backend/internal/core/ports/services"
	"github.com/hroffice/gl_backend/internal/dto"
	"github.com/hroffice/gl_backend/internal/handlers"
	"github.com/hroffice/gl_backend/internal/middleware"
)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) CreateDraftEntry(ctx context.Context, companyID string, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) SubmitEntry(ctx context.Context, companyID string, entryID string, actor string) error {
	args := m.Called(ctx, companyID, entryID, actor)
	return args.Error(0)
}
func (m *MockJournalService) ApproveEntry(ctx context.Context, companyID string, entryID string, actor string) error {
	args := m.Called(ctx, companyID, entryID, actor)
	return args.Error(0)
}
func (m *MockJournalService) RejectEntry(ctx context.Context, companyID string, entryID string, actor string) error {
	args := m.Called(ctx, companyID, entryID, actor)
	return args.Error(0)
}
func (m *MockJournalService) CancelEntry(ctx context.Context, companyID string, entryID string, actor string) error {
	args := m.Called(ctx, companyID, entryID, actor)
	return args.Error(0)
}
func (m *MockJournalService) PostEntry(ctx context.Context, companyID string, entryID string, actor string, skipBudgetUpdate bool) (*dto.PostingResult, error) {
	args := m.Called(ctx, companyID, entryID, actor, skipBudgetUpdate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PostingResult), args.Error(1)
}
func (m *MockJournalService) ReverseEntry(ctx context.Context, companyID string, entryID string, actor string, reason string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID, actor, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) GetEntryByID(ctx context.Context, companyID string, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) ListEntries(ctx context.Context, companyID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	args := m.Called(ctx, companyID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEntriesResponse), args.Error(1)
}
func (m *MockJournalService) ListEntriesByAccount(ctx context.Context, companyID string, accountCode string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	args := m.Called(ctx, companyID, accountCode, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEntriesResponse), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Test Suite ---
type JournalHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockJournalService *MockJournalService
	companyID          string
	userID             string
}

func (suite *JournalHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.mockJournalService = new(MockJournalService)

	v1 := suite.router.Group("/api/v1", middleware.IdentityMiddleware())
	handlers.RegisterJournalRoutes(v1, suite.mockJournalService)
}

func (suite *JournalHandlerTestSuite) newRequest(method, url string, body any) *http.Request {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Company-ID", suite.companyID)
	req.Header.Set("X-User-ID", suite.userID)
	return req
}

func (suite *JournalHandlerTestSuite) TestPostEntry_Success() {
	entryID := uuid.NewString()
	postedAt := time.Now()

	expected := &dto.PostingResult{
		Entry: dto.JournalEntryResponse{
			EntryID:     entryID,
			EntryNumber: "JV-2025-2026-000001",
			CompanyID:   suite.companyID,
			Status:      domain.EntryPosted,
			PostedAt:    &postedAt,
		},
		Warnings: []string{"budget alert threshold reached for account 5001"},
	}

	suite.mockJournalService.On("PostEntry",
		mock.Anything, suite.companyID, entryID, suite.userID, false,
	).Return(expected, nil).Once()

	req := suite.newRequest(http.MethodPost, fmt.Sprintf("/api/v1/journal-entries/%s/post", entryID), nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var body dto.PostingResult
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("JV-2025-2026-000001", body.Entry.EntryNumber)
	suite.Len(body.Warnings, 1)

	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestPostEntry_SkipBudgetUpdateFlag() {
	entryID := uuid.NewString()

	expected := &dto.PostingResult{
		Entry: dto.JournalEntryResponse{EntryID: entryID, Status: domain.EntryPosted},
	}
	suite.mockJournalService.On("PostEntry",
		mock.Anything, suite.companyID, entryID, suite.userID, true,
	).Return(expected, nil).Once()

	req := suite.newRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/journal-entries/%s/post", entryID),
		dto.PostEntryRequest{SkipBudgetUpdate: true})
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestPostEntry_BudgetBlocked() {
	entryID := uuid.NewString()

	suite.mockJournalService.On("PostEntry",
		mock.Anything, suite.companyID, entryID, suite.userID, false,
	).Return(nil, fmt.Errorf("%w: account 5001 over block threshold", apperrors.ErrBudgetBlocked)).Once()

	req := suite.newRequest(http.MethodPost, fmt.Sprintf("/api/v1/journal-entries/%s/post", entryID), nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestPostEntry_PeriodLocked() {
	entryID := uuid.NewString()

	suite.mockJournalService.On("PostEntry",
		mock.Anything, suite.companyID, entryID, suite.userID, false,
	).Return(nil, apperrors.ErrPeriodLocked).Once()

	req := suite.newRequest(http.MethodPost, fmt.Sprintf("/api/v1/journal-entries/%s/post", entryID), nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusLocked, w.Code)
	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestCreateEntry_ImbalancedRejected() {
	req := dto.CreateJournalEntryRequest{
		EntryDate:   time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC),
		Description: "Office supplies",
		Lines: []dto.JournalLineRequest{
			{AccountCode: "5001", Debit: decimal.NewFromInt(100)},
			{AccountCode: "1001", Credit: decimal.NewFromInt(90)},
		},
	}

	suite.mockJournalService.On("CreateDraftEntry",
		mock.Anything, suite.companyID, mock.AnythingOfType("dto.CreateJournalEntryRequest"), suite.userID,
	).Return(nil, apperrors.ErrImbalancedEntry).Once()

	httpReq := suite.newRequest(http.MethodPost, "/api/v1/journal-entries", req)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, httpReq)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestGetEntry_NotFound() {
	entryID := uuid.NewString()

	suite.mockJournalService.On("GetEntryByID",
		mock.Anything, suite.companyID, entryID,
	).Return(nil, apperrors.ErrNotFound).Once()

	req := suite.newRequest(http.MethodGet, "/api/v1/journal-entries/"+entryID, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestReverseEntry_Success() {
	entryID := uuid.NewString()
	reversingID := uuid.NewString()

	reversing := &domain.JournalEntry{
		EntryID:         reversingID,
		EntryNumber:     "JV-2025-2026-000002",
		CompanyID:       suite.companyID,
		Status:          domain.EntryPosted,
		OriginalEntryID: &entryID,
	}
	suite.mockJournalService.On("ReverseEntry",
		mock.Anything, suite.companyID, entryID, suite.userID, "duplicate invoice",
	).Return(reversing, nil).Once()

	req := suite.newRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/journal-entries/%s/reverse", entryID),
		dto.ReverseEntryRequest{Reason: "duplicate invoice"})
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)

	var body dto.JournalEntryResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(reversingID, body.EntryID)

	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestReverseEntry_MissingReasonRejected() {
	entryID := uuid.NewString()

	req := suite.newRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/journal-entries/%s/reverse", entryID),
		map[string]string{})
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockJournalService.AssertNotCalled(suite.T(), "ReverseEntry")
}

func (suite *JournalHandlerTestSuite) TestSubmitEntry_Conflict() {
	entryID := uuid.NewString()

	suite.mockJournalService.On("SubmitEntry",
		mock.Anything, suite.companyID, entryID, suite.userID,
	).Return(fmt.Errorf("%w: cannot submit POSTED entry", apperrors.ErrInvalidState)).Once()

	req := suite.newRequest(http.MethodPost, fmt.Sprintf("/api/v1/journal-entries/%s/submit", entryID), nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestMissingIdentityHeadersRejected() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/journal-entries", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockJournalService.AssertNotCalled(suite.T(), "ListEntries")
}

// --- Run Test Suite ---
func TestJournalHandler(t *testing.T) {
	suite.Run(t, new(JournalHandlerTestSuite))
}
