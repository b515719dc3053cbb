package transaction

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-server/internal/service"
)

// -- parseFilter unit tests --

func TestParseFilter_Empty(t *testing.T) {
	filter, err := parseFilter(FilterQuery{})

	require.NoError(t, err)
	assert.Equal(t, service.TransactionFilter{}, filter)
}

func TestParseFilter_AllFields(t *testing.T) {
	filter, err := parseFilter(FilterQuery{
		Category: "Food",
		Type:     "expense",
		From:     "2025-01-01",
		To:       "2025-01-31",
		Search:   "lunch",
	})

	require.NoError(t, err)
	require.NotNil(t, filter.Category)
	assert.Equal(t, "Food", *filter.Category)
	require.NotNil(t, filter.Kind)
	assert.Equal(t, service.KindExpense, *filter.Kind)
	require.NotNil(t, filter.From)
	assert.True(t, filter.From.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NotNil(t, filter.To)
	assert.True(t, filter.To.Equal(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)))
	require.NotNil(t, filter.Search)
	assert.Equal(t, "lunch", *filter.Search)
}

func TestParseFilter_BadDate(t *testing.T) {
	_, err := parseFilter(FilterQuery{To: "yesterday"})

	assert.EqualError(t, err, "Invalid to date.")
}

// -- HTTP tests --

func TestHTTP_ListTransactions_Success(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	txs := []service.Transaction{
		{ID: uuid.Must(uuid.NewV4()), UserID: userID, Kind: service.KindIncome, Category: "Pay", Note: "salary", Amount: decimal.RequireFromString("1000"), Date: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
	}

	mockSvc := new(mockTransactionService)
	mockSvc.On("ListTransactions", mock.Anything, userID, mock.MatchedBy(func(f service.TransactionFilter) bool {
		return f.Kind != nil && *f.Kind == service.KindIncome &&
			f.Search != nil && *f.Search == "pay" &&
			f.Category == nil && f.From == nil && f.To == nil
	})).Return(txs, nil)

	resp := newTestAPI(t, mockSvc).Get("/api/transactions?type=income&search=pay", authHeader(t, userID))

	require.Equal(t, http.StatusOK, resp.Code)
	var body []Transaction
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "Pay", body[0].Category)
	assert.Equal(t, "income", body[0].Type)
	assert.Equal(t, "2025-02-01", body[0].Date.String())
	mockSvc.AssertExpectations(t)
}

func TestHTTP_ListTransactions_EmptyIsArray(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	mockSvc := new(mockTransactionService)
	mockSvc.On("ListTransactions", mock.Anything, userID, service.TransactionFilter{}).Return([]service.Transaction{}, nil)

	resp := newTestAPI(t, mockSvc).Get("/api/transactions", authHeader(t, userID))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[]`, resp.Body.String())
}

func TestHTTP_ListTransactions_BadDate(t *testing.T) {
	mockSvc := new(mockTransactionService)

	resp := newTestAPI(t, mockSvc).Get("/api/transactions?from=01-02-2025", authHeader(t, uuid.Must(uuid.NewV4())))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Invalid from date.", messageOf(t, resp.Body.Bytes()))
	mockSvc.AssertNotCalled(t, "ListTransactions")
}

func TestHTTP_ListTransactions_InvalidToken(t *testing.T) {
	mockSvc := new(mockTransactionService)

	resp := newTestAPI(t, mockSvc).Get("/api/transactions", "Authorization: garbage")

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Invalid token.", messageOf(t, resp.Body.Bytes()))
}

func TestHTTP_ListTransactions_ServiceError(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	mockSvc := new(mockTransactionService)
	mockSvc.On("ListTransactions", mock.Anything, userID, mock.Anything).Return(nil, errors.New("timeout"))

	resp := newTestAPI(t, mockSvc).Get("/api/transactions", authHeader(t, userID))

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, "Failed to list transactions.", messageOf(t, resp.Body.Bytes()))
}

func TestHTTP_Summary(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	mockSvc := new(mockTransactionService)
	mockSvc.On("Summarize", mock.Anything, userID, mock.MatchedBy(func(f service.TransactionFilter) bool {
		return f.From != nil && f.From.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	})).Return(&service.Summary{
		Income:  decimal.RequireFromString("1000"),
		Expense: decimal.RequireFromString("250.5"),
		Net:     decimal.RequireFromString("749.5"),
		Count:   4,
	}, nil)

	resp := newTestAPI(t, mockSvc).Get("/api/transactions/summary?from=2025-01-01", authHeader(t, userID))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"income":1000,"expense":250.5,"net":749.5,"count":4}`, resp.Body.String())
}
