package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-server/internal/handlers/v1/apitypes"
)

func TestClient_LoginSendsCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ann@example.com", body["email"])
		assert.Equal(t, "hunter22", body["password"])

		_, _ = w.Write([]byte(`{"token":"tok","user":{"name":"Ann","email":"ann@example.com","dob":"1990-05-01","phone":""}}`))
	}))
	defer server.Close()

	resp, err := New(server.URL).Login(context.Background(), "ann@example.com", "hunter22")

	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, "Ann", resp.User.Name)
	require.NotNil(t, resp.User.Dob)
	assert.Equal(t, "1990-05-01", resp.User.Dob.String())
}

func TestClient_DecodesErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"Forbidden."}`))
	}))
	defer server.Close()

	_, err := New(server.URL).WithToken("tok").DeleteTransaction(context.Background(), "abc")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "Forbidden.", apiErr.Message)
}

func TestClient_ErrorWithoutEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := New(server.URL).Me(context.Background())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestClient_ListSendsTokenAndFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/transactions", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "income", r.URL.Query().Get("type"))
		assert.Equal(t, "2025-01-01", r.URL.Query().Get("from"))
		assert.False(t, r.URL.Query().Has("category"))

		_, _ = w.Write([]byte(`[{"id":"1","userId":"u","amount":-20.5,"type":"income","category":"Refund","date":"2025-02-01","note":""}]`))
	}))
	defer server.Close()

	txs, err := New(server.URL+"/").WithToken("tok").ListTransactions(context.Background(), Query{Type: "income", From: "2025-01-01"})

	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString("-20.5")))
	assert.Equal(t, "2025-02-01", txs[0].Date.String())
}

func TestClient_CreateTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 12.5, body["amount"])
		assert.Equal(t, "2025-06-01", body["date"])
		assert.NotContains(t, body, "note")

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"new","type":"expense","category":"Coffee","amount":12.5,"date":"2025-06-01"}`))
	}))
	defer server.Close()

	date, err := apitypes.ParseDate("2025-06-01")
	require.NoError(t, err)
	created, err := New(server.URL).WithToken("tok").CreateTransaction(context.Background(), NewTransaction{
		Amount:   apitypes.NewAmount(decimal.RequireFromString("12.50")),
		Type:     "expense",
		Category: "Coffee",
		Date:     date,
	})

	require.NoError(t, err)
	assert.Equal(t, "new", created.ID)
}

func TestWithToken_DoesNotMutateOriginal(t *testing.T) {
	base := New("http://localhost:9446")
	authed := base.WithToken("tok")

	assert.Empty(t, base.token)
	assert.Equal(t, "tok", authed.token)
}
