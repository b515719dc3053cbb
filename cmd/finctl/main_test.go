package main

import (
	"bytes"
	"encoding/json"
	"go/format"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-server/internal/client"
)

type fakeServer struct {
	*httptest.Server
	lastQuery    string
	lastAuth     string
	lastPassword string
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	fake := &fakeServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		fake.lastPassword = body["password"]
		if body["password"] != "hunter22" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"Invalid credentials."}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"tok","user":{"name":"Ann","email":"ann@example.com","dob":null,"phone":""}}`))
	})
	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		fake.lastAuth = r.Header.Get("Authorization")
		fake.lastQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[
			{"id":"a","type":"income","category":"Pay","note":"salary","amount":1000,"date":"2025-02-01"},
			{"id":"b","type":"expense","category":"Groceries","note":"","amount":80.5,"date":"2025-02-02"}
		]`))
	})
	mux.HandleFunc("/api/transactions/b", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		_, _ = w.Write([]byte(`{"message":"Transaction deleted."}`))
	})
	fake.Server = httptest.NewServer(mux)
	t.Cleanup(fake.Close)
	return fake
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	err := run(append([]string{"finctl"}, args...), strings.NewReader(stdin), stdout, stderr)
	return stdout.String(), err
}

func TestRun_LoginListLogout(t *testing.T) {
	server := newFakeServer(t)
	sessionPath := filepath.Join(t.TempDir(), "session.json")
	global := []string{"--server", server.URL, "--session", sessionPath}

	out, err := runCLI(t, "", append(global, "login", "--email", "ann@example.com", "--password", "hunter22")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as ann@example.com")

	session, err := client.NewSessionStore(sessionPath).Load()
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "tok", session.Token)

	out, err = runCLI(t, "", append(global, "tx", "list", "--type", "expense", "--show", "expense")...)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", server.lastAuth)
	assert.Equal(t, "type=expense", server.lastQuery)
	assert.Contains(t, out, "Income: 1000.00  Expense: 80.50  Net: 919.50")
	assert.Contains(t, out, "Groceries")
	assert.NotContains(t, out, "salary")

	out, err = runCLI(t, "", append(global, "tx", "rm", "b")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Transaction deleted.")

	_, err = runCLI(t, "", append(global, "logout")...)
	require.NoError(t, err)

	_, err = runCLI(t, "", append(global, "me")...)
	assert.ErrorIs(t, err, errNotLoggedIn)
}

func TestRun_LoginPromptsForPassword(t *testing.T) {
	server := newFakeServer(t)
	sessionPath := filepath.Join(t.TempDir(), "session.json")

	out, err := runCLI(t, "hunter22\n", "--server", server.URL, "--session", sessionPath, "login", "--email", "ann@example.com")

	require.NoError(t, err)
	assert.Contains(t, out, "Password: ")
	assert.Equal(t, "hunter22", server.lastPassword)
}

func TestRun_LoginRejected(t *testing.T) {
	server := newFakeServer(t)
	sessionPath := filepath.Join(t.TempDir(), "session.json")

	_, err := runCLI(t, "", "--server", server.URL, "--session", sessionPath, "login", "--email", "ann@example.com", "--password", "nope")

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid credentials.", apiErr.Message)

	session, err := client.NewSessionStore(sessionPath).Load()
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestSourcesAreGofmtClean(t *testing.T) {
	for _, name := range []string{"main.go", "main_test.go"} {
		src, err := os.ReadFile(name)
		require.NoError(t, err)

		formatted, err := format.Source(src)
		require.NoError(t, err)
		assert.Equal(t, string(formatted), string(src), "%s is not gofmt-formatted", name)
	}
}
