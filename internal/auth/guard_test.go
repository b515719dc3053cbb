package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	tokens map[string]uuid.UUID
}

func (s stubValidator) Validate(token string) (uuid.UUID, error) {
	if id, ok := s.tokens[token]; ok {
		return id, nil
	}
	return uuid.Nil, ErrInvalidToken
}

type whoamiOutput struct {
	Body struct {
		UserID string `json:"userID"`
	}
}

func newGuardedAPI(t *testing.T, validator TokenValidator) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	huma.Register(api, huma.Operation{
		OperationID: "whoami",
		Method:      http.MethodGet,
		Path:        "/whoami",
		Middlewares: huma.Middlewares{Guard(api, validator)},
	}, func(ctx context.Context, _ *struct{}) (*whoamiOutput, error) {
		userID, ok := UserIDFromContext(ctx)
		if !ok {
			return nil, errors.New("no user in context")
		}
		out := &whoamiOutput{}
		out.Body.UserID = userID.String()
		return out, nil
	})
	return api
}

func TestExtractToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"abc", "abc"},
		{"Bearer ", ""},
		{"Bearer", "Bearer"},
		{"Token abc", "abc"},
		{"a b c", "a"},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ExtractToken(c.header), c.header)
	}
}

func TestGuard_BearerToken(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	api := newGuardedAPI(t, stubValidator{tokens: map[string]uuid.UUID{"good": userID}})

	resp := api.Get("/whoami", "Authorization: Bearer good")

	require.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		UserID string `json:"userID"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, userID.String(), body.UserID)
}

func TestGuard_BareToken(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	api := newGuardedAPI(t, stubValidator{tokens: map[string]uuid.UUID{"good": userID}})

	resp := api.Get("/whoami", "Authorization: good")

	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestGuard_MissingHeader(t *testing.T) {
	api := newGuardedAPI(t, stubValidator{})

	resp := api.Get("/whoami")

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestGuard_InvalidToken(t *testing.T) {
	api := newGuardedAPI(t, stubValidator{})

	resp := api.Get("/whoami", "Authorization: Bearer forged")

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGuard_RealTokens(t *testing.T) {
	tokens, clock := newTestTokens(t)
	userID := uuid.Must(uuid.NewV4())
	token, err := tokens.Issue(userID)
	require.NoError(t, err)

	api := newGuardedAPI(t, tokens)

	resp := api.Get("/whoami", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	clock.now = clock.now.Add(TokenLifetime)
	resp = api.Get("/whoami", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
