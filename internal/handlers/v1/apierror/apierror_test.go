package apierror

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-server/internal/handlers/v1/apitypes"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/service"
)

func TestFromService(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"conflict", service.ErrConflict, http.StatusBadRequest, MessageUserExists},
		{"credentials", service.ErrInvalidCredentials, http.StatusBadRequest, MessageInvalidCredentials},
		{"not found", service.ErrNotFound, http.StatusNotFound, MessageUserNotFound},
		{"forbidden wrapped", fmt.Errorf("update: %w", service.ErrForbidden), http.StatusForbidden, MessageForbidden},
		{"internal", errors.New("connection refused"), http.StatusInternalServerError, "Failed."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromService(context.Background(), tt.err, "Failed.")
			assert.Equal(t, tt.status, got.GetStatus())
			assert.Equal(t, tt.message, got.Error())
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestFromService_InternalRecordedInLogData(t *testing.T) {
	buf := &bytes.Buffer{}
	logData := logging.NewLogData(logging.NewLogger(buf))
	ctx := logging.WithLogData(context.Background(), logData)

	FromService(ctx, errors.New("connection refused"), "Failed.")
	logData.Log().Info("done")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "connection refused", line["error"])
}

type echoInput struct {
	Body struct {
		Name string `json:"name" minLength:"2"`
	}
}

func TestHumaUsesMessageEnvelope(t *testing.T) {
	_, api := humatest.New(t, apitypes.Config("Test API", "1.0.0"))
	huma.Register(api, huma.Operation{
		OperationID: "echo",
		Method:      http.MethodPost,
		Path:        "/echo",
	}, func(ctx context.Context, _ *echoInput) (*struct{}, error) {
		return nil, huma.Error403Forbidden(MessageForbidden)
	})

	resp := api.Post("/echo", map[string]string{"name": "ok"})
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.JSONEq(t, `{"message":"Forbidden."}`, resp.Body.String())

	resp = api.Post("/echo", map[string]string{"name": "x"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Len(t, body, 1)
	assert.Contains(t, body["message"], "validation failed")
}
