package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var lines []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		lines = append(lines, entry)
	}
	return lines
}

func TestGetLogData_Missing(t *testing.T) {
	assert.Nil(t, GetLogData(context.Background()))
}

func TestLogData_NilIsNoop(t *testing.T) {
	var logData *LogData
	assert.NotPanics(t, func() {
		logData.AddData("key", "value")
		logData.AddError(errors.New("ignored"))
		logData.AddTiming("ms")()
		_ = logData.Log()
	})
}

func TestLogData_TimingAccumulates(t *testing.T) {
	logData := NewLogData(NewLogger(&bytes.Buffer{}))
	logData.timeItems["queryMs"] = 5

	logData.AddTiming("queryMs")()

	assert.GreaterOrEqual(t, logData.timeItems["queryMs"], int64(5))
}

func TestLogData_AddDataAndTiming(t *testing.T) {
	buf := &bytes.Buffer{}
	logData := NewLogData(NewLogger(buf))

	logData.AddData("userID", "abc")
	stop := logData.AddTiming("queryMs")
	stop()
	logData.Log().Info("done")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "abc", lines[0]["userID"])
	assert.Contains(t, lines[0], "queryMs")
	assert.Equal(t, "info", lines[0]["loglevel"])
}

func TestLoggingWrapper_Error(t *testing.T) {
	buf := &bytes.Buffer{}
	wrapped := LoggingWrapper("Thing", NewLogger(buf), func(w http.ResponseWriter, r *http.Request, logData *LogData) error {
		assert.Same(t, logData, GetLogData(r.Context()))
		w.WriteHeader(http.StatusTeapot)
		return errors.New("broken")
	})

	w := httptest.NewRecorder()
	wrapped(w, httptest.NewRequest(http.MethodGet, "/thing", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "Handler.Thing.Start", lines[0]["msg"])
	assert.Equal(t, "Handler.Thing.Error", lines[1]["msg"])
	assert.Equal(t, "broken", lines[1]["error"])
}

type pingOutput struct {
	Body struct {
		OK bool `json:"ok"`
	}
}

func TestHumaMiddleware_LogsOperation(t *testing.T) {
	buf := &bytes.Buffer{}
	_, api := humatest.New(t)
	api.UseMiddleware(HumaMiddleware(NewLogger(buf)))

	huma.Register(api, huma.Operation{
		OperationID: "ping",
		Method:      http.MethodGet,
		Path:        "/ping",
	}, func(ctx context.Context, _ *struct{}) (*pingOutput, error) {
		logData := GetLogData(ctx)
		require.NotNil(t, logData)
		logData.AddData("pinged", true)
		out := &pingOutput{}
		out.Body.OK = true
		return out, nil
	})

	resp := api.Get("/ping")
	assert.Equal(t, http.StatusOK, resp.Code)

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "Handler.ping.Complete", lines[1]["msg"])
	assert.Equal(t, true, lines[1]["pinged"])
	assert.Equal(t, float64(http.StatusOK), lines[1]["status"])
}

func TestSetLevel(t *testing.T) {
	logger := NewLogger(&bytes.Buffer{})

	require.NoError(t, SetLevel(logger, ""))
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())

	require.NoError(t, SetLevel(logger, "debug"))
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	assert.Error(t, SetLevel(logger, "chatty"))
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
}
