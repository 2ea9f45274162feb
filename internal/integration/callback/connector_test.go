package callback

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/futig/proposal-backend/internal/config"
	"github.com/futig/proposal-backend/internal/entity"
	pkgRetry "github.com/futig/proposal-backend/internal/pkg/retry"
	pkghttp "github.com/futig/proposal-backend/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestConnector() *Connector {
	return NewConnector(config.CallbackConnectorConfig{
		HTTPClientConfig: config.HTTPClientConfig{
			RequestTimeout:        5 * time.Second,
			ConnTimeout:           time.Second,
			ResponseHeaderTimeout: 5 * time.Second,
		},
		Retry: pkgRetry.RetryConfig{
			Attempts: 3,
			Delay:    time.Millisecond,
			MaxDelay: 5 * time.Millisecond,
		},
	}, zap.NewNop())
}

func TestSend_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		assert.Equal(t, "req-1", r.Header.Get("X-Request-ID"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := newTestConnector().Send(context.Background(), srv.URL, "req-1", &entity.CallbackEvent{
		Event: entity.CallbackEventTypeFinalResult,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSend_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	err := newTestConnector().Send(context.Background(), srv.URL, "req-1", &entity.CallbackEvent{
		Event: entity.CallbackEventTypeError,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, pkghttp.StatusCode(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestSendError_Payload(t *testing.T) {
	received := make(chan map[string]any, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		received <- payload
	}))
	defer srv.Close()

	newTestConnector().SendError(context.Background(), srv.URL, "req-2", "generation failed",
		map[string]any{"stage": "TimelineBudget"})

	payload := <-received
	assert.Equal(t, "error", payload["event"])
	ts, ok := payload["timestamp"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339, ts)
	assert.NoError(t, err)

	data := payload["data"].(map[string]any)
	errData := data["error"].(map[string]any)
	assert.Equal(t, "generation failed", errData["message"])
	assert.Equal(t, "TimelineBudget", errData["details"].(map[string]any)["stage"])
}

func TestNewConnector_DefaultRetry(t *testing.T) {
	c := NewConnector(config.CallbackConnectorConfig{}, zap.NewNop())
	assert.Equal(t, *pkgRetry.DefaultRetryConfig(), c.config.Retry)
}
