package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/futig/proposal-backend/internal/config"
	"github.com/futig/proposal-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestConnector(url string) *Connector {
	temperature := 0.4
	return NewConnector(config.LLMConnectorConfig{
		HTTPClientConfig: config.HTTPClientConfig{
			RequestTimeout:        5 * time.Second,
			ConnTimeout:           time.Second,
			ResponseHeaderTimeout: 5 * time.Second,
			Url:                   url,
		},
		Model:            "gemini-test",
		GenerateEndpoint: "/v1beta/models/{model}:generateContent",
		Temperature:      &temperature,
	}, zap.NewNop())
}

func TestConnector_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "AIzaKeyOne", r.Header.Get("x-goog-api-key"))
		assert.Empty(t, r.Header.Get("Authorization"))

		var req entity.GeminiGenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "Hello", req.Contents[0].Parts[0].Text)
		require.NotNil(t, req.GenerationConfig)
		assert.Equal(t, 0.4, *req.GenerationConfig.Temperature)

		json.NewEncoder(w).Encode(entity.GeminiGenerateResponse{
			Candidates: []entity.GeminiCandidate{{
				Content: entity.GeminiContent{Parts: []entity.GeminiPart{{Text: "Hi "}, {Text: "there"}}},
			}},
		})
	}))
	defer srv.Close()

	text, err := newTestConnector(srv.URL).Complete(context.Background(), &entity.CompletionRequest{
		Prompt: "Hello",
		APIKey: "AIzaKeyOne",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hi there", text)
}

func TestConnector_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantErr: entity.ErrAuthentication},
		{name: "forbidden", status: http.StatusForbidden, wantErr: entity.ErrAuthentication},
		{name: "invalid key", status: http.StatusBadRequest, body: `{"error":{"details":[{"reason":"API_KEY_INVALID"}]}}`, wantErr: entity.ErrAuthentication},
		{name: "rate limited", status: http.StatusTooManyRequests, wantErr: entity.ErrRateLimited},
		{name: "server error", status: http.StatusInternalServerError, wantErr: entity.ErrService},
		{name: "bad request", status: http.StatusBadRequest, body: `{"error":"bad"}`, wantErr: entity.ErrService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestConnector(srv.URL).Complete(context.Background(), &entity.CompletionRequest{
				Prompt: "Hello",
				APIKey: "AIzaKeyOne",
			})
			assert.ErrorIs(t, err, entity.ErrGeneration)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConnector_EmptyReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[]},"finishReason":"SAFETY"}]}`))
	}))
	defer srv.Close()

	_, err := newTestConnector(srv.URL).Complete(context.Background(), &entity.CompletionRequest{
		Prompt: "Hello",
		APIKey: "AIzaKeyOne",
	})
	assert.ErrorIs(t, err, entity.ErrEmptyReply)
	assert.Contains(t, err.Error(), "SAFETY")
}

func TestConnector_RequiresCredential(t *testing.T) {
	_, err := newTestConnector("http://unused.invalid").Complete(context.Background(), &entity.CompletionRequest{Prompt: "Hello"})
	assert.ErrorIs(t, err, entity.ErrCredential)
}

func TestMockConnector_RepliesPerStage(t *testing.T) {
	m := NewMockConnector(zap.NewNop())
	req := func(prompt string) *entity.CompletionRequest {
		return &entity.CompletionRequest{Prompt: prompt, APIKey: "AIzaKeyOne"}
	}

	reply, err := m.Complete(context.Background(), req("Analyze this request"))
	require.NoError(t, err)
	assert.Contains(t, reply, `"project_scope"`)

	reply, err = m.Complete(context.Background(), req(`Respond with {"estimated_timeline": ...}`))
	require.NoError(t, err)
	assert.Contains(t, reply, `"pricing"`)

	reply, err = m.Complete(context.Background(), req("1. Executive Summary"))
	require.NoError(t, err)
	assert.Contains(t, reply, "## 1. Executive Summary")

	_, err = m.Complete(context.Background(), &entity.CompletionRequest{Prompt: "x"})
	assert.ErrorIs(t, err, entity.ErrCredential)
}
