package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paperrank/internal/core/domain"
)

type stubPromptStore struct {
	prompt string
}

func (s *stubPromptStore) Load(_ string) (string, error) { return s.prompt, nil }
func (s *stubPromptStore) Reload()                       {}

func newTestService(t *testing.T, baseURL string) *SummaryService {
	t.Helper()

	svc, err := NewSummaryService(Config{APIKey: "test-key", BaseURL: baseURL})
	require.NoError(t, err)
	return svc
}

func TestNewSummaryService_RequiresAPIKey(t *testing.T) {
	_, err := NewSummaryService(Config{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestNewSummaryService_Defaults(t *testing.T) {
	svc := newTestService(t, "")
	assert.Equal(t, "gpt-3.5-turbo", svc.ModelName())
}

func TestSummaryService_Summarise(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatCompletionRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, "gpt-3.5-turbo", req.Model)
		assert.Equal(t, 150, req.MaxTokens)
		assert.InDelta(t, 0.3, req.Temperature, 0.001)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Contains(t, req.Messages[0].Content, "attention is all you need")

		fmt.Fprint(w, `{"choices": [{"message": {"content": " A tidy summary. "}, "finish_reason": "stop"}]}`)
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)

	summary, err := svc.Summarise(context.Background(), "attention is all you need", 150)
	require.NoError(t, err)
	assert.Equal(t, "A tidy summary.", summary)
}

func TestSummaryService_Summarise_DefaultMaxTokens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatCompletionRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, DefaultMaxTokens, req.MaxTokens)

		fmt.Fprint(w, `{"choices": [{"message": {"content": "ok"}}]}`)
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)

	_, err := svc.Summarise(context.Background(), "content", 0)
	require.NoError(t, err)
}

func TestSummaryService_Summarise_UsesPromptStore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatCompletionRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "Custom instructions: the text", req.Messages[0].Content)

		fmt.Fprint(w, `{"choices": [{"message": {"content": "ok"}}]}`)
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)
	svc.SetPromptStore(&stubPromptStore{prompt: "Custom instructions: %s"})

	_, err := svc.Summarise(context.Background(), "the text", 100)
	require.NoError(t, err)
}

func TestSummaryService_Summarise_AuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": {"message": "invalid api key", "type": "invalid_request_error"}}`)
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)

	_, err := svc.Summarise(context.Background(), "content", 100)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProviderAuth)
}

func TestSummaryService_Summarise_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)

	_, err := svc.Summarise(context.Background(), "content", 100)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestSummaryService_Summarise_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"choices": []}`)
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)

	_, err := svc.Summarise(context.Background(), "content", 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no response choices")
}

func TestSummaryService_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		fmt.Fprint(w, `{"data": []}`)
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)
	assert.NoError(t, svc.Ping(context.Background()))
}

func TestSummaryService_Ping_AuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)

	err := svc.Ping(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProviderAuth)
}
