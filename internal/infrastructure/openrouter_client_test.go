package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dhonk_backend/internal/config"
	"dhonk_backend/internal/entities"
)

func newTestClient(url string, readTimeout time.Duration) *OpenRouterClient {
	return NewOpenRouterClient(config.LLMConfig{
		APIKey:         "test-key",
		BaseURL:        url,
		Model:          "test-model",
		Temperature:    0.6,
		ConnectTimeout: time.Second,
		ReadTimeout:    readTimeout,
	})
}

var testMessages = []entities.ChatMessage{
	{Role: entities.RoleSystem, Content: "be brief"},
	{Role: entities.RoleUser, Content: "hi"},
}

func TestChatCompletion_Success(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "Namaste!"}},
			},
		})
	}))
	defer server.Close()

	reply, err := newTestClient(server.URL, 5*time.Second).ChatCompletion(context.Background(), testMessages)
	require.NoError(t, err)
	assert.Equal(t, "Namaste!", reply)

	assert.Equal(t, "test-model", got.Model)
	assert.InDelta(t, 0.6, got.Temperature, 1e-9)
	assert.Equal(t, testMessages, got.Messages)
}

func TestChatCompletion_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 5*time.Second).ChatCompletion(context.Background(), testMessages)

	var statusErr *UpstreamStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	assert.Equal(t, `{"error":"rate limited"}`, statusErr.Body)
	assert.False(t, errors.Is(err, ErrUpstreamTimeout))
}

func TestChatCompletion_ReadTimeout(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	start := time.Now()
	_, err := newTestClient(server.URL, 50*time.Millisecond).ChatCompletion(context.Background(), testMessages)

	require.ErrorIs(t, err, ErrUpstreamTimeout)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestChatCompletion_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 5*time.Second).ChatCompletion(context.Background(), testMessages)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestChatCompletion_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 5*time.Second).ChatCompletion(context.Background(), testMessages)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode chat response")
}

func TestChatCompletion_MissingAPIKey(t *testing.T) {
	client := NewOpenRouterClient(config.LLMConfig{BaseURL: "http://127.0.0.1:1", ConnectTimeout: time.Second, ReadTimeout: time.Second})

	_, err := client.ChatCompletion(context.Background(), testMessages)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestChatCompletion_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(url, time.Second).ChatCompletion(context.Background(), testMessages)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUpstreamTimeout))
}
