package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportqa/internal/llm"
)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	t.Setenv("TEST_CHAT_KEY", "secret")
	c, err := NewClient(Config{BaseURL: url + "/", APIKeyEnv: "TEST_CHAT_KEY", Model: "gpt-test"})
	require.NoError(t, err)
	return c
}

func TestChat_SendsMessagesAndReturnsContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		var req chatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-test", req.Model)
		assert.InDelta(t, 0.2, req.Temperature, 1e-9)
		assert.Equal(t, []chatMessage{{Role: "system", Content: "s"}, {Role: "user", Content: "u"}}, req.Messages)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"hello [page_1_chunk_1]"}}]}`))
	}))
	defer srv.Close()

	out, err := newTestClient(t, srv.URL).Chat(context.Background(), []llm.Message{
		{Role: llm.RoleSystem, Content: "s"},
		{Role: llm.RoleUser, Content: "u"},
	}, llm.Options{Temperature: 0.2})
	require.NoError(t, err)
	assert.Equal(t, "hello [page_1_chunk_1]", out)
}

func TestChat_RateLimitAndQuota(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"429": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"requests"}}`))
		},
		"quota": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"message":"no credit","type":"insufficient_quota","code":"insufficient_quota"}}`))
		},
		"429 without body": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()
			_, err := newTestClient(t, srv.URL).Chat(context.Background(), nil, llm.Options{})
			assert.ErrorIs(t, err, llm.ErrRateLimited)
		})
	}
}

func TestChat_OtherErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broke", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Chat(context.Background(), nil, llm.Options{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, llm.ErrRateLimited)
	assert.Contains(t, err.Error(), "502")
}

func TestChat_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Chat(context.Background(), nil, llm.Options{})
	assert.Error(t, err)
}

func TestNewClient_MissingKey(t *testing.T) {
	t.Setenv("TEST_CHAT_KEY", "")
	_, err := NewClient(Config{APIKeyEnv: "TEST_CHAT_KEY"})
	assert.Error(t, err)
}
