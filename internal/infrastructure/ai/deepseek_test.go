package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/linux-agent/internal/domain"
	"github.com/doeshing/linux-agent/internal/ports"
)

type capturedRequest struct {
	Model          string `json:"model"`
	Stream         bool   `json:"stream"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newDeepSeekServer(t *testing.T, captured *capturedRequest, handler func(w http.ResponseWriter)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		handler(w)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestDeepSeekCompleteJSONMode(t *testing.T) {
	var captured capturedRequest
	server := newDeepSeekServer(t, &captured, func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"1","object":"chat.completion","created":1,"model":"deepseek-chat",
			"choices":[{"index":0,"message":{"role":"assistant","content":"{\"commands\":[\"ls\"]}"},"finish_reason":"stop"}]}`)
	})

	backend, err := NewDeepSeekBackend(domain.BackendDefinition{Endpoint: server.URL}, "sk-test", nil)
	require.NoError(t, err)

	text, err := backend.Complete(context.Background(), ports.CompletionRequest{
		System:   "sys",
		Messages: []domain.ChatTurn{{Role: domain.RoleUser, Content: "list files"}},
		JSON:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"commands":["ls"]}`, text)

	assert.Equal(t, domain.DefaultDeepSeekModel, captured.Model)
	require.NotNil(t, captured.ResponseFormat)
	assert.Equal(t, "json_object", captured.ResponseFormat.Type)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "sys", captured.Messages[0].Content)
	assert.Equal(t, "user", captured.Messages[1].Role)
}

func TestDeepSeekCompleteReportsHTTPError(t *testing.T) {
	var captured capturedRequest
	server := newDeepSeekServer(t, &captured, func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"invalid key","type":"auth"}}`)
	})

	backend, err := NewDeepSeekBackend(domain.BackendDefinition{Endpoint: server.URL}, "sk-test", nil)
	require.NoError(t, err)

	_, err = backend.Complete(context.Background(), ports.CompletionRequest{
		Messages: []domain.ChatTurn{{Role: domain.RoleUser, Content: "hi"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deepseek")
}

func TestDeepSeekStream(t *testing.T) {
	var captured capturedRequest
	server := newDeepSeekServer(t, &captured, func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, chunk := range []string{"Hel", "", "lo"} {
			fmt.Fprintf(w, "data: {\"id\":\"1\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"deepseek-chat\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", chunk)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	backend, err := NewDeepSeekBackend(domain.BackendDefinition{Endpoint: server.URL}, "sk-test", nil)
	require.NoError(t, err)

	var chunks []string
	for chunk, err := range backend.Stream(context.Background(), ports.CompletionRequest{
		System: domain.ChatSystemPrompt,
		Messages: []domain.ChatTurn{
			{Role: domain.RoleUser, Content: "hi"},
			{Role: domain.RoleAssistant, Content: "hello"},
			{Role: domain.RoleUser, Content: "again"},
		},
	}) {
		require.NoError(t, err)
		chunks = append(chunks, chunk)
	}

	assert.Equal(t, []string{"Hel", "lo"}, chunks)
	assert.True(t, captured.Stream)
	assert.Nil(t, captured.ResponseFormat)
	require.Len(t, captured.Messages, 4)
	assert.Equal(t, "assistant", captured.Messages[2].Role)
}

func TestDeepSeekRequiresKey(t *testing.T) {
	_, err := NewDeepSeekBackend(domain.BackendDefinition{}, "  ", nil)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "API key"))
}
