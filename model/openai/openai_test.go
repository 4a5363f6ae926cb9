package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/alertmesh/model"
)

var _ model.Model = (*Model)(nil)

func newTestModel(t *testing.T, handler http.HandlerFunc) *Model {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := openai.NewClient(
		option.WithBaseURL(srv.URL+"/v1/"),
		option.WithAPIKey("test-key"),
		option.WithMaxRetries(0),
	)

	return NewModelFromClient(&client, func(o *Options) { o.Model = "gpt-test" })
}

func TestModel_Generate(t *testing.T) {
	var body map[string]any

	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 0,
			"model": "gpt-test",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Root cause: CPU"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 4, "total_tokens": 16}
		}`))
	})

	resp, err := m.Generate(context.Background(), model.Request{
		Instructions: "You are an investigator.",
		Messages:     []model.Message{{Role: model.RoleUser, Text: "report"}},
		MaxTokens:    256,
	})
	require.NoError(t, err)

	assert.Equal(t, "chatcmpl-1", resp.ID)
	assert.Equal(t, "Root cause: CPU", resp.Text)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.Equal(t, &model.TokenUsage{PromptTokens: 12, CompletionTokens: 4, TotalTokens: 16}, resp.Usage)

	assert.Equal(t, "gpt-test", body["model"])
	assert.Equal(t, float64(256), body["max_completion_tokens"])

	messages, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "user", messages[1].(map[string]any)["role"])
}

func TestModel_GenerateNoChoices(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "x", "object": "chat.completion", "created": 0, "model": "gpt-test", "choices": []}`))
	})

	_, err := m.Generate(context.Background(), model.Request{Messages: []model.Message{{Role: model.RoleUser, Text: "hi"}}})
	assert.ErrorContains(t, err, "no choices")
}

func TestModel_GenerateAPIError(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "bad key", "type": "invalid_request_error"}}`))
	})

	_, err := m.Generate(context.Background(), model.Request{Messages: []model.Message{{Role: model.RoleUser, Text: "hi"}}})
	assert.ErrorContains(t, err, "openai api error")
}

func TestModel_Info(t *testing.T) {
	m := NewModel(func(o *Options) { o.APIKey = "k" })

	assert.Equal(t, model.Info{Name: openai.ChatModelGPT4oMini, Provider: "openai"}, m.Info())
}
