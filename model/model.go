package model

import (
	"context"
	"fmt"
	"sync"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one conversational turn.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Request captures the normalized model input.
type Request struct {
	Instructions string    `json:"instructions"` // System prompt
	Messages     []Message `json:"messages"`
	MaxTokens    int64     `json:"max_tokens,omitempty"` // 0 keeps the provider default
}

// LastUserText returns the text of the last user message.
func (r Request) LastUserText() string {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == RoleUser {
			return r.Messages[i].Text
		}
	}

	return ""
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a completed generation.
type Response struct {
	ID           string      `json:"id"`
	Text         string      `json:"text"`
	FinishReason string      `json:"finish_reason"`
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock"
}

// Model is the minimal interface required to drive generation.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests and examples.
type MockModel struct {
	info      Info
	mu        sync.Mutex
	responses map[string]string
	requests  []Request
	err       error
}

// NewMockModel constructs a MockModel.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: provider},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.responses[prompt] = response
}

// SetError makes every subsequent Generate call fail with err.
func (m *MockModel) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.err = err
}

// Requests returns the requests received so far.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]Request(nil), m.requests...)
}

// Generate implements Model. Unknown prompts are echoed back.
func (m *MockModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)

	if m.err != nil {
		return nil, m.err
	}

	input := req.LastUserText()
	if input == "" {
		return nil, fmt.Errorf("no user message provided")
	}

	text, ok := m.responses[input]
	if !ok {
		text = fmt.Sprintf("Mock response to: %s", input)
	}

	prompt := len(req.Instructions) + len(input)

	return &Response{
		ID:           fmt.Sprintf("mock-%d", len(m.requests)),
		Text:         text,
		FinishReason: "stop",
		Usage: &TokenUsage{
			PromptTokens:     prompt,
			CompletionTokens: len(text),
			TotalTokens:      prompt + len(text),
		},
	}, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
