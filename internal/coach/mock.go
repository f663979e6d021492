package coach

import (
	"context"
	"errors"
	"sync"
)

// MockCall records one Generate invocation.
type MockCall struct {
	System   string
	Messages []Message
	Tuning   Tuning
}

// MockClient replays queued responses in order. With nothing queued it
// answers with a fixed advice payload so local development works offline.
type MockClient struct {
	mu        sync.Mutex
	responses []mockResult
	calls     []MockCall
}

type mockResult struct {
	content string
	err     error
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

// Respond queues a successful response.
func (m *MockClient) Respond(content string) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockResult{content: content})
	return m
}

// Fail queues an error.
func (m *MockClient) Fail(err error) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockResult{err: err})
	return m
}

func (m *MockClient) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall(nil), m.calls...)
}

func (m *MockClient) Generate(ctx context.Context, systemPrompt string, messages []Message, tuning Tuning) (*LLMResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{System: systemPrompt, Messages: messages, Tuning: tuning})

	if len(m.responses) == 0 {
		return &LLMResponse{Content: mockAdviceJSON, PromptTokens: 120, OutputTokens: 80}, nil
	}
	next := m.responses[0]
	m.responses = m.responses[1:]
	if next.err != nil {
		return nil, next.err
	}
	if next.content == "" {
		return nil, &ErrInvalidResponse{Err: errors.New("empty mock response")}
	}
	return &LLMResponse{Content: next.content}, nil
}

const mockAdviceJSON = `{
  "greeting": "[Mock] Welcome back, keep going!",
  "analysis": "[Mock] Your kana is coming along nicely. Kanji is the next big step.",
  "recommendations": ["Review your weak kana", "Try a kanji quiz", "Complete the Daily Challenge"],
  "motivationalQuote": "継続は力なり (Keizoku wa chikara nari) - Persistence is power."
}`
