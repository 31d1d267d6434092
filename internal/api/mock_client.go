package api

import (
	"context"
	"sync"

	"github.com/diogo/chatmate/internal/models"
)

// MockClient is a mock implementation of ClientInterface for testing
type MockClient struct {
	ChatVal     string
	ChatErr     error
	AskVal      string
	AskErr      error
	SummaryVal  *models.Summary
	SummaryErr  error
	BaseURLVal  string
	// ChatFunc, when set, replaces ChatVal/ChatErr.
	ChatFunc func(ctx context.Context, message string) (string, error)

	mu            sync.Mutex
	ChatCalls     []string
	AskCalls      []AskCall
	SummarizeCall []string
	CloseCalled   bool
}

// AskCall records one AskWithContext invocation
type AskCall struct {
	Message  string
	PageText string
}

var _ ClientInterface = (*MockClient)(nil)

func (m *MockClient) Chat(ctx context.Context, message string) (string, error) {
	m.mu.Lock()
	m.ChatCalls = append(m.ChatCalls, message)
	m.mu.Unlock()

	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, message)
	}
	return m.ChatVal, m.ChatErr
}

func (m *MockClient) AskWithContext(ctx context.Context, message, pageText string) (string, error) {
	m.mu.Lock()
	m.AskCalls = append(m.AskCalls, AskCall{Message: message, PageText: pageText})
	m.mu.Unlock()
	return m.AskVal, m.AskErr
}

func (m *MockClient) Summarize(ctx context.Context, filePath string) (*models.Summary, error) {
	m.mu.Lock()
	m.SummarizeCall = append(m.SummarizeCall, filePath)
	m.mu.Unlock()
	return m.SummaryVal, m.SummaryErr
}

func (m *MockClient) BaseURL() string {
	return m.BaseURLVal
}

func (m *MockClient) Close() {
	m.mu.Lock()
	m.CloseCalled = true
	m.mu.Unlock()
}

// Calls returns a snapshot of the Chat messages received
func (m *MockClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.ChatCalls...)
}
