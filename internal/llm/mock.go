package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is a canned structured response for the MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockReply is a canned chat reply for the MockProvider.
type MockReply struct {
	Text string
	Err  error
}

// MockProvider is a deterministic Provider for testing.
// It returns canned responses in FIFO order and records all requests.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	bySchema  map[string][]MockResponse
	replies   []MockReply
	Calls     []Request
	ChatCalls []ChatRequest
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Generate returns the next canned response or ErrProviderUnavailable if
// the queue is empty.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	var resp MockResponse
	if req.Schema != nil && len(m.bySchema[req.Schema.Name]) > 0 {
		queue := m.bySchema[req.Schema.Name]
		resp = queue[0]
		m.bySchema[req.Schema.Name] = queue[1:]
	} else if len(m.responses) > 0 {
		resp = m.responses[0]
		m.responses = m.responses[1:]
	} else {
		return nil, &ErrProviderUnavailable{Err: nil}
	}

	if resp.Err != nil {
		return nil, resp.Err
	}

	return &Response{
		Content:    resp.Content,
		Usage:      resp.Usage,
		Model:      "mock",
		StopReason: "end",
	}, nil
}

// Converse returns the next canned chat reply or ErrProviderUnavailable
// if the reply queue is empty.
func (m *MockProvider) Converse(_ context.Context, req ChatRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ChatCalls = append(m.ChatCalls, req)

	if len(m.replies) == 0 {
		return "", &ErrProviderUnavailable{Err: nil}
	}

	reply := m.replies[0]
	m.replies = m.replies[1:]

	if reply.Err != nil {
		return "", reply.Err
	}
	return reply.Text, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned structured response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// AddSchemaResponse queues a canned response served only to requests
// declaring the named schema. Useful when concurrent requests make
// FIFO order nondeterministic.
func (m *MockProvider) AddSchemaResponse(schemaName string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bySchema == nil {
		m.bySchema = make(map[string][]MockResponse)
	}
	m.bySchema[schemaName] = append(m.bySchema[schemaName], resp)
}

// AddReply appends a canned chat reply to the queue.
func (m *MockProvider) AddReply(reply MockReply) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, reply)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
