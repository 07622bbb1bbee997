package llm

import (
	"context"
	"encoding/json"
	"regexp"
	"sync"

	"github.com/Harshitk-cp/odnar/internal/domain"
)

const mockModel = "mock"

var memoIDPattern = regexp.MustCompile(`id=([0-9a-fA-F-]{36})`)

// MockClient is a configurable LLM client for testing and local runs.
// Set CallToolResponse or CallToolError to control what CallTool returns.
// With neither set it pairs the first two memos listed in the prompt.
type MockClient struct {
	mu sync.Mutex

	ModelName        string
	CallToolResponse *domain.ToolCall
	CallToolError    error

	// Call tracking for assertions
	CallToolCalls []domain.ToolRequest
}

func NewMockClient() *MockClient {
	return &MockClient{ModelName: mockModel}
}

func (c *MockClient) Model() string {
	return c.ModelName
}

func (c *MockClient) CallTool(ctx context.Context, req domain.ToolRequest) (*domain.ToolCall, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.CallToolCalls = append(c.CallToolCalls, req)
	if c.CallToolError != nil {
		return nil, c.CallToolError
	}
	if c.CallToolResponse != nil {
		return c.CallToolResponse, nil
	}
	return defaultMockCall(req), nil
}

// Calls returns the number of CallTool invocations so far.
func (c *MockClient) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.CallToolCalls)
}

// Reset clears all recorded calls and configured responses.
func (c *MockClient) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CallToolResponse = nil
	c.CallToolError = nil
	c.CallToolCalls = nil
}

func defaultMockCall(req domain.ToolRequest) *domain.ToolCall {
	ids := memoIDPattern.FindAllStringSubmatch(req.Prompt, 2)
	if len(ids) < 2 {
		return nil
	}
	input, _ := json.Marshal(map[string]any{
		"memo_a_id":  ids[0][1],
		"memo_b_id":  ids[1][1],
		"title":      "Mock contradiction",
		"connection": "Both memos were written most recently.",
		"opposition": "The mock client does not judge stances.",
		"confidence": 0.1,
	})
	return &domain.ToolCall{Name: req.Tool.Name, Input: input}
}
