package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Harshitk-cp/odnar/internal/domain"
)

const (
	openAIChatURL = "https://api.openai.com/v1/chat/completions"
	chatModel     = "gpt-4o-mini"
)

// OpenAIClient speaks the chat completions API. Cerebras reuses it with a
// different endpoint.
type OpenAIClient struct {
	apiKey     string
	model      string
	baseURL    string
	label      string
	httpClient *http.Client
}

func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	if model == "" {
		model = chatModel
	}
	return &OpenAIClient{
		apiKey:     apiKey,
		model:      model,
		baseURL:    openAIChatURL,
		label:      "openai",
		httpClient: &http.Client{},
	}
}

func (c *OpenAIClient) Model() string {
	return c.model
}

// chat types for OpenAI API
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters"`
}

type chatTool struct {
	Type     string       `json:"type"`
	Function chatFunction `json:"function"`
}

type chatToolChoice struct {
	Type     string `json:"type"`
	Function struct {
		Name string `json:"name"`
	} `json:"function"`
}

type chatRequest struct {
	Model       string          `json:"model"`
	Messages    []chatMessage   `json:"messages"`
	Temperature float32         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Tools       []chatTool      `json:"tools"`
	ToolChoice  *chatToolChoice `json:"tool_choice"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Type     string `json:"type"`
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *OpenAIClient) CallTool(ctx context.Context, tr domain.ToolRequest) (*domain.ToolCall, error) {
	choice := &chatToolChoice{Type: "function"}
	choice.Function.Name = tr.Tool.Name

	messages := make([]chatMessage, 0, 2)
	if tr.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: tr.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: tr.Prompt})

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: tr.Temperature,
		MaxTokens:   tr.MaxTokens,
		Tools: []chatTool{{
			Type: "function",
			Function: chatFunction{
				Name:        tr.Tool.Name,
				Description: tr.Tool.Description,
				Parameters:  tr.Tool.Schema,
			},
		}},
		ToolChoice: choice,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", c.label, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", c.label, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", c.label, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", c.label, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s API returned status %d: %s", c.label, resp.StatusCode, string(respBody))
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("unmarshal %s response: %w", c.label, err)
	}

	if result.Error != nil {
		return nil, fmt.Errorf("%s API error: %s", c.label, result.Error.Message)
	}

	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("%s API returned no choices", c.label)
	}

	for _, call := range result.Choices[0].Message.ToolCalls {
		if call.Function.Name == tr.Tool.Name {
			return &domain.ToolCall{
				Name:  call.Function.Name,
				Input: json.RawMessage(call.Function.Arguments),
			}, nil
		}
	}

	return nil, nil
}
