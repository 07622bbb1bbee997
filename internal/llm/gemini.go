package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Harshitk-cp/odnar/internal/domain"
)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	geminiModel   = "gemini-2.0-flash"
)

type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewGeminiClient(apiKey, model string) *GeminiClient {
	if model == "" {
		model = geminiModel
	}
	return &GeminiClient{
		apiKey:     apiKey,
		model:      model,
		baseURL:    geminiBaseURL,
		httpClient: &http.Client{},
	}
}

func (c *GeminiClient) Model() string {
	return c.model
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiFunctionDeclaration struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters"`
}

type geminiTool struct {
	FunctionDeclarations []geminiFunctionDeclaration `json:"functionDeclarations"`
}

type geminiToolConfig struct {
	FunctionCallingConfig struct {
		Mode                 string   `json:"mode"`
		AllowedFunctionNames []string `json:"allowedFunctionNames"`
	} `json:"functionCallingConfig"`
}

type geminiGenerationConfig struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	Tools             []geminiTool           `json:"tools"`
	ToolConfig        *geminiToolConfig      `json:"toolConfig"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text         string `json:"text"`
				FunctionCall *struct {
					Name string          `json:"name"`
					Args json.RawMessage `json:"args"`
				} `json:"functionCall"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// geminiSchema rewrites a JSON schema into the OpenAPI subset Gemini accepts:
// upper-case type names and no additionalProperties.
func geminiSchema(schema map[string]any) map[string]any {
	out := make(map[string]any, len(schema))
	for k, v := range schema {
		switch k {
		case "additionalProperties":
			continue
		case "type":
			if s, ok := v.(string); ok {
				out[k] = strings.ToUpper(s)
				continue
			}
		case "properties":
			if props, ok := v.(map[string]any); ok {
				converted := make(map[string]any, len(props))
				for name, p := range props {
					if pm, ok := p.(map[string]any); ok {
						converted[name] = geminiSchema(pm)
					} else {
						converted[name] = p
					}
				}
				out[k] = converted
				continue
			}
		}
		out[k] = v
	}
	return out
}

func (c *GeminiClient) CallTool(ctx context.Context, tr domain.ToolRequest) (*domain.ToolCall, error) {
	gr := geminiRequest{
		Contents: []geminiContent{
			{
				Parts: []geminiPart{{Text: tr.Prompt}},
				Role:  "user",
			},
		},
		Tools: []geminiTool{{
			FunctionDeclarations: []geminiFunctionDeclaration{{
				Name:        tr.Tool.Name,
				Description: tr.Tool.Description,
				Parameters:  geminiSchema(tr.Tool.Schema),
			}},
		}},
		ToolConfig: &geminiToolConfig{},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     tr.Temperature,
			MaxOutputTokens: tr.MaxTokens,
		},
	}
	gr.ToolConfig.FunctionCallingConfig.Mode = "ANY"
	gr.ToolConfig.FunctionCallingConfig.AllowedFunctionNames = []string{tr.Tool.Name}
	if tr.System != "" {
		gr.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: tr.System}}}
	}

	body, err := json.Marshal(gr)
	if err != nil {
		return nil, fmt.Errorf("marshal gemini request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, c.model, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read gemini response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result geminiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("unmarshal gemini response: %w", err)
	}

	if result.Error != nil {
		return nil, fmt.Errorf("gemini API error: %s", result.Error.Message)
	}

	if len(result.Candidates) == 0 {
		return nil, fmt.Errorf("gemini API returned no candidates")
	}

	for _, part := range result.Candidates[0].Content.Parts {
		if part.FunctionCall != nil && part.FunctionCall.Name == tr.Tool.Name {
			return &domain.ToolCall{Name: part.FunctionCall.Name, Input: part.FunctionCall.Args}, nil
		}
	}

	return nil, nil
}
