package llm

import "net/http"

const (
	cerebrasAPIURL = "https://api.cerebras.ai/v1/chat/completions"
	cerebrasModel  = "llama-3.3-70b"
)

// CerebrasClient uses the OpenAI-compatible request/response format,
// including tools and forced tool_choice.
type CerebrasClient struct {
	*OpenAIClient
}

func NewCerebrasClient(apiKey, model string) *CerebrasClient {
	if model == "" {
		model = cerebrasModel
	}
	return &CerebrasClient{
		OpenAIClient: &OpenAIClient{
			apiKey:     apiKey,
			model:      model,
			baseURL:    cerebrasAPIURL,
			label:      "cerebras",
			httpClient: &http.Client{},
		},
	}
}
