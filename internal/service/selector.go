package service

import (
	"context"
	"fmt"

	"github.com/Harshitk-cp/odnar/internal/domain"
	"github.com/Harshitk-cp/odnar/internal/llm"
)

const (
	selectorMaxTokens   = 700
	selectorTemperature = 0.2
)

// PairSelector asks the model for one connected-but-opposite memo pair and
// validates the answer. It never retries.
type PairSelector struct {
	llmClient domain.LLMClient
}

func NewPairSelector(lc domain.LLMClient) *PairSelector {
	return &PairSelector{llmClient: lc}
}

// Model returns the identifier of the underlying model.
func (s *PairSelector) Model() string {
	return s.llmClient.Model()
}

// Request builds the forced tool call sent for a candidate set.
func (s *PairSelector) Request(candidates []domain.Memo) domain.ToolRequest {
	return domain.ToolRequest{
		System:      llm.ContradictionSystemPrompt(),
		Prompt:      llm.ContradictionPrompt(candidates),
		Tool:        llm.ContradictionTool(),
		MaxTokens:   selectorMaxTokens,
		Temperature: selectorTemperature,
	}
}

// Select returns a validated draft, or an error wrapping ErrSelectionRejected.
// Transport failures are rejections too.
func (s *PairSelector) Select(ctx context.Context, candidates []domain.Memo) (*domain.CardDraft, error) {
	if len(candidates) < MinMemosForAnalysis {
		return nil, fmt.Errorf("%w: need at least %d candidates, got %d", ErrSelectionRejected, MinMemosForAnalysis, len(candidates))
	}

	call, err := s.llmClient.CallTool(ctx, s.Request(candidates))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSelectionRejected, err)
	}

	return ValidateSelection(call, candidates)
}
