package domain

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

type MemoStore interface {
	Create(ctx context.Context, m *Memo) error
	Count(ctx context.Context) (int, error)
	ListRecent(ctx context.Context, limit int) ([]Memo, error)
}

type CardStore interface {
	Count(ctx context.Context) (int, error)
	// InsertIfAbsent stores c unless a card with the same canonical pair
	// already exists. It reports whether a row was written.
	InsertIfAbsent(ctx context.Context, c *ContradictionCard) (bool, error)
	ListRecent(ctx context.Context, limit int) ([]ContradictionCard, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ContradictionCard, error)
}

// ToolSpec declares the single structured call a model must answer through.
type ToolSpec struct {
	Name        string
	Description string
	Schema      map[string]any
}

// ToolRequest is a one-shot completion that forces the model to reply by
// calling Tool.
type ToolRequest struct {
	System      string
	Prompt      string
	Tool        ToolSpec
	MaxTokens   int
	Temperature float32
}

// ToolCall is the raw, unvalidated structured reply of a model.
type ToolCall struct {
	Name  string
	Input json.RawMessage
}

type LLMClient interface {
	// Model returns the model identifier recorded on generated cards.
	Model() string
	// CallTool returns nil without error when the model answered with free
	// text only.
	CallTool(ctx context.Context, req ToolRequest) (*ToolCall, error)
}
