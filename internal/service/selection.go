package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Harshitk-cp/odnar/internal/domain"
	"github.com/Harshitk-cp/odnar/internal/llm"
	"github.com/google/uuid"
)

var (
	ErrSelectionRejected = errors.New("pair selection rejected")
	ErrNoToolCall        = fmt.Errorf("%w: model did not call %s", ErrSelectionRejected, llm.ContradictionToolName)
	ErrInvalidSelection  = fmt.Errorf("%w: invalid card fields", ErrSelectionRejected)
	ErrIdenticalMemos    = fmt.Errorf("%w: memo_a_id and memo_b_id are the same memo", ErrSelectionRejected)
	ErrUnknownMemo       = fmt.Errorf("%w: memo id is not in the candidate set", ErrSelectionRejected)
)

// cardSelection mirrors the tool schema sent to the model.
type cardSelection struct {
	MemoAID    string   `json:"memo_a_id" validate:"required,uuid_rfc4122"`
	MemoBID    string   `json:"memo_b_id" validate:"required,uuid_rfc4122"`
	Title      string   `json:"title" validate:"min=1,max=80"`
	Connection string   `json:"connection" validate:"min=1,max=280"`
	Opposition string   `json:"opposition" validate:"min=1,max=280"`
	Reasoning  *string  `json:"reasoning" validate:"omitnil,min=1,max=800"`
	Confidence *float64 `json:"confidence" validate:"omitnil,gte=0,lte=1"`
}

// selectionKeys are the tool input keys, matched exactly. Keys differing only
// in case are treated as unknown and ignored.
var selectionKeys = []string{"memo_a_id", "memo_b_id", "title", "connection", "opposition", "reasoning", "confidence"}

func decodeSelection(input []byte) (cardSelection, error) {
	var sel cardSelection

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(input, &raw); err != nil {
		return sel, err
	}

	exact := make(map[string]json.RawMessage, len(selectionKeys))
	for _, k := range selectionKeys {
		if v, ok := raw[k]; ok {
			exact[k] = v
		}
	}

	buf, err := json.Marshal(exact)
	if err != nil {
		return sel, err
	}
	err = json.Unmarshal(buf, &sel)
	return sel, err
}

// ValidateSelection turns a raw tool call into a card draft, or rejects it.
// Every rejection wraps ErrSelectionRejected.
func ValidateSelection(call *domain.ToolCall, candidates []domain.Memo) (*domain.CardDraft, error) {
	if call == nil || call.Name != llm.ContradictionToolName {
		return nil, ErrNoToolCall
	}

	trimmed := bytes.TrimSpace(call.Input)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: tool input is not an object", ErrInvalidSelection)
	}

	sel, err := decodeSelection(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
	}
	if err := validate.Struct(sel); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSelection, formatValidationError(err))
	}

	memoA, err := uuid.Parse(sel.MemoAID)
	if err != nil {
		return nil, fmt.Errorf("%w: memo_a_id: %v", ErrInvalidSelection, err)
	}
	memoB, err := uuid.Parse(sel.MemoBID)
	if err != nil {
		return nil, fmt.Errorf("%w: memo_b_id: %v", ErrInvalidSelection, err)
	}
	if memoA == memoB {
		return nil, ErrIdenticalMemos
	}

	known := make(map[uuid.UUID]struct{}, len(candidates))
	for _, m := range candidates {
		known[m.ID] = struct{}{}
	}
	for _, id := range []uuid.UUID{memoA, memoB} {
		if _, ok := known[id]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownMemo, id)
		}
	}

	return &domain.CardDraft{
		MemoAID:    memoA,
		MemoBID:    memoB,
		Title:      sel.Title,
		Connection: sel.Connection,
		Opposition: sel.Opposition,
		Reasoning:  sel.Reasoning,
		Confidence: sel.Confidence,
	}, nil
}
