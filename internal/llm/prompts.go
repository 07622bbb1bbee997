package llm

import (
	"fmt"
	"strings"

	"github.com/Harshitk-cp/odnar/internal/domain"
)

// ContradictionToolName is the only structured call a model may answer with
// when selecting a contradiction pair.
const ContradictionToolName = "create_contradiction_card"

const contradictionSystemPrompt = `You read a set of short personal memos. Your job: pick TWO memos that are clearly connected (same topic) but express opposite stances or conclusions. If you cannot find a strong pair, still pick the best pair but lower confidence. Output via the provided tool only.`

const contradictionUserPrompt = `Here are the memos. Pick two memos that are connected but opposite.

%s

Return a short title, 1-2 sentence connection, 1-2 sentence opposition, and optional reasoning + confidence (0..1).`

const contradictionToolDescription = `Create a 'connected but opposite' card using two memo IDs from the provided list.`

// ContradictionSystemPrompt returns the fixed instruction sent with every
// pair selection request.
func ContradictionSystemPrompt() string {
	return contradictionSystemPrompt
}

// ContradictionPrompt lists the candidate memos, numbered from 1, each with
// its id on the first line and its content below.
func ContradictionPrompt(memos []domain.Memo) string {
	lines := make([]string, 0, len(memos))
	for i, m := range memos {
		lines = append(lines, fmt.Sprintf("%d. id=%s\n%s", i+1, m.ID, m.Content))
	}
	return fmt.Sprintf(contradictionUserPrompt, strings.Join(lines, "\n\n"))
}

// ContradictionTool declares the card schema the model must fill in.
func ContradictionTool() domain.ToolSpec {
	return domain.ToolSpec{
		Name:        ContradictionToolName,
		Description: contradictionToolDescription,
		Schema: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"memo_a_id":  map[string]any{"type": "string", "description": "UUID of memo A"},
				"memo_b_id":  map[string]any{"type": "string", "description": "UUID of memo B"},
				"title":      map[string]any{"type": "string"},
				"connection": map[string]any{"type": "string"},
				"opposition": map[string]any{"type": "string"},
				"reasoning":  map[string]any{"type": "string"},
				"confidence": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
			},
			"required": []string{"memo_a_id", "memo_b_id", "title", "connection", "opposition"},
		},
	}
}
