package domain

import (
	"time"

	"github.com/google/uuid"
)

// ContradictionCard pairs two memos that share a topic but take opposite
// stances. MemoAID/MemoBID keep the labelling chosen by the model, while
// MemoLowID/MemoHighID form the canonical key that is unique per pair.
type ContradictionCard struct {
	ID           uuid.UUID `json:"id"`
	MemoAID      uuid.UUID `json:"memo_a_id"`
	MemoBID      uuid.UUID `json:"memo_b_id"`
	MemoLowID    uuid.UUID `json:"memo_low_id"`
	MemoHighID   uuid.UUID `json:"memo_high_id"`
	MemoAContent string    `json:"memo_a_content"`
	MemoBContent string    `json:"memo_b_content"`
	Title        string    `json:"title"`
	Connection   string    `json:"connection"`
	Opposition   string    `json:"opposition"`
	Reasoning    *string   `json:"reasoning,omitempty"`
	Confidence   *float64  `json:"confidence,omitempty"`
	Model        string    `json:"model"`
	CreatedAt    time.Time `json:"created_at"`
}

// CardDraft is a validated pair selection that has not been persisted yet.
type CardDraft struct {
	MemoAID    uuid.UUID
	MemoBID    uuid.UUID
	Title      string
	Connection string
	Opposition string
	Reasoning  *string
	Confidence *float64
}

// CanonicalPair orders two memo ids so that the same unordered pair always
// yields the same (low, high) key. Ids compare by their canonical string form.
func CanonicalPair(a, b uuid.UUID) (low, high uuid.UUID) {
	if a.String() < b.String() {
		return a, b
	}
	return b, a
}
