package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	// MemoMaxLength is the maximum memo length in characters, after trimming.
	MemoMaxLength = 1000
)

type Memo struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
