package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Harshitk-cp/odnar/internal/domain"
	"github.com/Harshitk-cp/odnar/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// mockMemoStore implements domain.MemoStore for testing.
type mockMemoStore struct {
	mu        sync.Mutex
	memos     []domain.Memo
	createErr error
	listErr   error
	creates   int
}

func newMockMemoStore() *mockMemoStore {
	return &mockMemoStore{}
}

func (m *mockMemoStore) Create(ctx context.Context, memo *domain.Memo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	if m.createErr != nil {
		return m.createErr
	}
	memo.ID = uuid.New()
	memo.CreatedAt = time.Now()
	m.memos = append(m.memos, *memo)
	return nil
}

func (m *mockMemoStore) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.memos), nil
}

func (m *mockMemoStore) ListRecent(ctx context.Context, limit int) ([]domain.Memo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.Memo
	for i := len(m.memos) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.memos[i])
	}
	return out, nil
}

func (m *mockMemoStore) add(contents ...string) []domain.Memo {
	var out []domain.Memo
	for _, c := range contents {
		memo := &domain.Memo{Content: c}
		_ = m.Create(context.Background(), memo)
		out = append(out, *memo)
	}
	return out
}

type pairKey struct {
	low, high uuid.UUID
}

// mockCardStore implements domain.CardStore with the same uniqueness rule as
// the real stores: one card per canonical pair.
type mockCardStore struct {
	mu        sync.Mutex
	cards     map[pairKey]domain.ContradictionCard
	order     []pairKey
	insertErr error
	countErr  error
	inserts   int
}

func newMockCardStore() *mockCardStore {
	return &mockCardStore{cards: make(map[pairKey]domain.ContradictionCard)}
}

func (m *mockCardStore) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countErr != nil {
		return 0, m.countErr
	}
	return len(m.cards), nil
}

func (m *mockCardStore) InsertIfAbsent(ctx context.Context, c *domain.ContradictionCard) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inserts++
	if m.insertErr != nil {
		return false, m.insertErr
	}
	key := pairKey{c.MemoLowID, c.MemoHighID}
	if _, exists := m.cards[key]; exists {
		return false, nil
	}
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	m.cards[key] = *c
	m.order = append(m.order, key)
	return true, nil
}

func (m *mockCardStore) ListRecent(ctx context.Context, limit int) ([]domain.ContradictionCard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ContradictionCard
	for i := len(m.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.cards[m.order[i]])
	}
	return out, nil
}

func (m *mockCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContradictionCard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.cards {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockCardStore) all() []domain.ContradictionCard {
	cards, _ := m.ListRecent(context.Background(), len(m.order)+1)
	return cards
}

// blockingLLMClient waits for the context to expire, like a stalled model.
type blockingLLMClient struct{}

func (blockingLLMClient) Model() string { return "blocking" }

func (blockingLLMClient) CallTool(ctx context.Context, req domain.ToolRequest) (*domain.ToolCall, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

var errStoreDown = errors.New("store unavailable")

func testLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}
