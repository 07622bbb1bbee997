package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Harshitk-cp/odnar/internal/domain"
	"github.com/Harshitk-cp/odnar/internal/store"
	"github.com/Harshitk-cp/odnar/migrations"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, filepath.Join(t.TempDir(), "odnar.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrations(ctx, db, migrations.SQLite(), zap.NewNop()))
	return db
}

func seedMemos(t *testing.T, ms *MemoStore, contents ...string) []domain.Memo {
	t.Helper()
	var out []domain.Memo
	for _, c := range contents {
		m := &domain.Memo{Content: c}
		require.NoError(t, ms.Create(context.Background(), m))
		out = append(out, *m)
	}
	return out
}

func cardFor(a, b domain.Memo) *domain.ContradictionCard {
	low, high := domain.CanonicalPair(a.ID, b.ID)
	conf := 0.8
	return &domain.ContradictionCard{
		MemoAID:      a.ID,
		MemoBID:      b.ID,
		MemoLowID:    low,
		MemoHighID:   high,
		MemoAContent: a.Content,
		MemoBContent: b.Content,
		Title:        "Morning stance",
		Connection:   "both about mornings",
		Opposition:   "love vs hate",
		Confidence:   &conf,
		Model:        "mock",
	}
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, RunMigrations(context.Background(), db, migrations.SQLite(), zap.NewNop()))
}

func TestMemoStore_CreateAndListRecent(t *testing.T) {
	ms := NewMemoStore(setupDB(t))
	ctx := context.Background()

	seeded := seedMemos(t, ms, "first", "second", "third")
	for _, m := range seeded {
		assert.NotEqual(t, uuid.Nil, m.ID)
		assert.False(t, m.CreatedAt.IsZero())
	}

	n, err := ms.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	recent, err := ms.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "third", recent[0].Content)
	assert.Equal(t, "second", recent[1].Content)
}

func TestMemoStore_RejectsOverlongContent(t *testing.T) {
	ms := NewMemoStore(setupDB(t))
	long := make([]byte, domain.MemoMaxLength+1)
	for i := range long {
		long[i] = 'a'
	}
	err := ms.Create(context.Background(), &domain.Memo{Content: string(long)})
	assert.Error(t, err)
}

func TestCardStore_InsertIfAbsent(t *testing.T) {
	db := setupDB(t)
	ms := NewMemoStore(db)
	cs := NewCardStore(db)
	ctx := context.Background()

	memos := seedMemos(t, ms, "I love mornings", "Mornings are the worst")

	inserted, err := cs.InsertIfAbsent(ctx, cardFor(memos[0], memos[1]))
	require.NoError(t, err)
	assert.True(t, inserted)

	// Same unordered pair, labelled the other way round.
	inserted, err = cs.InsertIfAbsent(ctx, cardFor(memos[1], memos[0]))
	require.NoError(t, err)
	assert.False(t, inserted)

	n, err := cs.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	cards, err := cs.ListRecent(ctx, 20)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, memos[0].ID, cards[0].MemoAID)
	assert.Equal(t, "I love mornings", cards[0].MemoAContent)
	require.NotNil(t, cards[0].Confidence)
	assert.InDelta(t, 0.8, *cards[0].Confidence, 1e-9)
	assert.Nil(t, cards[0].Reasoning)

	got, err := cs.GetByID(ctx, cards[0].ID)
	require.NoError(t, err)
	assert.Equal(t, cards[0].Title, got.Title)
}

func TestCardStore_ConcurrentSwappedInserts(t *testing.T) {
	db := setupDB(t)
	ms := NewMemoStore(db)
	cs := NewCardStore(db)
	ctx := context.Background()

	memos := seedMemos(t, ms, "X", "Y")

	var wg sync.WaitGroup
	results := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			card := cardFor(memos[0], memos[1])
			if i%2 == 1 {
				card = cardFor(memos[1], memos[0])
			}
			ok, err := cs.InsertIfAbsent(ctx, card)
			assert.NoError(t, err)
			results <- ok
		}(i)
	}
	wg.Wait()
	close(results)

	wins := 0
	for ok := range results {
		if ok {
			wins++
		}
	}
	assert.Equal(t, 1, wins)

	n, err := cs.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCardStore_GetByID_NotFound(t *testing.T) {
	cs := NewCardStore(setupDB(t))
	_, err := cs.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}
