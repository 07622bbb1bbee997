//go:build integration

package store_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Harshitk-cp/odnar/internal/domain"
	"github.com/Harshitk-cp/odnar/internal/store"
	"github.com/Harshitk-cp/odnar/internal/testutil"
	"github.com/Harshitk-cp/odnar/migrations"
	"github.com/google/uuid"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	tc := testutil.MustStartPostgres()

	pool, err := tc.NewTestPool(context.Background(), zap.NewNop())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up database: %v\n", err)
		tc.Terminate()
		os.Exit(1)
	}
	testPool = pool

	code := m.Run()
	pool.Close()
	tc.Terminate()
	os.Exit(code)
}

func resetTables(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(), `TRUNCATE memos, contradiction_cards`)
	require.NoError(t, err)
}

func seedMemos(t *testing.T, ms *store.MemoStore, contents ...string) []domain.Memo {
	t.Helper()
	var out []domain.Memo
	for _, c := range contents {
		m := &domain.Memo{Content: c}
		require.NoError(t, ms.Create(context.Background(), m))
		out = append(out, *m)
		// now() has microsecond resolution; keep recency order unambiguous.
		time.Sleep(2 * time.Millisecond)
	}
	return out
}

func newCard(a, b domain.Memo) *domain.ContradictionCard {
	low, high := domain.CanonicalPair(a.ID, b.ID)
	reasoning := "opposite feelings about the same time of day"
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
		Reasoning:    &reasoning,
		Model:        "mock",
	}
}

func TestRunMigrations_Idempotent(t *testing.T) {
	require.NoError(t, store.RunMigrations(context.Background(), testPool, migrations.Postgres(), zap.NewNop()))
}

func TestMemoStore(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	ms := store.NewMemoStore(testPool)

	seeded := seedMemos(t, ms, "first", "second", "third")
	assert.NotEqual(t, uuid.Nil, seeded[0].ID)

	n, err := ms.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	recent, err := ms.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "third", recent[0].Content)
	assert.Equal(t, "second", recent[1].Content)
}

func TestMemoStore_ContentCheck(t *testing.T) {
	resetTables(t)
	ms := store.NewMemoStore(testPool)

	assert.Error(t, ms.Create(context.Background(), &domain.Memo{Content: ""}))
}

func TestCardStore_InsertIfAbsent(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	ms := store.NewMemoStore(testPool)
	cs := store.NewCardStore(testPool)

	memos := seedMemos(t, ms, "I love mornings", "Mornings are the worst")

	inserted, err := cs.InsertIfAbsent(ctx, newCard(memos[0], memos[1]))
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = cs.InsertIfAbsent(ctx, newCard(memos[1], memos[0]))
	require.NoError(t, err)
	assert.False(t, inserted)

	cards, err := cs.ListRecent(ctx, 20)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, memos[0].ID, cards[0].MemoAID)
	require.NotNil(t, cards[0].Reasoning)
	assert.Nil(t, cards[0].Confidence)

	got, err := cs.GetByID(ctx, cards[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Morning stance", got.Title)

	_, err = cs.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCardStore_ConcurrentSwappedInserts(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	ms := store.NewMemoStore(testPool)
	cs := store.NewCardStore(testPool)

	memos := seedMemos(t, ms, "X", "Y")

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			card := newCard(memos[0], memos[1])
			if i%2 == 1 {
				card = newCard(memos[1], memos[0])
			}
			ok, err := cs.InsertIfAbsent(ctx, card)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	n, err := cs.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCardStore_RejectsUncanonicalPair(t *testing.T) {
	resetTables(t)
	ms := store.NewMemoStore(testPool)
	cs := store.NewCardStore(testPool)

	memos := seedMemos(t, ms, "X", "Y")
	card := newCard(memos[0], memos[1])
	card.MemoLowID, card.MemoHighID = card.MemoHighID, card.MemoLowID

	_, err := cs.InsertIfAbsent(context.Background(), card)
	assert.Error(t, err)
}
