package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Harshitk-cp/odnar/internal/domain"
	"github.com/Harshitk-cp/odnar/internal/store"
	"github.com/google/uuid"
)

const cardColumns = `id, memo_a_id, memo_b_id, memo_low_id, memo_high_id, memo_a_content, memo_b_content,
	title, connection, opposition, reasoning, confidence, model, created_at`

type CardStore struct {
	db *sql.DB
}

func NewCardStore(db *sql.DB) *CardStore {
	return &CardStore{db: db}
}

func (s *CardStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contradiction_cards`).Scan(&n)
	return n, err
}

// InsertIfAbsent writes c unless its canonical pair is already taken. On a
// conflict nothing is written and false is returned without an error.
func (s *CardStore) InsertIfAbsent(ctx context.Context, c *domain.ContradictionCard) (bool, error) {
	id := uuid.New()
	now := time.Now().UnixNano()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO contradiction_cards (`+cardColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (memo_low_id, memo_high_id) DO NOTHING`,
		id, c.MemoAID, c.MemoBID, c.MemoLowID, c.MemoHighID, c.MemoAContent, c.MemoBContent,
		c.Title, c.Connection, c.Opposition, c.Reasoning, c.Confidence, c.Model, now,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	c.ID = id
	c.CreatedAt = fromUnixNano(now)
	return true, nil
}

func (s *CardStore) ListRecent(ctx context.Context, limit int) ([]domain.ContradictionCard, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+cardColumns+`
		 FROM contradiction_cards
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.ContradictionCard
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *c)
	}
	return results, rows.Err()
}

func (s *CardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContradictionCard, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+cardColumns+` FROM contradiction_cards WHERE id = ?`, id,
	)
	c, err := scanCard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCard(row scanner) (*domain.ContradictionCard, error) {
	var c domain.ContradictionCard
	var createdAt int64
	if err := row.Scan(
		&c.ID, &c.MemoAID, &c.MemoBID, &c.MemoLowID, &c.MemoHighID, &c.MemoAContent, &c.MemoBContent,
		&c.Title, &c.Connection, &c.Opposition, &c.Reasoning, &c.Confidence, &c.Model, &createdAt,
	); err != nil {
		return nil, err
	}
	c.CreatedAt = fromUnixNano(createdAt)
	return &c, nil
}
