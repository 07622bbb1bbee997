package store

import (
	"context"
	"errors"

	"github.com/Harshitk-cp/odnar/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CardStore struct {
	db *pgxpool.Pool
}

func NewCardStore(db *pgxpool.Pool) *CardStore {
	return &CardStore{db: db}
}

func (s *CardStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM contradiction_cards`).Scan(&n)
	return n, err
}

// InsertIfAbsent writes c unless its canonical pair is already taken. On a
// conflict nothing is written and false is returned without an error.
func (s *CardStore) InsertIfAbsent(ctx context.Context, c *domain.ContradictionCard) (bool, error) {
	rows, err := s.db.Query(ctx,
		`INSERT INTO contradiction_cards
		   (memo_a_id, memo_b_id, memo_low_id, memo_high_id, memo_a_content, memo_b_content,
		    title, connection, opposition, reasoning, confidence, model)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (memo_low_id, memo_high_id) DO NOTHING
		 RETURNING id, created_at`,
		c.MemoAID, c.MemoBID, c.MemoLowID, c.MemoHighID, c.MemoAContent, c.MemoBContent,
		c.Title, c.Connection, c.Opposition, c.Reasoning, c.Confidence, c.Model,
	)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	inserted := false
	for rows.Next() {
		if err := rows.Scan(&c.ID, &c.CreatedAt); err != nil {
			return false, err
		}
		inserted = true
	}
	return inserted, rows.Err()
}

func (s *CardStore) ListRecent(ctx context.Context, limit int) ([]domain.ContradictionCard, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, memo_a_id, memo_b_id, memo_low_id, memo_high_id, memo_a_content, memo_b_content,
		        title, connection, opposition, reasoning, confidence, model, created_at
		 FROM contradiction_cards
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.ContradictionCard
	for rows.Next() {
		var c domain.ContradictionCard
		if err := rows.Scan(
			&c.ID, &c.MemoAID, &c.MemoBID, &c.MemoLowID, &c.MemoHighID, &c.MemoAContent, &c.MemoBContent,
			&c.Title, &c.Connection, &c.Opposition, &c.Reasoning, &c.Confidence, &c.Model, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

func (s *CardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContradictionCard, error) {
	c := &domain.ContradictionCard{}
	err := s.db.QueryRow(ctx,
		`SELECT id, memo_a_id, memo_b_id, memo_low_id, memo_high_id, memo_a_content, memo_b_content,
		        title, connection, opposition, reasoning, confidence, model, created_at
		 FROM contradiction_cards WHERE id = $1`,
		id,
	).Scan(
		&c.ID, &c.MemoAID, &c.MemoBID, &c.MemoLowID, &c.MemoHighID, &c.MemoAContent, &c.MemoBContent,
		&c.Title, &c.Connection, &c.Opposition, &c.Reasoning, &c.Confidence, &c.Model, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}
