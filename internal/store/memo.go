package store

import (
	"context"

	"github.com/Harshitk-cp/odnar/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MemoStore struct {
	db *pgxpool.Pool
}

func NewMemoStore(db *pgxpool.Pool) *MemoStore {
	return &MemoStore{db: db}
}

func (s *MemoStore) Create(ctx context.Context, m *domain.Memo) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO memos (content) VALUES ($1)
		 RETURNING id, created_at`,
		m.Content,
	).Scan(&m.ID, &m.CreatedAt)
}

func (s *MemoStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM memos`).Scan(&n)
	return n, err
}

func (s *MemoStore) ListRecent(ctx context.Context, limit int) ([]domain.Memo, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, content, created_at
		 FROM memos
		 ORDER BY created_at DESC, id DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Memo
	for rows.Next() {
		var m domain.Memo
		if err := rows.Scan(&m.ID, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, m)
	}
	return results, rows.Err()
}
