package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/Harshitk-cp/odnar/internal/domain"
	"github.com/google/uuid"
)

type MemoStore struct {
	db *sql.DB
}

func NewMemoStore(db *sql.DB) *MemoStore {
	return &MemoStore{db: db}
}

func (s *MemoStore) Create(ctx context.Context, m *domain.Memo) error {
	id := uuid.New()
	now := time.Now()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO memos (id, content, created_at) VALUES (?, ?, ?)`,
		id, m.Content, now.UnixNano(),
	); err != nil {
		return err
	}
	m.ID = id
	m.CreatedAt = fromUnixNano(now.UnixNano())
	return nil
}

func (s *MemoStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM memos`).Scan(&n)
	return n, err
}

func (s *MemoStore) ListRecent(ctx context.Context, limit int) ([]domain.Memo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content, created_at
		 FROM memos
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.Memo
	for rows.Next() {
		var m domain.Memo
		var createdAt int64
		if err := rows.Scan(&m.ID, &m.Content, &createdAt); err != nil {
			return nil, err
		}
		m.CreatedAt = fromUnixNano(createdAt)
		results = append(results, m)
	}
	return results, rows.Err()
}
