package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/Harshitk-cp/odnar/internal/domain"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrMemoContentEmpty   = errors.New("content is required")
	ErrMemoContentTooLong = fmt.Errorf("content must be at most %d characters", domain.MemoMaxLength)
)

const (
	DefaultMemoListLimit = 50
	MaxListLimit         = 100
)

type memoInput struct {
	Content string `json:"content" validate:"required,max=1000"`
}

type MemoService struct {
	memoStore domain.MemoStore
	cardStore domain.CardStore
	analyzer  *ContradictionAnalyzer
	logger    *zap.Logger
}

func NewMemoService(ms domain.MemoStore, cs domain.CardStore, analyzer *ContradictionAnalyzer, logger *zap.Logger) *MemoService {
	return &MemoService{
		memoStore: ms,
		cardStore: cs,
		analyzer:  analyzer,
		logger:    logger,
	}
}

// trimContent strips surrounding whitespace, counting a byte order mark as
// whitespace.
func trimContent(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}

// Create saves a memo and then gives the analyzer a chance to derive a card.
// Only validation and storage errors are returned; the analyzer cannot
// change the result.
func (s *MemoService) Create(ctx context.Context, content string) (*domain.Memo, error) {
	in := memoInput{Content: trimContent(content)}
	if err := validate.Struct(in); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 && ve[0].Tag() == "max" {
			return nil, ErrMemoContentTooLong
		}
		return nil, ErrMemoContentEmpty
	}

	m := &domain.Memo{Content: in.Content}
	if err := s.memoStore.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create memo: %w", err)
	}

	s.enrich(ctx)
	return m, nil
}

func (s *MemoService) enrich(ctx context.Context) {
	if s.analyzer == nil || !s.analyzer.Enabled() {
		return
	}

	var memoCount, cardCount int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.memoStore.Count(gctx)
		memoCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.cardStore.Count(gctx)
		cardCount = n
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("counting for contradiction analysis failed", zap.Error(err))
		return
	}

	s.analyzer.OnMemoInserted(ctx, memoCount, cardCount)
}

func (s *MemoService) ListRecent(ctx context.Context, limit int) ([]domain.Memo, error) {
	return s.memoStore.ListRecent(ctx, clampLimit(limit, DefaultMemoListLimit))
}

func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
