package service

import (
	"context"
	"errors"

	"github.com/Harshitk-cp/odnar/internal/domain"
	"github.com/Harshitk-cp/odnar/internal/store"
	"github.com/google/uuid"
)

var ErrCardNotFound = errors.New("card not found")

const DefaultCardListLimit = 20

type CardService struct {
	cardStore domain.CardStore
}

func NewCardService(cs domain.CardStore) *CardService {
	return &CardService{cardStore: cs}
}

func (s *CardService) ListRecent(ctx context.Context, limit int) ([]domain.ContradictionCard, error) {
	return s.cardStore.ListRecent(ctx, clampLimit(limit, DefaultCardListLimit))
}

func (s *CardService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContradictionCard, error) {
	c, err := s.cardStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return c, nil
}
