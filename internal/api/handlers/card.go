package handlers

import (
	"errors"
	"net/http"

	"github.com/Harshitk-cp/odnar/internal/domain"
	"github.com/Harshitk-cp/odnar/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type CardHandler struct {
	svc *service.CardService
}

func NewCardHandler(svc *service.CardService) *CardHandler {
	return &CardHandler{svc: svc}
}

type cardResponse struct {
	domain.ContradictionCard
	Strength       domain.CardStrength `json:"strength"`
	StrengthReason string              `json:"strength_reason"`
}

type listCardsResponse struct {
	Cards []cardResponse `json:"cards"`
	Count int            `json:"count"`
}

func toCardResponse(c domain.ContradictionCard) cardResponse {
	return cardResponse{
		ContradictionCard: c,
		Strength:          domain.ComputeStrength(c.Confidence),
		StrengthReason:    domain.StrengthReason(c.Confidence),
	}
}

func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	cards, err := h.svc.ListRecent(r.Context(), queryLimit(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list cards")
		return
	}

	resp := listCardsResponse{Cards: make([]cardResponse, 0, len(cards))}
	for _, c := range cards {
		resp.Cards = append(resp.Cards, toCardResponse(c))
	}
	resp.Count = len(resp.Cards)

	writeJSON(w, http.StatusOK, resp)
}

func (h *CardHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid card id")
		return
	}

	card, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCardNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get card")
		return
	}

	writeJSON(w, http.StatusOK, toCardResponse(*card))
}
