package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Harshitk-cp/odnar/internal/domain"
	"github.com/Harshitk-cp/odnar/internal/service"
)

type MemoHandler struct {
	svc *service.MemoService
}

func NewMemoHandler(svc *service.MemoService) *MemoHandler {
	return &MemoHandler{svc: svc}
}

type createMemoRequest struct {
	Content string `json:"content"`
}

type createMemoResponse struct {
	OK      bool         `json:"ok"`
	Message string       `json:"message"`
	Memo    *domain.Memo `json:"memo"`
}

type listMemosResponse struct {
	Memos []domain.Memo `json:"memos"`
	Count int           `json:"count"`
}

func (h *MemoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMemoRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	memo, err := h.svc.Create(r.Context(), req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMemoContentEmpty),
			errors.Is(err, service.ErrMemoContentTooLong):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to save memo")
		}
		return
	}

	writeJSON(w, http.StatusCreated, createMemoResponse{
		OK:      true,
		Message: "saved",
		Memo:    memo,
	})
}

func (h *MemoHandler) List(w http.ResponseWriter, r *http.Request) {
	memos, err := h.svc.ListRecent(r.Context(), queryLimit(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list memos")
		return
	}
	if memos == nil {
		memos = []domain.Memo{}
	}

	writeJSON(w, http.StatusOK, listMemosResponse{Memos: memos, Count: len(memos)})
}
