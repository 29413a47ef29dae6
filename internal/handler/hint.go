package handler

import (
	"context"
	"net/http"

	"github.com/sakif/quiz-arena/internal/auth"
	"github.com/sakif/quiz-arena/internal/model"
	"github.com/sakif/quiz-arena/internal/service"
)

type HintHandler struct {
	hints *service.HintService
	resp  *Responder
}

func NewHintHandler(hints *service.HintService, resp *Responder) *HintHandler {
	return &HintHandler{hints: hints, resp: resp}
}

// HandleCatalog lists the hint shop. Public.
//
// HTTP: GET /api/hints/catalog
func (h *HintHandler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	h.resp.Success(w, http.StatusOK, "Hint catalog", h.hints.Catalog())
}

// HandleInventory returns the user's hint quantities.
//
// HTTP: GET /api/hints
func (h *HintHandler) HandleInventory(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	inv, err := h.hints.Inventory(r.Context(), userID)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.Success(w, http.StatusOK, "User hints", inv)
}

// HandlePurchase buys one hint. 400 when the user cannot afford it.
//
// HTTP: POST /api/hints/purchase
// Body: {"hintId": "hint_50_50"}
func (h *HintHandler) HandlePurchase(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "Hint purchased", h.hints.Purchase)
}

// HandleUse spends one hint. 400 when none are left.
//
// HTTP: POST /api/hints/use
func (h *HintHandler) HandleUse(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "Hint used", h.hints.Use)
}

func (h *HintHandler) mutate(
	w http.ResponseWriter,
	r *http.Request,
	message string,
	op func(ctx context.Context, userID string, in service.HintRequest) ([]model.HintQuantity, error),
) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var in service.HintRequest
	if err := decodeJSON(w, r, &in); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	inv, err := op(r.Context(), userID, in)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.Success(w, http.StatusOK, message, inv)
}
