package handler

import (
	"net/http"

	"github.com/sakif/quiz-arena/internal/auth"
	"github.com/sakif/quiz-arena/internal/service"
)

// GameHandler serves the stats and achievement routes. Every route sits
// behind auth.RequireAuth, so the user id is always in the context.
type GameHandler struct {
	game *service.GameService
	resp *Responder
}

func NewGameHandler(game *service.GameService, resp *Responder) *GameHandler {
	return &GameHandler{game: game, resp: resp}
}

// HandleGetStats returns the user's stats, zeroed if none exist yet.
//
// HTTP: GET /api/stats
func (h *GameHandler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	stats, err := h.game.GetStats(r.Context(), userID)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.Success(w, http.StatusOK, "User stats", stats)
}

// HandleUpdateStats records one finished round.
//
// HTTP: POST /api/stats/update
// Body: {"correctAnswers": 7, "gameDuration": 42.5}
//
// The body carries no isWin flag. Whether the round was won is derived on
// the server from correctAnswers (game.WinThreshold), so a client cannot
// claim a win its score does not support.
func (h *GameHandler) HandleUpdateStats(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var in service.GameResult
	if err := decodeJSON(w, r, &in); err != nil {
		h.resp.Error(w, r, err)
		return
	}

	stats, err := h.game.SubmitGame(r.Context(), userID, in)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.Success(w, http.StatusOK, "Stats updated successfully", stats)
}

// HandleListAchievements returns progress joined with the catalog.
//
// HTTP: GET /api/achievements
func (h *GameHandler) HandleListAchievements(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	views, err := h.game.GetAchievements(r.Context(), userID)
	if err != nil {
		h.resp.Error(w, r, err)
		return
	}
	h.resp.Success(w, http.StatusOK, "User achievements", views)
}
