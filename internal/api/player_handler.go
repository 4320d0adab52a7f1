package api

import (
	"net/http"

	"github.com/quizplayer/backend/internal/id"
	"github.com/quizplayer/backend/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type PlayerResponse struct {
	ID string `json:"id" example:"0b6f2c1e-3a4d-4f5b-9c8e-7d6a5b4c3d2e"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// createPlayer registers a new quiz player.
// @Summary      Create a player
// @Description  Creates an independent player with its own navigation and quiz session.
// @Tags         Players
// @Produce      json
// @Success      201  {object}  PlayerResponse
// @Router       /api/players [post]
func (h *Handler) createPlayer(w http.ResponseWriter, r *http.Request) {
	p := h.players.Create()
	respondJSON(w, http.StatusCreated, PlayerResponse{ID: p.ID})
}

// deletePlayer discards a player and its session.
// @Summary      Delete a player
// @Tags         Players
// @Param        playerID  path  string  true  "Player ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/players/{playerID} [delete]
func (h *Handler) deletePlayer(w http.ResponseWriter, r *http.Request) {
	if h.handleQuizError(w, h.players.Delete(r.PathValue("playerID"))) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// browse moves the player to a folder and returns its annotated listing.
// Navigating discards the player's loaded quiz.
// @Summary      Browse as a player
// @Description  Lists a folder for the player. Only the latest navigation is applied; a superseded one returns 409.
// @Tags         Players
// @Produce      json
// @Param        playerID  path      string  true   "Player ID"
// @Param        folder    query     string  false  "Folder relative to the quiz directory"
// @Success      200       {object}  catalog.View
// @Failure      404       {object}  map[string]string
// @Failure      409       {object}  map[string]string
// @Router       /api/players/{playerID}/browse [get]
func (h *Handler) browse(w http.ResponseWriter, r *http.Request) {
	view, err := h.players.Browse(r.Context(), r.PathValue("playerID"), r.URL.Query().Get("folder"))
	if h.handleQuizError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// playerFromPath resolves the {playerID} path value. Malformed ids are
// answered like unknown ones.
func (h *Handler) playerFromPath(w http.ResponseWriter, r *http.Request) (*service.Player, bool) {
	playerID := r.PathValue("playerID")
	if !id.Valid(playerID) {
		respondError(w, http.StatusNotFound, "player not found")
		return nil, false
	}
	p, err := h.players.Get(playerID)
	if h.handleQuizError(w, err) {
		return nil, false
	}
	return p, true
}
