package api

import (
	"net/http"

	"github.com/quizplayer/backend/internal/domain/level"
)

// ── Request / Response types ────────────────────────────────────────────────

type SetLevelsRequest struct {
	Levels []string `json:"levels" example:"Level 1"`
}

func (r *SetLevelsRequest) Validate() error { return nil }

type LevelsResponse struct {
	Available     []level.Entry `json:"available"`
	Selected      []level.Level `json:"selected"`
	MaxSelectable int           `json:"max_selectable" example:"12"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// getLevels lists the levels of the loaded bank and the current selection.
// @Summary      Get levels
// @Description  Levels present in the bank with their question counts, numeric levels first and "No level" last.
// @Tags         Levels
// @Produce      json
// @Param        playerID  path      string  true  "Player ID"
// @Success      200       {object}  LevelsResponse
// @Failure      404       {object}  map[string]string
// @Router       /api/players/{playerID}/quiz/levels [get]
func (h *Handler) getLevels(w http.ResponseWriter, r *http.Request) {
	p, ok := h.playerFromPath(w, r)
	if !ok {
		return
	}
	st := p.Session.Get()
	if !st.Active() {
		respondError(w, http.StatusNotFound, "No saved quiz state found")
		return
	}

	selected := st.SelectedLevels
	if selected == nil {
		selected = []level.Level{}
	}
	respondJSON(w, http.StatusOK, LevelsResponse{
		Available:     st.LevelCounts.Sorted(),
		Selected:      selected,
		MaxSelectable: st.MaxSelectable(),
	})
}

// setLevels replaces the level filter. An empty list selects every question.
// @Summary      Set levels
// @Tags         Levels
// @Accept       json
// @Produce      json
// @Param        playerID  path      string            true  "Player ID"
// @Param        body      body      SetLevelsRequest  true  "Levels to select"
// @Success      200       {object}  QuizResponse
// @Failure      409       {object}  map[string]string
// @Failure      422       {object}  map[string]string
// @Router       /api/players/{playerID}/quiz/levels [put]
func (h *Handler) setLevels(w http.ResponseWriter, r *http.Request) {
	p, ok := h.playerFromPath(w, r)
	if !ok {
		return
	}
	var req SetLevelsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if h.handleQuizError(w, p.Session.ChangeLevels(level.NormalizeAll(req.Levels))) {
		return
	}
	respondJSON(w, http.StatusOK, newQuizResponse(p.Session.Get()))
}
