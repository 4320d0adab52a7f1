package api

import (
	"net/http"
	"time"

	"github.com/quizplayer/backend/internal/domain/level"
	"github.com/quizplayer/backend/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type ExportQuestion struct {
	Title          string        `json:"title"`
	Bank           string        `json:"bank,omitempty"`
	Levels         []level.Level `json:"levels"`
	Images         []string      `json:"images"`
	Options        []string      `json:"options"`
	CorrectOptions []string      `json:"correct_options"`
}

type ExportData struct {
	Version    string           `json:"version"`
	ExportedAt string           `json:"exported_at"`
	Source     string           `json:"source"`
	Title      string           `json:"title"`
	Questions  []ExportQuestion `json:"questions"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// exportQuiz dumps the whole loaded bank, in file order, as JSON.
// @Summary      Export the loaded bank
// @Tags         Quiz
// @Produce      json
// @Param        playerID  path      string  true  "Player ID"
// @Success      200       {object}  ExportData
// @Failure      404       {object}  map[string]string
// @Router       /api/players/{playerID}/quiz/export [get]
func (h *Handler) exportQuiz(w http.ResponseWriter, r *http.Request) {
	p, ok := h.playerFromPath(w, r)
	if !ok {
		return
	}
	st := p.Session.Get()
	if !st.Active() {
		respondError(w, http.StatusNotFound, "No saved quiz state found")
		return
	}

	exportData := ExportData{
		Version:    "1.0",
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Source:     st.SourceName,
		Title:      service.Title(st.SourceName),
		Questions:  make([]ExportQuestion, 0, len(st.AllQuestions)),
	}

	for _, q := range st.AllQuestions {
		correct := q.CorrectOptions()
		if correct == nil {
			correct = []string{}
		}
		exportData.Questions = append(exportData.Questions, ExportQuestion{
			Title:          q.CleanTitle(),
			Bank:           q.Bank,
			Levels:         q.Levels(),
			Images:         q.Images(),
			Options:        q.Options(),
			CorrectOptions: correct,
		})
	}

	w.Header().Set("Content-Disposition", `attachment; filename="quiz-export.json"`)
	respondJSON(w, http.StatusOK, exportData)
}
