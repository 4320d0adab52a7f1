package api

import (
	"errors"
	"net/http"
)

// ── Request / Response types ────────────────────────────────────────────────

// SubmitAnswerRequest picks an option for the question at Index. A null
// answer clears the selection.
type SubmitAnswerRequest struct {
	Index  *int    `json:"index" example:"0"`
	Answer *string `json:"answer" example:"Cumulonimbus"`
}

func (r *SubmitAnswerRequest) Validate() error {
	if r.Index == nil {
		return errors.New("index is required")
	}
	if *r.Index < 0 {
		return errors.New("index must not be negative")
	}
	return nil
}

// ── Handlers ────────────────────────────────────────────────────────────────

// submitAnswer records the player's choice for one displayed question.
// @Summary      Answer a question
// @Description  In live mode the response carries the correctness and the running score.
// @Tags         Quiz
// @Accept       json
// @Produce      json
// @Param        playerID  path      string               true  "Player ID"
// @Param        body      body      SubmitAnswerRequest  true  "Answer"
// @Success      200       {object}  practicesession.Feedback
// @Failure      400       {object}  map[string]string
// @Failure      404       {object}  map[string]string
// @Failure      409       {object}  map[string]string
// @Router       /api/players/{playerID}/quiz/answers [post]
func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	p, ok := h.playerFromPath(w, r)
	if !ok {
		return
	}
	var req SubmitAnswerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	fb, err := p.Session.Answer(*req.Index, req.Answer)
	if h.handleQuizError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, fb)
}
