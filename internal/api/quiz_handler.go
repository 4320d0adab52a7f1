package api

import (
	"errors"
	"net/http"

	"github.com/quizplayer/backend/internal/domain/level"
	practicesession "github.com/quizplayer/backend/internal/domain/practice_session"
	"github.com/quizplayer/backend/internal/domain/questionbank"
	"github.com/quizplayer/backend/internal/grader"
	"github.com/quizplayer/backend/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type LoadQuizRequest struct {
	Path   string   `json:"path,omitempty" example:"Meteorology/Clouds.txt"`
	Paths  []string `json:"paths,omitempty"`
	Levels []string `json:"levels,omitempty" example:"Level 1"`
}

func (r *LoadQuizRequest) Validate() error {
	switch {
	case r.Path == "" && len(r.Paths) == 0:
		return errors.New("path or paths is required")
	case r.Path != "" && len(r.Paths) > 0:
		return errors.New("path and paths are mutually exclusive")
	}
	for _, p := range r.Paths {
		if p == "" {
			return errors.New("paths must not contain empty entries")
		}
	}
	return nil
}

type SetCountRequest struct {
	Count int `json:"count" example:"10"`
}

func (r *SetCountRequest) Validate() error {
	if r.Count < 1 {
		return errors.New("count must be at least 1")
	}
	return nil
}

type SetLiveRequest struct {
	Enabled bool `json:"enabled" example:"true"`
}

func (r *SetLiveRequest) Validate() error { return nil }

type QuestionResponse struct {
	Index          int      `json:"index" example:"0"`
	Title          string   `json:"title" example:"What is the freezing level? (Level 2)"`
	Bank           string   `json:"bank,omitempty" example:"Clouds"`
	Images         []string `json:"images"`
	Options        []string `json:"options"`
	Labels         []string `json:"labels"`
	Answer         *string  `json:"answer"`
	CorrectOptions []string `json:"correct_options,omitempty"`
	Valid          bool     `json:"valid"`
	Reason         string   `json:"reason,omitempty" example:"Too few lines (2 < 3)"`
}

type QuizResponse struct {
	Title          string             `json:"title" example:"Clouds"`
	SourceName     string             `json:"source_name" example:"Meteorology/Clouds.txt"`
	RequestedCount int                `json:"requested_count" example:"20"`
	TotalQuestions int                `json:"total_questions" example:"42"`
	MaxSelectable  int                `json:"max_selectable" example:"42"`
	SelectedLevels []level.Level      `json:"selected_levels"`
	Levels         []level.Entry      `json:"levels"`
	LiveScoring    bool               `json:"live_scoring"`
	Submitted      bool               `json:"submitted"`
	Answered       []bool             `json:"answered"`
	Questions      []QuestionResponse `json:"questions"`
	Live           *grader.LiveScore  `json:"live,omitempty"`
	Result         *grader.Result     `json:"result,omitempty"`
}

// newQuizResponse renders a session snapshot. Correct options are revealed
// after submission, and in live mode for answered questions.
func newQuizResponse(st practicesession.State) QuizResponse {
	resp := QuizResponse{
		Title:          service.Title(st.SourceName),
		SourceName:     st.SourceName,
		RequestedCount: st.RequestedCount,
		TotalQuestions: len(st.AllQuestions),
		MaxSelectable:  st.MaxSelectable(),
		SelectedLevels: st.SelectedLevels,
		Levels:         st.LevelCounts.Sorted(),
		LiveScoring:    st.LiveScoring,
		Submitted:      st.Submitted,
		Answered:       st.AnsweredFlags(),
		Questions:      make([]QuestionResponse, len(st.Displayed)),
		Result:         st.Result,
	}
	if resp.SelectedLevels == nil {
		resp.SelectedLevels = []level.Level{}
	}

	for i, slot := range st.Displayed {
		q := slot.Question
		images := q.Images()
		for j, img := range images {
			images[j] = "/images/" + img
		}

		qr := QuestionResponse{
			Index:   i,
			Title:   questionbank.RenderLineBreaks(q.CleanTitle()),
			Bank:    q.Bank,
			Images:  images,
			Options: slot.Options,
			Labels:  renderAll(slot.Options),
			Answer:  slot.Answer,
			Valid:   slot.Check.Valid,
			Reason:  slot.Check.Reason,
		}
		if st.Submitted || (st.LiveScoring && slot.Answer != nil) {
			qr.CorrectOptions = q.CorrectOptions()
		}
		resp.Questions[i] = qr
	}

	if st.LiveScoring {
		live := grader.Live(st.Questions(), st.Answers())
		resp.Live = &live
	}
	return resp
}

// renderAll returns display copies of options. Answers are still matched
// against the raw option text.
func renderAll(options []string) []string {
	labels := make([]string, len(options))
	for i, o := range options {
		labels[i] = questionbank.RenderLineBreaks(o)
	}
	return labels
}

// ── Handlers ────────────────────────────────────────────────────────────────

// loadQuiz starts a session on one quiz file or a combination of several.
// @Summary      Load a quiz
// @Description  Loads a single quiz (path) or combines several (paths) and draws the first questions.
// @Tags         Quiz
// @Accept       json
// @Produce      json
// @Param        playerID  path      string           true  "Player ID"
// @Param        body      body      LoadQuizRequest  true  "Quiz to load"
// @Success      201       {object}  QuizResponse
// @Failure      400       {object}  map[string]string
// @Failure      404       {object}  map[string]string
// @Failure      422       {object}  map[string]string
// @Router       /api/players/{playerID}/quiz [post]
func (h *Handler) loadQuiz(w http.ResponseWriter, r *http.Request) {
	p, ok := h.playerFromPath(w, r)
	if !ok {
		return
	}
	var req LoadQuizRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	levels := level.NormalizeAll(req.Levels)
	var err error
	if req.Path != "" {
		err = h.players.LoadQuiz(r.Context(), p.ID, req.Path, levels)
	} else {
		err = h.players.LoadCombined(r.Context(), p.ID, req.Paths, levels)
	}
	if h.handleQuizError(w, err) {
		return
	}

	respondJSON(w, http.StatusCreated, newQuizResponse(p.Session.Get()))
}

// getQuiz returns the player's current quiz.
// @Summary      Get the current quiz
// @Tags         Quiz
// @Produce      json
// @Param        playerID  path      string  true  "Player ID"
// @Success      200       {object}  QuizResponse
// @Failure      404       {object}  map[string]string
// @Router       /api/players/{playerID}/quiz [get]
func (h *Handler) getQuiz(w http.ResponseWriter, r *http.Request) {
	p, ok := h.playerFromPath(w, r)
	if !ok {
		return
	}
	st := p.Session.Get()
	if !st.Active() {
		respondError(w, http.StatusNotFound, "No saved quiz state found")
		return
	}
	respondJSON(w, http.StatusOK, newQuizResponse(st))
}

// setCount changes how many questions are displayed.
// @Summary      Set the question count
// @Description  The count is clamped to the bank size. Answers to questions that stay displayed are kept.
// @Tags         Quiz
// @Accept       json
// @Produce      json
// @Param        playerID  path      string           true  "Player ID"
// @Param        body      body      SetCountRequest  true  "Requested count"
// @Success      200       {object}  QuizResponse
// @Failure      400       {object}  map[string]string
// @Failure      409       {object}  map[string]string
// @Router       /api/players/{playerID}/quiz/count [put]
func (h *Handler) setCount(w http.ResponseWriter, r *http.Request) {
	p, ok := h.playerFromPath(w, r)
	if !ok {
		return
	}
	var req SetCountRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if _, err := p.Session.ChangeCount(req.Count); h.handleQuizError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, newQuizResponse(p.Session.Get()))
}

// setLive toggles live scoring. A change restarts the loaded quiz.
// @Summary      Toggle live scoring
// @Tags         Quiz
// @Accept       json
// @Produce      json
// @Param        playerID  path      string          true  "Player ID"
// @Param        body      body      SetLiveRequest  true  "Live mode"
// @Success      200       {object}  QuizResponse
// @Failure      409       {object}  map[string]string
// @Router       /api/players/{playerID}/quiz/live [put]
func (h *Handler) setLive(w http.ResponseWriter, r *http.Request) {
	p, ok := h.playerFromPath(w, r)
	if !ok {
		return
	}
	var req SetLiveRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if h.handleQuizError(w, p.Session.SetLiveScoring(req.Enabled)) {
		return
	}
	respondJSON(w, http.StatusOK, newQuizResponse(p.Session.Get()))
}

// submitQuiz scores the displayed questions and locks the quiz.
// @Summary      Submit the quiz
// @Tags         Quiz
// @Produce      json
// @Param        playerID  path      string  true  "Player ID"
// @Success      200       {object}  grader.Result
// @Failure      404       {object}  map[string]string
// @Failure      409       {object}  map[string]string
// @Router       /api/players/{playerID}/quiz/submit [post]
func (h *Handler) submitQuiz(w http.ResponseWriter, r *http.Request) {
	p, ok := h.playerFromPath(w, r)
	if !ok {
		return
	}
	res, err := p.Session.Submit()
	if h.handleQuizError(w, err) {
		return
	}

	h.logger.Info("quiz submitted",
		"player_id", p.ID,
		"grade", res.Grade,
		"correct", res.Correct,
		"total", res.Total,
	)
	respondJSON(w, http.StatusOK, res)
}

// restartQuiz reshuffles the loaded quiz and clears answers.
// @Summary      Restart the quiz
// @Tags         Quiz
// @Produce      json
// @Param        playerID  path      string  true  "Player ID"
// @Success      200       {object}  QuizResponse
// @Failure      404       {object}  map[string]string
// @Failure      422       {object}  map[string]string
// @Router       /api/players/{playerID}/quiz/restart [post]
func (h *Handler) restartQuiz(w http.ResponseWriter, r *http.Request) {
	p, ok := h.playerFromPath(w, r)
	if !ok {
		return
	}
	if h.handleQuizError(w, p.Session.Restart()) {
		return
	}
	respondJSON(w, http.StatusOK, newQuizResponse(p.Session.Get()))
}
