package api

import (
	"net/http"
)

// RegisterRoutes mounts every API route on mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Quiz tree
	mux.HandleFunc("GET /api/list-quizzes", h.listQuizzes)
	mux.HandleFunc("GET /api/catalog", h.getCatalog)
	mux.HandleFunc("GET /quizzes/{path...}", h.getQuizContent)
	mux.Handle("GET /images/", imageServer(h.imageDir))

	// Players
	mux.HandleFunc("POST /api/players", h.createPlayer)
	mux.HandleFunc("DELETE /api/players/{playerID}", h.deletePlayer)
	mux.HandleFunc("GET /api/players/{playerID}/browse", h.browse)

	// Quiz session
	mux.HandleFunc("POST /api/players/{playerID}/quiz", h.loadQuiz)
	mux.HandleFunc("GET /api/players/{playerID}/quiz", h.getQuiz)
	mux.HandleFunc("GET /api/players/{playerID}/quiz/levels", h.getLevels)
	mux.HandleFunc("PUT /api/players/{playerID}/quiz/levels", h.setLevels)
	mux.HandleFunc("PUT /api/players/{playerID}/quiz/count", h.setCount)
	mux.HandleFunc("PUT /api/players/{playerID}/quiz/live", h.setLive)
	mux.HandleFunc("POST /api/players/{playerID}/quiz/answers", h.submitAnswer)
	mux.HandleFunc("POST /api/players/{playerID}/quiz/submit", h.submitQuiz)
	mux.HandleFunc("POST /api/players/{playerID}/quiz/restart", h.restartQuiz)
	mux.HandleFunc("GET /api/players/{playerID}/quiz/export", h.exportQuiz)
}
