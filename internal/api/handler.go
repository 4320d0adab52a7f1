// internal/api/handler.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/quizplayer/backend/internal/catalog"
	"github.com/quizplayer/backend/internal/domain/folder"
	practicesession "github.com/quizplayer/backend/internal/domain/practice_session"
	"github.com/quizplayer/backend/internal/domain/questionbank"
	"github.com/quizplayer/backend/internal/service"
)

// QuizTree is the quiz directory as the handlers see it.
type QuizTree interface {
	List(ctx context.Context, folderPath string) (folder.Listing, error)
	Fetch(ctx context.Context, filePath string) (string, error)
	Browse(ctx context.Context, folderPath string) (catalog.View, error)
}

// Handler holds all dependencies needed by HTTP handlers.
type Handler struct {
	tree     QuizTree
	players  *service.PlayerService
	imageDir string
	logger   *slog.Logger
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(tree QuizTree, players *service.PlayerService, imageDir string, logger *slog.Logger) *Handler {
	return &Handler{
		tree:     tree,
		players:  players,
		imageDir: imageDir,
		logger:   logger,
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError writes {"error": msg}.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

type validator interface {
	Validate() error
}

// decodeJSON decodes the request body into v. On failure it writes a 400
// and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// decodeAndValidate decodes the body and runs its Validate method.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v validator) bool {
	if !decodeJSON(w, r, v) {
		return false
	}
	if err := v.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// handleQuizError maps domain errors to HTTP responses. Rejected state
// transitions carry their user-facing message. Returns true if an error
// was handled (caller should return).
func (h *Handler) handleQuizError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}

	var rej *practicesession.RejectionError
	if errors.As(err, &rej) {
		respondError(w, rejectionStatus(rej), rej.Message)
		return true
	}

	switch {
	case errors.Is(err, service.ErrPlayerNotFound):
		respondError(w, http.StatusNotFound, "player not found")
	case errors.Is(err, catalog.ErrNotFound):
		respondError(w, http.StatusNotFound, "File not found")
	case errors.Is(err, catalog.ErrInvalidPath):
		respondError(w, http.StatusBadRequest, "invalid path")
	case errors.Is(err, questionbank.ErrNoQuestions):
		respondError(w, http.StatusUnprocessableEntity, "No questions found")
	case errors.Is(err, practicesession.ErrInvalidAnswer):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrStaleNavigation):
		respondError(w, http.StatusConflict, "navigation superseded by a newer request")
	case errors.Is(err, context.Canceled):
		h.logger.Debug("request cancelled", "error", err)
	default:
		h.logger.Error("quiz error", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
	return true
}

func rejectionStatus(rej *practicesession.RejectionError) int {
	switch {
	case errors.Is(rej, practicesession.ErrSubmitted):
		return http.StatusConflict
	case errors.Is(rej, practicesession.ErrNoSession):
		return http.StatusNotFound
	case errors.Is(rej, practicesession.ErrNoQuestions),
		errors.Is(rej, practicesession.ErrNoQuestionsAvailable):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}
