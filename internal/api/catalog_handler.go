package api

import (
	"net/http"
)

// ── Handlers ────────────────────────────────────────────────────────────────

// listQuizzes lists the subfolders and quiz files of a folder.
// @Summary      List quizzes
// @Description  Returns the subfolders and .txt quiz files of a folder, sorted case-insensitively.
// @Tags         Catalog
// @Produce      json
// @Param        folder  query     string  false  "Folder relative to the quiz directory"
// @Success      200     {object}  folder.Listing
// @Failure      500     {string}  string  "Error reading directory"
// @Router       /api/list-quizzes [get]
func (h *Handler) listQuizzes(w http.ResponseWriter, r *http.Request) {
	listing, err := h.tree.List(r.Context(), r.URL.Query().Get("folder"))
	if err != nil {
		h.logger.Warn("list quizzes failed", "folder", r.URL.Query().Get("folder"), "error", err)
		http.Error(w, "Error reading directory", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, listing)
}

// getCatalog lists a folder with validation flags on every entry.
// @Summary      Browse the catalog
// @Description  Lists a folder and flags invalid quiz files and folders containing them.
// @Tags         Catalog
// @Produce      json
// @Param        folder  query     string  false  "Folder relative to the quiz directory"
// @Success      200     {object}  catalog.View
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /api/catalog [get]
func (h *Handler) getCatalog(w http.ResponseWriter, r *http.Request) {
	view, err := h.tree.Browse(r.Context(), r.URL.Query().Get("folder"))
	if h.handleQuizError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// getQuizContent serves the raw text of a file under the quiz directory.
// @Summary      Get quiz text
// @Tags         Catalog
// @Produce      plain
// @Param        path  path      string  true  "File path relative to the quiz directory"
// @Success      200   {string}  string
// @Failure      404   {object}  map[string]string
// @Router       /quizzes/{path} [get]
func (h *Handler) getQuizContent(w http.ResponseWriter, r *http.Request) {
	raw, err := h.tree.Fetch(r.Context(), r.PathValue("path"))
	if h.handleQuizError(w, err) {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(raw))
}
