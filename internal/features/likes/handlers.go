package likes

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"fictionhub/internal/api"
	"fictionhub/internal/common"
	"fictionhub/internal/middleware"
)

// Handler обрабатывает HTTP-запросы лайков. Бизнес-логики сверх
// репозитория здесь нет, поэтому отдельного сервиса не заводим.
type Handler struct {
	repo *Repository
}

// NewHandler создаёт обработчик лайков.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Toggle — POST /stories/{id}/like.
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		api.WriteError(w, common.ErrUnauthorized)
		return
	}
	storyID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.WriteMessage(w, http.StatusBadRequest, "Invalid story id")
		return
	}

	liked, count, err := h.repo.Toggle(r.Context(), storyID, userID)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"liked":      liked,
		"likesCount": count,
	})
}

// Status — GET /stories/{id}/like.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	storyID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.WriteMessage(w, http.StatusBadRequest, "Invalid story id")
		return
	}

	liked := false
	if userID, ok := middleware.UserIDFrom(r.Context()); ok {
		liked, err = h.repo.IsLiked(r.Context(), storyID, userID)
		if err != nil {
			api.WriteError(w, err)
			return
		}
	}
	count, err := h.repo.Count(r.Context(), storyID)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"liked":      liked,
		"likesCount": count,
	})
}
