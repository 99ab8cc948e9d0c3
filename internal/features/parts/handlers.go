package parts

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"fictionhub/internal/api"
	"fictionhub/internal/common"
	"fictionhub/internal/middleware"
)

// StoryAccess отдаёт автора и приватность истории. Реализуется
// репозиторием историй.
type StoryAccess interface {
	AccessInfo(ctx context.Context, storyID int64) (authorID int64, private bool, err error)
}

// Handler обрабатывает HTTP-запросы частей.
type Handler struct {
	service *Service
	stories StoryAccess
}

// NewHandler создаёт обработчик частей.
func NewHandler(service *Service, stories StoryAccess) *Handler {
	return &Handler{service: service, stories: stories}
}

// storyAuthor проверяет видимость истории для текущего пользователя и
// возвращает её автора. Приватная история доступна только автору.
func (h *Handler) storyAuthor(r *http.Request, storyID int64) (int64, error) {
	authorID, private, err := h.stories.AccessInfo(r.Context(), storyID)
	if err != nil {
		return 0, err
	}
	if private {
		viewerID, _ := middleware.UserIDFrom(r.Context())
		if viewerID != authorID {
			if viewerID == 0 {
				return 0, common.ErrUnauthorized
			}
			return 0, common.ErrForbidden
		}
	}
	return authorID, nil
}

// PartResponse — представление части для API.
type PartResponse struct {
	ID          int64     `json:"id"`
	StoryID     int64     `json:"storyId"`
	AuthorID    int64     `json:"authorId"`
	AuthorLogin string    `json:"authorLogin"`
	Order       int       `json:"order"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toPartResponse(p *Part) PartResponse {
	return PartResponse{
		ID:          p.ID,
		StoryID:     p.StoryID,
		AuthorID:    p.AuthorID,
		AuthorLogin: p.AuthorLogin,
		Order:       p.Order,
		Content:     p.Content,
		CreatedAt:   p.CreatedAt,
	}
}

type addRequest struct {
	Content string `json:"content"`
}

// Add — POST /stories/{id}/parts.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		api.WriteError(w, common.ErrUnauthorized)
		return
	}
	storyID, err := param(r, "id")
	if err != nil {
		api.WriteMessage(w, http.StatusBadRequest, "Invalid story id")
		return
	}
	var req addRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if _, err := h.storyAuthor(r, storyID); err != nil {
		api.WriteError(w, err)
		return
	}

	p, err := h.service.Add(r.Context(), storyID, userID, req.Content)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, toPartResponse(p))
}

// ListByStory — GET /stories/{id}/parts.
func (h *Handler) ListByStory(w http.ResponseWriter, r *http.Request) {
	storyID, err := param(r, "id")
	if err != nil {
		api.WriteMessage(w, http.StatusBadRequest, "Invalid story id")
		return
	}
	if _, err := h.storyAuthor(r, storyID); err != nil {
		api.WriteError(w, err)
		return
	}
	list, err := h.service.ListByStory(r.Context(), storyID)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	out := make([]PartResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPartResponse(p))
	}
	api.WriteJSON(w, http.StatusOK, out)
}

// Get — GET /parts/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := param(r, "id")
	if err != nil {
		api.WriteMessage(w, http.StatusBadRequest, "Invalid part id")
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	if _, err := h.storyAuthor(r, p.StoryID); err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toPartResponse(p))
}

// Update — PUT /parts/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		api.WriteError(w, common.ErrUnauthorized)
		return
	}
	id, err := param(r, "id")
	if err != nil {
		api.WriteMessage(w, http.StatusBadRequest, "Invalid part id")
		return
	}
	var req addRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	existing, err := h.service.Get(r.Context(), id)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	storyAuthorID, err := h.storyAuthor(r, existing.StoryID)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	p, err := h.service.Update(r.Context(), userID, storyAuthorID, id, req.Content)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toPartResponse(p))
}

// Delete — DELETE /parts/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		api.WriteError(w, common.ErrUnauthorized)
		return
	}
	id, err := param(r, "id")
	if err != nil {
		api.WriteMessage(w, http.StatusBadRequest, "Invalid part id")
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	storyAuthorID, err := h.storyAuthor(r, p.StoryID)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), userID, storyAuthorID, id); err != nil {
		api.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reorderRequest struct {
	Orders map[string]int `json:"orders"`
}

// Reorder — PUT /stories/{id}/parts/order. Тело задаёт отображение
// id части в новый номер; набор номеров обязан быть перестановкой 1..N.
func (h *Handler) Reorder(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		api.WriteError(w, common.ErrUnauthorized)
		return
	}
	storyID, err := param(r, "id")
	if err != nil {
		api.WriteMessage(w, http.StatusBadRequest, "Invalid story id")
		return
	}
	var req reorderRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	orders := make(map[int64]int, len(req.Orders))
	for raw, order := range req.Orders {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			api.WriteMessage(w, http.StatusBadRequest, "Invalid part id in order map")
			return
		}
		orders[id] = order
	}

	storyAuthorID, err := h.storyAuthor(r, storyID)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	if err := h.service.Reorder(r.Context(), userID, storyID, storyAuthorID, orders); err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteMessage(w, http.StatusOK, "Parts reordered")
}

func param(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
