package comments

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"fictionhub/internal/api"
	"fictionhub/internal/common"
	"fictionhub/internal/middleware"
)

// Handler обрабатывает HTTP-запросы комментариев.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик комментариев.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CommentResponse — представление комментария для API.
type CommentResponse struct {
	ID          int64     `json:"id"`
	StoryID     int64     `json:"storyId"`
	AuthorID    int64     `json:"authorId"`
	AuthorLogin string    `json:"authorLogin"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toCommentResponse(c *Comment) CommentResponse {
	return CommentResponse{
		ID:          c.ID,
		StoryID:     c.StoryID,
		AuthorID:    c.AuthorID,
		AuthorLogin: c.AuthorLogin,
		Content:     c.Content,
		CreatedAt:   c.CreatedAt,
	}
}

type createRequest struct {
	Content string `json:"content"`
}

// Create — POST /stories/{id}/comments.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
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
	var req createRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	c, err := h.service.Create(r.Context(), storyID, userID, req.Content)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, toCommentResponse(c))
}

// ListByStory — GET /stories/{id}/comments.
func (h *Handler) ListByStory(w http.ResponseWriter, r *http.Request) {
	storyID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.WriteMessage(w, http.StatusBadRequest, "Invalid story id")
		return
	}
	list, err := h.service.ListByStory(r.Context(), storyID)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	out := make([]CommentResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCommentResponse(c))
	}
	api.WriteJSON(w, http.StatusOK, out)
}

// Get — GET /comments/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.WriteMessage(w, http.StatusBadRequest, "Invalid comment id")
		return
	}
	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toCommentResponse(c))
}

// Delete — DELETE /comments/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		api.WriteError(w, common.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.WriteMessage(w, http.StatusBadRequest, "Invalid comment id")
		return
	}
	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		api.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
