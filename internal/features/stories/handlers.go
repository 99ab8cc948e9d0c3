package stories

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"fictionhub/internal/api"
	"fictionhub/internal/common"
	"fictionhub/internal/middleware"
)

// Handler обрабатывает HTTP-запросы историй.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик историй.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// StoryResponse — представление истории для API.
type StoryResponse struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Annotation    string    `json:"annotation"`
	CoverImage    string    `json:"coverImage"`
	AuthorID      int64     `json:"authorId"`
	AuthorLogin   string    `json:"authorLogin"`
	Editable      bool      `json:"editable"`
	Private       bool      `json:"private"`
	Tags          []string  `json:"tags"`
	PartsCount    int       `json:"partsCount"`
	LikesCount    int       `json:"likesCount"`
	CommentsCount int       `json:"commentsCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

func toStoryResponse(d *StoryDetails) StoryResponse {
	return StoryResponse{
		ID:            d.ID,
		Title:         d.Title,
		Annotation:    d.Annotation,
		CoverImage:    d.CoverImage,
		AuthorID:      d.AuthorID,
		AuthorLogin:   d.AuthorLogin,
		Editable:      d.Editable,
		Private:       d.Private,
		Tags:          d.Tags,
		PartsCount:    d.PartsCount,
		LikesCount:    d.LikesCount,
		CommentsCount: d.CommentsCount,
		CreatedAt:     d.CreatedAt,
	}
}

func toStoryResponses(list []*StoryDetails) []StoryResponse {
	out := make([]StoryResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toStoryResponse(d))
	}
	return out
}

type createRequest struct {
	Title      string   `json:"title"`
	Annotation string   `json:"annotation"`
	CoverImage string   `json:"coverImage"`
	Private    bool     `json:"private"`
	Tags       []string `json:"tags"`
	FirstPart  string   `json:"firstPart"`
}

// Create — POST /stories.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		api.WriteError(w, common.ErrUnauthorized)
		return
	}
	var req createRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	d, err := h.service.Create(r.Context(), userID, req.Title, req.Annotation, req.CoverImage, req.Private, req.Tags, req.FirstPart)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, toStoryResponse(d))
}

// List — GET /stories.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := middleware.UserIDFrom(r.Context())
	list, err := h.service.List(r.Context(), viewerID)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toStoryResponses(list))
}

// Get — GET /stories/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := storyID(r)
	if err != nil {
		api.WriteMessage(w, http.StatusBadRequest, "Invalid story id")
		return
	}
	viewerID, _ := middleware.UserIDFrom(r.Context())
	d, err := h.service.Get(r.Context(), viewerID, id)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toStoryResponse(d))
}

// ListByAuthor — GET /stories/user/{id}.
func (h *Handler) ListByAuthor(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.WriteMessage(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	viewerID, _ := middleware.UserIDFrom(r.Context())
	list, err := h.service.ListByAuthor(r.Context(), id, viewerID)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toStoryResponses(list))
}

// ListContributions — GET /stories/user/{id}/contributions.
func (h *Handler) ListContributions(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.WriteMessage(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	viewerID, _ := middleware.UserIDFrom(r.Context())
	list, err := h.service.ListContributions(r.Context(), id, viewerID)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toStoryResponses(list))
}

type updateRequest struct {
	Title      *string  `json:"title"`
	Annotation *string  `json:"annotation"`
	CoverImage *string  `json:"coverImage"`
	Editable   *bool    `json:"editable"`
	Private    *bool    `json:"private"`
	Tags       []string `json:"tags"`
}

// Update — PUT /stories/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		api.WriteError(w, common.ErrUnauthorized)
		return
	}
	id, err := storyID(r)
	if err != nil {
		api.WriteMessage(w, http.StatusBadRequest, "Invalid story id")
		return
	}
	var req updateRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	d, err := h.service.Update(r.Context(), userID, id, StoryUpdate{
		Title:      req.Title,
		Annotation: req.Annotation,
		CoverImage: req.CoverImage,
		Editable:   req.Editable,
		Private:    req.Private,
		Tags:       req.Tags,
	})
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toStoryResponse(d))
}

// Delete — DELETE /stories/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		api.WriteError(w, common.ErrUnauthorized)
		return
	}
	id, err := storyID(r)
	if err != nil {
		api.WriteMessage(w, http.StatusBadRequest, "Invalid story id")
		return
	}
	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		api.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func storyID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
