package reports

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"fictionhub/internal/api"
	"fictionhub/internal/common"
	"fictionhub/internal/middleware"
)

// Handler обрабатывает HTTP-запросы жалоб.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик жалоб.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Reason  string `json:"reason"`
	Details string `json:"details"`
}

// Create — POST /stories/{id}/report.
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

	_, err = h.service.Create(r.Context(), storyID, userID, req.Reason, req.Details)
	if err != nil {
		if err == common.ErrAlreadyExists {
			api.WriteMessage(w, http.StatusBadRequest, "You have already reported this story")
			return
		}
		api.WriteError(w, err)
		return
	}
	api.WriteMessage(w, http.StatusCreated, "Report submitted")
}
