package confirmation

import (
	"net/http"
	"strings"

	"fictionhub/internal/api"
)

// Handler обрабатывает HTTP-запросы подтверждения почты.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик подтверждения.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type requestCode struct {
	Email string `json:"email"`
}

// Request — POST /confirmation/request.
func (h *Handler) Request(w http.ResponseWriter, r *http.Request) {
	var req requestCode
	if err := api.DecodeJSON(r, &req); err != nil {
		api.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		api.WriteMessage(w, http.StatusBadRequest, "Email is required")
		return
	}

	if err := h.service.Request(r.Context(), req.Email); err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteMessage(w, http.StatusOK, "Confirmation code sent")
}

type confirmCode struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// Confirm — POST /confirmation/confirm.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmCode
	if err := api.DecodeJSON(r, &req); err != nil {
		api.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !h.service.Confirm(strings.TrimSpace(req.Email), strings.TrimSpace(req.Code)) {
		api.WriteMessage(w, http.StatusBadRequest, "Invalid or expired code")
		return
	}
	api.WriteMessage(w, http.StatusOK, "Email confirmed")
}
