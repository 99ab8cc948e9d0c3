package uploads

import (
	"errors"
	"net/http"

	"fictionhub/internal/api"
	"fictionhub/internal/common"
	"fictionhub/internal/features/users"
	"fictionhub/internal/middleware"
)

// Handler обрабатывает загрузку картинки профиля.
type Handler struct {
	service *Service
	users   *users.Service
	baseURL string
}

// NewHandler создаёт обработчик загрузок.
func NewHandler(service *Service, usersService *users.Service, baseURL string) *Handler {
	return &Handler{service: service, users: usersService, baseURL: baseURL}
}

// UploadProfileImage — POST /users/profile-image (multipart/form-data,
// поле image). Сохраняет файл и прописывает ссылку в профиль.
func (h *Handler) UploadProfileImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		api.WriteError(w, common.ErrUnauthorized)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		api.WriteMessage(w, http.StatusBadRequest, "Image file is required")
		return
	}
	defer file.Close()

	name, err := h.service.Save(header.Filename, header.Size, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrFileTooLarge):
			api.WriteMessage(w, http.StatusBadRequest, "File is too large")
		case errors.Is(err, ErrBadExtension):
			api.WriteMessage(w, http.StatusBadRequest, "Unsupported file type")
		default:
			api.WriteError(w, err)
		}
		return
	}

	url := h.baseURL + "/uploads/" + ProfileImagesDir + "/" + name
	if err := h.users.SetProfileImage(r.Context(), userID, url); err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{"profileImage": url})
}
