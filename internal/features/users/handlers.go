// Package users — handlers.go обрабатывает HTTP-запросы учётных записей:
// регистрация, вход, /me, профили, обновление и удаление.
package users

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"fictionhub/internal/api"
	"fictionhub/internal/common"
	"fictionhub/internal/middleware"
)

// Handler обрабатывает HTTP-запросы пользователей.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик пользователей.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// UserResponse — публичное представление пользователя.
type UserResponse struct {
	ID        int64     `json:"id"`
	Login     string    `json:"login"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProfileResponse — страница профиля со статистикой.
type ProfileResponse struct {
	ID                 int64  `json:"id"`
	Login              string `json:"login"`
	Description        string `json:"description"`
	ProfileImage       string `json:"profileImage"`
	StoriesStarted     int    `json:"storiesStarted"`
	StoriesContributed int    `json:"storiesContributed"`
	LikesReceived      int    `json:"likesReceived"`
	CommentsReceived   int    `json:"commentsReceived"`
	IsCurrentUser      bool   `json:"isCurrentUser"`
}

func toUserResponse(u *User) UserResponse {
	return UserResponse{ID: u.ID, Login: u.Login, Email: u.Email, CreatedAt: u.CreatedAt}
}

type registerRequest struct {
	Login    string `json:"login"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register — POST /users/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := h.service.Register(r.Context(), req.Login, req.Email, req.Password)
	if err != nil {
		if err == common.ErrAlreadyExists {
			api.WriteMessage(w, http.StatusBadRequest, "User with this email already exists")
			return
		}
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, toUserResponse(u))
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Login — POST /users/login. Возвращает JWT и краткий профиль.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, u, profile, err := h.service.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user": map[string]any{
			"id":           u.ID,
			"login":        u.Login,
			"email":        u.Email,
			"description":  profile.Description,
			"profileImage": profile.ProfileImage,
		},
	})
}

// List — GET /users.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		api.WriteError(w, err)
		return
	}
	out := make([]UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, toUserResponse(u))
	}
	api.WriteJSON(w, http.StatusOK, out)
}

// Get — GET /users/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		api.WriteMessage(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	u, err := h.service.Get(r.Context(), id)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toUserResponse(u))
}

// Me — GET /users/me (требует аутентификации).
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		api.WriteError(w, common.ErrUnauthorized)
		return
	}

	u, profile, err := h.service.GetWithProfile(r.Context(), userID)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"id":           u.ID,
		"login":        u.Login,
		"email":        u.Email,
		"description":  profile.Description,
		"profileImage": profile.ProfileImage,
	})
}

// GetProfile — GET /users/{id}/profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		api.WriteMessage(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	currentID, _ := middleware.UserIDFrom(r.Context())

	u, profile, stats, err := h.service.GetFullProfile(r.Context(), id)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, ProfileResponse{
		ID:                 u.ID,
		Login:              u.Login,
		Description:        profile.Description,
		ProfileImage:       profile.ProfileImage,
		StoriesStarted:     stats.StoriesStarted,
		StoriesContributed: stats.StoriesContributed,
		LikesReceived:      stats.LikesReceived,
		CommentsReceived:   stats.CommentsReceived,
		IsCurrentUser:      currentID == u.ID,
	})
}

type profileUpdateRequest struct {
	Description  *string `json:"description"`
	ProfileImage *string `json:"profileImage"`
}

// UpdateProfile — PUT /users/profile/{id}. Чужой профиль править нельзя.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		api.WriteMessage(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	if currentID, ok := middleware.UserIDFrom(r.Context()); !ok || currentID != id {
		api.WriteError(w, common.ErrForbidden)
		return
	}
	var req profileUpdateRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err = h.service.UpdateProfile(r.Context(), id, ProfileUpdate{
		Description:  req.Description,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteMessage(w, http.StatusOK, "Profile updated")
}

type userUpdateRequest struct {
	Login        *string `json:"login"`
	Email        *string `json:"email"`
	Description  *string `json:"description"`
	ProfileImage *string `json:"profileImage"`
}

// Update — PUT /users/{id}. Чужую учётную запись править нельзя.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		api.WriteMessage(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	if currentID, ok := middleware.UserIDFrom(r.Context()); !ok || currentID != id {
		api.WriteError(w, common.ErrForbidden)
		return
	}
	var req userUpdateRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, profile, err := h.service.Update(r.Context(), id, UserUpdate{
		Login:        req.Login,
		Email:        req.Email,
		Description:  req.Description,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"login":        u.Login,
		"email":        u.Email,
		"description":  profile.Description,
		"profileImage": profile.ProfileImage,
	})
}

// Delete — DELETE /users/{id}. Удалить можно только себя.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		api.WriteMessage(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	if currentID, ok := middleware.UserIDFrom(r.Context()); !ok || currentID != id {
		api.WriteError(w, common.ErrForbidden)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		api.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
