// Package api собирает HTTP-маршрутизатор и общие помощники ответов.
// respond.go — сериализация JSON и перевод доменных ошибок в HTTP-статусы.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"fictionhub/internal/common"
)

// WriteJSON пишет произвольное значение как JSON с указанным статусом.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Ошибка сериализации ответа")
	}
}

// WriteMessage пишет стандартный конверт {"message": ...}.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"message": message})
}

// WriteError переводит доменную ошибку в HTTP-ответ.
// Неизвестные ошибки логируются и отдаются как 500 без деталей.
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		WriteMessage(w, http.StatusNotFound, "Not found")
	case errors.Is(err, common.ErrAlreadyExists):
		WriteMessage(w, http.StatusBadRequest, "Already exists")
	case errors.Is(err, common.ErrForbidden):
		WriteMessage(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, common.ErrUnauthorized):
		WriteMessage(w, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, common.ErrInvalidCredentials):
		WriteMessage(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, common.ErrEmptyContent),
		errors.Is(err, common.ErrStoryNotEditable),
		errors.Is(err, common.ErrBadPartOrder),
		errors.Is(err, common.ErrInvalidInput):
		WriteMessage(w, http.StatusBadRequest, err.Error())
	default:
		log.WithError(err).Error("Внутренняя ошибка обработчика")
		WriteMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

// DecodeJSON разбирает тело запроса в dst. Ошибка — некорректный JSON.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
