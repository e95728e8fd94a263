// Package remove реализует HTTP-обработчик удаления учетной записи.
//
// Для подтверждения требуется пароль. Вместе с учетной записью удаляются
// все курсы пользователя и их изображения в удаленном хранилище, после чего
// cookie с токеном очищается.
package remove

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/course-catalog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-catalog/internal/http/response"
	"github.com/magabrotheeeer/course-catalog/internal/lib/sl"
	services "github.com/magabrotheeeer/course-catalog/internal/services/auth"
	"github.com/magabrotheeeer/course-catalog/internal/storage/repository"
)

// Request — подтверждение удаления учетной записи.
type Request struct {
	Password string `json:"password" validate:"required"`
}

// Handler обрабатывает HTTP-запросы удаления учетной записи.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики удаления учетной записи.
type Service interface {
	DeleteAccount(ctx context.Context, userUID, password string) (int, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Удаление учетной записи
// @Description Удаляет аккаунт вместе со всеми курсами пользователя после проверки пароля.
// @Tags Users
// @Accept  json
// @Produce  json
// @Param request body Request true "Пароль для подтверждения"
// @Success 200 {object} response.Response "Количество удаленных курсов"
// @Failure 400 {object} response.Response "Пароль не передан"
// @Failure 401 {object} response.ErrorResponse "Неверный пароль"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /users/profile [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || uid == "" {
		log.Error("missing user uid in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("authentication required"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("password is required to delete account"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("password is required to delete account"))
		return
	}

	deleted, err := h.service.DeleteAccount(r.Context(), uid, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrWrongPassword):
			log.Error("wrong password", slog.String("uid", uid))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("password is incorrect"))
		case errors.Is(err, repository.ErrNotFound):
			log.Error("user not found", slog.String("uid", uid))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("failed to delete account", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not delete account"))
		}
		return
	}

	middlewarectx.ClearAuthCookie(w)

	log.Info("deleted user account",
		slog.String("uid", uid), slog.Int("deleted_courses", deleted))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"deleted_courses": deleted,
		"message":         "account deleted successfully",
	}))
}
