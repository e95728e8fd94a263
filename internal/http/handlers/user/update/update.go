// Package update реализует HTTP-обработчик частичного обновления профиля.
//
// Отсутствующие в JSON поля не меняются. Смена пароля требует передачи
// текущего пароля; новый email повторно проверяется на уникальность.
package update

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
	"github.com/magabrotheeeer/course-catalog/internal/models"
	services "github.com/magabrotheeeer/course-catalog/internal/services/auth"
	"github.com/magabrotheeeer/course-catalog/internal/storage/repository"
)

// Request — структура входных данных для обновления профиля.
// Указатели отличают отсутствующее поле от пустого значения.
type Request struct {
	Name            *string `json:"name" validate:"omitempty,min=3,max=50"`
	Email           *string `json:"email" validate:"omitempty,email"`
	PhoneNumber     *string `json:"phone_number"`
	CurrentPassword string  `json:"current_password"`
	NewPassword     string  `json:"new_password"`
}

// Handler обрабатывает HTTP-запросы обновления профиля.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики обновления профиля.
type Service interface {
	UpdateProfile(ctx context.Context, userUID string, req services.UpdateProfileRequest) (*models.UserView, error)
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
// @Summary Обновление профиля
// @Description Частично обновляет профиль аутентифицированного пользователя.
// @Tags Users
// @Accept  json
// @Produce  json
// @Param request body Request true "Изменяемые поля профиля"
// @Success 200 {object} response.Response "Обновленный профиль"
// @Failure 400 {object} response.Response "Некорректный JSON или ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Неверный текущий пароль"
// @Failure 409 {object} response.ErrorResponse "Email уже занят"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /users/profile [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.update"

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
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), uid, services.UpdateProfileRequest{
		Name:            req.Name,
		Email:           req.Email,
		PhoneNumber:     req.PhoneNumber,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		var dup *repository.DuplicateError
		switch {
		case errors.As(err, &dup):
			log.Error("profile update conflict", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(dup.Field+" is already taken"))
		case errors.Is(err, services.ErrWrongPassword):
			log.Error("wrong current password", slog.String("uid", uid))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("current password is incorrect"))
		case errors.Is(err, services.ErrCurrentPasswordRequired),
			errors.Is(err, services.ErrPasswordTooShort):
			log.Error("invalid password change request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
		case errors.Is(err, repository.ErrNotFound):
			log.Error("user not found", slog.String("uid", uid))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("failed to update profile", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update profile"))
		}
		return
	}

	log.Info("updated user profile", slog.String("uid", uid))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user": user,
	}))
}
