// Package read реализует HTTP-обработчик для получения конкретного курса по ID.
//
// Handler извлекает ID из URL-параметров, вызывает бизнес-логику для чтения курса
// и возвращает данные курса вместе с информацией о владельце в JSON-формате.
//
// В случае ошибок формирует соответствующие HTTP-ответы с описанием проблемы.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/course-catalog/internal/http/response"
	"github.com/magabrotheeeer/course-catalog/internal/lib/sl"
	"github.com/magabrotheeeer/course-catalog/internal/models"
	"github.com/magabrotheeeer/course-catalog/internal/storage/repository"
)

// Handler обрабатывает запросы на получение курса по уникальному идентификатору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения курса.
type Service interface {
	Read(ctx context.Context, id string) (*models.CourseInfo, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получение курса
// @Description Возвращает курс по ID вместе с данными владельца.
// @Tags Courses
// @Produce  json
// @Param id path string true "ID курса"
// @Success 200 {object} response.Response "Курс с данными владельца"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Курс не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /courses/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid course id"))
		return
	}

	course, err := h.service.Read(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("course not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("course not found"))
			return
		}
		log.Error("failed to read course", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read course"))
		return
	}

	log.Info("success to read course", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"course": course,
	}))
}
