// Package remove реализует HTTP-обработчик удаления курса.
// Вместе с записью удаляется изображение курса в удаленном хранилище.
// Доступно только владельцу курса.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/course-catalog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-catalog/internal/http/response"
	"github.com/magabrotheeeer/course-catalog/internal/lib/sl"
	services "github.com/magabrotheeeer/course-catalog/internal/services/course"
	"github.com/magabrotheeeer/course-catalog/internal/storage/repository"
)

// Handler обрабатывает HTTP-запросы удаления курса.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления курса.
type Service interface {
	Remove(ctx context.Context, id, userUID string) (int, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удаление курса
// @Description Удаляет курс вместе с его изображением. Доступно только владельцу.
// @Tags Courses
// @Produce  json
// @Param id path string true "ID курса"
// @Success 200 {object} response.Response "Курс удален"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 403 {object} response.ErrorResponse "Курс принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Курс не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /courses/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.remove"

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

	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid course id"))
		return
	}

	count, err := h.service.Remove(r.Context(), id, uid)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Error("course not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("course not found"))
		case errors.Is(err, services.ErrNotOwner):
			log.Error("course belongs to another user",
				slog.String("id", id), slog.String("uid", uid))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("you are not allowed to delete this course"))
		default:
			log.Error("failed to delete course", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not delete course"))
		}
		return
	}

	log.Info("deleted course", slog.String("id", id), slog.Int("count", count))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "course deleted successfully",
	}))
}
