// Package list реализует HTTP-обработчик для получения всех курсов
// вместе с именем и почтой владельца каждого курса.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/course-catalog/internal/http/response"
	"github.com/magabrotheeeer/course-catalog/internal/lib/sl"
	"github.com/magabrotheeeer/course-catalog/internal/models"
)

// Handler обрабатывает запросы на получение списка курсов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения курсов.
type Service interface {
	List(ctx context.Context) ([]*models.CourseInfo, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	courses, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list courses", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list courses"))
		return
	}

	log.Info("success to list courses", slog.Int("count", len(courses)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"courses": courses,
		"count":   len(courses),
	}))
}
