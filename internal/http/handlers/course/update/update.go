// Package update реализует HTTP-обработчик частичного обновления курса.
//
// Отсутствующие в запросе поля не меняются, явные нулевые значения
// применяются. Поддерживает JSON и multipart-форму с новым файлом
// изображения в поле courseImage; при замене изображения старый файл
// удаляется из хранилища. Доступно только владельцу курса.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/course-catalog/internal/http/handlers/course/create"
	"github.com/magabrotheeeer/course-catalog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-catalog/internal/http/response"
	"github.com/magabrotheeeer/course-catalog/internal/lib/sl"
	"github.com/magabrotheeeer/course-catalog/internal/models"
	services "github.com/magabrotheeeer/course-catalog/internal/services/course"
	"github.com/magabrotheeeer/course-catalog/internal/storage/repository"
)

// Request — структура входных данных для обновления курса.
// Указатели отличают отсутствующее поле от явного нулевого значения.
type Request struct {
	Title          *string  `json:"title" validate:"omitempty,min=1"`
	Description    *string  `json:"description"`
	Price          *float64 `json:"price" validate:"omitempty,min=0"`
	Duration       *int     `json:"duration" validate:"omitempty,min=1"`
	DurationUnit   *string  `json:"duration_unit" validate:"omitempty,oneof=hours days weeks months"`
	Category       *string  `json:"category"`
	InstructorName *string  `json:"instructor_name"`
	Image          *string  `json:"image"`
}

// Handler обрабатывает HTTP-запросы обновления курса.
type Handler struct {
	log      *slog.Logger
	service  Service
	media    MediaUploader
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики обновления курса.
type Service interface {
	Update(ctx context.Context, id, userUID string, req models.UpdateCourse) (*models.Course, error)
}

// MediaUploader описывает загрузку изображения в удаленное хранилище.
type MediaUploader interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, media MediaUploader) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		media:    media,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновление курса
// @Description Частично обновляет курс. Доступно только владельцу. Принимает JSON или multipart-форму с новым изображением.
// @Tags Courses
// @Accept  json
// @Accept  mpfd
// @Produce  json
// @Param id path string true "ID курса"
// @Param request body Request true "Изменяемые поля курса"
// @Success 200 {object} response.Response "Обновленный курс"
// @Failure 400 {object} response.Response "Некорректный запрос"
// @Failure 403 {object} response.ErrorResponse "Курс принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Курс не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /courses/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.update"

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

	var req Request
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		parsed, errMsg := h.parseMultipart(r, log)
		if errMsg != "" {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(errMsg))
			return
		}
		req = *parsed
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid request body"))
			return
		}
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	course, err := h.service.Update(r.Context(), id, uid, models.UpdateCourse{
		Title:          req.Title,
		Description:    req.Description,
		Price:          req.Price,
		Duration:       req.Duration,
		DurationUnit:   req.DurationUnit,
		Category:       req.Category,
		InstructorName: req.InstructorName,
		Image:          req.Image,
	})
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
			render.JSON(w, r, response.Error("you are not allowed to update this course"))
		default:
			log.Error("failed to update course", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update course"))
		}
		return
	}

	log.Info("updated course", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"course": course,
	}))
}

// parseMultipart разбирает multipart-форму, переданные поля превращает
// в указатели, а файл изображения загружает в хранилище.
func (h *Handler) parseMultipart(r *http.Request, log *slog.Logger) (*Request, string) {
	if err := r.ParseMultipartForm(create.MaxImageSize); err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		return nil, "invalid multipart form"
	}

	req := &Request{}
	formValue := func(name string) *string {
		values, ok := r.MultipartForm.Value[name]
		if !ok || len(values) == 0 {
			return nil
		}
		return &values[0]
	}

	req.Title = formValue("title")
	req.Description = formValue("description")
	req.DurationUnit = formValue("duration_unit")
	req.Category = formValue("category")
	req.InstructorName = formValue("instructor_name")
	req.Image = formValue("image")

	if v := formValue("price"); v != nil {
		price, err := strconv.ParseFloat(*v, 64)
		if err != nil {
			return nil, "price must be a number"
		}
		req.Price = &price
	}
	if v := formValue("duration"); v != nil {
		duration, err := strconv.Atoi(*v)
		if err != nil {
			return nil, "duration must be an integer"
		}
		req.Duration = &duration
	}

	file, header, err := r.FormFile(create.ImageField)
	if err != nil {
		if err == http.ErrMissingFile {
			return req, ""
		}
		log.Error("failed to read image file", sl.Err(err))
		return nil, "invalid image file"
	}
	defer func() { _ = file.Close() }()

	if header.Size > create.MaxImageSize {
		return nil, "image file is too large"
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		return nil, "unsupported image format"
	}

	locator, err := h.media.Upload(r.Context(), header.Filename,
		header.Header.Get("Content-Type"), file)
	if err != nil {
		log.Error("failed to upload image", sl.Err(err))
		return nil, "could not upload image"
	}
	log.Info("uploaded course image", slog.String("locator", locator))
	req.Image = &locator
	return req, ""
}
