// Package create реализует HTTP-обработчик создания курса.
//
// Поддерживает два формата запроса: JSON и multipart/form-data с файлом
// изображения в поле courseImage. Файл загружается в удаленное хранилище,
// а в курсе сохраняется его адрес. Владельцем курса становится
// аутентифицированный пользователь.
package create

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/course-catalog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-catalog/internal/http/response"
	"github.com/magabrotheeeer/course-catalog/internal/lib/sl"
	"github.com/magabrotheeeer/course-catalog/internal/models"
)

// MaxImageSize предельный размер загружаемого изображения.
const MaxImageSize = 5 << 20

// ImageField имя поля с файлом в multipart-форме.
const ImageField = "courseImage"

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Handler обрабатывает HTTP-запросы создания курса.
type Handler struct {
	log      *slog.Logger
	service  Service
	media    MediaUploader
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания курса.
type Service interface {
	Create(ctx context.Context, userUID string, req models.DummyCourse) (*models.Course, error)
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
// @Summary Создание курса
// @Description Создает новый курс. Принимает JSON или multipart-форму с файлом изображения.
// @Tags Courses
// @Accept  json
// @Accept  mpfd
// @Produce  json
// @Param request body models.DummyCourse true "Данные курса"
// @Success 201 {object} response.Response "Созданный курс"
// @Failure 400 {object} response.Response "Некорректный запрос или ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Не аутентифицирован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /courses [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.create"

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

	var req models.DummyCourse
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
	log.Info("request body decoded", slog.String("title", req.Title))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	course, err := h.service.Create(r.Context(), uid, req)
	if err != nil {
		log.Error("failed to create course", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create course"))
		return
	}

	log.Info("created new course", slog.String("id", course.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"course": course,
	}))
}

// parseMultipart разбирает multipart-форму с полями курса и, при наличии,
// загружает файл изображения в хранилище. Возвращает текст ошибки для клиента.
func (h *Handler) parseMultipart(r *http.Request, log *slog.Logger) (*models.DummyCourse, string) {
	if err := r.ParseMultipartForm(MaxImageSize); err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		return nil, "invalid multipart form"
	}

	req := &models.DummyCourse{
		Title:          r.FormValue("title"),
		Description:    r.FormValue("description"),
		DurationUnit:   r.FormValue("duration_unit"),
		Category:       r.FormValue("category"),
		InstructorName: r.FormValue("instructor_name"),
		Image:          r.FormValue("image"),
	}
	if v := r.FormValue("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, "price must be a number"
		}
		req.Price = price
	}
	if v := r.FormValue("duration"); v != "" {
		duration, err := strconv.Atoi(v)
		if err != nil {
			return nil, "duration must be an integer"
		}
		req.Duration = duration
	}

	file, header, err := r.FormFile(ImageField)
	if err != nil {
		if err == http.ErrMissingFile {
			return req, ""
		}
		log.Error("failed to read image file", sl.Err(err))
		return nil, "invalid image file"
	}
	defer func() { _ = file.Close() }()

	if header.Size > MaxImageSize {
		return nil, "image file is too large"
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return nil, "unsupported image format"
	}

	locator, err := h.media.Upload(r.Context(), header.Filename,
		header.Header.Get("Content-Type"), file)
	if err != nil {
		log.Error("failed to upload image", sl.Err(err))
		return nil, "could not upload image"
	}
	log.Info("uploaded course image", slog.String("locator", locator))
	req.Image = locator
	return req, ""
}
