// Package services содержит бизнес-логику для управления курсами:
// создание, чтение, обновление и удаление с проверкой владельца,
// кеширование прочитанных курсов и очистку изображений в удаленном хранилище.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/course-catalog/internal/lib/sl"
	"github.com/magabrotheeeer/course-catalog/internal/models"
)

// ErrNotOwner попытка изменить или удалить чужой курс.
var ErrNotOwner = errors.New("not the owner of the course")

// CourseRepository определяет методы для работы с курсами в хранилище.
type CourseRepository interface {
	// CreateCourse добавляет новый курс и возвращает его ID.
	CreateCourse(ctx context.Context, course models.Course) (string, error)
	// GetCourse возвращает курс по ID.
	GetCourse(ctx context.Context, id string) (*models.Course, error)
	// GetCourseInfo возвращает курс вместе с данными владельца.
	GetCourseInfo(ctx context.Context, id string) (*models.CourseInfo, error)
	// ListCourses возвращает все курсы с данными владельцев.
	ListCourses(ctx context.Context) ([]*models.CourseInfo, error)
	// UpdateCourse обновляет данные курса по ID.
	UpdateCourse(ctx context.Context, course models.Course, id string) (int, error)
	// DeleteCourse удаляет курс по ID и возвращает количество удалённых записей.
	DeleteCourse(ctx context.Context, id string) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// MediaStorage описывает удаление изображения из удаленного хранилища.
type MediaStorage interface {
	Destroy(ctx context.Context, locator string) error
}

// CourseService реализует бизнес-логику работы с курсами.
//
// Правило авторизации: сравнивается сохраненный created_by с uid
// аутентифицированного пользователя; владелец из запроса клиента
// никогда не используется.
type CourseService struct {
	repo  CourseRepository
	cache Cache
	media MediaStorage
	log   *slog.Logger
}

// NewCourseService создает новый экземпляр CourseService.
func NewCourseService(repo CourseRepository, cache Cache, media MediaStorage, log *slog.Logger) *CourseService {
	return &CourseService{
		repo:  repo,
		cache: cache,
		media: media,
		log:   log,
	}
}

// Create создает новый курс, владельцем становится аутентифицированный пользователь.
func (s *CourseService) Create(ctx context.Context, userUID string, req models.DummyCourse) (*models.Course, error) {
	durationUnit := req.DurationUnit
	if durationUnit == "" {
		durationUnit = models.DurationUnitHours
	}

	var image *string
	if req.Image != "" {
		image = &req.Image
	}

	course := models.Course{
		Title:          req.Title,
		Description:    req.Description,
		Price:          req.Price,
		Duration:       req.Duration,
		DurationUnit:   durationUnit,
		Category:       req.Category,
		InstructorName: req.InstructorName,
		Image:          image,
		CreatedBy:      userUID,
	}

	id, err := s.repo.CreateCourse(ctx, course)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.Info("created new course", slog.String("id", id))
	return created, nil
}

// List возвращает все курсы вместе с именами и почтой владельцев.
func (s *CourseService) List(ctx context.Context) ([]*models.CourseInfo, error) {
	return s.repo.ListCourses(ctx)
}

// Read возвращает курс по ID, используя кеш или репозиторий.
func (s *CourseService) Read(ctx context.Context, id string) (*models.CourseInfo, error) {
	var result *models.CourseInfo
	cacheKey := fmt.Sprintf("course:%s", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.GetCourseInfo(ctx, id)
	if err != nil {
		return nil, err
	}

	if result != nil {
		if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
			s.log.Warn("failed to add to cache", slog.String("key", cacheKey), sl.Err(err))
		}
	}
	return result, nil
}

// Update применяет частичное обновление курса: nil-поля запроса не трогаются,
// явные нулевые значения применяются. Доступно только владельцу.
// При замене изображения старое удаляется из хранилища (ошибка удаления
// логируется и не прерывает обновление).
func (s *CourseService) Update(ctx context.Context, id, userUID string, req models.UpdateCourse) (*models.Course, error) {
	course, err := s.repo.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if course.CreatedBy != userUID {
		return nil, ErrNotOwner
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.Duration != nil {
		course.Duration = *req.Duration
	}
	if req.DurationUnit != nil {
		course.DurationUnit = *req.DurationUnit
	}
	if req.Category != nil {
		course.Category = *req.Category
	}
	if req.InstructorName != nil {
		course.InstructorName = *req.InstructorName
	}
	if req.Image != nil {
		if course.Image != nil && *course.Image != *req.Image {
			if err := s.media.Destroy(ctx, *course.Image); err != nil {
				s.log.Warn("failed to delete old course image",
					slog.String("course_id", id), sl.Err(err))
			}
		}
		if *req.Image == "" {
			course.Image = nil
		} else {
			course.Image = req.Image
		}
	}

	if _, err := s.repo.UpdateCourse(ctx, *course, id); err != nil {
		return nil, err
	}
	s.log.Info("updated course in storage", slog.String("id", id))

	cacheKey := fmt.Sprintf("course:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), sl.Err(err))
	}

	return s.repo.GetCourse(ctx, id)
}

// Remove удаляет курс вместе с его изображением. Доступно только владельцу.
// Ошибка удаления изображения логируется и не прерывает удаление записи.
func (s *CourseService) Remove(ctx context.Context, id, userUID string) (int, error) {
	course, err := s.repo.GetCourse(ctx, id)
	if err != nil {
		return 0, err
	}
	if course.CreatedBy != userUID {
		return 0, ErrNotOwner
	}

	if course.Image != nil {
		if err := s.media.Destroy(ctx, *course.Image); err != nil {
			s.log.Warn("failed to delete course image",
				slog.String("course_id", id), sl.Err(err))
		}
	}

	count, err := s.repo.DeleteCourse(ctx, id)
	if err != nil {
		return 0, err
	}

	cacheKey := fmt.Sprintf("course:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), sl.Err(err))
	}

	return count, nil
}
