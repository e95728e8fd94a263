package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/course-catalog/internal/models"
	"github.com/magabrotheeeer/course-catalog/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateCourse(ctx context.Context, course models.Course) (string, error) {
	args := m.Called(ctx, course)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}
func (m *RepoMock) GetCourseInfo(ctx context.Context, id string) (*models.CourseInfo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CourseInfo), args.Error(1)
}
func (m *RepoMock) ListCourses(ctx context.Context) ([]*models.CourseInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CourseInfo), args.Error(1)
}
func (m *RepoMock) UpdateCourse(ctx context.Context, course models.Course, id string) (int, error) {
	args := m.Called(ctx, course, id)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) DeleteCourse(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

type MediaMock struct{ mock.Mock }

func (m *MediaMock) Destroy(ctx context.Context, locator string) error {
	return m.Called(ctx, locator).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newService(repo *RepoMock, cache *CacheMock, media *MediaMock) *CourseService {
	return NewCourseService(repo, cache, media, newNoopLogger())
}

func strPtr(s string) *string    { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestCourseService_Create(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	media := new(MediaMock)
	service := newService(repo, cache, media)

	created := &models.Course{ID: "c1", Title: "Go Basics", CreatedBy: "uid-1"}

	repo.On("CreateCourse", mock.Anything, mock.MatchedBy(func(c models.Course) bool {
		// Владелец берется из аутентификации, единица длительности по умолчанию
		return c.CreatedBy == "uid-1" &&
			c.DurationUnit == models.DurationUnitHours &&
			c.Image == nil
	})).Return("c1", nil)
	repo.On("GetCourse", mock.Anything, "c1").Return(created, nil)

	course, err := service.Create(context.Background(), "uid-1", models.DummyCourse{
		Title:          "Go Basics",
		Description:    "Introduction",
		Price:          49.99,
		Duration:       6,
		Category:       "programming",
		InstructorName: "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "c1", course.ID)
	repo.AssertExpectations(t)
}

func TestCourseService_Read(t *testing.T) {
	info := &models.CourseInfo{
		Course:    models.Course{ID: "c1", Title: "Go Basics"},
		OwnerName: "Alice",
	}

	t.Run("cache miss falls back to repository", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		media := new(MediaMock)
		service := newService(repo, cache, media)

		cache.On("Get", "course:c1", mock.Anything).Return(false, nil)
		repo.On("GetCourseInfo", mock.Anything, "c1").Return(info, nil)
		cache.On("Set", "course:c1", info, time.Hour).Return(nil)

		got, err := service.Read(context.Background(), "c1")
		require.NoError(t, err)
		assert.Equal(t, "Go Basics", got.Title)
		cache.AssertExpectations(t)
	})

	t.Run("cache hit skips repository", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		media := new(MediaMock)
		service := newService(repo, cache, media)

		cache.On("Get", "course:c1", mock.Anything).
			Run(func(args mock.Arguments) {
				ptr := args.Get(1).(**models.CourseInfo)
				*ptr = info
			}).Return(true, nil)

		got, err := service.Read(context.Background(), "c1")
		require.NoError(t, err)
		assert.Equal(t, "Go Basics", got.Title)
		repo.AssertNotCalled(t, "GetCourseInfo", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		media := new(MediaMock)
		service := newService(repo, cache, media)

		cache.On("Get", "course:missing", mock.Anything).Return(false, nil)
		repo.On("GetCourseInfo", mock.Anything, "missing").Return(nil, repository.ErrNotFound)

		_, err := service.Read(context.Background(), "missing")
		require.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestCourseService_Update(t *testing.T) {
	oldImage := "http://s3/catalog/course-images/old.png"

	makeCourse := func() *models.Course {
		return &models.Course{
			ID:             "c1",
			Title:          "Go Basics",
			Description:    "Introduction",
			Price:          49.99,
			Duration:       6,
			DurationUnit:   models.DurationUnitWeeks,
			Category:       "programming",
			InstructorName: "Alice",
			Image:          &oldImage,
			CreatedBy:      "uid-1",
		}
	}

	t.Run("partial update keeps unset fields", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		media := new(MediaMock)
		service := newService(repo, cache, media)

		repo.On("GetCourse", mock.Anything, "c1").Return(makeCourse(), nil)
		repo.On("UpdateCourse", mock.Anything, mock.MatchedBy(func(c models.Course) bool {
			return c.Title == "Advanced Go" &&
				c.Price == 0 && // явный ноль применяется
				c.Description == "Introduction" &&
				c.DurationUnit == models.DurationUnitWeeks &&
				c.Image != nil && *c.Image == oldImage
		}), "c1").Return(1, nil)
		cache.On("Invalidate", "course:c1").Return(nil)

		_, err := service.Update(context.Background(), "c1", "uid-1", models.UpdateCourse{
			Title: strPtr("Advanced Go"),
			Price: floatPtr(0),
		})
		require.NoError(t, err)
		media.AssertNotCalled(t, "Destroy", mock.Anything, mock.Anything)
		repo.AssertExpectations(t)
	})

	t.Run("image replacement destroys old image", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		media := new(MediaMock)
		service := newService(repo, cache, media)

		newImage := "http://s3/catalog/course-images/new.png"

		repo.On("GetCourse", mock.Anything, "c1").Return(makeCourse(), nil)
		media.On("Destroy", mock.Anything, oldImage).Return(nil)
		repo.On("UpdateCourse", mock.Anything, mock.MatchedBy(func(c models.Course) bool {
			return c.Image != nil && *c.Image == newImage
		}), "c1").Return(1, nil)
		cache.On("Invalidate", "course:c1").Return(nil)

		_, err := service.Update(context.Background(), "c1", "uid-1", models.UpdateCourse{
			Image: strPtr(newImage),
		})
		require.NoError(t, err)
		media.AssertExpectations(t)
	})

	t.Run("image destroy failure does not abort update", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		media := new(MediaMock)
		service := newService(repo, cache, media)

		repo.On("GetCourse", mock.Anything, "c1").Return(makeCourse(), nil)
		media.On("Destroy", mock.Anything, oldImage).Return(errors.New("storage unavailable"))
		repo.On("UpdateCourse", mock.Anything, mock.Anything, "c1").Return(1, nil)
		cache.On("Invalidate", "course:c1").Return(nil)

		_, err := service.Update(context.Background(), "c1", "uid-1", models.UpdateCourse{
			Image: strPtr("http://s3/catalog/course-images/new.png"),
		})
		require.NoError(t, err)
	})

	t.Run("empty image clears the field", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		media := new(MediaMock)
		service := newService(repo, cache, media)

		repo.On("GetCourse", mock.Anything, "c1").Return(makeCourse(), nil)
		media.On("Destroy", mock.Anything, oldImage).Return(nil)
		repo.On("UpdateCourse", mock.Anything, mock.MatchedBy(func(c models.Course) bool {
			return c.Image == nil
		}), "c1").Return(1, nil)
		cache.On("Invalidate", "course:c1").Return(nil)

		_, err := service.Update(context.Background(), "c1", "uid-1", models.UpdateCourse{
			Image: strPtr(""),
		})
		require.NoError(t, err)
	})

	t.Run("not owner", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		media := new(MediaMock)
		service := newService(repo, cache, media)

		repo.On("GetCourse", mock.Anything, "c1").Return(makeCourse(), nil)

		_, err := service.Update(context.Background(), "c1", "uid-2", models.UpdateCourse{
			Title: strPtr("Hijacked"),
		})
		require.ErrorIs(t, err, ErrNotOwner)
		repo.AssertNotCalled(t, "UpdateCourse", mock.Anything, mock.Anything, mock.Anything)
		media.AssertNotCalled(t, "Destroy", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		media := new(MediaMock)
		service := newService(repo, cache, media)

		repo.On("GetCourse", mock.Anything, "missing").Return(nil, repository.ErrNotFound)

		_, err := service.Update(context.Background(), "missing", "uid-1", models.UpdateCourse{})
		require.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestCourseService_Remove(t *testing.T) {
	image := "http://s3/catalog/course-images/old.png"
	course := &models.Course{ID: "c1", Image: &image, CreatedBy: "uid-1"}

	t.Run("successful removal with image", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		media := new(MediaMock)
		service := newService(repo, cache, media)

		repo.On("GetCourse", mock.Anything, "c1").Return(course, nil)
		media.On("Destroy", mock.Anything, image).Return(nil)
		repo.On("DeleteCourse", mock.Anything, "c1").Return(1, nil)
		cache.On("Invalidate", "course:c1").Return(nil)

		count, err := service.Remove(context.Background(), "c1", "uid-1")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		media.AssertExpectations(t)
	})

	t.Run("image destroy failure does not abort removal", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		media := new(MediaMock)
		service := newService(repo, cache, media)

		repo.On("GetCourse", mock.Anything, "c1").Return(course, nil)
		media.On("Destroy", mock.Anything, image).Return(errors.New("storage unavailable"))
		repo.On("DeleteCourse", mock.Anything, "c1").Return(1, nil)
		cache.On("Invalidate", "course:c1").Return(nil)

		count, err := service.Remove(context.Background(), "c1", "uid-1")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("not owner", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		media := new(MediaMock)
		service := newService(repo, cache, media)

		repo.On("GetCourse", mock.Anything, "c1").Return(course, nil)

		_, err := service.Remove(context.Background(), "c1", "uid-2")
		require.ErrorIs(t, err, ErrNotOwner)
		repo.AssertNotCalled(t, "DeleteCourse", mock.Anything, mock.Anything)
		media.AssertNotCalled(t, "Destroy", mock.Anything, mock.Anything)
	})
}
